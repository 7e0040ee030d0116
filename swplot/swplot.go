/*
 * swplot.go, part of goqmmm
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package swplot draws the switching functions and their derivatives, which is
//handy to pick a cutoff and a switching distance for a given system.
package swplot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rmera/goqmmm/switching"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//DefaultPoints is the number of samples taken for each curve.
const DefaultPoints = 200

//Sample evaluates F and its derivative at n evenly spaced distances between 0
//and 10% beyond the cutoff of F.
func Sample(F switching.Function, n int) (value, deriv plotter.XYs) {
	if n < 2 {
		n = 2
	}
	max := 1.1 * F.Cutoff()
	step := max / float64(n-1)
	value = make(plotter.XYs, n)
	deriv = make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		d := float64(i) * step
		value[i].X = d
		value[i].Y = F.Value(d)
		deriv[i].X = d
		deriv[i].Y = F.Derivative(d)
	}
	return value, deriv
}

func label(F switching.Function) string {
	if F.Kind() == switching.Switch {
		return fmt.Sprintf("%s (%.1f-%.1f)", F.Kind(), F.Swdist(), F.Cutoff())
	}
	return fmt.Sprintf("%s (%.1f)", F.Kind(), F.Cutoff())
}

//Plot returns a plot with one solid line per function, for the scaling factor,
//and a dashed line of the same color for its derivative.
func Plot(title string, functions ...switching.Function) (*plot.Plot, error) {
	if len(functions) == 0 {
		return nil, Error{"goqmmm/swplot: no functions to plot", []string{"Plot"}, true}
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Distance (A)"
	p.Y.Label.Text = "Scale"
	p.Y.Min = -1
	p.Y.Max = 1.1
	p.Add(plotter.NewGrid())
	for i, F := range functions {
		value, deriv := Sample(F, DefaultPoints)
		l, err := plotter.NewLine(value)
		if err != nil {
			return nil, errDecorate(err, "Plot")
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1.5)
		dl, err := plotter.NewLine(deriv)
		if err != nil {
			return nil, errDecorate(err, "Plot")
		}
		dl.LineStyle.Color = plotutil.Color(i)
		dl.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l, dl)
		name := label(F)
		p.Legend.Add(name, l)
		p.Legend.Add("d "+name, dl)
	}
	p.Legend.Top = true
	return p, nil
}

//Save writes the plot for functions to filename. The format is taken from
//the extension, png if there is none.
func Save(filename, title string, functions ...switching.Function) error {
	p, err := Plot(title, functions...)
	if err != nil {
		return errDecorate(err, "Save")
	}
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return Error{fmt.Sprintf("goqmmm/swplot: unsupported plot format %q", filepath.Ext(filename)), []string{"Save"}, true}
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errDecorate(err, "Save")
	}
	return nil
}
