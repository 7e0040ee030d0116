/*
 * plot.go, part of goqmmm
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

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/rmera/goqmmm/swplot"
	"github.com/rmera/goqmmm/switching"
)

//PlotCommand draws the switching functions for a cutoff.
type PlotCommand struct {
	Ui cli.Ui
}

func (c *PlotCommand) Help() string {
	return strings.TrimSpace(`
Usage: goqmmm plot [options] [kind ...]

  Plots the given switching functions (shift, switch, lrec), and their
  derivatives. All of them are plotted if no kind is given.

Options:

  -cutoff=10        Cutoff in A.
  -swdist=0         Distance where the switch function starts to act.
                    0 means 0.75 times the cutoff.
  -out=switching.png  Output file. The format is taken from the extension.
`)
}

func (c *PlotCommand) Synopsis() string { return "Plots the switching functions" }

func (c *PlotCommand) Run(args []string) int {
	var cutoff, swdist float64
	var out string
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.Usage = func() { c.Ui.Error(c.Help()) }
	fs.Float64Var(&cutoff, "cutoff", 10, "cutoff")
	fs.Float64Var(&swdist, "swdist", 0, "switching distance")
	fs.StringVar(&out, "out", "switching.png", "output file")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	names := fs.Args()
	if len(names) == 0 {
		names = []string{switching.Shift.String(), switching.Switch.String(), switching.Lrec.String()}
	}
	var functions []switching.Function
	for _, n := range names {
		k, err := switching.ParseKind(n)
		if err != nil {
			c.Ui.Error(err.Error())
			return 1
		}
		F, err := switching.New(k, cutoff, swdist)
		if err != nil {
			c.Ui.Error(err.Error())
			return 1
		}
		functions = append(functions, F)
	}
	title := fmt.Sprintf("Switching functions, cutoff %.1f A", cutoff)
	if err := swplot.Save(out, title, functions...); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	c.Ui.Info("Plot written to " + out)
	return 0
}
