/*
 * nodes.go, part of goqmmm
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

package switching

import (
	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/tensor"
)

//Scale applies F to each soft-minimum distance.
func (F Function) Scale(dmin []float64) []float64 {
	r := make([]float64, len(dmin))
	for j, d := range dmin {
		r[j] = F.Value(d)
	}
	return r
}

//ScaleGradient returns the 3 x NQM x NEnv tensor S'(dmin_j)*dmin_gradient[:,i,j].
func (F Function) ScaleGradient(dmin []float64, dminGrad *tensor.Dense) *tensor.Dense {
	r := dminGrad.Clone()
	d := r.Data()
	ne := dminGrad.Dim(2)
	for k := range d {
		d[k] *= F.Derivative(dmin[k%ne])
	}
	return r
}

//Nodes adds to g the nodes with the switching factor of every environment
//atom and its gradient.
func Nodes(g *dep.Graph, F Function, dmin dep.Node[[]float64], dminGrad dep.Node[*tensor.Dense]) (dep.Node[[]float64], dep.Node[*tensor.Dense]) {
	scale := dep.New(g, "scale", func() ([]float64, error) {
		return F.Scale(dmin.Val()), nil
	}, dmin)
	grad := dep.New(g, "scale_gradient", func() (*tensor.Dense, error) {
		return F.ScaleGradient(dmin.Val(), dminGrad.Val()), nil
	}, dmin, dminGrad)
	return scale, grad
}
