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

package geom

import (
	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//Geometry holds the graph nodes for the geometric quantities between a set of
//QM atoms and a set of environment atoms.
type Geometry struct {
	Rij                dep.Node[*tensor.Dense]
	Dij2               dep.Node[*tensor.Dense]
	Dij                dep.Node[*tensor.Dense]
	DijGradient        dep.Node[*tensor.Dense]
	DijInverse         dep.Node[*tensor.Dense]
	DijInverseGradient dep.Node[*tensor.Dense]
	DijMin             dep.Node[[]float64]
	DijMinGradient     dep.Node[*tensor.Dense]
	beta               float64
}

//New adds the geometry nodes to g, built on top of the qm and env coordinate nodes.
func New(g *dep.Graph, qm, env dep.Node[*v3.Matrix], beta float64) *Geometry {
	G := &Geometry{beta: beta}
	G.Rij = dep.New(g, "rij", func() (*tensor.Dense, error) {
		return Rij(qm.Val(), env.Val()), nil
	}, qm, env)
	G.Dij2 = dep.New(g, "dij2", func() (*tensor.Dense, error) {
		return Dij2(G.Rij.Val()), nil
	}, G.Rij)
	G.Dij = dep.New(g, "dij", func() (*tensor.Dense, error) {
		return Dij(G.Dij2.Val()), nil
	}, G.Dij2)
	G.DijGradient = dep.New(g, "dij_gradient", func() (*tensor.Dense, error) {
		return DijGradient(G.Rij.Val(), G.Dij.Val()), nil
	}, G.Rij, G.Dij)
	G.DijInverse = dep.New(g, "dij_inverse", func() (*tensor.Dense, error) {
		return DijInverse(G.Dij.Val()), nil
	}, G.Dij)
	G.DijInverseGradient = dep.New(g, "dij_inverse_gradient", func() (*tensor.Dense, error) {
		return DijInverseGradient(G.DijInverse.Val(), G.DijGradient.Val()), nil
	}, G.DijInverse, G.DijGradient)
	G.DijMin = dep.New(g, "dij_min", func() ([]float64, error) {
		return DijMin(G.DijInverse.Val(), G.beta), nil
	}, G.DijInverse)
	G.DijMinGradient = dep.New(g, "dij_min_gradient", func() (*tensor.Dense, error) {
		return DijMinGradient(G.DijInverse.Val(), G.DijInverseGradient.Val(), G.DijMin.Val(), G.beta), nil
	}, G.DijInverse, G.DijInverseGradient, G.DijMin)
	return G
}

//Beta returns the sharpness of the soft minimum.
func (G *Geometry) Beta() float64 {
	return G.beta
}
