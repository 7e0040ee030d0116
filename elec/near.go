/*
 * near.go, part of goqmmm
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

//Package elec builds the near-field part of the QM/MM electrostatic embedding:
//the partition of the environment into excluded, near and far atoms, the
//switched coupling tensor between near-field charges and the QM sites, and
//its pseudo-inverse.
package elec

import (
	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/geom"
	"github.com/rmera/goqmmm/switching"
	"github.com/rmera/goqmmm/tensor"
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//ExclusionRadius is the soft-minimum distance under which an environment atom is
//considered bonded to the QM region.
const ExclusionRadius = switching.ExclusionRadius

//Coulomb is the Coulomb constant in kcal*Angstrom/(mol*e^2)
const Coulomb = units.CoulombConstant

//Sets contains the environment atoms excluded from the electrostatics, and those
//in the near field, in increasing order.
type Sets struct {
	Excluded []int
	Near     []int
}

//Partition splits the environment atoms according to their soft-minimum distance
//to the QM region.
func Partition(dmin []float64, cutoff float64) Sets {
	var s Sets
	for j, d := range dmin {
		switch {
		case d < ExclusionRadius:
			s.Excluded = append(s.Excluded, j)
		case d < cutoff:
			s.Near = append(s.Near, j)
		}
	}
	return s
}

//NearField contains the graph nodes of the near-field coupling. Tensors along
//the environment axis only cover the near-field atoms.
type NearField struct {
	Sets               dep.Node[Sets]
	Positions          dep.Node[*v3.Matrix]    //NNear x 3
	Charges            dep.Node[[]float64]     //NNear
	Scale              dep.Node[[]float64]     //NNear
	ScaleGradient      dep.Node[*tensor.Dense] //3 x NQM x NNear
	DijInverse         dep.Node[*tensor.Dense] //NQM x NNear, no infinities
	DijInverseGradient dep.Node[*tensor.Dense] //3 x NQM x NNear
	Coupling           dep.Node[*tensor.Dense] //4 x NQM x NNear
	CouplingPinv       dep.Node[*tensor.Dense] //NNear x NQM
	ScaledESP          dep.Node[*tensor.Dense] //4 x NQM
}

//NewNearField adds the near-field nodes to g. scale and scaleGrad are the switching
//factors, and their gradients, for all the environment atoms.
func NewNearField(g *dep.Graph, G *geom.Geometry, env dep.Node[*v3.Matrix], charges dep.Node[[]float64], scale dep.Node[[]float64], scaleGrad dep.Node[*tensor.Dense], cutoff, rcond float64) *NearField {
	N := new(NearField)
	N.Sets = dep.New(g, "exclusion_sets", func() (Sets, error) {
		return Partition(G.DijMin.Val(), cutoff), nil
	}, G.DijMin)
	N.Positions = dep.New(g, "near_positions", func() (*v3.Matrix, error) {
		near := N.Sets.Val().Near
		r := v3.Zeros(len(near))
		if len(near) > 0 {
			r.SomeVecs(env.Val(), near)
		}
		return r, nil
	}, N.Sets, env)
	N.Charges = dep.New(g, "near_charges", func() ([]float64, error) {
		return take(charges.Val(), N.Sets.Val().Near), nil
	}, N.Sets, charges)
	N.Scale = dep.New(g, "near_scale", func() ([]float64, error) {
		return take(scale.Val(), N.Sets.Val().Near), nil
	}, N.Sets, scale)
	N.ScaleGradient = dep.New(g, "near_scale_gradient", func() (*tensor.Dense, error) {
		return scaleGrad.Val().Take(N.Sets.Val().Near), nil
	}, N.Sets, scaleGrad)
	N.DijInverse = dep.New(g, "near_dij_inverse", func() (*tensor.Dense, error) {
		r := G.DijInverse.Val().Take(N.Sets.Val().Near)
		r.NanToNum()
		return r, nil
	}, N.Sets, G.DijInverse)
	N.DijInverseGradient = dep.New(g, "near_dij_inverse_gradient", func() (*tensor.Dense, error) {
		r := G.DijInverseGradient.Val().Take(N.Sets.Val().Near)
		r.NanToNum()
		return r, nil
	}, N.Sets, G.DijInverseGradient)
	N.Coupling = dep.New(g, "coupling", func() (*tensor.Dense, error) {
		return Coupling(N.DijInverse.Val(), N.DijInverseGradient.Val(), N.Scale.Val(), N.ScaleGradient.Val()), nil
	}, N.DijInverse, N.DijInverseGradient, N.Scale, N.ScaleGradient)
	N.CouplingPinv = dep.New(g, "coupling_pinv", func() (*tensor.Dense, error) {
		T := N.Coupling.Val()
		nq, nn := T.Dim(1), T.Dim(2)
		if nq == 0 || nn == 0 {
			return tensor.New(nn, nq), nil
		}
		p, err := Pinv(T.Slab(0).Matrix(), rcond)
		if err != nil {
			return nil, err
		}
		return tensor.FromMatrix(p), nil
	}, N.Coupling)
	N.ScaledESP = dep.New(g, "qm_scaled_esp", func() (*tensor.Dense, error) {
		return Apply(N.Coupling.Val(), N.Charges.Val()), nil
	}, N.Coupling, N.Charges)
	return N
}

//Coupling builds the 4 x NQM x NNear tensor mapping near-field charges to the
//potential at the QM sites (component 0) and its gradient with respect to the
//QM site (components 1 to 3).
func Coupling(dinv, dinvGrad *tensor.Dense, scale []float64, scaleGrad *tensor.Dense) *tensor.Dense {
	nq, nn := dinv.Dim(0), dinv.Dim(1)
	T := tensor.New(4, nq, nn)
	t := T.Data()
	di := dinv.Data()
	dg := dinvGrad.Data()
	sg := scaleGrad.Data()
	n := nq * nn
	for k := 0; k < n; k++ {
		w := scale[k%nn]
		t[k] = Coulomb * di[k] * w
		for c := 0; c < 3; c++ {
			t[(c+1)*n+k] = -Coulomb * (dg[c*n+k]*w + di[k]*sg[c*n+k])
		}
	}
	return T
}

//Apply contracts the last axis of the 4 x NQM x N tensor T with q.
func Apply(T *tensor.Dense, q []float64) *tensor.Dense {
	nq, nn := T.Dim(1), T.Dim(2)
	r := tensor.New(4, nq)
	t := T.Data()
	d := r.Data()
	for k := 0; k < 4*nq; k++ {
		s := 0.0
		row := t[k*nn : (k+1)*nn]
		for j, v := range q {
			s += row[j] * v
		}
		d[k] = s
	}
	return r
}

func take(v []float64, idx []int) []float64 {
	r := make([]float64, len(idx))
	for k, i := range idx {
		r[k] = v[i]
	}
	return r
}
