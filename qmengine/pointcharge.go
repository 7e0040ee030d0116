/*
 * pointcharge.go, part of goqmmm
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

package qmengine

import (
	"context"
	"math"

	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//PointCharge is a classical stand-in for a QM program: each QM atom carries a fixed
//charge that interacts with the embedding charges through Coulomb's law. The QM atoms
//are also joined to each other by harmonic springs of constant Spring (Hartree/Bohr^2)
//and rest length Rest (Bohr), so the QM gradient is not only electrostatic.
//It is meant for tests and dry runs.
type PointCharge struct {
	Charges []float64 //one per QM atom. Missing charges are taken as 0
	Spring  float64
	Rest    float64
}

func (p PointCharge) charge(i int) float64 {
	if i < len(p.Charges) {
		return p.Charges[i]
	}
	return 0
}

func toBohr(A *v3.Matrix, i int) [3]float64 {
	var r [3]float64
	for c := 0; c < 3; c++ {
		r[c] = A.At(i, c) / units.BohrInAngstrom
	}
	return r
}

func (p PointCharge) Compute(ctx context.Context, in Input) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	out := ZeroOutput(in)
	nq, ne := in.NQM(), in.NEmb()
	esp := out.ESP.Data()
	for i := 0; i < nq; i++ {
		Z := p.charge(i)
		R := toBohr(in.QM, i)
		for j := 0; j < ne; j++ {
			r := toBohr(in.Embedding, j)
			var x [3]float64 //r_j - R_i
			d2 := 0.0
			for c := range x {
				x[c] = r[c] - R[c]
				d2 += x[c] * x[c]
			}
			d := math.Sqrt(d2)
			if d == 0 {
				continue
			}
			d3 := d2 * d
			out.Energy += Z * in.Charges[j] / d
			esp[j] += Z / d
			for c := 0; c < 3; c++ {
				//d(1/d)/dR_i = x/d^3 and d(1/d)/dr_j = -x/d^3
				out.Gradient.Set(i, c, out.Gradient.At(i, c)+Z*in.Charges[j]*x[c]/d3)
				esp[(c+1)*ne+j] -= Z * x[c] / d3
			}
		}
	}
	if p.Spring == 0 {
		return out, nil
	}
	for i := 0; i < nq; i++ {
		Ri := toBohr(in.QM, i)
		for k := i + 1; k < nq; k++ {
			Rk := toBohr(in.QM, k)
			var x [3]float64
			d2 := 0.0
			for c := range x {
				x[c] = Ri[c] - Rk[c]
				d2 += x[c] * x[c]
			}
			d := math.Sqrt(d2)
			dev := d - p.Rest
			out.Energy += 0.5 * p.Spring * dev * dev
			if d == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				g := p.Spring * dev * x[c] / d
				out.Gradient.Set(i, c, out.Gradient.At(i, c)+g)
				out.Gradient.Set(k, c, out.Gradient.At(k, c)-g)
			}
		}
	}
	return out, nil
}
