/*
 * geom.go, part of goqmmm
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

//Package geom computes the pairwise QM/environment geometric quantities used
//by the electrostatic embedding: displacements, distances, inverse distances,
//their gradients, and a smooth ("soft") minimum distance from each environment
//atom to the QM region.
//
//Pairwise tensors are indexed [component, i, j] or [i, j], with i running over
//QM atoms and j over environment atoms. Gradients are taken with respect to
//the position of the environment atom j. The gradient with respect to the
//QM atom i is the negative of it.
package geom

import (
	"math"

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//DefaultBeta is the default sharpness of the soft minimum.
const DefaultBeta = 500.0

//Rij returns the 3 x NQM x NEnv tensor of displacements r_j - R_i
func Rij(qm, env *v3.Matrix) *tensor.Dense {
	nq := qm.NVecs()
	ne := env.NVecs()
	r := tensor.New(3, nq, ne)
	d := r.Data()
	for c := 0; c < 3; c++ {
		for i := 0; i < nq; i++ {
			qc := qm.At(i, c)
			row := d[(c*nq+i)*ne : (c*nq+i+1)*ne]
			for j := range row {
				row[j] = env.At(j, c) - qc
			}
		}
	}
	return r
}

//Dij2 returns the NQM x NEnv squared distances from a displacement tensor.
func Dij2(rij *tensor.Dense) *tensor.Dense {
	nq, ne := rij.Dim(1), rij.Dim(2)
	r := tensor.New(nq, ne)
	d := r.Data()
	src := rij.Data()
	n := nq * ne
	for c := 0; c < 3; c++ {
		for k := 0; k < n; k++ {
			d[k] += src[c*n+k] * src[c*n+k]
		}
	}
	return r
}

//Dij returns the NQM x NEnv distances from the squared distances.
func Dij(dij2 *tensor.Dense) *tensor.Dense {
	r := dij2.Clone()
	for k, v := range r.Data() {
		r.Data()[k] = math.Sqrt(v)
	}
	return r
}

//DijGradient returns rij/dij, with 0/0 taken as 0.
func DijGradient(rij, dij *tensor.Dense) *tensor.Dense {
	r := rij.Clone()
	d := r.Data()
	dd := dij.Data()
	n := len(dd)
	for c := 0; c < 3; c++ {
		for k, v := range dd {
			if v == 0 {
				d[c*n+k] = 0
				continue
			}
			d[c*n+k] /= v
		}
	}
	return r
}

//DijInverse returns 1/dij. Coincident atoms give +Inf, which the users of this
//tensor need to filter.
func DijInverse(dij *tensor.Dense) *tensor.Dense {
	r := dij.Clone()
	d := r.Data()
	for k, v := range d {
		d[k] = 1 / v
	}
	return r
}

//DijInverseGradient returns the gradient of 1/dij, i.e. -dgrad/dij^2, and 0 for coincident atoms.
func DijInverseGradient(dinv, dgrad *tensor.Dense) *tensor.Dense {
	r := dgrad.Clone()
	d := r.Data()
	inv := dinv.Data()
	n := len(inv)
	for c := 0; c < 3; c++ {
		for k, v := range inv {
			if math.IsInf(v, 0) {
				d[c*n+k] = 0
				continue
			}
			d[c*n+k] *= -v * v
		}
	}
	return r
}

//DijMin returns, for each environment atom, beta/logsumexp_i(beta/dij), a
//differentiable approximation to the minimum distance to any QM atom.
//Environment atoms that coincide with a QM atom get 0.
func DijMin(dinv *tensor.Dense, beta float64) []float64 {
	nq, ne := dinv.Dim(0), dinv.Dim(1)
	inv := dinv.Data()
	ret := make([]float64, ne)
	for j := 0; j < ne; j++ {
		m := math.Inf(-1)
		for i := 0; i < nq; i++ {
			m = math.Max(m, beta*inv[i*ne+j])
		}
		if math.IsInf(m, 1) {
			continue
		}
		s := 0.0
		for i := 0; i < nq; i++ {
			s += math.Exp(beta*inv[i*ne+j] - m)
		}
		ret[j] = beta / (m + math.Log(s))
	}
	return ret
}

//DijMinGradient returns the 3 x NQM x NEnv tensor with the contribution of each QM
//atom to the gradient of DijMin. Summing over i gives the gradient with respect to
//the environment atom.
func DijMinGradient(dinv, dinvgrad *tensor.Dense, dmin []float64, beta float64) *tensor.Dense {
	nq, ne := dinv.Dim(0), dinv.Dim(1)
	r := tensor.New(3, nq, ne)
	d := r.Data()
	inv := dinv.Data()
	g := dinvgrad.Data()
	n := nq * ne
	for j := 0; j < ne; j++ {
		if dmin[j] == 0 {
			continue
		}
		lse := beta / dmin[j]
		for i := 0; i < nq; i++ {
			k := i*ne + j
			w := math.Exp(beta*inv[k] - lse)
			f := -dmin[j] * dmin[j] * w
			for c := 0; c < 3; c++ {
				d[c*n+k] = f * g[c*n+k]
			}
		}
	}
	return r
}
