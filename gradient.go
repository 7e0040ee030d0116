/*
 * gradient.go, part of goqmmm
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

package qmmm

import (
	"github.com/rmera/goqmmm/elec"
	"github.com/rmera/goqmmm/tensor"
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//project returns Tinv (full[0] - scaled[0]).
func project(Tinv, full, scaled *tensor.Dense) []float64 {
	nn, nq := Tinv.Dim(0), Tinv.Dim(1)
	s := make([]float64, nn)
	if nn == 0 || nq == 0 {
		return s
	}
	r := residual(full, scaled)
	t := Tinv.Data()
	for k := range s {
		s[k] = floats.Dot(t[k*nq:(k+1)*nq], r)
	}
	return s
}

//residual returns full[0]-scaled[0], the part of the QM-site potential that
//the scaled near field charges miss.
func residual(full, scaled *tensor.Dense) []float64 {
	nq := full.Dim(1)
	r := make([]float64, nq)
	floats.SubTo(r, full.Data()[:nq], scaled.Data()[:nq])
	return r
}

//embeddingCharges returns w*(q+s).
func embeddingCharges(w, q, s []float64) []float64 {
	r := make([]float64, len(w))
	floats.AddTo(r, q, s)
	floats.Mul(r, w)
	return r
}

//gradient assembles the gradient of the QM/MM energy with respect to all the atom
//positions. The QM energy depends on the positions directly (QM atoms), through the
//positions of the embedding charges, and through the values of the embedding charges.
//The latter depend on the switching factors, on the coupling matrix and its
//pseudo-inverse, and on the far field potential at the QM sites.
func (M *Model) gradient() (*v3.Matrix, error) {
	out := M.QMOutput.Val()
	in := M.QMInput.Val()
	if err := out.Check(in); err != nil {
		return nil, errDecorate(err, "gradient")
	}
	nq := M.nqm
	near := M.Near.Sets.Val().Near
	nn := len(near)
	grad := v3.Zeros(M.nall)
	addTo := func(i, c int, v float64) {
		grad.Set(i, c, grad.At(i, c)+v)
	}
	//direct QM gradient
	for i := 0; i < nq; i++ {
		for c := 0; c < 3; c++ {
			addTo(i, c, out.Gradient.At(i, c)*units.ForceAUInIU)
		}
	}
	qemb := M.EmbeddingCharges.Val()
	mmesp := out.ESP.Data() //4 x nn, a.u.
	//the embedding charges feel the field of the QM region
	for k, j := range near {
		for c := 0; c < 3; c++ {
			addTo(j, c, qemb[k]*mmesp[(c+1)*nn+k]*units.ForceAUInIU)
		}
	}
	u := make([]float64, nq)
	if nn > 0 {
		w := M.Near.Scale.Val()
		q := M.Near.Charges.Val()
		s := M.Projected.Val()
		Tinv := M.Near.CouplingPinv.Val()
		T := M.Near.Coupling.Val()
		dinv := M.Near.DijInverse.Val().Data()
		dinvGrad := M.Near.DijInverseGradient.Val().Data()
		wGrad := M.Near.ScaleGradient.Val().Data()
		r0 := residual(M.FullESP.Val(), M.Near.ScaledESP.Val())
		//a = dE/dqemb * dqemb/ds
		a := make([]float64, nn)
		for k := range a {
			a[k] = mmesp[k] * units.HartreeInKcalPerMole * w[k]
		}
		//u = Tinv^T a is the sensitivity of the energy to the residual potential
		uv := mat.NewVecDense(nq, u)
		uv.MulVec(Tinv.Matrix().T(), mat.NewVecDense(nn, a))
		A := T.Slab(0).Matrix()
		G := elec.PinvAdjoint(A, Tinv.Matrix(), a, r0)
		//dE/dA_ik = G_ik - u_i q_k, and A_ik = K dinv_ik w_k
		alpha := make([]float64, nn)
		beta := make([]float64, nq*nn)
		for k := 0; k < nn; k++ {
			alpha[k] = mmesp[k] * units.HartreeInKcalPerMole * (q[k] + s[k])
		}
		for i := 0; i < nq; i++ {
			for k := 0; k < nn; k++ {
				dA := G.At(i, k) - u[i]*q[k]
				alpha[k] += elec.Coulomb * dinv[i*nn+k] * dA
				beta[i*nn+k] = elec.Coulomb * w[k] * dA
			}
		}
		//the kernels give gradients with respect to the environment atom, the
		//QM atom gets the opposite.
		for c := 0; c < 3; c++ {
			for i := 0; i < nq; i++ {
				for k, j := range near {
					idx := (c*nq+i)*nn + k
					v := alpha[k]*wGrad[idx] + beta[i*nn+k]*dinvGrad[idx]
					addTo(j, c, v)
					addTo(i, c, -v)
				}
			}
		}
	}
	//far field, through the residual potential at the QM sites
	full := M.FullESP.Val().Data()
	for i := 0; i < nq; i++ {
		for c := 0; c < 3; c++ {
			addTo(i, c, u[i]*full[(c+1)*nq+i])
		}
	}
	fg, err := M.Field.Val().SourceGradient(u)
	if err != nil {
		return nil, errDecorate(err, "gradient")
	}
	grad.Add(grad, fg)
	return grad, nil
}
