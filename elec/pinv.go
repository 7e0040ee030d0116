/*
 * pinv.go, part of goqmmm
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

package elec

import (
	"gonum.org/v1/gonum/mat"
)

//DefaultRcond is the default relative threshold for the singular values kept by Pinv.
const DefaultRcond = 1e-5

//Pinv returns the Moore-Penrose pseudo-inverse of A. Singular values smaller
//than rcond times the largest one are treated as 0, so rank deficient and
//underdetermined systems get the minimum norm solution.
func Pinv(A mat.Matrix, rcond float64) (*mat.Dense, error) {
	m, n := A.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return nil, Error{"goqmmm/elec: SVD factorization failed", []string{"Pinv"}, true}
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	ret := mat.NewDense(n, m, nil)
	if len(s) == 0 || s[0] == 0 {
		return ret, nil
	}
	cut := rcond * s[0]
	//A+ = V S+ U^T
	for k, sv := range s {
		if sv <= cut {
			break //the values are sorted in decreasing order
		}
		inv := 1 / sv
		for i := 0; i < n; i++ {
			vik := v.At(i, k) * inv
			if vik == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				ret.Set(i, j, ret.At(i, j)+vik*u.At(j, k))
			}
		}
	}
	return ret, nil
}

//PinvDiff returns the differential of the pseudo-inverse Ap of A along dA:
// -Ap dA Ap + Ap Ap^T dA^T (I - A Ap) + (I - Ap A) dA^T Ap^T Ap
//It is exact as long as the rank of A does not change.
func PinvDiff(A, Ap, dA mat.Matrix) *mat.Dense {
	m, n := A.Dims()
	var t1, tmp mat.Dense
	tmp.Mul(Ap, dA)
	t1.Mul(&tmp, Ap)
	t1.Scale(-1, &t1)

	var aap mat.Dense
	aap.Mul(A, Ap) //m x m
	proj := eye(m)
	proj.Sub(proj, &aap)
	var t2, tmp2 mat.Dense
	tmp.Reset()
	tmp.Mul(Ap, Ap.T())
	tmp2.Mul(&tmp, dA.T())
	t2.Mul(&tmp2, proj)

	var apa mat.Dense
	apa.Mul(Ap, A) //n x n
	proj2 := eye(n)
	proj2.Sub(proj2, &apa)
	var t3 mat.Dense
	tmp.Reset()
	tmp.Mul(proj2, dA.T())
	tmp2.Reset()
	tmp2.Mul(&tmp, Ap.T())
	t3.Mul(&tmp2, Ap)

	t1.Add(&t1, &t2)
	t1.Add(&t1, &t3)
	return &t1
}

//PinvAdjoint returns the m x n matrix G such that, for any dA,
//sum_ij G_ij dA_ij == x^T PinvDiff(A, Ap, dA) y. x has n elements and y m.
func PinvAdjoint(A, Ap mat.Matrix, x, y []float64) *mat.Dense {
	m, n := A.Dims()
	X := mat.NewVecDense(n, append([]float64(nil), x...))
	Y := mat.NewVecDense(m, append([]float64(nil), y...))
	var u, s, c, z, e, t mat.VecDense
	u.MulVec(Ap.T(), X) //m
	s.MulVec(Ap, Y)     //n
	c.MulVec(A, &s)
	c.SubVec(Y, &c) //m
	z.MulVec(Ap, &u) //n
	e.MulVec(A.T(), &u)
	e.SubVec(X, &e)     //n
	t.MulVec(Ap.T(), &s) //m
	G := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			G.Set(i, j, -u.AtVec(i)*s.AtVec(j)+c.AtVec(i)*z.AtVec(j)+t.AtVec(i)*e.AtVec(j))
		}
	}
	return G
}

func eye(n int) *mat.Dense {
	r := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		r.Set(i, i, 1)
	}
	return r
}
