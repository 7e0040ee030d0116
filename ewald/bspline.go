/*
 * bspline.go, part of goqmmm
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

package ewald

import (
	"math"
	"math/cmplx"
)

//splines returns M_n(w+t) and dM_n/dx(w+t) for t=0..n-1, where M_n is the
//cardinal B-spline of order n and 0 <= w < 1.
func splines(w float64, n int) ([]float64, []float64) {
	m := make([]float64, n)
	dm := make([]float64, n)
	//order 2
	m[0] = w
	m[1] = 1 - w
	for k := 3; k <= n; k++ {
		if k == n {
			//derivatives from the order n-1 values
			dm[0] = m[0]
			for t := 1; t < n-1; t++ {
				dm[t] = m[t] - m[t-1]
			}
			dm[n-1] = -m[n-2]
		}
		div := 1 / float64(k-1)
		m[k-1] = div * (float64(k) - w - float64(k-1)) * m[k-2]
		for t := k - 2; t >= 1; t-- {
			x := w + float64(t)
			m[t] = div * (x*m[t] + (float64(k)-x)*m[t-1])
		}
		m[0] = div * w * m[0]
	}
	if n == 2 {
		dm[0] = 1
		dm[1] = -1
	}
	return m, dm
}

//bsplineModuli returns |b(m)|^2 for m=0..K-1 for splines of order n along an
//axis with K grid points.
func bsplineModuli(K, n int) []float64 {
	vals, _ := splines(0, n) //M_n(t), t=0..n-1
	ret := make([]float64, K)
	for m := 0; m < K; m++ {
		var den complex128
		for k := 0; k <= n-2; k++ {
			den += complex(vals[k+1], 0) * cmplx.Exp(complex(0, 2*math.Pi*float64(m*k)/float64(K)))
		}
		a := cmplx.Abs(den)
		if a < 1e-7 {
			ret[m] = -1
			continue
		}
		ret[m] = 1 / (a * a)
	}
	//the modulus vanishes at m=K/2 for odd orders. Use the neighbours there.
	for m, v := range ret {
		if v >= 0 {
			continue
		}
		l := ret[(m-1+K)%K]
		r := ret[(m+1)%K]
		ret[m] = 0.5 * (math.Max(l, 0) + math.Max(r, 0))
	}
	return ret
}
