/*
 * grid.go, part of goqmmm
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

	"github.com/mjibson/go-dsp/fft"
)

//grid is a 3D complex grid, row-major, with the last axis varying fastest.
type grid struct {
	dims [3]int
	data []complex128
}

func newGrid(dims [3]int) *grid {
	return &grid{dims: dims, data: make([]complex128, dims[0]*dims[1]*dims[2])}
}

func (g *grid) index(a, b, c int) int {
	return (a*g.dims[1]+b)*g.dims[2] + c
}

//transform applies the forward FFT along each of the three axes, in place.
func (g *grid) transform() {
	K := g.dims
	line := make([]complex128, 0, max(K[0], max(K[1], K[2])))
	//last axis
	for a := 0; a < K[0]; a++ {
		for b := 0; b < K[1]; b++ {
			i := g.index(a, b, 0)
			copy(g.data[i:i+K[2]], fft.FFT(g.data[i:i+K[2]]))
		}
	}
	//middle axis
	for a := 0; a < K[0]; a++ {
		for c := 0; c < K[2]; c++ {
			line = line[:0]
			for b := 0; b < K[1]; b++ {
				line = append(line, g.data[g.index(a, b, c)])
			}
			out := fft.FFT(line)
			for b := 0; b < K[1]; b++ {
				g.data[g.index(a, b, c)] = out[b]
			}
		}
	}
	//first axis
	for b := 0; b < K[1]; b++ {
		for c := 0; c < K[2]; c++ {
			line = line[:0]
			for a := 0; a < K[0]; a++ {
				line = append(line, g.data[g.index(a, b, c)])
			}
			out := fft.FFT(line)
			for a := 0; a < K[0]; a++ {
				g.data[g.index(a, b, c)] = out[a]
			}
		}
	}
}

//inverse applies the unnormalized inverse transform, in place.
func (g *grid) inverse() {
	for i, v := range g.data {
		g.data[i] = cmplx.Conj(v)
	}
	g.transform()
	for i, v := range g.data {
		g.data[i] = cmplx.Conj(v)
	}
}

//FFTSize returns the smallest integer not smaller than n whose only prime
//factors are 2, 3 and 5.
func FFTSize(n int) int {
	if n < 1 {
		n = 1
	}
	for ; ; n++ {
		m := n
		for _, p := range []int{2, 3, 5} {
			for m%p == 0 {
				m /= p
			}
		}
		if m == 1 {
			return n
		}
	}
}

//AlphaForCutoff returns the smallest damping parameter (within bisection
//accuracy) for which erfc(alpha*cutoff)/cutoff < tol.
func AlphaForCutoff(cutoff, tol float64) float64 {
	f := func(a float64) bool { return math.Erfc(a*cutoff)/cutoff >= tol }
	lo, hi := 0.0, 1.0
	for f(hi) {
		lo = hi
		hi *= 2
	}
	for i := 0; i < 100; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
