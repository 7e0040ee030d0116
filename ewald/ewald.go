/*
 * ewald.go, part of goqmmm
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
	"fmt"
	"math"

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
	"gonum.org/v1/gonum/mat"
)

//DefaultEwaldTol is the default accuracy of the explicit Ewald sums.
const DefaultEwaldTol = 1e-6

//Ewald is the explicit Ewald summation, with real and reciprocal lattice sums.
type Ewald struct {
	Tol float64
}

func (Ewald) Name() string { return "ewald" }

//Bind returns the Ewald kernel for the given cell, whose rows are the lattice vectors.
func (e Ewald) Bind(cell *v3.Matrix) (Kernel, error) {
	if !Periodic(cell) {
		return nil, Error{"goqmmm/ewald: Ewald summation needs a non-degenerate cell", []string{"Ewald.Bind"}, true}
	}
	tol := e.Tol
	if tol <= 0 {
		tol = DefaultEwaldTol
	}
	if tol >= 1 {
		return nil, Error{fmt.Sprintf("goqmmm/ewald: tolerance must be smaller than 1, got %g", tol), []string{"Ewald.Bind"}, true}
	}
	k := &ewaldKernel{tol: tol, cell: cell.Clone()}
	k.setup()
	return k, nil
}

type ewaldKernel struct {
	tol    float64
	cell   *v3.Matrix
	alpha  float64
	volume float64
	real   [][3]float64 //real space lattice vectors, the 0 vector first
	recip  [][3]float64 //reciprocal vectors, without 0
	rfac   []float64    //(4pi/V) exp(-k^2/4alpha^2)/k^2 for each reciprocal vector
}

func (k *ewaldKernel) setup() {
	threshold := math.Sqrt(-math.Log(k.tol))
	diag := [3]float64{k.cell.At(0, 0), k.cell.At(1, 1), k.cell.At(2, 2)}
	maxdiag := math.Max(math.Abs(diag[0]), math.Max(math.Abs(diag[1]), math.Abs(diag[2])))
	k.alpha = threshold / maxdiag
	k.volume = math.Abs(v3.Det(k.cell))

	var inv mat.Dense
	if err := inv.Inverse(k.cell.Dense); err != nil {
		//Periodic already checked the determinant.
		panic(err)
	}
	recip := mat.NewDense(3, 3, nil)
	recip.Scale(2*math.Pi, inv.T())
	rdiag := [3]float64{recip.At(0, 0), recip.At(1, 1), recip.At(2, 2)}

	var nmax, kmax [3]int
	rlim, klim := 0.0, 0.0
	for a := 0; a < 3; a++ {
		nmax[a] = int(math.Ceil(threshold / k.alpha / math.Abs(diag[a])))
		kmax[a] = int(math.Ceil(2 * threshold * k.alpha / math.Abs(rdiag[a])))
		rlim = math.Max(rlim, float64(nmax[a])*math.Abs(diag[a]))
		klim = math.Max(klim, float64(kmax[a])*math.Abs(rdiag[a]))
	}
	k.real = lattice(k.cell.Dense, nmax, rlim, true)
	k.recip = lattice(recip, kmax, klim, false)
	k.rfac = make([]float64, len(k.recip))
	for n, v := range k.recip {
		k2 := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
		k.rfac[n] = 4 * math.Pi / k.volume * math.Exp(-k2/(4*k.alpha*k.alpha)) / k2
	}
}

//lattice returns the integer combinations of the rows of basis with |n_a| <= max[a]
//and length not larger than limit. The zero vector goes first if withZero is true,
//and is left out otherwise.
func lattice(basis mat.Matrix, max [3]int, limit float64, withZero bool) [][3]float64 {
	ret := make([][3]float64, 0, (2*max[0]+1)*(2*max[1]+1)*(2*max[2]+1))
	if withZero {
		ret = append(ret, [3]float64{})
	}
	for a := -max[0]; a <= max[0]; a++ {
		for b := -max[1]; b <= max[1]; b++ {
			for c := -max[2]; c <= max[2]; c++ {
				if a == 0 && b == 0 && c == 0 {
					continue
				}
				var v [3]float64
				for x := 0; x < 3; x++ {
					v[x] = float64(a)*basis.At(0, x) + float64(b)*basis.At(1, x) + float64(c)*basis.At(2, x)
				}
				if math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]) <= limit {
					ret = append(ret, v)
				}
			}
		}
	}
	return ret
}

//Alpha returns the Ewald damping parameter used by the kernel.
func (k *ewaldKernel) Alpha() float64 { return k.alpha }

func (k *ewaldKernel) Evaluate(s Sources) (Field, error) {
	nq, ne := s.QM.NVecs(), s.Env.NVecs()
	if len(s.Charges) != ne {
		return nil, Error{"goqmmm/ewald: number of charges and environment atoms differ", []string{"Ewald.Evaluate"}, true}
	}
	excl := s.excludedMask()
	pairs := tensor.New(4, nq, ne)
	p := pairs.Data()
	n := nq * ne
	a := k.alpha
	a2 := a * a
	sqpi := math.Sqrt(math.Pi)
	background := math.Pi / (k.volume * a2)
	for i := 0; i < nq; i++ {
		R := [3]float64{s.QM.At(i, 0), s.QM.At(i, 1), s.QM.At(i, 2)}
		for j := 0; j < ne; j++ {
			r := [3]float64{s.Env.At(j, 0) - R[0], s.Env.At(j, 1) - R[1], s.Env.At(j, 2) - R[2]}
			var v float64
			var g [3]float64
			//real space
			for l, L := range k.real {
				if l == 0 && excl[j] {
					continue
				}
				x := [3]float64{r[0] + L[0], r[1] + L[1], r[2] + L[2]}
				d := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
				if d == 0 {
					continue
				}
				erfc := math.Erfc(a * d)
				v += erfc / d
				f := erfc/(d*d*d) + 2*a*math.Exp(-a2*d*d)/(sqpi*d*d)
				g[0] += f * x[0]
				g[1] += f * x[1]
				g[2] += f * x[2]
			}
			//reciprocal space
			for m, K := range k.recip {
				kr := K[0]*r[0] + K[1]*r[1] + K[2]*r[2]
				v += k.rfac[m] * math.Cos(kr)
				sin := k.rfac[m] * math.Sin(kr)
				g[0] += sin * K[0]
				g[1] += sin * K[1]
				g[2] += sin * K[2]
			}
			//the central-cell interaction of excluded atoms is removed from the reciprocal sum.
			if excl[j] {
				d := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
				if d == 0 {
					v -= 2 * a / sqpi
				} else {
					erf := math.Erf(a * d)
					v -= erf / d
					f := -erf/(d*d*d) + 2*a*math.Exp(-a2*d*d)/(sqpi*d*d)
					g[0] += f * r[0]
					g[1] += f * r[1]
					g[2] += f * r[2]
				}
			}
			v -= background
			idx := i*ne + j
			p[idx] = Coulomb * v
			p[n+idx] = Coulomb * g[0]
			p[2*n+idx] = Coulomb * g[1]
			p[3*n+idx] = Coulomb * g[2]
		}
	}
	return newPairField(pairs, s.Charges), nil
}
