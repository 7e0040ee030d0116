/*
 * nonpbc.go, part of goqmmm
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

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//NonPBC is plain Coulomb interaction with every non-excluded environment atom.
type NonPBC struct{}

func (NonPBC) Name() string { return "nonpbc" }

//Bind ignores the cell.
func (NonPBC) Bind(*v3.Matrix) (Kernel, error) { return NonPBC{}, nil }

func (NonPBC) Evaluate(s Sources) (Field, error) {
	nq, ne := s.QM.NVecs(), s.Env.NVecs()
	if len(s.Charges) != ne {
		return nil, Error{"goqmmm/ewald: number of charges and environment atoms differ", []string{"NonPBC.Evaluate"}, true}
	}
	excl := s.excludedMask()
	pairs := tensor.New(4, nq, ne)
	p := pairs.Data()
	n := nq * ne
	for i := 0; i < nq; i++ {
		for j := 0; j < ne; j++ {
			if excl[j] {
				continue
			}
			x := s.Env.At(j, 0) - s.QM.At(i, 0)
			y := s.Env.At(j, 1) - s.QM.At(i, 1)
			z := s.Env.At(j, 2) - s.QM.At(i, 2)
			d := math.Sqrt(x*x + y*y + z*z)
			if d == 0 {
				continue
			}
			k := i*ne + j
			inv := 1 / d
			p[k] = Coulomb * inv
			//d(1/d)/dR_i = (r_j-R_i)/d^3
			f := Coulomb * inv * inv * inv
			p[n+k] = f * x
			p[2*n+k] = f * y
			p[3*n+k] = f * z
		}
	}
	return newPairField(pairs, s.Charges), nil
}
