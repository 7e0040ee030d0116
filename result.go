/*
 * result.go, part of goqmmm
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
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//Result contains the results of a QM/MM step, in kcal/mol and A.
type Result struct {
	Energy             float64
	Gradient           *v3.Matrix //NAll x 3
	EmbeddingCharges   []float64
	EmbeddingPositions *v3.Matrix
	Step               int
}

//InAtomicUnits returns a copy of the result with the energy in Hartree, the gradient
//in Hartree/Bohr and the embedding positions in Bohr.
func (R *Result) InAtomicUnits() *Result {
	r := &Result{
		Energy:             R.Energy / units.HartreeInKcalPerMole,
		Gradient:           R.Gradient.Clone(),
		EmbeddingCharges:   append([]float64(nil), R.EmbeddingCharges...),
		EmbeddingPositions: R.EmbeddingPositions.Clone(),
		Step:               R.Step,
	}
	if r.Gradient.NVecs() > 0 {
		r.Gradient.Scale(1/units.ForceAUInIU, r.Gradient)
	}
	if r.EmbeddingPositions.NVecs() > 0 {
		r.EmbeddingPositions.Scale(1/units.BohrInAngstrom, r.EmbeddingPositions)
	}
	return r
}
