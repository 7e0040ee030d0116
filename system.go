/*
 * system.go, part of goqmmm
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
	"fmt"

	v3 "github.com/rmera/goqmmm/v3"
)

//System is the state of the QM/MM system at one step. The QM atoms are the first
//NQM atoms. Positions are in A, charges in e.
type System struct {
	Positions    *v3.Matrix //NAll x 3
	Charges      []float64  //NAll MM charges. The charges of the QM atoms are not used in the embedding
	Elements     []string   //NQM
	Cell         *v3.Matrix //3 x 3, one lattice vector per row. nil or zero for non-periodic systems
	NQM          int
	Charge       int //total charge of the QM region
	Multiplicity int
	Step         int
}

//NAll returns the total number of atoms.
func (S *System) NAll() int {
	if S.Positions == nil {
		return 0
	}
	return S.Positions.NVecs()
}

//Check returns an error if the system is inconsistent.
func (S *System) Check() error {
	n := S.NAll()
	if S.NQM <= 0 || S.NQM > n {
		return Error{fmt.Sprintf("goqmmm: invalid number of QM atoms %d for %d atoms", S.NQM, n), []string{"System.Check"}, true}
	}
	if len(S.Charges) != n {
		return Error{fmt.Sprintf("goqmmm: %d charges given for %d atoms", len(S.Charges), n), []string{"System.Check"}, true}
	}
	if len(S.Elements) < S.NQM {
		return Error{fmt.Sprintf("goqmmm: %d elements given for %d QM atoms", len(S.Elements), S.NQM), []string{"System.Check"}, true}
	}
	if S.Cell != nil && !S.Cell.IsZero() && S.Cell.NVecs() != 3 {
		return Error{"goqmmm: the cell must have 3 vectors", []string{"System.Check"}, true}
	}
	return nil
}

//QMState is the electronic state requested for the QM region.
type QMState struct {
	Charge       int
	Multiplicity int
	Step         int
}

func (S *System) state() QMState {
	return QMState{Charge: S.Charge, Multiplicity: S.Multiplicity, Step: S.Step}
}

func (S *System) cell() *v3.Matrix {
	if S.Cell == nil || S.Cell.NVecs() == 0 {
		return nil
	}
	return S.Cell
}
