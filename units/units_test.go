/*
 * units_test.go, part of goqmmm
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

package units

import (
	"math"
	"testing"
)

func TestConstants(Te *testing.T) {
	if math.Abs(HartreeInKcalPerMole-627.5094740631) > 1e-6 {
		Te.Errorf("Wrong Hartree to kcal/mol factor %v", HartreeInKcalPerMole)
	}
	if math.Abs(BohrInAngstrom-0.529177210903) > 1e-12 {
		Te.Errorf("Wrong Bohr to Angstrom factor %v", BohrInAngstrom)
	}
	if math.Abs(CoulombConstant-332.0637) > 1e-3 {
		Te.Errorf("Wrong Coulomb constant %v", CoulombConstant)
	}
	if math.Abs(HartreeInEV-27.211386245988) > 1e-9 {
		Te.Errorf("Wrong Hartree to eV factor %v", HartreeInEV)
	}
}
