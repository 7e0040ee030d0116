/*
 * units.go, part of goqmmm
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

//Package units holds the physical constants (CODATA 2018) used to convert between
//atomic units and the internal units of goqmmm (kcal/mol, Angstrom, elementary charges).
package units

const (
	Avogadro        = 6.02214076e23
	HartreeInJoule  = 4.3597447222071e-18
	EVInJoule       = 1.602176634e-19
	BohrInMeter     = 5.29177210903e-11
	KcalInJoule     = 4.184e3
	AngstromInMeter = 1e-10
)

const (
	HartreeInKcalPerMole = HartreeInJoule / KcalInJoule * Avogadro
	HartreeInEV          = HartreeInJoule / EVInJoule
	BohrInAngstrom       = BohrInMeter / AngstromInMeter
	//ForceAUInIU converts Hartree/Bohr to kcal/mol/Angstrom.
	ForceAUInIU = HartreeInKcalPerMole / BohrInAngstrom
	//CoulombConstant is 1/(4 pi epsilon_0) in kcal*Angstrom/(mol*e^2)
	CoulombConstant = HartreeInKcalPerMole * BohrInAngstrom
)
