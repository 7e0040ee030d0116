/*
 * doc.go, part of goqmmm
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

//Package qmmm implements QM/MM electrostatic embedding for molecular dynamics.
//
//The QM region is embedded in the point charges of its environment. Charges close
//to the QM region are scaled by a switching function of their distance to it, and
//a correction is projected onto them so that the potential at the QM sites equals
//the one produced by all the charges of the system, periodic images included. The
//QM program only sees the near field charges.
//
//All quantities are computed lazily on a dependency graph (package dep): a Model
//is built once for a given system, and then the positions, charges and cell of each
//MD step are written into it. Reading the energy or the gradient recomputes only what
//changed.
//
//Energies are in kcal/mol, lengths in A and charges in e. The QM engines
//(package qmengine) work in atomic units.
package qmmm
