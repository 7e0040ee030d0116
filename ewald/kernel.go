/*
 * kernel.go, part of goqmmm
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

//Package ewald computes the electrostatic potential, and its gradient, that the
//environment charges produce at the QM sites ("far field"). Three methods are
//available: direct Coulomb for non-periodic systems, explicit Ewald summation,
//and smooth particle-mesh Ewald (PME) for orthorhombic cells.
//
//Potentials are in kcal/mol/e and lengths in Angstrom. ESP tensors have shape
//4 x NQM: the potential, followed by its gradient with respect to the position of
//the QM site.
package ewald

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/rmera/goqmmm/tensor"
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//Coulomb is the Coulomb constant in kcal*Angstrom/(mol*e^2)
const Coulomb = units.CoulombConstant

//Sources is what a Kernel needs to evaluate the far field.
type Sources struct {
	QM       *v3.Matrix //QM sites
	Env      *v3.Matrix //environment atoms
	Charges  []float64  //one per environment atom
	Excluded []int      //environment atoms whose interaction with the QM region, in the central cell, is left out
}

func (s Sources) excludedMask() []bool {
	m := make([]bool, s.Env.NVecs())
	for _, v := range s.Excluded {
		m[v] = true
	}
	return m
}

//Field is the result of evaluating a Kernel for a set of sources.
type Field interface {
	//ESP returns the 4 x NQM potential and potential gradient at the QM sites.
	ESP() *tensor.Dense
	//SourceGradient returns, for each environment atom, the gradient of
	//sum_i u_i*ESP[0][i] with respect to the position of the atom.
	SourceGradient(u []float64) (*v3.Matrix, error)
}

//Kernel evaluates the far field for a given cell.
type Kernel interface {
	Evaluate(s Sources) (Field, error)
}

//Method produces a Kernel for a cell.
type Method interface {
	Name() string
	Bind(cell *v3.Matrix) (Kernel, error)
}

//Periodic returns true if cell is non-degenerate.
func Periodic(cell *v3.Matrix) bool {
	if cell == nil || cell.NVecs() != 3 {
		return false
	}
	return abs(v3.Det(cell)) > 1e-8
}

//Fallback binds Preferred, and Backup if Preferred is not available for the cell.
type Fallback struct {
	Preferred Method
	Backup    Method
	Logger    hclog.Logger
}

func (f Fallback) Name() string { return f.Preferred.Name() + "|" + f.Backup.Name() }

func (f Fallback) Bind(cell *v3.Matrix) (Kernel, error) {
	k, err := f.Preferred.Bind(cell)
	if err == nil {
		return k, nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return nil, errDecorate(err, "Fallback.Bind")
	}
	if f.Logger != nil {
		f.Logger.Debug("far field method not available, falling back", "method", f.Preferred.Name(), "fallback", f.Backup.Name(), "reason", err)
	}
	return f.Backup.Bind(cell)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

//pairField is a Field backed by a 4 x NQM x NEnv tensor with the far-field
//potential of a unit charge on each environment atom, and its gradient with
//respect to the QM site.
type pairField struct {
	pairs   *tensor.Dense
	charges []float64
	esp     *tensor.Dense
}

func newPairField(pairs *tensor.Dense, charges []float64) *pairField {
	nq, ne := pairs.Dim(1), pairs.Dim(2)
	esp := tensor.New(4, nq)
	p := pairs.Data()
	e := esp.Data()
	for c := 0; c < 4; c++ {
		for i := 0; i < nq; i++ {
			row := p[(c*nq+i)*ne : (c*nq+i+1)*ne]
			s := 0.0
			for j, q := range charges {
				s += row[j] * q
			}
			e[c*nq+i] = s
		}
	}
	return &pairField{pairs: pairs, charges: charges, esp: esp}
}

func (f *pairField) ESP() *tensor.Dense { return f.esp }

//the pair potentials depend on r_j - R_i, so the gradient with respect to the
//environment atom is minus the one with respect to the QM site.
func (f *pairField) SourceGradient(u []float64) (*v3.Matrix, error) {
	nq, ne := f.pairs.Dim(1), f.pairs.Dim(2)
	if len(u) != nq {
		return nil, Error{"goqmmm/ewald: wrong number of QM weights", []string{"SourceGradient"}, true}
	}
	g := v3.Zeros(ne)
	p := f.pairs.Data()
	for c := 1; c < 4; c++ {
		for i := 0; i < nq; i++ {
			row := p[(c*nq+i)*ne : (c*nq+i+1)*ne]
			for j, v := range row {
				g.Set(j, c-1, g.At(j, c-1)-u[i]*f.charges[j]*v)
			}
		}
	}
	return g, nil
}

//Errors

//ErrUnavailable is wrapped by errors from methods that can't be used for a given cell.
var ErrUnavailable = errors.New("far field method unavailable")

//Error is the error type for the ewald package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//unavailable is returned by a Method that can't be bound to a given cell.
type unavailable struct {
	e Error
}

func (u unavailable) Error() string { return u.e.Error() }

func (u unavailable) Decorate(dec string) []string { return u.e.Decorate(dec) }

func (u unavailable) Critical() bool { return u.e.Critical() }

func (u unavailable) Unwrap() error { return ErrUnavailable }

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
