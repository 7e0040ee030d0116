/*
 * engine.go, part of goqmmm
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

//Package qmengine contains the programs that provide the QM part of a QM/MM
//calculation: the QM energy and gradient in the field of a set of point
//charges, and the electrostatic potential the QM region produces at those
//charges. All quantities crossing the Engine interface are in atomic units,
//except positions, which are in Angstrom.
package qmengine

import (
	"context"
	"fmt"

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//Input is what an Engine needs for one QM calculation.
type Input struct {
	QM           *v3.Matrix //NQM x 3, Angstrom
	Elements     []string
	Charge       int
	Multiplicity int
	Embedding    *v3.Matrix //NEmb x 3, Angstrom
	Charges      []float64  //NEmb embedding charges
	Step         int
}

//NQM returns the number of QM atoms in the input.
func (in Input) NQM() int {
	if in.QM == nil {
		return 0
	}
	return in.QM.NVecs()
}

//NEmb returns the number of embedding charges in the input.
func (in Input) NEmb() int {
	return len(in.Charges)
}

//Output is the result of a QM calculation, in atomic units.
type Output struct {
	Energy   float64       //Hartree
	Gradient *v3.Matrix    //NQM x 3, Hartree/Bohr
	ESP      *tensor.Dense //4 x NEmb. The potential of the QM region at each charge (Hartree/e), and its gradient with respect to the position of the charge (Hartree/(e*Bohr))
}

//ZeroOutput returns an Output with zero energy, gradient and ESP, of the sizes
//needed for in.
func ZeroOutput(in Input) Output {
	return Output{Gradient: v3.Zeros(in.NQM()), ESP: tensor.New(4, in.NEmb())}
}

//Check returns an error if the sizes of o don't match in.
func (o Output) Check(in Input) error {
	if o.Gradient == nil || o.Gradient.NVecs() != in.NQM() {
		return Error{fmt.Sprintf("goqmmm/qmengine: expected a gradient for %d QM atoms", in.NQM()), "", "", "", []string{"Check"}, true}
	}
	if o.ESP == nil || o.ESP.Rank() != 2 || o.ESP.Dim(0) != 4 || o.ESP.Dim(1) != in.NEmb() {
		return Error{fmt.Sprintf("goqmmm/qmengine: expected a 4 x %d ESP tensor", in.NEmb()), "", "", "", []string{"Check"}, true}
	}
	return nil
}

//Engine is a program able to run a QM calculation with electrostatic embedding.
//Compute blocks until the calculation is done, or ctx is canceled.
type Engine interface {
	Compute(ctx context.Context, in Input) (Output, error)
}

//Dummy is an Engine that returns zero energy, gradient and ESP.
type Dummy struct{}

func (Dummy) Compute(ctx context.Context, in Input) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	return ZeroOutput(in), nil
}

//Sum is an Engine that adds up the results of several engines, for instance,
//a QM program and a dispersion correction.
type Sum []Engine

func (s Sum) Compute(ctx context.Context, in Input) (Output, error) {
	ret := ZeroOutput(in)
	for i, e := range s {
		o, err := e.Compute(ctx, in)
		if err != nil {
			return Output{}, errDecorate(err, fmt.Sprintf("Sum.Compute(engine %d)", i))
		}
		if err = o.Check(in); err != nil {
			return Output{}, errDecorate(err, fmt.Sprintf("Sum.Compute(engine %d)", i))
		}
		ret.Energy += o.Energy
		if in.NQM() > 0 {
			ret.Gradient.Add(ret.Gradient, o.Gradient)
		}
		ret.ESP.Add(o.ESP)
	}
	return ret, nil
}
