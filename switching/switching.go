/*
 * switching.go, part of goqmmm
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

//Package switching implements the functions that scale the charge of an
//environment atom from 1 to 0 as its distance to the QM region goes to the cutoff.
package switching

import (
	"fmt"
	"strings"
)

//ExclusionRadius is the distance under which environment atoms are considered
//bonded to the QM region. They are never switched.
const ExclusionRadius = 0.8

//Kind is a family of switching functions.
type Kind int

const (
	Shift Kind = iota
	Switch
	Lrec
)

var kindNames = [...]string{"shift", "switch", "lrec"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

//ParseKind returns the Kind with the given name (case-insensitive).
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range kindNames {
		if v == n {
			return Kind(i), nil
		}
	}
	return 0, Error{fmt.Sprintf("goqmmm/switching: unsupported switching function %q", name), []string{"ParseKind"}, true}
}

//Function is a switching function resolved for given parameters.
type Function struct {
	kind   Kind
	cutoff float64
	swdist float64
	value  func(d float64) float64
	deriv  func(d float64) float64
}

//New returns the switching function of the family kind for the given cutoff.
//swdist is only used by the Switch family, where a value <= 0 means 0.75*cutoff.
func New(kind Kind, cutoff, swdist float64) (Function, error) {
	if cutoff <= 0 {
		return Function{}, Error{fmt.Sprintf("goqmmm/switching: cutoff must be positive, got %g", cutoff), []string{"New"}, true}
	}
	F := Function{kind: kind, cutoff: cutoff}
	switch kind {
	case Shift:
		F.value, F.deriv = shift(cutoff)
	case Switch:
		if swdist <= 0 {
			swdist = 0.75 * cutoff
		}
		if cutoff < swdist {
			return Function{}, Error{fmt.Sprintf("goqmmm/switching: cutoff (%g) is smaller than swdist (%g)", cutoff, swdist), []string{"New"}, true}
		}
		F.swdist = swdist
		F.value, F.deriv = switchfn(cutoff, swdist)
	case Lrec:
		F.value, F.deriv = lrec(cutoff)
	default:
		return Function{}, Error{fmt.Sprintf("goqmmm/switching: unsupported switching function %v", kind), []string{"New"}, true}
	}
	return F, nil
}

//Kind returns the family of F.
func (F Function) Kind() Kind { return F.kind }

//Cutoff returns the distance at which F reaches 0.
func (F Function) Cutoff() float64 { return F.cutoff }

//Swdist returns the distance where a Switch function starts to act, 0 for other families.
func (F Function) Swdist() float64 { return F.swdist }

//Value returns the scaling factor at distance d.
func (F Function) Value(d float64) float64 {
	if d <= ExclusionRadius {
		return 1
	}
	if d >= F.cutoff {
		return 0
	}
	return F.value(d)
}

//Derivative returns the derivative of the scaling factor with respect to d.
func (F Function) Derivative(d float64) float64 {
	if d <= ExclusionRadius || d >= F.cutoff {
		return 0
	}
	return F.deriv(d)
}

func shift(c float64) (func(float64) float64, func(float64) float64) {
	v := func(d float64) float64 {
		r2 := d * d / (c * c)
		return (1 - r2) * (1 - r2)
	}
	g := func(d float64) float64 {
		r := d / c
		return -4 * (1 - r*r) * r / c
	}
	return v, g
}

func switchfn(c, swdist float64) (func(float64) float64, func(float64) float64) {
	s := swdist * swdist / (c * c)
	if s >= 1 {
		//A step at the cutoff.
		return func(float64) float64 { return 1 }, func(float64) float64 { return 0 }
	}
	den := (1 - s) * (1 - s) * (1 - s)
	v := func(d float64) float64 {
		x := d * d / (c * c)
		if x < s {
			return 1
		}
		return (1 - x) * (1 - x) * (1 + 2*x - 3*s) / den
	}
	g := func(d float64) float64 {
		x := d * d / (c * c)
		if x < s {
			return 0
		}
		return -12 * (1 - x) * (x - s) * d / (c * c) / den
	}
	return v, g
}

func lrec(c float64) (func(float64) float64, func(float64) float64) {
	v := func(d float64) float64 {
		t := 1 - d/c
		g := 2*t*t*t - 3*t*t + 1
		return 1 - g*g
	}
	g := func(d float64) float64 {
		t := 1 - d/c
		g := 2*t*t*t - 3*t*t + 1
		return -12 * t * g * d / (c * c)
	}
	return v, g
}

//Error is the error type for the switching package.
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
