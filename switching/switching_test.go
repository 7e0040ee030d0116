/*
 * switching_test.go, part of goqmmm
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

package switching

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var kinds = []Kind{Shift, Switch, Lrec}

func TestParseKind(Te *testing.T) {
	for _, k := range kinds {
		p, err := ParseKind(k.String())
		if err != nil || p != k {
			Te.Errorf("Could not parse back %v: %v", k, err)
		}
	}
	if k, err := ParseKind(" LREC"); err != nil || k != Lrec {
		Te.Error("ParseKind should ignore case and spaces")
	}
	if _, err := ParseKind("fermi"); err == nil {
		Te.Error("Unknown families should give an error")
	}
}

func TestConfigErrors(Te *testing.T) {
	if _, err := New(Switch, 8, 9); err == nil {
		Te.Error("cutoff < swdist should be an error")
	}
	if _, err := New(Shift, 0, 0); err == nil {
		Te.Error("A zero cutoff should be an error")
	}
	if _, err := New(Shift, 8, 9); err != nil {
		Te.Error("swdist should be ignored by the shift family")
	}
	F, err := New(Switch, 8, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if F.Swdist() != 6 {
		Te.Errorf("Default swdist should be 0.75*cutoff, got %v", F.Swdist())
	}
}

//The laws every family must obey, checked over random cutoffs and distances.
func TestBoundaryLaws(Te *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)
	for _, k := range kinds {
		k := k
		properties.Property(k.String()+" is 0 at and beyond the cutoff", prop.ForAll(
			func(cutoff, extra float64) bool {
				F, err := New(k, cutoff, 0)
				if err != nil {
					return false
				}
				return F.Value(cutoff) == 0 && F.Value(cutoff+extra) == 0 && F.Derivative(cutoff+extra) == 0
			},
			gen.Float64Range(2, 20),
			gen.Float64Range(0, 10),
		))
		properties.Property(k.String()+" is 1 inside the exclusion radius", prop.ForAll(
			func(cutoff, d float64) bool {
				F, err := New(k, cutoff, 0)
				if err != nil {
					return false
				}
				return F.Value(d) == 1 && F.Derivative(d) == 0
			},
			gen.Float64Range(2, 20),
			gen.Float64Range(0, ExclusionRadius),
		))
		properties.Property(k.String()+" is monotone non-increasing and in [0,1]", prop.ForAll(
			func(cutoff, a, b float64) bool {
				F, err := New(k, cutoff, 0)
				if err != nil {
					return false
				}
				d1 := ExclusionRadius + a*(cutoff-ExclusionRadius)
				d2 := ExclusionRadius + b*(cutoff-ExclusionRadius)
				if d1 > d2 {
					d1, d2 = d2, d1
				}
				v1, v2 := F.Value(d1), F.Value(d2)
				return v1 >= v2 && v1 <= 1 && v2 >= 0
			},
			gen.Float64Range(2, 20),
			gen.Float64Range(0, 1),
			gen.Float64Range(0, 1),
		))
	}
	properties.TestingRun(Te)
}

func TestDerivativeFD(Te *testing.T) {
	const h = 1e-3
	cutoff := 8.0
	for _, k := range kinds {
		F, err := New(k, cutoff, 0)
		if err != nil {
			Te.Fatal(err)
		}
		for d := 1.0; d < cutoff-0.01; d += 0.37 {
			if k == Switch && math.Abs(d-F.Swdist()) < 2*h {
				continue
			}
			fd := (F.Value(d+h) - F.Value(d-h)) / (2 * h)
			an := F.Derivative(d)
			if math.Abs(fd-an) > 1e-4*math.Max(math.Abs(an), math.Abs(fd))+1e-8 {
				Te.Errorf("%v at d=%v: analytic %v, finite difference %v", k, d, an, fd)
			}
		}
	}
}

func TestSwitchStep(Te *testing.T) {
	F, err := New(Switch, 8, 8)
	if err != nil {
		Te.Fatal(err)
	}
	if F.Value(7.99) != 1 || F.Value(8) != 0 || F.Derivative(7.5) != 0 {
		Te.Error("swdist == cutoff should give a step")
	}
}
