/*
 * ewald_test.go, part of goqmmm
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
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//testSources returns 2 QM atoms, and an environment made of the QM atoms themselves
//(excluded, with 0 charge), one excluded atom bonded to the first QM atom, and a set of
//point charges. The total charge is 0. The set is shifted by center.
func testSources(center [3]float64) Sources {
	qm := []float64{0, 0, 0, 1.1, 0.2, 0}
	env := []float64{
		0, 0, 0,
		1.1, 0.2, 0,
		-0.4, 0.5, 0.1, //bonded to QM atom 0
		3, 0, 0,
		0, 3.5, 0.5,
		-2.5, -2, 1,
		1, 1, 4,
		2.2, -3.1, -1,
		-3.5, 2, -2.5,
		4.5, 2.5, 2,
	}
	charges := []float64{0, 0, 0.3, -0.8, 0.4, 0.5, -0.6, 0.2, -0.4, 0.4}
	for i := range qm {
		qm[i] += center[i%3]
	}
	for i := range env {
		env[i] += center[i%3]
	}
	Q, _ := v3.NewMatrix(qm)
	E, _ := v3.NewMatrix(env)
	return Sources{QM: Q, Env: E, Charges: charges, Excluded: []int{0, 1, 2}}
}

func orthoCell(a, b, c float64) *v3.Matrix {
	m, _ := v3.NewMatrix([]float64{a, 0, 0, 0, b, 0, 0, 0, c})
	return m
}

//compare checks that each of the 4 rows of got is within rel*max|row| of ref.
func compare(Te *testing.T, label string, got, ref *tensor.Dense, rel float64) {
	for c := 0; c < 4; c++ {
		scale := 0.0
		for i := 0; i < ref.Dim(1); i++ {
			scale = math.Max(scale, math.Abs(ref.At(c, i)))
		}
		for i := 0; i < ref.Dim(1); i++ {
			if math.Abs(got.At(c, i)-ref.At(c, i)) > rel*scale+1e-9 {
				Te.Errorf("%s: component %d, site %d: %v vs reference %v", label, c, i, got.At(c, i), ref.At(c, i))
			}
		}
	}
}

func evaluate(Te *testing.T, m Method, cell *v3.Matrix, s Sources) Field {
	k, err := m.Bind(cell)
	if err != nil {
		Te.Fatal(err)
	}
	f, err := k.Evaluate(s)
	if err != nil {
		Te.Fatal(err)
	}
	return f
}

func TestNonPBC(Te *testing.T) {
	s := testSources([3]float64{})
	f := evaluate(Te, NonPBC{}, nil, s)
	esp := f.ESP()
	//by hand, for the first QM atom.
	v := 0.0
	for j := 3; j < s.Env.NVecs(); j++ {
		d := math.Sqrt(math.Pow(s.Env.At(j, 0), 2) + math.Pow(s.Env.At(j, 1), 2) + math.Pow(s.Env.At(j, 2), 2))
		v += Coulomb * s.Charges[j] / d
	}
	if math.Abs(esp.At(0, 0)-v) > 1e-9 {
		Te.Errorf("NonPBC potential %v, expected %v", esp.At(0, 0), v)
	}
	fmt.Println("NonPBC ESP", esp)
}

//In a very large box, the Ewald potential must match the direct Coulomb one.
func TestEwaldVsDirect(Te *testing.T) {
	s := testSources([3]float64{100, 100, 100})
	direct := evaluate(Te, NonPBC{}, nil, s).ESP()
	ew := evaluate(Te, Ewald{Tol: 1e-8}, orthoCell(200, 200, 200), s).ESP()
	compare(Te, "Ewald vs direct", ew, direct, 5e-5)
}

func TestPMEVsEwald(Te *testing.T) {
	s := testSources([3]float64{10, 11, 12})
	cell := orthoCell(20, 22, 24)
	ew := evaluate(Te, Ewald{Tol: 1e-10}, cell, s)
	pme := evaluate(Te, PME{Tol: 1e-8, Order: 8, Cutoff: 9, Spacing: 0.4}, cell, s)
	compare(Te, "PME vs Ewald", pme.ESP(), ew.ESP(), 1e-6)
	u := []float64{0.7, -1.3}
	ge, err := ew.SourceGradient(u)
	if err != nil {
		Te.Fatal(err)
	}
	gp, err := pme.SourceGradient(u)
	if err != nil {
		Te.Fatal(err)
	}
	scale := 0.0
	for j := 0; j < ge.NVecs(); j++ {
		for c := 0; c < 3; c++ {
			scale = math.Max(scale, math.Abs(ge.At(j, c)))
		}
	}
	for j := 0; j < ge.NVecs(); j++ {
		for c := 0; c < 3; c++ {
			if math.Abs(ge.At(j, c)-gp.At(j, c)) > 1e-5*scale+1e-9 {
				Te.Errorf("Source gradient of atom %d comp %d: PME %v, Ewald %v", j, c, gp.At(j, c), ge.At(j, c))
			}
		}
	}
}

//The potential gradients must match finite differences, both for the QM sites
//and for the sources.
func TestGradientsFD(Te *testing.T) {
	const h = 1e-3
	cell := orthoCell(20, 22, 24)
	methods := []Method{NonPBC{}, Ewald{Tol: 1e-8}, PME{Tol: 1e-8, Order: 6, Cutoff: 9, Spacing: 0.8}}
	u := []float64{0.7, -1.3}
	for _, m := range methods {
		k, err := m.Bind(cell)
		if err != nil {
			Te.Fatal(err)
		}
		s := testSources([3]float64{10, 11, 12})
		f, _ := k.Evaluate(s)
		esp := f.ESP()
		sg, _ := f.SourceGradient(u)
		for c := 0; c < 3; c++ {
			for i := 0; i < s.QM.NVecs(); i++ {
				s.QM.Set(i, c, s.QM.At(i, c)+h)
				fp, _ := k.Evaluate(s)
				s.QM.Set(i, c, s.QM.At(i, c)-2*h)
				fm, _ := k.Evaluate(s)
				s.QM.Set(i, c, s.QM.At(i, c)+h)
				fd := (fp.ESP().At(0, i) - fm.ESP().At(0, i)) / (2 * h)
				if math.Abs(fd-esp.At(c+1, i)) > 1e-4*math.Abs(fd)+1e-6 {
					Te.Errorf("%s: QM site %d comp %d: analytic %v finite difference %v", m.Name(), i, c, esp.At(c+1, i), fd)
				}
			}
			for j := 3; j < s.Env.NVecs(); j++ {
				s.Env.Set(j, c, s.Env.At(j, c)+h)
				fp, _ := k.Evaluate(s)
				s.Env.Set(j, c, s.Env.At(j, c)-2*h)
				fm, _ := k.Evaluate(s)
				s.Env.Set(j, c, s.Env.At(j, c)+h)
				fd := 0.0
				for i, w := range u {
					fd += w * (fp.ESP().At(0, i) - fm.ESP().At(0, i)) / (2 * h)
				}
				if math.Abs(fd-sg.At(j, c)) > 1e-4*math.Abs(fd)+1e-6 {
					Te.Errorf("%s: source %d comp %d: analytic %v finite difference %v", m.Name(), j, c, sg.At(j, c), fd)
				}
			}
		}
	}
}

func TestFallback(Te *testing.T) {
	tri, _ := v3.NewMatrix([]float64{20, 0, 0, 3, 20, 0, 0, 0, 20})
	_, err := PME{Cutoff: 8}.Bind(tri)
	if !errors.Is(err, ErrUnavailable) {
		Te.Fatalf("PME on a triclinic cell should be unavailable, got %v", err)
	}
	k, err := Fallback{Preferred: PME{Cutoff: 8}, Backup: Ewald{}}.Bind(tri)
	if err != nil {
		Te.Fatal(err)
	}
	if _, ok := k.(*ewaldKernel); !ok {
		Te.Errorf("Fallback should have given the Ewald kernel, got %T", k)
	}
	k, err = Fallback{Preferred: PME{Cutoff: 8}, Backup: Ewald{}}.Bind(orthoCell(20, 20, 20))
	if err != nil {
		Te.Fatal(err)
	}
	if _, ok := k.(*pmeKernel); !ok {
		Te.Errorf("Fallback should have given the PME kernel, got %T", k)
	}
	if Periodic(v3.Zeros(3)) {
		Te.Error("A zero cell is not periodic")
	}
}

func TestParameters(Te *testing.T) {
	for n, want := range map[int]int{1: 1, 7: 8, 11: 12, 13: 15, 31: 32, 49: 50, 55: 60, 97: 100} {
		if got := FFTSize(n); got != want {
			Te.Errorf("FFTSize(%d) = %d, want %d", n, got, want)
		}
	}
	a := AlphaForCutoff(10, 1e-8)
	if math.Erfc(a*10)/10 >= 1e-8 || math.Erfc(a*0.999*10)/10 < 1e-8 {
		Te.Errorf("alpha %v does not bracket the tolerance", a)
	}
	for _, w := range []float64{0, 0.25, 0.7} {
		m, dm := splines(w, 6)
		s, ds := 0.0, 0.0
		for t := range m {
			s += m[t]
			ds += dm[t]
		}
		if math.Abs(s-1) > 1e-12 || math.Abs(ds) > 1e-12 {
			Te.Errorf("B-splines at %v do not form a partition of unity: %v %v", w, s, ds)
		}
	}
	//M_4 at integer points is 1/6, 2/3, 1/6
	m, _ := splines(0, 4)
	if math.Abs(m[1]-1.0/6) > 1e-12 || math.Abs(m[2]-2.0/3) > 1e-12 || math.Abs(m[3]-1.0/6) > 1e-12 {
		Te.Errorf("Wrong cubic B-spline values %v", m)
	}
}
