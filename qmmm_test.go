/*
 * qmmm_test.go, part of goqmmm
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
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/qmengine"
	"github.com/rmera/goqmmm/switching"
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//Two QM atoms and three MM atoms at 2, 5 and 9 A from the center of the
//QM region.
func scenario() *System {
	p, _ := v3.NewMatrix([]float64{
		0, 0, 0,
		1, 0, 0,
		0.5, 2, 0,
		0.5, 5, 0,
		0.5, 9, 0,
	})
	return &System{
		Positions:    p,
		Charges:      []float64{0.5, -0.5, 0.4, -0.3, 0.6},
		Elements:     []string{"C", "O"},
		NQM:          2,
		Multiplicity: 1,
	}
}

func TestScenario(Te *testing.T) {
	sys := scenario()
	O := DefaultOptions()
	O.Cutoff(8)
	O.Engine(qmengine.Dummy{})
	M, err := Build(sys, O)
	if err != nil {
		Te.Fatal(err)
	}
	if M.Periodic() {
		Te.Error("the system should not be periodic")
	}
	sets, err := M.Near.Sets.Read()
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("excluded", sets.Excluded, "near", sets.Near)
	if len(sets.Excluded) != 2 || len(sets.Near) != 2 || sets.Near[0] != 2 || sets.Near[1] != 3 {
		Te.Fatalf("wrong partition %v", sets)
	}
	scale, err := M.Scale.Read()
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("scale", scale)
	//the atom at 9 A is beyond the cutoff, the one at 2 A close to 1.
	if scale[4] != 0 {
		Te.Errorf("the atom beyond the cutoff should have scale 0, got %v", scale[4])
	}
	if scale[2] < 0.85 || scale[2] > 1 {
		Te.Errorf("the atom at 2 A should have a scale close to 1, got %v", scale[2])
	}
	if !(scale[3] > 0 && scale[3] < scale[2]) {
		Te.Errorf("the atom at 5 A should have a scale between 0 and %v, got %v", scale[2], scale[3])
	}
	if scale[0] != 1 || scale[1] != 1 {
		Te.Errorf("the QM atoms should not be switched, got %v", scale[:2])
	}
	full, err := M.FullESP.Read()
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		ref := 0.0
		for j := 2; j < 5; j++ {
			ref += units.CoulombConstant * sys.Charges[j] / dist(sys.Positions, i, j)
		}
		if math.Abs(full.At(0, i)-ref) > 1e-9*math.Abs(ref) {
			Te.Errorf("full ESP at %d: %g, expected %g", i, full.At(0, i), ref)
		}
	}
	qemb, err := M.EmbeddingCharges.Read()
	if err != nil {
		Te.Fatal(err)
	}
	pemb, _ := M.EmbeddingPositions.Read()
	fmt.Println("embedding charges", qemb)
	//the embedding, without any scaling, gives the potential of all the charges
	//at the QM sites.
	for i := 0; i < 2; i++ {
		got := 0.0
		for k, q := range qemb {
			got += units.CoulombConstant * q / math.Sqrt(sqdist(sys.Positions.VecView(i), pemb.VecView(k)))
		}
		if math.Abs(got-full.At(0, i)) > 1e-8*math.Abs(full.At(0, i)) {
			Te.Errorf("embedding ESP at %d: %g, expected %g", i, got, full.At(0, i))
		}
	}
	//the inner charge is barely scaled, so it should be close to its MM value.
	if math.Abs(qemb[0]-0.4) > 0.1 {
		Te.Errorf("unexpected embedding charge %g", qemb[0])
	}
	r, err := M.Result()
	if err != nil {
		Te.Fatal(err)
	}
	if r.Energy != 0 || r.Gradient.NVecs() != 5 {
		Te.Errorf("unexpected result %v", r)
	}
}

func dist(p *v3.Matrix, i, j int) float64 {
	return math.Sqrt(sqdist(p.VecView(i), p.VecView(j)))
}

func sqdist(a, b *v3.Matrix) float64 {
	s := 0.0
	for c := 0; c < 3; c++ {
		d := a.At(0, c) - b.At(0, c)
		s += d * d
	}
	return s
}

//A water-like QM region in a set of MM charges: 5 near, one bonded and 2 far.
func fdSystem() *System {
	p, _ := v3.NewMatrix([]float64{
		0, 0, 0,
		0.96, 0, 0,
		-0.24, 0.93, 0,
		3.0, 0.5, 0.3,
		-2.5, -1.0, 1.0,
		0.5, 3.5, -1.2,
		1.0, -3.0, 2.0,
		4.5, 3.0, 0.0,
		-0.3, 0.2, -0.5,
		7.0, -2.0, 1.0,
		-6.5, 2.0, 0.0,
	})
	return &System{
		Positions:    p,
		Charges:      []float64{0, 0, 0, -0.6, 0.4, 0.35, -0.45, 0.5, 0.1, -0.55, 0.25},
		Elements:     []string{"O", "H", "H"},
		NQM:          3,
		Multiplicity: 1,
	}
}

func gradientFD(Te *testing.T, O *Options, cell *v3.Matrix) {
	const h = 1e-4
	sys := fdSystem()
	sys.Cell = cell
	O.Cutoff(6)
	O.Engine(qmengine.PointCharge{Charges: []float64{-0.8, 0.4, 0.4}, Spring: 0.2, Rest: 1.8})
	M, err := Build(sys, O)
	if err != nil {
		Te.Fatal(err)
	}
	sets, _ := M.Near.Sets.Read()
	fmt.Println("excluded", sets.Excluded, "near", sets.Near, "periodic", M.Periodic())
	if len(sets.Near) != 5 {
		Te.Fatalf("expected 5 near field atoms, got %v", sets.Near)
	}
	g, err := M.Gradient.Read()
	if err != nil {
		Te.Fatal(err)
	}
	g = g.Clone()
	base := sys.Positions.Clone()
	energy := func(a, c int, d float64) float64 {
		p := base.Clone()
		p.Set(a, c, p.At(a, c)+d)
		M.SetPositions(p)
		E, err := M.Energy.Read()
		if err != nil {
			Te.Fatal(err)
		}
		return E
	}
	for a := 0; a < sys.NAll(); a++ {
		for c := 0; c < 3; c++ {
			fd := (energy(a, c, h) - energy(a, c, -h)) / (2 * h)
			if math.Abs(fd-g.At(a, c)) > 1e-4*math.Max(1, math.Abs(fd)) {
				Te.Errorf("gradient of atom %d, component %d: analytic %g, numeric %g", a, c, g.At(a, c), fd)
			}
		}
	}
	M.SetPositions(base)
}

func TestGradientNonPBC(Te *testing.T) {
	gradientFD(Te, DefaultOptions(), nil)
}

func TestGradientEwald(Te *testing.T) {
	O := DefaultOptions()
	O.FarField(FarFieldEwald)
	O.EwaldTol(1e-8)
	O.Switching(switching.Switch)
	cell, _ := v3.NewMatrix([]float64{16, 0, 0, 0, 16, 0, 0, 0, 16})
	gradientFD(Te, O, cell)
}

func TestGradientPME(Te *testing.T) {
	O := DefaultOptions()
	O.FarField(FarFieldPME)
	O.PMETol(1e-8)
	O.PMEOrder(6)
	cell, _ := v3.NewMatrix([]float64{16, 0, 0, 0, 17, 0, 0, 0, 18})
	gradientFD(Te, O, cell)
}

func TestConfigErrors(Te *testing.T) {
	sys := scenario()
	if _, err := Build(sys); err == nil {
		Te.Error("a missing cutoff should be an error")
	} else {
		fmt.Println(err)
	}
	O := DefaultOptions()
	O.Cutoff(8)
	O.Switching(switching.Switch)
	O.Swdist(9)
	if _, err := Build(sys, O); err == nil {
		Te.Error("swdist larger than the cutoff should be an error")
	}
	tric, _ := v3.NewMatrix([]float64{20, 0, 0, 5, 20, 0, 0, 0, 20})
	sys.Cell = tric
	O = DefaultOptions()
	O.Cutoff(8)
	O.FarField("fmm")
	if _, err := Build(sys, O); err == nil {
		Te.Error("an unknown far field method should be an error")
	}
	O.FarField(FarFieldPME)
	if _, err := Build(sys, O); err == nil {
		Te.Error("PME on a triclinic cell should be an error")
	} else {
		fmt.Println(err)
	}
	O.FarField(FarFieldAuto)
	if _, err := Build(sys, O); err != nil {
		Te.Errorf("the automatic far field should fall back to Ewald: %v", err)
	}
	sys.Cell = nil
	O.PBC(true)
	if _, err := Build(sys, O); err == nil {
		Te.Error("forcing PBC without a cell should be an error")
	}
	sys = scenario()
	sys.Charges = sys.Charges[:3]
	if _, err := Build(sys, O); err == nil {
		Te.Error("missing charges should be an error")
	}
}

type counter struct {
	recomputed map[string]int
}

func (c *counter) Recomputed(name string, _ time.Duration) { c.recomputed[name]++ }
func (c *counter) Invalidated(string)                     {}

func TestInvalidation(Te *testing.T) {
	sys := fdSystem()
	cnt := &counter{recomputed: map[string]int{}}
	O := DefaultOptions()
	O.Cutoff(6)
	O.Observer(cnt)
	O.Engine(qmengine.PointCharge{Charges: []float64{-0.8, 0.4, 0.4}})
	M, err := Build(sys, O)
	if err != nil {
		Te.Fatal(err)
	}
	if len(cnt.recomputed) != 0 {
		Te.Errorf("nothing should be computed while building the model: %v", cnt.recomputed)
	}
	if _, err := M.Result(); err != nil {
		Te.Fatal(err)
	}
	if _, err := M.Result(); err != nil {
		Te.Fatal(err)
	}
	if cnt.recomputed["rij"] != 1 || cnt.recomputed["qm_output"] != 1 || cnt.recomputed["gradient"] != 1 {
		Te.Errorf("nodes recomputed more than once: %v", cnt.recomputed)
	}
	//new charges don't change the geometry
	q := append([]float64(nil), sys.Charges...)
	q[4] = 0.2
	M.SetCharges(q)
	if !M.Geometry.Dij.Valid() || M.Gradient.Valid() || M.EmbeddingCharges.Valid() {
		Te.Error("wrong invalidation after writing the charges")
	}
	if _, err := M.Result(); err != nil {
		Te.Fatal(err)
	}
	if cnt.recomputed["rij"] != 1 || cnt.recomputed["qm_output"] != 2 || cnt.recomputed["coupling"] != 1 {
		Te.Errorf("wrong recomputations after writing the charges: %v", cnt.recomputed)
	}
	//writing the QM positions through their slice invalidates the geometry too
	qm := sys.Positions.View(0, 3).Clone()
	qm.Set(0, 0, 0.05)
	M.SetQMPositions(qm)
	if M.Geometry.Dij.Valid() {
		Te.Error("the geometry should be invalid after moving the QM atoms")
	}
	p, err := M.EmbeddingPositions.Read()
	if err != nil {
		Te.Fatal(err)
	}
	if cnt.recomputed["rij"] != 2 || p.NVecs() != 5 {
		Te.Errorf("wrong recomputations after moving the QM atoms: %v", cnt.recomputed)
	}
	if sys.Positions.At(0, 0) != 0.05 {
		Te.Error("the QM positions should be written into the positions of the system")
	}
}

func TestExternalQM(Te *testing.T) {
	sys := fdSystem()
	O := DefaultOptions()
	O.Cutoff(6)
	M, err := Build(sys, O)
	if err != nil {
		Te.Fatal(err)
	}
	_, err = M.Energy.Read()
	if !errors.Is(err, dep.ErrUnset) {
		Te.Fatalf("reading the energy before the QM results were set should fail with ErrUnset, got %v", err)
	}
	in, err := M.QMInput.Read()
	if err != nil {
		Te.Fatal(err)
	}
	out := qmengine.ZeroOutput(in)
	out.Energy = -1
	if err := M.SetQMResult(out); err != nil {
		Te.Fatal(err)
	}
	r, err := M.Result()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(r.Energy+units.HartreeInKcalPerMole) > 1e-9 {
		Te.Errorf("wrong energy %g", r.Energy)
	}
	au := r.InAtomicUnits()
	if math.Abs(au.Energy+1) > 1e-12 {
		Te.Errorf("wrong energy in atomic units %g", au.Energy)
	}
	if math.Abs(au.EmbeddingPositions.At(0, 0)*units.BohrInAngstrom-r.EmbeddingPositions.At(0, 0)) > 1e-12 {
		Te.Error("wrong positions in atomic units")
	}
	//a new step needs a new QM result
	sys.Step = 1
	if _, err := M.Step(sys); err == nil {
		Te.Error("a step with the QM results of a previous one should fail")
	} else {
		fmt.Println(err)
	}
	defer func() {
		if r := recover(); r == nil {
			Te.Error("setting QM results on a model with an engine should panic")
		}
	}()
	O2 := DefaultOptions()
	O2.Cutoff(6)
	O2.Engine(qmengine.Dummy{})
	M2, _ := Build(fdSystem(), O2)
	M2.SetQMResult(out)
}

func TestStep(Te *testing.T) {
	sys := fdSystem()
	O := DefaultOptions()
	O.Cutoff(6)
	O.Engine(qmengine.PointCharge{Charges: []float64{-0.8, 0.4, 0.4}})
	M, err := Build(sys, O)
	if err != nil {
		Te.Fatal(err)
	}
	r1, err := M.Step(sys)
	if err != nil {
		Te.Fatal(err)
	}
	E1 := r1.Energy
	next := fdSystem()
	next.Step = 1
	next.Positions.Set(3, 0, 2.8)
	r2, err := M.Step(next)
	if err != nil {
		Te.Fatal(err)
	}
	if r2.Step != 1 || r2.Energy == E1 {
		Te.Errorf("the second step was not computed: %v %v", E1, r2.Energy)
	}
	small := scenario()
	if _, err := M.Step(small); err == nil {
		Te.Error("a step with a different number of atoms should fail")
	}
}
