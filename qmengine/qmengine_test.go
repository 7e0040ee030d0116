/*
 * qmengine_test.go, part of goqmmm
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

package qmengine

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

func testInput() Input {
	qm, _ := v3.NewMatrix([]float64{0, 0, 0, 1.1, 0.1, 0, -0.3, 0.9, 0.2})
	emb, _ := v3.NewMatrix([]float64{3, 0, 0, 0, -2.5, 1, 1, 2, 3, -2, -2, -2})
	return Input{
		QM:           qm,
		Elements:     []string{"O", "H", "H"},
		Charge:       0,
		Multiplicity: 1,
		Embedding:    emb,
		Charges:      []float64{0.4, -0.3, 0.25, -0.8},
		Step:         7,
	}
}

func energy(Te *testing.T, e Engine, in Input) float64 {
	o, err := e.Compute(context.Background(), in)
	if err != nil {
		Te.Fatal(err)
	}
	return o.Energy
}

func TestPointChargeFD(Te *testing.T) {
	const h = 1e-5
	in := testInput()
	pc := PointCharge{Charges: []float64{-0.8, 0.4, 0.4}, Spring: 0.3, Rest: 1.8}
	o, err := pc.Compute(context.Background(), in)
	if err != nil {
		Te.Fatal(err)
	}
	if err := o.Check(in); err != nil {
		Te.Fatal(err)
	}
	//QM gradient, in Hartree/Bohr
	for i := 0; i < in.NQM(); i++ {
		for c := 0; c < 3; c++ {
			v := in.QM.At(i, c)
			in.QM.Set(i, c, v+h)
			ep := energy(Te, pc, in)
			in.QM.Set(i, c, v-h)
			em := energy(Te, pc, in)
			in.QM.Set(i, c, v)
			fd := (ep - em) / (2 * h) * units.BohrInAngstrom
			if math.Abs(fd-o.Gradient.At(i, c)) > 1e-6 {
				Te.Errorf("QM gradient %d %d: analytic %g, numeric %g", i, c, o.Gradient.At(i, c), fd)
			}
		}
	}
	//The ESP is the derivative of the energy with respect to the charge, and its
	//gradient the derivative of the energy with respect to the charge position
	//divided by the charge.
	for j := 0; j < in.NEmb(); j++ {
		q := in.Charges[j]
		in.Charges[j] = q + h
		ep := energy(Te, pc, in)
		in.Charges[j] = q - h
		em := energy(Te, pc, in)
		in.Charges[j] = q
		fd := (ep - em) / (2 * h)
		if math.Abs(fd-o.ESP.At(0, j)) > 1e-6 {
			Te.Errorf("ESP %d: analytic %g, numeric %g", j, o.ESP.At(0, j), fd)
		}
		for c := 0; c < 3; c++ {
			v := in.Embedding.At(j, c)
			in.Embedding.Set(j, c, v+h)
			ep := energy(Te, pc, in)
			in.Embedding.Set(j, c, v-h)
			em := energy(Te, pc, in)
			in.Embedding.Set(j, c, v)
			fd := (ep - em) / (2 * h) * units.BohrInAngstrom / q
			if math.Abs(fd-o.ESP.At(c+1, j)) > 1e-5 {
				Te.Errorf("ESP gradient %d %d: analytic %g, numeric %g", j, c, o.ESP.At(c+1, j), fd)
			}
		}
	}
}

func TestSum(Te *testing.T) {
	in := testInput()
	a := PointCharge{Charges: []float64{-0.8, 0.4, 0.4}}
	b := PointCharge{Spring: 0.1, Rest: 2}
	oa, _ := a.Compute(context.Background(), in)
	ob, _ := b.Compute(context.Background(), in)
	sum, err := Sum{a, Dummy{}, b}.Compute(context.Background(), in)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(sum.Energy-oa.Energy-ob.Energy) > 1e-12 {
		Te.Errorf("Sum energy %g, expected %g", sum.Energy, oa.Energy+ob.Energy)
	}
	for i := 0; i < in.NQM(); i++ {
		for c := 0; c < 3; c++ {
			if math.Abs(sum.Gradient.At(i, c)-oa.Gradient.At(i, c)-ob.Gradient.At(i, c)) > 1e-12 {
				Te.Errorf("Sum gradient %d %d", i, c)
			}
		}
	}
	for k, v := range sum.ESP.Data() {
		if math.Abs(v-oa.ESP.Data()[k]) > 1e-12 {
			Te.Errorf("Sum ESP %d: %g vs %g", k, v, oa.ESP.Data()[k])
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Sum{Dummy{}}).Compute(ctx, in); err == nil {
		Te.Error("a canceled context should stop the calculation")
	}
}

func TestInputOutputFormat(Te *testing.T) {
	in := testInput()
	var b bytes.Buffer
	if err := WriteInput(&b, in); err != nil {
		Te.Fatal(err)
	}
	fmt.Println(b.String())
	lines := bytes.Split(bytes.TrimSpace(b.Bytes()), []byte("\n"))
	if len(lines) != 1+in.NQM()+in.NEmb() {
		Te.Errorf("wrong number of lines in input: %d", len(lines))
	}
	if string(lines[0]) != "3 4 0 1 7" {
		Te.Errorf("wrong header %q", lines[0])
	}
	out := "-76.5\n0.1 0.2 0.3\n\n0 0 0\n-1 -2 -3\n"
	for j := 0; j < in.NEmb(); j++ {
		out += fmt.Sprintf("%d 0.5 0.25 0.125\n", j)
	}
	o, err := ReadOutput(bytes.NewBufferString(out), in.NQM(), in.NEmb())
	if err != nil {
		Te.Fatal(err)
	}
	if o.Energy != -76.5 || o.Gradient.At(2, 1) != -2 || o.ESP.At(0, 3) != 3 || o.ESP.At(3, 1) != 0.125 {
		Te.Errorf("wrong output parsed: %v %v %v", o.Energy, o.Gradient, o.ESP)
	}
	if _, err := ReadOutput(bytes.NewBufferString("-76.5\n0.1 0.2\n"), 1, 0); err == nil {
		Te.Error("short gradient line should be an error")
	}
	if _, err := ReadOutput(bytes.NewBufferString("-76.5\n"), 1, 0); err == nil {
		Te.Error("truncated output should be an error")
	}
}

func TestCommand(Te *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		Te.Skip("no shell available")
	}
	in := testInput()
	dir := Te.TempDir()
	o, _ := PointCharge{Charges: []float64{-0.8, 0.4, 0.4}}.Compute(context.Background(), in)
	fixture := filepath.Join(dir, "fixture")
	text := fmt.Sprintf("%.12f\n", o.Energy)
	for i := 0; i < in.NQM(); i++ {
		text += fmt.Sprintf("%.12f %.12f %.12f\n", o.Gradient.At(i, 0), o.Gradient.At(i, 1), o.Gradient.At(i, 2))
	}
	for j := 0; j < in.NEmb(); j++ {
		text += fmt.Sprintf("%.12f %.12f %.12f %.12f\n", o.ESP.At(0, j), o.ESP.At(1, j), o.ESP.At(2, j), o.ESP.At(3, j))
	}
	if err := os.WriteFile(fixture, []byte(text), 0644); err != nil {
		Te.Fatal(err)
	}
	//the driver just copies the fixture to the output file
	C := &Command{Path: sh, Args: []string{"-c", `cp "$0" "$2"`, fixture}, Dir: dir}
	got, err := C.Compute(context.Background(), in)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(got.Energy-o.Energy) > 1e-10 || math.Abs(got.ESP.At(2, 1)-o.ESP.At(2, 1)) > 1e-10 {
		Te.Errorf("Command returned %v, expected %v", got.Energy, o.Energy)
	}
	if _, err := os.Stat(filepath.Join(dir, "goqmmm.inp")); !os.IsNotExist(err) {
		Te.Error("input file should have been removed")
	}
	C = &Command{Path: sh, Args: []string{"-c", "exit 3"}, Dir: dir, Name: "failing"}
	_, err = C.Compute(context.Background(), in)
	if err == nil {
		Te.Fatal("a failing program should return an error")
	}
	if e, ok := err.(Error); !ok || e.Code() != sh {
		Te.Errorf("unexpected error %v", err)
	}
	fmt.Println(err)
}
