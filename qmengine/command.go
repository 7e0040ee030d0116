/*
 * command.go, part of goqmmm
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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

//Command runs an external driver program for each QM calculation. The driver
//is called as
//	Path Args... name.inp name.out
//from Dir. name.inp contains the header line "nqm nemb charge multiplicity step",
//nqm lines "x y z element" and nemb lines "x y z charge" (Angstrom, e).
//The driver must write to name.out the QM energy, nqm lines with the QM
//gradient, and nemb lines "esp gx gy gz", all in atomic units.
//The driver is responsible for translating to and from the QM program it runs.
type Command struct {
	Path      string
	Args      []string
	Dir       string
	Name      string //defaults to "goqmmm"
	KeepFiles bool
	Logger    hclog.Logger
}

func (C *Command) name() string {
	if C.Name == "" {
		return "goqmmm"
	}
	return C.Name
}

func (C *Command) logger() hclog.Logger {
	if C.Logger == nil {
		return hclog.NewNullLogger()
	}
	return C.Logger
}

func (C *Command) Compute(ctx context.Context, in Input) (Output, error) {
	if C.Path == "" {
		return Output{}, Error{ErrNoCommand, "", C.name(), "", []string{"Command.Compute"}, true}
	}
	inp := filepath.Join(C.Dir, C.name()+".inp")
	outname := filepath.Join(C.Dir, C.name()+".out")
	f, err := os.Create(inp)
	if err != nil {
		return Output{}, Error{ErrCantInput, C.Path, inp, err.Error(), []string{"os.Create", "Command.Compute"}, true}
	}
	err = WriteInput(f, in)
	f.Close()
	if err != nil {
		return Output{}, errDecorate(err, "Command.Compute")
	}
	if !C.KeepFiles {
		defer os.Remove(inp)
		defer os.Remove(outname)
	}
	args := append(append([]string(nil), C.Args...), C.name()+".inp", C.name()+".out")
	command := exec.CommandContext(ctx, C.Path, args...)
	command.Dir = C.Dir
	log := C.logger()
	log.Debug("running QM program", "command", C.Path, "args", strings.Join(args, " "), "step", in.Step)
	combined, err := command.CombinedOutput()
	if err != nil {
		log.Error("QM program failed", "command", C.Path, "error", err, "output", string(combined))
		return Output{}, Error{ErrNotRunning, C.Path, inp, err.Error(), []string{"exec.CommandContext", "Command.Compute"}, true}
	}
	fout, err := os.Open(outname)
	if err != nil {
		return Output{}, Error{ErrNoOutput, C.Path, inp, err.Error(), []string{"os.Open", "Command.Compute"}, true}
	}
	defer fout.Close()
	out, err := ReadOutput(fout, in.NQM(), in.NEmb())
	if err != nil {
		return Output{}, errDecorate(err, "Command.Compute")
	}
	return out, nil
}

//WriteInput writes in to w in the format read by Command drivers.
func WriteInput(w io.Writer, in Input) error {
	nq := in.NQM()
	if nq > 0 && len(in.Elements) < nq {
		return Error{ErrMissingData, "", "", "fewer elements than QM atoms", []string{"WriteInput"}, true}
	}
	if in.NEmb() > 0 && (in.Embedding == nil || in.Embedding.NVecs() != in.NEmb()) {
		return Error{ErrMissingData, "", "", "embedding positions don't match the charges", []string{"WriteInput"}, true}
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%d %d %d %d %d\n", nq, in.NEmb(), in.Charge, in.Multiplicity, in.Step)
	for i := 0; i < nq; i++ {
		fmt.Fprintf(b, "%18.10f %18.10f %18.10f %s\n", in.QM.At(i, 0), in.QM.At(i, 1), in.QM.At(i, 2), in.Elements[i])
	}
	for j, q := range in.Charges {
		fmt.Fprintf(b, "%18.10f %18.10f %18.10f %18.10f\n", in.Embedding.At(j, 0), in.Embedding.At(j, 1), in.Embedding.At(j, 2), q)
	}
	if err := b.Flush(); err != nil {
		return Error{ErrCantInput, "", "", err.Error(), []string{"bufio.Flush", "WriteInput"}, true}
	}
	return nil
}

//ReadOutput parses a driver output for nqm QM atoms and nemb embedding charges.
//Blank lines are ignored.
func ReadOutput(r io.Reader, nqm, nemb int) (Output, error) {
	out := Output{Gradient: v3.Zeros(nqm), ESP: tensor.New(4, nemb)}
	s := bufio.NewScanner(r)
	line := 0
	next := func(want int) ([]float64, error) {
		for s.Scan() {
			line++
			fields := strings.Fields(s.Text())
			if len(fields) == 0 {
				continue
			}
			if len(fields) < want {
				return nil, Error{ErrBadOutput, "", "", fmt.Sprintf("line %d: expected %d fields, got %d", line, want, len(fields)), []string{"ReadOutput"}, true}
			}
			ret := make([]float64, want)
			for k := range ret {
				v, err := strconv.ParseFloat(fields[k], 64)
				if err != nil {
					return nil, Error{ErrBadOutput, "", "", fmt.Sprintf("line %d: %s", line, err.Error()), []string{"strconv.ParseFloat", "ReadOutput"}, true}
				}
				ret[k] = v
			}
			return ret, nil
		}
		if err := s.Err(); err != nil {
			return nil, Error{ErrNoOutput, "", "", err.Error(), []string{"bufio.Scan", "ReadOutput"}, true}
		}
		return nil, Error{ErrBadOutput, "", "", "unexpected end of output", []string{"ReadOutput"}, true}
	}
	e, err := next(1)
	if err != nil {
		return Output{}, err
	}
	out.Energy = e[0]
	for i := 0; i < nqm; i++ {
		g, err := next(3)
		if err != nil {
			return Output{}, err
		}
		for c, v := range g {
			out.Gradient.Set(i, c, v)
		}
	}
	for j := 0; j < nemb; j++ {
		v, err := next(4)
		if err != nil {
			return Output{}, err
		}
		for c := 0; c < 4; c++ {
			out.ESP.Set(v[c], c, j)
		}
	}
	return out, nil
}
