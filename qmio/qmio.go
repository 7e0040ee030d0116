/*
 * qmio.go, part of goqmmm
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

//Package qmio reads the QM/MM systems of each MD step, and writes the results, in a
//plain text format. A step starts with the header line
//	n_qm n_mm charge multiplicity step
//followed by n_qm lines "x y z q element" for the QM atoms, n_mm lines "x y z q"
//for the MM atoms and, optionally, 3 lines with the lattice vectors of the cell.
//Several steps can follow each other in the same file. Lines starting with #
//and blank lines are ignored.
//
//Files with names ending in .zst are zstd-compressed, those ending in .gz are
//gzip-compressed.
package qmio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	qmmm "github.com/rmera/goqmmm"
	v3 "github.com/rmera/goqmmm/v3"
)

//Reader reads consecutive steps from a stream.
type Reader struct {
	closers  []io.Closer
	b        *bufio.Reader
	pending  []string //a line read but not used yet
	line     int
	filename string
}

//zstdCloser adapts *zstd.Decoder, whose Close returns nothing, to io.Closer.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//Open opens the file name for reading.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "Open"}, true}
	}
	R := &Reader{filename: name, closers: []io.Closer{f}}
	var r io.Reader = bufio.NewReader(f)
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(r)
		if err != nil {
			f.Close()
			return nil, Error{err.Error(), name, []string{"zstd.NewReader", "Open"}, true}
		}
		R.closers = append([]io.Closer{zstdCloser{d}}, R.closers...)
		r = d
	case strings.HasSuffix(name, ".gz"):
		d, err := gzip.NewReader(r)
		if err != nil {
			f.Close()
			return nil, Error{err.Error(), name, []string{"gzip.NewReader", "Open"}, true}
		}
		R.closers = append([]io.Closer{d}, R.closers...)
		r = d
	}
	R.b = bufio.NewReader(r)
	return R, nil
}

//NewReader returns a Reader for an uncompressed stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{b: bufio.NewReader(r)}
}

//Read reads the raw, uncompressed, content of the stream, so a Reader can be
//given to ReadResults.
func (R *Reader) Read(p []byte) (int, error) {
	return R.b.Read(p)
}

//Close closes the underlying file, if any.
func (R *Reader) Close() error {
	var first error
	for _, c := range R.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//fields returns the fields of the next non-empty line, or io.EOF.
func (R *Reader) fields() ([]string, error) {
	if R.pending != nil {
		f := R.pending
		R.pending = nil
		return f, nil
	}
	for {
		l, err := R.b.ReadString('\n')
		if l == "" && err != nil {
			return nil, err
		}
		R.line++
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			if err != nil {
				return nil, err
			}
			continue
		}
		return strings.Fields(l), nil
	}
}

func (R *Reader) errorf(caller, format string, a ...any) Error {
	return Error{fmt.Sprintf("line %d: ", R.line) + fmt.Sprintf(format, a...), R.filename, []string{caller, "Next"}, true}
}

func parseFloats(f []string, n int) ([]float64, error) {
	r := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return nil, err
		}
		r[i] = v
	}
	return r, nil
}

//Next reads the next step. It returns io.EOF, unwrapped, when there are no more steps.
func (R *Reader) Next() (*qmmm.System, error) {
	h, err := R.fields()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	if len(h) != 5 {
		return nil, R.errorf("header", "expected 'n_qm n_mm charge multiplicity step', got %q", strings.Join(h, " "))
	}
	var hv [5]int
	for i, s := range h {
		if hv[i], err = strconv.Atoi(s); err != nil {
			return nil, R.errorf("header", "%s", err.Error())
		}
	}
	nqm, nmm := hv[0], hv[1]
	if nqm <= 0 || nmm < 0 {
		return nil, R.errorf("header", "invalid atom numbers %d %d", nqm, nmm)
	}
	n := nqm + nmm
	sys := &qmmm.System{
		Positions:    v3.Zeros(n),
		Charges:      make([]float64, n),
		Elements:     make([]string, nqm),
		NQM:          nqm,
		Charge:       hv[2],
		Multiplicity: hv[3],
		Step:         hv[4],
	}
	for i := 0; i < n; i++ {
		f, err := R.fields()
		if err != nil {
			return nil, R.errorf("atoms", "expected %d atoms, got %d: %v", n, i, err)
		}
		want := 4
		if i < nqm {
			want = 5
		}
		if len(f) < want {
			return nil, R.errorf("atoms", "expected %d fields, got %d", want, len(f))
		}
		v, err := parseFloats(f, 4)
		if err != nil {
			return nil, R.errorf("atoms", "%s", err.Error())
		}
		for c := 0; c < 3; c++ {
			sys.Positions.Set(i, c, v[c])
		}
		sys.Charges[i] = v[3]
		if i < nqm {
			sys.Elements[i] = f[4]
		}
	}
	//the cell is there if the next line is not a header.
	f, err := R.fields()
	if err != nil && err != io.EOF {
		return nil, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	if err == io.EOF || len(f) != 3 {
		R.pending = f
		return sys, nil
	}
	sys.Cell = v3.Zeros(3)
	for a := 0; a < 3; a++ {
		if a > 0 {
			if f, err = R.fields(); err != nil || len(f) != 3 {
				return nil, R.errorf("cell", "expected 3 lattice vectors")
			}
		}
		v, err := parseFloats(f, 3)
		if err != nil {
			return nil, R.errorf("cell", "%s", err.Error())
		}
		for c := 0; c < 3; c++ {
			sys.Cell.Set(a, c, v[c])
		}
	}
	return sys, nil
}

//WriteSystem writes sys to w in the step format.
func WriteSystem(w io.Writer, sys *qmmm.System) error {
	if err := sys.Check(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	n := sys.NAll()
	fmt.Fprintf(b, "%d %d %d %d %d\n", sys.NQM, n-sys.NQM, sys.Charge, sys.Multiplicity, sys.Step)
	for i := 0; i < n; i++ {
		p := sys.Positions
		fmt.Fprintf(b, "%15.8f %15.8f %15.8f %12.8f", p.At(i, 0), p.At(i, 1), p.At(i, 2), sys.Charges[i])
		if i < sys.NQM {
			fmt.Fprintf(b, " %s", sys.Elements[i])
		}
		b.WriteString("\n")
	}
	if sys.Cell != nil && sys.Cell.NVecs() == 3 {
		for a := 0; a < 3; a++ {
			fmt.Fprintf(b, "%15.8f %15.8f %15.8f\n", sys.Cell.At(a, 0), sys.Cell.At(a, 1), sys.Cell.At(a, 2))
		}
	}
	if err := b.Flush(); err != nil {
		return Error{err.Error(), "", []string{"WriteSystem"}, true}
	}
	return nil
}
