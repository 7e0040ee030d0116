/*
 * writer.go, part of goqmmm
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

package qmio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	qmmm "github.com/rmera/goqmmm"
	v3 "github.com/rmera/goqmmm/v3"
)

//Writer writes the results of consecutive steps: for each of them, a line with the step
//and the energy, followed by one line per atom with the gradient.
type Writer struct {
	f        *os.File
	z        io.WriteCloser //compressor, if any
	b        *bufio.Writer
	filename string
	prec     int
}

//Create creates the file name for writing results. The file is compressed according
//to its extension.
func Create(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Create", "Create"}, true}
	}
	W := &Writer{f: f, filename: name, prec: 10}
	var w io.Writer = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, Error{err.Error(), name, []string{"zstd.NewWriter", "Create"}, true}
		}
		W.z = z
		w = z
	case strings.HasSuffix(name, ".gz"):
		z := gzip.NewWriter(f)
		W.z = z
		w = z
	}
	W.b = bufio.NewWriter(w)
	return W, nil
}

//NewWriter returns a Writer that writes uncompressed results to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{b: bufio.NewWriter(w), prec: 10}
}

//Precision returns the number of decimals written, and sets it to a new value if given.
func (W *Writer) Precision(p ...int) int {
	if len(p) > 0 && p[0] > 0 {
		W.prec = p[0]
	}
	return W.prec
}

//WriteResult writes r.
func (W *Writer) WriteResult(r *qmmm.Result) error {
	f := fmt.Sprintf("%%.%df", W.prec)
	row := f + " " + f + " " + f + "\n"
	fmt.Fprintf(W.b, "%d "+f+"\n", r.Step, r.Energy)
	g := r.Gradient
	for i := 0; i < g.NVecs(); i++ {
		if _, err := fmt.Fprintf(W.b, row, g.At(i, 0), g.At(i, 1), g.At(i, 2)); err != nil {
			return Error{err.Error(), W.filename, []string{"WriteResult"}, true}
		}
	}
	return nil
}

//Flush writes any buffered data to the underlying writer.
func (W *Writer) Flush() error {
	if err := W.b.Flush(); err != nil {
		return Error{err.Error(), W.filename, []string{"Flush"}, true}
	}
	return nil
}

//Close flushes the Writer and closes the file, if any.
func (W *Writer) Close() error {
	if err := W.Flush(); err != nil {
		return err
	}
	if W.z != nil {
		if err := W.z.Close(); err != nil {
			return Error{err.Error(), W.filename, []string{"Close"}, true}
		}
	}
	if W.f != nil {
		return W.f.Close()
	}
	return nil
}

//ReadResults reads all the results written by a Writer to r, for systems of natoms atoms.
func ReadResults(r io.Reader, natoms int) ([]*qmmm.Result, error) {
	R := NewReader(r)
	var ret []*qmmm.Result
	for {
		h, err := R.fields()
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, Error{err.Error(), "", []string{"ReadResults"}, true}
		}
		if len(h) != 2 {
			return nil, R.errorf("ReadResults", "expected 'step energy', got %q", strings.Join(h, " "))
		}
		v, err := parseFloats(h, 2)
		if err != nil {
			return nil, R.errorf("ReadResults", "%s", err.Error())
		}
		res := &qmmm.Result{Step: int(v[0]), Energy: v[1], Gradient: v3.Zeros(natoms)}
		for i := 0; i < natoms; i++ {
			f, err := R.fields()
			if err != nil || len(f) != 3 {
				return nil, R.errorf("ReadResults", "expected %d gradient lines", natoms)
			}
			g, err := parseFloats(f, 3)
			if err != nil {
				return nil, R.errorf("ReadResults", "%s", err.Error())
			}
			for c := 0; c < 3; c++ {
				res.Gradient.Set(i, c, g[c])
			}
		}
		ret = append(ret, res)
	}
}
