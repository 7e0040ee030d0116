/*
 * tensor.go, part of goqmmm
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

//Package tensor provides a small row-major dense tensor of rank 0 to 4, used for the
//pairwise QM/environment quantities of goqmmm (e.g. 3 x NQM x NEnv displacement tensors).
//Rank-2 slabs of a tensor can be viewed as gonum mat.Dense matrices sharing the
//same storage.
package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Dense is a row-major tensor. The last index varies fastest.
type Dense struct {
	shape []int
	data  []float64
}

//New returns a zero-filled tensor with the given shape. A call without
//arguments gives a scalar.
func New(shape ...int) *Dense {
	if len(shape) > 4 {
		panic(ErrRank)
	}
	n := 1
	for _, v := range shape {
		if v < 0 {
			panic(ErrShape)
		}
		n *= v
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return &Dense{shape: s, data: make([]float64, n)}
}

//FromData returns a tensor of the given shape that uses data as storage.
func FromData(data []float64, shape ...int) *Dense {
	t := &Dense{shape: append([]int(nil), shape...)}
	if t.Len() != len(data) {
		panic(ErrShape)
	}
	t.data = data
	return t
}

//Shape returns a copy of the shape of the tensor.
func (t *Dense) Shape() []int {
	return append([]int(nil), t.shape...)
}

//Dim returns the size along axis i.
func (t *Dense) Dim(i int) int {
	return t.shape[i]
}

//Rank is the number of axes.
func (t *Dense) Rank() int {
	return len(t.shape)
}

//Len is the total number of elements.
func (t *Dense) Len() int {
	n := 1
	for _, v := range t.shape {
		n *= v
	}
	return n
}

//Data returns the underlying storage. Changes are reflected in the tensor.
func (t *Dense) Data() []float64 {
	return t.data
}

func (t *Dense) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(ErrRank)
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= t.shape[k] {
			panic(ErrIndexOutOfRange)
		}
		off = off*t.shape[k] + i
	}
	return off
}

//At returns the element at the given index.
func (t *Dense) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

//Set sets the element at the given index to v.
func (t *Dense) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

//Slab returns the sub-tensor with the first index fixed to i. The
//slab shares storage with t.
func (t *Dense) Slab(i int) *Dense {
	if len(t.shape) == 0 {
		panic(ErrRank)
	}
	if i < 0 || i >= t.shape[0] {
		panic(ErrIndexOutOfRange)
	}
	inner := t.shape[1:]
	n := 1
	for _, v := range inner {
		n *= v
	}
	return &Dense{shape: append([]int(nil), inner...), data: t.data[i*n : (i+1)*n : (i+1)*n]}
}

//Matrix returns a view of a rank-2 tensor as a gonum Dense matrix. It returns
//an empty matrix if either dimension is 0, as gonum does not allow zero-sized
//matrices.
func (t *Dense) Matrix() *mat.Dense {
	if len(t.shape) != 2 {
		panic(ErrRank)
	}
	if t.shape[0] == 0 || t.shape[1] == 0 {
		return new(mat.Dense)
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

//FromMatrix copies a gonum matrix into a new rank-2 tensor.
func FromMatrix(m mat.Matrix) *Dense {
	r, c := m.Dims()
	t := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.data[i*c+j] = m.At(i, j)
		}
	}
	return t
}

//Take returns a new tensor with only the elements whose last index is in idx,
//in the order given.
func (t *Dense) Take(idx []int) *Dense {
	if len(t.shape) == 0 {
		panic(ErrRank)
	}
	last := t.shape[len(t.shape)-1]
	outer := 1
	for _, v := range t.shape[:len(t.shape)-1] {
		outer *= v
	}
	shape := t.Shape()
	shape[len(shape)-1] = len(idx)
	r := New(shape...)
	for o := 0; o < outer; o++ {
		for k, j := range idx {
			if j < 0 || j >= last {
				panic(ErrIndexOutOfRange)
			}
			r.data[o*len(idx)+k] = t.data[o*last+j]
		}
	}
	return r
}

//Clone returns a deep copy of t.
func (t *Dense) Clone() *Dense {
	d := make([]float64, len(t.data))
	copy(d, t.data)
	return &Dense{shape: t.Shape(), data: d}
}

//Scale multiplies every element by f, in place.
func (t *Dense) Scale(f float64) {
	for i := range t.data {
		t.data[i] *= f
	}
}

//Add adds o to t elementwise, in place.
func (t *Dense) Add(o *Dense) {
	if len(o.data) != len(t.data) {
		panic(ErrShape)
	}
	for i, v := range o.data {
		t.data[i] += v
	}
}

//NanToNum replaces NaN and infinite elements with 0, in place.
func (t *Dense) NanToNum() {
	for i, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.data[i] = 0
		}
	}
}

//String gives a short description, not the full data.
func (t *Dense) String() string {
	if len(t.data) <= 12 {
		return fmt.Sprintf("tensor%v%v", t.shape, t.data)
	}
	return fmt.Sprintf("tensor%v[%g %g %g ... %g]", t.shape, t.data[0], t.data[1], t.data[2], t.data[len(t.data)-1])
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrRank            = PanicMsg("goqmmm/tensor: wrong rank")
	ErrShape           = PanicMsg("goqmmm/tensor: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("goqmmm/tensor: index out of range")
)
