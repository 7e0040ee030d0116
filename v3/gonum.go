/*
 * gonum.go, part of goqmmm
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

//gonum.go contains the Matrix type and the thin layer over gonum's mat.Dense
//that the rest of goqmmm uses to handle cartesian coordinates.

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, backed by a row-major gonum Dense.
//Within the package it is understood that a "vector" is a row vector, i.e. the
//cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

//Dense2Matrix wraps A, which must have 3 columns, in a Matrix. No copy is made.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
//The data slice is not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	if l == 0 {
		return Zeros(0), nil
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors.
//gonum does not allow empty Dense matrices, so Zeros(0) returns a Matrix
//with a nil Dense that reports 0 vectors.
func Zeros(vecs int) *Matrix {
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//Dims returns the dimensions of the matrix, (0,3) for an empty one.
func (F *Matrix) Dims() (int, int) {
	if F.Dense == nil || F.Dense.IsEmpty() {
		return 0, 3
	}
	return F.Dense.Dims()
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the view
//are reflected in F.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting at vector i and spanning r vectors.
func (F *Matrix) View(i, r int) *Matrix {
	ret := F.Dense.Slice(i, i+r, 0, 3).(*mat.Dense)
	return &Matrix{ret}
}

//Vec returns a copy of the ith vector as a slice.
func (F *Matrix) Vec(i int) []float64 {
	return mat.Row(nil, i, F.Dense)
}

//Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	n := F.NVecs()
	r := Zeros(n)
	if n > 0 {
		r.Copy(F.Dense)
	}
	return r
}

//Add puts A+B in the receiver. The arguments are unwrapped before calling
//mat.Dense, so the receiver can alias either of them.
func (F *Matrix) Add(A, B *Matrix) {
	if A.NVecs() == 0 {
		return
	}
	F.Dense.Add(A.Dense, B.Dense)
}

//Sub puts A-B in the receiver.
func (F *Matrix) Sub(A, B *Matrix) {
	if A.NVecs() == 0 {
		return
	}
	F.Dense.Sub(A.Dense, B.Dense)
}

//Scale puts v*A in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	if A.NVecs() == 0 {
		return
	}
	F.Dense.Scale(v, A.Dense)
}

//SomeVecs puts in the receiver the vectors of A with indexes in clist, in the same
//order as clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	an := A.NVecs()
	for key, val := range clist {
		if val >= an {
			panic(ErrIndexOutOfRange)
		}
		for j := 0; j < 3; j++ {
			F.Set(key, j, A.At(val, j))
		}
	}
}

//SetVecs sets the vectors with index n = each value in clist in the receiver to the
//corresponding vector of A.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	if A.NVecs() < len(clist) {
		panic(ErrShape)
	}
	fn := F.NVecs()
	for key, val := range clist {
		if val >= fn {
			panic(ErrIndexOutOfRange)
		}
		for j := 0; j < 3; j++ {
			F.Set(val, j, A.At(key, j))
		}
	}
}

//Stack puts A stacked over B in F
func (F *Matrix) Stack(A, B *Matrix) {
	ar := A.NVecs()
	br := B.NVecs()
	if F.NVecs() < ar+br {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j))
		}
	}
	for i := 0; i < br; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i+ar, j, B.At(i, j))
		}
	}
}

//Errors

//errorInt is the same as qmmm.Error, repeated here to avoid circular imports.
type errorInt interface {
	Error() string
	Critical() bool
	Decorate(string) []string
}

//Error is the error type for the v3 package.
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
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("goqmmm/v3: A v3.Matrix should have 3 columns")
	ErrNoCrossProduct  = PanicMsg("goqmmm/v3: Invalid matrix for cross product")
	ErrDeterminant     = PanicMsg("goqmmm/v3: Determinants are only available for 3x3 matrices")
	ErrShape           = PanicMsg("goqmmm/v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("goqmmm/v3: index out of range")
)
