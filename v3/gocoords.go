/*
 * gocoords.go, part of goqmmm
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//AddVec adds the vector vec to each vector of A, putting the result in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	n := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != n {
		panic(ErrShape)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec.At(0, j))
		}
	}
}

//SubVec subtracts the vector vec from each vector of A, putting
//the result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	n := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != n {
		panic(ErrShape)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)-vec.At(0, j))
		}
	}
}

//Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() *Matrix {
	n := F.NVecs()
	c := Zeros(1)
	if n == 0 {
		return c
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			c.Set(0, j, c.At(0, j)+F.At(i, j))
		}
	}
	c.Dense.Scale(1/float64(n), c.Dense)
	return c
}

//Cross puts the cross product of the first vecs of a and b in the first vec of F. Panics if error.
func (F *Matrix) Cross(a, b *Matrix) {
	if a.NVecs() < 1 || b.NVecs() < 1 || F.NVecs() < 1 {
		panic(ErrNoCrossProduct)
	}
	x := a.At(0, 1)*b.At(0, 2) - a.At(0, 2)*b.At(0, 1)
	y := a.At(0, 2)*b.At(0, 0) - a.At(0, 0)*b.At(0, 2)
	z := a.At(0, 0)*b.At(0, 1) - a.At(0, 1)*b.At(0, 0)
	F.Set(0, 0, x)
	F.Set(0, 1, y)
	F.Set(0, 2, z)
}

//VecNorm returns the euclidean norm of the first vector of F.
func (F *Matrix) VecNorm() float64 {
	return math.Sqrt(F.At(0, 0)*F.At(0, 0) + F.At(0, 1)*F.At(0, 1) + F.At(0, 2)*F.At(0, 2))
}

//Det returns the determinant of a 3x3 matrix. Panics if the matrix is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return (A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) - A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) + A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2)))
}

//IsZero returns true if every element of F is within appzero of 0
func (F *Matrix) IsZero() bool {
	r, c := F.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(F.At(i, j)) > appzero {
				return false
			}
		}
	}
	return true
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	if r == 0 {
		return "[]"
	}
	v := make([]string, 0, r+2)
	v = append(v, "\n[")
	for i := 0; i < r; i++ {
		sep := "\n"
		if i == r-1 {
			sep = ""
		}
		lead := " "
		if i == 0 {
			lead = ""
		}
		v = append(v, fmt.Sprintf("%s%6.2f %6.2f %6.2f%s", lead, F.At(i, 0), F.At(i, 1), F.At(i, 2), sep))
	}
	v = append(v, " ]")
	return strings.Join(v, "")
}
