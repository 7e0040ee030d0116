/*
 * v3_test.go, part of goqmmm
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
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Error(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("Expected 3 vectors, got %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("NewMatrix should fail with a slice not divisible by 3")
	}
	E := Zeros(0)
	if E.NVecs() != 0 {
		Te.Error("Empty matrix should have 0 vectors")
	}
	fmt.Println(A)
}

func TestSomeVecsStack(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2, 3, 3, 3})
	B := Zeros(2)
	B.SomeVecs(A, []int{2, 0})
	if B.At(0, 0) != 3 || B.At(1, 0) != 1 {
		Te.Errorf("SomeVecs gave the wrong vectors: %v", B)
	}
	C := Zeros(5)
	C.Stack(A, B)
	if C.At(3, 1) != 3 || C.At(4, 2) != 1 {
		Te.Errorf("Stack gave the wrong matrix: %v", C)
	}
	D := Zeros(3)
	D.SetVecs(B, []int{1, 2})
	if D.At(1, 0) != 3 || D.At(2, 0) != 1 || D.At(0, 0) != 0 {
		Te.Errorf("SetVecs gave the wrong matrix: %v", D)
	}
	v := A.VecView(1)
	v.Set(0, 0, 10)
	if A.At(1, 0) != 10 {
		Te.Error("VecView should be a view")
	}
	cl := A.Clone()
	cl.Set(0, 0, -1)
	if A.At(0, 0) == -1 {
		Te.Error("Clone should not share data")
	}
}

func TestGeo(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0, 2})
	c := A.Centroid()
	if math.Abs(c.At(0, 0)-0.5) > 1e-12 || math.Abs(c.At(0, 2)-0.5) > 1e-12 {
		Te.Errorf("Wrong centroid %v", c)
	}
	B := Zeros(4)
	B.SubVec(A, c)
	c2 := B.Centroid()
	if !c2.IsZero() {
		Te.Errorf("Centered set should have a zero centroid %v", c2)
	}
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	if z.At(0, 2) != 1 || z.VecNorm() != 1 {
		Te.Errorf("Wrong cross product %v", z)
	}
	cell, _ := NewMatrix([]float64{2, 0, 0, 0, 3, 0, 0, 0, 4})
	if Det(cell) != 24 {
		Te.Errorf("Wrong determinant %v", Det(cell))
	}
}

func TestArithmeticInPlace(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	B, _ := NewMatrix([]float64{0.5, 0.5, 0.5, -1, -1, -1})
	A.Add(A, B)
	if A.At(0, 0) != 1.5 || A.At(1, 2) != 5 {
		Te.Errorf("unexpected sum %v", A)
	}
	A.Sub(A, B)
	if A.At(0, 1) != 2 || A.At(1, 0) != 4 {
		Te.Errorf("unexpected difference %v", A)
	}
	A.Scale(2, A)
	if A.At(1, 2) != 12 {
		Te.Errorf("unexpected scaled matrix %v", A)
	}
	//views alias their parent too.
	v := A.VecView(1)
	v.Scale(0.5, v)
	if A.At(1, 0) != 4 {
		Te.Errorf("scaling a view should change the parent, got %v", A)
	}
	E := Zeros(0)
	E.Add(E, Zeros(0))
	E.Scale(3, E)
	fmt.Println("in place arithmetic", A)
}
