/*
 * tensor_test.go, part of goqmmm
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

package tensor

import (
	"math"
	"testing"
)

func TestIndexing(Te *testing.T) {
	t := New(3, 2, 4)
	t.Set(5, 2, 1, 3)
	if t.Data()[2*8+1*4+3] != 5 {
		Te.Error("Set wrote to the wrong place")
	}
	s := t.Slab(2)
	if s.At(1, 3) != 5 {
		Te.Error("Slab does not see the parent data")
	}
	s.Set(7, 0, 0)
	if t.At(2, 0, 0) != 7 {
		Te.Error("Slab should share storage")
	}
	m := s.Matrix()
	if r, c := m.Dims(); r != 2 || c != 4 || m.At(1, 3) != 5 {
		Te.Errorf("Wrong matrix view %d %d", r, c)
	}
	sc := New()
	if sc.Rank() != 0 || sc.Len() != 1 {
		Te.Error("A tensor without shape should be a scalar")
	}
}

func TestTake(Te *testing.T) {
	t := New(2, 3)
	for i := 0; i < 6; i++ {
		t.Data()[i] = float64(i)
	}
	r := t.Take([]int{2, 0})
	if r.Dim(1) != 2 || r.At(0, 0) != 2 || r.At(1, 0) != 5 || r.At(1, 1) != 3 {
		Te.Errorf("Take gave %v", r)
	}
	e := t.Take(nil)
	if e.Len() != 0 || !e.Matrix().IsEmpty() {
		Te.Error("Taking no indexes should give an empty tensor")
	}
}

func TestNanToNum(Te *testing.T) {
	t := FromData([]float64{1, math.Inf(1), math.NaN(), math.Inf(-1)}, 2, 2)
	c := t.Clone()
	t.NanToNum()
	if t.At(0, 0) != 1 || t.At(0, 1) != 0 || t.At(1, 0) != 0 || t.At(1, 1) != 0 {
		Te.Errorf("NanToNum gave %v", t.Data())
	}
	if !math.IsInf(c.At(0, 1), 1) {
		Te.Error("Clone should not share storage")
	}
}
