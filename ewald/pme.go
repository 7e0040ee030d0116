/*
 * pme.go, part of goqmmm
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

package ewald

import (
	"fmt"
	"math"

	"github.com/rmera/goqmmm/tensor"
	v3 "github.com/rmera/goqmmm/v3"
)

const (
	DefaultPMETol     = 1e-8
	DefaultPMEOrder   = 6
	DefaultPMESpacing = 1.0
)

//PME is the smooth particle-mesh Ewald method. Only orthorhombic cells are supported;
//binding any other cell gives an error wrapping ErrUnavailable.
type PME struct {
	Tol     float64 //accuracy of the real space sum at the cutoff
	Order   int     //B-spline interpolation order
	Cutoff  float64 //real space cutoff
	Spacing float64 //target grid spacing
}

func (PME) Name() string { return "pme" }

func (p PME) Bind(cell *v3.Matrix) (Kernel, error) {
	if !Periodic(cell) {
		return nil, Error{"goqmmm/ewald: PME needs a non-degenerate cell", []string{"PME.Bind"}, true}
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if a != b && math.Abs(cell.At(a, b)) > 1e-8 {
				return nil, unavailable{Error{"goqmmm/ewald: PME is only available for orthorhombic cells", []string{"PME.Bind"}, true}}
			}
		}
	}
	if p.Tol <= 0 {
		p.Tol = DefaultPMETol
	}
	if p.Order <= 0 {
		p.Order = DefaultPMEOrder
	}
	if p.Spacing <= 0 {
		p.Spacing = DefaultPMESpacing
	}
	if p.Order < 3 {
		return nil, Error{fmt.Sprintf("goqmmm/ewald: PME order must be at least 3, got %d", p.Order), []string{"PME.Bind"}, true}
	}
	if p.Cutoff <= 0 {
		return nil, Error{"goqmmm/ewald: PME needs a positive real space cutoff", []string{"PME.Bind"}, true}
	}
	k := &pmeKernel{order: p.Order, cutoff: p.Cutoff}
	for a := 0; a < 3; a++ {
		k.box[a] = math.Abs(cell.At(a, a))
		if p.Cutoff > k.box[a] {
			return nil, unavailable{Error{fmt.Sprintf("goqmmm/ewald: PME cutoff %g is larger than the cell (%g)", p.Cutoff, k.box[a]), []string{"PME.Bind"}, true}}
		}
		n := int(math.Ceil(k.box[a] / p.Spacing))
		if n < p.Order {
			n = p.Order
		}
		k.dims[a] = FFTSize(n)
	}
	k.alpha = AlphaForCutoff(p.Cutoff, p.Tol)
	k.volume = k.box[0] * k.box[1] * k.box[2]
	k.influence()
	return k, nil
}

type pmeKernel struct {
	order  int
	cutoff float64
	alpha  float64
	box    [3]float64
	volume float64
	dims   [3]int
	infl   []float64 //C(m)|b(m)|^2 on the grid
}

//Alpha returns the Ewald damping parameter used by the kernel.
func (k *pmeKernel) Alpha() float64 { return k.alpha }

//Dims returns the size of the FFT grid.
func (k *pmeKernel) Dims() [3]int { return k.dims }

func (k *pmeKernel) influence() {
	K := k.dims
	var mod [3][]float64
	for a := 0; a < 3; a++ {
		mod[a] = bsplineModuli(K[a], k.order)
	}
	fold := func(m, n int) float64 {
		if m > n/2 {
			return float64(m - n)
		}
		return float64(m)
	}
	k.infl = make([]float64, K[0]*K[1]*K[2])
	pa2 := math.Pi * math.Pi / (k.alpha * k.alpha)
	for a := 0; a < K[0]; a++ {
		ma := fold(a, K[0]) / k.box[0]
		for b := 0; b < K[1]; b++ {
			mb := fold(b, K[1]) / k.box[1]
			for c := 0; c < K[2]; c++ {
				if a == 0 && b == 0 && c == 0 {
					continue
				}
				mc := fold(c, K[2]) / k.box[2]
				m2 := ma*ma + mb*mb + mc*mc
				k.infl[(a*K[1]+b)*K[2]+c] = math.Exp(-pa2*m2) / (math.Pi * k.volume * m2) * mod[0][a] * mod[1][b] * mod[2][c]
			}
		}
	}
}

//stencil holds the grid points and weights an atom spreads onto, or is interpolated from.
type stencil struct {
	idx [3][]int
	w   [3][]float64
	dw  [3][]float64
}

func (k *pmeKernel) stencil(r []float64) stencil {
	var s stencil
	for a := 0; a < 3; a++ {
		f := r[a] / k.box[a]
		f -= math.Floor(f)
		u := f * float64(k.dims[a])
		base := int(math.Floor(u))
		w := u - float64(base)
		s.w[a], s.dw[a] = splines(w, k.order)
		s.idx[a] = make([]int, k.order)
		for t := 0; t < k.order; t++ {
			s.idx[a][t] = ((base-t)%k.dims[a] + k.dims[a]) % k.dims[a]
		}
	}
	return s
}

//potential returns the potential, and its gradient with respect to the probe
//position, that the charges q at src produce at each probe. The central-cell
//interaction of the pairs for which skip(probe, source) is true is left out.
//Results are in kcal/mol/e and kcal/mol/e/A.
func (k *pmeKernel) potential(src *v3.Matrix, q []float64, probes *v3.Matrix, skip func(p, s int) bool) ([]float64, [][3]float64) {
	np, ns := probes.NVecs(), src.NVecs()
	phi := make([]float64, np)
	grad := make([][3]float64, np)
	a := k.alpha
	a2 := a * a
	sqpi := math.Sqrt(math.Pi)
	c2 := k.cutoff * k.cutoff
	//real space
	for p := 0; p < np; p++ {
		for s := 0; s < ns; s++ {
			if q[s] == 0 {
				continue
			}
			var x0 [3]float64
			for c := 0; c < 3; c++ {
				d := src.At(s, c) - probes.At(p, c)
				x0[c] = d - k.box[c]*math.Round(d/k.box[c])
			}
			skipped := skip(p, s)
			for i := -1; i <= 1; i++ {
				for j := -1; j <= 1; j++ {
					for l := -1; l <= 1; l++ {
						if skipped && i == 0 && j == 0 && l == 0 {
							continue
						}
						x := [3]float64{x0[0] + float64(i)*k.box[0], x0[1] + float64(j)*k.box[1], x0[2] + float64(l)*k.box[2]}
						d2 := x[0]*x[0] + x[1]*x[1] + x[2]*x[2]
						if d2 >= c2 || d2 == 0 {
							continue
						}
						d := math.Sqrt(d2)
						erfc := math.Erfc(a * d)
						phi[p] += q[s] * erfc / d
						f := q[s] * (erfc/(d2*d) + 2*a*math.Exp(-a2*d2)/(sqpi*d2))
						grad[p][0] += f * x[0]
						grad[p][1] += f * x[1]
						grad[p][2] += f * x[2]
					}
				}
			}
			if !skipped {
				continue
			}
			d := math.Sqrt(x0[0]*x0[0] + x0[1]*x0[1] + x0[2]*x0[2])
			if d == 0 {
				phi[p] -= q[s] * 2 * a / sqpi
				continue
			}
			erf := math.Erf(a * d)
			phi[p] -= q[s] * erf / d
			f := q[s] * (-erf/(d*d*d) + 2*a*math.Exp(-a2*d*d)/(sqpi*d*d))
			grad[p][0] += f * x0[0]
			grad[p][1] += f * x0[1]
			grad[p][2] += f * x0[2]
		}
	}
	//neutralizing background
	total := 0.0
	for _, v := range q {
		total += v
	}
	bg := math.Pi / (k.volume * a2) * total
	for p := range phi {
		phi[p] -= bg
	}
	//reciprocal space
	g := newGrid(k.dims)
	row := make([]float64, 3)
	for s := 0; s < ns; s++ {
		if q[s] == 0 {
			continue
		}
		st := k.stencil(mat3Row(src, s, row))
		for t0, i0 := range st.idx[0] {
			w0 := q[s] * st.w[0][t0]
			for t1, i1 := range st.idx[1] {
				w01 := w0 * st.w[1][t1]
				for t2, i2 := range st.idx[2] {
					g.data[g.index(i0, i1, i2)] += complex(w01*st.w[2][t2], 0)
				}
			}
		}
	}
	g.transform()
	for i, v := range k.infl {
		g.data[i] *= complex(v, 0)
	}
	g.inverse()
	scale := [3]float64{float64(k.dims[0]) / k.box[0], float64(k.dims[1]) / k.box[1], float64(k.dims[2]) / k.box[2]}
	for p := 0; p < np; p++ {
		st := k.stencil(mat3Row(probes, p, row))
		var v, g0, g1, g2 float64
		for t0, i0 := range st.idx[0] {
			for t1, i1 := range st.idx[1] {
				for t2, i2 := range st.idx[2] {
					val := real(g.data[g.index(i0, i1, i2)])
					v += st.w[0][t0] * st.w[1][t1] * st.w[2][t2] * val
					g0 += st.dw[0][t0] * st.w[1][t1] * st.w[2][t2] * val
					g1 += st.w[0][t0] * st.dw[1][t1] * st.w[2][t2] * val
					g2 += st.w[0][t0] * st.w[1][t1] * st.dw[2][t2] * val
				}
			}
		}
		phi[p] += v
		//the gradient so far is with respect to the probe; the reciprocal part is too.
		grad[p][0] += g0 * scale[0]
		grad[p][1] += g1 * scale[1]
		grad[p][2] += g2 * scale[2]
	}
	for p := range phi {
		phi[p] *= Coulomb
		for c := 0; c < 3; c++ {
			grad[p][c] *= Coulomb
		}
	}
	return phi, grad
}

func mat3Row(m *v3.Matrix, i int, dst []float64) []float64 {
	dst[0], dst[1], dst[2] = m.At(i, 0), m.At(i, 1), m.At(i, 2)
	return dst
}

func (k *pmeKernel) Evaluate(s Sources) (Field, error) {
	if len(s.Charges) != s.Env.NVecs() {
		return nil, Error{"goqmmm/ewald: number of charges and environment atoms differ", []string{"PME.Evaluate"}, true}
	}
	excl := s.excludedMask()
	phi, grad := k.potential(s.Env, s.Charges, s.QM, func(p, src int) bool { return excl[src] })
	nq := len(phi)
	esp := tensor.New(4, nq)
	for i := 0; i < nq; i++ {
		esp.Set(phi[i], 0, i)
		for c := 0; c < 3; c++ {
			esp.Set(grad[i][c], c+1, i)
		}
	}
	return &pmeField{k: k, s: s, excl: excl, esp: esp}, nil
}

type pmeField struct {
	k    *pmeKernel
	s    Sources
	excl []bool
	esp  *tensor.Dense
}

func (f *pmeField) ESP() *tensor.Dense { return f.esp }

//SourceGradient runs the mesh calculation again, with the weights u as
//charges on the QM sites and the environment atoms as probes.
func (f *pmeField) SourceGradient(u []float64) (*v3.Matrix, error) {
	if len(u) != f.s.QM.NVecs() {
		return nil, Error{"goqmmm/ewald: wrong number of QM weights", []string{"PME.SourceGradient"}, true}
	}
	_, grad := f.k.potential(f.s.QM, u, f.s.Env, func(p, src int) bool { return f.excl[p] })
	ne := f.s.Env.NVecs()
	ret := v3.Zeros(ne)
	for j := 0; j < ne; j++ {
		for c := 0; c < 3; c++ {
			ret.Set(j, c, f.s.Charges[j]*grad[j][c])
		}
	}
	return ret, nil
}
