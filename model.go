/*
 * model.go, part of goqmmm
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

package qmmm

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/elec"
	"github.com/rmera/goqmmm/ewald"
	"github.com/rmera/goqmmm/geom"
	"github.com/rmera/goqmmm/qmengine"
	"github.com/rmera/goqmmm/switching"
	"github.com/rmera/goqmmm/tensor"
	"github.com/rmera/goqmmm/units"
	v3 "github.com/rmera/goqmmm/v3"
)

//Model is the computation graph of a QM/MM system with electrostatic embedding.
//The inputs of each step are written into its leaves, and the embedding, the
//energy and the gradient are computed only when read.
//A Model is not safe for concurrent use.
type Model struct {
	g        *dep.Graph
	opts     *Options
	log      hclog.Logger
	runID    string
	nqm      int
	nall     int
	periodic bool
	inputGen int //number of times the QM input has been computed

	qmResult dep.Node[qmResult] //only used without an engine
	external bool

	positions dep.Node[*v3.Matrix] //NAll x 3, also the environment
	qm        dep.Node[*v3.Matrix] //slice of positions
	charges   dep.Node[[]float64]
	elements  dep.Node[[]string]
	cell      dep.Node[*v3.Matrix]
	state     dep.Node[QMState]

	Geometry      *geom.Geometry
	Scale         dep.Node[[]float64]
	ScaleGradient dep.Node[*tensor.Dense]
	Near          *elec.NearField
	Kernel        dep.Node[ewald.Kernel]
	Field         dep.Node[ewald.Field]
	//FullESP is the 4 x NQM far field potential of all the charges at the QM sites.
	FullESP dep.Node[*tensor.Dense]
	//Projected are the near field charges that, through the coupling matrix,
	//reproduce the difference between the full and the scaled ESP at the QM sites.
	Projected          dep.Node[[]float64]
	EmbeddingCharges   dep.Node[[]float64]
	EmbeddingPositions dep.Node[*v3.Matrix]
	QMInput            dep.Node[qmengine.Input]
	//QMOutput is obtained from QMInput by the engine of the Model, if any.
	//Otherwise, it is the value given with SetQMResult.
	QMOutput dep.Node[qmengine.Output]
	Energy   dep.Node[float64]    //kcal/mol
	Gradient dep.Node[*v3.Matrix] //kcal/mol/A, NAll x 3
}

//Build returns a Model for sys, with the given options, or the defaults if no
//options are given. The model is valid as long as the number of atoms doesn't change.
func Build(sys *System, options ...*Options) (*Model, error) {
	var O *Options
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	} else {
		O = DefaultOptions()
	}
	if O.cutoff <= 0 {
		return nil, Error{"goqmmm: cutoff is not set", []string{"Build"}, true}
	}
	if err := sys.Check(); err != nil {
		return nil, errDecorate(err, "Build")
	}
	F, err := O.switchingFunction()
	if err != nil {
		return nil, errDecorate(err, "Build")
	}
	M := &Model{opts: O, nqm: sys.NQM, nall: sys.NAll(), runID: uuid.NewString()}
	M.log = O.logger.With("run", M.runID)
	M.periodic = O.pbc || ewald.Periodic(sys.cell())
	method, err := O.farFieldMethod(M.periodic, M.log.Named("farfield"))
	if err != nil {
		return nil, errDecorate(err, "Build")
	}
	//configuration problems with the cell are reported now, rather than at the first read.
	if _, err := method.Bind(sys.cell()); err != nil {
		return nil, errDecorate(err, "Build")
	}
	M.g = dep.NewGraph(dep.LogObserver{Logger: M.log.Named("graph")})
	if O.observer != nil {
		M.g.Observe(O.observer)
	}
	g := M.g
	nqm := M.nqm
	qmidx := make([]int, nqm)
	for i := range qmidx {
		qmidx[i] = i
	}
	M.positions = dep.LeafOf(g, "positions", sys.Positions)
	M.qm = dep.Slice(M.positions, "qm_positions", func(p *v3.Matrix) *v3.Matrix {
		return p.View(0, nqm)
	}, func(p, q *v3.Matrix) {
		p.SetVecs(q, qmidx)
	})
	M.charges = dep.LeafOf(g, "charges", sys.Charges)
	M.elements = dep.LeafOf(g, "elements", sys.Elements[:nqm])
	M.cell = dep.LeafOf(g, "cell", sys.cell())
	M.state = dep.LeafOf(g, "qm_state", sys.state())

	M.Geometry = geom.New(g, M.qm, M.positions, O.beta)
	M.Scale, M.ScaleGradient = switching.Nodes(g, F, M.Geometry.DijMin, M.Geometry.DijMinGradient)
	M.Near = elec.NewNearField(g, M.Geometry, M.positions, M.charges, M.Scale, M.ScaleGradient, O.cutoff, O.rcond)
	M.Kernel = dep.New(g, "far_field_kernel", func() (ewald.Kernel, error) {
		return method.Bind(M.cell.Val())
	}, M.cell)
	M.Field = dep.New(g, "far_field", func() (ewald.Field, error) {
		s := ewald.Sources{QM: M.qm.Val(), Env: M.positions.Val(), Charges: M.charges.Val(), Excluded: M.Near.Sets.Val().Excluded}
		return M.Kernel.Val().Evaluate(s)
	}, M.Kernel, M.qm, M.positions, M.charges, M.Near.Sets)
	M.FullESP = dep.New(g, "qm_full_esp", func() (*tensor.Dense, error) {
		return M.Field.Val().ESP(), nil
	}, M.Field)
	M.Projected = dep.New(g, "projected_charges", func() ([]float64, error) {
		return project(M.Near.CouplingPinv.Val(), M.FullESP.Val(), M.Near.ScaledESP.Val()), nil
	}, M.Near.CouplingPinv, M.FullESP, M.Near.ScaledESP)
	M.EmbeddingCharges = dep.New(g, "embedding_charges", func() ([]float64, error) {
		return embeddingCharges(M.Near.Scale.Val(), M.Near.Charges.Val(), M.Projected.Val()), nil
	}, M.Near.Scale, M.Near.Charges, M.Projected)
	M.EmbeddingPositions = M.Near.Positions
	M.QMInput = dep.New(g, "qm_input", func() (qmengine.Input, error) {
		M.inputGen++
		st := M.state.Val()
		return qmengine.Input{
			QM:           M.qm.Val(),
			Elements:     M.elements.Val(),
			Charge:       st.Charge,
			Multiplicity: st.Multiplicity,
			Embedding:    M.EmbeddingPositions.Val(),
			Charges:      M.EmbeddingCharges.Val(),
			Step:         st.Step,
		}, nil
	}, M.qm, M.elements, M.state, M.EmbeddingPositions, M.EmbeddingCharges)
	if O.engine != nil {
		engine := O.engine
		qmlog := M.log.Named("qm")
		M.QMOutput = dep.New(g, "qm_output", func() (qmengine.Output, error) {
			in := M.QMInput.Val()
			qmlog.Debug("running QM engine", "step", in.Step, "embedding_charges", in.NEmb())
			out, err := engine.Compute(O.ctx, in)
			if err != nil {
				return out, err
			}
			return out, out.Check(in)
		}, M.QMInput)
	} else {
		M.external = true
		M.qmResult = dep.Leaf[qmResult](g, "qm_result")
		M.QMOutput = dep.New(g, "qm_output", func() (qmengine.Output, error) {
			r := M.qmResult.Val()
			if r.gen != M.inputGen {
				return qmengine.Output{}, Error{"goqmmm: the QM results were given for a previous QM input", []string{"qm_output"}, true}
			}
			return r.out, nil
		}, M.qmResult, M.QMInput)
	}
	M.Energy = dep.New(g, "energy", func() (float64, error) {
		return M.QMOutput.Val().Energy * units.HartreeInKcalPerMole, nil
	}, M.QMOutput)
	M.Gradient = dep.New(g, "gradient", M.gradient, M.QMOutput, M.QMInput, M.Near.Sets, M.Near.Coupling,
		M.Near.CouplingPinv, M.Near.Scale, M.Near.ScaleGradient, M.Near.DijInverse, M.Near.DijInverseGradient,
		M.Near.Charges, M.FullESP, M.Near.ScaledESP, M.Projected, M.EmbeddingCharges, M.Field)
	M.log.Info("model built", "atoms", M.nall, "qm_atoms", nqm, "periodic", M.periodic, "far_field", method.Name(),
		"switching", F.Kind().String(), "cutoff", O.cutoff, "nodes", g.Len())
	return M, nil
}

//RunID returns the unique identifier of the Model, which is attached to its log messages.
func (M *Model) RunID() string { return M.runID }

//NAll returns the total number of atoms in the Model.
func (M *Model) NAll() int { return M.nall }

//NQM returns the number of QM atoms in the Model.
func (M *Model) NQM() int { return M.nqm }

//Periodic returns true if the Model uses periodic boundary conditions.
func (M *Model) Periodic() bool { return M.periodic }

//Graph returns the dependency graph of the Model.
func (M *Model) Graph() *dep.Graph { return M.g }

//SetPositions replaces the positions of all atoms. It panics if the number of
//atoms is not the one the Model was built for.
func (M *Model) SetPositions(p *v3.Matrix) {
	if p.NVecs() != M.nall {
		panic(ErrAtomCount)
	}
	M.positions.Write(p)
}

//SetQMPositions replaces the positions of the QM atoms only.
func (M *Model) SetQMPositions(p *v3.Matrix) {
	if p.NVecs() != M.nqm {
		panic(ErrAtomCount)
	}
	M.qm.Write(p)
}

//SetCharges replaces the MM charges.
func (M *Model) SetCharges(q []float64) {
	if len(q) != M.nall {
		panic(ErrChargeCount)
	}
	M.charges.Write(q)
}

//SetCell replaces the cell. The periodicity of the Model is decided at Build,
//so a periodic Model needs a non-degenerate cell.
func (M *Model) SetCell(cell *v3.Matrix) {
	M.cell.Write(cell)
}

type qmResult struct {
	out qmengine.Output
	gen int
}

//SetQMResult gives the Model the output of a QM calculation run by the caller for the
//current QMInput. The result is discarded as soon as the QM input changes.
//It panics if the Model runs its own engine.
func (M *Model) SetQMResult(out qmengine.Output) error {
	if !M.external {
		panic(ErrEngineSet)
	}
	in, err := M.QMInput.Read()
	if err != nil {
		return errDecorate(err, "SetQMResult")
	}
	if err := out.Check(in); err != nil {
		return errDecorate(err, "SetQMResult")
	}
	M.qmResult.Write(qmResult{out: out, gen: M.inputGen})
	return nil
}

//Step writes the state of sys in the model and returns the energy and gradient.
//The number of atoms in sys must be that of the Model.
func (M *Model) Step(sys *System) (*Result, error) {
	if err := sys.Check(); err != nil {
		return nil, errDecorate(err, "Step")
	}
	if sys.NAll() != M.nall || sys.NQM != M.nqm {
		return nil, Error{ErrAtomCount.Error(), []string{"Step"}, true}
	}
	M.positions.Write(sys.Positions)
	M.charges.Write(sys.Charges)
	M.elements.Write(sys.Elements[:M.nqm])
	M.cell.Write(sys.cell())
	M.state.Write(sys.state())
	r, err := M.Result()
	if err != nil {
		return nil, errDecorate(err, "Step")
	}
	M.log.Debug("step done", "step", sys.Step, "energy", r.Energy, "embedding_charges", len(r.EmbeddingCharges))
	return r, nil
}

//Result reads the energy, gradient and embedding from the Model.
func (M *Model) Result() (*Result, error) {
	E, err := M.Energy.Read()
	if err != nil {
		return nil, errDecorate(err, "Result")
	}
	G, err := M.Gradient.Read()
	if err != nil {
		return nil, errDecorate(err, "Result")
	}
	q, _ := M.EmbeddingCharges.Read()
	p, _ := M.EmbeddingPositions.Read()
	st, _ := M.state.Read()
	return &Result{Energy: E, Gradient: G, EmbeddingCharges: q, EmbeddingPositions: p, Step: st.Step}, nil
}
