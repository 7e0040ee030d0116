/*
 * options.go, part of goqmmm
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
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/rmera/goqmmm/dep"
	"github.com/rmera/goqmmm/elec"
	"github.com/rmera/goqmmm/ewald"
	"github.com/rmera/goqmmm/geom"
	"github.com/rmera/goqmmm/qmengine"
	"github.com/rmera/goqmmm/switching"
)

//Far field methods for periodic systems.
const (
	FarFieldAuto  = "auto" //PME when the cell allows it, explicit Ewald otherwise
	FarFieldPME   = "pme"
	FarFieldEwald = "ewald"
)

//Options contains the settings of a QM/MM Model. The only setting without a
//usable default is the cutoff.
type Options struct {
	switching switching.Kind
	cutoff    float64
	swdist    float64
	pbc       bool
	farField  string
	ewaldTol  float64
	pmeTol    float64
	pmeOrder  int
	beta      float64
	rcond     float64
	engine    qmengine.Engine
	logger    hclog.Logger
	observer  dep.Observer
	ctx       context.Context
}

//DefaultOptions returns the default options, with a shift switching function,
//automatic choice of far field method and no QM engine. The cutoff still needs
//to be set.
func DefaultOptions() *Options {
	r := new(Options)
	r.switching = switching.Shift
	r.farField = FarFieldAuto
	r.ewaldTol = ewald.DefaultEwaldTol
	r.pmeTol = ewald.DefaultPMETol
	r.pmeOrder = ewald.DefaultPMEOrder
	r.beta = geom.DefaultBeta
	r.rcond = elec.DefaultRcond
	r.logger = hclog.NewNullLogger()
	r.ctx = context.Background()
	return r
}

//Returns the switching function family, and sets it to a new value, if given.
func (O *Options) Switching(kind ...switching.Kind) switching.Kind {
	if len(kind) > 0 {
		O.switching = kind[0]
	}
	return O.switching
}

//Returns the cutoff, in A, for the near field, and sets it to a new value, if a
//positive one is given.
func (O *Options) Cutoff(c ...float64) float64 {
	if len(c) > 0 && c[0] > 0 {
		O.cutoff = c[0]
	}
	return O.cutoff
}

//Returns the distance, in A, where the switch function starts acting, and sets it
//to a new value, if given. A value of 0 means 0.75 times the cutoff. Only used by the switch
//family.
func (O *Options) Swdist(d ...float64) float64 {
	if len(d) > 0 && d[0] >= 0 {
		O.swdist = d[0]
	}
	return O.swdist
}

//Returns whether periodic boundary conditions are forced, and sets it, if a value is given.
//When false, the system is periodic only if the cell is non-degenerate.
func (O *Options) PBC(pbc ...bool) bool {
	if len(pbc) > 0 {
		O.pbc = pbc[0]
	}
	return O.pbc
}

//Returns the far field method for periodic systems, and sets it, if a non-empty
//value is given. Valid values are FarFieldAuto, FarFieldPME and FarFieldEwald,
//the value is checked when the Model is built.
func (O *Options) FarField(method ...string) string {
	if len(method) > 0 && method[0] != "" {
		O.farField = method[0]
	}
	return O.farField
}

//Returns the accuracy of the explicit Ewald sums, and sets it, if a positive value is given.
func (O *Options) EwaldTol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] > 0 {
		O.ewaldTol = tol[0]
	}
	return O.ewaldTol
}

//Returns the accuracy of the PME real space sum, and sets it, if a positive value is given.
func (O *Options) PMETol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] > 0 {
		O.pmeTol = tol[0]
	}
	return O.pmeTol
}

//Returns the PME interpolation order, and sets it, if a positive value is given.
func (O *Options) PMEOrder(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.pmeOrder = n[0]
	}
	return O.pmeOrder
}

//Returns the sharpness of the soft minimum distance, and sets it, if a positive value is given.
func (O *Options) Beta(b ...float64) float64 {
	if len(b) > 0 && b[0] > 0 {
		O.beta = b[0]
	}
	return O.beta
}

//Returns the relative threshold for singular values in the charge projection,
//and sets it, if a positive value is given.
func (O *Options) Rcond(r ...float64) float64 {
	if len(r) > 0 && r[0] > 0 {
		O.rcond = r[0]
	}
	return O.rcond
}

//Returns the QM engine, and sets it, if a non-nil one is given.
//Without an engine, the QM results have to be given with Model.SetQMResult.
func (O *Options) Engine(e ...qmengine.Engine) qmengine.Engine {
	if len(e) > 0 && e[0] != nil {
		O.engine = e[0]
	}
	return O.engine
}

//Returns the logger, and sets it, if a non-nil one is given.
func (O *Options) Logger(l ...hclog.Logger) hclog.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	return O.logger
}

//Returns the observer attached to the graph of the Model, and sets it, if a non-nil
//one is given.
func (O *Options) Observer(o ...dep.Observer) dep.Observer {
	if len(o) > 0 && o[0] != nil {
		O.observer = o[0]
	}
	return O.observer
}

//Returns the context passed to the QM engine, and sets it, if a non-nil one is given.
func (O *Options) Context(ctx ...context.Context) context.Context {
	if len(ctx) > 0 && ctx[0] != nil {
		O.ctx = ctx[0]
	}
	return O.ctx
}

//switchingFunction returns the switching function for the current options.
func (O *Options) switchingFunction() (switching.Function, error) {
	sw := O.swdist
	if sw == 0 {
		sw = 0.75 * O.cutoff
	}
	return switching.New(O.switching, O.cutoff, sw)
}

//farFieldMethod returns the far field method for the given periodicity.
func (O *Options) farFieldMethod(periodic bool, log hclog.Logger) (ewald.Method, error) {
	if !periodic {
		return ewald.NonPBC{}, nil
	}
	pme := ewald.PME{Tol: O.pmeTol, Order: O.pmeOrder, Cutoff: O.cutoff}
	ew := ewald.Ewald{Tol: O.ewaldTol}
	switch O.farField {
	case FarFieldAuto:
		return ewald.Fallback{Preferred: pme, Backup: ew, Logger: log}, nil
	case FarFieldPME:
		return pme, nil
	case FarFieldEwald:
		return ew, nil
	}
	return nil, Error{"goqmmm: unknown far field method " + O.farField, []string{"Options.farFieldMethod"}, true}
}
