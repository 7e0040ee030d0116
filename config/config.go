/*
 * config.go, part of goqmmm
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

//Package config reads the settings of a QM/MM calculation from a YAML file and turns
//them into qmmm.Options.
//
//An example file:
//
//	cutoff: 10
//	switching: switch
//	swdist: 8
//	far_field: auto
//	engine:
//	  kind: command
//	  command: ./run_orca.sh
//	  args: [--nprocs, "8"]
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	qmmm "github.com/rmera/goqmmm"
	"github.com/rmera/goqmmm/qmengine"
	"github.com/rmera/goqmmm/switching"
	"gopkg.in/yaml.v3"
)

//Engine selects and configures the QM engine.
type Engine struct {
	Kind string `yaml:"kind" validate:"omitempty,oneof=command pointcharge dummy"`
	//command engine
	Command   string   `yaml:"command" validate:"required_if=Kind command"`
	Args      []string `yaml:"args,omitempty"`
	Dir       string   `yaml:"dir,omitempty"`
	Name      string   `yaml:"name,omitempty"`
	KeepFiles bool     `yaml:"keep_files,omitempty"`
	//point charge engine
	Charges []float64 `yaml:"charges,omitempty"`
	Spring  float64   `yaml:"spring,omitempty" validate:"gte=0"`
	Rest    float64   `yaml:"rest,omitempty" validate:"gte=0"`
}

//File is the content of a configuration file. Zero values mean the default.
type File struct {
	Cutoff    float64 `yaml:"cutoff" validate:"required,gt=0"`
	Switching string  `yaml:"switching,omitempty"`
	Swdist    float64 `yaml:"swdist,omitempty" validate:"gte=0"`
	PBC       bool    `yaml:"pbc,omitempty"`
	FarField  string  `yaml:"far_field,omitempty" validate:"omitempty,oneof=auto pme ewald"`
	EwaldTol  float64 `yaml:"ewald_tol,omitempty" validate:"omitempty,gt=0,lt=1"`
	PMETol    float64 `yaml:"pme_tol,omitempty" validate:"omitempty,gt=0,lt=1"`
	PMEOrder  int     `yaml:"pme_order,omitempty" validate:"omitempty,min=3,max=20"`
	Beta      float64 `yaml:"beta,omitempty" validate:"omitempty,gt=0"`
	Rcond     float64 `yaml:"rcond,omitempty" validate:"omitempty,gt=0,lt=1"`
	LogLevel  string  `yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error off"`
	Engine    Engine  `yaml:"engine"`
}

var validate = validator.New()

//Default returns a File with a 10 A cutoff, the default settings, and a dummy engine.
func Default() *File {
	return &File{Cutoff: 10, Switching: switching.Shift.String(), FarField: qmmm.FarFieldAuto, LogLevel: "info", Engine: Engine{Kind: "dummy"}}
}

//Parse reads a configuration from YAML data. All the problems found are returned
//together.
func Parse(data []byte) (*File, error) {
	f := new(File)
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, Error{"can't parse configuration: " + err.Error(), "", []string{"Parse"}, true}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

//Load reads the configuration file filename.
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, Error{err.Error(), filename, []string{"os.ReadFile", "Load"}, true}
	}
	f, err := Parse(data)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = filename
			e.deco = e.Decorate("Load")
			return nil, e
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

//Validate checks the values in f. The returned error, if not nil, is a
//*multierror.Error with one error per problem.
func (f *File) Validate() error {
	var result *multierror.Error
	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, v := range verrs {
				result = multierror.Append(result, fmt.Errorf("%s: failed the %q check (value %v)", v.Namespace(), v.Tag(), v.Value()))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}
	if f.Switching != "" {
		if _, err := switching.ParseKind(f.Switching); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if f.Swdist > 0 && f.Cutoff > 0 && f.Swdist > f.Cutoff {
		result = multierror.Append(result, fmt.Errorf("File.Swdist: %g is larger than the cutoff %g", f.Swdist, f.Cutoff))
	}
	return result.ErrorOrNil()
}

//Marshal returns f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

//Level returns the log level given in the file, Info if none was given.
func (f *File) Level() hclog.Level {
	if f.LogLevel == "" {
		return hclog.Info
	}
	return hclog.LevelFromString(f.LogLevel)
}

//QMEngine returns the QM engine described in the file.
func (f *File) QMEngine(logger hclog.Logger) (qmengine.Engine, error) {
	e := f.Engine
	switch e.Kind {
	case "command":
		return &qmengine.Command{Path: e.Command, Args: e.Args, Dir: e.Dir, Name: e.Name, KeepFiles: e.KeepFiles, Logger: logger}, nil
	case "pointcharge":
		return qmengine.PointCharge{Charges: e.Charges, Spring: e.Spring, Rest: e.Rest}, nil
	case "dummy", "":
		return qmengine.Dummy{}, nil
	}
	return nil, Error{"unknown QM engine " + e.Kind, "", []string{"QMEngine"}, true}
}

//Options returns the qmmm.Options equivalent to f, with the given logger.
func (f *File) Options(logger hclog.Logger) (*qmmm.Options, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	O := qmmm.DefaultOptions()
	O.Logger(logger)
	O.Cutoff(f.Cutoff)
	if f.Switching != "" {
		k, _ := switching.ParseKind(f.Switching) //already validated
		O.Switching(k)
	}
	O.Swdist(f.Swdist)
	O.PBC(f.PBC)
	O.FarField(f.FarField)
	O.EwaldTol(f.EwaldTol)
	O.PMETol(f.PMETol)
	O.PMEOrder(f.PMEOrder)
	O.Beta(f.Beta)
	O.Rcond(f.Rcond)
	e, err := f.QMEngine(logger.Named("qm"))
	if err != nil {
		return nil, errDecorate(err, "Options")
	}
	O.Engine(e)
	return O, nil
}
