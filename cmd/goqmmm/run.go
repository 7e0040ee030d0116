/*
 * run.go, part of goqmmm
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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	qmmm "github.com/rmera/goqmmm"
	"github.com/rmera/goqmmm/config"
	"github.com/rmera/goqmmm/metrics"
	"github.com/rmera/goqmmm/qmio"
)

//RunCommand computes the QM/MM energy and gradient for each step in a file.
type RunCommand struct {
	Ui        cli.Ui
	LogOutput io.Writer
}

func (c *RunCommand) Help() string {
	return strings.TrimSpace(`
Usage: goqmmm run [options] STEPS

  Computes the QM/MM energy and gradient for each step in the STEPS file,
  which can be gzip or zstd compressed (.gz, .zst).

Options:

  -config=goqmmm.yaml  Configuration file.
  -out=FILE            Results file. Defaults to STEPS with a .out extension.
                       A .gz or .zst extension compresses the output.
  -metrics=FILE        Writes the graph metrics, in the Prometheus text
                       format, to FILE at the end of the run.
  -au                  Writes the results in atomic units.
`)
}

func (c *RunCommand) Synopsis() string { return "Runs QM/MM steps" }

func (c *RunCommand) Run(args []string) int {
	var cfgname, out, metricsFile string
	var au bool
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.Usage = func() { c.Ui.Error(c.Help()) }
	fs.StringVar(&cfgname, "config", "goqmmm.yaml", "configuration file")
	fs.StringVar(&out, "out", "", "results file")
	fs.StringVar(&metricsFile, "metrics", "", "metrics file")
	fs.BoolVar(&au, "au", false, "atomic units")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		c.Ui.Error("goqmmm run takes exactly one steps file")
		return 1
	}
	steps := fs.Arg(0)
	if out == "" {
		out = strings.TrimSuffix(strings.TrimSuffix(steps, ".gz"), ".zst") + ".out"
	}
	f, err := config.Load(cfgname)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	logOutput := c.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "goqmmm",
		Level:  f.Level(),
		Output: logOutput,
	})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reg := metrics.NewRegistry()
	n, err := c.run(ctx, f, logger, reg, steps, out, au)
	if metricsFile != "" {
		if merr := reg.WriteFile(metricsFile); merr != nil {
			logger.Error("could not write metrics", "file", metricsFile, "error", merr)
		}
	}
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	c.Ui.Info(fmt.Sprintf("%d steps written to %s", n, out))
	return 0
}

//run computes every step in the file steps and writes the results to out.
//The model is built again whenever the number of atoms changes.
func (c *RunCommand) run(ctx context.Context, f *config.File, logger hclog.Logger, reg *metrics.Registry, steps, out string, au bool) (int, error) {
	opts, err := f.Options(logger)
	if err != nil {
		return 0, err
	}
	opts.Observer(reg)
	opts.Context(ctx)
	in, err := qmio.Open(steps)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	w, err := qmio.Create(out)
	if err != nil {
		return 0, err
	}
	var M *qmmm.Model
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			w.Close()
			return n, err
		}
		sys, err := in.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Close()
			return n, err
		}
		if M == nil || M.NAll() != sys.NAll() || M.NQM() != sys.NQM {
			if M != nil {
				logger.Info("atom count changed, building a new model", "step", sys.Step, "atoms", sys.NAll(), "qm", sys.NQM)
			}
			if M, err = qmmm.Build(sys, opts); err != nil {
				w.Close()
				return n, err
			}
		}
		r, err := M.Step(sys)
		if err != nil {
			w.Close()
			return n, err
		}
		reg.RecordStep(r)
		if au {
			r = r.InAtomicUnits()
		}
		if err := w.WriteResult(r); err != nil {
			w.Close()
			return n, err
		}
		logger.Info("step", "step", r.Step, "energy", r.Energy, "embedding_charges", len(r.EmbeddingCharges))
		n++
	}
	return n, w.Close()
}
