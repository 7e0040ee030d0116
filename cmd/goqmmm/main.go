/*
 * main.go, part of goqmmm
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

//Command goqmmm computes QM/MM energies and gradients with electrostatic
//embedding for the steps in a file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/cli"
)

//Version is the version of goqmmm.
const Version = "0.1.0"

func commands(ui cli.Ui, logOutput io.Writer) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"run": func() (cli.Command, error) {
			return &RunCommand{Ui: ui, LogOutput: logOutput}, nil
		},
		"plot": func() (cli.Command, error) {
			return &PlotCommand{Ui: ui}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Ui: ui}, nil
		},
	}
}

func realMain(args []string, stdout, stderr io.Writer) int {
	ui := &cli.BasicUi{Reader: os.Stdin, Writer: stdout, ErrorWriter: stderr}
	c := cli.NewCLI("goqmmm", Version)
	c.Args = args
	c.HelpWriter = stdout
	c.ErrorWriter = stderr
	c.Commands = commands(ui, stderr)
	status, err := c.Run()
	if err != nil {
		fmt.Fprintf(stderr, "goqmmm: %v\n", err)
		return 1
	}
	return status
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}
