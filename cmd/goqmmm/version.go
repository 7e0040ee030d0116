/*
 * version.go, part of goqmmm
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
	"github.com/mitchellh/cli"
)

//VersionCommand prints the version of goqmmm.
type VersionCommand struct {
	Ui cli.Ui
}

func (c *VersionCommand) Help() string {
	return "Usage: goqmmm version\n\n  Prints the version of goqmmm."
}

func (c *VersionCommand) Synopsis() string { return "Prints the version" }

func (c *VersionCommand) Run(args []string) int {
	c.Ui.Output("goqmmm v" + Version)
	return 0
}
