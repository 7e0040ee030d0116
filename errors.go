/*
 * errors.go, part of goqmmm
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

import "errors"

//Error is the error type of the qmmm package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//decorable is satisfied by the errors of all goqmmm packages.
type decorable interface {
	error
	Decorate(string) []string
}

//errDecorate adds caller to the decorations of err, if err supports them.
//The error is returned unchanged otherwise.
func errDecorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.deco = e.Decorate(caller)
		return e
	}
	if d, ok := err.(decorable); ok {
		d.Decorate(caller)
	}
	return err
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrEngineSet   = PanicMsg("goqmmm: QM results can't be set on a model that runs its own QM engine")
	ErrAtomCount   = PanicMsg("goqmmm: the number of atoms doesn't match the model. Build a new one")
	ErrChargeCount = PanicMsg("goqmmm: the number of charges doesn't match the number of atoms")
)
