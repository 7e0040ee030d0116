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

package dep

import "errors"

//ErrUnset is wrapped by the error returned when a read needs a leaf that
//has never been written.
var ErrUnset = errors.New("dependency unset")

//Error is the error type of the package. It carries the chain of nodes
//the error went through, innermost first.
type Error struct {
	message  string
	deco     []string
	critical bool
	err      error
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. An empty dec just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

//Unwrap returns the wrapped error, if any.
func (err *Error) Unwrap() error { return err.err }

//errDecorate adds caller to the decoration of err if err is an *Error,
//otherwise it wraps err in an *Error.
func errDecorate(err error, caller string) error {
	var d *Error
	if errors.As(err, &d) {
		d.Decorate(caller)
		return err
	}
	return &Error{message: err.Error(), deco: []string{caller}, critical: true, err: err}
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrDerivedWrite  = PanicMsg("goqmmm/dep: derived nodes can't be written")
	ErrReadOnlySlice = PanicMsg("goqmmm/dep: the slice was created without a way to write it back")
	ErrNotPulled     = PanicMsg("goqmmm/dep: value requested from a node that is not up to date. Was it declared as a dependency?")
	ErrForeignNode   = PanicMsg("goqmmm/dep: dependency belongs to another graph")
)
