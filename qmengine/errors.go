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

package qmengine

//Error is the error type of the package. It contains the program that failed
//and the name of the input, if any.
type Error struct {
	message    string
	code       string //the name of the QM program
	inputname  string
	additional string
	deco       []string
	critical   bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	if err.code == "" {
		return err.message
	}
	msg := err.message + " (" + err.code
	if err.inputname != "" {
		msg += ", input " + err.inputname
	}
	msg += ")"
	if err.additional != "" {
		msg += ": " + err.additional
	}
	return msg
}

//Code returns the name of the program that caused the error, if any.
func (err Error) Code() string { return err.code }

//InputName returns the name of the input for the calculation that failed.
func (err Error) InputName() string { return err.inputname }

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

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}

const (
	ErrNotRunning  = "goqmmm/qmengine: QM program couldn't run"
	ErrCantInput   = "goqmmm/qmengine: can't write the input for the QM program"
	ErrNoOutput    = "goqmmm/qmengine: can't read the output of the QM program"
	ErrBadOutput   = "goqmmm/qmengine: malformed output from the QM program"
	ErrNoCommand   = "goqmmm/qmengine: no program given"
	ErrMissingData = "goqmmm/qmengine: missing coordinates or elements"
)
