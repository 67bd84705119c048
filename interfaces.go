/*
 * interfaces.go, part of relief.
 *
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package relief

import "errors"

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	//Decorate adds the caller (plus, optionally, some info, in the form "Function: info") to the trail
	//of the error and returns the trail. An empty string just returns the current trail.
	Decorate(string) []string
}

// FileError is the interface for errors that are tied to one input or output file.
type FileError interface {
	Error
	FileName() string
	//Critical errors mean the file could not be processed at all. Non-critical ones
	//are reported but the results for the file are still usable.
	Critical() bool
}

// Trail returns the decoration trail of err, if err, or any error it wraps, is an Error.
// It returns nil otherwise.
func Trail(err error) []string {
	var e Error
	if errors.As(err, &e) {
		return e.Decorate("")
	}
	return nil
}

// IsCritical returns true unless err (or something it wraps) is a FileError
// that declares itself non-critical.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	var e FileError
	if errors.As(err, &e) {
		return e.Critical()
	}
	return true
}
