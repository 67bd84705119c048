/*
 * accumulator.go, part of relief.
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

package fingerprint

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Accumulator keeps the lengths of the fingerprints of a batch, in the order they were observed.
// It can be used concurrently.
type Accumulator struct {
	mu      sync.Mutex
	lengths []float64
}

// Observe records the length of one fingerprint and returns the longest length so far.
func (A *Accumulator) Observe(length int) int {
	A.mu.Lock()
	defer A.mu.Unlock()
	A.lengths = append(A.lengths, float64(length))
	return int(floats.Max(A.lengths))
}

// Max returns the longest length observed, or 0.
func (A *Accumulator) Max() int {
	A.mu.Lock()
	defer A.mu.Unlock()
	if len(A.lengths) == 0 {
		return 0
	}
	return int(floats.Max(A.lengths))
}

// Mean returns the mean length, or 0 if nothing was observed.
func (A *Accumulator) Mean() float64 {
	A.mu.Lock()
	defer A.mu.Unlock()
	if len(A.lengths) == 0 {
		return 0
	}
	return stat.Mean(A.lengths, nil)
}

//Errors

type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
	cause    error
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("fingerprint error: %s", err.message)
	}
	return fmt.Sprintf("fingerprint error in %s: %s", err.filename, err.message)
}

func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

func (err Error) Unwrap() error { return err.cause }

const (
	UnableToCreate = "Unable to create file"
	WriteError     = "Error writing file"
	Closed         = "Table already closed"
	Cancelled      = "Writing cancelled"
)

// errDecorate is a helper function that asserts that the error is
// a fingerprint.Error and decorates the error with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2 := err.(Error)
	err2.deco = append(err2.deco, caller)
	return err2
}
