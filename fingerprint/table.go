/*
 * table.go, part of relief.
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

//Package fingerprint writes ReLiEF fingerprints and the files that go with them.
//
//The fingerprints of a batch go to one cumulative, comma-separated, table, with one
//row per surface. Each geometry fingerprint also gets a set of auxiliary files, which allow
//to map the bits back to the surface.
package fingerprint

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rmera/relief/colorprint"
	"github.com/rmera/relief/slicer"
)

const (
	Header      = "Name,Color,Fingerprints,"
	Placeholder = "FILL_ME" //goes in the Color column.

	GeometryTable = "ReLieF_Fingerprints.csv"
	ColorTable    = "ReLieF_Fingerprints_DistributionBased.csv"
)

// Table is a cumulative fingerprint table. Rows can be appended from several goroutines,
// but the order of the rows is the order of the calls.
type Table struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	name string
	rows int
}

// NewTable creates (or truncates) the file name and writes the header.
func NewTable(name string) (*Table, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{UnableToCreate + ": " + err.Error(), name, []string{"NewTable"}, true, err}
	}
	T := &Table{f: f, w: bufio.NewWriter(f), name: name}
	if _, err := T.w.WriteString(Header + "\n"); err != nil {
		f.Close()
		return nil, Error{WriteError + ": " + err.Error(), name, []string{"NewTable"}, true, err}
	}
	return T, nil
}

// Name returns the file name of the table.
func (T *Table) Name() string {
	return T.name
}

// Rows returns the number of rows written, not counting the header.
func (T *Table) Rows() int {
	T.mu.Lock()
	defer T.mu.Unlock()
	return T.rows
}

// Append writes a row for the surface name, with the given fingerprint string.
func (T *Table) Append(name, fingerprint string) error {
	T.mu.Lock()
	defer T.mu.Unlock()
	if T.w == nil {
		return Error{Closed, T.name, []string{"Append"}, true, nil}
	}
	if _, err := fmt.Fprintf(T.w, "%s,%s,%s\n", name, Placeholder, fingerprint); err != nil {
		return Error{WriteError + ": " + err.Error(), T.name, []string{"Append"}, true, err}
	}
	//rows are flushed one at a time, so a crash never leaves half a row.
	if err := T.w.Flush(); err != nil {
		return Error{WriteError + ": " + err.Error(), T.name, []string{"Append"}, true, err}
	}
	T.rows++
	return nil
}

// AppendGeometry appends the geometry fingerprint R of the surface name.
func (T *Table) AppendGeometry(name string, R *slicer.Result) error {
	return errDecorate(T.Append(name, GeometryString(R)), "AppendGeometry")
}

// AppendColor appends the color fingerprint R of the surface name.
func (T *Table) AppendColor(name string, R *colorprint.Result) error {
	return errDecorate(T.Append(name, R.String()), "AppendColor")
}

// Close flushes and closes the table. It is safe to call it more than once.
func (T *Table) Close() error {
	T.mu.Lock()
	defer T.mu.Unlock()
	if T.w == nil {
		return nil
	}
	err := T.w.Flush()
	err2 := T.f.Close()
	T.w = nil
	if err == nil {
		err = err2
	}
	if err != nil {
		return Error{WriteError + ": " + err.Error(), T.name, []string{"Close"}, true, err}
	}
	return nil
}

// GeometryString returns the fingerprint string for R: each grid row, as its tokens
// joined by spaces, preceded by a space.
func GeometryString(R *slicer.Result) string {
	var b strings.Builder
	for i := 0; i < R.Rows; i++ {
		b.WriteByte(' ')
		b.WriteString(strings.Join(R.Row(i), " "))
	}
	return b.String()
}
