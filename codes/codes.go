/*
 * codes.go, part of relief.
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

//Package codes holds the distance codes: alphabetic labels for 0.1-wide bins of depth.
//
//The table has, in order, the bins [0,0.1), [0.1,0.2) ... [49.9,50) labeled A, B, ... SF,
//followed by the bins [-0.1,0), [-0.2,-0.1) ... [-50,-49.9), labeled SG, SH ... ALL.
//Labels follow spreadsheet-column order (A..Z, AA..AZ, BA..).
package codes

import (
	"fmt"
	"math"
)

const (
	// Width is the width of each bin.
	Width = 0.1
	// PerSide is the number of bins on each side of zero.
	PerSide = 500
)

// Bin is a half-open interval [Low, High) of depths and its label.
type Bin struct {
	Low, High float64
	Code      string
}

func (B Bin) Contains(v float64) bool {
	return v >= B.Low && v < B.High
}

// Table is an ordered list of bins.
type Table []Bin

// Label returns the label for the ith (0-based) entry of a table: A, B, ... Z, AA, AB...
func Label(i int) string {
	var buf [8]byte
	pos := len(buf)
	for i++; i > 0; i /= 26 {
		i--
		pos--
		buf[pos] = byte('A' + i%26)
	}
	return string(buf[pos:])
}

// New returns the distance code table with perside 0.1-wide bins on each side of zero.
func New(perside int) Table {
	T := make(Table, 0, 2*perside)
	for k := 0; k < perside; k++ {
		T = append(T, Bin{Low: float64(k) / 10, High: float64(k+1) / 10, Code: Label(k)})
	}
	//the negative side starts right after the positive one, going down.
	for k := 0; k < perside; k++ {
		T = append(T, Bin{Low: -float64(k+1) / 10, High: -float64(k) / 10, Code: Label(perside + k)})
	}
	return T
}

// Default is the standard table, covering [-50,50).
var Default = New(PerSide)

// Lookup returns the label of the first bin in the table that contains v, and true.
// It returns "", false if no bin contains v.
func (T Table) Lookup(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	//Fast path: in a standard table, the bin is almost always the one computed here,
	//or one of its neighbours when v is at a bin edge.
	if i, ok := T.guess(v); ok {
		return T[i].Code, true
	}
	for _, b := range T {
		if b.Contains(v) {
			return b.Code, true
		}
	}
	return "", false
}

// guess tries the bin where v should be in a table built by New. The first bin that
// contains v is the only one, since the bins of such a table don't overlap.
func (T Table) guess(v float64) (int, bool) {
	half := len(T) / 2
	if half == 0 || len(T)%2 != 0 {
		return 0, false
	}
	var i int
	if v >= 0 {
		i = int(math.Floor(v * 10))
	} else {
		i = half + int(math.Floor(-v*10))
	}
	for _, j := range [...]int{i, i - 1, i + 1} {
		if j >= 0 && j < len(T) && T[j].Contains(v) {
			return j, true
		}
	}
	return 0, false
}

// Check verifies that the table bins don't overlap and cover a single interval
// with no holes, and returns that interval.
func (T Table) Check() (low, high float64, err error) {
	if len(T) == 0 {
		return 0, 0, fmt.Errorf("codes: empty table")
	}
	seen := make(map[string]bool, len(T))
	low, high = T[0].Low, T[0].High
	pending := make(Table, 0, len(T))
	for _, b := range T {
		if !(b.Low < b.High) {
			return 0, 0, fmt.Errorf("codes: empty or inverted bin %s [%v,%v)", b.Code, b.Low, b.High)
		}
		if seen[b.Code] {
			return 0, 0, fmt.Errorf("codes: repeated label %s", b.Code)
		}
		seen[b.Code] = true
		pending = append(pending, b)
	}
	//extend the covered interval until no bin can be attached at either end.
	pending = pending[1:]
	for len(pending) > 0 {
		attached := false
		for i := 0; i < len(pending); i++ {
			b := pending[i]
			switch {
			case b.Low == high:
				high = b.High
			case b.High == low:
				low = b.Low
			default:
				continue
			}
			pending = append(pending[:i], pending[i+1:]...)
			attached = true
			break
		}
		if !attached {
			b := pending[0]
			return 0, 0, fmt.Errorf("codes: bin %s [%v,%v) overlaps or leaves a hole in [%v,%v)", b.Code, b.Low, b.High, low, high)
		}
	}
	return low, high, nil
}
