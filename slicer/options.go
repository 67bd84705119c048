/*
 * options.go, part of relief.
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

package slicer

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/rmera/relief/codes"
	"github.com/rmera/relief/geom"
)

// Options contains all the parameters of the slicing fingerprint.
// The zero value is not useful, start from DefaultOptions.
type Options struct {
	Axis geom.Axis //normal to the cutting planes. The grid is laid on the other two axes.

	//The cutting planes. Their offsets go from PlaneStart towards PlaneEnd (not included).
	PlaneStart, PlaneEnd float64
	Planes               int

	//Grid rows, along Axis, from RowStart to RowEnd, both included.
	RowStart, RowEnd, RowStep float64
	//Grid columns, along the secondary axis, from ColumnStart to ColumnEnd (not included).
	ColumnStart, ColumnEnd, ColumnStep float64
	//The scan along the tertiary axis, from ZStart to ZEnd (not included).
	ZStart, ZEnd, ZStep float64

	CaptureRadius float64 //points farther than this from the sampling point are ignored.
	Tolerance     float64 //max. mean distance for a depth candidate, also max. separation for merging two.

	//If true, each candidate is merged with its closest available partner, instead of the first one
	//(in discovery order) within Tolerance. This changes the fingerprints.
	MergeNearest bool

	Cpus  int         //number of rows processed at the same time.
	Codes codes.Table //nil means codes.Default
}

// DefaultOptions returns the parameters used to build the reference ReLiEF fingerprints:
// 100 planes normal to x, a 101x100 grid of 1 A cells, and a z scan in 0.5 A steps
// from -50 to 50 A.
func DefaultOptions() *Options {
	O := new(Options)
	O.Axis = geom.X
	O.PlaneStart, O.PlaneEnd, O.Planes = -50, 50, 100
	O.RowStart, O.RowEnd, O.RowStep = -50, 50, 1
	O.ColumnStart, O.ColumnEnd, O.ColumnStep = -50, 50, 1
	O.ZStart, O.ZEnd, O.ZStep = -50, 50, 0.5
	O.CaptureRadius = 1.0
	O.Tolerance = 0.50
	O.Cpus = runtime.NumCPU()
	O.Codes = codes.Default
	return O
}

// steps returns the number of steps of size step that fit between start and end.
func steps(start, end, step float64) int {
	return int(math.Round((end - start) / step))
}

// NRows returns the number of grid rows.
func (O *Options) NRows() int {
	return steps(O.RowStart, O.RowEnd, O.RowStep) + 1
}

// NCols returns the number of grid columns.
func (O *Options) NCols() int {
	return steps(O.ColumnStart, O.ColumnEnd, O.ColumnStep)
}

// NZ returns the number of sampling points along the tertiary axis.
func (O *Options) NZ() int {
	return steps(O.ZStart, O.ZEnd, O.ZStep)
}

// Row returns the coordinate of the ith row.
func (O *Options) Row(i int) float64 {
	return O.RowStart + O.RowStep*float64(i)
}

// Col returns the coordinate of the jth column.
func (O *Options) Col(j int) float64 {
	return O.ColumnStart + O.ColumnStep*float64(j)
}

// Z returns the coordinate of the kth sampling point.
func (O *Options) Z(k int) float64 {
	return O.ZStart + O.ZStep*float64(k)
}

// Family returns the cutting planes.
func (O *Options) Family() geom.Family {
	return geom.NewAxisFamily(O.Axis, O.PlaneStart, O.PlaneEnd, O.Planes)
}

func (O *Options) table() codes.Table {
	if O.Codes == nil {
		return codes.Default
	}
	return O.Codes
}

// Check returns an error listing every invalid parameter, or nil.
func (O *Options) Check() error {
	var bad []string
	if O.Planes <= 0 {
		bad = append(bad, fmt.Sprintf("planes must be positive (%d)", O.Planes))
	}
	if O.PlaneStart == O.PlaneEnd {
		bad = append(bad, "plane start and end are equal")
	}
	if O.RowStep <= 0 || O.RowEnd < O.RowStart {
		bad = append(bad, fmt.Sprintf("bad rows: %v to %v step %v", O.RowStart, O.RowEnd, O.RowStep))
	}
	if O.ColumnStep <= 0 || O.ColumnEnd <= O.ColumnStart {
		bad = append(bad, fmt.Sprintf("bad columns: %v to %v step %v", O.ColumnStart, O.ColumnEnd, O.ColumnStep))
	}
	if O.ZStep <= 0 || O.ZEnd <= O.ZStart {
		bad = append(bad, fmt.Sprintf("bad depth scan: %v to %v step %v", O.ZStart, O.ZEnd, O.ZStep))
	}
	if O.CaptureRadius <= 0 {
		bad = append(bad, fmt.Sprintf("capture radius must be positive (%v)", O.CaptureRadius))
	}
	if O.Tolerance <= 0 {
		bad = append(bad, fmt.Sprintf("tolerance must be positive (%v)", O.Tolerance))
	}
	if O.Axis < geom.X || O.Axis > geom.Z {
		bad = append(bad, fmt.Sprintf("unknown axis %d", O.Axis))
	}
	if len(bad) > 0 {
		return Error{message: "invalid options: " + strings.Join(bad, "; "), deco: []string{"Check"}, critical: true}
	}
	return nil
}
