/*
 * slicer.go, part of relief.
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

//Package slicer builds the geometry (slicing) ReLiEF fingerprint of a triangulated surface.
//
//The surface is cut by a family of parallel planes. The intersection points are then
//sampled on a grid of cells laid on the plane orthogonal to the cutting planes: for each cell,
//a small circle is moved along the remaining axis, and the depths at which the circle sits
//on the surface contour are kept, merged when they are too close, and labeled with a
//distance code. The codes of all the cells, row by row, form the fingerprint.
package slicer

import (
	"context"
	"fmt"

	"github.com/rmera/relief/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Placeholder is the token for cells without depths.
const Placeholder = "#"

// Slicer computes slicing fingerprints. It can be used concurrently.
type Slicer struct {
	o      Options
	planes []geom.Plane
}

// New returns a slicer with a copy of the options O, or an error if they are not valid.
func New(O *Options) (*Slicer, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if err := O.Check(); err != nil {
		return nil, errDecorate(err, "New")
	}
	S := &Slicer{o: *O}
	if S.o.Cpus < 1 {
		S.o.Cpus = 1
	}
	S.o.Codes = O.table()
	S.planes = S.o.Family().Planes()
	return S, nil
}

// Options returns a copy of the options in use.
func (S *Slicer) Options() Options {
	return S.o
}

// Result is the slicing fingerprint of one surface, plus everything needed to write
// the auxiliary files.
type Result struct {
	Cloud      *geom.Cloud
	Axis       geom.Axis
	Rows, Cols int
	Cells      [][]Cell //[row][column]
	Dropped    int      //depths without code
}

// Row returns the tokens of the ith row, with Placeholder for empty cells.
func (R *Result) Row(i int) []string {
	ret := make([]string, R.Cols)
	for j := range R.Cells[i] {
		ret[j] = R.Cells[i][j].Token()
		if ret[j] == "" {
			ret[j] = Placeholder
		}
	}
	return ret
}

// Tokens returns the tokens of all rows.
func (R *Result) Tokens() [][]string {
	ret := make([][]string, R.Rows)
	for i := range ret {
		ret[i] = R.Row(i)
	}
	return ret
}

// Len returns the number of tokens (bits) in the fingerprint.
func (R *Result) Len() int {
	return R.Rows * R.Cols
}

// Signals returns the total number of surviving depths, with or without code.
func (R *Result) Signals() int {
	n := 0
	for _, row := range R.Cells {
		for _, c := range row {
			n += len(c.Depths)
		}
	}
	return n
}

// Site is the location of a surviving depth, with its indexes in the grid and in the
// fingerprint. All indexes are 1-based.
type Site struct {
	MapRow, MapColumn int
	Bit               int //the cell number, counting row by row.
	Structure         int //the number of the depth, counting over the whole grid.
	Pos               r3.Vec
	Depth
}

// Sites returns every surviving depth, in grid order, and within a cell, in discovery order.
func (R *Result) Sites() []Site {
	var ret []Site
	n := 0
	for i, row := range R.Cells {
		for j, c := range row {
			for _, d := range c.Depths {
				n++
				ret = append(ret, Site{
					MapRow:    i + 1,
					MapColumn: j + 1,
					Bit:       i*R.Cols + j + 1,
					Structure: n,
					Pos:       R.Axis.Join(c.X, c.Y, d.Z),
					Depth:     d,
				})
			}
		}
	}
	return ret
}

// Intersect returns the intersection points of the triangles with the cutting planes.
// It stops, returning ctx's error, if ctx is cancelled between two planes.
func (S *Slicer) Intersect(ctx context.Context, triangles []geom.Triangle) (*geom.Cloud, error) {
	C := &geom.Cloud{Points: make([]r3.Vec, 0, len(triangles))}
	for _, p := range S.planes {
		if err := ctx.Err(); err != nil {
			return nil, Error{Cancelled + ": " + err.Error(), "", []string{"Intersect"}, true, err}
		}
		C.Add(p, triangles)
	}
	return C, nil
}

// Fingerprint computes the slicing fingerprint of the triangles. The rows of the grid
// are processed concurrently, by up to Options.Cpus goroutines.
func (S *Slicer) Fingerprint(ctx context.Context, triangles []geom.Triangle) (*Result, error) {
	C, err := S.Intersect(ctx, triangles)
	if err != nil {
		return nil, errDecorate(err, "Fingerprint")
	}
	return S.Sample(ctx, C)
}

// Sample clusters the points of the cloud C on the grid.
func (S *Slicer) Sample(ctx context.Context, C *geom.Cloud) (*Result, error) {
	O := &S.o
	R := &Result{Cloud: C, Axis: O.Axis, Rows: O.NRows(), Cols: O.NCols()}
	R.Cells = make([][]Cell, R.Rows)
	//Points are grouped by their exact primary coordinate, in local coordinates.
	//Each row only needs to look at its own group.
	groups := make(map[float64][]r3.Vec)
	for _, p := range C.Points {
		x, y, z := O.Axis.Split(p)
		groups[x] = append(groups[x], r3.Vec{X: x, Y: y, Z: z})
	}
	type rowResult struct {
		cells   []Cell
		dropped int
	}
	results := make([]chan rowResult, R.Rows)
	sem := make(chan struct{}, O.Cpus)
	for i := range results {
		results[i] = make(chan rowResult, 1) //buffered, so abandoned workers don't block.
		go func(i int) {
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				results[i] <- rowResult{}
				return
			}
			cells, dropped := S.row(i, groups[O.Row(i)])
			results[i] <- rowResult{cells, dropped}
		}(i)
	}
	//rows are collected in order, so the result doesn't depend on the scheduling.
	for i, c := range results {
		select {
		case r := <-c:
			if r.cells == nil {
				return nil, Error{Cancelled + ": " + ctx.Err().Error(), "", []string{"Sample"}, true, ctx.Err()}
			}
			R.Cells[i] = r.cells
			R.Dropped += r.dropped
		case <-ctx.Done():
			return nil, Error{Cancelled + ": " + ctx.Err().Error(), "", []string{"Sample"}, true, ctx.Err()}
		}
	}
	return R, nil
}

// row processes all the cells of the ith row. pts are the points, in local coordinates, that lie
// on the row's plane.
func (S *Slicer) row(i int, pts []r3.Vec) ([]Cell, int) {
	O := &S.o
	x := O.Row(i)
	half := O.ColumnStep / 2
	ncols := O.NCols()
	cells := make([]Cell, ncols)
	dropped := 0
	for j := range cells {
		y := O.Col(j)
		cells[j] = Cell{Row: i, Col: j, X: x, Y: y}
		if len(pts) == 0 {
			continue
		}
		w := Window(pts, x, y, half)
		cands := Scan(w, x, y, O)
		if len(cands) == 0 {
			continue
		}
		depths := Merge(cands, O.Tolerance, O.MergeNearest)
		dropped += assignCodes(depths, O.Codes)
		cells[j].Depths = depths
	}
	return cells, dropped
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
		return fmt.Sprintf("slicer error: %s", err.message)
	}
	return fmt.Sprintf("slicer error in %s: %s", err.filename, err.message)
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
	Cancelled = "Processing cancelled"
)

// errDecorate is a helper function that asserts that the error is
// a slicer.Error and decorates the error with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2 := err.(Error)
	err2.deco = append(err2.deco, caller)
	return err2
}
