/*
 * cluster.go, part of relief.
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
	"math"
	"strings"

	"github.com/rmera/relief/codes"
	"gonum.org/v1/gonum/spatial/r3"
)

// Candidate is a depth at which the sampling circle crossed the surface contour.
type Candidate struct {
	Z         float64
	Available bool
}

// Depth is a depth that survived the merging of candidates.
type Depth struct {
	Z      float64
	Merged bool   //true if it is the midpoint of two candidates
	Code   string //empty if the depth is outside the code table
}

// Cell is one grid cell and its surviving depths, in discovery order.
type Cell struct {
	Row, Col int
	X, Y     float64 //primary and secondary coordinates of the cell center
	Depths   []Depth
}

// Token returns the fingerprint token for the cell: the code of each coded depth
// followed by a colon. The token is empty if no depth has a code.
func (C *Cell) Token() string {
	var b strings.Builder
	for _, d := range C.Depths {
		if d.Code == "" {
			continue
		}
		b.WriteString(d.Code)
		b.WriteByte(':')
	}
	return b.String()
}

// Window returns the points in pts (in local coordinates, primary, secondary, tertiary)
// whose primary coordinate is exactly x and whose secondary coordinate is strictly within
// half of y. Order is kept.
func Window(pts []r3.Vec, x, y, half float64) []r3.Vec {
	var ret []r3.Vec
	for _, p := range pts {
		if p.X == x && p.Y > y-half && p.Y < y+half {
			ret = append(ret, p)
		}
	}
	return ret
}

// Scan moves a sampling point along the tertiary axis of the cell (x,y) and returns, in order,
// the depths where at least one of the windowed points is within radius of the sampling point and
// the running mean of the distances to those points is below tol.
func Scan(window []r3.Vec, x, y float64, O *Options) []Candidate {
	var ret []Candidate
	if len(window) == 0 {
		return nil
	}
	nz := O.NZ()
	for k := 0; k < nz; k++ {
		z := O.Z(k)
		sample := r3.Vec{X: x, Y: y, Z: z}
		var mean float64
		n := 0
		for _, p := range window {
			d := r3.Norm(r3.Sub(sample, p))
			if d <= O.CaptureRadius {
				//the incremental form, in this order, keeps the results identical to the reference ones.
				mean = ((mean * float64(n)) + d) / float64(n+1)
				n++
			}
		}
		if n > 0 && mean < O.Tolerance {
			ret = append(ret, Candidate{Z: z, Available: true})
		}
	}
	return ret
}

// Merge pairs up candidates closer than tol and returns the surviving depths: first the
// midpoints of the pairs, in the order in which they were formed, then the candidates that
// were left alone, in their original order. Candidates are marked unavailable as they are used.
//
// Pairs are formed first-fit: for each candidate, in order, the first later available
// candidate within tol is taken, even if a closer one exists further down the list.
// NOTE: That is probably not the best possible clustering, but it is how the reference
// fingerprints were built. MergeNearest gives the closest-partner alternative.
func Merge(cands []Candidate, tol float64, nearest bool) []Depth {
	var ret []Depth
	for i := range cands {
		if !cands[i].Available {
			continue
		}
		partner := -1
		best := math.Inf(1)
		for j := i + 1; j < len(cands); j++ {
			if !cands[j].Available {
				continue
			}
			dz := math.Abs(cands[i].Z - cands[j].Z)
			if dz > tol {
				continue
			}
			if !nearest {
				partner = j
				break
			}
			if dz < best {
				best = dz
				partner = j
			}
		}
		if partner < 0 {
			continue
		}
		cands[i].Available = false
		cands[partner].Available = false
		ret = append(ret, Depth{Z: (cands[i].Z + cands[partner].Z) / 2, Merged: true})
	}
	for _, c := range cands {
		if c.Available {
			ret = append(ret, Depth{Z: c.Z})
		}
	}
	return ret
}

// assignCodes sets the code of each depth, and returns the number of depths
// that got no code.
func assignCodes(depths []Depth, T codes.Table) int {
	dropped := 0
	for i := range depths {
		c, ok := T.Lookup(depths[i].Z)
		if !ok {
			dropped++
			continue
		}
		depths[i].Code = c
	}
	return dropped
}
