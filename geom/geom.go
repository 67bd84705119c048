/*
 * geom.go, part of relief.
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

//Package geom intersects triangulated surfaces with families of parallel planes.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a surface triangle. The vertices are kept in the order in which they were read.
type Triangle [3]r3.Vec

// Edges returns the starting point and the direction vector of the three edges of the
// triangle, in the order v0->v1, v0->v2, v1->v2.
func (T Triangle) Edges() (starts, dirs [3]r3.Vec) {
	starts = [3]r3.Vec{T[0], T[0], T[1]}
	dirs = [3]r3.Vec{r3.Sub(T[1], T[0]), r3.Sub(T[2], T[0]), r3.Sub(T[2], T[1])}
	return starts, dirs
}

// Plane is the plane N.P + D = 0
type Plane struct {
	Normal r3.Vec
	D      float64
}

// Position returns the coordinate, along the normal, of the points in the plane.
// For a unit normal along one of the axes, it is the value that coordinate takes on the plane.
func (P Plane) Position() float64 {
	return -P.D / r3.Norm(P.Normal)
}

func (P Plane) String() string {
	return fmt.Sprintf("%5.3fx + %5.3fy + %5.3fz + %5.3f = 0", P.Normal.X, P.Normal.Y, P.Normal.Z, P.D)
}

// AcceptT is the acceptance rule for the edge parameter t of an intersection.
// An intersection is taken if 0<|t|<1, or if t is exactly -1, 0 or 1.
// NOTE: This is looser than clipping to the segment (negative t values are accepted,
// so are points "behind" the edge start). It reproduces the rule used to build
// the reference fingerprints and changing it changes every fingerprint, so it stays.
func AcceptT(t float64) bool {
	a := math.Abs(t)
	return (a < 1 && a > 0) || t == 1 || t == 0 || t == -1
}

// IntersectEdge returns the point where the line starting at p0 with direction v crosses
// the plane, and true, if the crossing is accepted. Edges parallel to the plane
// (including edges lying on it) never produce a point.
func (P Plane) IntersectEdge(p0, v r3.Vec) (r3.Vec, bool) {
	den := r3.Dot(P.Normal, v)
	if den == 0 {
		return r3.Vec{}, false
	}
	num := r3.Dot(P.Normal, p0) + P.D
	t := -num / den
	if !AcceptT(t) {
		return r3.Vec{}, false
	}
	//The order of the operations matters here. The point has to be exactly on the plane
	//for the later selection by coordinate to find it, whenever the arithmetic allows it.
	return r3.Vec{
		X: p0.X - v.X*num/den,
		Y: p0.Y - v.Y*num/den,
		Z: p0.Z - v.Z*num/den,
	}, true
}

// IntersectTriangle appends to dst the accepted intersections of the three edges of T with
// the plane, in edge order, and returns the extended slice plus the number of edges that were
// parallel to the plane.
func (P Plane) IntersectTriangle(T Triangle, dst []r3.Vec) ([]r3.Vec, int) {
	starts, dirs := T.Edges()
	parallel := 0
	for i := range starts {
		if r3.Dot(P.Normal, dirs[i]) == 0 {
			parallel++
			continue
		}
		if p, ok := P.IntersectEdge(starts[i], dirs[i]); ok {
			dst = append(dst, p)
		}
	}
	return dst, parallel
}
