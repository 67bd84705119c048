/*
 * family.go, part of relief.
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

package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is one of the three cartesian axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// ParseAxis returns the axis named by s ("x", "y" or "z").
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return X, nil
	case "y", "Y":
		return Y, nil
	case "z", "Z":
		return Z, nil
	}
	return X, fmt.Errorf("geom: unknown axis %q", s)
}

func (A Axis) String() string {
	return [...]string{"x", "y", "z"}[A]
}

// Unit returns the unit vector along the axis.
func (A Axis) Unit() r3.Vec {
	var v r3.Vec
	switch A {
	case X:
		v.X = 1
	case Y:
		v.Y = 1
	default:
		v.Z = 1
	}
	return v
}

// Split returns the coordinates of v along the axis (primary), the next axis in
// cyclic order (secondary) and the remaining one (tertiary). For the x axis
// that is simply x, y, z.
func (A Axis) Split(v r3.Vec) (primary, secondary, tertiary float64) {
	switch A {
	case X:
		return v.X, v.Y, v.Z
	case Y:
		return v.Y, v.Z, v.X
	}
	return v.Z, v.X, v.Y
}

// Join is the inverse of Split.
func (A Axis) Join(primary, secondary, tertiary float64) r3.Vec {
	switch A {
	case X:
		return r3.Vec{X: primary, Y: secondary, Z: tertiary}
	case Y:
		return r3.Vec{X: tertiary, Y: primary, Z: secondary}
	}
	return r3.Vec{X: secondary, Y: tertiary, Z: primary}
}

// Family is a set of Count evenly spaced parallel planes, all with normal Normal.
// The offset of the ith plane is the projection on the normal of Start+(End-Start)*i/Count,
// so End itself is never reached.
type Family struct {
	Normal     r3.Vec
	Start, End r3.Vec
	Count      int
}

// NewAxisFamily returns count planes normal to the axis, with offsets running from start
// towards end along that axis.
func NewAxisFamily(axis Axis, start, end float64, count int) Family {
	return Family{
		Normal: axis.Unit(),
		Start:  axis.Join(start, 0, 0),
		End:    axis.Join(end, 0, 0),
		Count:  count,
	}
}

// Planes returns the planes of the family, in order.
func (F Family) Planes() []Plane {
	ret := make([]Plane, 0, F.Count)
	r := float64(F.Count)
	for i := 0; i < F.Count; i++ {
		fi := float64(i)
		p := r3.Vec{
			X: F.Start.X + (F.End.X-F.Start.X)*fi/r,
			Y: F.Start.Y + (F.End.Y-F.Start.Y)*fi/r,
			Z: F.Start.Z + (F.End.Z-F.Start.Z)*fi/r,
		}
		ret = append(ret, Plane{Normal: F.Normal, D: r3.Dot(F.Normal, p)})
	}
	return ret
}

// Cloud is the unordered set of all the intersection points between a surface and a
// family of planes. The points keep the order in which they were produced (plane,
// then triangle, then edge), duplicates included.
type Cloud struct {
	Points []r3.Vec
	//Number of edge/plane pairs skipped because the edge was parallel to the plane.
	Parallel int
}

func (C *Cloud) Len() int {
	return len(C.Points)
}

// Add intersects every triangle with the plane P and appends the points to the cloud.
func (C *Cloud) Add(P Plane, triangles []Triangle) {
	var par int
	for _, t := range triangles {
		C.Points, par = P.IntersectTriangle(t, C.Points)
		C.Parallel += par
	}
}

// Intersect intersects every triangle with every plane. Planes are the outer loop.
func Intersect(triangles []Triangle, planes []Plane) *Cloud {
	C := &Cloud{Points: make([]r3.Vec, 0, len(triangles))}
	for _, p := range planes {
		C.Add(p, triangles)
	}
	return C
}
