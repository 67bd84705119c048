/*
 * wrl.go, part of relief.
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

//Package wrl reads the molecular surfaces, exported as VRML (*.wrl) scenes, used to build fingerprints.
//Two kinds of scenes are understood: triangulated surfaces, where the vertices of the triangles
//are listed three at a time before the "coordIndex" block, and dot surfaces, where each dot
//is a Transform block with a translation and a diffuse color.
//
//The readers are "best effort": lines that don't look like what is expected are skipped and
//counted, never reported as errors.
package wrl

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/rmera/relief/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	vertexRE      = regexp.MustCompile(`(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+),`)
	coordIndexRE  = regexp.MustCompile(`coordIndex`)
	translationRE = regexp.MustCompile(`translation\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)`)
	colorRE       = regexp.MustCompile(`diffuseColor\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)`)
	dotStartRE    = regexp.MustCompile(`Transform`)
	dotEndRE      = regexp.MustCompile(`shininess`)
)

// Mesh is a triangulated surface.
type Mesh struct {
	Triangles []geom.Triangle
	Skipped   int //lines that were not vertex lines, or came after the coordinate block
	Dangling  int //vertices left over at the end of the coordinate block (less than 3)
}

// Dot is a surface dot with its RGB color, as fractions of 1.
type Dot struct {
	Pos   r3.Vec
	Color [3]float64
}

// DotSet is a dot surface.
type DotSet struct {
	Dots    []Dot
	Skipped int
}

// three parses the 3 submatches of a regexp match as floats.
// ok is false if any of them can't be parsed (which, given the
// regexps, should only happen with absurdly long numbers).
func three(m []string) (ret [3]float64, ok bool) {
	var err error
	for i := 0; i < 3; i++ {
		ret[i], err = strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return ret, false
		}
	}
	return ret, true
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) //some exporters put a whole block in one line.
	return s
}

// ReadTriangles reads a triangulated surface from r. Only read errors are returned.
func ReadTriangles(r io.Reader) (*Mesh, error) {
	M := new(Mesh)
	s := newScanner(r)
	ended := false
	trio := make([]r3.Vec, 0, 3)
	for s.Scan() {
		line := s.Text()
		if coordIndexRE.MatchString(line) {
			ended = true
		}
		m := vertexRE.FindStringSubmatch(line)
		if m == nil || ended {
			M.Skipped++
			continue
		}
		c, ok := three(m)
		if !ok {
			M.Skipped++
			continue
		}
		trio = append(trio, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
		if len(trio) == 3 {
			M.Triangles = append(M.Triangles, geom.Triangle{trio[0], trio[1], trio[2]})
			trio = trio[:0]
		}
	}
	M.Dangling = len(trio)
	if err := s.Err(); err != nil {
		return M, Error{ReadError + ": " + err.Error(), "", []string{"ReadTriangles"}, true, err}
	}
	return M, nil
}

// ReadDots reads a dot surface from r. A dot is produced for each diffuseColor line found
// inside a Transform block (before its "shininess" line). The position is the
// last translation seen in the block, or the origin if none was.
func ReadDots(r io.Reader) (*DotSet, error) {
	D := new(DotSet)
	s := newScanner(r)
	inblock := false
	var pos r3.Vec
	for s.Scan() {
		line := s.Text()
		used := false
		if dotStartRE.MatchString(line) {
			inblock = true
			pos = r3.Vec{}
			used = true
		}
		if dotEndRE.MatchString(line) {
			inblock = false
			used = true
		}
		if !inblock {
			if !used {
				D.Skipped++
			}
			continue
		}
		if m := translationRE.FindStringSubmatch(line); m != nil {
			if c, ok := three(m); ok {
				pos = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
				used = true
			}
		}
		if m := colorRE.FindStringSubmatch(line); m != nil {
			if c, ok := three(m); ok {
				D.Dots = append(D.Dots, Dot{Pos: pos, Color: c})
				used = true
			}
		}
		if !used {
			D.Skipped++
		}
	}
	if err := s.Err(); err != nil {
		return D, Error{ReadError + ": " + err.Error(), "", []string{"ReadDots"}, true, err}
	}
	return D, nil
}
