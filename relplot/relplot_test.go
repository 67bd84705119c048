/*
 * relplot_test.go, part of relief.
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

package relplot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/relief/geom"
	"github.com/rmera/relief/slicer"
)

func TestSites(Te *testing.T) {
	O := slicer.DefaultOptions()
	O.Cpus = 2
	S, err := slicer.New(O)
	if err != nil {
		Te.Fatal(err)
	}
	tris := []geom.Triangle{
		{{X: -3.5, Y: -3.5, Z: 1.25}, {X: 3.5, Y: -3.5, Z: 1.25}, {X: 3.5, Y: 3.5, Z: 1.25}},
		{{X: -3.5, Y: -3.5, Z: -5.5}, {X: 3.5, Y: 3.5, Z: 7}, {X: -3.5, Y: 3.5, Z: 2}},
	}
	R, err := S.Fingerprint(context.Background(), tris)
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "ReLieF_Map_test.png")
	if err := Sites(R, "Test surface", name); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
}

func TestSitesEmpty(Te *testing.T) {
	R := &slicer.Result{Rows: 1, Cols: 1, Cells: [][]slicer.Cell{{{}}}}
	name := filepath.Join(Te.TempDir(), "empty.png")
	if err := Sites(R, "Empty", name); err != nil {
		Te.Fatal(err)
	}
	if err := Sites(nil, "", name); err == nil {
		Te.Errorf("a nil fingerprint should give an error")
	}
}

func TestBand(Te *testing.T) {
	tests := []struct {
		z, min, max float64
		want        int
	}{
		{0, 0, 8, 0},
		{8, 0, 8, Bands - 1},
		{4.01, 0, 8, 4},
		{3, 3, 3, 0},
	}
	for _, v := range tests {
		if b := band(v.z, v.min, v.max); b != v.want {
			Te.Errorf("band(%v, %v, %v) = %d, want %d", v.z, v.min, v.max, b, v.want)
		}
	}
}
