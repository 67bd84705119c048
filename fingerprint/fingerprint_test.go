/*
 * fingerprint_test.go, part of relief.
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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rmera/relief/colorprint"
	"github.com/rmera/relief/geom"
	"github.com/rmera/relief/slicer"
	"github.com/rmera/relief/wrl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// smallResult returns a 2x3 geometry fingerprint, built by hand.
func smallResult() *slicer.Result {
	cell := func(i, j int, d ...slicer.Depth) slicer.Cell {
		return slicer.Cell{Row: i, Col: j, X: float64(i - 1), Y: float64(j - 1), Depths: d}
	}
	return &slicer.Result{
		Cloud: &geom.Cloud{Points: []r3.Vec{{X: -1, Y: 0.25, Z: 1.25}, {X: 0, Y: -1, Z: 1.5}}},
		Axis:  geom.X,
		Rows:  2,
		Cols:  3,
		Cells: [][]slicer.Cell{
			{cell(0, 0), cell(0, 1, slicer.Depth{Z: 1.25, Merged: true, Code: "M"}), cell(0, 2)},
			{
				cell(1, 0, slicer.Depth{Z: 1.25, Merged: true, Code: "M"}, slicer.Depth{Z: -0.05, Code: "SG"}),
				cell(1, 1, slicer.Depth{Z: 99}),
				cell(1, 2),
			},
		},
		Dropped: 1,
	}
}

func read(t *testing.T, name string) string {
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(b)
}

func TestGeometryString(t *testing.T) {
	assert.Equal(t, " # M: # M:SG: # #", GeometryString(smallResult()))
}

func TestWriteAux(t *testing.T) {
	dir := t.TempDir()
	A, err := WriteAux(context.Background(), dir, "s1", smallResult(), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ReLieF_Map_s1.csv"), A.Map)
	assert.Equal(t, "#,M:,#\nM:SG:,#,#\n", read(t, A.Map))
	assert.Equal(t, "map_row,map_column,bit_index,structure_index\n1,2,2,1\n2,1,4,2\n2,1,4,3\n2,2,5,4\n",
		read(t, A.Correspondence))
	assert.Equal(t, "4\nReLiEF fingerprint bit locations of s1\n"+
		"Br -1.0 0.0 1.25\nBr 0.0 -1.0 1.25\nBr 0.0 -1.0 -0.05\nBr 0.0 0.0 99.0\n",
		read(t, A.BitLocations))
	assert.Equal(t, "2\nReLiEF surface segments of s1\nCl -1.0 0.25 1.25\nCl 0.0 -1.0 1.5\n",
		read(t, A.Segments))

	//a second run overwrites, never appends.
	_, err = WriteAux(context.Background(), dir, "s1", smallResult(), false)
	require.NoError(t, err)
	assert.Equal(t, "#,M:,#\nM:SG:,#,#\n", read(t, A.Map))
}

func TestWriteAuxCompressed(t *testing.T) {
	dir := t.TempDir()
	A, err := WriteAux(context.Background(), dir, "s1", smallResult(), true)
	require.NoError(t, err)
	assert.Equal(t, ZstdSuffix, filepath.Ext(A.Segments))
	r, err := wrl.Open(A.Segments)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "2\nReLiEF surface segments of s1\nCl -1.0 0.25 1.25\nCl 0.0 -1.0 1.5\n", string(b))
}

func TestWriteAuxCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	A, err := WriteAux(ctx, dir, "s1", smallResult(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	for _, f := range A.List() {
		assert.NoFileExists(t, f)
	}
	require.NoError(t, Remove(filepath.Join(dir, "never_written.csv")))
}

func TestWriteErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := WriteAux(context.Background(), dir, "s1", smallResult(), false)
	require.Error(t, err)
	assert.Equal(t, []string{"writeFile", "WriteAux"}, err.(Error).Decorate(""))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = NewTable(filepath.Join(dir, GeometryTable))
	require.Error(t, err)
}

func writeTable(t *testing.T, name string) {
	T, err := NewTable(name)
	require.NoError(t, err)
	require.NoError(t, T.AppendGeometry("s1", smallResult()))
	C, err := colorprint.Fingerprint([]wrl.Dot{{Color: [3]float64{0, 0, 0}}}, nil)
	require.NoError(t, err)
	require.NoError(t, T.AppendColor("d1", C))
	assert.Equal(t, 2, T.Rows())
	require.NoError(t, T.Close())
	require.NoError(t, T.Close())
	assert.Error(t, T.Append("late", "x"))
}

func TestTable(t *testing.T) {
	name := filepath.Join(t.TempDir(), GeometryTable)
	writeTable(t, name)
	want := "Name,Color,Fingerprints,\n" +
		"s1,FILL_ME, # M: # M:SG: # #\n" +
		"d1,FILL_ME,PC&#000000&1 % % % % \n"
	first := read(t, name)
	assert.Equal(t, want, first)
	writeTable(t, name)
	assert.True(t, bytes.Equal([]byte(first), []byte(read(t, name))), "repeated runs must give the same table")
}

func TestTableConcurrent(t *testing.T) {
	T, err := NewTable(filepath.Join(t.TempDir(), ColorTable))
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, T.Append("x", "A: B:"))
		}()
	}
	wg.Wait()
	require.NoError(t, T.Close())
	assert.Equal(t, 20, T.Rows())
}

func TestAccumulator(t *testing.T) {
	var A Accumulator
	assert.Equal(t, 0, A.Max())
	assert.Equal(t, 0.0, A.Mean())
	want := []int{5, 5, 9, 9}
	for i, l := range []int{5, 3, 9, 2} {
		assert.Equal(t, want[i], A.Observe(l))
	}
	assert.Equal(t, 9, A.Max())
	assert.Equal(t, 4.75, A.Mean())
}

func TestAccumulatorConcurrent(t *testing.T) {
	var A Accumulator
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(l int) {
			defer wg.Done()
			A.Observe(l)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, A.Max())
	assert.Equal(t, 25.5, A.Mean())
}
