/*
 * wrl_test.go, part of relief.
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

package wrl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const triangleScene = `#VRML V2.0 utf8
Shape {
  geometry IndexedFaceSet {
    coord Coordinate {
      point [
        0.000000 0.000000 0.000000,
        10.000000 0.000000 0.000000,
        0.000000 10.000000 0.000000,
        1.5 -2.25 3.0,
        garbage here,
        -1.0 2.0 -3.5,
        4.0 4.0 4.0,
        7.0 7.0 7.0,
      ]
    }
    coordIndex [
      9.0 9.0 9.0,
      0, 1, 2, -1,
    ]
  }
}
`

func TestReadTriangles(Te *testing.T) {
	M, err := ReadTriangles(strings.NewReader(triangleScene))
	require.NoError(Te, err)
	require.Len(Te, M.Triangles, 2)
	assert.Equal(Te, r3.Vec{X: 10}, M.Triangles[0][1])
	assert.Equal(Te, r3.Vec{X: 1.5, Y: -2.25, Z: 3}, M.Triangles[1][0])
	assert.Equal(Te, r3.Vec{X: 4, Y: 4, Z: 4}, M.Triangles[1][2])
	//the 7,7,7 vertex has no partners, the 9,9,9 one comes after coordIndex.
	assert.Equal(Te, 1, M.Dangling)
	assert.Greater(Te, M.Skipped, 0)
}

const dotScene = `#VRML V2.0 utf8
Transform {
  translation 2.819419 0.448916 -1.255814
  children [
    Shape {
      appearance Appearance {
        material Material {
          diffuseColor 0.0000 0.0624 1.0000
          shininess 0.5
        }
      }
    }
  ]
}
diffuseColor 0.5 0.5 0.5
Transform {
  translation -1.0 2.0 3.0
  material Material {
    diffuseColor 1.0000 1.0000 1.0000
    shininess 0.5
  }
}
`

func TestReadDots(Te *testing.T) {
	D, err := ReadDots(strings.NewReader(dotScene))
	require.NoError(Te, err)
	require.Len(Te, D.Dots, 2) //the color outside of a block is ignored
	assert.Equal(Te, r3.Vec{X: 2.819419, Y: 0.448916, Z: -1.255814}, D.Dots[0].Pos)
	assert.Equal(Te, [3]float64{0, 0.0624, 1}, D.Dots[0].Color)
	assert.Equal(Te, [3]float64{1, 1, 1}, D.Dots[1].Color)
}

func TestLoadCompressed(Te *testing.T) {
	dir := Te.TempDir()
	plain := filepath.Join(dir, "surf.wrl")
	require.NoError(Te, os.WriteFile(plain, []byte(triangleScene), 0644))
	comp := filepath.Join(dir, "surf2.wrl.zst")
	f, err := os.Create(comp)
	require.NoError(Te, err)
	w, err := zstd.NewWriter(f)
	require.NoError(Te, err)
	_, err = w.Write([]byte(triangleScene))
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	require.NoError(Te, f.Close())

	M1, err := LoadTriangles(plain)
	require.NoError(Te, err)
	M2, err := LoadTriangles(comp)
	require.NoError(Te, err)
	assert.Equal(Te, M1.Triangles, M2.Triangles)
}

func TestLoadMissing(Te *testing.T) {
	_, err := LoadTriangles(filepath.Join(Te.TempDir(), "nothere.wrl"))
	require.Error(Te, err)
	e, ok := err.(Error)
	require.True(Te, ok)
	assert.True(Te, e.Critical())
	assert.Contains(Te, e.FileName(), "nothere.wrl")
	assert.Equal(Te, []string{"Open", "LoadTriangles"}, e.Decorate(""))
}

func TestBaseName(Te *testing.T) {
	assert.Equal(Te, "Abl_0006", BaseName("/data/x/Abl_0006.wrl"))
	assert.Equal(Te, "Abl_0006", BaseName("Abl_0006.wrl.zst"))
	assert.Equal(Te, "noext", BaseName("noext"))
}
