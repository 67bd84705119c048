/*
 * colorprint_test.go, part of relief.
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

package colorprint

import (
	"testing"

	"github.com/rmera/relief/wrl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dots(colors ...[3]float64) []wrl.Dot {
	ret := make([]wrl.Dot, 0, len(colors))
	for _, c := range colors {
		ret = append(ret, wrl.Dot{Color: c})
	}
	return ret
}

func TestFingerprint(t *testing.T) {
	D := dots(
		[3]float64{1, 160.0 / 255, 0},
		[3]float64{0, 0, 0.001},
		[3]float64{1, 0.63, 0.01},
		[3]float64{1, 1, 1},
		[3]float64{1.5, 0, 0},
	)
	R, err := Fingerprint(D, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, R.Matched)
	assert.Equal(t, 1, R.Dropped)
	require.Len(t, R.Bins, 2)
	assert.Equal(t, Bin{Index: 0, Label: "#000000", Count: 2, Fraction: 0.5}, R.Bins[0])
	assert.Equal(t, "#ffa000", R.Bins[1].Label)
	assert.Equal(t, 0.5, R.Bins[1].Fraction)
	p, ok := R.Peak()
	require.True(t, ok)
	assert.Equal(t, "#000000", p.Label)
	assert.Equal(t, 4+4*2, R.Len())
	assert.Equal(t,
		"PC&#000000&1 PC&#000000&2 % % % % PC&#ffa000&1 PC&#ffa000&2 % % % % ",
		R.String())
}

func TestFingerprintEmpty(t *testing.T) {
	R, err := Fingerprint(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, R.Len())
	assert.Equal(t, "", R.String())
	_, ok := R.Peak()
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	O := DefaultOptions()
	O.Buffer = 0
	O.Prefix = "EP&"
	R, err := Fingerprint(dots([3]float64{0.5, 0.5, 0.5}), O)
	require.NoError(t, err)
	assert.Equal(t, "EP&#7d7d7d&1 ", R.String())
	assert.Equal(t, 1, R.Len())

	O.Prefix = "a b"
	_, err = Fingerprint(nil, O)
	require.Error(t, err)
	assert.Equal(t, []string{"Check", "Fingerprint"}, err.(Error).Decorate(""))
}
