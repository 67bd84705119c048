/*
 * histo_test.go, part of relief.
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

package histo

import (
	"testing"
)

func TestLatticeBins(Te *testing.T) {
	L := DefaultLattice()
	if n := len(L.Fractions()); n != 52*52*52 {
		Te.Fatalf("wrong number of bins: %d", n)
	}
	if lo := L.Lower(51*52*52 + 51); lo[0] != 1 || lo[1] != 0 || lo[2] != 1 {
		Te.Errorf("bad lower corner %v", lo)
	}
	tests := []struct {
		c   [3]float64
		i   int
		ok  bool
		hex string
	}{
		{[3]float64{0, 0, 0}, 0, true, "#000000"},
		{White, 0, true, "#000000"},
		{[3]float64{1, 0, 0}, 51 * 52 * 52, true, "#ff0000"},
		{[3]float64{1, 1, 0.999}, (51*52+51)*52 + 50, true, "#fffffa"},
		{[3]float64{10.0 / 255, 0, 50.0 / 255}, 2*52*52 + 10, true, "#0a0032"},
		{[3]float64{0.0624, 0.0001, 0.0196}, 3*52*52 + 0 + 0, true, "#0f0000"},
		{[3]float64{-0.1, 0, 0}, -1, false, ""},
		{[3]float64{0, 1.1, 0}, -1, false, ""},
	}
	for _, v := range tests {
		i, ok := L.Index(v.c)
		if i != v.i || ok != v.ok {
			Te.Errorf("color %v: got bin %d (%v), want %d (%v)", v.c, i, ok, v.i, v.ok)
			continue
		}
		if ok && L.Hex(i) != v.hex {
			Te.Errorf("color %v: got label %s, want %s", v.c, L.Hex(i), v.hex)
		}
	}
}

func TestLatticeWhite(Te *testing.T) {
	L := NewLattice(52, 5, 255, false)
	i, ok := L.Index(White)
	if !ok || L.Hex(i) != "#ffffff" {
		Te.Errorf("without the white rule, white goes to the last bin, got %d", i)
	}
	if L.Count(i) != 0 || L.Total() != 0 {
		Te.Errorf("Index must not bin the color")
	}
}

func TestLatticeAdd(Te *testing.T) {
	L := DefaultLattice()
	n := L.Add([3]float64{0, 0, 0}, White, [3]float64{0.5, 0.5, 0.5}, [3]float64{2, 0, 0})
	if n != 3 || L.Total() != 3 || L.Dropped() != 1 {
		Te.Errorf("matched %d, total %d, dropped %d", n, L.Total(), L.Dropped())
	}
	occ := L.Occupied()
	if len(occ) != 2 || occ[0] != 0 || L.Count(0) != 2 || L.Count(occ[1]) != 1 {
		Te.Errorf("bad occupied bins %v", occ)
	}
	f := L.Fractions()
	if f[0] < 0.66 || f[0] > 0.67 || f[occ[1]] < 0.33 || f[occ[1]] > 0.34 {
		Te.Errorf("bad fractions %v %v", f[0], f[occ[1]])
	}
	lo := L.Lower(occ[1])
	for k := 0; k < 3; k++ {
		if lo[k] > 0.5 || lo[k]+5.0/255 <= 0.5 {
			Te.Errorf("0.5 is not in the bin starting at %v", lo)
		}
	}
	if e := NewLattice(2, 1, 2, false).Fractions(); e[0] != 0 || len(e) != 8 {
		Te.Errorf("empty lattice fractions %v", e)
	}
}
