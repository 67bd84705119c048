/*
 * histo.go, part of relief.
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

//Package histo bins RGB colors into a regular 3D lattice.
//
//The three channels share the same dividers. A color falls in the bin whose lower corner
//is less than or equal to it, and whose upper corner is strictly greater, in every channel.
//Colors outside the lattice are not binned, but they are counted.
package histo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//White is the pure white color.
var White = [3]float64{1, 1, 1}

//A Lattice is a histogram of colors. Bins are numbered red-major:
//index = (r*steps + g)*steps + b
type Lattice struct {
	steps    int
	dividers []float64
	counts   []float64
	total    int
	dropped  int
	//If true, pure white is always counted in the first bin.
	whitefirst bool
}

//NewLattice returns an empty lattice with steps divisions per channel. The kth divider is width*k/scale,
//for k from 0 to steps (both included).
//If whitefirst is true, a color exactly equal to White is counted in the first bin, instead of the
//one it would normally fall in.
func NewLattice(steps int, width, scale float64, whitefirst bool) *Lattice {
	if steps <= 0 || width <= 0 || scale <= 0 {
		panic(fmt.Sprintf("relief/histo.NewLattice: Ill-formed lattice: %d steps of %v/%v", steps, width, scale))
	}
	L := new(Lattice)
	L.steps = steps
	L.whitefirst = whitefirst
	L.dividers = make([]float64, steps+1)
	for k := range L.dividers {
		L.dividers[k] = width * float64(k) / scale
	}
	L.counts = make([]float64, steps*steps*steps)
	return L
}

//DefaultLattice returns the lattice used for the reference color fingerprints:
//52 steps of 5/255 per channel, with white in the first bin.
func DefaultLattice() *Lattice {
	return NewLattice(52, 5, 255, true)
}

//channel returns the division that contains v, and true, or false if v is outside the lattice.
func (L *Lattice) channel(v float64) (int, bool) {
	d := L.dividers
	if math.IsNaN(v) || v < d[0] || v >= d[len(d)-1] {
		return -1, false
	}
	i := sort.SearchFloat64s(d, v)
	if d[i] == v {
		return i, true
	}
	return i - 1, true
}

//Index returns the bin for the color c, and true, or -1 and false if the color is not
//in the lattice.
func (L *Lattice) Index(c [3]float64) (int, bool) {
	if L.whitefirst && c == White {
		return 0, true
	}
	var k [3]int
	for i, v := range c {
		var ok bool
		k[i], ok = L.channel(v)
		if !ok {
			return -1, false
		}
	}
	return (k[0]*L.steps+k[1])*L.steps + k[2], true
}

//Add bins the given colors and returns how many of them fell in the lattice.
func (L *Lattice) Add(colors ...[3]float64) int {
	matched := 0
	for _, c := range colors {
		i, ok := L.Index(c)
		if !ok {
			L.dropped++
			continue
		}
		L.counts[i]++
		matched++
	}
	L.total += matched
	return matched
}

//Count returns the number of colors in the ith bin.
func (L *Lattice) Count(i int) int {
	return int(L.counts[i])
}

//Total returns the number of colors binned.
func (L *Lattice) Total() int {
	return L.total
}

//Dropped returns the number of colors that didn't fall in the lattice.
func (L *Lattice) Dropped() int {
	return L.dropped
}

//Fractions returns the fraction of the binned colors in each bin.
func (L *Lattice) Fractions() []float64 {
	ret := make([]float64, len(L.counts))
	if L.total == 0 {
		return ret
	}
	return floats.ScaleTo(ret, 1/float64(L.total), L.counts)
}

//Occupied returns the indexes of all non-empty bins, in increasing order.
func (L *Lattice) Occupied() []int {
	var ret []int
	for i, v := range L.counts {
		if v != 0 {
			ret = append(ret, i)
		}
	}
	return ret
}

//split returns the per-channel divisions of the ith bin.
func (L *Lattice) split(i int) (r, g, b int) {
	if i < 0 || i >= len(L.counts) {
		panic(fmt.Sprintf("relief/histo: Bin %d out of range", i))
	}
	b = i % L.steps
	g = (i / L.steps) % L.steps
	r = i / (L.steps * L.steps)
	return r, g, b
}

//Lower returns the lower corner of the ith bin.
func (L *Lattice) Lower(i int) [3]float64 {
	r, g, b := L.split(i)
	return [3]float64{L.dividers[r], L.dividers[g], L.dividers[b]}
}

//Hex returns the label of the ith bin: the lower corner as a "#rrggbb" color.
//Channels are scaled to 255 and rounded half to even.
func (L *Lattice) Hex(i int) string {
	c := L.Lower(i)
	var b strings.Builder
	b.WriteByte('#')
	for _, v := range c {
		h := math.RoundToEven(v * 255)
		if h > 255 {
			h = 255
		}
		fmt.Fprintf(&b, "%02x", int(h))
	}
	return b.String()
}
