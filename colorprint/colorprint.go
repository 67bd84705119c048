/*
 * colorprint.go, part of relief.
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

//Package colorprint builds the color-distribution ReLiEF fingerprint of a dot surface.
//
//The color of each dot is binned in an RGB lattice. Each non-empty bin contributes one token
//per dot, numbered from 1, followed by a fixed number of buffer tokens. Bins are written in
//increasing bin order. For instance, a bin labeled #ffa000 with 3 dots gives:
//
//	PC&#ffa000&1 PC&#ffa000&2 PC&#ffa000&3 % % % %
package colorprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rmera/relief/histo"
	"github.com/rmera/relief/wrl"
)

// Options contains the parameters of the color fingerprint.
type Options struct {
	Steps       int     //lattice divisions per channel
	Width       float64 //width of a division, in units of 1/Scale
	Scale       float64
	WhiteFirst  bool   //count pure white in the first bin
	Prefix      string //goes before the bin label in each token
	Buffer      int    //number of buffer tokens after each bin
	BufferToken string
}

// DefaultOptions returns the options used for the reference fingerprints.
func DefaultOptions() *Options {
	return &Options{
		Steps:       52,
		Width:       5,
		Scale:       255,
		WhiteFirst:  true,
		Prefix:      "PC&",
		Buffer:      4,
		BufferToken: "%",
	}
}

// Check returns an error if the options can't be used.
func (O *Options) Check() error {
	var bad []string
	if O.Steps <= 0 {
		bad = append(bad, fmt.Sprintf("steps must be positive (%d)", O.Steps))
	}
	if O.Width <= 0 || O.Scale <= 0 {
		bad = append(bad, fmt.Sprintf("bad bin width %v/%v", O.Width, O.Scale))
	}
	if O.Buffer < 0 {
		bad = append(bad, fmt.Sprintf("negative buffer %d", O.Buffer))
	}
	if strings.ContainsAny(O.Prefix+O.BufferToken, ", \n") {
		bad = append(bad, "prefix and buffer token can't contain spaces, commas or newlines")
	}
	if len(bad) > 0 {
		return Error{"invalid options: " + strings.Join(bad, "; "), "", []string{"Check"}, true}
	}
	return nil
}

// Lattice returns an empty lattice for the options.
func (O *Options) Lattice() *histo.Lattice {
	return histo.NewLattice(O.Steps, O.Width, O.Scale, O.WhiteFirst)
}

// Bin is a non-empty lattice bin.
type Bin struct {
	Index    int
	Label    string
	Count    int
	Fraction float64 //of the binned dots
}

// Result is the color fingerprint of one surface.
type Result struct {
	Bins    []Bin
	Matched int //dots binned
	Dropped int //dots with colors outside the lattice
	buffer  string
	prefix  string
	nbuffer int
}

// Fingerprint bins the colors of the dots and returns the fingerprint.
func Fingerprint(dots []wrl.Dot, O *Options) (*Result, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if err := O.Check(); err != nil {
		return nil, errDecorate(err, "Fingerprint")
	}
	L := O.Lattice()
	for _, d := range dots {
		L.Add(d.Color)
	}
	R := &Result{
		Matched: L.Total(),
		Dropped: L.Dropped(),
		prefix:  O.Prefix,
		nbuffer: O.Buffer,
		buffer:  strings.Repeat(O.BufferToken+" ", O.Buffer),
	}
	f := L.Fractions()
	for _, i := range L.Occupied() {
		R.Bins = append(R.Bins, Bin{Index: i, Label: L.Hex(i), Count: L.Count(i), Fraction: f[i]})
	}
	return R, nil
}

// Peak returns the most populated bin (the first one, in case of ties), and false
// if there are no bins.
func (R *Result) Peak() (Bin, bool) {
	if len(R.Bins) == 0 {
		return Bin{}, false
	}
	p := R.Bins[0]
	for _, b := range R.Bins[1:] {
		if b.Count > p.Count {
			p = b
		}
	}
	return p, true
}

// Len returns the number of tokens, buffers included.
func (R *Result) Len() int {
	return R.Matched + R.nbuffer*len(R.Bins)
}

// Strings returns the token string of each bin. Each token is followed by a space.
func (R *Result) Strings() []string {
	ret := make([]string, 0, len(R.Bins))
	var b strings.Builder
	for _, v := range R.Bins {
		b.Reset()
		for n := 1; n <= v.Count; n++ {
			b.WriteString(R.prefix)
			b.WriteString(v.Label)
			b.WriteByte('&')
			b.WriteString(strconv.Itoa(n))
			b.WriteByte(' ')
		}
		b.WriteString(R.buffer)
		ret = append(ret, b.String())
	}
	return ret
}

// String returns the whole fingerprint.
func (R *Result) String() string {
	return strings.Join(R.Strings(), "")
}

//Errors

type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("colorprint error: %s", err.message)
}

func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

// errDecorate is a helper function that asserts that the error is
// a colorprint.Error and decorates the error with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2 := err.(Error)
	err2.deco = append(err2.deco, caller)
	return err2
}
