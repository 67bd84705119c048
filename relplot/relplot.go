/*
 * relplot.go, part of relief.
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

//Package relplot draws the bit locations of geometry fingerprints.
//
//Each surviving depth of the fingerprint is a point in the grid plane, colored by its depth.
//Merged depths and single depths are drawn with different glyphs.
package relplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/relief/slicer"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bands is the number of depth ranges, each with its own color, used in the plots.
const Bands = 8

// Size is the side of the (square) plots.
var Size = 6 * vg.Inch

func basicMapPlot(title string, R *slicer.Result) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Column coordinate (A)"
	p.Y.Label.Text = "Row coordinate (A)"
	//The axes cover the whole grid, so plots of different surfaces can be compared.
	if R.Rows > 0 && R.Cols > 0 {
		first := R.Cells[0][0]
		last := R.Cells[R.Rows-1][R.Cols-1]
		p.X.Min, p.X.Max = math.Min(first.Y, last.Y), math.Max(first.Y, last.Y)
		p.Y.Min, p.Y.Max = math.Min(first.X, last.X), math.Max(first.X, last.X)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// band returns the depth band of z, given the depth range.
func band(z, min, max float64) int {
	if max <= min {
		return 0
	}
	b := int(float64(Bands) * (z - min) / (max - min))
	if b >= Bands {
		b = Bands - 1
	}
	return b
}

// Sites plots the bit locations of the fingerprint R and saves the plot, in PNG format, to
// filename (which should include the extension). Returns an error or nil.
func Sites(R *slicer.Result, title, filename string) error {
	if R == nil {
		return fmt.Errorf("relplot: nil fingerprint given")
	}
	p := basicMapPlot(title, R)
	sites := R.Sites()
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range sites {
		min = math.Min(min, s.Z)
		max = math.Max(max, s.Z)
	}
	//one set of points for each band and kind of depth.
	var merged, single [Bands]plotter.XYs
	for _, s := range sites {
		b := band(s.Z, min, max)
		c := R.Cells[s.MapRow-1][s.MapColumn-1]
		xy := plotter.XY{X: c.Y, Y: c.X}
		if s.Merged {
			merged[b] = append(merged[b], xy)
		} else {
			single[b] = append(single[b], xy)
		}
	}
	width := (max - min) / Bands
	for b := 0; b < Bands; b++ {
		r, g, bl := colors(b, Bands)
		col := color.RGBA{R: r, G: g, B: bl, A: 255}
		label := fmt.Sprintf("z %5.1f-%5.1f", min+width*float64(b), min+width*float64(b+1))
		for k, data := range [][]plotter.XY{merged[b], single[b]} {
			if len(data) == 0 {
				continue
			}
			s, err := plotter.NewScatter(plotter.XYs(data))
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = col
			s.GlyphStyle.Radius = vg.Points(2)
			s.GlyphStyle.Shape = getShape(k == 0)
			p.Add(s)
			if k == 0 || len(merged[b]) == 0 {
				p.Legend.Add(label, s)
			}
		}
	}
	return p.Save(Size, Size, filename)
}

func getShape(merged bool) draw.GlyphDrawer {
	if merged {
		return draw.CircleGlyph{}
	}
	return draw.SquareGlyph{}
}

// colors returns the color for the key-th of steps bands, going from red to violet.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64((float64(key) * norm) + 20.0)
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	s := 1.0
	v := 1.0
	r, g, b = iHVS2RGB(h, v, s)
	return r, g, b
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}
