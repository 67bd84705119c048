/*
 * auxfiles.go, part of relief.
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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/relief/slicer"
	"gonum.org/v1/gonum/spatial/r3"
)

// ZstdSuffix is added to the names of compressed files.
const ZstdSuffix = ".zst"

// Symbols used for each kind of point in the XYZ files, so they show in different colors in
// molecular viewers.
const (
	SegmentSymbol = "Cl"
	SiteSymbol    = "Br"
)

// AuxNames are the names of the auxiliary files of one surface.
type AuxNames struct {
	Segments       string //all the intersection points
	BitLocations   string //the points that gave a bit
	Correspondence string //bit to grid cell correspondence
	Map            string //the fingerprint as a grid
}

// Names returns the names of the auxiliary files for the surface base in the directory dir.
// If compress is true, the intersection points file is compressed.
func Names(dir, base string, compress bool) AuxNames {
	A := AuxNames{
		Segments:       filepath.Join(dir, "ReLieF_ReceptorSurfaceSegments_"+base+".xyz"),
		BitLocations:   filepath.Join(dir, "ReLieF_ReceptorFingerprintBitLocations_"+base+".xyz"),
		Correspondence: filepath.Join(dir, "ReLieF_StructureFingerprintBitCorrespondence_"+base+".csv"),
		Map:            filepath.Join(dir, "ReLieF_Map_"+base+".csv"),
	}
	if compress {
		A.Segments += ZstdSuffix
	}
	return A
}

// List returns all the names.
func (A AuxNames) List() []string {
	return []string{A.Segments, A.BitLocations, A.Correspondence, A.Map}
}

// WriteAux writes all the auxiliary files for the geometry fingerprint R of the surface base.
// Existing files are overwritten. If ctx is done before all the files are written, the ones
// already written are removed and ctx's error is returned.
func WriteAux(ctx context.Context, dir, base string, R *slicer.Result, compress bool) (AuxNames, error) {
	A := Names(dir, base, compress)
	sites := R.Sites()
	pos := make([]r3.Vec, 0, len(sites))
	for _, s := range sites {
		pos = append(pos, s.Pos)
	}
	writers := []struct {
		name  string
		write func() error
	}{
		{A.Segments, func() error {
			return WriteXYZ(A.Segments, fmt.Sprintf("ReLiEF surface segments of %s", base), SegmentSymbol, R.Cloud.Points)
		}},
		{A.BitLocations, func() error {
			return WriteXYZ(A.BitLocations, fmt.Sprintf("ReLiEF fingerprint bit locations of %s", base), SiteSymbol, pos)
		}},
		{A.Correspondence, func() error {
			return writeFile(A.Correspondence, func(w io.Writer) error { return WriteCorrespondence(w, sites) })
		}},
		{A.Map, func() error {
			return writeFile(A.Map, func(w io.Writer) error { return WriteMap(w, R) })
		}},
	}
	for i, v := range writers {
		if err := ctx.Err(); err != nil {
			Remove(A.List()[:i]...)
			return A, Error{Cancelled + ": " + err.Error(), v.name, []string{"WriteAux"}, true, err}
		}
		if err := v.write(); err != nil {
			return A, errDecorate(err, "WriteAux")
		}
	}
	return A, nil
}

// Remove deletes the given files, ignoring the ones that don't exist, and returns the
// first other error found, or nil.
func Remove(names ...string) error {
	var ret error
	for _, n := range names {
		if err := os.Remove(n); err != nil && !errors.Is(err, fs.ErrNotExist) && ret == nil {
			ret = err
		}
	}
	return ret
}

// WriteXYZ writes the points in XYZ format to the file name, all with the given
// element symbol. The file is compressed with zstd if its name ends with ZstdSuffix.
func WriteXYZ(name, comment, symbol string, points []r3.Vec) error {
	return writeFile(name, func(w io.Writer) error {
		//The comment line can't have line breaks.
		comment = strings.ReplaceAll(comment, "\n", " ")
		if _, err := fmt.Fprintf(w, "%d\n%s\n", len(points), comment); err != nil {
			return err
		}
		for _, p := range points {
			_, err := fmt.Fprintf(w, "%s %s %s %s\n", symbol, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCorrespondence writes the correspondence table between the fingerprint bits and
// the surviving depths.
func WriteCorrespondence(w io.Writer, sites []slicer.Site) error {
	if _, err := io.WriteString(w, "map_row,map_column,bit_index,structure_index\n"); err != nil {
		return err
	}
	for _, s := range sites {
		if _, err := fmt.Fprintf(w, "%d,%d,%d,%d\n", s.MapRow, s.MapColumn, s.Bit, s.Structure); err != nil {
			return err
		}
	}
	return nil
}

// WriteMap writes the fingerprint as a grid: one line per row, with the tokens separated by commas.
func WriteMap(w io.Writer, R *slicer.Result) error {
	for i := 0; i < R.Rows; i++ {
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(R.Row(i), ",")); err != nil {
			return err
		}
	}
	return nil
}

// formatFloat prints the shortest representation of v that reads back to the same value,
// always with a decimal point.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// zstdWriteCloser closes both the compressor and the file.
type zstdWriteCloser struct {
	*zstd.Encoder
	f *os.File
}

func (z zstdWriteCloser) Close() error {
	err := z.Encoder.Close()
	err2 := z.f.Close()
	if err == nil {
		err = err2
	}
	return err
}

// create creates (or truncates) the file name, with a compressing writer if the name
// ends with ZstdSuffix.
func create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ZstdSuffix) {
		return f, nil
	}
	z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		return nil, err
	}
	return zstdWriteCloser{z, f}, nil
}

// writeFile creates the file name and fills it with write.
func writeFile(name string, write func(io.Writer) error) error {
	wc, err := create(name)
	if err != nil {
		return Error{UnableToCreate + ": " + err.Error(), name, []string{"writeFile"}, true, err}
	}
	b := bufio.NewWriter(wc)
	err = write(b)
	if err == nil {
		err = b.Flush()
	}
	err2 := wc.Close()
	if err == nil {
		err = err2
	}
	if err != nil {
		return Error{WriteError + ": " + err.Error(), name, []string{"writeFile"}, true, err}
	}
	return nil
}
