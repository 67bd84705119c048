/*
 * files.go, part of relief.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix is the suffix of zstd-compressed scenes.
const ZstdSuffix = ".zst"

// zstd.Decoder has a Close method that returns nothing, so it is not an io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// Open opens the scene in name for reading. Files ending in ZstdSuffix
// are decompressed on the fly.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen, name, []string{"Open"}, true, err}
	}
	if !strings.HasSuffix(name, ZstdSuffix) {
		return f, nil
	}
	d, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"Open"}, true, err}
	}
	return zstdReadCloser{d, f}, nil
}

// BaseName returns the name of the scene file without directory, compression suffix or
// extension, which is the name used for the fingerprint rows and the per-file outputs.
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ZstdSuffix)
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// LoadTriangles reads the triangulated surface in the file name.
func LoadTriangles(name string) (*Mesh, error) {
	f, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "LoadTriangles")
	}
	defer f.Close()
	M, err := ReadTriangles(f)
	if err != nil {
		return nil, errFile(errDecorate(err, "LoadTriangles"), name)
	}
	return M, nil
}

// LoadDots reads the dot surface in the file name.
func LoadDots(name string) (*DotSet, error) {
	f, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "LoadDots")
	}
	defer f.Close()
	D, err := ReadDots(f)
	if err != nil {
		return nil, errFile(errDecorate(err, "LoadDots"), name)
	}
	return D, nil
}

//Errors

type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	cause    error
}

func (err Error) Error() string {
	return fmt.Sprintf("wrl file %s error: %s", err.filename, err.message)
}

// Decorate returns the trail of the error, plus deco, if not empty. The error itself is not
// changed: use errDecorate to get a decorated copy.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

func (err Error) Unwrap() error { return err.cause }

const (
	UnableToOpen = "Unable to open file"
	ReadError    = "Error reading file"
)

// errDecorate is a helper function that asserts that the error is
// a wrl.Error and decorates the error with the caller's name before returning it.
// It panics for any other kind of error.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2 := err.(Error)
	err2.deco = append(err2.deco, caller)
	return err2
}

func errFile(err error, name string) error {
	e := err.(Error)
	e.filename = name
	return e
}
