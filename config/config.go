/*
 * config.go, part of relief.
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

// Package config provides the run configuration, from defaults, a YAML file and
// command-line flags, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rmera/relief/colorprint"
	"github.com/rmera/relief/geom"
	"github.com/rmera/relief/slicer"
	"gopkg.in/yaml.v3"
)

// Slicing contains the parameters of the geometry fingerprint.
type Slicing struct {
	Axis          string  `yaml:"axis"`
	PlaneStart    float64 `yaml:"plane_start"`
	PlaneEnd      float64 `yaml:"plane_end"`
	Planes        int     `yaml:"planes"`
	RowStart      float64 `yaml:"row_start"`
	RowEnd        float64 `yaml:"row_end"`
	RowStep       float64 `yaml:"row_step"`
	ColumnStart   float64 `yaml:"column_start"`
	ColumnEnd     float64 `yaml:"column_end"`
	ColumnStep    float64 `yaml:"column_step"`
	ZStart        float64 `yaml:"z_start"`
	ZEnd          float64 `yaml:"z_end"`
	ZStep         float64 `yaml:"z_step"`
	CaptureRadius float64 `yaml:"capture_radius"`
	Tolerance     float64 `yaml:"tolerance"`
	MergeNearest  bool    `yaml:"merge_nearest"`
	Cpus          int     `yaml:"cpus"`
}

// Color contains the parameters of the color fingerprint.
type Color struct {
	Steps       int     `yaml:"steps"`
	Width       float64 `yaml:"width"`
	Scale       float64 `yaml:"scale"`
	WhiteFirst  bool    `yaml:"white_first"`
	Prefix      string  `yaml:"prefix"`
	Buffer      int     `yaml:"buffer"`
	BufferToken string  `yaml:"buffer_token"`
}

// Batch contains the parameters of a batch run.
type Batch struct {
	Suffix      string        `yaml:"suffix"`
	OutDir      string        `yaml:"out_dir"` //empty means the input directory
	Workers     int           `yaml:"workers"`
	FileTimeout time.Duration `yaml:"file_timeout"` //0 means no timeout
	IORetries   int           `yaml:"io_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Plot        bool          `yaml:"plot"`
	Compress    bool          `yaml:"compress"`
}

// Config is the whole run configuration.
type Config struct {
	Slicing  Slicing `yaml:"slicing"`
	Color    Color   `yaml:"color"`
	Batch    Batch   `yaml:"batch"`
	LogLevel string  `yaml:"log_level"`
}

// Default returns the configuration that reproduces the reference fingerprints.
func Default() *Config {
	so := slicer.DefaultOptions()
	co := colorprint.DefaultOptions()
	return &Config{
		Slicing: Slicing{
			Axis:          so.Axis.String(),
			PlaneStart:    so.PlaneStart,
			PlaneEnd:      so.PlaneEnd,
			Planes:        so.Planes,
			RowStart:      so.RowStart,
			RowEnd:        so.RowEnd,
			RowStep:       so.RowStep,
			ColumnStart:   so.ColumnStart,
			ColumnEnd:     so.ColumnEnd,
			ColumnStep:    so.ColumnStep,
			ZStart:        so.ZStart,
			ZEnd:          so.ZEnd,
			ZStep:         so.ZStep,
			CaptureRadius: so.CaptureRadius,
			Tolerance:     so.Tolerance,
			MergeNearest:  so.MergeNearest,
			Cpus:          so.Cpus,
		},
		Color: Color{
			Steps:       co.Steps,
			Width:       co.Width,
			Scale:       co.Scale,
			WhiteFirst:  co.WhiteFirst,
			Prefix:      co.Prefix,
			Buffer:      co.Buffer,
			BufferToken: co.BufferToken,
		},
		Batch: Batch{
			Suffix:     ".wrl",
			Workers:    1,
			IORetries:  2,
			RetryDelay: 200 * time.Millisecond,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file. Fields not present in the file keep their default values.
func Load(name string) (*Config, error) {
	C := Default()
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, Error{UnableToRead + ": " + err.Error(), name, []string{"Load"}, true}
	}
	if err := yaml.Unmarshal(b, C); err != nil {
		return nil, Error{Malformed + ": " + err.Error(), name, []string{"Load"}, true}
	}
	return C, nil
}

// Save writes the configuration, as YAML, to the file name.
func (C *Config) Save(name string) error {
	b, err := yaml.Marshal(C)
	if err != nil {
		return Error{err.Error(), name, []string{"Save"}, true}
	}
	if err := os.WriteFile(name, b, 0644); err != nil {
		return Error{err.Error(), name, []string{"Save"}, true}
	}
	return nil
}

// SlicerOptions returns the options for the geometry fingerprint.
func (C *Config) SlicerOptions() (*slicer.Options, error) {
	S := C.Slicing
	ax, err := geom.ParseAxis(S.Axis)
	if err != nil {
		return nil, Error{err.Error(), "", []string{"SlicerOptions"}, true}
	}
	O := slicer.DefaultOptions()
	O.Axis = ax
	O.PlaneStart, O.PlaneEnd, O.Planes = S.PlaneStart, S.PlaneEnd, S.Planes
	O.RowStart, O.RowEnd, O.RowStep = S.RowStart, S.RowEnd, S.RowStep
	O.ColumnStart, O.ColumnEnd, O.ColumnStep = S.ColumnStart, S.ColumnEnd, S.ColumnStep
	O.ZStart, O.ZEnd, O.ZStep = S.ZStart, S.ZEnd, S.ZStep
	O.CaptureRadius, O.Tolerance = S.CaptureRadius, S.Tolerance
	O.MergeNearest = S.MergeNearest
	if S.Cpus > 0 {
		O.Cpus = S.Cpus
	}
	return O, nil
}

// ColorOptions returns the options for the color fingerprint.
func (C *Config) ColorOptions() *colorprint.Options {
	c := C.Color
	return &colorprint.Options{
		Steps:       c.Steps,
		Width:       c.Width,
		Scale:       c.Scale,
		WhiteFirst:  c.WhiteFirst,
		Prefix:      c.Prefix,
		Buffer:      c.Buffer,
		BufferToken: c.BufferToken,
	}
}

type checkFunc func(C *Config) []string

// Validate returns an error listing every problem found in the configuration, or nil.
func (C *Config) Validate() error {
	checks := []checkFunc{
		checkSlicing,
		checkColor,
		checkBatch,
	}
	var bad []string
	for _, f := range checks {
		bad = append(bad, f(C)...)
	}
	if !validLogLevel(C.LogLevel) {
		bad = append(bad, fmt.Sprintf("unknown log level %q, use one of: %s", C.LogLevel, strings.Join(LogLevels, ", ")))
	}
	if len(bad) > 0 {
		return Error{Invalid + ": " + strings.Join(bad, "; "), "", []string{"Validate"}, true}
	}
	return nil
}

func checkSlicing(C *Config) []string {
	O, err := C.SlicerOptions()
	if err != nil {
		return []string{err.Error()}
	}
	if err := O.Check(); err != nil {
		return []string{err.Error()}
	}
	return nil
}

func checkColor(C *Config) []string {
	if err := C.ColorOptions().Check(); err != nil {
		return []string{err.Error()}
	}
	return nil
}

func checkBatch(C *Config) []string {
	var bad []string
	B := C.Batch
	if B.Suffix == "" {
		bad = append(bad, "empty file suffix")
	}
	if B.Workers < 1 {
		bad = append(bad, fmt.Sprintf("workers must be at least 1 (%d)", B.Workers))
	}
	if B.FileTimeout < 0 {
		bad = append(bad, fmt.Sprintf("negative file timeout %v", B.FileTimeout))
	}
	if B.IORetries < 0 || B.RetryDelay < 0 {
		bad = append(bad, fmt.Sprintf("bad retries: %d every %v", B.IORetries, B.RetryDelay))
	}
	return bad
}

//Errors

type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("config error: %s", err.message)
	}
	return fmt.Sprintf("config error in %s: %s", err.filename, err.message)
}

func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

const (
	UnableToRead = "Unable to read configuration file"
	Malformed    = "Malformed configuration file"
	Invalid      = "Invalid configuration"
)
