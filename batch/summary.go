/*
 * summary.go, part of relief.
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

package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Status is the final state of a file in a batch.
type Status string

const (
	Processed Status = "processed"
	Warned    Status = "warned"  //processed, with a non-critical error
	Skipped   Status = "skipped" //took longer than the per-file timeout
	Failed    Status = "failed"
)

// FileResult reports on one file of the batch.
type FileResult struct {
	Name         string `yaml:"name"`
	Base         string `yaml:"base"`
	Status       Status `yaml:"status"`
	Length       int    `yaml:"length"`            //tokens in the fingerprint
	Longest      int    `yaml:"longest,omitempty"` //longest fingerprint so far in the batch
	Signals      int    `yaml:"signals,omitempty"` //surviving depths (geometry)
	Bins         int    `yaml:"bins,omitempty"`    //non-empty color bins (color)
	Peak         string `yaml:"peak,omitempty"`    //most populated color bin and its fraction (color)
	Dropped      int    `yaml:"dropped,omitempty"` //depths without code, or colors out of the lattice
	SkippedLines int    `yaml:"skipped_lines,omitempty"`
	Error        string `yaml:"error,omitempty"`
}

// Summary reports on a whole batch.
type Summary struct {
	RunID      string       `yaml:"run_id"`
	Pipeline   string       `yaml:"pipeline"`
	Table      string       `yaml:"table"`
	Processed  int          `yaml:"processed"`
	Warned     int          `yaml:"warned"`
	Skipped    int          `yaml:"skipped"`
	Failed     int          `yaml:"failed"`
	MaxLength  int          `yaml:"max_length"`
	MeanLength float64      `yaml:"mean_length"`
	Elapsed    string       `yaml:"elapsed"`
	Files      []FileResult `yaml:"files"`
}

func newSummary(id string, P Pipeline, table string) *Summary {
	return &Summary{RunID: id, Pipeline: P.String(), Table: table}
}

func (S *Summary) add(r FileResult) {
	switch r.Status {
	case Processed:
		S.Processed++
	case Warned:
		S.Warned++
	case Skipped:
		S.Skipped++
	default:
		S.Failed++
	}
	S.Files = append(S.Files, r)
}

// Save writes the summary, as YAML, to the file name.
func (S *Summary) Save(name string) error {
	b, err := yaml.Marshal(S)
	if err != nil {
		return Error{err.Error(), name, []string{"Save"}, true, err}
	}
	if err := os.WriteFile(name, b, 0644); err != nil {
		return Error{UnableToCreate + ": " + err.Error(), name, []string{"Save"}, true, err}
	}
	return nil
}

// ReadSummary reads a summary written by Save.
func ReadSummary(name string) (*Summary, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadSummary"}, true, err}
	}
	S := new(Summary)
	if err := yaml.Unmarshal(b, S); err != nil {
		return nil, Error{err.Error(), name, []string{"ReadSummary"}, true, err}
	}
	return S, nil
}

//Errors

type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
	cause    error
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("batch error: %s", err.message)
	}
	return fmt.Sprintf("batch error in %s: %s", err.filename, err.message)
}

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
	UnableToList   = "Unable to list the input directory"
	UnableToCreate = "Unable to create output"
	UnableToLoad   = "Unable to load surface"
	TimedOut       = "File processing timed out"
	Cancelled      = "Batch cancelled"
	Panicked       = "Panic while processing file"
	UnableToPlot   = "Unable to plot the bit locations"
)

// errDecorate adds the caller's name to the trail of err, if err is a batch.Error.
// Errors from other packages are returned unchanged, with the trail they already carry.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}
