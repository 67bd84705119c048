/*
 * batch.go, part of relief.
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

//Package batch builds the fingerprints of all the surfaces in a directory.
//
//Files are processed concurrently, but the fingerprint table is always written in the
//lexical order of the file names, so two runs on the same files give the same table.
//A file that can't be read, or takes too long, is reported and left out of the table;
//the rest of the batch goes on.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rmera/relief"
	"github.com/rmera/relief/colorprint"
	"github.com/rmera/relief/config"
	"github.com/rmera/relief/fingerprint"
	"github.com/rmera/relief/relplot"
	"github.com/rmera/relief/slicer"
	"github.com/rmera/relief/wrl"
	"github.com/sirupsen/logrus"
)

// Pipeline is one of the two kinds of fingerprint.
type Pipeline int

const (
	Geometry Pipeline = iota //slicing fingerprint of triangulated surfaces
	Color                    //color-distribution fingerprint of dot surfaces
)

func (P Pipeline) String() string {
	if P == Color {
		return "color"
	}
	return "geometry"
}

// Table returns the name of the fingerprint table for the pipeline.
func (P Pipeline) Table() string {
	if P == Color {
		return fingerprint.ColorTable
	}
	return fingerprint.GeometryTable
}

// SummaryFile is the name of the run summary, written in the output directory.
const SummaryFile = "ReLieF_RunSummary.yaml"

// Files returns the files in dir whose names end with suffix, or with suffix plus the
// zstd suffix, in lexical order.
func Files(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Error{UnableToList + ": " + err.Error(), dir, []string{"Files"}, true, err}
	}
	var ret []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(n, suffix) || strings.HasSuffix(n, suffix+wrl.ZstdSuffix) {
			ret = append(ret, filepath.Join(dir, n))
		}
	}
	return ret, nil
}

// Runner runs batches with one configuration.
type Runner struct {
	c      config.Config
	log    *logrus.Logger
	slicer *slicer.Slicer
	color  *colorprint.Options
}

// New returns a runner for the configuration C, which is validated. If log is nil,
// a logger with C's level is created.
func New(C *config.Config, log *logrus.Logger) (*Runner, error) {
	if C == nil {
		C = config.Default()
	}
	if err := C.Validate(); err != nil {
		return nil, Error{err.Error(), "", []string{"New"}, true, err}
	}
	O, err := C.SlicerOptions()
	if err != nil {
		return nil, Error{err.Error(), "", []string{"New"}, true, err}
	}
	S, err := slicer.New(O)
	if err != nil {
		return nil, Error{err.Error(), "", []string{"New"}, true, err}
	}
	if log == nil {
		log = config.NamedLogger("batch", C.LogLevel)
	}
	return &Runner{c: *C, log: log, slicer: S, color: C.ColorOptions()}, nil
}

// outcome is what a worker gives back for each file.
type outcome struct {
	res     FileResult
	geo     *slicer.Result
	color   *colorprint.Result
	written []string //output files of this file alone
	err     error
}

// Run builds the fingerprints of the files in dir with the pipeline P. The outputs go to the
// configured output directory, or to dir if none was set. Errors in individual files don't stop
// the run, they are reported in the summary. The returned error is only for problems that
// affect the whole batch.
func (B *Runner) Run(ctx context.Context, P Pipeline, dir string) (*Summary, error) {
	start := time.Now()
	files, err := Files(dir, B.c.Batch.Suffix)
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	outdir := B.c.Batch.OutDir
	if outdir == "" {
		outdir = dir
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return nil, Error{UnableToCreate + ": " + err.Error(), outdir, []string{"Run"}, true, err}
	}
	table, err := fingerprint.NewTable(filepath.Join(outdir, P.Table()))
	if err != nil {
		return nil, Error{err.Error(), outdir, []string{"Run"}, true, err}
	}
	defer table.Close()
	S := newSummary(uuid.NewString(), P, table.Name())
	log := B.log.WithFields(logrus.Fields{"run": S.RunID, "pipeline": P.String()})
	log.Infof("Processing %d files from %s", len(files), dir)

	results := make([]chan outcome, len(files))
	sem := make(chan struct{}, B.c.Batch.Workers)
	for i, name := range files {
		results[i] = make(chan outcome, 1)
		go func(i int, name string) {
			results[i] <- B.process(ctx, sem, P, name, outdir)
		}(i, name)
	}
	acc := new(fingerprint.Accumulator)
	//results are consumed in the order of the files, so the table doesn't depend on the scheduling.
	for _, c := range results {
		o := <-c
		flog := log.WithField("file", o.res.Name)
		//non-critical errors leave a usable fingerprint.
		if o.err == nil || !relief.IsCritical(o.err) {
			if err := B.append(table, P, &o); err != nil {
				o.err = err
			}
		}
		if relief.IsCritical(o.err) {
			o.res.Error = o.err.Error()
			if o.res.Status != Skipped {
				o.res.Status = Failed
			}
			flog.WithField("trail", strings.Join(relief.Trail(o.err), " < ")).Errorf("%s: %v", o.res.Status, o.err)
			S.add(o.res)
			continue
		}
		if o.err != nil {
			o.res.Status = Warned
			o.res.Error = o.err.Error()
			flog.Warnf("%s: %v", Warned, o.err)
		}
		o.res.Longest = acc.Observe(o.res.Length)
		S.add(o.res)
		B.telemetry(flog, &o)
	}
	//computations given up on still hold their worker slots. Once all slots are free,
	//no more outputs can appear.
	for i := 0; i < cap(sem); i++ {
		sem <- struct{}{}
	}
	S.MaxLength = acc.Max()
	S.MeanLength = acc.Mean()
	S.Elapsed = time.Since(start).Round(time.Millisecond).String()
	if err := table.Close(); err != nil {
		return S, errDecorate(err, "Run")
	}
	if err := S.Save(filepath.Join(outdir, SummaryFile)); err != nil {
		return S, errDecorate(err, "Run")
	}
	log.WithFields(logrus.Fields{
		"processed": S.Processed,
		"skipped":   S.Skipped,
		"failed":    S.Failed,
		"longest":   S.MaxLength,
	}).Infof("Finished in %s", S.Elapsed)
	return S, ctx.Err()
}

// append writes the fingerprint of a file to the table.
func (B *Runner) append(T *fingerprint.Table, P Pipeline, o *outcome) error {
	if P == Color {
		return T.AppendColor(o.res.Base, o.color)
	}
	return T.AppendGeometry(o.res.Base, o.geo)
}

func (B *Runner) telemetry(log *logrus.Entry, o *outcome) {
	r := &o.res
	if o.geo != nil {
		log.WithFields(logrus.Fields{
			"bits":     r.Length,
			"signals":  r.Signals,
			"dropped":  r.Dropped,
			"parallel": o.geo.Cloud.Parallel,
			"points":   o.geo.Cloud.Len(),
			"longest":  r.Longest,
		}).Info("Fingerprint done")
	} else {
		log.WithFields(logrus.Fields{
			"bins":    r.Bins,
			"peak":    r.Peak,
			"bits":    r.Length,
			"dropped": r.Dropped,
			"longest": r.Longest,
		}).Info("Fingerprint done")
	}
	if r.SkippedLines > 0 {
		log.Debugf("%d lines skipped while reading", r.SkippedLines)
	}
	if r.Dropped > 0 {
		log.Warnf("%d values were left out of the fingerprint", r.Dropped)
	}
}

// process fingerprints one file, waiting for a free worker slot first, and enforcing the
// per-file timeout, if any. The slot is held until the computation ends, even if the file
// is given up on before that.
func (B *Runner) process(ctx context.Context, sem chan struct{}, P Pipeline, name, outdir string) outcome {
	o := outcome{res: FileResult{Name: name, Base: wrl.BaseName(name)}}
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		o.err = Error{Cancelled + ": " + ctx.Err().Error(), name, []string{"process"}, true, ctx.Err()}
		return o
	}
	fctx, cancel := ctx, context.CancelFunc(func() {})
	if B.c.Batch.FileTimeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, B.c.Batch.FileTimeout)
	}
	var mu sync.Mutex
	abandoned := false
	done := make(chan outcome, 1)
	base := o.res
	go func() {
		defer func() { <-sem }()
		defer cancel()
		var r outcome
		func() {
			defer func() {
				if p := recover(); p != nil {
					r = outcome{res: base, err: Error{fmt.Sprintf("%s: %v\n%s", Panicked, p, debug.Stack()), name, []string{"process"}, true, nil}}
				}
			}()
			r = B.compute(fctx, P, name, outdir)
		}()
		mu.Lock()
		defer mu.Unlock()
		if abandoned {
			//nobody will report this file as processed, so its outputs go away.
			if err := fingerprint.Remove(r.written...); err != nil {
				B.log.WithField("file", name).Warnf("Unable to remove the outputs of an abandoned file: %v", err)
			}
			return
		}
		done <- r
	}()
	timedOut := func(r outcome) outcome {
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.res.Status = Skipped
		}
		return r
	}
	select {
	case r := <-done:
		return timedOut(r)
	case <-fctx.Done():
	}
	mu.Lock()
	defer mu.Unlock()
	select {
	case r := <-done:
		return timedOut(r)
	default:
	}
	//the computation may still be running, its result will be discarded.
	abandoned = true
	if ctx.Err() == nil {
		o.res.Status = Skipped
		o.err = Error{fmt.Sprintf("%s (%v)", TimedOut, B.c.Batch.FileTimeout), name, []string{"process"}, true, fctx.Err()}
		return o
	}
	o.err = Error{Cancelled + ": " + ctx.Err().Error(), name, []string{"process"}, true, ctx.Err()}
	return o
}

// compute loads the file and builds its fingerprint. For the geometry pipeline, it also
// writes the auxiliary files and, if requested, the plot. A plot that can't be made gives
// a non-critical error.
func (B *Runner) compute(ctx context.Context, P Pipeline, name, outdir string) outcome {
	o := outcome{res: FileResult{Name: name, Base: wrl.BaseName(name), Status: Processed}}
	r := &o.res
	if P == Color {
		D, err := B.loadDots(ctx, name)
		if err != nil {
			o.err = errDecorate(err, "compute")
			return o
		}
		o.color, o.err = colorprint.Fingerprint(D.Dots, B.color)
		if o.err != nil {
			return o
		}
		r.SkippedLines = D.Skipped
		r.Length = o.color.Len()
		r.Bins = len(o.color.Bins)
		r.Dropped = o.color.Dropped
		if p, ok := o.color.Peak(); ok {
			r.Peak = fmt.Sprintf("%s:%.3f", p.Label, p.Fraction)
		}
		return o
	}
	M, err := B.loadTriangles(ctx, name)
	if err != nil {
		o.err = errDecorate(err, "compute")
		return o
	}
	o.geo, o.err = B.slicer.Fingerprint(ctx, M.Triangles)
	if o.err != nil {
		return o
	}
	r.SkippedLines = M.Skipped
	r.Length = o.geo.Len()
	r.Signals = o.geo.Signals()
	r.Dropped = o.geo.Dropped
	A, err := fingerprint.WriteAux(ctx, outdir, r.Base, o.geo, B.c.Batch.Compress)
	if err != nil {
		fingerprint.Remove(A.List()...)
		o.err = err
		return o
	}
	o.written = A.List()
	if B.c.Batch.Plot {
		pname := filepath.Join(outdir, "ReLieF_Map_"+r.Base+".png")
		if err := relplot.Sites(o.geo, r.Base, pname); err != nil {
			o.err = Error{UnableToPlot + ": " + err.Error(), pname, []string{"compute"}, false, err}
			return o
		}
		o.written = append(o.written, pname)
	}
	return o
}

// retry calls f until it succeeds, up to 1+IORetries times, waiting RetryDelay between calls.
func (B *Runner) retry(ctx context.Context, name string, f func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = f(); err == nil {
			return nil
		}
		if attempt >= B.c.Batch.IORetries {
			return err
		}
		B.log.WithFields(logrus.Fields{"file": name, "attempt": attempt + 1}).Warnf("Read failed, will retry: %v", err)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(B.c.Batch.RetryDelay):
		}
	}
}

func (B *Runner) loadTriangles(ctx context.Context, name string) (*wrl.Mesh, error) {
	var M *wrl.Mesh
	err := B.retry(ctx, name, func() error {
		var err error
		M, err = wrl.LoadTriangles(name)
		return err
	})
	if err != nil {
		return nil, Error{UnableToLoad + ": " + err.Error(), name, []string{"loadTriangles"}, true, err}
	}
	return M, nil
}

func (B *Runner) loadDots(ctx context.Context, name string) (*wrl.DotSet, error) {
	var D *wrl.DotSet
	err := B.retry(ctx, name, func() error {
		var err error
		D, err = wrl.LoadDots(name)
		return err
	})
	if err != nil {
		return nil, Error{UnableToLoad + ": " + err.Error(), name, []string{"loadDots"}, true, err}
	}
	return D, nil
}
