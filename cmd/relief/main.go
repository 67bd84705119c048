/*
 * main.go, part of relief.
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

// Command relief builds ReLiEF fingerprints for all the molecular surfaces in a directory.
//
//	relief slice [flags] <dir>   geometry (slicing) fingerprints of triangulated surfaces
//	relief color [flags] <dir>   color-distribution fingerprints of dot surfaces
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rmera/relief/batch"
	"github.com/rmera/relief/config"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	outDir       string
	workers      int
	timeout      string
	retries      int
	logLevel     string
	plot         bool
	compress     bool
	mergeNearest bool
	suffix       string
)

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// loadConfig reads the configuration file, if given, and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	C := config.Default()
	if configPath != "" {
		var err error
		C, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	f := cmd.Flags()
	if f.Changed("out") {
		C.Batch.OutDir = outDir
	}
	if f.Changed("workers") {
		C.Batch.Workers = workers
	}
	if f.Changed("timeout") {
		d, err := parseDuration(timeout)
		if err != nil {
			return nil, err
		}
		C.Batch.FileTimeout = d
	}
	if f.Changed("retries") {
		C.Batch.IORetries = retries
	}
	if f.Changed("log-level") {
		C.LogLevel = logLevel
	}
	if f.Changed("plot") {
		C.Batch.Plot = plot
	}
	if f.Changed("compress") {
		C.Batch.Compress = compress
	}
	if f.Changed("merge-nearest") {
		C.Slicing.MergeNearest = mergeNearest
	}
	if f.Changed("suffix") {
		C.Batch.Suffix = suffix
	}
	return C, C.Validate()
}

func runner(P batch.Pipeline) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		C, err := loadConfig(cmd)
		if err != nil {
			fail(err)
		}
		log := config.NamedLogger("relief", C.LogLevel)
		R, err := batch.New(C, log)
		if err != nil {
			fail(err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		S, err := R.Run(ctx, P, args[0])
		if err != nil {
			fail(err)
		}
		fmt.Printf("Run %s: %d processed, %d with warnings, %d skipped, %d failed. Longest fingerprint: %d\n",
			S.RunID, S.Processed, S.Warned, S.Skipped, S.Failed, S.MaxLength)
		if S.Failed > 0 {
			os.Exit(2)
		}
	}
}

// newRootCmd builds the command tree, binding the flags to their variables.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relief",
		Short: "ReLiEF fingerprints of molecular surfaces",
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&outDir, "out", "o", "", "output directory (default: the input directory)")
	pf.IntVarP(&workers, "workers", "w", 1, "number of files processed at the same time")
	pf.StringVar(&timeout, "timeout", "0", "per-file time limit, e.g. 90s (0 means no limit)")
	pf.IntVar(&retries, "retries", 2, "read retries for each file")
	pf.StringVar(&logLevel, "log-level", "info", "logging level")
	pf.StringVar(&suffix, "suffix", ".wrl", "suffix of the input files")

	sliceCmd := &cobra.Command{
		Use:   "slice <dir>",
		Short: "Geometry (slicing) fingerprints of triangulated surfaces",
		Args:  cobra.ExactArgs(1),
		Run:   runner(batch.Geometry),
	}
	sliceCmd.Flags().BoolVar(&plot, "plot", false, "plot the bit locations of each surface")
	sliceCmd.Flags().BoolVar(&compress, "compress", false, "compress the surface segment dumps with zstd")
	sliceCmd.Flags().BoolVar(&mergeNearest, "merge-nearest", false, "merge each depth with its closest partner (changes the fingerprints)")

	colorCmd := &cobra.Command{
		Use:   "color <dir>",
		Short: "Color-distribution fingerprints of dot surfaces",
		Args:  cobra.ExactArgs(1),
		Run:   runner(batch.Color),
	}

	configCmd := &cobra.Command{
		Use:   "config <file>",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.Default().Save(args[0]); err != nil {
				fail(err)
			}
		},
	}

	rootCmd.AddCommand(sliceCmd, colorCmd, configCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fail(err)
	}
}
