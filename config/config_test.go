/*
 * config_test.go, part of relief.
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

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmera/relief/geom"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	C := Default()
	require.NoError(t, C.Validate())
	O, err := C.SlicerOptions()
	require.NoError(t, err)
	assert.Equal(t, geom.X, O.Axis)
	assert.Equal(t, 101, O.NRows())
	assert.Equal(t, 100, O.NCols())
	assert.Equal(t, 200, O.NZ())
	assert.Equal(t, "PC&", C.ColorOptions().Prefix)
	assert.Equal(t, ".wrl", C.Batch.Suffix)
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "relief.yaml")
	data := `
slicing:
  tolerance: 0.3
  merge_nearest: true
batch:
  workers: 4
  file_timeout: 90s
log_level: debug
`
	require.NoError(t, os.WriteFile(name, []byte(data), 0644))
	C, err := Load(name)
	require.NoError(t, err)
	require.NoError(t, C.Validate())
	assert.Equal(t, 0.3, C.Slicing.Tolerance)
	assert.True(t, C.Slicing.MergeNearest)
	assert.Equal(t, 1.0, C.Slicing.CaptureRadius, "missing fields keep their defaults")
	assert.Equal(t, 4, C.Batch.Workers)
	assert.Equal(t, 90*time.Second, C.Batch.FileTimeout)
	assert.Equal(t, "debug", C.LogLevel)
}

func TestSaveLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "relief.yaml")
	C := Default()
	C.Batch.FileTimeout = time.Minute
	C.Color.Buffer = 2
	require.NoError(t, C.Save(name))
	C2, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, C, C2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), UnableToRead))

	name := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(name, []byte("slicing: [1, 2"), 0644))
	_, err = Load(name)
	require.Error(t, err)
	assert.Equal(t, name, err.(Error).FileName())
}

func TestValidate(t *testing.T) {
	C := Default()
	C.Slicing.Axis = "w"
	C.Color.Steps = 0
	C.Batch.Workers = 0
	C.LogLevel = "loud"
	err := C.Validate()
	require.Error(t, err)
	for _, s := range []string{"axis", "steps", "workers", "log level"} {
		assert.Contains(t, err.Error(), s)
	}
}

func TestNamedLogger(t *testing.T) {
	var b bytes.Buffer
	l := NamedLogger("batch", "warn")
	l.Out = &b
	assert.Equal(t, logrus.WarnLevel, l.Level)
	l.Info("hidden")
	l.WithField("file", "a.wrl").Warn("shown")
	out := b.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "batch [")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "file=a.wrl")
	assert.Equal(t, logrus.InfoLevel, NamedLogger("x", "nonsense").Level)
}
