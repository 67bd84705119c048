/*
 * log.go, part of relief.
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
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevels lists the accepted logging levels.
var LogLevels = []string{"panic", "fatal", "error", "warn", "info", "debug", "trace"}

// NamedLogger creates a logger for one part of the program. An unknown level gives "info".
func NamedLogger(name, level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return &logrus.Logger{
		Out: os.Stderr,
		Formatter: &CustomTextFormatter{
			TextFormatter: logrus.TextFormatter{
				DisableColors:    true,
				FullTimestamp:    true,
				DisableQuote:     true,
				QuoteEmptyFields: true,
			},
			Name: name,
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}
}

// CustomTextFormatter prefixes each message with the logger name and the caller's file and line.
type CustomTextFormatter struct {
	logrus.TextFormatter
	Name string
}

// Format renders a single log entry
func (f *CustomTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	file, no := "?", 0
	if entry.HasCaller() {
		file, no = entry.Caller.File, entry.Caller.Line
	} else if _, fl, n, ok := runtime.Caller(5); ok {
		file, no = fl, n
	}
	entry.Message = fmt.Sprintf("%s [%-15s:%03d] %s", f.Name, path.Base(file), no, entry.Message)
	return f.TextFormatter.Format(entry)
}

func validLogLevel(level string) bool {
	for _, l := range LogLevels {
		if l == strings.ToLower(level) {
			return true
		}
	}
	return false
}
