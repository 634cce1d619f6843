// zinput hub
// Copyright (c) 2026 zinput contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package logger is the thin logrus wrapper used by the registry,
// pipeline and config packages and by cmd/zinputd. It exists so the rest of the tree depends on this package, not on
// logrus directly, matching how the host shell configures logging outside
// the core (spec §6: "the host shell provides logging configuration
// only").
package logger

import (
	"github.com/sirupsen/logrus"
)

// Fields is re-exported so callers don't need to import logrus directly.
type Fields = logrus.Fields

var log = logrus.New()

// SetLevel sets the logger to debug or info level.
func SetLevel(debug bool) {
	if debug {
		log.Level = logrus.DebugLevel
	} else {
		log.Level = logrus.InfoLevel
	}
}

// WithFields starts a structured log entry.
func WithFields(fields Fields) *logrus.Entry {
	return log.WithFields(fields)
}

func Debug(args ...interface{})            { log.Debug(args...) }
func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Info(args ...interface{})             { log.Info(args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Warn(args ...interface{})             { log.Warn(args...) }
func Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
func Error(args ...interface{})            { log.Error(args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
func Fatal(args ...interface{})            { log.Fatal(args...) }
func Fatalf(format string, args ...interface{}) { log.Fatalf(format, args...) }
