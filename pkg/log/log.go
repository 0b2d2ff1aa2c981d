// Copyright 2026 The cpufreqd Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the interface for producing log messages for a single source.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})

	EnableDebug(bool) bool
	DebugEnabled() bool
	Source() string
}

// logger emits messages for one source through the shared logrus instance.
type logger struct {
	source string
	debug  bool
}

// logging is our runtime state.
type logging struct {
	sync.Mutex
	loggers map[string]*logger
	log     *logrus.Logger
}

var state = &logging{
	loggers: make(map[string]*logger),
	log:     newLogrus(),
}

func newLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return l
}

// Get returns the existing logger for a source, creating one if necessary.
func Get(source string) Logger {
	state.Lock()
	defer state.Unlock()

	source = strings.Trim(source, "[] ")
	if l, ok := state.loggers[source]; ok {
		return l
	}
	l := &logger{source: source}
	state.loggers[source] = l
	return l
}

// NewLogger creates a new logger, getting the existing one if possible.
func NewLogger(source string) Logger {
	return Get(source)
}

// Default returns the default logger.
func Default() Logger {
	return Get("default")
}

// EnableDebug turns on debug messages for the given sources. The pseudo
// source "all" enables debugging for every current and future source.
func EnableDebug(sources ...string) {
	for _, source := range sources {
		if source == "all" || source == "*" {
			state.Lock()
			debugAll = true
			for _, l := range state.loggers {
				l.debug = true
			}
			state.Unlock()
			continue
		}
		Get(source).EnableDebug(true)
	}
}

// debugAll records whether debugging was requested for all sources.
var debugAll bool

func (l *logger) entry() *logrus.Entry {
	return state.log.WithField("source", l.source)
}

func (l *logger) Debug(format string, args ...interface{}) {
	if !l.DebugEnabled() {
		return
	}
	l.entry().Debugf(format, args...)
}

func (l *logger) Info(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

func (l *logger) Warn(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

func (l *logger) Error(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

func (l *logger) Fatal(format string, args ...interface{}) {
	l.entry().Fatalf(format, args...)
}

// EnableDebug sets the debugging state of this logger, returning the old one.
func (l *logger) EnableDebug(enable bool) bool {
	state.Lock()
	defer state.Unlock()
	old := l.debug
	l.debug = enable
	return old
}

// DebugEnabled returns the debugging state of this logger.
func (l *logger) DebugEnabled() bool {
	state.Lock()
	defer state.Unlock()
	return l.debug || debugAll
}

// Source returns the source of this logger.
func (l *logger) Source() string {
	return l.source
}
