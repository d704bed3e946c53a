// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logger provides leveled logging carried through a context.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"go.fuchsia.dev/fbsgen/tools/lib/color"
)

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger carried by ctx, or nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(loggerKey{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// LogLevel orders messages by verbosity. It implements flag.Value.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type levelInfo struct {
	name  string
	tag   string
	color color.ColorCode
	// Messages at this level go to the error writer.
	toErr bool
}

var levels = map[LogLevel]levelInfo{
	NoLogLevel:   {name: "no"},
	FatalLevel:   {name: "fatal", tag: "FATAL: ", color: color.RedFg, toErr: true},
	ErrorLevel:   {name: "error", tag: "ERROR: ", color: color.RedFg, toErr: true},
	WarningLevel: {name: "warning", tag: "WARN: ", color: color.YellowFg},
	InfoLevel:    {name: "info", color: color.DefaultFg},
	DebugLevel:   {name: "debug", tag: "DEBUG: ", color: color.CyanFg},
	TraceLevel:   {name: "trace", tag: "TRACE: ", color: color.BlueFg},
}

func (l *LogLevel) String() string {
	return levels[*l].name
}

func (l *LogLevel) Set(s string) error {
	for level, info := range levels {
		if info.name == s {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid level", s)
}

// Flags accepted by SetFlags, mirrored from the log package.
const (
	Ldate         = goLog.Ldate
	Ltime         = goLog.Ltime
	Lmicroseconds = goLog.Lmicroseconds
	Lshortfile    = goLog.Lshortfile
	LUTC          = goLog.LUTC
	Lmsgprefix    = goLog.Lmsgprefix
	LstdFlags     = Ldate | Lmicroseconds
)

// Depth of a public logging call above Output.
const startDepth = 2

// Logger writes messages at or below its level, with a prefix and level tag.
type Logger struct {
	LoggerLevel LogLevel
	out         *goLog.Logger
	err         *goLog.Logger
	color       color.Color
	prefix      interface{}
}

// NewLogger returns a Logger writing to outWriter, or os.Stdout when nil.
// Fatal and error messages go to errWriter, or os.Stderr when nil.
func NewLogger(level LogLevel, c color.Color, outWriter, errWriter io.Writer, prefix interface{}) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel: level,
		out:         goLog.New(outWriter, "", LstdFlags),
		err:         goLog.New(errWriter, "", LstdFlags),
		color:       c,
		prefix:      prefix,
	}
}

func (l *Logger) SetFlags(flags int) {
	l.out.SetFlags(flags)
	l.err.SetFlags(flags)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level != NoLogLevel && l.LoggerLevel >= level
}

func (l *Logger) logf(callDepth int, level LogLevel, format string, a ...interface{}) {
	info, ok := levels[level]
	if !ok || level == NoLogLevel {
		panic(fmt.Sprintf("undefined log level %d: %s", level, fmt.Sprintf(format, a...)))
	}
	if !l.Enabled(level) {
		return
	}
	tag := info.tag
	if tag != "" {
		tag = l.color.WithColor(info.color, "%s", tag)
	}
	dst := l.out
	if info.toErr {
		dst = l.err
	}
	dst.Output(callDepth+1, fmt.Sprintf("%v%s%s", l.prefix, tag, fmt.Sprintf(format, a...)))
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *Logger) Logf(level LogLevel, format string, a ...interface{}) {
	l.logf(startDepth, level, format, a...)
}

func (l *Logger) Fatalf(format string, a ...interface{}) {
	l.logf(startDepth, FatalLevel, format, a...)
}

func (l *Logger) Errorf(format string, a ...interface{}) {
	l.logf(startDepth, ErrorLevel, format, a...)
}

func (l *Logger) Warningf(format string, a ...interface{}) {
	l.logf(startDepth, WarningLevel, format, a...)
}

func (l *Logger) Infof(format string, a ...interface{}) {
	l.logf(startDepth, InfoLevel, format, a...)
}

func (l *Logger) Debugf(format string, a ...interface{}) {
	l.logf(startDepth, DebugLevel, format, a...)
}

func (l *Logger) Tracef(format string, a ...interface{}) {
	l.logf(startDepth, TraceLevel, format, a...)
}

// Logf logs through the context logger, or the standard logger if ctx has none.
func Logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	logf(startDepth, ctx, level, format, a...)
}

func logf(callDepth int, ctx context.Context, level LogLevel, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.logf(callDepth+1, level, format, a...)
		return
	}
	goLog.Output(callDepth+1, fmt.Sprintf(format, a...))
	if level == FatalLevel {
		os.Exit(1)
	}
}

// Enabled reports whether the context logger writes messages at level.
// Without a context logger everything is written.
func Enabled(ctx context.Context, level LogLevel) bool {
	if l := LoggerFromContext(ctx); l != nil {
		return l.Enabled(level)
	}
	return true
}

func Fatalf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, FatalLevel, format, a...)
}

func Errorf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, ErrorLevel, format, a...)
}

func Warningf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, WarningLevel, format, a...)
}

func Infof(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, InfoLevel, format, a...)
}

func Debugf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, DebugLevel, format, a...)
}

func Tracef(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, TraceLevel, format, a...)
}
