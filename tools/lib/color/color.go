// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package color decorates log output with ANSI escape sequences.
package color

import (
	"fmt"
	"os"

	"go.fuchsia.dev/fbsgen/tools/lib/isatty"
)

// ColorCode is the foreground SGR parameter of a color.
type ColorCode int

const (
	RedFg     ColorCode = 31
	GreenFg   ColorCode = 32
	YellowFg  ColorCode = 33
	BlueFg    ColorCode = 34
	MagentaFg ColorCode = 35
	CyanFg    ColorCode = 36
	DefaultFg ColorCode = 39
)

const (
	escape = "\033["
	clear  = escape + "0m"
)

// Color formats strings, wrapping them in escapes when enabled.
type Color interface {
	WithColor(code ColorCode, format string, a ...interface{}) string
	Enabled() bool
}

type monochrome struct{}

func (monochrome) WithColor(_ ColorCode, format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}

func (monochrome) Enabled() bool { return false }

type ansi struct{}

func (ansi) WithColor(code ColorCode, format string, a ...interface{}) string {
	s := fmt.Sprintf(format, a...)
	if code == DefaultFg {
		return s
	}
	return fmt.Sprintf("%s%dm%s%s", escape, code, s, clear)
}

func (ansi) Enabled() bool { return true }

// EnableColor selects when output is colored. It implements flag.Value.
type EnableColor int

const (
	ColorNever EnableColor = iota
	ColorAuto
	ColorAlways
)

var enableNames = map[EnableColor]string{
	ColorNever:  "never",
	ColorAuto:   "auto",
	ColorAlways: "always",
}

func (ec *EnableColor) String() string {
	return enableNames[*ec]
}

func (ec *EnableColor) Set(s string) error {
	for value, name := range enableNames {
		if name == s {
			*ec = value
			return nil
		}
	}
	return fmt.Errorf("%q is not one of never, auto or always", s)
}

// NewColor returns a Color for the given mode. In auto mode, output is
// colored only when stderr is a terminal that is not "dumb".
func NewColor(ec EnableColor) Color {
	switch ec {
	case ColorAlways:
		return ansi{}
	case ColorAuto:
		if term := os.Getenv("TERM"); term != "" && term != "dumb" && isatty.IsTerminal(os.Stderr) {
			return ansi{}
		}
	}
	return monochrome{}
}
