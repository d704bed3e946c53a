// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package color

import (
	"fmt"
	"os"
	"testing"
)

var codes = []ColorCode{RedFg, GreenFg, YellowFg, BlueFg, MagentaFg, CyanFg, DefaultFg}

func TestColors(t *testing.T) {
	c := NewColor(ColorAlways)
	if !c.Enabled() {
		t.Fatalf("ColorAlways is not enabled")
	}
	for i, code := range codes {
		str := fmt.Sprintf("test string: %d", i)
		want := fmt.Sprintf("%s%dm%s%s", escape, code, str, clear)
		if code == DefaultFg {
			want = str
		}
		if got := c.WithColor(code, "test string: %d", i); got != want {
			t.Errorf("WithColor(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestColorsDisabled(t *testing.T) {
	c := NewColor(ColorNever)
	if c.Enabled() {
		t.Fatalf("ColorNever is enabled")
	}
	for i, code := range codes {
		want := fmt.Sprintf("test string: %d", i)
		if got := c.WithColor(code, "test string: %d", i); got != want {
			t.Errorf("WithColor(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestDumbTerminal(t *testing.T) {
	old, ok := os.LookupEnv("TERM")
	os.Setenv("TERM", "dumb")
	defer func() {
		if ok {
			os.Setenv("TERM", old)
		} else {
			os.Unsetenv("TERM")
		}
	}()
	if NewColor(ColorAuto).Enabled() {
		t.Errorf("auto colors enabled on a dumb terminal")
	}
}

func TestEnableColorFlag(t *testing.T) {
	var ec EnableColor
	for _, name := range []string{"never", "auto", "always"} {
		if err := ec.Set(name); err != nil {
			t.Fatalf("Set(%s) = %v", name, err)
		}
		if got := ec.String(); got != name {
			t.Errorf("String() = %s after Set(%s)", got, name)
		}
	}
	if err := ec.Set("sometimes"); err == nil {
		t.Errorf("Set(sometimes) succeeded")
	}
}
