// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFileIfChanged(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "Game", "Monster.lua")
	contents := []byte("local Monster = {}\n")

	if err := WriteFileIfChanged(filename, contents); err != nil {
		t.Fatalf("first write: %s", err)
	}
	got, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(contents) {
		t.Errorf("got %q, want %q", got, contents)
	}

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(filename, past, past); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileIfChanged(filename, contents); err != nil {
		t.Fatalf("unchanged write: %s", err)
	}
	stat, err := os.Stat(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !stat.ModTime().Equal(past) {
		t.Errorf("unchanged file was rewritten: mtime %s, want %s", stat.ModTime(), past)
	}

	// Same size, different bytes.
	changed := []byte("local Weapons = {}\n")
	if err := WriteFileIfChanged(filename, changed); err != nil {
		t.Fatalf("changed write: %s", err)
	}
	got, err = os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(changed) {
		t.Errorf("got %q, want %q", got, changed)
	}
}
