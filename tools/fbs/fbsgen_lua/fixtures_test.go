// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"go.fuchsia.dev/fbsgen/tools/lib/color"
	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

const gameIR = `{
  "enums": [
    {
      "name": "Color",
      "namespace": ["Game"],
      "underlying_type": "int8",
      "values": [{"name": "Red", "value": 0}, {"name": "Blue", "value": 1}]
    }
  ],
  "structs": [
    {
      "name": "Vec3",
      "namespace": ["Game"],
      "fixed": true,
      "bytesize": 12,
      "minalign": 4,
      "fields": [
        {"name": "x", "type": {"kind": "float32"}, "offset": 0},
        {"name": "y", "type": {"kind": "float32"}, "offset": 4},
        {"name": "z", "type": {"kind": "float32"}, "offset": 8}
      ]
    }
  ]
}`

// badIR has an array in a table, which still yields a module.
const badIR = `{
  "enums": [],
  "structs": [
    {
      "name": "Grid",
      "namespace": ["Game"],
      "fixed": false,
      "bytesize": 0,
      "minalign": 1,
      "fields": [
        {"name": "cells", "type": {"kind": "array", "element": {"kind": "int32"}, "fixed_length": 2}, "offset": 0}
      ]
    }
  ]
}`

func writeFile(t *testing.T, path, contents string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// quietContext carries a logger that drops everything below errors.
func quietContext() context.Context {
	l := logger.NewLogger(logger.ErrorLevel, color.NewColor(color.ColorNever), ioutil.Discard, ioutil.Discard, "")
	return logger.WithLogger(context.Background(), l)
}
