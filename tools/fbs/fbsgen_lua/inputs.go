// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/kr/fs"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

func isSchemaInput(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".bfbs":
		return true
	}
	return false
}

// expandInputs replaces every directory argument with the schema inputs
// found below it, sorted.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		var found []string
		walker := fs.Walk(arg)
		for walker.Step() {
			if err := walker.Err(); err != nil {
				return nil, err
			}
			if !walker.Stat().IsDir() && isSchemaInput(walker.Path()) {
				found = append(found, walker.Path())
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .json or .bfbs files under %s", arg)
		}
		sort.Strings(found)
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

// loadRoot reads a JSON IR, validating it first, or a binary schema.
func loadRoot(path string) (fbsgen.Root, error) {
	switch filepath.Ext(path) {
	case ".json":
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return fbsgen.Root{}, fmt.Errorf("Error reading from %s: %w", path, err)
		}
		if err := fbsgen.ValidateJSONIr(b); err != nil {
			return fbsgen.Root{}, fmt.Errorf("%s: %w", path, err)
		}
		root, err := fbsgen.ReadJSONIrContent(b)
		if err != nil {
			return fbsgen.Root{}, fmt.Errorf("%s: %w", path, err)
		}
		return root, nil
	case ".bfbs":
		root, err := fbsgen.ReadBinarySchema(path)
		if err != nil {
			return fbsgen.Root{}, fmt.Errorf("%s: %w", path, err)
		}
		return root, nil
	}
	return fbsgen.Root{}, fmt.Errorf("%s: unknown input type, want .json or .bfbs", path)
}
