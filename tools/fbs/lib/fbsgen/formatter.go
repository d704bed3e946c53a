// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Formatter formats generated source code.
type Formatter interface {
	Format(source []byte) ([]byte, error)
}

type identityFormatter struct{}

func (identityFormatter) Format(source []byte) ([]byte, error) {
	return source, nil
}

// NewFormatter returns a Formatter that pipes sources through the program at
// path with the given arguments. An empty path returns sources unchanged.
func NewFormatter(path string, args ...string) Formatter {
	return NewFormatterWithSizeLimit(-1, path, args...)
}

// NewFormatterWithSizeLimit is NewFormatter, except that sources larger
// than limit bytes are returned unformatted. A negative limit means no limit.
func NewFormatterWithSizeLimit(limit int, path string, args ...string) Formatter {
	if path == "" {
		return identityFormatter{}
	}
	return externalFormatter{path: path, args: args, sizeLimit: limit}
}

type externalFormatter struct {
	path      string
	args      []string
	sizeLimit int
}

func (f externalFormatter) Format(source []byte) ([]byte, error) {
	if f.sizeLimit >= 0 && len(source) > f.sizeLimit {
		return source, nil
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(f.path, f.args...)
	cmd.Stdin = bytes.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("Error running formatter %s: %w\n%s", f.path, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
