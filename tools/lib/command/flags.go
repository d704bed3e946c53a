// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// StringsFlag collects every occurrence of a repeated flag.
type StringsFlag []string

func (s *StringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *StringsFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// SplitCommand splits a shell-style command line into its words.
func SplitCommand(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid command line %q: %w", line, err)
	}
	return words, nil
}
