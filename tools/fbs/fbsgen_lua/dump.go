// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/kr/pretty"

	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

type dumpCmd struct{}

func (*dumpCmd) Name() string { return "dump" }

func (*dumpCmd) Usage() string {
	return `dump <input>

Prints the schema IR decoded from a JSON IR or binary schema file.
`
}

func (*dumpCmd) Synopsis() string { return "print the decoded schema IR" }

func (*dumpCmd) SetFlags(*flag.FlagSet) {}

func (cmd *dumpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := dump(os.Stdout, f.Arg(0)); err != nil {
		logger.Errorf(ctx, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func dump(w io.Writer, input string) error {
	root, err := loadRoot(input)
	if err != nil {
		return err
	}
	_, err = pretty.Fprintf(w, "%# v\n", root)
	return err
}
