// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"go.uber.org/multierr"

	"go.fuchsia.dev/fbsgen/tools/fbs/fbsgen_lua/codegen"
	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

type checkCmd struct {
	flags configFlags
}

func (*checkCmd) Name() string { return "check" }

func (*checkCmd) Usage() string {
	return `check [flags] <input>...

Validates and generates every input without writing anything, and reports
every error found.
`
}

func (*checkCmd) Synopsis() string { return "report schema errors without writing modules" }

func (cmd *checkCmd) SetFlags(f *flag.FlagSet) {
	cmd.flags.register(f, false)
}

func (cmd *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := cmd.flags.resolve(f)
	if err != nil {
		logger.Errorf(ctx, "%v\n", err)
		return subcommands.ExitUsageError
	}
	if err := check(ctx, cfg.Options, f.Args()); err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Errorf(ctx, "%v\n", e)
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// check returns the errors of every input. Formatting is skipped.
func check(ctx context.Context, opts codegen.Options, args []string) error {
	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}
	var errs error
	for _, input := range inputs {
		root, err := loadRoot(input)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		artifacts, err := codegen.NewGenerator(opts, fbsgen.NewFormatter("")).Generate(ctx, &root)
		for _, e := range multierr.Errors(err) {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", input, e))
		}
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		logger.Infof(ctx, "%s: %d modules", input, len(artifacts))
	}
	return errs
}
