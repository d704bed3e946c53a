// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"
	"github.com/kr/pretty"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.fuchsia.dev/fbsgen/tools/fbs/fbsgen_lua/codegen"
	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

type genCmd struct {
	flags     configFlags
	keepGoing bool
	watch     bool
}

func (*genCmd) Name() string { return "gen" }

func (*genCmd) Usage() string {
	return `gen [flags] <input>...

Generates one Lua module per declaration of every input. An input is a
JSON IR file, a binary schema (.bfbs) or a directory holding them.
`
}

func (*genCmd) Synopsis() string { return "generate Lua modules" }

func (cmd *genCmd) SetFlags(f *flag.FlagSet) {
	cmd.flags.register(f, true)
	f.BoolVar(&cmd.keepGoing, "keep-going", false, "write the modules of inputs with errors, and continue past them")
	f.BoolVar(&cmd.watch, "watch", false, "after generating, regenerate every input that changes until interrupted")
}

func (cmd *genCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := cmd.flags.resolve(f)
	if err != nil {
		logger.Errorf(ctx, "%v\n", err)
		return subcommands.ExitUsageError
	}
	if err := cmd.run(ctx, cfg, f.Args()); err != nil {
		logger.Errorf(ctx, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *genCmd) run(ctx context.Context, cfg Config, args []string) error {
	logger.Debugf(ctx, "config:\n%s", &cfg)
	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}
	formatter, err := cfg.newFormatter()
	if err != nil {
		return err
	}
	r := &genRunner{cfg: cfg, keepGoing: cmd.keepGoing, newGenerator: func() *codegen.Generator {
		return codegen.NewGenerator(cfg.Options, formatter)
	}}

	// Every input is generated before anything is written, so without
	// -keep-going a failing input leaves the output directory untouched.
	g, gctx := errgroup.WithContext(ctx)
	results := make([][]codegen.Artifact, len(inputs))
	errs := make([]error, len(inputs))
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			artifacts, err := r.build(gctx, input)
			results[i] = artifacts
			if cmd.keepGoing {
				errs[i] = err
				return nil
			}
			return err
		})
	}
	err = multierr.Append(g.Wait(), multierr.Combine(errs...))
	if err == nil || cmd.keepGoing {
		for _, artifacts := range results {
			if werr := codegen.WriteArtifacts(ctx, cfg.OutputDir, artifacts); werr != nil {
				err = multierr.Append(err, werr)
				break
			}
		}
	}
	if !cmd.watch {
		return err
	}
	if err != nil {
		logger.Errorf(ctx, "%v\n", err)
	}
	return r.watch(ctx, inputs)
}

type genRunner struct {
	cfg          Config
	keepGoing    bool
	newGenerator func() *codegen.Generator
}

// build generates the modules of one input. When generation fails the
// modules are dropped, unless keepGoing is set.
func (r *genRunner) build(ctx context.Context, input string) ([]codegen.Artifact, error) {
	root, err := loadRoot(input)
	if err != nil {
		return nil, err
	}
	if logger.Enabled(ctx, logger.TraceLevel) {
		logger.Tracef(ctx, "%s: %s", input, pretty.Sprint(root))
	}
	artifacts, err := r.newGenerator().Generate(ctx, &root)
	logger.Debugf(ctx, "%s: %d modules", input, len(artifacts))
	if err != nil {
		err = fmt.Errorf("%s: %w", input, err)
		if !r.keepGoing {
			return nil, err
		}
		logger.Warningf(ctx, "%v", err)
	}
	return artifacts, err
}

// generate builds and writes the modules of one input.
func (r *genRunner) generate(ctx context.Context, input string) error {
	artifacts, genErr := r.build(ctx, input)
	if artifacts == nil {
		return genErr
	}
	return multierr.Append(genErr, codegen.WriteArtifacts(ctx, r.cfg.OutputDir, artifacts))
}

// watch regenerates an input whenever it is written or replaced, until ctx
// is done. The parent directories are watched, so editors that replace
// files by renaming are noticed.
func (r *genRunner) watch(ctx context.Context, inputs []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Error starting watcher: %w", err)
	}
	defer w.Close()

	byPath := make(map[string]string)
	dirs := make(map[string]bool)
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		byPath[abs] = input
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("Error watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	logger.Infof(ctx, "watching %d inputs", len(inputs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			input, known := byPath[filepath.Clean(ev.Name)]
			if !known || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Infof(ctx, "%s changed", input)
			if err := r.generate(ctx, input); err != nil {
				logger.Errorf(ctx, "%v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warningf(ctx, "watch: %v", err)
		}
	}
}
