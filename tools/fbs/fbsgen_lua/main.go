// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// fbsgen_lua generates Lua modules from FlatBuffers schemas.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"syscall"

	"github.com/google/subcommands"

	"go.fuchsia.dev/fbsgen/tools/lib/color"
	"go.fuchsia.dev/fbsgen/tools/lib/command"
	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

var (
	colors = color.ColorAuto
	level  = logger.InfoLevel
)

func init() {
	flag.Var(&colors, "color", "use color in output, can be never, auto, always")
	flag.Var(&level, "log-level", "output verbosity, can be fatal, error, warning, info, debug or trace")
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&genCmd{}, "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&dumpCmd{}, "")

	flag.Parse()

	// Generated sources may go to stdout, so all logging goes to stderr.
	l := logger.NewLogger(level, color.NewColor(colors), os.Stderr, os.Stderr, "fbsgen_lua ")
	l.SetFlags(log.Ltime | log.Lmicroseconds)
	ctx := logger.WithLogger(context.Background(), l)

	ctx, stop := command.CancelOnSignals(ctx, syscall.SIGINT, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
