// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command holds helpers shared by the subcommand-based tools.
package command

import (
	"context"
	"os"
	"os/signal"

	"go.fuchsia.dev/fbsgen/tools/lib/logger"
)

// CancelOnSignals returns a context that is canceled, with the signal
// logged, once any of sigs is received. The returned function cancels it
// and restores the default handling of sigs.
func CancelOnSignals(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	received := make(chan os.Signal, 1)
	signal.Notify(received, sigs...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(received)
		select {
		case <-ctx.Done():
		case sig := <-received:
			logger.Warningf(ctx, "received %s, stopping", sig)
			cancel()
		}
	}()
	return ctx, func() {
		cancel()
		<-done
	}
}
