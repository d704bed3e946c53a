// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// +build !linux,!darwin

package isatty

func isTerminal(uintptr) bool {
	return false
}
