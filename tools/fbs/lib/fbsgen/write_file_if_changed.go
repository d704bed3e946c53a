// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileIfChanged writes contents to filename, creating parent
// directories as needed, unless the file already holds exactly those
// contents. Leaving unchanged files alone keeps their modification times,
// so build systems do not rebuild their dependents.
func WriteFileIfChanged(filename string, contents []byte) error {
	changed, err := fileDiffers(filename, contents)
	if err != nil || !changed {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
		return err
	}
	return os.WriteFile(filename, contents, 0o666)
}

func fileDiffers(filename string, contents []byte) (bool, error) {
	stat, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if stat.Size() != int64(len(contents)) {
		return true, nil
	}
	current, err := os.ReadFile(filename)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(current, contents), nil
}
