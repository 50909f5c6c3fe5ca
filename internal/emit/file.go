// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces the file at path with data. The bytes land in a hidden
// sibling first and are renamed over path once complete. A replaced file
// keeps its mode; a new one is 0644.
func WriteFile(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("emit: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(modeOf(path)); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("emit: publish %s: %w", path, err)
	}
	return nil
}

func modeOf(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
