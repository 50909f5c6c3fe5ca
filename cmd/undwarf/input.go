// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-undwarf/internal/dwarfload"
	"github.com/petar-djukic/go-undwarf/internal/load"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// readUnits loads every input. Files ending in .json are construct
// documents; anything else is read as a binary with DWARF debug
// information.
func readUnits(paths []string) ([]*types.Unit, error) {
	var loader *load.Loader
	var units []*types.Unit
	for _, path := range paths {
		if !isDocument(path) {
			us, err := dwarfload.Open(path)
			if err != nil {
				return nil, err
			}
			units = append(units, us...)
			continue
		}

		if loader == nil {
			var err error
			if loader, err = load.NewLoader(); err != nil {
				return nil, err
			}
		}
		us, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		units = append(units, us...)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no compilation units in %s", strings.Join(paths, ", "))
	}
	return units, nil
}

func isDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
