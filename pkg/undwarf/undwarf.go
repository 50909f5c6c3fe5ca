// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package undwarf is the public interface for rebuilding source
// declarations from compiled debug information. Each compilation unit is
// synthesized independently; a Synthesizer runs many units in parallel.
package undwarf

import (
	"errors"
	"log/slog"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
)

// Error types for the undwarf API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrAborted       = errors.New("unit aborted")
)

// Config configures a Synthesizer.
type Config struct {
	Concurrency int          // Units synthesized at once (default GOMAXPROCS)
	Logger      *slog.Logger // Receives diagnostics and progress (default slog.Default)
}

// Stats summarizes one synthesized unit.
type Stats struct {
	Constructs   int            `json:"constructs"`   // Constructs indexed
	Declarations map[string]int `json:"declarations"` // Declarations by kind
	Anonymous    int            `json:"anonymous"`    // Synthetic names issued
	Diagnostics  map[string]int `json:"diagnostics"`  // Diagnostics by severity
}

// UnitResult is the outcome of one compilation unit. Unit metadata passes
// through from the input untouched. When Err is set the unit was aborted
// and Tree holds what was built before the failure.
type UnitResult struct {
	Unit        string
	Producer    string
	AddressSize int
	Language    int

	Tree        *decl.Tree
	Diagnostics []diag.Diagnostic
	Stats       Stats
	Err         error
}

// Failed returns the number of aborted units.
func Failed(results []UnitResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
