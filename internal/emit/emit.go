// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package emit renders synthesized declaration trees in the supported
// output formats.
package emit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/emit/cpp"
	"github.com/petar-djukic/go-undwarf/internal/emit/gosrc"
)

// Format selects an output rendering.
type Format string

const (
	FormatCpp  Format = "cpp"
	FormatGo   Format = "go"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format name no renderer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCpp, FormatGo, FormatJSON:
		return f, nil
	case "c", "c++":
		return FormatCpp, nil
	}
	return "", fmt.Errorf("%w: %q (want cpp, go or json)", ErrUnknownFormat, s)
}

// Options carries the settings of every renderer.
type Options struct {
	C       bool   // Render C rather than C++
	Package string // Go package name
}

// Render renders one tree.
func Render(t *decl.Tree, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatCpp:
		return []byte(cpp.Render(t, cpp.Options{C: opts.C})), nil
	case FormatGo:
		return gosrc.Render(t, gosrc.Options{Package: opts.Package})
	case FormatJSON:
		data, err := json.MarshalIndent(Document(t), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding tree %s: %w", t.Unit, err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
