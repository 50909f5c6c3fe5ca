// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/internal/emit"
	"github.com/petar-djukic/go-undwarf/pkg/undwarf"
)

// unitDoc is the JSON output of one unit.
type unitDoc struct {
	Unit        string          `json:"unit"`
	Producer    string          `json:"producer,omitempty"`
	AddressSize int             `json:"address_size,omitempty"`
	Language    int             `json:"language,omitempty"`
	Error       string          `json:"error,omitempty"`
	Stats       undwarf.Stats   `json:"stats"`
	Diagnostics []diagnosticDoc `json:"diagnostics"`
	Tree        *emit.TreeDoc   `json:"tree,omitempty"`
}

type diagnosticDoc struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Offset   string `json:"offset"`
	Message  string `json:"message"`
}

func newUnitDoc(r undwarf.UnitResult) unitDoc {
	doc := unitDoc{
		Unit:        r.Unit,
		Producer:    r.Producer,
		AddressSize: r.AddressSize,
		Language:    r.Language,
		Stats:       r.Stats,
		Diagnostics: make([]diagnosticDoc, 0, len(r.Diagnostics)),
	}
	if r.Err != nil {
		doc.Error = r.Err.Error()
	}
	for _, d := range r.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, diagnosticOf(d))
	}
	if r.Tree != nil && r.Err == nil {
		tree := emit.Document(r.Tree)
		doc.Tree = &tree
	}
	return doc
}

func diagnosticOf(d diag.Diagnostic) diagnosticDoc {
	return diagnosticDoc{
		Severity: d.Severity.String(),
		Category: string(d.Category),
		Kind:     d.Kind.String(),
		Offset:   d.Offset.String(),
		Message:  d.Message,
	}
}

// writeOutput writes rendered units to stdout, to one file, or to one file
// per unit when output names a directory (an existing one, or a path ending
// in a separator).
func writeOutput(stdout io.Writer, output string, format emit.Format, files []unitFile) error {
	if output != "" && isDir(output) {
		names := make(map[string]int)
		for _, f := range files {
			name := fileName(f, format, names)
			if err := emit.WriteFile(filepath.Join(output, name), f.data); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := join(format, files)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	return emit.WriteFile(output, data)
}

// join combines the units into one output. Go allows one package clause
// per file, so several Go units need an output directory.
func join(format emit.Format, files []unitFile) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case emit.FormatJSON:
		buf.WriteString("[")
		for i, f := range files {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
			buf.Write(f.data)
		}
		buf.WriteString("\n]\n")
	case emit.FormatGo:
		if len(files) > 1 {
			return nil, fmt.Errorf("go output of %d units needs an output directory", len(files))
		}
		for _, f := range files {
			buf.Write(f.data)
		}
	default:
		for i, f := range files {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.Write(f.data)
		}
	}
	return buf.Bytes(), nil
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// fileName derives a unique output file name from the unit name.
func fileName(f unitFile, format emit.Format, used map[string]int) string {
	base := filepath.Base(f.unit)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." {
		base = "unit"
	}

	used[base]++
	if n := used[base]; n > 1 {
		base += "_" + strconv.Itoa(n)
	}
	return base + extension(format, f.c)
}

func extension(format emit.Format, c bool) string {
	switch format {
	case emit.FormatGo:
		return ".go"
	case emit.FormatJSON:
		return ".json"
	}
	if c {
		return ".h"
	}
	return ".hpp"
}
