// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package diag collects the warnings and errors produced while synthesizing a
// compilation unit. Diagnostics are a side channel: they never become part of
// the declaration tree.
package diag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// Severity ranks a diagnostic.
type Severity int

const (
	Info    Severity = iota // Expected and handled (template skip)
	Warning                 // Degraded with a substitute
	Error                   // Aborted the unit
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Category classifies what went wrong.
type Category string

const (
	DuplicateOffset    Category = "duplicate_offset"
	UnresolvedRef      Category = "unresolved_reference"
	MalformedRef       Category = "malformed_reference"
	UnsupportedKind    Category = "unsupported_kind"
	MalformedInput     Category = "malformed_structure"
	TemplateSkipped    Category = "template_skipped"
	MisplacedConstruct Category = "misplaced_construct"
)

// Diagnostic describes one problem found in a unit.
type Diagnostic struct {
	Severity Severity
	Category Category
	Offset   types.Offset // Offending construct
	Kind     types.Kind   // Offending construct kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s %s: %s", d.Severity, d.Category, d.Kind, d.Offset, d.Message)
}

// Sink accumulates diagnostics for one unit and mirrors them to a logger.
// A Sink is owned by a single synthesis run and is not safe for concurrent use.
type Sink struct {
	unit   string
	logger *slog.Logger
	items  []Diagnostic
}

// NewSink returns a Sink for the named unit. A nil logger uses slog.Default.
func NewSink(unit string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{unit: unit, logger: logger}
}

// Report records a diagnostic.
func (s *Sink) Report(d Diagnostic) {
	s.items = append(s.items, d)

	level := slog.LevelWarn
	switch d.Severity {
	case Info:
		level = slog.LevelDebug
	case Error:
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, d.Message,
		slog.String("unit", s.unit),
		slog.String("category", string(d.Category)),
		slog.String("kind", d.Kind.String()),
		slog.String("offset", d.Offset.String()),
	)
}

// Warnf records a warning about construct c.
func (s *Sink) Warnf(cat Category, c *types.Construct, format string, args ...any) {
	s.Report(at(Warning, cat, c, format, args...))
}

// Infof records an informational diagnostic about construct c.
func (s *Sink) Infof(cat Category, c *types.Construct, format string, args ...any) {
	s.Report(at(Info, cat, c, format, args...))
}

// Errorf records an error about construct c.
func (s *Sink) Errorf(cat Category, c *types.Construct, format string, args ...any) {
	s.Report(at(Error, cat, c, format, args...))
}

func at(sev Severity, cat Category, c *types.Construct, format string, args ...any) Diagnostic {
	d := Diagnostic{Severity: sev, Category: cat, Message: fmt.Sprintf(format, args...)}
	if c != nil {
		d.Offset = c.Offset
		d.Kind = c.Kind
	}
	return d
}

// All returns every diagnostic in report order.
func (s *Sink) All() []Diagnostic {
	result := make([]Diagnostic, len(s.items))
	copy(result, s.items)
	return result
}

// Count returns the number of diagnostics with the given severity.
func (s *Sink) Count(sev Severity) int {
	n := 0
	for _, d := range s.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// ByCategory returns the diagnostics of one category.
func (s *Sink) ByCategory(cat Category) []Diagnostic {
	var result []Diagnostic
	for _, d := range s.items {
		if d.Category == cat {
			result = append(result, d)
		}
	}
	return result
}
