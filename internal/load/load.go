// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package load reads construct documents: JSON files holding compilation
// units of debug-information constructs. Every document is checked against
// an embedded CUE schema before it is decoded, so a field that is misspelled
// or mistyped fails loudly instead of silently reading as absent.
package load

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/petar-djukic/go-undwarf/pkg/types"
)

//go:embed constructs.cue
var schemaFS embed.FS

// ErrSchema is returned when a document does not match the construct schema.
var ErrSchema = errors.New("construct document does not match schema")

// Loader validates and decodes construct documents.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader compiles the embedded schema.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()

	src, err := schemaFS.ReadFile("constructs.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}
	schema := ctx.CompileBytes(src)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}
	return &Loader{ctx: ctx, schema: schema}, nil
}

// Validate checks a JSON document against the #Document definition. Every
// violation is listed in the returned error.
func (l *Loader) Validate(data []byte) error {
	value := l.ctx.CompileBytes(data)
	if value.Err() != nil {
		return fmt.Errorf("%w: %v", ErrSchema, value.Err())
	}

	def := l.schema.LookupPath(cue.ParsePath("#Document"))
	if def.Err() != nil {
		return fmt.Errorf("looking up #Document definition: %w", def.Err())
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
	}
	return nil
}

// Decode validates a JSON document and converts it into units.
func (l *Loader) Decode(data []byte) ([]*types.Unit, error) {
	if err := l.Validate(data); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding construct document: %w", err)
	}

	units := make([]*types.Unit, 0, len(doc.Units))
	for _, u := range doc.Units {
		units = append(units, u.unit())
	}
	return units, nil
}

// LoadFile reads and decodes the construct document at path.
func (l *Loader) LoadFile(path string) ([]*types.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	units, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// Encode writes units as an indented construct document.
func Encode(units []*types.Unit) ([]byte, error) {
	doc := document{Units: make([]unitDoc, 0, len(units))}
	for _, u := range units {
		doc.Units = append(doc.Units, encodeUnit(u))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding construct document: %w", err)
	}
	return data, nil
}
