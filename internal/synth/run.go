// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package synth rebuilds declarations from a compilation unit's construct
// graph. A run walks the constructs top-down, threading the current scope,
// and converts types on demand. Declarations reached before the walk gets to
// them are declared early and completed later, so each construct yields at
// most one declaration.
package synth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/internal/index"
	"github.com/petar-djukic/go-undwarf/internal/naming"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// ErrMalformed is returned when a unit lacks structure synthesis requires,
// such as an array with no subrange. It aborts the unit.
var ErrMalformed = errors.New("malformed construct")

// Options configures a synthesis run.
type Options struct {
	// Logger receives diagnostics as they are reported. Nil uses slog.Default.
	Logger *slog.Logger
}

// Result is the outcome of synthesizing one unit. Tree is set even when the
// unit was aborted; it then holds what was built before the failure.
type Result struct {
	Tree        *decl.Tree
	Diagnostics []diag.Diagnostic
	Constructs  int // Constructs indexed
	Anonymous   int // Synthetic names issued
}

// frame is one level of the walk: the scope being filled and the declaration
// the walk is currently positioned at. Declarations made on demand for this
// scope go before the anchor.
type frame struct {
	scope  decl.ScopeID
	anchor decl.ID
}

// run is the state of one synthesis run. Nothing in it is shared between
// runs, so units can be synthesized in parallel.
type run struct {
	unit  *types.Unit
	idx   *index.Index
	tree  *decl.Tree
	sink  *diag.Sink
	names *naming.Namer

	frames     []*frame
	inFunction int                 // Depth of subprogram bodies being walked
	funcNames  map[index.ID]string // Synthetic names of subroutine types
	specifying map[index.ID]bool   // Specification edges being followed
	converting map[index.ID]bool   // Unnamed types being converted
}

func newRun(u *types.Unit, opts Options) *run {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := diag.NewSink(u.Name, logger)
	idx := index.Build(u, sink)
	idx.Annotate(sink)

	tree := decl.NewTree(u.Name)
	return &run{
		unit:       u,
		idx:        idx,
		tree:       tree,
		sink:       sink,
		names:      naming.NewNamer(),
		frames:     []*frame{{scope: tree.Global}},
		funcNames:  make(map[index.ID]string),
		specifying: make(map[index.ID]bool),
		converting: make(map[index.ID]bool),
	}
}

// Synthesize builds the declaration tree of one compilation unit. Problems
// that have a safe substitute are reported as diagnostics; a malformed unit
// returns an error wrapping ErrMalformed together with the partial result.
func Synthesize(u *types.Unit, opts Options) (*Result, error) {
	r := newRun(u, opts)
	err := r.walkAll()
	res := &Result{
		Tree:        r.tree,
		Diagnostics: r.sink.All(),
		Constructs:  r.idx.Len(),
		Anonymous:   r.names.Issued(),
	}
	if err != nil {
		return res, fmt.Errorf("synthesize unit %s: %w", u.Name, err)
	}
	return res, nil
}

func (r *run) node(id index.ID) *types.Construct {
	return r.idx.Node(id)
}

func (r *run) top() *frame {
	return r.frames[len(r.frames)-1]
}

func (r *run) current() decl.ScopeID {
	return r.top().scope
}

// place positions an entry in scope. If the walk is currently filling that
// scope the entry goes before the walk position, otherwise it is appended.
func (r *run) place(scope decl.ScopeID, e decl.Entry) {
	s := r.tree.Scope(scope)
	for i := len(r.frames) - 1; i >= 0; i-- {
		if f := r.frames[i]; f.scope == scope {
			s.InsertBefore(e, f.anchor)
			return
		}
	}
	s.Append(e)
}

// remember records the declaration of a construct in its cache slot.
func (r *run) remember(id index.ID, d *decl.Decl) error {
	if err := r.idx.SetDecl(id, d.ID); err != nil {
		return fmt.Errorf("record declaration of %s: %w", r.node(id).Offset, err)
	}
	return nil
}

// cached returns the declaration already synthesized for a construct.
func (r *run) cached(id index.ID) *decl.Decl {
	if d, ok := r.idx.Decl(id); ok {
		return r.tree.Decl(d)
	}
	return nil
}

// newDecl allocates a declaration for construct c, naming it when c is
// anonymous.
func (r *run) newDecl(kind decl.Kind, c *types.Construct, scope decl.ScopeID) *decl.Decl {
	name := c.Name
	anonymous := false
	if name == "" {
		if ak, ok := anonKind(kind); ok {
			name = r.names.Next(ak)
			anonymous = true
		}
	}
	d := r.tree.NewDecl(kind, name, scope)
	d.Anonymous = anonymous
	d.Origin = c.Offset
	return d
}

func anonKind(k decl.Kind) (naming.AnonKind, bool) {
	switch k {
	case decl.Struct:
		return naming.AnonStruct, true
	case decl.Union:
		return naming.AnonUnion, true
	case decl.Class:
		return naming.AnonClass, true
	case decl.Enum:
		return naming.AnonEnum, true
	case decl.Namespace:
		return naming.AnonNamespace, true
	}
	return "", false
}

func recordKind(k types.Kind) decl.Kind {
	switch k {
	case types.KindUnion:
		return decl.Union
	case types.KindClass:
		return decl.Class
	default:
		return decl.Struct
	}
}

// homeScope returns the synthesized scope a construct belongs in: the body of
// its nearest enclosing record or namespace, or the global scope. Enclosing
// declarations that do not exist yet are synthesized first.
func (r *run) homeScope(id index.ID) (decl.ScopeID, error) {
	for p := r.idx.Parent(id); p != index.None; p = r.idx.Parent(p) {
		n := r.node(p)
		switch {
		case n.Kind.IsRecord():
			if naming.IsTemplateInstance(n.Name) {
				continue
			}
			d, err := r.recordDecl(p)
			if err != nil {
				return decl.NoScope, err
			}
			return r.ensureBody(d), nil
		case n.Kind == types.KindNamespace:
			d, err := r.namespaceDecl(p)
			if err != nil {
				return decl.NoScope, err
			}
			return d.Body, nil
		}
	}
	return r.tree.Global, nil
}

// ensureBody gives a forward-only record a body scope.
func (r *run) ensureBody(d *decl.Decl) decl.ScopeID {
	if d.Body == decl.NoScope {
		r.tree.NewBody(d)
	}
	d.Forward = false
	return d.Body
}
