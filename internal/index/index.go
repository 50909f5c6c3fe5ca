// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package index builds the per-unit offset index over the construct graph and
// resolves every construct's type and specification references against it.
// The resolved records double as the write-once declaration cache used during
// synthesis.
package index

import (
	"errors"
	"fmt"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// ErrSlotTaken is returned when a declaration slot is written twice with
// different declarations.
var ErrSlotTaken = errors.New("declaration slot already set")

// ID addresses a construct in the index arena. The zero ID is no construct.
type ID int

// None is the absent construct.
const None ID = 0

// Resolved is the per-construct reference record.
type Resolved struct {
	Type ID      // Resolved type reference
	Spec ID      // Resolved specification reference
	Decl decl.ID // Synthesized declaration; write-once
}

// Index is the offset index of one compilation unit. Nodes are stored in
// pre-order; parents are kept so that a construct's enclosing scope can be
// found without walking from the root.
type Index struct {
	nodes    []*types.Construct // nodes[0] is unused
	parents  []ID
	children [][]ID
	roots    []ID
	byOffset map[types.Offset]ID
	resolved []Resolved
}

// Build indexes every construct of the unit by offset. Duplicate offsets keep
// the last construct and report a warning.
func Build(u *types.Unit, sink *diag.Sink) *Index {
	idx := &Index{
		nodes:    []*types.Construct{nil},
		parents:  []ID{None},
		children: [][]ID{nil},
		byOffset: make(map[types.Offset]ID),
	}

	var visit func(c *types.Construct, parent ID)
	visit = func(c *types.Construct, parent ID) {
		if c == nil {
			return
		}
		id := ID(len(idx.nodes))
		idx.nodes = append(idx.nodes, c)
		idx.parents = append(idx.parents, parent)
		idx.children = append(idx.children, nil)
		if parent != None {
			idx.children[parent] = append(idx.children[parent], id)
		} else {
			idx.roots = append(idx.roots, id)
		}

		if prev, ok := idx.byOffset[c.Offset]; ok {
			sink.Warnf(diag.DuplicateOffset, c, "offset %s already used by %s %q; keeping the later construct",
				c.Offset, idx.nodes[prev].Kind, idx.nodes[prev].Name)
		}
		idx.byOffset[c.Offset] = id

		for _, child := range c.Children {
			visit(child, id)
		}
	}
	for _, c := range u.Constructs {
		visit(c, None)
	}

	idx.resolved = make([]Resolved, len(idx.nodes))
	return idx
}

// Annotate resolves the type and specification reference of every construct.
// It must run over the whole unit before synthesis starts. References that are
// malformed or point nowhere are reported and left absent.
func (idx *Index) Annotate(sink *diag.Sink) {
	for id := ID(1); int(id) < len(idx.nodes); id++ {
		c := idx.nodes[id]
		idx.resolved[id].Type = idx.resolve(c, c.TypeRef, "type", sink)
		idx.resolved[id].Spec = idx.resolve(c, c.SpecRef, "specification", sink)
	}
}

func (idx *Index) resolve(c *types.Construct, ref types.Ref, what string, sink *diag.Sink) ID {
	if ref.IsAbsent() {
		return None
	}
	off, err := ref.Offset()
	if err != nil {
		sink.Warnf(diag.MalformedRef, c, "%s %q: %s reference: %v", c.Kind, c.Name, what, err)
		return None
	}
	target, ok := idx.byOffset[off]
	if !ok {
		sink.Warnf(diag.UnresolvedRef, c, "%s %q: %s reference %s not found in unit", c.Kind, c.Name, what, off)
		return None
	}
	return target
}

// Lookup returns the construct ID at an offset.
func (idx *Index) Lookup(off types.Offset) (ID, bool) {
	id, ok := idx.byOffset[off]
	return id, ok
}

// Node returns the construct with the given ID, or nil.
func (idx *Index) Node(id ID) *types.Construct {
	if id <= None || int(id) >= len(idx.nodes) {
		return nil
	}
	return idx.nodes[id]
}

// Parent returns the ID of the construct's parent, or None for a top-level
// construct.
func (idx *Index) Parent(id ID) ID {
	if id <= None || int(id) >= len(idx.parents) {
		return None
	}
	return idx.parents[id]
}

// Len returns the number of indexed constructs.
func (idx *Index) Len() int {
	return len(idx.nodes) - 1
}

// Type returns the resolved type reference of a construct.
func (idx *Index) Type(id ID) ID {
	if id <= None || int(id) >= len(idx.resolved) {
		return None
	}
	return idx.resolved[id].Type
}

// Spec returns the resolved specification reference of a construct.
func (idx *Index) Spec(id ID) ID {
	if id <= None || int(id) >= len(idx.resolved) {
		return None
	}
	return idx.resolved[id].Spec
}

// Decl returns the declaration synthesized for a construct, if any.
func (idx *Index) Decl(id ID) (decl.ID, bool) {
	if id <= None || int(id) >= len(idx.resolved) {
		return decl.None, false
	}
	d := idx.resolved[id].Decl
	return d, d != decl.None
}

// SetDecl records the declaration synthesized for a construct. A slot moves
// from absent to present once; rewriting it with the same declaration is a
// no-op and rewriting it with another one fails.
func (idx *Index) SetDecl(id ID, d decl.ID) error {
	if id <= None || int(id) >= len(idx.resolved) {
		return fmt.Errorf("construct %d out of range", id)
	}
	slot := &idx.resolved[id]
	if slot.Decl != decl.None && slot.Decl != d {
		return fmt.Errorf("%w: construct %s holds declaration %d", ErrSlotTaken, idx.nodes[id].Offset, slot.Decl)
	}
	slot.Decl = d
	return nil
}

// Roots returns the IDs of the unit's top-level constructs in order.
func (idx *Index) Roots() []ID {
	return idx.roots
}

// ChildrenOf returns the IDs of a construct's direct children in order.
func (idx *Index) ChildrenOf(id ID) []ID {
	if id <= None || int(id) >= len(idx.children) {
		return nil
	}
	return idx.children[id]
}
