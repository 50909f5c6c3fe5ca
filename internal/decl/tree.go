// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package decl

import (
	"strings"
)

// Tree owns every declaration and scope synthesized for one compilation unit.
type Tree struct {
	Unit   string
	Global ScopeID

	decls  []*Decl  // decls[0] is unused so that None stays invalid
	scopes []*Scope // scopes[0] is unused so that NoScope stays invalid
}

// NewTree creates an empty tree with its global scope.
func NewTree(unit string) *Tree {
	t := &Tree{
		Unit:   unit,
		decls:  []*Decl{nil},
		scopes: []*Scope{nil},
	}
	t.Global = t.NewScope(NoScope, None)
	return t
}

// NewDecl allocates a declaration owned by scope. It is not placed in the
// scope's entries; callers position it with Append or InsertBefore.
func (t *Tree) NewDecl(kind Kind, name string, scope ScopeID) *Decl {
	d := &Decl{ID: ID(len(t.decls)), Kind: kind, Name: name, Scope: scope}
	t.decls = append(t.decls, d)
	return d
}

// NewScope allocates a scope under parent, owned by owner.
func (t *Tree) NewScope(parent ScopeID, owner ID) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, newScope(id, parent, owner))
	return id
}

// NewBody allocates the body scope of a record or namespace declaration.
func (t *Tree) NewBody(d *Decl) ScopeID {
	d.Body = t.NewScope(d.Scope, d.ID)
	return d.Body
}

// Decl returns the declaration with the given ID, or nil.
func (t *Tree) Decl(id ID) *Decl {
	if id <= None || int(id) >= len(t.decls) {
		return nil
	}
	return t.decls[id]
}

// Scope returns the scope with the given ID, or nil.
func (t *Tree) Scope(id ScopeID) *Scope {
	if id <= NoScope || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// GlobalScope returns the root scope.
func (t *Tree) GlobalScope() *Scope {
	return t.scopes[t.Global]
}

// Decls returns every declaration in allocation order.
func (t *Tree) Decls() []*Decl {
	result := make([]*Decl, len(t.decls)-1)
	copy(result, t.decls[1:])
	return result
}

// Len returns the number of declarations.
func (t *Tree) Len() int {
	return len(t.decls) - 1
}

// Owner returns the declaration whose body is scope, or nil for the global
// scope.
func (t *Tree) Owner(scope ScopeID) *Decl {
	s := t.Scope(scope)
	if s == nil {
		return nil
	}
	return t.Decl(s.Owner)
}

// EnclosingRecord returns the struct, union or class whose body is scope, or
// nil when scope is not a record body.
func (t *Tree) EnclosingRecord(scope ScopeID) *Decl {
	if d := t.Owner(scope); d != nil && d.Kind.IsRecord() {
		return d
	}
	return nil
}

// QualifiedName joins the names of the enclosing records and named
// namespaces with "::". Anonymous namespaces contribute nothing.
func (t *Tree) QualifiedName(id ID) string {
	d := t.Decl(id)
	if d == nil {
		return ""
	}
	parts := []string{d.Name}
	for owner := t.Owner(d.Scope); owner != nil; owner = t.Owner(owner.Scope) {
		if owner.Kind == Namespace && owner.Anonymous {
			continue
		}
		parts = append(parts, owner.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// Within reports whether scope is inner or nested somewhere inside it.
func (t *Tree) Within(scope, outer ScopeID) bool {
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if s.ID == outer {
			return true
		}
	}
	return false
}

// Count returns the number of declarations of each kind.
func (t *Tree) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range t.decls[1:] {
		counts[d.Kind]++
	}
	return counts
}
