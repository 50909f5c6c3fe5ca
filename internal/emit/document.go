// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/emit/cpp"
)

// TreeDoc is the JSON form of a declaration tree.
type TreeDoc struct {
	Unit   string   `json:"unit"`
	Global ScopeDoc `json:"global"`
}

// ScopeDoc is the JSON form of a scope, entries in order.
type ScopeDoc struct {
	Entries []EntryDoc `json:"entries"`
}

// EntryDoc is one scope entry. Comment entries carry only Text.
type EntryDoc struct {
	Role string   `json:"role"`
	Text string   `json:"text,omitempty"`
	Decl *DeclDoc `json:"decl,omitempty"`
}

// DeclDoc is the JSON form of a declaration. Types are rendered in C++
// declarator syntax.
type DeclDoc struct {
	ID          int               `json:"id"`
	Kind        string            `json:"kind"`
	Name        string            `json:"name"`
	Qualified   string            `json:"qualified,omitempty"`
	Anonymous   bool              `json:"anonymous,omitempty"`
	Origin      string            `json:"origin"`
	Forward     bool              `json:"forward,omitempty"`
	Access      string            `json:"access,omitempty"`
	Static      bool              `json:"static,omitempty"`
	Type        string            `json:"type,omitempty"`
	BitWidth    int64             `json:"bit_width,omitempty"`
	Special     string            `json:"special,omitempty"`
	Virtuality  string            `json:"virtuality,omitempty"`
	Bases       []BaseDoc         `json:"bases,omitempty"`
	Enumerators []EnumeratorDoc   `json:"enumerators,omitempty"`
	Body        *ScopeDoc         `json:"body,omitempty"`
}

// EnumeratorDoc is one enumerator of an enum.
type EnumeratorDoc struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// BaseDoc is one base class of a record.
type BaseDoc struct {
	Name    string `json:"name"`
	Access  string `json:"access"`
	Virtual bool   `json:"virtual,omitempty"`
}

// Document converts a tree to its JSON form. A declaration's body is
// written at its definition entry only.
func Document(t *decl.Tree) TreeDoc {
	return TreeDoc{Unit: t.Unit, Global: scopeDoc(t, t.Global)}
}

func scopeDoc(t *decl.Tree, id decl.ScopeID) ScopeDoc {
	doc := ScopeDoc{Entries: []EntryDoc{}}
	for _, e := range t.Scope(id).Entries() {
		entry := EntryDoc{Role: e.Role.String(), Text: e.Text}
		if e.Role != decl.Comment {
			entry.Decl = declDoc(t, t.Decl(e.Decl), e.Role == decl.Definition)
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return doc
}

func declDoc(t *decl.Tree, d *decl.Decl, withBody bool) *DeclDoc {
	doc := &DeclDoc{
		ID:        int(d.ID),
		Kind:      d.Kind.String(),
		Name:      d.Name,
		Anonymous: d.Anonymous,
		Origin:    d.Origin.String(),
		Forward:   d.Forward,
		Static:    d.Static,
		BitWidth:  d.BitWidth,
	}
	if q := t.QualifiedName(d.ID); q != d.Name {
		doc.Qualified = q
	}

	switch d.Kind {
	case decl.Member, decl.Variable:
		doc.Type = cpp.Declare(t, d.Type, "", d.Scope)
	case decl.Typedef:
		doc.Type = cpp.Declare(t, d.Aliased, "", d.Scope)
	case decl.Function:
		fn := &decl.Type{Kind: decl.FunctionType, Return: d.Return, Params: d.Params, Variadic: d.Variadic}
		doc.Type = cpp.Declare(t, fn, "", d.Scope)
		if d.Special != decl.Ordinary {
			doc.Special = d.Special.String()
		}
		if d.Virtuality != decl.NotVirtual {
			doc.Virtuality = d.Virtuality.String()
		}
	case decl.Enum:
		for _, e := range d.Enumerators {
			doc.Enumerators = append(doc.Enumerators, EnumeratorDoc{Name: e.Name, Value: e.Value})
		}
	}
	if t.EnclosingRecord(d.Scope) != nil && d.Kind != decl.Namespace {
		doc.Access = d.Access.String()
	}

	for _, id := range d.Bases {
		b := t.Decl(id)
		doc.Bases = append(doc.Bases, BaseDoc{Name: t.QualifiedName(b.Base), Access: b.Access.String(), Virtual: b.IsVirtual})
	}
	if withBody && d.Body != decl.NoScope {
		body := scopeDoc(t, d.Body)
		doc.Body = &body
	}
	return doc
}
