// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package decl

import (
	"container/list"
)

// ScopeID addresses a scope in a Tree. The zero ScopeID is no scope.
type ScopeID int

// NoScope is the absent scope.
const NoScope ScopeID = 0

// Role says how an entry presents its declaration.
type Role int

const (
	Definition Role = iota // Full declaration
	Forward                // Forward declaration of a record
	Comment                // Free-standing comment, no declaration
)

func (r Role) String() string {
	switch r {
	case Forward:
		return "forward"
	case Comment:
		return "comment"
	default:
		return "definition"
	}
}

// Entry is one element of a scope's ordered contents.
type Entry struct {
	Role Role
	Decl ID     // Definition, Forward
	Text string // Comment
}

type entryKey struct {
	decl ID
	role Role
}

// Scope is an ordered container of entries with a parent link. Positions are
// relations between declarations ("before X"), never raw indices, so entries
// inserted on demand stay correctly placed as the scope grows.
type Scope struct {
	ID     ScopeID
	Parent ScopeID
	Owner  ID // Declaration whose body this is; None for the global scope

	entries *list.List
	index   map[entryKey]*list.Element
}

func newScope(id, parent ScopeID, owner ID) *Scope {
	return &Scope{
		ID:      id,
		Parent:  parent,
		Owner:   owner,
		entries: list.New(),
		index:   make(map[entryKey]*list.Element),
	}
}

// Append adds an entry after the last entry currently present.
func (s *Scope) Append(e Entry) {
	s.track(e, s.entries.PushBack(e))
}

// InsertBefore adds an entry immediately before the first entry presenting
// anchor. If anchor is not in the scope the entry is appended.
func (s *Scope) InsertBefore(e Entry, anchor ID) {
	at := s.first(anchor)
	if at == nil {
		s.Append(e)
		return
	}
	s.track(e, s.entries.InsertBefore(e, at))
}

func (s *Scope) track(e Entry, el *list.Element) {
	if e.Role == Comment {
		return
	}
	key := entryKey{decl: e.Decl, role: e.Role}
	if _, ok := s.index[key]; !ok {
		s.index[key] = el
	}
}

// first returns the earliest element presenting id in any role.
func (s *Scope) first(id ID) *list.Element {
	fwd, hasFwd := s.index[entryKey{decl: id, role: Forward}]
	def, hasDef := s.index[entryKey{decl: id, role: Definition}]
	switch {
	case hasFwd && hasDef:
		for el := s.entries.Front(); el != nil; el = el.Next() {
			if el == fwd || el == def {
				return el
			}
		}
		return nil
	case hasFwd:
		return fwd
	case hasDef:
		return def
	}
	return nil
}

// Has reports whether the scope presents id in the given role.
func (s *Scope) Has(id ID, role Role) bool {
	_, ok := s.index[entryKey{decl: id, role: role}]
	return ok
}

// Contains reports whether the scope presents id in any role.
func (s *Scope) Contains(id ID) bool {
	return s.Has(id, Definition) || s.Has(id, Forward)
}

// Entries returns the scope contents in order.
func (s *Scope) Entries() []Entry {
	result := make([]Entry, 0, s.entries.Len())
	for el := s.entries.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.(Entry))
	}
	return result
}

// Decls returns each declaration presented by the scope once, in order of
// first appearance.
func (s *Scope) Decls() []ID {
	var result []ID
	seen := make(map[ID]bool)
	for el := s.entries.Front(); el != nil; el = el.Next() {
		e := el.Value.(Entry)
		if e.Role == Comment || seen[e.Decl] {
			continue
		}
		seen[e.Decl] = true
		result = append(result, e.Decl)
	}
	return result
}

// Comments returns the comment texts in order.
func (s *Scope) Comments() []string {
	var result []string
	for el := s.entries.Front(); el != nil; el = el.Next() {
		if e := el.Value.(Entry); e.Role == Comment {
			result = append(result, e.Text)
		}
	}
	return result
}

// Len returns the number of entries.
func (s *Scope) Len() int {
	return s.entries.Len()
}
