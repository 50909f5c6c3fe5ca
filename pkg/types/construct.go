// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the debug-information construct graph shared by the
// loaders, the synthesis engine and the public API.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Offset identifies a construct within one compilation unit.
type Offset uint64

func (o Offset) String() string {
	return "<" + strconv.FormatUint(uint64(o), 10) + ">"
}

// Kind identifies the category of a debug-information construct.
type Kind int

const (
	KindUnknown Kind = iota // Construct the synthesis engine does not model
	KindBaseType
	KindPointer
	KindReference
	KindRvalueReference
	KindConst
	KindVolatile
	KindTypedef
	KindEnumeration
	KindEnumerator
	KindStruct
	KindUnion
	KindClass
	KindArray
	KindSubrange
	KindSubroutine
	KindSubprogram
	KindFormalParameter
	KindUnspecifiedParameters
	KindMember
	KindInheritance
	KindNamespace
	KindVariable
	KindUpcRelaxed
	KindUpcStrict
	KindUpcShared
)

var kindNames = [...]string{
	KindUnknown:               "unknown",
	KindBaseType:              "base_type",
	KindPointer:               "pointer",
	KindReference:             "reference",
	KindRvalueReference:       "rvalue_reference",
	KindConst:                 "const",
	KindVolatile:              "volatile",
	KindTypedef:               "typedef",
	KindEnumeration:           "enumeration",
	KindEnumerator:            "enumerator",
	KindStruct:                "struct",
	KindUnion:                 "union",
	KindClass:                 "class",
	KindArray:                 "array",
	KindSubrange:              "subrange",
	KindSubroutine:            "subroutine",
	KindSubprogram:            "subprogram",
	KindFormalParameter:       "formal_parameter",
	KindUnspecifiedParameters: "unspecified_parameters",
	KindMember:                "member",
	KindInheritance:           "inheritance",
	KindNamespace:             "namespace",
	KindVariable:              "variable",
	KindUpcRelaxed:            "upc_relaxed",
	KindUpcStrict:             "upc_strict",
	KindUpcShared:             "upc_shared",
}

// String returns the snake_case name used in construct documents.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a construct document kind name back to a Kind. Unrecognized
// names map to KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return KindUnknown
}

// IsRecord reports whether the kind is a struct, union or class.
func (k Kind) IsRecord() bool {
	return k == KindStruct || k == KindUnion || k == KindClass
}

// Accessibility codes as they appear in debug information.
const (
	AccessDefault   = 0
	AccessPublic    = 1
	AccessProtected = 2
	AccessPrivate   = 3
)

// Virtuality codes as they appear in debug information.
const (
	VirtualityNone        = 0
	VirtualityVirtual     = 1
	VirtualityPureVirtual = 2
)

// Ref is a string-encoded offset reference. The empty string means absent.
// Accepted encodings are "<123>", "123" and "0x7b".
type Ref string

// NoRef is the absent reference.
const NoRef Ref = ""

// RefTo encodes an offset as a Ref.
func RefTo(o Offset) Ref {
	return Ref(o.String())
}

// IsAbsent reports whether the reference is the absent sentinel.
func (r Ref) IsAbsent() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Offset decodes the reference. Offsets are decimal unless prefixed with 0x.
// It returns an error for malformed encodings; callers must check IsAbsent
// first.
func (r Ref) Offset() (Offset, error) {
	s := strings.TrimSpace(string(r))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	base := 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed offset reference %q: %w", string(r), err)
	}
	return Offset(v), nil
}

// Construct is one node of the debug-information graph.
type Construct struct {
	Kind   Kind
	Tag    string // Raw tag name, kept for diagnostics on unsupported kinds
	Offset Offset
	Name   string

	TypeRef Ref // Referenced type
	SpecRef Ref // Specification edge (out-of-line elaboration)

	BitSize       int64 // Member bitfield width; zero when not a bitfield
	UpperBound    int64 // Subrange upper bound
	HasUpperBound bool
	Count         int64 // Subrange element count, used when no upper bound is present
	HasCount      bool
	ConstValue    int64 // Enumerator value

	Accessibility int
	Virtuality    int
	Virtual       bool // Virtual inheritance
	Artificial    bool // Compiler generated
	Declaration   bool // Non-defining declaration
	External      bool

	Children []*Construct
}

// Unit is one compilation unit of constructs with its pass-through metadata.
type Unit struct {
	Name        string
	Producer    string
	AddressSize int
	Language    int
	Constructs  []*Construct
}

// Walk visits every construct of the unit in pre-order. Returning false from
// fn skips the construct's children.
func (u *Unit) Walk(fn func(c *Construct, parent *Construct) bool) {
	var visit func(c, parent *Construct)
	visit = func(c, parent *Construct) {
		if !fn(c, parent) {
			return
		}
		for _, child := range c.Children {
			visit(child, c)
		}
	}
	for _, c := range u.Constructs {
		visit(c, nil)
	}
}

// Language codes that select C-style rendering.
const (
	LangC89 = 0x0001
	LangC   = 0x0002
	LangC99 = 0x000c
	LangC11 = 0x001d
	LangUPC = 0x0012
)

// IsCLanguage reports whether the language code denotes a C dialect.
func IsCLanguage(lang int) bool {
	switch lang {
	case LangC89, LangC, LangC99, LangC11, LangUPC:
		return true
	}
	return false
}
