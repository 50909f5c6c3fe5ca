// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package decl holds the synthesized declaration tree: declarations, types
// and the ordered scopes that own them. Everything lives in a per-unit Tree
// arena and is addressed by ID, so cyclic type graphs never need raw
// back-pointers.
package decl

import (
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// ID addresses a declaration in a Tree. The zero ID is no declaration.
type ID int

// None is the absent declaration.
const None ID = 0

// Kind tags a synthesized declaration.
type Kind int

const (
	Struct Kind = iota + 1
	Union
	Class
	Enum
	Typedef
	Function
	Variable
	Member
	Namespace
	BaseClass
)

func (k Kind) String() string {
	switch k {
	case Struct:
		return "struct"
	case Union:
		return "union"
	case Class:
		return "class"
	case Enum:
		return "enum"
	case Typedef:
		return "typedef"
	case Function:
		return "function"
	case Variable:
		return "variable"
	case Member:
		return "member"
	case Namespace:
		return "namespace"
	case BaseClass:
		return "base_class"
	default:
		return "unknown"
	}
}

// IsRecord reports whether the kind is a struct, union or class.
func (k Kind) IsRecord() bool {
	return k == Struct || k == Union || k == Class
}

// Access is a member or base-class access modifier.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Special marks constructors, destructors and operators.
type Special int

const (
	Ordinary Special = iota
	Constructor
	Destructor
	Operator
	Conversion
)

func (s Special) String() string {
	switch s {
	case Constructor:
		return "constructor"
	case Destructor:
		return "destructor"
	case Operator:
		return "operator"
	case Conversion:
		return "conversion"
	default:
		return "none"
	}
}

// Virtuality of a member function.
type Virtuality int

const (
	NotVirtual Virtuality = iota
	Virtual
	PureVirtual
)

func (v Virtuality) String() string {
	switch v {
	case Virtual:
		return "virtual"
	case PureVirtual:
		return "pure_virtual"
	default:
		return "none"
	}
}

// Enumerator is one name/value pair of an enum.
type Enumerator struct {
	Name  string
	Value int64
}

// Param is a function or function-type parameter. Name may be empty.
type Param struct {
	Name string
	Type *Type
}

// Decl is a synthesized declaration. Which fields are meaningful depends on
// Kind; the rest stay at their zero value.
type Decl struct {
	ID        ID
	Kind      Kind
	Name      string
	Anonymous bool         // Name was synthesized
	Origin    types.Offset // Construct the declaration came from
	Scope     ScopeID      // Owning scope

	// Struct, Union, Class, Namespace.
	Body    ScopeID // Members or namespace contents
	Forward bool    // Record with no known body; typedef whose alias is pending
	Bases   []ID    // BaseClass declarations, in order

	// Enum.
	Enumerators []Enumerator

	// Typedef.
	Aliased *Type

	// Variable, Member.
	Type     *Type
	BitWidth int64 // Zero when not a bitfield
	Static   bool

	// Function.
	Return     *Type
	Params     []Param
	Variadic   bool
	Special    Special
	Virtuality Virtuality

	// Member, Function, BaseClass.
	Access Access

	// BaseClass.
	Base      ID
	IsVirtual bool
}
