// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package decl

// TypeKind tags a synthesized type.
type TypeKind int

const (
	Void TypeKind = iota
	Unknown
	Scalar
	Pointer
	Reference
	RvalueReference
	Const
	Volatile
	Upc
	Array
	FunctionType
	Named
)

func (k TypeKind) String() string {
	switch k {
	case Void:
		return "void"
	case Unknown:
		return "unknown"
	case Scalar:
		return "scalar"
	case Pointer:
		return "pointer"
	case Reference:
		return "reference"
	case RvalueReference:
		return "rvalue_reference"
	case Const:
		return "const"
	case Volatile:
		return "volatile"
	case Upc:
		return "upc"
	case Array:
		return "array"
	case FunctionType:
		return "function"
	case Named:
		return "named"
	default:
		return "invalid"
	}
}

// UpcQualifier is the Unified Parallel C sharing qualifier of an Upc type.
type UpcQualifier int

const (
	UpcRelaxed UpcQualifier = iota
	UpcStrict
	UpcShared
)

func (q UpcQualifier) String() string {
	switch q {
	case UpcStrict:
		return "strict"
	case UpcShared:
		return "shared"
	default:
		return "relaxed"
	}
}

// Unsized is the Array length of an array with no known bound.
const Unsized int64 = -1

// Type is a synthesized type value. Types are trees; named declarations are
// reached through Decl, which keeps cycles out of the type graph.
type Type struct {
	Kind TypeKind
	Name string // Scalar name, function-type name, or the spelling of an Unknown
	Elem *Type  // Pointer, Reference, Const, Volatile, Upc, Array
	Len  int64  // Array; Unsized when unbounded
	Upc  UpcQualifier

	Return   *Type // FunctionType
	Params   []Param
	Variadic bool

	Decl ID // Named
}

// VoidType returns the void type.
func VoidType() *Type { return &Type{Kind: Void} }

// UnknownType returns an unknown type, optionally carrying a display spelling.
func UnknownType(spelling string) *Type { return &Type{Kind: Unknown, Name: spelling} }

// ScalarType returns a base scalar type.
func ScalarType(name string) *Type { return &Type{Kind: Scalar, Name: name} }

// PointerTo wraps elem in a pointer.
func PointerTo(elem *Type) *Type { return &Type{Kind: Pointer, Elem: elem} }

// ReferenceTo wraps elem in an lvalue reference.
func ReferenceTo(elem *Type) *Type { return &Type{Kind: Reference, Elem: elem} }

// NamedType refers to a struct, union, class, enum or typedef declaration.
func NamedType(id ID) *Type { return &Type{Kind: Named, Decl: id} }

// IsReference reports whether the type is an lvalue or rvalue reference.
func (t *Type) IsReference() bool {
	return t != nil && (t.Kind == Reference || t.Kind == RvalueReference)
}

// Wrapper reports whether the kind wraps an inner Elem type.
func (k TypeKind) Wrapper() bool {
	switch k {
	case Pointer, Reference, RvalueReference, Const, Volatile, Upc, Array:
		return true
	}
	return false
}

// Innermost strips every wrapper and returns the base type.
func (t *Type) Innermost() *Type {
	for t != nil && t.Kind.Wrapper() && t.Elem != nil {
		t = t.Elem
	}
	return t
}

// References calls fn for every declaration the type names, including those
// reached through function-type parameters and results.
func (t *Type) References(fn func(ID)) {
	if t == nil {
		return
	}
	switch t.Kind {
	case Named:
		fn(t.Decl)
	case FunctionType:
		t.Return.References(fn)
		for _, p := range t.Params {
			p.Type.References(fn)
		}
	default:
		t.Elem.References(fn)
	}
}
