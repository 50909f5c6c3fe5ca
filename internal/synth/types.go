// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/internal/index"
	"github.com/petar-djukic/go-undwarf/internal/naming"
	"github.com/petar-djukic/go-undwarf/internal/scalar"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// convertType converts a construct into a type. None converts to void.
// Records, enums and typedefs are memoized through the construct's cache
// slot: every conversion of the same construct names the same declaration.
// The slot is written before anything the declaration depends on is
// converted, so self-referential types terminate. Unnamed types have no slot;
// one that leads back to itself without passing a named type is malformed.
func (r *run) convertType(id index.ID) (*decl.Type, error) {
	if id == index.None {
		return decl.VoidType(), nil
	}
	c := r.node(id)

	if !memoized(c.Kind) {
		if r.converting[id] {
			r.sink.Errorf(diag.MalformedInput, c, "%s refers back to itself", kindName(c))
			return nil, fmt.Errorf("%w: %s %s refers back to itself", ErrMalformed, c.Kind, c.Offset)
		}
		r.converting[id] = true
		defer delete(r.converting, id)
	}

	switch c.Kind {
	case types.KindBaseType:
		return r.baseType(c), nil

	case types.KindPointer:
		elem, err := r.convertType(r.idx.Type(id))
		if err != nil {
			return nil, err
		}
		return decl.PointerTo(elem), nil

	case types.KindReference, types.KindRvalueReference:
		return r.referenceType(id, c)

	case types.KindConst:
		inner, err := r.convertType(r.idx.Type(id))
		if err != nil {
			return nil, err
		}
		// A reference cannot be const-qualified.
		if inner.IsReference() {
			return inner, nil
		}
		return &decl.Type{Kind: decl.Const, Elem: inner}, nil

	case types.KindVolatile:
		inner, err := r.convertType(r.idx.Type(id))
		if err != nil {
			return nil, err
		}
		return &decl.Type{Kind: decl.Volatile, Elem: inner}, nil

	case types.KindUpcRelaxed, types.KindUpcStrict, types.KindUpcShared:
		inner, err := r.convertType(r.idx.Type(id))
		if err != nil {
			return nil, err
		}
		return &decl.Type{Kind: decl.Upc, Elem: inner, Upc: upcQualifier(c.Kind)}, nil

	case types.KindArray:
		return r.arrayType(id, c)

	case types.KindStruct, types.KindUnion, types.KindClass:
		if naming.IsTemplateInstance(c.Name) {
			return decl.UnknownType(c.Name), nil
		}
		d, err := r.recordDecl(id)
		if err != nil {
			return nil, err
		}
		return decl.NamedType(d.ID), nil

	case types.KindTypedef:
		d, err := r.typedefDecl(id)
		if err != nil {
			return nil, err
		}
		return decl.NamedType(d.ID), nil

	case types.KindEnumeration:
		d, err := r.enumDecl(id)
		if err != nil {
			return nil, err
		}
		return decl.NamedType(d.ID), nil

	case types.KindSubroutine:
		return r.functionType(id, c)

	default:
		r.sink.Warnf(diag.UnsupportedKind, c, "%s %q cannot be used as a type", kindName(c), c.Name)
		return decl.UnknownType(""), nil
	}
}

func (r *run) baseType(c *types.Construct) *decl.Type {
	if scalar.IsVoid(c.Name) {
		return decl.VoidType()
	}
	info, ok := scalar.Lookup(c.Name)
	if !ok {
		r.sink.Warnf(diag.UnsupportedKind, c, "unknown base type %q", c.Name)
		return decl.UnknownType(c.Name)
	}
	return decl.ScalarType(info.Name)
}

func (r *run) referenceType(id index.ID, c *types.Construct) (*decl.Type, error) {
	kind := decl.Reference
	if c.Kind == types.KindRvalueReference {
		kind = decl.RvalueReference
	}
	target := r.idx.Type(id)
	if target == index.None {
		r.sink.Warnf(diag.UnresolvedRef, c, "reference has no target type")
		return &decl.Type{Kind: kind, Elem: decl.UnknownType("")}, nil
	}
	elem, err := r.convertType(target)
	if err != nil {
		return nil, err
	}
	return &decl.Type{Kind: kind, Elem: elem}, nil
}

// arrayType converts an array. Each subrange child adds one dimension, the
// first being outermost.
func (r *run) arrayType(id index.ID, c *types.Construct) (*decl.Type, error) {
	dims, err := r.dims(id, c)
	if err != nil {
		return nil, err
	}
	t, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return nil, err
	}
	for i := len(dims) - 1; i >= 0; i-- {
		t = &decl.Type{Kind: decl.Array, Elem: t, Len: dims[i]}
	}
	return t, nil
}

// dims returns the length of each dimension of an array. An array without
// a subrange is malformed.
func (r *run) dims(id index.ID, c *types.Construct) ([]int64, error) {
	var dims []int64
	for _, child := range r.idx.ChildrenOf(id) {
		if sub := r.node(child); sub.Kind == types.KindSubrange {
			dims = append(dims, arrayLen(sub))
		}
	}
	if len(dims) == 0 {
		r.sink.Errorf(diag.MalformedInput, c, "array %q has no subrange", c.Name)
		return nil, fmt.Errorf("%w: array %s has no subrange", ErrMalformed, c.Offset)
	}
	return dims, nil
}

func arrayLen(sub *types.Construct) int64 {
	switch {
	case sub.HasUpperBound:
		return sub.UpperBound + 1
	case sub.HasCount:
		return sub.Count
	default:
		return decl.Unsized
	}
}

// functionType converts a subroutine type. Unnamed subroutine types get a
// synthetic name, issued once per construct.
func (r *run) functionType(id index.ID, c *types.Construct) (*decl.Type, error) {
	ret, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return nil, err
	}
	sig, err := r.params(id)
	if err != nil {
		return nil, err
	}

	name, ok := r.funcNames[id]
	if !ok {
		name = c.Name
		if name == "" {
			name = r.names.Next(naming.AnonFuncPtr)
		}
		r.funcNames[id] = name
	}
	return &decl.Type{
		Kind:     decl.FunctionType,
		Name:     name,
		Return:   ret,
		Params:   sig.params,
		Variadic: sig.variadic,
	}, nil
}

// recordDecl returns the declaration of a struct, union or class, declaring
// it in its home scope on first use. A record with members gets an empty
// body that the walk fills in later; one without members stays a forward
// declaration.
func (r *run) recordDecl(id index.ID) (*decl.Decl, error) {
	if d := r.cached(id); d != nil {
		return d, nil
	}
	if d, err := r.specified(id); d != nil || err != nil {
		return d, err
	}

	home, err := r.homeScope(id)
	if err != nil {
		return nil, err
	}
	if d := r.cached(id); d != nil {
		return d, nil
	}

	c := r.node(id)
	d := r.newDecl(recordKind(c.Kind), c, home)
	if err := r.remember(id, d); err != nil {
		return nil, err
	}
	if len(c.Children) > 0 {
		r.tree.NewBody(d)
	} else {
		d.Forward = true
	}
	r.place(home, decl.Entry{Role: decl.Forward, Decl: d.ID})
	return d, nil
}

// specified follows a record's specification edge and reuses the
// declaration of the record it elaborates. It returns nil when there is no
// usable edge.
func (r *run) specified(id index.ID) (*decl.Decl, error) {
	spec := r.idx.Spec(id)
	if spec == index.None || r.specifying[id] {
		return nil, nil
	}
	target := r.node(spec)
	if !target.Kind.IsRecord() || naming.IsTemplateInstance(target.Name) {
		return nil, nil
	}

	r.specifying[id] = true
	defer delete(r.specifying, id)

	d, err := r.recordDecl(spec)
	if err != nil {
		return nil, err
	}
	if err := r.remember(id, d); err != nil {
		return nil, err
	}
	return d, nil
}

// typedefDecl returns the declaration of a typedef, declaring it on first
// use. The declaration is cached as a forward alias before the aliased type
// is converted and completed in place afterwards.
func (r *run) typedefDecl(id index.ID) (*decl.Decl, error) {
	if d := r.cached(id); d != nil {
		return d, nil
	}
	home, err := r.homeScope(id)
	if err != nil {
		return nil, err
	}
	if d := r.cached(id); d != nil {
		return d, nil
	}

	d := r.newDecl(decl.Typedef, r.node(id), home)
	d.Forward = true
	if err := r.remember(id, d); err != nil {
		return nil, err
	}
	if err := r.completeTypedef(id, d); err != nil {
		return nil, err
	}
	r.place(home, decl.Entry{Decl: d.ID})
	return d, nil
}

func (r *run) completeTypedef(id index.ID, d *decl.Decl) error {
	if !d.Forward {
		return nil
	}
	aliased, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return err
	}
	d.Aliased = aliased
	d.Forward = false
	return nil
}

// enumDecl returns the declaration of an enum. Enums have no forward form,
// so the first use builds the whole enum.
func (r *run) enumDecl(id index.ID) (*decl.Decl, error) {
	if d := r.cached(id); d != nil {
		return d, nil
	}
	home, err := r.homeScope(id)
	if err != nil {
		return nil, err
	}
	if d := r.cached(id); d != nil {
		return d, nil
	}

	d := r.defineEnum(id, home)
	if err := r.remember(id, d); err != nil {
		return nil, err
	}
	r.place(home, decl.Entry{Decl: d.ID})
	return d, nil
}

// namespaceDecl returns the declaration of a namespace, declaring it on
// first use. A namespace reopened under the same name in the same scope
// shares one declaration.
func (r *run) namespaceDecl(id index.ID) (*decl.Decl, error) {
	if d := r.cached(id); d != nil {
		return d, nil
	}
	home, err := r.homeScope(id)
	if err != nil {
		return nil, err
	}
	if d := r.cached(id); d != nil {
		return d, nil
	}

	c := r.node(id)
	d := r.reopened(home, c.Name)
	if d == nil {
		d = r.newDecl(decl.Namespace, c, home)
		r.tree.NewBody(d)
		r.place(home, decl.Entry{Decl: d.ID})
	}
	if err := r.remember(id, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *run) reopened(scope decl.ScopeID, name string) *decl.Decl {
	if name == "" {
		return nil
	}
	for _, id := range r.tree.Scope(scope).Decls() {
		if d := r.tree.Decl(id); d.Kind == decl.Namespace && !d.Anonymous && d.Name == name {
			return d
		}
	}
	return nil
}

// memoized reports whether conversions of kind k are cached in the
// construct's declaration slot.
func memoized(k types.Kind) bool {
	return k.IsRecord() || k == types.KindTypedef || k == types.KindEnumeration
}

func upcQualifier(k types.Kind) decl.UpcQualifier {
	switch k {
	case types.KindUpcStrict:
		return decl.UpcStrict
	case types.KindUpcShared:
		return decl.UpcShared
	default:
		return decl.UpcRelaxed
	}
}

// kindName names a construct's kind for diagnostics, preferring the raw tag
// of constructs the model does not cover.
func kindName(c *types.Construct) string {
	if c.Kind == types.KindUnknown && c.Tag != "" {
		return c.Tag
	}
	return c.Kind.String()
}
