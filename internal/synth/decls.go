// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package synth

import (
	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/internal/index"
	"github.com/petar-djukic/go-undwarf/internal/naming"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// accessOf maps an accessibility code. Codes other than protected and
// private, including the unspecified default, map to public.
func accessOf(code int) decl.Access {
	switch code {
	case types.AccessProtected:
		return decl.Protected
	case types.AccessPrivate:
		return decl.Private
	default:
		return decl.Public
	}
}

func virtualityOf(code int) decl.Virtuality {
	switch code {
	case types.VirtualityVirtual:
		return decl.Virtual
	case types.VirtualityPureVirtual:
		return decl.PureVirtual
	default:
		return decl.NotVirtual
	}
}

func specialOf(k naming.FuncKind) decl.Special {
	switch k {
	case naming.Constructor:
		return decl.Constructor
	case naming.Destructor:
		return decl.Destructor
	case naming.Operator:
		return decl.Operator
	case naming.Cast:
		return decl.Conversion
	default:
		return decl.Ordinary
	}
}

// defineEnum builds an enum with all of its enumerators.
func (r *run) defineEnum(id index.ID, scope decl.ScopeID) *decl.Decl {
	d := r.newDecl(decl.Enum, r.node(id), scope)
	for _, child := range r.idx.ChildrenOf(id) {
		if e := r.node(child); e.Kind == types.KindEnumerator {
			d.Enumerators = append(d.Enumerators, decl.Enumerator{Name: e.Name, Value: e.ConstValue})
		}
	}
	return d
}

type signature struct {
	params   []decl.Param
	variadic bool
	hasThis  bool // An artificial object parameter was dropped
}

// params converts the formal parameters of a subprogram or subroutine type.
// Artificial parameters are dropped; an unspecified-parameters child makes
// the signature variadic.
func (r *run) params(id index.ID) (signature, error) {
	var sig signature
	for _, child := range r.idx.ChildrenOf(id) {
		c := r.node(child)
		switch c.Kind {
		case types.KindFormalParameter:
			if c.Artificial {
				sig.hasThis = true
				continue
			}
			t, err := r.convertType(r.idx.Type(child))
			if err != nil {
				return signature{}, err
			}
			sig.params = append(sig.params, decl.Param{Name: c.Name, Type: t})
		case types.KindUnspecifiedParameters:
			sig.variadic = true
		}
	}
	return sig, nil
}

// convertMember builds a data member of the record whose body is scope.
func (r *run) convertMember(id index.ID, scope decl.ScopeID) (*decl.Decl, error) {
	c := r.node(id)
	if r.tree.EnclosingRecord(scope) == nil {
		r.sink.Warnf(diag.MisplacedConstruct, c, "member %q outside a record", c.Name)
		return nil, nil
	}
	t, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return nil, err
	}

	d := r.tree.NewDecl(decl.Member, c.Name, scope)
	d.Origin = c.Offset
	d.Type = t
	d.Access = accessOf(c.Accessibility)
	if c.BitSize > 0 {
		d.BitWidth = c.BitSize
	}
	return d, nil
}

// convertVariable builds a global variable or, inside a record, a static
// data member. Locals and out-of-line definitions of declared variables
// produce nothing.
func (r *run) convertVariable(id index.ID, scope decl.ScopeID) (*decl.Decl, error) {
	c := r.node(id)
	if r.inFunction > 0 || c.Name == "" || r.idx.Spec(id) != index.None {
		return nil, nil
	}
	t, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return nil, err
	}

	d := r.tree.NewDecl(decl.Variable, c.Name, scope)
	d.Origin = c.Offset
	d.Type = t
	if r.tree.EnclosingRecord(scope) != nil {
		d.Static = true
		d.Access = accessOf(c.Accessibility)
	}
	return d, nil
}

// convertFunction builds a function declaration. Inside a record the
// function is a member: it takes its access from the construct, and is
// static when it has no object parameter.
func (r *run) convertFunction(id index.ID, scope decl.ScopeID) (*decl.Decl, error) {
	c := r.node(id)
	rec := r.tree.EnclosingRecord(scope)
	className := ""
	if rec != nil && !rec.Anonymous {
		className = rec.Name
	}

	ret, err := r.convertType(r.idx.Type(id))
	if err != nil {
		return nil, err
	}
	sig, err := r.params(id)
	if err != nil {
		return nil, err
	}

	d := r.tree.NewDecl(decl.Function, c.Name, scope)
	d.Origin = c.Offset
	d.Return = ret
	d.Params = sig.params
	d.Variadic = sig.variadic
	d.Special = specialOf(naming.ClassifyFunction(c.Name, className))
	d.Virtuality = virtualityOf(c.Virtuality)
	if rec != nil {
		d.Access = accessOf(c.Accessibility)
		d.Static = !sig.hasThis && d.Special != decl.Constructor && d.Special != decl.Destructor
	}
	return d, nil
}

// convertInheritance attaches a base class to the record whose body is
// scope. The base is looked through typedefs and synthesized on demand if
// the walk has not reached it yet.
func (r *run) convertInheritance(id index.ID, scope decl.ScopeID) error {
	c := r.node(id)
	rec := r.tree.EnclosingRecord(scope)
	if rec == nil {
		r.sink.Warnf(diag.MisplacedConstruct, c, "inheritance outside a record")
		return nil
	}

	target := r.idx.Type(id)
	for hops := 0; target != index.None && r.node(target).Kind == types.KindTypedef; hops++ {
		if hops > r.idx.Len() {
			target = index.None
			break
		}
		target = r.idx.Type(target)
	}
	if target == index.None || !r.node(target).Kind.IsRecord() {
		r.sink.Warnf(diag.UnresolvedRef, c, "base class of %s does not resolve to a record", rec.Name)
		return nil
	}
	if name := r.node(target).Name; naming.IsTemplateInstance(name) {
		r.sink.Infof(diag.TemplateSkipped, c, "template base class %s of %s skipped", name, rec.Name)
		return nil
	}

	base, err := r.convertType(target)
	if err != nil {
		return err
	}
	b := r.tree.NewDecl(decl.BaseClass, r.tree.Decl(base.Decl).Name, scope)
	b.Origin = c.Offset
	b.Base = base.Decl
	b.Access = accessOf(c.Accessibility)
	b.IsVirtual = c.Virtual || c.Virtuality != types.VirtualityNone
	rec.Bases = append(rec.Bases, b.ID)
	return nil
}
