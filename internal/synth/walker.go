// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/diag"
	"github.com/petar-djukic/go-undwarf/internal/index"
	"github.com/petar-djukic/go-undwarf/internal/naming"
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

func (r *run) walkAll() error {
	return r.walkChildren(r.idx.Roots())
}

// walkChildren walks constructs in order within the current frame. Before
// each construct the frame's anchor moves to that construct's declaration,
// if one already exists, so on-demand declarations land in front of it.
func (r *run) walkChildren(ids []index.ID) error {
	f := r.top()
	for _, id := range ids {
		f.anchor = decl.None
		if d, ok := r.idx.Decl(id); ok {
			f.anchor = d
		}
		if err := r.walk(id); err != nil {
			return err
		}
	}
	return nil
}

// within walks constructs in a new frame filling scope.
func (r *run) within(scope decl.ScopeID, ids []index.ID) error {
	r.frames = append(r.frames, &frame{scope: scope})
	defer func() { r.frames = r.frames[:len(r.frames)-1] }()
	return r.walkChildren(ids)
}

func (r *run) walk(id index.ID) error {
	c := r.node(id)
	scope := r.current()

	switch c.Kind {
	case types.KindStruct, types.KindUnion, types.KindClass:
		return r.walkRecord(id, c)

	case types.KindNamespace:
		return r.walkNamespace(id)

	case types.KindEnumeration:
		_, err := r.enumDecl(id)
		return err

	case types.KindTypedef:
		d, err := r.typedefDecl(id)
		if err != nil {
			return err
		}
		return r.completeTypedef(id, d)

	case types.KindSubprogram:
		return r.walkFunction(id, c)

	case types.KindMember:
		if c.Artificial {
			return r.walkChildren(r.idx.ChildrenOf(id))
		}
		d, err := r.convertMember(id, scope)
		if err != nil || d == nil {
			return err
		}
		r.tree.Scope(scope).Append(decl.Entry{Decl: d.ID})
		return nil

	case types.KindVariable:
		d, err := r.convertVariable(id, scope)
		if err != nil || d == nil {
			return err
		}
		r.tree.Scope(scope).Append(decl.Entry{Decl: d.ID})
		return nil

	case types.KindInheritance:
		return r.convertInheritance(id, scope)

	case types.KindArray:
		_, err := r.dims(id, c)
		return err

	case types.KindBaseType, types.KindPointer, types.KindReference, types.KindRvalueReference,
		types.KindConst, types.KindVolatile, types.KindSubroutine,
		types.KindUpcRelaxed, types.KindUpcStrict, types.KindUpcShared:
		// Anonymous types are converted where they are used.
		return nil

	case types.KindSubrange, types.KindEnumerator, types.KindFormalParameter, types.KindUnspecifiedParameters:
		// Consumed by their parent.
		return nil

	default:
		r.sink.Warnf(diag.UnsupportedKind, c, "%s %q is not supported", kindName(c), c.Name)
		return r.walkChildren(r.idx.ChildrenOf(id))
	}
}

// walkRecord walks a struct, union or class. The walk reuses a declaration
// made on demand earlier, adds its definition at the current position, and
// fills the existing body.
func (r *run) walkRecord(id index.ID, c *types.Construct) error {
	scope := r.current()
	if naming.IsTemplateInstance(c.Name) {
		r.skipTemplate(c, scope)
		return nil
	}

	d := r.cached(id)
	if d == nil {
		var err error
		if d, err = r.specified(id); err != nil {
			return err
		}
	}
	if d == nil {
		d = r.newDecl(recordKind(c.Kind), c, scope)
		if err := r.remember(id, d); err != nil {
			return err
		}
		d.Forward = true
	}

	s := r.tree.Scope(scope)
	children := r.idx.ChildrenOf(id)
	if len(children) == 0 {
		if !s.Contains(d.ID) {
			s.Append(decl.Entry{Role: decl.Forward, Decl: d.ID})
		}
		return nil
	}

	body := r.ensureBody(d)
	if !s.Has(d.ID, decl.Definition) {
		s.Append(decl.Entry{Role: decl.Definition, Decl: d.ID})
	}
	r.top().anchor = d.ID

	depth := r.inFunction
	r.inFunction = 0
	defer func() { r.inFunction = depth }()
	return r.within(body, children)
}

func (r *run) walkNamespace(id index.ID) error {
	d, err := r.namespaceDecl(id)
	if err != nil {
		return err
	}
	r.top().anchor = d.ID
	return r.within(d.Body, r.idx.ChildrenOf(id))
}

// walkFunction declares a subprogram and walks its body for local types.
// Out-of-line definitions, compiler-generated functions and functions nested
// in other functions are not declared, but their bodies are still walked.
func (r *run) walkFunction(id index.ID, c *types.Construct) error {
	scope := r.current()
	if naming.IsTemplateInstance(c.Name) {
		r.skipTemplate(c, scope)
		return nil
	}

	if c.Name != "" && !c.Artificial && r.inFunction == 0 && r.idx.Spec(id) == index.None {
		d, err := r.convertFunction(id, scope)
		if err != nil {
			return err
		}
		r.tree.Scope(scope).Append(decl.Entry{Decl: d.ID})
		r.top().anchor = d.ID
	}

	r.inFunction++
	defer func() { r.inFunction-- }()
	return r.walkChildren(r.idx.ChildrenOf(id))
}

// skipTemplate records a template instance as a comment in scope. Template
// arguments are not reconstructed, so no declaration is made.
func (r *run) skipTemplate(c *types.Construct, scope decl.ScopeID) {
	r.sink.Infof(diag.TemplateSkipped, c, "template instance %s skipped", c.Name)
	r.tree.Scope(scope).Append(decl.Entry{
		Role: decl.Comment,
		Text: fmt.Sprintf("%s %s: template instance not reconstructed", c.Kind, c.Name),
	})
}
