// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cpp renders a synthesized declaration tree as C or C++ source.
package cpp

import (
	"fmt"
	"io"
	"strings"

	"github.com/petar-djukic/go-undwarf/internal/decl"
)

const defaultIndent = "    "

// UnknownTypeName is written wherever a type could not be synthesized and
// has no spelling of its own.
const UnknownTypeName = "__unknown_type"

// Options controls rendering.
type Options struct {
	C      bool   // C dialect: tagged type names, no bases or access sections
	Indent string // Defaults to four spaces
}

// Render returns the declarations of t as source text.
func Render(t *decl.Tree, opts Options) string {
	p := &printer{tree: t, c: opts.C, indent: opts.Indent}
	if p.indent == "" {
		p.indent = defaultIndent
	}
	if t.Unit != "" {
		p.line("// unit: %s", t.Unit)
	}
	p.scope(t.Global)
	return p.buf.String()
}

// Write renders t to w.
func Write(w io.Writer, t *decl.Tree, opts Options) error {
	_, err := io.WriteString(w, Render(t, opts))
	return err
}

// Declare renders a declaration of name with type t as written in scope.
// An empty name renders the type alone.
func Declare(tr *decl.Tree, t *decl.Type, name string, scope decl.ScopeID) string {
	p := &printer{tree: tr, indent: defaultIndent}
	return p.declare(t, name, scope)
}

type printer struct {
	tree   *decl.Tree
	c      bool
	indent string
	depth  int
	buf    strings.Builder
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat(p.indent, p.depth))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// label writes an access section label one level out from the members.
func (p *printer) label(a decl.Access) {
	p.depth--
	p.line("%s:", a)
	p.depth++
}

// scope writes every entry of a scope in order. Inside a record body,
// access labels are emitted whenever the access changes.
func (p *printer) scope(id decl.ScopeID) {
	s := p.tree.Scope(id)
	rec := p.tree.EnclosingRecord(id)
	access := decl.Public
	if rec != nil && rec.Kind == decl.Class {
		access = decl.Private
	}

	for _, e := range s.Entries() {
		if e.Role == decl.Comment {
			p.line("/* %s */", e.Text)
			continue
		}
		d := p.tree.Decl(e.Decl)
		if d == nil {
			continue
		}
		if rec != nil && !p.c && d.Access != access && hasAccess(d.Kind) {
			access = d.Access
			p.label(access)
		}
		if e.Role == decl.Forward {
			p.forward(d, id)
			continue
		}
		p.decl(d, id)
	}
}

func hasAccess(k decl.Kind) bool {
	return k == decl.Member || k == decl.Function || k == decl.Variable
}

func (p *printer) forward(d *decl.Decl, scope decl.ScopeID) {
	if !d.Kind.IsRecord() {
		p.decl(d, scope)
		return
	}
	p.line("%s %s;", p.tag(d.Kind), p.declName(d, scope))
}

// tag returns the keyword introducing a record. C has no classes.
func (p *printer) tag(k decl.Kind) string {
	if p.c && k == decl.Class {
		return "struct"
	}
	return k.String()
}

func (p *printer) decl(d *decl.Decl, scope decl.ScopeID) {
	switch d.Kind {
	case decl.Struct, decl.Union, decl.Class:
		p.record(d, scope)
	case decl.Enum:
		p.enum(d, scope)
	case decl.Typedef:
		aliased := d.Aliased
		if aliased == nil {
			aliased = decl.UnknownType("")
		}
		p.line("typedef %s;", p.declare(aliased, d.Name, scope))
	case decl.Namespace:
		p.namespace(d, scope)
	case decl.Function:
		p.line("%s;", p.function(d, scope))
	case decl.Variable:
		prefix := ""
		if d.Static {
			prefix = "static "
		}
		p.line("%s%s;", prefix, p.declare(d.Type, d.Name, scope))
	case decl.Member:
		text := p.declare(d.Type, d.Name, scope)
		if d.BitWidth > 0 {
			text += fmt.Sprintf(" : %d", d.BitWidth)
		}
		p.line("%s;", text)
	}
}

func (p *printer) record(d *decl.Decl, scope decl.ScopeID) {
	kind := p.tag(d.Kind)
	name := p.declName(d, scope)
	if d.Forward || d.Body == decl.NoScope {
		p.line("%s %s;", kind, name)
		return
	}

	head := kind + " " + name
	if !p.c && len(d.Bases) > 0 {
		bases := make([]string, 0, len(d.Bases))
		for _, id := range d.Bases {
			bases = append(bases, p.base(p.tree.Decl(id), d.Body))
		}
		head += " : " + strings.Join(bases, ", ")
	}
	p.line("%s {", head)
	p.depth++
	p.scope(d.Body)
	p.depth--
	p.line("};")
}

func (p *printer) base(b *decl.Decl, scope decl.ScopeID) string {
	var parts []string
	if b.IsVirtual {
		parts = append(parts, "virtual")
	}
	parts = append(parts, b.Access.String())
	if target := p.tree.Decl(b.Base); target != nil {
		parts = append(parts, p.refName(target, scope))
	} else {
		parts = append(parts, b.Name)
	}
	return strings.Join(parts, " ")
}

func (p *printer) enum(d *decl.Decl, scope decl.ScopeID) {
	p.line("enum %s {", p.declName(d, scope))
	p.depth++
	for _, e := range d.Enumerators {
		p.line("%s = %d,", e.Name, e.Value)
	}
	p.depth--
	p.line("};")
}

func (p *printer) namespace(d *decl.Decl, scope decl.ScopeID) {
	if d.Anonymous {
		p.line("namespace {")
	} else {
		p.line("namespace %s {", p.declName(d, scope))
	}
	p.scope(d.Body)
	p.line("}")
}

func (p *printer) function(d *decl.Decl, scope decl.ScopeID) string {
	var b strings.Builder
	if d.Static {
		b.WriteString("static ")
	}
	if d.Virtuality != decl.NotVirtual && !p.c {
		b.WriteString("virtual ")
	}

	name := p.declName(d, scope)
	switch d.Special {
	case decl.Constructor, decl.Destructor, decl.Conversion:
		b.WriteString(name + p.paramList(d.Params, d.Variadic, scope))
	default:
		fn := &decl.Type{Kind: decl.FunctionType, Return: d.Return, Params: d.Params, Variadic: d.Variadic}
		b.WriteString(p.declare(fn, name, scope))
	}

	if d.Virtuality == decl.PureVirtual && !p.c {
		b.WriteString(" = 0")
	}
	return b.String()
}

func (p *printer) paramList(params []decl.Param, variadic bool, scope decl.ScopeID) string {
	parts := make([]string, 0, len(params)+1)
	for _, prm := range params {
		parts = append(parts, p.declare(prm.Type, prm.Name, scope))
	}
	if variadic {
		parts = append(parts, "...")
	}
	if len(parts) == 0 && p.c {
		return "(void)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// declare writes a declarator: the declared name inner wrapped in the
// type's pointer, array and function syntax, innermost type first.
func (p *printer) declare(t *decl.Type, inner string, scope decl.ScopeID) string {
	return strings.TrimSpace(p.declarator(t, inner, scope))
}

func (p *printer) declarator(t *decl.Type, inner string, scope decl.ScopeID) string {
	if t == nil {
		t = decl.VoidType()
	}
	switch t.Kind {
	case decl.Pointer:
		return p.declarator(t.Elem, postfixGroup("*"+inner, t.Elem), scope)
	case decl.Reference:
		return p.declarator(t.Elem, postfixGroup("&"+inner, t.Elem), scope)
	case decl.RvalueReference:
		return p.declarator(t.Elem, postfixGroup("&&"+inner, t.Elem), scope)
	case decl.Const, decl.Volatile, decl.Upc:
		q := qualifier(t)
		if t.Elem != nil && t.Elem.Kind.Wrapper() && t.Elem.Kind != decl.Array && !isQualifier(t.Elem.Kind) {
			// Qualifies the pointer itself: int *const p.
			return p.declarator(t.Elem, q+" "+inner, scope)
		}
		return q + " " + p.declarator(t.Elem, inner, scope)
	case decl.Array:
		dim := "[]"
		if t.Len != decl.Unsized {
			dim = fmt.Sprintf("[%d]", t.Len)
		}
		return p.declarator(t.Elem, inner+dim, scope)
	case decl.FunctionType:
		return p.declarator(t.Return, inner+p.paramList(t.Params, t.Variadic, scope), scope)
	default:
		base := p.typeName(t, scope)
		if inner == "" {
			return base
		}
		return base + " " + inner
	}
}

// postfixGroup parenthesizes a prefix declarator applied to an array or
// function, whose postfix syntax would otherwise bind first.
func postfixGroup(inner string, elem *decl.Type) string {
	if elem != nil && (elem.Kind == decl.Array || elem.Kind == decl.FunctionType) {
		return "(" + inner + ")"
	}
	return inner
}

func isQualifier(k decl.TypeKind) bool {
	return k == decl.Const || k == decl.Volatile || k == decl.Upc
}

func qualifier(t *decl.Type) string {
	switch t.Kind {
	case decl.Const:
		return "const"
	case decl.Volatile:
		return "volatile"
	}
	if t.Upc == decl.UpcShared {
		return "shared"
	}
	return t.Upc.String() + " shared"
}

func (p *printer) typeName(t *decl.Type, scope decl.ScopeID) string {
	switch t.Kind {
	case decl.Void:
		return "void"
	case decl.Scalar:
		return t.Name
	case decl.Named:
		d := p.tree.Decl(t.Decl)
		if d == nil {
			return UnknownTypeName
		}
		return p.refName(d, scope)
	default:
		if t.Name != "" {
			return t.Name
		}
		return UnknownTypeName
	}
}

// refName names a declaration used as a type from scope.
func (p *printer) refName(d *decl.Decl, scope decl.ScopeID) string {
	name := d.Name
	if !p.c && !p.tree.Within(scope, d.Scope) {
		name = p.tree.QualifiedName(d.ID)
	}
	if p.c {
		switch d.Kind {
		case decl.Struct, decl.Class:
			return "struct " + name
		case decl.Union:
			return "union " + name
		case decl.Enum:
			return "enum " + name
		}
	}
	return name
}

// declName names a declaration at its point of declaration. A declaration
// written outside its own scope, such as an out-of-line definition, is
// qualified.
func (p *printer) declName(d *decl.Decl, scope decl.ScopeID) string {
	if p.c || d.Scope == scope {
		return d.Name
	}
	return p.tree.QualifiedName(d.ID)
}
