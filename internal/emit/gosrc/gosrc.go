// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gosrc renders a synthesized declaration tree as Go type
// declarations. Records become structs, enums become integer types with a
// constant block, and functions become declarations without bodies.
// Nested scopes are flattened: a declaration's Go name is its qualified
// name with "::" replaced by "_".
package gosrc

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/scalar"
)

// DefaultPackage names the generated package when Options leaves it empty.
const DefaultPackage = "undwarf"

// Options controls rendering.
type Options struct {
	Package string
}

// Render returns gofmt-formatted Go source declaring the types, variables
// and functions of t.
func Render(t *decl.Tree, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	g := &generator{tree: t, done: make(map[decl.ID]bool)}
	g.scope(t.Global)

	fset := token.NewFileSet()
	file := &ast.File{Name: ast.NewIdent(Ident(pkg)), Decls: g.decls}
	if g.unsafe {
		astutil.AddImport(fset, file, "unsafe")
	}

	var buf bytes.Buffer
	if t.Unit != "" {
		fmt.Fprintf(&buf, "// Code generated by undwarf from %s. DO NOT EDIT.\n\n", t.Unit)
	}
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return buf.Bytes(), nil
}

type generator struct {
	tree   *decl.Tree
	decls  []ast.Decl
	done   map[decl.ID]bool
	unsafe bool // unsafe.Pointer was used
}

func (g *generator) scope(id decl.ScopeID) {
	for _, e := range g.tree.Scope(id).Entries() {
		if e.Role == decl.Comment || g.done[e.Decl] {
			continue
		}
		g.done[e.Decl] = true
		g.decl(g.tree.Decl(e.Decl))
	}
}

func (g *generator) decl(d *decl.Decl) {
	switch d.Kind {
	case decl.Struct, decl.Union, decl.Class:
		g.record(d)
	case decl.Enum:
		g.enum(d)
	case decl.Typedef:
		g.typedef(d)
	case decl.Namespace:
		g.scope(d.Body)
	case decl.Function:
		g.function(d)
	case decl.Variable:
		g.variable(d)
	}
}

func (g *generator) typeDecl(name string, typ ast.Expr) {
	g.decls = append(g.decls, &ast.GenDecl{
		Tok:   token.TYPE,
		Specs: []ast.Spec{&ast.TypeSpec{Name: ast.NewIdent(name), Type: typ}},
	})
}

// record declares a struct. Base classes are embedded ahead of the data
// members; functions and static members of the body are declared after it.
func (g *generator) record(d *decl.Decl) {
	fields := &ast.FieldList{}
	for _, id := range d.Bases {
		if b := g.tree.Decl(id); b != nil && g.tree.Decl(b.Base) != nil {
			fields.List = append(fields.List, &ast.Field{Type: ast.NewIdent(g.name(b.Base))})
		}
	}

	var nested []*decl.Decl
	if d.Body != decl.NoScope {
		for _, e := range g.tree.Scope(d.Body).Entries() {
			if e.Role == decl.Comment {
				continue
			}
			m := g.tree.Decl(e.Decl)
			if m.Kind != decl.Member {
				nested = append(nested, m)
				continue
			}
			f := &ast.Field{Type: g.expr(m.Type)}
			if m.Name != "" {
				f.Names = []*ast.Ident{ast.NewIdent(Ident(m.Name))}
			}
			fields.List = append(fields.List, f)
		}
	}
	g.typeDecl(g.name(d.ID), &ast.StructType{Fields: fields})

	for _, m := range nested {
		if g.done[m.ID] {
			continue
		}
		g.done[m.ID] = true
		g.decl(m)
	}
}

func (g *generator) enum(d *decl.Decl) {
	name := g.name(d.ID)
	g.typeDecl(name, ast.NewIdent("int32"))
	if len(d.Enumerators) == 0 {
		return
	}

	prefix := ""
	if owner := g.tree.Owner(d.Scope); owner != nil {
		prefix = g.name(owner.ID) + "_"
	}
	block := &ast.GenDecl{Tok: token.CONST}
	for _, e := range d.Enumerators {
		block.Specs = append(block.Specs, &ast.ValueSpec{
			Names:  []*ast.Ident{ast.NewIdent(Ident(prefix + e.Name))},
			Type:   ast.NewIdent(name),
			Values: []ast.Expr{intLit(e.Value)},
		})
	}
	g.decls = append(g.decls, block)
}

// typedef declares a defined type. A typedef that names its target's own Go
// name, as in typedef struct T T, declares nothing.
func (g *generator) typedef(d *decl.Decl) {
	name := g.name(d.ID)
	if t := d.Aliased; t != nil && t.Kind == decl.Named && g.name(t.Decl) == name {
		return
	}
	g.typeDecl(name, g.expr(d.Aliased))
}

func (g *generator) variable(d *decl.Decl) {
	g.decls = append(g.decls, &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{&ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(g.name(d.ID))},
			Type:  g.expr(d.Type),
		}},
	})
}

// function declares a function without a body. Member functions with an
// object parameter become methods on a pointer receiver. Constructors,
// destructors and operators have no Go form and are skipped.
func (g *generator) function(d *decl.Decl) {
	if d.Special != decl.Ordinary {
		return
	}
	fn := &ast.FuncDecl{
		Name: ast.NewIdent(g.name(d.ID)),
		Type: g.funcType(d.Return, d.Params, d.Variadic),
	}
	if rec := g.tree.EnclosingRecord(d.Scope); rec != nil && !d.Static {
		fn.Name = ast.NewIdent(Ident(d.Name))
		fn.Recv = &ast.FieldList{List: []*ast.Field{{
			Names: []*ast.Ident{ast.NewIdent("recv")},
			Type:  &ast.StarExpr{X: ast.NewIdent(g.name(rec.ID))},
		}}}
	}
	g.decls = append(g.decls, fn)
}

func (g *generator) funcType(ret *decl.Type, params []decl.Param, variadic bool) *ast.FuncType {
	ft := &ast.FuncType{Params: &ast.FieldList{}}
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = "p" + strconv.Itoa(i)
		}
		ft.Params.List = append(ft.Params.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(Ident(name))},
			Type:  g.expr(p.Type),
		})
	}
	if variadic {
		ft.Params.List = append(ft.Params.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent("args")},
			Type:  &ast.Ellipsis{Elt: ast.NewIdent("any")},
		})
	}
	if ret != nil && ret.Kind != decl.Void {
		ft.Results = &ast.FieldList{List: []*ast.Field{{Type: g.expr(ret)}}}
	}
	return ft
}

// expr converts a type. Qualifiers have no Go form and are dropped;
// references become pointers.
func (g *generator) expr(t *decl.Type) ast.Expr {
	if t == nil {
		return ast.NewIdent("any")
	}
	switch t.Kind {
	case decl.Scalar:
		if info, ok := scalar.Lookup(t.Name); ok && info.Go != "" {
			return ast.NewIdent(info.Go)
		}
		return ast.NewIdent("any")
	case decl.Named:
		return ast.NewIdent(g.name(t.Decl))
	case decl.Pointer, decl.Reference, decl.RvalueReference:
		switch target := stripQualifiers(t.Elem); target.Kind {
		case decl.FunctionType:
			// Go func values are already references.
			return g.expr(target)
		case decl.Void, decl.Unknown:
			g.unsafe = true
			return &ast.SelectorExpr{X: ast.NewIdent("unsafe"), Sel: ast.NewIdent("Pointer")}
		}
		return &ast.StarExpr{X: g.expr(t.Elem)}
	case decl.Const, decl.Volatile, decl.Upc:
		return g.expr(t.Elem)
	case decl.Array:
		n := t.Len
		if n == decl.Unsized {
			n = 0
		}
		return &ast.ArrayType{Len: intLit(n), Elt: g.expr(t.Elem)}
	case decl.FunctionType:
		return g.funcType(t.Return, t.Params, t.Variadic)
	default:
		return ast.NewIdent("any")
	}
}

func stripQualifiers(t *decl.Type) *decl.Type {
	for t != nil && (t.Kind == decl.Const || t.Kind == decl.Volatile || t.Kind == decl.Upc) {
		t = t.Elem
	}
	if t == nil {
		return decl.VoidType()
	}
	return t
}

func (g *generator) name(id decl.ID) string {
	return Ident(strings.ReplaceAll(g.tree.QualifiedName(id), "::", "_"))
}

func intLit(v int64) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(v, 10)}
}

// Ident turns a C or C++ name into a valid Go identifier. Characters Go
// does not allow become underscores and keywords get a trailing underscore.
func Ident(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if token.IsKeyword(s) || predeclared[s] {
		s += "_"
	}
	return s
}

// predeclared are identifiers that would shadow the Go types the generated
// code refers to.
var predeclared = map[string]bool{
	"any": true, "bool": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true, "unsafe": true,
}
