// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gosrc

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"strconv"
	"testing"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/synth"
	unit "github.com/petar-djukic/go-undwarf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summary indexes the declarations of generated source by name.
type summary struct {
	pkg     string
	imports []string
	types   map[string]string            // type name -> type expression
	fields  map[string]map[string]string // struct name -> field name -> type
	values  map[string]string            // const and var name -> declared type
	funcs   map[string]*ast.FuncDecl
}

func parse(t *testing.T, src []byte) summary {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	require.NoError(t, err, string(src))

	s := summary{
		pkg:    f.Name.Name,
		types:  make(map[string]string),
		fields: make(map[string]map[string]string),
		values: make(map[string]string),
		funcs:  make(map[string]*ast.FuncDecl),
	}
	for _, imp := range f.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		s.imports = append(s.imports, path)
	}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			s.funcs[d.Name.Name] = d
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					s.types[spec.Name.Name] = types.ExprString(spec.Type)
					if st, ok := spec.Type.(*ast.StructType); ok {
						fields := make(map[string]string)
						for _, fld := range st.Fields.List {
							name := types.ExprString(fld.Type)
							if len(fld.Names) > 0 {
								name = fld.Names[0].Name
							}
							fields[name] = types.ExprString(fld.Type)
						}
						s.fields[spec.Name.Name] = fields
					}
				case *ast.ValueSpec:
					for _, n := range spec.Names {
						s.values[n.Name] = types.ExprString(spec.Type)
					}
				}
			}
		}
	}
	return s
}

func TestRender_SynthesizedUnit(t *testing.T) {
	u := &unit.Unit{
		Name: "node.c",
		Constructs: []*unit.Construct{
			{Kind: unit.KindBaseType, Offset: 1, Name: "int"},
			{Kind: unit.KindPointer, Offset: 2, TypeRef: "<3>"},
			{
				Kind: unit.KindStruct, Offset: 3, Name: "Node",
				Children: []*unit.Construct{
					{Kind: unit.KindMember, Offset: 4, Name: "next", TypeRef: "<2>"},
					{Kind: unit.KindMember, Offset: 5, Name: "value", TypeRef: "<1>"},
				},
			},
			{Kind: unit.KindSubprogram, Offset: 6, Name: "count", TypeRef: "<1>"},
		},
	}
	res, err := synth.Synthesize(u, synth.Options{Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	src, err := Render(res.Tree, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by undwarf from node.c. DO NOT EDIT.")

	s := parse(t, src)
	assert.Equal(t, DefaultPackage, s.pkg)
	assert.Empty(t, s.imports)
	assert.Equal(t, map[string]string{"next": "*Node", "value": "int32"}, s.fields["Node"])
	require.Contains(t, s.funcs, "count")
	assert.Nil(t, s.funcs["count"].Body)
	assert.Equal(t, "func() int32", types.ExprString(s.funcs["count"].Type))
}

func TestRender_FlattensScopes(t *testing.T) {
	tr := decl.NewTree("")
	global := tr.GlobalScope()
	intT := decl.ScalarType("int")
	double := decl.ScalarType("double")

	ns := tr.NewDecl(decl.Namespace, "geo", tr.Global)
	tr.NewBody(ns)
	global.Append(decl.Entry{Decl: ns.ID})

	circle := tr.NewDecl(decl.Class, "Circle", ns.Body)
	tr.NewBody(circle)
	tr.Scope(ns.Body).Append(decl.Entry{Decl: circle.ID})
	body := tr.Scope(circle.Body)

	color := tr.NewDecl(decl.Enum, "Color", circle.Body)
	color.Enumerators = []decl.Enumerator{{Name: "Red", Value: 0}, {Name: "Green", Value: 2}}
	radius := tr.NewDecl(decl.Member, "radius", circle.Body)
	radius.Type = double
	tail := tr.NewDecl(decl.Member, "tail", circle.Body)
	tail.Type = &decl.Type{Kind: decl.Array, Len: decl.Unsized, Elem: intT}
	area := tr.NewDecl(decl.Function, "area", circle.Body)
	area.Return = double
	ctor := tr.NewDecl(decl.Function, "Circle", circle.Body)
	ctor.Special = decl.Constructor
	count := tr.NewDecl(decl.Variable, "count", circle.Body)
	count.Type = intT
	count.Static = true
	for _, d := range []*decl.Decl{color, radius, tail, area, ctor, count} {
		body.Append(decl.Entry{Decl: d.ID})
	}

	handle := tr.NewDecl(decl.Typedef, "handle_t", tr.Global)
	handle.Aliased = decl.PointerTo(&decl.Type{Kind: decl.Const, Elem: decl.VoidType()})
	cb := tr.NewDecl(decl.Typedef, "cb", tr.Global)
	cb.Aliased = decl.PointerTo(&decl.Type{Kind: decl.FunctionType, Return: intT, Variadic: true,
		Params: []decl.Param{{Type: intT}}})
	keyword := tr.NewDecl(decl.Variable, "type", tr.Global)
	keyword.Type = decl.ReferenceTo(decl.NamedType(circle.ID))
	for _, d := range []*decl.Decl{handle, cb, keyword} {
		global.Append(decl.Entry{Decl: d.ID})
	}

	src, err := Render(tr, Options{Package: "geo"})
	require.NoError(t, err)
	s := parse(t, src)

	assert.Equal(t, "geo", s.pkg)
	assert.Equal(t, []string{"unsafe"}, s.imports)
	assert.Equal(t, map[string]string{"radius": "float64", "tail": "[0]int32"}, s.fields["geo_Circle"])
	assert.Equal(t, "int32", s.types["geo_Circle_Color"])
	assert.Equal(t, "geo_Circle_Color", s.values["geo_Circle_Red"])
	assert.Equal(t, "geo_Circle_Color", s.values["geo_Circle_Green"])
	assert.Equal(t, "int32", s.values["geo_Circle_count"])
	assert.Equal(t, "unsafe.Pointer", s.types["handle_t"])
	assert.Equal(t, "func(p0 int32, args ...any) int32", s.types["cb"])
	assert.Equal(t, "*geo_Circle", s.values["type_"])

	require.Contains(t, s.funcs, "area")
	require.NotNil(t, s.funcs["area"].Recv)
	assert.Equal(t, "*geo_Circle", types.ExprString(s.funcs["area"].Recv.List[0].Type))
	assert.NotContains(t, s.funcs, "Circle")
}

func TestRender_BasesAreEmbedded(t *testing.T) {
	tr := decl.NewTree("")
	base := tr.NewDecl(decl.Struct, "Base", tr.Global)
	tr.NewBody(base)
	derived := tr.NewDecl(decl.Struct, "Derived", tr.Global)
	tr.NewBody(derived)
	b := tr.NewDecl(decl.BaseClass, "Base", derived.Body)
	b.Base = base.ID
	derived.Bases = []decl.ID{b.ID}
	alias := tr.NewDecl(decl.Typedef, "Derived", tr.Global)
	alias.Aliased = decl.NamedType(derived.ID)
	for _, d := range []*decl.Decl{base, derived, alias} {
		tr.GlobalScope().Append(decl.Entry{Decl: d.ID})
	}

	src, err := Render(tr, Options{})
	require.NoError(t, err)
	s := parse(t, src)
	assert.Equal(t, map[string]string{"Base": "Base"}, s.fields["Derived"])
	assert.Len(t, s.types, 2)
}

func TestIdent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"value", "value"},
		{"type", "type_"},
		{"func", "func_"},
		{"int32", "int32_"},
		{"operator==", "operator__"},
		{"9lives", "_9lives"},
		{"", "_"},
		{"_UNNAMED_STRUCT_0_", "_UNNAMED_STRUCT_0_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Ident(tt.in))
		})
	}
}
