// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cpp

import (
	"log/slog"
	"testing"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/petar-djukic/go-undwarf/internal/synth"
	"github.com/petar-djukic/go-undwarf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeUnit() *types.Unit {
	return &types.Unit{
		Name: "node.c",
		Constructs: []*types.Construct{
			{Kind: types.KindBaseType, Offset: 1, Name: "int"},
			{Kind: types.KindPointer, Offset: 2, TypeRef: "<3>"},
			{
				Kind: types.KindStruct, Offset: 3, Name: "Node",
				Children: []*types.Construct{
					{Kind: types.KindMember, Offset: 4, Name: "next", TypeRef: "<2>"},
					{Kind: types.KindMember, Offset: 5, Name: "value", TypeRef: "<1>"},
				},
			},
			{Kind: types.KindSubprogram, Offset: 6, Name: "count", TypeRef: "<1>"},
		},
	}
}

func TestRender_SelfReferentialStruct(t *testing.T) {
	res, err := synth.Synthesize(nodeUnit(), synth.Options{Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "cpp",
			want: "// unit: node.c\n" +
				"struct Node {\n" +
				"    Node *next;\n" +
				"    int value;\n" +
				"};\n" +
				"int count();\n",
		},
		{
			name: "c",
			opts: Options{C: true, Indent: "\t"},
			want: "// unit: node.c\n" +
				"struct Node {\n" +
				"\tstruct Node *next;\n" +
				"\tint value;\n" +
				"};\n" +
				"int count(void);\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(res.Tree, tt.opts))
		})
	}
}

func TestDeclare(t *testing.T) {
	tr := decl.NewTree("")
	s := tr.NewDecl(decl.Struct, "S", tr.Global)

	intT := decl.ScalarType("int")
	charT := decl.ScalarType("char")
	tests := []struct {
		name  string
		typ   *decl.Type
		inner string
		want  string
	}{
		{"pointer", decl.PointerTo(intT), "p", "int *p"},
		{"const pointer", &decl.Type{Kind: decl.Const, Elem: decl.PointerTo(intT)}, "p", "int *const p"},
		{"pointer to const", decl.PointerTo(&decl.Type{Kind: decl.Const, Elem: charT}), "p", "const char *p"},
		{"function pointer", decl.PointerTo(&decl.Type{Kind: decl.FunctionType, Return: intT, Params: []decl.Param{{Type: intT}}}), "cb", "int (*cb)(int)"},
		{"array of pointers", &decl.Type{Kind: decl.Array, Len: 4, Elem: decl.PointerTo(charT)}, "argv", "char *argv[4]"},
		{"pointer to array", decl.PointerTo(&decl.Type{Kind: decl.Array, Len: 3, Elem: intT}), "m", "int (*m)[3]"},
		{"two dimensions", &decl.Type{Kind: decl.Array, Len: 2, Elem: &decl.Type{Kind: decl.Array, Len: 3, Elem: intT}}, "grid", "int grid[2][3]"},
		{"unsized", &decl.Type{Kind: decl.Array, Len: decl.Unsized, Elem: intT}, "tail", "int tail[]"},
		{"reference", decl.ReferenceTo(decl.NamedType(s.ID)), "r", "S &r"},
		{"abstract rvalue reference", &decl.Type{Kind: decl.RvalueReference, Elem: intT}, "", "int &&"},
		{"abstract const pointer", &decl.Type{Kind: decl.Const, Elem: decl.PointerTo(intT)}, "", "int *const"},
		{"variadic", &decl.Type{Kind: decl.FunctionType, Return: decl.VoidType(), Variadic: true,
			Params: []decl.Param{{Type: decl.PointerTo(&decl.Type{Kind: decl.Const, Elem: charT})}}}, "logf", "void logf(const char *, ...)"},
		{"upc shared", &decl.Type{Kind: decl.Upc, Upc: decl.UpcShared, Elem: intT}, "x", "shared int x"},
		{"upc strict", &decl.Type{Kind: decl.Upc, Upc: decl.UpcStrict, Elem: intT}, "x", "strict shared int x"},
		{"unknown", decl.UnknownType(""), "u", "__unknown_type u"},
		{"unknown spelling", decl.UnknownType("vector<int>"), "v", "vector<int> v"},
		{"nil is void", nil, "", "void"},
	}
	p := &printer{tree: tr, indent: defaultIndent}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.declare(tt.typ, tt.inner, tr.Global))
		})
	}
}

func TestRender_Classes(t *testing.T) {
	tr := decl.NewTree("shapes.cpp")
	global := tr.GlobalScope()
	double := decl.ScalarType("double")

	ns := tr.NewDecl(decl.Namespace, "geo", tr.Global)
	tr.NewBody(ns)
	global.Append(decl.Entry{Decl: ns.ID})
	nsScope := tr.Scope(ns.Body)

	shape := tr.NewDecl(decl.Class, "Shape", ns.Body)
	tr.NewBody(shape)
	nsScope.Append(decl.Entry{Decl: shape.ID})
	area := tr.NewDecl(decl.Function, "area", shape.Body)
	area.Return = double
	area.Virtuality = decl.PureVirtual
	tr.Scope(shape.Body).Append(decl.Entry{Decl: area.ID})

	circle := tr.NewDecl(decl.Class, "Circle", ns.Body)
	tr.NewBody(circle)
	nsScope.Append(decl.Entry{Decl: circle.ID})
	body := tr.Scope(circle.Body)
	base := tr.NewDecl(decl.BaseClass, "Shape", circle.Body)
	base.Base = shape.ID
	circle.Bases = []decl.ID{base.ID}

	radius := tr.NewDecl(decl.Member, "radius", circle.Body)
	radius.Type = double
	radius.Access = decl.Private
	ctor := tr.NewDecl(decl.Function, "Circle", circle.Body)
	ctor.Special = decl.Constructor
	ctor.Params = []decl.Param{{Name: "r", Type: double}}
	count := tr.NewDecl(decl.Variable, "count", circle.Body)
	count.Type = decl.ScalarType("int")
	count.Static = true
	flags := tr.NewDecl(decl.Member, "flags", circle.Body)
	flags.Type = decl.ScalarType("unsigned int")
	flags.BitWidth = 3
	flags.Access = decl.Private
	for _, d := range []*decl.Decl{radius, ctor, count, flags} {
		body.Append(decl.Entry{Decl: d.ID})
	}

	later := tr.NewDecl(decl.Struct, "Later", tr.Global)
	later.Forward = true
	global.Append(decl.Entry{Role: decl.Forward, Decl: later.ID})
	global.Append(decl.Entry{Role: decl.Comment, Text: "struct vector<int>: template instance not reconstructed"})

	anon := tr.NewDecl(decl.Namespace, "_UNNAMED_NAMESPACE_0_", tr.Global)
	anon.Anonymous = true
	tr.NewBody(anon)
	global.Append(decl.Entry{Decl: anon.ID})
	origin := tr.NewDecl(decl.Variable, "origin", anon.Body)
	origin.Type = decl.NamedType(circle.ID)
	tr.Scope(anon.Body).Append(decl.Entry{Decl: origin.ID})

	want := "// unit: shapes.cpp\n" +
		"namespace geo {\n" +
		"class Shape {\n" +
		"public:\n" +
		"    virtual double area() = 0;\n" +
		"};\n" +
		"class Circle : public Shape {\n" +
		"    double radius;\n" +
		"public:\n" +
		"    Circle(double r);\n" +
		"    static int count;\n" +
		"private:\n" +
		"    unsigned int flags : 3;\n" +
		"};\n" +
		"}\n" +
		"struct Later;\n" +
		"/* struct vector<int>: template instance not reconstructed */\n" +
		"namespace {\n" +
		"geo::Circle origin;\n" +
		"}\n"
	assert.Equal(t, want, Render(tr, Options{}))
}

func TestRender_OutOfLineDefinitionIsQualified(t *testing.T) {
	tr := decl.NewTree("")
	outer := tr.NewDecl(decl.Struct, "Outer", tr.Global)
	tr.NewBody(outer)
	tr.GlobalScope().Append(decl.Entry{Decl: outer.ID})

	inner := tr.NewDecl(decl.Struct, "Inner", outer.Body)
	tr.NewBody(inner)
	tr.Scope(outer.Body).Append(decl.Entry{Role: decl.Forward, Decl: inner.ID})
	tr.GlobalScope().Append(decl.Entry{Decl: inner.ID})
	x := tr.NewDecl(decl.Member, "x", inner.Body)
	x.Type = decl.ScalarType("int")
	tr.Scope(inner.Body).Append(decl.Entry{Decl: x.ID})

	want := "struct Outer {\n" +
		"    struct Inner;\n" +
		"};\n" +
		"struct Outer::Inner {\n" +
		"    int x;\n" +
		"};\n"
	assert.Equal(t, want, Render(tr, Options{}))
}
