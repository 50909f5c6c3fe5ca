// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/petar-djukic/go-undwarf/internal/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointTree() *decl.Tree {
	tr := decl.NewTree("point.cpp")
	point := tr.NewDecl(decl.Class, "Point", tr.Global)
	tr.NewBody(point)
	tr.GlobalScope().Append(decl.Entry{Role: decl.Forward, Decl: point.ID})
	tr.GlobalScope().Append(decl.Entry{Decl: point.ID})

	x := tr.NewDecl(decl.Member, "x", point.Body)
	x.Type = decl.ScalarType("int")
	x.Access = decl.Private
	norm := tr.NewDecl(decl.Function, "norm", point.Body)
	norm.Return = decl.ScalarType("double")
	norm.Virtuality = decl.Virtual
	tr.Scope(point.Body).Append(decl.Entry{Decl: x.ID})
	tr.Scope(point.Body).Append(decl.Entry{Decl: norm.ID})

	tr.GlobalScope().Append(decl.Entry{Role: decl.Comment, Text: "skipped"})
	return tr
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"cpp", FormatCpp, false},
		{" C++ ", FormatCpp, false},
		{"c", FormatCpp, false},
		{"go", FormatGo, false},
		{"JSON", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Formats(t *testing.T) {
	tr := pointTree()

	out, err := Render(tr, FormatCpp, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "class Point;\nclass Point {\n    int x;\npublic:\n    virtual double norm();\n};\n")

	out, err = Render(tr, FormatGo, Options{Package: "pt"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "package pt")
	assert.Contains(t, string(out), "func (recv *Point) norm() float64")

	_, err = Render(tr, Format("xml"), Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDocument(t *testing.T) {
	out, err := Render(pointTree(), FormatJSON, Options{})
	require.NoError(t, err)

	var doc TreeDoc
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "point.cpp", doc.Unit)
	require.Len(t, doc.Global.Entries, 3)

	fwd, def, comment := doc.Global.Entries[0], doc.Global.Entries[1], doc.Global.Entries[2]
	assert.Equal(t, "forward", fwd.Role)
	assert.Nil(t, fwd.Decl.Body)
	assert.Equal(t, "definition", def.Role)
	require.NotNil(t, def.Decl.Body)
	assert.Equal(t, "comment", comment.Role)
	assert.Equal(t, "skipped", comment.Text)
	assert.Nil(t, comment.Decl)

	members := def.Decl.Body.Entries
	require.Len(t, members, 2)
	assert.Equal(t, "int", members[0].Decl.Type)
	assert.Equal(t, "private", members[0].Decl.Access)
	assert.Equal(t, "Point::x", members[0].Decl.Qualified)
	assert.Equal(t, "double ()", members[1].Decl.Type)
	assert.Equal(t, "virtual", members[1].Decl.Virtuality)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "decls.h")
	require.NoError(t, WriteFile(path, []byte("struct A;\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "struct A;\n", string(got))

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, WriteFile(path, []byte("struct B;\n")))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_NewFileModeAndFailureCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.hpp")
	require.NoError(t, WriteFile(path, []byte("class C;\n")))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))
	assert.Error(t, WriteFile(target, []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"fresh.hpp", "taken"}, names)
}
