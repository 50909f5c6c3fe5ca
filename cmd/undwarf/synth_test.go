// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-undwarf/internal/emit"
)

const unitsDoc = `{
  "units": [
    {
      "name": "src/node.c",
      "language": 12,
      "constructs": [
        {"kind": "base_type", "offset": 1, "name": "int"},
        {"kind": "pointer", "offset": 2, "type": "<3>"},
        {"kind": "struct", "offset": 3, "name": "Node", "children": [
          {"kind": "member", "offset": 4, "name": "next", "type": "<2>"},
          {"kind": "member", "offset": 5, "name": "flags", "type": "<1>", "bit_size": 3}
        ]}
      ]
    },
    {
      "name": "src/shape.cpp",
      "language": 4,
      "constructs": [
        {"kind": "base_type", "offset": 1, "name": "double"},
        {"kind": "class", "offset": 2, "name": "Shape", "children": [
          {"kind": "member", "offset": 3, "name": "area", "type": "<1>", "accessibility": 1}
        ]}
      ]
    }
  ]
}`

const brokenDoc = `{"units": [{"name": "broken.c", "constructs": [
  {"kind": "base_type", "offset": 1, "name": "int"},
  {"kind": "array", "offset": 2, "type": "<1>"}
]}]}`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "units.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// synthesize runs the synth command with the given settings and returns
// its standard output.
func synthesize(t *testing.T, settings map[string]any, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("format", "cpp")
	viper.Set("package", "undwarf")
	for k, v := range settings {
		viper.Set(k, v)
	}

	var out bytes.Buffer
	cmd := newSynthCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSynth_CppPerLanguage(t *testing.T) {
	out, err := synthesize(t, map[string]any{"check": true, "strict": true}, writeDoc(t, unitsDoc))
	require.NoError(t, err)

	assert.Contains(t, out, "// unit: src/node.c\nstruct Node {\n    struct Node *next;\n    int flags : 3;\n};\n")
	assert.Contains(t, out, "// unit: src/shape.cpp\nclass Shape {\npublic:\n    double area;\n};\n")
}

func TestSynth_JSON(t *testing.T) {
	out, err := synthesize(t, map[string]any{"format": "json"}, writeDoc(t, unitsDoc))
	require.NoError(t, err)

	var docs []unitDoc
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "src/node.c", docs[0].Unit)
	assert.Equal(t, 2, docs[0].Stats.Declarations["member"])
	require.NotNil(t, docs[1].Tree)
	assert.Equal(t, "Shape", docs[1].Tree.Global.Entries[0].Decl.Name)
}

func TestSynth_Strict(t *testing.T) {
	doc := writeDoc(t, brokenDoc)

	out, err := synthesize(t, nil, doc)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = synthesize(t, map[string]any{"strict": true}, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 units aborted")
}

func TestSynth_GoNeedsDirectoryForManyUnits(t *testing.T) {
	doc := writeDoc(t, unitsDoc)

	_, err := synthesize(t, map[string]any{"format": "go"}, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs an output directory")

	dir := t.TempDir()
	_, err = synthesize(t, map[string]any{"format": "go", "output": dir}, doc)
	require.NoError(t, err)
	for _, name := range []string{"node.go", "shape.go"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "package undwarf")
	}
}

func TestFileName(t *testing.T) {
	used := make(map[string]int)
	tests := []struct {
		unit   string
		format emit.Format
		c      bool
		want   string
	}{
		{"src/node.c", emit.FormatCpp, true, "node.h"},
		{"lib/node.c", emit.FormatCpp, true, "node_2.h"},
		{"shape.cpp", emit.FormatCpp, false, "shape.hpp"},
		{"a b.cc", emit.FormatGo, false, "a_b.go"},
		{"", emit.FormatJSON, false, "unit.json"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(unitFile{unit: tt.unit, c: tt.c}, tt.format, used))
		})
	}
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}
