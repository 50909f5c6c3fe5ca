// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Clean(t *testing.T) {
	tests := []struct {
		name string
		src  string
		c    bool
	}{
		{
			name: "cpp",
			src: `namespace geo {
class Shape {
public:
    virtual double area() = 0;
};
}
namespace other {
struct Shape {
    int (*cb)(int);
};
}
`,
		},
		{
			name: "c",
			c:    true,
			src: `struct Node {
    struct Node *next;
    int value;
};
int count(void);
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems, err := Source(context.Background(), []byte(tt.src), tt.c)
			require.NoError(t, err)
			assert.Empty(t, problems)
		})
	}
}

func TestSource_SyntaxError(t *testing.T) {
	src := "struct A {\n    int x\n};\nstruct B { int y; };\n"
	problems, err := Source(context.Background(), []byte(src), false)
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Equal(t, 2, problems[0].Line)
}

func TestSource_DuplicateRecord(t *testing.T) {
	src := "struct A { int x; };\nnamespace n { struct A { int y; }; }\nstruct A { int z; };\n"
	problems, err := Source(context.Background(), []byte(src), false)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, 3, problems[0].Line)
	assert.Contains(t, problems[0].Message, "A defined more than once")
}

func TestProblem_String(t *testing.T) {
	assert.Equal(t, "3:8: missing ;", Problem{Line: 3, Column: 8, Message: "missing ;"}.String())
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "int  x;\n", "int x;"},
		{"ascii cut", strings.Repeat("a", 50), strings.Repeat("a", 37) + "..."},
		{"multibyte cut", strings.Repeat("é", 50), strings.Repeat("é", 37) + "..."},
		{"exactly forty", strings.Repeat("ж", 40), strings.Repeat("ж", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippet(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
