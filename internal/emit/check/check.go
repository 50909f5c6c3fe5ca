// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package check re-parses emitted C and C++ declarations with tree-sitter
// and reports syntax errors and records defined twice in the same scope.
package check

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Problem is one defect found in emitted text.
type Problem struct {
	Line    int // 1-based
	Column  int // 1-based
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%d:%d: %s", p.Line, p.Column, p.Message)
}

// recordQ captures the name of every record with a body.
const recordQ = `
	(struct_specifier name: (_) @name body: (field_declaration_list))
	(union_specifier name: (_) @name body: (field_declaration_list))
	(class_specifier name: (_) @name body: (field_declaration_list))
`

// cRecordQ is recordQ for the C grammar, which has no classes.
const cRecordQ = `
	(struct_specifier name: (_) @name body: (field_declaration_list))
	(union_specifier name: (_) @name body: (field_declaration_list))
`

// Source parses src as C++ (or C when cDialect is set) and returns the
// problems found, in source order.
func Source(ctx context.Context, src []byte, cDialect bool) ([]Problem, error) {
	lang, query := cpp.GetLanguage(), recordQ
	if cDialect {
		lang, query = c.GetLanguage(), cRecordQ
	}
	root, err := sitter.ParseCtx(ctx, src, lang)
	if err != nil {
		return nil, fmt.Errorf("parsing emitted source: %w", err)
	}

	var problems []Problem
	walk(root, func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			problems = append(problems, at(n, fmt.Sprintf("missing %s", n.Type())))
		case n.Type() == "ERROR":
			problems = append(problems, at(n, fmt.Sprintf("syntax error near %q", snippet(n.Content(src)))))
		}
	})

	dups, err := duplicates(query, lang, root, src)
	if err != nil {
		return nil, err
	}
	problems = append(problems, dups...)

	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].Line != problems[j].Line {
			return problems[i].Line < problems[j].Line
		}
		return problems[i].Column < problems[j].Column
	})
	return problems, nil
}

// duplicates reports records defined more than once in the same scope.
func duplicates(pattern string, lang *sitter.Language, root *sitter.Node, src []byte) ([]Problem, error) {
	q, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("compiling record query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	seen := make(map[string]bool)
	var problems []Problem
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range m.Captures {
			key := scopeKey(capture.Node, src)
			if seen[key] {
				problems = append(problems, at(capture.Node, fmt.Sprintf("%s defined more than once", key)))
				continue
			}
			seen[key] = true
		}
	}
	return problems, nil
}

// scopeKey qualifies a record name with the namespaces and records around it.
func scopeKey(name *sitter.Node, src []byte) string {
	parts := []string{name.Content(src)}
	record := name.Parent()
	for n := record.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case "namespace_definition", "struct_specifier", "union_specifier", "class_specifier":
			if id := n.ChildByFieldName("name"); id != nil {
				parts = append(parts, id.Content(src))
			}
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func at(n *sitter.Node, msg string) Problem {
	p := n.StartPoint()
	return Problem{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Message: msg}
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > 40 {
		s = string([]rune(s)[:37]) + "..."
	}
	return s
}
