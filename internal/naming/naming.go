// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package naming assigns synthetic names to anonymous constructs and
// classifies function names (constructors, destructors, operators,
// conversions, template instantiations).
package naming

import (
	"fmt"
	"strings"
)

// AnonKind selects the infix of a synthesized name.
type AnonKind string

const (
	AnonStruct    AnonKind = "STRUCT"
	AnonUnion     AnonKind = "UNION"
	AnonClass     AnonKind = "CLASS"
	AnonEnum      AnonKind = "ENUM"
	AnonNamespace AnonKind = "NAMESPACE"
	AnonFuncPtr   AnonKind = "FUNCPTR"
)

// Namer hands out names for anonymous constructs from one counter. Every
// synthesis run owns its own Namer, so units never share a counter.
type Namer struct {
	next int
}

// NewNamer returns a Namer whose first name uses 0.
func NewNamer() *Namer {
	return &Namer{}
}

// Next returns a fresh "_UNNAMED_<KIND>_<n>_" name. Names are never reused.
func (n *Namer) Next(kind AnonKind) string {
	name := fmt.Sprintf("_UNNAMED_%s_%d_", kind, n.next)
	n.next++
	return name
}

// Issued returns how many names have been handed out.
func (n *Namer) Issued() int {
	return n.next
}

// IsSynthetic reports whether name was produced by a Namer.
func IsSynthetic(name string) bool {
	return strings.HasPrefix(name, "_UNNAMED_") && strings.HasSuffix(name, "_")
}

// FuncKind is the special role of a function name.
type FuncKind int

const (
	Plain FuncKind = iota
	Constructor
	Destructor
	Operator
	Cast
)

func (k FuncKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Destructor:
		return "destructor"
	case Operator:
		return "operator"
	case Cast:
		return "cast"
	default:
		return "plain"
	}
}

// standardOperators are the operator spellings, without "operator" and with
// spaces removed, that are not user-defined conversions.
var standardOperators = map[string]bool{
	",": true, "=": true, "+=": true, "-=": true, "&=": true, "|=": true,
	"*=": true, "/=": true, "%=": true, "^=": true, "<<=": true, ">>=": true,
	"||": true, "&&": true, "|": true, "^": true, "&": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true, "<=>": true,
	"<<": true, ">>": true, "+": true, "-": true, "*": true, "/": true, "%": true,
	".*": true, "->*": true, "++": true, "--": true, "~": true, "!": true,
	"[]": true, "->": true, ".": true, "()": true,
	"new": true, "delete": true, "new[]": true, "delete[]": true,
}

// ClassifyFunction returns the special role of a function named name whose
// enclosing class is className (empty when the function is not a member).
func ClassifyFunction(name, className string) FuncKind {
	switch {
	case className != "" && name == className:
		return Constructor
	case strings.HasPrefix(name, "~"):
		return Destructor
	case IsOperator(name):
		if IsCastOperator(name) {
			return Cast
		}
		return Operator
	}
	return Plain
}

// IsOperator reports whether name spells an operator function. "operator"
// must be followed by a symbol, a space, or nothing identifier-like, so a
// function called operatorCount is not an operator.
func IsOperator(name string) bool {
	rest, ok := strings.CutPrefix(name, "operator")
	if !ok || rest == "" {
		return false
	}
	r := rest[0]
	return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
}

// IsCastOperator reports whether an operator name is a user-defined
// conversion, that is any operator outside the standard token set.
func IsCastOperator(name string) bool {
	if !IsOperator(name) {
		return false
	}
	sym := strings.ReplaceAll(strings.TrimPrefix(name, "operator"), " ", "")
	return !standardOperators[sym]
}

// IsTemplateInstance reports whether name looks like a template instantiation.
// Such names are skipped: template arguments are not reconstructed.
func IsTemplateInstance(name string) bool {
	if IsOperator(name) {
		// operator< and operator<< are not instantiations.
		sym := strings.ReplaceAll(strings.TrimPrefix(name, "operator"), " ", "")
		if standardOperators[sym] {
			return false
		}
	}
	return strings.Contains(name, "<") && strings.Contains(name, ">")
}
