// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scalar is the fixed table of base scalar type names. It maps the
// spellings compilers emit for base types onto one canonical C/C++ spelling
// and the Go type used when declarations are rendered as Go.
package scalar

import (
	"strings"
)

// Info describes one base scalar type.
type Info struct {
	Name string // Canonical C/C++ spelling
	Go   string // Go rendering
}

var table = map[string]Info{}

func add(goName string, spellings ...string) {
	info := Info{Name: spellings[0], Go: goName}
	for _, s := range spellings {
		table[s] = info
	}
}

func init() {
	add("bool", "bool", "_Bool")
	add("int8", "char")
	add("float64", "double")
	add("float32", "float")
	add("int32", "int", "signed", "signed int", "int signed")
	add("int64", "long", "long int", "signed long", "signed long int", "long signed int")
	add("float64", "long double")
	add("int64", "long long", "long long int", "signed long long", "signed long long int", "long long signed int")
	add("int16", "short", "short int", "signed short", "signed short int", "short signed int")
	add("", "void")
	add("int32", "wchar_t")
	add("uint16", "char16_t")
	add("uint32", "char32_t")
	add("uint8", "char8_t")
	add("int8", "signed char")
	add("uint8", "unsigned char")
	add("uint32", "unsigned int", "unsigned")
	add("uint64", "unsigned long", "unsigned long int", "long unsigned int")
	add("uint64", "unsigned long long", "unsigned long long int", "long long unsigned int")
	add("uint16", "unsigned short", "unsigned short int", "short unsigned int")
	add("complex64", "complex float", "float complex")
	add("complex128", "complex double", "double complex")
}

// Lookup returns the scalar type spelled name. Runs of whitespace are
// collapsed before the lookup.
func Lookup(name string) (Info, bool) {
	info, ok := table[strings.Join(strings.Fields(name), " ")]
	return info, ok
}

// IsVoid reports whether name spells void.
func IsVoid(name string) bool {
	return strings.TrimSpace(name) == "void"
}
