// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamer_UniqueAcrossKinds(t *testing.T) {
	n := NewNamer()
	kinds := []AnonKind{AnonStruct, AnonUnion, AnonEnum, AnonClass, AnonNamespace, AnonFuncPtr, AnonStruct, AnonStruct}

	seen := make(map[string]bool)
	for _, k := range kinds {
		name := n.Next(k)
		assert.False(t, seen[name], "duplicate name %s", name)
		assert.True(t, IsSynthetic(name))
		seen[name] = true
	}
	assert.Equal(t, len(kinds), n.Issued())
}

func TestNamer_Format(t *testing.T) {
	n := NewNamer()
	assert.Equal(t, "_UNNAMED_STRUCT_0_", n.Next(AnonStruct))
	assert.Equal(t, "_UNNAMED_ENUM_1_", n.Next(AnonEnum))

	other := NewNamer()
	assert.Equal(t, "_UNNAMED_UNION_0_", other.Next(AnonUnion))
}

func TestClassifyFunction(t *testing.T) {
	tests := []struct {
		name      string
		className string
		want      FuncKind
	}{
		{"Widget", "Widget", Constructor},
		{"Widget", "", Plain},
		{"~Widget", "Widget", Destructor},
		{"operator=", "Widget", Operator},
		{"operator+=", "", Operator},
		{"operator>=", "", Operator},
		{"operator()", "Widget", Operator},
		{"operator[]", "Widget", Operator},
		{"operator new", "", Operator},
		{"operator delete[]", "", Operator},
		{"operator<=>", "", Operator},
		{"operator bool", "Widget", Cast},
		{"operator int*", "Widget", Cast},
		{"operatorCount", "Widget", Plain},
		{"operator", "", Plain},
		{"size", "Widget", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFunction(tt.name, tt.className))
		})
	}
}

func TestIsTemplateInstance(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"vector<int>", true},
		{"map<int, std::string>", true},
		{"less<int>::operator()", true},
		{"operator<", false},
		{"operator<<", false},
		{"operator<=>", false},
		{"a<b", false},
		{"plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTemplateInstance(tt.name))
		})
	}
}
