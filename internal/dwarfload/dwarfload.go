// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dwarfload reads the DWARF debug information of an ELF or Mach-O
// binary into construct units, one per compilation unit.
package dwarfload

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"errors"
	"fmt"
	"io"

	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// ErrNoDebugInfo is returned when a binary carries no DWARF sections.
var ErrNoDebugInfo = errors.New("no DWARF debug information")

// Vendor tags for Unified Parallel C qualifiers.
const (
	tagUpcSharedType  dwarf.Tag = 0x8765
	tagUpcStrictType  dwarf.Tag = 0x8766
	tagUpcRelaxedType dwarf.Tag = 0x8767
)

// Open reads every compilation unit of the binary at path.
func Open(path string) ([]*types.Unit, error) {
	data, err := debugData(path)
	if err != nil {
		return nil, err
	}
	units, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

func debugData(path string) (*dwarf.Data, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		d, err := f.DWARF()
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", path, ErrNoDebugInfo, err)
		}
		return d, nil
	}
	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: not an ELF or Mach-O binary: %w", path, err)
	}
	defer f.Close()
	d, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNoDebugInfo, err)
	}
	return d, nil
}

// Read converts the compilation units of already opened DWARF data.
func Read(d *dwarf.Data) ([]*types.Unit, error) {
	var units []*types.Unit
	r := d.Reader()
	for {
		e, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading entry: %w", err)
		}
		if e == nil {
			break
		}
		if e.Tag != dwarf.TagCompileUnit && e.Tag != dwarf.TagPartialUnit {
			if e.Children {
				r.SkipChildren()
			}
			continue
		}

		u := &types.Unit{
			Name:        stringAttr(e, dwarf.AttrName),
			Producer:    stringAttr(e, dwarf.AttrProducer),
			AddressSize: r.AddressSize(),
			Language:    int(intAttr(e, dwarf.AttrLanguage)),
		}
		if e.Children {
			if u.Constructs, err = readChildren(r); err != nil {
				return nil, fmt.Errorf("unit %s: %w", u.Name, err)
			}
		}
		units = append(units, u)
	}
	return units, nil
}

// readChildren reads sibling entries up to the terminating null entry.
// Lexical blocks are flattened into their parent.
func readChildren(r *dwarf.Reader) ([]*types.Construct, error) {
	var out []*types.Construct
	for {
		e, err := r.Next()
		if err != nil {
			return nil, err
		}
		if e == nil || e.Tag == 0 {
			return out, nil
		}

		var children []*types.Construct
		if e.Children {
			if children, err = readChildren(r); err != nil {
				return nil, err
			}
		}
		if e.Tag == dwarf.TagLexDwarfBlock {
			out = append(out, children...)
			continue
		}
		c := Convert(e)
		c.Children = children
		out = append(out, c)
	}
}

// Convert maps one DWARF entry, without its children, onto a construct.
func Convert(e *dwarf.Entry) *types.Construct {
	c := &types.Construct{
		Kind:          KindOf(e.Tag),
		Offset:        types.Offset(e.Offset),
		Name:          stringAttr(e, dwarf.AttrName),
		TypeRef:       refAttr(e, dwarf.AttrType),
		SpecRef:       refAttr(e, dwarf.AttrSpecification),
		BitSize:       intAttr(e, dwarf.AttrBitSize),
		ConstValue:    intAttr(e, dwarf.AttrConstValue),
		Accessibility: int(intAttr(e, dwarf.AttrAccessibility)),
		Virtuality:    int(intAttr(e, dwarf.AttrVirtuality)),
		Artificial:    boolAttr(e, dwarf.AttrArtificial),
		Declaration:   boolAttr(e, dwarf.AttrDeclaration),
		External:      boolAttr(e, dwarf.AttrExternal),
	}
	if c.Kind == types.KindUnknown {
		c.Tag = e.Tag.String()
	}
	if c.Kind == types.KindInheritance {
		c.Virtual = c.Virtuality != types.VirtualityNone
	}
	if v, ok := e.Val(dwarf.AttrUpperBound).(int64); ok {
		c.UpperBound, c.HasUpperBound = v, true
	}
	if v, ok := e.Val(dwarf.AttrCount).(int64); ok {
		c.Count, c.HasCount = v, true
	}
	return c
}

// KindOf maps a DWARF tag to a construct kind.
func KindOf(tag dwarf.Tag) types.Kind {
	switch tag {
	case dwarf.TagBaseType:
		return types.KindBaseType
	case dwarf.TagPointerType:
		return types.KindPointer
	case dwarf.TagReferenceType:
		return types.KindReference
	case dwarf.TagRvalueReferenceType:
		return types.KindRvalueReference
	case dwarf.TagConstType:
		return types.KindConst
	case dwarf.TagVolatileType:
		return types.KindVolatile
	case dwarf.TagTypedef:
		return types.KindTypedef
	case dwarf.TagEnumerationType:
		return types.KindEnumeration
	case dwarf.TagEnumerator:
		return types.KindEnumerator
	case dwarf.TagStructType:
		return types.KindStruct
	case dwarf.TagUnionType:
		return types.KindUnion
	case dwarf.TagClassType:
		return types.KindClass
	case dwarf.TagArrayType:
		return types.KindArray
	case dwarf.TagSubrangeType:
		return types.KindSubrange
	case dwarf.TagSubroutineType:
		return types.KindSubroutine
	case dwarf.TagSubprogram:
		return types.KindSubprogram
	case dwarf.TagFormalParameter:
		return types.KindFormalParameter
	case dwarf.TagUnspecifiedParameters:
		return types.KindUnspecifiedParameters
	case dwarf.TagMember:
		return types.KindMember
	case dwarf.TagInheritance:
		return types.KindInheritance
	case dwarf.TagNamespace:
		return types.KindNamespace
	case dwarf.TagVariable:
		return types.KindVariable
	case dwarf.TagSharedType, tagUpcSharedType:
		return types.KindUpcShared
	case tagUpcStrictType:
		return types.KindUpcStrict
	case tagUpcRelaxedType:
		return types.KindUpcRelaxed
	default:
		return types.KindUnknown
	}
}

func stringAttr(e *dwarf.Entry, a dwarf.Attr) string {
	s, _ := e.Val(a).(string)
	return s
}

func intAttr(e *dwarf.Entry, a dwarf.Attr) int64 {
	switch v := e.Val(a).(type) {
	case int64:
		return v
	case uint64:
		return int64(v)
	}
	return 0
}

func boolAttr(e *dwarf.Entry, a dwarf.Attr) bool {
	b, _ := e.Val(a).(bool)
	return b
}

func refAttr(e *dwarf.Entry, a dwarf.Attr) types.Ref {
	if off, ok := e.Val(a).(dwarf.Offset); ok {
		return types.RefTo(types.Offset(off))
	}
	return types.NoRef
}
