// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package load

import (
	"github.com/petar-djukic/go-undwarf/pkg/types"
)

// document mirrors #Document in constructs.cue.
type document struct {
	Units []unitDoc `json:"units"`
}

type unitDoc struct {
	Name        string         `json:"name"`
	Producer    string         `json:"producer,omitempty"`
	AddressSize int            `json:"address_size,omitempty"`
	Language    int            `json:"language,omitempty"`
	Constructs  []constructDoc `json:"constructs"`
}

type constructDoc struct {
	Kind          string         `json:"kind"`
	Tag           string         `json:"tag,omitempty"`
	Offset        uint64         `json:"offset"`
	Name          string         `json:"name,omitempty"`
	Type          string         `json:"type,omitempty"`
	Specification string         `json:"specification,omitempty"`
	BitSize       int64          `json:"bit_size,omitempty"`
	UpperBound    *int64         `json:"upper_bound,omitempty"`
	Count         *int64         `json:"count,omitempty"`
	ConstValue    int64          `json:"const_value,omitempty"`
	Accessibility int            `json:"accessibility,omitempty"`
	Virtuality    int            `json:"virtuality,omitempty"`
	Virtual       bool           `json:"virtual,omitempty"`
	Artificial    bool           `json:"artificial,omitempty"`
	Declaration   bool           `json:"declaration,omitempty"`
	External      bool           `json:"external,omitempty"`
	Children      []constructDoc `json:"children,omitempty"`
}

func (u unitDoc) unit() *types.Unit {
	out := &types.Unit{
		Name:        u.Name,
		Producer:    u.Producer,
		AddressSize: u.AddressSize,
		Language:    u.Language,
		Constructs:  make([]*types.Construct, 0, len(u.Constructs)),
	}
	for _, c := range u.Constructs {
		out.Constructs = append(out.Constructs, c.construct())
	}
	return out
}

func (d constructDoc) construct() *types.Construct {
	c := &types.Construct{
		Kind:          types.ParseKind(d.Kind),
		Tag:           d.Tag,
		Offset:        types.Offset(d.Offset),
		Name:          d.Name,
		TypeRef:       types.Ref(d.Type),
		SpecRef:       types.Ref(d.Specification),
		BitSize:       d.BitSize,
		ConstValue:    d.ConstValue,
		Accessibility: d.Accessibility,
		Virtuality:    d.Virtuality,
		Virtual:       d.Virtual,
		Artificial:    d.Artificial,
		Declaration:   d.Declaration,
		External:      d.External,
	}
	if c.Kind == types.KindUnknown && c.Tag == "" {
		c.Tag = d.Kind
	}
	if d.UpperBound != nil {
		c.UpperBound, c.HasUpperBound = *d.UpperBound, true
	}
	if d.Count != nil {
		c.Count, c.HasCount = *d.Count, true
	}
	for _, child := range d.Children {
		c.Children = append(c.Children, child.construct())
	}
	return c
}

func encodeUnit(u *types.Unit) unitDoc {
	out := unitDoc{
		Name:        u.Name,
		Producer:    u.Producer,
		AddressSize: u.AddressSize,
		Language:    u.Language,
		Constructs:  make([]constructDoc, 0, len(u.Constructs)),
	}
	for _, c := range u.Constructs {
		out.Constructs = append(out.Constructs, encodeConstruct(c))
	}
	return out
}

func encodeConstruct(c *types.Construct) constructDoc {
	d := constructDoc{
		Kind:          c.Kind.String(),
		Tag:           c.Tag,
		Offset:        uint64(c.Offset),
		Name:          c.Name,
		Type:          string(c.TypeRef),
		Specification: string(c.SpecRef),
		BitSize:       c.BitSize,
		ConstValue:    c.ConstValue,
		Accessibility: c.Accessibility,
		Virtuality:    c.Virtuality,
		Virtual:       c.Virtual,
		Artificial:    c.Artificial,
		Declaration:   c.Declaration,
		External:      c.External,
	}
	if c.HasUpperBound {
		ub := c.UpperBound
		d.UpperBound = &ub
	}
	if c.HasCount {
		n := c.Count
		d.Count = &n
	}
	for _, child := range c.Children {
		d.Children = append(d.Children, encodeConstruct(child))
	}
	return d
}
