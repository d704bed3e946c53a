// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"fmt"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

// enumGen accumulates the code of one enum or union.
type enumGen struct {
	c    *compiler
	def  *fbsgen.Enum
	name string
	w    codeWriter
	// usesRuntime is set when the code calls into the flatbuffers module.
	usesRuntime bool
}

func (c *compiler) newEnumGen(def *fbsgen.Enum) *enumGen {
	return &enumGen{c: c, def: def, name: c.names.Escape(string(def.Name))}
}

func (g *enumGen) generate() error {
	w := &g.w
	w.comments(0, g.def.DocComments)
	w.line(0, "local %s = {", g.name)
	for i := range g.def.Values {
		v := &g.def.Values[i]
		w.comments(1, v.DocComments)
		w.line(1, "%s = %s,", g.c.types.MemberName(g.def, v), v.Value)
	}
	w.line(0, "}")
	w.blank()
	if g.def.IsUnion {
		return g.unionHelpers()
	}
	return nil
}

// arm describes the payload of one union member.
type arm struct {
	value   string
	name    fbsgen.Identifier
	payload fbsgen.Type
}

func (g *enumGen) arms() ([]arm, error) {
	var arms []arm
	for _, v := range g.def.Values {
		if v.Value.IsZero() {
			continue
		}
		if v.UnionType == nil {
			return nil, fmt.Errorf("%s.%s: union member without payload type", g.def.EncodedName(), v.Name)
		}
		switch v.UnionType.Kind {
		case fbsgen.StringType:
		case fbsgen.StructType:
			if _, ok := g.c.decls.LookupStruct(v.UnionType.Struct); !ok {
				return nil, fmt.Errorf("%s.%s: unknown struct %s", g.def.EncodedName(), v.Name, v.UnionType.Struct)
			}
		default:
			return nil, fmt.Errorf("%s.%s: unsupported union payload %s", g.def.EncodedName(), v.Name, v.UnionType)
		}
		arms = append(arms, arm{value: v.Value.String(), name: v.Name, payload: *v.UnionType})
	}
	return arms, nil
}

// unionHelpers writes the dispatch of union payloads by discriminant. The
// NONE discriminant never decodes to a payload.
func (g *enumGen) unionHelpers() error {
	arms, err := g.arms()
	if err != nil {
		return err
	}
	w, names := &g.w, g.c.names

	w.line(0, "local decoders = {")
	for _, a := range arms {
		w.line(1, "[%s] = function(view) -- %s", a.value, a.name)
		if a.payload.Kind == fbsgen.StringType {
			g.usesRuntime = true
			w.line(2, "local length = view:Get(flatbuffers.N.UOffsetT, view.pos)")
			w.line(2, "return view.bytes:Slice(view.pos + 4, view.pos + 4 + length)")
		} else {
			w.line(2, "local o = %s.New()", names.Require(a.payload.Struct))
			w.line(2, "o:Init(view.bytes, view.pos)")
			w.line(2, "return o")
		}
		w.line(1, "end,")
	}
	w.line(0, "}")
	w.blank()

	w.line(0, "local Value_mt = {}")
	w.blank()
	w.line(0, "function Value_mt:As(unionType)")
	w.line(1, "if self.Type == unionType then")
	w.line(2, "return self.Value")
	w.line(1, "end")
	w.line(0, "end")
	w.blank()

	w.line(0, "local helpers = {}")
	w.blank()
	w.line(0, "function helpers.__decode(unionType, view)")
	w.line(1, "local decode = decoders[unionType]")
	w.line(1, "if decode == nil or view == nil then")
	w.line(2, "return nil")
	w.line(1, "end")
	w.line(1, "return decode(view)")
	w.line(0, "end")
	w.blank()
	w.line(0, "function helpers.__union(unionType, value)")
	w.line(1, "return setmetatable({Type = unionType, Value = value}, {__index = Value_mt})")
	w.line(0, "end")
	w.blank()

	if g.c.opts.GenerateObjectAPI {
		w.line(0, "function helpers.__pack(builder, u)")
		for i, a := range arms {
			keyword := "elseif"
			if i == 0 {
				keyword = "if"
			}
			w.line(1, "%s u.Type == %s then", keyword, a.value)
			if a.payload.Kind == fbsgen.StringType {
				w.line(2, "return builder:CreateString(u.Value)")
			} else {
				w.line(2, "return %s.Pack(builder, u.Value)", names.Require(a.payload.Struct))
			}
		}
		if len(arms) > 0 {
			w.line(1, "end")
		}
		w.line(1, "return 0")
		w.line(0, "end")
		w.blank()
	}

	w.line(0, "setmetatable(%s, {__index = helpers})", g.name)
	w.blank()
	return nil
}
