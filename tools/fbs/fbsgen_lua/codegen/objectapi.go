// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"fmt"
	"strings"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

// emitObjectAPI writes the plain-data mirror of the type and the functions
// converting between it and the buffer.
func (g *typeGen) emitObjectAPI() {
	w, name := &g.w, g.name

	w.line(0, "function %s.T()", name)
	w.line(1, "local o = {}")
	g.each(mirrorDefaults{g})
	w.line(1, "return o")
	w.line(0, "end")
	w.blank()

	w.line(0, "function %s_mt:UnPack()", name)
	w.line(1, "local o = %s.T()", name)
	w.line(1, "self:UnPackTo(o)")
	w.line(1, "return o")
	w.line(0, "end")
	w.blank()

	w.line(0, "function %s_mt:UnPackTo(o)", name)
	g.each(unpacker{g})
	w.line(0, "end")
	w.blank()

	w.line(0, "function %s.Pack(builder, o)", name)
	if g.def.Fixed {
		args := []string{"builder"}
		g.collectArgs(g.fields, mirrorPath{names: g.c.names, base: "o"}, &args)
		w.line(1, "return %s.Create%s(%s)", name, name, strings.Join(args, ", "))
	} else {
		g.each(packChildren{g})
		w.line(1, "%s.Start(builder)", name)
		g.each(packAdds{g})
		w.line(1, "return %s.End(builder)", name)
	}
	w.line(0, "end")
	w.blank()
}

// unionEnum returns the union enum of a union field or vector of unions.
func unionEnum(f *field) fbsgen.EncodedName {
	if f.elem != nil {
		return f.elem.Enum
	}
	return f.Type.Enum
}

// mirrorDefaults initializes the members of a fresh mirror. Members of a
// fixed struct that are structs themselves get fresh mirrors, since Pack
// writes every member of a fixed struct. In tables, struct and union
// members start out nil.
type mirrorDefaults struct {
	g *typeGen
}

var _ fieldVisitor = mirrorDefaults{}

func (m mirrorDefaults) scalar(f *field) error {
	if f.discriminates != nil {
		return nil
	}
	m.g.w.line(1, "o.%s = %s", f.method, m.g.c.types.DefaultLiteral(f.Field))
	return nil
}

func (m mirrorDefaults) nestedStruct(f *field) error {
	if m.g.def.Fixed && !f.isTable() {
		m.g.w.line(1, "o.%s = %s.T()", f.method, m.g.require(f.Type.Struct))
	}
	return nil
}

func (m mirrorDefaults) str(f *field) error {
	m.g.w.line(1, "o.%s = ''", f.method)
	return nil
}

func (m mirrorDefaults) vector(f *field) error {
	if f.discriminates != nil || m.g.c.opts.EmptyVectorsAsAbsent {
		return nil
	}
	m.g.w.line(1, "o.%s = {}", f.method)
	return nil
}

func (m mirrorDefaults) union(f *field) error {
	return nil
}

func (m mirrorDefaults) array(f *field) error {
	m.g.w.line(1, "o.%s = {}", f.method)
	return nil
}

// unpacker copies the fields of the buffer into a mirror. Fields of tables
// that may be absent are copied only when present.
type unpacker struct {
	g *typeGen
}

var _ fieldVisitor = unpacker{}

// present opens the presence test of a relocatable table field and returns
// the depth of its body.
func (u unpacker) present(f *field) int {
	if u.g.def.Fixed {
		return 1
	}
	u.g.w.line(1, "if self.view:Offset(%d) ~= 0 then", f.vt)
	return 2
}

func (u unpacker) done() {
	if !u.g.def.Fixed {
		u.g.w.line(1, "end")
	}
}

func (u unpacker) scalar(f *field) error {
	if f.discriminates != nil {
		return nil
	}
	u.g.w.line(1, "o.%s = self:%s()", f.method, f.method)
	return nil
}

func (u unpacker) nestedStruct(f *field) error {
	if u.g.def.Fixed && f.isTable() {
		return u.g.unsupported(f, "structs cannot hold tables")
	}
	depth := u.present(f)
	u.g.w.line(depth, "o.%s = self:%s():UnPack()", f.method, f.method)
	u.done()
	return nil
}

func (u unpacker) str(f *field) error {
	if u.g.def.Fixed {
		return u.g.unsupported(f, "structs cannot hold strings")
	}
	depth := u.present(f)
	u.g.w.line(depth, "o.%s = self:%s()", f.method, f.method)
	u.done()
	return nil
}

func (u unpacker) vector(f *field) error {
	if u.g.def.Fixed {
		return u.g.unsupported(f, "structs cannot hold vectors")
	}
	if f.discriminates != nil {
		return nil
	}
	w := &u.g.w
	switch f.elemShape {
	case scalarShape, stringShape, structShape:
	case unionShape:
		if f.discriminant == nil {
			return &MissingDiscriminantError{Decl: u.g.decl, Field: f.Name, Want: f.Name + "_type"}
		}
	default:
		return u.g.unsupported(f, fmt.Sprintf("vectors of %s are not supported", f.elemShape))
	}
	depth := u.present(f)
	w.line(depth, "o.%s = {}", f.method)
	if f.elemShape == unionShape {
		w.line(depth, "local union = %s", u.g.require(unionEnum(f)))
	}
	w.line(depth, "for j = 1, self:%sLength() do", f.method)
	switch f.elemShape {
	case structShape:
		w.line(depth+1, "o.%s[j] = self:%s(j):UnPack()", f.method, f.method)
	case unionShape:
		w.line(depth+1, "local t = self:%s(j)", f.discriminant.method)
		w.line(depth+1, "local value = union.__decode(t, self:%s(j))", f.method)
		w.line(depth+1, "if type(value) == 'table' then")
		w.line(depth+2, "value = value:UnPack()")
		w.line(depth+1, "end")
		w.line(depth+1, "o.%s[j] = union.__union(t, value)", f.method)
	default:
		w.line(depth+1, "o.%s[j] = self:%s(j)", f.method, f.method)
	}
	w.line(depth, "end")
	u.done()
	return nil
}

func (u unpacker) union(f *field) error {
	if u.g.def.Fixed {
		return u.g.unsupported(f, "structs cannot hold unions")
	}
	if f.discriminant == nil {
		return &MissingDiscriminantError{Decl: u.g.decl, Field: f.Name, Want: f.Name + "_type"}
	}
	w := &u.g.w
	t := f.local + "_type"
	w.line(1, "local %s = self:%s()", t, f.discriminant.method)
	w.line(1, "if %s ~= 0 then", t)
	w.line(2, "local union = %s", u.g.require(unionEnum(f)))
	w.line(2, "local value = union.__decode(%s, self:%s())", t, f.method)
	w.line(2, "if type(value) == 'table' then")
	w.line(3, "value = value:UnPack()")
	w.line(2, "end")
	w.line(2, "o.%s = union.__union(%s, value)", f.method, t)
	w.line(1, "end")
	return nil
}

func (u unpacker) array(f *field) error {
	if !u.g.def.Fixed {
		return u.g.unsupported(f, "arrays are only allowed in structs")
	}
	w := &u.g.w
	w.line(1, "o.%s = {}", f.method)
	w.line(1, "for j = 1, %d do", f.Type.FixedLength)
	if f.elemShape == scalarShape {
		w.line(2, "o.%s[j] = self:%s(j)", f.method, f.method)
	} else {
		w.line(2, "o.%s[j] = self:%s(j):UnPack()", f.method, f.method)
	}
	w.line(1, "end")
	return nil
}

// packChildren writes, ahead of the table, every child that needs its own
// offset, keeping it in the local of its field.
type packChildren struct {
	g *typeGen
}

var _ fieldVisitor = packChildren{}

// guarded writes body behind a nil test of the mirror member, with the
// local of the field defaulting to the absent offset.
func (p packChildren) guarded(f *field, body func(depth int)) {
	w := &p.g.w
	w.line(1, "local %s = 0", f.local)
	w.line(1, "if o.%s ~= nil then", f.method)
	body(2)
	w.line(1, "end")
}

func (p packChildren) scalar(f *field) error {
	return nil
}

func (p packChildren) nestedStruct(f *field) error {
	if !f.isTable() {
		// Fixed structs are written inline, inside the table.
		return nil
	}
	p.guarded(f, func(depth int) {
		p.g.w.line(depth, "%s = %s.Pack(builder, o.%s)", f.local, p.g.require(f.Type.Struct), f.method)
	})
	return nil
}

func (p packChildren) str(f *field) error {
	p.guarded(f, func(depth int) {
		p.g.w.line(depth, "%s = builder:CreateString(o.%s)", f.local, f.method)
	})
	return nil
}

func (p packChildren) vector(f *field) error {
	if f.discriminates != nil && f.discriminates.shape == vectorShape {
		return nil
	}
	w, g := &p.g.w, p.g
	switch {
	case f.elemShape == unionShape:
		p.guarded(f, func(depth int) {
			w.line(depth, "error('%s.Pack: vectors of unions are not supported (field %s)')", g.name, f.Name)
		})
		return g.unsupported(f, "vectors of unions cannot be packed")
	case f.elemShape == vectorShape || f.elemShape == arrayShape:
		return g.unsupported(f, fmt.Sprintf("vectors of %s are not supported", f.elemShape))
	case f.relocatableElems():
		p.guarded(f, func(depth int) {
			w.line(depth, "local offsets = {}")
			w.line(depth, "for j, v in ipairs(o.%s) do", f.method)
			if f.elemShape == stringShape {
				w.line(depth+1, "offsets[j] = builder:CreateString(v)")
			} else {
				w.line(depth+1, "offsets[j] = %s.Pack(builder, v)", g.require(f.elem.Struct))
			}
			w.line(depth, "end")
			w.line(depth, "local n = #offsets")
			w.line(depth, "%s.Start%sVector(builder, n)", g.name, f.method)
			w.line(depth, "for j = n, 1, -1 do")
			w.line(depth+1, "builder:PrependUOffsetTRelative(offsets[j])")
			w.line(depth, "end")
			w.line(depth, "%s = builder:EndVector(n)", f.local)
		})
	default:
		p.guarded(f, func(depth int) {
			w.line(depth, "local n = #o.%s", f.method)
			w.line(depth, "%s.Start%sVector(builder, n)", g.name, f.method)
			w.line(depth, "for j = n, 1, -1 do")
			if f.elemShape == structShape {
				w.line(depth+1, "%s.Pack(builder, o.%s[j])", g.require(f.elem.Struct), f.method)
			} else {
				w.line(depth+1, "builder:Prepend%s(o.%s[j])", f.runtimeName(), f.method)
			}
			w.line(depth, "end")
			w.line(depth, "%s = builder:EndVector(n)", f.local)
		})
	}
	return nil
}

func (p packChildren) union(f *field) error {
	w := &p.g.w
	w.line(1, "local %s_type = 0", f.local)
	p.guarded(f, func(depth int) {
		w.line(depth, "%s_type = o.%s.Type", f.local, f.method)
		w.line(depth, "%s = %s.__pack(builder, o.%s)", f.local, p.g.require(unionEnum(f)), f.method)
	})
	return nil
}

func (p packChildren) array(f *field) error {
	return p.g.unsupported(f, "arrays are only allowed in structs")
}

// packAdds writes the Add calls between Start and End.
type packAdds struct {
	g *typeGen
}

var _ fieldVisitor = packAdds{}

func (p packAdds) add(f *field, value string) {
	p.g.w.line(1, "%s.Add%s(builder, %s)", p.g.name, f.method, value)
}

func (p packAdds) scalar(f *field) error {
	switch {
	case f.discriminates == nil:
		p.add(f, "o."+f.method)
	case f.discriminates.shape == unionShape:
		p.add(f, f.discriminates.local+"_type")
	}
	return nil
}

func (p packAdds) nestedStruct(f *field) error {
	if f.isTable() {
		p.add(f, f.local)
		return nil
	}
	w := &p.g.w
	w.line(1, "if o.%s ~= nil then", f.method)
	w.line(2, "%s.Add%s(builder, %s.Pack(builder, o.%s))", p.g.name, f.method, p.g.require(f.Type.Struct), f.method)
	w.line(1, "end")
	return nil
}

func (p packAdds) str(f *field) error {
	p.add(f, f.local)
	return nil
}

func (p packAdds) vector(f *field) error {
	switch {
	case f.discriminates != nil && f.discriminates.shape == vectorShape:
	case f.elemShape == vectorShape || f.elemShape == arrayShape:
	default:
		p.add(f, f.local)
	}
	return nil
}

func (p packAdds) union(f *field) error {
	p.add(f, f.local)
	return nil
}

func (p packAdds) array(f *field) error {
	return p.g.unsupported(f, "arrays are only allowed in structs")
}
