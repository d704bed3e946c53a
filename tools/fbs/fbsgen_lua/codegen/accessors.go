// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import "fmt"

// emitPreamble writes the module tables and the functions positioning an
// accessor on a buffer.
func (g *typeGen) emitPreamble() {
	w, name := &g.w, g.name
	w.comments(0, g.def.DocComments)
	w.line(0, "local %s = {} -- the module", name)
	w.line(0, "local %s_mt = {} -- the class metatable", name)
	w.blank()

	w.line(0, "function %s.New()", name)
	w.line(1, "local o = {}")
	w.line(1, "setmetatable(o, {__index = %s_mt})", name)
	w.line(1, "return o")
	w.line(0, "end")
	w.blank()

	if !g.def.Fixed {
		w.line(0, "function %s.GetRootAs%s(buf, offset)", name, name)
		w.line(1, "if type(buf) == \"string\" then")
		w.line(2, "buf = flatbuffers.binaryArray.New(buf)")
		w.line(1, "end")
		w.line(1, "local n = flatbuffers.N.UOffsetT:Unpack(buf, offset)")
		w.line(1, "local o = %s.New()", name)
		w.line(1, "o:Init(buf, n + offset)")
		w.line(1, "return o")
		w.line(0, "end")
		w.blank()
	}

	w.line(0, "function %s_mt:Init(buf, pos)", name)
	w.line(1, "self.view = flatbuffers.view.New(buf, pos)")
	w.line(0, "end")
	w.blank()
}

// emitAccessors writes the read path of every live field.
func (g *typeGen) emitAccessors() {
	if g.def.Fixed {
		g.each(structAccessors{g})
	} else {
		g.each(tableAccessors{g})
	}
}

// tableAccessors reads fields through the vtable. Every accessor tests the
// presence of its field first.
type tableAccessors struct {
	g *typeGen
}

var _ fieldVisitor = tableAccessors{}

func (a tableAccessors) begin(f *field, method, params string) {
	w := &a.g.w
	w.comments(0, f.DocComments)
	w.line(0, "function %s_mt:%s(%s)", a.g.name, method, params)
	w.line(1, "local o = self.view:Offset(%d)", f.vt)
	w.line(1, "if o ~= 0 then")
}

// end closes the presence test. absent, when set, is returned for fields
// missing from the buffer; otherwise the accessor returns nil.
func (a tableAccessors) end(absent string) {
	w := &a.g.w
	w.line(1, "end")
	if absent != "" {
		w.line(1, "return %s", absent)
	}
	w.line(0, "end")
	w.blank()
}

func (a tableAccessors) scalar(f *field) error {
	a.begin(f, f.method, "")
	a.g.w.line(2, "return %s", read(f.Type.Kind, f.runtimeName(), "o + self.view.pos"))
	a.end(ScalarLiteral(f.Type.Kind, f.DefaultConstant()))
	return nil
}

func (a tableAccessors) nestedStruct(f *field) error {
	w := &a.g.w
	a.begin(f, f.method, "obj")
	if f.isTable() {
		w.line(2, "local x = self.view:Indirect(o + self.view.pos)")
	} else {
		w.line(2, "local x = o + self.view.pos")
	}
	w.line(2, "obj = obj or %s.New()", a.g.require(f.Type.Struct))
	w.line(2, "obj:Init(self.view.bytes, x)")
	w.line(2, "return obj")
	a.end("")
	return nil
}

func (a tableAccessors) str(f *field) error {
	a.begin(f, f.method, "")
	a.g.w.line(2, "return self.view:String(o + self.view.pos)")
	a.end("''")
	return nil
}

func (a tableAccessors) vector(f *field) error {
	w := &a.g.w
	elem := fmt.Sprintf("x + ((j-1) * %d)", f.stride)
	switch f.elemShape {
	case scalarShape:
		a.begin(f, f.method, "j")
		w.line(2, "local x = self.view:Vector(o)")
		w.line(2, "return %s", read(f.elem.Kind, f.runtimeName(), elem))
		a.end(ScalarLiteral(f.elem.Kind, "0"))
	case stringShape:
		a.begin(f, f.method, "j")
		w.line(2, "local x = self.view:Vector(o)")
		w.line(2, "return self.view:String(%s)", elem)
		a.end("''")
	case structShape:
		a.begin(f, f.method, "j, obj")
		w.line(2, "local x = self.view:Vector(o)")
		w.line(2, "x = %s", elem)
		if f.isTable() {
			w.line(2, "x = self.view:Indirect(x)")
		}
		w.line(2, "obj = obj or %s.New()", a.g.require(f.elem.Struct))
		w.line(2, "obj:Init(self.view.bytes, x)")
		w.line(2, "return obj")
		a.end("")
	case unionShape:
		a.begin(f, f.method, "j")
		w.line(2, "local x = self.view:Vector(o)")
		w.line(2, "x = %s", elem)
		w.line(2, "return flatbuffers.view.New(self.view.bytes, self.view:Indirect(x))")
		a.end("")
	default:
		return a.g.unsupported(f, fmt.Sprintf("vectors of %s are not supported", f.elemShape))
	}

	a.begin(f, f.method+"Length", "")
	w.line(2, "return self.view:VectorLen(o)")
	a.end("0")
	return nil
}

func (a tableAccessors) union(f *field) error {
	a.begin(f, f.method, "")
	a.g.w.line(2, "return flatbuffers.view.New(self.view.bytes, self.view:Indirect(o + self.view.pos))")
	a.end("")
	return nil
}

func (a tableAccessors) array(f *field) error {
	return a.g.unsupported(f, "arrays are only allowed in structs")
}

// structAccessors reads fields of fixed structs at their byte offsets.
type structAccessors struct {
	g *typeGen
}

var _ fieldVisitor = structAccessors{}

func (a structAccessors) begin(f *field, method, params string) {
	a.g.w.comments(0, f.DocComments)
	a.g.w.line(0, "function %s_mt:%s(%s)", a.g.name, method, params)
}

func (a structAccessors) end() {
	a.g.w.line(0, "end")
	a.g.w.blank()
}

func (a structAccessors) scalar(f *field) error {
	a.begin(f, f.method, "")
	a.g.w.line(1, "return %s", read(f.Type.Kind, f.runtimeName(), fmt.Sprintf("self.view.pos + %d", f.Offset)))
	a.end()
	return nil
}

func (a structAccessors) nestedStruct(f *field) error {
	if f.isTable() {
		return a.g.unsupported(f, "structs cannot hold tables")
	}
	w := &a.g.w
	a.begin(f, f.method, "obj")
	w.line(1, "obj = obj or %s.New()", a.g.require(f.Type.Struct))
	w.line(1, "obj:Init(self.view.bytes, self.view.pos + %d)", f.Offset)
	w.line(1, "return obj")
	a.end()
	return nil
}

func (a structAccessors) str(f *field) error {
	return a.g.unsupported(f, "structs cannot hold strings")
}

func (a structAccessors) vector(f *field) error {
	return a.g.unsupported(f, "structs cannot hold vectors")
}

func (a structAccessors) union(f *field) error {
	return a.g.unsupported(f, "structs cannot hold unions")
}

func (a structAccessors) array(f *field) error {
	w := &a.g.w
	elem := fmt.Sprintf("self.view.pos + %d + ((j-1) * %d)", f.Offset, f.stride)
	switch {
	case f.elemShape == scalarShape:
		a.begin(f, f.method, "j")
		w.line(1, "return %s", read(f.elem.Kind, f.runtimeName(), elem))
		a.end()
	case f.elemShape == structShape && !f.isTable():
		a.begin(f, f.method, "j, obj")
		w.line(1, "obj = obj or %s.New()", a.g.require(f.elem.Struct))
		w.line(1, "obj:Init(self.view.bytes, %s)", elem)
		w.line(1, "return obj")
		a.end()
	default:
		return a.g.unsupported(f, fmt.Sprintf("arrays of %s are not supported", f.elem))
	}

	a.begin(f, f.method+"Length", "")
	w.line(1, "return %d", f.Type.FixedLength)
	a.end()
	return nil
}
