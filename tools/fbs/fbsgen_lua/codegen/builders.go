// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"fmt"
	"strings"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
	"go.uber.org/multierr"
)

// valuePath names a value written by a struct builder: a flattened builder
// parameter, or a member of an object API mirror.
type valuePath interface {
	// field descends into a field of a nested struct.
	field(name fbsgen.Identifier) valuePath
	// elem descends into an element of an array.
	elem(index string) valuePath
	expr() string
}

// paramPath is a flattened parameter of Create<Struct>. Fields of nested
// structs are prefixed with the names of their ancestors, so the x of
// field start becomes start_x.
type paramPath struct {
	names  *NameResolver
	scope  *fbsgen.Scope
	prefix string
	leaf   fbsgen.Identifier
}

func (p paramPath) field(name fbsgen.Identifier) valuePath {
	child := p
	child.leaf = name
	if p.leaf != "" {
		child.prefix = p.prefix + string(p.leaf) + "_"
	}
	return child
}

func (p paramPath) elem(index string) valuePath {
	return mirrorPath{names: p.names, base: p.expr() + "[" + index + "]"}
}

func (p paramPath) expr() string {
	name := p.prefix + Param(p.leaf)
	if p.scope == nil {
		return name
	}
	return p.scope.Resolve(name)
}

// mirrorPath is a member of an object API mirror, e.g. o.Start.X.
type mirrorPath struct {
	names *NameResolver
	base  string
}

func (p mirrorPath) field(name fbsgen.Identifier) valuePath {
	return mirrorPath{names: p.names, base: p.base + "." + p.names.Method(name)}
}

func (p mirrorPath) elem(index string) valuePath {
	return mirrorPath{names: p.names, base: p.base + "[" + index + "]"}
}

func (p mirrorPath) expr() string {
	return p.base
}

// emitBuilders writes the write path of the type.
func (g *typeGen) emitBuilders() {
	if g.def.Fixed {
		g.emitStructBuilder()
	} else {
		g.emitTableBuilder()
	}
}

func (g *typeGen) emitStructBuilder() {
	// The parameters are collected twice: first to declare every name in
	// the scope, then to resolve keywords and builder within it.
	var raw []string
	g.collectArgs(g.fields, paramPath{names: g.c.names}, &raw)
	root := paramPath{names: g.c.names, scope: g.c.names.ParamScope(raw...)}
	params := []string{"builder"}
	g.collectArgs(g.fields, root, &params)

	w := &g.w
	w.line(0, "function %s.Create%s(%s)", g.name, g.name, strings.Join(params, ", "))
	if err := g.writeStruct(g.def, g.fields, root, 1, 0); err != nil {
		g.errs = multierr.Append(g.errs, err)
	}
	w.line(1, "return builder:Offset()")
	w.line(0, "end")
	w.blank()
}

// collectArgs appends the flattened arguments of a struct builder, in
// declaration order.
func (g *typeGen) collectArgs(fields []*field, path valuePath, out *[]string) {
	for _, f := range fields {
		if f.shape == structShape && !f.isTable() {
			nested, err := g.c.fieldsOf(f.ref)
			if err != nil {
				g.fail(f, err)
				continue
			}
			g.collectArgs(nested, path.field(f.Name), out)
			continue
		}
		*out = append(*out, path.field(f.Name).expr())
	}
}

// writeStruct writes the fields of a struct in reverse, since the buffer
// grows backwards, with the padding the layout puts before each field.
func (g *typeGen) writeStruct(s *fbsgen.Struct, fields []*field, path valuePath, depth, loops int) error {
	trailing, err := fbsgen.TrailingPadding(s, g.c.decls)
	if err != nil {
		return err
	}
	w := &g.w
	w.line(depth, "builder:Prep(%d, %d)", s.MinAlign, s.ByteSize)
	if trailing > 0 {
		w.line(depth, "builder:Pad(%d)", trailing)
	}
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		sw := structWriter{g: g, path: path.field(f.Name), depth: depth, loops: loops}
		if err := visit(sw, f); err != nil {
			if s != g.def {
				return err
			}
			g.fail(f, err)
		}
		if f.Padding > 0 {
			w.line(depth, "builder:Pad(%d)", f.Padding)
		}
	}
	return nil
}

// structWriter writes one field of a fixed struct.
type structWriter struct {
	g     *typeGen
	path  valuePath
	depth int
	loops int
}

var _ fieldVisitor = structWriter{}

func (s structWriter) scalar(f *field) error {
	s.g.w.line(s.depth, "builder:Prepend%s(%s)", f.runtimeName(), s.path.expr())
	return nil
}

func (s structWriter) nestedStruct(f *field) error {
	if f.isTable() {
		return s.g.unsupported(f, "structs cannot hold tables")
	}
	nested, err := s.g.c.fieldsOf(f.ref)
	if err != nil {
		return err
	}
	return s.g.writeStruct(f.ref, nested, s.path, s.depth, s.loops)
}

func (s structWriter) str(f *field) error {
	return s.g.unsupported(f, "structs cannot hold strings")
}

func (s structWriter) vector(f *field) error {
	return s.g.unsupported(f, "structs cannot hold vectors")
}

func (s structWriter) union(f *field) error {
	return s.g.unsupported(f, "structs cannot hold unions")
}

func (s structWriter) array(f *field) error {
	w := &s.g.w
	index := fmt.Sprintf("_j%d", s.loops+1)
	elem := s.path.elem(index)
	switch {
	case f.elemShape == scalarShape:
		w.line(s.depth, "for %s = %d, 1, -1 do", index, f.Type.FixedLength)
		w.line(s.depth+1, "builder:Prepend%s(%s)", f.runtimeName(), elem.expr())
		w.line(s.depth, "end")
	case f.elemShape == structShape && !f.isTable():
		nested, err := s.g.c.fieldsOf(f.ref)
		if err != nil {
			return err
		}
		w.line(s.depth, "for %s = %d, 1, -1 do", index, f.Type.FixedLength)
		if err := s.g.writeStruct(f.ref, nested, elem, s.depth+1, s.loops+1); err != nil {
			return err
		}
		w.line(s.depth, "end")
	default:
		return s.g.unsupported(f, fmt.Sprintf("arrays of %s are not supported", f.elem))
	}
	return nil
}

func (g *typeGen) emitTableBuilder() {
	w, name := &g.w, g.name
	capacity := len(g.fields)
	w.line(0, "function %s.Start(builder)", name)
	w.line(1, "builder:StartObject(%d)", capacity)
	w.line(0, "end")
	w.blank()

	// Deprecated fields keep their slots. With one field per slot and
	// every slot below capacity, the slots are exactly 0 to capacity-1.
	adder := &tableAdder{g: g}
	slots := make(map[int]fbsgen.Identifier, capacity)
	for _, f := range g.fields {
		if f.Offset < 0 || f.Offset >= capacity {
			g.errs = multierr.Append(g.errs, &SlotCountError{Decl: g.decl, Capacity: capacity,
				Detail: fmt.Sprintf("field %s has slot %d", f.Name, f.Offset)})
		} else if other, ok := slots[f.Offset]; ok {
			g.errs = multierr.Append(g.errs, &SlotCountError{Decl: g.decl, Capacity: capacity,
				Detail: fmt.Sprintf("fields %s and %s share slot %d", other, f.Name, f.Offset)})
		}
		slots[f.Offset] = f.Name
		if f.Deprecated {
			continue
		}
		if err := visit(adder, f); err != nil {
			g.fail(f, err)
		}
	}

	w.line(0, "function %s.End(builder)", name)
	w.line(1, "return builder:EndObject()")
	w.line(0, "end")
	w.blank()
}

// tableAdder writes the Add function of a table field, and the function
// starting its vector.
type tableAdder struct {
	g *typeGen
}

var _ fieldVisitor = (*tableAdder)(nil)

func (a *tableAdder) add(f *field, prepend, def string) {
	w := &a.g.w
	param := a.g.c.names.ParamScope(Param(f.Name)).Resolve(Param(f.Name))
	w.line(0, "function %s.Add%s(builder, %s)", a.g.name, f.method, param)
	w.line(1, "builder:%s(%d, %s, %s)", prepend, f.Offset, param, def)
	w.line(0, "end")
	w.blank()
}

func (a *tableAdder) scalar(f *field) error {
	a.add(f, "Prepend"+f.runtimeName()+"Slot", ScalarLiteral(f.Type.Kind, f.DefaultConstant()))
	return nil
}

func (a *tableAdder) nestedStruct(f *field) error {
	if f.isTable() {
		a.add(f, "PrependUOffsetTRelativeSlot", "0")
	} else {
		a.add(f, "PrependStructSlot", "0")
	}
	return nil
}

func (a *tableAdder) str(f *field) error {
	a.add(f, "PrependUOffsetTRelativeSlot", "0")
	return nil
}

func (a *tableAdder) vector(f *field) error {
	switch f.elemShape {
	case vectorShape, arrayShape:
		return a.g.unsupported(f, fmt.Sprintf("vectors of %s are not supported", f.elemShape))
	}
	a.add(f, "PrependUOffsetTRelativeSlot", "0")
	w := &a.g.w
	w.line(0, "function %s.Start%sVector(builder, numElems)", a.g.name, f.method)
	w.line(1, "return builder:StartVector(%d, numElems, %d)", f.stride, f.align)
	w.line(0, "end")
	w.blank()
	return nil
}

func (a *tableAdder) union(f *field) error {
	a.add(f, "PrependUOffsetTRelativeSlot", "0")
	return nil
}

func (a *tableAdder) array(f *field) error {
	return a.g.unsupported(f, "arrays are only allowed in structs")
}
