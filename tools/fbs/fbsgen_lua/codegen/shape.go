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

// valueShape classifies field types by the code needed to access them.
type valueShape int

const (
	scalarShape valueShape = iota
	structShape
	stringShape
	vectorShape
	unionShape
	arrayShape
)

func (s valueShape) String() string {
	switch s {
	case scalarShape:
		return "scalar"
	case structShape:
		return "struct"
	case stringShape:
		return "string"
	case vectorShape:
		return "vector"
	case unionShape:
		return "union"
	case arrayShape:
		return "array"
	}
	return fmt.Sprintf("valueShape(%d)", int(s))
}

func shapeOf(t fbsgen.Type) (valueShape, bool) {
	switch {
	case t.Kind.IsScalar():
		return scalarShape, true
	case t.Kind == fbsgen.StructType:
		return structShape, true
	case t.Kind == fbsgen.StringType:
		return stringShape, true
	case t.Kind == fbsgen.VectorType:
		return vectorShape, true
	case t.Kind == fbsgen.UnionType:
		return unionShape, true
	case t.Kind == fbsgen.ArrayType:
		return arrayShape, true
	}
	return 0, false
}

// A fieldVisitor generates code for one field, with a method per value
// shape. Every emitter implements all of them, returning an
// UnsupportedShapeError for shapes its container cannot hold.
type fieldVisitor interface {
	scalar(f *field) error
	nestedStruct(f *field) error
	str(f *field) error
	vector(f *field) error
	union(f *field) error
	array(f *field) error
}

func visit(v fieldVisitor, f *field) error {
	switch f.shape {
	case scalarShape:
		return v.scalar(f)
	case structShape:
		return v.nestedStruct(f)
	case stringShape:
		return v.str(f)
	case vectorShape:
		return v.vector(f)
	case unionShape:
		return v.union(f)
	case arrayShape:
		return v.array(f)
	}
	panic(fmt.Sprintf("unhandled value shape %s", f.shape))
}

type field struct {
	*fbsgen.Field
	shape  valueShape
	method string
	local  string
	// vt is the vtable offset of a table field.
	vt int
	// ref is the struct referenced by a struct field, or by the elements
	// of a vector or array.
	ref *fbsgen.Struct
	// elem, elemShape, stride and align describe the elements of vectors
	// and arrays.
	elem      *fbsgen.Type
	elemShape valueShape
	stride    int
	align     int
	// discriminant is the sibling field holding the discriminant of a union
	// or vector of unions; discriminates is its inverse.
	discriminant  *field
	discriminates *field
}

func (f *field) isTable() bool {
	return f.ref != nil && !f.ref.Fixed
}

func (f *field) runtimeName() string {
	if f.elem != nil {
		return RuntimeName(*f.elem)
	}
	return RuntimeName(f.Type)
}

// relocatableElems reports whether vector elements are stored as offsets.
func (f *field) relocatableElems() bool {
	switch f.elemShape {
	case stringShape, unionShape, vectorShape:
		return true
	case structShape:
		return f.isTable()
	}
	return false
}

// read renders the expression reading a scalar of the given kind.
func read(kind fbsgen.TypeKind, runtimeName, pos string) string {
	get := fmt.Sprintf("self.view:Get(flatbuffers.N.%s, %s)", runtimeName, pos)
	if kind == fbsgen.BoolType {
		return "(" + get + " ~= 0)"
	}
	return get
}

// compiler holds what is shared by the generation of all types of a Root.
type compiler struct {
	decls fbsgen.Decls
	names *NameResolver
	types TypeMapper
	opts  Options
	// fields caches the compiled fields of every struct.
	fields map[*fbsgen.Struct][]*field
}

func newCompiler(root *fbsgen.Root, names *NameResolver, opts Options) *compiler {
	decls := root.Decls()
	return &compiler{
		decls:  decls,
		names:  names,
		types:  NewTypeMapper(decls, names),
		opts:   opts,
		fields: make(map[*fbsgen.Struct][]*field),
	}
}

func (c *compiler) lookupStruct(name fbsgen.EncodedName) (*fbsgen.Struct, error) {
	s, ok := c.decls.LookupStruct(name)
	if !ok {
		return nil, fmt.Errorf("unknown struct %s", name)
	}
	return s, nil
}

// typeGen accumulates the code of one struct or table.
type typeGen struct {
	c      *compiler
	def    *fbsgen.Struct
	decl   fbsgen.EncodedName
	name   string
	fields []*field
	w      codeWriter
	errs   error
	failed map[fbsgen.Identifier]bool
}

func (c *compiler) newTypeGen(def *fbsgen.Struct) (*typeGen, error) {
	g := &typeGen{
		c:      c,
		def:    def,
		decl:   def.EncodedName(),
		name:   c.names.Escape(string(def.Name)),
		failed: make(map[fbsgen.Identifier]bool),
	}
	fields, err := c.fieldsOf(def)
	if err != nil {
		return nil, err
	}
	g.fields = fields
	byName := make(map[fbsgen.Identifier]*field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	for _, f := range g.fields {
		if f.Deprecated || !(f.shape == unionShape || f.elemShape == unionShape && f.shape == vectorShape) {
			continue
		}
		want := f.Name + "_type"
		d, ok := byName[want]
		if !ok || d.Deprecated || !isDiscriminantOf(d, f) {
			g.fail(f, &MissingDiscriminantError{Decl: g.decl, Field: f.Name, Want: want})
			continue
		}
		f.discriminant = d
		d.discriminates = f
	}
	return g, nil
}

// fieldsOf compiles the fields of a struct, in declaration order.
func (c *compiler) fieldsOf(def *fbsgen.Struct) ([]*field, error) {
	if fields, ok := c.fields[def]; ok {
		return fields, nil
	}
	fields := make([]*field, 0, len(def.Fields))
	for i := range def.Fields {
		f, err := c.compileField(&def.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", def.EncodedName(), def.Fields[i].Name, err)
		}
		fields = append(fields, f)
	}
	c.fields[def] = fields
	return fields, nil
}

func isDiscriminantOf(d, union *field) bool {
	if union.shape == unionShape {
		return d.Type.Kind == fbsgen.UTypeType
	}
	return d.shape == vectorShape && d.elem.Kind == fbsgen.UTypeType
}

func (c *compiler) compileField(fd *fbsgen.Field) (*field, error) {
	f := &field{
		Field:  fd,
		method: c.names.Method(fd.Name),
		local:  Local(fd.Name),
		vt:     fbsgen.VtableOffset(fd.Offset),
	}
	shape, ok := shapeOf(fd.Type)
	if !ok {
		return nil, fmt.Errorf("unknown type kind %q", fd.Type.Kind)
	}
	f.shape = shape
	target := fd.Type
	if shape == vectorShape || shape == arrayShape {
		if fd.Type.Element == nil {
			return nil, fmt.Errorf("%s without element type", shape)
		}
		f.elem = fd.Type.Element
		if f.elemShape, ok = shapeOf(*f.elem); !ok {
			return nil, fmt.Errorf("unknown element type kind %q", f.elem.Kind)
		}
		target = *f.elem
		var err error
		if f.stride, err = fbsgen.InlineSize(*f.elem, c.decls); err != nil {
			return nil, err
		}
		if f.align, err = fbsgen.InlineAlignment(*f.elem, c.decls); err != nil {
			return nil, err
		}
	}
	if target.Kind == fbsgen.StructType {
		ref, err := c.lookupStruct(target.Struct)
		if err != nil {
			return nil, err
		}
		f.ref = ref
	}
	return f, nil
}

// fail records a generation error for a field, once per field.
func (g *typeGen) fail(f *field, err error) {
	if g.failed[f.Name] {
		return
	}
	g.failed[f.Name] = true
	g.errs = multierr.Append(g.errs, err)
}

func (g *typeGen) unsupported(f *field, reason string) error {
	return &UnsupportedShapeError{Decl: g.decl, Field: f.Name, Type: f.Type, Reason: reason}
}

// live returns the fields that have not been deprecated.
func (g *typeGen) live() []*field {
	var fields []*field
	for _, f := range g.fields {
		if !f.Deprecated {
			fields = append(fields, f)
		}
	}
	return fields
}

// each visits every live field, recording the errors.
func (g *typeGen) each(v fieldVisitor) {
	for _, f := range g.live() {
		if err := visit(v, f); err != nil {
			g.fail(f, err)
		}
	}
}

func (g *typeGen) require(name fbsgen.EncodedName) string {
	return g.c.names.Require(name)
}

const indent = "    "

type codeWriter struct {
	b strings.Builder
}

func (w *codeWriter) line(depth int, format string, args ...interface{}) {
	w.b.WriteString(strings.Repeat(indent, depth))
	if len(args) == 0 {
		w.b.WriteString(format)
	} else {
		fmt.Fprintf(&w.b, format, args...)
	}
	w.b.WriteByte('\n')
}

func (w *codeWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *codeWriter) comments(depth int, docs []string) {
	for _, doc := range docs {
		w.line(depth, "--%s", doc)
	}
}

func (w *codeWriter) String() string {
	return w.b.String()
}
