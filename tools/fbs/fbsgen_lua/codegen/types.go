// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"strings"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

// runtimeNames maps type kinds to the names of the number types of the Lua
// runtime (flatbuffers.N). Relocatable kinds are stored as offsets.
var runtimeNames = map[fbsgen.TypeKind]string{
	fbsgen.BoolType:    "Bool",
	fbsgen.Int8Type:    "Int8",
	fbsgen.Uint8Type:   "Uint8",
	fbsgen.UTypeType:   "Uint8",
	fbsgen.Int16Type:   "Int16",
	fbsgen.Uint16Type:  "Uint16",
	fbsgen.Int32Type:   "Int32",
	fbsgen.Uint32Type:  "Uint32",
	fbsgen.Int64Type:   "Int64",
	fbsgen.Uint64Type:  "Uint64",
	fbsgen.Float32Type: "Float32",
	fbsgen.Float64Type: "Float64",
	fbsgen.StringType:  "UOffsetT",
	fbsgen.VectorType:  "UOffsetT",
	fbsgen.StructType:  "UOffsetT",
	fbsgen.UnionType:   "UOffsetT",
}

// RuntimeName returns the runtime number type used to read and write values
// of type t. Arrays use the name of their element type.
func RuntimeName(t fbsgen.Type) string {
	if t.Kind == fbsgen.ArrayType && t.Element != nil {
		return RuntimeName(*t.Element)
	}
	if name, ok := runtimeNames[t.Kind]; ok {
		return name
	}
	return "UOffsetT"
}

// ScalarLiteral renders the constant of a scalar kind as a Lua expression.
func ScalarLiteral(kind fbsgen.TypeKind, constant string) string {
	constant = strings.TrimSpace(constant)
	switch {
	case kind == fbsgen.BoolType:
		switch constant {
		case "", "0", "false":
			return "false"
		}
		return "true"
	case kind.IsFloat():
		switch strings.ToLower(constant) {
		case "nan", "+nan", "-nan":
			return "0/0"
		case "inf", "+inf", "infinity", "+infinity":
			return "math.huge"
		case "-inf", "-infinity":
			return "-math.huge"
		}
	}
	if constant == "" {
		return "0"
	}
	return constant
}

// TypeMapper renders the default values of fields.
type TypeMapper struct {
	decls   fbsgen.Decls
	names   *NameResolver
	members *enumMembers
}

func NewTypeMapper(decls fbsgen.Decls, names *NameResolver) TypeMapper {
	return TypeMapper{decls: decls, names: names, members: newEnumMembers(names)}
}

// DefaultLiteral renders the default of a scalar field. Enum-typed fields
// whose default is a member of the enum render as that member.
func (m TypeMapper) DefaultLiteral(f *fbsgen.Field) string {
	constant := f.DefaultConstant()
	if f.Type.Enum != "" {
		if e, ok := m.decls.LookupEnum(f.Type.Enum); ok {
			if v, ok := e.ValueByConstant(constant); ok {
				return m.names.Require(f.Type.Enum) + "." + m.members.name(e, v)
			}
		}
	}
	return ScalarLiteral(f.Type.Kind, constant)
}

// MemberName is the spelling of an enum member in the enum's module.
func (m TypeMapper) MemberName(e *fbsgen.Enum, v *fbsgen.EnumValue) string {
	return m.members.name(e, v)
}
