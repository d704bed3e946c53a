// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package fbsgen holds the schema IR shared by the FlatBuffers code
// generators, together with the readers that produce it and the helpers
// backends use to name, lay out and write generated code.
package fbsgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadJSONIr reads a JSON IR file.
func ReadJSONIr(filename string) (Root, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Root{}, fmt.Errorf("Error reading from %s: %w", filename, err)
	}
	defer f.Close()
	return DecodeJSONIr(f)
}

// DecodeJSONIr reads the JSON content from a reader.
func DecodeJSONIr(r io.Reader) (Root, error) {
	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	var root Root
	if err := d.Decode(&root); err != nil {
		return Root{}, fmt.Errorf("Error parsing JSON IR: %w", err)
	}
	return root, nil
}

// ReadJSONIrContent reads JSON IR content.
func ReadJSONIrContent(b []byte) (Root, error) {
	return DecodeJSONIr(bytes.NewReader(b))
}

type Identifier string

// A Namespace is the dotted namespace a declaration lives in, split into its
// components. The root namespace is empty.
type Namespace []Identifier

// NamespaceFromString splits a dotted namespace such as "Game.Sample".
func NamespaceFromString(s string) Namespace {
	if s == "" {
		return nil
	}
	var ns Namespace
	for _, part := range strings.Split(s, ".") {
		ns = append(ns, Identifier(part))
	}
	return ns
}

// Parts returns the namespace components as strings.
func (ns Namespace) Parts() []string {
	parts := make([]string, len(ns))
	for i, p := range ns {
		parts[i] = string(p)
	}
	return parts
}

// Last returns the innermost component, or "" for the root namespace.
func (ns Namespace) Last() string {
	if len(ns) == 0 {
		return ""
	}
	return string(ns[len(ns)-1])
}

func (ns Namespace) String() string {
	return strings.Join(ns.Parts(), ".")
}

// An EncodedName is the fully qualified, dotted name of a declaration, e.g.
// "Game.Sample.Monster". Type references in the IR use encoded names.
type EncodedName string

// Qualify joins a namespace and a declaration name into an EncodedName.
func Qualify(ns Namespace, name Identifier) EncodedName {
	if len(ns) == 0 {
		return EncodedName(name)
	}
	return EncodedName(ns.String() + "." + string(name))
}

// Split separates the namespace from the declaration name.
func (n EncodedName) Split() (Namespace, Identifier) {
	s := string(n)
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return nil, Identifier(s)
	}
	return NamespaceFromString(s[:i]), Identifier(s[i+1:])
}

type TypeKind string

const (
	BoolType    TypeKind = "bool"
	Int8Type    TypeKind = "int8"
	Uint8Type   TypeKind = "uint8"
	Int16Type   TypeKind = "int16"
	Uint16Type  TypeKind = "uint16"
	Int32Type   TypeKind = "int32"
	Uint32Type  TypeKind = "uint32"
	Int64Type   TypeKind = "int64"
	Uint64Type  TypeKind = "uint64"
	Float32Type TypeKind = "float32"
	Float64Type TypeKind = "float64"
	// UTypeType is the kind of the hidden discriminant field that
	// accompanies every union field.
	UTypeType  TypeKind = "utype"
	StringType TypeKind = "string"
	VectorType TypeKind = "vector"
	StructType TypeKind = "struct"
	UnionType  TypeKind = "union"
	ArrayType  TypeKind = "array"
)

// IsScalar reports whether values of the kind are stored inline as a
// single number.
func (k TypeKind) IsScalar() bool {
	_, ok := scalarSizes[k]
	return ok
}

func (k TypeKind) IsFloat() bool {
	return k == Float32Type || k == Float64Type
}

func (k TypeKind) IsSigned() bool {
	switch k {
	case Int8Type, Int16Type, Int32Type, Int64Type:
		return true
	}
	return false
}

// Type is a resolved field type. Exactly the members relevant to Kind are
// set: Element for vectors and arrays, FixedLength for arrays, Struct for
// struct references, and Enum for unions, discriminants and enum-typed
// scalars.
type Type struct {
	Kind        TypeKind    `json:"kind"`
	Element     *Type       `json:"element,omitempty"`
	FixedLength int         `json:"fixed_length,omitempty"`
	Struct      EncodedName `json:"struct,omitempty"`
	Enum        EncodedName `json:"enum,omitempty"`
}

func (t Type) String() string {
	switch t.Kind {
	case VectorType:
		return "[" + t.Element.String() + "]"
	case ArrayType:
		return fmt.Sprintf("[%s:%d]", t.Element.String(), t.FixedLength)
	case StructType:
		return string(t.Struct)
	case UnionType:
		return string(t.Enum)
	}
	if t.Enum != "" {
		return fmt.Sprintf("%s(%s)", t.Enum, t.Kind)
	}
	return string(t.Kind)
}

type Field struct {
	Name Identifier `json:"name"`
	Type Type       `json:"type"`
	// Offset is the byte offset of the field within a fixed struct, or the
	// vtable slot index of the field within a table.
	Offset     int  `json:"offset"`
	Deprecated bool `json:"deprecated,omitempty"`
	// Padding is the number of bytes of padding placed before the field in
	// a fixed struct.
	Padding     int      `json:"padding,omitempty"`
	Default     string   `json:"default,omitempty"`
	DocComments []string `json:"doc_comments,omitempty"`
}

// DefaultConstant returns the default value of the field in its string form.
func (f *Field) DefaultConstant() string {
	if f.Default == "" {
		return "0"
	}
	return f.Default
}

// Struct is either a fixed struct, laid out inline, or a table.
type Struct struct {
	Name        Identifier `json:"name"`
	Namespace   Namespace  `json:"namespace,omitempty"`
	Fixed       bool       `json:"fixed"`
	Fields      []Field    `json:"fields"`
	ByteSize    int        `json:"bytesize"`
	MinAlign    int        `json:"minalign"`
	Included    bool       `json:"included,omitempty"`
	DocComments []string   `json:"doc_comments,omitempty"`
}

func (s *Struct) EncodedName() EncodedName {
	return Qualify(s.Namespace, s.Name)
}

// FieldByName finds a field of the struct by its declared name.
func (s *Struct) FieldByName(name Identifier) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

type Enum struct {
	Name           Identifier  `json:"name"`
	Namespace      Namespace   `json:"namespace,omitempty"`
	UnderlyingType TypeKind    `json:"underlying_type"`
	IsUnion        bool        `json:"is_union,omitempty"`
	Values         []EnumValue `json:"values"`
	Included       bool        `json:"included,omitempty"`
	DocComments    []string    `json:"doc_comments,omitempty"`
}

func (e *Enum) EncodedName() EncodedName {
	return Qualify(e.Namespace, e.Name)
}

// ValueByConstant finds the enum member whose value is spelled by constant.
func (e *Enum) ValueByConstant(constant string) (*EnumValue, bool) {
	for i := range e.Values {
		if e.Values[i].Value.Matches(constant) {
			return &e.Values[i], true
		}
	}
	return nil, false
}

type EnumValue struct {
	Name  Identifier    `json:"name"`
	Value Int64OrUint64 `json:"value"`
	// UnionType is the payload type of a union arm: a struct reference to
	// a table, or a string.
	UnionType   *Type    `json:"union_type,omitempty"`
	DocComments []string `json:"doc_comments,omitempty"`
}

// Root is the top-level object of the IR. Declarations are kept in schema
// declaration order.
type Root struct {
	FileIdentifier string      `json:"file_identifier,omitempty"`
	RootType       EncodedName `json:"root_type,omitempty"`
	Enums          []Enum      `json:"enums"`
	Structs        []Struct    `json:"structs"`
}

// Decls indexes the declarations of a Root by encoded name.
type Decls struct {
	structs map[EncodedName]*Struct
	enums   map[EncodedName]*Enum
}

// Decls builds the declaration index of the root. The index points into
// the root, which must not be modified afterwards.
func (r *Root) Decls() Decls {
	d := Decls{
		structs: make(map[EncodedName]*Struct, len(r.Structs)),
		enums:   make(map[EncodedName]*Enum, len(r.Enums)),
	}
	for i := range r.Structs {
		d.structs[r.Structs[i].EncodedName()] = &r.Structs[i]
	}
	for i := range r.Enums {
		d.enums[r.Enums[i].EncodedName()] = &r.Enums[i]
	}
	return d
}

func (d Decls) LookupStruct(name EncodedName) (*Struct, bool) {
	s, ok := d.structs[name]
	return s, ok
}

func (d Decls) LookupEnum(name EncodedName) (*Enum, bool) {
	e, ok := d.enums[name]
	return e, ok
}

// Int64OrUint64 holds an enum value, which may be any signed or unsigned
// 64-bit integer.
type Int64OrUint64 struct {
	i int64
	u uint64
}

func Int64OrUint64FromInt64(val int64) Int64OrUint64 {
	if val >= 0 {
		return Int64OrUint64{0, uint64(val)}
	}
	return Int64OrUint64{val, 0}
}

func Int64OrUint64FromUint64(val uint64) Int64OrUint64 {
	return Int64OrUint64{0, val}
}

// IsZero reports whether the value is 0, the reserved NONE discriminant of
// unions.
func (n Int64OrUint64) IsZero() bool {
	return n.i == 0 && n.u == 0
}

func (n Int64OrUint64) String() string {
	if n.i != 0 {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatUint(n.u, 10)
}

// Matches reports whether constant, a decimal integer literal, denotes the
// value.
func (n Int64OrUint64) Matches(constant string) bool {
	constant = strings.TrimPrefix(strings.TrimSpace(constant), "+")
	if u, err := strconv.ParseUint(constant, 10, 64); err == nil {
		return n.i == 0 && n.u == u
	}
	if i, err := strconv.ParseInt(constant, 10, 64); err == nil {
		return n.i == i
	}
	return false
}

var _ json.Unmarshaler = (*Int64OrUint64)(nil)

func (n *Int64OrUint64) UnmarshalJSON(data []byte) error {
	if u, err := strconv.ParseUint(string(data), 10, 64); err == nil {
		*n = Int64OrUint64{0, u}
		return nil
	}
	if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*n = Int64OrUint64FromInt64(i)
		return nil
	}
	return fmt.Errorf("%s not representable as int64 or uint64", string(data))
}

func (n Int64OrUint64) MarshalJSON() ([]byte, error) {
	if n.i != 0 {
		return json.Marshal(n.i)
	}
	return json.Marshal(n.u)
}
