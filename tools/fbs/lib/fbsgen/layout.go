// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import "fmt"

const (
	// SizeUOffset is the size of the offsets used to reference relocatable
	// values (strings, vectors, tables and union payloads).
	SizeUOffset = 4
	// SizeVOffset is the size of a vtable entry.
	SizeVOffset = 2
	// vtableHeaderFields counts the vtable entries that precede the field
	// slots: the vtable size and the table size.
	vtableHeaderFields = 2
)

var scalarSizes = map[TypeKind]int{
	BoolType:    1,
	Int8Type:    1,
	Uint8Type:   1,
	UTypeType:   1,
	Int16Type:   2,
	Uint16Type:  2,
	Int32Type:   4,
	Uint32Type:  4,
	Float32Type: 4,
	Int64Type:   8,
	Uint64Type:  8,
	Float64Type: 8,
}

// ScalarSize returns the size in bytes of a scalar kind, or 0 if the kind is
// not scalar.
func ScalarSize(k TypeKind) int {
	return scalarSizes[k]
}

// VtableOffset converts a table field's slot index into the byte offset of
// its vtable entry.
func VtableOffset(slot int) int {
	return (slot + vtableHeaderFields) * SizeVOffset
}

// A StructLookup resolves struct references, e.g. Decls.
type StructLookup interface {
	LookupStruct(name EncodedName) (*Struct, bool)
}

// InlineSize returns the number of bytes a value of type t occupies where it
// is stored: in a fixed struct, a table field, or a vector element.
func InlineSize(t Type, structs StructLookup) (int, error) {
	switch {
	case t.Kind.IsScalar():
		return scalarSizes[t.Kind], nil
	case t.Kind == StructType:
		s, ok := structs.LookupStruct(t.Struct)
		if !ok {
			return 0, fmt.Errorf("unknown struct %s", t.Struct)
		}
		if !s.Fixed {
			return SizeUOffset, nil
		}
		return s.ByteSize, nil
	case t.Kind == ArrayType:
		if t.Element == nil {
			return 0, fmt.Errorf("array type without element type")
		}
		size, err := InlineSize(*t.Element, structs)
		if err != nil {
			return 0, err
		}
		return size * t.FixedLength, nil
	case t.Kind == StringType, t.Kind == VectorType, t.Kind == UnionType:
		return SizeUOffset, nil
	}
	return 0, fmt.Errorf("unknown type kind %q", t.Kind)
}

// InlineAlignment returns the alignment required where a value of type t is
// stored.
func InlineAlignment(t Type, structs StructLookup) (int, error) {
	switch {
	case t.Kind.IsScalar():
		return scalarSizes[t.Kind], nil
	case t.Kind == StructType:
		s, ok := structs.LookupStruct(t.Struct)
		if !ok {
			return 0, fmt.Errorf("unknown struct %s", t.Struct)
		}
		if !s.Fixed {
			return SizeUOffset, nil
		}
		return s.MinAlign, nil
	case t.Kind == ArrayType:
		if t.Element == nil {
			return 0, fmt.Errorf("array type without element type")
		}
		return InlineAlignment(*t.Element, structs)
	case t.Kind == StringType, t.Kind == VectorType, t.Kind == UnionType:
		return SizeUOffset, nil
	}
	return 0, fmt.Errorf("unknown type kind %q", t.Kind)
}

// TrailingPadding returns the padding between the end of the last field of a
// fixed struct and the end of the struct.
func TrailingPadding(s *Struct, structs StructLookup) (int, error) {
	if len(s.Fields) == 0 {
		return s.ByteSize, nil
	}
	last := s.Fields[len(s.Fields)-1]
	size, err := InlineSize(last.Type, structs)
	if err != nil {
		return 0, err
	}
	pad := s.ByteSize - (last.Offset + size)
	if pad < 0 {
		return 0, fmt.Errorf("struct %s: field %s ends past the struct size %d", s.Name, last.Name, s.ByteSize)
	}
	return pad, nil
}
