// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	flatbuffers "github.com/google/flatbuffers/go"
)

// Slots of the tables of reflection.fbs, the schema of binary schemas.
const (
	schemaObjects   = 0
	schemaEnums     = 1
	schemaFileIdent = 2
	schemaRootTable = 4

	objectName            = 0
	objectFields          = 1
	objectIsStruct        = 2
	objectMinAlign        = 3
	objectByteSize        = 4
	objectDocumentation   = 6
	objectDeclarationFile = 7

	fieldName           = 0
	fieldType           = 1
	fieldID             = 2
	fieldOffset         = 3
	fieldDefaultInteger = 4
	fieldDefaultReal    = 5
	fieldDeprecated     = 6
	fieldDocumentation  = 10
	fieldPadding        = 12

	typeBaseType    = 0
	typeElement     = 1
	typeIndex       = 2
	typeFixedLength = 3

	enumName            = 0
	enumValues          = 1
	enumIsUnion         = 2
	enumUnderlyingType  = 3
	enumDocumentation   = 5
	enumDeclarationFile = 6

	enumValName          = 0
	enumValValue         = 1
	enumValUnionType     = 3
	enumValDocumentation = 4
)

// reflection.BaseType
const (
	baseNone   = 0
	baseUType  = 1
	baseBool   = 2
	baseByte   = 3
	baseUByte  = 4
	baseShort  = 5
	baseUShort = 6
	baseInt    = 7
	baseUInt   = 8
	baseLong   = 9
	baseULong  = 10
	baseFloat  = 11
	baseDouble = 12
	baseString = 13
	baseVector = 14
	baseObj    = 15
	baseUnion  = 16
	baseArray  = 17
)

var baseScalarKinds = map[int8]TypeKind{
	baseUType:  UTypeType,
	baseBool:   BoolType,
	baseByte:   Int8Type,
	baseUByte:  Uint8Type,
	baseShort:  Int16Type,
	baseUShort: Uint16Type,
	baseInt:    Int32Type,
	baseUInt:   Uint32Type,
	baseLong:   Int64Type,
	baseULong:  Uint64Type,
	baseFloat:  Float32Type,
	baseDouble: Float64Type,
}

// ReadBinarySchema reads a binary schema (.bfbs) file, as produced by
// `flatc --binary --schema`.
func ReadBinarySchema(filename string) (Root, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return Root{}, fmt.Errorf("Error reading from %s: %w", filename, err)
	}
	return DecodeBinarySchema(buf)
}

// DecodeBinarySchema converts a binary schema into the IR. Declarations come
// out in the order of the binary schema, which sorts them by name.
func DecodeBinarySchema(buf []byte) (root Root, err error) {
	if len(buf) < flatbuffers.SizeUOffsetT {
		return Root{}, fmt.Errorf("Error parsing binary schema: %d bytes is too short", len(buf))
	}
	// Offsets read from a corrupt buffer index out of range; report those
	// as parse errors instead of crashing.
	defer func() {
		if r := recover(); r != nil {
			root, err = Root{}, fmt.Errorf("Error parsing binary schema: %v", r)
		}
	}()
	schema := reflectTable{flatbuffers.Table{Bytes: buf, Pos: flatbuffers.GetUOffsetT(buf)}}
	r := bfbsReader{schema: schema}
	return r.read()
}

type bfbsReader struct {
	schema      reflectTable
	objectNames []EncodedName
	enumNames   []EncodedName
}

func (r *bfbsReader) read() (Root, error) {
	var root Root
	nObjects := r.schema.vectorLen(schemaObjects)
	nEnums := r.schema.vectorLen(schemaEnums)
	for i := 0; i < nObjects; i++ {
		r.objectNames = append(r.objectNames, EncodedName(r.schema.vectorTable(schemaObjects, i).str(objectName)))
	}
	for i := 0; i < nEnums; i++ {
		r.enumNames = append(r.enumNames, EncodedName(r.schema.vectorTable(schemaEnums, i).str(enumName)))
	}

	var mainFile string
	if rootTable, ok := r.schema.table(schemaRootTable); ok {
		root.RootType = EncodedName(rootTable.str(objectName))
		mainFile = rootTable.str(objectDeclarationFile)
	}
	root.FileIdentifier = r.schema.str(schemaFileIdent)
	included := func(declFile string) bool {
		return mainFile != "" && declFile != "" && declFile != mainFile
	}

	for i := 0; i < nEnums; i++ {
		e, err := r.readEnum(r.schema.vectorTable(schemaEnums, i))
		if err != nil {
			return Root{}, fmt.Errorf("Error parsing binary schema: enum %s: %w", r.enumNames[i], err)
		}
		e.Included = included(r.schema.vectorTable(schemaEnums, i).str(enumDeclarationFile))
		root.Enums = append(root.Enums, e)
	}
	for i := 0; i < nObjects; i++ {
		s, err := r.readObject(r.schema.vectorTable(schemaObjects, i))
		if err != nil {
			return Root{}, fmt.Errorf("Error parsing binary schema: object %s: %w", r.objectNames[i], err)
		}
		s.Included = included(r.schema.vectorTable(schemaObjects, i).str(objectDeclarationFile))
		root.Structs = append(root.Structs, s)
	}
	return root, nil
}

type reflectField struct {
	id      uint16
	field   Field
	padding int
}

func (r *bfbsReader) readObject(obj reflectTable) (Struct, error) {
	ns, name := EncodedName(obj.str(objectName)).Split()
	s := Struct{
		Name:        name,
		Namespace:   ns,
		Fixed:       obj.GetBoolSlot(vt(objectIsStruct), false),
		MinAlign:    int(obj.GetInt32Slot(vt(objectMinAlign), 0)),
		ByteSize:    int(obj.GetInt32Slot(vt(objectByteSize), 0)),
		DocComments: obj.strings(objectDocumentation),
	}
	var fields []reflectField
	for i := 0; i < obj.vectorLen(objectFields); i++ {
		f := obj.vectorTable(objectFields, i)
		typ, ok := f.table(fieldType)
		if !ok {
			return Struct{}, fmt.Errorf("field %s has no type", f.str(fieldName))
		}
		t, err := r.readType(typ)
		if err != nil {
			return Struct{}, fmt.Errorf("field %s: %w", f.str(fieldName), err)
		}
		id := f.GetUint16Slot(vt(fieldID), 0)
		field := Field{
			Name:        Identifier(f.str(fieldName)),
			Type:        t,
			Deprecated:  f.GetBoolSlot(vt(fieldDeprecated), false),
			Default:     defaultConstant(t.Kind, f.GetInt64Slot(vt(fieldDefaultInteger), 0), f.GetFloat64Slot(vt(fieldDefaultReal), 0)),
			DocComments: f.strings(fieldDocumentation),
		}
		if s.Fixed {
			field.Offset = int(f.GetUint16Slot(vt(fieldOffset), 0))
		} else {
			field.Offset = int(id)
		}
		fields = append(fields, reflectField{id: id, field: field, padding: int(f.GetUint16Slot(vt(fieldPadding), 0))})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].id < fields[j].id })
	for i, f := range fields {
		// The binary schema records the padding following each field; the IR
		// records the padding preceding it.
		if s.Fixed && i > 0 {
			f.field.Padding = fields[i-1].padding
		}
		s.Fields = append(s.Fields, f.field)
	}
	return s, nil
}

func (r *bfbsReader) readEnum(enum reflectTable) (Enum, error) {
	ns, name := EncodedName(enum.str(enumName)).Split()
	e := Enum{
		Name:        name,
		Namespace:   ns,
		IsUnion:     enum.GetBoolSlot(vt(enumIsUnion), false),
		DocComments: enum.strings(enumDocumentation),
	}
	if typ, ok := enum.table(enumUnderlyingType); ok {
		kind, ok := baseScalarKinds[typ.GetInt8Slot(vt(typeBaseType), baseNone)]
		if !ok {
			return Enum{}, fmt.Errorf("underlying type is not scalar")
		}
		e.UnderlyingType = kind
	}
	for i := 0; i < enum.vectorLen(enumValues); i++ {
		v := enum.vectorTable(enumValues, i)
		raw := v.GetInt64Slot(vt(enumValValue), 0)
		value := EnumValue{
			Name:        Identifier(v.str(enumValName)),
			Value:       Int64OrUint64FromInt64(raw),
			DocComments: v.strings(enumValDocumentation),
		}
		if e.UnderlyingType == Uint64Type {
			value.Value = Int64OrUint64FromUint64(uint64(raw))
		}
		if typ, ok := v.table(enumValUnionType); ok && typ.GetInt8Slot(vt(typeBaseType), baseNone) != baseNone {
			t, err := r.readType(typ)
			if err != nil {
				return Enum{}, fmt.Errorf("value %s: %w", value.Name, err)
			}
			value.UnionType = &t
		}
		e.Values = append(e.Values, value)
	}
	return e, nil
}

func (r *bfbsReader) readType(typ reflectTable) (Type, error) {
	base := typ.GetInt8Slot(vt(typeBaseType), baseNone)
	index := int(typ.GetInt32Slot(vt(typeIndex), -1))
	switch base {
	case baseVector, baseArray:
		elem, err := r.elementType(typ.GetInt8Slot(vt(typeElement), baseNone), index)
		if err != nil {
			return Type{}, err
		}
		t := Type{Kind: VectorType, Element: &elem}
		if base == baseArray {
			t.Kind = ArrayType
			t.FixedLength = int(typ.GetUint16Slot(vt(typeFixedLength), 0))
		}
		return t, nil
	}
	return r.elementType(base, index)
}

func (r *bfbsReader) elementType(base int8, index int) (Type, error) {
	switch base {
	case baseString:
		return Type{Kind: StringType}, nil
	case baseObj:
		if index < 0 || index >= len(r.objectNames) {
			return Type{}, fmt.Errorf("object index %d out of range", index)
		}
		return Type{Kind: StructType, Struct: r.objectNames[index]}, nil
	case baseUnion:
		if index < 0 || index >= len(r.enumNames) {
			return Type{}, fmt.Errorf("union index %d out of range", index)
		}
		return Type{Kind: UnionType, Enum: r.enumNames[index]}, nil
	}
	kind, ok := baseScalarKinds[base]
	if !ok {
		return Type{}, fmt.Errorf("unsupported base type %d", base)
	}
	t := Type{Kind: kind}
	if index >= 0 {
		if index >= len(r.enumNames) {
			return Type{}, fmt.Errorf("enum index %d out of range", index)
		}
		t.Enum = r.enumNames[index]
	}
	return t, nil
}

func defaultConstant(kind TypeKind, integer int64, real float64) string {
	switch {
	case kind == BoolType:
		if integer != 0 {
			return "1"
		}
		return "0"
	case kind == Uint64Type:
		return strconv.FormatUint(uint64(integer), 10)
	case kind.IsFloat():
		switch {
		case math.IsNaN(real):
			return "nan"
		case math.IsInf(real, 1):
			return "inf"
		case math.IsInf(real, -1):
			return "-inf"
		}
		return strconv.FormatFloat(real, 'g', -1, 64)
	case kind.IsScalar():
		return strconv.FormatInt(integer, 10)
	}
	return ""
}

func vt(slot int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(VtableOffset(slot))
}

// reflectTable reads the tables of a binary schema by slot.
type reflectTable struct {
	flatbuffers.Table
}

func (t reflectTable) field(slot int) flatbuffers.UOffsetT {
	return flatbuffers.UOffsetT(t.Offset(vt(slot)))
}

func (t reflectTable) str(slot int) string {
	o := t.field(slot)
	if o == 0 {
		return ""
	}
	return t.String(o + t.Pos)
}

func (t reflectTable) table(slot int) (reflectTable, bool) {
	o := t.field(slot)
	if o == 0 {
		return reflectTable{}, false
	}
	return reflectTable{flatbuffers.Table{Bytes: t.Bytes, Pos: t.Indirect(o + t.Pos)}}, true
}

func (t reflectTable) vectorLen(slot int) int {
	o := t.field(slot)
	if o == 0 {
		return 0
	}
	return t.VectorLen(o)
}

func (t reflectTable) vectorElem(slot int, i int) flatbuffers.UOffsetT {
	return t.Vector(t.field(slot)) + flatbuffers.UOffsetT(i*flatbuffers.SizeUOffsetT)
}

func (t reflectTable) vectorTable(slot int, i int) reflectTable {
	return reflectTable{flatbuffers.Table{Bytes: t.Bytes, Pos: t.Indirect(t.vectorElem(slot, i))}}
}

func (t reflectTable) strings(slot int) []string {
	var ss []string
	for i := 0; i < t.vectorLen(slot); i++ {
		ss = append(ss, t.String(t.vectorElem(slot, i)))
	}
	return ss
}
