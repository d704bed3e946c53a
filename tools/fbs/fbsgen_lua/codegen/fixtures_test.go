// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"context"
	"strings"
	"testing"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

var sample = fbsgen.NamespaceFromString("MyGame.Sample")

func scalar(kind fbsgen.TypeKind) fbsgen.Type {
	return fbsgen.Type{Kind: kind}
}

func structRef(name fbsgen.EncodedName) fbsgen.Type {
	return fbsgen.Type{Kind: fbsgen.StructType, Struct: name}
}

func vectorOf(elem fbsgen.Type) fbsgen.Type {
	return fbsgen.Type{Kind: fbsgen.VectorType, Element: &elem}
}

func arrayOf(elem fbsgen.Type, n int) fbsgen.Type {
	return fbsgen.Type{Kind: fbsgen.ArrayType, Element: &elem, FixedLength: n}
}

func vec3() fbsgen.Struct {
	return fbsgen.Struct{
		Name:      "Vec3",
		Namespace: sample,
		Fixed:     true,
		Fields: []fbsgen.Field{
			{Name: "x", Type: scalar(fbsgen.Float32Type), Offset: 0},
			{Name: "y", Type: scalar(fbsgen.Float32Type), Offset: 4},
			{Name: "z", Type: scalar(fbsgen.Float32Type), Offset: 8},
		},
		ByteSize: 12,
		MinAlign: 4,
	}
}

// monsterRoot is the classic monster schema:
//
//   namespace MyGame.Sample;
//   enum Color:byte { Red, Green, Blue = 2 }
//   union Equipment { Weapon }
//   struct Vec3 { x:float; y:float; z:float; }
//   table Monster {
//     pos:Vec3; mana:short = 150; hp:short = 100; name:string;
//     friendly:bool = false (deprecated); inventory:[ubyte];
//     color:Color = Blue; weapons:[Weapon]; equipped:Equipment;
//     path:[Vec3];
//   }
//   table Weapon { name:string; damage:short; }
func monsterRoot() *fbsgen.Root {
	return &fbsgen.Root{
		RootType: "MyGame.Sample.Monster",
		Enums: []fbsgen.Enum{
			{
				Name:           "Color",
				Namespace:      sample,
				UnderlyingType: fbsgen.Int8Type,
				Values: []fbsgen.EnumValue{
					{Name: "Red", Value: fbsgen.Int64OrUint64FromInt64(0)},
					{Name: "Green", Value: fbsgen.Int64OrUint64FromInt64(1)},
					{Name: "Blue", Value: fbsgen.Int64OrUint64FromInt64(2)},
				},
			},
			{
				Name:           "Equipment",
				Namespace:      sample,
				UnderlyingType: fbsgen.UTypeType,
				IsUnion:        true,
				Values: []fbsgen.EnumValue{
					{Name: "NONE", Value: fbsgen.Int64OrUint64FromInt64(0)},
					{
						Name:      "Weapon",
						Value:     fbsgen.Int64OrUint64FromInt64(1),
						UnionType: &fbsgen.Type{Kind: fbsgen.StructType, Struct: "MyGame.Sample.Weapon"},
					},
				},
			},
		},
		Structs: []fbsgen.Struct{
			vec3(),
			{
				Name:        "Monster",
				Namespace:   sample,
				DocComments: []string{" A monster."},
				Fields: []fbsgen.Field{
					{Name: "pos", Type: structRef("MyGame.Sample.Vec3"), Offset: 0},
					{Name: "mana", Type: scalar(fbsgen.Int16Type), Offset: 1, Default: "150"},
					{Name: "hp", Type: scalar(fbsgen.Int16Type), Offset: 2, Default: "100"},
					{Name: "name", Type: scalar(fbsgen.StringType), Offset: 3},
					{Name: "friendly", Type: scalar(fbsgen.BoolType), Offset: 4, Deprecated: true},
					{Name: "inventory", Type: vectorOf(scalar(fbsgen.Uint8Type)), Offset: 5},
					{
						Name:    "color",
						Type:    fbsgen.Type{Kind: fbsgen.Int8Type, Enum: "MyGame.Sample.Color"},
						Offset:  6,
						Default: "2",
					},
					{Name: "weapons", Type: vectorOf(structRef("MyGame.Sample.Weapon")), Offset: 7},
					{
						Name:   "equipped_type",
						Type:   fbsgen.Type{Kind: fbsgen.UTypeType, Enum: "MyGame.Sample.Equipment"},
						Offset: 8,
					},
					{
						Name:   "equipped",
						Type:   fbsgen.Type{Kind: fbsgen.UnionType, Enum: "MyGame.Sample.Equipment"},
						Offset: 9,
					},
					{Name: "path", Type: vectorOf(structRef("MyGame.Sample.Vec3")), Offset: 10},
				},
			},
			{
				Name:      "Weapon",
				Namespace: sample,
				Fields: []fbsgen.Field{
					{Name: "name", Type: scalar(fbsgen.StringType), Offset: 0},
					{Name: "damage", Type: scalar(fbsgen.Int16Type), Offset: 1},
				},
			},
		},
	}
}

// generate runs the generator and indexes the artifacts by declaration.
func generate(t *testing.T, root *fbsgen.Root, opts Options) (map[fbsgen.EncodedName]string, error) {
	t.Helper()
	artifacts, err := NewGenerator(opts, fbsgen.NewFormatter("")).Generate(context.Background(), root)
	out := make(map[fbsgen.EncodedName]string, len(artifacts))
	for _, a := range artifacts {
		out[a.Decl] = string(a.Contents)
	}
	return out, err
}

// mustGenerate is generate for roots that generate without errors.
func mustGenerate(t *testing.T, root *fbsgen.Root, opts Options) map[fbsgen.EncodedName]string {
	t.Helper()
	out, err := generate(t, root, opts)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	return out
}

// function extracts the Lua function whose header line is header, up to and
// including its closing "end".
func function(t *testing.T, source, header string) string {
	t.Helper()
	start := strings.Index(source, header+"\n")
	if start < 0 {
		t.Fatalf("%q not found in:\n%s", header, source)
	}
	rest := source[start:]
	end := strings.Index(rest, "\nend\n")
	if end < 0 {
		t.Fatalf("%q is not closed in:\n%s", header, source)
	}
	return rest[:end+len("\nend\n")]
}
