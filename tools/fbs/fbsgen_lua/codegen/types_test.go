// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"testing"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

func TestRuntimeName(t *testing.T) {
	for _, tc := range []struct {
		typ  fbsgen.Type
		want string
	}{
		{scalar(fbsgen.BoolType), "Bool"},
		{scalar(fbsgen.Int8Type), "Int8"},
		{scalar(fbsgen.Uint8Type), "Uint8"},
		{scalar(fbsgen.UTypeType), "Uint8"},
		{scalar(fbsgen.Int16Type), "Int16"},
		{scalar(fbsgen.Uint16Type), "Uint16"},
		{scalar(fbsgen.Int32Type), "Int32"},
		{scalar(fbsgen.Uint32Type), "Uint32"},
		{scalar(fbsgen.Int64Type), "Int64"},
		{scalar(fbsgen.Uint64Type), "Uint64"},
		{scalar(fbsgen.Float32Type), "Float32"},
		{scalar(fbsgen.Float64Type), "Float64"},
		{scalar(fbsgen.StringType), "UOffsetT"},
		{vectorOf(scalar(fbsgen.Int8Type)), "UOffsetT"},
		{structRef("A.B"), "UOffsetT"},
		{fbsgen.Type{Kind: fbsgen.UnionType, Enum: "A.U"}, "UOffsetT"},
		{arrayOf(scalar(fbsgen.Float64Type), 3), "Float64"},
	} {
		if got := RuntimeName(tc.typ); got != tc.want {
			t.Errorf("RuntimeName(%s) = %s, want %s", tc.typ, got, tc.want)
		}
	}
}

func TestScalarLiteral(t *testing.T) {
	for _, tc := range []struct {
		kind     fbsgen.TypeKind
		constant string
		want     string
	}{
		{fbsgen.BoolType, "0", "false"},
		{fbsgen.BoolType, "", "false"},
		{fbsgen.BoolType, "false", "false"},
		{fbsgen.BoolType, "1", "true"},
		{fbsgen.BoolType, "true", "true"},
		{fbsgen.Int32Type, "", "0"},
		{fbsgen.Int32Type, "-42", "-42"},
		{fbsgen.Uint64Type, "18446744073709551615", "18446744073709551615"},
		{fbsgen.Float32Type, "3.5", "3.5"},
		{fbsgen.Float32Type, "nan", "0/0"},
		{fbsgen.Float64Type, "-nan", "0/0"},
		{fbsgen.Float64Type, "inf", "math.huge"},
		{fbsgen.Float64Type, "+inf", "math.huge"},
		{fbsgen.Float64Type, "infinity", "math.huge"},
		{fbsgen.Float32Type, "-inf", "-math.huge"},
		{fbsgen.Float32Type, "-infinity", "-math.huge"},
		// Only floats have special values.
		{fbsgen.Int32Type, "inf", "inf"},
	} {
		if got := ScalarLiteral(tc.kind, tc.constant); got != tc.want {
			t.Errorf("ScalarLiteral(%s, %q) = %s, want %s", tc.kind, tc.constant, got, tc.want)
		}
	}
}

func TestDefaultLiteral(t *testing.T) {
	root := monsterRoot()
	types := NewTypeMapper(root.Decls(), NewNameResolver(LuaNameContext()))
	color := fbsgen.Type{Kind: fbsgen.Int8Type, Enum: "MyGame.Sample.Color"}
	for _, tc := range []struct {
		name  string
		field fbsgen.Field
		want  string
	}{
		{
			name:  "enum member",
			field: fbsgen.Field{Type: color, Default: "2"},
			want:  "require('MyGame.Sample.Color').Blue",
		},
		{
			name:  "implicit zero enum member",
			field: fbsgen.Field{Type: color},
			want:  "require('MyGame.Sample.Color').Red",
		},
		{
			name:  "not a member",
			field: fbsgen.Field{Type: color, Default: "7"},
			want:  "7",
		},
		{
			name:  "unknown enum",
			field: fbsgen.Field{Type: fbsgen.Type{Kind: fbsgen.Int8Type, Enum: "Nope"}, Default: "1"},
			want:  "1",
		},
		{
			name:  "bool",
			field: fbsgen.Field{Type: scalar(fbsgen.BoolType), Default: "1"},
			want:  "true",
		},
		{
			name:  "float",
			field: fbsgen.Field{Type: scalar(fbsgen.Float64Type), Default: "nan"},
			want:  "0/0",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := types.DefaultLiteral(&tc.field); got != tc.want {
				t.Errorf("DefaultLiteral() = %s, want %s", got, tc.want)
			}
		})
	}
}
