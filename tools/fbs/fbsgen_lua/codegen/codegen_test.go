// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

const vec3Lua = `-- automatically generated by the FlatBuffers compiler, do not modify

-- namespace: Sample

local flatbuffers = require('flatbuffers')

local Vec3 = {} -- the module
local Vec3_mt = {} -- the class metatable

function Vec3.New()
    local o = {}
    setmetatable(o, {__index = Vec3_mt})
    return o
end

function Vec3_mt:Init(buf, pos)
    self.view = flatbuffers.view.New(buf, pos)
end

function Vec3_mt:X()
    return self.view:Get(flatbuffers.N.Float32, self.view.pos + 0)
end

function Vec3_mt:Y()
    return self.view:Get(flatbuffers.N.Float32, self.view.pos + 4)
end

function Vec3_mt:Z()
    return self.view:Get(flatbuffers.N.Float32, self.view.pos + 8)
end

function Vec3.CreateVec3(builder, x, y, z)
    builder:Prep(4, 12)
    builder:PrependFloat32(z)
    builder:PrependFloat32(y)
    builder:PrependFloat32(x)
    return builder:Offset()
end

return Vec3 -- return the module
`

const colorLua = `-- automatically generated by the FlatBuffers compiler, do not modify

-- namespace: Sample

local Color = {
    Red = 0,
    Green = 1,
    Blue = 2,
}

return Color -- return the module
`

func TestGenerateStruct(t *testing.T) {
	out := mustGenerate(t, monsterRoot(), Options{})
	if diff := cmp.Diff(vec3Lua, out["MyGame.Sample.Vec3"]); diff != "" {
		t.Errorf("Vec3 (-want +got):\n%s", diff)
	}
}

func TestGenerateEnum(t *testing.T) {
	out := mustGenerate(t, monsterRoot(), Options{})
	if diff := cmp.Diff(colorLua, out["MyGame.Sample.Color"]); diff != "" {
		t.Errorf("Color (-want +got):\n%s", diff)
	}
}

func TestGenerateRootNamespace(t *testing.T) {
	root := &fbsgen.Root{
		Enums: []fbsgen.Enum{{
			Name:           "Kind",
			UnderlyingType: fbsgen.Uint8Type,
			Values:         []fbsgen.EnumValue{{Name: "A", Value: fbsgen.Int64OrUint64FromUint64(7)}},
		}},
	}
	out := mustGenerate(t, root, Options{})
	want := `-- automatically generated by the FlatBuffers compiler, do not modify

local Kind = {
    A = 7,
}

return Kind -- return the module
`
	if diff := cmp.Diff(want, out["Kind"]); diff != "" {
		t.Errorf("Kind (-want +got):\n%s", diff)
	}
}

func TestGenerateArtifactOrder(t *testing.T) {
	artifacts, err := NewGenerator(Options{}, fbsgen.NewFormatter("")).Generate(context.Background(), monsterRoot())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, a := range artifacts {
		got = append(got, filepath.ToSlash(a.Path))
	}
	want := []string{
		"MyGame/Sample/Color.lua",
		"MyGame/Sample/Equipment.lua",
		"MyGame/Sample/Vec3.lua",
		"MyGame/Sample/Monster.lua",
		"MyGame/Sample/Weapon.lua",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("artifact paths (-want +got):\n%s", diff)
	}
}

func TestGenerateSkipsIncluded(t *testing.T) {
	root := monsterRoot()
	root.Enums[0].Included = true
	root.Structs[0].Included = true
	out := mustGenerate(t, root, Options{})
	for _, decl := range []fbsgen.EncodedName{"MyGame.Sample.Color", "MyGame.Sample.Vec3"} {
		if _, ok := out[decl]; ok {
			t.Errorf("included declaration %s was generated", decl)
		}
	}
	// Included declarations are still referenced by the others.
	if !strings.Contains(out["MyGame.Sample.Monster"], "require('MyGame.Sample.Vec3')") {
		t.Errorf("Monster does not reference the included Vec3")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := Options{GenerateObjectAPI: true}
	first := mustGenerate(t, monsterRoot(), opts)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, mustGenerate(t, monsterRoot(), opts)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(Options{}, fbsgen.NewFormatter("")).Generate(ctx, monsterRoot())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() = %v, want %v", err, context.Canceled)
	}
}

type failingFormatter struct{}

func (failingFormatter) Format([]byte) ([]byte, error) {
	return nil, errors.New("no formatting today")
}

func TestGenerateFormatterFailure(t *testing.T) {
	artifacts, err := NewGenerator(Options{}, failingFormatter{}).Generate(context.Background(), monsterRoot())
	if err == nil {
		t.Fatal("Generate() succeeded with a failing formatter")
	}
	if len(artifacts) != 0 {
		t.Errorf("got %d artifacts, want none", len(artifacts))
	}
	if !strings.Contains(err.Error(), "MyGame.Sample.Monster") {
		t.Errorf("error %q does not name the declaration", err)
	}
}

func TestGenerateKeepsFailingArtifacts(t *testing.T) {
	root := monsterRoot()
	monster := &root.Structs[1]
	monster.Fields = append(monster.Fields, fbsgen.Field{
		Name:   "grid",
		Type:   arrayOf(scalar(fbsgen.Int32Type), 4),
		Offset: len(monster.Fields),
	})
	out, err := generate(t, root, Options{})
	var shapeErr *UnsupportedShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Generate() = %v, want an UnsupportedShapeError", err)
	}
	if shapeErr.Field != "grid" || shapeErr.Decl != "MyGame.Sample.Monster" {
		t.Errorf("error names %s.%s, want MyGame.Sample.Monster.grid", shapeErr.Decl, shapeErr.Field)
	}
	if _, ok := out["MyGame.Sample.Monster"]; !ok {
		t.Errorf("Monster artifact missing")
	}
	if _, ok := out["MyGame.Sample.Vec3"]; !ok {
		t.Errorf("Vec3 artifact missing")
	}
}

func TestGenerateUnknownStruct(t *testing.T) {
	root := monsterRoot()
	root.Structs[1].Fields[0].Type = structRef("MyGame.Sample.Vec4")
	out, err := generate(t, root, Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown struct MyGame.Sample.Vec4") {
		t.Fatalf("Generate() = %v, want an unknown struct error", err)
	}
	if _, ok := out["MyGame.Sample.Monster"]; ok {
		t.Errorf("Monster generated despite its unresolvable field")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := []Artifact{
		{Path: filepath.Join("A", "B.lua"), Decl: "A.B", Contents: []byte("return B -- return the module\n")},
		{Path: "C.lua", Decl: "C", Contents: []byte("return C -- return the module\n")},
	}
	if err := WriteArtifacts(context.Background(), dir, artifacts); err != nil {
		t.Fatal(err)
	}
	for _, a := range artifacts {
		got, err := os.ReadFile(filepath.Join(dir, a.Path))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(string(a.Contents), string(got)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", a.Path, diff)
		}
	}
}
