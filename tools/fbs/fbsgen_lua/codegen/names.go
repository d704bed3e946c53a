// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"path"
	"strings"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

// luaKeywords are the reserved words of Lua 5.3.
var luaKeywords = []string{
	"and",
	"break",
	"do",
	"else",
	"elseif",
	"end",
	"false",
	"for",
	"function",
	"goto",
	"if",
	"in",
	"local",
	"nil",
	"not",
	"or",
	"repeat",
	"return",
	"then",
	"true",
	"until",
	"while",
}

// LuaNameContext returns the naming context of generated Lua: keywords are
// moved out of the way with a leading underscore.
func LuaNameContext() fbsgen.NameContext {
	return fbsgen.NewNameContext(func(name string) string { return "_" + name }, luaKeywords...)
}

// classMethods are defined on every class metatable next to the field
// accessors.
var classMethods = []string{"Init", "UnPack", "UnPackTo"}

// NameResolver spells schema names as Lua identifiers and module paths.
type NameResolver struct {
	ctx fbsgen.NameContext
	// methods also reserves the methods shared with field accessors.
	methods fbsgen.NameContext
	// params also reserves the builder argument every builder function
	// takes first.
	params fbsgen.NameContext
}

func NewNameResolver(ctx fbsgen.NameContext) *NameResolver {
	return &NameResolver{
		ctx:     ctx,
		methods: ctx.WithReserved(classMethods...),
		params:  ctx.WithReserved("builder"),
	}
}

// Escape returns name, or an escaped form of it if it is a Lua keyword.
func (r *NameResolver) Escape(name string) string {
	return r.ctx.ChangeIfReserved(name)
}

// Scope creates a naming scope for names declared together.
func (r *NameResolver) Scope(names ...string) *fbsgen.Scope {
	return r.ctx.NewScope(names...)
}

// ParamScope creates the scope of the parameters of a builder function.
func (r *NameResolver) ParamScope(names ...string) *fbsgen.Scope {
	return r.params.NewScope(names...)
}

// QualifiedName is the module path of a declaration, used to require it
// from other generated modules.
func (r *NameResolver) QualifiedName(name fbsgen.EncodedName) string {
	ns, id := name.Split()
	return strings.Join(append(ns.Parts(), r.Escape(string(id))), ".")
}

// Require renders the expression loading the module of a declaration.
func (r *NameResolver) Require(name fbsgen.EncodedName) string {
	return "require(" + fbsgen.SingleQuote(r.QualifiedName(name)) + ")"
}

// ArtifactPath is the path of the file generated for a declaration,
// relative to the output directory.
func (r *NameResolver) ArtifactPath(name fbsgen.EncodedName) string {
	ns, id := name.Split()
	return path.Join(append(ns.Parts(), r.Escape(string(id))+".lua")...)
}

// Method is the name of the accessor of a field, which is also the key of
// the field in object API mirrors. It never shadows a class method.
func (r *NameResolver) Method(name fbsgen.Identifier) string {
	return r.methods.ChangeIfReserved(fbsgen.ToUpperCamelCase(string(name)))
}

// Param is the unscoped name of a builder parameter for a field.
func Param(name fbsgen.Identifier) string {
	return fbsgen.ToLowerCamelCase(string(name))
}

// Local is the name of the local variable holding a packed field. The
// leading underscore keeps it clear of keywords and parameters.
func Local(name fbsgen.Identifier) string {
	return "_" + string(name)
}

// enumMembers spells enum member names, each enum being its own scope.
type enumMembers struct {
	names  *NameResolver
	scopes map[*fbsgen.Enum]*fbsgen.Scope
}

func newEnumMembers(names *NameResolver) *enumMembers {
	return &enumMembers{names: names, scopes: make(map[*fbsgen.Enum]*fbsgen.Scope)}
}

func (m *enumMembers) name(e *fbsgen.Enum, v *fbsgen.EnumValue) string {
	scope, ok := m.scopes[e]
	if !ok {
		var declared []string
		for _, v := range e.Values {
			declared = append(declared, string(v.Name))
		}
		scope = m.names.Scope(declared...)
		m.scopes[e] = scope
	}
	return scope.Resolve(string(v.Name))
}
