// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

type NameChanger func(string) string

// NameContext holds the reserved words of a target language and the rule
// used to move a name out of their way.
type NameContext struct {
	reserved map[string]struct{}
	changer  NameChanger
}

func NewNameContext(changer NameChanger, reserved ...string) NameContext {
	c := NameContext{
		reserved: make(map[string]struct{}, len(reserved)),
		changer:  changer,
	}
	for _, name := range reserved {
		c.reserved[name] = struct{}{}
	}
	return c
}

// WithReserved returns a copy of the context that also reserves extra.
func (c NameContext) WithReserved(extra ...string) NameContext {
	out := NameContext{
		reserved: make(map[string]struct{}, len(c.reserved)+len(extra)),
		changer:  c.changer,
	}
	for name := range c.reserved {
		out.reserved[name] = struct{}{}
	}
	for _, name := range extra {
		out.reserved[name] = struct{}{}
	}
	return out
}

func (c NameContext) IsReserved(name string) bool {
	_, ok := c.reserved[name]
	return ok
}

// ChangeIfReserved applies the changer until the name is no longer reserved.
// Applying it to its own result returns that result unchanged.
func (c NameContext) ChangeIfReserved(name string) string {
	for c.IsReserved(name) {
		name = c.changer(name)
	}
	return name
}

// Scope is a set of names declared together, e.g. the fields of one struct.
// Names that are not reserved keep their spelling; reserved names are
// changed until they collide with neither a reserved word nor another
// name of the scope.
type Scope struct {
	ctx      NameContext
	taken    map[string]struct{}
	assigned map[string]string
}

// NewScope creates a scope in which the given names are declared.
func (c NameContext) NewScope(names ...string) *Scope {
	s := &Scope{
		ctx:      c,
		taken:    make(map[string]struct{}, len(names)),
		assigned: make(map[string]string),
	}
	for _, name := range names {
		if !c.IsReserved(name) {
			s.taken[name] = struct{}{}
		}
	}
	return s
}

// Resolve returns the spelling of name within the scope. The result is
// stable across calls and Resolve(Resolve(n)) == Resolve(n).
func (s *Scope) Resolve(name string) string {
	if !s.ctx.IsReserved(name) {
		return name
	}
	if out, ok := s.assigned[name]; ok {
		return out
	}
	out := s.ctx.changer(name)
	for {
		if _, taken := s.taken[out]; !taken && !s.ctx.IsReserved(out) {
			break
		}
		out = s.ctx.changer(out)
	}
	s.taken[out] = struct{}{}
	s.assigned[name] = out
	return out
}
