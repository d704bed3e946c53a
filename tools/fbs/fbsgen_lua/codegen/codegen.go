// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package codegen generates Lua modules from the FlatBuffers schema IR: one
// module per enum, union, struct and table, holding zero-copy accessors,
// builders and optionally an object API.
package codegen

import (
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/dustin/go-humanize"
	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
	"go.fuchsia.dev/fbsgen/tools/lib/logger"
	"go.uber.org/multierr"
)

//go:embed *.tmpl
var templates embed.FS

// Options select the optional parts of the generated code.
type Options struct {
	// GenerateObjectAPI adds the T mirror with UnPack and Pack to every
	// struct and table, and the __pack helper to every union.
	GenerateObjectAPI bool `yaml:"generate_object_api"`
	// EmptyVectorsAsAbsent leaves the vectors of fresh mirrors nil instead
	// of empty.
	EmptyVectorsAsAbsent bool `yaml:"empty_vectors_as_absent"`
}

// An Artifact is the generated module of one declaration.
type Artifact struct {
	// Path is relative to the output directory.
	Path     string
	Decl     fbsgen.EncodedName
	Contents []byte
}

type Generator struct {
	gen   *fbsgen.Generator
	names *NameResolver
	opts  Options
}

func NewGenerator(opts Options, formatter fbsgen.Formatter) *Generator {
	return &Generator{
		gen:   fbsgen.NewGenerator("LuaTemplates", templates, formatter, template.FuncMap{}),
		names: NewNameResolver(LuaNameContext()),
		opts:  opts,
	}
}

// sourceFile is the data of the GenerateSourceFile template.
type sourceFile struct {
	Namespace    string
	NeedsImports bool
	Body         string
	Name         string
}

// Generate produces the artifacts of every declaration of the root that was
// not included from another schema, enums first, each group in declaration
// order. Declarations that fail still produce their artifact; their errors
// are returned together.
func (gen *Generator) Generate(ctx context.Context, root *fbsgen.Root) ([]Artifact, error) {
	c := newCompiler(root, gen.names, gen.opts)
	var artifacts []Artifact
	var errs error
	emit := func(decl fbsgen.EncodedName, ns fbsgen.Namespace, name, body string, needsImports bool) {
		contents, err := gen.gen.GenerateSource("GenerateSourceFile", sourceFile{
			Namespace:    ns.Last(),
			NeedsImports: needsImports,
			Body:         body,
			Name:         name,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", decl, err))
			return
		}
		artifacts = append(artifacts, Artifact{
			Path:     filepath.FromSlash(gen.names.ArtifactPath(decl)),
			Decl:     decl,
			Contents: contents,
		})
	}

	for i := range root.Enums {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := &root.Enums[i]
		if e.Included {
			logger.Tracef(ctx, "skipping included enum %s", e.EncodedName())
			continue
		}
		logger.Debugf(ctx, "generating enum %s", e.EncodedName())
		g := c.newEnumGen(e)
		if err := g.generate(); err != nil {
			errs = multierr.Append(errs, err)
		}
		emit(e.EncodedName(), e.Namespace, g.name, g.w.String(), g.usesRuntime)
	}

	for i := range root.Structs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := &root.Structs[i]
		if s.Included {
			logger.Tracef(ctx, "skipping included struct %s", s.EncodedName())
			continue
		}
		logger.Debugf(ctx, "generating struct %s", s.EncodedName())
		g, err := c.newTypeGen(s)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		g.emitPreamble()
		g.emitAccessors()
		g.emitBuilders()
		if gen.opts.GenerateObjectAPI {
			g.emitObjectAPI()
		}
		errs = multierr.Append(errs, g.errs)
		emit(g.decl, s.Namespace, g.name, g.w.String(), true)
	}
	return artifacts, errs
}

// WriteArtifacts writes the artifacts under outDir. Files whose contents
// are unchanged are left alone.
func WriteArtifacts(ctx context.Context, outDir string, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(outDir, a.Path)
		if err := fbsgen.WriteFileIfChanged(path, a.Contents); err != nil {
			return fmt.Errorf("Error writing %s: %w", path, err)
		}
		logger.Infof(ctx, "wrote %s (%s)", path, humanize.Bytes(uint64(len(a.Contents))))
	}
	return nil
}
