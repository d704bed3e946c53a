// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"text/template"
)

// Generator renders generated sources from a set of .tmpl files and runs
// them through a Formatter.
type Generator struct {
	tmpls     *template.Template
	formatter Formatter
}

// NewGenerator creates a Generator, given a name, a filesystem holding the
// .tmpl files (likely from a go:embed directive), a formatter for the
// generated source, and a template function map.
func NewGenerator(name string, tmplFS fs.FS, formatter Formatter, funcs template.FuncMap) *Generator {
	gen := &Generator{
		tmpls:     template.New(name),
		formatter: formatter,
	}
	gen.tmpls.Funcs(funcs)

	// template.ParseFS only takes globs, so the .tmpl files are collected by
	// walking the filesystem and passed as exact paths.
	files, err := listTemplateFiles(tmplFS)
	if err != nil {
		panic(err)
	}
	template.Must(gen.tmpls.ParseFS(tmplFS, files...))
	return gen
}

func listTemplateFiles(tmplFS fs.FS) ([]string, error) {
	var tmpls []string
	err := fs.WalkDir(tmplFS, ".", func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filepath.Ext(path) == ".tmpl" {
			tmpls = append(tmpls, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tmpls, nil
}

func (gen *Generator) ExecuteTemplate(tmpl string, data interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := gen.tmpls.ExecuteTemplate(buf, tmpl, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSource executes tmpl and formats the result.
func (gen *Generator) GenerateSource(tmpl string, data interface{}) ([]byte, error) {
	generated, err := gen.ExecuteTemplate(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("Error generating content: %w", err)
	}
	formatted, err := gen.formatter.Format(generated)
	if err != nil {
		return nil, fmt.Errorf("Error formatting source: %w", err)
	}
	return formatted, nil
}
