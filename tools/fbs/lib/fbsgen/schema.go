// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"
)

//go:embed ir.schema.json
var irSchemaJSON []byte

var (
	irSchemaOnce sync.Once
	irSchema     *gojsonschema.Schema
	irSchemaErr  error
)

func loadIRSchema() (*gojsonschema.Schema, error) {
	irSchemaOnce.Do(func() {
		irSchema, irSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(irSchemaJSON))
	})
	return irSchema, irSchemaErr
}

// ValidateJSONIr checks that the JSON content is shaped like the IR. All
// violations are reported, combined into a single error.
func ValidateJSONIr(content []byte) error {
	schema, err := loadIRSchema()
	if err != nil {
		return fmt.Errorf("Error loading IR schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return fmt.Errorf("Error validating JSON IR: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs error
	for _, desc := range result.Errors() {
		errs = multierr.Append(errs, errors.New(desc.String()))
	}
	return errs
}
