// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codegen

import (
	"fmt"

	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
)

// UnsupportedShapeError reports a field whose type cannot be generated in
// its container, such as a vector of unions in the object API Pack path.
type UnsupportedShapeError struct {
	Decl   fbsgen.EncodedName
	Field  fbsgen.Identifier
	Type   fbsgen.Type
	Reason string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("%s.%s: unsupported field type %s: %s", e.Decl, e.Field, e.Type, e.Reason)
}

// SlotCountError reports a table whose fields do not occupy exactly the
// slots its Start function declares.
type SlotCountError struct {
	Decl     fbsgen.EncodedName
	Capacity int
	Detail   string
}

func (e *SlotCountError) Error() string {
	return fmt.Sprintf("%s: Start declares %d slots: %s", e.Decl, e.Capacity, e.Detail)
}

// MissingDiscriminantError reports a union field without the sibling field
// holding its discriminant.
type MissingDiscriminantError struct {
	Decl  fbsgen.EncodedName
	Field fbsgen.Identifier
	Want  fbsgen.Identifier
}

func (e *MissingDiscriminantError) Error() string {
	return fmt.Sprintf("%s.%s: union field has no discriminant field %s", e.Decl, e.Field, e.Want)
}
