// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import "testing"

func TestToUpperCamelCase(t *testing.T) {
	type testCase struct {
		input  string
		output string
	}
	tests := []testCase{
		{
			input:  "",
			output: "",
		},
		{
			input:  "hp",
			output: "Hp",
		},
		{
			input:  "equipped_type",
			output: "EquippedType",
		},
		{
			input:  "testarrayofstring",
			output: "Testarrayofstring",
		},
		{
			input:  "lowerCamel",
			output: "LowerCamel",
		},
		{
			input:  "CONST_CASE",
			output: "CONSTCASE",
		},
		{
			input:  "trailing_",
			output: "Trailing_",
		},
		{
			input:  "multiple__underscores",
			output: "Multiple_underscores",
		},
		{
			input:  "_end",
			output: "_end",
		},
	}
	for _, test := range tests {
		output := ToUpperCamelCase(test.input)
		if output != test.output {
			t.Errorf("input %q produced unexpected output. got %q, want %q", test.input, output, test.output)
		}
	}
}

func TestToLowerCamelCase(t *testing.T) {
	type testCase struct {
		input  string
		output string
	}
	tests := []testCase{
		{
			input:  "x",
			output: "x",
		},
		{
			input:  "num_elems",
			output: "numElems",
		},
		{
			input:  "Hp",
			output: "hp",
		},
		{
			input:  "test_nested_flatbuffer",
			output: "testNestedFlatbuffer",
		},
	}
	for _, test := range tests {
		output := ToLowerCamelCase(test.input)
		if output != test.output {
			t.Errorf("input %q produced unexpected output. got %q, want %q", test.input, output, test.output)
		}
	}
}

func TestSingleQuote(t *testing.T) {
	tests := map[string]string{
		"":        `''`,
		"Game.A":  `'Game.A'`,
		`it's`:    `'it\'s'`,
		`back\sl`: `'back\\sl'`,
	}
	for input, want := range tests {
		if got := SingleQuote(input); got != want {
			t.Errorf("SingleQuote(%q) = %s, want %s", input, got, want)
		}
	}
}
