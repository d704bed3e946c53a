// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fbsgen

import (
	"strings"
	"unicode"
)

// ToUpperCamelCase converts a schema identifier to the UpperCamelCase
// spelling used for generated accessors: every underscore is dropped and
// the character following it is upper-cased, as is the first character.
// Other characters are kept as they are, so "hp" becomes "Hp",
// "test_type" becomes "TestType" and "CONST_VALUE" becomes "CONSTVALUE".
func ToUpperCamelCase(name string) string {
	return camel(name, true)
}

// ToLowerCamelCase is ToUpperCamelCase with a lower-cased first character.
func ToLowerCamelCase(name string) string {
	return camel(name, false)
}

func camel(name string, upperFirst bool) string {
	var b strings.Builder
	upperNext := upperFirst
	for i, r := range name {
		switch {
		case i == 0 && !upperFirst:
			b.WriteRune(unicode.ToLower(r))
		case r == '_' && !upperNext && i+1 < len(name):
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SingleQuote renders s as a single-quoted string literal, escaping
// backslashes and quotes.
func SingleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
