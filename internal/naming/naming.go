// Package naming converts file base names into identifiers used in
// generated re-export statements.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Naming conventions understood by Transform.
const (
	CamelCase  = "camelCase"
	PascalCase = "PascalCase"
	Original   = "original"
)

var (
	separatorLetter = regexp.MustCompile(`[-_]([a-z])`)
	invalidIdentRun = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	leadingDigit    = regexp.MustCompile(`^[0-9]`)
)

// Transform converts baseName according to convention. Dash or underscore
// followed by a lowercase letter is first joined into the uppercased letter;
// camelCase and PascalCase then adjust the first character of that form.
// "original" ignores the joined form and sanitizes the untouched name.
// Unrecognized conventions fall back to PascalCase.
func Transform(baseName, convention string) string {
	camel := separatorLetter.ReplaceAllStringFunc(baseName, func(m string) string {
		return strings.ToUpper(m[1:])
	})

	switch convention {
	case CamelCase:
		return mapFirst(camel, unicode.ToLower)
	case Original:
		return ToValidIdentifier(baseName)
	default:
		return mapFirst(camel, unicode.ToUpper)
	}
}

// ToValidIdentifier drops every character outside [A-Za-z0-9_] and prefixes
// the result with "_" when it starts with a digit.
func ToValidIdentifier(s string) string {
	valid := invalidIdentRun.ReplaceAllString(s, "")
	if leadingDigit.MatchString(valid) {
		valid = "_" + valid
	}
	return valid
}

func mapFirst(s string, fn func(rune) rune) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(fn(r)) + s[size:]
}
