package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize returns the matching key form of a field: trimmed and lower-cased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Capitalize upper-cases the first character and lower-cases the rest.
func Capitalize(value string) string {
	if value == "" {
		return value
	}
	first, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(first)) + strings.ToLower(value[size:])
}
