// Package naming provides the identifier transformations used by templates and converters.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gertd/go-pluralize"
	"github.com/iancoleman/strcase"
)

var pluralizer = pluralize.NewClient()

// UpperFirst upper-cases the first rune.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first rune.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// Camel converts to lowerCamelCase ("my-app" -> "myApp").
func Camel(s string) string {
	return strcase.ToLowerCamel(s)
}

// Pascal converts to UpperCamelCase ("docker-compose" -> "DockerCompose").
func Pascal(s string) string {
	return strcase.ToCamel(s)
}

// Kebab converts to kebab-case ("BankAccount" -> "bank-account").
func Kebab(s string) string {
	return strcase.ToKebab(s)
}

// Snake converts to snake_case ("BankAccount" -> "bank_account").
func Snake(s string) string {
	return strcase.ToSnake(s)
}

// ScreamingSnake converts to SCREAMING_SNAKE_CASE.
func ScreamingSnake(s string) string {
	return strcase.ToScreamingSnake(s)
}

// Humanize turns an identifier into space separated capitalized words ("myApp" -> "My App").
func Humanize(s string) string {
	words := strings.Split(strcase.ToDelimited(s, ' '), " ")
	for i, w := range words {
		words[i] = UpperFirst(w)
	}
	return strings.Join(words, " ")
}

// Plural pluralizes the last word of an identifier, keeping the leading words intact
// ("BankAccount" -> "BankAccounts", "person" -> "people").
func Plural(s string) string {
	return transformLastWord(s, pluralizer.Plural)
}

// Singular singularizes the last word of an identifier.
func Singular(s string) string {
	return transformLastWord(s, pluralizer.Singular)
}

func transformLastWord(s string, fn func(string) string) string {
	if s == "" {
		return s
	}
	start := lastWordStart(s)
	prefix, last := s[:start], s[start:]
	out := fn(strings.ToLower(last))
	if r, _ := utf8.DecodeRuneInString(last); unicode.IsUpper(r) {
		out = UpperFirst(out)
	}
	return prefix + out
}

// lastWordStart returns the byte offset where the last camel/kebab/snake word begins.
func lastWordStart(s string) int {
	start := 0
	prevLower := false
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r == ' ':
			start = i + 1
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				start = i
			}
			prevLower = false
		default:
			prevLower = true
		}
	}
	return start
}
