// Package jdl parses the JHipster Domain Language and converts it to and from the entity JSON
// model and the project configuration.
package jdl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/jhipster/jhipster-go/internal/core/jdl/ast"
)

var parser = participle.MustBuild[ast.File](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment"),
	participle.Unquote("String"),
	participle.UseLookahead(10),
)

// Parse parses src. On failure the returned error wraps ErrInvalidDocument and a Diagnostic.
func Parse(filename, src string) (*ast.File, error) {
	return ParseReader(filename, strings.NewReader(src))
}

// ParseReader parses a JDL document from r.
func ParseReader(filename string, r io.Reader) (*ast.File, error) {
	file, err := parser.Parse(filename, r)
	if err != nil {
		diag := fromParseError(filename, err).All()[0]
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, diag)
	}
	return file, nil
}

// Load parses and converts src. Diagnostics hold parse errors as well as semantic problems.
func Load(filename, src string) (*Document, Diagnostics) {
	file, err := parser.ParseString(filename, src)
	if err != nil {
		return nil, fromParseError(filename, err)
	}
	return Convert(file)
}

// Grammar returns the EBNF of the language.
func Grammar() string {
	return parser.String()
}
