package jdl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the token types of the JHipster Domain Language.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments (javadoc first, it is kept)
	{Name: "Javadoc", Pattern: `/\*\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},

	// Validation patterns: pattern(/^[A-Z]+$/)
	{Name: "Regex", Pattern: `/(?:\\.|[^/\\\n*])(?:\\.|[^/\\\n])*/`},

	// Keywords
	{Name: "Keyword", Pattern: `\b(application|config|entities|entity|enum|relationship|deployment|with|except|to)\b`},
	{Name: "Validation", Pattern: `\b(required|unique|minlength|maxlength|minbytes|maxbytes|min|max|pattern)\b`},

	// Punctuation
	{Name: "Punct", Pattern: `[{}()\[\],=*@]`},

	// Literals
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)*`},

	// Identifiers may carry dots and dashes: com.mycompany.myapp, generator-jhipster-foo
	{Name: "Ident", Pattern: `[a-zA-Z_][\w.\-]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})
