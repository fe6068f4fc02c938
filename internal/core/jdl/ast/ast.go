// Package ast defines the parse tree of the JHipster Domain Language.
package ast

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed JDL document.
type File struct {
	Pos   lexer.Position
	Items []*Item `@@*`
}

// Item is a union of the top level declarations.
type Item struct {
	Pos          lexer.Position
	Doc          *string            `@Javadoc?`
	Application  *Application       `(  @@`
	Entity       *Entity            `| @@`
	Enum         *Enum              `| @@`
	Relationship *RelationshipBlock `| @@`
	Deployment   *Deployment        `| @@`
	Constant     *Constant          `| @@`
	Option       *Option            `| @@ )`
}

// Application is an application block.
type Application struct {
	Pos  lexer.Position
	Body []*ApplicationItem `"application" "{" @@* "}"`
}

// ApplicationItem is a union of what an application block contains.
type ApplicationItem struct {
	Pos      lexer.Position
	Config   *Config          `  @@`
	Entities *EntitySelection `| @@`
	Option   *Option          `| @@`
}

// Config is a config block.
type Config struct {
	Pos     lexer.Position
	Entries []*ConfigEntry `"config" "{" @@* "}"`
}

// ConfigEntry is a key/value pair of a config or deployment block.
type ConfigEntry struct {
	Pos   lexer.Position
	Key   string `@Ident`
	Value *Value `@@ ","?`
}

// Value is a config value.
type Value struct {
	Pos    lexer.Position
	Empty  bool       `  @( "[" "]" )`
	List   *ListValue `| "[" @@ "]"`
	String *string    `| @String`
	Number *string    `| @Number`
	Ident  *string    `| @Ident`
}

// ListValue is a non-empty bracketed list.
type ListValue struct {
	Items []string `@( Ident | String | Number ) ( "," @( Ident | String | Number ) )*`
}

// IsList reports whether the value is a list.
func (v *Value) IsList() bool {
	return v.Empty || v.List != nil
}

// Items returns list items; nil for scalars.
func (v *Value) Items() []string {
	if v.List == nil {
		return nil
	}
	return v.List.Items
}

// Annotation is an @name or @name(value) prefix.
type Annotation struct {
	Pos   lexer.Position
	Name  string  `"@" @Ident`
	Value *string `( "(" @( Ident | String | Number ) ")" )?`
}

// Entity is an entity declaration.
type Entity struct {
	Pos         lexer.Position
	Annotations []*Annotation `@@*`
	Name        string        `"entity" @Ident`
	TableName   *string       `( "(" @Ident ")" )?`
	Body        *EntityBody   `( "{" @@ "}" )?`
}

// EntityBody holds the fields of an entity.
type EntityBody struct {
	Fields []*Field `@@*`
}

// FieldList returns the fields of e.
func (e *Entity) FieldList() []*Field {
	if e.Body == nil {
		return nil
	}
	return e.Body.Fields
}

// Field is an entity field.
type Field struct {
	Pos         lexer.Position
	Doc         *string       `@Javadoc?`
	Name        string        `@( Ident | Validation | Keyword )`
	Type        string        `@Ident`
	Validations []*Validation `@@* ","?`
}

// Validation is a field validation. Only required and unique stand alone; the others always
// take an argument, so a field named min or pattern can follow a field.
type Validation struct {
	Pos  lexer.Position
	Name string         `  @( "required" | "unique" ) | @Validation`
	Arg  *ValidationArg `  "(" @@ ")"`
}

// ValidationArg is the argument of a validation: a number, a constant name or a regex.
type ValidationArg struct {
	Pos   lexer.Position
	Regex *string `  @Regex`
	Value *string `| @( Number | Ident | String )`
}

// Enum is an enum declaration.
type Enum struct {
	Pos    lexer.Position
	Name   string       `"enum" @Ident "{"`
	Values []*EnumValue `( @@ ( "," @@ )* ","? )? "}"`
}

// EnumValue is an enum value with an optional custom value.
type EnumValue struct {
	Pos    lexer.Position
	Doc    *string `@Javadoc?`
	Name   string  `@Ident`
	Custom *string `( "(" @( Ident | String | Number ) ")" )?`
}

// RelationshipBlock groups relationships of one type.
type RelationshipBlock struct {
	Pos   lexer.Position
	Type  string          `"relationship" @Ident "{"`
	Items []*Relationship `( @@ ","? )* "}"`
}

// Relationship is a single "From to To" declaration.
type Relationship struct {
	Pos  lexer.Position
	From *RelationshipSide `@@ "to"`
	To   *RelationshipSide `@@`
	With *string           `( "with" @Ident )?`
}

// RelationshipSide is one end of a relationship.
type RelationshipSide struct {
	Pos         lexer.Position
	Doc         *string        `@Javadoc?`
	Annotations []*Annotation  `@@*`
	Entity      string         `@Ident`
	Injected    *InjectedField `( "{" @@ "}" )?`
}

// InjectedField names the field a relationship creates.
type InjectedField struct {
	Pos      lexer.Position
	Name     string  `@Ident`
	Display  *string `( "(" @Ident ")" )?`
	Required bool    `@"required"?`
}

// Option applies an entity option to a selection of entities.
type Option struct {
	Pos     lexer.Position
	Name    string     `@Ident`
	Targets *Selection `@@`
	Value   *string    `( "with" @( Ident | String ) )?`
	Except  []string   `( "except" @Ident ( "," @Ident )* )?`
}

// EntitySelection lists the entities of an application.
type EntitySelection struct {
	Pos     lexer.Position
	Targets *Selection `"entities" @@`
	Except  []string   `( "except" @Ident ( "," @Ident )* )?`
}

// Selection is "*", "all" or a list of entity names.
type Selection struct {
	Pos   lexer.Position
	All   bool     `  @( "*" | "all" )`
	Names []string `| @Ident ( "," @Ident )*`
}

// Deployment is a deployment block.
type Deployment struct {
	Pos     lexer.Position
	Entries []*ConfigEntry `"deployment" "{" @@* "}"`
}

// Constant is a numeric constant usable as a validation argument.
type Constant struct {
	Pos   lexer.Position
	Name  string `@Ident "="`
	Value string `@Number`
}

// CleanJavadoc strips the comment markers of a /** ... */ block.
func CleanJavadoc(raw *string) string {
	if raw == nil {
		return ""
	}
	text := strings.TrimSpace(*raw)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
