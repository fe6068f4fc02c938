// Package templates renders the embedded template tree with text/template and stages the
// results in a Writer until the conflicts phase commits them.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

//go:embed all:files
var embedded embed.FS

// Suffix marks template sources. It is stripped from destination names.
const Suffix = ".tmpl"

// Engine renders templates from a filesystem. Parsed templates are cached.
type Engine struct {
	fsys  fs.FS
	funcs template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEngine creates an engine reading templates from fsys.
func NewEngine(fsys fs.FS) *Engine {
	return &Engine{fsys: fsys, funcs: FuncMap(), cache: map[string]*template.Template{}}
}

// Default returns an engine over the built-in templates.
func Default() *Engine {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return NewEngine(sub)
}

// Funcs adds template functions. Call it before the first Render.
func (e *Engine) Funcs(funcs template.FuncMap) *Engine {
	for name, fn := range funcs {
		e.funcs[name] = fn
	}
	return e
}

// Exists reports whether the template source exists.
func (e *Engine) Exists(name string) bool {
	_, err := fs.Stat(e.fsys, name)
	return err == nil
}

// Render executes the template at name.
func (e *Engine) Render(name string, data any) ([]byte, error) {
	tmpl, err := e.load(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderString executes an inline template such as a destination path.
func (e *Engine) RenderString(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New("inline").Funcs(e.funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %q: %w", text, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", text, err)
	}
	return buf.String(), nil
}

func (e *Engine) load(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	src, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// FuncMap returns the helper functions available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"upperFirst": naming.UpperFirst,
		"lowerFirst": naming.LowerFirst,
		"camel":      naming.Camel,
		"pascal":     naming.Pascal,
		"kebab":      naming.Kebab,
		"snake":      naming.Snake,
		"screaming":  naming.ScreamingSnake,
		"plural":     naming.Plural,
		"singular":   naming.Singular,
		"humanize":   naming.Humanize,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"replace":    strings.ReplaceAll,
		"join":       join,
		"contains":   contains,
		"indent":     indent,
		"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
		"inc":        func(i int) int { return i + 1 },
		"columnType": columnType,
		"default": func(def, v any) any {
			if v == nil || v == "" {
				return def
			}
			return v
		},
	}
}

func toStrings(list any) []string {
	switch l := list.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if l == "" {
			return nil
		}
		return []string{l}
	default:
		return nil
	}
}

func join(list any, sep string) string {
	return strings.Join(toStrings(list), sep)
}

func contains(list any, value string) bool {
	for _, item := range toStrings(list) {
		if item == value {
			return true
		}
	}
	return false
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

var liquibaseTypes = map[string]string{
	"String":        "varchar(255)",
	"Integer":       "integer",
	"Long":          "bigint",
	"Float":         "${floatType}",
	"Double":        "double",
	"BigDecimal":    "decimal(21,2)",
	"LocalDate":     "date",
	"Instant":       "${datetimeType}",
	"ZonedDateTime": "${datetimeType}",
	"Duration":      "bigint",
	"UUID":          "${uuidType}",
	"Boolean":       "boolean",
	"Blob":          "${blobType}",
	"AnyBlob":       "${blobType}",
	"ImageBlob":     "${blobType}",
	"TextBlob":      "${clobType}",
}

// columnType maps prepared field data to its Liquibase column type. Enums are stored as text.
func columnType(field map[string]any) string {
	t, _ := field["fieldType"].(string)
	if lt, ok := liquibaseTypes[t]; ok {
		return lt
	}
	return "varchar(255)"
}
