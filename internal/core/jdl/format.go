package jdl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
)

var (
	identPattern = regexp.MustCompile(`^[a-zA-Z_][\w.\-]*$`)
	reservedWord = regexp.MustCompile(`^(application|config|entities|entity|enum|relationship|deployment|with|except|to|required|unique|minlength|maxlength|minbytes|maxbytes|min|max|pattern|true|false|all)$`)
)

// Format writes doc as canonical JDL text.
func Format(doc *Document) string {
	var b strings.Builder
	section := func() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
	}

	for _, c := range doc.Constants {
		fmt.Fprintf(&b, "%s = %s\n", c.Name, entity.FormatNumber(c.Value))
	}

	for _, app := range doc.Applications {
		section()
		formatApplication(&b, doc, app)
	}

	for _, e := range doc.Entities {
		section()
		formatEntity(&b, e)
	}

	for _, e := range doc.Enums {
		section()
		writeJavadoc(&b, "", e.Javadoc)
		fmt.Fprintf(&b, "enum %s {\n", e.Name)
		for i, v := range e.Values {
			b.WriteString("  " + v.Name)
			if v.Value != v.Name {
				b.WriteString(" (" + literal(v.Value) + ")")
			}
			if i < len(e.Values)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	for _, run := range relationshipRuns(doc.Relationships) {
		section()
		fmt.Fprintf(&b, "relationship %s {\n", run[0].Type)
		for i, r := range run {
			b.WriteString("  " + formatRelationship(r))
			if i < len(run)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	if opts := formatOptions(doc.Entities, doc.EntityNames()); len(opts) > 0 {
		section()
		for _, line := range opts {
			b.WriteString(line + "\n")
		}
	}

	for _, d := range doc.Deployments {
		section()
		b.WriteString("deployment {\n")
		writeConfig(&b, "  ", d)
		b.WriteString("}\n")
	}
	return b.String()
}

func formatApplication(b *strings.Builder, doc *Document, app *Application) {
	b.WriteString("application {\n  config {\n")
	writeConfig(b, "    ", app.Config)
	b.WriteString("  }\n")
	if len(app.Entities) > 0 {
		b.WriteString("  entities " + selection(app.Entities, doc.EntityNames()) + "\n")
	}
	for _, o := range app.Options {
		opt, ok := options.EntityOptionByKey(o.Key)
		if !ok || len(o.Entities) == 0 {
			continue
		}
		line := "  " + opt.Name + " " + selection(o.Entities, app.Entities)
		if opt.Binary {
			line += " with " + literal(fmt.Sprint(o.Value))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("}\n")
}

func writeConfig(b *strings.Builder, indent string, cfg *project.Config) {
	for _, key := range cfg.Keys() {
		if key == options.Entities {
			continue
		}
		value, _ := cfg.Get(key)
		fmt.Fprintf(b, "%s%s %s\n", indent, key, configValue(value))
	}
}

func configValue(v any) string {
	switch val := v.(type) {
	case string:
		return literal(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return entity.FormatNumber(val)
	case []string:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = literal(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = configValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}

// literal writes s bare when it lexes back as the same identifier, quoted otherwise.
func literal(s string) string {
	if identPattern.MatchString(s) && !reservedWord.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

func formatEntity(b *strings.Builder, e *entity.Entity) {
	writeJavadoc(b, "", e.Javadoc)
	if e.ChangelogDate != "" {
		fmt.Fprintf(b, "@%s(%s)\n", ChangelogDateAnnotation, strconv.Quote(e.ChangelogDate))
	}
	b.WriteString("entity " + e.Name)
	if e.EntityTableName != "" {
		b.WriteString("(" + e.EntityTableName + ")")
	}
	if len(e.Fields) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, f := range e.Fields {
		writeJavadoc(b, "  ", f.Javadoc)
		b.WriteString("  " + f.FieldName + " " + f.FieldType)
		for _, rule := range f.FieldValidateRules {
			b.WriteString(" " + rule)
			if rule == "pattern" {
				b.WriteString("(/" + f.FieldValidateRulesPattern + "/)")
			} else if v := f.RuleValue(rule); v != nil {
				b.WriteString("(" + entity.FormatNumber(*v) + ")")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

// relationshipRuns splits relationships into consecutive runs of the same type, keeping
// declaration order.
func relationshipRuns(relationships []*Relationship) [][]*Relationship {
	var runs [][]*Relationship
	for _, r := range relationships {
		if n := len(runs); n > 0 && runs[n-1][0].Type == r.Type {
			runs[n-1] = append(runs[n-1], r)
			continue
		}
		runs = append(runs, []*Relationship{r})
	}
	return runs
}

func formatRelationship(r *Relationship) string {
	line := formatSide(r.From) + " to " + formatSide(r.To)
	if r.JPADerivedIdentifier {
		line += " with " + JPADerivedIdentifier
	}
	return line
}

func formatSide(s RelationshipSide) string {
	out := ""
	if s.Javadoc != "" {
		out = "/** " + strings.ReplaceAll(s.Javadoc, "\n", " ") + " */ "
	}
	out += s.Entity
	if s.Injected == "" {
		return out
	}
	out += "{" + s.Injected
	if s.Display != "" {
		out += "(" + s.Display + ")"
	}
	if s.Required {
		out += " required"
	}
	return out + "}"
}

// formatOptions groups entities sharing an option value into one line per value.
func formatOptions(entities []*entity.Entity, all []string) []string {
	var lines []string
	for _, opt := range options.EntityOptions() {
		groups := map[string][]string{}
		var values []string
		for _, e := range entities {
			v, set := e.Option(opt.Key)
			if !set {
				continue
			}
			key := ""
			if opt.Binary {
				key = fmt.Sprint(v)
			}
			if _, ok := groups[key]; !ok {
				values = append(values, key)
			}
			groups[key] = append(groups[key], e.Name)
		}
		sort.Strings(values)
		for _, value := range values {
			line := opt.Name + " " + selection(groups[value], all)
			if opt.Binary {
				line += " with " + literal(value)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func selection(names, all []string) string {
	if len(names) > 1 && len(names) == len(all) {
		return "*"
	}
	return strings.Join(names, ", ")
}

func writeJavadoc(b *strings.Builder, indent, text string) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		fmt.Fprintf(b, "%s/** %s */\n", indent, text)
		return
	}
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, line := range lines {
		fmt.Fprintf(b, "%s * %s\n", indent, line)
	}
	fmt.Fprintf(b, "%s */\n", indent)
}
