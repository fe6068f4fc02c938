package jdl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/jdl/ast"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
)

// ChangelogDateAnnotation sets the changelog date of an entity: @ChangelogDate("20240101000000").
const ChangelogDateAnnotation = "ChangelogDate"

// JPADerivedIdentifier is the relationship option of "A to B with jpaDerivedIdentifier".
const JPADerivedIdentifier = "jpaDerivedIdentifier"

type converter struct {
	doc       *Document
	diags     Diagnostics
	constants map[string]float64
}

// Convert resolves a parse tree into a Document: constants are substituted, annotations and
// options are applied to entities and every reference is checked.
func Convert(file *ast.File) (*Document, Diagnostics) {
	c := &converter{doc: &Document{}, constants: map[string]float64{}}

	// Declarations may be referenced before they appear, so resolve in passes.
	for _, item := range file.Items {
		if item.Constant != nil {
			c.constant(item.Constant)
		}
	}
	for _, item := range file.Items {
		if item.Enum != nil {
			c.enum(item.Enum, item.Doc)
		}
	}
	for _, item := range file.Items {
		if item.Entity != nil {
			c.entity(item.Entity, item.Doc)
		}
	}
	for _, item := range file.Items {
		switch {
		case item.Relationship != nil:
			c.relationships(item.Relationship)
		case item.Option != nil:
			c.globalOption(item.Option)
		case item.Application != nil:
			c.application(item.Application)
		case item.Deployment != nil:
			c.doc.Deployments = append(c.doc.Deployments, c.configBlock(item.Deployment.Entries, false))
		}
	}
	c.checkFieldTypes()
	return c.doc, c.diags
}

func (c *converter) constant(decl *ast.Constant) {
	if _, dup := c.constants[decl.Name]; dup {
		c.diags.Errorf(decl.Pos, "constant %s is declared twice", decl.Name)
		return
	}
	v, err := strconv.ParseFloat(decl.Value, 64)
	if err != nil {
		c.diags.Errorf(decl.Pos, "constant %s: %q is not a number", decl.Name, decl.Value)
		return
	}
	c.constants[decl.Name] = v
	c.doc.Constants = append(c.doc.Constants, Constant{Name: decl.Name, Value: v})
}

func (c *converter) enum(decl *ast.Enum, doc *string) {
	if _, dup := c.doc.Enum(decl.Name); dup {
		c.diags.Errorf(decl.Pos, "enum %s is declared twice", decl.Name)
		return
	}
	if entity.IsBuiltInFieldType(decl.Name) {
		c.diags.Errorf(decl.Pos, "enum %s shadows a built-in field type", decl.Name)
		return
	}
	e := &Enum{Name: decl.Name, Javadoc: ast.CleanJavadoc(doc)}
	for _, v := range decl.Values {
		value := v.Name
		if v.Custom != nil {
			value = *v.Custom
		}
		e.Values = append(e.Values, entity.EnumValue{Name: v.Name, Value: value})
	}
	if len(e.Values) == 0 {
		c.diags.Errorf(decl.Pos, "enum %s has no values", decl.Name)
	}
	c.doc.Enums = append(c.doc.Enums, e)
}

func (c *converter) entity(decl *ast.Entity, doc *string) {
	if _, dup := c.doc.Entity(decl.Name); dup {
		c.diags.Errorf(decl.Pos, "entity %s is declared twice", decl.Name)
		return
	}
	if strings.EqualFold(decl.Name, entity.BuiltInUser) {
		c.diags.Warnf(decl.Pos, "entity %s overrides the built-in user entity", decl.Name)
	}
	e := entity.New(decl.Name)
	e.Javadoc = ast.CleanJavadoc(doc)
	if decl.TableName != nil {
		e.EntityTableName = *decl.TableName
	}
	for _, a := range decl.Annotations {
		c.annotation(e, a)
	}
	for _, f := range decl.FieldList() {
		if _, dup := e.Field(f.Name); dup {
			c.diags.Errorf(f.Pos, "field %s.%s is declared twice", decl.Name, f.Name)
			continue
		}
		e.Fields = append(e.Fields, c.field(decl.Name, f))
	}
	c.doc.Entities = append(c.doc.Entities, e)
}

func (c *converter) annotation(e *entity.Entity, a *ast.Annotation) {
	if a.Name == ChangelogDateAnnotation {
		if a.Value == nil {
			c.diags.Errorf(a.Pos, "@%s needs a value", a.Name)
			return
		}
		e.ChangelogDate = *a.Value
		return
	}
	opt, ok := options.LookupEntityOption(a.Name)
	if !ok {
		c.diags.Warnf(a.Pos, "unknown annotation @%s on entity %s", a.Name, e.Name)
		return
	}
	value := ""
	if a.Value != nil {
		value = *a.Value
	}
	c.applyOption(a.Pos, opt, value, e)
}

func (c *converter) applyOption(pos lexer.Position, opt options.EntityOption, value string, targets ...*entity.Entity) {
	v, ok := c.optionValue(pos, opt, value)
	if !ok {
		return
	}
	for _, e := range targets {
		if err := e.SetOption(opt.Key, v); err != nil {
			c.diags.Errorf(pos, "%v", err)
		}
	}
}

func (c *converter) optionValue(pos lexer.Position, opt options.EntityOption, value string) (any, bool) {
	switch {
	case opt.Binary && value == "":
		c.diags.Errorf(pos, "option %s needs a value", opt.Name)
		return nil, false
	case !opt.Binary && value != "":
		c.diags.Errorf(pos, "option %s takes no value", opt.Name)
		return nil, false
	case !opt.AcceptsValue(value):
		c.diags.Errorf(pos, "option %s does not accept %q (expected one of %s)", opt.Name, value, strings.Join(opt.Values, ", "))
		return nil, false
	}
	return opt.JSONValue(value), true
}

func (c *converter) field(entityName string, decl *ast.Field) entity.Field {
	f := entity.Field{FieldName: decl.Name, FieldType: decl.Type, Javadoc: ast.CleanJavadoc(decl.Doc)}
	for _, v := range decl.Validations {
		if f.HasRule(v.Name) {
			c.diags.Warnf(v.Pos, "validation %s is repeated on %s.%s", v.Name, entityName, decl.Name)
			continue
		}
		switch v.Name {
		case "required", "unique":
		case "pattern":
			if v.Arg == nil || v.Arg.Regex == nil {
				c.diags.Errorf(v.Pos, "validation pattern needs a /regex/ argument")
				continue
			}
			f.FieldValidateRulesPattern = strings.TrimSuffix(strings.TrimPrefix(*v.Arg.Regex, "/"), "/")
		default:
			n, ok := c.number(v)
			if !ok {
				continue
			}
			_ = f.SetRuleValue(v.Name, n)
		}
		f.FieldValidateRules = append(f.FieldValidateRules, v.Name)
	}
	return f
}

func (c *converter) number(v *ast.Validation) (float64, bool) {
	if v.Arg == nil || v.Arg.Value == nil {
		c.diags.Errorf(v.Pos, "validation %s needs a numeric argument", v.Name)
		return 0, false
	}
	raw := *v.Arg.Value
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n, true
	}
	if n, ok := c.constants[raw]; ok {
		return n, true
	}
	c.diags.Errorf(v.Arg.Pos, "validation %s: %q is neither a number nor a declared constant", v.Name, raw)
	return 0, false
}

func (c *converter) checkFieldTypes() {
	for _, e := range c.doc.Entities {
		for _, f := range e.Fields {
			if entity.IsBuiltInFieldType(f.FieldType) {
				continue
			}
			if _, ok := c.doc.Enum(f.FieldType); !ok {
				c.diags.Errorf(lexer.Position{}, "field %s.%s has unknown type %s", e.Name, f.FieldName, f.FieldType)
			}
		}
	}
}

func (c *converter) relationships(block *ast.RelationshipBlock) {
	if _, ok := JSONRelationshipType(block.Type); !ok {
		c.diags.Errorf(block.Pos, "unknown relationship type %s (expected OneToOne, OneToMany, ManyToOne or ManyToMany)", block.Type)
		return
	}
	for _, decl := range block.Items {
		r := &Relationship{Type: block.Type, From: side(decl.From), To: side(decl.To)}
		r.From.dropDefaultName(r.To.Entity)
		if r.Type == OneToMany {
			// Other types create the inverse side only when it is named.
			r.To.dropDefaultName(r.From.Entity)
		}
		if decl.With != nil {
			if *decl.With != JPADerivedIdentifier {
				c.diags.Errorf(decl.Pos, "unknown relationship option %s", *decl.With)
			}
			r.JPADerivedIdentifier = *decl.With == JPADerivedIdentifier
		}
		ok := true
		for _, s := range []*ast.RelationshipSide{decl.From, decl.To} {
			if _, found := c.doc.Entity(s.Entity); !found && !strings.EqualFold(s.Entity, entity.BuiltInUser) {
				c.diags.Errorf(s.Pos, "relationship references unknown entity %s", s.Entity)
				ok = false
			}
		}
		if strings.EqualFold(r.From.Entity, entity.BuiltInUser) {
			if _, declared := c.doc.Entity(r.From.Entity); !declared {
				c.diags.Errorf(decl.Pos, "the built-in %s entity cannot own a relationship", entity.BuiltInUser)
				ok = false
			}
		}
		if ok {
			c.doc.Relationships = append(c.doc.Relationships, r)
		}
	}
}

func side(s *ast.RelationshipSide) RelationshipSide {
	out := RelationshipSide{Entity: s.Entity, Javadoc: ast.CleanJavadoc(s.Doc)}
	if s.Injected != nil {
		out.Injected = s.Injected.Name
		out.Required = s.Injected.Required
		if s.Injected.Display != nil {
			out.Display = *s.Injected.Display
		}
	}
	return out
}

func (c *converter) globalOption(decl *ast.Option) {
	opt, ok := options.LookupEntityOption(decl.Name)
	if !ok {
		c.diags.Errorf(decl.Pos, "unknown option %s", decl.Name)
		return
	}
	names := c.selection(decl.Pos, decl.Targets, decl.Except, c.doc.EntityNames())
	targets := make([]*entity.Entity, 0, len(names))
	for _, name := range names {
		e, _ := c.doc.Entity(name)
		targets = append(targets, e)
	}
	c.applyOption(decl.Pos, opt, deref(decl.Value), targets...)
}

// selection resolves "*"/"all"/names minus exclusions against scope.
func (c *converter) selection(pos lexer.Position, sel *ast.Selection, except []string, scope []string) []string {
	for _, name := range append(append([]string(nil), sel.Names...), except...) {
		if _, ok := c.doc.Entity(name); !ok {
			c.diags.Errorf(pos, "unknown entity %s", name)
		}
	}
	excluded := map[string]bool{}
	for _, name := range except {
		excluded[name] = true
	}
	candidates := sel.Names
	if sel.All {
		candidates = scope
	}
	var out []string
	for _, name := range candidates {
		if excluded[name] {
			continue
		}
		if _, ok := c.doc.Entity(name); ok {
			out = append(out, name)
		}
	}
	return out
}

func (c *converter) application(decl *ast.Application) {
	app := &Application{Config: project.New()}
	var optionDecls []*ast.Option
	configs := 0
	for _, item := range decl.Body {
		switch {
		case item.Config != nil:
			configs++
			app.Config.Merge(c.configBlock(item.Config.Entries, true))
		case item.Entities != nil:
			app.Entities = append(app.Entities, c.selection(item.Entities.Pos, item.Entities.Targets, item.Entities.Except, c.doc.EntityNames())...)
		case item.Option != nil:
			optionDecls = append(optionDecls, item.Option)
		}
	}
	if configs == 0 {
		c.diags.Errorf(decl.Pos, "application has no config block")
	}
	if !app.Config.Has(options.BaseName) {
		c.diags.Errorf(decl.Pos, "application has no baseName")
	}
	for _, a := range c.doc.Applications {
		if a.BaseName() == app.BaseName() && app.BaseName() != "" {
			c.diags.Errorf(decl.Pos, "application %s is declared twice", app.BaseName())
		}
	}

	for _, o := range optionDecls {
		opt, ok := options.LookupEntityOption(o.Name)
		if !ok {
			c.diags.Errorf(o.Pos, "unknown option %s", o.Name)
			continue
		}
		value, ok := c.optionValue(o.Pos, opt, deref(o.Value))
		if !ok {
			continue
		}
		targets := c.selection(o.Pos, o.Targets, o.Except, app.Entities)
		for _, name := range targets {
			if !contains(app.Entities, name) {
				c.diags.Errorf(o.Pos, "option %s targets %s which is not part of application %s", o.Name, name, app.BaseName())
			}
		}
		app.Options = append(app.Options, OptionValue{Key: opt.Key, Value: value, Entities: targets})
	}
	c.doc.Applications = append(c.doc.Applications, app)
}

// configBlock converts key/value entries. Application configs are typed and checked against
// the option registry; deployment configs are converted generically.
func (c *converter) configBlock(entries []*ast.ConfigEntry, application bool) *project.Config {
	cfg := project.New()
	for _, entry := range entries {
		if cfg.Has(entry.Key) {
			c.diags.Warnf(entry.Pos, "%s is set twice, the last value wins", entry.Key)
		}
		if !application {
			cfg.Set(entry.Key, genericValue(entry.Value))
			continue
		}
		def, known := options.Lookup(entry.Key)
		if !known {
			if entry.Key != options.JHipsterVersion {
				c.diags.Warnf(entry.Pos, "unknown application option %s", entry.Key)
			}
			cfg.Set(entry.Key, genericValue(entry.Value))
			continue
		}
		if !def.JDL {
			c.diags.Warnf(entry.Pos, "option %s is not meant to be set from JDL", entry.Key)
		}
		v, ok := c.typedValue(entry, def)
		if ok {
			cfg.Set(entry.Key, v)
		}
	}
	return cfg
}

func (c *converter) typedValue(entry *ast.ConfigEntry, def options.Definition) (any, bool) {
	v := entry.Value
	raw := scalar(v)
	switch def.Type {
	case options.TypeList:
		items := v.Items()
		if !v.IsList() {
			items = []string{raw}
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if def.HasChoices() && !options.IsKnownChoice(def.Name, item) {
				c.diags.Errorf(entry.Pos, "%s: unknown value %q (expected one of %s)", def.Name, item, strings.Join(def.ChoiceValues(), ", "))
				continue
			}
			list = append(list, item)
		}
		return list, true
	case options.TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if v.IsList() || err != nil {
			c.diags.Errorf(entry.Pos, "%s expects true or false", def.Name)
			return nil, false
		}
		return b, true
	case options.TypeInteger:
		n, err := strconv.Atoi(raw)
		if v.IsList() || err != nil {
			c.diags.Errorf(entry.Pos, "%s expects an integer", def.Name)
			return nil, false
		}
		return n, true
	default:
		if v.IsList() {
			c.diags.Errorf(entry.Pos, "%s expects a single value", def.Name)
			return nil, false
		}
		if def.HasChoices() && !options.IsKnownChoice(def.Name, raw) {
			c.diags.Errorf(entry.Pos, "%s: unknown value %q (expected one of %s)", def.Name, raw, strings.Join(def.ChoiceValues(), ", "))
			return nil, false
		}
		return raw, true
	}
}

func scalar(v *ast.Value) string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

func genericValue(v *ast.Value) any {
	switch {
	case v.IsList():
		return append([]string{}, v.Items()...)
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		if n, err := strconv.Atoi(*v.Number); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(*v.Number, 64); err == nil {
			return f
		}
		return *v.Number
	case v.Ident != nil:
		switch *v.Ident {
		case "true":
			return true
		case "false":
			return false
		}
		return *v.Ident
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
