package jdl

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/core/entity"
)

const storeJDL = `
MIN_NAME = 2

/** Main application */
application {
  config {
    baseName store
    applicationType monolith
    packageName com.example.store
    serverPort 8080
    enableTranslation true
    languages [en, fr]
    jhipsterVersion "8.1.0"
  }
  entities *
  dto * with mapstruct
}

/**
 * An owner of cars.
 */
@ChangelogDate("20240101000000")
entity Owner {
  /** Full name */
  name String required minlength(MIN_NAME) maxlength(50)
  email String pattern(/^[^@]+@[^@]+$/)
  status Status
}

@ChangelogDate("20240101000001")
@paginate(infinite-scroll)
entity Car(vehicle) {
  price BigDecimal min(0)
}

entity Garage

enum Status {
  ACTIVE,
  RETIRED (retired)
}

// relationships
relationship OneToMany {
  Owner{cars} to Car{owner(name) required}
}

relationship ManyToOne {
  Car{garage} to Garage
}

relationship OneToOne {
  Garage{manager} to User
}

service Owner, Car with serviceImpl
skipClient * except Garage
`

func loadStore(t *testing.T) *Document {
	t.Helper()
	doc, diags := Load("store.jdl", storeJDL)
	require.False(t, diags.HasErrors(), diags.PrettyString(storeJDL))
	return doc
}

func TestLoad(t *testing.T) {
	doc := loadStore(t)

	assert.Equal(t, []Constant{{Name: "MIN_NAME", Value: 2}}, doc.Constants)
	assert.Equal(t, []string{"Owner", "Car", "Garage"}, doc.EntityNames())

	require.Len(t, doc.Applications, 1)
	app := doc.Applications[0]
	assert.Equal(t, "store", app.BaseName())
	assert.Equal(t, 8080, app.Config.Int("serverPort"))
	assert.True(t, app.Config.Bool("enableTranslation"))
	assert.Equal(t, []string{"en", "fr"}, app.Config.Strings("languages"))
	assert.Equal(t, "8.1.0", app.Config.String("jhipsterVersion"))
	assert.Equal(t, []string{"Owner", "Car", "Garage"}, app.Entities)
	assert.Equal(t, []OptionValue{{Key: "dto", Value: "mapstruct", Entities: []string{"Owner", "Car", "Garage"}}}, app.Options)

	owner, ok := doc.Entity("Owner")
	require.True(t, ok)
	assert.Equal(t, "An owner of cars.", owner.Javadoc)
	assert.Equal(t, "20240101000000", owner.ChangelogDate)
	assert.Equal(t, "serviceImpl", owner.Service)
	assert.True(t, owner.SkipClient)
	assert.Empty(t, owner.Dto, "application options stay on the application")

	name, _ := owner.Field("name")
	assert.Equal(t, "Full name", name.Javadoc)
	assert.Equal(t, []string{"required", "minlength", "maxlength"}, name.FieldValidateRules)
	assert.Equal(t, 2.0, *name.FieldValidateRulesMinlength)
	assert.Equal(t, 50.0, *name.FieldValidateRulesMaxlength)
	email, _ := owner.Field("email")
	assert.Equal(t, "^[^@]+@[^@]+$", email.FieldValidateRulesPattern)

	car, _ := doc.Entity("Car")
	assert.Equal(t, "vehicle", car.EntityTableName)
	assert.Equal(t, "infinite-scroll", car.Pagination)
	garage, _ := doc.Entity("Garage")
	assert.False(t, garage.SkipClient)

	status, ok := doc.Enum("Status")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE,RETIRED (retired)", status.FieldValues())

	require.Len(t, doc.Relationships, 3)
	assert.Equal(t, &Relationship{
		Type: OneToMany,
		From: RelationshipSide{Entity: "Owner", Injected: "cars"},
		To:   RelationshipSide{Entity: "Car", Injected: "owner", Display: "name", Required: true},
	}, doc.Relationships[0])
	assert.Equal(t, "", doc.Relationships[1].From.Injected, "default names are dropped")
}

func TestLoad_Diagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field type", "entity A {\n  kind Kind\n}", "unknown type Kind"},
		{"unknown relationship target", "entity A\nrelationship OneToMany {\n  A to B\n}", "unknown entity B"},
		{"unknown relationship type", "entity A\nentity B\nrelationship OneToFew {\n  A to B\n}", "unknown relationship type OneToFew"},
		{"bad option value", "entity A\ndto A with hibernate", `does not accept "hibernate"`},
		{"unary option with value", "entity A\nskipClient A with yes", "takes no value"},
		{"unknown option", "entity A\nfrobnicate A", "unknown option frobnicate"},
		{"missing numeric argument", "entity A {\n  n Integer min(LIMIT)\n}", "neither a number nor a declared constant"},
		{"duplicate entity", "entity A\nentity A", "declared twice"},
		{"application without baseName", "application {\n  config {\n    applicationType monolith\n  }\n}", "no baseName"},
		{"invalid application choice", "application {\n  config {\n    baseName app\n    databaseType oracle\n  }\n}", `unknown value "oracle"`},
		{"boolean expected", "application {\n  config {\n    baseName app\n    reactive maybe\n  }\n}", "expects true or false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Load("test.jdl", tt.src)
			require.True(t, diags.HasErrors())
			err := diags.Err()
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	_, diags := Load("test.jdl", "@frozen\nentity A\napplication {\n  config {\n    baseName app\n    colour blue\n  }\n}")
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings(), 2)
	assert.Contains(t, diags.Warnings()[0].Message, "unknown annotation @frozen")
	assert.Contains(t, diags.Warnings()[1].Message, "unknown application option colour")
	assert.NoError(t, diags.Err())
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("broken.jdl", "entity A {\n  name String\n  ]\n}")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	var diag Diagnostic
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, 3, diag.Pos.Line)
	assert.Equal(t, "broken.jdl", diag.Pos.Filename)
}

func TestPrettyString(t *testing.T) {
	color.NoColor = true
	src := "entity A {\n  kind Kind\n}"
	var diags Diagnostics
	diags.Errorf(positionOf(t, src, "Kind"), "unknown type %s", "Kind")

	out := diags.PrettyString(src)
	assert.Contains(t, out, "error: unknown type Kind")
	assert.Contains(t, out, "--> test.jdl:2:8")
	assert.Contains(t, out, " 2 |   kind Kind")
}

func TestToJSON(t *testing.T) {
	exp, err := ToJSON(loadStore(t))
	require.NoError(t, err)

	store := entity.NewStore(exp.Entities...)
	owner, _ := store.Get("Owner")
	car, _ := store.Get("Car")
	garage, _ := store.Get("Garage")

	assert.Equal(t, []entity.Relationship{{
		RelationshipType:            entity.OneToMany,
		RelationshipName:            "cars",
		OtherEntityName:             "car",
		OtherEntityRelationshipName: "owner",
	}}, owner.Relationships)

	require.Len(t, car.Relationships, 2)
	assert.Equal(t, entity.Relationship{
		RelationshipType:            entity.ManyToOne,
		RelationshipName:            "owner",
		OtherEntityName:             "owner",
		OtherEntityRelationshipName: "cars",
		OtherEntityField:            "name",
		RelationshipValidateRules:   []string{"required"},
	}, car.Relationships[0])
	assert.Equal(t, "garage", car.Relationships[1].RelationshipName)

	// ManyToOne without an inverse name stays unidirectional
	require.Len(t, garage.Relationships, 1)
	assert.True(t, garage.Relationships[0].IsOwner())
	assert.Equal(t, "user", garage.Relationships[0].OtherEntityName)

	status, _ := owner.Field("status")
	assert.Equal(t, "ACTIVE,RETIRED (retired)", status.FieldValues)
	assert.Equal(t, []string{"store"}, owner.Applications)
	assert.Empty(t, owner.Dto)

	require.Len(t, exp.Applications, 1)
	app := exp.Applications[0]
	assert.Equal(t, "store", app.BaseName())
	assert.Equal(t, []string{"Owner", "Car", "Garage"}, app.Config.Strings("entities"))
	for _, e := range app.Entities {
		assert.Equal(t, "mapstruct", e.Dto, e.Name)
	}
}

func TestToJSON_Microservice(t *testing.T) {
	doc, diags := Load("ms.jdl", `
application {
  config {
    baseName billing
    applicationType microservice
  }
  entities Invoice
}
entity Invoice
entity Other
`)
	require.False(t, diags.HasErrors())
	exp, err := ToJSON(doc)
	require.NoError(t, err)
	require.Len(t, exp.Applications[0].Entities, 1)
	assert.Equal(t, "billing", exp.Applications[0].Entities[0].MicroserviceName)
	assert.Empty(t, exp.Entities[0].MicroserviceName)
}

func TestToJSON_InverseSides(t *testing.T) {
	doc, diags := Load("rel.jdl", `
entity A
entity B
relationship OneToOne {
  A{b} to B{a}
}
relationship ManyToMany {
  A{tags(label)} to B
}
`)
	require.False(t, diags.HasErrors())
	exp, err := ToJSON(doc)
	require.NoError(t, err)

	a, b := exp.Entities[0], exp.Entities[1]
	require.Len(t, a.Relationships, 2)
	require.Len(t, b.Relationships, 1)
	assert.True(t, a.Relationships[0].IsOwner())
	assert.False(t, b.Relationships[0].IsOwner())
	assert.Equal(t, "a", b.Relationships[0].RelationshipName)
	assert.Equal(t, "label", a.Relationships[1].OtherEntityField)
}

func TestFromJSON_CollapsesBothSides(t *testing.T) {
	original := loadStore(t)
	exp, err := ToJSON(original)
	require.NoError(t, err)

	back := FromJSON(nil, exp.Entities)
	if diff := cmp.Diff(original.Entities, back.Entities); diff != "" {
		t.Errorf("entities differ (-original +back):\n%s", diff)
	}
	if diff := cmp.Diff(original.Enums, back.Enums); diff != "" {
		t.Errorf("enums differ (-original +back):\n%s", diff)
	}
	if diff := cmp.Diff(original.Relationships, back.Relationships); diff != "" {
		t.Errorf("relationships differ (-original +back):\n%s", diff)
	}
}

func TestFromJSON_Application(t *testing.T) {
	exp, err := ToJSON(loadStore(t))
	require.NoError(t, err)
	app := exp.Applications[0]
	app.Config.Set("jwtSecretKey", "secret")

	doc := FromJSON(app.Config, app.Entities)
	require.Len(t, doc.Applications, 1)
	cfg := doc.Applications[0].Config
	assert.Equal(t, "store", cfg.String("baseName"))
	assert.False(t, cfg.Has("jwtSecretKey"))
	assert.False(t, cfg.Has("entities"))
	assert.Equal(t, []string{"Owner", "Car", "Garage"}, doc.Applications[0].Entities)
}

func TestFormat_RoundTrip(t *testing.T) {
	exp, err := ToJSON(loadStore(t))
	require.NoError(t, err)
	back := FromJSON(exp.Applications[0].Config, exp.Applications[0].Entities)

	text := Format(back)
	assert.Contains(t, text, "@ChangelogDate(\"20240101000000\")\nentity Owner {")
	assert.Contains(t, text, "  name String required minlength(2) maxlength(50)\n")
	assert.Contains(t, text, "entity Car(vehicle) {")
	assert.Contains(t, text, "  Owner{cars} to Car{owner(name) required}")
	assert.Contains(t, text, "dto * with mapstruct")
	assert.Contains(t, text, "jhipsterVersion \"8.1.0\"")

	again, diags := Load("formatted.jdl", text)
	require.False(t, diags.HasErrors(), diags.PrettyString(text))
	if diff := cmp.Diff(back.Entities, again.Entities); diff != "" {
		t.Errorf("entities differ after formatting:\n%s", diff)
	}
	if diff := cmp.Diff(back.Relationships, again.Relationships); diff != "" {
		t.Errorf("relationships differ after formatting:\n%s", diff)
	}
	if diff := cmp.Diff(back.Enums, again.Enums); diff != "" {
		t.Errorf("enums differ after formatting:\n%s", diff)
	}
	assert.Equal(t, back.Applications[0].Config.Keys(), again.Applications[0].Config.Keys())
}

func TestLoad_FieldsNamedLikeKeywords(t *testing.T) {
	const src = `
entity Product {
  name String required
  max Integer min(1)
  min Integer
  to String maxlength(20)
  pattern String
  entity Boolean
}
`
	doc, diags := Load("product.jdl", src)
	require.False(t, diags.HasErrors(), diags.PrettyString(src))
	require.Len(t, doc.Entities, 1)

	fields := doc.Entities[0].Fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.FieldName
	}
	assert.Equal(t, []string{"name", "max", "min", "to", "pattern", "entity"}, names)
	assert.Equal(t, []string{"min"}, fields[1].FieldValidateRules)
	assert.Empty(t, fields[2].FieldValidateRules)
	assert.Equal(t, []string{"maxlength"}, fields[3].FieldValidateRules)
	assert.Empty(t, fields[4].FieldValidateRules)

	again, diags := Load("formatted.jdl", Format(doc))
	require.False(t, diags.HasErrors())
	if diff := cmp.Diff(doc.Entities, again.Entities); diff != "" {
		t.Errorf("entities differ after formatting:\n%s", diff)
	}
}

func TestFormat_KeepsRelationshipOrder(t *testing.T) {
	const src = `
entity Shop
entity Product
entity Manager

relationship ManyToOne {
  Product{store} to Shop
}

relationship OneToOne {
  Shop{boss} to Manager
}

relationship ManyToOne {
  Manager{favorite} to Product
}
`
	doc, diags := Load("shop.jdl", src)
	require.False(t, diags.HasErrors(), diags.PrettyString(src))

	text := Format(doc)
	first := strings.Index(text, "Product{store} to Shop")
	second := strings.Index(text, "Shop{boss} to Manager")
	third := strings.Index(text, "Manager{favorite} to Product")
	assert.True(t, first >= 0 && first < second && second < third, text)
	assert.Equal(t, 2, strings.Count(text, "relationship ManyToOne {"))

	again, diags := Load("formatted.jdl", text)
	require.False(t, diags.HasErrors(), diags.PrettyString(text))
	if diff := cmp.Diff(doc.Relationships, again.Relationships); diff != "" {
		t.Errorf("relationships differ after formatting:\n%s", diff)
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "com.example.app", literal("com.example.app"))
	assert.Equal(t, `"8.1.0"`, literal("8.1.0"))
	assert.Equal(t, `"two words"`, literal("two words"))
	assert.Equal(t, `"true"`, literal("true"))
	assert.Equal(t, `"entity"`, literal("entity"))
}

func TestGrammar(t *testing.T) {
	assert.True(t, strings.Contains(Grammar(), "relationship"))
}

func positionOf(t *testing.T, src, token string) lexer.Position {
	t.Helper()
	idx := strings.Index(src, token)
	require.GreaterOrEqual(t, idx, 0)
	line := strings.Count(src[:idx], "\n") + 1
	col := idx - strings.LastIndex(src[:idx], "\n")
	return lexer.Position{Filename: "test.jdl", Offset: idx, Line: line, Column: col}
}
