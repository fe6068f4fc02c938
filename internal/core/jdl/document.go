package jdl

import (
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

// Relationship types as written in JDL.
const (
	OneToOne   = "OneToOne"
	OneToMany  = "OneToMany"
	ManyToOne  = "ManyToOne"
	ManyToMany = "ManyToMany"
)

var relationshipTypes = map[string]string{
	OneToOne:   entity.OneToOne,
	OneToMany:  entity.OneToMany,
	ManyToOne:  entity.ManyToOne,
	ManyToMany: entity.ManyToMany,
}

// JSONRelationshipType maps a JDL relationship type to its entity JSON form.
func JSONRelationshipType(t string) (string, bool) {
	v, ok := relationshipTypes[t]
	return v, ok
}

// Document is the semantic model of a JDL file. Entities carry fields and options only;
// relationships are kept as declared and distributed to both sides by ToJSON.
type Document struct {
	Applications  []*Application
	Entities      []*entity.Entity
	Enums         []*Enum
	Relationships []*Relationship
	Deployments   []*project.Config
	Constants     []Constant
}

// Entity returns the declared entity named name.
func (d *Document) Entity(name string) (*entity.Entity, bool) {
	for _, e := range d.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Enum returns the declared enum named name.
func (d *Document) Enum(name string) (*Enum, bool) {
	for _, e := range d.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// EntityNames returns the declared entity names in declaration order.
func (d *Document) EntityNames() []string {
	names := make([]string, len(d.Entities))
	for i, e := range d.Entities {
		names[i] = e.Name
	}
	return names
}

// Application is an application block.
type Application struct {
	Config *project.Config
	// Entities lists the entities generated in this application.
	Entities []string
	// Options apply to this application's copies of its entities only.
	Options []OptionValue
}

// BaseName returns the application's baseName.
func (a *Application) BaseName() string {
	return a.Config.String("baseName")
}

// OptionValue is an entity option resolved to its JSON key and target entities.
type OptionValue struct {
	Key      string
	Value    any
	Entities []string
}

// Enum is an enum declaration.
type Enum struct {
	Name    string
	Javadoc string
	Values  []entity.EnumValue
}

// FieldValues renders the values in entity JSON form: "A,B (b)".
func (e *Enum) FieldValues() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = v.Name
		if v.Value != v.Name {
			parts[i] += " (" + v.Value + ")"
		}
	}
	return strings.Join(parts, ",")
}

// RelationshipSide is one end of a declared relationship.
type RelationshipSide struct {
	Entity string
	// Injected is the relationship name on this entity. Empty means the default.
	Injected string
	// Display is the field of the other entity shown by the client.
	Display  string
	Required bool
	Javadoc  string
}

// dropDefaultName clears Injected when it only repeats the name ToJSON would pick anyway.
func (s *RelationshipSide) dropDefaultName(other string) {
	if s.Injected == naming.LowerFirst(other) && s.Display == "" && !s.Required {
		s.Injected = ""
	}
}

// Relationship is a relationship declaration.
type Relationship struct {
	Type                 string
	From                 RelationshipSide
	To                   RelationshipSide
	JPADerivedIdentifier bool
}

// Constant is a numeric constant.
type Constant struct {
	Name  string
	Value float64
}
