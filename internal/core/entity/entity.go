// Package entity holds the entity JSON model (.jhipster/<Name>.json) and its template preparation.
package entity

import (
	"fmt"
	"strings"
)

// Relationship types as written in entity JSON.
const (
	OneToOne   = "one-to-one"
	OneToMany  = "one-to-many"
	ManyToOne  = "many-to-one"
	ManyToMany = "many-to-many"
)

// RelationshipTypes lists every relationship type.
var RelationshipTypes = []string{ManyToOne, OneToMany, OneToOne, ManyToMany}

// Field is an entity field.
type Field struct {
	FieldName                   string   `json:"fieldName" yaml:"fieldName"`
	FieldType                   string   `json:"fieldType" yaml:"fieldType"`
	FieldValues                 string   `json:"fieldValues,omitempty" yaml:"fieldValues,omitempty"`
	FieldValidateRules          []string `json:"fieldValidateRules,omitempty" yaml:"fieldValidateRules,omitempty"`
	FieldValidateRulesMin       *float64 `json:"fieldValidateRulesMin,omitempty" yaml:"fieldValidateRulesMin,omitempty"`
	FieldValidateRulesMax       *float64 `json:"fieldValidateRulesMax,omitempty" yaml:"fieldValidateRulesMax,omitempty"`
	FieldValidateRulesMinlength *float64 `json:"fieldValidateRulesMinlength,omitempty" yaml:"fieldValidateRulesMinlength,omitempty"`
	FieldValidateRulesMaxlength *float64 `json:"fieldValidateRulesMaxlength,omitempty" yaml:"fieldValidateRulesMaxlength,omitempty"`
	FieldValidateRulesPattern   string   `json:"fieldValidateRulesPattern,omitempty" yaml:"fieldValidateRulesPattern,omitempty"`
	FieldValidateRulesMinbytes  *float64 `json:"fieldValidateRulesMinbytes,omitempty" yaml:"fieldValidateRulesMinbytes,omitempty"`
	FieldValidateRulesMaxbytes  *float64 `json:"fieldValidateRulesMaxbytes,omitempty" yaml:"fieldValidateRulesMaxbytes,omitempty"`
	Javadoc                     string   `json:"javadoc,omitempty" yaml:"javadoc,omitempty"`
}

// HasRule reports whether the field carries the validation rule.
func (f Field) HasRule(rule string) bool {
	for _, r := range f.FieldValidateRules {
		if r == rule {
			return true
		}
	}
	return false
}

// RuleValue returns the argument of a parameterized rule.
func (f Field) RuleValue(rule string) *float64 {
	switch rule {
	case "min":
		return f.FieldValidateRulesMin
	case "max":
		return f.FieldValidateRulesMax
	case "minlength":
		return f.FieldValidateRulesMinlength
	case "maxlength":
		return f.FieldValidateRulesMaxlength
	case "minbytes":
		return f.FieldValidateRulesMinbytes
	case "maxbytes":
		return f.FieldValidateRulesMaxbytes
	default:
		return nil
	}
}

// SetRuleValue stores the argument of a parameterized rule.
func (f *Field) SetRuleValue(rule string, v float64) error {
	switch rule {
	case "min":
		f.FieldValidateRulesMin = &v
	case "max":
		f.FieldValidateRulesMax = &v
	case "minlength":
		f.FieldValidateRulesMinlength = &v
	case "maxlength":
		f.FieldValidateRulesMaxlength = &v
	case "minbytes":
		f.FieldValidateRulesMinbytes = &v
	case "maxbytes":
		f.FieldValidateRulesMaxbytes = &v
	default:
		return fmt.Errorf("validation %q takes no numeric value", rule)
	}
	return nil
}

// EnumValue is one value of an enum field.
type EnumValue struct {
	Name  string
	Value string
}

// EnumValues parses fieldValues ("A,B (b-value)") into names and custom values.
func (f Field) EnumValues() []EnumValue {
	if strings.TrimSpace(f.FieldValues) == "" {
		return nil
	}
	var out []EnumValue
	for _, part := range strings.Split(f.FieldValues, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v := EnumValue{Name: part, Value: part}
		if open := strings.Index(part, "("); open > 0 && strings.HasSuffix(part, ")") {
			v.Name = strings.TrimSpace(part[:open])
			v.Value = strings.TrimSpace(part[open+1 : len(part)-1])
		}
		out = append(out, v)
	}
	return out
}

// Relationship is an entity relationship, seen from the owning entity.
type Relationship struct {
	RelationshipType            string   `json:"relationshipType" yaml:"relationshipType"`
	RelationshipName            string   `json:"relationshipName" yaml:"relationshipName"`
	OtherEntityName             string   `json:"otherEntityName" yaml:"otherEntityName"`
	OtherEntityRelationshipName string   `json:"otherEntityRelationshipName,omitempty" yaml:"otherEntityRelationshipName,omitempty"`
	OtherEntityField            string   `json:"otherEntityField,omitempty" yaml:"otherEntityField,omitempty"`
	RelationshipValidateRules   []string `json:"relationshipValidateRules,omitempty" yaml:"relationshipValidateRules,omitempty"`
	OwnerSide                   *bool    `json:"ownerSide,omitempty" yaml:"ownerSide,omitempty"`
	UseJPADerivedIdentifier     bool     `json:"useJPADerivedIdentifier,omitempty" yaml:"useJPADerivedIdentifier,omitempty"`
	Javadoc                     string   `json:"javadoc,omitempty" yaml:"javadoc,omitempty"`
}

// Required reports whether the relationship is mandatory.
func (r Relationship) Required() bool {
	for _, rule := range r.RelationshipValidateRules {
		if rule == "required" {
			return true
		}
	}
	return false
}

// IsOwner reports whether this side owns the relationship. Only one-to-one and many-to-many
// relationships have a non-owner side.
func (r Relationship) IsOwner() bool {
	if r.OwnerSide != nil {
		return *r.OwnerSide
	}
	return r.RelationshipType == ManyToOne
}

// Entity is the JSON description of an entity.
type Entity struct {
	Name                  string         `json:"name" yaml:"name"`
	Javadoc               string         `json:"javadoc,omitempty" yaml:"javadoc,omitempty"`
	EntityTableName       string         `json:"entityTableName,omitempty" yaml:"entityTableName,omitempty"`
	Fields                []Field        `json:"fields" yaml:"fields"`
	Relationships         []Relationship `json:"relationships" yaml:"relationships"`
	ChangelogDate         string         `json:"changelogDate,omitempty" yaml:"changelogDate,omitempty"`
	Dto                   string         `json:"dto,omitempty" yaml:"dto,omitempty"`
	Service               string         `json:"service,omitempty" yaml:"service,omitempty"`
	Pagination            string         `json:"pagination,omitempty" yaml:"pagination,omitempty"`
	SearchEngine          string         `json:"searchEngine,omitempty" yaml:"searchEngine,omitempty"`
	JpaMetamodelFiltering bool           `json:"jpaMetamodelFiltering,omitempty" yaml:"jpaMetamodelFiltering,omitempty"`
	FluentMethods         *bool          `json:"fluentMethods,omitempty" yaml:"fluentMethods,omitempty"`
	ReadOnly              bool           `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Embedded              bool           `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	SkipClient            bool           `json:"skipClient,omitempty" yaml:"skipClient,omitempty"`
	SkipServer            bool           `json:"skipServer,omitempty" yaml:"skipServer,omitempty"`
	ClientRootFolder      string         `json:"clientRootFolder,omitempty" yaml:"clientRootFolder,omitempty"`
	MicroserviceName      string         `json:"microserviceName,omitempty" yaml:"microserviceName,omitempty"`
	AngularJSSuffix       string         `json:"angularJSSuffix,omitempty" yaml:"angularJSSuffix,omitempty"`
	Applications          []string       `json:"applications,omitempty" yaml:"applications,omitempty"`
}

// New creates an entity with empty field and relationship lists.
func New(name string) *Entity {
	return &Entity{Name: name, Fields: []Field{}, Relationships: []Relationship{}}
}

// Clone returns a deep copy.
func (e *Entity) Clone() *Entity {
	out := *e
	out.Fields = make([]Field, len(e.Fields))
	for i, f := range e.Fields {
		f.FieldValidateRules = append([]string(nil), f.FieldValidateRules...)
		out.Fields[i] = f
	}
	out.Relationships = make([]Relationship, len(e.Relationships))
	for i, r := range e.Relationships {
		r.RelationshipValidateRules = append([]string(nil), r.RelationshipValidateRules...)
		out.Relationships[i] = r
	}
	out.Applications = append([]string(nil), e.Applications...)
	if e.FluentMethods != nil {
		v := *e.FluentMethods
		out.FluentMethods = &v
	}
	return &out
}

// Field returns the field named name.
func (e *Entity) Field(name string) (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].FieldName == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// SetOption stores an entity option by its JSON key.
func (e *Entity) SetOption(key string, value any) error {
	str := func() (string, error) {
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("option %s expects a string, got %T", key, value)
		}
		return s, nil
	}
	flag := func() (bool, error) {
		b, ok := value.(bool)
		if !ok {
			return false, fmt.Errorf("option %s expects a boolean, got %T", key, value)
		}
		return b, nil
	}

	var err error
	switch key {
	case "dto":
		e.Dto, err = str()
	case "service":
		e.Service, err = str()
	case "pagination":
		e.Pagination, err = str()
	case "searchEngine":
		e.SearchEngine, err = str()
	case "microserviceName":
		e.MicroserviceName, err = str()
	case "angularJSSuffix":
		e.AngularJSSuffix, err = str()
	case "clientRootFolder":
		e.ClientRootFolder, err = str()
	case "jpaMetamodelFiltering":
		e.JpaMetamodelFiltering, err = flag()
	case "readOnly":
		e.ReadOnly, err = flag()
	case "embedded":
		e.Embedded, err = flag()
	case "skipClient":
		e.SkipClient, err = flag()
	case "skipServer":
		e.SkipServer, err = flag()
	case "fluentMethods":
		var b bool
		if b, err = flag(); err == nil {
			e.FluentMethods = &b
		}
	default:
		return fmt.Errorf("unknown entity option %q", key)
	}
	return err
}

// Option returns the value of an entity option by JSON key and whether it differs from the default.
func (e *Entity) Option(key string) (any, bool) {
	switch key {
	case "dto":
		return e.Dto, e.Dto != "" && e.Dto != "no"
	case "service":
		return e.Service, e.Service != "" && e.Service != "no"
	case "pagination":
		return e.Pagination, e.Pagination != "" && e.Pagination != "no"
	case "searchEngine":
		return e.SearchEngine, e.SearchEngine != "" && e.SearchEngine != "no"
	case "microserviceName":
		return e.MicroserviceName, e.MicroserviceName != ""
	case "angularJSSuffix":
		return e.AngularJSSuffix, e.AngularJSSuffix != ""
	case "clientRootFolder":
		return e.ClientRootFolder, e.ClientRootFolder != ""
	case "jpaMetamodelFiltering":
		return e.JpaMetamodelFiltering, e.JpaMetamodelFiltering
	case "readOnly":
		return e.ReadOnly, e.ReadOnly
	case "embedded":
		return e.Embedded, e.Embedded
	case "skipClient":
		return e.SkipClient, e.SkipClient
	case "skipServer":
		return e.SkipServer, e.SkipServer
	case "fluentMethods":
		return e.FluentMethods != nil && *e.FluentMethods, e.FluentMethods != nil && !*e.FluentMethods
	default:
		return nil, false
	}
}
