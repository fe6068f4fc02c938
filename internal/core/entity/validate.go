package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEntity is returned by Validate.
	ErrInvalidEntity = errors.New("invalid entity")
)

// FieldTypes are the built-in field types. Any other type must be an enum with values.
var FieldTypes = []string{
	"String", "Integer", "Long", "Float", "Double", "BigDecimal",
	"LocalDate", "Instant", "ZonedDateTime", "Duration", "UUID", "Boolean",
	"Blob", "AnyBlob", "ImageBlob", "TextBlob",
}

// Validations lists the field validation rules.
var Validations = []string{"required", "unique", "min", "max", "minlength", "maxlength", "pattern", "minbytes", "maxbytes"}

// BuiltInUser is the entity provided by user management, usable as a relationship target.
const BuiltInUser = "User"

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	fieldPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

	javaReserved = map[string]bool{}
	sqlReserved  = map[string]bool{}

	rulesByType = map[string][]string{
		"String":     {"required", "unique", "minlength", "maxlength", "pattern"},
		"Integer":    {"required", "unique", "min", "max"},
		"Long":       {"required", "unique", "min", "max"},
		"Float":      {"required", "unique", "min", "max"},
		"Double":     {"required", "unique", "min", "max"},
		"BigDecimal": {"required", "unique", "min", "max"},
		"Blob":       {"required", "minbytes", "maxbytes"},
		"AnyBlob":    {"required", "minbytes", "maxbytes"},
		"ImageBlob":  {"required", "minbytes", "maxbytes"},
		"TextBlob":   {"required"},
	}
)

func init() {
	for _, w := range strings.Fields(`abstract assert boolean break byte case catch char class const continue default do
		double else enum extends final finally float for goto if implements import instanceof int interface long
		native new package private protected public return short static strictfp super switch synchronized this
		throw throws transient try void volatile while true false null record`) {
		javaReserved[w] = true
	}
	for _, w := range strings.Fields(`select from where order group by having insert update delete table column user
		index key limit offset references check constraint primary foreign grant`) {
		sqlReserved[w] = true
	}
}

// IsReserved reports whether name is a reserved Java keyword.
func IsReserved(name string) bool {
	return javaReserved[strings.ToLower(name)]
}

// IsReservedTableName reports whether name is a reserved SQL keyword.
func IsReservedTableName(name string) bool {
	return sqlReserved[strings.ToLower(name)]
}

// IsBuiltInFieldType reports whether t is a built-in field type.
func IsBuiltInFieldType(t string) bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Validate checks one entity against the others in store. All problems are reported.
func Validate(e *Entity, store *Store) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w %s: %s", ErrInvalidEntity, e.Name, fmt.Sprintf(format, args...)))
	}

	if !namePattern.MatchString(e.Name) {
		fail("name must be alphanumeric and start with a letter")
	}
	if IsReserved(e.Name) {
		fail("name is a reserved keyword")
	}

	seen := map[string]bool{}
	for _, f := range e.Fields {
		switch {
		case !fieldPattern.MatchString(f.FieldName):
			fail("field %q must be alphanumeric and start with a letter", f.FieldName)
		case IsReserved(f.FieldName):
			fail("field %q is a reserved keyword", f.FieldName)
		case seen[strings.ToLower(f.FieldName)]:
			fail("field %q is declared twice", f.FieldName)
		}
		seen[strings.ToLower(f.FieldName)] = true

		if !IsBuiltInFieldType(f.FieldType) {
			if len(f.EnumValues()) == 0 {
				fail("field %q has unknown type %q (enums need values)", f.FieldName, f.FieldType)
			}
			for _, rule := range f.FieldValidateRules {
				if rule != "required" && rule != "unique" {
					fail("field %q: validation %q is not allowed on enums", f.FieldName, rule)
				}
			}
			continue
		}
		allowed := rulesByType[f.FieldType]
		if allowed == nil {
			allowed = []string{"required", "unique"}
		}
		for _, rule := range f.FieldValidateRules {
			if !contains(allowed, rule) {
				fail("field %q: validation %q is not allowed on %s", f.FieldName, rule, f.FieldType)
			}
		}
		if f.HasRule("pattern") && f.FieldValidateRulesPattern != "" {
			if _, err := regexp.Compile(f.FieldValidateRulesPattern); err != nil {
				fail("field %q: invalid pattern: %v", f.FieldName, err)
			}
		}
	}

	for _, r := range e.Relationships {
		if !contains(RelationshipTypes, r.RelationshipType) {
			fail("relationship %q has unknown type %q", r.RelationshipName, r.RelationshipType)
		}
		if r.RelationshipName == "" {
			fail("relationship to %q has no name", r.OtherEntityName)
		}
		if strings.EqualFold(r.OtherEntityName, BuiltInUser) {
			continue
		}
		if store != nil {
			if _, ok := store.Get(r.OtherEntityName); !ok {
				fail("relationship %q targets unknown entity %q", r.RelationshipName, r.OtherEntityName)
			}
		}
	}

	return errors.Join(errs...)
}

// ValidateAll validates every entity of store.
func ValidateAll(store *Store) error {
	var errs []error
	for _, e := range store.All() {
		if err := Validate(e, store); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
