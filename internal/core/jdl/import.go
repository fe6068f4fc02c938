package jdl

import (
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

var jdlTypes = map[string]string{
	entity.OneToOne:   OneToOne,
	entity.OneToMany:  OneToMany,
	entity.ManyToOne:  ManyToOne,
	entity.ManyToMany: ManyToMany,
}

func refKey(entityName, relationshipName string) string {
	return strings.ToLower(entityName) + "." + relationshipName
}

// FromJSON builds a document from a project configuration (nil for none) and entity JSON.
// Both sides of a bidirectional relationship collapse into one declaration.
func FromJSON(cfg *project.Config, entities []*entity.Entity) *Document {
	doc := &Document{}
	sorted := append([]*entity.Entity(nil), entities...)
	entity.SortByChangelog(sorted)

	microservice := ""
	if cfg != nil && cfg.String(options.ApplicationType) == options.Microservice {
		microservice = cfg.String(options.BaseName)
	}

	byName := map[string]*entity.Entity{}
	refs := map[string]entity.Relationship{}
	for _, e := range sorted {
		byName[strings.ToLower(e.Name)] = e
		for _, r := range e.Relationships {
			refs[refKey(e.Name, r.RelationshipName)] = r
		}

		clone := e.Clone()
		clone.Relationships = []entity.Relationship{}
		clone.Applications = nil
		if clone.EntityTableName == naming.Snake(clone.Name) {
			clone.EntityTableName = ""
		}
		if microservice != "" && clone.MicroserviceName == microservice {
			clone.MicroserviceName = ""
		}
		for i, f := range clone.Fields {
			if f.FieldValues == "" || entity.IsBuiltInFieldType(f.FieldType) {
				continue
			}
			if _, seen := doc.Enum(f.FieldType); !seen {
				doc.Enums = append(doc.Enums, &Enum{Name: f.FieldType, Values: f.EnumValues()})
			}
			clone.Fields[i].FieldValues = ""
		}
		doc.Entities = append(doc.Entities, clone)
	}

	if cfg != nil {
		app := &Application{Config: project.New()}
		for _, key := range cfg.Keys() {
			value, _ := cfg.Get(key)
			if def, ok := options.Lookup(key); (!ok || !def.JDL) && key != options.JHipsterVersion {
				continue
			}
			if key == options.JwtSecretKey {
				// secrets stay in .yo-rc.json
				continue
			}
			if v, ok := jdlValue(value); ok {
				app.Config.Set(key, v)
			}
		}
		for _, e := range doc.Entities {
			app.Entities = append(app.Entities, e.Name)
		}
		doc.Applications = append(doc.Applications, app)
	}

	canonical := func(name string) string {
		if e, ok := byName[strings.ToLower(name)]; ok {
			return e.Name
		}
		return naming.UpperFirst(name)
	}
	emitted := map[string]bool{}
	for _, e := range sorted {
		for _, r := range e.Relationships {
			key := refKey(e.Name, r.RelationshipName)
			if emitted[key] {
				continue
			}
			other := canonical(r.OtherEntityName)
			inverse, hasInverse := refs[refKey(other, r.OtherEntityRelationshipName)]
			hasInverse = hasInverse && r.OtherEntityRelationshipName != "" &&
				strings.EqualFold(inverse.OtherEntityName, e.Name) &&
				inverse.RelationshipType == inverseType(r.RelationshipType)

			switch r.RelationshipType {
			case entity.ManyToOne:
				if hasInverse {
					// declared from the OneToMany side
					continue
				}
			case entity.OneToOne, entity.ManyToMany:
				if !r.IsOwner() && hasInverse && inverse.IsOwner() {
					continue
				}
			}

			jdlType, ok := jdlTypes[r.RelationshipType]
			if !ok {
				continue
			}
			decl := &Relationship{
				Type:                 jdlType,
				From:                 sideOf(e.Name, r),
				To:                   RelationshipSide{Entity: other},
				JPADerivedIdentifier: r.UseJPADerivedIdentifier,
			}
			decl.From.dropDefaultName(other)
			switch {
			case hasInverse:
				decl.To = sideOf(other, inverse)
				emitted[refKey(other, inverse.RelationshipName)] = true
			case jdlType == OneToMany:
				decl.To.Injected = r.OtherEntityRelationshipName
			}
			if jdlType == OneToMany {
				decl.To.dropDefaultName(e.Name)
			}
			emitted[key] = true
			doc.Relationships = append(doc.Relationships, decl)
		}
	}
	return doc
}

func sideOf(entityName string, r entity.Relationship) RelationshipSide {
	s := RelationshipSide{
		Entity:   entityName,
		Injected: r.RelationshipName,
		Required: r.Required(),
		Javadoc:  r.Javadoc,
	}
	if r.OtherEntityField != "id" {
		s.Display = r.OtherEntityField
	}
	return s
}

// jdlValue keeps the config values JDL can express.
func jdlValue(v any) (any, bool) {
	switch val := v.(type) {
	case string, bool, int:
		return val, true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
		return nil, false
	case []string:
		return append([]string{}, val...), true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
