package jdl

import (
	"fmt"
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

// Export is the JSON side of a document: one configuration per application plus entity
// descriptions with relationships on both sides.
type Export struct {
	Applications []*ExportedApplication
	// Entities holds every entity outside of any application context.
	Entities    []*entity.Entity
	Deployments []*project.Config
}

// ExportedApplication is an application config and its entities, with application scoped
// options applied.
type ExportedApplication struct {
	Config   *project.Config
	Entities []*entity.Entity
}

// BaseName returns the application's baseName.
func (a *ExportedApplication) BaseName() string {
	return a.Config.String(options.BaseName)
}

// ToJSON converts doc into entity JSON and application configs. The entities are validated.
func ToJSON(doc *Document) (*Export, error) {
	out := &Export{}
	byName := make(map[string]*entity.Entity, len(doc.Entities))
	for _, e := range doc.Entities {
		clone := e.Clone()
		for i, f := range clone.Fields {
			if enum, ok := doc.Enum(f.FieldType); ok {
				clone.Fields[i].FieldValues = enum.FieldValues()
			}
		}
		byName[strings.ToLower(e.Name)] = clone
		out.Entities = append(out.Entities, clone)
	}

	for _, r := range doc.Relationships {
		if err := distribute(byName, r); err != nil {
			return nil, err
		}
	}

	for _, app := range doc.Applications {
		for _, name := range app.Entities {
			if e, ok := byName[strings.ToLower(name)]; ok && !contains(e.Applications, app.BaseName()) {
				e.Applications = append(e.Applications, app.BaseName())
			}
		}
	}

	if err := entity.ValidateAll(entity.NewStore(out.Entities...)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	for _, app := range doc.Applications {
		exported := &ExportedApplication{Config: app.Config.Clone()}
		microservice := app.Config.String(options.ApplicationType) == options.Microservice
		for _, name := range app.Entities {
			e, ok := byName[strings.ToLower(name)]
			if !ok {
				continue
			}
			clone := e.Clone()
			for _, opt := range app.Options {
				if contains(opt.Entities, e.Name) {
					if err := clone.SetOption(opt.Key, opt.Value); err != nil {
						return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
					}
				}
			}
			if microservice && clone.MicroserviceName == "" {
				clone.MicroserviceName = app.BaseName()
			}
			exported.Entities = append(exported.Entities, clone)
		}
		exported.Config.Set(options.Entities, append([]string{}, app.Entities...))
		out.Applications = append(out.Applications, exported)
	}

	for _, d := range doc.Deployments {
		out.Deployments = append(out.Deployments, d.Clone())
	}
	return out, nil
}

// distribute adds r to the entities on both of its sides. OneToMany always creates the inverse
// ManyToOne; the other types create an inverse only when the target side names it.
func distribute(byName map[string]*entity.Entity, r *Relationship) error {
	jsonType, ok := JSONRelationshipType(r.Type)
	if !ok {
		return fmt.Errorf("%w: unknown relationship type %s", ErrInvalidDocument, r.Type)
	}
	from, ok := byName[strings.ToLower(r.From.Entity)]
	if !ok {
		return fmt.Errorf("%w: relationship from unknown entity %s", ErrInvalidDocument, r.From.Entity)
	}
	to := byName[strings.ToLower(r.To.Entity)]

	fromName := r.From.Injected
	if fromName == "" {
		fromName = naming.LowerFirst(r.To.Entity)
	}
	toName := r.To.Injected
	if toName == "" {
		toName = naming.LowerFirst(r.From.Entity)
	}
	inverse := to != nil && (r.Type == OneToMany || r.To.Injected != "")
	ownership := r.Type == OneToOne || r.Type == ManyToMany

	forward := entity.Relationship{
		RelationshipType:        jsonType,
		RelationshipName:        fromName,
		OtherEntityName:         naming.LowerFirst(r.To.Entity),
		OtherEntityField:        r.From.Display,
		UseJPADerivedIdentifier: r.JPADerivedIdentifier,
		Javadoc:                 r.From.Javadoc,
	}
	if r.From.Required {
		forward.RelationshipValidateRules = []string{"required"}
	}
	if inverse {
		forward.OtherEntityRelationshipName = toName
	}
	if ownership {
		forward.OwnerSide = boolPtr(true)
	}
	from.Relationships = append(from.Relationships, forward)

	if !inverse {
		return nil
	}
	back := entity.Relationship{
		RelationshipType:            inverseType(jsonType),
		RelationshipName:            toName,
		OtherEntityName:             naming.LowerFirst(r.From.Entity),
		OtherEntityRelationshipName: fromName,
		OtherEntityField:            r.To.Display,
		Javadoc:                     r.To.Javadoc,
	}
	if r.To.Required {
		back.RelationshipValidateRules = []string{"required"}
	}
	if ownership {
		back.OwnerSide = boolPtr(false)
	}
	to.Relationships = append(to.Relationships, back)
	return nil
}

func inverseType(jsonType string) string {
	switch jsonType {
	case entity.OneToMany:
		return entity.ManyToOne
	case entity.ManyToOne:
		return entity.OneToMany
	default:
		return jsonType
	}
}

func boolPtr(b bool) *bool { return &b }
