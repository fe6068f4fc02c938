package entity

import (
	"sort"
	"strings"
)

// Store holds the entities of a run, keyed case-insensitively by name.
type Store struct {
	byName map[string]*Entity
}

// NewStore creates a store holding entities.
func NewStore(entities ...*Entity) *Store {
	s := &Store{byName: make(map[string]*Entity)}
	for _, e := range entities {
		s.Put(e)
	}
	return s
}

// Put adds or replaces an entity.
func (s *Store) Put(e *Entity) {
	s.byName[strings.ToLower(e.Name)] = e
}

// Get returns the entity named name, ignoring case.
func (s *Store) Get(name string) (*Entity, bool) {
	e, ok := s.byName[strings.ToLower(name)]
	return e, ok
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.byName)
}

// All returns the entities sorted by changelog date, then name.
func (s *Store) All() []*Entity {
	out := make([]*Entity, 0, len(s.byName))
	for _, e := range s.byName {
		out = append(out, e)
	}
	SortByChangelog(out)
	return out
}

// Names returns the entity names in All order.
func (s *Store) Names() []string {
	all := s.All()
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	return names
}

// SortByChangelog sorts entities by changelog date, then name. Entities without a date go last.
func SortByChangelog(entities []*Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.ChangelogDate != b.ChangelogDate {
			if a.ChangelogDate == "" {
				return false
			}
			if b.ChangelogDate == "" {
				return true
			}
			return a.ChangelogDate < b.ChangelogDate
		}
		return a.Name < b.Name
	})
}
