// Package blueprint keeps the compiled-in blueprints. Blueprint packages register themselves
// from init, the way database/sql drivers do, and are enabled per project by name.
package blueprint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/jhipster/jhipster-go/internal/core/environment"
)

// Prefix is the conventional package prefix of blueprint names. "generator-jhipster-docker"
// and "docker" name the same blueprint.
const Prefix = "generator-jhipster-"

var (
	ErrUnknownBlueprint   = errors.New("unknown blueprint")
	ErrDuplicateBlueprint = errors.New("blueprint already registered")
	ErrIncompatible       = errors.New("incompatible blueprint")
)

// Spec is what a blueprint does for one generator namespace.
type Spec struct {
	Sidecar bool
	Factory environment.BlueprintFactory
}

// Blueprint is a named set of generator overrides.
type Blueprint struct {
	Name        string
	Version     string
	Description string
	// Requires is a version constraint on the tool, such as ">= 1.0, < 2.0".
	Requires   string
	Generators map[string]Spec
}

// Record is how a blueprint is persisted in the project configuration.
type Record struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Normalize strips the conventional prefix from a blueprint name.
func Normalize(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), Prefix)
}

// CheckCompatibility verifies that toolVersion satisfies the blueprint's constraint.
// Development builds are not checked.
func CheckCompatibility(b *Blueprint, toolVersion string) error {
	if b.Requires == "" {
		return nil
	}
	constraint, err := version.NewConstraint(b.Requires)
	if err != nil {
		return fmt.Errorf("blueprint %s has an invalid constraint %q: %w", b.Name, b.Requires, err)
	}
	tool, err := version.NewVersion(toolVersion)
	if err != nil {
		return nil
	}
	if !constraint.Check(tool) {
		return fmt.Errorf("%w: %s requires %s, running %s", ErrIncompatible, b.Name, b.Requires, tool)
	}
	return nil
}

// Registry holds registered blueprints.
type Registry struct {
	mu         sync.RWMutex
	blueprints map[string]*Blueprint
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{blueprints: map[string]*Blueprint{}}
}

// Register adds b under its normalised name.
func (r *Registry) Register(b Blueprint) error {
	name := Normalize(b.Name)
	if name == "" {
		return fmt.Errorf("blueprint name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blueprints[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBlueprint, name)
	}
	b.Name = name
	r.blueprints[name] = &b
	return nil
}

// Lookup returns the blueprint registered under name.
func (r *Registry) Lookup(name string) (*Blueprint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blueprints[Normalize(name)]
	return b, ok
}

// Names returns the registered blueprint names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.blueprints))
	for name := range r.blueprints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the generators the named blueprints provide for namespace, in the order
// of names. Unknown names fail.
func (r *Registry) Resolve(names []string, namespace string) ([]environment.BlueprintGenerator, error) {
	var out []environment.BlueprintGenerator
	for _, name := range names {
		b, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBlueprint, name)
		}
		spec, ok := b.Generators[namespace]
		if !ok {
			continue
		}
		out = append(out, environment.BlueprintGenerator{Blueprint: b.Name, Sidecar: spec.Sidecar, Factory: spec.Factory})
	}
	return out, nil
}

// Check verifies that every named blueprint exists and is compatible with toolVersion.
func (r *Registry) Check(names []string, toolVersion string) error {
	var errs []error
	for _, name := range names {
		b, ok := r.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownBlueprint, name))
			continue
		}
		if err := CheckCompatibility(b, toolVersion); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Records returns the persisted form of the named blueprints, skipping unknown names.
func (r *Registry) Records(names []string) []Record {
	var out []Record
	for _, name := range names {
		if b, ok := r.Lookup(name); ok {
			out = append(out, Record{Name: Prefix + b.Name, Version: b.Version})
		}
	}
	return out
}

// Resolver returns an environment resolver that checks compatibility unless skipChecks.
func (r *Registry) Resolver(toolVersion string, skipChecks bool) environment.BlueprintResolver {
	return &checkedResolver{registry: r, toolVersion: toolVersion, skipChecks: skipChecks}
}

type checkedResolver struct {
	registry    *Registry
	toolVersion string
	skipChecks  bool
}

func (c *checkedResolver) Resolve(names []string, namespace string) ([]environment.BlueprintGenerator, error) {
	if !c.skipChecks {
		if err := c.registry.Check(names, c.toolVersion); err != nil {
			return nil, err
		}
	}
	return c.registry.Resolve(names, namespace)
}

// Default is the registry compiled-in blueprints register with.
var Default = NewRegistry()

// Register adds b to the default registry and panics on duplicates.
func Register(b Blueprint) {
	if err := Default.Register(b); err != nil {
		panic(err)
	}
}

// Lookup finds a blueprint in the default registry.
func Lookup(name string) (*Blueprint, bool) { return Default.Lookup(name) }

// Names lists the default registry.
func Names() []string { return Default.Names() }

// Resolve resolves against the default registry.
func Resolve(names []string, namespace string) ([]environment.BlueprintGenerator, error) {
	return Default.Resolve(names, namespace)
}
