// Package options holds the registry of known configuration options, their choices and defaults.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jhipster/jhipster-go/internal/core/derive"
)

// ErrDuplicateOption is returned when an option name is registered twice.
var ErrDuplicateOption = errors.New("option already registered")

// Type is the value type of an option.
type Type string

const (
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeList    Type = "list"
)

// Scope tells whether an option configures the application or an entity.
type Scope string

const (
	ScopeApplication Scope = "application"
	ScopeEntity      Scope = "entity"
)

// Choice is one allowed value of an option.
type Choice struct {
	Value string
	Name  string
}

// DefaultFunc computes a default from the configuration resolved so far.
type DefaultFunc func(cfg derive.Data) any

// Definition describes a known option.
type Definition struct {
	Name        string
	Description string
	Type        Type
	// Default is either a plain value or a DefaultFunc.
	Default any
	Choices []Choice
	Scope   Scope
	// JDL marks options that can be written in a JDL application config block.
	JDL bool
}

// HasChoices reports whether the option is restricted to a closed set of values.
func (d Definition) HasChoices() bool {
	return len(d.Choices) > 0
}

// ChoiceValues returns the raw values of the choices in declaration order, nil for open options.
func (d Definition) ChoiceValues() []string {
	if len(d.Choices) == 0 {
		return nil
	}
	values := make([]string, len(d.Choices))
	for i, c := range d.Choices {
		values[i] = c.Value
	}
	return values
}

// DefaultValue resolves the default against cfg. A nil result means no default.
func (d Definition) DefaultValue(cfg derive.Data) any {
	switch fn := d.Default.(type) {
	case DefaultFunc:
		return fn(cfg)
	case func(derive.Data) any:
		return fn(cfg)
	default:
		return d.Default
	}
}

// ParseValue converts a command line value to the option's type. Lists are comma separated.
func (d Definition) ParseValue(raw string) (any, error) {
	switch d.Type {
	case TypeBoolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean: %w", d.Name, err)
		}
		return v, nil
	case TypeInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", d.Name, err)
		}
		return v, nil
	case TypeList:
		out := []string{}
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

// ParseValue converts raw with the definition of name. Unknown options keep the raw string.
func ParseValue(name, raw string) (any, error) {
	def, ok := Default.Lookup(name)
	if !ok {
		return raw, nil
	}
	return def.ParseValue(raw)
}

// Registry is an ordered set of option definitions.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry creates a registry holding defs, in order.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition)}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a definition.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, def.Name)
	}
	if def.Scope == "" {
		def.Scope = ScopeApplication
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Lookup returns the definition of name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Names returns the sorted option names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Choices returns the allowed values of name, or nil for open options.
func (r *Registry) Choices(name string) []string {
	def, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return def.ChoiceValues()
}

// IsKnownChoice reports whether value is an allowed value of name.
// Options without choices accept any value.
func (r *Registry) IsKnownChoice(name, value string) bool {
	def, ok := r.Lookup(name)
	if !ok {
		return false
	}
	if !def.HasChoices() {
		return true
	}
	for _, c := range def.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// ChoiceName returns the display name of a choice, falling back to the value itself.
func (r *Registry) ChoiceName(name, value string) string {
	def, ok := r.Lookup(name)
	if !ok {
		return value
	}
	for _, c := range def.Choices {
		if c.Value == value && c.Name != "" {
			return c.Name
		}
	}
	return value
}

// Default is the registry of built-in application options.
var Default = NewRegistry(applicationDefinitions()...)

// Lookup looks name up in the default registry.
func Lookup(name string) (Definition, bool) { return Default.Lookup(name) }

// Choices returns the choices of name in the default registry.
func Choices(name string) []string { return Default.Choices(name) }

// IsKnownChoice checks value against the default registry.
func IsKnownChoice(name, value string) bool { return Default.IsKnownChoice(name, value) }

// ChoiceName returns the display name of a choice in the default registry.
func ChoiceName(name, value string) string { return Default.ChoiceName(name, value) }
