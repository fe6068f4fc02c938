package derive

import "sort"

// OverrideKey is the reserved key that carries the override flag in map based mutations.
const OverrideKey = "__override__"

// Mutation is an ordered set of key assignments applied to Data.
// Values are either plain values or func(Data) any, evaluated against the data being mutated
// at the time the entry is applied.
type Mutation struct {
	override bool
	entries  []entry
}

type entry struct {
	key   string
	value any
}

// Overrides returns a mutation that replaces existing values.
func Overrides() *Mutation {
	return &Mutation{override: true}
}

// Defaults returns a mutation that only fills keys that are missing or nil.
func Defaults() *Mutation {
	return &Mutation{override: false}
}

// FromMap builds a mutation from a map, honoring the OverrideKey flag (true when absent).
// Keys are applied in lexical order.
func FromMap(m map[string]any) *Mutation {
	mut := Overrides()
	if v, ok := m[OverrideKey].(bool); ok {
		mut.override = v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != OverrideKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		mut.entries = append(mut.entries, entry{key: k, value: m[k]})
	}
	return mut
}

// Set adds a plain value assignment.
func (m *Mutation) Set(key string, value any) *Mutation {
	m.entries = append(m.entries, entry{key: key, value: value})
	return m
}

// Func adds a computed assignment.
func (m *Mutation) Func(key string, fn func(Data) any) *Mutation {
	m.entries = append(m.entries, entry{key: key, value: fn})
	return m
}

// Len returns the number of entries.
func (m *Mutation) Len() int {
	return len(m.entries)
}

// MutateData applies mutations to data in order.
func MutateData(data Data, mutations ...*Mutation) {
	for _, m := range mutations {
		if m == nil {
			continue
		}
		for _, e := range m.entries {
			if !m.override && data.Has(e.key) {
				continue
			}
			switch fn := e.value.(type) {
			case func(Data) any:
				data[e.key] = fn(data)
			default:
				data[e.key] = e.value
			}
		}
	}
}
