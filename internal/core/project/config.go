// Package project models the flat project configuration stored in .yo-rc.json.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/jhipster/jhipster-go/internal/core/derive"
)

// Config is an ordered flat key/value object. Keys keep their insertion order, which is also
// the order they are written back to disk.
type Config struct {
	keys   []string
	values map[string]any
}

// New creates an empty configuration.
func New() *Config {
	return &Config{values: make(map[string]any)}
}

// FromMap creates a configuration from m with keys in lexical order.
func FromMap(m map[string]any) *Config {
	c := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.Set(k, m[k])
	}
	return c
}

// Get returns the raw value of key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set assigns key, appending it when new.
func (c *Config) Set(key string, value any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Has reports whether key holds a non-nil value.
func (c *Config) Has(key string) bool {
	return c.data().Has(key)
}

// Delete removes key.
func (c *Config) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Merge copies every key of other into c, overriding existing values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		c.Set(k, other.values[k])
	}
}

// Keys returns the keys in insertion order.
func (c *Config) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of keys.
func (c *Config) Len() int {
	return len(c.keys)
}

func (c *Config) data() derive.Data {
	return derive.Data(c.values)
}

// String returns key as a string.
func (c *Config) String(key string) string { return c.data().String(key) }

// Bool returns key as a boolean.
func (c *Config) Bool(key string) bool { return c.data().Bool(key) }

// Int returns key as an int.
func (c *Config) Int(key string) int { return c.data().Int(key) }

// Strings returns key as a string slice.
func (c *Config) Strings(key string) []string { return c.data().Strings(key) }

// Data returns a copy of the values for template consumption.
func (c *Config) Data() derive.Data {
	return c.data().Clone()
}

// Clone returns a deep enough copy: keys and top level values.
func (c *Config) Clone() *Config {
	out := New()
	out.Merge(c)
	return out
}

// MarshalJSON writes the keys in insertion order.
func (c *Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object preserving key order. Whole numbers become ints.
func (c *Config) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object")
	}

	c.keys = nil
	c.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		c.Set(key, normalize(value))
	}
	_, err = dec.Token()
	return err
}

func normalize(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return v
}
