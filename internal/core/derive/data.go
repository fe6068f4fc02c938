// Package derive expands declarative configuration values into the derived properties
// consumed by templates.
package derive

import (
	"fmt"
	"sort"
	"strconv"
)

// Data is the flat key/value bag handed to templates.
type Data map[string]any

// Clone returns a shallow copy.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (d Data) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// String returns the value of key as a string. Numbers and booleans are formatted.
func (d Data) String(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value of key as a boolean. Strings "true" and "false" are accepted.
func (d Data) Bool(key string) bool {
	switch v := d[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Int returns the value of key as an int. JSON numbers (float64) and numeric strings are accepted.
func (d Data) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// Strings returns the value of key as a string slice. A single string becomes a one element slice.
func (d Data) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Keys returns the sorted keys.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
