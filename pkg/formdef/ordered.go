package formdef

import (
	"reflect"
	"strings"
)

// Properties is an insertion-ordered map of field definitions. The zero value
// and the nil pointer behave as an empty map. Properties are populated once by
// the validator and must not be mutated after the owning Document is handed
// out.
type Properties struct {
	keys   []string
	fields map[string]Field
}

// NewProperties returns an empty ordered map.
func NewProperties() *Properties {
	return &Properties{fields: make(map[string]Field)}
}

// Set stores field under key. New keys are appended; existing keys keep their
// position.
func (p *Properties) Set(key string, field Field) {
	if p.fields == nil {
		p.fields = make(map[string]Field)
	}
	if _, exists := p.fields[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.fields[key] = field
}

// Get returns the field stored under key.
func (p *Properties) Get(key string) (Field, bool) {
	if p == nil || p.fields == nil {
		return Field{}, false
	}
	field, ok := p.fields[key]
	return field, ok
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (p *Properties) Range(fn func(key string, field Field) bool) {
	if p == nil {
		return
	}
	for _, key := range p.keys {
		if !fn(key, p.fields[key]) {
			return
		}
	}
}

// Lookup resolves a dotted path through nested group properties.
func (p *Properties) Lookup(path string) (Field, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Field{}, false
	}
	if field, ok := p.Get(path); ok {
		return field, true
	}

	current := p
	parts := strings.Split(path, ".")
	for idx, part := range parts {
		field, ok := current.Get(part)
		if !ok {
			return Field{}, false
		}
		if idx == len(parts)-1 {
			return field, true
		}
		if !field.IsGroup() {
			return Field{}, false
		}
		current = field.Properties
	}
	return Field{}, false
}

// Equal reports whether both maps hold the same entries in the same order.
func (p *Properties) Equal(other *Properties) bool {
	if p.Len() != other.Len() {
		return false
	}
	if p.Len() == 0 {
		return true
	}
	return reflect.DeepEqual(p.keys, other.keys) && reflect.DeepEqual(p.fields, other.fields)
}

// Attributes is an insertion-ordered bag of opaque attribute values, used for
// styling attributes and the custom variant's passthrough attributes.
type Attributes struct {
	keys   []string
	values map[string]any
}

// Set stores value under key. New keys are appended.
func (a *Attributes) Set(key string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a Attributes) Get(key string) (any, bool) {
	if a.values == nil {
		return nil, false
	}
	value, ok := a.values[key]
	return value, ok
}

// Keys returns the keys in insertion order.
func (a Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.keys)
}

// Map returns an unordered copy of the attributes.
func (a Attributes) Map() map[string]any {
	if len(a.keys) == 0 {
		return nil
	}
	out := make(map[string]any, len(a.keys))
	for _, key := range a.keys {
		out[key] = a.values[key]
	}
	return out
}

// Equal reports whether both bags hold the same entries in the same order.
func (a Attributes) Equal(other Attributes) bool {
	if a.Len() != other.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	return reflect.DeepEqual(a.keys, other.keys) && reflect.DeepEqual(a.values, other.values)
}
