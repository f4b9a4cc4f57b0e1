package formdef

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// member is a single key/value pair of an ordered object.
type member struct {
	key   string
	value any
}

// orderedObject encodes its members in declaration order for both JSON and
// YAML output.
type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, m := range o {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o orderedObject) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, m := range o {
		var value yaml.Node
		if err := value.Encode(m.value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.key},
			&value,
		)
	}
	return node, nil
}

func (d Document) members() orderedObject {
	var out orderedObject
	if d.Name != "" {
		out = append(out, member{"name", d.Name})
	}
	out = append(out, member{"properties", d.Properties.members()})
	if len(d.Buttons) > 0 {
		out = append(out, member{"buttons", d.Buttons})
	}
	return out
}

// MarshalJSON encodes the document in its wire form.
func (d Document) MarshalJSON() ([]byte, error) { return d.members().MarshalJSON() }

// MarshalYAML encodes the document in its wire form.
func (d Document) MarshalYAML() (any, error) { return d.members().MarshalYAML() }

func (p *Properties) members() orderedObject {
	out := orderedObject{}
	p.Range(func(key string, field Field) bool {
		out = append(out, member{key, field.members()})
		return true
	})
	return out
}

// MarshalJSON encodes the entries in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) { return p.members().MarshalJSON() }

// MarshalYAML encodes the entries in insertion order.
func (p *Properties) MarshalYAML() (any, error) { return p.members().MarshalYAML() }

func (a Attributes) members() orderedObject {
	out := orderedObject{}
	for _, key := range a.keys {
		out = append(out, member{key, a.values[key]})
	}
	return out
}

// MarshalJSON encodes the attributes in insertion order.
func (a Attributes) MarshalJSON() ([]byte, error) { return a.members().MarshalJSON() }

// MarshalYAML encodes the attributes in insertion order.
func (a Attributes) MarshalYAML() (any, error) { return a.members().MarshalYAML() }

func (f Field) members() orderedObject {
	out := orderedObject{{"type", string(f.Type)}}
	add := func(key string, value any) {
		out = append(out, member{key, value})
	}

	if f.Title != "" {
		add("title", f.Title)
	}
	if f.Description != "" {
		add("description", f.Description)
	}
	if f.Required {
		add("required", true)
	}
	if f.Default != nil {
		add("default", f.Default)
	}
	if f.MinLength != nil {
		add("minLength", *f.MinLength)
	}
	if f.MaxLength != nil {
		add("maxLength", *f.MaxLength)
	}
	if f.Minimum != nil {
		add("minimum", *f.Minimum)
	}
	if f.Maximum != nil {
		add("maximum", *f.Maximum)
	}
	if len(f.Options) > 0 {
		add("options", f.Options)
	}
	if f.OptionsURL != nil {
		add("optionsUrl", *f.OptionsURL)
	}
	if f.FilterFunction != nil {
		add("filterFunction", *f.FilterFunction)
	}
	if f.Validator != nil {
		add("validator", *f.Validator)
	}
	if f.ValueCallback != nil {
		add("valueCallback", *f.ValueCallback)
	}
	if f.Conditional != nil {
		add("conditional", *f.Conditional)
	}
	if f.Disable != nil {
		add("disable", *f.Disable)
	}
	for _, key := range f.Style.keys {
		add(key, f.Style.values[key])
	}
	if f.IsGroup() {
		add("properties", f.Properties.members())
	}
	for _, key := range f.Extra.keys {
		add(key, f.Extra.values[key])
	}
	return out
}

// MarshalJSON encodes the field in its wire form.
func (f Field) MarshalJSON() ([]byte, error) { return f.members().MarshalJSON() }

// MarshalYAML encodes the field in its wire form.
func (f Field) MarshalYAML() (any, error) { return f.members().MarshalYAML() }

func (c Callback) wire() any {
	if len(c.Params) == 0 {
		return c.Name
	}
	return orderedObject{{"name", c.Name}, {"params", c.Params}}
}

// MarshalJSON encodes the callback as a bare handler name when it carries no
// params.
func (c Callback) MarshalJSON() ([]byte, error) { return json.Marshal(c.wire()) }

// MarshalYAML mirrors MarshalJSON.
func (c Callback) MarshalYAML() (any, error) { return c.wire(), nil }

func (c Conditional) wire() any {
	if c.IsOpaque() {
		return c.Rule
	}
	out := orderedObject{{"field", c.Field}, {"state", c.State}}
	if c.Equal != nil {
		out = append(out, member{"equal", *c.Equal})
	}
	if c.NotEqual != nil {
		out = append(out, member{"notEqual", *c.NotEqual})
	}
	return out
}

// MarshalJSON encodes opaque rules as strings and declarative rules as objects.
func (c Conditional) MarshalJSON() ([]byte, error) { return json.Marshal(c.wire()) }

// MarshalYAML mirrors MarshalJSON.
func (c Conditional) MarshalYAML() (any, error) { return c.wire(), nil }

func (d Disable) wire() any {
	switch {
	case d.Flag != nil:
		return *d.Flag
	case d.When != nil:
		return d.When.wire()
	default:
		return d.Rule
	}
}

// MarshalJSON encodes whichever form the flag carries.
func (d Disable) MarshalJSON() ([]byte, error) { return json.Marshal(d.wire()) }

// MarshalYAML mirrors MarshalJSON.
func (d Disable) MarshalYAML() (any, error) { return d.wire(), nil }

func (o OptionsURL) wire() orderedObject {
	out := orderedObject{{"url", o.URL}}
	if o.Method != "" {
		out = append(out, member{"method", o.Method})
	}
	if o.Mapper != nil {
		out = append(out, member{"mapper", *o.Mapper})
	}
	return out
}

// MarshalJSON encodes the remote option descriptor.
func (o OptionsURL) MarshalJSON() ([]byte, error) { return o.wire().MarshalJSON() }

// MarshalYAML mirrors MarshalJSON.
func (o OptionsURL) MarshalYAML() (any, error) { return o.wire().MarshalYAML() }

func (b Button) wire() orderedObject {
	var out orderedObject
	if b.Type != "" {
		out = append(out, member{"type", string(b.Type)})
	}
	if b.Variant != "" {
		out = append(out, member{"variant", b.Variant})
	}
	out = append(out, member{"label", b.Label})
	if b.OnClick != nil {
		out = append(out, member{"onClick", *b.OnClick})
	}
	if b.ClassName != "" {
		out = append(out, member{"className", b.ClassName})
	}
	return out
}

// MarshalJSON encodes the button definition.
func (b Button) MarshalJSON() ([]byte, error) { return b.wire().MarshalJSON() }

// MarshalYAML mirrors MarshalJSON.
func (b Button) MarshalYAML() (any, error) { return b.wire().MarshalYAML() }
