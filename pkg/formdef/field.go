package formdef

// Field is a single resolved field definition. Only the attributes that belong
// to the resolved Variant are populated; custom fields keep every attribute
// outside the shared set in Extra, and group fields own their children through
// Properties.
type Field struct {
	Type    FieldType
	Variant Variant

	Title       string
	Description string
	Required    bool
	// Default holds the explicit default verbatim. Nil means absent.
	Default any

	Validator     *Callback
	ValueCallback *Callback
	Conditional   *Conditional
	Disable       *Disable
	Style         Attributes

	Options        OptionList
	OptionsURL     *OptionsURL
	FilterFunction *Callback

	MinLength *int
	MaxLength *int

	Minimum *float64
	Maximum *float64

	Properties *Properties

	Extra Attributes
}

// HasDefault reports whether the field declares an explicit default.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// IsGroup reports whether the field is a recursive container.
func (f Field) IsGroup() bool {
	return f.Variant == VariantGroup
}

// Option is a single label/value pair of a choice field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// OptionList is an ordered sequence of options.
type OptionList []Option

// First returns the first declared option.
func (l OptionList) First() (Option, bool) {
	if len(l) == 0 {
		return Option{}, false
	}
	return l[0], true
}

// Contains reports whether any option carries value.
func (l OptionList) Contains(value string) bool {
	for _, opt := range l {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Callback describes a host-owned capability (validator, value callback,
// option filter, click handler, option mapper) by name. The host resolves the
// name against its own registry and invokes it; the core only carries the
// descriptor.
type Callback struct {
	Name   string
	Params map[string]any
}

// Conditional is either a declarative rule over another field's value or an
// opaque Rule string that the host evaluates. Exactly one form is populated.
type Conditional struct {
	Field    string
	State    bool
	Equal    *string
	NotEqual *string

	Rule string
}

// IsOpaque reports whether the rule belongs to the host.
func (c Conditional) IsOpaque() bool {
	return c.Rule != ""
}

// Disable is a static flag, an opaque host rule, or a declarative
// conditional. Exactly one form is populated.
type Disable struct {
	Flag *bool
	Rule string
	When *Conditional
}

// OptionsURL describes a remote option source the host fetches.
type OptionsURL struct {
	URL    string
	Method string
	Mapper *Callback
}

// Button describes an action button rendered with the form.
type Button struct {
	Type      ButtonType
	Variant   string
	Label     string
	OnClick   *Callback
	ClassName string
}

// Document is a validated form definition.
type Document struct {
	Name       string
	Properties *Properties
	Buttons    []Button
}

// Field returns the top-level field stored under key.
func (d Document) Field(key string) (Field, bool) {
	return d.Properties.Get(key)
}

// Lookup resolves a dotted path (`address.city`) through nested groups.
func (d Document) Lookup(path string) (Field, bool) {
	return d.Properties.Lookup(path)
}
