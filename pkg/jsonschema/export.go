// Package jsonschema exports the submission contract of a form definition as
// an OpenAPI 3 schema and checks submitted values against it.
package jsonschema

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

const (
	// ExtensionVariant carries the resolved variant of each property.
	ExtensionVariant = "x-formfate-variant"
	// ExtensionType carries the wire type tag of custom properties.
	ExtensionType = "x-formfate-type"
)

// Option customises the exported schema.
type Option func(*exporter)

// WithClosedObjects rejects value keys the definition does not declare.
func WithClosedObjects() Option {
	return func(e *exporter) {
		e.closed = true
	}
}

type exporter struct {
	closed bool
}

// Export converts a validated document into an object schema describing the
// values the form submits. Groups become nested objects and choice fields
// without a remote option source become enums. Required fields are listed on
// their parent object; optional numeric and boolean leaves also accept "".
func Export(doc formdef.Document, opts ...Option) *openapi3.Schema {
	e := &exporter{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	schema := e.object(doc.Properties)
	schema.Title = doc.Name
	return schema
}

func (e *exporter) object(props *formdef.Properties) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	var required []string
	props.Range(func(key string, field formdef.Field) bool {
		schema.WithProperty(key, e.field(field))
		if field.Required {
			required = append(required, key)
		}
		return true
	})
	if len(required) > 0 {
		schema.Required = required
	}
	if e.closed {
		closed := false
		schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}
	}
	return schema
}

func (e *exporter) field(field formdef.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Variant {
	case formdef.VariantGroup:
		schema = e.object(field.Properties)
	case formdef.VariantNumberSimple, formdef.VariantNumberRange:
		schema = openapi3.NewFloat64Schema()
		if field.Minimum != nil {
			schema.WithMin(*field.Minimum)
		}
		if field.Maximum != nil {
			schema.WithMax(*field.Maximum)
		}
	case formdef.VariantBoolean, formdef.VariantCheckbox:
		schema = openapi3.NewBoolSchema()
	case formdef.VariantSelect, formdef.VariantRadio:
		schema = openapi3.NewStringSchema()
		if field.OptionsURL == nil && len(field.Options) > 0 {
			values := make([]any, 0, len(field.Options))
			for _, opt := range field.Options {
				values = append(values, opt.Value)
			}
			schema.WithEnum(values...)
		}
	case formdef.VariantCustom:
		schema = openapi3.NewSchema()
		schema.Extensions = map[string]any{ExtensionType: string(field.Type)}
	default:
		schema = openapi3.NewStringSchema()
		if format := stringFormat(field.Variant); format != "" {
			schema.WithFormat(format)
		}
		if field.MinLength != nil {
			schema.WithMinLength(int64(*field.MinLength))
		}
		if field.MaxLength != nil {
			schema.WithMaxLength(int64(*field.MaxLength))
		}
	}

	if !field.Required && (field.Variant.IsNumeric() || field.Variant.IsBoolean()) {
		schema = blankable(schema)
	}

	schema.Title = field.Title
	schema.Description = field.Description
	if field.HasDefault() {
		schema.WithDefault(field.Default)
	}
	if schema.Extensions == nil {
		schema.Extensions = make(map[string]any, 1)
	}
	schema.Extensions[ExtensionVariant] = string(field.Variant)
	return schema
}

// blankable lets an optional leaf carry "", the value extracted defaults and
// skipped prompts hold for numeric and boolean fields.
func blankable(typed *openapi3.Schema) *openapi3.Schema {
	return openapi3.NewAnyOfSchema(typed, openapi3.NewStringSchema().WithMaxLength(0))
}

func stringFormat(variant formdef.Variant) string {
	switch variant {
	case formdef.VariantEmail:
		return "email"
	case formdef.VariantDate:
		return "date"
	case formdef.VariantTime:
		return "time"
	case formdef.VariantURL:
		return "uri"
	default:
		return ""
	}
}
