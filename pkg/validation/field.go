package validation

import (
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// closedVariants maps closed type tags to their variant. `number` is missing
// on purpose: it is resolved by shape.
var closedVariants = map[formdef.FieldType]formdef.Variant{
	formdef.TypeText:         formdef.VariantText,
	formdef.TypePassword:     formdef.VariantPassword,
	formdef.TypeEmail:        formdef.VariantEmail,
	formdef.TypeDate:         formdef.VariantDate,
	formdef.TypeTime:         formdef.VariantTime,
	formdef.TypeURL:          formdef.VariantURL,
	formdef.TypeTextarea:     formdef.VariantTextarea,
	formdef.TypeSelect:       formdef.VariantSelect,
	formdef.TypeRadio:        formdef.VariantRadio,
	formdef.TypeNumberSimple: formdef.VariantNumberSimple,
	formdef.TypeNumberRange:  formdef.VariantNumberRange,
	formdef.TypeBoolean:      formdef.VariantBoolean,
	formdef.TypeCheckbox:     formdef.VariantCheckbox,
	formdef.TypeGroup:        formdef.VariantGroup,
	formdef.TypeBlock:        formdef.VariantGroup,
}

// variantAttributes lists the attributes each variant accepts on top of the
// shared set.
var variantAttributes = map[formdef.Variant]map[string]struct{}{
	formdef.VariantText:        {"minLength": {}, "maxLength": {}},
	formdef.VariantSelect:      {"options": {}, "optionsUrl": {}, "filterFunction": {}},
	formdef.VariantRadio:       {"options": {}, "optionsUrl": {}, "filterFunction": {}},
	formdef.VariantNumberRange: {"minimum": {}, "maximum": {}},
	formdef.VariantGroup:       {"properties": {}},
}

func acceptsAttribute(variant formdef.Variant, key string) bool {
	_, ok := variantAttributes[variant][key]
	return ok
}

func findEntry(entries []entry, key string) (entry, bool) {
	for _, e := range entries {
		if e.key == key {
			return e, true
		}
	}
	return entry{}, false
}

// field resolves one property definition. The boolean result is false when no
// variant could be determined at all.
func (w *walker) field(path string, node *yaml.Node, depth int) (formdef.Field, bool) {
	if !isMapping(node) {
		w.report(path, node, CodeUnknownVariant, "field definition must be an object")
		return formdef.Field{}, false
	}
	entries := w.entries(path, node)

	typeEntry, ok := findEntry(entries, "type")
	if !ok {
		w.report(joinPath(path, "type"), node, CodeMissingAttribute, "type is required")
		return formdef.Field{}, false
	}
	tag, ok := stringValue(typeEntry.value)
	if !ok || tag == "" {
		w.report(joinPath(path, "type"), typeEntry.value, CodeUnknownVariant, "type must be a non-empty string")
		return formdef.Field{}, false
	}

	variant, ok := w.resolveVariant(path, node, formdef.FieldType(tag), entries)
	if !ok {
		return formdef.Field{}, false
	}

	field := formdef.Field{Type: formdef.FieldType(tag), Variant: variant}
	var (
		defaultEntry *entry
		sawOptions   bool
		sawProps     bool
	)

	for idx := range entries {
		e := entries[idx]
		attrPath := joinPath(path, e.key)
		switch {
		case e.key == "type":
		case e.key == "title":
			field.Title = w.str(attrPath, e.value)
		case e.key == "description":
			field.Description = w.str(attrPath, e.value)
		case e.key == "required":
			field.Required = w.boolean(attrPath, e.value)
		case e.key == "default":
			if variant == formdef.VariantGroup {
				w.report(attrPath, e.node, CodeUnknownAttribute, "group fields do not accept a default; defaults come from nested properties")
				continue
			}
			defaultEntry = &entries[idx]
		case e.key == "validator":
			field.Validator = w.callback(attrPath, e.value)
		case e.key == "valueCallback":
			field.ValueCallback = w.callback(attrPath, e.value)
		case e.key == "conditional":
			field.Conditional = w.conditional(attrPath, e.value)
		case e.key == "disable":
			field.Disable = w.disable(attrPath, e.value)
		case formdef.IsStylingKey(e.key):
			field.Style.Set(e.key, w.value(attrPath, e.value))
		case acceptsAttribute(variant, e.key):
			switch e.key {
			case "minLength":
				field.MinLength = w.length(attrPath, e.value)
			case "maxLength":
				field.MaxLength = w.length(attrPath, e.value)
			case "minimum":
				field.Minimum = w.number(attrPath, e.value)
			case "maximum":
				field.Maximum = w.number(attrPath, e.value)
			case "options":
				sawOptions = true
				field.Options = w.options(attrPath, e.value)
			case "optionsUrl":
				field.OptionsURL = w.optionsURL(attrPath, e.value)
			case "filterFunction":
				field.FilterFunction = w.callback(attrPath, e.value)
			case "properties":
				sawProps = true
				field.Properties = w.groupProperties(attrPath, e.value, depth)
			}
		case variant == formdef.VariantCustom:
			field.Extra.Set(e.key, w.value(attrPath, e.value))
		default:
			w.report(attrPath, e.node, CodeUnknownAttribute, "attribute %q is not supported by %s fields", e.key, variant)
		}
	}

	if variant.HasOptions() && !sawOptions {
		w.report(joinPath(path, "options"), node, CodeMissingAttribute, "%s fields require options", variant)
	}
	if variant == formdef.VariantGroup && !sawProps {
		w.report(joinPath(path, "properties"), node, CodeMissingAttribute, "group fields require properties")
	}
	if defaultEntry != nil {
		field.Default = w.defaultValue(joinPath(path, "default"), defaultEntry.value, variant)
	}

	w.checkConstraints(path, &field)
	return field, true
}

// resolveVariant maps the type tag, and for `number` the shape, to a variant.
func (w *walker) resolveVariant(path string, node *yaml.Node, tag formdef.FieldType, entries []entry) (formdef.Variant, bool) {
	if variant, ok := closedVariants[tag]; ok {
		if variant == formdef.VariantNumberRange {
			_, hasMin := findEntry(entries, "minimum")
			_, hasMax := findEntry(entries, "maximum")
			switch {
			case !hasMin && !hasMax:
				for _, bound := range []string{"minimum", "maximum"} {
					w.report(joinPath(path, bound), node, CodeMissingAttribute, "number-range fields require %s", bound)
				}
			case hasMin != hasMax:
				w.report(path, node, CodeConstraint, "minimum and maximum must be set together")
			}
		}
		return variant, true
	}

	if tag == formdef.TypeNumber {
		_, hasMin := findEntry(entries, "minimum")
		_, hasMax := findEntry(entries, "maximum")
		switch {
		case !hasMin && !hasMax:
			return formdef.VariantNumberSimple, true
		case hasMin && hasMax:
			return formdef.VariantNumberRange, true
		default:
			w.report(path, node, CodeConstraint, "minimum and maximum must be set together")
			return formdef.VariantNumberRange, true
		}
	}

	if !w.cfg.acceptsCustom(string(tag)) {
		typeEntry, _ := findEntry(entries, "type")
		w.report(joinPath(path, "type"), typeEntry.value, CodeUnknownVariant, "unknown field type %q", tag)
		return "", false
	}
	return formdef.VariantCustom, true
}

func (w *walker) groupProperties(path string, node *yaml.Node, depth int) *formdef.Properties {
	if !isMapping(node) {
		w.report(path, node, CodeInvalidType, "properties must be an object")
		return nil
	}
	if depth+1 > w.cfg.maxDepth {
		w.report(path, node, CodeDepthExceeded, "group nesting exceeds the maximum depth of %d", w.cfg.maxDepth)
		return nil
	}
	return w.properties(path, node, depth+1)
}

func (w *walker) defaultValue(path string, node *yaml.Node, variant formdef.Variant) any {
	switch {
	case variant.IsStringValued():
		s, ok := stringValue(node)
		if !ok {
			w.report(path, node, CodeInvalidType, "default of %s fields must be a string", variant)
			return nil
		}
		return s
	case variant.IsNumeric():
		f, ok := numberValue(node)
		if !ok {
			w.report(path, node, CodeInvalidType, "default of %s fields must be a number", variant)
			return nil
		}
		return f
	case variant.IsBoolean():
		b, ok := boolValue(node)
		if !ok {
			w.report(path, node, CodeInvalidType, "default of %s fields must be a boolean", variant)
			return nil
		}
		return b
	default:
		return w.value(path, node)
	}
}

func (w *walker) checkConstraints(path string, field *formdef.Field) {
	switch field.Variant {
	case formdef.VariantText:
		if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
			w.report(joinPath(path, "minLength"), nil, CodeConstraint, "minLength must be less than or equal to maxLength")
		}
		if s, ok := field.Default.(string); ok {
			n := utf8.RuneCountInString(s)
			if field.MinLength != nil && n < *field.MinLength {
				w.report(joinPath(path, "default"), nil, CodeConstraint, "default is shorter than minLength")
			}
			if field.MaxLength != nil && n > *field.MaxLength {
				w.report(joinPath(path, "default"), nil, CodeConstraint, "default is longer than maxLength")
			}
		}
	case formdef.VariantNumberRange:
		if field.Minimum != nil && field.Maximum != nil && *field.Minimum > *field.Maximum {
			w.report(joinPath(path, "maximum"), nil, CodeConstraint, "maximum must be greater than or equal to minimum")
		}
		if f, ok := field.Default.(float64); ok {
			if (field.Minimum != nil && f < *field.Minimum) || (field.Maximum != nil && f > *field.Maximum) {
				w.report(joinPath(path, "default"), nil, CodeConstraint, "default lies outside minimum and maximum")
			}
		}
	}
}
