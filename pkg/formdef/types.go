package formdef

// FieldType is the `type` tag exactly as written in the definition.
type FieldType string

const (
	TypeText         FieldType = "text"
	TypePassword     FieldType = "password"
	TypeEmail        FieldType = "email"
	TypeDate         FieldType = "date"
	TypeTime         FieldType = "time"
	TypeURL          FieldType = "url"
	TypeTextarea     FieldType = "textarea"
	TypeSelect       FieldType = "select"
	TypeRadio        FieldType = "radio"
	TypeNumber       FieldType = "number"
	TypeNumberSimple FieldType = "number-simple"
	TypeNumberRange  FieldType = "number-range"
	TypeBoolean      FieldType = "boolean"
	TypeCheckbox     FieldType = "checkbox"
	TypeGroup        FieldType = "group"
	TypeBlock        FieldType = "block"
)

// IsClosed reports whether the tag belongs to the closed variant set. Tags
// outside the set resolve to the custom variant.
func (t FieldType) IsClosed() bool {
	switch t {
	case TypeText, TypePassword, TypeEmail, TypeDate, TypeTime, TypeURL,
		TypeTextarea, TypeSelect, TypeRadio, TypeNumber, TypeNumberSimple,
		TypeNumberRange, TypeBoolean, TypeCheckbox, TypeGroup, TypeBlock:
		return true
	default:
		return false
	}
}

// Variant identifies the resolved shape of a field. It differs from FieldType
// for `number`, which is disambiguated by the presence of minimum/maximum, for
// `block`, an alias of group, and for every custom tag.
type Variant string

const (
	VariantText         Variant = "text"
	VariantPassword     Variant = "password"
	VariantEmail        Variant = "email"
	VariantDate         Variant = "date"
	VariantTime         Variant = "time"
	VariantURL          Variant = "url"
	VariantTextarea     Variant = "textarea"
	VariantSelect       Variant = "select"
	VariantRadio        Variant = "radio"
	VariantNumberSimple Variant = "number-simple"
	VariantNumberRange  Variant = "number-range"
	VariantBoolean      Variant = "boolean"
	VariantCheckbox     Variant = "checkbox"
	VariantCustom       Variant = "custom"
	VariantGroup        Variant = "group"
)

// HasOptions reports whether the variant carries an option list.
func (v Variant) HasOptions() bool {
	return v == VariantSelect || v == VariantRadio
}

// IsStringValued reports whether the variant holds a string value.
func (v Variant) IsStringValued() bool {
	switch v {
	case VariantText, VariantPassword, VariantEmail, VariantDate, VariantTime,
		VariantURL, VariantTextarea, VariantSelect, VariantRadio:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the variant holds a number.
func (v Variant) IsNumeric() bool {
	return v == VariantNumberSimple || v == VariantNumberRange
}

// IsBoolean reports whether the variant holds a boolean.
func (v Variant) IsBoolean() bool {
	return v == VariantBoolean || v == VariantCheckbox
}

// Styling attribute names. Their values are opaque to the core.
const (
	StyleClassName        = "className"
	StyleLabelClassName   = "labelClassName"
	StyleInputClassName   = "inputClassName"
	StyleWrapperClassName = "wrapperClassName"
	StyleInline           = "style"
)

// StylingKeys lists the styling attribute names accepted on every variant.
func StylingKeys() []string {
	return []string{StyleClassName, StyleLabelClassName, StyleInputClassName, StyleWrapperClassName, StyleInline}
}

// IsStylingKey reports whether key is a styling attribute.
func IsStylingKey(key string) bool {
	switch key {
	case StyleClassName, StyleLabelClassName, StyleInputClassName, StyleWrapperClassName, StyleInline:
		return true
	default:
		return false
	}
}

// ButtonType enumerates the accepted button kinds.
type ButtonType string

const (
	ButtonSubmit ButtonType = "submit"
	ButtonReset  ButtonType = "reset"
	ButtonPlain  ButtonType = "button"
)

// Valid reports whether the button type is one of the accepted kinds.
func (b ButtonType) Valid() bool {
	return b == ButtonSubmit || b == ButtonReset || b == ButtonPlain
}
