// Package defaults derives the initial value map of a validated form
// definition.
package defaults

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// ErrPrecondition reports a document that could not have passed validation.
// The extractor never guesses a value for such input.
var ErrPrecondition = errors.New("defaults: document was not validated")

// Extract returns the initial values of doc, nested by group.
//
// Precedence per field: the explicit default verbatim, then the value of the
// first option for select and radio fields, then the empty string. Groups
// never hold a leaf value; they map to the nested result of their own
// properties.
func Extract(doc formdef.Document) (map[string]any, error) {
	if doc.Properties == nil {
		return nil, fmt.Errorf("%w: properties are missing", ErrPrecondition)
	}
	return extract(doc.Properties, "")
}

// MustExtract is Extract for callers that validated doc themselves. It panics
// on a precondition violation.
func MustExtract(doc formdef.Document) map[string]any {
	out, err := Extract(doc)
	if err != nil {
		panic(err)
	}
	return out
}

func extract(props *formdef.Properties, prefix string) (map[string]any, error) {
	out := make(map[string]any, props.Len())
	var err error
	props.Range(func(key string, field formdef.Field) bool {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		var value any
		value, err = fieldValue(path, field)
		if err != nil {
			return false
		}
		out[key] = value
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fieldValue(path string, field formdef.Field) (any, error) {
	switch {
	case field.IsGroup():
		if field.Properties == nil {
			return nil, fmt.Errorf("%w: group %s has no properties", ErrPrecondition, path)
		}
		return extract(field.Properties, path)
	case field.HasDefault():
		return CloneValue(field.Default), nil
	case field.Variant.HasOptions():
		first, ok := field.Options.First()
		if !ok {
			return nil, fmt.Errorf("%w: %s field %s has no options", ErrPrecondition, field.Variant, path)
		}
		return first.Value, nil
	case field.Variant == "":
		return nil, fmt.Errorf("%w: field %s has no resolved variant", ErrPrecondition, path)
	default:
		return "", nil
	}
}
