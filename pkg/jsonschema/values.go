package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// ValidateValues checks a submitted value map against the exported schema of
// doc. Every violation is reported; the returned error unwraps to an
// openapi3.MultiError when more than one is found.
func ValidateValues(doc formdef.Document, values map[string]any, opts ...Option) error {
	normalized, err := normalize(values)
	if err != nil {
		return err
	}
	schema := Export(doc, opts...)
	if err := schema.VisitJSON(normalized, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("jsonschema: values rejected: %w", err)
	}
	return nil
}

// normalize round-trips values through encoding/json so Go integers and
// typed maps reach the validator in the shape it expects.
func normalize(values map[string]any) (any, error) {
	if values == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode values: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("jsonschema: decode values: %w", err)
	}
	return out, nil
}

// Violations flattens a ValidateValues error into one message per problem.
func Violations(err error) []string {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]string, 0, len(multi))
		for _, item := range multi {
			out = append(out, item.Error())
		}
		return out
	}
	return []string{err.Error()}
}
