// Package formfate validates declarative form definitions and answers the
// questions a host renderer asks of them: which defaults a form starts with
// and which fields are currently visible or disabled.
//
// The functions here are the shortest path through the sub-packages:
// formdef for the document model, validation for parsing, defaults for
// initial values and visibility for conditional rules.
package formfate

import (
	"context"

	"github.com/goliatone/go-formfate/internal/loader"
	"github.com/goliatone/go-formfate/pkg/defaults"
	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/validation"
	"github.com/goliatone/go-formfate/pkg/visibility"
)

// Issues aliases validation.Issues so callers can type-assert the error
// returned by Validate without importing the sub-package.
type Issues = validation.Issues

// NewLoader constructs a loader for file, fs.FS and HTTP sources. HTTP stays
// disabled unless a client or fallback option is supplied.
func NewLoader(options ...formdef.LoaderOption) formdef.Loader {
	return loader.New(formdef.NewLoaderOptions(options...))
}

// Load fetches and validates a definition in one call.
func Load(ctx context.Context, src formdef.Source, options ...formdef.LoaderOption) (formdef.Document, error) {
	raw, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return formdef.Document{}, err
	}
	return validation.Validate(raw)
}

// Validate checks a raw definition. On failure the error is an Issues value
// listing every problem found.
func Validate(raw formdef.RawDocument, options ...validation.Option) (formdef.Document, error) {
	return validation.Validate(raw, options...)
}

// ValidateBytes checks an in-memory JSON or YAML payload.
func ValidateBytes(raw []byte, options ...validation.Option) (formdef.Document, error) {
	return validation.ValidateBytes(raw, options...)
}

// ExtractDefaults returns the initial value map of a validated document.
func ExtractDefaults(doc formdef.Document) (map[string]any, error) {
	return defaults.Extract(doc)
}

// EvaluateConditional reports whether a field guarded by rule is visible for
// the given values.
func EvaluateConditional(rule formdef.Conditional, values map[string]any, options ...visibility.Option) (bool, error) {
	return visibility.Evaluate(rule, values, options...)
}
