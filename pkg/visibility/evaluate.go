package visibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

var (
	// ErrNoEvaluator is returned for opaque rules when no Evaluator was
	// configured.
	ErrNoEvaluator = errors.New("visibility: opaque rule requires an evaluator")
	// ErrAmbiguousRule reports a rule carrying both equal and notEqual. Such
	// rules never pass validation, so callers hitting it skipped validation.
	ErrAmbiguousRule = errors.New("visibility: equal and notEqual are mutually exclusive")
	// ErrInvalidRule reports a declarative rule without a field reference.
	ErrInvalidRule = errors.New("visibility: rule does not name a field")
)

// Option customises rule evaluation.
type Option func(*options)

type options struct {
	evaluator Evaluator
	extras    map[string]any
}

// WithEvaluator installs the host predicate used for opaque rules.
func WithEvaluator(evaluator Evaluator) Option {
	return func(o *options) {
		o.evaluator = evaluator
	}
}

// WithExtras exposes additional context to the host Evaluator.
func WithExtras(extras map[string]any) Option {
	return func(o *options) {
		o.extras = extras
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Evaluate decides a conditional rule against values.
//
// With equal set the result is (value == equal) == state; with notEqual set
// it is (value != notEqual) == state; otherwise the boolean coercion of the
// value is compared with state. Missing fields have a false boolean state and
// compare as the empty string.
func Evaluate(rule formdef.Conditional, values map[string]any, opts ...Option) (bool, error) {
	return newOptions(opts).evaluate("", rule, values)
}

// Disabled decides a disable flag against values. A nil flag means enabled.
func Disabled(flag *formdef.Disable, values map[string]any, opts ...Option) (bool, error) {
	return newOptions(opts).disabled("", flag, values)
}

func (o options) evaluate(fieldPath string, rule formdef.Conditional, values map[string]any) (bool, error) {
	if rule.IsOpaque() {
		return o.opaque(fieldPath, rule.Rule, values)
	}
	if rule.Equal != nil && rule.NotEqual != nil {
		return false, ErrAmbiguousRule
	}
	if strings.TrimSpace(rule.Field) == "" {
		return false, ErrInvalidRule
	}

	value, _ := Lookup(values, rule.Field)
	switch {
	case rule.Equal != nil:
		return (CoerceString(value) == *rule.Equal) == rule.State, nil
	case rule.NotEqual != nil:
		return (CoerceString(value) != *rule.NotEqual) == rule.State, nil
	default:
		state, _ := CoerceBool(value)
		return state == rule.State, nil
	}
}

func (o options) disabled(fieldPath string, flag *formdef.Disable, values map[string]any) (bool, error) {
	switch {
	case flag == nil:
		return false, nil
	case flag.Flag != nil:
		return *flag.Flag, nil
	case flag.When != nil:
		return o.evaluate(fieldPath, *flag.When, values)
	case flag.Rule != "":
		return o.opaque(fieldPath, flag.Rule, values)
	default:
		return false, nil
	}
}

func (o options) opaque(fieldPath, rule string, values map[string]any) (bool, error) {
	if o.evaluator == nil {
		return false, fmt.Errorf("%w: %q", ErrNoEvaluator, rule)
	}
	ok, err := o.evaluator.Eval(fieldPath, rule, Context{Values: values, Extras: o.extras})
	if err != nil {
		return false, fmt.Errorf("visibility: evaluate %q: %w", rule, err)
	}
	return ok, nil
}
