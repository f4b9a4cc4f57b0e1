// Package visibility evaluates conditional and disable rules of validated
// form definitions against a map of live values.
//
// Declarative rules ({field, state, equal?, notEqual?}) are evaluated here.
// Opaque rule strings belong to the host: they are handed to the Evaluator
// configured with WithEvaluator and never interpreted by this package.
package visibility

// Evaluator decides an opaque rule for the field at fieldPath.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context is what an Evaluator sees: the live form values, flat or nested by
// group, and host extras such as the signed-in user's roles.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc lets a plain function serve as an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval calls fn.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}
