package visibility

import (
	"fmt"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// FieldState is the evaluated state of one field. Path uses dotted keys, the
// same form value lookups accept.
type FieldState struct {
	Path     string `json:"path"`
	Visible  bool   `json:"visible"`
	Disabled bool   `json:"disabled"`
}

// Fields evaluates every field of doc in declaration order. Fields nested in
// a hidden or disabled group inherit that state.
func Fields(doc formdef.Document, values map[string]any, opts ...Option) ([]FieldState, error) {
	o := newOptions(opts)
	states := make([]FieldState, 0, doc.Properties.Len())
	parent := FieldState{Visible: true}
	if err := o.walk(doc.Properties, "", parent, values, &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (o options) walk(props *formdef.Properties, prefix string, parent FieldState, values map[string]any, out *[]FieldState) error {
	var err error
	props.Range(func(key string, field formdef.Field) bool {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		state := FieldState{Path: path, Visible: parent.Visible, Disabled: parent.Disabled}
		if field.Conditional != nil {
			visible, evalErr := o.evaluate(path, *field.Conditional, values)
			if evalErr != nil {
				err = fmt.Errorf("visibility: field %s conditional: %w", path, evalErr)
				return false
			}
			state.Visible = state.Visible && visible
		}
		disabled, evalErr := o.disabled(path, field.Disable, values)
		if evalErr != nil {
			err = fmt.Errorf("visibility: field %s disable: %w", path, evalErr)
			return false
		}
		state.Disabled = state.Disabled || disabled

		*out = append(*out, state)
		if field.IsGroup() {
			if err = o.walk(field.Properties, path, state, values, out); err != nil {
				return false
			}
		}
		return true
	})
	return err
}
