package validation

import (
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// Validate parses and validates a raw definition. It returns the validated
// document when no issue is found; otherwise the zero Document and an Issues
// error holding every problem in the payload.
func Validate(raw formdef.RawDocument, options ...Option) (formdef.Document, error) {
	node, err := formdef.Parse(raw.Raw())
	if err != nil {
		return formdef.Document{}, Issues{{
			Code:    CodeMalformedDocument,
			Message: err.Error(),
		}}
	}
	return ValidateNode(node, options...)
}

// ValidateBytes validates an in-memory JSON or YAML payload.
func ValidateBytes(raw []byte, options ...Option) (formdef.Document, error) {
	return Validate(formdef.Inline(raw), options...)
}

// ValidateNode validates an already parsed node tree.
func ValidateNode(node *yaml.Node, options ...Option) (formdef.Document, error) {
	w := &walker{cfg: newConfig(options...)}
	doc := w.document(node)
	if len(w.issues) > 0 {
		return formdef.Document{}, w.issues
	}
	return doc, nil
}

// Check runs Validate and folds the outcome into a Result.
func Check(raw formdef.RawDocument, options ...Option) Result {
	_, err := Validate(raw, options...)
	if err == nil {
		return Result{Valid: true}
	}
	issues, ok := err.(Issues)
	if !ok {
		issues = Issues{{Code: CodeMalformedDocument, Message: err.Error()}}
	}
	return Result{Valid: false, Issues: issues}
}

func (w *walker) document(node *yaml.Node) formdef.Document {
	node = formdef.Resolve(node)
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = formdef.Resolve(node.Content[0])
	}
	if node == nil || node.Kind != yaml.MappingNode {
		w.report("", node, CodeMalformedDocument, "form definition must be an object")
		return formdef.Document{}
	}

	var (
		doc           formdef.Document
		sawProperties bool
	)
	for _, e := range w.entries("", node) {
		switch e.key {
		case "name":
			doc.Name = w.str(e.key, e.value)
		case "properties":
			sawProperties = true
			if !isMapping(e.value) {
				w.report(e.key, e.value, CodeMalformedDocument, "properties must be an object")
				continue
			}
			doc.Properties = w.properties(e.key, e.value, 0)
		case "buttons":
			doc.Buttons = w.buttons(e.key, e.value)
		default:
			w.report(e.key, e.node, CodeUnknownAttribute, "unknown document attribute %q", e.key)
		}
	}
	if !sawProperties {
		w.report("properties", node, CodeMalformedDocument, "properties is required")
	}
	return doc
}

func (w *walker) properties(path string, node *yaml.Node, depth int) *formdef.Properties {
	props := formdef.NewProperties()
	for _, e := range w.entries(path, node) {
		if e.key == "" {
			w.report(path, e.node, CodeInvalidType, "property keys must not be empty")
			continue
		}
		field, ok := w.field(joinPath(path, e.key), e.value, depth)
		if ok {
			props.Set(e.key, field)
		}
	}
	return props
}

func (w *walker) buttons(path string, node *yaml.Node) []formdef.Button {
	if !isSequence(node) {
		w.report(path, node, CodeInvalidType, "buttons must be a list")
		return nil
	}
	items := formdef.Resolve(node).Content
	out := make([]formdef.Button, 0, len(items))
	for idx, item := range items {
		itemPath := indexPath(path, idx)
		if !isMapping(item) {
			w.report(itemPath, item, CodeInvalidType, "button must be an object")
			continue
		}
		var (
			button   formdef.Button
			sawLabel bool
		)
		for _, e := range w.entries(itemPath, item) {
			attrPath := joinPath(itemPath, e.key)
			switch e.key {
			case "type":
				button.Type = formdef.ButtonType(w.str(attrPath, e.value))
				if _, ok := stringValue(e.value); ok && !button.Type.Valid() {
					w.report(attrPath, e.value, CodeInvalidType, "button type must be one of submit, reset, button")
				}
			case "variant":
				button.Variant = w.str(attrPath, e.value)
			case "label":
				sawLabel = true
				button.Label = w.str(attrPath, e.value)
			case "onClick":
				button.OnClick = w.callback(attrPath, e.value)
			case "className":
				button.ClassName = w.str(attrPath, e.value)
			default:
				w.report(attrPath, e.node, CodeUnknownAttribute, "unknown button attribute %q", e.key)
			}
		}
		if !sawLabel {
			w.report(joinPath(itemPath, "label"), item, CodeMissingAttribute, "label is required")
		}
		out = append(out, button)
	}
	return out
}
