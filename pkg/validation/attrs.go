package validation

import (
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// callback shape-checks a host capability descriptor: a handler name, or an
// object with a name and optional params.
func (w *walker) callback(path string, node *yaml.Node) *formdef.Callback {
	if name, ok := stringValue(node); ok {
		if strings.TrimSpace(name) == "" {
			w.report(path, node, CodeInvalidType, "handler name must not be empty")
			return nil
		}
		return &formdef.Callback{Name: name}
	}
	if !isMapping(node) {
		w.report(path, node, CodeInvalidType, "must be a handler name or an object with a name")
		return nil
	}

	cb := &formdef.Callback{}
	sawName := false
	for _, e := range w.entries(path, node) {
		attrPath := joinPath(path, e.key)
		switch e.key {
		case "name":
			sawName = true
			cb.Name = w.str(attrPath, e.value)
			if _, ok := stringValue(e.value); ok && strings.TrimSpace(cb.Name) == "" {
				w.report(attrPath, e.value, CodeInvalidType, "handler name must not be empty")
			}
		case "params":
			if !isMapping(e.value) {
				w.report(attrPath, e.value, CodeInvalidType, "params must be an object")
				continue
			}
			if params, ok := w.value(attrPath, e.value).(map[string]any); ok && len(params) > 0 {
				cb.Params = params
			}
		default:
			w.report(attrPath, e.node, CodeUnknownAttribute, "unknown callback attribute %q", e.key)
		}
	}
	if !sawName {
		w.report(joinPath(path, "name"), node, CodeMissingAttribute, "name is required")
	}
	return cb
}

// conditional accepts an opaque rule string or the declarative
// {field, state, equal?, notEqual?} form.
func (w *walker) conditional(path string, node *yaml.Node) *formdef.Conditional {
	if rule, ok := stringValue(node); ok {
		if strings.TrimSpace(rule) == "" {
			w.report(path, node, CodeInvalidType, "conditional rule must not be empty")
			return nil
		}
		return &formdef.Conditional{Rule: rule}
	}
	if !isMapping(node) {
		w.report(path, node, CodeInvalidType, "conditional must be a rule string or an object")
		return nil
	}

	cond := &formdef.Conditional{}
	var sawField, sawState bool
	for _, e := range w.entries(path, node) {
		attrPath := joinPath(path, e.key)
		switch e.key {
		case "field":
			sawField = true
			cond.Field = w.str(attrPath, e.value)
			if _, ok := stringValue(e.value); ok && strings.TrimSpace(cond.Field) == "" {
				w.report(attrPath, e.value, CodeInvalidType, "field must not be empty")
			}
		case "state":
			sawState = true
			cond.State = w.boolean(attrPath, e.value)
		case "equal":
			value := w.str(attrPath, e.value)
			cond.Equal = &value
		case "notEqual":
			value := w.str(attrPath, e.value)
			cond.NotEqual = &value
		default:
			w.report(attrPath, e.node, CodeUnknownAttribute, "unknown conditional attribute %q", e.key)
		}
	}
	if !sawField {
		w.report(joinPath(path, "field"), node, CodeMissingAttribute, "field is required")
	}
	if !sawState {
		w.report(joinPath(path, "state"), node, CodeMissingAttribute, "state is required")
	}
	if cond.Equal != nil && cond.NotEqual != nil {
		w.report(path, node, CodeAmbiguousCondition, "equal and notEqual are mutually exclusive")
	}
	return cond
}

func (w *walker) disable(path string, node *yaml.Node) *formdef.Disable {
	if flag, ok := boolValue(node); ok {
		return &formdef.Disable{Flag: &flag}
	}
	if rule, ok := stringValue(node); ok {
		if strings.TrimSpace(rule) == "" {
			w.report(path, node, CodeInvalidType, "disable rule must not be empty")
			return nil
		}
		return &formdef.Disable{Rule: rule}
	}
	if isMapping(node) {
		return &formdef.Disable{When: w.conditional(path, node)}
	}
	w.report(path, node, CodeInvalidType, "disable must be a boolean, a rule string or a conditional object")
	return nil
}

func (w *walker) options(path string, node *yaml.Node) formdef.OptionList {
	if !isSequence(node) {
		w.report(path, node, CodeInvalidType, "options must be a list")
		return nil
	}
	items := formdef.Resolve(node).Content
	if len(items) == 0 {
		w.report(path, node, CodeEmptyOptionList, "at least one option is required")
		return nil
	}

	out := make(formdef.OptionList, 0, len(items))
	for idx, item := range items {
		itemPath := indexPath(path, idx)
		if !isMapping(item) {
			w.report(itemPath, item, CodeInvalidType, "option must be an object with label and value")
			continue
		}
		var (
			opt                formdef.Option
			sawLabel, sawValue bool
		)
		for _, e := range w.entries(itemPath, item) {
			attrPath := joinPath(itemPath, e.key)
			switch e.key {
			case "label":
				sawLabel = true
				opt.Label = w.str(attrPath, e.value)
			case "value":
				sawValue = true
				opt.Value = w.str(attrPath, e.value)
			default:
				w.report(attrPath, e.node, CodeUnknownAttribute, "unknown option attribute %q", e.key)
			}
		}
		if !sawLabel {
			w.report(joinPath(itemPath, "label"), item, CodeMissingAttribute, "label is required")
		}
		if !sawValue {
			w.report(joinPath(itemPath, "value"), item, CodeMissingAttribute, "value is required")
		}
		out = append(out, opt)
	}
	return out
}

func (w *walker) optionsURL(path string, node *yaml.Node) *formdef.OptionsURL {
	if raw, ok := stringValue(node); ok {
		w.checkOptionsURL(path, node, raw)
		return &formdef.OptionsURL{URL: raw}
	}
	if !isMapping(node) {
		w.report(path, node, CodeInvalidType, "optionsUrl must be a URL string or an object")
		return nil
	}

	out := &formdef.OptionsURL{}
	sawURL := false
	for _, e := range w.entries(path, node) {
		attrPath := joinPath(path, e.key)
		switch e.key {
		case "url":
			sawURL = true
			out.URL = w.str(attrPath, e.value)
			if _, ok := stringValue(e.value); ok {
				w.checkOptionsURL(attrPath, e.value, out.URL)
			}
		case "method":
			out.Method = w.str(attrPath, e.value)
			if _, ok := stringValue(e.value); ok && out.Method != "GET" && out.Method != "POST" {
				w.report(attrPath, e.value, CodeInvalidType, "method must be GET or POST")
			}
		case "mapper":
			out.Mapper = w.callback(attrPath, e.value)
		default:
			w.report(attrPath, e.node, CodeUnknownAttribute, "unknown optionsUrl attribute %q", e.key)
		}
	}
	if !sawURL {
		w.report(joinPath(path, "url"), node, CodeMissingAttribute, "url is required")
	}
	return out
}

// checkOptionsURL accepts absolute http(s) URLs and host-relative paths.
func (w *walker) checkOptionsURL(path string, node *yaml.Node, raw string) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, "//") {
		return
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		w.report(path, node, CodeInvalidType, "url must be an absolute http(s) URL or a path starting with /")
	}
}
