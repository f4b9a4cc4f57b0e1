// Package lint reports suspicious but valid constructs in form definitions.
// Warnings never block a document; validation owns hard failures.
package lint

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/visibility/expr"
)

// Rule names a lint check.
type Rule string

const (
	RuleMarkup              Rule = "markup"
	RuleUnknownReference    Rule = "unknown-reference"
	RuleDefaultNotInOptions Rule = "default-not-in-options"
	RuleDuplicateOption     Rule = "duplicate-option"
	RuleRuleSyntax          Rule = "rule-syntax"
	RuleSelfReference       Rule = "self-reference"
)

// Warning is a single lint finding. Path uses the same notation as
// validation issues.
type Warning struct {
	Path    string `json:"path"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s [%s] %s", w.Path, w.Rule, w.Message)
}

// Option customises a lint run.
type Option func(*linter)

// WithExprRules parses opaque rule strings with the expr rule language and
// checks the value paths they read. Only enable it for documents whose host
// evaluates rules with expr.
func WithExprRules() Option {
	return func(l *linter) {
		l.exprRules = true
	}
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func textPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}

// hasMarkup reports whether s changes when reduced to plain text.
func hasMarkup(s string) bool {
	if !strings.ContainsAny(s, "<>&") {
		return false
	}
	return html.UnescapeString(textPolicy().Sanitize(s)) != s
}

type linter struct {
	doc       formdef.Document
	exprRules bool
	warnings  []Warning
}

// Lint inspects a validated document and returns its warnings in document
// order.
func Lint(doc formdef.Document, opts ...Option) []Warning {
	l := &linter{doc: doc}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.properties("properties", "", doc.Properties)
	for idx, button := range doc.Buttons {
		l.text(fmt.Sprintf("buttons[%d].label", idx), button.Label)
	}
	return l.warnings
}

func (l *linter) warn(path string, rule Rule, format string, args ...any) {
	l.warnings = append(l.warnings, Warning{Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) text(path, value string) {
	if hasMarkup(value) {
		l.warn(path, RuleMarkup, "contains markup; hosts render this as plain text")
	}
}

func (l *linter) properties(path, prefix string, props *formdef.Properties) {
	props.Range(func(key string, field formdef.Field) bool {
		fieldPath := path + "." + key
		valuePath := key
		if prefix != "" {
			valuePath = prefix + "." + key
		}
		l.field(fieldPath, valuePath, field)
		return true
	})
}

func (l *linter) field(path, valuePath string, field formdef.Field) {
	l.text(path+".title", field.Title)
	l.text(path+".description", field.Description)

	if field.Conditional != nil {
		l.conditional(path+".conditional", valuePath, *field.Conditional)
	}
	if field.Disable != nil {
		switch {
		case field.Disable.When != nil:
			l.conditional(path+".disable", valuePath, *field.Disable.When)
		case field.Disable.Rule != "":
			l.conditional(path+".disable", valuePath, formdef.Conditional{Rule: field.Disable.Rule})
		}
	}

	if field.Variant.HasOptions() {
		l.options(path, field)
	}
	if field.IsGroup() {
		l.properties(path+".properties", valuePath, field.Properties)
	}
}

func (l *linter) options(path string, field formdef.Field) {
	seen := make(map[string]int, len(field.Options))
	for idx, opt := range field.Options {
		optPath := fmt.Sprintf("%s.options[%d]", path, idx)
		l.text(optPath+".label", opt.Label)
		if first, dup := seen[opt.Value]; dup {
			l.warn(optPath+".value", RuleDuplicateOption, "value %q repeats options[%d]", opt.Value, first)
			continue
		}
		seen[opt.Value] = idx
	}

	if s, ok := field.Default.(string); ok && len(field.Options) > 0 && !field.Options.Contains(s) {
		l.warn(path+".default", RuleDefaultNotInOptions, "default %q is not one of the declared options", s)
	}
}

func (l *linter) conditional(path, self string, rule formdef.Conditional) {
	if !rule.IsOpaque() {
		l.reference(path+".field", self, rule.Field)
		return
	}
	if !l.exprRules {
		return
	}
	compiled, err := expr.Parse(rule.Rule)
	if err != nil {
		l.warn(path, RuleRuleSyntax, "%v", err)
		return
	}
	if compiled == nil {
		return
	}
	for _, ident := range compiled.Identifiers() {
		if strings.HasPrefix(strings.ToLower(ident), "extras.") {
			continue
		}
		l.reference(path, self, ident)
	}
}

func (l *linter) reference(path, self, target string) {
	if target == self {
		l.warn(path, RuleSelfReference, "field %q depends on itself", target)
		return
	}
	if _, ok := l.doc.Lookup(target); !ok {
		l.warn(path, RuleUnknownReference, "field %q is not defined in this document", target)
	}
}
