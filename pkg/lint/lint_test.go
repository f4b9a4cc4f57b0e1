package lint

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/validation"
)

func validated(t *testing.T, raw string) formdef.Document {
	t.Helper()
	doc, err := validation.ValidateBytes([]byte(raw))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	return doc
}

func TestLint_CleanDocument(t *testing.T) {
	t.Parallel()

	doc := validated(t, `{"properties": {
  "country": {"type": "select", "title": "Country & region", "default": "us", "options": [{"label": "US", "value": "us"}, {"label": "CA", "value": "ca"}]},
  "state": {"type": "text", "conditional": {"field": "country", "state": true, "equal": "us"}},
  "address": {"type": "group", "properties": {
    "city": {"type": "text"},
    "zip": {"type": "text", "conditional": {"field": "address.city", "state": true}}
  }}
}, "buttons": [{"label": "Save & close"}]}`)

	if got := Lint(doc); len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", got)
	}
}

func TestLint_Findings(t *testing.T) {
	t.Parallel()

	doc := validated(t, `{"properties": {
  "color": {
    "type": "radio",
    "title": "<b>Colour</b>",
    "default": "green",
    "options": [
      {"label": "Red", "value": "red"},
      {"label": "<i>Crimson</i>", "value": "red"}
    ]
  },
  "notes": {"type": "textarea", "conditional": {"field": "newsletter", "state": true}},
  "loop": {"type": "text", "disable": {"field": "loop", "state": true}}
}, "buttons": [{"label": "<script>alert(1)</script>Go"}]}`)

	want := []Warning{
		{Path: "properties.color.title", Rule: RuleMarkup},
		{Path: "properties.color.options[1].label", Rule: RuleMarkup},
		{Path: "properties.color.options[1].value", Rule: RuleDuplicateOption},
		{Path: "properties.color.default", Rule: RuleDefaultNotInOptions},
		{Path: "properties.notes.conditional.field", Rule: RuleUnknownReference},
		{Path: "properties.loop.disable.field", Rule: RuleSelfReference},
		{Path: "buttons[0].label", Rule: RuleMarkup},
	}
	got := Lint(doc)
	for idx := range got {
		got[idx].Message = ""
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestLint_ExprRules(t *testing.T) {
	t.Parallel()

	doc := validated(t, `{"properties": {
  "newsletter": {"type": "checkbox"},
  "notes": {"type": "textarea", "conditional": "newsletter && frequency == 'weekly' && extras.role == 'admin'"},
  "broken": {"type": "text", "disable": "a = 1"}
}}`)

	if got := Lint(doc); len(got) != 0 {
		t.Fatalf("expected opaque rules to be skipped by default, got %v", got)
	}

	got := Lint(doc, WithExprRules())
	if len(got) != 2 {
		t.Fatalf("expected two warnings, got %v", got)
	}
	if got[0].Path != "properties.notes.conditional" || got[0].Rule != RuleUnknownReference {
		t.Fatalf("unexpected first warning %v", got[0])
	}
	if got[1].Path != "properties.broken.disable" || got[1].Rule != RuleRuleSyntax {
		t.Fatalf("unexpected second warning %v", got[1])
	}
}

func TestHasMarkup(t *testing.T) {
	t.Parallel()

	plain := []string{"", "Tom & Jerry", "a < b", "It's \"quoted\"", "5 > 3"}
	for _, s := range plain {
		if hasMarkup(s) {
			t.Fatalf("%q: expected plain text", s)
		}
	}
	marked := []string{"<b>bold</b>", "<img src=x onerror=alert(1)>", "line<br>break"}
	for _, s := range marked {
		if !hasMarkup(s) {
			t.Fatalf("%q: expected markup", s)
		}
	}
}
