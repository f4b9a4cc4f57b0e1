package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/visibility"
)

func evalRule(t *testing.T, rule string, values map[string]any) bool {
	t.Helper()
	ok, err := New().Eval("field", rule, visibility.Context{Values: values})
	if err != nil {
		t.Fatalf("Eval(%q) returned error: %v", rule, err)
	}
	return ok
}

func TestEvaluatorBooleanComparison(t *testing.T) {
	t.Parallel()

	if !evalRule(t, "newsletter == true", map[string]any{"newsletter": true}) {
		t.Fatalf("expected true")
	}
	if !evalRule(t, "newsletter == true", map[string]any{"newsletter": "true"}) {
		t.Fatalf("expected true for string true")
	}
	if evalRule(t, "newsletter == true", map[string]any{}) {
		t.Fatalf("expected missing value to compare as false")
	}
}

func TestEvaluatorTruthyAndNot(t *testing.T) {
	t.Parallel()

	if !evalRule(t, "newsletter", map[string]any{"newsletter": true}) {
		t.Fatalf("expected true")
	}
	if !evalRule(t, "!newsletter", map[string]any{"newsletter": false}) {
		t.Fatalf("expected true for !false")
	}
	if !evalRule(t, "!missing", nil) {
		t.Fatalf("expected missing value to be falsy")
	}
}

func TestEvaluatorDotLookup(t *testing.T) {
	t.Parallel()

	if !evalRule(t, `address.city != ""`, map[string]any{"address.city": "NYC"}) {
		t.Fatalf("expected true for flattened dotted key")
	}
	nested := map[string]any{"address": map[string]any{"city": "NYC"}}
	if !evalRule(t, `address.city == "NYC"`, nested) {
		t.Fatalf("expected true for nested map lookup")
	}
}

func TestEvaluatorNullLiteral(t *testing.T) {
	t.Parallel()

	if !evalRule(t, "missing == null", map[string]any{}) {
		t.Fatalf("expected true for missing == null")
	}
	if !evalRule(t, "enabled != null", map[string]any{"enabled": false}) {
		t.Fatalf("expected true for present != null")
	}
}

func TestEvaluatorComposition(t *testing.T) {
	t.Parallel()

	rule := `newsletter == true && country == "US"`
	if !evalRule(t, rule, map[string]any{"newsletter": true, "country": "US"}) {
		t.Fatalf("expected true for conjunction")
	}
	if evalRule(t, rule, map[string]any{"newsletter": true, "country": "CA"}) {
		t.Fatalf("expected false for conjunction mismatch")
	}
	if !evalRule(t, `newsletter || country == 'CA'`, map[string]any{"country": "CA"}) {
		t.Fatalf("expected true for disjunction")
	}
	if evalRule(t, `!(newsletter || country == CA)`, map[string]any{"country": "CA"}) {
		t.Fatalf("expected grouped negation to be false")
	}
}

func TestEvaluatorNumberOrdering(t *testing.T) {
	t.Parallel()

	values := map[string]any{"age": 21.0, "score": "3.5"}
	cases := map[string]bool{
		"age >= 18":   true,
		"age < 18":    false,
		"age == 21":   true,
		"age != 21":   false,
		"score > 3":   true,
		"score <= 3":  false,
		"missing < 1": true,
	}
	for rule, want := range cases {
		if got := evalRule(t, rule, values); got != want {
			t.Fatalf("%s: expected %v, got %v", rule, want, got)
		}
	}
}

func TestEvaluatorExtras(t *testing.T) {
	t.Parallel()

	ok, err := New().Eval("field", `extras.role == "admin"`, visibility.Context{
		Values: map[string]any{"role": "user"},
		Extras: map[string]any{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected extras lookup to win")
	}
}

func TestEvaluatorBlankRule(t *testing.T) {
	t.Parallel()

	if !evalRule(t, "   ", nil) {
		t.Fatalf("expected blank rule to be true")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"a = 1",
		"a & b",
		"a | b",
		`a == "open`,
		"(a",
		"a ==",
		"a >= true",
		"== 3",
		"a b",
	} {
		if _, err := Parse(rule); err == nil {
			t.Fatalf("expected parse error for %q", rule)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	node, err := Parse(`newsletter && (country == "US" || !address.city)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"newsletter", "country", "address.city"}
	if diff := cmp.Diff(want, node.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluatorWithVisibility(t *testing.T) {
	t.Parallel()

	ok, err := visibility.Evaluate(
		formdef.Conditional{Rule: "newsletter == true"},
		map[string]any{"newsletter": true},
		visibility.WithEvaluator(New()),
	)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatalf("expected opaque rule to pass through the evaluator")
	}
}
