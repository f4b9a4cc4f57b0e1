package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfate/pkg/testsupport"
	"github.com/goliatone/go-formfate/pkg/validation"
	"github.com/goliatone/go-formfate/pkg/visibility"
	"github.com/goliatone/go-formfate/pkg/visibility/expr"
)

// stubDriver replays scripted answers in order and records each prompt.
type stubDriver struct {
	answers []any
	pos     int
	asked   []string
	infos   []string
}

func (s *stubDriver) next(kind, message string) (any, error) {
	s.asked = append(s.asked, kind+":"+message)
	if s.pos >= len(s.answers) {
		return nil, fmt.Errorf("no answer scripted for %s", message)
	}
	val := s.answers[s.pos]
	s.pos++
	if err, ok := val.(error); ok {
		return nil, err
	}
	return val, nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	val, err := s.next("input", cfg.Message)
	if err != nil {
		return "", err
	}
	answer := val.(string)
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (s *stubDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	val, err := s.next("confirm", cfg.Message)
	if err != nil {
		return false, err
	}
	return val.(bool), nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	val, err := s.next("select", cfg.Message)
	if err != nil {
		return 0, err
	}
	return val.(int), nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	val, err := s.next("textarea", cfg.Message)
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestFill_FollowsConditionals(t *testing.T) {
	t.Parallel()

	doc := testsupport.MustValidate(t, "signup.json")
	driver := &stubDriver{answers: []any{
		"jane@example.com", // email
		1,                  // plan: Pro
		"3",                // seats
		true,               // terms
		"Acme",             // company.name
		0,                  // company.country: US
		"NY",               // company.state
	}}
	filler := New(WithPromptDriver(driver), WithVisibility(visibility.WithEvaluator(expr.New())))

	got, err := filler.Fill(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := map[string]any{
		"email": "jane@example.com",
		"plan":  "pro",
		"seats": 3.0,
		"terms": true,
		"company": map[string]any{
			"name":    "Acme",
			"country": "US",
			"state":   "NY",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Company"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.asked[0] != "input:Email *" {
		t.Fatalf("expected required marker on first prompt, got %q", driver.asked[0])
	}
}

func TestFill_SkipsHiddenFields(t *testing.T) {
	t.Parallel()

	doc := testsupport.MustValidate(t, "signup.json")
	driver := &stubDriver{answers: []any{"jane@example.com", 0, false}}
	filler := New(WithPromptDriver(driver), WithVisibility(visibility.WithEvaluator(expr.New())))

	got, err := filler.Fill(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := []string{"input:Email *", "select:Plan", "confirm:I accept the terms"}
	if diff := cmp.Diff(want, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if got["seats"] != 1.0 {
		t.Fatalf("hidden field should keep its default, got %v", got["seats"])
	}
}

func TestFill_Prefill(t *testing.T) {
	t.Parallel()

	doc := testsupport.MustValidate(t, "survey.yaml")
	driver := &stubDriver{answers: []any{"5"}}
	filler := New(WithPromptDriver(driver))

	got, err := filler.Fill(context.Background(), doc, map[string]any{"contact": true})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := map[string]any{"rating": 5.0, "comment": "", "contact": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.asked) != 1 {
		t.Fatalf("expected comment and contact to be skipped, asked %v", driver.asked)
	}
}

func TestFill_ValidatesAnswers(t *testing.T) {
	t.Parallel()

	doc, err := validation.ValidateBytes([]byte(`{"properties":{
		"age": {"type": "number", "minimum": 18, "maximum": 99},
		"nick": {"type": "text", "required": true, "maxLength": 3}
	}}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	for _, tc := range []struct {
		name    string
		answers []any
	}{
		{"below minimum", []any{"12"}},
		{"not a number", []any{"old"}},
		{"too long", []any{"30", "jimmy"}},
		{"required", []any{"30", ""}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(WithPromptDriver(&stubDriver{answers: tc.answers})).Fill(context.Background(), doc, nil)
			if err == nil {
				t.Fatalf("expected answer %v to be rejected", tc.answers)
			}
		})
	}
}

func TestFill_CustomAndAbort(t *testing.T) {
	t.Parallel()

	doc, err := validation.ValidateBytes([]byte("properties:\n  theme:\n    type: color-picker\n    default: {hex: '#fff'}\n  notes:\n    type: textarea\n"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	got, err := New(WithPromptDriver(&stubDriver{answers: []any{"", "hi"}})).Fill(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := map[string]any{"theme": map[string]any{"hex": "#fff"}, "notes": "hi"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	got, err = New(WithPromptDriver(&stubDriver{answers: []any{`{"hex": "#000"}`, ""}})).Fill(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"hex": "#000"}, got["theme"]); diff != "" {
		t.Fatalf("custom mismatch (-want +got):\n%s", diff)
	}

	_, err = New(WithPromptDriver(&stubDriver{answers: []any{ErrAborted}})).Fill(context.Background(), doc, nil)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSetPath(t *testing.T) {
	t.Parallel()

	values := map[string]any{"a": "flat"}
	if err := setPath(values, "b.c.d", 1); err != nil {
		t.Fatalf("setPath: %v", err)
	}
	if got, ok := getPath(values, "b.c.d"); !ok || got != 1 {
		t.Fatalf("expected nested value, got %v", got)
	}
	if err := setPath(values, "a.b", 2); err == nil {
		t.Fatalf("expected writing below a scalar to fail")
	}
}
