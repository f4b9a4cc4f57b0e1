package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/pkg/testsupport"
	"github.com/goliatone/go-formfate/pkg/validation"
	"github.com/goliatone/go-formfate/pkg/visibility"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join("testdata", "formfate.yaml")}, args...))

	err := root.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "validate", testsupport.Path("signup.json"), testsupport.Path("survey.yaml"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var reports []validateReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 2 || !reports[0].Valid || !reports[1].Valid {
		t.Fatalf("expected two valid reports, got %+v", reports)
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "validate", testsupport.Path("invalid.json"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var reports []validateReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 1 || reports[0].Valid {
		t.Fatalf("expected one invalid report, got %+v", reports)
	}
	if !reports[0].Issues.Has(validation.CodeEmptyOptionList) || len(reports[0].Issues) != 3 {
		t.Fatalf("unexpected issues: %v", reports[0].Issues)
	}
}

func TestValidateCommand_Stdin(t *testing.T) {
	t.Parallel()

	out, err := run(t, "properties:\n  name:\n    type: widget\n    stars: 5\n", "validate", "-")
	if err != nil {
		t.Fatalf("validate stdin: %v", err)
	}
	if !strings.Contains(out, `"source": "stdin"`) {
		t.Fatalf("expected stdin source, got %s", out)
	}
}

func TestDefaultsCommand_YAML(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "defaults", "--format", "yaml", testsupport.Path("signup.json"))
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := map[string]any{
		"email": "",
		"plan":  "free",
		"seats": 1,
		"terms": false,
		"company": map[string]any{
			"name":    "",
			"country": "US",
			"state":   "",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalCommand(t *testing.T) {
	t.Parallel()

	values := writeTemp(t, "values.yaml", "plan: free\ncompany:\n  country: CA\n")
	out, err := run(t, "", "eval", "--values", values, testsupport.Path("signup.json"))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var states []visibility.FieldState
	if err := json.Unmarshal([]byte(out), &states); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	visible := map[string]bool{}
	for _, state := range states {
		visible[state.Path] = state.Visible
	}
	want := map[string]bool{
		"email":           true,
		"plan":            true,
		"seats":           false,
		"terms":           true,
		"company":         false,
		"company.name":    false,
		"company.country": false,
		"company.state":   false,
	}
	if diff := cmp.Diff(want, visible); diff != "" {
		t.Fatalf("visibility mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesCommand(t *testing.T) {
	t.Parallel()

	if _, err := run(t, "", "values", "--values", testsupport.Path("signup.values.json"), testsupport.Path("signup.json")); err != nil {
		t.Fatalf("values: %v", err)
	}

	bad := writeTemp(t, "bad.json", `{"plan": "gold", "seats": 500}`)
	out, err := run(t, "", "values", "--values", bad, testsupport.Path("signup.json"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var report valuesReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if report.Valid || len(report.Violations) < 2 {
		t.Fatalf("expected violations, got %+v", report)
	}
}

func TestLintCommand(t *testing.T) {
	t.Parallel()

	def := writeTemp(t, "form.json", `{"properties":{"a":{"type":"text","conditional":{"field":"missing","state":true}}}}`)

	out, err := run(t, "", "lint", def)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	var reports []lintReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 1 || len(reports[0].Warnings) != 1 {
		t.Fatalf("expected one warning, got %+v", reports)
	}
	if got := reports[0].Warnings[0].Path; got != "properties.a.conditional.field" {
		t.Fatalf("unexpected warning path %q", got)
	}

	if _, err := run(t, "", "lint", "--strict", def); err == nil {
		t.Fatalf("expected --strict to fail")
	}
}

func TestSchemaCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "schema", "--closed", testsupport.Path("signup.json"))
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if schema["title"] != "signup" || schema["additionalProperties"] != false {
		t.Fatalf("unexpected schema header: %v", schema)
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok || props["email"] == nil || props["company"] == nil {
		t.Fatalf("expected email and company properties, got %v", schema["properties"])
	}
}

func TestRootCommand_Errors(t *testing.T) {
	t.Parallel()

	if _, err := run(t, "", "validate", "--format", "xml", testsupport.Path("signup.json")); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
	if _, err := run(t, "", "defaults", testsupport.Path("invalid.json")); err == nil {
		t.Fatalf("expected invalid definition to fail defaults")
	}
	if _, err := run(t, "", "validate", "https://example.com/form.json"); err == nil {
		t.Fatalf("expected http source to fail while disabled")
	}
}

func TestDocsCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "docs", "--as", "html", testsupport.Path("signup.json"))
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(out, "<code>company.country</code>") {
		t.Fatalf("expected html reference, got:\n%s", out)
	}
}

func TestRootCommand_ReleasesCacheOnFailure(t *testing.T) {
	t.Parallel()

	cfg := writeTemp(t, "formfate.yaml", "log_level: warn\ncache:\n  enabled: true\n")
	for name, fixture := range map[string]string{
		"valid":   "signup.json",
		"invalid": "invalid.json",
	} {
		t.Run(name, func(t *testing.T) {
			a := &app{}
			root := newRootCommand(a)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"--config", cfg, "validate", testsupport.Path(fixture)})

			err := root.Execute()
			if name == "invalid" && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if name == "valid" && err != nil {
				t.Fatalf("validate: %v", err)
			}
			if !a.cfg.Cache.Enabled {
				t.Fatalf("expected the cache to be configured")
			}
			if a.memo != nil {
				t.Fatalf("expected the cache to be closed after the command")
			}
		})
	}
}
