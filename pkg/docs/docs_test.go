package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfate/pkg/testsupport"
)

func TestRows(t *testing.T) {
	t.Parallel()

	rows := Rows(testsupport.MustValidate(t, "signup.json"))
	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, row.Path)
	}
	want := []string{"email", "plan", "seats", "terms", "company", "company.name", "company.country", "company.state"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	seats := rows[2]
	if seats.Default != "1" || seats.Constraints != "range 1..50" || seats.Visible != `plan = "pro"` {
		t.Fatalf("unexpected seats row: %+v", seats)
	}
	if rows[4].Visible != `rule plan == "pro"` || rows[7].Depth != 1 {
		t.Fatalf("unexpected company rows: %+v %+v", rows[4], rows[7])
	}
}

func TestRender_Markdown(t *testing.T) {
	t.Parallel()

	out, err := Render(testsupport.MustValidate(t, "signup.json"), FormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	for _, line := range []string{
		"# signup",
		"| `email` | email | yes |  |  | always | never |",
		`| ` + "`plan`" + ` | radio | no | "free" (first option) | options free, pro | always | never |`,
		"| &nbsp;&nbsp;`company.state` | text | no |  |  | company.country = \"US\" | never |",
		"- Create account (submit) calls submitSignup",
	} {
		if !strings.Contains(text, line+"\n") {
			t.Fatalf("expected line %q in output:\n%s", line, text)
		}
	}
}

func TestRender_HTML(t *testing.T) {
	t.Parallel()

	out, err := Render(testsupport.MustValidate(t, "survey.yaml"), FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"<h1>survey</h1>",
		"<code>comment</code>",
		"rating != &quot;5&quot;",
		"<li>Send (submit)</li>",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := Render(testsupport.MustValidate(t, "survey.yaml"), Format("pdf")); err == nil {
		t.Fatalf("expected unsupported format to fail")
	}
}

func TestEscapeCell(t *testing.T) {
	t.Parallel()

	if got := escapeCell("a|b\nc"); got != `a\|b c` {
		t.Fatalf("unexpected escape %q", got)
	}
}
