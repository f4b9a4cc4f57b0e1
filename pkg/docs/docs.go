// Package docs renders a reference table of a validated definition as
// Markdown or HTML, for review alongside the JSON or YAML source.
package docs

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

// Format selects the output template.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

//go:embed templates/*.tpl
var templates embed.FS

var (
	setOnce sync.Once
	set     *pongo2.TemplateSet
)

func templateSet() *pongo2.TemplateSet {
	setOnce.Do(func() {
		set = pongo2.NewSet("formfate-docs", pongo2.NewFSLoader(templates))
	})
	return set
}

// Row describes one field in the reference table.
type Row struct {
	Path        string
	Depth       int
	Indent      string
	Type        string
	Required    bool
	Default     string
	Constraints string
	Visible     string
	Disabled    string
}

// Rows flattens doc into table rows in declaration order.
func Rows(doc formdef.Document) []Row {
	var rows []Row
	collect(doc.Properties, "", 0, &rows)
	return rows
}

func collect(props *formdef.Properties, prefix string, depth int, rows *[]Row) {
	props.Range(func(key string, field formdef.Field) bool {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		*rows = append(*rows, Row{
			Path:        path,
			Depth:       depth,
			Indent:      strings.Repeat("&nbsp;&nbsp;", depth),
			Type:        string(field.Type),
			Required:    field.Required,
			Default:     describeDefault(field),
			Constraints: describeConstraints(field),
			Visible:     describeConditional(field.Conditional),
			Disabled:    describeDisable(field.Disable),
		})
		if field.IsGroup() {
			collect(field.Properties, path, depth+1, rows)
		}
		return true
	})
}

// Render executes the template for format against doc.
func Render(doc formdef.Document, format Format) ([]byte, error) {
	var name string
	switch format {
	case FormatMarkdown, "":
		name = "templates/markdown.tpl"
	case FormatHTML:
		name = "templates/html.tpl"
	default:
		return nil, fmt.Errorf("docs: unsupported format %q", format)
	}

	tmpl, err := templateSet().FromCache(name)
	if err != nil {
		return nil, fmt.Errorf("docs: load template %s: %w", name, err)
	}

	rows := Rows(doc)
	buttons := make([]string, 0, len(doc.Buttons))
	for _, b := range doc.Buttons {
		buttons = append(buttons, describeButton(b))
	}
	if format != FormatHTML {
		for idx := range rows {
			rows[idx] = rows[idx].markdown()
		}
		for idx := range buttons {
			buttons[idx] = escapeCell(buttons[idx])
		}
	} else {
		for idx := range rows {
			rows[idx].Indent = ""
		}
	}

	title := doc.Name
	if title == "" {
		title = "Form"
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteWriter(pongo2.Context{
		"title":   title,
		"rows":    rows,
		"buttons": buttons,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("docs: execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r Row) markdown() Row {
	r.Default = escapeCell(r.Default)
	r.Constraints = escapeCell(r.Constraints)
	r.Visible = escapeCell(r.Visible)
	r.Disabled = escapeCell(r.Disabled)
	return r
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func describeDefault(field formdef.Field) string {
	if field.IsGroup() {
		return ""
	}
	if field.Default != nil {
		payload, err := json.Marshal(field.Default)
		if err != nil {
			return fmt.Sprint(field.Default)
		}
		return string(payload)
	}
	if field.Variant.HasOptions() && len(field.Options) > 0 {
		return strconv.Quote(field.Options[0].Value) + " (first option)"
	}
	return ""
}

func describeConstraints(field formdef.Field) string {
	var parts []string
	if field.MinLength != nil || field.MaxLength != nil {
		parts = append(parts, "length "+bounds(intPtr(field.MinLength), intPtr(field.MaxLength)))
	}
	if field.Minimum != nil || field.Maximum != nil {
		parts = append(parts, "range "+bounds(floatPtr(field.Minimum), floatPtr(field.Maximum)))
	}
	if len(field.Options) > 0 {
		values := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			values = append(values, opt.Value)
		}
		parts = append(parts, "options "+strings.Join(values, ", "))
	}
	if field.OptionsURL != nil {
		parts = append(parts, "remote options "+field.OptionsURL.URL)
	}
	return strings.Join(parts, "; ")
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func bounds(lo, hi string) string {
	return lo + ".." + hi
}

func describeConditional(rule *formdef.Conditional) string {
	if rule == nil {
		return "always"
	}
	return describeRule(*rule)
}

func describeRule(rule formdef.Conditional) string {
	if rule.IsOpaque() {
		return "rule " + rule.Rule
	}
	switch {
	case rule.Equal != nil:
		return comparison(rule.Field, *rule.Equal, rule.State)
	case rule.NotEqual != nil:
		return comparison(rule.Field, *rule.NotEqual, !rule.State)
	case rule.State:
		return rule.Field + " is set"
	default:
		return rule.Field + " is not set"
	}
}

func comparison(field, value string, equal bool) string {
	if equal {
		return fmt.Sprintf("%s = %q", field, value)
	}
	return fmt.Sprintf("%s != %q", field, value)
}

func describeDisable(flag *formdef.Disable) string {
	switch {
	case flag == nil:
		return "never"
	case flag.Flag != nil:
		if *flag.Flag {
			return "always"
		}
		return "never"
	case flag.When != nil:
		return describeRule(*flag.When)
	default:
		return "rule " + flag.Rule
	}
}

func describeButton(b formdef.Button) string {
	parts := []string{b.Label}
	if b.Type != "" {
		parts = append(parts, "("+string(b.Type)+")")
	}
	if b.OnClick != nil {
		parts = append(parts, "calls "+b.OnClick.Name)
	}
	return strings.Join(parts, " ")
}
