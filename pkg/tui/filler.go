// Package tui fills a validated form definition interactively in the
// terminal. Fields are prompted in declaration order; each conditional is
// re-evaluated against the answers collected so far, so hidden and disabled
// fields are skipped and keep their current value.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formfate/pkg/defaults"
	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/visibility"
)

// Filler collects a value map for a document through a PromptDriver.
type Filler struct {
	driver     PromptDriver
	visibility []visibility.Option
	out        io.Writer
}

// New constructs a Filler. Without WithPromptDriver it prompts through the
// survey terminal driver.
func New(options ...Option) *Filler {
	f := &Filler{out: defaultOutput()}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(f.out)
	}
	return f
}

// Fill prompts for every visible, enabled field of doc. The session starts
// from the document defaults overlaid with prefill and returns the final
// value map.
func (f *Filler) Fill(ctx context.Context, doc formdef.Document, prefill map[string]any) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	values, err := defaults.Extract(doc)
	if err != nil {
		return nil, err
	}
	overlay(values, prefill)

	if err := f.properties(ctx, doc.Properties, "", values); err != nil {
		return nil, err
	}
	return values, nil
}

func overlay(dst, src map[string]any) {
	for key, value := range src {
		if nested, ok := value.(map[string]any); ok {
			if target, ok := dst[key].(map[string]any); ok {
				overlay(target, nested)
				continue
			}
		}
		dst[key] = defaults.CloneValue(value)
	}
}

func (f *Filler) properties(ctx context.Context, props *formdef.Properties, prefix string, values map[string]any) error {
	var err error
	props.Range(func(key string, field formdef.Field) bool {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		err = f.field(ctx, path, field, values)
		return err == nil
	})
	return err
}

func (f *Filler) field(ctx context.Context, path string, field formdef.Field, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if field.Conditional != nil {
		visible, err := visibility.Evaluate(*field.Conditional, values, f.visibility...)
		if err != nil {
			return fmt.Errorf("tui: field %s conditional: %w", path, err)
		}
		if !visible {
			return nil
		}
	}
	disabled, err := visibility.Disabled(field.Disable, values, f.visibility...)
	if err != nil {
		return fmt.Errorf("tui: field %s disable: %w", path, err)
	}
	if disabled {
		return nil
	}

	if field.IsGroup() {
		if field.Title != "" {
			if err := f.driver.Info(ctx, field.Title); err != nil {
				return err
			}
		}
		return f.properties(ctx, field.Properties, path, values)
	}

	current, _ := getPath(values, path)
	value, err := f.prompt(ctx, field, label(path, field), current)
	if err != nil {
		return err
	}
	return setPath(values, path, value)
}

func label(path string, field formdef.Field) string {
	text := field.Title
	if text == "" {
		text = path
	}
	if field.Required {
		text += " *"
	}
	return text
}

func (f *Filler) prompt(ctx context.Context, field formdef.Field, message string, current any) (any, error) {
	help := field.Description

	switch {
	case field.Variant.HasOptions():
		labels := make([]string, len(field.Options))
		selected := 0
		for idx, opt := range field.Options {
			labels[idx] = opt.Label
			if opt.Value == visibility.CoerceString(current) {
				selected = idx
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: selected, Help: help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, fmt.Errorf("tui: selection %d out of range", idx)
		}
		return field.Options[idx].Value, nil

	case field.Variant.IsBoolean():
		state, _ := visibility.CoerceBool(current)
		return f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: state, Help: help})

	case field.Variant.IsNumeric():
		def := ""
		if n, ok := visibility.CoerceNumber(current); ok {
			def = strconv.FormatFloat(n, 'f', -1, 64)
		}
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help, Validator: numberValidator(field)})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			return "", nil
		}
		return strconv.ParseFloat(strings.TrimSpace(answer), 64)

	case field.Variant == formdef.VariantPassword:
		return f.driver.Password(ctx, InputConfig{Message: message, Help: help, Validator: textValidator(field)})

	case field.Variant == formdef.VariantTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: visibility.CoerceString(current), Help: help})

	case field.Variant == formdef.VariantCustom:
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: customDefault(current), Help: help})
		if err != nil {
			return nil, err
		}
		return decodeCustom(answer, current)

	default:
		return f.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   visibility.CoerceString(current),
			Help:      help,
			Validator: textValidator(field),
		})
	}
}

func textValidator(field formdef.Field) func(string) error {
	return func(answer string) error {
		n := utf8.RuneCountInString(answer)
		if n == 0 {
			if field.Required {
				return errors.New("a value is required")
			}
			return nil
		}
		if field.MinLength != nil && n < *field.MinLength {
			return fmt.Errorf("must be at least %d characters", *field.MinLength)
		}
		if field.MaxLength != nil && n > *field.MaxLength {
			return fmt.Errorf("must be at most %d characters", *field.MaxLength)
		}
		return nil
	}
}

func numberValidator(field formdef.Field) func(string) error {
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			if field.Required {
				return errors.New("a value is required")
			}
			return nil
		}
		n, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return errors.New("must be a number")
		}
		if field.Minimum != nil && n < *field.Minimum {
			return fmt.Errorf("must be at least %v", *field.Minimum)
		}
		if field.Maximum != nil && n > *field.Maximum {
			return fmt.Errorf("must be at most %v", *field.Maximum)
		}
		return nil
	}
}

func customDefault(current any) string {
	if current == nil {
		return ""
	}
	if s, ok := current.(string); ok {
		return s
	}
	payload, err := jsonEncode(current)
	if err != nil {
		return ""
	}
	return payload
}

// decodeCustom parses the answer as JSON or YAML. An empty answer keeps the
// current value.
func decodeCustom(answer string, current any) (any, error) {
	if strings.TrimSpace(answer) == "" {
		return current, nil
	}
	node, err := formdef.Parse([]byte(answer))
	if err != nil {
		return nil, fmt.Errorf("tui: custom value: %w", err)
	}
	return formdef.NodeValue(node)
}
