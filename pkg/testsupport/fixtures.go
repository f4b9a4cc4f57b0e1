// Package testsupport shares form definition fixtures between package tests.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/validation"
)

// Path returns the absolute path of a fixture in this package's testdata
// directory, so callers do not depend on their own working directory.
func Path(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// LoadRaw reads a fixture into a RawDocument with a file source.
func LoadRaw(t *testing.T, name string) formdef.RawDocument {
	t.Helper()

	raw, err := LoadRawFromPath(Path(name))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return raw
}

// LoadRawFromPath returns a RawDocument without requiring testing.T, allowing
// callers to build fixtures in setup functions.
func LoadRawFromPath(path string) (formdef.RawDocument, error) {
	if path == "" {
		return formdef.RawDocument{}, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return formdef.RawDocument{}, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	raw, err := formdef.NewRawDocument(formdef.SourceFromFile(path), data)
	if err != nil {
		return formdef.RawDocument{}, fmt.Errorf("testsupport: new raw document: %w", err)
	}
	return raw, nil
}

// MustValidate loads and validates a fixture, failing the test on any issue.
func MustValidate(t *testing.T, name string, options ...validation.Option) formdef.Document {
	t.Helper()

	doc, err := validation.Validate(LoadRaw(t, name), options...)
	if err != nil {
		t.Fatalf("validate fixture %s: %v", name, err)
	}
	return doc
}

// LoadValues reads a JSON or YAML value map fixture.
func LoadValues(t *testing.T, name string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(Path(name))
	if err != nil {
		t.Fatalf("read values: %v", err)
	}
	node, err := formdef.Parse(data)
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	value, err := formdef.NodeValue(node)
	if err != nil {
		t.Fatalf("decode values: %v", err)
	}
	values, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("values fixture %s must be an object, got %T", name, value)
	}
	return values
}
