package validation

import (
	"fmt"
	"strings"
)

// Code classifies an issue.
type Code string

const (
	CodeUnknownVariant     Code = "UnknownOrMismatchedVariant"
	CodeMissingAttribute   Code = "MissingRequiredAttribute"
	CodeConstraint         Code = "CrossFieldConstraintViolation"
	CodeAmbiguousCondition Code = "AmbiguousConditional"
	CodeEmptyOptionList    Code = "EmptyOptionList"
	CodeMalformedDocument  Code = "MalformedDocumentShape"
	CodeInvalidType        Code = "InvalidAttributeType"
	CodeUnknownAttribute   Code = "UnknownAttribute"
	CodeDuplicateKey       Code = "DuplicateKey"
	CodeDepthExceeded      Code = "DepthExceeded"
)

// Issue is a single validation problem.
type Issue struct {
	Path    string `json:"path"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "(document)"
	}
	if i.Line > 0 {
		return fmt.Sprintf("%s [%s] %s (line %d, column %d)", path, i.Code, i.Message, i.Line, i.Column)
	}
	return fmt.Sprintf("%s [%s] %s", path, i.Code, i.Message)
}

// Issues is the ordered list of problems found in one document. It is
// returned as the error value of Validate.
type Issues []Issue

func (is Issues) Error() string {
	switch len(is) {
	case 0:
		return "validation: no issues"
	case 1:
		return "validation: " + is[0].String()
	}
	parts := make([]string, 0, len(is))
	for _, issue := range is {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("validation: %d issues: %s", len(is), strings.Join(parts, "; "))
}

// Has reports whether any issue carries code.
func (is Issues) Has(code Code) bool {
	for _, issue := range is {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// At returns the issues reported for path.
func (is Issues) At(path string) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Path == path {
			out = append(out, issue)
		}
	}
	return out
}

// ByPath groups messages by path, preserving report order within a path.
func (is Issues) ByPath() map[string][]string {
	if len(is) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range is {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

// Result captures validation outcomes for callers that prefer a value over an
// error, e.g. builder previews.
type Result struct {
	Valid  bool   `json:"valid"`
	Issues Issues `json:"issues,omitempty"`
}
