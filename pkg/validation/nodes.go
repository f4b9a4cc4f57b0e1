package validation

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

type walker struct {
	cfg    config
	issues Issues
}

type entry struct {
	key   string
	node  *yaml.Node
	value *yaml.Node
}

func (w *walker) report(path string, node *yaml.Node, code Code, format string, args ...any) {
	issue := Issue{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if node != nil {
		issue.Line = node.Line
		issue.Column = node.Column
	}
	w.issues = append(w.issues, issue)
}

// entries lists mapping members in declaration order. Repeated keys are
// reported and only the first occurrence is kept.
func (w *walker) entries(path string, node *yaml.Node) []entry {
	node = formdef.Resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]entry, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode := formdef.Resolve(node.Content[idx])
		if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
			w.report(path, node.Content[idx], CodeInvalidType, "mapping keys must be strings")
			continue
		}
		key := keyNode.Value
		if _, dup := seen[key]; dup {
			w.report(joinPath(path, key), keyNode, CodeDuplicateKey, "duplicate key %q", key)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry{key: key, node: keyNode, value: node.Content[idx+1]})
	}
	return out
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func indexPath(parent string, idx int) string {
	return parent + "[" + strconv.Itoa(idx) + "]"
}

func isMapping(node *yaml.Node) bool {
	node = formdef.Resolve(node)
	return node != nil && node.Kind == yaml.MappingNode
}

func isSequence(node *yaml.Node) bool {
	node = formdef.Resolve(node)
	return node != nil && node.Kind == yaml.SequenceNode
}

func scalarTag(node *yaml.Node) (string, bool) {
	node = formdef.Resolve(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", false
	}
	return node.ShortTag(), true
}

func stringValue(node *yaml.Node) (string, bool) {
	if tag, ok := scalarTag(node); !ok || tag != "!!str" {
		return "", false
	}
	return formdef.Resolve(node).Value, true
}

func boolValue(node *yaml.Node) (bool, bool) {
	if tag, ok := scalarTag(node); !ok || tag != "!!bool" {
		return false, false
	}
	var out bool
	if err := formdef.Resolve(node).Decode(&out); err != nil {
		return false, false
	}
	return out, true
}

func numberValue(node *yaml.Node) (float64, bool) {
	tag, ok := scalarTag(node)
	if !ok || (tag != "!!int" && tag != "!!float") {
		return 0, false
	}
	value, err := formdef.NodeValue(node)
	if err != nil {
		return 0, false
	}
	f, ok := value.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNull(node *yaml.Node) bool {
	tag, ok := scalarTag(node)
	return ok && tag == "!!null"
}

func (w *walker) str(path string, node *yaml.Node) string {
	s, ok := stringValue(node)
	if !ok {
		w.report(path, node, CodeInvalidType, "must be a string")
	}
	return s
}

func (w *walker) boolean(path string, node *yaml.Node) bool {
	b, ok := boolValue(node)
	if !ok {
		w.report(path, node, CodeInvalidType, "must be a boolean")
	}
	return b
}

func (w *walker) number(path string, node *yaml.Node) *float64 {
	f, ok := numberValue(node)
	if !ok {
		w.report(path, node, CodeInvalidType, "must be a number")
		return nil
	}
	return &f
}

func (w *walker) length(path string, node *yaml.Node) *int {
	f, ok := numberValue(node)
	if !ok || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		w.report(path, node, CodeInvalidType, "must be a non-negative integer")
		return nil
	}
	n := int(f)
	return &n
}

func (w *walker) value(path string, node *yaml.Node) any {
	value, err := formdef.NodeValue(node)
	if err != nil {
		w.report(path, node, CodeInvalidType, "unsupported value: %v", err)
		return nil
	}
	return value
}
