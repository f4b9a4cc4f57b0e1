package formdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// maxValueDepth bounds NodeValue recursion so self-referencing YAML aliases
// cannot overflow the stack.
const maxValueDepth = 256

// ErrEmptyDocument is returned when the payload holds no content.
var ErrEmptyDocument = errors.New("formdef: document is empty")

// ErrNonFiniteNumber is returned for YAML .inf and .nan scalars, which have no
// JSON encoding.
var ErrNonFiniteNumber = errors.New("formdef: number must be finite")

// Parse decodes a JSON or YAML payload into a node tree that keeps key order
// and source positions. JSON payloads are decoded with encoding/json so tab
// indentation and other JSON-only syntax never trips the YAML scanner.
func Parse(raw []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		node, err := parseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("formdef: parse json: %w", err)
		}
		return node, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("formdef: parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	return doc.Content[0], nil
}

type jsonParser struct {
	dec *json.Decoder
	pos positions
}

func parseJSON(raw []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	p := &jsonParser{dec: dec, pos: newPositions(raw)}

	node, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return node, nil
}

func (p *jsonParser) value() (*yaml.Node, error) {
	offset := p.dec.InputOffset()
	tok, err := p.dec.Token()
	if err != nil {
		return nil, err
	}
	line, col := p.pos.at(offset)
	return p.build(tok, line, col)
}

func (p *jsonParser) build(tok json.Token, line, col int) (*yaml.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line, Column: col}
			for p.dec.More() {
				keyOffset := p.dec.InputOffset()
				keyTok, err := p.dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				keyLine, keyCol := p.pos.at(keyOffset)
				value, err := p.value()
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, Line: keyLine, Column: keyCol},
					value,
				)
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line, Column: col}
			for p.dec.More() {
				item, err := p.value()
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, item)
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Line: line, Column: col}, nil
	case json.Number:
		tag := "!!int"
		if bytes.ContainsAny([]byte(v), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String(), Line: line, Column: col}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v), Line: line, Column: col}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line, Column: col}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// positions maps byte offsets to 1-based line/column pairs.
type positions struct {
	raw   []byte
	lines []int
}

func newPositions(raw []byte) positions {
	lines := []int{0}
	for idx, b := range raw {
		if b == '\n' {
			lines = append(lines, idx+1)
		}
	}
	return positions{raw: raw, lines: lines}
}

// at returns the position of the first token byte at or after offset,
// skipping whitespace and separators.
func (p positions) at(offset int64) (int, int) {
	idx := int(offset)
	for idx < len(p.raw) {
		switch p.raw[idx] {
		case ' ', '\t', '\r', '\n', ',', ':':
			idx++
			continue
		}
		break
	}
	line := 0
	for line+1 < len(p.lines) && p.lines[line+1] <= idx {
		line++
	}
	return line + 1, idx - p.lines[line] + 1
}

// Resolve follows alias nodes to their target.
func Resolve(node *yaml.Node) *yaml.Node {
	for hops := 0; node != nil && node.Kind == yaml.AliasNode && hops < maxValueDepth; hops++ {
		node = node.Alias
	}
	return node
}

// NodeValue converts a node into plain Go values with encoding/json
// semantics: objects become map[string]any, arrays []any, every number
// float64. This keeps decoded values stable across JSON re-encoding.
func NodeValue(node *yaml.Node) (any, error) {
	return nodeValue(node, 0)
}

func nodeValue(node *yaml.Node, depth int) (any, error) {
	if depth > maxValueDepth {
		return nil, errors.New("formdef: value nesting too deep")
	}
	node = Resolve(node)
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return nodeValue(node.Content[0], depth+1)
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key := Resolve(node.Content[idx])
			if key == nil || key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("formdef: unsupported mapping key at line %d", node.Content[idx].Line)
			}
			value, err := nodeValue(node.Content[idx+1], depth+1)
			if err != nil {
				return nil, err
			}
			out[key.Value] = value
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := nodeValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("formdef: unsupported node kind %d", node.Kind)
	}
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			if err := node.Decode(&f); err != nil {
				return nil, err
			}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w at line %d", ErrNonFiniteNumber, node.Line)
		}
		return f, nil
	default:
		return node.Value, nil
	}
}
