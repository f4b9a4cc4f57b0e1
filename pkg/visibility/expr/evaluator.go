// Package expr is a small rule language for opaque conditional and disable
// rules. Hosts that do not bring their own predicate engine can install it
// with visibility.WithEvaluator(expr.New()).
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formfate/pkg/visibility"
)

// Evaluator parses and evaluates rule strings against visibility.Context.
//
// Supported forms:
//   - truthiness: `newsletter`, `!newsletter`
//   - equality: `country == "US"`, `plan != 'free'`, `age == 18`, `email != null`
//   - ordering on numbers: `age >= 18`, `score < 3.5`
//   - composition with parentheses: `(a || b) && !c`
//
// Identifiers are value paths resolved with visibility.Lookup; the `extras.`
// prefix reads from Context.Extras instead.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval implements visibility.Evaluator. A blank rule is true.
func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	node, err := Parse(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Parse compiles rule without evaluating it, e.g. to lint a document. It
// returns a nil expression for blank rules.
func Parse(rule string) (Expr, error) {
	tokens, err := tokenize(strings.TrimSpace(rule))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	stream := &tokenStream{tokens: tokens}
	node, err := stream.or()
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

// Expr is a compiled rule.
type Expr interface {
	eval(ctx visibility.Context) (bool, error)
	// Identifiers lists the value paths the rule reads, in order of
	// appearance.
	Identifiers() []string
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

var operatorText = map[tokenKind]string{
	tokenEq:  "==",
	tokenNeq: "!=",
	tokenLt:  "<",
	tokenLte: "<=",
	tokenGt:  ">",
	tokenGte: ">=",
}

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isBreak(ch byte) bool {
	return isSpace(ch) || strings.IndexByte("()!=&|<>", ch) >= 0
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	emit := func(kind tokenKind, raw string) {
		tokens = append(tokens, token{kind: kind, raw: raw})
	}

	for i := 0; i < len(input); {
		ch := input[i]
		peek := byte(0)
		if i+1 < len(input) {
			peek = input[i+1]
		}

		switch {
		case isSpace(ch):
			i++
		case ch == '(':
			emit(tokenLParen, "(")
			i++
		case ch == ')':
			emit(tokenRParen, ")")
			i++
		case ch == '!' && peek == '=':
			emit(tokenNeq, "!=")
			i += 2
		case ch == '!':
			emit(tokenNot, "!")
			i++
		case ch == '=' && peek == '=':
			emit(tokenEq, "==")
			i += 2
		case ch == '=':
			return nil, errors.New("expr: unexpected '='; use '=='")
		case ch == '<' && peek == '=':
			emit(tokenLte, "<=")
			i += 2
		case ch == '<':
			emit(tokenLt, "<")
			i++
		case ch == '>' && peek == '=':
			emit(tokenGte, ">=")
			i += 2
		case ch == '>':
			emit(tokenGt, ">")
			i++
		case ch == '&' && peek == '&':
			emit(tokenAnd, "&&")
			i += 2
		case ch == '&':
			return nil, errors.New("expr: unexpected '&'; use '&&'")
		case ch == '|' && peek == '|':
			emit(tokenOr, "||")
			i += 2
		case ch == '|':
			return nil, errors.New("expr: unexpected '|'; use '||'")
		case ch == '"' || ch == '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			emit(tokenString, value)
			i = next
		default:
			start := i
			for i < len(input) && !isBreak(input[i]) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				emit(tokenBool, strings.ToLower(raw))
			case "null", "nil":
				emit(tokenNull, "null")
			default:
				if looksLikeNumber(raw) {
					emit(tokenNumber, raw)
				} else {
					emit(tokenIdentifier, raw)
				}
			}
		}
	}
	return tokens, nil
}

// readString scans a quoted literal starting at input[start] and returns the
// unquoted value and the index after the closing quote.
func readString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			body := input[start+1 : i]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return "", 0, fmt.Errorf("expr: invalid string literal: %w", err)
			}
			return value, i + 1, nil
		}
	}
	return "", 0, errors.New("expr: unterminated string literal")
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}
