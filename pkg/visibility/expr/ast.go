package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formfate/pkg/visibility"
)

type binary struct {
	and         bool
	left, right Expr
}

func (n binary) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	// short circuit
	if ok != n.and {
		return ok, nil
	}
	return n.right.eval(ctx)
}

func (n binary) Identifiers() []string {
	return append(n.left.Identifiers(), n.right.Identifiers()...)
}

type not struct {
	inner Expr
}

func (n not) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

func (n not) Identifiers() []string { return n.inner.Identifiers() }

type truthy struct {
	identifier string
}

func (n truthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	return ok && visibility.Truthy(value), nil
}

func (n truthy) Identifiers() []string { return []string{n.identifier} }

type literal struct {
	kind tokenKind
	raw  string
}

type compare struct {
	identifier string
	op         tokenKind
	literal    literal
}

func (n compare) Identifiers() []string { return []string{n.identifier} }

func (n compare) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier)

	switch n.literal.kind {
	case tokenNull:
		return n.equality(value == nil, true)
	case tokenBool:
		got, _ := visibility.CoerceBool(value)
		return n.equality(got, n.literal.raw == "true")
	case tokenNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("expr: invalid number literal %q", n.literal.raw)
		}
		got, _ := visibility.CoerceNumber(value)
		switch n.op {
		case tokenLt:
			return got < want, nil
		case tokenLte:
			return got <= want, nil
		case tokenGt:
			return got > want, nil
		case tokenGte:
			return got >= want, nil
		}
		return n.equality(got, want)
	default:
		return n.equality(visibility.CoerceString(value), n.literal.raw)
	}
}

// equality applies == or != to got and want.
func (n compare) equality(got, want any) (bool, error) {
	switch n.op {
	case tokenEq:
		return got == want, nil
	case tokenNeq:
		return got != want, nil
	default:
		return false, fmt.Errorf("expr: operator %q needs a number literal", operatorText[n.op])
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	if len(key) > len("extras.") && strings.EqualFold(key[:len("extras.")], "extras.") {
		return visibility.Lookup(ctx.Extras, key[len("extras."):])
	}
	return visibility.Lookup(ctx.Values, key)
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) or() (Expr, error) {
	left, err := s.and()
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := s.and()
		if err != nil {
			return nil, err
		}
		left = binary{left: left, right: right}
	}
	return left, nil
}

func (s *tokenStream) and() (Expr, error) {
	left, err := s.unary()
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := s.unary()
		if err != nil {
			return nil, err
		}
		left = binary{and: true, left: left, right: right}
	}
	return left, nil
}

func (s *tokenStream) unary() (Expr, error) {
	if s.match(tokenNot) {
		inner, err := s.unary()
		if err != nil {
			return nil, err
		}
		return not{inner: inner}, nil
	}
	return s.primary()
}

func (s *tokenStream) primary() (Expr, error) {
	if s.match(tokenLParen) {
		inner, err := s.or()
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, fmt.Errorf("expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := s.consume(tokenIdentifier)
	if !ok {
		if s.pos >= len(s.tokens) {
			return nil, fmt.Errorf("expr: empty expression")
		}
		return nil, fmt.Errorf("expr: expected identifier, got %q", s.tokens[s.pos].raw)
	}

	for op := range operatorText {
		if !s.match(op) {
			continue
		}
		lit, err := s.literal()
		if err != nil {
			return nil, err
		}
		if op != tokenEq && op != tokenNeq && lit.kind != tokenNumber {
			return nil, fmt.Errorf("expr: operator %q needs a number literal", operatorText[op])
		}
		return compare{identifier: ident.raw, op: op, literal: lit}, nil
	}
	return truthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	_, ok := s.consume(kind)
	return ok
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) literal() (literal, error) {
	if s.pos >= len(s.tokens) {
		return literal{}, fmt.Errorf("expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		return literal{kind: tok.kind, raw: tok.raw}, nil
	case tokenIdentifier:
		// Bare words compare as strings: `plan == pro`.
		return literal{kind: tokenString, raw: tok.raw}, nil
	default:
		return literal{}, fmt.Errorf("expr: expected literal, got %q", tok.raw)
	}
}
