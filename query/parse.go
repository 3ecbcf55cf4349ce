// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devonmarsh/redical/property"
)

// ErrMalformedQuery is returned for any query text that does not parse,
// per §4.7's failure semantics: a malformed query returns a parse error,
// never a mutation.
var ErrMalformedQuery = errors.New("malformed query")

// Query is a parsed QUERY command body: a boolean WHERE tree over the
// filter properties plus the control properties that bound, order and
// paginate the result.
type Query struct {
	Where Node

	From  *property.TimeBound
	Until *property.TimeBound
	TZID  string

	HasLimit bool
	Limit    int
	Offset   int

	Distinct bool

	HasOrderBy bool
	OrderBy    property.OrderBy
}

// Parse parses a query body, per the grammar in §4.7: a sequence of
// control properties and a boolean WHERE tree of filter properties
// combined with AND/OR, NOT and parentheses.
func Parse(text string) (*Query, error) {
	tokens := tokenize(text)

	q := &Query{}
	var exprTokens []string
	for _, tok := range tokens {
		if isBooleanKeyword(tok) {
			exprTokens = append(exprTokens, tok)
			continue
		}
		prop, err := property.ParseLine(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		if isControlName(prop.Name) {
			if err := applyControl(q, prop); err != nil {
				return nil, err
			}
			continue
		}
		exprTokens = append(exprTokens, tok)
	}

	if len(exprTokens) > 0 {
		p := &exprParser{tokens: exprTokens}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.pos != len(p.tokens) {
			return nil, fmt.Errorf("%w: unexpected trailing tokens", ErrMalformedQuery)
		}
		q.Where = node
	}

	return q, nil
}

func isBooleanKeyword(tok string) bool {
	switch tok {
	case "(", ")", "AND", "OR", "NOT":
		return true
	}
	return false
}

// tokenize splits query text into whitespace-delimited tokens, treating
// '(' and ')' as standalone tokens regardless of adjacent whitespace.
func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isControlName(name string) bool {
	switch strings.ToUpper(name) {
	case "X-LIMIT", "X-OFFSET", "X-DISTINCT", "X-FROM", "X-UNTIL", "X-TZID", "X-ORDER-BY":
		return true
	}
	return false
}

func applyControl(q *Query, prop property.Property) error {
	switch strings.ToUpper(prop.Name) {
	case "X-FROM":
		bound, err := property.ParseTimeBound(prop)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.From = &bound
	case "X-UNTIL":
		bound, err := property.ParseTimeBound(prop)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.Until = &bound
	case "X-TZID":
		q.TZID = prop.Value
	case "X-LIMIT":
		n, err := property.ParseLimit(prop.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.HasLimit = true
		q.Limit = n
	case "X-OFFSET":
		n, err := property.ParseOffset(prop.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.Offset = n
	case "X-DISTINCT":
		distinct, err := property.IsDistinctUID(prop.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.Distinct = distinct
	case "X-ORDER-BY":
		ob, err := property.ParseOrderBy(prop.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		q.HasOrderBy = true
		q.OrderBy = ob
	}
	return nil
}

// exprParser is a recursive-descent parser for the WHERE grammar:
//
//	expr   := term (OR term)*
//	term   := factor (AND factor)*
//	factor := NOT factor | '(' expr ')' | leaf
type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "OR" {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &orNode{left: left, right: right}
	}
}

func (p *exprParser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "AND" {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &andNode{left: left, right: right}
	}
}

func (p *exprParser) parseFactor() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of WHERE expression", ErrMalformedQuery)
	}
	switch tok {
	case "NOT":
		p.pos++
		child, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil
	case "(":
		p.pos++
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing != ")" {
			return nil, fmt.Errorf("%w: unclosed parenthesis", ErrMalformedQuery)
		}
		p.pos++
		return node, nil
	case ")":
		return nil, fmt.Errorf("%w: unexpected )", ErrMalformedQuery)
	default:
		p.pos++
		return parseLeaf(tok)
	}
}

func parseLeaf(tok string) (Node, error) {
	prop, err := property.ParseLine(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
	}
	switch strings.ToUpper(prop.Name) {
	case "X-CATEGORIES":
		term, err := property.ParseFilterTerm(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &dimensionLeaf{dim: "categories", term: term}, nil
	case "X-LOCATION-TYPE":
		term, err := property.ParseFilterTerm(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &dimensionLeaf{dim: "location-type", term: term}, nil
	case "X-RELATED-TO":
		term, err := property.ParseFilterTerm(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &dimensionLeaf{dim: "related-to", term: term}, nil
	case "X-CLASS":
		term, err := property.ParseFilterTerm(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &dimensionLeaf{dim: "class", term: term}, nil
	case "X-UID":
		term, err := property.ParseFilterTerm(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &uidLeaf{values: term.Values}, nil
	case "X-GEO":
		filter, err := property.ParseGeoFilter(prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedQuery, err)
		}
		return &geoLeaf{filter: filter}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized filter property %s", ErrMalformedQuery, prop.Name)
	}
}
