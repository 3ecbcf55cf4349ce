package property

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPropertyLine is returned when a content line has no
	// unquoted colon separating the name/params from the value.
	ErrInvalidPropertyLine = errors.New("invalid property line")
)

// ParseLine parses a single RFC-5545 content line into a Property. It
// consumes exactly this line: the caller (SplitLines) is responsible for
// having already isolated one property's text, so this parser never needs
// to look ahead for a following property's name — unlike a naive TEXT-value
// parser, it never greedily eats past its own line.
func ParseLine(line string) (Property, error) {
	colonIndex := findUnquotedColonIndex(line)
	if colonIndex == -1 {
		return Property{}, fmt.Errorf("%w: %s", ErrInvalidPropertyLine, line)
	}

	beforeColon := line[:colonIndex]
	value := line[colonIndex+1:]

	name := beforeColon
	var params []Param
	if semicolonIndex := strings.Index(beforeColon, ";"); semicolonIndex != -1 {
		name = beforeColon[:semicolonIndex]
		paramString := beforeColon[semicolonIndex+1:]
		if paramString != "" {
			var err error
			params, err = parseParams(paramString)
			if err != nil {
				return Property{}, err
			}
		}
	}

	return Property{Name: strings.ToUpper(name), Params: params, Value: value}, nil
}

// parseParams splits a parameter string by semicolons (respecting quoted
// values) and each parameter's value list by commas (respecting quotes).
func parseParams(paramString string) ([]Param, error) {
	rawParams := splitRespectingQuotes(paramString, ';')
	params := make([]Param, 0, len(rawParams))
	for _, raw := range rawParams {
		name, value, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("%w: malformed parameter %q", ErrInvalidPropertyLine, raw)
		}
		values := splitRespectingQuotes(value, ',')
		for i, v := range values {
			values[i] = strings.Trim(v, `"`)
		}
		params = append(params, Param{Name: strings.ToUpper(name), Values: values})
	}
	return params, nil
}

// splitRespectingQuotes splits s on sep, treating double-quoted spans as
// atomic (a sep inside quotes does not split).
func splitRespectingQuotes(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == sep && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// findUnquotedColonIndex finds the first colon not inside a quoted param
// value.
func findUnquotedColonIndex(line string) int {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ':':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// SplitLines splits a block of RFC-5545 content (already unfolded by the
// assumed external content-line lexer, per spec.md §1 Non-goals) into
// trimmed, non-empty lines.
func SplitLines(input string) []string {
	rawLines := strings.Split(input, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		l = strings.TrimRight(l, "\r")
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
