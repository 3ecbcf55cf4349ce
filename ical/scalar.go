package ical

import "strconv"

// ParseFloat parses a RFC-5545 FLOAT value.
func ParseFloat(input string) (float64, error) {
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, newParseError(ErrInvalidFloat, "malformed FLOAT", input, Span{0, len(input)})
	}
	return v, nil
}

// RenderFloat renders f using the shortest round-tripping representation.
func RenderFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseInteger parses a RFC-5545 INTEGER value (signed, base 10).
func ParseInteger(input string) (int, error) {
	v, err := strconv.Atoi(input)
	if err != nil {
		return 0, newParseError(ErrInvalidInteger, "malformed INTEGER", input, Span{0, len(input)})
	}
	return v, nil
}

// RenderInteger renders v in base 10.
func RenderInteger(v int) string {
	return strconv.Itoa(v)
}
