package ical

import (
	"strconv"
)

// UTCOffset is a RFC-5545 UTC-OFFSET value: ±HHMM[SS].
type UTCOffset struct {
	Negative bool
	Hour     int
	Minute   int
	Second   int
}

// ParseUTCOffset parses a UTC-OFFSET value.
func ParseUTCOffset(input string) (UTCOffset, error) {
	if len(input) != 5 && len(input) != 7 {
		return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "UTC-OFFSET must be +/-HHMM or +/-HHMMSS", input, Span{0, len(input)})
	}
	var off UTCOffset
	switch input[0] {
	case '+':
	case '-':
		off.Negative = true
	default:
		return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "UTC-OFFSET must start with + or -", input, Span{0, 1})
	}
	hh, err := strconv.Atoi(input[1:3])
	if err != nil {
		return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "invalid hour", input, Span{1, 3})
	}
	mm, err := strconv.Atoi(input[3:5])
	if err != nil {
		return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "invalid minute", input, Span{3, 5})
	}
	off.Hour, off.Minute = hh, mm
	if len(input) == 7 {
		ss, err := strconv.Atoi(input[5:7])
		if err != nil {
			return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "invalid second", input, Span{5, 7})
		}
		off.Second = ss
	}
	if off.Negative && off.Hour == 0 && off.Minute == 0 && off.Second == 0 {
		return UTCOffset{}, newParseError(ErrInvalidUTCOffset, "negative zero offset is not permitted", input, Span{0, len(input)})
	}
	return off, nil
}

// Render renders the canonical ±HHMM[SS] form, including seconds only when
// non-zero.
func (o UTCOffset) Render() string {
	sign := "+"
	if o.Negative {
		sign = "-"
	}
	out := sign + pad2(o.Hour) + pad2(o.Minute)
	if o.Second != 0 {
		out += pad2(o.Second)
	}
	return out
}

// Validate reports whether o is well-formed (bounds only; RFC-5545 places
// no hard cap on offset magnitude beyond HH<24, MM<60, SS<60).
func (o UTCOffset) Validate() error {
	if o.Hour < 0 || o.Hour > 23 || o.Minute < 0 || o.Minute > 59 || o.Second < 0 || o.Second > 59 {
		return newParseError(ErrInvalidUTCOffset, "UTC-OFFSET field out of range", o.Render(), Span{0, len(o.Render())})
	}
	return nil
}
