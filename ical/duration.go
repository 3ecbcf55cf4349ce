package ical

import (
	"time"

	"github.com/devonmarsh/redical/icaldur"
)

// ParseDuration parses a RFC-5545 DURATION value, delegating to icaldur
// (kept from the teacher package, generalized beyond VEVENT parsing to every
// component that carries a DURATION: events, overrides and query windows).
func ParseDuration(input string) (time.Duration, error) {
	d, err := icaldur.ParseICalDuration(input)
	if err != nil {
		return 0, &ParseError{Message: "malformed DURATION", Span: Span{0, len(input)}, Input: input, Err: err}
	}
	return d, nil
}

// RenderDuration renders d in the shortest valid RFC-5545 form.
func RenderDuration(d time.Duration) string {
	return icaldur.RenderICalDuration(d)
}
