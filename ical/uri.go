package ical

import "net/url"

// ParseURI parses a RFC-5545 URI value (any valid URI, per the ORGANIZER/
// ATTACH/etc. grammar).
func ParseURI(input string) (*url.URL, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, &ParseError{Message: "malformed URI", Span: Span{0, len(input)}, Input: input, Err: ErrInvalidURI}
	}
	return u, nil
}

// RenderURI renders a URI value.
func RenderURI(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
