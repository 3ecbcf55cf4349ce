package ical

import (
	"fmt"
	"time"
)

// dateLayout is the RFC-5545 DATE value: YYYYMMDD.
const dateLayout = "20060102"

// Date is a RFC-5545 DATE value: a real Gregorian calendar date with no
// time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a DATE value. It validates that the result is a real
// Gregorian date (time.Parse alone would silently normalize 20240231 into
// 20240302, which RFC-5545 does not permit).
func ParseDate(input string) (Date, error) {
	if len(input) != 8 {
		return Date{}, newParseError(ErrInvalidDate, "DATE must be exactly 8 digits (YYYYMMDD)", input, Span{0, len(input)})
	}
	t, err := time.Parse(dateLayout, input)
	if err != nil {
		return Date{}, &ParseError{Message: "malformed DATE", Span: Span{0, len(input)}, Input: input, Err: ErrInvalidDate}
	}
	d := Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Validate reports whether d round-trips through time.Date without
// normalization, i.e. is a real calendar date.
func (d Date) Validate() error {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day {
		return &ParseError{Message: "not a real Gregorian date", Span: Span{0, 8}, Input: d.Render(), Err: ErrInvalidDate}
	}
	return nil
}

// Render renders the canonical YYYYMMDD form.
func (d Date) Render() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// ToTime returns the date at midnight in loc (UTC if loc is nil).
func (d Date) ToTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}
