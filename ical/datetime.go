package ical

import (
	"strings"
	"time"
)

// timeLayout and utcTimeLayout are the RFC-5545 TIME value forms: HHMMSS,
// optionally followed by Z meaning UTC.
const (
	timeLayout    = "150405"
	utcTimeLayout = "150405Z"
)

// Floating records a value's zone disposition: UTC (trailing Z), a TZID, or
// neither, in which case the value is floating local wall-clock time with no
// associated zone until one is supplied by the caller.
type Floating struct {
	IsUTC bool
	TZID  string // empty if floating
}

// DateTime is a RFC-5545 DATE-TIME (or bare DATE, when HasTime is false)
// value together with its zone disposition.
type DateTime struct {
	Date     Date
	HasTime  bool
	Hour     int
	Minute   int
	Second   int
	Floating Floating
}

// ParseDateTime parses a DATE or DATE-TIME value. tzidParam is the TZID
// parameter carried alongside the property, if any (empty if absent).
func ParseDateTime(input, tzidParam string) (DateTime, error) {
	if len(input) == 8 {
		d, err := ParseDate(input)
		if err != nil {
			return DateTime{}, err
		}
		return DateTime{Date: d, Floating: Floating{TZID: tzidParam}}, nil
	}
	parts := strings.SplitN(input, "T", 2)
	if len(parts) != 2 {
		return DateTime{}, newParseError(ErrInvalidDateTime, "DATE-TIME requires a T separator", input, Span{0, len(input)})
	}
	d, err := ParseDate(parts[0])
	if err != nil {
		return DateTime{}, err
	}
	timePart := parts[1]
	isUTC := strings.HasSuffix(timePart, "Z")
	layout := timeLayout
	if isUTC {
		layout = utcTimeLayout
	}
	if len(timePart) != len(layout) {
		return DateTime{}, newParseError(ErrInvalidTime, "TIME must be HHMMSS[Z]", input, Span{0, len(input)})
	}
	t, err := time.Parse(layout, timePart)
	if err != nil {
		return DateTime{}, &ParseError{Message: "malformed TIME", Span: Span{9, len(input)}, Input: input, Err: ErrInvalidTime}
	}
	dt := DateTime{
		Date:     d,
		HasTime:  true,
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Floating: Floating{IsUTC: isUTC, TZID: tzidParam},
	}
	if isUTC && tzidParam != "" {
		return DateTime{}, newParseError(ErrInvalidDateTime, "DATE-TIME cannot carry both Z and TZID", input, Span{0, len(input)})
	}
	return dt, nil
}

// Render renders the canonical DATE or DATE-TIME text (without the TZID
// parameter, which is rendered by the property layer).
func (dt DateTime) Render() string {
	if !dt.HasTime {
		return dt.Date.Render()
	}
	suffix := ""
	if dt.Floating.IsUTC {
		suffix = "Z"
	}
	return dt.Date.Render() + "T" + pad2(dt.Hour) + pad2(dt.Minute) + pad2(dt.Second) + suffix
}

func pad2(v int) string {
	if v < 10 {
		return "0" + itoa(v)
	}
	return itoa(v)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// ResolveZone looks up the time.Location for a DateTime's zone disposition.
// It never performs IANA tzdata lookup itself beyond calling
// time.LoadLocation (the assumed external tz provider, per spec); defaultLoc
// is used when dt is floating and no TZID was supplied.
func (dt DateTime) ResolveZone(defaultLoc *time.Location) (*time.Location, error) {
	switch {
	case dt.Floating.IsUTC:
		return time.UTC, nil
	case dt.Floating.TZID != "":
		loc, err := time.LoadLocation(dt.Floating.TZID)
		if err != nil {
			return nil, &ParseError{Message: "TZID not found in zone database", Span: Span{}, Input: dt.Floating.TZID, Err: ErrUnresolvableTZID}
		}
		return loc, nil
	case defaultLoc != nil:
		return defaultLoc, nil
	default:
		return time.UTC, nil
	}
}

// ToUTC resolves dt to a concrete time.Time in UTC, using defaultLoc to
// interpret a floating value if one is present.
func (dt DateTime) ToUTC(defaultLoc *time.Location) (time.Time, error) {
	loc, err := dt.ResolveZone(defaultLoc)
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day, dt.Hour, dt.Minute, dt.Second, 0, loc)
	return t.UTC(), nil
}

// FromTime builds a UTC DateTime (VALUE=DATE-TIME, trailing Z) from a
// time.Time, as used when rendering occurrence/override timestamps.
func FromTime(t time.Time) DateTime {
	u := t.UTC()
	return DateTime{
		Date:     Date{Year: u.Year(), Month: u.Month(), Day: u.Day()},
		HasTime:  true,
		Hour:     u.Hour(),
		Minute:   u.Minute(),
		Second:   u.Second(),
		Floating: Floating{IsUTC: true},
	}
}
