package ical

import (
	"strings"
	"time"
)

// Period is a RFC-5545 PERIOD value: either an explicit start/end pair or a
// start plus a duration.
type Period struct {
	Start    DateTime
	End      DateTime
	HasEnd   bool
	Duration time.Duration
}

// ParsePeriod parses "<start>/<end>" or "<start>/<duration>".
func ParsePeriod(input, tzidParam string) (Period, error) {
	parts := strings.SplitN(input, "/", 2)
	if len(parts) != 2 {
		return Period{}, newParseError(ErrInvalidPeriod, "PERIOD requires a / separator", input, Span{0, len(input)})
	}
	start, err := ParseDateTime(parts[0], tzidParam)
	if err != nil {
		return Period{}, (err.(*ParseError)).WithContext("PERIOD start")
	}
	if strings.HasPrefix(parts[1], "P") || strings.HasPrefix(parts[1], "+P") || strings.HasPrefix(parts[1], "-P") {
		dur, err := ParseDuration(parts[1])
		if err != nil {
			return Period{}, err.(*ParseError).WithContext("PERIOD duration")
		}
		return Period{Start: start, Duration: dur}, nil
	}
	end, err := ParseDateTime(parts[1], tzidParam)
	if err != nil {
		return Period{}, err.(*ParseError).WithContext("PERIOD end")
	}
	return Period{Start: start, End: end, HasEnd: true}, nil
}

// Render renders the canonical start/end (preferred over start/duration
// when both were originally present, per DTEND vs DURATION precedence
// rules used elsewhere in this engine).
func (p Period) Render() string {
	if p.HasEnd {
		return p.Start.Render() + "/" + p.End.Render()
	}
	return p.Start.Render() + "/" + RenderDuration(p.Duration)
}
