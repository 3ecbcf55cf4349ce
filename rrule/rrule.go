// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package rrule implements the recurrence rules defined in RFC 5545
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.3.10
package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devonmarsh/redical/icaldur"
)

type Frequency string

const (
	FrequencySecondly Frequency = "SECONDLY"
	FrequencyMinutely Frequency = "MINUTELY"
	FrequencyHourly   Frequency = "HOURLY"
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyYearly   Frequency = "YEARLY"
)

type Weekday string

const (
	WeekdayMonday    Weekday = "MO"
	WeekdayTuesday   Weekday = "TU"
	WeekdayWednesday Weekday = "WE"
	WeekdayThursday  Weekday = "TH"
	WeekdayFriday    Weekday = "FR"
	WeekdaySaturday  Weekday = "SA"
	WeekdaySunday    Weekday = "SU"
)

type ByDay struct {
	// The day of the week that the event occurs on
	Weekday Weekday
	// The ordinal of the weekday within each month during MONTHLY/YEARLY
	// expansion, e.g. 2 with Tuesday is the second Tuesday and -1 with Friday
	// is the last Friday. ParseByDay sets 1 when the value has no numeric
	// prefix; expansion treats only 0 as every such weekday of the month.
	Interval int
}

type RRule struct {
	// The frequency of the event
	// This MUST be specified
	Frequency Frequency
	// The interval between occurrences of the event
	// eg: an interval of 2 for a daily rule means the event will happen every other day
	// Not mandatory, but treated as 1 if not present
	Interval int
	// The number of occurrences of the event
	// Can not occur with the Until property
	// DTStart always counts as the first occurrence
	Count *int
	// The date and time until the rule ends, inclusive
	// Can not occur with the Count property
	Until *time.Time
	// The day of the week that the event occurs on
	// This is optional and repeatable
	Weekday []ByDay

	// The Month(s) of the year that the event occurs on
	Month []int

	// The day of the month that the event occurs on
	// eg: 10th of the month, negative numbers are allowed to indicate the last day of the month
	// for example, -3 is the third-to-last-day of the month
	Monthday []int

	// The day of the year that the event occurs on
	// eg: 100th day of the year, negative numbers are allowed to indicate the last day of the year
	YearDay []int

	// The second(s) within a minute that the event occurs on
	Second []int

	// The minute(s) within an hour that the event occurs on
	Minute []int

	// The hour(s) within a day that the event occurs on
	Hour []int

	// The ISO week number(s) of the year, per WKST; negative numbers count from the end of the year
	WeekNo []int

	// Filters the set of candidates produced within one recurrence period
	// down to those at the given 1-based (or negative, counting from the
	// end) positions, applied after all other BY-parts and before COUNT/UNTIL
	SetPos []int

	// The day the week is considered to start on for WEEKLY frequency and
	// BYWEEKNO computations. Defaults to Monday if unset.
	WeekStart Weekday
}

// ParseRRule takes an iCal reccurence rule string and parses it into a RRule struct
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.3.10
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.5.3
// Example for an event that happens daily for 10 days:
// Input:
// RRULE:FREQ=DAILY;INTERVAL=1;COUNT=10
// Output:
// RRule{Frequency: FrequencyDaily, Interval: 1, Count: 10, Until: time.Time{}}
func ParseRRule(rruleString string) (*RRule, error) {
	rrule := &RRule{
		// Default to 1 if not present
		Interval: 1,
	}
	for part := range strings.SplitSeq(rruleString, ";") {
		tag, value, found := strings.Cut(part, "=")
		if !found {
			return nil, ErrInvalidRRuleString
		}
		switch tag {
		case "FREQ":
			rrule.Frequency = Frequency(value)
		case "INTERVAL":
			interval, err := strconv.Atoi(value)
			if err != nil {
				return nil, err
			}
			rrule.Interval = interval
		case "COUNT":
			count, err := strconv.Atoi(value)
			if err != nil {
				return nil, err
			}
			rrule.Count = &count
		case "UNTIL":
			until, err := icaldur.ParseIcalTime(value)
			if err != nil {
				return nil, err
			}
			rrule.Until = &until
		case "BYDAY":
			weekdays := strings.Split(value, ",")
			rrule.Weekday = make([]ByDay, 0, len(weekdays))
			for _, weekday := range weekdays {
				// if there is an interval other than 1, it can be expressed as the number at the start of the string
				interval, weekday, err := ParseByDay(weekday)
				if err != nil {
					return nil, err
				}
				rrule.Weekday = append(rrule.Weekday, ByDay{Weekday: weekday, Interval: interval})
			}
		case "BYMONTH":
			months := strings.Split(value, ",")
			rrule.Month = make([]int, 0, len(months))
			for _, month := range months {
				monthInt, err := strconv.Atoi(month)
				if err != nil {
					return nil, err
				}
				rrule.Month = append(rrule.Month, monthInt)
			}
		case "BYMONTHDAY":
			monthdays := strings.Split(value, ",")
			rrule.Monthday = make([]int, 0, len(monthdays))
			for _, monthday := range monthdays {
				monthdayInt, err := strconv.Atoi(monthday)
				if err != nil {
					return nil, err
				}
				rrule.Monthday = append(rrule.Monthday, monthdayInt)
			}
		case "BYYEARDAY":
			yeardays := strings.Split(value, ",")
			rrule.YearDay = make([]int, 0, len(yeardays))
			for _, yearday := range yeardays {
				yeardayInt, err := strconv.Atoi(yearday)
				if err != nil {
					return nil, err
				}
				rrule.YearDay = append(rrule.YearDay, yeardayInt)
			}
		case "BYSECOND":
			ints, err := parseIntList(value)
			if err != nil {
				return nil, err
			}
			rrule.Second = ints
		case "BYMINUTE":
			ints, err := parseIntList(value)
			if err != nil {
				return nil, err
			}
			rrule.Minute = ints
		case "BYHOUR":
			ints, err := parseIntList(value)
			if err != nil {
				return nil, err
			}
			rrule.Hour = ints
		case "BYWEEKNO":
			ints, err := parseIntList(value)
			if err != nil {
				return nil, err
			}
			rrule.WeekNo = ints
		case "BYSETPOS":
			ints, err := parseIntList(value)
			if err != nil {
				return nil, err
			}
			rrule.SetPos = ints
		case "WKST":
			weekday := Weekday(value)
			if !isValidWeekday(weekday) {
				return nil, ErrInvalidRRuleString
			}
			rrule.WeekStart = weekday
		}
	}
	if err := validateRRule(rrule); err != nil {
		return nil, err
	}
	return rrule, nil
}

func parseIntList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, ErrInvalidRRuleString
		}
		out = append(out, v)
	}
	return out, nil
}

func validateRRule(rrule *RRule) error {
	switch rrule.Frequency {
	case FrequencySecondly, FrequencyMinutely, FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
	case "":
		return ErrFrequencyRequired
	default:
		return fmt.Errorf("%w: %s", errInvalidFrequency, rrule.Frequency)
	}
	if rrule.Count != nil && rrule.Until != nil {
		return ErrCountAndUntilBothSet
	}
	if rrule.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// Validate re-checks the structural invariants of an already-built RRule
// (UNTIL/COUNT mutual exclusion, INTERVAL positivity, a recognized
// FREQUENCY). It is exposed for validating RRule values assembled
// programmatically rather than through ParseRRule.
func (r *RRule) Validate() error {
	return validateRRule(r)
}

// Render renders the canonical RRULE value text: FREQ first, then the
// remaining parts in RFC-5545's recommended order.
func (r *RRule) Render() string {
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(string(r.Frequency))
	if r.Until != nil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.UTC().Format("20060102T150405Z"))
	}
	if r.Count != nil {
		b.WriteString(";COUNT=")
		b.WriteString(strconv.Itoa(*r.Count))
	}
	if r.Interval != 1 {
		b.WriteString(";INTERVAL=")
		b.WriteString(strconv.Itoa(r.Interval))
	}
	renderIntList(&b, "BYSECOND", r.Second)
	renderIntList(&b, "BYMINUTE", r.Minute)
	renderIntList(&b, "BYHOUR", r.Hour)
	if len(r.Weekday) > 0 {
		b.WriteString(";BYDAY=")
		for i, wd := range r.Weekday {
			if i > 0 {
				b.WriteByte(',')
			}
			if wd.Interval != 0 {
				b.WriteString(strconv.Itoa(wd.Interval))
			}
			b.WriteString(string(wd.Weekday))
		}
	}
	renderIntList(&b, "BYMONTHDAY", r.Monthday)
	renderIntList(&b, "BYYEARDAY", r.YearDay)
	renderIntList(&b, "BYWEEKNO", r.WeekNo)
	renderIntList(&b, "BYMONTH", r.Month)
	renderIntList(&b, "BYSETPOS", r.SetPos)
	if r.WeekStart != "" && r.WeekStart != WeekdayMonday {
		b.WriteString(";WKST=")
		b.WriteString(string(r.WeekStart))
	}
	return b.String()
}

func renderIntList(b *strings.Builder, tag string, values []int) {
	if len(values) == 0 {
		return
	}
	b.WriteByte(';')
	b.WriteString(tag)
	b.WriteByte('=')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
}

// ParseByDay parses a BYDAY value string and returns the interval and weekday.
// The string can be in the format "20MO" (interval + weekday) or just "MO" (weekday only).
// If no interval is specified, the interval defaults to 1.
// Valid weekdays are: MO, TU, WE, TH, FR, SA, SU.
// Returns (interval, weekday, error) where interval is an integer and weekday is a string.
func ParseByDay(byDayString string) (int, Weekday, error) {
	if byDayString == "" {
		return 0, "", ErrInvalidByDayString
	}

	// Check if string starts with a digit or minus sign
	if len(byDayString) > 0 && (byDayString[0] >= '0' && byDayString[0] <= '9' || byDayString[0] == '-') {
		// Find where the digits end (including negative sign)
		digitEnd := 0
		for i, char := range byDayString {
			if char < '0' || char > '9' {
				// Allow minus sign at the beginning
				if char == '-' && i == 0 {
					continue
				}
				digitEnd = i
				break
			}
			digitEnd = i + 1
		}

		// Extract interval and weekday
		intervalStr := byDayString[:digitEnd]
		weekday := Weekday(byDayString[digitEnd:])

		// Validate weekday
		if !isValidWeekday(weekday) {
			return 0, "", ErrInvalidByDayString
		}

		// Parse interval (can be negative)
		interval, err := strconv.Atoi(intervalStr)
		if err != nil {
			return 0, "", ErrInvalidByDayString
		}

		return interval, weekday, nil
	}

	// No interval prefix, check if it's a valid weekday
	if !isValidWeekday(Weekday(byDayString)) {
		return 0, "", ErrInvalidByDayString
	}

	return 1, Weekday(byDayString), nil
}

// isValidWeekday checks if the string is a valid weekday abbreviation.
func isValidWeekday(weekday Weekday) bool {
	switch weekday {
	case WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday, WeekdayFriday, WeekdaySaturday, WeekdaySunday:
		return true
	default:
		return false
	}
}
