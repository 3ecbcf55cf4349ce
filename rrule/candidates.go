// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"sort"
	"time"
)

// periodAnchor returns the start of the recurrence period containing t, for
// the rule's FREQ (and, for WEEKLY, its WKST).
func periodAnchor(r *RRule, t time.Time) time.Time {
	switch r.Frequency {
	case FrequencySecondly:
		return t.Truncate(time.Second)
	case FrequencyMinutely:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	case FrequencyHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case FrequencyDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case FrequencyWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := weekdayIndex(day.Weekday()) - weekdayIndexOf(r.WeekStart)
		if offset < 0 {
			offset += 7
		}
		return day.AddDate(0, 0, -offset)
	case FrequencyMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case FrequencyYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// nextPeriodStart advances a period anchor by the rule's INTERVAL.
func nextPeriodStart(r *RRule, anchor time.Time) time.Time {
	n := r.Interval
	if n <= 0 {
		n = 1
	}
	switch r.Frequency {
	case FrequencySecondly:
		return anchor.Add(time.Duration(n) * time.Second)
	case FrequencyMinutely:
		return anchor.Add(time.Duration(n) * time.Minute)
	case FrequencyHourly:
		return anchor.Add(time.Duration(n) * time.Hour)
	case FrequencyDaily:
		return anchor.AddDate(0, 0, n)
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case FrequencyMonthly:
		return anchor.AddDate(0, n, 0)
	case FrequencyYearly:
		return anchor.AddDate(n, 0, 0)
	default:
		return anchor.AddDate(0, 0, 1)
	}
}

func weekdayIndex(w time.Weekday) int {
	// Monday=0 ... Sunday=6
	return (int(w) + 6) % 7
}

func weekdayIndexOf(w Weekday) int {
	switch w {
	case WeekdayMonday:
		return 0
	case WeekdayTuesday:
		return 1
	case WeekdayWednesday:
		return 2
	case WeekdayThursday:
		return 3
	case WeekdayFriday:
		return 4
	case WeekdaySaturday:
		return 5
	case WeekdaySunday:
		return 6
	default:
		return 0
	}
}

var weekdayToTime = map[Weekday]time.Weekday{
	WeekdaySunday:    time.Sunday,
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
}

// generateCandidates expands every occurrence inside the recurrence period
// beginning at periodStart, applying BY-parts and BYSETPOS, and carrying
// dtstart's time-of-day onto any BY-part that only selects a date.
func generateCandidates(r *RRule, dtstart, periodStart time.Time) []time.Time {
	var dates []time.Time

	switch r.Frequency {
	case FrequencySecondly, FrequencyMinutely, FrequencyHourly:
		dates = []time.Time{periodStart}
	case FrequencyDaily:
		dates = expandDay(r, dtstart, periodStart)
	case FrequencyWeekly:
		dates = expandWeek(r, dtstart, periodStart)
	case FrequencyMonthly:
		dates = expandMonth(r, dtstart, periodStart)
	case FrequencyYearly:
		dates = expandYear(r, dtstart, periodStart)
	}

	dates = filterByMonth(r, dates)
	times := expandTimeOfDay(r, dtstart, dates)
	times = applySetPos(r, times)

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

func expandDay(r *RRule, dtstart, periodStart time.Time) []time.Time {
	if !filterDayByParts(r, periodStart) {
		return nil
	}
	return []time.Time{periodStart}
}

func filterDayByParts(r *RRule, day time.Time) bool {
	if len(r.Weekday) > 0 && !matchesAnyWeekday(r.Weekday, day.Weekday(), 0, 0) {
		return false
	}
	if len(r.Monthday) > 0 && !matchesMonthday(r.Monthday, day) {
		return false
	}
	if len(r.YearDay) > 0 && !matchesYearday(r.YearDay, day) {
		return false
	}
	return true
}

func expandWeek(r *RRule, dtstart, periodStart time.Time) []time.Time {
	if len(r.Weekday) == 0 {
		day := dtstart.Weekday()
		offset := (weekdayIndex(day) - weekdayIndex(periodStart.Weekday()) + 7) % 7
		return []time.Time{periodStart.AddDate(0, 0, offset)}
	}
	var out []time.Time
	for _, wd := range r.Weekday {
		target := weekdayToTime[wd.Weekday]
		offset := (weekdayIndex(target) - weekdayIndex(periodStart.Weekday()) + 7) % 7
		out = append(out, periodStart.AddDate(0, 0, offset))
	}
	return out
}

func expandMonth(r *RRule, dtstart, periodStart time.Time) []time.Time {
	daysInMonth := lastDayOfMonth(periodStart).Day()
	var out []time.Time

	switch {
	case len(r.Monthday) > 0:
		for _, md := range r.Monthday {
			d := resolveOrdinal(md, daysInMonth)
			if d < 1 || d > daysInMonth {
				continue
			}
			out = append(out, time.Date(periodStart.Year(), periodStart.Month(), d, 0, 0, 0, 0, periodStart.Location()))
		}
	case len(r.Weekday) > 0:
		out = append(out, monthWeekdayOccurrences(r.Weekday, periodStart, daysInMonth)...)
	default:
		d := dtstart.Day()
		if d <= daysInMonth {
			out = append(out, time.Date(periodStart.Year(), periodStart.Month(), d, 0, 0, 0, 0, periodStart.Location()))
		}
	}
	return out
}

// monthWeekdayOccurrences resolves BYDAY entries (each optionally carrying
// an ordinal, e.g. "2TU" = second Tuesday, "-1FR" = last Friday) against a
// single month.
func monthWeekdayOccurrences(weekdays []ByDay, monthStart time.Time, daysInMonth int) []time.Time {
	byWeekday := map[time.Weekday][]int{}
	for day := 1; day <= daysInMonth; day++ {
		t := time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, monthStart.Location())
		byWeekday[t.Weekday()] = append(byWeekday[t.Weekday()], day)
	}
	var out []time.Time
	for _, wd := range weekdays {
		target := weekdayToTime[wd.Weekday]
		days := byWeekday[target]
		if len(days) == 0 {
			continue
		}
		if wd.Interval == 0 {
			for _, d := range days {
				out = append(out, time.Date(monthStart.Year(), monthStart.Month(), d, 0, 0, 0, 0, monthStart.Location()))
			}
			continue
		}
		idx := wd.Interval
		if idx < 0 {
			idx = len(days) + idx + 1
		}
		if idx < 1 || idx > len(days) {
			continue
		}
		out = append(out, time.Date(monthStart.Year(), monthStart.Month(), days[idx-1], 0, 0, 0, 0, monthStart.Location()))
	}
	return out
}

func expandYear(r *RRule, dtstart, periodStart time.Time) []time.Time {
	months := r.Month
	if len(months) == 0 {
		months = []int{int(dtstart.Month())}
	}

	var out []time.Time
	switch {
	case len(r.YearDay) > 0:
		daysInYear := daysInYear(periodStart.Year())
		for _, yd := range r.YearDay {
			d := resolveOrdinal(yd, daysInYear)
			if d < 1 || d > daysInYear {
				continue
			}
			out = append(out, time.Date(periodStart.Year(), time.January, 1, 0, 0, 0, 0, periodStart.Location()).AddDate(0, 0, d-1))
		}
	case len(r.WeekNo) > 0:
		out = append(out, expandWeekNo(r, periodStart)...)
	default:
		for _, m := range months {
			monthStart := time.Date(periodStart.Year(), time.Month(m), 1, 0, 0, 0, 0, periodStart.Location())
			daysInMonth := lastDayOfMonth(monthStart).Day()
			switch {
			case len(r.Monthday) > 0:
				for _, md := range r.Monthday {
					d := resolveOrdinal(md, daysInMonth)
					if d < 1 || d > daysInMonth {
						continue
					}
					out = append(out, time.Date(periodStart.Year(), time.Month(m), d, 0, 0, 0, 0, periodStart.Location()))
				}
			case len(r.Weekday) > 0:
				out = append(out, monthWeekdayOccurrences(r.Weekday, monthStart, daysInMonth)...)
			default:
				d := dtstart.Day()
				if d <= daysInMonth {
					out = append(out, time.Date(periodStart.Year(), time.Month(m), d, 0, 0, 0, 0, periodStart.Location()))
				}
			}
		}
	}
	return out
}

// expandWeekNo resolves BYWEEKNO (ISO-8601-style week numbering anchored on
// WKST) optionally combined with BYDAY to pick a weekday within that week.
func expandWeekNo(r *RRule, periodStart time.Time) []time.Time {
	year := periodStart.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, periodStart.Location())
	jan1Offset := weekdayIndex(jan1.Weekday()) - weekdayIndexOf(r.WeekStart)
	if jan1Offset < 0 {
		jan1Offset += 7
	}
	firstWeekStart := jan1.AddDate(0, 0, -jan1Offset)
	if jan1Offset > 3 {
		// first partial week has fewer than 4 days in this year: week 1 starts later
		firstWeekStart = firstWeekStart.AddDate(0, 0, 7)
	}

	totalWeeks := 52
	lastDayOfYearDate := time.Date(year, time.December, 31, 0, 0, 0, 0, periodStart.Location())
	if int(lastDayOfYearDate.Sub(firstWeekStart).Hours()/24/7) >= 52 {
		totalWeeks = 53
	}

	var out []time.Time
	for _, wn := range r.WeekNo {
		idx := wn
		if idx < 0 {
			idx = totalWeeks + idx + 1
		}
		if idx < 1 {
			continue
		}
		weekStart := firstWeekStart.AddDate(0, 0, (idx-1)*7)
		if len(r.Weekday) == 0 {
			out = append(out, weekStart)
			continue
		}
		for _, wd := range r.Weekday {
			target := weekdayToTime[wd.Weekday]
			offset := (weekdayIndex(target) - weekdayIndexOf(r.WeekStart) + 7) % 7
			out = append(out, weekStart.AddDate(0, 0, offset))
		}
	}
	return out
}

func filterByMonth(r *RRule, dates []time.Time) []time.Time {
	if len(r.Month) == 0 || (r.Frequency != FrequencyDaily && r.Frequency != FrequencyWeekly) {
		return dates
	}
	set := map[int]bool{}
	for _, m := range r.Month {
		set[m] = true
	}
	var out []time.Time
	for _, d := range dates {
		if set[int(d.Month())] {
			out = append(out, d)
		}
	}
	return out
}

// expandTimeOfDay applies BYHOUR/BYMINUTE/BYSECOND (each defaulting to
// dtstart's own component) to every date-only candidate, producing the
// cartesian product of hour x minute x second.
func expandTimeOfDay(r *RRule, dtstart time.Time, dates []time.Time) []time.Time {
	hours := r.Hour
	if len(hours) == 0 {
		hours = []int{dtstart.Hour()}
	}
	minutes := r.Minute
	if len(minutes) == 0 {
		minutes = []int{dtstart.Minute()}
	}
	seconds := r.Second
	if len(seconds) == 0 {
		seconds = []int{dtstart.Second()}
	}

	if r.Frequency == FrequencySecondly || r.Frequency == FrequencyMinutely || r.Frequency == FrequencyHourly {
		// the period anchor already carries the stepped time component; only
		// expand the finer-grained BY-parts that weren't used to step.
		var out []time.Time
		for _, d := range dates {
			h, m, s := d.Hour(), d.Minute(), d.Second()
			hs, ms, ss := []int{h}, []int{m}, []int{s}
			if r.Frequency != FrequencyHourly && len(r.Hour) > 0 {
				hs = r.Hour
			}
			if r.Frequency == FrequencySecondly && len(r.Minute) > 0 {
				ms = r.Minute
			}
			if len(r.Second) > 0 && r.Frequency != FrequencySecondly {
				ss = r.Second
			}
			for _, hh := range hs {
				for _, mm := range ms {
					for _, sec := range ss {
						out = append(out, time.Date(d.Year(), d.Month(), d.Day(), hh, mm, sec, 0, d.Location()))
					}
				}
			}
		}
		return out
	}

	var out []time.Time
	for _, d := range dates {
		for _, h := range hours {
			for _, m := range minutes {
				for _, s := range seconds {
					out = append(out, time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, d.Location()))
				}
			}
		}
	}
	return out
}

// applySetPos filters a fully expanded period's candidates down to the
// BYSETPOS-selected positions (1-based, negative counting from the end),
// applied after sorting so positions are well-defined.
func applySetPos(r *RRule, times []time.Time) []time.Time {
	if len(r.SetPos) == 0 {
		return times
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	var out []time.Time
	for _, pos := range r.SetPos {
		idx := pos
		if idx < 0 {
			idx = len(times) + idx + 1
		}
		if idx < 1 || idx > len(times) {
			continue
		}
		out = append(out, times[idx-1])
	}
	return out
}

func matchesAnyWeekday(weekdays []ByDay, wd time.Weekday, _ int, _ int) bool {
	for _, w := range weekdays {
		if weekdayToTime[w.Weekday] == wd {
			return true
		}
	}
	return false
}

func matchesMonthday(monthdays []int, day time.Time) bool {
	daysInMonth := lastDayOfMonth(day).Day()
	for _, md := range monthdays {
		if resolveOrdinal(md, daysInMonth) == day.Day() {
			return true
		}
	}
	return false
}

func matchesYearday(yeardays []int, day time.Time) bool {
	daysInYr := daysInYear(day.Year())
	yd := day.YearDay()
	for _, y := range yeardays {
		if resolveOrdinal(y, daysInYr) == yd {
			return true
		}
	}
	return false
}

func resolveOrdinal(v, length int) int {
	if v < 0 {
		return length + v + 1
	}
	return v
}

func lastDayOfMonth(monthStart time.Time) time.Time {
	return time.Date(monthStart.Year(), monthStart.Month()+1, 0, 0, 0, 0, 0, monthStart.Location())
}

func daysInYear(year int) int {
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}
