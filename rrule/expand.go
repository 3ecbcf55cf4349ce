// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"time"
)

// Expand materializes the occurrence stream an RRule produces starting at
// dtstart, honoring FREQ/INTERVAL/BY-parts/COUNT/UNTIL. If the rule carries
// neither COUNT nor UNTIL the stream is conceptually infinite; Expand stops
// once it has produced cap occurrences (the caller-supplied default
// occurrence cap) or once every candidate falls after hardUntil, whichever
// comes first. hardUntil may be the zero time.Time, meaning "no extra
// bound beyond the rule's own UNTIL/COUNT/cap".
func (r *RRule) Expand(dtstart time.Time, hardUntil time.Time, cap int) []time.Time {
	it := NewIterator(r, dtstart)
	var out []time.Time
	for {
		t, ok := it.Next()
		if !ok {
			break
		}
		if !hardUntil.IsZero() && t.After(hardUntil) {
			break
		}
		out = append(out, t)
		if cap > 0 && len(out) >= cap {
			break
		}
	}
	return out
}

// State is the occurrence generator's streaming state machine (§4.3).
type State int

const (
	NotStarted State = iota
	Emitting
	Exhausted
)

// Iterator streams the occurrences of a single RRule in order, starting
// from dtstart, honoring COUNT/UNTIL. It never buffers more than one
// recurrence period's worth of candidates at a time.
type Iterator struct {
	rule    *RRule
	dtstart time.Time
	loc     *time.Location

	state State

	periodStart time.Time
	pending     []time.Time
	pendingIdx  int

	emitted  int
	emptyRun int
}

// NewIterator constructs a streaming occurrence iterator for rule anchored
// at dtstart. dtstart's own timezone (time.Time carries a *time.Location)
// is used for all period arithmetic, per the spec's rule that zone
// resolution happens once, upstream, at the property layer.
func NewIterator(rule *RRule, dtstart time.Time) *Iterator {
	return &Iterator{
		rule:        rule,
		dtstart:     dtstart,
		loc:         dtstart.Location(),
		state:       NotStarted,
		periodStart: periodAnchor(rule, dtstart),
	}
}

// Next returns the next occurrence in order, or (zero, false) once the
// iterator is Exhausted (COUNT reached, UNTIL passed, or the rule's own
// candidate space is provably empty).
func (it *Iterator) Next() (time.Time, bool) {
	if it.state == Exhausted {
		return time.Time{}, false
	}
	it.state = Emitting

	for {
		if it.pendingIdx < len(it.pending) {
			t := it.pending[it.pendingIdx]
			it.pendingIdx++
			if t.Before(it.dtstart) {
				continue
			}
			if it.rule.Count != nil && it.emitted >= *it.rule.Count {
				it.state = Exhausted
				return time.Time{}, false
			}
			if it.rule.Until != nil && t.After(*it.rule.Until) {
				it.state = Exhausted
				return time.Time{}, false
			}
			it.emitted++
			if it.rule.Count != nil && it.emitted >= *it.rule.Count {
				// this is the last permitted occurrence; mark exhausted for
				// the *next* call so the caller still receives it now.
				defer func() { it.state = Exhausted }()
			}
			return t, true
		}

		if it.rule.Until != nil && it.periodStart.After(*it.rule.Until) {
			it.state = Exhausted
			return time.Time{}, false
		}

		it.pending = generateCandidates(it.rule, it.dtstart, it.periodStart)
		it.pendingIdx = 0
		it.periodStart = nextPeriodStart(it.rule, it.periodStart)

		// Safety valve: a pathological rule (e.g. BYMONTHDAY=31 on a
		// 30-day-month-only INTERVAL) could produce an arbitrarily long run
		// of empty periods. Bound the search so Next() always terminates.
		if len(it.pending) == 0 {
			if it.emptyPeriodRunTooLong() {
				it.state = Exhausted
				return time.Time{}, false
			}
		} else {
			it.emptyRun = 0
		}
	}
}

const maxEmptyPeriodScan = 10000

func (it *Iterator) emptyPeriodRunTooLong() bool {
	it.emptyRun++
	return it.emptyRun > maxEmptyPeriodScan
}

// SeekTo advances the iterator to the first occurrence >= lowerBound,
// discarding everything strictly before it. It never rewinds.
func (it *Iterator) SeekTo(lowerBound time.Time) (time.Time, bool) {
	for {
		t, ok := it.Next()
		if !ok {
			return time.Time{}, false
		}
		if !t.Before(lowerBound) {
			return t, true
		}
	}
}
