// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package occurrence implements the recurrence materialization pipeline
// (§4.3): given an Event's schedule, it produces a lazy, ordered,
// deduplicated stream of occurrence start timestamps, and overlays
// per-occurrence overrides to yield concrete EventInstances (§4.4).
package occurrence

import (
	"sort"
	"time"

	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/rrule"
)

// DefaultCap is the occurrence cap applied when a Generator's caller
// supplies none, per §4.3: "Absent COUNT and UNTIL, the stream is
// infinite; the caller must bound it via a time-range or a hard occurrence
// cap (default cap: 1000 occurrences)."
const DefaultCap = 1000

// State mirrors the streaming state machine described in §4.3.
type State int

const (
	NotStarted State = iota
	Emitting
	Exhausted
)

// Generator streams an Event's occurrence start timestamps (UTC epoch
// seconds) in order, merging the DTSTART/RDATE seed set, the RRULE
// expansion, and any detached override keys, while excluding EXDATE/EXRULE
// timestamps.
type Generator struct {
	event *model.Event
	cap   int
	state State

	excluded map[int64]struct{}

	seed    []int64
	seedIdx int

	overrideKeys []int64
	overrideIdx  int

	rruleIter      *rrule.Iterator
	rrulePending   *int64
	rruleExhausted bool

	emitted     int
	lastEmitted int64
}

// NewGenerator constructs a Generator for event, resolving floating
// date-times against loc. If the event has no DTSTART it is not
// materializable (§4.3); the returned Generator is immediately Exhausted
// and yields no occurrences, which is not an error.
func NewGenerator(event *model.Event, loc *time.Location, cap int) (*Generator, error) {
	if !event.Materializable() {
		return &Generator{state: Exhausted}, nil
	}
	if cap <= 0 {
		cap = DefaultCap
	}

	dtstart, err := event.Schedule.DTStart.ToUTC(loc)
	if err != nil {
		return nil, err
	}

	excluded := map[int64]struct{}{}
	for _, ex := range event.Schedule.ExDates {
		ts, err := ex.ToUTC(loc)
		if err != nil {
			continue
		}
		excluded[ts.Unix()] = struct{}{}
	}
	if event.Schedule.ExRule != nil {
		for _, t := range event.Schedule.ExRule.Expand(dtstart, time.Time{}, cap) {
			excluded[t.Unix()] = struct{}{}
		}
	}

	seedSet := map[int64]struct{}{dtstart.Unix(): {}}
	for _, rd := range event.Schedule.RDates {
		ts, err := rd.ToUTC(loc)
		if err != nil {
			continue
		}
		seedSet[ts.Unix()] = struct{}{}
	}
	seed := make([]int64, 0, len(seedSet))
	for ts := range seedSet {
		if _, isExcluded := excluded[ts]; !isExcluded {
			seed = append(seed, ts)
		}
	}
	sort.Slice(seed, func(i, j int) bool { return seed[i] < seed[j] })

	var rruleIter *rrule.Iterator
	if event.Schedule.RRule != nil {
		rruleIter = rrule.NewIterator(event.Schedule.RRule, dtstart)
	}

	overrideKeys := make([]int64, 0, len(event.Overrides))
	for ts := range event.Overrides {
		overrideKeys = append(overrideKeys, ts)
	}
	sort.Slice(overrideKeys, func(i, j int) bool { return overrideKeys[i] < overrideKeys[j] })

	return &Generator{
		event:        event,
		cap:          cap,
		excluded:     excluded,
		seed:         seed,
		overrideKeys: overrideKeys,
		rruleIter:    rruleIter,
		lastEmitted:  minInt64,
	}, nil
}

const minInt64 = -1 << 63

// Next returns the next occurrence timestamp in order, or (0, false) once
// the generator is Exhausted.
func (g *Generator) Next() (int64, bool) {
	if g.state == Exhausted {
		return 0, false
	}
	if g.emitted >= g.cap {
		g.state = Exhausted
		return 0, false
	}

	for {
		seedTS, seedOK := g.peekSeed()
		overrideTS, overrideOK := g.peekOverride()
		rruleTS, rruleOK := g.peekRRule()

		if !seedOK && !overrideOK && !rruleOK {
			g.state = Exhausted
			return 0, false
		}

		next, _ := minOf(seedOK, seedTS, overrideOK, overrideTS, rruleOK, rruleTS)

		if seedOK && seedTS == next {
			g.seedIdx++
		}
		if overrideOK && overrideTS == next {
			g.overrideIdx++
		}
		if rruleOK && rruleTS == next {
			g.consumeRRule()
		}

		if next <= g.lastEmitted {
			continue
		}

		g.lastEmitted = next
		g.emitted++
		g.state = Emitting
		return next, true
	}
}

// SeekTo discards every pending occurrence strictly before lowerBound and
// returns the first one at or after it.
func (g *Generator) SeekTo(lowerBound int64) (int64, bool) {
	if g.state == Exhausted {
		return 0, false
	}
	g.seedIdx = sort.Search(len(g.seed), func(i int) bool { return g.seed[i] >= lowerBound })
	g.overrideIdx = sort.Search(len(g.overrideKeys), func(i int) bool { return g.overrideKeys[i] >= lowerBound })

	if g.rruleIter != nil && !g.rruleExhausted {
		t, ok := g.rruleIter.SeekTo(time.Unix(lowerBound, 0).UTC())
		g.rrulePending = nil
		if !ok {
			g.rruleExhausted = true
		} else {
			ts := t.Unix()
			if _, isExcluded := g.excluded[ts]; !isExcluded {
				g.rrulePending = &ts
			}
		}
	}

	g.lastEmitted = lowerBound - 1
	return g.Next()
}

func (g *Generator) peekSeed() (int64, bool) {
	if g.seedIdx >= len(g.seed) {
		return 0, false
	}
	return g.seed[g.seedIdx], true
}

func (g *Generator) peekOverride() (int64, bool) {
	if g.overrideIdx >= len(g.overrideKeys) {
		return 0, false
	}
	return g.overrideKeys[g.overrideIdx], true
}

func (g *Generator) peekRRule() (int64, bool) {
	if g.rruleIter == nil {
		return 0, false
	}
	for g.rrulePending == nil && !g.rruleExhausted {
		t, ok := g.rruleIter.Next()
		if !ok {
			g.rruleExhausted = true
			break
		}
		ts := t.Unix()
		if _, isExcluded := g.excluded[ts]; isExcluded {
			continue
		}
		g.rrulePending = &ts
	}
	if g.rrulePending == nil {
		return 0, false
	}
	return *g.rrulePending, true
}

func (g *Generator) consumeRRule() {
	g.rrulePending = nil
}

func minOf(aOK bool, a int64, bOK bool, b int64, cOK bool, c int64) (int64, bool) {
	best := int64(0)
	found := false
	for _, cand := range []struct {
		ok bool
		v  int64
	}{{aOK, a}, {bOK, b}, {cOK, c}} {
		if cand.ok && (!found || cand.v < best) {
			best = cand.v
			found = true
		}
	}
	return best, found
}
