// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package model contains the calendar engine's domain types: Event,
// EventOccurrenceOverride, EventInstance, and the IndexedConclusion
// representation their indices are built from.
package model

import (
	"time"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/property"
	"github.com/devonmarsh/redical/rrule"
)

// Class is the CLASS property's value (PUBLIC/PRIVATE/CONFIDENTIAL or an
// IANA/experimental token), per https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.3
type Class string

const (
	ClassPublic       Class = "PUBLIC"
	ClassPrivate      Class = "PRIVATE"
	ClassConfidential Class = "CONFIDENTIAL"
)

// RelatedTo is one RELATED-TO relationship: a RELTYPE (PARENT/CHILD/SIBLING
// or an IANA/experimental token, default PARENT) and the related UID.
type RelatedTo struct {
	RelType string
	UID     string
}

// Schedule holds the properties that drive occurrence materialization.
// DTSTART is required for an event to be materializable; its absence is not
// a parse error (the event still round-trips), only a query-time no-op.
type Schedule struct {
	DTStart  *ical.DateTime
	DTEnd    *ical.DateTime
	Duration *time.Duration
	RRule    *rrule.RRule
	ExRule   *rrule.RRule
	RDates   []ical.DateTime
	ExDates  []ical.DateTime
}

// EffectiveDuration resolves instance duration per §4.3: DURATION takes
// precedence over DTEND when both are present; otherwise the duration is
// DTEND minus DTSTART (dtstart stands in for DTSTART only when the schedule
// has none); if neither DURATION nor DTEND is set, the duration is zero.
func (s Schedule) EffectiveDuration(dtstart time.Time, loc *time.Location) time.Duration {
	if s.Duration != nil {
		return *s.Duration
	}
	if s.DTEnd != nil {
		end, err := s.DTEnd.ToUTC(loc)
		if err == nil {
			start := dtstart
			if s.DTStart != nil {
				if base, err := s.DTStart.ToUTC(loc); err == nil {
					start = base
				}
			}
			return end.Sub(start)
		}
	}
	return 0
}

// Event aggregates the schedule, the indexed properties, the passive
// (opaque) properties, and the per-occurrence overrides for one calendar
// component.
//
// The IndexedXxx maps are derived state: recomputed from the base
// properties plus Overrides by ReindexAll on every mutation (§4.5), never
// edited directly by callers.
type Event struct {
	UID string

	Schedule Schedule

	Class        Class
	Geo          *ical.GeoPair
	Categories   []string
	LocationType []string
	RelatedTo    []RelatedTo

	Passive property.PassiveSet

	Overrides map[int64]*EventOccurrenceOverride

	IndexedClass        map[string]IndexedConclusion
	IndexedGeo          map[string]IndexedConclusion
	IndexedCategories   map[string]IndexedConclusion
	IndexedLocationType map[string]IndexedConclusion
	IndexedRelatedTo    map[string]IndexedConclusion
}

// NewEvent returns an Event ready for property population.
func NewEvent(uid string) *Event {
	return &Event{
		UID:       uid,
		Overrides: make(map[int64]*EventOccurrenceOverride),
	}
}

// Materializable reports whether the event has a DTSTART and can therefore
// produce occurrences.
func (e *Event) Materializable() bool {
	return e.Schedule.DTStart != nil
}

// ReindexAll recomputes every indexed_<dim> map from the Event's current
// base properties and overrides, per the algorithm in §4.5.
func (e *Event) ReindexAll() {
	e.IndexedClass = indexScalar(string(e.Class), e.Overrides, func(o *EventOccurrenceOverride) (string, bool) {
		if !o.ClassSet {
			return "", false
		}
		if o.Class == nil {
			return "", true
		}
		return string(*o.Class), true
	})
	e.IndexedGeo = indexScalar(geoTerm(e.Geo), e.Overrides, func(o *EventOccurrenceOverride) (string, bool) {
		if !o.GeoSet {
			return "", false
		}
		return geoTerm(o.Geo), true
	})
	e.IndexedCategories = indexSet(e.Categories, e.Overrides, func(o *EventOccurrenceOverride) ([]string, bool) {
		if !o.CategoriesSet {
			return nil, false
		}
		return o.Categories, true
	})
	e.IndexedLocationType = indexSet(e.LocationType, e.Overrides, func(o *EventOccurrenceOverride) ([]string, bool) {
		if !o.LocationTypeSet {
			return nil, false
		}
		return o.LocationType, true
	})
	e.IndexedRelatedTo = indexSet(relatedToTerms(e.RelatedTo), e.Overrides, func(o *EventOccurrenceOverride) ([]string, bool) {
		if !o.RelatedToSet {
			return nil, false
		}
		return relatedToTerms(o.RelatedTo), true
	})
}

func geoTerm(g *ical.GeoPair) string {
	if g == nil {
		return ""
	}
	return g.Render()
}

func relatedToTerms(rs []RelatedTo) []string {
	if rs == nil {
		return nil
	}
	terms := make([]string, len(rs))
	for i, r := range rs {
		terms[i] = r.RelType + ":" + r.UID
	}
	return terms
}
