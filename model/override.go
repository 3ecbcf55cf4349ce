// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/property"
)

// EventOccurrenceOverride carries the same properties as an Event except
// schedule-recurrence properties (RRULE/EXRULE/RDATE/EXDATE), which parsing
// must reject — an override describes exactly one occurrence. DTSTART is
// never stored here: it is always the override's key, the occurrence-start
// timestamp it overlays (§3, §4.4).
//
// A field left unset on the override inherits from the owning Event; the
// CategoriesSet/LocationTypeSet/RelatedToSet flags distinguish "unset,
// inherit" from "explicitly set to the empty set", since a nil slice can't
// carry that distinction on its own.
type EventOccurrenceOverride struct {
	DTEnd    *ical.DateTime
	Duration *time.Duration

	Class    *Class
	ClassSet bool
	Geo      *ical.GeoPair
	GeoSet   bool

	Categories      []string
	CategoriesSet   bool
	LocationType    []string
	LocationTypeSet bool
	RelatedTo       []RelatedTo
	RelatedToSet    bool

	// Passive unconditionally replaces the event's passive property set
	// when present, per §4.4 (there is no inherit-vs-override distinction
	// for passive properties).
	Passive property.PassiveSet
}

// NewOverride returns an empty override ready for property population.
func NewOverride() *EventOccurrenceOverride {
	return &EventOccurrenceOverride{}
}

// EffectiveDuration mirrors Schedule.EffectiveDuration for an override:
// DURATION takes precedence over DTEND; both fall back to the base
// Event's schedule when the override doesn't set them.
func (o *EventOccurrenceOverride) EffectiveDuration(base Schedule, occurrenceStart time.Time, loc *time.Location) time.Duration {
	if o.Duration != nil {
		return *o.Duration
	}
	if o.DTEnd != nil {
		end, err := o.DTEnd.ToUTC(loc)
		if err == nil {
			return end.Sub(occurrenceStart)
		}
	}
	return base.EffectiveDuration(occurrenceStart, loc)
}
