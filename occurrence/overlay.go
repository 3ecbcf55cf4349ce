// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package occurrence

import (
	"time"

	"github.com/devonmarsh/redical/model"
)

// Overlay merges the override keyed at ts (if any) onto event's base
// properties, yielding the materialized EventInstance (§4.4). DTSTART is
// always ts; any DTSTART an override payload carried is ignored by
// construction (EventOccurrenceOverride never stores one).
func Overlay(event *model.Event, ts int64, loc *time.Location) model.EventInstance {
	dtstart := time.Unix(ts, 0).UTC()

	inst := model.EventInstance{
		EventUID:     event.UID,
		StartTS:      ts,
		Class:        event.Class,
		Geo:          event.Geo,
		Categories:   event.Categories,
		LocationType: event.LocationType,
		RelatedTo:    event.RelatedTo,
		Passive:      event.Passive,
	}

	override, hasOverride := event.Overrides[ts]
	var duration time.Duration
	if hasOverride {
		applyOverride(&inst, override)
		duration = override.EffectiveDuration(event.Schedule, dtstart, loc)
	} else {
		duration = event.Schedule.EffectiveDuration(dtstart, loc)
	}

	inst.Duration = duration
	inst.EndTS = ts + int64(duration.Seconds())
	return inst
}

func applyOverride(inst *model.EventInstance, o *model.EventOccurrenceOverride) {
	if o.ClassSet {
		if o.Class != nil {
			inst.Class = *o.Class
		} else {
			inst.Class = ""
		}
	}
	if o.GeoSet {
		inst.Geo = o.Geo
	}
	if o.CategoriesSet {
		inst.Categories = o.Categories
	}
	if o.LocationTypeSet {
		inst.LocationType = o.LocationType
	}
	if o.RelatedToSet {
		inst.RelatedTo = o.RelatedTo
	}
	if o.Passive != nil {
		inst.Passive = o.Passive
	}
}
