// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/property"
)

// EventInstance is the materialized record returned by the occurrence
// generator and the query executor: an Event's base properties overlaid by
// any override at StartTS (§3, §4.4).
type EventInstance struct {
	EventUID string
	StartTS  int64
	EndTS    int64
	Duration time.Duration

	Class        Class
	Geo          *ical.GeoPair
	Categories   []string
	LocationType []string
	RelatedTo    []RelatedTo

	Passive property.PassiveSet
}

// Start returns the instance's start time in UTC.
func (i EventInstance) Start() time.Time {
	return time.Unix(i.StartTS, 0).UTC()
}

// End returns the instance's end time in UTC.
func (i EventInstance) End() time.Time {
	return time.Unix(i.EndTS, 0).UTC()
}
