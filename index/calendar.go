// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package index owns the Calendar aggregate: the per-store-key set of
// Events plus the inverted term indices and geo-spatial index derived from
// them (§3, §4.6). It imports model rather than the reverse, keeping the
// domain types free of indexing concerns.
package index

import "github.com/devonmarsh/redical/model"

// Calendar is the aggregate a store key holds.
type Calendar struct {
	UID    string
	Events map[string]*model.Event

	IndexCategories   map[string]map[string]model.IndexedConclusion
	IndexLocationType map[string]map[string]model.IndexedConclusion
	IndexRelatedTo    map[string]map[string]model.IndexedConclusion
	IndexClass        map[string]map[string]model.IndexedConclusion
	IndexGeo          map[string]map[string]model.IndexedConclusion
	Geo               *GeoIndex

	// IndexesActive gates index maintenance. IDX_DISABLE turns it off;
	// IDX_REBUILD turns it back on and triggers Rebuild.
	IndexesActive bool
}

// NewCalendar returns an empty Calendar with indexing active, matching the
// lifecycle in §3: a Calendar is created on first write to its key.
func NewCalendar(uid string) *Calendar {
	return &Calendar{
		UID:               uid,
		Events:            make(map[string]*model.Event),
		IndexCategories:   make(map[string]map[string]model.IndexedConclusion),
		IndexLocationType: make(map[string]map[string]model.IndexedConclusion),
		IndexRelatedTo:    make(map[string]map[string]model.IndexedConclusion),
		IndexClass:        make(map[string]map[string]model.IndexedConclusion),
		IndexGeo:          make(map[string]map[string]model.IndexedConclusion),
		Geo:               NewGeoIndex(),
		IndexesActive:     true,
	}
}
