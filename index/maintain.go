// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package index

import (
	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/model"
)

// SetEvent inserts or replaces event in cal, recomputing its derived
// indexed_<dim> maps and diffing them against the previous version (if
// any) to update cal's inverted indices (§4.6). When indexing is disabled
// the event is still stored; only index maintenance is skipped.
func SetEvent(cal *Calendar, event *model.Event) {
	// The previous maps are captured before reindexing: override commands
	// pass the stored *Event itself, so old and event can be the same value.
	old := cal.Events[event.UID]
	var oldClass, oldGeo, oldCategories, oldLocationType, oldRelatedTo map[string]model.IndexedConclusion
	if old != nil {
		oldClass = old.IndexedClass
		oldGeo = old.IndexedGeo
		oldCategories = old.IndexedCategories
		oldLocationType = old.IndexedLocationType
		oldRelatedTo = old.IndexedRelatedTo
	}

	event.ReindexAll()
	cal.Events[event.UID] = event

	if !cal.IndexesActive {
		return
	}

	diffApply(cal.IndexClass, event.UID, oldClass, event.IndexedClass)
	diffApply(cal.IndexCategories, event.UID, oldCategories, event.IndexedCategories)
	diffApply(cal.IndexLocationType, event.UID, oldLocationType, event.IndexedLocationType)
	diffApply(cal.IndexRelatedTo, event.UID, oldRelatedTo, event.IndexedRelatedTo)
	diffApply(cal.IndexGeo, event.UID, oldGeo, event.IndexedGeo)
	diffGeoPoints(cal.Geo, event.UID, oldGeo, event.IndexedGeo)
}

// DeleteEvent removes event_uid and every index posting it owns. Reports
// whether the event was present.
func DeleteEvent(cal *Calendar, eventUID string) bool {
	event, ok := cal.Events[eventUID]
	if !ok {
		return false
	}
	delete(cal.Events, eventUID)

	if !cal.IndexesActive {
		return true
	}

	diffApply(cal.IndexClass, eventUID, event.IndexedClass, nil)
	diffApply(cal.IndexCategories, eventUID, event.IndexedCategories, nil)
	diffApply(cal.IndexLocationType, eventUID, event.IndexedLocationType, nil)
	diffApply(cal.IndexRelatedTo, eventUID, event.IndexedRelatedTo, nil)
	diffApply(cal.IndexGeo, eventUID, event.IndexedGeo, nil)
	diffGeoPoints(cal.Geo, eventUID, event.IndexedGeo, nil)
	return true
}

// Rebuild recomputes every index from scratch from the Events currently in
// cal, and turns IndexesActive on. Used by IDX_REBUILD.
func Rebuild(cal *Calendar) {
	cal.IndexCategories = make(map[string]map[string]model.IndexedConclusion)
	cal.IndexLocationType = make(map[string]map[string]model.IndexedConclusion)
	cal.IndexRelatedTo = make(map[string]map[string]model.IndexedConclusion)
	cal.IndexClass = make(map[string]map[string]model.IndexedConclusion)
	cal.IndexGeo = make(map[string]map[string]model.IndexedConclusion)
	cal.Geo = NewGeoIndex()
	cal.IndexesActive = true

	for uid, event := range cal.Events {
		event.ReindexAll()
		diffApply(cal.IndexClass, uid, nil, event.IndexedClass)
		diffApply(cal.IndexCategories, uid, nil, event.IndexedCategories)
		diffApply(cal.IndexLocationType, uid, nil, event.IndexedLocationType)
		diffApply(cal.IndexRelatedTo, uid, nil, event.IndexedRelatedTo)
		diffApply(cal.IndexGeo, uid, nil, event.IndexedGeo)
		diffGeoPoints(cal.Geo, uid, nil, event.IndexedGeo)
	}
}

// diffApply updates calIndex (term -> event-uid -> conclusion) from the
// difference between oldTerms and newTerms for one event, per §4.6:
// removed terms drop the posting, added/updated terms overwrite it, and an
// inner map that becomes empty is deleted entirely.
func diffApply(calIndex map[string]map[string]model.IndexedConclusion, uid string, oldTerms, newTerms map[string]model.IndexedConclusion) {
	for term := range oldTerms {
		if _, stillPresent := newTerms[term]; !stillPresent {
			removePosting(calIndex, term, uid)
		}
	}
	for term, conclusion := range newTerms {
		postings, ok := calIndex[term]
		if !ok {
			postings = make(map[string]model.IndexedConclusion)
			calIndex[term] = postings
		}
		postings[uid] = conclusion
	}
}

func removePosting(calIndex map[string]map[string]model.IndexedConclusion, term, uid string) {
	postings, ok := calIndex[term]
	if !ok {
		return
	}
	delete(postings, uid)
	if len(postings) == 0 {
		delete(calIndex, term)
	}
}

// diffGeoPoints keeps the spatial GeoIndex in sync with the geo term set:
// a geo term is a rendered "lat;lon" pair (see model.geoTerm), so it can be
// parsed back into coordinates for the k-d tree.
func diffGeoPoints(geo *GeoIndex, uid string, oldTerms, newTerms map[string]model.IndexedConclusion) {
	for term := range oldTerms {
		if _, stillPresent := newTerms[term]; !stillPresent && term != "" {
			geo.Remove(term, uid)
		}
	}
	for term := range newTerms {
		if term == "" {
			continue
		}
		if _, alreadyPresent := oldTerms[term]; alreadyPresent {
			continue
		}
		pair, err := ical.ParseGeoPair(term)
		if err != nil {
			continue
		}
		geo.Insert(pair.Lat, pair.Lon, term, uid)
	}
}
