// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// indexSet derives a term→IndexedConclusion map for a set-valued dimension
// (categories, location-type, related-to) per the algorithm in §4.5: a term
// present on the base Event is Include, exceptioned at every override
// timestamp that drops it; a term present only on some overrides is
// Exclude, with an inclusion exception at every override timestamp that
// adds it.
func indexSet(base []string, overrides map[int64]*EventOccurrenceOverride, getOverride func(*EventOccurrenceOverride) ([]string, bool)) map[string]IndexedConclusion {
	baseSet := toSet(base)
	except := map[string]map[int64]struct{}{}
	only := map[string]map[int64]struct{}{}

	for ts, o := range overrides {
		overrideTerms, has := getOverride(o)
		if !has {
			continue
		}
		overrideSet := toSet(overrideTerms)
		for term := range baseSet {
			if _, stillPresent := overrideSet[term]; !stillPresent {
				addException(except, term, ts)
			}
		}
		for term := range overrideSet {
			if _, inBase := baseSet[term]; !inBase {
				addException(only, term, ts)
			}
		}
	}

	result := make(map[string]IndexedConclusion, len(baseSet)+len(only))
	for term := range baseSet {
		result[term] = IncludeExcept(except[term])
	}
	for term, ts := range only {
		if len(ts) == 0 {
			continue
		}
		result[term] = ExcludeOnly(ts)
	}
	return result
}

// indexScalar is indexSet specialized to a singleton-or-empty dimension
// (class, geo).
func indexScalar(base string, overrides map[int64]*EventOccurrenceOverride, getOverride func(*EventOccurrenceOverride) (string, bool)) map[string]IndexedConclusion {
	var baseSlice []string
	if base != "" {
		baseSlice = []string{base}
	}
	return indexSet(baseSlice, overrides, func(o *EventOccurrenceOverride) ([]string, bool) {
		v, has := getOverride(o)
		if !has {
			return nil, false
		}
		if v == "" {
			return []string{}, true
		}
		return []string{v}, true
	})
}

func toSet(terms []string) map[string]struct{} {
	if len(terms) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

func addException(m map[string]map[int64]struct{}, term string, ts int64) {
	set, ok := m[term]
	if !ok {
		set = make(map[int64]struct{})
		m[term] = set
	}
	set[ts] = struct{}{}
}
