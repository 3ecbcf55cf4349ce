// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package query

import (
	"math"
	"sort"
	"time"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/occurrence"
	"github.com/devonmarsh/redical/property"
)

// Result is the outcome of executing a Query.
type Result struct {
	Instances []model.EventInstance
	// Truncated is set when some candidate event's occurrence stream hit
	// the occurrence cap before the time window was exhausted, per §4.7's
	// failure semantics: "the result is marked possibly truncated
	// implicitly by returning exactly the cap".
	Truncated bool
}

type scoredInstance struct {
	inst     model.EventInstance
	dtstart  int64
	geoDist  float64
	hasOrder bool
}

// Execute runs q against cal, per the candidate-expansion algorithm in
// §4.7. defaultLoc resolves floating date-times absent an X-TZID override;
// occurrenceCap bounds each candidate event's occurrence stream.
func Execute(cal *index.Calendar, q *Query, defaultLoc *time.Location, occurrenceCap int) (*Result, error) {
	loc := defaultLoc
	if q.TZID != "" {
		if resolved, err := time.LoadLocation(q.TZID); err == nil {
			loc = resolved
		}
	}

	candidates := resolveCandidates(cal, q)

	fromTS, err := resolveBoundTS(q.From, loc)
	if err != nil {
		return nil, err
	}
	untilTS, err := resolveBoundTS(q.Until, loc)
	if err != nil {
		return nil, err
	}

	var seekLowerBound *int64
	if q.From != nil && q.From.Ref == property.RefDTSTART && fromTS != nil {
		bound := *fromTS
		if q.From.Op == property.OpGT {
			bound++
		}
		seekLowerBound = &bound
	}

	var scored []scoredInstance
	truncated := false

	for uid, concl := range candidates {
		event, ok := cal.Events[uid]
		if !ok {
			continue
		}
		gen, err := occurrence.NewGenerator(event, loc, occurrenceCap)
		if err != nil {
			return nil, err
		}

		var ts int64
		var hasNext bool
		if seekLowerBound != nil {
			ts, hasNext = gen.SeekTo(*seekLowerBound)
		} else {
			ts, hasNext = gen.Next()
		}

		count := 0
		for hasNext {
			if q.Until != nil && q.Until.Ref == property.RefDTSTART && untilTS != nil && !satisfies(q.Until.Op, ts, *untilTS) {
				break
			}
			if concl.Matches(ts) {
				inst := occurrence.Overlay(event, ts, loc)
				matched, err := windowMatches(q, inst, fromTS, untilTS)
				if err != nil {
					return nil, err
				}
				if matched {
					scored = append(scored, scoreInstance(q, inst))
				}
			}
			count++
			if count >= occurrenceCap {
				truncated = true
				break
			}
			ts, hasNext = gen.Next()
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return less(q, scored[i], scored[j]) })

	var deduped []model.EventInstance
	seen := make(map[string]struct{})
	for _, s := range scored {
		if q.Distinct {
			if _, already := seen[s.inst.EventUID]; already {
				continue
			}
			seen[s.inst.EventUID] = struct{}{}
		}
		deduped = append(deduped, s.inst)
	}

	start := q.Offset
	if start > len(deduped) {
		start = len(deduped)
	}
	end := len(deduped)
	if q.HasLimit && start+q.Limit < end {
		end = start + q.Limit
	}

	return &Result{Instances: deduped[start:end], Truncated: truncated}, nil
}

func resolveCandidates(cal *index.Calendar, q *Query) map[string]model.IndexedConclusion {
	if q.Where != nil {
		return q.Where.Eval(cal)
	}
	all := make(map[string]model.IndexedConclusion, len(cal.Events))
	for uid := range cal.Events {
		all[uid] = model.IncludeAlways()
	}
	return all
}

func resolveBoundTS(bound *property.TimeBound, loc *time.Location) (*int64, error) {
	if bound == nil {
		return nil, nil
	}
	dt, err := ical.ParseDateTime(bound.Value, bound.TZID)
	if err != nil {
		return nil, err
	}
	t, err := dt.ToUTC(loc)
	if err != nil {
		return nil, err
	}
	ts := t.Unix()
	return &ts, nil
}

func satisfies(op property.CompareOp, value, bound int64) bool {
	switch op {
	case property.OpGT:
		return value > bound
	case property.OpGTE:
		return value >= bound
	case property.OpLT:
		return value < bound
	case property.OpLTE:
		return value <= bound
	}
	return true
}

func refValue(ref property.TimeRef, inst model.EventInstance) int64 {
	if ref == property.RefDTEND {
		return inst.EndTS
	}
	return inst.StartTS
}

func windowMatches(q *Query, inst model.EventInstance, fromTS, untilTS *int64) (bool, error) {
	if q.From != nil && fromTS != nil {
		if !satisfies(q.From.Op, refValue(q.From.Ref, inst), *fromTS) {
			return false, nil
		}
	}
	if q.Until != nil && untilTS != nil {
		if !satisfies(q.Until.Op, refValue(q.Until.Ref, inst), *untilTS) {
			return false, nil
		}
	}
	return true, nil
}

func scoreInstance(q *Query, inst model.EventInstance) scoredInstance {
	s := scoredInstance{inst: inst, dtstart: inst.StartTS}
	if q.HasOrderBy && q.OrderBy.Kind != property.OrderDTStart {
		if inst.Geo != nil {
			s.geoDist = ical.HaversineKM(ical.GeoPair{Lat: q.OrderBy.Lat, Lon: q.OrderBy.Lon}, *inst.Geo)
			s.hasOrder = true
		} else {
			s.geoDist = math.Inf(1)
		}
	}
	return s
}

func less(q *Query, a, b scoredInstance) bool {
	switch {
	case !q.HasOrderBy || q.OrderBy.Kind == property.OrderDTStart:
		if a.dtstart != b.dtstart {
			return a.dtstart < b.dtstart
		}
	case q.OrderBy.Kind == property.OrderDTStartThenGeoDist:
		if a.dtstart != b.dtstart {
			return a.dtstart < b.dtstart
		}
		if a.geoDist != b.geoDist {
			return a.geoDist < b.geoDist
		}
	case q.OrderBy.Kind == property.OrderGeoDistThenDTStart:
		if a.geoDist != b.geoDist {
			return a.geoDist < b.geoDist
		}
		if a.dtstart != b.dtstart {
			return a.dtstart < b.dtstart
		}
	}
	if a.inst.EventUID != b.inst.EventUID {
		return a.inst.EventUID < b.inst.EventUID
	}
	return a.inst.StartTS < b.inst.StartTS
}
