// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package query implements the WHERE-tree parser and executor (§4.7): a
// boolean expression over the indexed filter properties, refined by a
// time window, ordering, distinctness, offset and limit.
package query

import (
	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/property"
)

// Node is one node of the parsed WHERE tree. Eval resolves it against a
// Calendar into a candidate map of event-uid to IndexedConclusion.
type Node interface {
	Eval(cal *index.Calendar) map[string]model.IndexedConclusion
}

type andNode struct{ left, right Node }
type orNode struct{ left, right Node }
type notNode struct{ child Node }

type dimensionLeaf struct {
	dim  string
	term property.FilterTerm
}

type uidLeaf struct{ values []string }

type geoLeaf struct{ filter property.GeoFilter }

func (n *andNode) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	left := n.left.Eval(cal)
	right := n.right.Eval(cal)
	result := make(map[string]model.IndexedConclusion)
	for uid, lc := range left {
		if rc, ok := right[uid]; ok {
			combined := lc.And(rc)
			if !combined.IsNeverEffective() {
				result[uid] = combined
			}
		}
	}
	return result
}

func (n *orNode) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	left := n.left.Eval(cal)
	right := n.right.Eval(cal)
	result := make(map[string]model.IndexedConclusion, len(left)+len(right))
	for uid, lc := range left {
		if rc, ok := right[uid]; ok {
			result[uid] = lc.Or(rc)
		} else {
			result[uid] = lc
		}
	}
	for uid, rc := range right {
		if _, already := result[uid]; !already {
			result[uid] = rc
		}
	}
	return prune(result)
}

func (n *notNode) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	child := n.child.Eval(cal)
	result := make(map[string]model.IndexedConclusion, len(cal.Events))
	for uid := range cal.Events {
		concl, matched := child[uid]
		if !matched {
			concl = model.ExcludeOnly(nil)
		}
		negated := concl.Negate()
		if !negated.IsNeverEffective() {
			result[uid] = negated
		}
	}
	return result
}

func (n *dimensionLeaf) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	var dimIndex map[string]map[string]model.IndexedConclusion
	switch n.dim {
	case "categories":
		dimIndex = cal.IndexCategories
	case "location-type":
		dimIndex = cal.IndexLocationType
	case "related-to":
		dimIndex = cal.IndexRelatedTo
	case "class":
		dimIndex = cal.IndexClass
	}
	return evalDimension(dimIndex, n.term.Values, n.term.Op)
}

func (n *uidLeaf) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	result := make(map[string]model.IndexedConclusion, len(n.values))
	for _, uid := range n.values {
		if _, exists := cal.Events[uid]; exists {
			result[uid] = model.IncludeAlways()
		}
	}
	return result
}

func (n *geoLeaf) Eval(cal *index.Calendar) map[string]model.IndexedConclusion {
	matches := cal.Geo.Within(n.filter.Lat, n.filter.Lon, n.filter.RadiusKM)
	result := make(map[string]model.IndexedConclusion)
	for _, m := range matches {
		concl, ok := cal.IndexGeo[m.Term][m.UID]
		if !ok {
			continue
		}
		if existing, has := result[m.UID]; has {
			result[m.UID] = existing.Or(concl)
		} else {
			result[m.UID] = concl
		}
	}
	return prune(result)
}

// evalDimension combines the postings of every value named by a single
// filter property according to its OP, per §4.7: OP=AND intersects,
// OP=OR unions. A value absent from an event's postings is treated as
// Exclude{only:∅} ("never") for that value.
func evalDimension(dimIndex map[string]map[string]model.IndexedConclusion, values []string, op property.CombineOp) map[string]model.IndexedConclusion {
	if len(values) == 0 {
		return map[string]model.IndexedConclusion{}
	}
	allUIDs := make(map[string]struct{})
	for _, v := range values {
		for uid := range dimIndex[v] {
			allUIDs[uid] = struct{}{}
		}
	}
	result := make(map[string]model.IndexedConclusion, len(allUIDs))
	for uid := range allUIDs {
		var combined model.IndexedConclusion
		first := true
		for _, v := range values {
			concl, ok := dimIndex[v][uid]
			if !ok {
				concl = model.ExcludeOnly(nil)
			}
			if first {
				combined = concl
				first = false
				continue
			}
			if op == property.CombineAND {
				combined = combined.And(concl)
			} else {
				combined = combined.Or(concl)
			}
		}
		if !combined.IsNeverEffective() {
			result[uid] = combined
		}
	}
	return result
}

func prune(m map[string]model.IndexedConclusion) map[string]model.IndexedConclusion {
	for uid, c := range m {
		if c.IsNeverEffective() {
			delete(m, uid)
		}
	}
	return m
}
