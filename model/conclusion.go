// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// IndexedConclusion is the per-event, per-term verdict a Calendar index
// stores: either the term applies to every occurrence except a sparse
// exception set (Include), or it applies to none except a sparse exception
// set (Exclude). This avoids materializing every occurrence's term
// membership explicitly.
//
// Include{Except: nil} means "always". Exclude{Only: nil} means "never" and
// must not be stored (an index entry with no effect has no reason to
// exist).
type IndexedConclusion struct {
	Excluding bool
	Except    map[int64]struct{}
	Only      map[int64]struct{}
}

// IncludeAlways is the conclusion meaning "every occurrence matches".
func IncludeAlways() IndexedConclusion {
	return IndexedConclusion{}
}

// IncludeExcept is the conclusion meaning "every occurrence matches except
// the given timestamps".
func IncludeExcept(except map[int64]struct{}) IndexedConclusion {
	return IndexedConclusion{Except: except}
}

// ExcludeOnly is the conclusion meaning "no occurrence matches except the
// given timestamps". Panics-free contract: callers must not construct this
// with an empty Only set, per the invariant in §4.5; IsNeverEffective
// reports that case so callers can drop the entry instead.
func ExcludeOnly(only map[int64]struct{}) IndexedConclusion {
	return IndexedConclusion{Excluding: true, Only: only}
}

// IsNeverEffective reports whether this conclusion matches nothing and so
// should not be stored in an index.
func (c IndexedConclusion) IsNeverEffective() bool {
	return c.Excluding && len(c.Only) == 0
}

// Matches reports whether the occurrence at ts satisfies the conclusion.
func (c IndexedConclusion) Matches(ts int64) bool {
	if c.Excluding {
		_, ok := c.Only[ts]
		return ok
	}
	_, excepted := c.Except[ts]
	return !excepted
}

// Negate inverts the conclusion: Include{except} becomes Exclude{only:
// except} and vice versa. The exception set swaps role but its membership
// is unchanged.
func (c IndexedConclusion) Negate() IndexedConclusion {
	if c.Excluding {
		return IndexedConclusion{Excluding: false, Except: c.Only}
	}
	return IndexedConclusion{Excluding: true, Only: c.Except}
}

// And computes the pointwise intersection of two conclusions for the same
// event, per §4.7's OP=AND semantics.
func (c IndexedConclusion) And(other IndexedConclusion) IndexedConclusion {
	switch {
	case !c.Excluding && !other.Excluding:
		return IncludeExcept(unionSet(c.Except, other.Except))
	case c.Excluding && other.Excluding:
		return ExcludeOnly(intersectSet(c.Only, other.Only))
	case !c.Excluding && other.Excluding:
		return ExcludeOnly(subtractSet(other.Only, c.Except))
	default: // c.Excluding && !other.Excluding
		return ExcludeOnly(subtractSet(c.Only, other.Except))
	}
}

// Or computes the pointwise union of two conclusions for the same event,
// per §4.7's OP=OR semantics.
func (c IndexedConclusion) Or(other IndexedConclusion) IndexedConclusion {
	switch {
	case !c.Excluding && !other.Excluding:
		return IncludeExcept(intersectSet(c.Except, other.Except))
	case c.Excluding && other.Excluding:
		return ExcludeOnly(unionSet(c.Only, other.Only))
	case !c.Excluding && other.Excluding:
		return IncludeExcept(subtractSet(c.Except, other.Only))
	default: // c.Excluding && !other.Excluding
		return IncludeExcept(subtractSet(other.Except, c.Only))
	}
}

func unionSet(a, b map[int64]struct{}) map[int64]struct{} {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[int64]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(a, b map[int64]struct{}) map[int64]struct{} {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(map[int64]struct{})
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for k := range small {
		if _, ok := big[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func subtractSet(a, b map[int64]struct{}) map[int64]struct{} {
	if len(a) == 0 {
		return nil
	}
	out := make(map[int64]struct{}, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}
