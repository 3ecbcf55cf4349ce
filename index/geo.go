// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package index

import (
	"sort"

	"github.com/devonmarsh/redical/ical"
)

// kmPerLatDegree approximates the great-circle distance of one degree of
// latitude; used only to prune k-d tree branches during a radius search,
// never to compute the reported distance (ical.HaversineKM does that).
const kmPerLatDegree = 111.32

type geoPoint struct {
	lat, lon float64
	term     string
	uid      string
}

type kdNode struct {
	point       geoPoint
	left, right *kdNode
}

// GeoIndex is a 2-D k-d tree over (lat, lon) keyed by event-uid, supporting
// "events within radius R of point P" queries (§4.6). No pack example ships
// an in-memory spatial index library, so this is hand-written; see
// DESIGN.md.
//
// Inserts and removes are buffered and only folded into the tree once they
// exceed rebuildThreshold, turning each individual mutation into an
// amortized O(1) append with periodic O(n log n) rebuilds rather than an
// O(n) rebuild per call — bulk-rebuild is explicitly acceptable per §4.6.
type GeoIndex struct {
	root             *kdNode
	treePoints       []geoPoint
	pending          []geoPoint
	removed          map[string]struct{}
	rebuildThreshold int
}

// NewGeoIndex returns an empty spatial index.
func NewGeoIndex() *GeoIndex {
	return &GeoIndex{removed: map[string]struct{}{}, rebuildThreshold: 256}
}

func removeKey(term, uid string) string { return term + "\x00" + uid }

// Insert adds (lat, lon) for the given term and event-uid.
func (idx *GeoIndex) Insert(lat, lon float64, term, uid string) {
	if _, wasRemoved := idx.removed[removeKey(term, uid)]; wasRemoved {
		// Fold the earlier removal into the tree first so that it does not
		// also hide the point inserted now.
		idx.rebuild()
	}
	idx.pending = append(idx.pending, geoPoint{lat: lat, lon: lon, term: term, uid: uid})
	if len(idx.pending) > idx.rebuildThreshold {
		idx.rebuild()
	}
}

// Remove deletes the point previously inserted for term/uid, if present.
func (idx *GeoIndex) Remove(term, uid string) {
	idx.removed[removeKey(term, uid)] = struct{}{}
	if len(idx.removed) > idx.rebuildThreshold {
		idx.rebuild()
	}
}

func (idx *GeoIndex) rebuild() {
	all := make([]geoPoint, 0, len(idx.treePoints)+len(idx.pending))
	for _, p := range idx.treePoints {
		if _, gone := idx.removed[removeKey(p.term, p.uid)]; !gone {
			all = append(all, p)
		}
	}
	for _, p := range idx.pending {
		if _, gone := idx.removed[removeKey(p.term, p.uid)]; !gone {
			all = append(all, p)
		}
	}
	idx.treePoints = all
	idx.pending = nil
	idx.removed = map[string]struct{}{}
	idx.root = buildKD(append([]geoPoint(nil), all...), 0)
}

func buildKD(points []geoPoint, depth int) *kdNode {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 2
	sort.Slice(points, func(i, j int) bool {
		if axis == 0 {
			return points[i].lat < points[j].lat
		}
		return points[i].lon < points[j].lon
	})
	mid := len(points) / 2
	node := &kdNode{point: points[mid]}
	node.left = buildKD(points[:mid], depth+1)
	node.right = buildKD(points[mid+1:], depth+1)
	return node
}

// Within returns every (term, event-uid) point within radiusKM of
// (lat, lon).
func (idx *GeoIndex) Within(lat, lon, radiusKM float64) []struct {
	Term string
	UID  string
} {
	center := ical.GeoPair{Lat: lat, Lon: lon}
	var matches []struct {
		Term string
		UID  string
	}
	visit := func(p geoPoint) {
		if _, gone := idx.removed[removeKey(p.term, p.uid)]; gone {
			return
		}
		if ical.HaversineKM(center, ical.GeoPair{Lat: p.lat, Lon: p.lon}) <= radiusKM {
			matches = append(matches, struct {
				Term string
				UID  string
			}{p.term, p.uid})
		}
	}
	searchKD(idx.root, lat, lon, radiusKM, 0, visit)
	for _, p := range idx.pending {
		visit(p)
	}
	return matches
}

func searchKD(node *kdNode, lat, lon, radiusKM float64, depth int, visit func(geoPoint)) {
	if node == nil {
		return
	}
	visit(node.point)

	axis := depth % 2
	if axis == 0 {
		diffDeg := node.point.lat - lat
		radiusDeg := radiusKM / kmPerLatDegree
		if diffDeg >= -radiusDeg {
			searchKD(node.left, lat, lon, radiusKM, depth+1, visit)
		}
		if diffDeg <= radiusDeg {
			searchKD(node.right, lat, lon, radiusKM, depth+1, visit)
		}
		return
	}
	// Longitude-axis pruning would need a latitude-dependent km-per-degree
	// factor (cos(lat)); to stay correct near the poles we simply
	// descend both branches on this axis rather than prune unsafely.
	searchKD(node.left, lat, lon, radiusKM, depth+1, visit)
	searchKD(node.right, lat, lon, radiusKM, depth+1, visit)
}
