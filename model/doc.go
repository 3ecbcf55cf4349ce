// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package model contains the calendar engine's domain types: Event,
// EventOccurrenceOverride, EventInstance, and the IndexedConclusion
// representation their indices are built from. The Calendar aggregate that
// owns a set of Events plus their inverted indices lives in the index
// package, which imports model — keeping this package free of any
// dependency on indexing machinery.
package model
