// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine

import "errors"

// Error kinds, per §7. ParseError is not redeclared here: malformed
// property/query text surfaces as the parsing package's own error
// (*ical.ParseError, property.ErrInvalidPropertyLine, an rrule or icaldur
// parse error, or query.ErrMalformedQuery), each distinguishable via
// errors.Is/errors.As.
var (
	// ErrValidation marks a syntactically valid but semantically invalid
	// command, e.g. an override carrying RRULE, or a calendar/event
	// argument malformed in a way the value layer wouldn't catch.
	ErrValidation = errors.New("validation error")

	// ErrLookup marks a command that referenced a missing Calendar or
	// Event where the operation requires one to exist.
	ErrLookup = errors.New("lookup error")

	// ErrIndex marks an internal inconsistency between an Event's
	// indexed_<dim> maps and the Calendar's postings. Per §7 this should
	// never occur; surfacing it as an error rather than panicking keeps
	// the Calendar readable and lets the caller issue IDX_REBUILD.
	ErrIndex = errors.New("index error")
)
