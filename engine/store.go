// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/notify"
)

// Store is the engine's top-level aggregate: a set of Calendars keyed by
// calendar_uid (§3), a default occurrence cap applied to every QUERY, a
// notification publisher and a logger. A Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	calendars map[string]*index.Calendar

	occurrenceCap int
	defaultLoc    *time.Location
	publisher     notify.Publisher
	log           zerolog.Logger
}

// New returns an empty Store. occurrenceCap bounds any QUERY whose result
// would otherwise be unbounded (§4.7); publisher receives a tagged
// notification for every successful mutation (§6). A nil publisher is
// replaced with notify.NopPublisher{}.
func New(occurrenceCap int, publisher notify.Publisher, log zerolog.Logger) *Store {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Store{
		calendars:     make(map[string]*index.Calendar),
		occurrenceCap: occurrenceCap,
		defaultLoc:    time.UTC,
		publisher:     publisher,
		log:           log,
	}
}

// calendar returns the Calendar for uid, creating it if create is true and
// it doesn't yet exist (§3: "a Calendar is created on first write to its
// key"). Callers hold s.mu.
func (s *Store) calendar(uid string, create bool) (*index.Calendar, bool) {
	cal, ok := s.calendars[uid]
	if !ok && create {
		cal = index.NewCalendar(uid)
		s.calendars[uid] = cal
		ok = true
	}
	return cal, ok
}

// notify fires a keyspace notification, logging (not propagating) any
// publish failure, per §6.
func (s *Store) notifyEvent(tag string) {
	if err := s.publisher.Publish(tag); err != nil {
		s.log.Warn().Err(err).Str("tag", tag).Msg("notification publish failed")
	}
}
