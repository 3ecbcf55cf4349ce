// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine

import (
	"fmt"
	"sort"

	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/query"
)

// prunOverrides deletes every override keyed in [fromTS, untilTS] from
// event, returning the count removed. The caller is responsible for
// calling index.SetEvent afterwards to reindex if any were removed.
func prunOverrides(event *model.Event, fromTS, untilTS int64) int {
	var toDelete []int64
	for ts := range event.Overrides {
		if ts >= fromTS && ts <= untilTS {
			toDelete = append(toDelete, ts)
		}
	}
	for _, ts := range toDelete {
		delete(event.Overrides, ts)
	}
	return len(toDelete)
}

// EvtSet creates or replaces event_uid in calendar_uid from body (the
// event's ical content lines), per §6 EVT_SET. The Calendar is created if
// this is its first write. On any parse/validation error no mutation
// occurs (§7 atomicity).
func (s *Store) EvtSet(calendarUID, eventUID, body string) error {
	event, err := buildEvent(eventUID, body)
	if err != nil {
		s.log.Debug().Str("calendar", calendarUID).Str("event", eventUID).Err(err).Msg("EVT_SET rejected")
		return err
	}

	s.mu.Lock()
	cal, _ := s.calendar(calendarUID, true)
	index.SetEvent(cal, event)
	s.mu.Unlock()

	s.log.Debug().Str("calendar", calendarUID).Str("event", eventUID).Msg("EVT_SET applied")
	s.notifyEvent(fmt.Sprintf("EVT_SET:%s", eventUID))
	return nil
}

// EvtGet renders event_uid's stored content lines, per §6 EVT_GET. found is
// false if the calendar or event does not exist.
func (s *Store) EvtGet(calendarUID, eventUID string) (lines []string, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return nil, false
	}
	event, ok := cal.Events[eventUID]
	if !ok {
		return nil, false
	}
	return RenderEvent(event), true
}

// EvtDel removes event_uid and its index postings, per §6 EVT_DEL.
func (s *Store) EvtDel(calendarUID, eventUID string) bool {
	s.mu.Lock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		s.mu.Unlock()
		return false
	}
	deleted := index.DeleteEvent(cal, eventUID)
	s.mu.Unlock()

	if deleted {
		s.log.Debug().Str("calendar", calendarUID).Str("event", eventUID).Msg("EVT_DEL applied")
		s.notifyEvent(fmt.Sprintf("EVT_DEL:%s", eventUID))
	}
	return deleted
}

// EvtList lists every event_uid in calendar_uid, stably sorted, per §6
// EVT_LIST.
func (s *Store) EvtList(calendarUID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return nil
	}
	uids := make([]string, 0, len(cal.Events))
	for uid := range cal.Events {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// EvtPrune deletes every event in calendar_uid whose DTSTART falls in the
// closed range [fromTS, untilTS], updating indices, per §6 EVT_PRUNE.
func (s *Store) EvtPrune(calendarUID string, fromTS, untilTS int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return 0
	}

	var toDelete []string
	for uid, event := range cal.Events {
		if event.Schedule.DTStart == nil {
			continue
		}
		start, err := event.Schedule.DTStart.ToUTC(s.defaultLoc)
		if err != nil {
			continue
		}
		ts := start.Unix()
		if ts >= fromTS && ts <= untilTS {
			toDelete = append(toDelete, uid)
		}
	}

	for _, uid := range toDelete {
		index.DeleteEvent(cal, uid)
		s.notifyEvent(fmt.Sprintf("EVT_PRUNE:%s", uid))
	}
	if len(toDelete) > 0 {
		s.log.Debug().Str("calendar", calendarUID).Int("count", len(toDelete)).Msg("EVT_PRUNE applied")
	}
	return len(toDelete)
}

// EvoSet creates or replaces the override at occurrence_ts on event_uid,
// per §6 EVO_SET. Returns ErrLookup if the event does not exist: an
// override describes an exception to an existing event's occurrence, not
// a standalone component.
func (s *Store) EvoSet(calendarUID, eventUID string, occurrenceTS int64, body string) error {
	override, err := buildOverride(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: calendar %q not found", ErrLookup, calendarUID)
	}
	event, ok := cal.Events[eventUID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: event %q not found in calendar %q", ErrLookup, eventUID, calendarUID)
	}
	event.Overrides[occurrenceTS] = override
	index.SetEvent(cal, event)
	s.mu.Unlock()

	s.log.Debug().Str("calendar", calendarUID).Str("event", eventUID).Int64("ts", occurrenceTS).Msg("EVO_SET applied")
	s.notifyEvent(fmt.Sprintf("EVO_SET:%s:%d", eventUID, occurrenceTS))
	return nil
}

// EvoGet renders the override at occurrence_ts, per §6 EVO_GET.
func (s *Store) EvoGet(calendarUID, eventUID string, occurrenceTS int64) (lines []string, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return nil, false
	}
	event, ok := cal.Events[eventUID]
	if !ok {
		return nil, false
	}
	override, ok := event.Overrides[occurrenceTS]
	if !ok {
		return nil, false
	}
	return RenderOverride(override), true
}

// EvoDel removes the override at occurrence_ts, per §6 EVO_DEL.
func (s *Store) EvoDel(calendarUID, eventUID string, occurrenceTS int64) bool {
	s.mu.Lock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		s.mu.Unlock()
		return false
	}
	event, ok := cal.Events[eventUID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if _, ok := event.Overrides[occurrenceTS]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(event.Overrides, occurrenceTS)
	index.SetEvent(cal, event)
	s.mu.Unlock()

	s.log.Debug().Str("calendar", calendarUID).Str("event", eventUID).Int64("ts", occurrenceTS).Msg("EVO_DEL applied")
	s.notifyEvent(fmt.Sprintf("EVO_DEL:%s:%d", eventUID, occurrenceTS))
	return true
}

// EvoPrune deletes every override in the closed range [fromTS, untilTS],
// scoped to eventUID when non-empty or to every event in calendar_uid
// otherwise, per §6 EVO_PRUNE.
func (s *Store) EvoPrune(calendarUID, eventUID string, fromTS, untilTS int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return 0
	}

	count := 0
	if eventUID != "" {
		event, ok := cal.Events[eventUID]
		if !ok {
			return 0
		}
		n := prunOverrides(event, fromTS, untilTS)
		if n > 0 {
			index.SetEvent(cal, event)
			s.notifyEvent(fmt.Sprintf("EVO_PRUNE:%s", eventUID))
		}
		count = n
	} else {
		for _, event := range cal.Events {
			n := prunOverrides(event, fromTS, untilTS)
			if n > 0 {
				index.SetEvent(cal, event)
				s.notifyEvent(fmt.Sprintf("EVO_PRUNE:%s", event.UID))
			}
			count += n
		}
	}

	if count > 0 {
		s.log.Debug().Str("calendar", calendarUID).Int("count", count).Msg("EVO_PRUNE applied")
	}
	return count
}

// Query parses and executes query_text against calendar_uid, per §6 QUERY
// and §4.7.
func (s *Store) Query(calendarUID, queryText string) (*query.Result, error) {
	q, err := query.Parse(queryText)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	cal, ok := s.calendar(calendarUID, false)
	if !ok {
		return &query.Result{}, nil
	}

	result, err := query.Execute(cal, q, s.defaultLoc, s.occurrenceCap)
	if err != nil {
		return nil, err
	}
	if result.Truncated {
		s.log.Info().Str("calendar", calendarUID).Msg("query result truncated at occurrence cap")
	}
	return result, nil
}

// IdxRebuild recomputes every index from the calendar's events and
// overrides and re-enables index maintenance, per §6 IDX_REBUILD.
func (s *Store) IdxRebuild(calendarUID string) {
	s.mu.Lock()
	cal, _ := s.calendar(calendarUID, true)
	index.Rebuild(cal)
	s.mu.Unlock()

	s.log.Debug().Str("calendar", calendarUID).Msg("IDX_REBUILD applied")
	s.notifyEvent(fmt.Sprintf("IDX_REBUILD:%s", calendarUID))
}

// IdxDisable turns off index maintenance for calendar_uid, per §6
// IDX_DISABLE. Queries relying on the disabled indices degrade per §7
// (the Calendar stays readable but results may be incomplete until
// IDX_REBUILD).
func (s *Store) IdxDisable(calendarUID string) {
	s.mu.Lock()
	cal, _ := s.calendar(calendarUID, true)
	cal.IndexesActive = false
	s.mu.Unlock()

	s.log.Debug().Str("calendar", calendarUID).Msg("IDX_DISABLE applied")
	s.notifyEvent(fmt.Sprintf("IDX_DISABLE:%s", calendarUID))
}
