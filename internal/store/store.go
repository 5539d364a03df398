// Package store owns the in-memory guild state (events, settings, tips) and
// flushes it to a storage backend after every mutation. It is the single
// writer for the process lifetime; all access goes through its mutexes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"

	"github.com/google/uuid"
)

// autoDeleteAfter is how long a fired auto-delete event lingers before the
// cleanup sweep removes it, measured in real time.
const autoDeleteAfter = 24 * time.Hour

// EventStore holds every guild's ordered event list. The 1-based index shown
// to users is positional: deleting an event shifts all later indices down.
type EventStore struct {
	mu      sync.Mutex
	backend storage.Backend
	events  map[string][]*models.Event
}

func NewEventStore(backend storage.Backend) *EventStore {
	return &EventStore{
		backend: backend,
		events:  make(map[string][]*models.Event),
	}
}

// Load reads the events document. Records that fail validation (for example a
// weekly event with an unknown day name) are dropped with a log line, never
// silently repaired. A legacy top-level list is adopted as guild "default",
// and an unreadable document starts the store empty rather than failing.
func (s *EventStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Load(ctx, storage.KeyEvents)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error loading events document, starting empty: %v", err)
		}
		return
	}

	raw := make(map[string][]json.RawMessage)
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		log.Println("events document is in legacy format (list)")
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			log.Printf("Error parsing legacy events document, starting empty: %v", err)
			return
		}
		raw["default"] = list
	} else if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Error parsing events document, starting empty: %v", err)
		return
	}

	s.events = make(map[string][]*models.Event, len(raw))
	for gid, records := range raw {
		list := make([]*models.Event, 0, len(records))
		for _, rec := range records {
			var ev models.Event
			if err := ev.UnmarshalJSON(rec); err != nil {
				log.Printf("Dropping invalid event record for guild %s: %v", gid, err)
				continue
			}
			ev.GuildID = gid
			e := ev
			list = append(list, &e)
		}
		s.events[gid] = list
	}
}

// persistLocked flushes the full snapshot. A write failure is a durability
// gap, not an operation failure: it is logged and the in-memory state stands.
func (s *EventStore) persistLocked() {
	data, err := json.MarshalIndent(s.events, "", "    ")
	if err != nil {
		log.Printf("Error encoding events: %v", err)
		return
	}
	if err := s.backend.Save(context.Background(), storage.KeyEvents, data); err != nil {
		log.Printf("Error saving events: %v", err)
	}
}

// Events returns a guild's events in insertion order.
func (s *EventStore) Events(guildID string) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	out := make([]models.Event, len(list))
	for i, ev := range list {
		out[i] = *ev
	}
	return out
}

// GuildIDs returns every guild that has (or had) events, in stable order.
func (s *EventStore) GuildIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.events))
	for gid := range s.events {
		ids = append(ids, gid)
	}
	sort.Strings(ids)
	return ids
}

// EventByIndex returns the event at a 1-based position.
func (s *EventStore) EventByIndex(guildID string, index int) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	if index < 1 || index > len(list) {
		return models.Event{}, ErrBadIndex
	}
	return *list[index-1], nil
}

func nameEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// AddWeekly appends a weekly event. It rejects a name already used in the
// guild and a time already behind the guild's virtual clock today; future
// weeks are never checked for pastness.
func (s *EventStore) AddWeekly(guildID string, day time.Weekday, tod models.TimeOfDay,
	name, info string, autoDelete bool, virtualNow time.Time) (models.Event, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Event{}, ErrEmptyName
	}
	if !tod.Valid() {
		return models.Event{}, ErrInvalidTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events[guildID] {
		if nameEqual(ev.Name, name) {
			return models.Event{}, ErrDuplicateName
		}
	}

	daysAhead := (int(day) - int(virtualNow.Weekday()) + 7) % 7
	candidate := time.Date(virtualNow.Year(), virtualNow.Month(), virtualNow.Day(),
		tod.Hour, tod.Minute, 0, 0, virtualNow.Location())
	if daysAhead == 0 && candidate.Before(virtualNow) {
		return models.Event{}, ErrPastTime
	}

	ev := &models.Event{
		ID:         uuid.New(),
		GuildID:    guildID,
		Kind:       models.EventWeekly,
		Name:       name,
		Info:       info,
		AutoDelete: autoDelete,
		Day:        day,
		Time:       tod,
	}
	s.events[guildID] = append(s.events[guildID], ev)
	s.persistLocked()

	log.Printf("[ADD EVENT] %s scheduled on %s %s (guild %s)", name, day, tod, guildID)
	return *ev, nil
}

// AddCountdown appends a one-shot event firing at the given virtual instant.
func (s *EventStore) AddCountdown(guildID string, fireAt time.Time,
	name, info string, autoDelete bool, virtualNow time.Time) (models.Event, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Event{}, ErrEmptyName
	}
	if !fireAt.After(virtualNow) {
		return models.Event{}, ErrPastTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := fireAt
	ev := &models.Event{
		ID:         uuid.New(),
		GuildID:    guildID,
		Kind:       models.EventCountdown,
		Name:       name,
		Info:       info,
		AutoDelete: autoDelete,
		FireAt:     &at,
	}
	s.events[guildID] = append(s.events[guildID], ev)
	s.persistLocked()

	log.Printf("[COUNTDOWN] %s scheduled for %s server time (guild %s)",
		name, fireAt.Format("Monday 15:04"), guildID)
	return *ev, nil
}

// EditWeeklyByID updates the day and/or time of the weekly event at a 1-based
// index. A nil day keeps the current one.
func (s *EventStore) EditWeeklyByID(guildID string, index int,
	day *time.Weekday, tod models.TimeOfDay) (models.Event, error) {

	if !tod.Valid() {
		return models.Event{}, ErrInvalidTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	if index < 1 || index > len(list) {
		return models.Event{}, ErrBadIndex
	}
	ev := list[index-1]
	if ev.Kind != models.EventWeekly {
		return models.Event{}, ErrWrongKind
	}

	if day != nil {
		ev.Day = *day
	}
	ev.Time = tod
	s.persistLocked()
	return *ev, nil
}

// EditWeeklyByName updates every weekly event whose name matches,
// case-insensitively, and reports how many were changed.
func (s *EventStore) EditWeeklyByName(guildID, name string,
	day *time.Weekday, tod models.TimeOfDay) (int, error) {

	if !tod.Valid() {
		return 0, ErrInvalidTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ev := range s.events[guildID] {
		if ev.Kind != models.EventWeekly || !nameEqual(ev.Name, name) {
			continue
		}
		if day != nil {
			ev.Day = *day
		}
		ev.Time = tod
		count++
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	s.persistLocked()
	return count, nil
}

// EditCountdownByID replaces the fire instant of the countdown at a 1-based
// index. The new instant is always recomputed from the current virtual time,
// never added to the old one.
func (s *EventStore) EditCountdownByID(guildID string, index int,
	fireAt, virtualNow time.Time) (models.Event, error) {

	if !fireAt.After(virtualNow) {
		return models.Event{}, ErrPastTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	if index < 1 || index > len(list) {
		return models.Event{}, ErrBadIndex
	}
	ev := list[index-1]
	if ev.Kind != models.EventCountdown {
		return models.Event{}, ErrWrongKind
	}

	at := fireAt
	ev.FireAt = &at
	s.persistLocked()
	return *ev, nil
}

// EditCountdownByName replaces the fire instant of every matching countdown.
func (s *EventStore) EditCountdownByName(guildID, name string,
	fireAt, virtualNow time.Time) (int, error) {

	if !fireAt.After(virtualNow) {
		return 0, ErrPastTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ev := range s.events[guildID] {
		if ev.Kind != models.EventCountdown || !nameEqual(ev.Name, name) {
			continue
		}
		at := fireAt
		ev.FireAt = &at
		count++
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	s.persistLocked()
	return count, nil
}

// DeleteByID removes the event at a 1-based index and returns it.
func (s *EventStore) DeleteByID(guildID string, index int) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	if index < 1 || index > len(list) {
		return models.Event{}, ErrBadIndex
	}
	removed := *list[index-1]
	s.events[guildID] = append(list[:index-1], list[index:]...)
	s.persistLocked()
	return removed, nil
}

// DeleteByName removes every event matching the name, of any kind, and
// reports how many were removed.
func (s *EventStore) DeleteByName(guildID, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.deleteWhereLocked(guildID, func(ev *models.Event) bool {
		return nameEqual(ev.Name, name)
	})
	if count > 0 {
		s.persistLocked()
	}
	return count
}

// DeleteAllWeekly removes every weekly event in the guild.
func (s *EventStore) DeleteAllWeekly(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.deleteWhereLocked(guildID, func(ev *models.Event) bool {
		return ev.Kind == models.EventWeekly
	})
	if count > 0 {
		s.persistLocked()
	}
	return count
}

// DeleteAllCountdowns removes every countdown event in the guild.
func (s *EventStore) DeleteAllCountdowns(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.deleteWhereLocked(guildID, func(ev *models.Event) bool {
		return ev.Kind == models.EventCountdown
	})
	if count > 0 {
		s.persistLocked()
	}
	return count
}

// DeleteAll removes every event in the guild.
func (s *EventStore) DeleteAll(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.events[guildID])
	if count > 0 {
		s.events[guildID] = nil
		s.persistLocked()
	}
	return count
}

func (s *EventStore) deleteWhereLocked(guildID string, match func(*models.Event) bool) int {
	list := s.events[guildID]
	kept := list[:0]
	count := 0
	for _, ev := range list {
		if match(ev) {
			count++
			continue
		}
		kept = append(kept, ev)
	}
	s.events[guildID] = kept
	return count
}

// ToggleAutoDelete flips the auto-delete flag of the event at a 1-based index.
func (s *EventStore) ToggleAutoDelete(guildID string, index int) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[guildID]
	if index < 1 || index > len(list) {
		return models.Event{}, ErrBadIndex
	}
	ev := list[index-1]
	ev.AutoDelete = !ev.AutoDelete
	s.persistLocked()
	return *ev, nil
}

// MarkFired records a fire at the given real instant. Only auto-delete events
// track their last fire; for everything else this is a no-op.
func (s *EventStore) MarkFired(guildID string, id uuid.UUID, nowReal time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events[guildID] {
		if ev.ID != id {
			continue
		}
		if ev.AutoDelete {
			at := nowReal
			ev.LastFired = &at
			s.persistLocked()
		}
		return
	}
}

// PurgeExpiredAutoDeletes removes every fired auto-delete event across all
// guilds that is at least 24 real-time hours past its last fire.
func (s *EventStore) PurgeExpiredAutoDeletes(nowReal time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for gid := range s.events {
		removed := s.deleteWhereLocked(gid, func(ev *models.Event) bool {
			if !ev.AutoDelete || ev.LastFired == nil {
				return false
			}
			if nowReal.Before(ev.LastFired.Add(autoDeleteAfter)) {
				return false
			}
			log.Printf("Auto-deleted event %q from guild %s", ev.Name, gid)
			return true
		})
		total += removed
	}
	if total > 0 {
		s.persistLocked()
	}
	return total
}
