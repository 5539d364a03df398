package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"
)

// memBackend is an in-memory storage.Backend for tests.
type memBackend struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{docs: make(map[string][]byte)}
}

func (m *memBackend) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	return data, nil
}

func (m *memBackend) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
	return nil
}

// March 2 2026 is a Monday.
var monday10 = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func TestAddWeeklyRejectsDuplicateName(t *testing.T) {
	s := NewEventStore(newMemBackend())

	if _, err := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "Raid", "", false, monday10); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := s.AddWeekly("g", time.Friday, models.TimeOfDay{Hour: 12}, "  raid ", "", false, monday10)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	// A countdown with the same name is also a duplicate.
	if _, err := s.AddCountdown("g", monday10.Add(time.Hour), "RAID", "", false, monday10); err == nil {
		t.Error("countdown reusing a weekly name should fail")
	}

	// Same name in another guild is fine.
	if _, err := s.AddWeekly("other", time.Tuesday, models.TimeOfDay{Hour: 9}, "Raid", "", false, monday10); err != nil {
		t.Errorf("same name in another guild rejected: %v", err)
	}
}

func TestAddWeeklyPastnessIsSameDayOnly(t *testing.T) {
	s := NewEventStore(newMemBackend())

	// Earlier today is rejected.
	_, err := s.AddWeekly("g", time.Monday, models.TimeOfDay{Hour: 9}, "early", "", false, monday10)
	if !errors.Is(err, ErrPastTime) {
		t.Errorf("expected ErrPastTime for earlier today, got %v", err)
	}

	// Exactly now is allowed.
	if _, err := s.AddWeekly("g", time.Monday, models.TimeOfDay{Hour: 10}, "now", "", false, monday10); err != nil {
		t.Errorf("adding at the current minute failed: %v", err)
	}

	// The same clock time on another weekday is always a future occurrence.
	if _, err := s.AddWeekly("g", time.Sunday, models.TimeOfDay{Hour: 9}, "sunday", "", false, monday10); err != nil {
		t.Errorf("other weekday rejected as past: %v", err)
	}
}

func TestAddWeeklyValidation(t *testing.T) {
	s := NewEventStore(newMemBackend())

	if _, err := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "   ", "", false, monday10); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 25}, "x", "", false, monday10); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

func TestAddCountdownRejectsElapsed(t *testing.T) {
	s := NewEventStore(newMemBackend())

	if _, err := s.AddCountdown("g", monday10, "zero", "", false, monday10); !errors.Is(err, ErrPastTime) {
		t.Errorf("expected ErrPastTime for zero duration, got %v", err)
	}
	if _, err := s.AddCountdown("g", monday10.Add(-time.Minute), "past", "", false, monday10); !errors.Is(err, ErrPastTime) {
		t.Errorf("expected ErrPastTime for elapsed instant, got %v", err)
	}
	if _, err := s.AddCountdown("g", monday10.Add(time.Minute), "soon", "", false, monday10); err != nil {
		t.Errorf("future countdown rejected: %v", err)
	}
}

func TestDeleteByIDShiftsIndices(t *testing.T) {
	s := NewEventStore(newMemBackend())
	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, name, "", false, monday10); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	removed, err := s.DeleteByID("g", 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.Name != "a" {
		t.Errorf("removed %q, want a", removed.Name)
	}

	ev, err := s.EventByIndex("g", 1)
	if err != nil {
		t.Fatalf("index 1 after delete: %v", err)
	}
	if ev.Name != "b" {
		t.Errorf("index 1 is %q after delete, want b", ev.Name)
	}
	if _, err := s.EventByIndex("g", 3); !errors.Is(err, ErrBadIndex) {
		t.Errorf("expected ErrBadIndex past end, got %v", err)
	}
}

func TestDeleteByNameAndKind(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "raid", "", false, monday10)
	s.AddWeekly("g", time.Friday, models.TimeOfDay{Hour: 9}, "war", "", false, monday10)
	s.AddCountdown("g", monday10.Add(time.Hour), "patch", "", false, monday10)

	if n := s.DeleteByName("g", "RAID"); n != 1 {
		t.Errorf("DeleteByName = %d, want 1", n)
	}
	if n := s.DeleteAllCountdowns("g"); n != 1 {
		t.Errorf("DeleteAllCountdowns = %d, want 1", n)
	}
	if n := s.DeleteAllWeekly("g"); n != 1 {
		t.Errorf("DeleteAllWeekly = %d, want 1", n)
	}
	if n := s.DeleteAll("g"); n != 0 {
		t.Errorf("DeleteAll on empty = %d, want 0", n)
	}
}

func TestEditWeeklyByNameUpdatesAllMatches(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "raid", "", false, monday10)
	s.AddCountdown("g", monday10.Add(time.Hour), "patch", "", false, monday10)

	friday := time.Friday
	n, err := s.EditWeeklyByName("g", "Raid", &friday, models.TimeOfDay{Hour: 20, Minute: 15})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if n != 1 {
		t.Errorf("edited %d events, want 1", n)
	}
	ev, _ := s.EventByIndex("g", 1)
	if ev.Day != time.Friday || ev.Time.Hour != 20 || ev.Time.Minute != 15 {
		t.Errorf("event not updated: %v %v", ev.Day, ev.Time)
	}

	if _, err := s.EditWeeklyByName("g", "patch", nil, models.TimeOfDay{Hour: 8}); !errors.Is(err, ErrNotFound) {
		t.Errorf("editing a countdown as weekly: got %v, want ErrNotFound", err)
	}
}

func TestEditWeeklyByIDKeepsDayWhenNil(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "raid", "", false, monday10)

	ev, err := s.EditWeeklyByID("g", 1, nil, models.TimeOfDay{Hour: 11, Minute: 30})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if ev.Day != time.Tuesday {
		t.Errorf("day changed to %v, want Tuesday", ev.Day)
	}
	if ev.Time.Hour != 11 || ev.Time.Minute != 30 {
		t.Errorf("time = %v, want 11:30", ev.Time)
	}

	s.AddCountdown("g", monday10.Add(time.Hour), "patch", "", false, monday10)
	if _, err := s.EditWeeklyByID("g", 2, nil, models.TimeOfDay{Hour: 8}); !errors.Is(err, ErrWrongKind) {
		t.Errorf("expected ErrWrongKind, got %v", err)
	}
}

func TestEditCountdownRecomputesInstant(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.AddCountdown("g", monday10.Add(time.Hour), "patch", "", false, monday10)

	later := monday10.Add(3 * time.Hour)
	ev, err := s.EditCountdownByID("g", 1, later, monday10)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !ev.FireAt.Equal(later) {
		t.Errorf("FireAt = %v, want %v", ev.FireAt, later)
	}

	if _, err := s.EditCountdownByID("g", 1, monday10.Add(-time.Minute), monday10); !errors.Is(err, ErrPastTime) {
		t.Errorf("expected ErrPastTime, got %v", err)
	}
}

func TestMarkFiredOnlyTracksAutoDelete(t *testing.T) {
	s := NewEventStore(newMemBackend())
	plain, _ := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "plain", "", false, monday10)
	auto, _ := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 10}, "auto", "", true, monday10)

	s.MarkFired("g", plain.ID, monday10)
	s.MarkFired("g", auto.ID, monday10)

	events := s.Events("g")
	if events[0].LastFired != nil {
		t.Error("non-auto-delete event should not track LastFired")
	}
	if events[1].LastFired == nil || !events[1].LastFired.Equal(monday10) {
		t.Errorf("auto-delete event LastFired = %v, want %v", events[1].LastFired, monday10)
	}
}

func TestPurgeExpiredAutoDeletesBoundary(t *testing.T) {
	s := NewEventStore(newMemBackend())
	auto, _ := s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "auto", "", true, monday10)
	s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 10}, "keep", "", true, monday10)
	s.MarkFired("g", auto.ID, monday10)

	if n := s.PurgeExpiredAutoDeletes(monday10.Add(24*time.Hour - time.Second)); n != 0 {
		t.Errorf("purged %d events one second early, want 0", n)
	}
	if n := s.PurgeExpiredAutoDeletes(monday10.Add(24 * time.Hour)); n != 1 {
		t.Errorf("purged %d events at the boundary, want 1", n)
	}
	events := s.Events("g")
	if len(events) != 1 || events[0].Name != "keep" {
		t.Errorf("unexpected survivors: %v", events)
	}
}

func TestLoadAdoptsLegacyList(t *testing.T) {
	backend := newMemBackend()
	backend.docs[storage.KeyEvents] = []byte(`[
        {"type": "normal", "name": "Raid", "info": "", "day": "friday", "time": "19:30"},
        {"type": "countdown", "name": "Patch", "info": "", "timestamp": "2026-03-05T12:00:00"}
    ]`)

	s := NewEventStore(backend)
	s.Load(context.Background())

	events := s.Events("default")
	if len(events) != 2 {
		t.Fatalf("loaded %d events, want 2", len(events))
	}
	if events[0].Kind != models.EventWeekly || events[0].Day != time.Friday {
		t.Errorf("first event = %v %v, want weekly Friday", events[0].Kind, events[0].Day)
	}
	if events[1].Kind != models.EventCountdown || events[1].FireAt == nil {
		t.Fatalf("second event not a countdown with fire time: %+v", events[1])
	}
	want := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	if !events[1].FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", events[1].FireAt, want)
	}
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	backend := newMemBackend()
	backend.docs[storage.KeyEvents] = []byte(`{
        "g": [
            {"kind": "weekly", "name": "good", "info": "", "day": "monday", "time": "09:00"},
            {"kind": "weekly", "name": "bad", "info": "", "day": "Frotsday", "time": "09:00"},
            {"kind": "weekly", "name": "", "info": "", "day": "tuesday", "time": "09:00"}
        ]
    }`)

	s := NewEventStore(backend)
	s.Load(context.Background())

	events := s.Events("g")
	if len(events) != 1 || events[0].Name != "good" {
		t.Fatalf("loaded %v, want only the valid record", events)
	}
	if events[0].GuildID != "g" {
		t.Errorf("GuildID = %q, want g", events[0].GuildID)
	}
}

func TestLoadMissingDocumentStartsEmpty(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.Load(context.Background())
	if ids := s.GuildIDs(); len(ids) != 0 {
		t.Errorf("expected no guilds, got %v", ids)
	}
}

func TestLoadCorruptDocumentStartsEmpty(t *testing.T) {
	backend := newMemBackend()
	backend.docs[storage.KeyEvents] = []byte(`{not json`)
	s := NewEventStore(backend)
	s.Load(context.Background())
	if ids := s.GuildIDs(); len(ids) != 0 {
		t.Errorf("expected no guilds, got %v", ids)
	}
}

func TestEventsSurviveReload(t *testing.T) {
	backend := newMemBackend()
	s := NewEventStore(backend)
	added, err := s.AddCountdown("g", monday10.Add(2*time.Hour), "patch", "notes", true, monday10)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	s2 := NewEventStore(backend)
	s2.Load(context.Background())
	events := s2.Events("g")
	if len(events) != 1 {
		t.Fatalf("reloaded %d events, want 1", len(events))
	}
	got := events[0]
	if got.ID != added.ID || got.Name != "patch" || got.Info != "notes" || !got.AutoDelete {
		t.Errorf("reloaded event mismatch: %+v", got)
	}
	if !got.FireAt.Equal(*added.FireAt) {
		t.Errorf("FireAt = %v, want %v", got.FireAt, added.FireAt)
	}
}

func TestToggleAutoDelete(t *testing.T) {
	s := NewEventStore(newMemBackend())
	s.AddWeekly("g", time.Tuesday, models.TimeOfDay{Hour: 9}, "raid", "", false, monday10)

	ev, err := s.ToggleAutoDelete("g", 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !ev.AutoDelete {
		t.Error("first toggle should enable auto-delete")
	}
	ev, _ = s.ToggleAutoDelete("g", 1)
	if ev.AutoDelete {
		t.Error("second toggle should disable auto-delete")
	}
	if _, err := s.ToggleAutoDelete("g", 5); !errors.Is(err, ErrBadIndex) {
		t.Errorf("expected ErrBadIndex, got %v", err)
	}
}
