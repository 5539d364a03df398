package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind tags the two event variants. Every consumer switches on it
// exhaustively and treats unknown kinds as an error.
type EventKind string

const (
	EventWeekly    EventKind = "weekly"
	EventCountdown EventKind = "countdown"
)

// TimeOfDay is a 24h clock-face time, serialized as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimeOfDay parses "HH:MM" in 24-hour format.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// ParseWeekday resolves a full English weekday name, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day name %q", s)
}

// Event is a scheduled announcement for a guild. Weekly events carry Day and
// Time (interpreted in the guild's virtual clock); countdown events carry
// FireAt, stored as an absolute virtual instant so later clock changes do not
// move it. LastFired is set only after an auto-delete event fires.
type Event struct {
	ID         uuid.UUID
	GuildID    string
	Kind       EventKind
	Name       string
	Info       string
	AutoDelete bool

	Day  time.Weekday // weekly only
	Time TimeOfDay    // weekly only

	FireAt *time.Time // countdown only, virtual instant

	LastFired *time.Time // absolute real time of the last fire
}

// eventJSON is the wire form. The legacy aliases (type/timestamp/last_trigger)
// keep events.json files written by the old Python bot loadable.
type eventJSON struct {
	ID          string `json:"id,omitempty"`
	GuildID     string `json:"guild_id,omitempty"`
	Kind        string `json:"kind,omitempty"`
	LegacyType  string `json:"type,omitempty"`
	Name        string `json:"name"`
	Info        string `json:"info"`
	AutoDelete  bool   `json:"auto_delete,omitempty"`
	Day         string `json:"day,omitempty"`
	Time        string `json:"time,omitempty"`
	FireAt      string `json:"fire_at,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	LastFired   string `json:"last_fired,omitempty"`
	LastTrigger string `json:"last_trigger,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		ID:         e.ID.String(),
		GuildID:    e.GuildID,
		Kind:       string(e.Kind),
		Name:       e.Name,
		Info:       e.Info,
		AutoDelete: e.AutoDelete,
	}
	switch e.Kind {
	case EventWeekly:
		out.Day = e.Day.String()
		out.Time = e.Time.String()
	case EventCountdown:
		if e.FireAt != nil {
			out.FireAt = e.FireAt.Format(time.RFC3339)
		}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.LastFired != nil {
		out.LastFired = e.LastFired.Format(time.RFC3339)
	}
	return json.Marshal(out)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	ev := Event{
		GuildID:    in.GuildID,
		Name:       strings.TrimSpace(in.Name),
		Info:       in.Info,
		AutoDelete: in.AutoDelete,
	}
	if ev.Name == "" {
		return fmt.Errorf("event has no name")
	}

	if in.ID != "" {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return fmt.Errorf("invalid event id %q: %w", in.ID, err)
		}
		ev.ID = id
	} else {
		// Records written by the Python bot have no ID.
		ev.ID = uuid.New()
	}

	kind := in.Kind
	if kind == "" {
		// Legacy tag: "normal" means weekly, and an absent tag meant weekly too.
		switch in.LegacyType {
		case "countdown":
			kind = string(EventCountdown)
		case "normal", "":
			kind = string(EventWeekly)
		default:
			return fmt.Errorf("unknown event type %q", in.LegacyType)
		}
	}

	switch EventKind(kind) {
	case EventWeekly:
		ev.Kind = EventWeekly
		day, err := ParseWeekday(in.Day)
		if err != nil {
			return fmt.Errorf("event %q: %w", ev.Name, err)
		}
		tod, err := ParseTimeOfDay(in.Time)
		if err != nil {
			return fmt.Errorf("event %q: %w", ev.Name, err)
		}
		ev.Day = day
		ev.Time = tod
	case EventCountdown:
		ev.Kind = EventCountdown
		raw := in.FireAt
		if raw == "" {
			raw = in.Timestamp
		}
		at, err := parseInstant(raw)
		if err != nil {
			return fmt.Errorf("event %q: invalid fire time: %w", ev.Name, err)
		}
		ev.FireAt = &at
	default:
		return fmt.Errorf("unknown event kind %q", kind)
	}

	rawLast := in.LastFired
	if rawLast == "" {
		rawLast = in.LastTrigger
	}
	if rawLast != "" {
		last, err := parseInstant(rawLast)
		if err != nil {
			return fmt.Errorf("event %q: invalid last fired time: %w", ev.Name, err)
		}
		ev.LastFired = &last
	}

	*e = ev
	return nil
}

// parseInstant accepts RFC 3339 and the zone-less ISO form the Python bot
// wrote with datetime.isoformat() (treated as UTC).
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// GuildConfig is the persisted per-guild/per-user configuration document.
type GuildConfig struct {
	Channels      map[string]string `json:"channels"`
	ServerOffsets map[string]int    `json:"server_offsets"`
	UserTimezones map[string]string `json:"user_timezones"`
}

// NewGuildConfig returns an empty config with all maps allocated.
func NewGuildConfig() GuildConfig {
	return GuildConfig{
		Channels:      make(map[string]string),
		ServerOffsets: make(map[string]int),
		UserTimezones: make(map[string]string),
	}
}
