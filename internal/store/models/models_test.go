package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Friday", time.Friday, false},
		{"  SUNDAY ", time.Sunday, false},
		{"Frotsday", 0, true},
		{"mon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseWeekday(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:30", TimeOfDay{Hour: 9, Minute: 30}, false},
		{"00:00", TimeOfDay{}, false},
		{"23:59", TimeOfDay{Hour: 23, Minute: 59}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
		{"12", TimeOfDay{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEventUnmarshalLegacyAliases(t *testing.T) {
	// Records written by the old bot: no id, "type" instead of "kind",
	// zone-less timestamps.
	raw := []byte(`{
        "type": "countdown",
        "name": "Patch",
        "info": "server maintenance",
        "timestamp": "2026-03-05T12:00:00",
        "last_trigger": "2026-03-01T09:00:00"
    }`)

	var ev Event
	if err := ev.UnmarshalJSON(raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != EventCountdown {
		t.Errorf("kind = %q, want countdown", ev.Kind)
	}
	if ev.ID == uuid.Nil {
		t.Error("missing id should be minted, not zero")
	}
	wantFire := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	if ev.FireAt == nil || !ev.FireAt.Equal(wantFire) {
		t.Errorf("FireAt = %v, want %v", ev.FireAt, wantFire)
	}
	wantLast := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	if ev.LastFired == nil || !ev.LastFired.Equal(wantLast) {
		t.Errorf("LastFired = %v, want %v", ev.LastFired, wantLast)
	}
}

func TestEventUnmarshalLegacyNormalType(t *testing.T) {
	raw := []byte(`{"type": "normal", "name": "Raid", "day": "friday", "time": "19:30"}`)

	var ev Event
	if err := ev.UnmarshalJSON(raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != EventWeekly || ev.Day != time.Friday {
		t.Errorf("got %q on %v, want weekly Friday", ev.Kind, ev.Day)
	}
	if ev.Time != (TimeOfDay{Hour: 19, Minute: 30}) {
		t.Errorf("time = %v, want 19:30", ev.Time)
	}
}

func TestEventUnmarshalRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no name", `{"kind": "weekly", "day": "monday", "time": "09:00"}`},
		{"bad day", `{"kind": "weekly", "name": "x", "day": "Frotsday", "time": "09:00"}`},
		{"bad time", `{"kind": "weekly", "name": "x", "day": "monday", "time": "25:00"}`},
		{"unknown kind", `{"kind": "yearly", "name": "x"}`},
		{"countdown without instant", `{"kind": "countdown", "name": "x"}`},
		{"bad id", `{"id": "not-a-uuid", "kind": "weekly", "name": "x", "day": "monday", "time": "09:00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev Event
			if err := ev.UnmarshalJSON([]byte(tt.raw)); err == nil {
				t.Errorf("expected error for %s", tt.raw)
			}
		})
	}
}

func TestEventMarshalRoundTrip(t *testing.T) {
	fireAt := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	tests := []Event{
		{
			Kind: EventWeekly, Name: "Raid", Info: "bring potions",
			Day: time.Friday, Time: TimeOfDay{Hour: 19, Minute: 30}, AutoDelete: true,
		},
		{
			Kind: EventCountdown, Name: "Patch", FireAt: &fireAt,
		},
	}
	for _, in := range tests {
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal %s: %v", in.Name, err)
		}
		var out Event
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", in.Name, err)
		}
		if out.Kind != in.Kind || out.Name != in.Name || out.Info != in.Info ||
			out.AutoDelete != in.AutoDelete || out.Day != in.Day || out.Time != in.Time {
			t.Errorf("round trip changed %s: %+v -> %+v", in.Name, in, out)
		}
		if in.FireAt != nil && (out.FireAt == nil || !out.FireAt.Equal(*in.FireAt)) {
			t.Errorf("FireAt = %v, want %v", out.FireAt, in.FireAt)
		}
	}
}
