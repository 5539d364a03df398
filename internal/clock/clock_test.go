package clock

import (
	"testing"
	"time"
)

// March 2 2026 is a Monday.
var monday10 = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func TestVirtualRealRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 90, -45, 3 * 24 * 60} {
		v := ToVirtual(monday10, offset)
		if got := ToReal(v, offset); !got.Equal(monday10) {
			t.Errorf("offset %d: round trip got %v, want %v", offset, got, monday10)
		}
	}
	if got := ToVirtual(monday10, 90); got.Hour() != 11 || got.Minute() != 30 {
		t.Errorf("ToVirtual(+90) = %v, want 11:30", got)
	}
}

func TestNextWeeklyOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		day    time.Weekday
		hour   int
		minute int
		want   time.Time
	}{
		{"later today", time.Monday, 15, 30, time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC)},
		{"earlier today wraps a week", time.Monday, 9, 0, time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)},
		{"exactly now wraps a week", time.Monday, 10, 0, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Tuesday, 8, 0, time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)},
		{"yesterday's weekday", time.Sunday, 12, 0, time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeeklyOccurrence(tt.day, tt.hour, tt.minute, monday10)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if !got.After(monday10) {
				t.Errorf("occurrence %v is not strictly after %v", got, monday10)
			}
		})
	}
}

func TestClockSetOffset(t *testing.T) {
	wednesday := time.Wednesday
	tests := []struct {
		name   string
		day    *time.Weekday
		hour   int
		minute int
		want   int
	}{
		{"same day ahead", nil, 15, 30, 330},
		{"same day behind goes negative", nil, 9, 0, -60},
		{"no change", nil, 10, 0, 0},
		{"two days ahead", &wednesday, 10, 0, 2 * 24 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClockSetOffset(tt.day, tt.hour, tt.minute, monday10); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	// Sub-minute part of the real clock must not leak into the offset.
	if got := ClockSetOffset(nil, 15, 30, monday10.Add(42*time.Second)); got != 330 {
		t.Errorf("seconds not truncated: got %d, want 330", got)
	}
}

func TestDayShiftOffset(t *testing.T) {
	if got := DayShiftOffset(time.Thursday, monday10); got != 3*24*60 {
		t.Errorf("Monday->Thursday = %d, want %d", got, 3*24*60)
	}
	if got := DayShiftOffset(time.Monday, monday10); got != 0 {
		t.Errorf("Monday->Monday = %d, want 0", got)
	}
	if got := DayShiftOffset(time.Sunday, monday10); got != 6*24*60 {
		t.Errorf("Monday->Sunday = %d, want %d", got, 6*24*60)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1d 03:30", 27*time.Hour + 30*time.Minute, false},
		{"2d", 48 * time.Hour, false},
		{"00:45", 45 * time.Minute, false},
		{"03:15", 3*time.Hour + 15*time.Minute, false},
		{"-1d", -24 * time.Hour, false},
		{"  1D 00:05 ", 24*time.Hour + 5*time.Minute, false},
		{"", 0, true},
		{"banana", 0, true},
		{"1:75", 0, true},
		{"d", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateTimezone(t *testing.T) {
	if err := ValidateTimezone("Europe/Berlin"); err != nil {
		t.Errorf("Europe/Berlin should be valid: %v", err)
	}
	if err := ValidateTimezone("Mars/Olympus"); err == nil {
		t.Error("Mars/Olympus should be rejected")
	}
}

func TestUserLocal(t *testing.T) {
	local, err := UserLocal(monday10, "Europe/Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Berlin is UTC+1 in early March.
	if local.Hour() != 11 {
		t.Errorf("local hour = %d, want 11", local.Hour())
	}
	if _, err := UserLocal(monday10, "nope"); err == nil {
		t.Error("expected error for bad timezone")
	}
}
