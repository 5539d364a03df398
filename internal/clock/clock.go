// Package clock translates between real UTC time, per-guild virtual "server
// time" (real time plus an integer minute offset), and per-user local time.
// All functions are pure; the guild offset itself lives in the settings store.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToVirtual shifts a real instant into a guild's virtual clock.
func ToVirtual(real time.Time, offsetMinutes int) time.Time {
	return real.Add(time.Duration(offsetMinutes) * time.Minute)
}

// ToReal shifts a virtual instant back to real time.
func ToReal(virtual time.Time, offsetMinutes int) time.Time {
	return virtual.Add(-time.Duration(offsetMinutes) * time.Minute)
}

// ValidateTimezone checks that tz resolves to an IANA location. Timezones are
// validated here, when set, never at display time.
func ValidateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return nil
}

// UserLocal converts a real instant into the user's timezone for display.
func UserLocal(real time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return real.In(loc), nil
}

// NextWeeklyOccurrence returns the soonest virtual instant strictly after
// virtualNow that falls on the given weekday at hour:minute. A candidate equal
// to or before virtualNow is pushed out by exactly seven days, so callers
// always get a genuine future time.
func NextWeeklyOccurrence(day time.Weekday, hour, minute int, virtualNow time.Time) time.Time {
	candidate := time.Date(virtualNow.Year(), virtualNow.Month(), virtualNow.Day(),
		hour, minute, 0, 0, virtualNow.Location())
	daysAhead := (int(day) - int(virtualNow.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, daysAhead)
	if !candidate.After(virtualNow) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// ClockSetOffset computes the absolute minute offset that makes realNow
// display as the requested clock-face time, on the requested weekday if one
// is given. The result replaces any previous offset; it is not cumulative.
func ClockSetOffset(day *time.Weekday, hour, minute int, realNow time.Time) int {
	now := realNow.Truncate(time.Minute)
	daysAhead := 0
	if day != nil {
		daysAhead = (int(*day) - int(now.Weekday()) + 7) % 7
	}
	target := time.Date(now.Year(), now.Month(), now.Day(),
		hour, minute, 0, 0, now.Location())
	target = target.AddDate(0, 0, daysAhead)
	return int(target.Sub(now) / time.Minute)
}

// DayShiftOffset returns the minute delta that rolls the virtual day-of-week
// forward to the target day while keeping the clock-face time fixed. Unlike
// ClockSetOffset, this delta is ADDED to the guild's existing offset.
func DayShiftOffset(day time.Weekday, realNow time.Time) int {
	deltaDays := (int(day) - int(realNow.Weekday()) + 7) % 7
	return deltaDays * 24 * 60
}

// ParseDuration parses countdown durations like "1d 03:30", "2d" or "00:45":
// an optional day count suffixed with 'd' and an optional HH:MM part.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty duration")
	}

	var days, hours, minutes int
	seen := false
	for _, part := range parts {
		switch {
		case strings.HasSuffix(part, "d"):
			n, err := strconv.Atoi(strings.TrimSuffix(part, "d"))
			if err != nil {
				return 0, fmt.Errorf("invalid day count %q", part)
			}
			days = n
			seen = true
		case strings.Contains(part, ":"):
			hm := strings.SplitN(part, ":", 2)
			h, err := strconv.Atoi(hm[0])
			if err != nil {
				return 0, fmt.Errorf("invalid hours in %q", part)
			}
			m, err := strconv.Atoi(hm[1])
			if err != nil || m < 0 || m > 59 {
				return 0, fmt.Errorf("invalid minutes in %q", part)
			}
			hours = h
			minutes = m
			seen = true
		default:
			return 0, fmt.Errorf("invalid duration part %q, expected like \"1d 03:30\"", part)
		}
	}
	if !seen {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	return time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute, nil
}
