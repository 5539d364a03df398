package store

import "errors"

// Store-level rejections. Command handlers translate these into user-facing
// messages; none of them is ever fatal.
var (
	// Conflicts.
	ErrDuplicateName = errors.New("an event with that name already exists")
	ErrPastTime      = errors.New("that time has already passed")

	// Lookups.
	ErrNotFound  = errors.New("no event with that name")
	ErrBadIndex  = errors.New("no event at that index")
	ErrWrongKind = errors.New("event is not of that kind")

	// Validation.
	ErrEmptyName   = errors.New("event name must not be empty")
	ErrInvalidTime = errors.New("time must be a valid 24h HH:MM value")
)
