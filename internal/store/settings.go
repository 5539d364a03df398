package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/clock"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"
)

// Settings holds per-guild announcement channels and clock offsets, plus
// per-user timezones. It persists as the config document.
type Settings struct {
	mu      sync.Mutex
	backend storage.Backend
	doc     models.GuildConfig
}

func NewSettings(backend storage.Backend) *Settings {
	return &Settings{
		backend: backend,
		doc:     models.NewGuildConfig(),
	}
}

// Load reads the config document. A missing or unreadable document yields
// empty defaults, never a hard failure.
func (s *Settings) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Load(ctx, storage.KeyConfig)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error loading config document, starting empty: %v", err)
		}
		return
	}

	doc := models.NewGuildConfig()
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Error parsing config document, starting empty: %v", err)
		return
	}
	if doc.Channels == nil {
		doc.Channels = make(map[string]string)
	}
	if doc.ServerOffsets == nil {
		doc.ServerOffsets = make(map[string]int)
	}
	if doc.UserTimezones == nil {
		doc.UserTimezones = make(map[string]string)
	}
	s.doc = doc
}

func (s *Settings) persistLocked() {
	data, err := json.MarshalIndent(s.doc, "", "    ")
	if err != nil {
		log.Printf("Error encoding config: %v", err)
		return
	}
	if err := s.backend.Save(context.Background(), storage.KeyConfig, data); err != nil {
		log.Printf("Error saving config: %v", err)
	}
}

// SetChannel sets the guild's announcement channel.
func (s *Settings) SetChannel(guildID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Channels[guildID] = channelID
	s.persistLocked()
}

// Channel returns the guild's announcement channel, if one is configured.
func (s *Settings) Channel(guildID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.doc.Channels[guildID]
	return id, ok
}

// Channels returns a copy of the full guild-to-channel mapping.
func (s *Settings) Channels() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.doc.Channels))
	for gid, ch := range s.doc.Channels {
		out[gid] = ch
	}
	return out
}

// SetOffset replaces the guild's virtual clock offset outright.
func (s *Settings) SetOffset(guildID string, minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ServerOffsets[guildID] = minutes
	s.persistLocked()
}

// AddOffset adds a delta to the guild's offset and returns the new total.
// Day shifts are additive, unlike the absolute clock-set operation.
func (s *Settings) AddOffset(guildID string, deltaMinutes int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ServerOffsets[guildID] += deltaMinutes
	s.persistLocked()
	return s.doc.ServerOffsets[guildID]
}

// Offset returns the guild's offset in minutes and whether it was ever set.
// An unset offset reads as zero.
func (s *Settings) Offset(guildID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, ok := s.doc.ServerOffsets[guildID]
	return off, ok
}

// SetUserTimezone validates and stores a user's IANA timezone. Validation
// happens here, eagerly, so display paths never have to handle a bad zone.
func (s *Settings) SetUserTimezone(userID, tz string) error {
	if err := clock.ValidateTimezone(tz); err != nil {
		return fmt.Errorf("error validating timezone: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.UserTimezones[userID] = tz
	s.persistLocked()
	return nil
}

// UserTimezone returns the user's timezone, if set.
func (s *Settings) UserTimezone(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tz, ok := s.doc.UserTimezones[userID]
	return tz, ok
}
