package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"
)

// TipStore keeps per-guild tip lists for the daily tip broadcast.
type TipStore struct {
	mu      sync.Mutex
	backend storage.Backend
	tips    map[string][]string
}

func NewTipStore(backend storage.Backend) *TipStore {
	return &TipStore{
		backend: backend,
		tips:    make(map[string][]string),
	}
}

// Load reads the tips document; a missing or unreadable document starts empty.
func (t *TipStore) Load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.backend.Load(ctx, storage.KeyTips)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error loading tips document, starting empty: %v", err)
		}
		return
	}

	tips := make(map[string][]string)
	if err := json.Unmarshal(data, &tips); err != nil {
		log.Printf("Error parsing tips document, starting empty: %v", err)
		return
	}
	t.tips = tips
}

func (t *TipStore) persistLocked() {
	data, err := json.MarshalIndent(t.tips, "", "    ")
	if err != nil {
		log.Printf("Error encoding tips: %v", err)
		return
	}
	if err := t.backend.Save(context.Background(), storage.KeyTips, data); err != nil {
		log.Printf("Error saving tips: %v", err)
	}
}

// Add appends a tip for the guild.
func (t *TipStore) Add(guildID, tip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tips[guildID] = append(t.tips[guildID], tip)
	t.persistLocked()
}

// Remove deletes the tip at a 1-based index and returns it.
func (t *TipStore) Remove(guildID string, index int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.tips[guildID]
	if index < 1 || index > len(list) {
		return "", ErrBadIndex
	}
	removed := list[index-1]
	t.tips[guildID] = append(list[:index-1], list[index:]...)
	t.persistLocked()
	return removed, nil
}

// List returns the guild's tips in insertion order.
func (t *TipStore) List(guildID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.tips[guildID]...)
}

// Random picks one of the guild's tips, if any exist.
func (t *TipStore) Random(guildID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.tips[guildID]
	if len(list) == 0 {
		return "", false
	}
	return list[rand.Intn(len(list))], true
}
