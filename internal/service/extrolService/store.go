package extrolService

import (
	"sync"

	"github.com/KotFed0t/extrol_cli/internal/model"
)

// entryStore is the authoritative in-memory entry set for the current
// session. Mutations happen only after server confirmation; insertion
// order is irrelevant because sorting is always re-derived.
type entryStore struct {
	mu      sync.RWMutex
	entries []model.Entry
}

func (s *entryStore) replaceAll(entries []model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]model.Entry(nil), entries...)
}

func (s *entryStore) append(entry model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *entryStore) updateByID(entry model.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			return true
		}
	}
	return false
}

func (s *entryStore) removeByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *entryStore) snapshot() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Entry(nil), s.entries...)
}

func (s *entryStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
