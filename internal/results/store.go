package results

import (
	"sync"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"go.uber.org/zap"
)

// Store holds the ranked candidate list of the last search.
// Only ReplaceAll may change the length or order of the set.
type Store struct {
	mu     sync.RWMutex
	items  []*candidate.Candidate
	logger *zap.Logger
}

func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{logger: logger}
}

// ReplaceAll swaps the whole set. Positions are reassigned in the given order.
func (s *Store) ReplaceAll(candidates []*candidate.Candidate) {
	items := make([]*candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		cloned := c.Clone()
		cloned.Position = len(items)
		items = append(items, cloned)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug("result set replaced", zap.Int("count", len(items)))
}

// PatchOne merges c into the entry with the same key and reports whether an
// entry was found. Unknown keys are ignored, nothing is appended.
func (s *Store) PatchOne(c *candidate.Candidate) bool {
	if c == nil {
		return false
	}

	key := c.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, existing := range s.items {
		if existing.Key() != key {
			continue
		}

		merged := candidate.Merge(existing, c)
		merged.Position = existing.Position
		s.items[idx] = merged

		s.logger.Debug("result patched", zap.String("key", key), zap.Int("position", idx))
		return true
	}

	s.logger.Debug("patch ignored, no such candidate", zap.String("key", key))
	return false
}

// Snapshot returns copies of the current entries in ranking order.
func (s *Store) Snapshot() []*candidate.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*candidate.Candidate, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c.Clone())
	}
	return out
}

// Find returns a copy of the entry with the given key.
func (s *Store) Find(key string) *candidate.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.items {
		if c.Key() == key {
			return c.Clone()
		}
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
