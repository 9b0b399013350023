// Package session provides the per-counterpart conversation state store.
//
// State lives in a single process and is keyed by the counterpart's transport
// address. Each entry carries a turn lock so the orchestrator can serialize
// turns for one counterpart while other counterparts proceed concurrently.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

// Session is the durable per-conversation record: the current state tag plus
// the scratch data accumulated during the scheduling flow.
type Session struct {
	State     models.State
	Scratch   models.Scratch
	UpdatedAt time.Time
}

// Store abstracts the conversation state storage so handler logic stays
// independent of the concurrency model backing it.
type Store interface {
	// Get returns the session for a counterpart. An unknown counterpart yields
	// the zero Session (implicit pre-menu state).
	Get(id string) Session

	// Set commits the session for a counterpart.
	Set(id string, s Session)

	// Clear discards state and scratch for a counterpart.
	Clear(id string)

	// Lock acquires the counterpart's turn lock and returns the unlock func.
	Lock(id string) func()
}

type entry struct {
	turn sync.Mutex
	sess Session
}

// InMemoryStore is the process-local Store implementation.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*entry)}
}

func (s *InMemoryStore) entryFor(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	return e
}

// Get returns the current session for a counterpart.
func (s *InMemoryStore) Get(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e.sess
	}
	return Session{}
}

// Set commits the session for a counterpart. The map write is the only
// durable side effect of a turn.
func (s *InMemoryStore) Set(id string, sess Session) {
	sess.UpdatedAt = time.Now()
	e := s.entryFor(id)
	s.mu.Lock()
	e.sess = sess
	s.mu.Unlock()
	slog.Debug("SessionStore Set", "id", id, "state", sess.State)
}

// Clear discards state and scratch for a counterpart. The entry itself is
// kept so the turn lock stays stable.
func (s *InMemoryStore) Clear(id string) {
	e := s.entryFor(id)
	s.mu.Lock()
	e.sess = Session{}
	s.mu.Unlock()
	slog.Debug("SessionStore Clear", "id", id)
}

// Lock acquires the per-counterpart turn lock. Two rapid messages from the
// same counterpart execute sequentially; distinct counterparts do not contend.
func (s *InMemoryStore) Lock(id string) func() {
	e := s.entryFor(id)
	e.turn.Lock()
	return e.turn.Unlock
}

// Len returns the number of tracked counterparts.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ExpireIdle resets every mid-flow session that has been idle longer than ttl
// back to the implicit pre-menu state and returns how many were reset.
func (s *InMemoryStore) ExpireIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := 0
	for id, e := range s.entries {
		if e.sess.State != models.StateNone && e.sess.UpdatedAt.Before(cutoff) {
			e.sess = Session{}
			expired++
			slog.Info("SessionStore expired idle conversation", "id", id, "ttl", ttl)
		}
	}
	return expired
}
