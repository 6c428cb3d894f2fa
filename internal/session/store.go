// Package session provides the process-wide registry of active interview
// sessions.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"go.uber.org/zap"
)

// Store owns all live InterviewSession objects. Every mutation goes through
// it. Each session carries its own lock so turns on one session serialize
// while unrelated sessions proceed independently; the store-level lock only
// guards the registry map itself.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl    time.Duration
	logger *zap.Logger
}

type entry struct {
	mu      sync.Mutex
	removed bool
	sess    *domain.InterviewSession
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by the sweeper (see StartSweeper).
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  logger.Named("session_store"),
	}
}

// Create registers a new session. Fails with domain.ErrDuplicateSession if
// the id is already active; sessions are never silently overwritten.
func (s *Store) Create(sess *domain.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[sess.ID]; exists {
		return domain.WrapError("create_session", domain.ErrDuplicateSession, false)
	}

	s.entries[sess.ID] = &entry{sess: sess}
	s.logger.Debug("session created",
		zap.String("session_id", sess.ID),
		zap.Int("active_sessions", len(s.entries)),
	)
	return nil
}

// Acquire returns the session under its per-entry lock along with a release
// function. The caller holds exclusive access to the session until release
// is called, which serializes concurrent turns against the same id.
func (s *Store) Acquire(id string) (*domain.InterviewSession, func(), error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, domain.WrapError("acquire_session", domain.ErrSessionNotFound, false)
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, nil, domain.WrapError("acquire_session", domain.ErrSessionNotFound, false)
	}

	return e.sess, e.mu.Unlock, nil
}

// Snapshot returns a copy of the session for read-only use.
func (s *Store) Snapshot(id string) (domain.InterviewSession, error) {
	sess, release, err := s.Acquire(id)
	if err != nil {
		return domain.InterviewSession{}, err
	}
	defer release()

	copied := *sess
	copied.Turns = make([]domain.Turn, len(sess.Turns))
	copy(copied.Turns, sess.Turns)
	return copied, nil
}

// Remove deletes the session. Idempotent: removing a missing id is a no-op.
// An in-flight turn holding the entry lock finishes against the detached
// session; subsequent lookups fail with domain.ErrSessionNotFound.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()

	s.logger.Debug("session removed", zap.String("session_id", id))
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweeper runs a background goroutine that periodically evicts sessions
// idle longer than the ttl. It stops when the context is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		s.logger.Info("session sweeper started",
			zap.Duration("interval", interval),
			zap.Duration("ttl", s.ttl),
		)

		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-ctx.Done():
				s.logger.Info("session sweeper shutting down")
				return
			}
		}
	}()
}

// sweep removes sessions whose last activity is older than the ttl.
// The idle check and the removal happen under the same entry lock hold, so a
// turn that finishes while the sweep is pending refreshes LastActive before
// the check runs and the session survives.
func (s *Store) sweep(now time.Time) {
	s.mu.RLock()
	candidates := make(map[string]*entry, len(s.entries))
	for id, e := range s.entries {
		candidates[id] = e
	}
	s.mu.RUnlock()

	evicted := 0
	for id, e := range candidates {
		e.mu.Lock()
		if e.removed || now.Sub(e.sess.LastActive) <= s.ttl {
			e.mu.Unlock()
			continue
		}

		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		e.removed = true
		e.mu.Unlock()

		evicted++
		s.logger.Info("evicting idle session", zap.String("session_id", id))
	}

	if evicted > 0 {
		s.logger.Info("session sweep completed", zap.Int("evicted", evicted))
	}
}
