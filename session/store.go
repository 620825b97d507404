package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidUser is returned by Create when the user id is empty.
var ErrInvalidUser = errors.New("invalid user id")

// Store defines a public type used by authcore APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// All methods are safe for concurrent use; Resolve takes only the read lock.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	byUser map[string]map[string]struct{}
	ttl    time.Duration

	now func() time.Time // test hook
}

// NewStore describes the newstore operation and its observable behavior.
//
// A ttl of zero disables expiry: sessions live until destroyed. A positive
// ttl makes Resolve treat aged sessions as absent.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(ttl time.Duration) *Store {
	if ttl < 0 {
		ttl = 0
	}
	return &Store{
		byID:   make(map[string]*Session),
		byUser: make(map[string]map[string]struct{}),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create describes the create operation and its observable behavior.
//
// Create may return an error when input validation, dependency calls, or security checks fail.
// A user may hold any number of concurrent sessions; every call mints a fresh
// UUIDv4 identifier.
func (s *Store) Create(userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUser
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	sessionID := id.String()

	now := s.now()
	sess := &Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[sessionID] = sess
	userSet, ok := s.byUser[userID]
	if !ok {
		userSet = make(map[string]struct{})
		s.byUser[userID] = userSet
	}
	userSet[sessionID] = struct{}{}

	return sessionID, nil
}

// Resolve describes the resolve operation and its observable behavior.
//
// Absent, malformed, or expired identifiers report ("", false); Resolve never
// returns an error and never mutates the store.
func (s *Store) Resolve(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[sessionID]
	if !ok || sess.expired(s.now()) {
		return "", false
	}
	return sess.UserID, true
}

// Destroy describes the destroy operation and its observable behavior.
//
// Destroying an unknown session is a no-op, never an error; the operation is
// idempotent.
func (s *Store) Destroy(sessionID string) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropLocked(sessionID)
}

// DestroyAllForUser describes the destroyallforuser operation and its observable behavior.
//
// DestroyAllForUser reports how many sessions were removed.
func (s *Store) DestroyAllForUser(userID string) int {
	if userID == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userSet, ok := s.byUser[userID]
	if !ok {
		return 0
	}

	removed := 0
	for sessionID := range userSet {
		s.dropLocked(sessionID)
		removed++
	}
	return removed
}

// Count describes the count operation and its observable behavior.
//
// Count includes sessions that have aged past the TTL but have not been
// reaped yet.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Reap describes the reap operation and its observable behavior.
//
// Reap removes every session past the TTL and reports how many were dropped.
// It is a no-op when the store runs without expiry.
func (s *Store) Reap() int {
	if s.ttl == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for sessionID, sess := range s.byID {
		if sess.expired(now) {
			s.dropLocked(sessionID)
			removed++
		}
	}
	return removed
}

func (s *Store) dropLocked(sessionID string) {
	sess, ok := s.byID[sessionID]
	if !ok {
		return
	}
	delete(s.byID, sessionID)

	userSet, ok := s.byUser[sess.UserID]
	if !ok {
		return
	}
	delete(userSet, sessionID)
	if len(userSet) == 0 {
		delete(s.byUser, sess.UserID)
	}
}
