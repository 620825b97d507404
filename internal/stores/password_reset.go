package stores

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"
)

var (
	ErrResetNotFound         = errors.New("reset record not found")
	ErrResetSecretMismatch   = errors.New("reset secret mismatch")
	ErrResetAttemptsExceeded = errors.New("reset attempts exceeded")
)

type PasswordResetRecord struct {
	UserID     string
	SecretHash [32]byte
	ExpiresAt  int64 // unix seconds; zero means no expiry
	Attempts   uint16
	Strategy   int
}

type PasswordResetStore struct {
	mu      sync.Mutex
	records map[string]*PasswordResetRecord

	now func() time.Time
}

func NewPasswordResetStore() *PasswordResetStore {
	return &PasswordResetStore{
		records: make(map[string]*PasswordResetRecord),
		now:     time.Now,
	}
}

// Save registers a new reset record under resetID. An existing record with
// the same id is replaced. Earlier records for the same user stay valid;
// superseding them is the Engine's call, not the store's.
func (s *PasswordResetStore) Save(resetID string, record *PasswordResetRecord) {
	if resetID == "" || record == nil {
		return
	}

	clone := *record

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[resetID] = &clone
}

// Consume atomically redeems the record under resetID. On a full match the
// record is removed and returned; every failure path reports a sentinel:
//
//   - ErrResetNotFound for unknown, already consumed, or expired records
//   - ErrResetSecretMismatch for a wrong secret or wrong strategy
//   - ErrResetAttemptsExceeded once maxAttempts failures accumulate
//
// The check-and-remove happens under one lock, so concurrent callers racing
// on the same id observe at most one success.
func (s *PasswordResetStore) Consume(
	resetID string,
	providedHash [32]byte,
	expectedStrategy int,
	maxAttempts int,
) (*PasswordResetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[resetID]
	if !ok {
		return nil, ErrResetNotFound
	}

	if s.expiredLocked(record) {
		delete(s.records, resetID)
		return nil, ErrResetNotFound
	}

	if record.Strategy != expectedStrategy {
		delete(s.records, resetID)
		return nil, ErrResetSecretMismatch
	}

	if subtle.ConstantTimeCompare(record.SecretHash[:], providedHash[:]) != 1 {
		record.Attempts++
		if maxAttempts > 0 && int(record.Attempts) >= maxAttempts {
			delete(s.records, resetID)
			return nil, ErrResetAttemptsExceeded
		}
		return nil, ErrResetSecretMismatch
	}

	delete(s.records, resetID)

	matched := *record
	return &matched, nil
}

// Get returns a copy of the record under resetID without consuming it.
func (s *PasswordResetStore) Get(resetID string) (*PasswordResetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[resetID]
	if !ok || s.expiredLocked(record) {
		return nil, ErrResetNotFound
	}

	clone := *record
	return &clone, nil
}

// Len reports how many unconsumed records are held, expired ones included.
func (s *PasswordResetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *PasswordResetStore) expiredLocked(record *PasswordResetRecord) bool {
	return record.ExpiresAt > 0 && s.now().Unix() > record.ExpiresAt
}
