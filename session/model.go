package session

import "time"

// Session is a single live login: an opaque identifier bound to a user.
// ExpiresAt is the zero time when the store runs without a TTL.
type Session struct {
	SessionID string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
