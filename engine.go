package authcore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/keiruna/authcore/internal/stores"
	"github.com/keiruna/authcore/password"
	"github.com/keiruna/authcore/policy"
	"github.com/keiruna/authcore/session"
	"github.com/keiruna/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Construct one through [Builder.Build]; the zero value is not usable. All
// methods are safe for concurrent use.
type Engine struct {
	config Config

	exclusions   policy.Exclusions
	sessionStore *session.Store
	resetStore   *stores.PasswordResetStore
	passwordHash *password.Argon2
	bearer       *token.Manager

	userProvider UserProvider

	audit   *auditDispatcher
	metrics *Metrics

	sleep func(time.Duration) // test hook
}

// Close describes the close operation and its observable behavior.
//
// Close drains the audit dispatcher; pending events reach the sink before it
// returns. Calling Close more than once is safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// Metrics describes the metrics operation and its observable behavior.
//
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot returns a point-in-time copy of every counter; exporters
// read it on each collection cycle.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// SessionCount describes the sessioncount operation and its observable behavior.
//
// SessionCount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SessionCount() int {
	return e.sessionStore.Count()
}

// ReapSessions describes the reapsessions operation and its observable behavior.
//
// ReapSessions removes sessions past the configured TTL and reports how many
// were dropped. It is a no-op when sessions never expire.
func (e *Engine) ReapSessions() int {
	return e.sessionStore.Reap()
}

/*
====================================
SESSION LIFECYCLE
====================================
*/

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login verifies the plaintext password against the stored credential hash
// and mints a fresh session on success. An unknown identifier and a wrong
// password are indistinguishable to the caller: both report
// [ErrInvalidCredentials]. Each successful call creates an independent
// session; earlier sessions for the same user stay valid.
func (e *Engine) Login(ctx context.Context, identifier, plaintext string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if identifier == "" || plaintext == "" {
		e.emitLogin(ctx, "", identifier, false, ErrInvalidInput)
		return "", ErrInvalidInput
	}

	user, err := e.verifyCredentials(ctx, identifier, plaintext)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitLogin(ctx, "", identifier, false, err)
		return "", err
	}

	sessionID, err := e.sessionStore.Create(user.UserID)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitLogin(ctx, user.UserID, identifier, false, err)
		return "", err
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.metrics.Inc(MetricSessionCreated)
	e.emitLogin(ctx, user.UserID, identifier, true, nil)

	return sessionID, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout invalidates one session. It is idempotent: destroying an unknown or
// already destroyed session succeeds silently.
func (e *Engine) Logout(ctx context.Context, sessionID string) {
	if e == nil || sessionID == "" {
		return
	}

	userID, known := e.sessionStore.Resolve(sessionID)
	e.sessionStore.Destroy(sessionID)

	if known {
		e.metrics.Inc(MetricSessionInvalidated)
	}
	e.metrics.Inc(MetricLogout)
	e.emit(ctx, AuditEvent{
		EventType: auditEventLogout,
		UserID:    userID,
		Success:   true,
	})
}

// LogoutAll describes the logoutall operation and its observable behavior.
//
// LogoutAll invalidates every session held by userID and reports how many
// were removed.
func (e *Engine) LogoutAll(ctx context.Context, userID string) int {
	if e == nil || userID == "" {
		return 0
	}

	removed := e.sessionStore.DestroyAllForUser(userID)
	for i := 0; i < removed; i++ {
		e.metrics.Inc(MetricSessionInvalidated)
	}
	e.metrics.Inc(MetricLogoutAll)
	e.emit(ctx, AuditEvent{
		EventType: auditEventLogoutAll,
		UserID:    userID,
		Success:   true,
		Metadata:  map[string]string{"sessions_removed": strconv.Itoa(removed)},
	})

	return removed
}

// UserFromSession describes the userfromsession operation and its observable behavior.
//
// UserFromSession may return an error when input validation, dependency calls, or security checks fail.
// Unknown, malformed, and expired session ids all report [ErrSessionNotFound].
func (e *Engine) UserFromSession(ctx context.Context, sessionID string) (UserRecord, error) {
	if e == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	userID, ok := e.sessionStore.Resolve(sessionID)
	if !ok {
		return UserRecord{}, ErrSessionNotFound
	}

	user, err := e.userProvider.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Account deleted out from under a live session; drop it.
			e.sessionStore.Destroy(sessionID)
			return UserRecord{}, ErrSessionNotFound
		}
		return UserRecord{}, err
	}

	return user, nil
}

/*
====================================
BEARER TOKENS
====================================
*/

// IssueBearer describes the issuebearer operation and its observable behavior.
//
// IssueBearer may return an error when input validation, dependency calls, or security checks fail.
// IssueBearer verifies the credentials and mints a signed bearer token for
// the account. It reports [ErrBearerDisabled] unless the engine runs in
// [ModeBearer].
func (e *Engine) IssueBearer(ctx context.Context, identifier, plaintext string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.bearer == nil {
		return "", ErrBearerDisabled
	}
	if identifier == "" || plaintext == "" {
		return "", ErrInvalidInput
	}

	user, err := e.verifyCredentials(ctx, identifier, plaintext)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitLogin(ctx, "", identifier, false, err)
		return "", err
	}

	tok, err := e.bearer.Create(user.UserID)
	if err != nil {
		return "", err
	}

	e.metrics.Inc(MetricBearerIssued)
	e.emitLogin(ctx, user.UserID, identifier, true, nil)

	return tok, nil
}

/*
====================================
INTERNAL HELPERS
====================================
*/

// verifyCredentials resolves the account and checks the plaintext against the
// stored hash. Lookup misses and hash mismatches collapse into
// ErrInvalidCredentials. On a match the stored hash is transparently upgraded
// when the engine's cost parameters have moved past it.
func (e *Engine) verifyCredentials(ctx context.Context, identifier, plaintext string) (UserRecord, error) {
	user, err := e.userProvider.GetUserByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return UserRecord{}, ErrInvalidCredentials
		}
		return UserRecord{}, err
	}

	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return UserRecord{}, ErrInvalidCredentials
	}
	if !ok {
		return UserRecord{}, ErrInvalidCredentials
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(user, plaintext)
	}

	return user, nil
}

// maybeUpgradeHash re-hashes the password with current parameters when the
// stored hash was produced under weaker ones. Failures are swallowed: the
// login already succeeded and the old hash keeps working.
func (e *Engine) maybeUpgradeHash(user UserRecord, plaintext string) {
	stale, err := e.passwordHash.NeedsUpgrade(user.PasswordHash)
	if err != nil || !stale {
		return
	}

	newHash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		return
	}
	_ = e.userProvider.UpdatePasswordHash(user.UserID, newHash)
}

func (e *Engine) emit(ctx context.Context, event AuditEvent) {
	// Timestamp and client IP stamping happens in the dispatcher.
	e.audit.Emit(ctx, event)
}

func (e *Engine) emitLogin(ctx context.Context, userID, identifier string, success bool, opErr error) {
	event := AuditEvent{
		EventType:  auditEventLogin,
		UserID:     userID,
		Identifier: maskIdentifier(identifier),
		Success:    success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.emit(ctx, event)
}
