package authcore

import (
	"context"
	"errors"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/keiruna/authcore/internal"
	"github.com/keiruna/authcore/internal/stores"
)

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset issues a single-use reset challenge for the account
// behind identifier. The returned string is the opaque challenge to deliver
// out of band; only a hash of its secret material is retained. Unknown
// identifiers report [ErrUserNotFound] after a small randomized delay so the
// miss path does not return measurably faster than the hit path. Issuing a
// new challenge leaves earlier unconsumed ones valid.
func (e *Engine) RequestPasswordReset(ctx context.Context, identifier string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if !e.config.PasswordReset.Enabled {
		return "", ErrPasswordResetDisabled
	}
	if identifier == "" {
		return "", ErrInvalidInput
	}

	user, err := e.userProvider.GetUserByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.enumerationDelay()
			e.emit(ctx, AuditEvent{
				EventType:  auditEventPasswordResetRequest,
				Identifier: maskIdentifier(identifier),
				Success:    false,
				Error:      ErrUserNotFound.Error(),
			})
			return "", ErrUserNotFound
		}
		return "", err
	}

	challenge, resetID, secretHash, err := e.mintResetChallenge()
	if err != nil {
		return "", err
	}

	record := &stores.PasswordResetRecord{
		UserID:     user.UserID,
		SecretHash: secretHash,
		Strategy:   int(e.config.PasswordReset.Strategy),
	}
	if ttl := e.config.PasswordReset.ResetTTL; ttl > 0 {
		record.ExpiresAt = time.Now().Add(ttl).Unix()
	}
	e.resetStore.Save(resetID, record)

	e.metrics.Inc(MetricPasswordResetRequest)
	e.emit(ctx, AuditEvent{
		EventType:  auditEventPasswordResetRequest,
		UserID:     user.UserID,
		Identifier: maskIdentifier(identifier),
		Success:    true,
	})

	return challenge, nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset redeems a challenge and replaces the account's
// credential hash with one derived from newPassword. The challenge is
// consumed atomically: concurrent confirmations of the same challenge see at
// most one success, and a challenge that fails validation before redemption
// (malformed input, policy violation) is not consumed. On success every live
// session for the account is invalidated.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, challenge, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if !e.config.PasswordReset.Enabled {
		return ErrPasswordResetDisabled
	}
	if challenge == "" || newPassword == "" {
		return ErrInvalidInput
	}
	if err := e.checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	resetID, providedHash, err := e.parseResetChallenge(challenge)
	if err != nil {
		e.metrics.Inc(MetricPasswordResetConfirmFailure)
		return ErrResetInvalid
	}

	record, err := e.resetStore.Consume(
		resetID,
		providedHash,
		int(e.config.PasswordReset.Strategy),
		e.config.PasswordReset.MaxAttempts,
	)
	if err != nil {
		if errors.Is(err, stores.ErrResetAttemptsExceeded) {
			e.metrics.Inc(MetricPasswordResetAttemptsExceeded)
			e.metrics.Inc(MetricPasswordResetConfirmFailure)
			e.emit(ctx, AuditEvent{
				EventType: auditEventPasswordResetConfirm,
				Success:   false,
				Error:     ErrResetAttempts.Error(),
			})
			return ErrResetAttempts
		}
		e.metrics.Inc(MetricPasswordResetConfirmFailure)
		e.emit(ctx, AuditEvent{
			EventType: auditEventPasswordResetConfirm,
			Success:   false,
			Error:     ErrResetInvalid.Error(),
		})
		return ErrResetInvalid
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := e.userProvider.UpdatePasswordHash(record.UserID, newHash); err != nil {
		return err
	}

	// The old credential may be compromised; existing sessions go with it.
	removed := e.sessionStore.DestroyAllForUser(record.UserID)
	for i := 0; i < removed; i++ {
		e.metrics.Inc(MetricSessionInvalidated)
	}

	e.metrics.Inc(MetricPasswordResetConfirmSuccess)
	e.emit(ctx, AuditEvent{
		EventType: auditEventPasswordResetConfirm,
		UserID:    record.UserID,
		Success:   true,
	})

	return nil
}

// mintResetChallenge generates challenge material for the configured
// strategy. It returns the opaque challenge for the caller, the store key,
// and the secret hash to retain.
func (e *Engine) mintResetChallenge() (challenge, resetID string, secretHash [32]byte, err error) {
	switch e.config.PasswordReset.Strategy {
	case ResetUUID:
		id, uerr := uuid.NewRandom()
		if uerr != nil {
			return "", "", secretHash, uerr
		}
		challenge = id.String()
		return challenge, challenge, internal.HashResetBytes([]byte(challenge)), nil

	default: // ResetToken
		rid, rerr := internal.NewResetID()
		if rerr != nil {
			return "", "", secretHash, rerr
		}
		secret, serr := internal.NewResetSecret()
		if serr != nil {
			return "", "", secretHash, serr
		}
		challenge, err = internal.EncodeResetToken(rid.String(), secret)
		if err != nil {
			return "", "", secretHash, err
		}
		return challenge, rid.String(), internal.HashResetSecret(secret), nil
	}
}

// parseResetChallenge splits a presented challenge into the store key and the
// hash to compare, per the configured strategy. Malformed challenges fail
// here, before the store is touched.
func (e *Engine) parseResetChallenge(challenge string) (string, [32]byte, error) {
	switch e.config.PasswordReset.Strategy {
	case ResetUUID:
		id, err := uuid.Parse(challenge)
		if err != nil {
			return "", [32]byte{}, err
		}
		canonical := id.String()
		return canonical, internal.HashResetBytes([]byte(canonical)), nil

	default: // ResetToken
		resetID, secret, err := internal.DecodeResetToken(challenge)
		if err != nil {
			return "", [32]byte{}, err
		}
		return resetID, internal.HashResetSecret(secret), nil
	}
}

// enumerationDelay sleeps a randomized 20-40ms so an unknown identifier does
// not answer measurably faster than a real hashing round trip.
func (e *Engine) enumerationDelay() {
	d := time.Duration(20+mrand.Intn(21)) * time.Millisecond
	e.sleep(d)
}
