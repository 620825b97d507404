package authcore

import (
	"context"
	"errors"

	"github.com/keiruna/authcore/password"
)

// CreateAccount describes the createaccount operation and its observable behavior.
//
// CreateAccount may return an error when input validation, dependency calls, or security checks fail.
// CreateAccount hashes the plaintext password and registers a new account
// through the [UserProvider]. The plaintext is validated against the
// configured length policy before any hashing work happens; duplicate
// identifiers report [ErrAccountExists].
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (UserRecord, error) {
	if e == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	if req.Identifier == "" || req.Password == "" {
		return UserRecord{}, ErrInvalidInput
	}
	if err := e.checkPasswordPolicy(req.Password); err != nil {
		return UserRecord{}, err
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return UserRecord{}, err
	}

	user, err := e.userProvider.CreateUser(ctx, CreateUserInput{
		Identifier:   req.Identifier,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.metrics.Inc(MetricAccountCreationDuplicate)
			e.emit(ctx, AuditEvent{
				EventType:  auditEventAccountCreate,
				Identifier: maskIdentifier(req.Identifier),
				Success:    false,
				Error:      ErrAccountExists.Error(),
			})
			return UserRecord{}, ErrAccountExists
		}
		return UserRecord{}, err
	}

	e.metrics.Inc(MetricAccountCreationSuccess)
	e.emit(ctx, AuditEvent{
		EventType:  auditEventAccountCreate,
		UserID:     user.UserID,
		Identifier: maskIdentifier(req.Identifier),
		Success:    true,
	})

	return user, nil
}

// checkPasswordPolicy enforces the configured length bounds on a candidate
// plaintext. Byte length, not rune count, matches what the hasher sees. A
// zero max inherits the hasher's fallback bound, so every plaintext this
// check passes is one the hasher will accept.
func (e *Engine) checkPasswordPolicy(plaintext string) error {
	if min := e.config.Password.MinPasswordBytes; min > 0 && len(plaintext) < min {
		return ErrPasswordPolicy
	}
	max := e.config.Password.MaxPasswordBytes
	if max == 0 {
		max = password.DefaultMaxPasswordBytes
	}
	if len(plaintext) > max {
		return ErrPasswordPolicy
	}
	return nil
}
