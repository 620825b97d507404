package authcore

import (
	"context"

	"github.com/keiruna/authcore/policy"
)

// Request is the narrow request abstraction the core authorizes against.
// Adapters implement it over their framework's request type; see
// [policy.Request].
type Request = policy.Request

// DecisionKind is the four-way outcome of [Engine.AuthenticateRequest].
type DecisionKind uint8

const (
	// DecisionNotRequired is an exported constant or variable used by the authentication core.
	DecisionNotRequired DecisionKind = iota
	// DecisionAuthorized is an exported constant or variable used by the authentication core.
	DecisionAuthorized
	// DecisionUnauthenticated is an exported constant or variable used by the authentication core.
	DecisionUnauthenticated
	// DecisionForbidden is an exported constant or variable used by the authentication core.
	DecisionForbidden
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (k DecisionKind) String() string {
	switch k {
	case DecisionNotRequired:
		return "not_required"
	case DecisionAuthorized:
		return "authorized"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is returned by [Engine.AuthenticateRequest] and [Engine.Authorize].
// UserID is set only when Kind is [DecisionAuthorized]. The adapter translates
// the kinds into transport terms: NotRequired and Authorized pass through,
// Unauthenticated maps to 401, Forbidden maps to 403.
type Decision struct {
	Kind   DecisionKind
	UserID string
}

// UserRecord is the account record returned by [UserProvider]. It carries the
// stored credential hash; the core never sees a stored plaintext password.
type UserRecord struct {
	UserID       string
	Identifier   string
	PasswordHash string
}

// UserProvider is the interface that callers must implement to integrate
// authcore with their user database. It covers credential lookup, account
// creation, and password updates.
//
// Lookup misses must be reported with [ErrUserNotFound] (or an error wrapping
// it); CreateUser reports duplicates with [ErrAccountExists].
type UserProvider interface {
	GetUserByIdentifier(identifier string) (UserRecord, error)
	GetUserByID(userID string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	UpdatePasswordHash(userID string, newHash string) error
}

// CreateUserInput is the input for [UserProvider.CreateUser].
type CreateUserInput struct {
	Identifier   string
	PasswordHash string
}

// CreateAccountRequest is the input for [Engine.CreateAccount]. Identifier
// and Password are both required.
type CreateAccountRequest struct {
	Identifier string
	Password   string
}
