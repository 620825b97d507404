package authcore

import (
	"errors"
	"time"
)

// AuthMode defines a public type used by authcore APIs.
//
// AuthMode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthMode int

const (
	// ModeSession is an exported constant or variable used by the authentication core.
	ModeSession AuthMode = iota
	// ModeBasic is an exported constant or variable used by the authentication core.
	ModeBasic
	// ModeBearer is an exported constant or variable used by the authentication core.
	ModeBearer
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Mode          AuthMode
	Session       SessionConfig
	Password      PasswordConfig
	PasswordReset PasswordResetConfig
	Policy        PolicyConfig
	Bearer        BearerConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authcore APIs.
//
// TTL of zero means sessions live until destroyed. A positive TTL makes
// resolution treat aged sessions as absent.
type SessionConfig struct {
	TTL time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by authcore APIs.
//
// MinPasswordBytes defaults to 10 as a hardening measure; the hasher itself
// only requires a non-empty plaintext. Deployments that must accept shorter
// passwords set it to 0 (no minimum beyond non-empty). MaxPasswordBytes of
// zero applies the hasher's fallback bound.
type PasswordConfig struct {
	Memory           uint32 // in KB
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
	MinPasswordBytes int
	UpgradeOnLogin   bool
}

// ResetStrategyType defines a public type used by authcore APIs.
//
// ResetStrategyType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetStrategyType int

const (
	// ResetToken is an exported constant or variable used by the authentication core.
	ResetToken ResetStrategyType = iota
	// ResetUUID is an exported constant or variable used by the authentication core.
	ResetUUID
)

// PasswordResetConfig defines a public type used by authcore APIs.
//
// ResetTTL of zero means tokens never expire on the clock; they are still
// single-use. Issuing a new token does not invalidate earlier unconsumed ones.
type PasswordResetConfig struct {
	Enabled     bool
	Strategy    ResetStrategyType
	ResetTTL    time.Duration
	MaxAttempts int
}

/*
====================================
POLICY CONFIG
====================================
*/

// PolicyConfig defines a public type used by authcore APIs.
//
// ExcludedPaths is the exclusion list: paths exempt from authentication,
// normalized once at Build. CredentialHeader and SessionCookie name where the
// adapter carries credentials.
type PolicyConfig struct {
	ExcludedPaths    []string
	CredentialHeader string
	SessionCookie    string
}

/*
====================================
BEARER CONFIG
====================================
*/

// BearerConfig defines a public type used by authcore APIs.
//
// Only consulted when [Config.Mode] is [ModeBearer].
type BearerConfig struct {
	TTL           time.Duration
	SigningMethod string // "ed25519" or "hs256"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by authcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by authcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Mode: ModeSession,
		Session: SessionConfig{
			TTL: 0,
		},
		Password: PasswordConfig{
			Memory:           64 * 1024,
			Time:             3,
			Parallelism:      2,
			SaltLength:       16,
			KeyLength:        32,
			MaxPasswordBytes: 1024,
			MinPasswordBytes: 10,
			UpgradeOnLogin:   true,
		},
		PasswordReset: PasswordResetConfig{
			Enabled:     true,
			Strategy:    ResetToken,
			ResetTTL:    15 * time.Minute,
			MaxAttempts: 5,
		},
		Policy: PolicyConfig{
			CredentialHeader: "Authorization",
			SessionCookie:    "session_id",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSession, ModeBasic, ModeBearer:
	default:
		return errors.New("invalid auth mode")
	}

	if c.Session.TTL < 0 {
		return errors.New("session TTL must be >= 0")
	}

	if c.Password.MinPasswordBytes < 0 {
		return errors.New("password min length must be >= 0")
	}
	if c.Password.MaxPasswordBytes > 0 && c.Password.MinPasswordBytes > c.Password.MaxPasswordBytes {
		return errors.New("password min length exceeds max length")
	}

	if c.PasswordReset.Enabled {
		switch c.PasswordReset.Strategy {
		case ResetToken, ResetUUID:
		default:
			return errors.New("invalid password reset strategy")
		}
		if c.PasswordReset.ResetTTL < 0 {
			return errors.New("password reset TTL must be >= 0")
		}
		if c.PasswordReset.MaxAttempts < 0 {
			return errors.New("password reset max attempts must be >= 0")
		}
	}

	if c.Policy.CredentialHeader == "" {
		return errors.New("credential header name required")
	}
	if c.Policy.SessionCookie == "" {
		return errors.New("session cookie name required")
	}

	if c.Mode == ModeBearer {
		if c.Bearer.TTL <= 0 {
			return errors.New("bearer mode requires a positive token TTL")
		}
		if c.Bearer.SigningMethod == "" {
			return errors.New("bearer mode requires a signing method")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must be >= 0")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Policy.ExcludedPaths = append([]string(nil), cfg.Policy.ExcludedPaths...)
	out.Bearer.PrivateKey = cloneBytes(cfg.Bearer.PrivateKey)
	out.Bearer.PublicKey = cloneBytes(cfg.Bearer.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
