package authcore

import (
	"errors"
	"time"

	"github.com/keiruna/authcore/internal/stores"
	"github.com/keiruna/authcore/password"
	"github.com/keiruna/authcore/policy"
	"github.com/keiruna/authcore/session"
	"github.com/keiruna/authcore/token"
)

// Builder defines a public type used by authcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithExcludedPaths describes the withexcludedpaths operation and its observable behavior.
//
// WithExcludedPaths does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithExcludedPaths(paths []string) *Builder {
	b.config.Policy.ExcludedPaths = append([]string(nil), paths...)
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	engine := &Engine{
		config:       cfg,
		exclusions:   policy.NewExclusions(cfg.Policy.ExcludedPaths),
		sessionStore: session.NewStore(cfg.Session.TTL),
		resetStore:   stores.NewPasswordResetStore(),
		userProvider: b.userProvider,
		sleep:        time.Sleep,
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:           cfg.Password.Memory,
		Time:             cfg.Password.Time,
		Parallelism:      cfg.Password.Parallelism,
		SaltLength:       cfg.Password.SaltLength,
		KeyLength:        cfg.Password.KeyLength,
		MaxPasswordBytes: cfg.Password.MaxPasswordBytes,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	if cfg.Mode == ModeBearer {
		tm, err := token.NewManager(token.Config{
			TTL:           cfg.Bearer.TTL,
			SigningMethod: token.SigningMethod(cfg.Bearer.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Bearer.PrivateKey),
			PublicKey:     cloneBytes(cfg.Bearer.PublicKey),
			Issuer:        cfg.Bearer.Issuer,
			Leeway:        cfg.Bearer.Leeway,
		})
		if err != nil {
			return nil, err
		}
		engine.bearer = tm
	}

	b.built = true

	return engine, nil
}
