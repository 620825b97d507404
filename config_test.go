package authcore

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig does not validate: %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"invalid mode":           func(c *Config) { c.Mode = AuthMode(99) },
		"negative session ttl":   func(c *Config) { c.Session.TTL = -time.Minute },
		"min above max":          func(c *Config) { c.Password.MinPasswordBytes = 2048; c.Password.MaxPasswordBytes = 64 },
		"invalid reset strategy": func(c *Config) { c.PasswordReset.Strategy = ResetStrategyType(7) },
		"negative reset ttl":     func(c *Config) { c.PasswordReset.ResetTTL = -time.Second },
		"negative attempts":      func(c *Config) { c.PasswordReset.MaxAttempts = -1 },
		"empty header name":      func(c *Config) { c.Policy.CredentialHeader = "" },
		"empty cookie name":      func(c *Config) { c.Policy.SessionCookie = "" },
		"bearer without ttl":     func(c *Config) { c.Mode = ModeBearer; c.Bearer.SigningMethod = "hs256" },
		"bearer without method":  func(c *Config) { c.Mode = ModeBearer; c.Bearer.TTL = time.Minute },
	}

	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted invalid config", name)
		}
	}
}

func TestConfigDisabledResetSkipsResetValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PasswordReset.Enabled = false
	cfg.PasswordReset.Strategy = ResetStrategyType(7)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled reset block still validated: %v", err)
	}
}

func TestBuilderClonesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.ExcludedPaths = []string{"/health"}

	b := New().WithConfig(cfg).WithUserProvider(newMockUserProvider())

	// Mutating the caller's slice after WithConfig must not reach the engine.
	cfg.Policy.ExcludedPaths[0] = "/everything"

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	decision := engine.Authorize(context.Background(), "/health", "", "")
	if decision.Kind != DecisionNotRequired {
		t.Fatalf("original exclusion lost: %v", decision.Kind)
	}
	decision = engine.Authorize(context.Background(), "/everything", "", "")
	if decision.Kind == DecisionNotRequired {
		t.Fatal("mutated exclusion leaked into the engine")
	}
}

func TestBuilderConvenienceSetters(t *testing.T) {
	engine, err := New().
		WithConfig(testConfig()).
		WithUserProvider(newMockUserProvider()).
		WithExcludedPaths([]string{"/status"}).
		WithMetricsEnabled(false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if decision := engine.Authorize(context.Background(), "/status", "", ""); decision.Kind != DecisionNotRequired {
		t.Fatalf("WithExcludedPaths ignored: %v", decision.Kind)
	}

	engine.Metrics().Inc(MetricLoginSuccess)
	if got := engine.Metrics().Get(MetricLoginSuccess); got != 0 {
		t.Fatalf("WithMetricsEnabled(false) ignored, counter = %d", got)
	}
}
