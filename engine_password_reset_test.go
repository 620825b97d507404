package authcore

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPasswordResetRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")
	sessionID := mustLogin(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if challenge == "" {
		t.Fatal("empty challenge")
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}

	// Old credential is dead, new one works.
	if _, err := engine.Login(ctx, "alice@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	mustLogin(t, engine, "alice@example.com", "brand new pass")

	// Live sessions are invalidated with the old credential.
	if _, err := engine.UserFromSession(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("pre-reset session survived: %v", err)
	}
}

func TestPasswordResetSingleUse(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if err := engine.ConfirmPasswordReset(ctx, challenge, "third password"); !errors.Is(err, ErrResetInvalid) {
		t.Fatalf("second confirm = %v, want ErrResetInvalid", err)
	}

	// The first confirmation stands.
	mustLogin(t, engine, "alice@example.com", "brand new pass")
}

func TestPasswordResetUnknownIdentifier(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	var slept atomic.Bool
	engine.sleep = func(time.Duration) { slept.Store(true) }

	_, err := engine.RequestPasswordReset(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown identifier = %v, want ErrUserNotFound", err)
	}
	if !slept.Load() {
		t.Fatal("miss path skipped the randomized delay")
	}
}

func TestPasswordResetMalformedChallengeDoesNotConsume(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	for _, bad := range []string{"not-base64!!", "dG9vc2hvcnQ", ""} {
		err := engine.ConfirmPasswordReset(ctx, bad, "brand new pass")
		if bad == "" {
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("empty challenge = %v, want ErrInvalidInput", err)
			}
			continue
		}
		if !errors.Is(err, ErrResetInvalid) {
			t.Fatalf("malformed challenge %q = %v, want ErrResetInvalid", bad, err)
		}
	}

	// The real challenge is still redeemable.
	if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); err != nil {
		t.Fatalf("real challenge rejected after malformed attempts: %v", err)
	}
}

func TestPasswordResetOversizedPasswordDoesNotConsume(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		// Zero means the hasher's fallback bound applies; the policy check
		// must enforce the same bound before the challenge is redeemed.
		cfg.Password.MaxPasswordBytes = 0
	})
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	oversized := strings.Repeat("a", 2000)
	if err := engine.ConfirmPasswordReset(ctx, challenge, oversized); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("oversized password = %v, want ErrPasswordPolicy", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "long enough pass"); err != nil {
		t.Fatalf("challenge consumed by rejected input: %v", err)
	}
	mustLogin(t, engine, "alice@example.com", "long enough pass")
}

func TestPasswordResetPolicyViolationDoesNotConsume(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Password.MinPasswordBytes = 10
	})
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("policy violation = %v, want ErrPasswordPolicy", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "long enough pass"); err != nil {
		t.Fatalf("challenge consumed by rejected input: %v", err)
	}
}

func TestPasswordResetDisabled(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.PasswordReset.Enabled = false
	})
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	if _, err := engine.RequestPasswordReset(ctx, "alice@example.com"); !errors.Is(err, ErrPasswordResetDisabled) {
		t.Fatalf("request while disabled = %v, want ErrPasswordResetDisabled", err)
	}
	if err := engine.ConfirmPasswordReset(ctx, "anything", "brand new pass"); !errors.Is(err, ErrPasswordResetDisabled) {
		t.Fatalf("confirm while disabled = %v, want ErrPasswordResetDisabled", err)
	}
}

func TestPasswordResetUUIDStrategy(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.PasswordReset.Strategy = ResetUUID
	})
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if len(challenge) != 36 {
		t.Fatalf("uuid challenge has length %d, want 36", len(challenge))
	}

	if err := engine.ConfirmPasswordReset(ctx, "not-a-uuid", "brand new pass"); !errors.Is(err, ErrResetInvalid) {
		t.Fatalf("non-uuid challenge = %v, want ErrResetInvalid", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}
	mustLogin(t, engine, "alice@example.com", "brand new pass")
}

// tamperSecret flips a bit in the secret half of a reset challenge while
// leaving the embedded reset id intact.
func tamperSecret(t *testing.T, challenge string) string {
	t.Helper()

	raw, err := base64.RawURLEncoding.DecodeString(challenge)
	if err != nil {
		t.Fatalf("decoding challenge: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	return base64.RawURLEncoding.EncodeToString(raw)
}

func TestPasswordResetAttemptsExceeded(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.PasswordReset.MaxAttempts = 2
	})
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	forged := tamperSecret(t, challenge)

	if err := engine.ConfirmPasswordReset(ctx, forged, "brand new pass"); !errors.Is(err, ErrResetInvalid) {
		t.Fatalf("first forged confirm = %v, want ErrResetInvalid", err)
	}
	if err := engine.ConfirmPasswordReset(ctx, forged, "brand new pass"); !errors.Is(err, ErrResetAttempts) {
		t.Fatalf("second forged confirm = %v, want ErrResetAttempts", err)
	}

	// The record burned with the attempts; even the real secret is dead now.
	if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); !errors.Is(err, ErrResetInvalid) {
		t.Fatalf("confirm after burn = %v, want ErrResetInvalid", err)
	}
}

func TestPasswordResetReissueKeepsEarlierChallenge(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	first, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := engine.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, first, "brand new pass"); err != nil {
		t.Fatalf("earlier challenge invalidated by reissue: %v", err)
	}
}

func TestConcurrentConfirmSingleSuccess(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")

	challenge, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	const racers = 8

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		successes atomic.Int64
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := engine.ConfirmPasswordReset(ctx, challenge, "brand new pass"); err == nil {
				successes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Fatalf("%d concurrent confirmations succeeded, want exactly 1", got)
	}
	mustLogin(t, engine, "alice@example.com", "brand new pass")
}
