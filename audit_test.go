package authcore

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMaskIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***@example.com"},
		{"bob", "b***"},
		{"@example.com", "***@example.com"},
		{"x", "x***"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := maskIdentifier(tc.in); got != tc.want {
			t.Errorf("maskIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAuditEventsRedacted(t *testing.T) {
	sink := NewChannelSink(64)

	cfg := testConfig()
	engine, err := New().
		WithConfig(cfg).
		WithUserProvider(newMockUserProvider()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	engine.sleep = func(time.Duration) {}

	ctx := WithClientIP(context.Background(), "203.0.113.9")

	mustCreateAccount(t, engine, "alice@example.com", "correct horse")
	sessionID := mustLogin(t, engine, "alice@example.com", "correct horse")
	engine.Logout(ctx, sessionID)
	if _, err := engine.Login(ctx, "alice@example.com", "wrong password"); err == nil {
		t.Fatal("wrong password accepted")
	}

	engine.Close()

	var events []AuditEvent
drain:
	for {
		select {
		case event := <-sink.Events():
			events = append(events, event)
		default:
			break drain
		}
	}

	if len(events) < 4 {
		t.Fatalf("captured %d events, want at least 4", len(events))
	}

	sawFailedLogin := false
	for _, event := range events {
		if strings.Contains(event.Identifier, "alice@") {
			t.Fatalf("unmasked identifier on %q event: %q", event.EventType, event.Identifier)
		}
		if event.Identifier != "" && event.Identifier != "a***@example.com" {
			t.Fatalf("unexpected identifier form: %q", event.Identifier)
		}
		for _, field := range []string{event.Error, event.Identifier} {
			if strings.Contains(field, "correct horse") || strings.Contains(field, "wrong password") {
				t.Fatalf("plaintext password leaked on %q event", event.EventType)
			}
			if strings.Contains(field, sessionID) {
				t.Fatalf("session id leaked on %q event", event.EventType)
			}
		}
		if event.EventType == auditEventLogin && !event.Success {
			sawFailedLogin = true
			if event.IP != "203.0.113.9" {
				t.Fatalf("client IP not recorded: %q", event.IP)
			}
		}
	}
	if !sawFailedLogin {
		t.Fatal("failed login never reached the sink")
	}
}

// blockingSink holds Emit until released, to back up the dispatcher.
type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		d.Emit(ctx, AuditEvent{EventType: auditEventLogin})
	}

	if d.Dropped() == 0 {
		t.Fatal("saturated dispatcher dropped nothing")
	}

	close(sink.release)
	d.Close()
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 16,
		DropIfFull: true,
	}, sink)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Emit(ctx, AuditEvent{EventType: auditEventLogout})
	}
	d.Close()

	delivered := 0
count:
	for {
		select {
		case <-sink.Events():
			delivered++
		default:
			break count
		}
	}

	if delivered != 5 {
		t.Fatalf("Close delivered %d events, want 5", delivered)
	}

	// Emit after Close is a silent no-op.
	d.Emit(ctx, AuditEvent{EventType: auditEventLogout})
}

func TestDispatcherStampsTimestampAndIP(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, sink)

	ctx := WithClientIP(context.Background(), "198.51.100.4")
	before := time.Now()
	d.Emit(ctx, AuditEvent{EventType: auditEventLogin, Success: true})
	d.Close()

	event := <-sink.Events()
	if event.Timestamp.Before(before) {
		t.Fatalf("timestamp not stamped: %v", event.Timestamp)
	}
	if event.IP != "198.51.100.4" {
		t.Fatalf("client IP not stamped: %q", event.IP)
	}

	// A caller-provided timestamp is kept as is.
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sink2 := NewChannelSink(4)
	d2 := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, sink2)
	d2.Emit(context.Background(), AuditEvent{EventType: auditEventLogout, Timestamp: fixed})
	d2.Close()

	if event := <-sink2.Events(); !event.Timestamp.Equal(fixed) {
		t.Fatalf("caller timestamp overwritten: %v", event.Timestamp)
	}
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("disabled config produced a dispatcher")
	}

	// nil receivers are safe.
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports drops")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		EventType: auditEventLogin,
		UserID:    "u-1",
		Success:   true,
	})

	line := strings.TrimSpace(buf.String())
	var decoded AuditEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("sink output is not valid JSON: %v", err)
	}
	if decoded.EventType != auditEventLogin || decoded.UserID != "u-1" || !decoded.Success {
		t.Fatalf("round-tripped event = %+v", decoded)
	}
}
