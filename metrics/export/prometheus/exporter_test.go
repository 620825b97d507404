package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authcore "github.com/keiruna/authcore"
)

type fakeSource struct {
	snapshot authcore.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() authcore.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                      { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcore.MetricsSnapshot{
			Counters: map[authcore.MetricID]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCountersAndDropped(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcore.MetricsSnapshot{
			Counters: map[authcore.MetricID]uint64{
				authcore.MetricLoginSuccess:         7,
				authcore.MetricAuthorizeForbidden:   3,
				authcore.MetricSessionInvalidated:   1,
				authcore.MetricPasswordResetRequest: 2,
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		"authcore_login_success_total 7",
		"authcore_authorize_forbidden_total 3",
		"authcore_session_invalidated_total 1",
		"authcore_password_reset_request_total 2",
		"authcore_audit_dropped_total 2",
		"# TYPE authcore_login_success_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authcore.MetricsSnapshot{
			Counters: map[authcore.MetricID]uint64{authcore.MetricLoginSuccess: 1},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRenderFromEngine(t *testing.T) {
	cfg := authcore.DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.KeyLength = 16
	cfg.Password.MinPasswordBytes = 4

	engine, err := authcore.New().
		WithConfig(cfg).
		WithUserProvider(staticProvider{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	// Two unauthenticated checks should show up in the rendered output.
	engine.Authorize(context.Background(), "/a", "", "")
	engine.Authorize(context.Background(), "/b", "", "")

	out := NewPrometheusExporter(engine).Render()
	if !strings.Contains(out, "authcore_authorize_unauthenticated_total 2") {
		t.Fatalf("expected engine counters in output, got:\n%s", out)
	}
}

type staticProvider struct{}

func (staticProvider) GetUserByIdentifier(string) (authcore.UserRecord, error) {
	return authcore.UserRecord{}, authcore.ErrUserNotFound
}

func (staticProvider) GetUserByID(string) (authcore.UserRecord, error) {
	return authcore.UserRecord{}, authcore.ErrUserNotFound
}

func (staticProvider) CreateUser(_ context.Context, _ authcore.CreateUserInput) (authcore.UserRecord, error) {
	return authcore.UserRecord{}, authcore.ErrAccountExists
}

func (staticProvider) UpdatePasswordHash(string, string) error {
	return authcore.ErrUserNotFound
}
