package authcore

import "sync/atomic"

// MetricID defines a public type used by authcore APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication core.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the authentication core.
	MetricLoginFailure
	// MetricSessionCreated is an exported constant or variable used by the authentication core.
	MetricSessionCreated
	// MetricSessionInvalidated is an exported constant or variable used by the authentication core.
	MetricSessionInvalidated
	// MetricLogout is an exported constant or variable used by the authentication core.
	MetricLogout
	// MetricLogoutAll is an exported constant or variable used by the authentication core.
	MetricLogoutAll
	// MetricAccountCreationSuccess is an exported constant or variable used by the authentication core.
	MetricAccountCreationSuccess
	// MetricAccountCreationDuplicate is an exported constant or variable used by the authentication core.
	MetricAccountCreationDuplicate
	// MetricPasswordResetRequest is an exported constant or variable used by the authentication core.
	MetricPasswordResetRequest
	// MetricPasswordResetConfirmSuccess is an exported constant or variable used by the authentication core.
	MetricPasswordResetConfirmSuccess
	// MetricPasswordResetConfirmFailure is an exported constant or variable used by the authentication core.
	MetricPasswordResetConfirmFailure
	// MetricPasswordResetAttemptsExceeded is an exported constant or variable used by the authentication core.
	MetricPasswordResetAttemptsExceeded
	// MetricAuthorizeNotRequired is an exported constant or variable used by the authentication core.
	MetricAuthorizeNotRequired
	// MetricAuthorizeAuthorized is an exported constant or variable used by the authentication core.
	MetricAuthorizeAuthorized
	// MetricAuthorizeUnauthenticated is an exported constant or variable used by the authentication core.
	MetricAuthorizeUnauthenticated
	// MetricAuthorizeForbidden is an exported constant or variable used by the authentication core.
	MetricAuthorizeForbidden
	// MetricBearerIssued is an exported constant or variable used by the authentication core.
	MetricBearerIssued

	metricCount
)

// MetricsSnapshot defines a public type used by authcore APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Metrics defines a public type used by authcore APIs.
//
// Counters are lock-free atomics; Inc on a disabled Metrics is a no-op.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricCount),
	}
	if m == nil {
		return snapshot
	}
	for id := MetricID(0); id < metricCount; id++ {
		snapshot.Counters[id] = m.counters[id].Load()
	}
	return snapshot
}
