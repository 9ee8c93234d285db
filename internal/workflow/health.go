package workflow

import (
	"context"
	"sync"
	"time"

	"tagsense/internal/log"
	"tagsense/pkg/types"
)

// HealthMonitor reconciles the two-tier health probe into one status.
// It is probed at startup, on explicit request, and reactively after a
// connectivity-flavored dispatch failure; the reactive path is debounced
// so a burst of failing folder items causes one re-check, not many.
type HealthMonitor struct {
	mu       sync.Mutex
	collab   Collaborator
	debounce time.Duration
	status   types.ConnectivityStatus
	armed    bool // a debounced re-check timer is pending
	onChange func(types.ConnectivityStatus)
}

// NewHealthMonitor creates a monitor in the checking state
func NewHealthMonitor(collab Collaborator, debounce time.Duration) *HealthMonitor {
	return &HealthMonitor{
		collab:   collab,
		debounce: debounce,
		status:   types.ConnectivityStatus{State: types.StatusChecking},
	}
}

// OnChange registers a callback fired whenever the status changes.
// The callback runs on the goroutine performing the check.
func (m *HealthMonitor) OnChange(fn func(types.ConnectivityStatus)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Status returns the last reconciled status
func (m *HealthMonitor) Status() types.ConnectivityStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Check probes the collaborator and reconciles the result:
//
//	backend unreachable        -> disconnected
//	backend ok, model down     -> degraded
//	backend ok, model ok       -> connected
func (m *HealthMonitor) Check(ctx context.Context) types.ConnectivityStatus {
	m.setStatus(types.ConnectivityStatus{State: types.StatusChecking})

	report, err := m.collab.HealthCheck(ctx)

	var status types.ConnectivityStatus
	switch {
	case err != nil || !report.BackendReachable:
		status = types.ConnectivityStatus{State: types.StatusDisconnected, Reason: "backend unreachable"}
	case !report.ModelReachable:
		status = types.ConnectivityStatus{State: types.StatusDegraded, Reason: "model service down"}
	default:
		status = types.ConnectivityStatus{State: types.StatusConnected}
	}

	if err != nil {
		log.LogWithFields(log.F("error", err.Error())).Debug("health probe failed")
	}
	log.Debug("health status: %s", status.State)

	m.setStatus(status)
	return status
}

// ScheduleRecheck arms a debounced re-check. While a timer is already
// armed further calls collapse into it, so near-simultaneous failures
// trigger a single probe.
func (m *HealthMonitor) ScheduleRecheck() {
	m.mu.Lock()
	if m.armed {
		m.mu.Unlock()
		return
	}
	m.armed = true
	m.mu.Unlock()

	time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		m.armed = false
		m.mu.Unlock()
		m.Check(context.Background())
	})
}

func (m *HealthMonitor) setStatus(status types.ConnectivityStatus) {
	m.mu.Lock()
	changed := m.status != status
	m.status = status
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(status)
	}
}
