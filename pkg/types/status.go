package types

// ConnectivityState enumerates the reconciled reachability of the
// tagging backend and its model service.
type ConnectivityState int

const (
	// StatusChecking is the initial state while a health probe is in flight
	StatusChecking ConnectivityState = iota
	// StatusConnected means both the backend and the model service answered
	StatusConnected
	// StatusDegraded means the backend answered but the model service is down
	StatusDegraded
	// StatusDisconnected means the backend itself is unreachable
	StatusDisconnected
)

// String returns a human-readable state name
func (s ConnectivityState) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusConnected:
		return "connected"
	case StatusDegraded:
		return "degraded"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ConnectivityStatus is the single tri-state (plus checking) status the
// health monitor derives from the two reachability flags. Reason is only
// set for degraded and disconnected states.
type ConnectivityStatus struct {
	State  ConnectivityState
	Reason string
}

// Ready reports whether dispatch is allowed. Both single-file and folder
// dispatch need the model service, so degraded does not count as ready.
func (c ConnectivityStatus) Ready() bool {
	return c.State == StatusConnected
}

// HealthReport is the raw two-tier probe result returned by the
// collaborator before the monitor reconciles it.
type HealthReport struct {
	BackendReachable bool
	ModelReachable   bool
	Message          string
}
