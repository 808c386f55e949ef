package domain

// LifecycleState is the server process state.
//
//	uninitialized -> connected -> shutting_down -> terminated
//	uninitialized -> terminated            (connect failure)
//	connected     -> terminated            (client disconnect)
type LifecycleState string

const (
	StateUninitialized LifecycleState = "uninitialized"
	StateConnected     LifecycleState = "connected"
	StateShuttingDown  LifecycleState = "shutting_down"
	StateTerminated    LifecycleState = "terminated"
)

// AllLifecycleStates is ordered by progression.
var AllLifecycleStates = []LifecycleState{
	StateUninitialized,
	StateConnected,
	StateShuttingDown,
	StateTerminated,
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to LifecycleState) bool {
	switch from {
	case StateUninitialized:
		return to == StateConnected || to == StateTerminated
	case StateConnected:
		return to == StateShuttingDown || to == StateTerminated
	case StateShuttingDown:
		return to == StateTerminated
	default:
		return false
	}
}
