package client

// State is a step of a remote call
type State int

const (
	StateIdle State = iota
	StateCalling
	StateAuthFailed
	StateRefreshing
	StateRetrying
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCalling:
		return "calling"
	case StateAuthFailed:
		return "auth_failed"
	case StateRefreshing:
		return "refreshing"
	case StateRetrying:
		return "retrying"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransitionHook observes the state changes of every call made through a
// Retrier. It runs synchronously on the calling goroutine.
type TransitionHook func(operation string, from, to State)
