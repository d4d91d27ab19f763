package query

// Status describes the fetch state of a cache key.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is the lifecycle stage of a mutation.
// Transitions: Idle -> Applied -> Committed | RolledBack.
type State int32

const (
	StateIdle State = iota
	StateApplied
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Settled reports whether the mutation reached a terminal state.
func (s State) Settled() bool {
	return s == StateCommitted || s == StateRolledBack
}
