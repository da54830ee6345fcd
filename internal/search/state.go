package search

// State is the lifecycle of a Searcher.
//
//	Idle -> Searching -> (TimeExpired | Exhausted | TargetReached) -> Done
type State int32

const (
	Idle State = iota
	Searching
	// TimeExpired means the budget ran out; the retained set may be partial.
	TimeExpired
	// Exhausted means the exhaustive filter visited every candidate.
	Exhausted
	// TargetReached means a random filter made all of its draws.
	TargetReached
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case TimeExpired:
		return "time_expired"
	case Exhausted:
		return "exhausted"
	case TargetReached:
		return "target_reached"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
