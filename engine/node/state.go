package node

// State is the lifecycle state shared by nodes and components.
type State int

const (
	// StateActive marks a node or component that takes part in updates and rendering.
	StateActive State = iota

	// StatePassive marks a node or component that is kept in the graph but skipped
	// by updates and rendering.
	StatePassive

	// StateTerminated marks a destroyed node or component. It is final: no further
	// transitions are accepted and nothing can be attached to it.
	StateTerminated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePassive:
		return "passive"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
