package node

// Kind tags the concrete type of a component. A node holds at most one component per Kind.
type Kind int

const (
	KindCamera Kind = iota
	KindModel
	KindDirectionalLight
	KindOmniLight
	KindSpotLight
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindModel:
		return "model"
	case KindDirectionalLight:
		return "directional-light"
	case KindOmniLight:
		return "omni-light"
	case KindSpotLight:
		return "spot-light"
	default:
		return "unknown"
	}
}

// Component is anything that can be attached to a node. Implementations embed
// ComponentBase and supply Kind.
type Component interface {
	// Kind returns the tag used to keep components unique per node.
	Kind() Kind

	// Owner returns the handle of the node the component is attached to, or Nil.
	Owner() Handle

	// SetOwner records the owning node. Called by the Graph.
	SetOwner(owner Handle)

	// State returns the lifecycle state of the component.
	State() State

	// SetState changes the lifecycle state. Transitions out of StateTerminated are ignored.
	SetState(state State)
}

// ComponentBase carries the owner and lifecycle state every component needs.
// The zero value is an unowned, active component.
type ComponentBase struct {
	owner Handle
	state State
}

func (c *ComponentBase) Owner() Handle {
	return c.owner
}

func (c *ComponentBase) SetOwner(owner Handle) {
	c.owner = owner
}

func (c *ComponentBase) State() State {
	return c.state
}

func (c *ComponentBase) SetState(state State) {
	if c.state == StateTerminated {
		return
	}
	c.state = state
}

// Active reports whether the component is in StateActive.
func (c *ComponentBase) Active() bool {
	return c.state == StateActive
}
