package node

import "fmt"

// Handle addresses a node inside a Graph. A handle whose node was destroyed is stale:
// the slot generation no longer matches and every Graph query treats it as invalid.
// The zero value is Nil.
type Handle struct {
	index      uint32
	generation uint32
}

// Nil is the handle that addresses no node. Root nodes have a Nil parent.
var Nil Handle

// IsNil reports whether h is the Nil handle.
func (h Handle) IsNil() bool {
	return h == Nil
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	if h.IsNil() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d#%d)", h.index, h.generation)
}
