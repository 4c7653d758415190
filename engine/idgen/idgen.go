// Package idgen provides monotonically increasing identifiers for scene nodes.
package idgen

import "sync/atomic"

// Generator hands out unique, increasing uint64 identifiers. The zero value starts at 0.
// Safe for concurrent use.
type Generator struct {
	next atomic.Uint64
}

// New creates a Generator whose first identifier is first.
//
// Parameters:
//   - first: the first identifier returned by Next
//
// Returns:
//   - *Generator: the generator
func New(first uint64) *Generator {
	g := &Generator{}
	g.next.Store(first)
	return g
}

// Next returns the next identifier.
func (g *Generator) Next() uint64 {
	return g.next.Add(1) - 1
}
