// Package node implements the scene graph: an arena of nodes addressed by
// generation-checked handles. Each node owns a local transform, an ordered list of
// children, at most one component per Kind, and a lifecycle state.
package node

import (
	"slices"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/idgen"
	"github.com/Carmen-Shannon/lumen/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// worldCache holds the object-to-world matrices of a node together with the stamps
// they were computed from. The cache is stale whenever a stamp no longer matches.
type worldCache struct {
	valid         bool
	localVersion  uint64
	parent        Handle
	parentVersion uint64
	version       uint64
	objectToWorld mgl32.Mat4
	worldToObject mgl32.Mat4
}

type nodeData struct {
	id         uint64
	name       string
	transform  transform.Transform
	parent     Handle
	children   []Handle
	components []Component
	state      State
	world      worldCache
}

type slot struct {
	generation uint32
	node       *nodeData
}

// Graph is an arena of scene nodes forming a forest. It is not safe for concurrent use:
// structural mutation happens between frames or on the render goroutine.
type Graph struct {
	ids          *idgen.Generator
	slots        []slot
	free         []uint32
	live         int
	worldVersion uint64
}

// NewGraph creates an empty graph that draws node ids from ids. A nil generator is
// replaced by a fresh one starting at 0.
//
// Parameters:
//   - ids: the id generator for created nodes
//
// Returns:
//   - *Graph: the empty graph
func NewGraph(ids *idgen.Generator) *Graph {
	if ids == nil {
		ids = idgen.New(0)
	}
	return &Graph{ids: ids}
}

// Create allocates a new active root node.
//
// Parameters:
//   - name: the node name
//   - opts: options applied to the node's local transform
//
// Returns:
//   - Handle: the handle of the new node
func (g *Graph) Create(name string, opts ...transform.TransformBuilderOption) Handle {
	n := &nodeData{
		id:        g.ids.Next(),
		name:      name,
		transform: transform.New(opts...),
		state:     StateActive,
	}

	var index uint32
	if len(g.free) > 0 {
		index = g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
	} else {
		index = uint32(len(g.slots))
		g.slots = append(g.slots, slot{})
	}
	s := &g.slots[index]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.node = n
	g.live++
	return Handle{index: index, generation: s.generation}
}

func (g *Graph) get(h Handle) *nodeData {
	if h.IsNil() || int(h.index) >= len(g.slots) {
		return nil
	}
	s := g.slots[h.index]
	if s.generation != h.generation {
		return nil
	}
	return s.node
}

// Valid reports whether h addresses a live node.
func (g *Graph) Valid(h Handle) bool {
	return g.get(h) != nil
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return g.live
}

// Each calls fn for every live node in arena order. fn must not create or destroy nodes.
func (g *Graph) Each(fn func(h Handle)) {
	for i, s := range g.slots {
		if s.node != nil {
			fn(Handle{index: uint32(i), generation: s.generation})
		}
	}
}

// ID returns the unique id of the node, or 0 for an invalid handle.
func (g *Graph) ID(h Handle) uint64 {
	if n := g.get(h); n != nil {
		return n.id
	}
	return 0
}

// Name returns the node name, or "" for an invalid handle.
func (g *Graph) Name(h Handle) string {
	if n := g.get(h); n != nil {
		return n.name
	}
	return ""
}

// SetName renames the node.
func (g *Graph) SetName(h Handle, name string) {
	if n := g.get(h); n != nil {
		n.name = name
	}
}

// Transform returns the local transform of the node, or nil for an invalid handle.
// The pointer stays valid until the node is destroyed.
func (g *Graph) Transform(h Handle) *transform.Transform {
	if n := g.get(h); n != nil {
		return &n.transform
	}
	return nil
}

// Parent returns the parent of the node, or Nil for a root or invalid handle.
func (g *Graph) Parent(h Handle) Handle {
	if n := g.get(h); n != nil {
		return n.parent
	}
	return Nil
}

// Children returns a copy of the node's ordered child handles.
func (g *Graph) Children(h Handle) []Handle {
	if n := g.get(h); n != nil {
		return slices.Clone(n.children)
	}
	return nil
}

// ChildCount returns the number of direct children.
func (g *Graph) ChildCount(h Handle) int {
	if n := g.get(h); n != nil {
		return len(n.children)
	}
	return 0
}

// HasChild reports whether child is a direct child of parent.
func (g *Graph) HasChild(parent, child Handle) bool {
	if n := g.get(parent); n != nil {
		return slices.Contains(n.children, child)
	}
	return false
}

// State returns the lifecycle state of the node. Invalid handles report StateTerminated.
func (g *Graph) State(h Handle) State {
	if n := g.get(h); n != nil {
		return n.state
	}
	return StateTerminated
}

// isAncestor reports whether candidate appears on the parent chain of h, h included.
func (g *Graph) isAncestor(candidate, h Handle) bool {
	for cur := h; !cur.IsNil(); cur = g.Parent(cur) {
		if cur == candidate {
			return true
		}
	}
	return false
}

// AddChild attaches child to parent, detaching it from its previous parent first.
// The call is ignored when either handle is invalid, when child is parent or one of its
// ancestors, or when either node is terminated. The moved node's local transform is
// marked dirty; descendants pick up the change through their world caches.
//
// Parameters:
//   - parent: the new parent
//   - child: the node to attach
func (g *Graph) AddChild(parent, child Handle) {
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil {
		return
	}
	if g.isAncestor(child, parent) {
		return
	}
	if p.state == StateTerminated || c.state == StateTerminated {
		return
	}

	if !c.parent.IsNil() {
		g.RemoveChild(c.parent, child)
	}
	c.parent = parent
	c.transform.MarkDirty()
	p.children = append(p.children, child)
}

// RemoveChild detaches child from parent. The call is ignored unless child's parent is
// exactly parent. A child whose parent matches but which is missing from the parent's
// child list means the graph is corrupted, and Fatal is raised.
//
// Parameters:
//   - parent: the current parent
//   - child: the node to detach
func (g *Graph) RemoveChild(parent, child Handle) {
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil || c.parent != parent {
		return
	}

	i := slices.Index(p.children, child)
	if i < 0 {
		common.Fatal("node: connections are broken", "parent", parent, "child", child)
	}
	c.parent = Nil
	c.transform.MarkDirty()
	p.children = slices.Delete(p.children, i, i+1)
}

// RemoveAllChildren detaches every child of the node. The detached nodes stay alive as roots.
func (g *Graph) RemoveAllChildren(h Handle) {
	p := g.get(h)
	if p == nil {
		return
	}
	for _, ch := range p.children {
		if c := g.get(ch); c != nil {
			c.parent = Nil
			c.transform.MarkDirty()
		}
	}
	p.children = p.children[:0]
}

// AddComponent attaches c to the node. The call is rejected when c is nil, already has
// an owner, either side is terminated, or the node already holds a component of the same
// Kind.
//
// Parameters:
//   - h: the node
//   - c: the component to attach
//
// Returns:
//   - bool: true if the component was attached
func (g *Graph) AddComponent(h Handle, c Component) bool {
	n := g.get(h)
	if n == nil || c == nil {
		return false
	}
	if !c.Owner().IsNil() {
		return false
	}
	if n.state == StateTerminated || c.State() == StateTerminated {
		return false
	}
	if g.componentIndex(n, c.Kind()) >= 0 {
		return false
	}
	c.SetOwner(h)
	n.components = append(n.components, c)
	return true
}

// RemoveComponent detaches the component of the given kind and clears its owner.
//
// Returns:
//   - Component: the detached component, or nil if none was attached
func (g *Graph) RemoveComponent(h Handle, kind Kind) Component {
	n := g.get(h)
	if n == nil {
		return nil
	}
	i := g.componentIndex(n, kind)
	if i < 0 {
		return nil
	}
	c := n.components[i]
	n.components = slices.Delete(n.components, i, i+1)
	c.SetOwner(Nil)
	return c
}

func (g *Graph) componentIndex(n *nodeData, kind Kind) int {
	return slices.IndexFunc(n.components, func(c Component) bool { return c.Kind() == kind })
}

// Component returns the component of the given kind attached to the node.
func (g *Graph) Component(h Handle, kind Kind) (Component, bool) {
	n := g.get(h)
	if n == nil {
		return nil, false
	}
	if i := g.componentIndex(n, kind); i >= 0 {
		return n.components[i], true
	}
	return nil, false
}

// HasComponent reports whether the node holds a component of the given kind.
func (g *Graph) HasComponent(h Handle, kind Kind) bool {
	_, ok := g.Component(h, kind)
	return ok
}

// Components returns the node's components in attachment order.
func (g *Graph) Components(h Handle) []Component {
	if n := g.get(h); n != nil {
		return slices.Clone(n.components)
	}
	return nil
}

// SetState changes the state of the node and pushes it to every component and every
// descendant, pre-order. StateTerminated is only reachable through Destroy, so it is
// rejected here, as is a transition to the current state.
//
// Parameters:
//   - h: the subtree root
//   - state: the new state
func (g *Graph) SetState(h Handle, state State) {
	n := g.get(h)
	if n == nil || state == StateTerminated || n.state == StateTerminated || n.state == state {
		return
	}
	g.propagateState(n, state)
}

func (g *Graph) propagateState(n *nodeData, state State) {
	if n.state == StateTerminated {
		return
	}
	n.state = state
	for _, c := range n.components {
		c.SetState(state)
	}
	for _, ch := range n.children {
		if c := g.get(ch); c != nil {
			g.propagateState(c, state)
		}
	}
}

// Destroy tears down the node and its whole subtree, children first. Every destroyed
// node and its components end in StateTerminated and their handles become stale.
func (g *Graph) Destroy(h Handle) {
	n := g.get(h)
	if n == nil {
		return
	}
	if !n.parent.IsNil() {
		g.RemoveChild(n.parent, h)
	}
	g.destroy(h, n)
}

func (g *Graph) destroy(h Handle, n *nodeData) {
	children := n.children
	n.children = nil
	for _, ch := range children {
		if c := g.get(ch); c != nil {
			c.parent = Nil
			g.destroy(ch, c)
		}
	}

	n.state = StateTerminated
	for _, c := range n.components {
		c.SetState(StateTerminated)
	}
	n.components = nil

	g.slots[h.index].node = nil
	g.free = append(g.free, h.index)
	g.live--
}

// ObjectToWorldMatrix returns the object-to-world matrix of the node, composing the
// local object-to-parent matrix with the parent's object-to-world matrix. Results are
// cached per node and recomputed only when the local transform, the parent, or the
// parent's world matrix changed.
//
// Returns:
//   - mgl32.Mat4: the matrix, or identity for an invalid handle
func (g *Graph) ObjectToWorldMatrix(h Handle) mgl32.Mat4 {
	n := g.get(h)
	if n == nil {
		return mgl32.Ident4()
	}
	return g.refreshWorld(n).objectToWorld
}

// WorldToObjectMatrix returns the world-to-object matrix of the node.
//
// Returns:
//   - mgl32.Mat4: the matrix, or identity for an invalid handle
func (g *Graph) WorldToObjectMatrix(h Handle) mgl32.Mat4 {
	n := g.get(h)
	if n == nil {
		return mgl32.Ident4()
	}
	return g.refreshWorld(n).worldToObject
}

// WorldOrigin returns the node origin in world space.
func (g *Graph) WorldOrigin(h Handle) mgl32.Vec3 {
	return g.ObjectToWorldMatrix(h).Col(3).Vec3()
}

// WorldAxisZ returns the normalized object z-axis in world space.
func (g *Graph) WorldAxisZ(h Handle) mgl32.Vec3 {
	return g.ObjectToWorldMatrix(h).Col(2).Vec3().Normalize()
}

func (g *Graph) refreshWorld(n *nodeData) *worldCache {
	parentO2W, parentW2O := mgl32.Ident4(), mgl32.Ident4()
	var parentVersion uint64
	if p := g.get(n.parent); p != nil {
		pc := g.refreshWorld(p)
		parentO2W, parentW2O = pc.objectToWorld, pc.worldToObject
		parentVersion = pc.version
	}

	w := &n.world
	if w.valid &&
		w.localVersion == n.transform.Version() &&
		w.parent == n.parent &&
		w.parentVersion == parentVersion {
		return w
	}

	g.worldVersion++
	w.objectToWorld = parentO2W.Mul4(n.transform.ObjectToParentMatrix())
	w.worldToObject = n.transform.ParentToObjectMatrix().Mul4(parentW2O)
	w.localVersion = n.transform.Version()
	w.parent = n.parent
	w.parentVersion = parentVersion
	w.version = g.worldVersion
	w.valid = true
	return w
}
