package node

import (
	"testing"

	"github.com/Carmen-Shannon/lumen/engine/idgen"
	"github.com/Carmen-Shannon/lumen/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testComponent struct {
	ComponentBase
	kind Kind
}

func (c *testComponent) Kind() Kind { return c.kind }

func newTestComponent(kind Kind) *testComponent {
	return &testComponent{kind: kind}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	g := NewGraph(idgen.New(100))
	a := g.Create("a")
	b := g.Create("b")

	assert.Equal(t, uint64(100), g.ID(a))
	assert.Equal(t, uint64(101), g.ID(b))
	assert.Equal(t, "a", g.Name(a))
	assert.Equal(t, StateActive, g.State(a))
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Parent(a).IsNil())
}

func TestAddRemoveChildRoundTrip(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")

	g.AddChild(a, b)
	assert.Equal(t, a, g.Parent(b))
	assert.Equal(t, []Handle{b}, g.Children(a))

	g.RemoveChild(a, b)
	assert.True(t, g.Parent(b).IsNil())
	assert.Empty(t, g.Children(a))

	g.AddChild(a, b)
	g.AddChild(a, b)
	assert.Equal(t, []Handle{b}, g.Children(a), "re-adding must not duplicate the child")
}

func TestAddChildReparents(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")

	g.AddChild(a, c)
	g.AddChild(b, c)

	assert.Empty(t, g.Children(a))
	assert.Equal(t, []Handle{c}, g.Children(b))
	assert.Equal(t, b, g.Parent(c))
}

func TestAddChildRejectsCycles(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")

	g.AddChild(a, a)
	assert.Empty(t, g.Children(a))
	assert.True(t, g.Parent(a).IsNil())

	g.AddChild(a, b)
	g.AddChild(b, a)
	assert.True(t, g.Parent(a).IsNil(), "a parent cannot become its child's child")
	assert.Empty(t, g.Children(b))

	g.AddChild(b, c)
	g.AddChild(c, a)
	assert.True(t, g.Parent(a).IsNil(), "indirect cycles are rejected")
}

func TestAddChildRejectsInvalidHandles(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	g.AddChild(a, Nil)
	g.AddChild(Nil, a)
	assert.Empty(t, g.Children(a))

	b := g.Create("b")
	g.Destroy(b)
	g.AddChild(a, b)
	assert.Empty(t, g.Children(a))
}

func TestRemoveChildIgnoresForeignChild(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")
	g.AddChild(a, c)

	g.RemoveChild(b, c)
	assert.Equal(t, a, g.Parent(c))
	assert.Equal(t, []Handle{c}, g.Children(a))
}

func TestRemoveChildWithBrokenConnectionsIsFatal(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	g.AddChild(a, b)

	g.get(a).children = nil
	assert.Panics(t, func() { g.RemoveChild(a, b) })
}

func TestAddChildMarksMovedTransformDirty(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	before := g.Transform(b).Version()

	g.AddChild(a, b)
	assert.Greater(t, g.Transform(b).Version(), before)
	assert.Equal(t, uint64(0), g.Transform(a).Version(), "the parent is left untouched")
}

func TestRemoveAllChildren(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	kids := []Handle{g.Create("b"), g.Create("c"), g.Create("d")}
	for _, k := range kids {
		g.AddChild(a, k)
	}

	g.RemoveAllChildren(a)
	assert.Zero(t, g.ChildCount(a))
	for _, k := range kids {
		assert.True(t, g.Valid(k))
		assert.True(t, g.Parent(k).IsNil())
	}
}

func TestAddComponentIsInsertIfAbsent(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	first := newTestComponent(KindCamera)
	second := newTestComponent(KindCamera)

	assert.True(t, g.AddComponent(a, first))
	assert.False(t, g.AddComponent(a, second))
	assert.True(t, second.Owner().IsNil())

	c, ok := g.Component(a, KindCamera)
	require.True(t, ok)
	assert.Same(t, first, c)
	assert.Equal(t, a, first.Owner())

	assert.False(t, g.AddComponent(a, nil))
	assert.True(t, g.AddComponent(a, newTestComponent(KindModel)))
	assert.Len(t, g.Components(a), 2)
}

func TestAddComponentRejectsOwnedAndTerminated(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	c := newTestComponent(KindModel)
	require.True(t, g.AddComponent(a, c))
	assert.False(t, g.AddComponent(b, c), "owned elsewhere")

	dead := newTestComponent(KindModel)
	dead.SetState(StateTerminated)
	assert.False(t, g.AddComponent(b, dead))
}

func TestRemoveComponent(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	c := newTestComponent(KindSpotLight)
	g.AddComponent(a, c)

	assert.Same(t, c, g.RemoveComponent(a, KindSpotLight))
	assert.True(t, c.Owner().IsNil())
	assert.False(t, g.HasComponent(a, KindSpotLight))
	assert.Nil(t, g.RemoveComponent(a, KindSpotLight))
}

func TestSetStateRejectsTerminatedAndNoop(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	c := newTestComponent(KindModel)
	g.AddComponent(a, c)

	g.SetState(a, StateTerminated)
	assert.Equal(t, StateActive, g.State(a))
	assert.Equal(t, StateActive, c.State())
}

func TestSetStatePropagatesToWholeSubtree(t *testing.T) {
	g := NewGraph(nil)
	root := g.Create("root")
	mid := g.Create("mid")
	leaf := g.Create("leaf")
	g.AddChild(root, mid)
	g.AddChild(mid, leaf)

	comps := []*testComponent{newTestComponent(KindModel), newTestComponent(KindCamera), newTestComponent(KindOmniLight)}
	g.AddComponent(root, comps[0])
	g.AddComponent(mid, comps[1])
	g.AddComponent(leaf, comps[2])

	// A descendant already in the target state must not stop propagation below it.
	g.SetState(mid, StatePassive)
	g.SetState(leaf, StateActive)
	comps[2].SetState(StateActive)

	g.SetState(root, StatePassive)
	for _, h := range []Handle{root, mid, leaf} {
		assert.Equal(t, StatePassive, g.State(h), g.Name(h))
	}
	for _, c := range comps {
		assert.Equal(t, StatePassive, c.State())
	}

	g.SetState(root, StateActive)
	assert.Equal(t, StateActive, g.State(leaf))
	assert.Equal(t, StateActive, comps[2].State())
}

func TestDestroyTearsDownSubtree(t *testing.T) {
	g := NewGraph(nil)
	root := g.Create("root")
	mid := g.Create("mid")
	leaf := g.Create("leaf")
	g.AddChild(root, mid)
	g.AddChild(mid, leaf)
	c := newTestComponent(KindModel)
	g.AddComponent(leaf, c)

	g.Destroy(mid)

	assert.True(t, g.Valid(root))
	assert.Empty(t, g.Children(root))
	assert.False(t, g.Valid(mid))
	assert.False(t, g.Valid(leaf))
	assert.Equal(t, StateTerminated, g.State(leaf))
	assert.Equal(t, StateTerminated, c.State())
	assert.Equal(t, 1, g.Len())

	c.SetState(StateActive)
	assert.Equal(t, StateTerminated, c.State(), "terminated components stay terminated")
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	g.Destroy(a)
	b := g.Create("b")

	assert.Equal(t, a.index, b.index)
	assert.NotEqual(t, a, b)
	assert.False(t, g.Valid(a))
	assert.Equal(t, "", g.Name(a))
	assert.Equal(t, "b", g.Name(b))
}

func TestEachVisitsLiveNodesInArenaOrder(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")
	g.Destroy(b)

	var got []Handle
	g.Each(func(h Handle) { got = append(got, h) })
	assert.Equal(t, []Handle{a, c}, got)
}

func TestWorldMatricesFollowHierarchy(t *testing.T) {
	g := NewGraph(nil)
	parent := g.Create("parent", transform.WithTranslation(mgl32.Vec3{1, 0, 0}))
	child := g.Create("child", transform.WithTranslation(mgl32.Vec3{0, 2, 0}))
	g.AddChild(parent, child)

	origin := g.WorldOrigin(child)
	assert.InDelta(t, 1, origin[0], 1e-6)
	assert.InDelta(t, 2, origin[1], 1e-6)

	g.Transform(parent).SetTranslationX(5)
	origin = g.WorldOrigin(child)
	assert.InDelta(t, 5, origin[0], 1e-6, "descendants observe parent changes")

	g.RemoveChild(parent, child)
	origin = g.WorldOrigin(child)
	assert.InDelta(t, 0, origin[0], 1e-6)

	g.AddChild(parent, child)
	g.Transform(parent).SetScale(2)
	o2w := g.ObjectToWorldMatrix(child)
	w2o := g.WorldToObjectMatrix(child)
	id := o2w.Mul4(w2o)
	for i, v := range mgl32.Ident4() {
		assert.InDelta(t, v, id[i], 1e-5)
	}
}

func TestWorldCacheIsReused(t *testing.T) {
	g := NewGraph(nil)
	a := g.Create("a")
	g.ObjectToWorldMatrix(a)
	v := g.get(a).world.version

	g.ObjectToWorldMatrix(a)
	assert.Equal(t, v, g.get(a).world.version)

	g.Transform(a).AddRotationY(0.5)
	g.ObjectToWorldMatrix(a)
	assert.NotEqual(t, v, g.get(a).world.version)
}
