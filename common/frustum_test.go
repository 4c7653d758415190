package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	proj := Perspective(math.Pi/2, 1, 1, 50)
	view := LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return ExtractFrustum(proj.Mul4(view))
}

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
	assert.InDelta(t, 1, f.Planes[FrustumNear].SignedDistance(mgl32.Vec3{0, 0, -2}), 1e-4)
	assert.InDelta(t, 10, f.Planes[FrustumFar].SignedDistance(mgl32.Vec3{0, 0, -40}), 1e-3)
}

func TestFrustumContainsSphere(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.ContainsSphere(BoundingSphere{Center: mgl32.Vec3{0, 0, -10}, Radius: 1}))
	assert.False(t, f.ContainsSphere(BoundingSphere{Center: mgl32.Vec3{0, 0, 10}, Radius: 1}), "behind the eye")
	assert.True(t, f.ContainsSphere(BoundingSphere{Center: mgl32.Vec3{0, 0, -0.5}, Radius: 1}), "straddles the near plane")
	assert.False(t, f.ContainsSphere(BoundingSphere{Center: mgl32.Vec3{0, 0, -60}, Radius: 5}))
}

func TestFrustumContainsAABB(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.ContainsAABB(NewAABB(mgl32.Vec3{-1, -1, -6}, mgl32.Vec3{1, 1, -4})))
	assert.False(t, f.ContainsAABB(NewAABB(mgl32.Vec3{20, -1, -6}, mgl32.Vec3{22, 1, -4})), "right of the frustum")
	assert.True(t, f.ContainsAABB(NewAABB(mgl32.Vec3{-100, -100, -20}, mgl32.Vec3{100, 100, -10})), "encloses the frustum section")
}
