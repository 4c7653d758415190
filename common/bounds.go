package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB returns the box spanned by min and max.
func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half-size of the box along each axis.
func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Transform returns the box enclosing b after applying m to its eight corners.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	inf := float32(math.Inf(1))
	out := AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		p := TransformPoint(m, c)
		for k := 0; k < 3; k++ {
			out.Min[k] = min(out.Min[k], p[k])
			out.Max[k] = max(out.Max[k], p[k])
		}
	}
	return out
}

// BoundingSphere is a sphere used for coarse culling.
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Transform returns the sphere after applying m. The radius is scaled by the largest
// axis scale of m so the result always encloses the transformed sphere.
func (s BoundingSphere) Transform(m mgl32.Mat4) BoundingSphere {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return BoundingSphere{
		Center: TransformPoint(m, s.Center),
		Radius: s.Radius * max(sx, sy, sz),
	}
}
