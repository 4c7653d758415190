package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane. Positive values lie inside.
func (p Plane) SignedDistance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a world-to-projection matrix using the
// Gribb/Hartmann method. The near plane assumes the [0, 1] clip depth range.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - m: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(m mgl32.Mat4) Frustum {
	var f Frustum

	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	planes := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r2,
		r3.Sub(r2),
	}
	for i, p := range planes {
		f.Planes[i] = Plane{Normal: p.Vec3(), Distance: p[3]}
		f.normalizePlane(i)
	}
	return f
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := p.Normal.Len()
	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}

// ContainsSphere reports whether the sphere intersects or lies inside the frustum.
func (f *Frustum) ContainsSphere(s BoundingSphere) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether the box intersects or lies inside the frustum. For every
// plane the corner furthest along the plane normal is tested.
func (f *Frustum) ContainsAABB(b AABB) bool {
	for i := range f.Planes {
		n := f.Planes[i].Normal
		var pv mgl32.Vec3
		for k := 0; k < 3; k++ {
			if n[k] >= 0 {
				pv[k] = b.Max[k]
			} else {
				pv[k] = b.Min[k]
			}
		}
		if f.Planes[i].SignedDistance(pv) < 0 {
			return false
		}
	}
	return true
}
