package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a right-handed perspective projection matrix that maps depth
// into the WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// OrthographicOffCenter creates a right-handed off-center orthographic projection
// with depth mapped into [0, 1].
//
// Parameters:
//   - left, right: horizontal extents in view space
//   - bottom, top: vertical extents in view space
//   - near, far: clipping distances along the view direction
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func OrthographicOffCenter(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	out := mgl32.Ident4()
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
	return out
}

// LookAt creates a right-handed view matrix that transforms world coordinates into
// camera space, with the camera looking down its local -Z axis.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically +Y)
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, up)
}

// WrapAngleRadians wraps an angle into the range [-π, π].
//
// Parameters:
//   - angle: the angle in radians
//
// Returns:
//   - float32: the equivalent angle in [-π, π]
func WrapAngleRadians(angle float32) float32 {
	const twoPi = 2 * math.Pi
	a := math.Mod(float64(angle)+math.Pi, twoPi)
	if a < 0 {
		a += twoPi
	}
	return float32(a - math.Pi)
}

// ClampAngleRadians wraps angle into [-π, π] and clamps the result to [minAngle, maxAngle].
//
// Parameters:
//   - angle: the angle in radians
//   - minAngle: lower bound in [-π, π]
//   - maxAngle: upper bound in [-π, π], not less than minAngle
//
// Returns:
//   - float32: the clamped angle
func ClampAngleRadians(angle, minAngle, maxAngle float32) float32 {
	return mgl32.Clamp(WrapAngleRadians(angle), minAngle, maxAngle)
}

// TransformPoint applies m to the point p (w = 1) and returns the xyz result.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies m to the direction d (w = 0) and returns the xyz result.
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
