// Package transform holds the local translation, rotation and scale of a scene node
// together with lazily recomputed object-to-parent and parent-to-object matrices.
package transform

import (
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local transform expressed relative to the parent coordinate frame.
//
// Rotation is stored as Euler angles in radians and applied around Z, then X, then Y.
// The object-to-parent matrix applies scale, then rotation, then translation; the
// parent-to-object matrix applies the inverses in reverse order. Both matrices are
// cached and recomputed only when read after a mutation, each with its own dirty flag.
//
// Transform is a value type: copying one produces an independent transform.
// It is not safe for concurrent mutation.
type Transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Vec3
	scale       mgl32.Vec3

	objectToParent      mgl32.Mat4
	parentToObject      mgl32.Mat4
	dirtyObjectToParent bool
	dirtyParentToObject bool

	version uint64
}

// New creates an identity transform with any provided options applied.
//
// Parameters:
//   - opts: variadic list of TransformBuilderOption functions
//
// Returns:
//   - Transform: the configured transform
func New(opts ...TransformBuilderOption) Transform {
	t := Transform{
		scale:               mgl32.Vec3{1, 1, 1},
		objectToParent:      mgl32.Ident4(),
		parentToObject:      mgl32.Ident4(),
		dirtyObjectToParent: true,
		dirtyParentToObject: true,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// MarkDirty invalidates both cached matrices without changing any component.
func (t *Transform) MarkDirty() {
	t.dirtyObjectToParent = true
	t.dirtyParentToObject = true
	t.version++
}

// Version returns a counter that increases on every mutation. Consumers caching data
// derived from this transform compare versions to detect staleness.
func (t *Transform) Version() uint64 {
	return t.version
}

// Translation returns the translation component.
func (t *Transform) Translation() mgl32.Vec3 { return t.translation }

// TranslationX returns the x-value of the translation component.
func (t *Transform) TranslationX() float32 { return t.translation[0] }

// TranslationY returns the y-value of the translation component.
func (t *Transform) TranslationY() float32 { return t.translation[1] }

// TranslationZ returns the z-value of the translation component.
func (t *Transform) TranslationZ() float32 { return t.translation[2] }

// SetTranslation sets the translation component.
func (t *Transform) SetTranslation(v mgl32.Vec3) {
	t.translation = v
	t.MarkDirty()
}

// SetTranslationX sets the x-value of the translation component.
func (t *Transform) SetTranslationX(x float32) {
	t.translation[0] = x
	t.MarkDirty()
}

// SetTranslationY sets the y-value of the translation component.
func (t *Transform) SetTranslationY(y float32) {
	t.translation[1] = y
	t.MarkDirty()
}

// SetTranslationZ sets the z-value of the translation component.
func (t *Transform) SetTranslationZ(z float32) {
	t.translation[2] = z
	t.MarkDirty()
}

// AddTranslation adds v to the translation component.
func (t *Transform) AddTranslation(v mgl32.Vec3) {
	t.translation = t.translation.Add(v)
	t.MarkDirty()
}

// AddTranslationX adds x to the x-value of the translation component.
func (t *Transform) AddTranslationX(x float32) {
	t.translation[0] += x
	t.MarkDirty()
}

// AddTranslationY adds y to the y-value of the translation component.
func (t *Transform) AddTranslationY(y float32) {
	t.translation[1] += y
	t.MarkDirty()
}

// AddTranslationZ adds z to the z-value of the translation component.
func (t *Transform) AddTranslationZ(z float32) {
	t.translation[2] += z
	t.MarkDirty()
}

// Rotation returns the rotation component as Euler angles in radians.
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }

// RotationX returns the x-value of the rotation component.
func (t *Transform) RotationX() float32 { return t.rotation[0] }

// RotationY returns the y-value of the rotation component.
func (t *Transform) RotationY() float32 { return t.rotation[1] }

// RotationZ returns the z-value of the rotation component.
func (t *Transform) RotationZ() float32 { return t.rotation[2] }

// SetRotation sets the rotation component.
func (t *Transform) SetRotation(v mgl32.Vec3) {
	t.rotation = v
	t.MarkDirty()
}

// SetRotationX sets the x-value of the rotation component.
func (t *Transform) SetRotationX(x float32) {
	t.rotation[0] = x
	t.MarkDirty()
}

// SetRotationY sets the y-value of the rotation component.
func (t *Transform) SetRotationY(y float32) {
	t.rotation[1] = y
	t.MarkDirty()
}

// SetRotationZ sets the z-value of the rotation component.
func (t *Transform) SetRotationZ(z float32) {
	t.rotation[2] = z
	t.MarkDirty()
}

// AddRotation adds v to the rotation component.
func (t *Transform) AddRotation(v mgl32.Vec3) {
	t.rotation = t.rotation.Add(v)
	t.MarkDirty()
}

// AddRotationX adds x to the x-value of the rotation component.
func (t *Transform) AddRotationX(x float32) {
	t.rotation[0] += x
	t.MarkDirty()
}

// AddRotationY adds y to the y-value of the rotation component.
func (t *Transform) AddRotationY(y float32) {
	t.rotation[1] += y
	t.MarkDirty()
}

// AddRotationZ adds z to the z-value of the rotation component.
func (t *Transform) AddRotationZ(z float32) {
	t.rotation[2] += z
	t.MarkDirty()
}

// AddAndClampRotation adds v to the rotation component and clamps each resulting angle
// into [minAngle, maxAngle]. The bounds must lie in [-π, π] with minAngle <= maxAngle.
func (t *Transform) AddAndClampRotation(v mgl32.Vec3, minAngle, maxAngle float32) {
	for i := 0; i < 3; i++ {
		t.rotation[i] = common.ClampAngleRadians(t.rotation[i]+v[i], minAngle, maxAngle)
	}
	t.MarkDirty()
}

// AddAndClampRotationX adds x to the x-value of the rotation component and clamps the
// result into [minAngle, maxAngle].
func (t *Transform) AddAndClampRotationX(x, minAngle, maxAngle float32) {
	t.rotation[0] = common.ClampAngleRadians(t.rotation[0]+x, minAngle, maxAngle)
	t.MarkDirty()
}

// AddAndClampRotationY adds y to the y-value of the rotation component and clamps the
// result into [minAngle, maxAngle].
func (t *Transform) AddAndClampRotationY(y, minAngle, maxAngle float32) {
	t.rotation[1] = common.ClampAngleRadians(t.rotation[1]+y, minAngle, maxAngle)
	t.MarkDirty()
}

// AddAndClampRotationZ adds z to the z-value of the rotation component and clamps the
// result into [minAngle, maxAngle].
func (t *Transform) AddAndClampRotationZ(z, minAngle, maxAngle float32) {
	t.rotation[2] = common.ClampAngleRadians(t.rotation[2]+z, minAngle, maxAngle)
	t.MarkDirty()
}

// Scale returns the scale component.
func (t *Transform) Scale() mgl32.Vec3 { return t.scale }

// ScaleX returns the x-value of the scale component.
func (t *Transform) ScaleX() float32 { return t.scale[0] }

// ScaleY returns the y-value of the scale component.
func (t *Transform) ScaleY() float32 { return t.scale[1] }

// ScaleZ returns the z-value of the scale component.
func (t *Transform) ScaleZ() float32 { return t.scale[2] }

// SetScale sets all three scale factors to s.
func (t *Transform) SetScale(s float32) {
	t.scale = mgl32.Vec3{s, s, s}
	t.MarkDirty()
}

// SetScaleV sets the scale component.
func (t *Transform) SetScaleV(v mgl32.Vec3) {
	t.scale = v
	t.MarkDirty()
}

// SetScaleX sets the x-value of the scale component.
func (t *Transform) SetScaleX(x float32) {
	t.scale[0] = x
	t.MarkDirty()
}

// SetScaleY sets the y-value of the scale component.
func (t *Transform) SetScaleY(y float32) {
	t.scale[1] = y
	t.MarkDirty()
}

// SetScaleZ sets the z-value of the scale component.
func (t *Transform) SetScaleZ(z float32) {
	t.scale[2] = z
	t.MarkDirty()
}

// AddScale adds v to the scale component.
func (t *Transform) AddScale(v mgl32.Vec3) {
	t.scale = t.scale.Add(v)
	t.MarkDirty()
}

// AddScaleX adds x to the x-value of the scale component.
func (t *Transform) AddScaleX(x float32) {
	t.scale[0] += x
	t.MarkDirty()
}

// AddScaleY adds y to the y-value of the scale component.
func (t *Transform) AddScaleY(y float32) {
	t.scale[1] += y
	t.MarkDirty()
}

// AddScaleZ adds z to the z-value of the scale component.
func (t *Transform) AddScaleZ(z float32) {
	t.scale[2] += z
	t.MarkDirty()
}

// ObjectToParentMatrix returns the object-to-parent matrix, recomputing it if a
// mutation happened since the last read.
//
// Returns:
//   - mgl32.Mat4: T * Ry * Rx * Rz * S
func (t *Transform) ObjectToParentMatrix() mgl32.Mat4 {
	if t.dirtyObjectToParent {
		t.objectToParent = mgl32.Translate3D(t.translation[0], t.translation[1], t.translation[2]).
			Mul4(mgl32.HomogRotate3DY(t.rotation[1])).
			Mul4(mgl32.HomogRotate3DX(t.rotation[0])).
			Mul4(mgl32.HomogRotate3DZ(t.rotation[2])).
			Mul4(mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2]))
		t.dirtyObjectToParent = false
	}
	return t.objectToParent
}

// ParentToObjectMatrix returns the parent-to-object matrix, recomputing it if a
// mutation happened since the last read.
//
// Returns:
//   - mgl32.Mat4: S⁻¹ * Rz⁻¹ * Rx⁻¹ * Ry⁻¹ * T⁻¹
func (t *Transform) ParentToObjectMatrix() mgl32.Mat4 {
	if t.dirtyParentToObject {
		t.parentToObject = mgl32.Scale3D(1/t.scale[0], 1/t.scale[1], 1/t.scale[2]).
			Mul4(mgl32.HomogRotate3DZ(-t.rotation[2])).
			Mul4(mgl32.HomogRotate3DX(-t.rotation[0])).
			Mul4(mgl32.HomogRotate3DY(-t.rotation[1])).
			Mul4(mgl32.Translate3D(-t.translation[0], -t.translation[1], -t.translation[2]))
		t.dirtyParentToObject = false
	}
	return t.parentToObject
}

// ParentOrigin returns the object origin expressed in parent space.
func (t *Transform) ParentOrigin() mgl32.Vec3 {
	return t.translation
}

// ParentAxisX returns the object x-axis expressed in parent space.
func (t *Transform) ParentAxisX() mgl32.Vec3 {
	return t.ObjectToParentMatrix().Col(0).Vec3()
}

// ParentAxisY returns the object y-axis expressed in parent space.
func (t *Transform) ParentAxisY() mgl32.Vec3 {
	return t.ObjectToParentMatrix().Col(1).Vec3()
}

// ParentAxisZ returns the object z-axis expressed in parent space.
func (t *Transform) ParentAxisZ() mgl32.Vec3 {
	return t.ObjectToParentMatrix().Col(2).Vec3()
}

// TransformObjectToParentPoint maps an object-space point into parent space.
func (t *Transform) TransformObjectToParentPoint(p mgl32.Vec3) mgl32.Vec3 {
	return common.TransformPoint(t.ObjectToParentMatrix(), p)
}

// TransformObjectToParentDirection maps an object-space direction into parent space.
func (t *Transform) TransformObjectToParentDirection(d mgl32.Vec3) mgl32.Vec3 {
	return common.TransformDirection(t.ObjectToParentMatrix(), d)
}

// TransformParentToObjectPoint maps a parent-space point into object space.
func (t *Transform) TransformParentToObjectPoint(p mgl32.Vec3) mgl32.Vec3 {
	return common.TransformPoint(t.ParentToObjectMatrix(), p)
}

// TransformParentToObjectDirection maps a parent-space direction into object space.
func (t *Transform) TransformParentToObjectDirection(d mgl32.Vec3) mgl32.Vec3 {
	return common.TransformDirection(t.ParentToObjectMatrix(), d)
}
