// Package model implements the model component: a named mesh drawn with a material.
package model

import (
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/material"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var modelCount atomic.Uint64

// model is the implementation of the Model interface.
type model struct {
	node.ComponentBase

	mesh           string
	material       material.Material
	aabb           common.AABB
	boundingSphere common.BoundingSphere
	bufferKey      gpu.BufferKey
}

// Model is a node component that draws a mesh with a material at its owner's world transform.
type Model interface {
	node.Component

	// Mesh returns the name of the mesh resource.
	Mesh() string

	// SetMesh sets the name of the mesh resource.
	SetMesh(mesh string)

	// Material returns the material, or nil if none is set.
	Material() material.Material

	// SetMaterial sets the material.
	SetMaterial(m material.Material)

	// AABB returns the object-space bounding box of the mesh.
	AABB() common.AABB

	// BoundingSphere returns the object-space bounding sphere of the mesh.
	BoundingSphere() common.BoundingSphere

	// SetBounds sets the object-space bounding box and derives the bounding sphere from it.
	SetBounds(aabb common.AABB)

	// BufferKey returns the key of the model's GPU buffer.
	BufferKey() gpu.BufferKey

	// BufferData marshals the model buffer for the given world matrices. It only reads
	// the model and is safe to call from worker goroutines.
	//
	// Parameters:
	//   - objectToWorld: the owner's object-to-world matrix
	//   - worldToObject: the owner's world-to-object matrix
	//
	// Returns:
	//   - []byte: the marshaled buffer (GPUModelBufferSize bytes)
	BufferData(objectToWorld, worldToObject mgl32.Mat4) []byte

	// UpdateBuffer marshals and writes the model buffer.
	//
	// Returns:
	//   - error: an error if the write fails
	UpdateBuffer(ctx gpu.Context, objectToWorld, worldToObject mgl32.Mat4) error
}

var _ Model = &model{}

// NewModel creates a model for the named mesh with any provided options applied.
//
// Parameters:
//   - mesh: the mesh resource name
//   - opts: variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the new model
func NewModel(mesh string, opts ...ModelBuilderOption) Model {
	m := &model{
		mesh:      mesh,
		bufferKey: gpu.BufferKey("model_" + strconv.FormatUint(modelCount.Add(1), 10)),
	}
	m.SetBounds(common.NewAABB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5}))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *model) Kind() node.Kind {
	return node.KindModel
}

func (m *model) Mesh() string {
	return m.mesh
}

func (m *model) SetMesh(mesh string) {
	m.mesh = mesh
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) SetMaterial(mat material.Material) {
	m.material = mat
}

func (m *model) AABB() common.AABB {
	return m.aabb
}

func (m *model) BoundingSphere() common.BoundingSphere {
	return m.boundingSphere
}

func (m *model) SetBounds(aabb common.AABB) {
	m.aabb = aabb
	m.boundingSphere = common.BoundingSphere{Center: aabb.Center(), Radius: aabb.Extents().Len()}
}

func (m *model) BufferKey() gpu.BufferKey {
	return m.bufferKey
}

func (m *model) BufferData(objectToWorld, worldToObject mgl32.Mat4) []byte {
	payload := GPUModelBuffer{
		ObjectToWorld: objectToWorld,
		NormalToWorld: worldToObject.Transpose(),
		BaseColor:     mgl32.Vec4{1, 1, 1, 1},
		Roughness:     0.5,
		Lit:           true,
	}
	if mat := m.material; mat != nil {
		payload.BaseColor = mat.BaseColor()
		payload.Roughness = mat.Roughness()
		payload.Metalness = mat.Metalness()
		payload.Lit = mat.InteractsWithLight()
	}
	return payload.Marshal()
}

func (m *model) UpdateBuffer(ctx gpu.Context, objectToWorld, worldToObject mgl32.Mat4) error {
	if err := ctx.WriteBuffer(m.bufferKey, 0, m.BufferData(objectToWorld, worldToObject)); err != nil {
		return errors.Wrapf(err, "model: write buffer %s", m.bufferKey)
	}
	return nil
}
