package model

import (
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/material"
)

// ModelBuilderOption is a functional option for configuring a Model.
type ModelBuilderOption func(*model)

// WithMaterial sets the material of the model.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option
func WithMaterial(m material.Material) ModelBuilderOption {
	return func(mo *model) {
		mo.material = m
	}
}

// WithBounds sets the object-space bounding box of the mesh.
//
// Parameters:
//   - aabb: the bounding box
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounds option
func WithBounds(aabb common.AABB) ModelBuilderOption {
	return func(mo *model) {
		mo.SetBounds(aabb)
	}
}
