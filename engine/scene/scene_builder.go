package scene

import (
	"github.com/Carmen-Shannon/lumen/engine/idgen"
	"github.com/Carmen-Shannon/lumen/engine/material"
	"github.com/Carmen-Shannon/lumen/engine/resource"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithIDGenerator sets the generator that assigns node ids. Scenes sharing a generator
// get ids that are unique across all of them.
//
// Parameters:
//   - ids: the id generator
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithIDGenerator(ids *idgen.Generator) SceneBuilderOption {
	return func(s *scene) {
		s.ids = ids
	}
}

// WithMaterials sets the material registry, allowing several scenes to share materials.
//
// Parameters:
//   - m: the material registry
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterials(m *resource.Manager[material.Material]) SceneBuilderOption {
	return func(s *scene) {
		s.materials = m
	}
}

// WithScripts adds scripts without loading them. Call Scene.Load once the scene is built.
//
// Parameters:
//   - scripts: the scripts to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithScripts(scripts ...Script) SceneBuilderOption {
	return func(s *scene) {
		for _, sc := range scripts {
			if sc != nil && !s.HasScript(sc) {
				s.scripts = append(s.scripts, sc)
			}
		}
	}
}
