// Package scene ties the node graph to the behavior scripts that drive it and offers
// typed iteration over the components the renderer consumes.
package scene

import (
	"reflect"
	"slices"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/idgen"
	"github.com/Carmen-Shannon/lumen/engine/light"
	"github.com/Carmen-Shannon/lumen/engine/material"
	"github.com/Carmen-Shannon/lumen/engine/model"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/resource"
	"github.com/Carmen-Shannon/lumen/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scene is a forest of nodes plus the scripts that update it.
//
// A Scene is not safe for concurrent use. Scripts, graph mutation, and rendering all run
// on the engine's loop goroutine.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// GUID returns the unique identifier assigned when the scene was created.
	GUID() uuid.UUID

	// Graph returns the node graph.
	Graph() *node.Graph

	// Materials returns the materials shared by the scene's models.
	Materials() *resource.Manager[material.Material]

	// CreateNode creates a root node and attaches the given components to it.
	// Components that cannot be attached are skipped.
	//
	// Parameters:
	//   - name: the node name
	//   - components: components to attach, at most one per kind
	//
	// Returns:
	//   - node.Handle: the new node
	CreateNode(name string, components ...node.Component) node.Handle

	// CreateNodeWithTransform creates a root node with the given local transform options.
	CreateNodeWithTransform(name string, opts ...transform.TransformBuilderOption) node.Handle

	// DestroyNode destroys the node and its subtree.
	DestroyNode(h node.Handle)

	// ObjectToWorld returns the object-to-world matrix of the node.
	ObjectToWorld(h node.Handle) mgl32.Mat4

	// WorldToObject returns the world-to-object matrix of the node.
	WorldToObject(h node.Handle) mgl32.Mat4

	// ForEachCamera calls fn for every camera in arena order, stopping at the first error.
	ForEachCamera(fn func(camera.Camera) error) error

	// ForEachModel calls fn for every model in arena order, stopping at the first error.
	ForEachModel(fn func(model.Model) error) error

	// ForEachDirectionalLight calls fn for every directional light in arena order.
	ForEachDirectionalLight(fn func(light.DirectionalLight) error) error

	// ForEachOmniLight calls fn for every omni light in arena order.
	ForEachOmniLight(fn func(light.OmniLight) error) error

	// ForEachSpotLight calls fn for every spot light in arena order.
	ForEachSpotLight(fn func(light.SpotLight) error) error

	// AddScript adds the script unless it is already present. When load is true the
	// script is loaded right after it is inserted.
	//
	// Returns:
	//   - error: the error returned by Load
	AddScript(script Script, load bool) error

	// Script returns the first script with the given name.
	Script(name string) (Script, bool)

	// HasScript reports whether the script instance is present. Scripts are matched by
	// identity; values of a non-comparable type never match.
	HasScript(script Script) bool

	// HasScriptNamed reports whether a script with the given name is present.
	HasScriptNamed(name string) bool

	// ScriptCount returns the number of scripts.
	ScriptCount() int

	// RemoveScript removes the script instance, closing it first when close is true.
	RemoveScript(script Script, close bool) error

	// RemoveScriptNamed removes the first script with the given name, closing it first
	// when close is true.
	RemoveScriptNamed(name string, close bool) error

	// RemoveAllScripts removes every script, closing each when close is true. All
	// scripts are removed even if closing one of them fails.
	RemoveAllScripts(close bool) error

	// Load loads every script in insertion order.
	Load() error

	// FixedUpdate runs one fixed step of every script in insertion order.
	FixedUpdate() error

	// Update runs every script once in insertion order.
	Update(dt float64) error

	// Close closes and removes every script and destroys every node.
	Close() error
}

// scene is the implementation of the Scene interface.
type scene struct {
	name      string
	guid      uuid.UUID
	ids       *idgen.Generator
	graph     *node.Graph
	materials *resource.Manager[material.Material]
	scripts   []Script
}

var _ Scene = &scene{}

// NewScene creates an empty scene.
//
// Parameters:
//   - name: the scene name
//   - opts: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, opts ...SceneBuilderOption) Scene {
	s := &scene{
		name: name,
		guid: uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = idgen.New(1)
	}
	if s.materials == nil {
		s.materials = resource.NewManager[material.Material]()
	}
	s.graph = node.NewGraph(s.ids)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) GUID() uuid.UUID {
	return s.guid
}

func (s *scene) Graph() *node.Graph {
	return s.graph
}

func (s *scene) Materials() *resource.Manager[material.Material] {
	return s.materials
}

func (s *scene) CreateNode(name string, components ...node.Component) node.Handle {
	h := s.graph.Create(name)
	for _, c := range components {
		if !s.graph.AddComponent(h, c) {
			common.Logger().Warn("scene: component rejected", "node", name, "kind", c.Kind())
		}
	}
	return h
}

func (s *scene) CreateNodeWithTransform(name string, opts ...transform.TransformBuilderOption) node.Handle {
	return s.graph.Create(name, opts...)
}

func (s *scene) DestroyNode(h node.Handle) {
	s.graph.Destroy(h)
}

func (s *scene) ObjectToWorld(h node.Handle) mgl32.Mat4 {
	return s.graph.ObjectToWorldMatrix(h)
}

func (s *scene) WorldToObject(h node.Handle) mgl32.Mat4 {
	return s.graph.WorldToObjectMatrix(h)
}

// forEachComponent visits every component of the given kind in arena order.
func forEachComponent[T node.Component](g *node.Graph, kind node.Kind, fn func(T) error) error {
	var err error
	g.Each(func(h node.Handle) {
		if err != nil {
			return
		}
		c, ok := g.Component(h, kind)
		if !ok {
			return
		}
		if typed, ok := c.(T); ok {
			err = fn(typed)
		}
	})
	return err
}

func (s *scene) ForEachCamera(fn func(camera.Camera) error) error {
	return forEachComponent(s.graph, node.KindCamera, fn)
}

func (s *scene) ForEachModel(fn func(model.Model) error) error {
	return forEachComponent(s.graph, node.KindModel, fn)
}

func (s *scene) ForEachDirectionalLight(fn func(light.DirectionalLight) error) error {
	return forEachComponent(s.graph, node.KindDirectionalLight, fn)
}

func (s *scene) ForEachOmniLight(fn func(light.OmniLight) error) error {
	return forEachComponent(s.graph, node.KindOmniLight, fn)
}

func (s *scene) ForEachSpotLight(fn func(light.SpotLight) error) error {
	return forEachComponent(s.graph, node.KindSpotLight, fn)
}

func (s *scene) AddScript(script Script, load bool) error {
	if script == nil || s.HasScript(script) {
		return nil
	}
	s.scripts = append(s.scripts, script)
	if load {
		if err := script.Load(s); err != nil {
			return errors.Wrapf(err, "scene: load script %q", script.Name())
		}
	}
	return nil
}

func (s *scene) Script(name string) (Script, bool) {
	i := slices.IndexFunc(s.scripts, func(sc Script) bool { return sc.Name() == name })
	if i < 0 {
		return nil, false
	}
	return s.scripts[i], true
}

func (s *scene) HasScript(script Script) bool {
	return s.scriptIndex(script) >= 0
}

// scriptIndex finds script by identity. Values whose dynamic type is not comparable
// never match, so they can only be removed by name.
func (s *scene) scriptIndex(script Script) int {
	if script == nil {
		return -1
	}
	t := reflect.TypeOf(script)
	if !t.Comparable() {
		return -1
	}
	return slices.IndexFunc(s.scripts, func(sc Script) bool {
		return reflect.TypeOf(sc) == t && sc == script
	})
}

func (s *scene) HasScriptNamed(name string) bool {
	_, ok := s.Script(name)
	return ok
}

func (s *scene) ScriptCount() int {
	return len(s.scripts)
}

func (s *scene) RemoveScript(script Script, close bool) error {
	return s.removeScriptAt(s.scriptIndex(script), close)
}

func (s *scene) RemoveScriptNamed(name string, close bool) error {
	return s.removeScriptAt(slices.IndexFunc(s.scripts, func(sc Script) bool { return sc.Name() == name }), close)
}

func (s *scene) removeScriptAt(i int, close bool) error {
	if i < 0 {
		return nil
	}
	script := s.scripts[i]
	s.scripts = slices.Delete(s.scripts, i, i+1)
	if close {
		if err := script.Close(s); err != nil {
			return errors.Wrapf(err, "scene: close script %q", script.Name())
		}
	}
	return nil
}

func (s *scene) RemoveAllScripts(close bool) error {
	scripts := s.scripts
	s.scripts = nil
	if !close {
		return nil
	}
	var first error
	for _, script := range scripts {
		if err := script.Close(s); err != nil && first == nil {
			first = errors.Wrapf(err, "scene: close script %q", script.Name())
		}
	}
	return first
}

func (s *scene) Load() error {
	for _, script := range slices.Clone(s.scripts) {
		if err := script.Load(s); err != nil {
			return errors.Wrapf(err, "scene: load script %q", script.Name())
		}
	}
	return nil
}

func (s *scene) FixedUpdate() error {
	for _, script := range slices.Clone(s.scripts) {
		if err := script.FixedUpdate(s); err != nil {
			return errors.Wrapf(err, "scene: fixed update script %q", script.Name())
		}
	}
	return nil
}

func (s *scene) Update(dt float64) error {
	for _, script := range slices.Clone(s.scripts) {
		if err := script.Update(dt, s); err != nil {
			return errors.Wrapf(err, "scene: update script %q", script.Name())
		}
	}
	return nil
}

func (s *scene) Close() error {
	err := s.RemoveAllScripts(true)
	var roots []node.Handle
	s.graph.Each(func(h node.Handle) {
		if s.graph.Parent(h).IsNil() {
			roots = append(roots, h)
		}
	})
	for _, h := range roots {
		s.graph.Destroy(h)
	}
	s.materials.RemoveAll()
	return err
}
