// Package gpu defines the contract between the render orchestration and the GPU backend:
// buffer keys, bind slots, viewports, and the Context used to write and bind them.
package gpu

// BufferKey names a GPU buffer owned by the backend. Components derive a stable key
// from their identity so repeated writes land in the same buffer.
type BufferKey string

// Slot is a fixed binding slot shared by every pass.
type Slot uint32

const (
	// SlotGame holds the persistent per-display game buffer.
	SlotGame Slot = iota
	// SlotPrimaryCamera holds the camera that is currently being rendered.
	SlotPrimaryCamera
	// SlotSecondaryCamera holds a light camera while its shadow map is rendered.
	SlotSecondaryCamera
	// SlotLightBuffer holds the per-frame light buffer.
	SlotLightBuffer
	// SlotModel holds the model being drawn.
	SlotModel
)

// Context is the subset of the GPU backend used by the orchestration layer.
//
// Implementations copy data before returning; callers may reuse their slices.
type Context interface {
	// WriteBuffer uploads data into the buffer named by key at the given byte offset,
	// creating the buffer on first use.
	//
	// Parameters:
	//   - key: the buffer name
	//   - offset: the byte offset inside the buffer
	//   - data: the bytes to upload
	//
	// Returns:
	//   - error: an error if the upload fails
	WriteBuffer(key BufferKey, offset uint64, data []byte) error

	// BindBuffer binds the buffer named by key to slot for subsequent passes.
	//
	// Returns:
	//   - error: an error if the buffer does not exist or cannot be bound
	BindBuffer(slot Slot, key BufferKey) error

	// BindViewport sets the viewport used by subsequent draws.
	//
	// Returns:
	//   - error: an error if the viewport cannot be applied
	BindViewport(viewport Viewport) error
}

// BufferWrite describes a single GPU buffer write at a given byte offset.
type BufferWrite struct {
	Key    BufferKey
	Offset uint64
	Data   []byte
}

// Apply issues the write against ctx.
func (w BufferWrite) Apply(ctx Context) error {
	return ctx.WriteBuffer(w.Key, w.Offset, w.Data)
}
