package scene

// Script is a behavior attached to a scene. Scripts are loaded when added (on request),
// updated once per frame in insertion order, and closed when removed or when the scene
// closes.
type Script interface {
	// Name returns the script name. Names need not be unique.
	Name() string

	// Load prepares the script before its first update.
	//
	// Returns:
	//   - error: an error if the script cannot run
	Load(s Scene) error

	// FixedUpdate advances the script by one fixed simulation step. It may run zero,
	// one, or several times per frame.
	//
	// Returns:
	//   - error: an error if the step fails
	FixedUpdate(s Scene) error

	// Update advances the script once per frame.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds since the previous frame
	//   - s: the scene the script belongs to
	//
	// Returns:
	//   - error: an error if the update fails
	Update(dt float64, s Scene) error

	// Close releases anything the script acquired in Load.
	//
	// Returns:
	//   - error: an error if cleanup fails
	Close(s Scene) error
}

// ScriptBase provides no-op implementations of every Script method except Name and
// Update. Embed it to implement only the hooks a script needs.
type ScriptBase struct{}

func (ScriptBase) Load(Scene) error        { return nil }
func (ScriptBase) FixedUpdate(Scene) error { return nil }
func (ScriptBase) Close(Scene) error       { return nil }
