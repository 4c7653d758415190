package script

// FlyControllerOption is a functional option for configuring a FlyController.
type FlyControllerOption func(*FlyController)

// WithSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: the base speed
//
// Returns:
//   - FlyControllerOption: a function that applies the speed option
func WithSpeed(speed float32) FlyControllerOption {
	return func(fc *FlyController) {
		fc.speed = speed
	}
}

// WithBoost sets the factor applied to the speed while Left Shift is held.
//
// Parameters:
//   - boost: the speed multiplier
//
// Returns:
//   - FlyControllerOption: a function that applies the boost option
func WithBoost(boost float32) FlyControllerOption {
	return func(fc *FlyController) {
		fc.boost = boost
	}
}

// WithMouseSensitivity sets the rotation in radians per pixel of cursor motion.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - FlyControllerOption: a function that applies the sensitivity option
func WithMouseSensitivity(sensitivity float32) FlyControllerOption {
	return func(fc *FlyController) {
		fc.mouseSensitivity = sensitivity
	}
}

// WithMaxPitch sets the largest pitch angle in radians, in either direction.
func WithMaxPitch(maxPitch float32) FlyControllerOption {
	return func(fc *FlyController) {
		fc.maxPitch = maxPitch
	}
}
