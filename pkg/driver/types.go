package driver

import "errors"

// Driver errors.
var (
	// ErrNotApplicable - the firmware reports a non-EC brightness
	// source; the driver must not attach. An expected outcome, not a
	// fault.
	ErrNotApplicable = errors.New("brightness not EC-controlled")

	// ErrProbeDeferred - the configured proxy target is not yet
	// present; the host should retry the probe later.
	ErrProbeDeferred = errors.New("proxy target not yet available")

	// ErrNotBound - a registry entrypoint was invoked before a
	// successful probe or after removal.
	ErrNotBound = errors.New("driver not bound")

	// ErrAlreadyBound - Probe was called on a bound driver.
	ErrAlreadyBound = errors.New("driver already bound")

	// ErrRemoved - Probe was called after Remove.
	ErrRemoved = errors.New("driver removed")

	// ErrInvalidConfig - the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// State represents the driver lifecycle state.
type State uint8

const (
	// StateUnbound - created, not yet probed (or probe did not bind).
	StateUnbound State = iota

	// StateProbing - a probe attempt is in progress.
	StateProbing

	// StateBound - registered with the backlight registry and serving
	// get/set callbacks.
	StateBound

	// StateRemoved - torn down; terminal.
	StateRemoved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "UNBOUND"
	case StateProbing:
		return "PROBING"
	case StateBound:
		return "BOUND"
	case StateRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}
