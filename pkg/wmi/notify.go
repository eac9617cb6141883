package wmi

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrInvalidArgument indicates a malformed method/mode combination.
	// It is returned before any bus call is made.
	ErrInvalidArgument = errors.New("invalid brightness method or mode")

	// ErrIO indicates the firmware bus call failed. The wrapped error
	// carries the firmware-supplied diagnostic.
	ErrIO = errors.New("EC backlight control failed")
)

// Device is the firmware bus capability the codec calls through. A
// single synchronous method evaluation: the implementation blocks until
// the firmware responds or the transport times out.
//
// Evaluate takes the encoded 24-byte argument record and returns the
// response record of the same size, or a failure status carrying a
// diagnostic string.
type Device interface {
	Evaluate(method Method, in []byte) ([]byte, error)
}

// Notify calls the firmware brightness method identified by id.
//
// val is passed to the firmware when mode is ModeSet and ignored
// otherwise. The returned value is the firmware's out parameter for
// ModeGet and ModeGetMaxLevel; for ModeSet the input value is echoed
// back.
//
// Notify validates id and mode before touching the bus and never
// retries a failed call.
func Notify(dev Device, id Method, mode Mode, val uint32) (uint32, error) {
	if !id.IsValid() || !mode.IsValid() {
		return 0, fmt.Errorf("%w: method=%d mode=%d", ErrInvalidArgument, id, mode)
	}

	args := Args{Mode: uint32(mode)}
	if mode == ModeSet {
		args.Val = val
	}

	out, err := dev.Evaluate(id, args.Encode())
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ErrIO, id, mode, err)
	}

	if mode == ModeSet {
		return val, nil
	}

	resp, err := DecodeArgs(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrIO, id, mode, err)
	}
	return resp.Ret, nil
}
