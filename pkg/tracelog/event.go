package tracelog

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a driver event.
type Category uint8

const (
	// CategoryProbe - a probe attempt (successful, deferred or aborted).
	CategoryProbe Category = 0
	// CategoryBind - the driver registered its backlight device.
	CategoryBind Category = 1
	// CategoryGet - a registry get-brightness callback.
	CategoryGet Category = 2
	// CategorySet - a registry set-brightness callback.
	CategorySet Category = 3
	// CategoryRelay - a forward to the proxy target.
	CategoryRelay Category = 4
	// CategoryResume - a post-resume brightness re-assertion.
	CategoryResume Category = 5
	// CategoryRemove - driver teardown.
	CategoryRemove Category = 6
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryProbe:
		return "PROBE"
	case CategoryBind:
		return "BIND"
	case CategoryGet:
		return "GET"
	case CategorySet:
		return "SET"
	case CategoryRelay:
		return "RELAY"
	case CategoryResume:
		return "RESUME"
	case CategoryRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Event is a single driver trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EventID uniquely identifies the event (UUID).
	EventID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Method is the firmware method name, when a bus call was involved.
	Method string `cbor:"4,keyasint,omitempty"`

	// Mode is the firmware operation mode, when a bus call was involved.
	Mode string `cbor:"5,keyasint,omitempty"`

	// Level is the brightness level involved in the operation.
	Level uint32 `cbor:"6,keyasint,omitempty"`

	// Target is the proxy target name for relay events.
	Target string `cbor:"7,keyasint,omitempty"`

	// Err carries the failure message for failed operations.
	Err string `cbor:"8,keyasint,omitempty"`
}

// NewEvent creates an event of the given category, stamped with the
// current time and a fresh event ID.
func NewEvent(c Category) Event {
	return Event{
		Timestamp: time.Now(),
		EventID:   uuid.New().String(),
		Category:  c,
	}
}
