package wmi

// Method identifies a firmware brightness method.
type Method uint32

const (
	// MethodLevel gets or sets the EC brightness level.
	MethodLevel Method = 1

	// MethodSource gets or sets the EC brightness source.
	MethodSource Method = 2
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodLevel:
		return "LEVEL"
	case MethodSource:
		return "SOURCE"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the method is one of the defined method IDs.
func (m Method) IsValid() bool {
	return m == MethodLevel || m == MethodSource
}

// Mode selects the operation performed on a method.
type Mode uint32

const (
	// ModeGet reads the current level or source.
	ModeGet Mode = 0

	// ModeSet writes a new level.
	ModeSet Mode = 1

	// ModeGetMaxLevel reads the maximum brightness level. Only
	// meaningful in combination with MethodLevel.
	ModeGetMaxLevel Mode = 2
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeGet:
		return "GET"
	case ModeSet:
		return "SET"
	case ModeGetMaxLevel:
		return "GET_MAX_LEVEL"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the mode is one of the defined modes.
func (m Mode) IsValid() bool {
	return m >= ModeGet && m <= ModeGetMaxLevel
}

// Source identifies which component owns brightness control.
type Source uint32

const (
	// SourceGPU - brightness is controlled by the GPU.
	SourceGPU Source = 1

	// SourceEC - brightness is controlled by the system's embedded
	// controller. This driver only binds when the firmware reports EC.
	SourceEC Source = 2

	// SourceAUX - brightness is controlled over the DisplayPort AUX
	// channel.
	SourceAUX Source = 3
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceGPU:
		return "GPU"
	case SourceEC:
		return "EC"
	case SourceAUX:
		return "AUX"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the source is one of the defined sources.
func (s Source) IsValid() bool {
	return s >= SourceGPU && s <= SourceAUX
}
