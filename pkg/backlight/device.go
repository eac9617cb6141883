package backlight

import (
	"errors"
	"fmt"
	"sync"
)

// Device errors.
var (
	// ErrLevelOutOfRange indicates a requested level above the
	// device's maximum.
	ErrLevelOutOfRange = errors.New("brightness level out of range")

	// ErrNoUpdateOp indicates the device was registered without an
	// Update callback.
	ErrNoUpdateOp = errors.New("device has no update operation")
)

// Type classifies a backlight device.
type Type uint8

const (
	// TypeRaw - direct hardware control exposed by a GPU driver.
	TypeRaw Type = 1

	// TypePlatform - platform/board-specific control.
	TypePlatform Type = 2

	// TypeFirmware - firmware-authoritative control. Preferred over
	// raw and platform devices.
	TypeFirmware Type = 3
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeRaw:
		return "RAW"
	case TypePlatform:
		return "PLATFORM"
	case TypeFirmware:
		return "FIRMWARE"
	default:
		return "UNKNOWN"
	}
}

// Ops holds the driver callbacks the registry invokes on a device.
type Ops struct {
	// Get reads the current level back from hardware. Optional.
	Get func() (uint32, error)

	// Update pushes a level out to hardware.
	Update func(level uint32) error
}

// Properties describes a device at registration time.
type Properties struct {
	Type    Type
	Max     uint32
	Current uint32
}

// Device is a registered backlight device. The cached brightness is
// owned by the device; hardware reads go through the Get op.
type Device struct {
	mu    sync.Mutex
	name  string
	typ   Type
	max   uint32
	level uint32
	ops   Ops
}

// Name returns the device's registry name.
func (d *Device) Name() string { return d.name }

// Type returns the device type.
func (d *Device) Type() Type { return d.typ }

// Max returns the maximum brightness level.
func (d *Device) Max() uint32 { return d.max }

// Brightness returns the cached brightness level. It does not touch
// hardware.
func (d *Device) Brightness() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.level
}

// GetBrightness reads the level from hardware via the Get op, falling
// back to the cached level when the device has no Get op.
func (d *Device) GetBrightness() (uint32, error) {
	if d.ops.Get == nil {
		return d.Brightness(), nil
	}
	return d.ops.Get()
}

// SetBrightness pushes level to hardware via the Update op and updates
// the cache on success.
func (d *Device) SetBrightness(level uint32) error {
	if level > d.max {
		return fmt.Errorf("%w: %d > %d", ErrLevelOutOfRange, level, d.max)
	}
	if d.ops.Update == nil {
		return ErrNoUpdateOp
	}
	if err := d.ops.Update(level); err != nil {
		return err
	}
	d.mu.Lock()
	d.level = level
	d.mu.Unlock()
	return nil
}

// UpdateStatus re-pushes the cached level to hardware. Used to sync
// hardware back up after events that reset it behind the host's back.
func (d *Device) UpdateStatus() error {
	if d.ops.Update == nil {
		return ErrNoUpdateOp
	}
	return d.ops.Update(d.Brightness())
}
