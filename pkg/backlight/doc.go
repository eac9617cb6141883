// Package backlight models the host's backlight device registry.
//
// A backlight device pairs a cached brightness state with two
// registry-facing callbacks: Get reads the level back from hardware,
// Update pushes a level out to hardware. The registry keys devices by
// name and owns lookup; drivers register on bind and unregister on
// teardown.
//
// Device types mirror the host's preference order: firmware-
// authoritative devices are preferred over platform devices, which are
// preferred over raw GPU-exposed controls.
package backlight
