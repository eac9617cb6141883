// Package driver orchestrates the EC backlight brightness controller.
//
// The driver binds to a firmware device exposing the brightness method
// table, decides whether it should activate at all (only when the
// firmware reports embedded-controller brightness control), registers a
// firmware-authoritative backlight device with the host registry, and
// serves the registry's get/set callbacks through the method protocol
// codec.
//
// # Lifecycle
//
// A driver moves through Unbound -> Probing -> Bound -> Removed. A
// probe can also end in two non-error outcomes: ErrNotApplicable when
// the firmware reports GPU- or AUX-controlled brightness (the driver
// simply does not attach), and ErrProbeDeferred when a configured proxy
// target does not exist yet (the host retries later, bounded by the
// shared reprobe budget).
//
// # Proxying and resume
//
// On systems that misreport EC control, every accepted brightness
// change is additionally relayed, rescaled, to a secondary backlight
// device. On systems whose firmware resets the EC level during
// suspend, the driver subscribes to power events and re-asserts its
// cached level after resume. Both behaviors come from the quirk table
// and can be overridden by explicit configuration.
package driver
