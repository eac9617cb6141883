// Package relay rescales brightness levels between backlight devices
// with different ranges and forwards them best-effort.
//
// Some systems erroneously report EC backlight control while the panel
// is actually driven by a secondary device (typically a GPU-exposed
// backlight). On those systems every brightness change accepted by the
// firmware driver is relayed, rescaled to the secondary device's range,
// to that device's own set entrypoint.
//
// Relaying is a convenience layered over required primary-device
// correctness: a failed forward is logged and never fails the primary
// operation.
package relay
