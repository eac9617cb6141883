// Package wmi implements the firmware brightness method protocol.
//
// The platform firmware exposes a vendor-defined method table over the
// WMI management bus. Two methods matter here: Level (get/set the EC
// backlight level) and Source (query which component owns brightness
// control). Every call, regardless of direction, exchanges a fixed
// 24-byte little-endian argument record; that record layout is the one
// bit-exact external contract in this repository.
//
// # Invocation
//
// The bus itself is abstracted behind the Device interface: a single
// synchronous Evaluate call taking the method ID and the encoded
// argument record. Notify is the high-level entry point; it validates
// the (method, mode) combination before any bus traffic, encodes the
// record, and decodes the returned value for Get-type modes.
//
// # Errors
//
// Invalid method/mode combinations are programmer errors and are
// rejected with ErrInvalidArgument before any I/O. Bus failures are
// wrapped in ErrIO together with the firmware-supplied diagnostic.
// Notify never retries; retry policy belongs to the caller.
package wmi
