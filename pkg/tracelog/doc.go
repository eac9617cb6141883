// Package tracelog captures structured driver events for diagnostics.
//
// Every externally observable driver operation (probe, bind, get, set,
// relay forward, resume re-assert, remove) can be recorded as an Event.
// Events are CBOR-encoded with integer keys for compact on-disk capture
// and can additionally be mirrored to an slog.Logger for development.
//
// Loggers must never disrupt the driver: encoding and write errors are
// swallowed, and the zero-value NopLogger is always a valid sink.
package tracelog
