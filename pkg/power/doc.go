// Package power provides the host power-event notification facility.
//
// Subscribers register a handler and receive power-state transition
// events tagged with an event class. Dispatch is synchronous and
// serialized: one event is processed at a time, and a handler is never
// re-entered with itself.
//
// Unsubscribing is unconditionally safe: a nil subscription, or one
// that was already removed, is a no-op. Drivers rely on this to make
// teardown safe even when registration never happened.
package power
