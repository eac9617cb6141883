// Package testharness provides shared fakes for driver tests: a
// scripted firmware device with a call spy and a trace event
// collector.
package testharness

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/tracelog"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/wmi"
)

// Call records one firmware bus invocation.
type Call struct {
	Method wmi.Method
	Mode   wmi.Mode
	Val    uint32
}

// FirmwareDevice is a scripted wmi.Device implementing the brightness
// method ABI against in-memory state. It records every call and can be
// told to fail.
type FirmwareDevice struct {
	mu sync.Mutex

	// Source is the brightness source the firmware reports.
	Source wmi.Source

	// Level and Max are the EC's brightness registers.
	Level uint32
	Max   uint32

	// FailWith, when non-nil, makes every Evaluate call fail.
	FailWith error

	calls []Call
}

// NewFirmwareDevice creates an EC-controlled firmware device.
func NewFirmwareDevice(max, level uint32) *FirmwareDevice {
	return &FirmwareDevice{Source: wmi.SourceEC, Max: max, Level: level}
}

// Evaluate implements wmi.Device against the fake's registers.
func (f *FirmwareDevice) Evaluate(method wmi.Method, in []byte) ([]byte, error) {
	args, err := wmi.DecodeArgs(in)
	if err != nil {
		return nil, err
	}
	mode := wmi.Mode(args.Mode)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Method: method, Mode: mode, Val: args.Val})

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	switch method {
	case wmi.MethodSource:
		switch mode {
		case wmi.ModeGet:
			args.Ret = uint32(f.Source)
		case wmi.ModeSet:
			f.Source = wmi.Source(args.Val)
		default:
			return nil, errors.New("AE_BAD_PARAMETER: max level undefined for source")
		}
	case wmi.MethodLevel:
		switch mode {
		case wmi.ModeGet:
			args.Ret = f.Level
		case wmi.ModeSet:
			f.Level = args.Val
		case wmi.ModeGetMaxLevel:
			args.Ret = f.Max
		}
	default:
		return nil, fmt.Errorf("AE_NOT_FOUND: method %d", method)
	}

	return args.Encode(), nil
}

// Calls returns a copy of the recorded calls.
func (f *FirmwareDevice) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns the number of calls matching method and mode.
func (f *FirmwareDevice) CallCount(method wmi.Method, mode wmi.Mode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Mode == mode {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of bus calls of any kind.
func (f *FirmwareDevice) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// ResetLevel models firmware that forgets the EC level during suspend,
// resetting it to a default without notifying the host.
func (f *FirmwareDevice) ResetLevel(level uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Level = level
}

// CurrentLevel reads the EC level register directly.
func (f *FirmwareDevice) CurrentLevel() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Level
}

// TraceCollector is a tracelog.Logger capturing events in memory.
type TraceCollector struct {
	mu     sync.Mutex
	events []tracelog.Event
}

// Log implements tracelog.Logger.
func (c *TraceCollector) Log(event tracelog.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the captured events.
func (c *TraceCollector) Events() []tracelog.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tracelog.Event(nil), c.events...)
}

// ByCategory returns the captured events of one category.
func (c *TraceCollector) ByCategory(cat tracelog.Category) []tracelog.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []tracelog.Event
	for _, e := range c.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Compile-time interface satisfaction checks.
var (
	_ wmi.Device      = (*FirmwareDevice)(nil)
	_ tracelog.Logger = (*TraceCollector)(nil)
)
