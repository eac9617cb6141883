package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/wmi"
)

// SimFirmware is an in-memory firmware device for running the daemon
// without real hardware. It implements the brightness method ABI
// against simulated EC registers and can model the EC forgetting its
// level across a suspend cycle.
type SimFirmware struct {
	mu sync.Mutex

	source wmi.Source
	level  uint32
	max    uint32

	// defaultLevel is what the EC resets to on resume.
	defaultLevel uint32
}

// NewSimFirmware creates a simulated EC with the given range and level.
func NewSimFirmware(source wmi.Source, max, level uint32) *SimFirmware {
	return &SimFirmware{
		source:       source,
		max:          max,
		level:        level,
		defaultLevel: level,
	}
}

// Evaluate implements wmi.Device.
func (s *SimFirmware) Evaluate(method wmi.Method, in []byte) ([]byte, error) {
	args, err := wmi.DecodeArgs(in)
	if err != nil {
		return nil, err
	}
	mode := wmi.Mode(args.Mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch method {
	case wmi.MethodSource:
		switch mode {
		case wmi.ModeGet:
			args.Ret = uint32(s.source)
		case wmi.ModeSet:
			s.source = wmi.Source(args.Val)
		default:
			return nil, errors.New("AE_BAD_PARAMETER")
		}
	case wmi.MethodLevel:
		switch mode {
		case wmi.ModeGet:
			args.Ret = s.level
		case wmi.ModeSet:
			s.level = args.Val
		case wmi.ModeGetMaxLevel:
			args.Ret = s.max
		}
	default:
		return nil, fmt.Errorf("AE_NOT_FOUND: method %d", method)
	}

	return args.Encode(), nil
}

// Level reads the simulated EC level register.
func (s *SimFirmware) Level() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Suspend models a suspend cycle: the EC resets the level to its
// default without telling the host.
func (s *SimFirmware) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = s.defaultLevel
}

// ParseSource maps a config string to a brightness source.
func ParseSource(s string) (wmi.Source, error) {
	switch strings.ToLower(s) {
	case "", "ec":
		return wmi.SourceEC, nil
	case "gpu":
		return wmi.SourceGPU, nil
	case "aux":
		return wmi.SourceAUX, nil
	default:
		return 0, fmt.Errorf("unknown brightness source %q (want ec, gpu or aux)", s)
	}
}

// RegisterSimGPU registers a simulated raw GPU backlight device, the
// kind a display driver would expose. It accepts every update so the
// proxy relay path can be exercised end to end.
func RegisterSimGPU(reg *backlight.Registry, name string, max, level uint32) (*backlight.Device, error) {
	return reg.Register(name, backlight.Properties{
		Type:    backlight.TypeRaw,
		Max:     max,
		Current: level,
	}, backlight.Ops{
		Update: func(uint32) error { return nil },
	})
}

var _ wmi.Device = (*SimFirmware)(nil)
