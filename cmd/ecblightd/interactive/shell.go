// Package interactive provides the interactive command-line interface
// for ecblightd.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/driver"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/power"
)

// Firmware is the slice of the simulated firmware the shell needs:
// reading the raw EC level register and modelling a suspend cycle.
type Firmware interface {
	Level() uint32
	Suspend()
}

// Shell handles interactive mode for ecblightd.
type Shell struct {
	drv      *driver.Driver
	registry *backlight.Registry
	notifier *power.Notifier
	fw       Firmware
	rl       *readline.Instance
}

// New creates a new interactive shell.
func New(drv *driver.Driver, registry *backlight.Registry, notifier *power.Notifier, fw Firmware) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ecblight> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		drv:      drv,
		registry: registry,
		notifier: notifier,
		fw:       fw,
		rl:       rl,
	}, nil
}

// Stdout returns a writer that coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "get", "g":
			s.cmdGet()

		case "set", "s":
			s.cmdSet(args)

		case "max":
			s.cmdMax()

		case "ec":
			s.cmdEC()

		case "state", "st":
			s.cmdState()

		case "suspend":
			s.cmdSuspend()

		case "resume":
			s.cmdResume()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
EC Backlight Commands:
  Brightness:
    get                - Read the brightness level from firmware
    set <level>        - Set the brightness level
    max                - Show the maximum brightness level
    ec                 - Show the raw EC level register

  Power Events:
    suspend            - Simulate suspend (the EC forgets its level)
    resume             - Simulate resume from suspend

  General:
    state              - Show driver and device state
    help               - Show this help
    quit               - Exit`)
}

// cmdGet reads the brightness level from firmware.
func (s *Shell) cmdGet() {
	level, err := s.drv.GetBrightness()
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "brightness = %d\n", level)
}

// cmdSet sets the brightness level.
func (s *Shell) cmdSet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <level>")
		return
	}

	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid level: %v\n", err)
		return
	}

	if err := s.drv.SetBrightness(uint32(v)); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Set failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "OK")
}

// cmdMax shows the device's maximum brightness level.
func (s *Shell) cmdMax() {
	dev := s.drv.Device()
	if dev == nil {
		fmt.Fprintln(s.rl.Stdout(), "Driver not bound")
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "max_brightness = %d\n", dev.Max())
}

// cmdEC shows the raw EC level register, bypassing the driver.
func (s *Shell) cmdEC() {
	fmt.Fprintf(s.rl.Stdout(), "ec level register = %d\n", s.fw.Level())
}

// cmdState shows the driver and device state.
func (s *Shell) cmdState() {
	fmt.Fprintln(s.rl.Stdout(), "\nDriver State")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(s.rl.Stdout(), "  State:             %s\n", s.drv.State())

	if dev := s.drv.Device(); dev != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Device:            %s (%s)\n", dev.Name(), dev.Type())
		fmt.Fprintf(s.rl.Stdout(), "  Brightness:        %d / %d\n", dev.Brightness(), dev.Max())
	}

	if proxy := s.drv.Proxy(); proxy != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Proxy Target:      %s (%d / %d)\n",
			proxy.Name(), proxy.Brightness(), proxy.Max())
	} else {
		fmt.Fprintf(s.rl.Stdout(), "  Proxy Target:      none\n")
	}

	cfg := s.drv.Config()
	fmt.Fprintf(s.rl.Stdout(), "  Restore on Resume: %t\n", cfg.RestoreLevelOnResume != nil && *cfg.RestoreLevelOnResume)
	fmt.Fprintf(s.rl.Stdout(), "  Registered:        %d device(s)\n", s.registry.Len())
	fmt.Fprintln(s.rl.Stdout())
}

// cmdSuspend simulates a suspend cycle: the EC resets its level
// register behind the host's back.
func (s *Shell) cmdSuspend() {
	s.notifier.Publish(power.SuspendPrepare)
	s.fw.Suspend()
	fmt.Fprintf(s.rl.Stdout(), "Suspended (EC level register reset to %d)\n", s.fw.Level())
}

// cmdResume simulates resume from suspend. With restore-on-resume
// enabled the driver re-asserts the cached level.
func (s *Shell) cmdResume() {
	s.notifier.Publish(power.PostSuspend)
	fmt.Fprintf(s.rl.Stdout(), "Resumed (EC level register = %d)\n", s.fw.Level())
}
