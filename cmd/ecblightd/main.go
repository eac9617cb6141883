// Command ecblightd runs the EC backlight brightness controller
// against a simulated firmware device.
//
// The daemon binds the driver the way a host would: it probes the
// firmware, registers a backlight device, relays brightness to an
// optional GPU proxy target, re-asserts the level after simulated
// resume events and persists the last level across restarts.
//
// Usage:
//
//	ecblightd [flags]
//
// Flags:
//
//	-config string              Configuration file path (YAML)
//	-vendor string              System vendor string for quirk matching
//	-product string             Product version string for quirk matching
//	-proxy-target string        Backlight device to relay brightness to
//	-max-reprobe-attempts int   Probe deferral budget (default 128)
//	-restore-level-on-resume    Re-assert brightness after resume
//	-state-dir string           Directory for persisted driver state
//	-trace-log string           CBOR trace log file path
//	-log-level string           Log level: debug, info, warn, error (default "info")
//	-interactive                Run the interactive shell
//	-version                    Print version and exit
//
// Examples:
//
//	# Plain EC-controlled backlight, interactive shell
//	ecblightd -interactive
//
//	# Legion S7 identity: quirk table enables proxy and resume restore
//	ecblightd -vendor LENOVO -product "Legion S7 15ACH6" -interactive
//
//	# Explicit proxy with trace log
//	ecblightd -proxy-target amdgpu_bl0 -trace-log /tmp/ecblight.cbor
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/cmd/ecblightd/interactive"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/driver"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/persistence"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/power"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/quirk"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/tracelog"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/version"
)

const (
	// reprobeInterval is how long to wait before retrying a deferred
	// probe.
	reprobeInterval = 250 * time.Millisecond

	// stateFileName is the persisted driver state file inside the
	// state directory.
	stateFileName = "ecblightd-state.json"
)

// Options holds the effective daemon configuration after merging flags
// and the optional configuration file.
type Options struct {
	ConfigFile           string
	Vendor               string
	ProductVersion       string
	ProxyTarget          string
	MaxReprobeAttempts   int
	RestoreLevelOnResume bool
	restoreSet           bool
	StateDir             string
	TraceLog             string
	LogLevel             string
	Interactive          bool
	ShowVersion          bool

	Sim SimConfig
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&opts.Vendor, "vendor", "", "System vendor string for quirk matching")
	flag.StringVar(&opts.ProductVersion, "product", "", "Product version string for quirk matching")
	flag.StringVar(&opts.ProxyTarget, "proxy-target", "", "Backlight device to relay brightness to")
	flag.IntVar(&opts.MaxReprobeAttempts, "max-reprobe-attempts", driver.DefaultMaxReprobeAttempts,
		"Probe deferral budget")
	flag.BoolVar(&opts.RestoreLevelOnResume, "restore-level-on-resume", false,
		"Re-assert brightness after resume")
	flag.StringVar(&opts.StateDir, "state-dir", "", "Directory for persisted driver state")
	flag.StringVar(&opts.TraceLog, "trace-log", "", "CBOR trace log file path")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Run the interactive shell")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Print version and exit")

	flag.StringVar(&opts.Sim.Source, "sim-source", "ec", "Simulated brightness source: ec, gpu, aux")
	flag.Func("sim-max", "Simulated EC maximum level (default 100)", uint32Flag(&opts.Sim.Max))
	flag.Func("sim-level", "Simulated EC initial level (default 40)", uint32Flag(&opts.Sim.Level))
	flag.StringVar(&opts.Sim.GPUBacklight, "sim-gpu", "", "Register a simulated GPU backlight under this name")
	flag.Func("sim-gpu-max", "Simulated GPU maximum level (default 255)", uint32Flag(&opts.Sim.GPUMax))
	flag.Func("sim-gpu-level", "Simulated GPU initial level", uint32Flag(&opts.Sim.GPULevel))

	opts.Sim.Max = 100
	opts.Sim.Level = 40
	opts.Sim.GPUMax = 255
}

func uint32Flag(dst *uint32) func(string) error {
	return func(s string) error {
		var v uint32
		if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func main() {
	flag.Parse()

	if opts.ShowVersion {
		fmt.Println(version.UserAgent())
		return
	}

	// Flags win over file settings, so only remember the restore flag
	// when the user actually passed it.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "restore-level-on-resume" {
			opts.restoreSet = true
		}
	})

	if opts.ConfigFile != "" {
		fileCfg, err := LoadConfigFile(opts.ConfigFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		mergeFileConfig(fileCfg)
	}

	logger := newLogger(opts.LogLevel)

	if err := run(logger); err != nil {
		logger.Error("daemon failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// mergeFileConfig fills options the command line left at their
// defaults.
func mergeFileConfig(fc *FileConfig) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if fc.ProxyTarget != nil && !set["proxy-target"] {
		opts.ProxyTarget = *fc.ProxyTarget
	}
	if fc.MaxReprobeAttempts != nil && !set["max-reprobe-attempts"] {
		opts.MaxReprobeAttempts = *fc.MaxReprobeAttempts
	}
	if fc.RestoreLevelOnResume != nil && !set["restore-level-on-resume"] {
		opts.RestoreLevelOnResume = *fc.RestoreLevelOnResume
		opts.restoreSet = true
	}
	if fc.LogLevel != nil && !set["log-level"] {
		opts.LogLevel = *fc.LogLevel
	}
	if fc.StateDir != nil && !set["state-dir"] {
		opts.StateDir = *fc.StateDir
	}
	if fc.TraceLog != nil && !set["trace-log"] {
		opts.TraceLog = *fc.TraceLog
	}
	if fc.Vendor != nil && !set["vendor"] {
		opts.Vendor = *fc.Vendor
	}
	if fc.ProductVersion != nil && !set["product"] {
		opts.ProductVersion = *fc.ProductVersion
	}
	if fc.Simulation != nil {
		if fc.Simulation.Source != "" && !set["sim-source"] {
			opts.Sim.Source = fc.Simulation.Source
		}
		if fc.Simulation.Max != 0 && !set["sim-max"] {
			opts.Sim.Max = fc.Simulation.Max
		}
		if !set["sim-level"] {
			opts.Sim.Level = fc.Simulation.Level
		}
		if fc.Simulation.GPUBacklight != "" && !set["sim-gpu"] {
			opts.Sim.GPUBacklight = fc.Simulation.GPUBacklight
		}
		if fc.Simulation.GPUMax != 0 && !set["sim-gpu-max"] {
			opts.Sim.GPUMax = fc.Simulation.GPUMax
		}
		if !set["sim-gpu-level"] {
			opts.Sim.GPULevel = fc.Simulation.GPULevel
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run(logger *slog.Logger) error {
	logger.Info("starting", slog.String("version", version.UserAgent()))

	source, err := ParseSource(opts.Sim.Source)
	if err != nil {
		return err
	}

	fw := NewSimFirmware(source, opts.Sim.Max, opts.Sim.Level)
	registry := backlight.NewRegistry()
	notifier := power.NewNotifier()

	if opts.Sim.GPUBacklight != "" {
		if _, err := RegisterSimGPU(registry, opts.Sim.GPUBacklight, opts.Sim.GPUMax, opts.Sim.GPULevel); err != nil {
			return fmt.Errorf("failed to register simulated GPU backlight: %w", err)
		}
		logger.Info("registered simulated GPU backlight",
			slog.String("name", opts.Sim.GPUBacklight),
			slog.Uint64("max", uint64(opts.Sim.GPUMax)))
	}

	trace, closeTrace, err := newTraceLogger(logger)
	if err != nil {
		return err
	}
	defer closeTrace()

	cfg := driver.DefaultConfig()
	cfg.ProxyTarget = opts.ProxyTarget
	cfg.MaxReprobeAttempts = opts.MaxReprobeAttempts
	if opts.restoreSet {
		cfg.RestoreLevelOnResume = driver.Bool(opts.RestoreLevelOnResume)
	}
	cfg.Logger = logger
	cfg.Trace = trace

	identity := quirk.Identity{Vendor: opts.Vendor, ProductVersion: opts.ProductVersion}

	drv, err := driver.New(fw, registry, notifier, identity, cfg)
	if err != nil {
		return err
	}

	if err := probeWithRetry(drv, logger); err != nil {
		return err
	}
	defer drv.Remove()

	var store *persistence.DriverStateStore
	if opts.StateDir != "" {
		store = persistence.NewDriverStateStore(filepath.Join(opts.StateDir, stateFileName))
		restorePersistedLevel(drv, store, logger)
		defer savePersistedLevel(drv, store, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.Interactive {
		shell, err := interactive.New(drv, registry, notifier, fw)
		if err != nil {
			return err
		}
		shell.Run(ctx, cancel)
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", slog.String("signal", sig.String()))
	return nil
}

// newTraceLogger builds the trace sink: a CBOR file log when
// configured, otherwise the application logger at debug level.
func newTraceLogger(logger *slog.Logger) (tracelog.Logger, func(), error) {
	if opts.TraceLog == "" {
		return tracelog.NewSlogAdapter(logger), func() {}, nil
	}
	fl, err := tracelog.NewFileLogger(opts.TraceLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace log: %w", err)
	}
	return fl, func() { _ = fl.Close() }, nil
}

// probeWithRetry drives the probe loop, retrying while the driver
// defers waiting for its proxy target. A probe that is not applicable
// on this system is an orderly exit, not an error.
func probeWithRetry(drv *driver.Driver, logger *slog.Logger) error {
	for {
		err := drv.Probe()
		switch {
		case err == nil:
			return nil
		case isDeferred(err):
			logger.Debug("probe deferred, retrying",
				slog.Duration("interval", reprobeInterval))
			time.Sleep(reprobeInterval)
		default:
			return err
		}
	}
}

func isDeferred(err error) bool {
	return errors.Is(err, driver.ErrProbeDeferred)
}

func restorePersistedLevel(drv *driver.Driver, store *persistence.DriverStateStore, logger *slog.Logger) {
	state, err := store.Load()
	if err != nil {
		logger.Warn("failed to load persisted state", slog.String("error", err.Error()))
		return
	}
	if state == nil {
		return
	}
	if state.Max != drv.Device().Max() {
		logger.Warn("persisted level ignored, brightness range changed",
			slog.Uint64("saved_max", uint64(state.Max)),
			slog.Uint64("max", uint64(drv.Device().Max())))
		return
	}
	if err := drv.SetBrightness(state.Level); err != nil {
		logger.Warn("failed to restore persisted level", slog.String("error", err.Error()))
		return
	}
	logger.Info("restored persisted brightness level", slog.Uint64("level", uint64(state.Level)))
}

func savePersistedLevel(drv *driver.Driver, store *persistence.DriverStateStore, logger *slog.Logger) {
	if drv.Device() == nil {
		return
	}
	state := &persistence.DriverState{
		Level: drv.Device().Brightness(),
		Max:   drv.Device().Max(),
	}
	if err := store.Save(state); err != nil {
		logger.Warn("failed to persist driver state", slog.String("error", err.Error()))
		return
	}
	logger.Info("persisted brightness level", slog.Uint64("level", uint64(state.Level)))
}
