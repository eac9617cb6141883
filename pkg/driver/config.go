package driver

import (
	"fmt"
	"log/slog"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/quirk"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/tracelog"
)

// DefaultMaxReprobeAttempts bounds deferred probe retries when a proxy
// target is configured but not yet resolvable.
const DefaultMaxReprobeAttempts = 128

// DeviceName is the name the driver registers under in the backlight
// registry.
const DeviceName = "nvidia_wmi_ec_backlight"

// Config configures a Driver. Unset fields are filled from quirk
// resolution, then from defaults: explicit > quirk > default.
type Config struct {
	// ProxyTarget names the backlight device brightness changes are
	// relayed to. Empty means unset (quirk may fill it in; if neither
	// sets it, proxying is disabled).
	ProxyTarget string

	// MaxReprobeAttempts limits deferred probe retries while waiting
	// for the proxy target to appear. Must be non-negative.
	MaxReprobeAttempts int

	// RestoreLevelOnResume re-asserts the cached brightness level
	// after resume from suspend. nil means unset (quirk may enable
	// it); an explicit false is never overridden by a quirk.
	RestoreLevelOnResume *bool

	// Reprobe is the reprobe budget, shared between driver instances
	// when multiple controllers should draw on one global budget. If
	// nil, the driver creates a private budget from
	// MaxReprobeAttempts.
	Reprobe *ReprobeBudget

	// Logger is the optional logger for diagnostics. If nil, logging
	// is disabled.
	Logger *slog.Logger

	// Trace is the optional structured trace sink. If nil, tracing is
	// disabled.
	Trace tracelog.Logger
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{MaxReprobeAttempts: DefaultMaxReprobeAttempts}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxReprobeAttempts < 0 {
		return fmt.Errorf("%w: max reprobe attempts must be non-negative, got %d",
			ErrInvalidConfig, c.MaxReprobeAttempts)
	}
	return nil
}

// ApplyQuirks fills fields left unset with quirk-derived values.
// Explicitly configured values are never overwritten.
func (c *Config) ApplyQuirks(f quirk.Flags) {
	if c.ProxyTarget == "" {
		c.ProxyTarget = f.ProxyTarget
	}
	if c.RestoreLevelOnResume == nil && f.RestoreLevelOnResume {
		v := true
		c.RestoreLevelOnResume = &v
	}
}

// restoreOnResume reports the effective restore-on-resume setting.
func (c *Config) restoreOnResume() bool {
	return c.RestoreLevelOnResume != nil && *c.RestoreLevelOnResume
}

// Bool returns a pointer to v, for setting Config.RestoreLevelOnResume
// explicitly.
func Bool(v bool) *bool { return &v }
