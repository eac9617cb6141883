package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/power"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/quirk"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/relay"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/tracelog"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/wmi"
)

// Driver is the EC backlight brightness controller. A single instance
// owns the state of the backlight device it registers; all operations
// are invoked synchronously by the host, one at a time.
type Driver struct {
	fw       wmi.Device
	registry *backlight.Registry
	notifier *power.Notifier

	cfg   Config
	log   *slog.Logger
	trace tracelog.Logger

	state         State
	dev           *backlight.Device
	proxy         *backlight.Device
	proxyDisabled bool
	resumeSub     *power.Subscription
}

// New creates a driver bound to a firmware device and a backlight
// registry. Quirk resolution runs here, once, against identity; quirk
// values fill only configuration fields left unset. notifier may be
// nil when restore-on-resume is not in effect.
func New(fw wmi.Device, registry *backlight.Registry, notifier *power.Notifier,
	identity quirk.Identity, cfg Config) (*Driver, error) {

	if fw == nil {
		return nil, fmt.Errorf("%w: firmware device is nil", ErrInvalidConfig)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: backlight registry is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyQuirks(quirk.Resolve(identity))

	if cfg.Reprobe == nil {
		cfg.Reprobe = NewReprobeBudget(cfg.MaxReprobeAttempts)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Trace == nil {
		cfg.Trace = tracelog.NopLogger{}
	}

	return &Driver{
		fw:       fw,
		registry: registry,
		notifier: notifier,
		cfg:      cfg,
		log:      cfg.Logger,
		trace:    cfg.Trace,
	}, nil
}

// State returns the current lifecycle state.
func (d *Driver) State() State { return d.state }

// Device returns the registered backlight device, or nil before a
// successful probe.
func (d *Driver) Device() *backlight.Device { return d.dev }

// Proxy returns the resolved proxy target, or nil when proxying is not
// active.
func (d *Driver) Proxy() *backlight.Device { return d.proxy }

// Config returns the effective configuration after quirk resolution.
func (d *Driver) Config() Config { return d.cfg }

// Probe attempts to bind the driver.
//
// Outcomes: nil on success; ErrProbeDeferred when the proxy target is
// configured but absent and budget remains (the host should retry);
// ErrNotApplicable when the firmware reports a non-EC brightness
// source; a wrapped wmi.ErrIO when a firmware call fails.
func (d *Driver) Probe() error {
	switch d.state {
	case StateBound:
		return ErrAlreadyBound
	case StateRemoved:
		return ErrRemoved
	}
	d.state = StateProbing

	var target *backlight.Device
	if d.cfg.ProxyTarget != "" && !d.proxyDisabled {
		t, ok := d.registry.GetByName(d.cfg.ProxyTarget)
		switch {
		case ok:
			target = t
		case d.cfg.Reprobe.TrySpend():
			// The target backlight device might not be ready; try
			// again later, bounded by the reprobe budget.
			d.traceProbe(fmt.Sprintf("deferred: %s absent", d.cfg.ProxyTarget))
			d.state = StateUnbound
			return fmt.Errorf("%w: %q", ErrProbeDeferred, d.cfg.ProxyTarget)
		default:
			d.proxyDisabled = true
			d.log.Warn("unable to acquire proxy target, disabling backlight proxy",
				slog.String("target", d.cfg.ProxyTarget),
				slog.Int("attempts", d.cfg.Reprobe.Attempts()))
		}
	}

	source, err := wmi.Notify(d.fw, wmi.MethodSource, wmi.ModeGet, 0)
	if err != nil {
		d.state = StateUnbound
		d.traceProbe(err.Error())
		return err
	}

	// Only bind when brightness control is handled by the EC;
	// otherwise the GPU driver(s) should control brightness.
	if wmi.Source(source) != wmi.SourceEC {
		d.state = StateUnbound
		d.log.Debug("brightness source is not EC, not binding",
			slog.String("source", wmi.Source(source).String()))
		return fmt.Errorf("%w: source is %s", ErrNotApplicable, wmi.Source(source))
	}

	max, err := wmi.Notify(d.fw, wmi.MethodLevel, wmi.ModeGetMaxLevel, 0)
	if err != nil {
		d.state = StateUnbound
		d.traceProbe(err.Error())
		return err
	}
	current, err := wmi.Notify(d.fw, wmi.MethodLevel, wmi.ModeGet, 0)
	if err != nil {
		d.state = StateUnbound
		d.traceProbe(err.Error())
		return err
	}

	// Register as a firmware device so the host prefers it over any
	// exposed GPU-driven raw device(s).
	dev, err := d.registry.Register(DeviceName, backlight.Properties{
		Type:    backlight.TypeFirmware,
		Max:     max,
		Current: current,
	}, backlight.Ops{
		Get:    d.getBrightness,
		Update: d.updateStatus,
	})
	if err != nil {
		d.state = StateUnbound
		return err
	}
	d.dev = dev

	if target != nil {
		// Import the target's level as our initial level. d.proxy is
		// still nil here, so the import is not echoed back.
		level := relay.Scale(target.Brightness(), target.Max(), dev.Max())
		if err := dev.SetBrightness(level); err != nil {
			d.log.Warn("unable to import initial brightness level",
				slog.String("target", target.Name()),
				slog.String("error", err.Error()))
		}
		d.proxy = target
	}

	if d.cfg.restoreOnResume() && d.notifier != nil {
		d.resumeSub = d.notifier.Subscribe(d.onPowerEvent)
	}

	d.state = StateBound

	e := tracelog.NewEvent(tracelog.CategoryBind)
	e.Level = d.dev.Brightness()
	d.trace.Log(e)
	d.log.Info("bound EC backlight",
		slog.Uint64("max", uint64(max)),
		slog.Uint64("level", uint64(d.dev.Brightness())),
		slog.Bool("proxy", d.proxy != nil),
		slog.Bool("restore_on_resume", d.cfg.restoreOnResume()))
	return nil
}

// GetBrightness serves the registry's get callback: reads the level
// back from firmware.
func (d *Driver) GetBrightness() (uint32, error) {
	if d.state != StateBound {
		return 0, ErrNotBound
	}
	return d.dev.GetBrightness()
}

// SetBrightness serves the registry's set callback: relays to the
// proxy target when one is bound, then asserts the level to firmware.
func (d *Driver) SetBrightness(level uint32) error {
	if d.state != StateBound {
		return ErrNotBound
	}
	return d.dev.SetBrightness(level)
}

// Remove tears the driver down: unsubscribes the resume handler and
// unregisters the backlight device. Idempotent, and safe even if
// probing never completed.
func (d *Driver) Remove() {
	if d.state == StateRemoved {
		return
	}
	if d.notifier != nil {
		d.notifier.Unsubscribe(d.resumeSub)
	}
	d.resumeSub = nil
	d.registry.Unregister(d.dev)
	d.dev = nil
	d.proxy = nil
	d.state = StateRemoved

	d.trace.Log(tracelog.NewEvent(tracelog.CategoryRemove))
}

// getBrightness is the hardware-read op behind the registered device.
func (d *Driver) getBrightness() (uint32, error) {
	level, err := wmi.Notify(d.fw, wmi.MethodLevel, wmi.ModeGet, 0)

	e := tracelog.NewEvent(tracelog.CategoryGet)
	e.Method = wmi.MethodLevel.String()
	e.Mode = wmi.ModeGet.String()
	e.Level = level
	if err != nil {
		e.Err = err.Error()
	}
	d.trace.Log(e)

	return level, err
}

// updateStatus is the hardware-write op behind the registered device:
// forward to the proxy first (best effort), then assert to firmware.
func (d *Driver) updateStatus(level uint32) error {
	if d.proxy != nil {
		scaled := relay.Forward(d.log, d.proxy, level, d.dev.Max())

		e := tracelog.NewEvent(tracelog.CategoryRelay)
		e.Level = scaled
		e.Target = d.proxy.Name()
		d.trace.Log(e)
	}

	_, err := wmi.Notify(d.fw, wmi.MethodLevel, wmi.ModeSet, level)

	e := tracelog.NewEvent(tracelog.CategorySet)
	e.Method = wmi.MethodLevel.String()
	e.Mode = wmi.ModeSet.String()
	e.Level = level
	if err != nil {
		e.Err = err.Error()
	}
	d.trace.Log(e)

	return err
}

// onPowerEvent re-asserts the cached brightness after resume.
//
// On some systems the EC backlight level gets reset to a default when
// resuming from suspend while the backlight device state still
// reflects the pre-suspend value. Refresh the existing state to sync
// the EC back up with the host.
func (d *Driver) onPowerEvent(ev power.EventClass) {
	if ev != power.PostSuspend {
		return
	}
	if d.state != StateBound {
		return
	}

	err := d.dev.UpdateStatus()
	if err != nil {
		d.log.Warn("failed to refresh backlight level after resume",
			slog.String("error", err.Error()))
	}

	e := tracelog.NewEvent(tracelog.CategoryResume)
	e.Level = d.dev.Brightness()
	if err != nil {
		e.Err = err.Error()
	}
	d.trace.Log(e)
}

// traceProbe records a probe-path trace event.
func (d *Driver) traceProbe(detail string) {
	e := tracelog.NewEvent(tracelog.CategoryProbe)
	e.Err = detail
	d.trace.Log(e)
}
