package ecbacklight_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/internal/testharness"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/driver"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/persistence"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/power"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/quirk"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/tracelog"
	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/wmi"
)

var testIdentity = quirk.Identity{Vendor: "ACME", ProductVersion: "Widget 9000"}

// TestE2E_ProbeGetSet exercises the plain EC-controlled path: probe,
// read the level, change it, read it back.
func TestE2E_ProbeGetSet(t *testing.T) {
	fw := testharness.NewFirmwareDevice(100, 40)
	registry := backlight.NewRegistry()

	drv, err := driver.New(fw, registry, nil, testIdentity, driver.DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, drv.Probe())
	assert.Equal(t, driver.StateBound, drv.State())

	// The firmware device wins device selection over any raw device.
	preferred, ok := registry.Preferred()
	require.True(t, ok)
	assert.Equal(t, driver.DeviceName, preferred.Name())
	assert.Equal(t, backlight.TypeFirmware, preferred.Type())

	level, err := drv.GetBrightness()
	require.NoError(t, err)
	assert.Equal(t, uint32(40), level)

	require.NoError(t, drv.SetBrightness(75))
	assert.Equal(t, uint32(75), fw.CurrentLevel())

	level, err = drv.GetBrightness()
	require.NoError(t, err)
	assert.Equal(t, uint32(75), level)

	// Out-of-range levels are rejected before touching the bus.
	calls := fw.TotalCalls()
	err = drv.SetBrightness(101)
	assert.ErrorIs(t, err, backlight.ErrLevelOutOfRange)
	assert.Equal(t, calls, fw.TotalCalls())
}

// TestE2E_QuirkProxyRelay runs the Legion S7 scenario end to end: the
// quirk table enables the proxy, probe defers until the GPU backlight
// appears, the GPU level is imported, and subsequent sets are relayed.
func TestE2E_QuirkProxyRelay(t *testing.T) {
	legion := quirk.Identity{Vendor: "LENOVO", ProductVersion: "Legion S7 15ACH6"}

	fw := testharness.NewFirmwareDevice(100, 40)
	registry := backlight.NewRegistry()
	notifier := power.NewNotifier()
	trace := &testharness.TraceCollector{}

	cfg := driver.DefaultConfig()
	cfg.Trace = trace

	drv, err := driver.New(fw, registry, notifier, legion, cfg)
	require.NoError(t, err)

	// The quirk's proxy target does not exist yet: probe defers.
	err = drv.Probe()
	require.ErrorIs(t, err, driver.ErrProbeDeferred)
	assert.Equal(t, driver.StateUnbound, drv.State())

	// The GPU driver comes up and registers its backlight.
	var gpuLevels []uint32
	_, err = registry.Register("amdgpu_bl0",
		backlight.Properties{Type: backlight.TypeRaw, Max: 255, Current: 128},
		backlight.Ops{Update: func(level uint32) error {
			gpuLevels = append(gpuLevels, level)
			return nil
		}})
	require.NoError(t, err)

	require.NoError(t, drv.Probe())

	// 128 out of 255 lands on 50 out of 100.
	dev := drv.Device()
	require.NotNil(t, dev)
	assert.Equal(t, uint32(50), dev.Brightness())
	assert.Equal(t, uint32(50), fw.CurrentLevel())

	// A host set is relayed to the GPU device, scaled back up.
	gpuLevels = nil
	require.NoError(t, drv.SetBrightness(50))
	require.Len(t, gpuLevels, 1)
	assert.Equal(t, uint32(128), gpuLevels[0])
	assert.Equal(t, uint32(50), fw.CurrentLevel())

	relays := trace.ByCategory(tracelog.CategoryRelay)
	require.NotEmpty(t, relays)
	assert.Equal(t, "amdgpu_bl0", relays[len(relays)-1].Target)
}

// TestE2E_SuspendResume verifies the level is re-asserted after the EC
// forgets it across a suspend cycle.
func TestE2E_SuspendResume(t *testing.T) {
	fw := testharness.NewFirmwareDevice(100, 40)
	registry := backlight.NewRegistry()
	notifier := power.NewNotifier()

	cfg := driver.DefaultConfig()
	cfg.RestoreLevelOnResume = driver.Bool(true)

	drv, err := driver.New(fw, registry, notifier, testIdentity, cfg)
	require.NoError(t, err)
	require.NoError(t, drv.Probe())

	require.NoError(t, drv.SetBrightness(60))

	// Suspend: the EC resets to a default without telling the host.
	notifier.Publish(power.SuspendPrepare)
	fw.ResetLevel(100)

	notifier.Publish(power.PostSuspend)
	assert.Equal(t, uint32(60), fw.CurrentLevel())

	level, err := drv.GetBrightness()
	require.NoError(t, err)
	assert.Equal(t, uint32(60), level)
}

// TestE2E_ReprobeExhaustion verifies that a proxy target that never
// appears eventually stops deferring and the driver binds without it.
func TestE2E_ReprobeExhaustion(t *testing.T) {
	fw := testharness.NewFirmwareDevice(100, 40)
	registry := backlight.NewRegistry()

	cfg := driver.DefaultConfig()
	cfg.ProxyTarget = "amdgpu_bl0"
	cfg.MaxReprobeAttempts = 5

	drv, err := driver.New(fw, registry, nil, testIdentity, cfg)
	require.NoError(t, err)

	deferred := 0
	for {
		err := drv.Probe()
		if err == nil {
			break
		}
		require.ErrorIs(t, err, driver.ErrProbeDeferred)
		deferred++
		require.LessOrEqual(t, deferred, 5, "probe must stop deferring at the budget")
	}

	assert.Equal(t, 5, deferred)
	assert.Equal(t, driver.StateBound, drv.State())
	assert.Nil(t, drv.Proxy())

	// Later registration of the target must not resurrect the proxy.
	_, err = registry.Register("amdgpu_bl0",
		backlight.Properties{Type: backlight.TypeRaw, Max: 255},
		backlight.Ops{Update: func(uint32) error { return nil }})
	require.NoError(t, err)
	require.NoError(t, drv.SetBrightness(10))
	assert.Nil(t, drv.Proxy())
}

// TestE2E_NonECSourceDoesNotBind verifies GPU- and AUX-controlled
// systems leave brightness to the display driver.
func TestE2E_NonECSourceDoesNotBind(t *testing.T) {
	fw := testharness.NewFirmwareDevice(100, 40)
	fw.Source = wmi.SourceGPU
	registry := backlight.NewRegistry()

	drv, err := driver.New(fw, registry, nil, testIdentity, driver.DefaultConfig())
	require.NoError(t, err)

	err = drv.Probe()
	assert.ErrorIs(t, err, driver.ErrNotApplicable)
	assert.Equal(t, 0, registry.Len())
}

// TestE2E_PersistedLevelAcrossRestart saves the level with one driver
// instance and restores it with a fresh one, mirroring a daemon
// restart.
func TestE2E_PersistedLevelAcrossRestart(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	store := persistence.NewDriverStateStore(statePath)

	// First run: bind, set a level, persist, shut down.
	{
		fw := testharness.NewFirmwareDevice(100, 40)
		drv, err := driver.New(fw, backlight.NewRegistry(), nil, testIdentity, driver.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, drv.Probe())
		require.NoError(t, drv.SetBrightness(83))

		require.NoError(t, store.Save(&persistence.DriverState{
			Level: drv.Device().Brightness(),
			Max:   drv.Device().Max(),
		}))
		drv.Remove()
	}

	// Second run: fresh firmware forgot the level, state restores it.
	{
		fw := testharness.NewFirmwareDevice(100, 40)
		drv, err := driver.New(fw, backlight.NewRegistry(), nil, testIdentity, driver.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, drv.Probe())

		state, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, state)
		require.Equal(t, drv.Device().Max(), state.Max)

		require.NoError(t, drv.SetBrightness(state.Level))
		assert.Equal(t, uint32(83), fw.CurrentLevel())
	}
}

// TestE2E_FirmwareFailurePropagates verifies firmware diagnostics
// surface through the driver wrapped in the I/O error.
func TestE2E_FirmwareFailurePropagates(t *testing.T) {
	fw := testharness.NewFirmwareDevice(100, 40)
	drv, err := driver.New(fw, backlight.NewRegistry(), nil, testIdentity, driver.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, drv.Probe())

	diag := errors.New("AE_TIME: EC did not respond")
	fw.FailWith = diag

	_, err = drv.GetBrightness()
	assert.ErrorIs(t, err, wmi.ErrIO)
	assert.ErrorIs(t, err, diag)
}
