package relay

import (
	"log/slog"

	"github.com/alexandru-dinu/nvidia-wmi-ec-backlight/pkg/backlight"
)

// Scale linearly rescales level from [0, sourceMax] to [0, targetMax]
// using round-half-up rounding. A zero source range always maps to 0.
// The result is clamped to targetMax so integer rounding can never
// exceed the target range.
func Scale(level, sourceMax, targetMax uint32) uint32 {
	if sourceMax == 0 {
		return 0
	}
	scaled := (uint64(level)*uint64(targetMax) + uint64(sourceMax)/2) / uint64(sourceMax)
	if scaled > uint64(targetMax) {
		scaled = uint64(targetMax)
	}
	return uint32(scaled)
}

// Forward pushes level, rescaled from a [0, sourceMax] range, to the
// target device's set entrypoint. A failed forward is logged at warn
// level and otherwise ignored. The computed target level is returned
// for diagnostics.
func Forward(logger *slog.Logger, target *backlight.Device, level, sourceMax uint32) uint32 {
	scaled := Scale(level, sourceMax, target.Max())
	if err := target.SetBrightness(scaled); err != nil {
		if logger != nil {
			logger.Warn("failed to relay backlight update",
				slog.String("target", target.Name()),
				slog.Uint64("level", uint64(scaled)),
				slog.String("error", err.Error()))
		}
	}
	return scaled
}
