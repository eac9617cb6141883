// Package quirk resolves hardware-model-specific behavioral overrides.
//
// Certain models ship firmware with known defects: resetting the EC
// backlight level across a suspend cycle, or reporting EC brightness
// control while the panel is really driven by a GPU backlight. The
// quirk table maps host identity (vendor and product-version strings,
// exact match) to the behavioral flags that work around those defects.
//
// Resolution runs once before the driver binds. Explicitly configured
// values always win over quirk-derived ones; quirks only fill in
// fields left at their defaults.
package quirk
