// Package version identifies the driver build.
package version

import "fmt"

// Current is the driver version.
const Current = "1.0.0"

// Name is the driver name as reported in logs and the backlight
// registry.
const Name = "nvidia-wmi-ec-backlight"

// UserAgent returns "name/version" for log banners.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", Name, Current)
}
