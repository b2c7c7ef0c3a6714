// Package platform classifies the build target and build profile the binary
// was compiled for. The classification is fixed at compile time through build
// tags and is read once during bootstrap.
package platform

import (
	"fmt"
	"runtime"
)

// Classification describes the target the binary was built for.
type Classification struct {
	// Mobile is true for ios and android builds.
	Mobile bool `json:"mobile"`
	// Debug is true for binaries built with the "debug" tag.
	Debug bool `json:"debug"`

	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// Detect returns the compile-time classification of the running binary.
func Detect() Classification {
	return Classification{
		Mobile: isMobile,
		Debug:  isDebug,
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
	}
}

// IsMobileTarget reports whether the binary targets a mobile device.
func (c Classification) IsMobileTarget() bool { return c.Mobile }

// IsDebugProfile reports whether the binary was built with the debug profile.
func (c Classification) IsDebugProfile() bool { return c.Debug }

// Profile returns "debug" or "release".
func (c Classification) Profile() string {
	if c.Debug {
		return "debug"
	}
	return "release"
}

// DeviceClass returns "mobile" or "desktop".
func (c Classification) DeviceClass() string {
	if c.Mobile {
		return "mobile"
	}
	return "desktop"
}

func (c Classification) String() string {
	return fmt.Sprintf("%s/%s", c.DeviceClass(), c.Profile())
}
