package util

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo is the subset of host details reported by /health.
type HostInfo struct {
	Hostname string
	Platform string
	Uptime   uint64
}

// GetHostInfo identifies the host and OS distribution/version using gopsutil.
// On failure Platform falls back to runtime.GOOS and the error is returned.
func GetHostInfo(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{Platform: runtime.GOOS}, err
	}
	return HostInfo{
		Hostname: info.Hostname,
		Platform: distro(info),
		Uptime:   info.Uptime,
	}, nil
}

func distro(info *host.InfoStat) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Windows %s (%s)", info.Platform, info.PlatformVersion)
	case "darwin":
		return fmt.Sprintf("macOS %s", info.PlatformVersion)
	case "linux":
		if info.Platform != "" {
			if info.PlatformVersion != "" {
				return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
			}
			return info.Platform
		}
		return runtime.GOOS
	}
	return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
}
