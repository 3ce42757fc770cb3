//go:build !linux && !darwin && !netbsd && !openbsd && !freebsd && !dragonfly && !windows
// +build !linux,!darwin,!netbsd,!openbsd,!freebsd,!dragonfly,!windows

package platform

func probe() Capabilities {
	return Capabilities{Strategy: Unsupported}
}
