//go:build !freebsd && !dragonfly && !windows
// +build !freebsd,!dragonfly,!windows

package native

import "github.com/derekg/setproctitle/internal/platform"

// New returns nil: the process title is not set through a native call on
// this platform.
func New(caps platform.Capabilities) Writer {
	return nil
}
