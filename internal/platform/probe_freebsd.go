//go:build freebsd || dragonfly
// +build freebsd dragonfly

package platform

import "github.com/derekg/setproctitle/internal/config"

func probe() Capabilities {
	return Capabilities{
		Strategy:       NativeCall,
		NativeTitle:    "sysctl(kern.proc.args)",
		NativeTitleMax: config.NativeTitleMax,
	}
}
