//go:build windows
// +build windows

package platform

import "github.com/derekg/setproctitle/internal/config"

func probe() Capabilities {
	return Capabilities{
		Strategy:       NativeCall,
		NativeTitle:    "SetConsoleTitleW",
		NativeTitleMax: config.ConsoleTitleMax,
		ConsoleTitle:   true,
	}
}
