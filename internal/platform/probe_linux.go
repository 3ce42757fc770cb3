//go:build linux
// +build linux

package platform

import "github.com/derekg/setproctitle/internal/config"

func probe() Capabilities {
	return Capabilities{
		Strategy:      InPlaceOverwrite,
		ShortName:     true,
		ShortNameMax:  config.ShortNameMax,
		ArgsRemap:     true,
		ThreadNames:   true,
		ThreadNameMax: config.ShortNameMax,
	}
}
