//go:build darwin
// +build darwin

package platform

import "github.com/derekg/setproctitle/internal/config"

// probe reports the argv overwrite strategy. With cgo the title is also
// published as the LaunchServices display name and threads can be named
// through pthread_setname_np.
func probe() Capabilities {
	return Capabilities{
		Strategy:      InPlaceOverwrite,
		DisplayName:   cgoEnabled,
		ThreadNames:   cgoEnabled,
		ThreadNameMax: config.DarwinThreadNameMax,
	}
}
