//go:build linux

package image

import "github.com/derekg/setproctitle/internal/procstat"

func procBounds() (procstat.Layout, bool) {
	l, err := procstat.Self()
	if err != nil {
		return procstat.Layout{}, false
	}
	return l, true
}
