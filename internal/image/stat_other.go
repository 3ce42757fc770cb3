//go:build unix && !linux

package image

import "github.com/derekg/setproctitle/internal/procstat"

// procBounds is unavailable without /proc; the environment walk is then
// bounded only by content matching.
func procBounds() (procstat.Layout, bool) {
	return procstat.Layout{}, false
}
