// Package native wraps the title calls operating systems provide directly:
// the Linux task short name, the FreeBSD process argument sysctl and the
// Windows console title. Failures are reported to the caller for logging
// and never escalate further.
package native

import (
	spterrors "github.com/derekg/setproctitle/internal/errors"
)

// Writer sets the process title through a dedicated system call.
type Writer interface {
	// Name identifies the underlying call.
	Name() string
	// Write sets title, truncated to what the call accepts.
	Write(title string) spterrors.Result
}

// truncate cuts b to at most n bytes.
func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
