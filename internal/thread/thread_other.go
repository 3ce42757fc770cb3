//go:build !linux && !darwin
// +build !linux,!darwin

package thread

import (
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/textenc"
)

// Set does nothing: threads cannot be named on this platform.
func Set(title string, enc *textenc.Encoder) spterrors.Result {
	return spterrors.Result{}.With(spterrors.NewUnsupportedError("set_thread_title"))
}

// Get returns "".
func Get(enc *textenc.Encoder) string {
	return ""
}

// Name is unsupported.
func Name(tid int) (string, error) {
	return "", spterrors.ErrUnsupported
}

// ID returns 0.
func ID() int {
	return 0
}

func isMain() bool {
	return false
}
