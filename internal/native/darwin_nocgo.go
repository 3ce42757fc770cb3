//go:build darwin && !cgo

package native

import spterrors "github.com/derekg/setproctitle/internal/errors"

// SetThreadName needs pthread_setname_np, which is only reachable with cgo.
func SetThreadName(name []byte) error {
	return spterrors.ErrUnsupported
}

// CurrentThreadName is unsupported without cgo.
func CurrentThreadName() (string, error) {
	return "", spterrors.ErrUnsupported
}

// IsMainThread reports false: the main thread cannot be identified
// without cgo.
func IsMainThread() bool {
	return false
}
