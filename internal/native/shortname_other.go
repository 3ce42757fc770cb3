//go:build !linux
// +build !linux

package native

import spterrors "github.com/derekg/setproctitle/internal/errors"

// SetShortName is unsupported: only Linux keeps a separate task name.
func SetShortName(tid int, name []byte) error {
	return spterrors.ErrUnsupported
}

// CurrentShortName is unsupported off Linux.
func CurrentShortName() (string, error) {
	return "", spterrors.ErrUnsupported
}

// ShortName is unsupported off Linux.
func ShortName(id int) (string, error) {
	return "", spterrors.ErrUnsupported
}

// ThreadNames is unsupported off Linux.
func ThreadNames(pid int) (map[int]string, error) {
	return nil, spterrors.ErrUnsupported
}
