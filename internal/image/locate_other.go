//go:build !unix

package image

import spterrors "github.com/derekg/setproctitle/internal/errors"

// Locate reports a resolution failure: os.Args is not backed by a kernel
// argument block on this platform.
func Locate() (*Handle, *spterrors.TitleError) {
	return nil, spterrors.NewResolutionError("locate", spterrors.ErrUnsupported)
}
