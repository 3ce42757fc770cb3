//go:build !linux
// +build !linux

package native

import spterrors "github.com/derekg/setproctitle/internal/errors"

// ArgsRemapper is a Linux facility.
type ArgsRemapper struct{}

// NewArgsRemapper returns nil.
func NewArgsRemapper() *ArgsRemapper {
	return nil
}

func (r *ArgsRemapper) Name() string {
	return "prctl(PR_SET_MM_MAP)"
}

func (r *ArgsRemapper) Write(title string) spterrors.Result {
	var res spterrors.Result
	return res.With(spterrors.NewUnsupportedError(r.Name()))
}

func (r *ArgsRemapper) Title() (string, bool) {
	return "", false
}
