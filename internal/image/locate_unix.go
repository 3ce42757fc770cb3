//go:build unix

package image

import (
	"os"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/logging"
	"github.com/derekg/setproctitle/internal/procstat"
)

var (
	locateMu sync.Mutex
	located  *Handle
)

// Locate finds the argv/environ block of the current process. The Go
// runtime leaves the strings of os.Args pointing at the block the kernel
// set up, which is what makes the walk possible. A located handle is cached
// for the life of the process; a failure is not, so a later call walks
// again.
func Locate() (*Handle, *spterrors.TitleError) {
	return locateWith(func() (*Handle, *spterrors.TitleError) {
		return locate(procBounds)
	})
}

func locateWith(find func() (*Handle, *spterrors.TitleError)) (*Handle, *spterrors.TitleError) {
	locateMu.Lock()
	defer locateMu.Unlock()
	if located != nil {
		return located, nil
	}
	h, err := find()
	if err != nil {
		return nil, err
	}
	located = h
	return h, nil
}

func locate(bounds func() (procstat.Layout, bool)) (*Handle, *spterrors.TitleError) {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return nil, spterrors.NewResolutionError("locate", spterrors.ErrNoArgv)
	}

	limit := -1
	if b, ok := bounds(); ok {
		start := uintptr(unsafe.Pointer(unsafe.StringData(os.Args[0])))
		if uintptr(b.ArgStart) != start {
			logging.L().Debug("argv[0] does not start the kernel argument area",
				zap.Uint64("arg_start", b.ArgStart),
				zap.Uintptr("argv0", start))
		}
		if uintptr(b.EnvEnd) > start {
			limit = int(uintptr(b.EnvEnd) - start)
		}
	}

	h, err := walk(&os.Args, os.Environ(), limit)
	if err != nil {
		return nil, err
	}
	logging.L().Debug("located process image",
		zap.Int("argc", h.argc),
		zap.Int("envc", h.envc),
		zap.Int("argv_len", h.argvLen),
		zap.Int("env_len", h.envLen),
		zap.Int("capacity", h.Capacity()))
	return h, nil
}
