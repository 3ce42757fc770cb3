//go:build freebsd || dragonfly
// +build freebsd dragonfly

package native

import (
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/logging"
	"github.com/derekg/setproctitle/internal/platform"
)

// kern.proc.args.<pid>
const (
	ctlKern      = 1
	kernProc     = 14
	kernProcArgs = 7
)

type sysctlWriter struct {
	max int
}

// New returns the writer for the platform's native title call.
func New(caps platform.Capabilities) Writer {
	max := caps.NativeTitleMax
	if max <= 0 {
		max = config.NativeTitleMax
	}
	return &sysctlWriter{max: max}
}

func (w *sysctlWriter) Name() string {
	return "sysctl(kern.proc.args)"
}

// Write stores title as the process argument string. The kernel refuses
// strings above kern.ps_arg_cache_limit with ENOMEM; the title is then
// halved until it fits or drops below NativeTitleMin.
func (w *sysctlWriter) Write(title string) spterrors.Result {
	var res spterrors.Result

	b := []byte(title)
	if len(b) > w.max-1 {
		res = res.With(spterrors.NewCapacityError(len(b), w.max-1))
		b = b[:w.max-1]
	}

	for {
		err := setProcArgs(b)
		if err == nil {
			res.Written = len(b)
			return res
		}
		if !errors.Is(err, unix.ENOMEM) || len(b) <= config.NativeTitleMin {
			return res.With(spterrors.NewNativeCallError(w.Name(), err))
		}
		logging.L().Debug("title rejected as too large, shrinking", zap.Int("len", len(b)))
		res = res.With(spterrors.NewCapacityError(len(title), len(b)/2))
		b = b[:len(b)/2]
	}
}

func setProcArgs(title []byte) error {
	mib := [4]int32{ctlKern, kernProc, kernProcArgs, int32(unix.Getpid())}
	buf := make([]byte, len(title)+1)
	copy(buf, title)

	_, _, errno := unix.Syscall6(unix.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])), uintptr(len(mib)),
		0, 0,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if errno != 0 {
		return fmt.Errorf("sysctl(kern.proc.args): %w", errno)
	}
	return nil
}
