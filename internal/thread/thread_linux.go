//go:build linux
// +build linux

package thread

import (
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/logging"
	"github.com/derekg/setproctitle/internal/native"
	"github.com/derekg/setproctitle/internal/textenc"
)

// Set names the calling thread. The kernel keeps at most 15 bytes; longer
// titles are cut and the cut is reported in the result.
func Set(title string, enc *textenc.Encoder) spterrors.Result {
	b, cause := enc.Encode(title)
	res := spterrors.Result{}.With(cause)
	if len(b) > config.ShortNameMax {
		res = res.With(spterrors.NewCapacityError(len(b), config.ShortNameMax))
		b = b[:config.ShortNameMax]
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid := unix.Gettid()
	if err := native.SetShortName(tid, b); err != nil {
		return res.With(spterrors.NewNativeCallError("prctl(PR_SET_NAME)", err))
	}
	logging.L().Debug("thread renamed", zap.Int("tid", tid), zap.ByteString("name", b))
	res.Written = len(b)
	return res
}

// Get returns the name of the calling thread, or "" if it cannot be read.
func Get(enc *textenc.Encoder) string {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	name, err := native.CurrentShortName()
	if err != nil {
		logging.L().Debug("thread name unavailable", zap.Error(err))
		return ""
	}
	return enc.Decode([]byte(name))
}

// Name returns the name of thread tid of this process as listed in /proc.
func Name(tid int) (string, error) {
	return native.ShortName(tid)
}

// ID returns the kernel id of the calling thread.
func ID() int {
	return unix.Gettid()
}

func isMain() bool {
	return unix.Gettid() == os.Getpid()
}
