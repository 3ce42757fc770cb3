//go:build darwin
// +build darwin

package thread

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/logging"
	"github.com/derekg/setproctitle/internal/native"
	"github.com/derekg/setproctitle/internal/textenc"
)

// Set names the calling thread with pthread_setname_np, which keeps at most
// 63 bytes.
func Set(title string, enc *textenc.Encoder) spterrors.Result {
	b, cause := enc.Encode(title)
	res := spterrors.Result{}.With(cause)
	if len(b) > config.DarwinThreadNameMax {
		res = res.With(spterrors.NewCapacityError(len(b), config.DarwinThreadNameMax))
		b = b[:config.DarwinThreadNameMax]
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := native.SetThreadName(b); err != nil {
		return res.With(spterrors.NewNativeCallError("pthread_setname_np", err))
	}
	logging.L().Debug("thread renamed", zap.ByteString("name", b))
	res.Written = len(b)
	return res
}

// Get returns the name of the calling thread, or "" if it cannot be read.
func Get(enc *textenc.Encoder) string {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	name, err := native.CurrentThreadName()
	if err != nil {
		logging.L().Debug("thread name unavailable", zap.Error(err))
		return ""
	}
	return enc.Decode([]byte(name))
}

// Name is unsupported: macOS offers no way to read another thread's name
// by id without a pthread handle.
func Name(tid int) (string, error) {
	return "", spterrors.ErrUnsupported
}

// ID returns 0; Mach thread ids are not exposed.
func ID() int {
	return 0
}

func isMain() bool {
	return native.IsMainThread()
}
