package setproctitle

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/image"
	"github.com/derekg/setproctitle/internal/logging"
	"github.com/derekg/setproctitle/internal/native"
	"github.com/derekg/setproctitle/internal/platform"
	"github.com/derekg/setproctitle/internal/textenc"
	"github.com/derekg/setproctitle/internal/thread"
)

// remapper moves the kernel's view of the argument area to a buffer of
// its own. native.ArgsRemapper is the only implementation.
type remapper interface {
	Name() string
	Write(title string) spterrors.Result
	Title() (string, bool)
}

type remapMode int32

const (
	remapUntried remapMode = iota
	remapActive
	remapOff
)

// facade holds the process-wide title state. It moves from Uninitialized
// to Probed on the first call of any operation and to Ready once the
// process title machinery has been set up.
type facade struct {
	mu    sync.Mutex
	state atomic.Int32

	// Set when leaving Uninitialized, read-only afterwards.
	caps     platform.Capabilities
	settings config.Settings
	enc      *textenc.Encoder
	original string

	// Set when entering Ready, read-only afterwards.
	remap  remapper
	follow func(title []byte) error
	locate func() (*image.Handle, *spterrors.TitleError)
	native native.Writer

	// setMu serializes process title writes on in-place platforms.
	setMu   sync.Mutex
	sampled bool // guarded by setMu
	mode    atomic.Int32

	wmu     sync.Mutex
	inplace atomic.Pointer[image.Writer]

	nativeTitle string // guarded by mu
	nativeSet   bool   // guarded by mu

	lastCause atomic.Pointer[spterrors.TitleError]
}

var std facade

func (f *facade) probe() {
	if State(f.state.Load()) >= Probed {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if State(f.state.Load()) >= Probed {
		return
	}

	f.settings = config.FromEnv()
	logging.Init(f.settings)
	f.caps = platform.Probe()
	f.enc = textenc.ForLocale(f.settings.Encoding)
	f.original = strings.Join(os.Args, " ")

	logging.L().Debug("platform probed",
		zap.Stringer("capabilities", f.caps),
		zap.String("encoding", f.enc.Name()))
	f.state.Store(int32(Probed))
}

func (f *facade) ready() {
	f.probe()
	if State(f.state.Load()) == Ready {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if State(f.state.Load()) == Ready {
		return
	}

	switch f.caps.Strategy {
	case platform.InPlaceOverwrite:
		if f.caps.ArgsRemap {
			if r := native.NewArgsRemapper(); r != nil {
				f.remap = r
			}
		}
		f.follow = native.ProcessNameFollower()
		f.locate = image.Locate
		if _, err := f.inplaceWriter(); err != nil {
			f.record(spterrors.Result{}.With(err))
		}
	case platform.NativeCall:
		f.native = native.New(f.caps)
	}
	f.state.Store(int32(Ready))
}

// inplaceWriter returns the writer for the located process image. A failed
// locate is retried on the next call.
func (f *facade) inplaceWriter() (*image.Writer, *spterrors.TitleError) {
	if w := f.inplace.Load(); w != nil {
		return w, nil
	}
	f.wmu.Lock()
	defer f.wmu.Unlock()
	if w := f.inplace.Load(); w != nil {
		return w, nil
	}

	h, err := f.locate()
	if err != nil {
		return nil, err
	}
	w := image.NewWriter(h, image.Options{
		NoEnv:  func() bool { return config.FromEnv().NoEnv },
		Follow: f.follow,
	})
	f.inplace.Store(w)
	return w, nil
}

// record remembers and logs the cause of a degraded result.
func (f *facade) record(res spterrors.Result) {
	if !res.Degraded() {
		return
	}
	f.lastCause.Store(res.Cause)
	spterrors.NewHandler(logging.L()).HandleResult(res)
}

// SetProcessTitle makes title the command line other programs see for this
// process. A title longer than the platform allows is truncated. Anything
// after a NUL byte in title is dropped.
func SetProcessTitle(title string) {
	std.setProcessTitle(title)
}

func (f *facade) setProcessTitle(title string) {
	f.ready()
	title = cutNUL(title)

	var res spterrors.Result
	switch {
	case f.caps.Strategy == platform.InPlaceOverwrite:
		res = f.setInPlace(title)
	case f.native != nil:
		res = f.native.Write(title)
		if res.Written > 0 || title == "" {
			f.mu.Lock()
			f.nativeTitle, f.nativeSet = title, true
			f.mu.Unlock()
		}
	default:
		res = res.With(spterrors.NewUnsupportedError("set_process_title"))
	}
	f.record(res)
}

// setInPlace shows title through the remapped argument area when the
// kernel allows it and through the original block otherwise. The first
// call decides which one for the rest of the process.
func (f *facade) setInPlace(title string) spterrors.Result {
	f.setMu.Lock()
	defer f.setMu.Unlock()

	if !f.sampled {
		f.sampled = true
		if f.remap == nil || config.FromEnv().NoRemap {
			f.mode.Store(int32(remapOff))
		}
	}

	b, cause := f.enc.Encode(title)

	if mode := remapMode(f.mode.Load()); mode != remapOff {
		res := f.remap.Write(string(b))
		if !res.Degraded() {
			f.mode.Store(int32(remapActive))
			if f.follow != nil {
				if err := f.follow(b); err != nil {
					logging.L().Debug("process name not updated", zap.Error(err))
				}
			}
			return res.With(cause)
		}
		if mode == remapActive {
			// The kernel keeps showing the previous remapped title.
			return res.With(cause)
		}
		f.mode.Store(int32(remapOff))
		logging.L().Debug("argument area not remapped, writing in place",
			zap.String("call", f.remap.Name()))
		f.record(res)
	}

	w, err := f.inplaceWriter()
	if err != nil {
		return spterrors.Result{}.With(err).With(cause)
	}
	return w.Write(b).With(cause)
}

// GetProcessTitle returns the title currently shown for this process.
// Until SetProcessTitle succeeds, and on platforms where titles cannot be
// set, it returns the original command line joined by single spaces.
func GetProcessTitle() string {
	return std.getProcessTitle()
}

func (f *facade) getProcessTitle() string {
	f.ready()

	switch {
	case f.caps.Strategy == platform.InPlaceOverwrite:
		if remapMode(f.mode.Load()) == remapActive {
			if t, ok := f.remap.Title(); ok {
				return f.enc.Decode([]byte(t))
			}
		}
		if w := f.inplace.Load(); w != nil {
			if b, ok := w.Title(); ok {
				return f.enc.Decode(b)
			}
		}
	case f.native != nil:
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.nativeSet {
			return f.nativeTitle
		}
	}
	return f.original
}

// SetThreadTitle names the OS thread the calling goroutine runs on. Linux
// keeps the first 15 bytes and macOS the first 63; other platforms ignore
// the call. Call
// runtime.LockOSThread first to keep the goroutine on the named thread.
func SetThreadTitle(title string) {
	f := &std
	f.probe()
	if !f.caps.ThreadNames {
		return
	}
	f.record(thread.Set(cutNUL(title), f.enc))
}

// GetThreadTitle returns the name of the OS thread the calling goroutine
// runs on, or "" where threads have no names.
func GetThreadTitle() string {
	f := &std
	f.probe()
	if !f.caps.ThreadNames {
		return ""
	}
	return thread.Get(f.enc)
}

// Capabilities reports the title facilities of the running platform.
func Capabilities() platform.Capabilities {
	f := &std
	f.probe()
	return f.caps
}

// ShortName returns the kernel short name of the process, which follows
// the first bytes of the process title on Linux. It is "" elsewhere.
func ShortName() string {
	name, err := native.ShortName(os.Getpid())
	if err != nil {
		return ""
	}
	return name
}

// cutNUL drops everything from the first NUL byte on.
func cutNUL(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
