package image

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/logging"
)

// Options controls an in-place Writer.
type Options struct {
	// NoEnv reports whether to skip environment relocation. It is consulted
	// once, right before the first write. Environment strings in the region
	// are then overwritten without being copied first.
	NoEnv func() bool

	// Follow, if set, receives every written title so a second process
	// name (the Linux short name, the macOS display name) can follow it.
	// Its error is logged and otherwise ignored.
	Follow func(title []byte) error
}

// Writer rewrites the title region of a located Handle. All writes and the
// one-time relocations happen under a single lock.
type Writer struct {
	mu         sync.RWMutex
	handle     *Handle
	opts       Options
	env        envHooks
	relocation *Relocation
	prepared   bool
	written    bool
}

// NewWriter returns a Writer for h.
func NewWriter(h *Handle, opts Options) *Writer {
	return &Writer{handle: h, opts: opts, env: processEnv}
}

// Write makes title the visible process title. It never fails: a title
// longer than the capacity is truncated and the cause is reported in the
// result.
func (w *Writer) Write(title []byte) spterrors.Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	// The first write must move everything that aliases the region out of
	// it before a single byte changes.
	if !w.prepared {
		w.prepare()
		w.prepared = true
	}

	var res spterrors.Result
	region := w.handle.region
	if len(title) > region.Capacity() {
		res = res.With(spterrors.NewCapacityError(len(title), region.Capacity()))
	}
	res.Written = region.Write(title)
	w.written = true

	if w.opts.Follow != nil {
		if err := w.opts.Follow(title[:res.Written]); err != nil {
			logging.L().Debug("process name not updated", zap.Error(err))
		}
	}
	return res
}

func (w *Writer) prepare() {
	// Go strings are immutable; detach os.Args from the block.
	if args := w.handle.args; args != nil {
		for i := range *args {
			(*args)[i] = strings.Clone((*args)[i])
		}
	}

	h := w.handle
	if h.envLen == 0 {
		return
	}
	if w.opts.NoEnv != nil && w.opts.NoEnv() {
		logging.L().Debug("environment relocation disabled", zap.Int("env_len", h.envLen))
		return
	}
	w.relocation = relocate(h.region.slice(h.argvLen, h.argvLen+h.envLen), w.env)
	logging.L().Debug("relocated environment",
		zap.Int("entries", len(w.relocation.entries)),
		zap.Int("bytes", w.relocation.Size()))
}

// Title returns the visible title bytes and whether any title was written.
// Before the first write it returns nil and false.
func (w *Writer) Title() ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.written {
		return nil, false
	}
	return w.handle.region.Read(), true
}

// Relocation returns the environment relocation, or nil if none happened.
func (w *Writer) Relocation() *Relocation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.relocation
}

// Handle returns the handle the writer operates on.
func (w *Writer) Handle() *Handle {
	return w.handle
}
