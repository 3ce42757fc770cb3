//go:build linux
// +build linux

package native

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/procstat"
)

// mmMap mirrors struct prctl_mm_map from <linux/prctl.h>.
type mmMap struct {
	StartCode  uint64
	EndCode    uint64
	StartData  uint64
	EndData    uint64
	StartBrk   uint64
	Brk        uint64
	StartStack uint64
	ArgStart   uint64
	ArgEnd     uint64
	EnvStart   uint64
	EnvEnd     uint64
	Auxv       *uint64
	AuxvSize   uint32
	ExeFD      uint32
}

type remapHooks struct {
	layout  func() (procstat.Layout, error)
	brk     func() uint64
	mapSize func() (uint32, error)
	setMap  func(m *mmMap) error
}

var kernelRemap = remapHooks{
	layout: procstat.Self,
	brk: func() uint64 {
		cur, _, _ := unix.RawSyscall(unix.SYS_BRK, 0, 0, 0)
		return uint64(cur)
	},
	mapSize: func() (uint32, error) {
		var n uint32
		if _, _, errno := unix.Syscall6(unix.SYS_PRCTL, unix.PR_SET_MM, unix.PR_SET_MM_MAP_SIZE,
			uintptr(unsafe.Pointer(&n)), 0, 0, 0); errno != 0 {
			return 0, errno
		}
		return n, nil
	},
	setMap: func(m *mmMap) error {
		if _, _, errno := unix.Syscall6(unix.SYS_PRCTL, unix.PR_SET_MM, unix.PR_SET_MM_MAP,
			uintptr(unsafe.Pointer(m)), unsafe.Sizeof(*m), 0, 0); errno != 0 {
			return errno
		}
		return nil
	},
}

// ArgsRemapper asks the kernel to show a buffer owned by this process as
// the argument area, so the title is no longer bounded by the original
// argv/environ block. The kernel allows this only with CAP_SYS_RESOURCE in
// the owning user namespace and refuses with EPERM otherwise.
type ArgsRemapper struct {
	mu    sync.Mutex
	hooks remapHooks

	// buf is the block the kernel currently reports; it must stay
	// referenced for as long as the mapping points at it.
	buf []byte
}

// NewArgsRemapper returns a remapper for the running kernel.
func NewArgsRemapper() *ArgsRemapper {
	return &ArgsRemapper{hooks: kernelRemap}
}

func (r *ArgsRemapper) Name() string {
	return "prctl(PR_SET_MM_MAP)"
}

// Write points the kernel argument area at a fresh copy of title. On
// failure nothing changes: the previous buffer, if any, stays visible.
func (r *ArgsRemapper) Write(title string) spterrors.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res spterrors.Result
	if err := r.remap(title); err != nil {
		return res.With(spterrors.NewNativeCallError(r.Name(), err))
	}
	res.Written = len(title)
	return res
}

func (r *ArgsRemapper) remap(title string) error {
	size, err := r.hooks.mapSize()
	if err != nil {
		return fmt.Errorf("PR_SET_MM_MAP_SIZE: %w", err)
	}
	if want := unsafe.Sizeof(mmMap{}); uintptr(size) != want {
		return fmt.Errorf("kernel prctl_mm_map is %d bytes, want %d", size, want)
	}

	l, err := r.hooks.layout()
	if err != nil {
		return err
	}

	buf := make([]byte, len(title)+1)
	copy(buf, title)
	start := uint64(uintptr(unsafe.Pointer(&buf[0])))

	m := mmMap{
		StartCode:  l.StartCode,
		EndCode:    l.EndCode,
		StartData:  l.StartData,
		EndData:    l.EndData,
		StartBrk:   l.StartBrk,
		Brk:        r.hooks.brk(),
		StartStack: l.StartStack,
		ArgStart:   start,
		ArgEnd:     start + uint64(len(buf)),
		EnvStart:   l.EnvStart,
		EnvEnd:     l.EnvEnd,
		ExeFD:      ^uint32(0),
	}
	if err := r.hooks.setMap(&m); err != nil {
		return err
	}
	r.buf = buf
	return nil
}

// Title returns the title the kernel shows and whether Write succeeded at
// least once.
func (r *ArgsRemapper) Title() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buf == nil {
		return "", false
	}
	return string(r.buf[:len(r.buf)-1]), true
}
