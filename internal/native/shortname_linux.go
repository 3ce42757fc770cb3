//go:build linux
// +build linux

package native

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"unsafe"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"github.com/derekg/setproctitle/internal/config"
)

// SetShortName sets the kernel task name of thread tid, truncated to 15
// bytes. The calling thread is renamed with prctl(PR_SET_NAME); any other
// thread of this process through its comm file.
func SetShortName(tid int, name []byte) error {
	name = truncate(name, config.ShortNameMax)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if tid == unix.Gettid() {
		var buf [config.ShortNameMax + 1]byte
		copy(buf[:], name)
		if _, _, errno := unix.Syscall(unix.SYS_PRCTL, unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0); errno != 0 {
			return fmt.Errorf("prctl(PR_SET_NAME): %w", errno)
		}
		return nil
	}

	path := fmt.Sprintf("/proc/self/task/%d/comm", tid)
	if err := os.WriteFile(path, name, 0); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CurrentShortName returns the kernel task name of the calling thread.
func CurrentShortName() (string, error) {
	var buf [config.ShortNameMax + 1]byte
	if _, _, errno := unix.Syscall(unix.SYS_PRCTL, unix.PR_GET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0); errno != 0 {
		return "", fmt.Errorf("prctl(PR_GET_NAME): %w", errno)
	}
	return unix.ByteSliceToString(buf[:]), nil
}

// ShortName returns the kernel task name of thread (or process) id as
// shown in /proc.
func ShortName(id int) (string, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return "", err
	}
	p, err := fs.Proc(id)
	if err != nil {
		return "", err
	}
	comm, err := p.Comm()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(comm, "\n"), nil
}

// ThreadNames returns the task name of every thread of process pid, keyed
// by thread id.
func ThreadNames(pid int) (map[int]string, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, err
	}
	threads, err := fs.AllThreads(pid)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(threads))
	for _, t := range threads {
		comm, err := t.Comm()
		if err != nil {
			// The thread exited while we were listing.
			continue
		}
		names[t.PID] = strings.TrimRight(comm, "\n")
	}
	return names, nil
}

// ProcessNameFollower keeps the short name of the thread group leader in
// step with the process title.
func ProcessNameFollower() func(title []byte) error {
	pid := os.Getpid()
	return func(title []byte) error {
		return SetShortName(pid, title)
	}
}
