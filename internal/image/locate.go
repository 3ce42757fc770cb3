package image

import (
	"bytes"
	"strings"
	"unsafe"

	spterrors "github.com/derekg/setproctitle/internal/errors"
)

// Handle describes the located argv/environ block of the process. It is
// computed once and lives for the rest of the process.
type Handle struct {
	region *Region

	// argvLen is the length of the contiguous argument strings including
	// their terminators; envLen is the length of the environment strings
	// that follow them in the same block.
	argvLen int
	envLen  int
	argc    int
	envc    int

	// original is the invocation command line joined by spaces.
	original string

	// args is the slice whose strings alias the block (os.Args).
	args *[]string
}

// Region returns the writable title region.
func (h *Handle) Region() *Region {
	return h.region
}

// Capacity returns the longest title that fits in the region.
func (h *Handle) Capacity() int {
	return h.region.Capacity()
}

// ArgvLen returns the number of bytes the original argument strings occupy.
func (h *Handle) ArgvLen() int {
	return h.argvLen
}

// EnvLen returns the number of bytes of environment strings in the region.
func (h *Handle) EnvLen() int {
	return h.envLen
}

// Original returns the invocation command line joined by single spaces.
func (h *Handle) Original() string {
	return h.original
}

// Counts returns how many argument and environment strings the region spans.
func (h *Handle) Counts() (argc, envc int) {
	return h.argc, h.envc
}

// walk locates the title region from the argument strings in args, which
// must alias the process block, and the environment entries env in their
// original order. limit bounds how many bytes past the first argument may be
// read; a negative limit means unknown.
//
// The argument walk follows string addresses: argument i+1 must start one
// byte after the terminator of argument i. The environment walk compares
// memory after the last argument against each "K=V" entry in turn. Both stop
// at the first break, so the result is always a prefix of the real block.
func walk(args *[]string, env []string, limit int) (*Handle, *spterrors.TitleError) {
	if args == nil || len(*args) == 0 || len((*args)[0]) == 0 {
		return nil, spterrors.NewResolutionError("locate", spterrors.ErrNoArgv)
	}
	argv := *args

	start := unsafe.StringData(argv[0])
	readable := func(off, n int) bool {
		return limit < 0 || off+n <= limit
	}

	var (
		size int
		argc int
	)
	for _, arg := range argv {
		p := unsafe.StringData(arg)
		if argc > 0 && p != (*byte)(unsafe.Add(unsafe.Pointer(start), size)) {
			break
		}
		if !readable(size, len(arg)+1) {
			break
		}
		if *(*byte)(unsafe.Add(unsafe.Pointer(start), size+len(arg))) != 0 {
			break
		}
		size += len(arg) + 1
		argc++
	}
	if argc == 0 {
		return nil, spterrors.NewResolutionError("locate", spterrors.ErrNotContiguous)
	}
	argvLen := size

	envc := 0
	if argc == len(argv) {
		for _, kv := range env {
			if kv == "" || !readable(size, len(kv)+1) {
				break
			}
			mem := unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(start), size)), len(kv)+1)
			if mem[len(kv)] != 0 || !bytes.Equal(mem[:len(kv)], []byte(kv)) {
				break
			}
			size += len(kv) + 1
			envc++
		}
	}

	return &Handle{
		region:   NewRegion(unsafe.Slice(start, size)),
		argvLen:  argvLen,
		envLen:   size - argvLen,
		argc:     argc,
		envc:     envc,
		original: strings.Join(argv, " "),
		args:     args,
	}, nil
}
