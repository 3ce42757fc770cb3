package image

import (
	"strings"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spterrors "github.com/derekg/setproctitle/internal/errors"
)

// fakeBlock lays out args and env the way an exec loader does: NUL
// terminated strings back to back, followed by pad zero bytes. The returned
// argv strings alias buf.
func fakeBlock(args, env []string, pad int) ([]byte, *[]string) {
	var buf []byte
	for _, a := range args {
		buf = append(buf, a...)
		buf = append(buf, 0)
	}
	for _, e := range env {
		buf = append(buf, e...)
		buf = append(buf, 0)
	}
	buf = append(buf, make([]byte, pad)...)

	argv := make([]string, len(args))
	off := 0
	for i, a := range args {
		argv[i] = unsafe.String(&buf[off], len(a))
		off += len(a) + 1
	}
	return buf, &argv
}

func fakeHandle(t *testing.T, args, env []string) ([]byte, *Handle) {
	t.Helper()
	buf, argv := fakeBlock(args, env, 8)
	h, err := walk(argv, env, len(buf))
	require.Nil(t, err)
	return buf, h
}

type envRecorder struct {
	mu    sync.Mutex
	vars  map[string]string
	calls []string
}

func (r *envRecorder) hooks() envHooks {
	return envHooks{
		lookup: func(k string) (string, bool) {
			r.mu.Lock()
			defer r.mu.Unlock()
			v, ok := r.vars[k]
			return v, ok
		},
		setenv: func(k, v string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls = append(r.calls, k+"="+v)
			r.vars[k] = v
			return nil
		},
	}
}

func TestRegionWriteRead(t *testing.T) {
	buf := []byte("prog\x00-u\x00")
	r := NewRegion(buf)

	assert.Equal(t, 8, r.Len())
	assert.Equal(t, 7, r.Capacity())
	assert.Equal(t, "prog", string(r.Read()))

	n := r.Write([]byte("hello"))
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(r.Read()))
	assert.Equal(t, []byte("hello\x00\x00\x00"), buf)
}

func TestRegionTruncatesAndTerminates(t *testing.T) {
	buf := make([]byte, 6)
	r := NewRegion(buf)

	n := r.Write([]byte(strings.Repeat("X", 100)))
	assert.Equal(t, 5, n)
	assert.Equal(t, "XXXXX", string(r.Read()))
	assert.Equal(t, byte(0), buf[5], "terminator must survive truncation")
}

func TestRegionShrinkLeavesNoResidue(t *testing.T) {
	buf := make([]byte, 32)
	r := NewRegion(buf)

	r.Write([]byte("a rather long title"))
	r.Write([]byte("short"))

	assert.Equal(t, "short", string(r.Read()))
	for i := 5; i < len(buf); i++ {
		assert.Zerof(t, buf[i], "byte %d not cleared", i)
	}
}

func TestRegionWriteIdempotent(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	NewRegion(a).Write([]byte("same"))
	r := NewRegion(b)
	r.Write([]byte("same"))
	r.Write([]byte("same"))
	assert.Equal(t, a, b)
}

func TestRegionEmpty(t *testing.T) {
	r := NewRegion(nil)
	assert.Equal(t, 0, r.Capacity())
	assert.Equal(t, 0, r.Write([]byte("x")))
	assert.Empty(t, r.Read())
}

func TestWalkArgvAndEnv(t *testing.T) {
	args := []string{"prog", "-u"}
	env := []string{"HOME=/root", "LANG=C"}
	buf, h := fakeHandle(t, args, env)

	argc, envc := h.Counts()
	assert.Equal(t, 2, argc)
	assert.Equal(t, 2, envc)
	assert.Equal(t, len("prog")+1+len("-u")+1, h.ArgvLen())
	assert.Equal(t, len("HOME=/root")+1+len("LANG=C")+1, h.EnvLen())
	assert.Equal(t, h.ArgvLen()+h.EnvLen()-1, h.Capacity())
	assert.Equal(t, "prog -u", h.Original())
	assert.Same(t, &buf[0], &h.Region().buf[0])
}

func TestWalkStopsAtArgvGap(t *testing.T) {
	buf, argv := fakeBlock([]string{"prog", "-u"}, []string{"A=1"}, 0)
	// Third argument lives somewhere else.
	other := []byte("elsewhere\x00")
	*argv = append(*argv, unsafe.String(&other[0], 9))

	h, err := walk(argv, []string{"A=1"}, len(buf))
	require.Nil(t, err)

	argc, envc := h.Counts()
	assert.Equal(t, 2, argc)
	assert.Equal(t, 0, envc, "environment is only joined after a complete argv walk")
	assert.Equal(t, 8, h.Region().Len())
	assert.Equal(t, "prog -u elsewhere", h.Original())
}

func TestWalkStopsAtEnvMismatch(t *testing.T) {
	buf, argv := fakeBlock([]string{"prog"}, []string{"A=1", "B=2", "C=3"}, 0)

	// The host changed B since startup.
	h, err := walk(argv, []string{"A=1", "B=changed", "C=3"}, len(buf))
	require.Nil(t, err)

	_, envc := h.Counts()
	assert.Equal(t, 1, envc)
	assert.Equal(t, len("A=1")+1, h.EnvLen())
}

func TestWalkRespectsLimit(t *testing.T) {
	buf, argv := fakeBlock([]string{"prog", "arg"}, []string{"A=1"}, 0)

	h, err := walk(argv, []string{"A=1"}, 6)
	require.Nil(t, err)
	assert.Equal(t, 5, h.Region().Len())
	argc, envc := h.Counts()
	assert.Equal(t, 1, argc)
	assert.Equal(t, 0, envc)
	assert.LessOrEqual(t, h.Region().Len(), len(buf))
}

func TestWalkEmptyArgument(t *testing.T) {
	buf, argv := fakeBlock([]string{"prog", "", "x"}, nil, 0)

	h, err := walk(argv, nil, len(buf))
	require.Nil(t, err)
	argc, _ := h.Counts()
	assert.GreaterOrEqual(t, argc, 1)
	assert.LessOrEqual(t, h.Region().Len(), len(buf))
	assert.Equal(t, "prog  x", h.Original())
}

func TestWalkFailures(t *testing.T) {
	empty := []string{}
	noName := []string{""}

	tests := []struct {
		name string
		args *[]string
	}{
		{"nil args", nil},
		{"no args", &empty},
		{"empty argv0", &noName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := walk(tt.args, nil, -1)
			assert.Nil(t, h)
			require.NotNil(t, err)
			assert.Equal(t, spterrors.ErrCodeResolutionFailure, err.Code)
		})
	}
}

func TestRelocate(t *testing.T) {
	rec := &envRecorder{vars: map[string]string{
		"HOME": "/root",
		"LANG": "de_DE.UTF-8", // changed by the host after startup
	}}
	src := []byte("HOME=/root\x00LANG=C\x00GONE=1\x00")

	r := relocate(src, rec.hooks())

	assert.Equal(t, []string{"HOME=/root", "LANG=C", "GONE=1"}, r.Entries())
	assert.Equal(t, len(src), r.Size())
	assert.Equal(t, []string{"HOME=/root", "LANG=de_DE.UTF-8"}, rec.calls)

	// The copy must not share memory with the region.
	clear(src)
	assert.Equal(t, "HOME=/root", r.Entries()[0])
}

func TestRelocateSkipsMalformed(t *testing.T) {
	rec := &envRecorder{vars: map[string]string{}}
	r := relocate([]byte("NOEQUALS\x00=value\x00\x00"), rec.hooks())

	assert.Equal(t, []string{"NOEQUALS", "=value"}, r.Entries())
	assert.Empty(t, rec.calls)
}

func newTestWriter(t *testing.T, args, env []string, opts Options) ([]byte, *Writer, *envRecorder) {
	t.Helper()
	buf, h := fakeHandle(t, args, env)
	rec := &envRecorder{vars: map[string]string{}}
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		rec.vars[k] = v
	}
	w := NewWriter(h, opts)
	w.env = rec.hooks()
	return buf, w, rec
}

func TestWriterRoundTrip(t *testing.T) {
	_, w, _ := newTestWriter(t, []string{"prog", "-u"}, []string{"HOME=/root"}, Options{})

	title, ok := w.Title()
	assert.False(t, ok)
	assert.Nil(t, title)

	res := w.Write([]byte("Hello, world!"))
	assert.True(t, res.OK())
	assert.False(t, res.Degraded())
	assert.Equal(t, 13, res.Written)

	title, ok = w.Title()
	assert.True(t, ok)
	assert.Equal(t, "Hello, world!", string(title))
}

func TestWriterTruncates(t *testing.T) {
	buf, w, _ := newTestWriter(t, []string{"prog", "-u"}, []string{"A=1"}, Options{})
	capacity := w.Handle().Capacity()

	res := w.Write([]byte(strings.Repeat("X", 100000)))
	assert.True(t, res.OK())
	require.True(t, res.Degraded())
	assert.Equal(t, spterrors.ErrCodeCapacityExceeded, res.Cause.Code)
	assert.Equal(t, capacity, res.Written)

	title, _ := w.Title()
	assert.Equal(t, strings.Repeat("X", capacity), string(title))
	assert.Equal(t, byte(0), buf[capacity])
}

func TestWriterRelocatesBeforeOverwrite(t *testing.T) {
	env := []string{"HOME=/root", "LANG=C"}
	_, w, rec := newTestWriter(t, []string{"prog"}, env, Options{})

	w.Write([]byte(strings.Repeat("Y", 64)))

	r := w.Relocation()
	require.NotNil(t, r)
	assert.Equal(t, env, r.Entries(), "relocation must copy the environment before it is overwritten")
	assert.ElementsMatch(t, env, rec.calls)
}

func TestWriterRelocatesOnce(t *testing.T) {
	env := []string{"A=1", "B=2", "C=3"}
	_, w, rec := newTestWriter(t, []string{"prog", "--flag"}, env, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.Write([]byte(strings.Repeat("t", i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.calls, len(env))
}

func TestWriterNoEnv(t *testing.T) {
	_, w, rec := newTestWriter(t, []string{"prog"}, []string{"A=1"}, Options{
		NoEnv: func() bool { return true },
	})

	w.Write([]byte("a title longer than argv"))

	assert.Nil(t, w.Relocation())
	assert.Empty(t, rec.calls)
}

func TestWriterNoEnvReadAtFirstWrite(t *testing.T) {
	noEnv := false
	calls := 0
	_, w, rec := newTestWriter(t, []string{"prog"}, []string{"A=1"}, Options{
		NoEnv: func() bool {
			calls++
			return noEnv
		},
	})
	assert.Zero(t, calls, "nothing is read before a title is written")

	noEnv = true
	w.Write([]byte("a title longer than argv"))
	noEnv = false
	w.Write([]byte("another long title"))

	assert.Equal(t, 1, calls)
	assert.Nil(t, w.Relocation())
	assert.Empty(t, rec.calls)
}

func TestWriterDetachesArgs(t *testing.T) {
	args := []string{"prog", "-u"}
	_, w, _ := newTestWriter(t, args, nil, Options{})

	w.Write([]byte("new"))

	assert.Equal(t, args, *w.Handle().args)
	title, _ := w.Title()
	assert.Equal(t, "new", string(title))
}

func TestWriterFollow(t *testing.T) {
	var got []string
	_, w, _ := newTestWriter(t, []string{"prog", "-u"}, nil, Options{
		Follow: func(title []byte) error {
			got = append(got, string(title))
			return nil
		},
	})

	w.Write([]byte("abc"))
	w.Write([]byte(strings.Repeat("z", 50)))

	require.Len(t, got, 2)
	assert.Equal(t, "abc", got[0])
	assert.Equal(t, strings.Repeat("z", w.Handle().Capacity()), got[1])
}

func TestWriterShrink(t *testing.T) {
	buf, w, _ := newTestWriter(t, []string{"prog", "-u"}, []string{"HOME=/root"}, Options{})

	w.Write([]byte("0123456789abcdef"))
	w.Write([]byte("ab"))

	title, _ := w.Title()
	assert.Equal(t, "ab", string(title))
	for i := 2; i < w.Handle().Region().Len(); i++ {
		assert.Zerof(t, buf[i], "residue at byte %d", i)
	}
}
