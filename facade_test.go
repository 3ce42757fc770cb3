package setproctitle

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/image"
	"github.com/derekg/setproctitle/internal/platform"
	"github.com/derekg/setproctitle/internal/textenc"
)

type fakeRemap struct {
	fail   *spterrors.TitleError
	writes []string
	title  string
	set    bool
}

func (r *fakeRemap) Name() string { return "fake-remap" }

func (r *fakeRemap) Write(title string) spterrors.Result {
	r.writes = append(r.writes, title)
	if r.fail != nil {
		return spterrors.Result{}.With(r.fail)
	}
	r.title, r.set = title, true
	return spterrors.Result{Written: len(title)}
}

func (r *fakeRemap) Title() (string, bool) { return r.title, r.set }

type remapFixture struct {
	f        *facade
	remap    *fakeRemap
	locates  int
	followed []string
}

// newRemapFixture returns a Ready facade for an in-place platform whose
// process image cannot be located.
func newRemapFixture(t *testing.T) *remapFixture {
	t.Helper()
	t.Setenv(config.EnvNoRemap, "")

	fx := &remapFixture{remap: &fakeRemap{}}
	f := &facade{
		caps:     platform.Capabilities{Strategy: platform.InPlaceOverwrite, ArgsRemap: true},
		enc:      textenc.UTF8,
		original: "prog --flag",
		remap:    fx.remap,
	}
	f.follow = func(title []byte) error {
		fx.followed = append(fx.followed, string(title))
		return nil
	}
	f.locate = func() (*image.Handle, *spterrors.TitleError) {
		fx.locates++
		return nil, spterrors.NewResolutionError("locate", spterrors.ErrNotContiguous)
	}
	f.state.Store(int32(Ready))
	fx.f = f
	return fx
}

func TestRemapPreferred(t *testing.T) {
	fx := newRemapFixture(t)

	fx.f.setProcessTitle("worker: idle")

	assert.Equal(t, "worker: idle", fx.f.getProcessTitle())
	assert.Equal(t, []string{"worker: idle"}, fx.followed)
	assert.Zero(t, fx.locates)
	assert.Nil(t, fx.f.lastCause.Load())

	st := fx.f.status()
	assert.Equal(t, "fake-remap", st.Backend)
	assert.Equal(t, -1, st.Capacity)
	assert.Equal(t, platform.InPlaceOverwrite, st.Strategy)
}

func TestRemapRefusedFallsBack(t *testing.T) {
	fx := newRemapFixture(t)
	fx.remap.fail = spterrors.NewNativeCallError("fake-remap", syscall.EPERM)

	fx.f.setProcessTitle("first")
	assert.Len(t, fx.remap.writes, 1)
	assert.Equal(t, 1, fx.locates, "a refused remap falls back to the original block")
	assert.Equal(t, remapOff, remapMode(fx.f.mode.Load()))

	fx.f.setProcessTitle("second")
	assert.Len(t, fx.remap.writes, 1, "the kernel is asked once")
	assert.Equal(t, 2, fx.locates, "a failed locate is retried")

	cause := fx.f.lastCause.Load()
	require.NotNil(t, cause)
	assert.Equal(t, spterrors.ErrCodeResolutionFailure, cause.Code)
	assert.Equal(t, "prog --flag", fx.f.getProcessTitle())

	st := fx.f.status()
	assert.Equal(t, platform.Unsupported, st.Strategy)
	assert.Empty(t, st.Backend)
}

func TestRemapRefusalRecorded(t *testing.T) {
	fx := newRemapFixture(t)
	fx.remap.fail = spterrors.NewNativeCallError("fake-remap", syscall.EINVAL)

	var seen []*spterrors.TitleError
	fx.f.locate = func() (*image.Handle, *spterrors.TitleError) {
		seen = append(seen, fx.f.lastCause.Load())
		return nil, spterrors.NewResolutionError("locate", spterrors.ErrNotContiguous)
	}

	fx.f.setProcessTitle("title")

	require.Len(t, seen, 1)
	require.NotNil(t, seen[0])
	assert.Equal(t, spterrors.ErrCodeNativeCall, seen[0].Code)
	assert.ErrorIs(t, seen[0], syscall.EINVAL)
}

func TestRemapFailureAfterSuccessKeepsRemap(t *testing.T) {
	fx := newRemapFixture(t)

	fx.f.setProcessTitle("shown")
	fx.remap.fail = spterrors.NewNativeCallError("fake-remap", syscall.ENOMEM)
	fx.f.setProcessTitle("lost")

	assert.Equal(t, "shown", fx.f.getProcessTitle())
	assert.Zero(t, fx.locates)
	assert.Equal(t, remapActive, remapMode(fx.f.mode.Load()))
	assert.Equal(t, spterrors.ErrCodeNativeCall, fx.f.lastCause.Load().Code)
}

func TestNoRemapReadAtFirstSet(t *testing.T) {
	fx := newRemapFixture(t)
	t.Setenv(config.EnvNoRemap, "1")

	fx.f.setProcessTitle("one")
	t.Setenv(config.EnvNoRemap, "")
	fx.f.setProcessTitle("two")

	assert.Empty(t, fx.remap.writes)
	assert.Equal(t, 2, fx.locates)
}

func TestGetProcessTitleBeforeSet(t *testing.T) {
	fx := newRemapFixture(t)

	assert.Equal(t, "prog --flag", fx.f.getProcessTitle())
	assert.Empty(t, fx.remap.writes)
}
