package setproctitle

import (
	"fmt"

	"github.com/derekg/setproctitle/internal/platform"
)

// State is the lifecycle stage of the title machinery.
type State int32

const (
	// Uninitialized: no operation has run yet.
	Uninitialized State = iota
	// Probed: the platform capabilities are known. Thread titles work from
	// here on.
	Probed
	// Ready: the process title writer is set up.
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Probed:
		return "probed"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Status is a snapshot of the title machinery.
type Status struct {
	State    State
	Strategy platform.Strategy

	// Backend names the mechanism showing the title: "in-place", a system
	// call such as "prctl(PR_SET_MM_MAP)", or "" when none is set up.
	Backend string

	// Capacity is the longest process title in bytes (UTF-16 units on
	// Windows) that is shown without truncation. It is 0 until Ready and
	// when no title can be set, and -1 when titles are not bounded.
	Capacity int

	// Relocated reports whether the environment was copied out of the
	// title region. EnvironmentBytes is the size of that region part.
	Relocated        bool
	EnvironmentBytes int

	// Original is the command line the process was started with.
	Original string

	// Cause is the reason the most recent degraded operation degraded,
	// or nil.
	Cause error
}

// GetStatus returns the current status. It does not advance the state.
func GetStatus() Status {
	return std.status()
}

func (f *facade) status() Status {
	st := Status{State: State(f.state.Load())}
	if st.State == Uninitialized {
		return st
	}

	f.mu.Lock()
	st.Strategy = f.caps.Strategy
	st.Original = f.original
	f.mu.Unlock()

	if st.State == Ready {
		w := f.inplace.Load()
		mode := remapMode(f.mode.Load())
		switch {
		case f.caps.Strategy != platform.InPlaceOverwrite:
			if f.native == nil {
				st.Strategy = platform.Unsupported
				break
			}
			st.Backend = f.native.Name()
			st.Capacity = f.caps.NativeTitleMax - 1
		case mode == remapActive:
			st.Backend = f.remap.Name()
			st.Capacity = -1
		case w != nil:
			h := w.Handle()
			st.Backend = "in-place"
			st.Capacity = h.Capacity()
			st.EnvironmentBytes = h.EnvLen()
			st.Relocated = w.Relocation() != nil
		case f.remap == nil || mode == remapOff:
			st.Strategy = platform.Unsupported
		}
	}
	if c := f.lastCause.Load(); c != nil {
		st.Cause = c
	}
	return st
}
