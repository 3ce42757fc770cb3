// Package platform records what the running operating system offers for
// changing process and thread titles. The answer is fixed at build time by
// file build constraints and computed once per process.
package platform

import (
	"fmt"
	"runtime"
	"sync"
)

// Strategy is how the process title is changed on this platform.
type Strategy int

const (
	// Unsupported: no facility exists; set is a no-op and get reports the
	// original command line.
	Unsupported Strategy = iota
	// InPlaceOverwrite: the argv/environ block is rewritten in place.
	InPlaceOverwrite
	// NativeCall: a dedicated kernel or library call names the process.
	NativeCall
)

func (s Strategy) String() string {
	switch s {
	case InPlaceOverwrite:
		return "in-place"
	case NativeCall:
		return "native"
	default:
		return "unsupported"
	}
}

// Capabilities enumerates the title facilities available to this process.
type Capabilities struct {
	OS       string
	Strategy Strategy

	// ShortName is set when the kernel keeps a separate length-limited
	// task name (Linux prctl). ShortNameMax is its visible length.
	ShortName    bool
	ShortNameMax int

	// NativeTitle names the native call used by the NativeCall strategy and
	// NativeTitleMax the buffer size it accepts, terminator included.
	NativeTitle    string
	NativeTitleMax int

	// ConsoleTitle is set when the title goes to the console window.
	ConsoleTitle bool

	// ArgsRemap is set when the kernel may be asked to show a fresh buffer
	// as the argument area (Linux prctl(PR_SET_MM_MAP)). The kernel can
	// still refuse at the first set.
	ArgsRemap bool

	// DisplayName is set when the title is also published as the
	// application display name (macOS LaunchServices).
	DisplayName bool

	// ThreadNames is set when individual threads can be named, up to
	// ThreadNameMax bytes.
	ThreadNames   bool
	ThreadNameMax int
}

func (c Capabilities) String() string {
	return fmt.Sprintf("os=%s strategy=%s short_name=%v/%d native=%q/%d console=%v remap=%v display_name=%v threads=%v/%d",
		c.OS, c.Strategy, c.ShortName, c.ShortNameMax, c.NativeTitle, c.NativeTitleMax,
		c.ConsoleTitle, c.ArgsRemap, c.DisplayName, c.ThreadNames, c.ThreadNameMax)
}

var (
	probeOnce sync.Once
	probed    Capabilities
)

// Probe returns the capabilities of the current platform. The first call
// computes them; later calls return the cached value.
func Probe() Capabilities {
	probeOnce.Do(func() {
		probed = probe()
		probed.OS = runtime.GOOS
	})
	return probed
}
