package platform

import (
	"runtime"
	"strings"
	"testing"
)

func TestProbeCached(t *testing.T) {
	first := Probe()
	second := Probe()
	if first != second {
		t.Errorf("Probe() not stable: %v vs %v", first, second)
	}
	if first.OS != runtime.GOOS {
		t.Errorf("OS = %s, want %s", first.OS, runtime.GOOS)
	}
}

func TestProbePerPlatform(t *testing.T) {
	caps := Probe()

	switch runtime.GOOS {
	case "linux":
		if caps.Strategy != InPlaceOverwrite {
			t.Errorf("Strategy = %v, want in-place", caps.Strategy)
		}
		if !caps.ShortName || caps.ShortNameMax != 15 {
			t.Errorf("short name = %v/%d, want true/15", caps.ShortName, caps.ShortNameMax)
		}
		if !caps.ThreadNames || caps.ThreadNameMax != 15 {
			t.Errorf("threads = %v/%d, want true/15", caps.ThreadNames, caps.ThreadNameMax)
		}
		if !caps.ArgsRemap {
			t.Error("ArgsRemap should be offered on Linux")
		}
	case "darwin":
		if caps.Strategy != InPlaceOverwrite {
			t.Errorf("Strategy = %v, want in-place", caps.Strategy)
		}
		if caps.ThreadNames != caps.DisplayName || caps.ThreadNameMax != 63 {
			t.Errorf("threads = %v/%d display_name=%v", caps.ThreadNames, caps.ThreadNameMax, caps.DisplayName)
		}
	case "netbsd", "openbsd":
		if caps.Strategy != InPlaceOverwrite {
			t.Errorf("Strategy = %v, want in-place", caps.Strategy)
		}
		if caps.ThreadNames {
			t.Error("ThreadNames should not be reported")
		}
	case "freebsd", "dragonfly":
		if caps.Strategy != NativeCall || caps.NativeTitleMax == 0 {
			t.Errorf("Strategy = %v/%d, want native", caps.Strategy, caps.NativeTitleMax)
		}
	case "windows":
		if caps.Strategy != NativeCall || !caps.ConsoleTitle {
			t.Errorf("Strategy = %v console=%v, want native console title", caps.Strategy, caps.ConsoleTitle)
		}
	default:
		if caps.Strategy != Unsupported {
			t.Errorf("Strategy = %v, want unsupported", caps.Strategy)
		}
	}
}

func TestStrategyString(t *testing.T) {
	tests := []struct {
		s    Strategy
		want string
	}{
		{Unsupported, "unsupported"},
		{InPlaceOverwrite, "in-place"},
		{NativeCall, "native"},
		{Strategy(42), "unsupported"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestCapabilitiesString(t *testing.T) {
	s := Probe().String()
	if !strings.Contains(s, "os="+runtime.GOOS) {
		t.Errorf("String() = %q, missing os", s)
	}
	for _, key := range []string{"strategy=", "remap=", "threads="} {
		if !strings.Contains(s, key) {
			t.Errorf("String() = %q, missing %s", s, key)
		}
	}
}

func BenchmarkProbe(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Probe()
	}
}
