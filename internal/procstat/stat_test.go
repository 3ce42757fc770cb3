package procstat

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statLine builds a stat line whose field n (n >= 3) holds vals[n] when
// present and 0 otherwise.
func statLine(comm string, vals map[int]uint64) string {
	fields := make([]string, 52-3)
	for i := range fields {
		fields[i] = fmt.Sprint(vals[i+3])
	}
	fields[0] = "S"
	return "1234 (" + comm + ") " + strings.Join(fields, " ") + "\n"
}

func bounds(argStart, argEnd, envStart, envEnd uint64) map[int]uint64 {
	return map[int]uint64{
		26: 0x400000, 27: 0x500000, 28: 0x7ff000,
		45: 0x600000, 46: 0x610000, 47: 0x620000,
		48: argStart, 49: argEnd, 50: envStart, 51: envEnd,
	}
}

func TestParse(t *testing.T) {
	l, err := Parse([]byte(statLine("prog", bounds(100, 108, 108, 200))))
	require.NoError(t, err)
	assert.Equal(t, Layout{
		StartCode: 0x400000, EndCode: 0x500000, StartStack: 0x7ff000,
		StartData: 0x600000, EndData: 0x610000, StartBrk: 0x620000,
		ArgStart: 100, ArgEnd: 108, EnvStart: 108, EnvEnd: 200,
	}, l)
}

func TestParseOddComm(t *testing.T) {
	l, err := Parse([]byte(statLine("a) (b c", bounds(1, 2, 2, 3))))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), l.EnvEnd)
	assert.Equal(t, uint64(0x400000), l.StartCode)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no comm", "1234 S 0 0"},
		{"old kernel", "1234 (prog) S 0 0 0"},
		{"garbage", strings.Replace(statLine("prog", bounds(1, 2, 2, 3)), " 3\n", " x\n", 1)},
		{"inverted", statLine("prog", bounds(10, 5, 20, 30))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.line))
			assert.Error(t, err)
		})
	}
}

func TestSelf(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("no /proc/self/stat")
	}
	l, err := Self()
	require.NoError(t, err)
	assert.Less(t, l.ArgStart, l.ArgEnd)
	assert.LessOrEqual(t, l.ArgEnd, l.EnvStart)
	assert.LessOrEqual(t, l.EnvStart, l.EnvEnd)
	assert.Less(t, l.StartCode, l.EndCode)
}
