// Package procstat reads the memory layout a Linux kernel reports for a
// process in /proc/<pid>/stat.
package procstat

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
)

// Layout holds the address fields of a stat line. Field numbers follow
// proc(5).
type Layout struct {
	StartCode  uint64 // field 26
	EndCode    uint64 // field 27
	StartStack uint64 // field 28

	// Fields 45 to 51, Linux 3.3 and later.
	StartData uint64
	EndData   uint64
	StartBrk  uint64
	ArgStart  uint64
	ArgEnd    uint64
	EnvStart  uint64
	EnvEnd    uint64
}

// Self reads the layout of the calling process.
func Self() (Layout, error) {
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return Layout{}, err
	}
	return Parse(data)
}

// Parse extracts the layout from a stat line. The command name in field 2
// may contain spaces and parentheses, so parsing starts after the last ')'.
func Parse(data []byte) (Layout, error) {
	i := bytes.LastIndexByte(data, ')')
	if i < 0 {
		return Layout{}, fmt.Errorf("malformed stat line")
	}
	// rest[0] is field 3 (state).
	rest := bytes.Fields(data[i+1:])
	if len(rest) < 51-2 {
		return Layout{}, fmt.Errorf("stat line has %d fields, kernel too old", len(rest)+2)
	}

	var err error
	field := func(n int) uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = strconv.ParseUint(string(rest[n-3]), 10, 64)
		if err != nil {
			err = fmt.Errorf("stat field %d: %w", n, err)
		}
		return v
	}

	l := Layout{
		StartCode:  field(26),
		EndCode:    field(27),
		StartStack: field(28),
		StartData:  field(45),
		EndData:    field(46),
		StartBrk:   field(47),
		ArgStart:   field(48),
		ArgEnd:     field(49),
		EnvStart:   field(50),
		EnvEnd:     field(51),
	}
	if err != nil {
		return Layout{}, err
	}
	if l.ArgStart > l.ArgEnd || l.EnvStart > l.EnvEnd {
		return Layout{}, fmt.Errorf("inconsistent stat bounds arg=%d-%d env=%d-%d", l.ArgStart, l.ArgEnd, l.EnvStart, l.EnvEnd)
	}
	return l, nil
}
