package image

import (
	"bytes"
	"os"
	"strings"
	"unsafe"
)

// Relocation is the heap copy of the environment strings that used to live
// in the title region, together with a pointer vector into that copy.
type Relocation struct {
	block   []byte
	entries []string
}

// Entries returns the relocated "K=V" strings.
func (r *Relocation) Entries() []string {
	return r.entries
}

// Size returns the number of bytes copied out of the title region.
func (r *Relocation) Size() int {
	return len(r.block)
}

// envHooks abstracts the process environment so relocation can be tested
// without touching the real one.
type envHooks struct {
	lookup func(key string) (string, bool)
	setenv func(key, value string) error
}

var processEnv = envHooks{
	lookup: os.LookupEnv,
	setenv: os.Setenv,
}

// relocate copies the environment strings held in src out of the title
// region and re-registers every variable that is still set. With cgo the
// runtime forwards Setenv to the C library, which moves the C-level environ
// entries to fresh allocations; the Go environment table already holds
// copies. Variables the host changed or removed since startup keep their
// current state.
func relocate(src []byte, hooks envHooks) *Relocation {
	block := bytes.Clone(src)
	r := &Relocation{block: block}

	off := 0
	for off < len(block) {
		end := bytes.IndexByte(block[off:], 0)
		if end < 0 {
			end = len(block) - off
		}
		if end > 0 {
			kv := unsafe.String(&block[off], end)
			r.entries = append(r.entries, kv)

			if k, _, ok := strings.Cut(kv, "="); ok && k != "" {
				if v, set := hooks.lookup(k); set {
					_ = hooks.setenv(strings.Clone(k), strings.Clone(v))
				}
			}
		}
		off += end + 1
	}
	return r
}
