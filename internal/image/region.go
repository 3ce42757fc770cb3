package image

import "bytes"

// Region is a bounds-checked view of the memory that holds the visible
// title. The last byte is reserved for the terminator, so Capacity is one
// less than Len. Every write goes through Write, which cannot reach past the
// end of the region.
type Region struct {
	buf []byte
}

// NewRegion wraps buf. buf must not be empty.
func NewRegion(buf []byte) *Region {
	return &Region{buf: buf}
}

// Len returns the total size of the region in bytes.
func (r *Region) Len() int {
	return len(r.buf)
}

// Capacity returns the longest title the region can hold.
func (r *Region) Capacity() int {
	if len(r.buf) == 0 {
		return 0
	}
	return len(r.buf) - 1
}

// Write copies as much of title as fits and zero-fills the rest of the
// region, terminator included. It returns the number of title bytes written.
func (r *Region) Write(title []byte) int {
	n := len(title)
	if c := r.Capacity(); n > c {
		n = c
	}
	copy(r.buf[:n], title[:n])
	clear(r.buf[n:])
	return n
}

// Read returns a copy of the bytes before the first NUL, at most Capacity
// bytes.
func (r *Region) Read() []byte {
	head := r.buf[:r.Capacity()]
	if i := bytes.IndexByte(head, 0); i >= 0 {
		head = head[:i]
	}
	return bytes.Clone(head)
}

// slice returns the bytes in [from, to) of the region.
func (r *Region) slice(from, to int) []byte {
	return r.buf[from:to]
}
