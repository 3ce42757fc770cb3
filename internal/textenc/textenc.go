// Package textenc converts titles from Go strings to the byte encoding a
// platform title facility expects. Conversion never fails: characters that
// cannot be represented are replaced.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	spterrors "github.com/derekg/setproctitle/internal/errors"
)

// Encoder converts titles to bytes in a fixed target encoding.
type Encoder struct {
	name string
	enc  encoding.Encoding // nil means UTF-8 passthrough
}

// UTF8 is the default POSIX encoder.
var UTF8 = &Encoder{name: "UTF-8"}

// UTF16LE is the encoder used for wide-character Windows calls.
var UTF16LE = &Encoder{name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}

// Lookup returns the encoder for an IANA or MIME charset name. Unknown names
// and UTF-8 aliases yield UTF8.
func Lookup(name string) *Encoder {
	name = strings.TrimSpace(name)
	if name == "" {
		return UTF8
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		enc, err = ianaindex.MIME.Encoding(name)
	}
	if err != nil || enc == nil || enc == unicode.UTF8 {
		return UTF8
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return &Encoder{name: canonical, enc: enc}
}

// Name returns the canonical name of the target encoding.
func (e *Encoder) Name() string {
	return e.name
}

// Encode converts title to the target encoding. Invalid UTF-8 in title is
// replaced with U+FFFD first; characters the target encoding cannot express
// are then replaced by its substitute. A non-nil cause reports that a
// replacement happened.
func (e *Encoder) Encode(title string) ([]byte, *spterrors.TitleError) {
	var cause *spterrors.TitleError
	if !utf8.ValidString(title) {
		title = strings.ToValidUTF8(title, "�")
		cause = spterrors.NewEncodingError(e.name, nil)
	}

	if e.enc == nil {
		return []byte(title), cause
	}

	// Detect unrepresentable characters with a strict encoder so the
	// replacement can be reported, then encode with replacement.
	if _, err := e.enc.NewEncoder().String(title); err != nil && cause == nil {
		cause = spterrors.NewEncodingError(e.name, err)
	}
	out, err := encoding.ReplaceUnsupported(e.enc.NewEncoder()).Bytes([]byte(title))
	if err != nil {
		// Only a broken transformer gets here; fall back to the raw bytes.
		return []byte(title), spterrors.NewEncodingError(e.name, err)
	}
	return out, cause
}

// Decode converts bytes in the target encoding back to a Go string. Bytes
// that do not decode are replaced with U+FFFD.
func (e *Encoder) Decode(b []byte) string {
	if e.enc == nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}
