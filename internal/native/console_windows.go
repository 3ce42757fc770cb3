//go:build windows
// +build windows

package native

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/derekg/setproctitle/internal/config"
	spterrors "github.com/derekg/setproctitle/internal/errors"
	"github.com/derekg/setproctitle/internal/platform"
	"github.com/derekg/setproctitle/internal/textenc"
)

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleTitleW = modkernel32.NewProc("SetConsoleTitleW")
	procGetConsoleTitleW = modkernel32.NewProc("GetConsoleTitleW")
)

type consoleWriter struct {
	max int
}

// New returns the writer for the platform's native title call.
func New(caps platform.Capabilities) Writer {
	max := caps.NativeTitleMax
	if max <= 0 {
		max = config.ConsoleTitleMax
	}
	return &consoleWriter{max: max}
}

func (w *consoleWriter) Name() string {
	return "SetConsoleTitleW"
}

func (w *consoleWriter) Write(title string) spterrors.Result {
	var res spterrors.Result

	units, cause := encodeUTF16(title)
	res = res.With(cause)
	if len(units) > w.max-1 {
		res = res.With(spterrors.NewCapacityError(len(units), w.max-1))
		units = units[:w.max-1]
		// Do not leave half a surrogate pair at the end.
		if n := len(units); n > 0 && utf16.IsSurrogate(rune(units[n-1])) && units[n-1] < 0xdc00 {
			units = units[:n-1]
		}
	}
	units = append(units, 0)

	if err := procSetConsoleTitleW.Find(); err != nil {
		return res.With(spterrors.NewNativeCallError(w.Name(), err))
	}
	r, _, err := procSetConsoleTitleW.Call(uintptr(unsafe.Pointer(&units[0])))
	if r == 0 {
		return res.With(spterrors.NewNativeCallError(w.Name(), err))
	}
	res.Written = len(units) - 1
	return res
}

// ConsoleTitle reads the current console title.
func ConsoleTitle() (string, error) {
	if err := procGetConsoleTitleW.Find(); err != nil {
		return "", err
	}
	buf := make([]uint16, config.ConsoleTitleMax)
	r, _, err := procGetConsoleTitleW.Call(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return "", fmt.Errorf("GetConsoleTitleW: %w", err)
	}
	return windows.UTF16ToString(buf[:r]), nil
}

func encodeUTF16(title string) ([]uint16, *spterrors.TitleError) {
	b, cause := textenc.UTF16LE.Encode(title)
	units := make([]uint16, len(b)/2, len(b)/2+1)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return units, cause
}
