//go:build darwin && cgo

package native

/*
#cgo LDFLAGS: -framework CoreFoundation
#include <CoreFoundation/CoreFoundation.h>
#include <pthread.h>
#include <stdlib.h>

typedef CFTypeRef (*lsGetASNFunc)(void);
typedef OSStatus (*lsSetItemFunc)(int, CFTypeRef, CFStringRef, CFStringRef, CFDictionaryRef *);
typedef CFDictionaryRef (*lsCheckInFunc)(int, CFDictionaryRef);
typedef void (*lsSetStatusFunc)(uint64_t, void *);

// spt_set_display_name publishes title as the LaunchServices display name
// of this process, the name Activity Monitor shows. The entry points are
// private and looked up at run time. Returns 0 or the failed step.
static int spt_set_display_name(const char *title) {
	static int connected;

	CFBundleRef ls = CFBundleGetBundleWithIdentifier(CFSTR("com.apple.LaunchServices"));
	if (ls == NULL) {
		return 1;
	}
	lsGetASNFunc getASN = (lsGetASNFunc)CFBundleGetFunctionPointerForName(ls, CFSTR("_LSGetCurrentApplicationASN"));
	lsSetItemFunc setItem = (lsSetItemFunc)CFBundleGetFunctionPointerForName(ls, CFSTR("_LSSetApplicationInformationItem"));
	lsCheckInFunc checkIn = (lsCheckInFunc)CFBundleGetFunctionPointerForName(ls, CFSTR("_LSApplicationCheckIn"));
	lsSetStatusFunc setStatus = (lsSetStatusFunc)CFBundleGetFunctionPointerForName(ls, CFSTR("_LSSetApplicationLaunchServicesServerConnectionStatus"));
	CFStringRef *displayNameKey = (CFStringRef *)CFBundleGetDataPointerForName(ls, CFSTR("_kLSDisplayNameKey"));
	if (getASN == NULL || setItem == NULL || checkIn == NULL || setStatus == NULL ||
	    displayNameKey == NULL || *displayNameKey == NULL) {
		return 2;
	}

	if (!connected) {
		setStatus(0, NULL);
		connected = 1;
	}

	CFTypeRef asn = getASN();
	if (asn == NULL) {
		checkIn(-2, CFBundleGetInfoDictionary(CFBundleGetMainBundle()));
		asn = getASN();
		if (asn == NULL) {
			return 3;
		}
	}

	CFStringRef name = CFStringCreateWithCString(NULL, title, kCFStringEncodingUTF8);
	if (name == NULL) {
		return 4;
	}
	OSStatus status = setItem(-2, asn, *displayNameKey, name, NULL);
	CFRelease(name);
	return status == noErr ? 0 : 5;
}

static int spt_set_thread_name(const char *name) {
	return pthread_setname_np(name);
}

static int spt_get_thread_name(char *buf, size_t len) {
	return pthread_getname_np(pthread_self(), buf, len);
}

static int spt_is_main_thread(void) {
	return pthread_main_np();
}
*/
import "C"

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/derekg/setproctitle/internal/config"
)

var displayNameSteps = [...]string{
	1: "LaunchServices bundle not loaded",
	2: "LaunchServices entry points missing",
	3: "no application serial number",
	4: "title is not valid UTF-8",
	5: "LSSetApplicationInformationItem refused the name",
}

// SetDisplayName publishes name as the application display name.
func SetDisplayName(name string) error {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	if step := int(C.spt_set_display_name(cs)); step != 0 {
		return fmt.Errorf("display name: %s", displayNameSteps[step])
	}
	return nil
}

// ProcessNameFollower publishes every title as the display name.
func ProcessNameFollower() func(title []byte) error {
	return func(title []byte) error {
		return SetDisplayName(string(title))
	}
}

// SetThreadName names the calling thread, truncated to 63 bytes.
func SetThreadName(name []byte) error {
	cs := C.CString(string(truncate(name, config.DarwinThreadNameMax)))
	defer C.free(unsafe.Pointer(cs))
	if rc := C.spt_set_thread_name(cs); rc != 0 {
		return fmt.Errorf("pthread_setname_np: %w", syscall.Errno(rc))
	}
	return nil
}

// CurrentThreadName returns the name of the calling thread.
func CurrentThreadName() (string, error) {
	var buf [config.DarwinThreadNameMax + 1]C.char
	if rc := C.spt_get_thread_name(&buf[0], C.size_t(len(buf))); rc != 0 {
		return "", fmt.Errorf("pthread_getname_np: %w", syscall.Errno(rc))
	}
	return C.GoString(&buf[0]), nil
}

// IsMainThread reports whether the caller runs on the process main thread.
func IsMainThread() bool {
	return C.spt_is_main_thread() != 0
}
