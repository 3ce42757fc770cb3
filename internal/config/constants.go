package config

// Environment variables recognised by the library
const (
	// EnvNoEnv disables environment relocation before the title overwrites
	// the environ area.
	EnvNoEnv = "SPT_NOENV"

	// EnvDebug enables diagnostic logging.
	EnvDebug = "SPT_DEBUG"

	// EnvDebugLog redirects diagnostic logging to a file instead of stderr.
	EnvDebugLog = "SPT_DEBUG_LOG"

	// EnvNoRemap keeps Linux from pointing the kernel argument area at a
	// fresh buffer; titles are then written in place.
	EnvNoRemap = "SPT_NOREMAP"

	// EnvEncoding overrides the byte encoding used for titles on POSIX.
	EnvEncoding = "SPT_ENCODING"
)

// Kernel and platform limits
const (
	// ShortNameMax is the number of visible bytes the Linux kernel keeps for
	// a task name (TASK_COMM_LEN - 1).
	ShortNameMax = 15

	// DarwinThreadNameMax is the longest thread name pthread_setname_np
	// accepts on macOS (MAXTHREADNAMESIZE - 1).
	DarwinThreadNameMax = 63

	// NativeTitleMax bounds the buffer handed to a native title call,
	// terminator included.
	NativeTitleMax = 2048

	// NativeTitleMin is the smallest length a native writer shrinks to when
	// the kernel rejects a title as too large.
	NativeTitleMin = 64

	// ConsoleTitleMax is the number of UTF-16 code units kept for a console
	// title, terminator included.
	ConsoleTitleMax = 1024
)

// Application constants
const (
	ClientName = "setproctitle"

	// DebugPrefix prefixes every diagnostic log line.
	DebugPrefix = "[SPT]"

	// Log file permissions
	DebugLogPermissions = 0600 // -rw-------
)

// Version and build information (will be set by build process)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
