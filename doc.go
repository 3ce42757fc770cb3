// Package setproctitle changes the title a process shows in ps, top and
// /proc, and the names of its individual threads.
//
// On Linux the first title change asks the kernel, through
// prctl(PR_SET_MM_MAP), to report a buffer owned by the process as its
// argument area; titles are then not limited in length. Without
// CAP_SYS_RESOURCE the kernel refuses, and the title is written in place
// like on the other in-place platforms.
//
// In place, the title is written over the
// memory block that holds the process arguments and environment. Before
// the first write the environment is copied out of that block and the
// strings in os.Args are detached from it, so the rest of the program keeps
// seeing its original arguments and environment. On macOS built with cgo
// the title is also published as the LaunchServices display name. FreeBSD
// and DragonFly use
// the kern.proc.args sysctl; Windows sets the console title. Everywhere
// else setting a title does nothing.
//
// None of the operations fail. A title that does not fit is truncated, and
// the reason for any degradation is available from GetStatus and, with
// SPT_DEBUG=1 in the environment, in the diagnostic log.
//
// Environment:
//
//	SPT_NOENV       do not relocate the environment before overwriting it
//	SPT_NOREMAP     always write the title in place (Linux)
//	SPT_DEBUG       write diagnostics to stderr
//	SPT_DEBUG_LOG   write diagnostics to this file instead
//	SPT_ENCODING    title byte encoding (default: codeset of the locale)
//
// SPT_NOENV and SPT_NOREMAP are read when the first title is set, the
// others on the first call of any function.
//
// Values given to the flag package or otherwise derived from os.Args before
// the first SetProcessTitle may still point into the argument block. Clone
// them with strings.Clone if they must survive a title change.
package setproctitle
