// Package thread names the calling OS thread.
//
// Goroutines migrate between threads, so a caller that wants a name to
// stick to its own work must hold runtime.LockOSThread across the calls.
// Names are not cached: Get always asks the kernel.
package thread

import "runtime"

// RunLocked runs f on a goroutine locked to an OS thread other than the
// main thread and waits for it to return. The thread is discarded
// afterwards, so a name set inside f does not outlive it.
func RunLocked(f func()) {
	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		if isMain() {
			// Hold the main thread so the retry lands elsewhere.
			RunLocked(f)
			runtime.UnlockOSThread()
			close(done)
			return
		}
		defer close(done)
		f()
	}()
	<-done
}
