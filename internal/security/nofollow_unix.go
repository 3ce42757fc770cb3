//go:build unix

package security

import "golang.org/x/sys/unix"

const oNoFollow = unix.O_NOFOLLOW
