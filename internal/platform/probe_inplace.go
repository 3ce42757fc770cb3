//go:build netbsd || openbsd
// +build netbsd openbsd

package platform

// probe reports the argv overwrite strategy: ps on these systems reads the
// argument strings back out of process memory.
func probe() Capabilities {
	return Capabilities{
		Strategy: InPlaceOverwrite,
	}
}
