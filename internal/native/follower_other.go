//go:build !linux && !(darwin && cgo)

package native

// ProcessNameFollower returns nil: no second name follows the title here.
func ProcessNameFollower() func(title []byte) error {
	return nil
}
