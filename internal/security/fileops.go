// Package security opens the diagnostic log file without exposing it to
// other users.
package security

import (
	"fmt"
	"os"
)

// CreateSecureFile creates filename with mode, failing if it exists.
func CreateSecureFile(filename string, mode os.FileMode) (*os.File, error) {
	// O_EXCL: never adopt a file someone else created in between.
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create secure file %s: %w", filename, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		os.Remove(filename)
		return nil, fmt.Errorf("failed to verify file permissions: %w", err)
	}
	if info.Mode().Perm() != mode.Perm() {
		if err := file.Chmod(mode); err != nil {
			file.Close()
			os.Remove(filename)
			return nil, fmt.Errorf("file permissions not set correctly: expected %v, got %v", mode, info.Mode())
		}
	}

	return file, nil
}

// CreateSecureFileForAppend opens filename for appending, creating it with
// mode if needed. An existing file is first narrowed to mode. Symbolic
// links are refused, including one swapped in after the check.
func CreateSecureFileForAppend(filename string, mode os.FileMode) (*os.File, error) {
	info, err := os.Lstat(filename)
	if os.IsNotExist(err) {
		return CreateSecureFile(filename, mode)
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", filename)
	}

	file, err := openExisting(filename, info)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm() != mode.Perm() {
		if err := file.Chmod(mode); err != nil {
			file.Close()
			return nil, fmt.Errorf("existing file has insecure permissions: %w", err)
		}
	}
	return file, nil
}

// openExisting opens filename for appending and checks that it is still
// the file want describes.
func openExisting(filename string, want os.FileInfo) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_APPEND|oNoFollow, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	got, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to verify %s: %w", filename, err)
	}
	if !os.SameFile(want, got) {
		file.Close()
		return nil, fmt.Errorf("%s was replaced while being opened", filename)
	}
	return file, nil
}
