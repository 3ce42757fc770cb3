package security

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPathLength is the longest accepted log file path.
const MaxPathLength = 4096 // Common filesystem limit

// ValidateLogPath checks a diagnostic log path taken from the environment.
// Paths with shell metacharacters, parent directory references, NUL or
// control characters are rejected.
func ValidateLogPath(path string) error {
	if path == "" {
		return fmt.Errorf("log path cannot be empty")
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("log path too long: %d characters (max %d)", len(path), MaxPathLength)
	}

	if strings.ContainsAny(path, ";|&`$<>\"'*?") {
		return fmt.Errorf("log path contains invalid characters")
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("log path contains null byte")
	}

	for _, elem := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if elem == ".." {
			return fmt.Errorf("path traversal attempt detected: %s", path)
		}
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("log path contains control character: %U", r)
		}
	}

	return nil
}
