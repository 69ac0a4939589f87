package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// filepath.Clean collapses the leading double separator of UNC paths
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// SamePath reports whether a and b resolve to the same absolute location.
// Symlinks are not followed.
func SamePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(NormalizePath(a))
	if err != nil {
		return false, &PathError{Path: a, Message: err.Error()}
	}
	absB, err := filepath.Abs(NormalizePath(b))
	if err != nil {
		return false, &PathError{Path: b, Message: err.Error()}
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(absA, absB), nil
	}
	return absA == absB, nil
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		// a drive letter colon is legal
		rest := path
		if len(rest) >= 2 && rest[1] == ':' {
			rest = rest[2:]
		}
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(rest, char) && !IsUNCPath(path) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
