package models

import "strings"

// ExtensionFilter is a file-name suffix that always begins with "."
type ExtensionFilter string

// NormalizeExtension trims surrounding whitespace and prepends "." when missing.
// An empty input yields "." which only matches names ending in a literal dot.
func NormalizeExtension(ext string) ExtensionFilter {
	ext = strings.TrimSpace(ext)
	if strings.HasPrefix(ext, ".") {
		return ExtensionFilter(ext)
	}
	return ExtensionFilter("." + ext)
}

// Matches reports whether name ends with the filter (case-sensitive)
func (e ExtensionFilter) Matches(name string) bool {
	return strings.HasSuffix(name, string(e))
}

// String returns the filter as a plain string
func (e ExtensionFilter) String() string {
	return string(e)
}
