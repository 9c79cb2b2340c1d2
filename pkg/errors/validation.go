package errors

import (
	"strings"
	"unicode"
)

// Font size bounds accepted by the renderer.
const (
	MinFontSize = 8
	MaxFontSize = 20
)

// ValidateFilename accepts a bare file name of at most 255 bytes: no
// directory part, no control characters, and not "." or "..". Uploaded names
// are joined onto server-side directories, so anything else is rejected with
// ErrCodeInvalidPath.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPath, "file name is empty")
	case len(name) > 255:
		return New(ErrCodeInvalidPath, "file name is longer than 255 bytes")
	case name == "." || name == "..":
		return New(ErrCodeInvalidPath, "file name cannot be %q", name)
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidPath, "file name %q has a directory part", name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "file name contains control characters")
	}
	return nil
}

// ValidateFontSize checks that a label font size is within [MinFontSize, MaxFontSize].
func ValidateFontSize(size int) error {
	if size < MinFontSize || size > MaxFontSize {
		return New(ErrCodeInvalidConfig, "font size %d out of range [%d, %d]", size, MinFontSize, MaxFontSize)
	}
	return nil
}

// ValidateRegion checks that a region is a positive, ordered interval.
// Bounds outside the data extent are allowed; they simply select nothing.
func ValidateRegion(start, end int) error {
	if start < 1 || end < 1 {
		return New(ErrCodeInvalidRegion, "region bounds must be positive (got %d-%d)", start, end)
	}
	if start > end {
		return New(ErrCodeInvalidRegion, "region start %d is after end %d", start, end)
	}
	return nil
}
