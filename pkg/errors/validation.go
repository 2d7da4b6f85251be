package errors

import (
	"strings"
	"unicode"
)

// maxTextLength bounds headline, subtitle and badge text.
const maxTextLength = 500

// ValidateImageRef validates a screenshot reference from a configuration entry.
// An empty reference is valid (the pipeline renders a placeholder).
// References starting with http:// or https:// are validated as URLs,
// everything else as a relative path inside the raw screenshot directory.
func ValidateImageRef(ref string) error {
	if ref == "" {
		return nil
	}
	if IsRemoteRef(ref) {
		return ValidateURL(ref)
	}
	return ValidatePath(ref)
}

// IsRemoteRef reports whether ref points at an http(s) resource.
func IsRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ValidatePath validates a screenshot path relative to the raw directory.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsRemoteRef(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateText checks display text (headline, subtitle, badge labels).
// Newlines and tabs are allowed for multi-line layouts; other control
// characters are rejected.
func ValidateText(field, text string) error {
	if len(text) > maxTextLength {
		return New(ErrCodeConfigValidation, "%s too long (max %d characters)", field, maxTextLength)
	}
	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeConfigValidation, "%s contains control characters", field)
		}
	}
	return nil
}
