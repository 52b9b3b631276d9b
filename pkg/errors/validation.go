package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateResourceID validates a resource or node identifier for safety.
// Identifiers end up in cache keys, DOT documents, and output filenames, so
// the rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
func ValidateResourceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "resource id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "resource id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "resource id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "resource id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// regionNameRegex matches AWS-style region names such as us-east-1,
// eu-central-1 or us-gov-west-1.
var regionNameRegex = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

// ValidateRegionName validates a cloud region name. Imported documents may
// carry arbitrary region strings (the normalizer is permissive); this check
// is for user-provided regions on the collector and CLI surface.
func ValidateRegionName(region string) error {
	if region == "" {
		return New(ErrCodeInvalidRegion, "region cannot be empty")
	}

	if !regionNameRegex.MatchString(region) {
		return New(ErrCodeInvalidRegion, "invalid region name: %q", region)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
