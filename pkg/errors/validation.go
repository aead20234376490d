package errors

import (
	"regexp"
	"strings"
)

// presetNameRegex matches names accepted for stored presets.
var presetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidatePresetName validates a preset name before it is used as a store key
// or URL segment.
//
// Rules:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only
//   - No path traversal sequences
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "preset name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "preset name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "preset name cannot contain %q", "..")
	}
	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid preset name: %q", name)
	}
	return nil
}
