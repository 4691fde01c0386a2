package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds external node and edge identifiers.
const MaxIDLength = 512

// ValidateID validates an external node or edge identifier.
//
// The rules are intentionally loose since ids come straight from query
// results:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of MaxIDLength bytes
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateLabel validates a node label or edge type.
// Labels must be non-blank and single-line.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be blank")
	}
	if strings.ContainsAny(label, "\r\n\x00") {
		return New(ErrCodeInvalidInput, "label %q must be a single line", label)
	}
	return nil
}
