package wiki

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel errors returned by Split.
var (
	// ErrInvalidContent means the content does not start with a page marker,
	// usually because the service answered with an error message instead.
	ErrInvalidContent = errors.New("invalid wiki content")

	// ErrInvalidStructure means the outline produced no sections.
	ErrInvalidStructure = errors.New("invalid wiki structure")
)

// maxDetailLen caps how much of the payload ends up in an error message.
const maxDetailLen = 500

// ContentError carries the payload that caused a split failure.
type ContentError struct {
	Kind   error
	Detail string
}

func (e *ContentError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, truncate(e.Detail, maxDetailLen))
}

func (e *ContentError) Unwrap() error {
	return e.Kind
}

// truncate shortens a string to at most maxLen bytes, adding "..." if
// truncated. It never splits a multi-byte rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
