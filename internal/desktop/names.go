package desktop

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength bounds workspace names in bytes.
const MaxNameLength = 100

// NormalizeName trims surrounding space and applies NFC normalization so the
// same visible name always maps to the same key.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName reports whether a normalized name can be used as a workspace
// key. Names are addressed as single command tokens, so whitespace is rejected.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidName, name, MaxNameLength)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}
