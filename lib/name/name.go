// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package name

import "fmt"

// MaxLength is the maximum accepted identifier length.
const MaxLength = 100

// InvalidNameError reports an identifier that failed validation.
// Callers can use errors.As to recover the offending name:
//
//	var invalidErr *name.InvalidNameError
//	if errors.As(err, &invalidErr) { ... }
type InvalidNameError struct {
	// Name is the rejected identifier.
	Name string
	// Reason describes which rule the identifier broke.
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("name: invalid identifier %q: %s", e.Name, e.Reason)
}

// Validate checks that an identifier is safe to embed in a filesystem
// path fragment. Accepted identifiers are 1 to MaxLength characters
// drawn from letters, digits, and ". _ , : @ -". Everything else —
// notably path separators, whitespace, and control characters — is
// rejected with an *InvalidNameError.
func Validate(identifier string) error {
	if identifier == "" {
		return &InvalidNameError{Name: identifier, Reason: "empty"}
	}
	if len(identifier) > MaxLength {
		return &InvalidNameError{
			Name:   identifier,
			Reason: fmt.Sprintf("%d characters exceeds the %d character limit", len(identifier), MaxLength),
		}
	}
	for i := 0; i < len(identifier); i++ {
		if !safeByte(identifier[i]) {
			return &InvalidNameError{
				Name:   identifier,
				Reason: fmt.Sprintf("character %q at position %d is not a letter, digit, or one of . _ , : @ -", identifier[i], i),
			}
		}
	}
	return nil
}

func safeByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '.', '_', ',', ':', '@', '-':
		return true
	}
	return false
}
