// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package name

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	identifiers := []string{
		"my-job.2",
		"a",
		"com.example.data",
		"nightly_report",
		"team:schedule@prod",
		"a,b",
		"UPPER-and-lower-0123456789",
		strings.Repeat("x", 100),
	}
	for _, identifier := range identifiers {
		t.Run(identifier, func(t *testing.T) {
			if err := Validate(identifier); err != nil {
				t.Errorf("Validate(%q) = %v, want nil", identifier, err)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantReason string
	}{
		{"empty", "", "empty"},
		{"slash", "jobs/nightly", "position 4"},
		{"leading_slash", "/etc/passwd", "position 0"},
		{"parent_traversal", "../escape", "position 2"},
		{"space", "my job", "position 2"},
		{"newline", "job\n", "position 3"},
		{"nul", "job\x00", "position 3"},
		{"multibyte", "jöb", "position 1"},
		{"too_long", strings.Repeat("x", 101), "exceeds the 100 character limit"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.identifier)
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want error", test.identifier)
			}
			var invalidErr *InvalidNameError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("Validate(%q) = %T, want *InvalidNameError", test.identifier, err)
			}
			if invalidErr.Name != test.identifier {
				t.Errorf("InvalidNameError.Name = %q, want %q", invalidErr.Name, test.identifier)
			}
			if !strings.Contains(invalidErr.Reason, test.wantReason) {
				t.Errorf("InvalidNameError.Reason = %q, want it to contain %q", invalidErr.Reason, test.wantReason)
			}
		})
	}
}

func TestValidateBoundaryLength(t *testing.T) {
	if err := Validate(strings.Repeat("a", MaxLength)); err != nil {
		t.Errorf("Validate at MaxLength = %v, want nil", err)
	}
	if err := Validate(strings.Repeat("a", MaxLength+1)); err == nil {
		t.Error("Validate above MaxLength = nil, want error")
	}
}
