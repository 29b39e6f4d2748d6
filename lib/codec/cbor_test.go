// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type wireSample struct {
	Version int    `cbor:"version"`
	Payload string `cbor:"payload"`
}

func TestMarshalDeterministic(t *testing.T) {
	sample := wireSample{Version: 1, Payload: "0 7 * * * root /usr/bin/report\n"}
	first, err := Marshal(sample)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(sample)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("same value produced different encodings:\n%x\n%x", first, second)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	// A future revision of the protocol with extra fields must still
	// decode into today's struct, preserving the fields we know.
	future := map[string]any{
		"version":     7,
		"payload":     "hello",
		"new_feature": []string{"a", "b"},
		"retries":     3,
	}
	data, err := Marshal(future)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded wireSample
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown fields: %v", err)
	}
	if decoded.Version != 7 || decoded.Payload != "hello" {
		t.Errorf("decoded = %+v, want Version=7 Payload=hello", decoded)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	var decoded wireSample
	if err := Unmarshal([]byte{0xff, 0x00, 0x13}, &decoded); err == nil {
		t.Error("Unmarshal of garbage = nil, want error")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]int{"version": 99})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, "version") || !strings.Contains(diagnostic, "99") {
		t.Errorf("Diagnose = %q, want it to mention version and 99", diagnostic)
	}
}
