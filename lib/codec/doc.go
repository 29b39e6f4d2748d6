// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides cronfleet's standard CBOR encoding
// configuration.
//
// Deployment messages travel between two cronfleet processes — the
// launch CLI in a build pipeline and the worker on each host — with
// the broker as an opaque byte transport in between. That makes the
// wire format an internal protocol, and cronfleet serializes internal
// protocols as CBOR. The decoder ignores unknown fields, so a newer
// publisher can add fields without breaking older workers' ability to
// read the version field and discard the message cleanly.
//
// This package centralizes the encoding and decoding modes so every
// cronfleet package encodes identically without duplicating
// configuration:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Message types carry `cbor` struct tags: they are only ever
// serialized as CBOR and never interact with JSON tooling.
package codec
