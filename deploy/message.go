// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"github.com/cronfleet/cronfleet/lib/codec"
)

// ProtocolVersion is the deployment message revision this
// implementation understands. A worker discards any message carrying
// a different version without processing it — the gate exists so a
// future publisher can change the schema and old workers degrade to
// logging skips instead of misapplying deployments.
const ProtocolVersion = 1

// JobDefinition is one named crontab within a deployment. Name is the
// logical name as published; the receiving side, not the publisher,
// applies the filesystem-safety transform when deriving the installed
// file name. Content is the verbatim crontab text, terminated by a
// single trailing newline.
type JobDefinition struct {
	Name    string `cbor:"name"`
	Content string `cbor:"content"`
}

// Message is the unit of distribution: the full desired set of
// crontabs for one (group, artifact) pair. Publishing a Message
// replaces everything the pair previously deployed — crontabs absent
// from the message are deleted on every host.
type Message struct {
	Version    int             `cbor:"version"`
	GroupID    string          `cbor:"group_id"`
	ArtifactID string          `cbor:"artifact_id"`
	Crontabs   []JobDefinition `cbor:"crontabs"`
}

// PartitionKey returns the broker partition key for the message. All
// messages for one (group, artifact) pair share a key, so the broker's
// per-partition ordering gives each pair last-write-wins semantics on
// every consumer.
func (m *Message) PartitionKey() []byte {
	return []byte(m.GroupID + ":" + m.ArtifactID)
}

// DecodeError reports a payload that could not be decoded. The
// consumption loop treats it as a per-message, non-fatal failure.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return "deploy: decoding message: " + e.Cause.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Encode serializes a message for the wire.
func Encode(m *Message) ([]byte, error) {
	return codec.Marshal(m)
}

// Decode deserializes a wire payload. Unknown fields in the payload
// are ignored, so a future protocol revision still yields a Message
// whose Version field the caller can gate on. Malformed input returns
// a *DecodeError.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := codec.Unmarshal(data, &m); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &m, nil
}
