// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package broker abstracts the durable pub/sub log that carries
// deployment messages from the launch CLI to the fleet's workers.
//
// cronfleet asks very little of the transport: publish bytes to a
// topic with a partition key, and subscribe as a consumer group to a
// blocking iterator with a per-call timeout. Delivery is assumed
// at-least-once and ordered within a partition; everything else
// (retention, replication, rebalancing) belongs to the broker.
//
// Implementations form a fixed enumerated set selected by the
// `broker.kind` config string:
//
//   - kafka: the production transport (segmentio/kafka-go)
//   - memory: an in-process log for development and tests
//
// The set is closed on purpose. The registry exists so config can name
// a variant, not so deployments can load arbitrary code.
package broker
