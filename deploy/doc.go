// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package deploy implements cronfleet's distribution protocol: the
// versioned deployment message, the publisher that ships a (group,
// artifact) pair's crontab set to the broker, the reconciler that
// converges a host's cron drop directory onto the latest published
// set, and the drain loop that feeds the reconciler from a broker
// subscription.
//
// The protocol is deliberately last-write-wins per (group, artifact)
// pair with no coordination between hosts. Each published message
// carries the pair's complete desired set; reconciliation diffs it
// against the files the pair owns locally (identified purely by name
// prefix) and applies the minimal creates, updates, and deletes.
// Reconciling the same message twice is a no-op apart from timestamp
// refreshes, so at-least-once delivery costs nothing.
//
// The publisher and the drain loop never share a process. They meet
// only at the broker, which this package sees through the narrow
// contract in package broker.
package deploy
