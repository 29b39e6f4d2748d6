// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package contenthash provides BLAKE3 content digests for crontab
// payloads.
//
// The digests exist for log correlation, not for integrity: the broker
// already delivers payloads intact. When a publisher logs the digest
// of each definition it ships and every worker logs the digest of each
// file it installs, grepping a fleet's logs for one digest answers
// "which hosts picked up this exact content" without comparing file
// bytes across machines.
//
// Hashing uses BLAKE3 keyed mode with a fixed domain key so these
// digests are never confused with any other hash of the same bytes.
//
// This package has no dependencies on other cronfleet packages.
package contenthash
