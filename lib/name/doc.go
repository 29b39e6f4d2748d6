// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package name validates the identifiers that cronfleet embeds in
// filesystem paths: group IDs, artifact IDs, crontab names, and the
// installation token.
//
// Every one of these strings ends up as a fragment of an installed
// crontab file name, so the accepted alphabet is deliberately narrow:
// letters, digits, and ". _ , : @ -", between 1 and 100 characters. A
// multibyte rune, a slash, or an over-long string is enough to corrupt
// the drop directory or escape it entirely, so validation happens on
// both sides of the wire — the publisher refuses to build a message
// from a bad identifier, and the worker discards a received message
// whole rather than partially applying it.
//
// This package has no dependencies on other cronfleet packages.
package name
