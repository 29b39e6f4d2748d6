// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for cronfleet
// components.
//
// Configuration is loaded from a single YAML file specified by:
//   - CRONFLEET_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This keeps
// configuration deterministic and auditable with no hidden overrides,
// which matters doubly for a system whose consumers run unattended on
// every host in a fleet.
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when
// the environment matches.
package config
