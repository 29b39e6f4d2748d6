// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses cron schedule expressions and lints crontab
// files in /etc/cron.d format.
//
// cronfleet never executes schedules itself — the host's cron daemon
// does that. The parser exists so the publisher can warn, at publish
// time, about a schedule line the daemon on every host in the fleet
// would silently refuse to run. [Parse] handles standard 5-field
// expressions and the @hourly family of aliases; [Schedule.Next]
// computes upcoming fire times for diagnostics; [LintFile] scans a
// whole crontab and reports per-line problems without ever failing a
// deployment.
package cron
