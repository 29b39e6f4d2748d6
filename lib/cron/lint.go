// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strings"
)

// Problem describes one suspect line in a crontab file.
type Problem struct {
	// Line is the 1-based line number within the file.
	Line int
	// Text is the offending line, trimmed.
	Text string
	// Err is what the schedule parser objected to.
	Err error
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %v: %q", p.Line, p.Err, p.Text)
}

// LintFile checks the schedule portion of every job line in a crontab
// in /etc/cron.d format: "minute hour day month weekday user command",
// or "@alias user command". Comments, blank lines, and environment
// assignments (NAME=value) are skipped. The returned problems are
// advisory — a crontab the daemon would silently ignore is exactly the
// kind of deployment worth a loud warning at publish time, but the
// publisher never fails on them because this system distributes files,
// it does not interpret them.
func LintFile(content string) []Problem {
	var problems []Problem
	for lineNumber, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if isEnvironmentAssignment(trimmed) {
			continue
		}

		fields := strings.Fields(trimmed)
		if strings.HasPrefix(trimmed, "@") {
			if len(fields) < 3 {
				problems = append(problems, Problem{
					Line: lineNumber + 1,
					Text: trimmed,
					Err:  fmt.Errorf("cron: alias line needs a user and a command"),
				})
				continue
			}
			if _, err := Parse(fields[0]); err != nil {
				problems = append(problems, Problem{Line: lineNumber + 1, Text: trimmed, Err: err})
			}
			continue
		}

		// Five schedule fields, a user, and at least one command word.
		if len(fields) < 7 {
			problems = append(problems, Problem{
				Line: lineNumber + 1,
				Text: trimmed,
				Err:  fmt.Errorf("cron: expected schedule, user, and command, got %d fields", len(fields)),
			})
			continue
		}
		if _, err := Parse(strings.Join(fields[:5], " ")); err != nil {
			problems = append(problems, Problem{Line: lineNumber + 1, Text: trimmed, Err: err})
		}
	}
	return problems
}

// isEnvironmentAssignment reports whether a line is a crontab
// environment assignment like "MAILTO=ops@example.com". The assignment
// form is NAME=value with no whitespace before the equals sign.
func isEnvironmentAssignment(line string) bool {
	equals := strings.IndexByte(line, '=')
	if equals <= 0 {
		return false
	}
	namePart := line[:equals]
	return strings.IndexFunc(namePart, func(r rune) bool {
		return r == ' ' || r == '\t'
	}) < 0
}
