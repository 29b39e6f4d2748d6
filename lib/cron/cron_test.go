// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, expression string) Schedule {
	t.Helper()
	schedule, err := Parse(expression)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expression, err)
	}
	return schedule
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestParseValid(t *testing.T) {
	expressions := []string{
		"* * * * *",
		"0 7 * * *",
		"*/15 0-6 1,15 * 1-5",
		"30 3 * * 0",
		"30 3 * * 7",
		"0 0 1 1 *",
		"5,10,15 * * * *",
		"0-30/5 * * * *",
		"@daily",
		"@hourly",
		"@yearly",
	}
	for _, expression := range expressions {
		t.Run(expression, func(t *testing.T) {
			if _, err := Parse(expression); err != nil {
				t.Errorf("Parse(%q) = %v, want nil", expression, err)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    string
	}{
		{"too_few_fields", "* * * *", "expected 5 fields"},
		{"too_many_fields", "* * * * * *", "expected 5 fields"},
		{"minute_out_of_range", "60 * * * *", "minute field"},
		{"hour_out_of_range", "* 24 * * *", "hour field"},
		{"day_zero", "* * 0 * *", "day-of-month field"},
		{"month_13", "* * * 13 *", "month field"},
		{"weekday_8", "* * * * 8", "day-of-week field"},
		{"negative_step", "*/-1 * * * *", "step"},
		{"zero_step", "*/0 * * * *", "step must be positive"},
		{"inverted_range", "30-10 * * * *", "range start"},
		{"garbage", "potato * * * *", "invalid value"},
		{"unknown_alias", "@fortnightly", "unknown alias"},
		{"reboot_alias", "@reboot", "unknown alias"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.expression)
			if err == nil {
				t.Fatalf("Parse(%q) = nil, want error", test.expression)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Parse(%q) error = %q, want it to contain %q", test.expression, err, test.wantErr)
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		from       time.Time
		want       time.Time
	}{
		{
			"every_minute",
			"* * * * *",
			utc(2026, time.March, 10, 12, 30),
			utc(2026, time.March, 10, 12, 31),
		},
		{
			"daily_seven_am",
			"0 7 * * *",
			utc(2026, time.March, 10, 12, 30),
			utc(2026, time.March, 11, 7, 0),
		},
		{
			"weekly_sunday_as_seven",
			"30 3 * * 7",
			utc(2026, time.March, 10, 0, 0), // a Tuesday
			utc(2026, time.March, 15, 3, 30),
		},
		{
			"month_rollover",
			"0 0 1 * *",
			utc(2026, time.January, 15, 8, 0),
			utc(2026, time.February, 1, 0, 0),
		},
		{
			"alias_hourly",
			"@hourly",
			utc(2026, time.March, 10, 12, 30),
			utc(2026, time.March, 10, 13, 0),
		},
		{
			"boundary_is_strictly_after",
			"30 12 * * *",
			utc(2026, time.March, 10, 12, 30),
			utc(2026, time.March, 11, 12, 30),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := mustParse(t, test.expression).Next(test.from)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !got.Equal(test.want) {
				t.Errorf("Next(%s) = %s, want %s", test.from, got, test.want)
			}
		})
	}
}

func TestNextImpossibleSchedule(t *testing.T) {
	schedule := mustParse(t, "0 0 31 2 *")
	if _, err := schedule.Next(utc(2026, time.January, 1, 0, 0)); err == nil {
		t.Error("Next for Feb 31 = nil error, want no-matching-time error")
	}
}

func TestLintFileClean(t *testing.T) {
	content := strings.Join([]string{
		"# nightly reporting",
		"MAILTO=ops@example.com",
		"",
		"0 7 * * * root /usr/bin/nightly-report --all",
		"@hourly root /usr/bin/heartbeat",
	}, "\n")
	if problems := LintFile(content); len(problems) != 0 {
		t.Errorf("LintFile = %v, want no problems", problems)
	}
}

func TestLintFileProblems(t *testing.T) {
	content := strings.Join([]string{
		"0 7 * * * root /usr/bin/fine",
		"61 * * * * root /usr/bin/bad-minute",
		"@reboot root /usr/bin/bad-alias",
		"0 7 * * root short",
	}, "\n")
	problems := LintFile(content)
	if len(problems) != 3 {
		t.Fatalf("LintFile found %d problems %v, want 3", len(problems), problems)
	}
	wantLines := []int{2, 3, 4}
	for i, problem := range problems {
		if problem.Line != wantLines[i] {
			t.Errorf("problem %d on line %d, want %d", i, problem.Line, wantLines[i])
		}
	}
}
