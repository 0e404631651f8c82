// Package dates normalizes the heterogeneous date representations seen in
// licensing exports into plain calendar dates.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// candidateLayouts are tried in order. The export tooling emits everything
// from ISO dates to US slash forms to month-abbreviation timestamps like
// "2025-Feb-23 00:00:00".
var candidateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02/01/06",
	"01/02/06",
	"01/02/06 15:04:05",
	"2006/01/02",
	"2006-Jan-02 15:04:05",
	"2006-Jan-02",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05",
	"2006-January-02 15:04:05",
	"2006-January-02",
	"02-January-2006",
	"02-January-2006 15:04:05",
}

// excelEpoch is day zero of the 1900 date system used by xlsx serials.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Parse converts a raw cell value into a calendar date. It tries the known
// textual layouts first and falls back to interpreting the value as an
// Excel serial number. The returned time is truncated to midnight UTC.
// ok is false when nothing matches; callers treat that as a row-local
// data-quality problem, never an error.
func Parse(value string) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range candidateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return Day(d), true
		}
	}

	// Excel serial fallback: days since 1899-12-30, possibly fractional.
	if serial, err := strconv.ParseFloat(text, 64); err == nil {
		return fromSerial(serial)
	}

	return time.Time{}, false
}

// ParseWith tries an explicit layout before the candidate list, for inputs
// whose format is known up front (the PRE-EA report uses MM/DD/YYYY).
func ParseWith(value, layout string) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(layout, text); err == nil {
		return Day(d), true
	}
	return Parse(text)
}

// Day truncates a time to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func fromSerial(serial float64) (time.Time, bool) {
	// Serials below 1 are pure times, absurdly large ones are not dates.
	if serial < 1 || serial > 200000 {
		return time.Time{}, false
	}
	d := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
	return Day(d), true
}
