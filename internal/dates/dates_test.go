package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "iso date",
			input: "2031-01-01",
			want:  time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "iso date with time suffix",
			input: "2030-06-15 00:00:00",
			want:  time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "us slash date",
			input: "04/15/2030",
			want:  time.Date(2030, time.April, 15, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "month abbreviation with time",
			input: "2025-Feb-23 00:00:00",
			want:  time.Date(2025, time.February, 23, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "day first with month name",
			input: "23-Feb-2025",
			want:  time.Date(2025, time.February, 23, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "excel serial",
			input: "47484", // 2030-01-01 in the 1900 date system
			want:  time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "surrounding whitespace",
			input: "  2031-01-01  ",
			want:  time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
		{
			name:  "garbage",
			input: "not a date",
			ok:    false,
		},
		{
			name:  "serial too small to be a date",
			input: "0.5",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseWith(t *testing.T) {
	// The report's expiration column is MM/DD/YYYY; an explicit layout
	// must win over the candidate list's day-first preference.
	got, ok := ParseWith("01/04/2030", "01/02/2006")
	require.True(t, ok)
	assert.Equal(t, time.Date(2030, time.January, 4, 0, 0, 0, 0, time.UTC), got)

	// Unknown layouts still fall back to the candidate list.
	got, ok = ParseWith("2031-01-01", "01/02/2006")
	require.True(t, ok)
	assert.Equal(t, time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseWith("", "01/02/2006")
	assert.False(t, ok)
}

func TestDay(t *testing.T) {
	in := time.Date(2030, time.March, 5, 17, 45, 12, 999, time.FixedZone("X", 3600))
	assert.Equal(t, time.Date(2030, time.March, 5, 0, 0, 0, 0, time.UTC), Day(in))
}
