package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2024-02-29") // leap day
	require.NoError(t, err)

	for _, bad := range []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "2024-1-2", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestEffectiveDate(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		rollover int
		want     string
	}{
		{"before rollover maps to previous day", time.Date(2024, 1, 2, 2, 30, 0, 0, time.UTC), 4, "2024-01-01"},
		{"at rollover starts the new day", time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC), 4, "2024-01-02"},
		{"midnight-aligned when rollover is zero", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 0, "2024-01-02"},
		{"year rollover", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), 4, "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveDate(tt.ts, tt.rollover))
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	// 2024-01-01 is a Monday.
	got, err := DayOfWeek("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = DayOfWeek("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, 0, got, "Sunday must be 0")

	_, err = DayOfWeek("not-a-date")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2024-01-31", 30},
		{"2024-01-31", "2024-01-01", -30},
		{"2024-02-28", "2024-03-01", 2},  // leap year
		{"2023-02-28", "2023-03-01", 1},  // non-leap year
		{"2023-12-31", "2024-01-01", 1},  // year boundary
		{"2024-01-01", "2025-01-01", 366},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.a, tt.b)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2023-12-31", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)

	got, err = AddDays("2024-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)

	got, err = AddDays("2024-01-15", 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got)
}

func TestStartOfWeek(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	got, err := StartOfWeek("2024-01-10", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", got)

	got, err = StartOfWeek("2024-01-10", 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", got)

	// A Monday is its own Monday-based week start.
	got, err = StartOfWeek("2024-01-08", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", got)

	_, err = StartOfWeek("2024-01-10", 7)
	assert.Error(t, err)
}
