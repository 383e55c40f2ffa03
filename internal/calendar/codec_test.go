package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_KeyRoundTrip(t *testing.T) {
	for _, s := range []string{
		"2024-03-05",
		"2024-12-31",
		"1999-01-01",
		"2025-02-28",
	} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, s, d.Key())
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"2024",
		"2024-03",
		"2024-03-",
		"2024-xx-05",
		"abc-03-05",
		"2024-03-zz",
		"not a date",
		"2024-00-05",
		"2024-13-05",
	} {
		_, ok := ParseDate(s)
		assert.False(t, ok, "expected %q to fail", s)
	}
}

func TestParseTime_BestEffort(t *testing.T) {
	tests := []struct {
		in   string
		want Clock
	}{
		{"09:30", Clock{9, 30}},
		{"00:00", Clock{0, 0}},
		{"23:59", Clock{23, 59}},
		{"", Clock{0, 0}},
		{"xx:30", Clock{0, 30}},
		{"09:xx", Clock{9, 0}},
		{"09", Clock{9, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTime(tt.in), tt.in)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"12:00", "12:00 PM"},
		{"23:59", "11:59 PM"},
		{"09:05", "9:05 AM"},
		{"13:30", "1:30 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.in), tt.in)
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2024, time.March, 5, 15, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-05", DateKey(d))
}
