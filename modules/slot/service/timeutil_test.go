package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAndFormatTime(t *testing.T) {
	assert.Equal(t, 0, ParseTime("00:00"))
	assert.Equal(t, 630, ParseTime("10:30"))
	assert.Equal(t, 1439, ParseTime("23:59"))
	assert.Equal(t, 0, ParseTime("garbage"))

	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "09:05", FormatTime(545))
	assert.Equal(t, "23:30", FormatTime(1410))
}

func TestValidTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidTime(ok), ok)
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "12-30", "ab:cd", "12:3"} {
		assert.False(t, ValidTime(bad), bad)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-01-15"))
	assert.False(t, ValidDate("2024-02-30"))
	assert.False(t, ValidDate("15/01/2024"))
}

func TestSnapToHalfHour(t *testing.T) {
	cases := map[string]string{
		"10:00": "10:00",
		"10:14": "10:00",
		"10:15": "10:30",
		"10:44": "10:30",
		"10:45": "11:00",
		"00:07": "00:00",
		"23:14": "23:00",
		"23:45": "23:30",
		"23:59": "23:30",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnapToHalfHour(in), in)
	}
}

func TestSnapToHalfHour_IdempotentAndOnGrid(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		once := SnapToHalfHour(FormatTime(m))
		assert.Equal(t, once, SnapToHalfHour(once), FormatTime(m))

		minutes := ParseTime(once)
		assert.Zero(t, minutes%GridMinutes, once)
		assert.GreaterOrEqual(t, minutes, 0)
		assert.LessOrEqual(t, minutes, 1410)
	}
}
