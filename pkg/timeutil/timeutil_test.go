package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek_MondayBased(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week starts Monday 2026-08-24.
	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	start := StartOfWeek(wednesday)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Monday, start.Weekday())
}

func TestStartOfWeek_SundayBelongsToPrecedingMonday(t *testing.T) {
	// 2026-08-30 is a Sunday; the week opened on Monday 2026-08-24.
	sunday := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))
}

func TestStartOfWeek_MondayIsItsOwnStart(t *testing.T) {
	monday := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), StartOfWeek(monday))
}

func TestEndOfWeek(t *testing.T) {
	wednesday := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	end := EndOfWeek(wednesday)
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, 30, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestRecentWeeks(t *testing.T) {
	ref := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) // Wednesday

	weeks := RecentWeeks(ref, 5)
	require.Len(t, weeks, 5)

	// Oldest week first, current week last.
	assert.Equal(t, time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC), weeks[0].Start)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), weeks[4].Start)

	for i, w := range weeks {
		assert.Equal(t, time.Monday, w.Start.Weekday(), "week %d", i)
		assert.Equal(t, time.Sunday, w.End.Weekday(), "week %d", i)
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, w.Start.Sub(weeks[i-1].Start), "week %d", i)
		}
	}
}

func TestRecentWeeks_ZeroCount(t *testing.T) {
	assert.Empty(t, RecentWeeks(time.Now(), 0))
}

func TestStartAndEndOfDay(t *testing.T) {
	moment := time.Date(2026, 1, 15, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), StartOfDay(moment))

	end := EndOfDay(moment)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 15, end.Day())
}

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(evening, nextDay))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestFormatAndParseDate(t *testing.T) {
	day := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-01", FormatDateStr(day))

	parsed, err := ParseDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01.09.2026")
	assert.Error(t, err)
}
