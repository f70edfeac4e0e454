package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
)

func TestWeeklyRecords_FiveWeeksOldestFirst(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	reporter := newFakeReporter()
	// Activity only in the current week and two weeks back.
	reporter.weekCounts["2026-08-24"] = progress.StatusCounts{Perfect: 4, Vague: 2, Forgotten: 1}
	reporter.weekCounts["2026-08-10"] = progress.StatusCounts{Vague: 3}

	h := NewWeeklyRecordsHandler(cat, reporter, nil)

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) // Wednesday
	result, err := h.Handle(context.Background(), WeeklyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)

	require.Len(t, result.Records, 5)
	assert.Equal(t, "2026-07-27", result.Records[0].WeekStart)
	assert.Equal(t, "2026-08-02", result.Records[0].WeekEnd)
	assert.Equal(t, "2026-08-24", result.Records[4].WeekStart)
	assert.Equal(t, "2026-08-30", result.Records[4].WeekEnd)

	// Weeks without activity stay in the report with zero counts.
	totals := make([]int, 0, 5)
	for _, r := range result.Records {
		totals = append(totals, r.Total)
	}
	assert.Equal(t, []int{0, 0, 3, 0, 7}, totals)

	// The current week keeps its per-status breakdown alongside the total.
	current := result.Records[4]
	assert.Equal(t, 4, current.Perfect)
	assert.Equal(t, 2, current.Vague)
	assert.Equal(t, 1, current.Forgotten)
	assert.Equal(t, 7, current.Total)
}

func TestWeeklyRecords_QueriesMondayToSundayWindows(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	reporter := newFakeReporter()
	h := NewWeeklyRecordsHandler(cat, reporter, nil)

	now := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC) // Sunday night
	_, err := h.Handle(context.Background(), WeeklyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)

	require.Len(t, reporter.askedWindows, 5)
	for i, w := range reporter.askedWindows {
		assert.Equal(t, time.Monday, w.from.Weekday(), "window %d", i)
		assert.Equal(t, time.Sunday, w.to.Weekday(), "window %d", i)
	}
	// Sunday still belongs to the week opened by the preceding Monday.
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), reporter.askedWindows[4].from)
}

func TestWeeklyRecords_CachedResultSkipsCounting(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	reporter := newFakeReporter()
	cache := newFakeCache()
	h := NewWeeklyRecordsHandler(cat, reporter, cache)
	ctx := context.Background()

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	_, err := h.Handle(ctx, WeeklyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)
	require.Len(t, reporter.askedWindows, 5)

	_, err = h.Handle(ctx, WeeklyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)
	assert.Len(t, reporter.askedWindows, 5, "cached call must not re-count")
}
