package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
)

func TestDailyRecords_YearWindowAndFormatting(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	reporter := newFakeReporter()
	reporter.daily = []progress.DailyRecord{
		{Day: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Counts: progress.StatusCounts{Perfect: 3, Vague: 1}},
		{Day: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), Counts: progress.StatusCounts{Perfect: 4, Vague: 2, Forgotten: 3}},
	}

	h := NewDailyRecordsHandler(cat, reporter, nil)

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	result, err := h.Handle(context.Background(), DailyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)

	assert.Equal(t, "2025-08-26", result.From)
	assert.Equal(t, "2026-08-26", result.To)

	// Each day carries its own per-status breakdown.
	require.Len(t, result.Records, 2)
	assert.Equal(t, "2026-08-20", result.Records[0].Date)
	assert.Equal(t, 3, result.Records[0].Perfect)
	assert.Equal(t, 1, result.Records[0].Vague)
	assert.Equal(t, 0, result.Records[0].Forgotten)
	assert.Equal(t, "2026-08-25", result.Records[1].Date)
	assert.Equal(t, 4, result.Records[1].Perfect)
	assert.Equal(t, 2, result.Records[1].Vague)
	assert.Equal(t, 3, result.Records[1].Forgotten)

	// The reporter was asked for the full day boundaries, not raw instants.
	require.Len(t, reporter.askedWindows, 1)
	w := reporter.askedWindows[0]
	assert.Equal(t, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC), w.from)
	assert.Equal(t, 23, w.to.Hour())
	assert.Equal(t, 26, w.to.Day())
}

func TestDailyRecords_EmptyHistory(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	h := NewDailyRecordsHandler(cat, newFakeReporter(), nil)

	result, err := h.Handle(context.Background(), DailyRecordsQuery{UserHandle: "alice"})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.NotNil(t, result.Records)
}

func TestDailyRecords_CacheRoundTrip(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	reporter := newFakeReporter()
	reporter.daily = []progress.DailyRecord{
		{Day: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), Counts: progress.StatusCounts{Vague: 2}},
	}
	cache := newFakeCache()
	h := NewDailyRecordsHandler(cat, reporter, cache)
	ctx := context.Background()

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	first, err := h.Handle(ctx, DailyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)

	second, err := h.Handle(ctx, DailyRecordsQuery{UserHandle: "alice", Now: now})
	require.NoError(t, err)

	assert.Len(t, reporter.askedWindows, 1, "cached call must not re-aggregate")
	assert.Equal(t, first.Records, second.Records)
}
