package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
)

func TestEngagedProblems_SplitsLikedAndScrapped(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.tags[100] = []catalog.Tag{{Name: "grammar", ColorCode: "#ff0000"}}

	reporter := newFakeReporter()
	reporter.engaged = []progress.EngagedProblemRow{
		{ProblemID: 100, Title: "Irregular verbs", IsPublic: true, IsLiked: true, IsScrapped: true, TotalLikes: 4, TotalScraps: 2},
		{ProblemID: 200, Title: "Phrasal verbs", IsLiked: true, IsScrapped: false, TotalLikes: 1},
		{ProblemID: 300, Title: "Idioms", IsPublic: true, IsLiked: false, IsScrapped: true, TotalScraps: 9},
	}

	h := NewEngagedProblemsHandler(cat, cat, reporter, nil)

	result, err := h.Handle(context.Background(), EngagedProblemsQuery{UserHandle: "alice"})
	require.NoError(t, err)

	// A problem that is both liked and scrapped shows up in both lists.
	require.Len(t, result.Liked, 2)
	require.Len(t, result.Scrapped, 2)
	assert.Equal(t, int64(100), result.Liked[0].ProblemID)
	assert.Equal(t, int64(200), result.Liked[1].ProblemID)
	assert.Equal(t, int64(100), result.Scrapped[0].ProblemID)
	assert.Equal(t, int64(300), result.Scrapped[1].ProblemID)

	require.Len(t, result.Liked[0].Tags, 1)
	assert.Equal(t, "grammar", result.Liked[0].Tags[0].Name)
	assert.Equal(t, "#ff0000", result.Liked[0].Tags[0].ColorCode)

	// Visibility comes through so the listing can mark private decks.
	assert.True(t, result.Liked[0].IsPublic)
	assert.False(t, result.Liked[1].IsPublic)
}

func TestEngagedProblems_NothingEngaged(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	h := NewEngagedProblemsHandler(cat, cat, newFakeReporter(), nil)

	result, err := h.Handle(context.Background(), EngagedProblemsQuery{UserHandle: "alice"})
	require.NoError(t, err)
	assert.Empty(t, result.Liked)
	assert.Empty(t, result.Scrapped)
	assert.NotNil(t, result.Liked)
	assert.NotNil(t, result.Scrapped)
}
