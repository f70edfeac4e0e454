package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

func newToggleFixture() (*ToggleEngagementHandler, *fakeStore, *fakeCache) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.addUser(2, "bob")
	cat.addProblem(100, "Irregular verbs", 10)

	store := newFakeStore()
	cache := newFakeCache()
	return NewToggleEngagementHandler(cat, cat, store, cache), store, cache
}

func TestToggleEngagement_LikeOnThenOff(t *testing.T) {
	h, _, _ := newToggleFixture()
	ctx := context.Background()

	result, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)
	assert.Equal(t, progress.EngagementLiked, result.Field)
	assert.True(t, result.NewValue)
	assert.Equal(t, 1, result.TotalLikes)
	assert.Equal(t, 0, result.TotalScraps)

	result, err = h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)
	assert.False(t, result.NewValue)
	assert.Equal(t, 0, result.TotalLikes)
}

func TestToggleEngagement_FlagsAreIndependent(t *testing.T) {
	h, store, _ := newToggleFixture()
	ctx := context.Background()

	_, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)

	result, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isScrapped"})
	require.NoError(t, err)
	assert.True(t, result.NewValue)
	assert.Equal(t, 1, result.TotalLikes)
	assert.Equal(t, 1, result.TotalScraps)

	row, err := store.GetProblemProgress(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, row.IsLiked)
	assert.True(t, row.IsScrapped)
}

func TestToggleEngagement_TotalsSpanAllUsers(t *testing.T) {
	h, _, _ := newToggleFixture()
	ctx := context.Background()

	_, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)

	result, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "bob", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)
	assert.True(t, result.NewValue)
	assert.Equal(t, 2, result.TotalLikes)

	// Bob backing out leaves Alice's like in place.
	result, err = h.Handle(ctx, ToggleEngagementCommand{UserHandle: "bob", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)
	assert.False(t, result.NewValue)
	assert.Equal(t, 1, result.TotalLikes)
}

func TestToggleEngagement_DoesNotTouchStudyStatus(t *testing.T) {
	h, store, _ := newToggleFixture()
	ctx := context.Background()

	_, err := h.Handle(ctx, ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isLiked"})
	require.NoError(t, err)

	row, err := store.GetProblemProgress(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, progress.ProblemStatusNew, row.Status)
}

func TestToggleEngagement_InvalidatesReportCache(t *testing.T) {
	h, _, cache := newToggleFixture()

	_, err := h.Handle(context.Background(), ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "isScrapped"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, cache.invalidations)
}

func TestToggleEngagement_RejectsUnknownField(t *testing.T) {
	h, _, _ := newToggleFixture()

	_, err := h.Handle(context.Background(), ToggleEngagementCommand{UserHandle: "alice", ProblemID: 100, Field: "status"})
	assert.ErrorIs(t, err, shared.ErrUnknownEngagementField)
}

func TestToggleEngagement_UnknownProblem(t *testing.T) {
	h, _, _ := newToggleFixture()

	_, err := h.Handle(context.Background(), ToggleEngagementCommand{UserHandle: "alice", ProblemID: 999, Field: "isLiked"})
	assert.ErrorIs(t, err, shared.ErrProblemNotFound)
}
