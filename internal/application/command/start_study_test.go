package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

func newStartStudyFixture() (*StartStudyHandler, *GradeCardHandler, *fakeStore) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.addProblem(100, "Irregular verbs", 10, 11)

	store := newFakeStore()
	return NewStartStudyHandler(cat, cat, store),
		NewGradeCardHandler(cat, cat, store, nil),
		store
}

func TestStartStudy_FirstVisitCreatesNewRow(t *testing.T) {
	h, _, _ := newStartStudyFixture()

	result, err := h.Handle(context.Background(), StartStudyCommand{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)

	assert.True(t, result.FirstEntry)
	assert.Equal(t, progress.ProblemStatusNew, result.Status)
}

func TestStartStudy_RepeatVisitReturnsExistingRow(t *testing.T) {
	h, _, _ := newStartStudyFixture()
	ctx := context.Background()

	_, err := h.Handle(ctx, StartStudyCommand{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)

	result, err := h.Handle(ctx, StartStudyCommand{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)
	assert.False(t, result.FirstEntry)
	assert.Equal(t, progress.ProblemStatusNew, result.Status)
}

func TestStartStudy_DoesNotResetEarnedProgress(t *testing.T) {
	h, grade, _ := newStartStudyFixture()
	ctx := context.Background()

	for _, cardID := range []int64{10, 11} {
		_, err := grade.Handle(ctx, GradeCardCommand{UserHandle: "alice", CardID: cardID, Status: "perfect"})
		require.NoError(t, err)
	}

	// Reopening a completed problem must not touch its status.
	result, err := h.Handle(ctx, StartStudyCommand{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)
	assert.False(t, result.FirstEntry)
	assert.Equal(t, progress.ProblemStatusCompleted, result.Status)
}

func TestStartStudy_UnknownProblem(t *testing.T) {
	h, _, _ := newStartStudyFixture()

	_, err := h.Handle(context.Background(), StartStudyCommand{UserHandle: "alice", ProblemID: 999})
	assert.ErrorIs(t, err, shared.ErrProblemNotFound)
}

func TestStartStudy_Validation(t *testing.T) {
	h, _, _ := newStartStudyFixture()

	_, err := h.Handle(context.Background(), StartStudyCommand{UserHandle: "", ProblemID: 100})
	assert.ErrorIs(t, err, shared.ErrEmptyUserHandle)

	_, err = h.Handle(context.Background(), StartStudyCommand{UserHandle: "alice", ProblemID: -5})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
