package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

func TestNewCardProgress(t *testing.T) {
	entry, err := NewCardProgress(1, 10, 100, CardStatusVague)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.UserID)
	assert.Equal(t, int64(10), entry.CardID)
	assert.Equal(t, int64(100), entry.ProblemID)
	assert.Equal(t, CardStatusVague, entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestNewCardProgress_RejectsInvalidIDs(t *testing.T) {
	_, err := NewCardProgress(0, 10, 100, CardStatusPerfect)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewCardProgress(1, -1, 100, CardStatusPerfect)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewCardProgress(1, 10, 0, CardStatusPerfect)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestNewCardProgress_RejectsNonGradableStatus(t *testing.T) {
	_, err := NewCardProgress(1, 10, 100, CardStatusNew)
	assert.ErrorIs(t, err, shared.ErrUnknownCardStatus)

	_, err = NewCardProgress(1, 10, 100, CardStatus("mastered"))
	assert.ErrorIs(t, err, shared.ErrUnknownCardStatus)
}

func TestCardProgress_Grade(t *testing.T) {
	entry, err := NewCardProgress(1, 10, 100, CardStatusForgotten)
	require.NoError(t, err)

	err = entry.Grade(CardStatusPerfect)
	assert.NoError(t, err)
	assert.Equal(t, CardStatusPerfect, entry.Status)

	err = entry.Grade(CardStatusNew)
	assert.ErrorIs(t, err, shared.ErrUnknownCardStatus)
	assert.Equal(t, CardStatusPerfect, entry.Status)
}

func TestNewProblemProgress(t *testing.T) {
	p, err := NewProblemProgress(1, 100)
	require.NoError(t, err)
	assert.Equal(t, ProblemStatusNew, p.Status)
	assert.False(t, p.IsLiked)
	assert.False(t, p.IsScrapped)
}

func TestProblemProgress_ToggleField(t *testing.T) {
	p, err := NewProblemProgress(1, 100)
	require.NoError(t, err)

	// Each toggle flips exactly one flag and leaves the other alone.
	v, err := p.ToggleField(EngagementLiked)
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, p.IsLiked)
	assert.False(t, p.IsScrapped)

	v, err = p.ToggleField(EngagementLiked)
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, p.IsLiked)

	v, err = p.ToggleField(EngagementScrapped)
	require.NoError(t, err)
	assert.True(t, v)
	assert.False(t, p.IsLiked)
	assert.True(t, p.IsScrapped)

	_, err = p.ToggleField(EngagementField("status"))
	assert.ErrorIs(t, err, shared.ErrUnknownEngagementField)
}

func TestProblemProgress_ApplyRollup(t *testing.T) {
	p, err := NewProblemProgress(1, 100)
	require.NoError(t, err)

	err = p.ApplyRollup(ProblemStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, ProblemStatusCompleted, p.Status)

	err = p.ApplyRollup(ProblemStatus("done"))
	assert.ErrorIs(t, err, shared.ErrUnknownProblemStatus)
	assert.Equal(t, ProblemStatusCompleted, p.Status)
}

func TestStatusCounts_Total(t *testing.T) {
	counts := StatusCounts{Perfect: 3, Vague: 2, Forgotten: 1}
	assert.Equal(t, 6, counts.Total())
	assert.Equal(t, 0, StatusCounts{}.Total())
}
