package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

func TestStudyCards_UngradedCardsAppearAsNew(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.addProblem(100, "Irregular verbs",
		catalog.Card{ID: 10, ProblemID: 100, Question: "go", Answer: "went"},
		catalog.Card{ID: 11, ProblemID: 100, Question: "eat", Answer: "ate"},
		catalog.Card{ID: 12, ProblemID: 100, Question: "see", Answer: "saw"},
	)

	store := &fakeStore{statuses: map[int64]progress.CardStatus{
		10: progress.CardStatusPerfect,
		12: progress.CardStatusVague,
	}}

	h := NewStudyCardsHandler(cat, cat, store)

	result, err := h.Handle(context.Background(), StudyCardsQuery{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)

	assert.Equal(t, "alice", result.UserHandle)
	assert.Equal(t, "Irregular verbs", result.Title)
	require.Len(t, result.Cards, 3)

	byID := make(map[int64]StudyCardDTO)
	for _, c := range result.Cards {
		byID[c.CardID] = c
	}
	assert.Equal(t, "perfect", byID[10].Status)
	assert.Equal(t, "new", byID[11].Status)
	assert.Equal(t, "vague", byID[12].Status)
	assert.Equal(t, "went", byID[10].Answer)
}

func TestStudyCards_ZeroCardProblem(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.addProblem(100, "Empty deck")

	h := NewStudyCardsHandler(cat, cat, &fakeStore{})

	result, err := h.Handle(context.Background(), StudyCardsQuery{UserHandle: "alice", ProblemID: 100})
	require.NoError(t, err)
	assert.Empty(t, result.Cards)
	assert.NotNil(t, result.Cards)
}

func TestStudyCards_UnknownProblem(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")

	h := NewStudyCardsHandler(cat, cat, &fakeStore{})

	_, err := h.Handle(context.Background(), StudyCardsQuery{UserHandle: "alice", ProblemID: 999})
	assert.ErrorIs(t, err, shared.ErrProblemNotFound)
}

func TestStudyCards_AnonymousCallerGetsAllNew(t *testing.T) {
	cat := newFakeCatalog()
	cat.addUser(1, "alice")
	cat.addProblem(100, "Irregular verbs",
		catalog.Card{ID: 10, ProblemID: 100, Question: "go", Answer: "went"},
		catalog.Card{ID: 11, ProblemID: 100, Question: "eat", Answer: "ate"},
	)

	// Alice has grades; an anonymous session must not see them.
	store := &fakeStore{statuses: map[int64]progress.CardStatus{
		10: progress.CardStatusPerfect,
	}}

	h := NewStudyCardsHandler(cat, cat, store)

	result, err := h.Handle(context.Background(), StudyCardsQuery{UserHandle: "", ProblemID: 100})
	require.NoError(t, err)

	assert.Empty(t, result.UserHandle)
	require.Len(t, result.Cards, 2)
	for _, c := range result.Cards {
		assert.Equal(t, "new", c.Status)
	}
}

func TestStudyCards_CarriesCardImages(t *testing.T) {
	cat := newFakeCatalog()
	cat.addProblem(100, "Capitals",
		catalog.Card{ID: 10, ProblemID: 100, Question: "France", Answer: "Paris", ImageURL: "https://cdn.example/paris.jpg"},
		catalog.Card{ID: 11, ProblemID: 100, Question: "Chile", Answer: "Santiago"},
	)

	h := NewStudyCardsHandler(cat, cat, &fakeStore{})

	result, err := h.Handle(context.Background(), StudyCardsQuery{ProblemID: 100})
	require.NoError(t, err)

	require.Len(t, result.Cards, 2)
	assert.Equal(t, "https://cdn.example/paris.jpg", result.Cards[0].ImageURL)
	assert.Empty(t, result.Cards[1].ImageURL)
}

func TestStudyCards_Validation(t *testing.T) {
	cat := newFakeCatalog()
	h := NewStudyCardsHandler(cat, cat, &fakeStore{})

	_, err := h.Handle(context.Background(), StudyCardsQuery{UserHandle: "alice", ProblemID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	// A handle that is present but unknown still fails.
	cat.addProblem(100, "Irregular verbs")
	_, err = h.Handle(context.Background(), StudyCardsQuery{UserHandle: "nobody", ProblemID: 100})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}
