package command

import (
	"context"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// The fake store mirrors the persistence contract, including the rollup on
// every grade, so handler tests exercise full write paths without a database.
// ══════════════════════════════════════════════════════════════════════════════

type fakeCatalog struct {
	users    map[string]*catalog.User
	cards    map[int64]*catalog.Card
	problems map[int64]*catalog.Problem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		users:    make(map[string]*catalog.User),
		cards:    make(map[int64]*catalog.Card),
		problems: make(map[int64]*catalog.Problem),
	}
}

func (f *fakeCatalog) addUser(id int64, handle string) {
	f.users[handle] = &catalog.User{ID: id, Handle: handle, Nickname: handle, CreatedAt: time.Now().UTC()}
}

func (f *fakeCatalog) addProblem(id int64, title string, cardIDs ...int64) {
	f.problems[id] = &catalog.Problem{ID: id, Title: title, CardCount: len(cardIDs), CreatedAt: time.Now().UTC()}
	for _, cardID := range cardIDs {
		f.cards[cardID] = &catalog.Card{ID: cardID, ProblemID: id}
	}
}

func (f *fakeCatalog) GetByHandle(_ context.Context, handle string) (*catalog.User, error) {
	u, ok := f.users[handle]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeCatalog) GetCard(_ context.Context, cardID int64) (*catalog.Card, error) {
	c, ok := f.cards[cardID]
	if !ok {
		return nil, shared.ErrCardNotFound
	}
	return c, nil
}

func (f *fakeCatalog) CardsOf(_ context.Context, problemID int64) ([]catalog.Card, error) {
	if _, ok := f.problems[problemID]; !ok {
		return nil, shared.ErrProblemNotFound
	}
	var cards []catalog.Card
	for _, c := range f.cards {
		if c.ProblemID == problemID {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

func (f *fakeCatalog) GetProblem(_ context.Context, problemID int64) (*catalog.Problem, error) {
	p, ok := f.problems[problemID]
	if !ok {
		return nil, shared.ErrProblemNotFound
	}
	return p, nil
}

func (f *fakeCatalog) TagsOf(_ context.Context, _ int64) ([]catalog.Tag, error) {
	return []catalog.Tag{}, nil
}

type progressKey struct {
	userID    int64
	problemID int64
}

type cardKey struct {
	userID int64
	cardID int64
}

type fakeStore struct {
	cardRows    map[cardKey]*progress.CardProgress
	problemRows map[progressKey]*progress.ProblemProgress
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cardRows:    make(map[cardKey]*progress.CardProgress),
		problemRows: make(map[progressKey]*progress.ProblemProgress),
	}
}

func (f *fakeStore) RecordCardStatus(ctx context.Context, entry *progress.CardProgress, declaredCards int) (progress.ProblemStatus, error) {
	key := cardKey{userID: entry.UserID, cardID: entry.CardID}
	if existing, ok := f.cardRows[key]; ok {
		if err := existing.Grade(entry.Status); err != nil {
			return "", err
		}
	} else {
		clone := *entry
		f.cardRows[key] = &clone
	}

	statuses, err := f.GetCardStatuses(ctx, entry.UserID, entry.ProblemID)
	if err != nil {
		return "", err
	}
	graded := make([]progress.CardStatus, 0, len(statuses))
	for _, s := range statuses {
		graded = append(graded, s)
	}

	rolled, err := progress.RollupWithDeclared(graded, declaredCards)
	if err != nil {
		return "", err
	}

	row, _, err := f.EnsureProblemProgress(ctx, entry.UserID, entry.ProblemID)
	if err != nil {
		return "", err
	}
	if err := row.ApplyRollup(rolled); err != nil {
		return "", err
	}
	return rolled, nil
}

func (f *fakeStore) GetCardStatuses(_ context.Context, userID, problemID int64) (map[int64]progress.CardStatus, error) {
	out := make(map[int64]progress.CardStatus)
	for _, row := range f.cardRows {
		if row.UserID == userID && row.ProblemID == problemID {
			out[row.CardID] = row.Status
		}
	}
	return out, nil
}

func (f *fakeStore) EnsureProblemProgress(_ context.Context, userID, problemID int64) (*progress.ProblemProgress, bool, error) {
	key := progressKey{userID: userID, problemID: problemID}
	if row, ok := f.problemRows[key]; ok {
		return row, false, nil
	}
	row, err := progress.NewProblemProgress(userID, problemID)
	if err != nil {
		return nil, false, err
	}
	f.problemRows[key] = row
	return row, true, nil
}

func (f *fakeStore) GetProblemProgress(_ context.Context, userID, problemID int64) (*progress.ProblemProgress, error) {
	row, ok := f.problemRows[progressKey{userID: userID, problemID: problemID}]
	if !ok {
		return nil, shared.ErrProblemProgressNotFound
	}
	return row, nil
}

func (f *fakeStore) MarkOngoing(_ context.Context, userID, problemID int64) (*progress.ProblemProgress, error) {
	row, ok := f.problemRows[progressKey{userID: userID, problemID: problemID}]
	if !ok {
		return nil, shared.ErrProblemProgressNotFound
	}
	if err := row.ApplyRollup(progress.ProblemStatusOngoing); err != nil {
		return nil, err
	}
	return row, nil
}

func (f *fakeStore) Toggle(ctx context.Context, userID, problemID int64, field progress.EngagementField) (progress.ToggleResult, error) {
	row, _, err := f.EnsureProblemProgress(ctx, userID, problemID)
	if err != nil {
		return progress.ToggleResult{}, err
	}
	value, err := row.ToggleField(field)
	if err != nil {
		return progress.ToggleResult{}, err
	}

	likes, scraps := 0, 0
	for key, r := range f.problemRows {
		if key.problemID != problemID {
			continue
		}
		if r.IsLiked {
			likes++
		}
		if r.IsScrapped {
			scraps++
		}
	}

	return progress.ToggleResult{
		Field:       field,
		NewValue:    value,
		TotalLikes:  likes,
		TotalScraps: scraps,
	}, nil
}

func (f *fakeStore) DeleteUserProgress(_ context.Context, userID, problemID int64) error {
	for key, row := range f.cardRows {
		if row.UserID == userID && row.ProblemID == problemID {
			delete(f.cardRows, key)
		}
	}
	delete(f.problemRows, progressKey{userID: userID, problemID: problemID})
	return nil
}

type fakeCache struct {
	entries       map[string][]byte
	invalidations []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return f.entries[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	f.entries[key] = payload
	return nil
}

func (f *fakeCache) InvalidateUser(_ context.Context, userID int64) error {
	f.invalidations = append(f.invalidations, userID)
	return nil
}
