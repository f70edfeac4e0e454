package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// The fake reporter serves canned aggregates and records the windows it was
// asked for, so tests can assert both the payloads and the query shapes.
// ══════════════════════════════════════════════════════════════════════════════

type fakeCatalog struct {
	users    map[string]*catalog.User
	problems map[int64]*catalog.Problem
	cards    map[int64][]catalog.Card
	tags     map[int64][]catalog.Tag
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		users:    make(map[string]*catalog.User),
		problems: make(map[int64]*catalog.Problem),
		cards:    make(map[int64][]catalog.Card),
		tags:     make(map[int64][]catalog.Tag),
	}
}

func (f *fakeCatalog) addUser(id int64, handle string) {
	f.users[handle] = &catalog.User{ID: id, Handle: handle, Nickname: handle}
}

func (f *fakeCatalog) addProblem(id int64, title string, cards ...catalog.Card) {
	f.problems[id] = &catalog.Problem{ID: id, Title: title, CardCount: len(cards)}
	f.cards[id] = cards
}

func (f *fakeCatalog) GetByHandle(_ context.Context, handle string) (*catalog.User, error) {
	u, ok := f.users[handle]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeCatalog) GetCard(_ context.Context, cardID int64) (*catalog.Card, error) {
	for _, cards := range f.cards {
		for _, c := range cards {
			if c.ID == cardID {
				return &c, nil
			}
		}
	}
	return nil, shared.ErrCardNotFound
}

func (f *fakeCatalog) CardsOf(_ context.Context, problemID int64) ([]catalog.Card, error) {
	if _, ok := f.problems[problemID]; !ok {
		return nil, shared.ErrProblemNotFound
	}
	return f.cards[problemID], nil
}

func (f *fakeCatalog) GetProblem(_ context.Context, problemID int64) (*catalog.Problem, error) {
	p, ok := f.problems[problemID]
	if !ok {
		return nil, shared.ErrProblemNotFound
	}
	return p, nil
}

func (f *fakeCatalog) TagsOf(_ context.Context, problemID int64) ([]catalog.Tag, error) {
	return f.tags[problemID], nil
}

type window struct {
	from time.Time
	to   time.Time
}

type fakeReporter struct {
	counts       progress.StatusCounts
	details      []progress.ProblemDetailRow
	daily        []progress.DailyRecord
	engaged      []progress.EngagedProblemRow
	weekCounts   map[string]progress.StatusCounts
	askedWindows []window
	summaryCalls int
}

func newFakeReporter() *fakeReporter {
	return &fakeReporter{weekCounts: make(map[string]progress.StatusCounts)}
}

func (f *fakeReporter) OverallSummary(_ context.Context, _ int64) (progress.StatusCounts, error) {
	f.summaryCalls++
	return f.counts, nil
}

func (f *fakeReporter) ProblemDetails(_ context.Context, _ int64) ([]progress.ProblemDetailRow, error) {
	return f.details, nil
}

func (f *fakeReporter) DailyRecords(_ context.Context, _ int64, from, to time.Time) ([]progress.DailyRecord, error) {
	f.askedWindows = append(f.askedWindows, window{from: from, to: to})
	return f.daily, nil
}

func (f *fakeReporter) CountGradedBetween(_ context.Context, _ int64, from, to time.Time) (progress.StatusCounts, error) {
	f.askedWindows = append(f.askedWindows, window{from: from, to: to})
	return f.weekCounts[from.Format("2006-01-02")], nil
}

func (f *fakeReporter) EngagedProblems(_ context.Context, _ int64) ([]progress.EngagedProblemRow, error) {
	return f.engaged, nil
}

type fakeCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	gets    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.gets = append(f.gets, key)
	return f.entries[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	f.entries[key] = payload
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) InvalidateUser(_ context.Context, userID int64) error {
	prefix := fmt.Sprintf("report:%d:", userID)
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

// fakeStore only serves the read paths the queries need.
type fakeStore struct {
	statuses map[int64]progress.CardStatus
}

func (f *fakeStore) RecordCardStatus(_ context.Context, _ *progress.CardProgress, _ int) (progress.ProblemStatus, error) {
	return "", nil
}

func (f *fakeStore) GetCardStatuses(_ context.Context, _, _ int64) (map[int64]progress.CardStatus, error) {
	return f.statuses, nil
}

func (f *fakeStore) EnsureProblemProgress(_ context.Context, _, _ int64) (*progress.ProblemProgress, bool, error) {
	return nil, false, nil
}

func (f *fakeStore) GetProblemProgress(_ context.Context, _, _ int64) (*progress.ProblemProgress, error) {
	return nil, shared.ErrProblemProgressNotFound
}

func (f *fakeStore) MarkOngoing(_ context.Context, _, _ int64) (*progress.ProblemProgress, error) {
	return nil, nil
}

func (f *fakeStore) Toggle(_ context.Context, _, _ int64, _ progress.EngagementField) (progress.ToggleResult, error) {
	return progress.ToggleResult{}, nil
}

func (f *fakeStore) DeleteUserProgress(_ context.Context, _, _ int64) error {
	return nil
}
