package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
	"github.com/mogwi-hub/mogwi-progress-hub/pkg/timeutil"
)

// weeklyWindowWeeks is how many Monday-to-Sunday weeks the weekly report
// covers, the current week included.
const weeklyWindowWeeks = 5

func weeklyRecordsCacheKey(userID int64) string {
	return fmt.Sprintf("report:%d:weekly", userID)
}

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY RECORDS QUERY
// Tallies the user's card grades per status per week for the five most
// recent Monday-to-Sunday weeks, oldest week first. Every week appears in
// the result, zero counts included.
// ══════════════════════════════════════════════════════════════════════════════

// WeeklyRecordsQuery contains the parameters for the weekly report.
type WeeklyRecordsQuery struct {
	// UserHandle is the public handle of the user.
	UserHandle string

	// Now overrides the reference time; zero means the current time.
	Now time.Time
}

// Validate checks the query parameters.
func (q WeeklyRecordsQuery) Validate() error {
	if strings.TrimSpace(q.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	return nil
}

// WeeklyRecordDTO is one week's grading activity broken down by status.
type WeeklyRecordDTO struct {
	// WeekStart is the week's Monday in YYYY-MM-DD form.
	WeekStart string `json:"weekStart"`

	// WeekEnd is the week's Sunday in YYYY-MM-DD form.
	WeekEnd string `json:"weekEnd"`

	Perfect   int `json:"perfect"`
	Vague     int `json:"vague"`
	Forgotten int `json:"forgotten"`

	// Total is the number of cards graded inside the week across all
	// statuses.
	Total int `json:"total"`
}

// WeeklyRecordsResult contains the whole weekly report.
type WeeklyRecordsResult struct {
	UserHandle  string            `json:"userHandle"`
	Records     []WeeklyRecordDTO `json:"records"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// WeeklyRecordsHandler handles the WeeklyRecordsQuery.
type WeeklyRecordsHandler struct {
	users    catalog.UserDirectory
	reporter progress.Reporter
	cache    progress.ReportCache
}

// NewWeeklyRecordsHandler creates a new WeeklyRecordsHandler. cache may be
// nil.
func NewWeeklyRecordsHandler(
	users catalog.UserDirectory,
	reporter progress.Reporter,
	cache progress.ReportCache,
) *WeeklyRecordsHandler {
	return &WeeklyRecordsHandler{
		users:    users,
		reporter: reporter,
		cache:    cache,
	}
}

// Handle executes the weekly records query.
func (h *WeeklyRecordsHandler) Handle(ctx context.Context, q WeeklyRecordsQuery) (*WeeklyRecordsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("weekly_records: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, q.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("weekly_records: failed to resolve user: %w", err)
	}

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, weeklyRecordsCacheKey(user.ID)); err == nil && payload != nil {
			var result WeeklyRecordsResult
			if err := json.Unmarshal(payload, &result); err == nil {
				return &result, nil
			}
		}
	}

	now := q.Now
	if now.IsZero() {
		now = timeutil.Now()
	}

	weeks := timeutil.RecentWeeks(now, weeklyWindowWeeks)
	records := make([]WeeklyRecordDTO, 0, len(weeks))
	for _, w := range weeks {
		counts, err := h.reporter.CountGradedBetween(ctx, user.ID, w.Start, w.End)
		if err != nil {
			return nil, fmt.Errorf("weekly_records: failed to count week %s: %w",
				timeutil.FormatDateStr(w.Start), err)
		}
		records = append(records, WeeklyRecordDTO{
			WeekStart: timeutil.FormatDateStr(w.Start),
			WeekEnd:   timeutil.FormatDateStr(w.End),
			Perfect:   counts.Perfect,
			Vague:     counts.Vague,
			Forgotten: counts.Forgotten,
			Total:     counts.Total(),
		})
	}

	result := &WeeklyRecordsResult{
		UserHandle:  user.Handle,
		Records:     records,
		GeneratedAt: time.Now().UTC(),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = h.cache.Set(ctx, weeklyRecordsCacheKey(user.ID), payload, reportCacheTTL)
		}
	}

	return result, nil
}
