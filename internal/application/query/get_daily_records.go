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

// dailyWindow is how far back the daily report reaches.
const dailyWindow = 365 * 24 * time.Hour

func dailyRecordsCacheKey(userID int64) string {
	return fmt.Sprintf("report:%d:daily", userID)
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY RECORDS QUERY
// Tallies the user's card grades per status per UTC day over the past year,
// oldest day first. Days without activity are omitted from the result.
// ══════════════════════════════════════════════════════════════════════════════

// DailyRecordsQuery contains the parameters for the daily report.
type DailyRecordsQuery struct {
	// UserHandle is the public handle of the user.
	UserHandle string

	// Now overrides the reference time; zero means the current time.
	Now time.Time
}

// Validate checks the query parameters.
func (q DailyRecordsQuery) Validate() error {
	if strings.TrimSpace(q.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	return nil
}

// DailyRecordDTO is one day's grading activity broken down by status.
type DailyRecordDTO struct {
	// Date is the calendar day in YYYY-MM-DD form.
	Date string `json:"date"`

	Perfect   int `json:"perfect"`
	Vague     int `json:"vague"`
	Forgotten int `json:"forgotten"`
}

// DailyRecordsResult contains the whole daily report.
type DailyRecordsResult struct {
	UserHandle  string           `json:"userHandle"`
	Records     []DailyRecordDTO `json:"records"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// DailyRecordsHandler handles the DailyRecordsQuery.
type DailyRecordsHandler struct {
	users    catalog.UserDirectory
	reporter progress.Reporter
	cache    progress.ReportCache
}

// NewDailyRecordsHandler creates a new DailyRecordsHandler. cache may be nil.
func NewDailyRecordsHandler(
	users catalog.UserDirectory,
	reporter progress.Reporter,
	cache progress.ReportCache,
) *DailyRecordsHandler {
	return &DailyRecordsHandler{
		users:    users,
		reporter: reporter,
		cache:    cache,
	}
}

// Handle executes the daily records query.
func (h *DailyRecordsHandler) Handle(ctx context.Context, q DailyRecordsQuery) (*DailyRecordsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("daily_records: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, q.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("daily_records: failed to resolve user: %w", err)
	}

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, dailyRecordsCacheKey(user.ID)); err == nil && payload != nil {
			var result DailyRecordsResult
			if err := json.Unmarshal(payload, &result); err == nil {
				return &result, nil
			}
		}
	}

	now := q.Now
	if now.IsZero() {
		now = timeutil.Now()
	}
	to := timeutil.EndOfDay(now)
	from := timeutil.StartOfDay(now.Add(-dailyWindow))

	records, err := h.reporter.DailyRecords(ctx, user.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily_records: failed to aggregate: %w", err)
	}

	dtos := make([]DailyRecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, DailyRecordDTO{
			Date:      timeutil.FormatDateStr(r.Day),
			Perfect:   r.Counts.Perfect,
			Vague:     r.Counts.Vague,
			Forgotten: r.Counts.Forgotten,
		})
	}

	result := &DailyRecordsResult{
		UserHandle:  user.Handle,
		Records:     dtos,
		From:        timeutil.FormatDateStr(from),
		To:          timeutil.FormatDateStr(to),
		GeneratedAt: time.Now().UTC(),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = h.cache.Set(ctx, dailyRecordsCacheKey(user.ID), payload, reportCacheTTL)
		}
	}

	return result, nil
}
