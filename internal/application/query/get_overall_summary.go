// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
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
)

// reportCacheTTL bounds how stale a cached report payload may get.
const reportCacheTTL = 5 * time.Minute

// summaryCacheKey builds the cache key for a user's overall summary.
// Keys are namespaced per user so invalidation can sweep "report:{id}:*".
func summaryCacheKey(userID int64) string {
	return fmt.Sprintf("report:%d:summary", userID)
}

// ══════════════════════════════════════════════════════════════════════════════
// OVERALL SUMMARY QUERY
// Tallies the user's graded cards per status across every problem. Counts are
// computed from the card rows at read time, never from stored counters.
// ══════════════════════════════════════════════════════════════════════════════

// OverallSummaryQuery contains the parameters for the overall summary.
type OverallSummaryQuery struct {
	// UserHandle is the public handle of the user.
	UserHandle string
}

// Validate checks the query parameters.
func (q OverallSummaryQuery) Validate() error {
	if strings.TrimSpace(q.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	return nil
}

// OverallSummaryDTO is the wire form of the overall summary.
type OverallSummaryDTO struct {
	// UserHandle echoes the requested handle.
	UserHandle string `json:"userHandle"`

	// Perfect is the number of cards graded perfect.
	Perfect int `json:"perfectCount"`

	// Vague is the number of cards graded vague.
	Vague int `json:"vagueCount"`

	// Forgotten is the number of cards graded forgotten.
	Forgotten int `json:"forgottenCount"`

	// Total is the number of graded cards overall.
	Total int `json:"totalCount"`

	// GeneratedAt is when the summary was computed.
	GeneratedAt time.Time `json:"generatedAt"`
}

// OverallSummaryHandler handles the OverallSummaryQuery.
type OverallSummaryHandler struct {
	users    catalog.UserDirectory
	reporter progress.Reporter
	cache    progress.ReportCache
}

// NewOverallSummaryHandler creates a new OverallSummaryHandler. cache may be
// nil when report caching is disabled.
func NewOverallSummaryHandler(
	users catalog.UserDirectory,
	reporter progress.Reporter,
	cache progress.ReportCache,
) *OverallSummaryHandler {
	return &OverallSummaryHandler{
		users:    users,
		reporter: reporter,
		cache:    cache,
	}
}

// Handle executes the overall summary query.
func (h *OverallSummaryHandler) Handle(ctx context.Context, q OverallSummaryQuery) (*OverallSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("overall_summary: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, q.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("overall_summary: failed to resolve user: %w", err)
	}

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, summaryCacheKey(user.ID)); err == nil && payload != nil {
			var dto OverallSummaryDTO
			if err := json.Unmarshal(payload, &dto); err == nil {
				return &dto, nil
			}
		}
	}

	counts, err := h.reporter.OverallSummary(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("overall_summary: failed to aggregate: %w", err)
	}

	dto := &OverallSummaryDTO{
		UserHandle:  user.Handle,
		Perfect:     counts.Perfect,
		Vague:       counts.Vague,
		Forgotten:   counts.Forgotten,
		Total:       counts.Total(),
		GeneratedAt: time.Now().UTC(),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(dto); err == nil {
			_ = h.cache.Set(ctx, summaryCacheKey(user.ID), payload, reportCacheTTL)
		}
	}

	return dto, nil
}
