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

func problemDetailsCacheKey(userID int64) string {
	return fmt.Sprintf("report:%d:problems", userID)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROBLEM DETAILS QUERY
// Lists the problems the user has any progress on, most recently touched
// first. Each entry carries the study status with per-status card tallies
// alongside the engagement flags and community-wide totals.
// ══════════════════════════════════════════════════════════════════════════════

// ProblemDetailsQuery contains the parameters for the problem listing.
type ProblemDetailsQuery struct {
	// UserHandle is the public handle of the user.
	UserHandle string
}

// Validate checks the query parameters.
func (q ProblemDetailsQuery) Validate() error {
	if strings.TrimSpace(q.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	return nil
}

// TagDTO is the wire form of a category tag.
type TagDTO struct {
	Name      string `json:"tagName"`
	ColorCode string `json:"colorCode"`
}

// ProblemDetailDTO is one problem in the listing.
type ProblemDetailDTO struct {
	ProblemID      int64     `json:"problemId"`
	Title          string    `json:"title"`
	AuthorName     string    `json:"authorName"`
	Status         string    `json:"status"`
	IsLiked        bool      `json:"isLiked"`
	IsScrapped     bool      `json:"isScrapped"`
	PerfectCards   int       `json:"perfectCards"`
	VagueCards     int       `json:"vagueCards"`
	ForgottenCards int       `json:"forgottenCards"`
	TotalLearned   int       `json:"totalLearnedCards"`
	TotalLikes     int       `json:"totalLikes"`
	TotalScraps    int       `json:"totalScraps"`
	CardCount      int       `json:"cardCount"`
	Tags           []TagDTO  `json:"tags"`
	LastTouched    time.Time `json:"lastTouched"`
}

// ProblemDetailsResult contains the full listing.
type ProblemDetailsResult struct {
	UserHandle  string             `json:"userHandle"`
	Problems    []ProblemDetailDTO `json:"problems"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// ProblemDetailsHandler handles the ProblemDetailsQuery.
type ProblemDetailsHandler struct {
	users      catalog.UserDirectory
	categories catalog.CategoryCatalog
	reporter   progress.Reporter
	cache      progress.ReportCache
}

// NewProblemDetailsHandler creates a new ProblemDetailsHandler. cache may be
// nil.
func NewProblemDetailsHandler(
	users catalog.UserDirectory,
	categories catalog.CategoryCatalog,
	reporter progress.Reporter,
	cache progress.ReportCache,
) *ProblemDetailsHandler {
	return &ProblemDetailsHandler{
		users:      users,
		categories: categories,
		reporter:   reporter,
		cache:      cache,
	}
}

// Handle executes the problem details query.
func (h *ProblemDetailsHandler) Handle(ctx context.Context, q ProblemDetailsQuery) (*ProblemDetailsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("problem_details: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, q.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("problem_details: failed to resolve user: %w", err)
	}

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, problemDetailsCacheKey(user.ID)); err == nil && payload != nil {
			var result ProblemDetailsResult
			if err := json.Unmarshal(payload, &result); err == nil {
				return &result, nil
			}
		}
	}

	rows, err := h.reporter.ProblemDetails(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("problem_details: failed to list problems: %w", err)
	}

	problems := make([]ProblemDetailDTO, 0, len(rows))
	for _, row := range rows {
		tags, err := h.categories.TagsOf(ctx, row.ProblemID)
		if err != nil {
			return nil, fmt.Errorf("problem_details: failed to resolve tags: %w", err)
		}

		tagDTOs := make([]TagDTO, 0, len(tags))
		for _, t := range tags {
			tagDTOs = append(tagDTOs, TagDTO{Name: t.Name, ColorCode: t.ColorCode})
		}

		problems = append(problems, ProblemDetailDTO{
			ProblemID:      row.ProblemID,
			Title:          row.Title,
			AuthorName:     row.AuthorName,
			Status:         row.Status.String(),
			IsLiked:        row.IsLiked,
			IsScrapped:     row.IsScrapped,
			PerfectCards:   row.Counts.Perfect,
			VagueCards:     row.Counts.Vague,
			ForgottenCards: row.Counts.Forgotten,
			TotalLearned:   row.Counts.Total(),
			TotalLikes:     row.TotalLikes,
			TotalScraps:    row.TotalScraps,
			CardCount:      row.CardCount,
			Tags:           tagDTOs,
			LastTouched:    row.LastTouched,
		})
	}

	result := &ProblemDetailsResult{
		UserHandle:  user.Handle,
		Problems:    problems,
		GeneratedAt: time.Now().UTC(),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = h.cache.Set(ctx, problemDetailsCacheKey(user.ID), payload, reportCacheTTL)
		}
	}

	return result, nil
}
