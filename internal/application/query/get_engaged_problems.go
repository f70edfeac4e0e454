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

func engagedProblemsCacheKey(userID int64) string {
	return fmt.Sprintf("report:%d:engaged", userID)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGED PROBLEMS QUERY
// Lists the problems a user has liked or scrapped, for the my-page view.
// ══════════════════════════════════════════════════════════════════════════════

// EngagedProblemsQuery contains the parameters for the engagement listing.
type EngagedProblemsQuery struct {
	// UserHandle is the public handle of the user.
	UserHandle string
}

// Validate checks the query parameters.
func (q EngagedProblemsQuery) Validate() error {
	if strings.TrimSpace(q.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	return nil
}

// EngagedProblemDTO is one liked or scrapped problem.
type EngagedProblemDTO struct {
	ProblemID   int64    `json:"problemId"`
	Title       string   `json:"title"`
	AuthorName  string   `json:"authorName"`
	IsPublic    bool     `json:"isPublic"`
	IsLiked     bool     `json:"isLiked"`
	IsScrapped  bool     `json:"isScrapped"`
	TotalLikes  int      `json:"totalLikes"`
	TotalScraps int      `json:"totalScraps"`
	Tags        []TagDTO `json:"tags"`
}

// EngagedProblemsResult contains the whole engagement listing.
type EngagedProblemsResult struct {
	UserHandle  string              `json:"userHandle"`
	Liked       []EngagedProblemDTO `json:"liked"`
	Scrapped    []EngagedProblemDTO `json:"scrapped"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// EngagedProblemsHandler handles the EngagedProblemsQuery.
type EngagedProblemsHandler struct {
	users      catalog.UserDirectory
	categories catalog.CategoryCatalog
	reporter   progress.Reporter
	cache      progress.ReportCache
}

// NewEngagedProblemsHandler creates a new EngagedProblemsHandler. cache may
// be nil.
func NewEngagedProblemsHandler(
	users catalog.UserDirectory,
	categories catalog.CategoryCatalog,
	reporter progress.Reporter,
	cache progress.ReportCache,
) *EngagedProblemsHandler {
	return &EngagedProblemsHandler{
		users:      users,
		categories: categories,
		reporter:   reporter,
		cache:      cache,
	}
}

// Handle executes the engaged problems query.
func (h *EngagedProblemsHandler) Handle(ctx context.Context, q EngagedProblemsQuery) (*EngagedProblemsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("engaged_problems: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, q.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("engaged_problems: failed to resolve user: %w", err)
	}

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, engagedProblemsCacheKey(user.ID)); err == nil && payload != nil {
			var result EngagedProblemsResult
			if err := json.Unmarshal(payload, &result); err == nil {
				return &result, nil
			}
		}
	}

	rows, err := h.reporter.EngagedProblems(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("engaged_problems: failed to list problems: %w", err)
	}

	liked := make([]EngagedProblemDTO, 0)
	scrapped := make([]EngagedProblemDTO, 0)
	for _, row := range rows {
		tags, err := h.categories.TagsOf(ctx, row.ProblemID)
		if err != nil {
			return nil, fmt.Errorf("engaged_problems: failed to resolve tags: %w", err)
		}

		tagDTOs := make([]TagDTO, 0, len(tags))
		for _, t := range tags {
			tagDTOs = append(tagDTOs, TagDTO{Name: t.Name, ColorCode: t.ColorCode})
		}

		dto := EngagedProblemDTO{
			ProblemID:   row.ProblemID,
			Title:       row.Title,
			AuthorName:  row.AuthorName,
			IsPublic:    row.IsPublic,
			IsLiked:     row.IsLiked,
			IsScrapped:  row.IsScrapped,
			TotalLikes:  row.TotalLikes,
			TotalScraps: row.TotalScraps,
			Tags:        tagDTOs,
		}
		if row.IsLiked {
			liked = append(liked, dto)
		}
		if row.IsScrapped {
			scrapped = append(scrapped, dto)
		}
	}

	result := &EngagedProblemsResult{
		UserHandle:  user.Handle,
		Liked:       liked,
		Scrapped:    scrapped,
		GeneratedAt: time.Now().UTC(),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = h.cache.Set(ctx, engagedProblemsCacheKey(user.ID), payload, reportCacheTTL)
		}
	}

	return result, nil
}
