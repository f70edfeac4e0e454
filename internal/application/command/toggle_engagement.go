package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE ENGAGEMENT COMMAND
// Flips a user's like or scrap flag on a problem. The flip and the fresh
// community totals come from one atomic statement, so concurrent toggles by
// the same user can never lose an update.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleEngagementCommand contains the data to flip an engagement flag.
type ToggleEngagementCommand struct {
	// UserHandle is the public handle of the toggling user.
	UserHandle string

	// ProblemID is the problem whose flag is flipped.
	ProblemID int64

	// Field is the wire name of the flag (isLiked or isScrapped).
	Field string
}

// Validate validates the command.
func (c ToggleEngagementCommand) Validate() error {
	if strings.TrimSpace(c.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	if c.ProblemID <= 0 {
		return shared.NewDomainError("progress", "Toggle", shared.ErrInvalidID, "problem id must be positive")
	}
	if _, err := progress.ParseEngagementField(c.Field); err != nil {
		return err
	}
	return nil
}

// ToggleEngagementResult contains the outcome of flipping a flag.
type ToggleEngagementResult struct {
	// UserID is the resolved internal user ID.
	UserID int64

	// ProblemID is the toggled problem.
	ProblemID int64

	// Field is the flipped flag.
	Field progress.EngagementField

	// NewValue is the flag's value after the flip.
	NewValue bool

	// TotalLikes is the problem's like count across all users after the flip.
	TotalLikes int

	// TotalScraps is the problem's scrap count across all users after the flip.
	TotalScraps int
}

// ToggleEngagementHandler handles the ToggleEngagementCommand.
type ToggleEngagementHandler struct {
	users catalog.UserDirectory
	cards catalog.CardCatalog
	store progress.Store
	cache progress.ReportCache
}

// NewToggleEngagementHandler creates a new ToggleEngagementHandler. cache may
// be nil.
func NewToggleEngagementHandler(
	users catalog.UserDirectory,
	cards catalog.CardCatalog,
	store progress.Store,
	cache progress.ReportCache,
) *ToggleEngagementHandler {
	return &ToggleEngagementHandler{
		users: users,
		cards: cards,
		store: store,
		cache: cache,
	}
}

// Handle executes the toggle engagement command.
func (h *ToggleEngagementHandler) Handle(ctx context.Context, cmd ToggleEngagementCommand) (*ToggleEngagementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("toggle_engagement: validation failed: %w", err)
	}

	field, err := progress.ParseEngagementField(cmd.Field)
	if err != nil {
		return nil, fmt.Errorf("toggle_engagement: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, cmd.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("toggle_engagement: failed to resolve user: %w", err)
	}

	if _, err := h.cards.GetProblem(ctx, cmd.ProblemID); err != nil {
		return nil, fmt.Errorf("toggle_engagement: failed to resolve problem: %w", err)
	}

	res, err := h.store.Toggle(ctx, user.ID, cmd.ProblemID, field)
	if err != nil {
		return nil, fmt.Errorf("toggle_engagement: failed to toggle: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.InvalidateUser(ctx, user.ID)
	}

	return &ToggleEngagementResult{
		UserID:      user.ID,
		ProblemID:   cmd.ProblemID,
		Field:       res.Field,
		NewValue:    res.NewValue,
		TotalLikes:  res.TotalLikes,
		TotalScraps: res.TotalScraps,
	}, nil
}
