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
// MARK ONGOING COMMAND
// Explicitly moves an existing problem row into "ongoing" for a user. Marking
// a problem the user has never opened is NotFound; clients start a problem
// through StartStudy first.
// ══════════════════════════════════════════════════════════════════════════════

// MarkOngoingCommand contains the data to mark a problem ongoing.
type MarkOngoingCommand struct {
	// UserHandle is the public handle of the studying user.
	UserHandle string

	// ProblemID is the problem to mark.
	ProblemID int64
}

// Validate validates the command.
func (c MarkOngoingCommand) Validate() error {
	if strings.TrimSpace(c.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	if c.ProblemID <= 0 {
		return shared.NewDomainError("progress", "MarkOngoing", shared.ErrInvalidID, "problem id must be positive")
	}
	return nil
}

// MarkOngoingResult contains the outcome of marking a problem ongoing.
type MarkOngoingResult struct {
	// UserID is the resolved internal user ID.
	UserID int64

	// ProblemID is the marked problem.
	ProblemID int64

	// Status is the user's status on the problem after the mark.
	Status progress.ProblemStatus
}

// MarkOngoingHandler handles the MarkOngoingCommand.
type MarkOngoingHandler struct {
	users catalog.UserDirectory
	cards catalog.CardCatalog
	store progress.Store
	cache progress.ReportCache
}

// NewMarkOngoingHandler creates a new MarkOngoingHandler. cache may be nil.
func NewMarkOngoingHandler(
	users catalog.UserDirectory,
	cards catalog.CardCatalog,
	store progress.Store,
	cache progress.ReportCache,
) *MarkOngoingHandler {
	return &MarkOngoingHandler{
		users: users,
		cards: cards,
		store: store,
		cache: cache,
	}
}

// Handle executes the mark ongoing command.
func (h *MarkOngoingHandler) Handle(ctx context.Context, cmd MarkOngoingCommand) (*MarkOngoingResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("mark_ongoing: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, cmd.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("mark_ongoing: failed to resolve user: %w", err)
	}

	if _, err := h.cards.GetProblem(ctx, cmd.ProblemID); err != nil {
		return nil, fmt.Errorf("mark_ongoing: failed to resolve problem: %w", err)
	}

	row, err := h.store.MarkOngoing(ctx, user.ID, cmd.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("mark_ongoing: failed to mark progress: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.InvalidateUser(ctx, user.ID)
	}

	return &MarkOngoingResult{
		UserID:    user.ID,
		ProblemID: cmd.ProblemID,
		Status:    row.Status,
	}, nil
}
