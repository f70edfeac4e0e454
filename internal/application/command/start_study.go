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
// START STUDY COMMAND
// Opens a study session on a problem. Creates the user's progress row when
// none exists; an existing row keeps its derived status untouched, so
// re-entering a deck never discards earlier grades.
// ══════════════════════════════════════════════════════════════════════════════

// StartStudyCommand contains the data to open a study session.
type StartStudyCommand struct {
	// UserHandle is the public handle of the studying user.
	UserHandle string

	// ProblemID is the problem being studied.
	ProblemID int64
}

// Validate validates the command.
func (c StartStudyCommand) Validate() error {
	if strings.TrimSpace(c.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	if c.ProblemID <= 0 {
		return shared.NewDomainError("progress", "StartStudy", shared.ErrInvalidID, "problem id must be positive")
	}
	return nil
}

// StartStudyResult contains the outcome of opening a study session.
type StartStudyResult struct {
	// UserID is the resolved internal user ID.
	UserID int64

	// ProblemID is the studied problem.
	ProblemID int64

	// Status is the user's current status on the problem.
	Status progress.ProblemStatus

	// FirstEntry reports whether the progress row was created by this call.
	FirstEntry bool
}

// StartStudyHandler handles the StartStudyCommand.
type StartStudyHandler struct {
	users catalog.UserDirectory
	cards catalog.CardCatalog
	store progress.Store
}

// NewStartStudyHandler creates a new StartStudyHandler.
func NewStartStudyHandler(
	users catalog.UserDirectory,
	cards catalog.CardCatalog,
	store progress.Store,
) *StartStudyHandler {
	return &StartStudyHandler{
		users: users,
		cards: cards,
		store: store,
	}
}

// Handle executes the start study command.
func (h *StartStudyHandler) Handle(ctx context.Context, cmd StartStudyCommand) (*StartStudyResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("start_study: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, cmd.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("start_study: failed to resolve user: %w", err)
	}

	if _, err := h.cards.GetProblem(ctx, cmd.ProblemID); err != nil {
		return nil, fmt.Errorf("start_study: failed to resolve problem: %w", err)
	}

	row, created, err := h.store.EnsureProblemProgress(ctx, user.ID, cmd.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("start_study: failed to ensure progress: %w", err)
	}

	return &StartStudyResult{
		UserID:     user.ID,
		ProblemID:  cmd.ProblemID,
		Status:     row.Status,
		FirstEntry: created,
	}, nil
}
