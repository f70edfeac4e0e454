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
// DELETE PROGRESS COMMAND
// Removes one user's study history for one problem: every card grade plus
// the problem row. Other users' rows and community totals for them stay put.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteProgressCommand contains the data to delete study history.
type DeleteProgressCommand struct {
	// UserHandle is the public handle of the owning user.
	UserHandle string

	// ProblemID is the problem whose history is removed.
	ProblemID int64
}

// Validate validates the command.
func (c DeleteProgressCommand) Validate() error {
	if strings.TrimSpace(c.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	if c.ProblemID <= 0 {
		return shared.NewDomainError("progress", "DeleteProgress", shared.ErrInvalidID, "problem id must be positive")
	}
	return nil
}

// DeleteProgressResult contains the outcome of a deletion.
type DeleteProgressResult struct {
	// UserID is the resolved internal user ID.
	UserID int64

	// ProblemID is the problem whose history was removed.
	ProblemID int64
}

// DeleteProgressHandler handles the DeleteProgressCommand.
type DeleteProgressHandler struct {
	users catalog.UserDirectory
	store progress.Store
	cache progress.ReportCache
}

// NewDeleteProgressHandler creates a new DeleteProgressHandler. cache may be
// nil.
func NewDeleteProgressHandler(
	users catalog.UserDirectory,
	store progress.Store,
	cache progress.ReportCache,
) *DeleteProgressHandler {
	return &DeleteProgressHandler{
		users: users,
		store: store,
		cache: cache,
	}
}

// Handle executes the delete progress command.
func (h *DeleteProgressHandler) Handle(ctx context.Context, cmd DeleteProgressCommand) (*DeleteProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_progress: validation failed: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, cmd.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("delete_progress: failed to resolve user: %w", err)
	}

	if err := h.store.DeleteUserProgress(ctx, user.ID, cmd.ProblemID); err != nil {
		return nil, fmt.Errorf("delete_progress: failed to delete: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.InvalidateUser(ctx, user.ID)
	}

	return &DeleteProgressResult{
		UserID:    user.ID,
		ProblemID: cmd.ProblemID,
	}, nil
}
