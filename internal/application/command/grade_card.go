// Package command contains write operations (CQRS - Commands).
package command

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
// GRADE CARD COMMAND
// Records how well a user remembered a card and rolls the problem status up
// from the full card set in the same transaction.
// ══════════════════════════════════════════════════════════════════════════════

// GradeCardCommand contains the data to grade one card.
type GradeCardCommand struct {
	// UserHandle is the public handle of the grading user.
	UserHandle string

	// CardID is the card being graded.
	CardID int64

	// Status is the requested grade in wire form (perfect, vague, forgotten).
	Status string
}

// Validate validates the command.
func (c GradeCardCommand) Validate() error {
	if strings.TrimSpace(c.UserHandle) == "" {
		return shared.ErrEmptyUserHandle
	}
	if c.CardID <= 0 {
		return shared.NewDomainError("progress", "GradeCard", shared.ErrInvalidID, "card id must be positive")
	}
	if _, err := progress.ParseCardStatus(c.Status); err != nil {
		return err
	}
	return nil
}

// GradeCardResult contains the outcome of grading a card.
type GradeCardResult struct {
	// UserID is the resolved internal user ID.
	UserID int64

	// CardID is the graded card.
	CardID int64

	// ProblemID is the problem the card belongs to.
	ProblemID int64

	// CardStatus is the grade now stored for the card.
	CardStatus progress.CardStatus

	// ProblemStatus is the problem's rolled-up status after the grade.
	ProblemStatus progress.ProblemStatus

	// RecordedAt is when the grade was recorded.
	RecordedAt time.Time
}

// GradeCardHandler handles the GradeCardCommand.
type GradeCardHandler struct {
	users catalog.UserDirectory
	cards catalog.CardCatalog
	store progress.Store
	cache progress.ReportCache
}

// NewGradeCardHandler creates a new GradeCardHandler. cache may be nil when
// report caching is disabled.
func NewGradeCardHandler(
	users catalog.UserDirectory,
	cards catalog.CardCatalog,
	store progress.Store,
	cache progress.ReportCache,
) *GradeCardHandler {
	return &GradeCardHandler{
		users: users,
		cards: cards,
		store: store,
		cache: cache,
	}
}

// Handle executes the grade card command.
func (h *GradeCardHandler) Handle(ctx context.Context, cmd GradeCardCommand) (*GradeCardResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("grade_card: validation failed: %w", err)
	}

	status, err := progress.ParseCardStatus(cmd.Status)
	if err != nil {
		return nil, fmt.Errorf("grade_card: %w", err)
	}

	user, err := h.users.GetByHandle(ctx, cmd.UserHandle)
	if err != nil {
		return nil, fmt.Errorf("grade_card: failed to resolve user: %w", err)
	}

	card, err := h.cards.GetCard(ctx, cmd.CardID)
	if err != nil {
		return nil, fmt.Errorf("grade_card: failed to resolve card: %w", err)
	}

	problem, err := h.cards.GetProblem(ctx, card.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("grade_card: failed to resolve problem: %w", err)
	}

	entry, err := progress.NewCardProgress(user.ID, card.ID, card.ProblemID, status)
	if err != nil {
		return nil, fmt.Errorf("grade_card: %w", err)
	}

	problemStatus, err := h.store.RecordCardStatus(ctx, entry, problem.CardCount)
	if err != nil {
		return nil, fmt.Errorf("grade_card: failed to record status: %w", err)
	}

	if h.cache != nil {
		// Stale reports are tolerable; a failed invalidation is not a failed grade.
		_ = h.cache.InvalidateUser(ctx, user.ID)
	}

	return &GradeCardResult{
		UserID:        user.ID,
		CardID:        card.ID,
		ProblemID:     card.ProblemID,
		CardStatus:    status,
		ProblemStatus: problemStatus,
		RecordedAt:    entry.UpdatedAt,
	}, nil
}
