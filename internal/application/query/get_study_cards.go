package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDY CARDS QUERY
// Returns a problem's cards with the requesting user's status on each one,
// "new" for cards the user never graded. The handle is optional: anonymous
// callers get every card as "new". Served uncached: a study session needs
// to see the grade it just wrote.
// ══════════════════════════════════════════════════════════════════════════════

// StudyCardsQuery contains the parameters for the study card listing.
type StudyCardsQuery struct {
	// UserHandle is the public handle of the studying user, empty for an
	// anonymous session.
	UserHandle string

	// ProblemID is the problem being studied.
	ProblemID int64
}

// Validate checks the query parameters.
func (q StudyCardsQuery) Validate() error {
	if q.ProblemID <= 0 {
		return shared.NewDomainError("progress", "StudyCards", shared.ErrInvalidID, "problem id must be positive")
	}
	return nil
}

// StudyCardDTO is one card with the user's status for it.
type StudyCardDTO struct {
	CardID   int64  `json:"cardId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	ImageURL string `json:"imageUrl,omitempty"`
	Status   string `json:"status"`
}

// StudyCardsResult contains the whole card listing for a study session.
type StudyCardsResult struct {
	UserHandle string         `json:"userHandle"`
	ProblemID  int64          `json:"problemId"`
	Title      string         `json:"title"`
	Cards      []StudyCardDTO `json:"cards"`
}

// StudyCardsHandler handles the StudyCardsQuery.
type StudyCardsHandler struct {
	users catalog.UserDirectory
	cards catalog.CardCatalog
	store progress.Store
}

// NewStudyCardsHandler creates a new StudyCardsHandler.
func NewStudyCardsHandler(
	users catalog.UserDirectory,
	cards catalog.CardCatalog,
	store progress.Store,
) *StudyCardsHandler {
	return &StudyCardsHandler{
		users: users,
		cards: cards,
		store: store,
	}
}

// Handle executes the study cards query.
func (h *StudyCardsHandler) Handle(ctx context.Context, q StudyCardsQuery) (*StudyCardsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("study_cards: validation failed: %w", err)
	}

	problem, err := h.cards.GetProblem(ctx, q.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("study_cards: failed to resolve problem: %w", err)
	}

	cards, err := h.cards.CardsOf(ctx, q.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("study_cards: failed to list cards: %w", err)
	}

	handle := ""
	statuses := map[int64]progress.CardStatus{}
	if strings.TrimSpace(q.UserHandle) != "" {
		user, err := h.users.GetByHandle(ctx, q.UserHandle)
		if err != nil {
			return nil, fmt.Errorf("study_cards: failed to resolve user: %w", err)
		}
		handle = user.Handle

		statuses, err = h.store.GetCardStatuses(ctx, user.ID, q.ProblemID)
		if err != nil {
			return nil, fmt.Errorf("study_cards: failed to load statuses: %w", err)
		}
	}

	dtos := make([]StudyCardDTO, 0, len(cards))
	for _, card := range cards {
		status, ok := statuses[card.ID]
		if !ok {
			status = progress.CardStatusNew
		}
		dtos = append(dtos, StudyCardDTO{
			CardID:   card.ID,
			Question: card.Question,
			Answer:   card.Answer,
			ImageURL: card.ImageURL,
			Status:   status.String(),
		})
	}

	return &StudyCardsResult{
		UserHandle: handle,
		ProblemID:  problem.ID,
		Title:      problem.Title,
		Cards:      dtos,
	}, nil
}
