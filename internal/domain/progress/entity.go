package progress

import (
	"fmt"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// CardProgress is one user's memorization state for one card.
// At most one row exists per (user, card) pair.
type CardProgress struct {
	// UserID identifies the owning user.
	UserID int64

	// CardID identifies the card.
	CardID int64

	// ProblemID identifies the problem the card belongs to. Denormalized so
	// rollups and reports never need a join through the card catalog.
	ProblemID int64

	// Status is the current memorization grade.
	Status CardStatus

	// CreatedAt is when the user first graded this card.
	CreatedAt time.Time

	// UpdatedAt is when the grade last changed.
	UpdatedAt time.Time
}

// NewCardProgress creates a graded card progress entry with validation.
func NewCardProgress(userID, cardID, problemID int64, status CardStatus) (*CardProgress, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("progress", "NewCardProgress", shared.ErrInvalidID, "user id must be positive")
	}
	if cardID <= 0 {
		return nil, shared.NewDomainError("progress", "NewCardProgress", shared.ErrInvalidID, "card id must be positive")
	}
	if problemID <= 0 {
		return nil, shared.NewDomainError("progress", "NewCardProgress", shared.ErrInvalidID, "problem id must be positive")
	}
	if !status.IsGradable() {
		return nil, shared.ErrUnknownCardStatus
	}

	now := time.Now().UTC()
	return &CardProgress{
		UserID:    userID,
		CardID:    cardID,
		ProblemID: problemID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Grade updates the memorization status.
func (c *CardProgress) Grade(status CardStatus) error {
	if !status.IsGradable() {
		return shared.ErrUnknownCardStatus
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// String returns a compact representation for logging.
func (c *CardProgress) String() string {
	return fmt.Sprintf("CardProgress{User: %d, Card: %d, Status: %s}", c.UserID, c.CardID, c.Status)
}

// ProblemProgress is one user's standing on one problem: the derived study
// status plus the like and scrap flags. At most one row exists per
// (user, problem) pair.
type ProblemProgress struct {
	// UserID identifies the owning user.
	UserID int64

	// ProblemID identifies the problem.
	ProblemID int64

	// Status is the rolled-up study status. It is recomputed from card
	// statuses on every card grade, never assigned from a request.
	Status ProblemStatus

	// IsLiked is the user's like flag for this problem.
	IsLiked bool

	// IsScrapped is the user's scrap (bookmark) flag for this problem.
	IsScrapped bool

	// CreatedAt is when the user first touched this problem.
	CreatedAt time.Time

	// UpdatedAt is when any field last changed.
	UpdatedAt time.Time
}

// NewProblemProgress creates a fresh problem progress entry in status "new"
// with both engagement flags off.
func NewProblemProgress(userID, problemID int64) (*ProblemProgress, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("progress", "NewProblemProgress", shared.ErrInvalidID, "user id must be positive")
	}
	if problemID <= 0 {
		return nil, shared.NewDomainError("progress", "NewProblemProgress", shared.ErrInvalidID, "problem id must be positive")
	}

	now := time.Now().UTC()
	return &ProblemProgress{
		UserID:    userID,
		ProblemID: problemID,
		Status:    ProblemStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyRollup sets the derived study status.
func (p *ProblemProgress) ApplyRollup(status ProblemStatus) error {
	if !status.IsValid() {
		return shared.ErrUnknownProblemStatus
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ToggleField flips one engagement flag and returns its new value.
func (p *ProblemProgress) ToggleField(field EngagementField) (bool, error) {
	switch field {
	case EngagementLiked:
		p.IsLiked = !p.IsLiked
		p.UpdatedAt = time.Now().UTC()
		return p.IsLiked, nil
	case EngagementScrapped:
		p.IsScrapped = !p.IsScrapped
		p.UpdatedAt = time.Now().UTC()
		return p.IsScrapped, nil
	default:
		return false, shared.ErrUnknownEngagementField
	}
}

// FieldValue reads one engagement flag.
func (p *ProblemProgress) FieldValue(field EngagementField) (bool, error) {
	switch field {
	case EngagementLiked:
		return p.IsLiked, nil
	case EngagementScrapped:
		return p.IsScrapped, nil
	default:
		return false, shared.ErrUnknownEngagementField
	}
}

// String returns a compact representation for logging.
func (p *ProblemProgress) String() string {
	return fmt.Sprintf("ProblemProgress{User: %d, Problem: %d, Status: %s, Liked: %t, Scrapped: %t}",
		p.UserID, p.ProblemID, p.Status, p.IsLiked, p.IsScrapped)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StatusCounts is the per-status card tally used by the overall summary.
type StatusCounts struct {
	Perfect   int
	Vague     int
	Forgotten int
}

// Total returns the number of graded cards covered by the counts.
func (c StatusCounts) Total() int {
	return c.Perfect + c.Vague + c.Forgotten
}

// DailyRecord is the per-status tally of cards a user graded on one
// calendar day.
type DailyRecord struct {
	// Day is the UTC midnight of the calendar day.
	Day time.Time

	// Counts breaks the day's grades down by status.
	Counts StatusCounts
}

// WeeklyRecord is the per-status tally of cards a user graded in one
// Monday-to-Sunday week.
type WeeklyRecord struct {
	// WeekStart is the UTC Monday midnight opening the week.
	WeekStart time.Time

	// WeekEnd is the last instant of the week's Sunday.
	WeekEnd time.Time

	// Counts breaks the week's grades down by status.
	Counts StatusCounts
}

// CardStatusView pairs a card with the requesting user's status for it,
// "new" when the user never graded the card.
type CardStatusView struct {
	CardID   int64
	Question string
	Answer   string
	Status   CardStatus
}
