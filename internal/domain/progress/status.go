// Package progress contains the learning progress domain model: per-card
// memorization statuses, per-problem rollups, and engagement flags.
// This is the core business logic with no external dependencies.
package progress

import (
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CARD STATUS
// ══════════════════════════════════════════════════════════════════════════════

// CardStatus describes how well a user remembers a single card.
type CardStatus string

const (
	// CardStatusNew means the user has never graded this card.
	// It is the implicit status of every card without a progress row
	// and is never written by a grading request.
	CardStatusNew CardStatus = "new"
	// CardStatusPerfect means the user recalled the card without hesitation.
	CardStatusPerfect CardStatus = "perfect"
	// CardStatusVague means the user recalled the card only partially.
	CardStatusVague CardStatus = "vague"
	// CardStatusForgotten means the user failed to recall the card.
	CardStatusForgotten CardStatus = "forgotten"
)

// IsValid reports whether the status is one of the known card statuses.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusNew, CardStatusPerfect, CardStatusVague, CardStatusForgotten:
		return true
	default:
		return false
	}
}

// IsGradable reports whether the status may be written by a grading request.
// "new" is derived, not graded.
func (s CardStatus) IsGradable() bool {
	switch s {
	case CardStatusPerfect, CardStatusVague, CardStatusForgotten:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s CardStatus) String() string {
	return string(s)
}

// ParseCardStatus parses a gradable card status from its wire form.
// It rejects "new" and any unknown value.
func ParseCardStatus(raw string) (CardStatus, error) {
	s := CardStatus(raw)
	if !s.IsGradable() {
		return "", shared.WrapError("progress", "ParseCardStatus", shared.ErrInvalidInput,
			"card status must be one of perfect, vague, forgotten", shared.ErrUnknownCardStatus)
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PROBLEM STATUS
// ══════════════════════════════════════════════════════════════════════════════

// ProblemStatus describes a user's standing on a whole problem. It is always
// derived from the statuses of the problem's cards, never set directly.
type ProblemStatus string

const (
	// ProblemStatusNew means the user has not started the problem.
	ProblemStatusNew ProblemStatus = "new"
	// ProblemStatusOngoing means at least one card is not yet perfect.
	ProblemStatusOngoing ProblemStatus = "ongoing"
	// ProblemStatusCompleted means every card of the problem is perfect.
	ProblemStatusCompleted ProblemStatus = "completed"
)

// IsValid reports whether the status is one of the known problem statuses.
func (s ProblemStatus) IsValid() bool {
	switch s {
	case ProblemStatusNew, ProblemStatusOngoing, ProblemStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ProblemStatus) String() string {
	return string(s)
}

// ParseProblemStatus parses a problem status from its stored form.
func ParseProblemStatus(raw string) (ProblemStatus, error) {
	s := ProblemStatus(raw)
	if !s.IsValid() {
		return "", shared.WrapError("progress", "ParseProblemStatus", shared.ErrInvalidInput,
			"problem status must be one of new, ongoing, completed", shared.ErrUnknownProblemStatus)
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT FIELDS
// ══════════════════════════════════════════════════════════════════════════════

// EngagementField selects which per-problem flag a toggle request flips.
type EngagementField string

const (
	// EngagementLiked selects the like flag.
	EngagementLiked EngagementField = "isLiked"
	// EngagementScrapped selects the scrap (bookmark) flag.
	EngagementScrapped EngagementField = "isScrapped"
)

// IsValid reports whether the field is a known engagement field.
func (f EngagementField) IsValid() bool {
	return f == EngagementLiked || f == EngagementScrapped
}

// String returns the wire name of the field.
func (f EngagementField) String() string {
	return string(f)
}

// ParseEngagementField parses an engagement field from its wire name.
func ParseEngagementField(raw string) (EngagementField, error) {
	f := EngagementField(raw)
	if !f.IsValid() {
		return "", shared.WrapError("progress", "ParseEngagementField", shared.ErrInvalidInput,
			"field must be isLiked or isScrapped", shared.ErrUnknownEngagementField)
	}
	return f, nil
}
