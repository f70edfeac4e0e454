package catalog

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG INTERFACES
// Implementations live in infrastructure/persistence and resolve against the
// shared reference tables.
// ══════════════════════════════════════════════════════════════════════════════

// UserDirectory resolves users by their public handle.
type UserDirectory interface {
	// GetByHandle returns the user with the given handle.
	// Returns shared.ErrUserNotFound when no such user exists.
	GetByHandle(ctx context.Context, handle string) (*User, error)
}

// CardCatalog resolves cards and their owning problems.
type CardCatalog interface {
	// GetCard returns a card by ID.
	// Returns shared.ErrCardNotFound when no such card exists.
	GetCard(ctx context.Context, cardID int64) (*Card, error)

	// CardsOf returns a problem's cards in their stored order.
	// Returns shared.ErrProblemNotFound when the problem does not exist.
	CardsOf(ctx context.Context, problemID int64) ([]Card, error)

	// GetProblem returns a problem by ID.
	// Returns shared.ErrProblemNotFound when no such problem exists.
	GetProblem(ctx context.Context, problemID int64) (*Problem, error)
}

// CategoryCatalog resolves the category tags attached to problems.
type CategoryCatalog interface {
	// TagsOf returns a problem's category tags in their stored order.
	// A problem with no tags yields an empty slice, not an error.
	TagsOf(ctx context.Context, problemID int64) ([]Tag, error)
}
