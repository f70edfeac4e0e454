// Package catalog contains the read-only reference model the progress
// domain depends on: users, problems, cards, and category tags. These
// records are owned by other services; this service only resolves them.
package catalog

import "time"

// User is a registered member resolved by handle.
type User struct {
	// ID is the internal numeric identifier.
	ID int64

	// Handle is the unique public identifier used in API paths.
	Handle string

	// Nickname is the display name.
	Nickname string

	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// Problem is a published card deck.
type Problem struct {
	// ID is the internal numeric identifier.
	ID int64

	// Title is the deck title.
	Title string

	// Description is the author's free-form summary of the deck.
	Description string

	// AuthorID identifies the publishing user.
	AuthorID int64

	// AuthorName is the publishing user's nickname, denormalized for listings.
	AuthorName string

	// CardCount is the number of cards the problem declares.
	CardCount int

	// IsPublic is whether the problem is visible outside its author.
	IsPublic bool

	// CreatedAt is when the problem was published.
	CreatedAt time.Time
}

// Card is one question-answer pair inside a problem.
type Card struct {
	// ID is the internal numeric identifier.
	ID int64

	// ProblemID identifies the owning problem.
	ProblemID int64

	// Question is the prompt side.
	Question string

	// Answer is the answer side.
	Answer string

	// ImageURL is an optional illustration for the prompt, empty when the
	// card has none.
	ImageURL string
}

// Tag is a category label attached to a problem.
type Tag struct {
	// Name is the category name.
	Name string

	// ColorCode is the display color in #RRGGBB form.
	ColorCode string
}
