package progress

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the storage contract. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleResult reports the outcome of flipping an engagement flag, together
// with the problem's fresh community totals read in the same transaction.
type ToggleResult struct {
	Field       EngagementField
	NewValue    bool
	TotalLikes  int
	TotalScraps int
}

// Store defines the write-side operations on progress rows.
type Store interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Card grading
	// ─────────────────────────────────────────────────────────────────────────

	// RecordCardStatus upserts the user's grade for a card and, in the same
	// transaction, recomputes and persists the problem's rolled-up status.
	// declaredCards is the problem's total card count, so ungraded cards
	// weigh in as "new". Returns the resulting problem status.
	RecordCardStatus(ctx context.Context, entry *CardProgress, declaredCards int) (ProblemStatus, error)

	// GetCardStatuses returns the user's graded statuses for a problem's
	// cards, keyed by card ID. Cards without a row are absent from the map.
	GetCardStatuses(ctx context.Context, userID, problemID int64) (map[int64]CardStatus, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Problem progress
	// ─────────────────────────────────────────────────────────────────────────

	// EnsureProblemProgress returns the user's progress row for a problem,
	// creating a fresh "new" row when none exists. The second return value
	// reports whether a row was created.
	EnsureProblemProgress(ctx context.Context, userID, problemID int64) (*ProblemProgress, bool, error)

	// GetProblemProgress returns the user's progress row for a problem.
	// Returns shared.ErrProblemProgressNotFound when no row exists.
	GetProblemProgress(ctx context.Context, userID, problemID int64) (*ProblemProgress, error)

	// MarkOngoing forces an existing row's status to "ongoing". Returns
	// ErrProblemProgressNotFound when the user never opened the problem.
	MarkOngoing(ctx context.Context, userID, problemID int64) (*ProblemProgress, error)

	// Toggle atomically flips one engagement flag, creating the row if
	// absent, and returns the new value with fresh community totals.
	Toggle(ctx context.Context, userID, problemID int64, field EngagementField) (ToggleResult, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Deletion
	// ─────────────────────────────────────────────────────────────────────────

	// DeleteUserProgress removes the user's card grades and problem row for
	// one problem. Other users' rows are untouched.
	DeleteUserProgress(ctx context.Context, userID, problemID int64) error
}

// ── Report row types ──────────────────────────────────────────────────────────

// ProblemDetailRow is one problem in a user's study-status listing: the
// user's standing with per-status card tallies plus community-wide
// engagement totals.
type ProblemDetailRow struct {
	ProblemID  int64
	Title      string
	AuthorName string
	Status     ProblemStatus
	IsLiked    bool
	IsScrapped bool
	// Counts tallies the user's graded cards on this problem per status.
	// Ungraded cards carry no row and are absent from every bucket.
	Counts      StatusCounts
	TotalLikes  int
	TotalScraps int
	CardCount   int
	// LastTouched orders the listing: the progress row's update time when
	// one exists, else the problem's creation time.
	LastTouched time.Time
}

// EngagedProblemRow is one problem the user has liked or scrapped.
type EngagedProblemRow struct {
	ProblemID   int64
	Title       string
	AuthorName  string
	IsPublic    bool
	IsLiked     bool
	IsScrapped  bool
	TotalLikes  int
	TotalScraps int
}

// Reporter defines the read-side aggregation queries. Totals are computed
// with COUNT at read time, never from stored counters.
type Reporter interface {
	// OverallSummary tallies the user's graded cards per status across all
	// problems.
	OverallSummary(ctx context.Context, userID int64) (StatusCounts, error)

	// ProblemDetails lists the problems the user has any progress row for,
	// card or problem side. Rows carry the user's status with per-status
	// card tallies and community totals, most recently touched first.
	ProblemDetails(ctx context.Context, userID int64) ([]ProblemDetailRow, error)

	// DailyRecords tallies the user's card grades per status per UTC day
	// inside the window, ascending by day. Days without activity are
	// omitted.
	DailyRecords(ctx context.Context, userID int64, from, to time.Time) ([]DailyRecord, error)

	// CountGradedBetween tallies the user's card grades per status inside
	// a window. Used per week window for the weekly report.
	CountGradedBetween(ctx context.Context, userID int64, from, to time.Time) (StatusCounts, error)

	// EngagedProblems lists the problems the user has liked or scrapped.
	EngagedProblems(ctx context.Context, userID int64) ([]EngagedProblemRow, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE
// Caches rendered report payloads (usually backed by Redis).
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache caches serialized report payloads per user with a TTL.
type ReportCache interface {
	// Get returns the cached payload for a key, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under a key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// InvalidateUser drops every cached report for a user.
	InvalidateUser(ctx context.Context, userID int64) error
}
