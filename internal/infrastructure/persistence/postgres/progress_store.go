package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
	"github.com/mogwi-hub/mogwi-progress-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS STORE
// Implements progress.Store on top of PostgreSQL. Every write that touches
// both a card row and its problem rollup runs inside one transaction.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressStore persists card and problem progress rows.
type ProgressStore struct {
	conn    *Connection
	retrier *retry.Retrier
}

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(conn *Connection) *ProgressStore {
	return &ProgressStore{
		conn:    conn,
		retrier: retry.DatabaseRetrier(),
	}
}

// isTransient reports whether a pg failure is worth retrying: serialization
// failures, deadlocks, and upsert races surfacing as unique violations.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
	}
	return IsUniqueViolation(err)
}

// classify wraps a transient failure as retryable so the retrier re-runs the
// enclosing transaction.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return retry.Retryable(err)
	}
	return err
}

// ── Card grading ──────────────────────────────────────────────────────────────

const upsertCardProgressSQL = `
	INSERT INTO user_card_progress (user_id, card_id, problem_id, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	ON CONFLICT (user_id, card_id)
	DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`

const selectCardStatusesSQL = `
	SELECT card_id, status
	FROM user_card_progress
	WHERE user_id = $1 AND problem_id = $2`

const upsertProblemStatusSQL = `
	INSERT INTO user_problem_progress (user_id, problem_id, status, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id, problem_id)
	DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`

// RecordCardStatus upserts the card grade and recomputes the problem rollup
// in the same transaction, so a reader can never observe a grade without its
// matching problem status.
func (s *ProgressStore) RecordCardStatus(ctx context.Context, entry *progress.CardProgress, declaredCards int) (progress.ProblemStatus, error) {
	if entry == nil {
		return "", shared.NewDomainError("progress", "RecordCardStatus", shared.ErrInvalidInput, "nil card progress entry")
	}

	var result progress.ProblemStatus
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return classify(s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, upsertCardProgressSQL,
				entry.UserID, entry.CardID, entry.ProblemID, entry.Status.String()); err != nil {
				return fmt.Errorf("upsert card progress: %w", err)
			}

			graded, err := queryCardStatuses(ctx, tx, entry.UserID, entry.ProblemID)
			if err != nil {
				return err
			}

			statuses := make([]progress.CardStatus, 0, len(graded))
			for _, st := range graded {
				statuses = append(statuses, st)
			}

			rolled, err := progress.RollupWithDeclared(statuses, declaredCards)
			if err != nil {
				return err
			}

			if _, err := tx.Exec(ctx, upsertProblemStatusSQL,
				entry.UserID, entry.ProblemID, rolled.String()); err != nil {
				return fmt.Errorf("upsert problem status: %w", err)
			}

			result = rolled
			return nil
		}))
	})
	if err != nil {
		return "", shared.WrapError("progress", "RecordCardStatus", shared.ErrStoreFailure, "failed to record card status", err)
	}

	return result, nil
}

// GetCardStatuses returns the user's graded statuses for a problem's cards,
// keyed by card ID.
func (s *ProgressStore) GetCardStatuses(ctx context.Context, userID, problemID int64) (map[int64]progress.CardStatus, error) {
	statuses, err := queryCardStatuses(ctx, s.conn.Pool(), userID, problemID)
	if err != nil {
		return nil, shared.WrapError("progress", "GetCardStatuses", shared.ErrStoreFailure, "failed to load card statuses", err)
	}
	return statuses, nil
}

func queryCardStatuses(ctx context.Context, q Querier, userID, problemID int64) (map[int64]progress.CardStatus, error) {
	rows, err := q.Query(ctx, selectCardStatusesSQL, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("query card statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[int64]progress.CardStatus)
	for rows.Next() {
		var cardID int64
		var raw string
		if err := rows.Scan(&cardID, &raw); err != nil {
			return nil, fmt.Errorf("scan card status: %w", err)
		}
		status, err := progress.ParseCardStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", cardID, err)
		}
		statuses[cardID] = status
	}
	return statuses, rows.Err()
}

// ── Problem progress ──────────────────────────────────────────────────────────

const insertProblemProgressSQL = `
	INSERT INTO user_problem_progress (user_id, problem_id, status, created_at, updated_at)
	VALUES ($1, $2, 'new', NOW(), NOW())
	ON CONFLICT (user_id, problem_id) DO NOTHING
	RETURNING status, is_liked, is_scrapped, created_at, updated_at`

const selectProblemProgressSQL = `
	SELECT status, is_liked, is_scrapped, created_at, updated_at
	FROM user_problem_progress
	WHERE user_id = $1 AND problem_id = $2`

// EnsureProblemProgress returns the user's row for a problem, creating a
// fresh "new" row when none exists.
func (s *ProgressStore) EnsureProblemProgress(ctx context.Context, userID, problemID int64) (*progress.ProblemProgress, bool, error) {
	row := &progress.ProblemProgress{UserID: userID, ProblemID: problemID}
	created := false

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		err := scanProblemProgress(s.conn.QueryRow(ctx, insertProblemProgressSQL, userID, problemID), row)
		if err == nil {
			created = true
			return nil
		}
		if !IsNoRows(err) {
			return classify(err)
		}

		// Conflict: the row already existed, read it back. A concurrent
		// delete between the two statements leaves the read empty; retry
		// the whole insert-then-read pair.
		created = false
		err = scanProblemProgress(s.conn.QueryRow(ctx, selectProblemProgressSQL, userID, problemID), row)
		if IsNoRows(err) {
			return retry.Retryable(err)
		}
		return classify(err)
	})
	if err != nil {
		return nil, false, shared.WrapError("progress", "EnsureProblemProgress", shared.ErrStoreFailure, "failed to ensure progress", err)
	}
	return row, created, nil
}

// GetProblemProgress returns the user's row for a problem.
func (s *ProgressStore) GetProblemProgress(ctx context.Context, userID, problemID int64) (*progress.ProblemProgress, error) {
	row := &progress.ProblemProgress{UserID: userID, ProblemID: problemID}
	err := scanProblemProgress(s.conn.QueryRow(ctx, selectProblemProgressSQL, userID, problemID), row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProblemProgressNotFound
		}
		return nil, shared.WrapError("progress", "GetProblemProgress", shared.ErrStoreFailure, "failed to load progress", err)
	}
	return row, nil
}

const markOngoingSQL = `
	UPDATE user_problem_progress
	SET status = 'ongoing', updated_at = NOW()
	WHERE user_id = $1 AND problem_id = $2
	RETURNING status, is_liked, is_scrapped, created_at, updated_at`

// MarkOngoing forces an existing row's status to "ongoing". The row must
// already exist; marking a problem the user never opened is NotFound.
func (s *ProgressStore) MarkOngoing(ctx context.Context, userID, problemID int64) (*progress.ProblemProgress, error) {
	row := &progress.ProblemProgress{UserID: userID, ProblemID: problemID}
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return classify(scanProblemProgress(s.conn.QueryRow(ctx, markOngoingSQL, userID, problemID), row))
	})
	if err != nil {
		if IsNoRows(err) || errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrProblemProgressNotFound
		}
		return nil, shared.WrapError("progress", "MarkOngoing", shared.ErrStoreFailure, "failed to mark ongoing", err)
	}
	return row, nil
}

func scanProblemProgress(r pgx.Row, dst *progress.ProblemProgress) error {
	var raw string
	if err := r.Scan(&raw, &dst.IsLiked, &dst.IsScrapped, &dst.CreatedAt, &dst.UpdatedAt); err != nil {
		return err
	}
	status, err := progress.ParseProblemStatus(raw)
	if err != nil {
		return err
	}
	dst.Status = status
	return nil
}

// ── Engagement toggles ────────────────────────────────────────────────────────

// One statement per flag keeps the flip atomic without interpolating column
// names into SQL.
const toggleLikedSQL = `
	INSERT INTO user_problem_progress (user_id, problem_id, is_liked, created_at, updated_at)
	VALUES ($1, $2, TRUE, NOW(), NOW())
	ON CONFLICT (user_id, problem_id)
	DO UPDATE SET is_liked = NOT user_problem_progress.is_liked, updated_at = NOW()
	RETURNING is_liked`

const toggleScrappedSQL = `
	INSERT INTO user_problem_progress (user_id, problem_id, is_scrapped, created_at, updated_at)
	VALUES ($1, $2, TRUE, NOW(), NOW())
	ON CONFLICT (user_id, problem_id)
	DO UPDATE SET is_scrapped = NOT user_problem_progress.is_scrapped, updated_at = NOW()
	RETURNING is_scrapped`

const countEngagementSQL = `
	SELECT
		COUNT(*) FILTER (WHERE is_liked),
		COUNT(*) FILTER (WHERE is_scrapped)
	FROM user_problem_progress
	WHERE problem_id = $1`

// Toggle atomically flips one engagement flag and reads the problem's fresh
// community totals in the same transaction.
func (s *ProgressStore) Toggle(ctx context.Context, userID, problemID int64, field progress.EngagementField) (progress.ToggleResult, error) {
	var toggleSQL string
	switch field {
	case progress.EngagementLiked:
		toggleSQL = toggleLikedSQL
	case progress.EngagementScrapped:
		toggleSQL = toggleScrappedSQL
	default:
		return progress.ToggleResult{}, shared.ErrUnknownEngagementField
	}

	result := progress.ToggleResult{Field: field}
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return classify(s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if err := tx.QueryRow(ctx, toggleSQL, userID, problemID).Scan(&result.NewValue); err != nil {
				return fmt.Errorf("toggle flag: %w", err)
			}
			if err := tx.QueryRow(ctx, countEngagementSQL, problemID).Scan(&result.TotalLikes, &result.TotalScraps); err != nil {
				return fmt.Errorf("count engagement: %w", err)
			}
			return nil
		}))
	})
	if err != nil {
		return progress.ToggleResult{}, shared.WrapError("progress", "Toggle", shared.ErrStoreFailure, "failed to toggle engagement", err)
	}

	return result, nil
}

// ── Deletion ──────────────────────────────────────────────────────────────────

const deleteCardProgressSQL = `
	DELETE FROM user_card_progress WHERE user_id = $1 AND problem_id = $2`

const deleteProblemProgressSQL = `
	DELETE FROM user_problem_progress WHERE user_id = $1 AND problem_id = $2`

// DeleteUserProgress removes the user's card grades and problem row for one
// problem. Deleting untouched history is a no-op, not an error.
func (s *ProgressStore) DeleteUserProgress(ctx context.Context, userID, problemID int64) error {
	err := s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteCardProgressSQL, userID, problemID); err != nil {
			return fmt.Errorf("delete card progress: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteProblemProgressSQL, userID, problemID); err != nil {
			return fmt.Errorf("delete problem progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("progress", "DeleteUserProgress", shared.ErrStoreFailure, "failed to delete progress", err)
	}
	return nil
}
