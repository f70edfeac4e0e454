package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORTER
// Implements progress.Reporter. Every total is computed with COUNT over the
// progress rows at read time; nothing here trusts a stored counter.
// ══════════════════════════════════════════════════════════════════════════════

// Reporter runs the aggregation queries behind the report endpoints.
type Reporter struct {
	conn *Connection
}

// NewReporter creates a new Reporter.
func NewReporter(conn *Connection) *Reporter {
	return &Reporter{conn: conn}
}

const overallSummarySQL = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'perfect'),
		COUNT(*) FILTER (WHERE status = 'vague'),
		COUNT(*) FILTER (WHERE status = 'forgotten')
	FROM user_card_progress
	WHERE user_id = $1`

// OverallSummary tallies the user's graded cards per status.
func (r *Reporter) OverallSummary(ctx context.Context, userID int64) (progress.StatusCounts, error) {
	var counts progress.StatusCounts
	err := r.conn.QueryRow(ctx, overallSummarySQL, userID).
		Scan(&counts.Perfect, &counts.Vague, &counts.Forgotten)
	if err != nil {
		return progress.StatusCounts{}, shared.WrapError("report", "OverallSummary", shared.ErrStoreFailure, "failed to aggregate summary", err)
	}
	return counts, nil
}

const problemDetailsSQL = `
	SELECT
		p.id,
		p.title,
		u.nickname,
		COALESCE(upp.status, 'new'),
		COALESCE(upp.is_liked, FALSE),
		COALESCE(upp.is_scrapped, FALSE),
		COUNT(ucp.id) FILTER (WHERE ucp.status = 'perfect'),
		COUNT(ucp.id) FILTER (WHERE ucp.status = 'vague'),
		COUNT(ucp.id) FILTER (WHERE ucp.status = 'forgotten'),
		(SELECT COUNT(*) FROM user_problem_progress t WHERE t.problem_id = p.id AND t.is_liked),
		(SELECT COUNT(*) FROM user_problem_progress t WHERE t.problem_id = p.id AND t.is_scrapped),
		(SELECT COUNT(*) FROM cards c WHERE c.problem_id = p.id),
		COALESCE(upp.updated_at, p.created_at)
	FROM problems p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN user_problem_progress upp
		ON upp.problem_id = p.id AND upp.user_id = $1
	LEFT JOIN user_card_progress ucp
		ON ucp.problem_id = p.id AND ucp.user_id = $1
	WHERE upp.id IS NOT NULL OR ucp.id IS NOT NULL
	GROUP BY p.id, u.nickname, upp.status, upp.is_liked, upp.is_scrapped, upp.updated_at
	ORDER BY COALESCE(upp.updated_at, p.created_at) DESC, p.id DESC`

// ProblemDetails lists the problems the user has a progress row for, card
// or problem side. Each row carries the user's standing with per-status
// card tallies and community totals, most recently touched first.
func (r *Reporter) ProblemDetails(ctx context.Context, userID int64) ([]progress.ProblemDetailRow, error) {
	rows, err := r.conn.Query(ctx, problemDetailsSQL, userID)
	if err != nil {
		return nil, shared.WrapError("report", "ProblemDetails", shared.ErrStoreFailure, "failed to query problems", err)
	}
	defer rows.Close()

	var details []progress.ProblemDetailRow
	for rows.Next() {
		var row progress.ProblemDetailRow
		var rawStatus string
		if err := rows.Scan(
			&row.ProblemID,
			&row.Title,
			&row.AuthorName,
			&rawStatus,
			&row.IsLiked,
			&row.IsScrapped,
			&row.Counts.Perfect,
			&row.Counts.Vague,
			&row.Counts.Forgotten,
			&row.TotalLikes,
			&row.TotalScraps,
			&row.CardCount,
			&row.LastTouched,
		); err != nil {
			return nil, shared.WrapError("report", "ProblemDetails", shared.ErrStoreFailure, "failed to scan problem row", err)
		}

		status, err := progress.ParseProblemStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("problem %d: %w", row.ProblemID, err)
		}
		row.Status = status
		details = append(details, row)
	}
	return details, rows.Err()
}

const dailyRecordsSQL = `
	SELECT
		date_trunc('day', updated_at AT TIME ZONE 'UTC') AS day,
		COUNT(*) FILTER (WHERE status = 'perfect'),
		COUNT(*) FILTER (WHERE status = 'vague'),
		COUNT(*) FILTER (WHERE status = 'forgotten')
	FROM user_card_progress
	WHERE user_id = $1 AND updated_at >= $2 AND updated_at <= $3
	GROUP BY day
	ORDER BY day ASC`

// DailyRecords tallies the user's card grades per status per UTC day inside
// the window.
func (r *Reporter) DailyRecords(ctx context.Context, userID int64, from, to time.Time) ([]progress.DailyRecord, error) {
	rows, err := r.conn.Query(ctx, dailyRecordsSQL, userID, from, to)
	if err != nil {
		return nil, shared.WrapError("report", "DailyRecords", shared.ErrStoreFailure, "failed to query daily records", err)
	}
	defer rows.Close()

	var records []progress.DailyRecord
	for rows.Next() {
		var rec progress.DailyRecord
		if err := rows.Scan(&rec.Day, &rec.Counts.Perfect, &rec.Counts.Vague, &rec.Counts.Forgotten); err != nil {
			return nil, shared.WrapError("report", "DailyRecords", shared.ErrStoreFailure, "failed to scan daily record", err)
		}
		rec.Day = rec.Day.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

const countGradedSQL = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'perfect'),
		COUNT(*) FILTER (WHERE status = 'vague'),
		COUNT(*) FILTER (WHERE status = 'forgotten')
	FROM user_card_progress
	WHERE user_id = $1 AND updated_at >= $2 AND updated_at <= $3`

// CountGradedBetween tallies the user's card grades per status inside a
// window.
func (r *Reporter) CountGradedBetween(ctx context.Context, userID int64, from, to time.Time) (progress.StatusCounts, error) {
	var counts progress.StatusCounts
	err := r.conn.QueryRow(ctx, countGradedSQL, userID, from, to).
		Scan(&counts.Perfect, &counts.Vague, &counts.Forgotten)
	if err != nil {
		return progress.StatusCounts{}, shared.WrapError("report", "CountGradedBetween", shared.ErrStoreFailure, "failed to count grades", err)
	}
	return counts, nil
}

const engagedProblemsSQL = `
	SELECT
		p.id,
		p.title,
		u.nickname,
		p.is_public,
		upp.is_liked,
		upp.is_scrapped,
		(SELECT COUNT(*) FROM user_problem_progress t WHERE t.problem_id = p.id AND t.is_liked),
		(SELECT COUNT(*) FROM user_problem_progress t WHERE t.problem_id = p.id AND t.is_scrapped)
	FROM user_problem_progress upp
	JOIN problems p ON p.id = upp.problem_id
	JOIN users u ON u.id = p.author_id
	WHERE upp.user_id = $1 AND (upp.is_liked OR upp.is_scrapped)
	ORDER BY upp.updated_at DESC`

// EngagedProblems lists the problems the user has liked or scrapped.
func (r *Reporter) EngagedProblems(ctx context.Context, userID int64) ([]progress.EngagedProblemRow, error) {
	rows, err := r.conn.Query(ctx, engagedProblemsSQL, userID)
	if err != nil {
		return nil, shared.WrapError("report", "EngagedProblems", shared.ErrStoreFailure, "failed to query engaged problems", err)
	}
	defer rows.Close()

	var result []progress.EngagedProblemRow
	for rows.Next() {
		var row progress.EngagedProblemRow
		if err := rows.Scan(
			&row.ProblemID,
			&row.Title,
			&row.AuthorName,
			&row.IsPublic,
			&row.IsLiked,
			&row.IsScrapped,
			&row.TotalLikes,
			&row.TotalScraps,
		); err != nil {
			return nil, shared.WrapError("report", "EngagedProblems", shared.ErrStoreFailure, "failed to scan engaged row", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
