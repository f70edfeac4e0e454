package postgres

import (
	"context"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/catalog"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG ADAPTERS
// Read-only lookups against the shared reference tables. These tables are
// populated by the content service; this service never writes them.
// ══════════════════════════════════════════════════════════════════════════════

// Catalog implements catalog.UserDirectory, catalog.CardCatalog, and
// catalog.CategoryCatalog against PostgreSQL.
type Catalog struct {
	conn *Connection
}

// NewCatalog creates a new Catalog.
func NewCatalog(conn *Connection) *Catalog {
	return &Catalog{conn: conn}
}

const selectUserByHandleSQL = `
	SELECT id, handle, nickname, created_at
	FROM users
	WHERE handle = $1`

// GetByHandle returns the user with the given handle.
func (c *Catalog) GetByHandle(ctx context.Context, handle string) (*catalog.User, error) {
	var user catalog.User
	err := c.conn.QueryRow(ctx, selectUserByHandleSQL, handle).
		Scan(&user.ID, &user.Handle, &user.Nickname, &user.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("catalog", "GetByHandle", shared.ErrStoreFailure, "failed to load user", err)
	}
	return &user, nil
}

const selectCardSQL = `
	SELECT id, problem_id, question, answer, COALESCE(image_url, '')
	FROM cards
	WHERE id = $1`

// GetCard returns a card by ID.
func (c *Catalog) GetCard(ctx context.Context, cardID int64) (*catalog.Card, error) {
	var card catalog.Card
	err := c.conn.QueryRow(ctx, selectCardSQL, cardID).
		Scan(&card.ID, &card.ProblemID, &card.Question, &card.Answer, &card.ImageURL)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCardNotFound
		}
		return nil, shared.WrapError("catalog", "GetCard", shared.ErrStoreFailure, "failed to load card", err)
	}
	return &card, nil
}

const selectCardsOfSQL = `
	SELECT id, problem_id, question, answer, COALESCE(image_url, '')
	FROM cards
	WHERE problem_id = $1
	ORDER BY position, id`

// CardsOf returns a problem's cards in their stored order.
func (c *Catalog) CardsOf(ctx context.Context, problemID int64) ([]catalog.Card, error) {
	if _, err := c.GetProblem(ctx, problemID); err != nil {
		return nil, err
	}

	rows, err := c.conn.Query(ctx, selectCardsOfSQL, problemID)
	if err != nil {
		return nil, shared.WrapError("catalog", "CardsOf", shared.ErrStoreFailure, "failed to query cards", err)
	}
	defer rows.Close()

	var cards []catalog.Card
	for rows.Next() {
		var card catalog.Card
		if err := rows.Scan(&card.ID, &card.ProblemID, &card.Question, &card.Answer, &card.ImageURL); err != nil {
			return nil, shared.WrapError("catalog", "CardsOf", shared.ErrStoreFailure, "failed to scan card", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

const selectProblemSQL = `
	SELECT
		p.id,
		p.title,
		p.description,
		p.author_id,
		u.nickname,
		(SELECT COUNT(*) FROM cards c WHERE c.problem_id = p.id),
		p.is_public,
		p.created_at
	FROM problems p
	JOIN users u ON u.id = p.author_id
	WHERE p.id = $1`

// GetProblem returns a problem by ID. The card count is derived from the
// cards table at read time; the catalog never stores it.
func (c *Catalog) GetProblem(ctx context.Context, problemID int64) (*catalog.Problem, error) {
	var problem catalog.Problem
	err := c.conn.QueryRow(ctx, selectProblemSQL, problemID).
		Scan(&problem.ID, &problem.Title, &problem.Description, &problem.AuthorID, &problem.AuthorName,
			&problem.CardCount, &problem.IsPublic, &problem.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProblemNotFound
		}
		return nil, shared.WrapError("catalog", "GetProblem", shared.ErrStoreFailure, "failed to load problem", err)
	}
	return &problem, nil
}

const selectTagsOfSQL = `
	SELECT cat.tag_name, cat.color_code
	FROM problem_categories pc
	JOIN categories cat ON cat.id = pc.category_id
	WHERE pc.problem_id = $1
	ORDER BY cat.tag_name`

// TagsOf returns a problem's category tags.
func (c *Catalog) TagsOf(ctx context.Context, problemID int64) ([]catalog.Tag, error) {
	rows, err := c.conn.Query(ctx, selectTagsOfSQL, problemID)
	if err != nil {
		return nil, shared.WrapError("catalog", "TagsOf", shared.ErrStoreFailure, "failed to query tags", err)
	}
	defer rows.Close()

	tags := make([]catalog.Tag, 0)
	for rows.Next() {
		var tag catalog.Tag
		if err := rows.Scan(&tag.Name, &tag.ColorCode); err != nil {
			return nil, shared.WrapError("catalog", "TagsOf", shared.ErrStoreFailure, "failed to scan tag", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
