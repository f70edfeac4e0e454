package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_catalog",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_progress",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// Migration 1: the reference tables progress rows point into. In deployments
// where another service owns these tables the migration is a no-op thanks to
// IF NOT EXISTS.
const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
    id          BIGSERIAL PRIMARY KEY,
    handle      TEXT NOT NULL UNIQUE,
    nickname    TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS problems (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    author_id   BIGINT NOT NULL REFERENCES users(id),
    is_public   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cards (
    id          BIGSERIAL PRIMARY KEY,
    problem_id  BIGINT NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    image_url   TEXT,
    position    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cards_problem ON cards(problem_id);

CREATE TABLE IF NOT EXISTS categories (
    id          BIGSERIAL PRIMARY KEY,
    tag_name    TEXT NOT NULL UNIQUE,
    color_code  TEXT NOT NULL DEFAULT '#888888'
);

CREATE TABLE IF NOT EXISTS problem_categories (
    problem_id  BIGINT NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (problem_id, category_id)
);
`

const migration001Down = `
DROP TABLE IF EXISTS problem_categories;
DROP TABLE IF EXISTS categories;
DROP TABLE IF EXISTS cards;
DROP TABLE IF EXISTS problems;
DROP TABLE IF EXISTS users;
`

// Migration 2: the progress tables this service owns. Statuses are closed
// enums enforced by CHECK constraints; one row per (user, card) and per
// (user, problem) is enforced by unique constraints so writes can upsert.
const migration002Up = `
CREATE TABLE IF NOT EXISTS user_card_progress (
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    card_id     BIGINT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    problem_id  BIGINT NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
    status      TEXT NOT NULL CHECK (status IN ('perfect', 'vague', 'forgotten')),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, card_id)
);

CREATE INDEX IF NOT EXISTS idx_card_progress_user_problem
    ON user_card_progress(user_id, problem_id);
CREATE INDEX IF NOT EXISTS idx_card_progress_user_updated
    ON user_card_progress(user_id, updated_at);

CREATE TABLE IF NOT EXISTS user_problem_progress (
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    problem_id  BIGINT NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
    status      TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'ongoing', 'completed')),
    is_liked    BOOLEAN NOT NULL DEFAULT FALSE,
    is_scrapped BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, problem_id)
);

CREATE INDEX IF NOT EXISTS idx_problem_progress_user
    ON user_problem_progress(user_id);
CREATE INDEX IF NOT EXISTS idx_problem_progress_problem
    ON user_problem_progress(problem_id);
`

const migration002Down = `
DROP TABLE IF EXISTS user_problem_progress;
DROP TABLE IF EXISTS user_card_progress;
`
