package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL returns the DDL for all tables, prefixed for the current
// environment. Safe to run repeatedly - everything uses IF NOT EXISTS.
//
// Cards are stored normalized, as rows with an explicit sort_order
// column. Folder parent pointers are self-referential with ON DELETE
// SET NULL so a partial manual cleanup can never strand a child behind
// a missing parent.
func schemaSQL(t *TableNames) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    external_uid TEXT UNIQUE NOT NULL,
    email TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS %[2]s (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    parent_folder_id BIGINT REFERENCES %[2]s(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS %[3]s (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
    folder_id BIGINT REFERENCES %[2]s(id) ON DELETE SET NULL,
    name VARCHAR(255) NOT NULL,
    category VARCHAR(255),
    visibility TEXT NOT NULL DEFAULT 'private',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS %[4]s (
    id BIGSERIAL PRIMARY KEY,
    deck_id BIGINT NOT NULL REFERENCES %[3]s(id) ON DELETE CASCADE,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    media_url TEXT,
    sort_order INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS %[5]s (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID UNIQUE NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
    stats_enabled BOOLEAN NOT NULL DEFAULT true,
    dark_mode BOOLEAN NOT NULL DEFAULT false,
    font_size TEXT NOT NULL DEFAULT 'medium',
    high_contrast BOOLEAN NOT NULL DEFAULT false,
    reduced_motion BOOLEAN NOT NULL DEFAULT false,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS %[6]s (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
    deck_name TEXT NOT NULL,
    cards_studied INT NOT NULL DEFAULT 0,
    studied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_%[2]s_user ON %[2]s(user_id);
CREATE INDEX IF NOT EXISTS idx_%[3]s_user ON %[3]s(user_id);
CREATE INDEX IF NOT EXISTS idx_%[4]s_deck ON %[4]s(deck_id, sort_order);
CREATE INDEX IF NOT EXISTS idx_%[6]s_user ON %[6]s(user_id);
CREATE INDEX IF NOT EXISTS idx_%[6]s_date ON %[6]s(studied_at);
`, t.Users, t.Folders, t.Decks, t.Cards, t.Settings, t.StudySessions)
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, schemaSQL(tables)); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// DropAllTables drops every table for the current prefix. Used by the
// seed tool for fresh starts; the caller is responsible for guarding
// against production environments.
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	// Children before parents
	ordered := []string{
		tables.StudySessions,
		tables.Settings,
		tables.Cards,
		tables.Decks,
		tables.Folders,
		tables.Users,
	}
	for _, name := range ordered {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	return nil
}
