package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS reactions (
		id TEXT PRIMARY KEY,
		equation TEXT NOT NULL DEFAULT '',
		complexity REAL NOT NULL DEFAULT 0,
		ignored INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS reaction_compounds (
		reaction_id TEXT NOT NULL REFERENCES reactions(id) ON DELETE CASCADE,
		compound_id TEXT NOT NULL,
		side TEXT NOT NULL CHECK (side IN ('S', 'P')),
		coefficient INTEGER NOT NULL,
		PRIMARY KEY (reaction_id, side, compound_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reaction_compounds_compound ON reaction_compounds(compound_id)`,
	`CREATE TABLE IF NOT EXISTS reaction_enzymes (
		reaction_id TEXT NOT NULL REFERENCES reactions(id) ON DELETE CASCADE,
		ec TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (reaction_id, ec)
	)`,
	`CREATE TABLE IF NOT EXISTS compounds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		demand REAL NOT NULL DEFAULT 0,
		ignored INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS enzymes (
		ec TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		top_score INTEGER,
		duration_us INTEGER NOT NULL,
		created_at_ns INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_created ON search_history(created_at_ns)`,
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; a single connection also keeps ":memory:" alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s, err := newSQLStore(ctx, db, "sqlite", sqliteSchema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
