package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const mysqlTableOptions = ` ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS reactions (
		id VARCHAR(64) PRIMARY KEY,
		equation TEXT NOT NULL,
		complexity DOUBLE NOT NULL DEFAULT 0,
		ignored BOOLEAN NOT NULL DEFAULT FALSE
	)` + mysqlTableOptions,
	`CREATE TABLE IF NOT EXISTS reaction_compounds (
		reaction_id VARCHAR(64) NOT NULL,
		compound_id VARCHAR(64) NOT NULL,
		side CHAR(1) NOT NULL,
		coefficient INT NOT NULL,
		PRIMARY KEY (reaction_id, side, compound_id),
		INDEX idx_reaction_compounds_compound (compound_id),
		FOREIGN KEY (reaction_id) REFERENCES reactions(id) ON DELETE CASCADE
	)` + mysqlTableOptions,
	`CREATE TABLE IF NOT EXISTS reaction_enzymes (
		reaction_id VARCHAR(64) NOT NULL,
		ec VARCHAR(64) NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (reaction_id, ec),
		FOREIGN KEY (reaction_id) REFERENCES reactions(id) ON DELETE CASCADE
	)` + mysqlTableOptions,
	`CREATE TABLE IF NOT EXISTS compounds (
		id VARCHAR(64) PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		demand DOUBLE NOT NULL DEFAULT 0,
		ignored BOOLEAN NOT NULL DEFAULT FALSE
	)` + mysqlTableOptions,
	`CREATE TABLE IF NOT EXISTS enzymes (
		ec VARCHAR(64) PRIMARY KEY,
		name TEXT NOT NULL
	)` + mysqlTableOptions,
	`CREATE TABLE IF NOT EXISTS search_history (
		id VARCHAR(64) PRIMARY KEY,
		query JSON NOT NULL,
		result_count INT NOT NULL,
		top_score INT NULL,
		duration_us BIGINT NOT NULL,
		created_at_ns BIGINT NOT NULL,
		INDEX idx_search_history_created (created_at_ns)
	)` + mysqlTableOptions,
}

// OpenMySQL connects with dsn ("user:pass@tcp(host:3306)/db") and creates
// the schema if needed.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql %s: %w", cfg.Addr, err)
	}

	s, err := newSQLStore(ctx, db, "mysql", mysqlSchema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
