// Package store persists the reference bundle and search history in a SQL
// database. SQLite and MySQL share one implementation; only the schema DDL
// differs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vanshika/rxnpath/internal/domain"
)

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("store is closed")

const (
	sideSubstrate = "S"
	sideProduct   = "P"
)

// SQLStore implements reference data and search history persistence over
// database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect string
	mu      sync.RWMutex
	closed  bool
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect string, schema []string) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// Dialect names the backing database, "sqlite" or "mysql".
func (s *SQLStore) Dialect() string {
	return s.dialect
}

func (s *SQLStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Ping verifies the database connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.db.PingContext(ctx)
}

// Close releases the connection pool. Repeated calls are no-ops.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaveReferenceData replaces every stored reaction, compound and enzyme with
// the contents of ref in one transaction.
func (s *SQLStore) SaveReferenceData(ctx context.Context, ref *domain.ReferenceData) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"reaction_compounds", "reaction_enzymes", "reactions", "compounds", "enzymes"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for _, id := range ref.ReactionIDs() {
			r := ref.Reactions[id]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO reactions (id, equation, complexity, ignored) VALUES (?, ?, ?, ?)`,
				r.ID, r.Equation, r.Complexity, ref.IgnoredReactions.Has(id)); err != nil {
				return fmt.Errorf("insert reaction %s: %w", id, err)
			}
			if err := insertSide(ctx, tx, id, sideSubstrate, r.Substrates); err != nil {
				return err
			}
			if err := insertSide(ctx, tx, id, sideProduct, r.Products); err != nil {
				return err
			}
			for pos, ec := range r.Enzymes {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO reaction_enzymes (reaction_id, ec, position) VALUES (?, ?, ?)`,
					id, ec, pos); err != nil {
					return fmt.Errorf("insert enzyme %s of reaction %s: %w", ec, id, err)
				}
			}
		}

		for _, id := range sortedKeys(ref.Compounds) {
			c := ref.Compounds[id]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO compounds (id, name, price, demand, ignored) VALUES (?, ?, ?, ?, ?)`,
				c.ID, c.Name, c.Price, c.Demand, ref.IgnoredCompounds.Has(id)); err != nil {
				return fmt.Errorf("insert compound %s: %w", id, err)
			}
		}
		// Ignored compounds that never appear in a reaction still need a row.
		for _, id := range ref.IgnoredCompounds.Sorted() {
			if _, ok := ref.Compounds[id]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO compounds (id, name, price, demand, ignored) VALUES (?, '', 0, 0, ?)`,
				id, true); err != nil {
				return fmt.Errorf("insert ignored compound %s: %w", id, err)
			}
		}

		for _, ec := range sortedKeys(ref.Enzymes) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO enzymes (ec, name) VALUES (?, ?)`, ec, ref.Enzymes[ec].Name); err != nil {
				return fmt.Errorf("insert enzyme %s: %w", ec, err)
			}
		}
		return nil
	})
}

func insertSide(ctx context.Context, tx *sql.Tx, reactionID, side string, coefficients map[string]int) error {
	for _, c := range sortedKeys(coefficients) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reaction_compounds (reaction_id, compound_id, side, coefficient) VALUES (?, ?, ?, ?)`,
			reactionID, c, side, coefficients[c]); err != nil {
			return fmt.Errorf("insert compound %s of reaction %s: %w", c, reactionID, err)
		}
	}
	return nil
}

// LoadReferenceData reads the stored bundle back and rebuilds its indexes.
func (s *SQLStore) LoadReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	ref := &domain.ReferenceData{
		Reactions:        make(map[string]domain.Reaction),
		Compounds:        make(map[string]domain.Compound),
		Enzymes:          make(map[string]domain.Enzyme),
		IgnoredCompounds: domain.NewIDSet(),
		IgnoredReactions: domain.NewIDSet(),
	}

	err := s.query(ctx, `SELECT id, equation, complexity, ignored FROM reactions`, func(rows *sql.Rows) error {
		var (
			r       domain.Reaction
			ignored bool
		)
		if err := rows.Scan(&r.ID, &r.Equation, &r.Complexity, &ignored); err != nil {
			return err
		}
		r.Substrates = map[string]int{}
		r.Products = map[string]int{}
		ref.Reactions[r.ID] = r
		if ignored {
			ref.IgnoredReactions.Add(r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reactions: %w", err)
	}

	err = s.query(ctx, `SELECT reaction_id, compound_id, side, coefficient FROM reaction_compounds`, func(rows *sql.Rows) error {
		var (
			reactionID, compoundID, side string
			coefficient                  int
		)
		if err := rows.Scan(&reactionID, &compoundID, &side, &coefficient); err != nil {
			return err
		}
		r, ok := ref.Reactions[reactionID]
		if !ok {
			return fmt.Errorf("compound %s references missing reaction %s", compoundID, reactionID)
		}
		if side == sideSubstrate {
			r.Substrates[compoundID] = coefficient
		} else {
			r.Products[compoundID] = coefficient
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load stoichiometry: %w", err)
	}

	err = s.query(ctx, `SELECT reaction_id, ec FROM reaction_enzymes ORDER BY reaction_id, position`, func(rows *sql.Rows) error {
		var reactionID, ec string
		if err := rows.Scan(&reactionID, &ec); err != nil {
			return err
		}
		r := ref.Reactions[reactionID]
		r.Enzymes = append(r.Enzymes, ec)
		ref.Reactions[reactionID] = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reaction enzymes: %w", err)
	}

	err = s.query(ctx, `SELECT id, name, price, demand, ignored FROM compounds`, func(rows *sql.Rows) error {
		var (
			c       domain.Compound
			ignored bool
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Price, &c.Demand, &ignored); err != nil {
			return err
		}
		if ignored {
			ref.IgnoredCompounds.Add(c.ID)
		}
		ref.Compounds[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load compounds: %w", err)
	}

	err = s.query(ctx, `SELECT ec, name FROM enzymes`, func(rows *sql.Rows) error {
		var e domain.Enzyme
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return err
		}
		ref.Enzymes[e.ID] = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load enzymes: %w", err)
	}

	ref.Reindex()
	return ref, nil
}

// RecordSearch appends rec to the search history.
func (s *SQLStore) RecordSearch(ctx context.Context, rec domain.SearchRecord) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	query, err := json.Marshal(rec.Query)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	var top sql.NullInt64
	if rec.TopScore != nil {
		top = sql.NullInt64{Int64: int64(*rec.TopScore), Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, query, result_count, top_score, duration_us, created_at_ns) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(query), rec.ResultCount, top, rec.Duration.Microseconds(), rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record search %s: %w", rec.ID, err)
	}
	return nil
}

// RecentSearches returns up to limit searches, newest first.
func (s *SQLStore) RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var out []domain.SearchRecord
	err := s.query(ctx,
		`SELECT id, query, result_count, top_score, duration_us, created_at_ns FROM search_history ORDER BY created_at_ns DESC, id LIMIT ?`,
		func(rows *sql.Rows) error {
			var (
				rec        domain.SearchRecord
				query      string
				top        sql.NullInt64
				durationUS int64
				createdNS  int64
			)
			if err := rows.Scan(&rec.ID, &query, &rec.ResultCount, &top, &durationUS, &createdNS); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(query), &rec.Query); err != nil {
				return fmt.Errorf("decode query of search %s: %w", rec.ID, err)
			}
			if top.Valid {
				score := int(top.Int64)
				rec.TopScore = &score
			}
			rec.Duration = time.Duration(durationUS) * time.Microsecond
			rec.CreatedAt = time.Unix(0, createdNS).UTC()
			out = append(out, rec)
			return nil
		}, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	return out, nil
}

func (s *SQLStore) query(ctx context.Context, stmt string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	domain.SortIDs(keys)
	return keys
}
