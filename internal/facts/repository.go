package facts

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/factbot/core/logger"
)

// Row mirrors a record of the facts table.
type Row struct {
	Category string `db:"category"`
	Position int    `db:"position"`
	Body     string `db:"body"`
}

// Repository reads and seeds the facts table in PostgreSQL.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open database handle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const upsertFactSQL = `
INSERT INTO facts (category, position, body)
VALUES (:category, :position, :body)
ON CONFLICT (category, position) DO UPDATE SET body = EXCLUDED.body`

// Seed upserts every fact of t, keyed by category and position.
func (r *Repository) Seed(ctx context.Context, t *Table) (int, error) {
	rows := TableRows(t)
	if len(rows) == 0 {
		return 0, nil
	}
	start := time.Now()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("facts: begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, upsertFactSQL, row); err != nil {
			return 0, fmt.Errorf("facts: seed %s/%d: %w", row.Category, row.Position, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("facts: commit seed: %w", err)
	}
	logger.Info(ctx, "db.seed", "facts.seeded",
		slog.String("status", "ok"),
		slog.Int("count", len(rows)),
		slog.Duration("duration", logger.Took(start)),
	)
	return len(rows), nil
}

// Load reads the whole facts table and freezes it into a Table.
func (r *Repository) Load(ctx context.Context) (*Table, error) {
	var rows []Row
	start := time.Now()
	err := r.db.SelectContext(ctx, &rows,
		`SELECT category, position, body FROM facts ORDER BY category, position`)
	if err != nil {
		return nil, fmt.Errorf("facts: load: %w", err)
	}
	t, err := TableFromRows(rows)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "db", "facts.loaded",
		slog.String("status", "ok"),
		slog.Int("count", t.Total()),
		slog.Duration("duration", logger.Took(start)),
	)
	return t, nil
}

// TableFromRows groups rows by category, orders them by position and builds a Table.
func TableFromRows(rows []Row) (*Table, error) {
	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	entries := make(map[Category][]string, len(allCategories))
	for _, row := range sorted {
		c, ok := ParseCategory(row.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, row.Category)
		}
		entries[c] = append(entries[c], row.Body)
	}
	return NewTable(entries)
}

// TableRows flattens t into rows with 1-based positions.
func TableRows(t *Table) []Row {
	if t == nil {
		return nil
	}
	var rows []Row
	for _, c := range allCategories {
		for i, body := range t.Facts(c) {
			rows = append(rows, Row{Category: c.String(), Position: i + 1, Body: body})
		}
	}
	return rows
}
