package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores board seeds. A running board never writes back to it.
type Repository struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a shared in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS lanes (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			lane_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY(lane_id) REFERENCES lanes(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lanes_position ON lanes(position);`,
		`CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// LoadSeed reads lanes and items in stored order.
func (r *Repository) LoadSeed(ctx context.Context) (board.Seed, error) {
	seed := board.Seed{Lanes: []domain.Lane{}, Items: []domain.Item{}}

	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM lanes ORDER BY position ASC, id ASC`)
	if err != nil {
		return board.Seed{}, fmt.Errorf("query lanes: %w", err)
	}
	for rows.Next() {
		lane, err := scanLane(rows)
		if err != nil {
			_ = rows.Close()
			return board.Seed{}, err
		}
		seed.Lanes = append(seed.Lanes, lane)
	}
	if err := closeRows(rows); err != nil {
		return board.Seed{}, fmt.Errorf("read lanes: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `SELECT id, lane_id, title FROM items ORDER BY position ASC, id ASC`)
	if err != nil {
		return board.Seed{}, fmt.Errorf("query items: %w", err)
	}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			_ = rows.Close()
			return board.Seed{}, err
		}
		seed.Items = append(seed.Items, item)
	}
	if err := closeRows(rows); err != nil {
		return board.Seed{}, fmt.Errorf("read items: %w", err)
	}
	return seed, nil
}

// ReplaceSeed validates seed and replaces the stored board in one transaction.
func (r *Repository) ReplaceSeed(ctx context.Context, seed board.Seed) error {
	state, err := board.FromSeed(seed)
	if err != nil {
		return errors.Join(app.ErrInvalidSeed, err)
	}
	snap := state.Snapshot()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM lanes`); err != nil {
		return fmt.Errorf("clear lanes: %w", err)
	}
	for pos, lane := range snap.Lanes {
		if _, err = tx.ExecContext(ctx, `INSERT INTO lanes(id, title, position) VALUES (?, ?, ?)`, int(lane.ID), lane.Title, pos); err != nil {
			return fmt.Errorf("insert lane %d: %w", lane.ID, err)
		}
	}
	for pos, item := range snap.Items {
		if _, err = tx.ExecContext(ctx, `INSERT INTO items(id, lane_id, title, position) VALUES (?, ?, ?, ?)`, string(item.ID), int(item.LaneID), item.Title, pos); err != nil {
			return fmt.Errorf("insert item %q: %w", item.ID, err)
		}
	}

	err = tx.Commit()
	return err
}

// scanner is the row subset used by scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanLane decodes one lane row.
func scanLane(s scanner) (domain.Lane, error) {
	var (
		id    int
		title string
	)
	if err := s.Scan(&id, &title); err != nil {
		return domain.Lane{}, err
	}
	return domain.Lane{ID: domain.LaneID(id), Title: title}, nil
}

// scanItem decodes one item row.
func scanItem(s scanner) (domain.Item, error) {
	var (
		id     string
		laneID int
		title  string
	)
	if err := s.Scan(&id, &laneID, &title); err != nil {
		return domain.Item{}, err
	}
	return domain.Item{ID: domain.ItemID(id), LaneID: domain.LaneID(laneID), Title: title}, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
