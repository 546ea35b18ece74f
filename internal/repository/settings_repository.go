package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Defaults applied when an account has no settings row yet. They match the
// layout the point of sale seeds for a brand-new establishment.
const (
	DefaultName     = "Lido Manager"
	DefaultGridRows = 6
	DefaultGridCols = 10
)

// Settings holds per-tenant establishment configuration. Rows and Cols are
// the desired grid bounds; changing them does not touch the spot grid by
// itself, callers must follow up with a grid sync.
type Settings struct {
	UserID    uint64    `json:"-"`
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SettingsRepo struct{ db *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// GetOrCreate returns the tenant's settings, inserting the defaults on first
// access so callers always see a row.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, userID uint64) (Settings, error) {
	s, err := r.get(ctx, userID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Settings{}, err
	}
	// INSERT IGNORE keeps two concurrent first accesses from racing
	if _, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO settings (user_id, name, grid_rows, grid_cols) VALUES (?,?,?,?)",
		userID, DefaultName, DefaultGridRows, DefaultGridCols); err != nil {
		return Settings{}, err
	}
	return r.get(ctx, userID)
}

// Update upserts the tenant's settings row.
func (r *SettingsRepo) Update(ctx context.Context, userID uint64, name string, rows, cols int) (Settings, error) {
	const q = `INSERT INTO settings (user_id, name, grid_rows, grid_cols) VALUES (?,?,?,?)
	           ON DUPLICATE KEY UPDATE name=VALUES(name), grid_rows=VALUES(grid_rows), grid_cols=VALUES(grid_cols)`
	if _, err := r.db.ExecContext(ctx, q, userID, name, rows, cols); err != nil {
		return Settings{}, err
	}
	return r.get(ctx, userID)
}

func (r *SettingsRepo) get(ctx context.Context, userID uint64) (Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, name, grid_rows, grid_cols, updated_at FROM settings WHERE user_id=?",
		userID).Scan(&s.UserID, &s.Name, &s.Rows, &s.Cols, &s.UpdatedAt)
	return s, err
}
