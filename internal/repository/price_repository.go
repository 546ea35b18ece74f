package repository

import (
	"context"
	"database/sql"
)

// PriceRule maps a grid row to its daily umbrella price. Rules are
// independent of spots: a row may have spots without a rule (price defaults
// to zero) or a rule without spots (harmless leftover after a shrink).
type PriceRule struct {
	Row        string  `json:"row"`
	DailyPrice float64 `json:"dailyPrice"`
}

type PriceRepo struct{ db *sql.DB }

func NewPriceRepo(db *sql.DB) *PriceRepo { return &PriceRepo{db: db} }

// List returns the tenant's price rules ordered by row.
func (r *PriceRepo) List(ctx context.Context, userID uint64) ([]PriceRule, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT row_label, daily_price FROM price_rules WHERE user_id = ? ORDER BY row_label", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceRule
	for rows.Next() {
		var p PriceRule
		if err := rows.Scan(&p.Row, &p.DailyPrice); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Upsert creates or replaces the daily price for one row.
func (r *PriceRepo) Upsert(ctx context.Context, userID uint64, row string, price float64) (PriceRule, error) {
	const q = `INSERT INTO price_rules (user_id, row_label, daily_price) VALUES (?,?,?)
	           ON DUPLICATE KEY UPDATE daily_price=VALUES(daily_price)`
	if _, err := r.db.ExecContext(ctx, q, userID, row, price); err != nil {
		return PriceRule{}, err
	}
	return PriceRule{Row: row, DailyPrice: price}, nil
}
