package repository // repository defines data access for the umbrella spot grid

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// Spot statuses. Status is overwritten on update, so any status-to-status
// write is allowed; the ledger only ever writes StatusOccupied.
const (
	StatusFree     = "free"
	StatusOccupied = "occupied"
	StatusReserved = "reserved"
)

// MaxSunbeds is the per-spot sunbed cap; out-of-range input is clamped, not
// rejected.
const MaxSunbeds = 2

// MaxGridRows bounds the grid height to the single-letter labels A..Z.
const MaxGridRows = 26

// Spot is one rentable unit in a tenant's layout, identified by
// (user, row label, number) within the configured rows x cols bounds.
type Spot struct {
	ID        uint64    `json:"-"`
	UserID    uint64    `json:"-"`
	Row       string    `json:"row"`
	Number    uint32    `json:"number"`
	Status    string    `json:"status"`
	Sunbeds   int       `json:"sunbeds"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Label renders the spot's grid position, e.g. "A12".
func (s Spot) Label() string {
	return s.Row + strconv.FormatUint(uint64(s.Number), 10)
}

// ErrSpotNotFound is returned when a spot lookup yields no rows in the
// tenant's scope.
var ErrSpotNotFound = errors.New("spot not found")

// ValidStatus reports whether s is one of the three spot statuses.
func ValidStatus(s string) bool {
	return s == StatusFree || s == StatusOccupied || s == StatusReserved
}

// ClampSunbeds forces a requested sunbed count into [0, MaxSunbeds].
func ClampSunbeds(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxSunbeds {
		return MaxSunbeds
	}
	return n
}

// RowLabel converts a zero-based row index into its letter label (0 -> "A").
// The grid is bounded by MaxGridRows, so a single letter always suffices.
func RowLabel(i int) string {
	if i < 0 || i >= MaxGridRows {
		return ""
	}
	return string(rune('A' + i))
}

// ParseSpotLabel splits a grid label like "A12" into row letter and number.
func ParseSpotLabel(label string) (row string, number uint32, ok bool) {
	if len(label) < 2 {
		return "", 0, false
	}
	r := label[0]
	if r >= 'a' && r <= 'z' {
		r -= 32
	}
	if r < 'A' || r > 'Z' {
		return "", 0, false
	}
	n, err := strconv.ParseUint(label[1:], 10, 32)
	if err != nil || n == 0 {
		return "", 0, false
	}
	return string(rune(r)), uint32(n), true
}

// PlanGrid computes which spots must be created to bring a tenant's grid to
// rows x cols. Positions already present are left alone so their status and
// sunbed count survive a resize; positions outside the new bounds are the
// caller's to remove. New spots start free with zero sunbeds.
func PlanGrid(existing []Spot, rows, cols int) []Spot {
	present := make(map[string]bool, len(existing))
	for _, s := range existing {
		present[s.Label()] = true
	}
	var create []Spot
	for r := 0; r < rows; r++ {
		label := RowLabel(r)
		for c := 1; c <= cols; c++ {
			s := Spot{Row: label, Number: uint32(c), Status: StatusFree}
			if !present[s.Label()] {
				create = append(create, s)
			}
		}
	}
	return create
}

// SpotRepo provides methods to work with the spot grid in the database.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo with the given DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{db: db}
}

// List retrieves the tenant's full grid ordered by row label then number.
func (r *SpotRepo) List(ctx context.Context, userID uint64) ([]Spot, error) {
	const q = `SELECT id, user_id, row_label, spot_number, status, sunbeds, created_at, updated_at
	           FROM spots
	           WHERE user_id = ?
	           ORDER BY row_label, spot_number`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Spot
	for rows.Next() {
		var s Spot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Row, &s.Number, &s.Status, &s.Sunbeds,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Sync reconciles the tenant's grid with the requested bounds in a single
// transaction: spots outside rows x cols are deleted, missing in-bounds
// positions are inserted free, and everything in the overlap keeps its
// status and sunbed count. Calling it twice with the same bounds is a no-op
// the second time. Returns the resulting grid.
func (r *SpotRepo) Sync(ctx context.Context, userID uint64, rows, cols int) ([]Spot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := listTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Single-letter labels compare lexicographically, so "row_label > ?"
	// catches every row past the new bound.
	maxLabel := RowLabel(rows - 1)
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM spots WHERE user_id = ? AND (row_label > ? OR spot_number > ?)",
		userID, maxLabel, cols); err != nil {
		return nil, err
	}

	if create := PlanGrid(existing, rows, cols); len(create) > 0 {
		query := "INSERT INTO spots (user_id, row_label, spot_number, status, sunbeds) VALUES "
		args := make([]interface{}, 0, len(create)*5)
		for i, s := range create {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, userID, s.Row, s.Number, s.Status, s.Sunbeds)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.List(ctx, userID)
}

// Update applies a partial update to one spot addressed by grid position.
// Nil fields are left untouched; sunbeds are clamped into [0, MaxSunbeds].
// Returns the updated spot, or ErrSpotNotFound when the position does not
// exist in the tenant's grid.
func (r *SpotRepo) Update(ctx context.Context, userID uint64, row string, number uint32, status *string, sunbeds *int) (Spot, error) {
	query := "UPDATE spots SET updated_at = CURRENT_TIMESTAMP"
	args := []interface{}{}
	if status != nil {
		query += ", status = ?"
		args = append(args, *status)
	}
	if sunbeds != nil {
		query += ", sunbeds = ?"
		args = append(args, ClampSunbeds(*sunbeds))
	}
	query += " WHERE user_id = ? AND row_label = ? AND spot_number = ?"
	args = append(args, userID, row, number)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return Spot{}, err
	}
	// MySQL reports zero affected rows for a no-change write, so absence is
	// detected by the follow-up lookup rather than RowsAffected.
	return r.Get(ctx, userID, row, number)
}

// Get retrieves one spot by grid position within the tenant's scope.
func (r *SpotRepo) Get(ctx context.Context, userID uint64, row string, number uint32) (Spot, error) {
	const q = `SELECT id, user_id, row_label, spot_number, status, sunbeds, created_at, updated_at
	           FROM spots WHERE user_id = ? AND row_label = ? AND spot_number = ?`
	var s Spot
	err := r.db.QueryRowContext(ctx, q, userID, row, number).
		Scan(&s.ID, &s.UserID, &s.Row, &s.Number, &s.Status, &s.Sunbeds, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Spot{}, ErrSpotNotFound
	}
	return s, err
}

func listTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]Spot, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, row_label, spot_number, status, sunbeds, created_at, updated_at
		 FROM spots WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Spot
	for rows.Next() {
		var s Spot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Row, &s.Number, &s.Status, &s.Sunbeds,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
