package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Catalog item categories.
const (
	CategoryBar        = "bar"
	CategoryRestaurant = "restaurant"
	CategoryService    = "service"
	CategoryOther      = "other"
)

// ValidCategory reports whether c is one of the catalog categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryBar, CategoryRestaurant, CategoryService, CategoryOther:
		return true
	}
	return false
}

// CatalogItem is one sellable product or service in a tenant's menu.
// Deletion is a hard delete; past transaction lines keep the item's name and
// price as copied values, so nothing dangles.
type CatalogItem struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"-"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CatalogRepo struct{ db *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// List returns the tenant's menu ordered by id.
func (r *CatalogRepo) List(ctx context.Context, userID uint64) ([]CatalogItem, error) {
	const q = `SELECT id, user_id, name, category, price, created_at, updated_at
	           FROM catalog_items WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CatalogItem
	for rows.Next() {
		var it CatalogItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Category, &it.Price,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Get retrieves one item within the tenant's scope.
func (r *CatalogRepo) Get(ctx context.Context, userID, id uint64) (CatalogItem, error) {
	const q = `SELECT id, user_id, name, category, price, created_at, updated_at
	           FROM catalog_items WHERE id = ? AND user_id = ?`
	var it CatalogItem
	err := r.db.QueryRowContext(ctx, q, id, userID).
		Scan(&it.ID, &it.UserID, &it.Name, &it.Category, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CatalogItem{}, ErrNotFound
	}
	return it, err
}

// Create inserts a new item and returns it with its id populated.
func (r *CatalogRepo) Create(ctx context.Context, userID uint64, name, category string, price float64) (CatalogItem, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO catalog_items (user_id, name, category, price) VALUES (?,?,?,?)",
		userID, name, category, price)
	if err != nil {
		return CatalogItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return CatalogItem{}, err
	}
	return r.Get(ctx, userID, uint64(id))
}

// Update applies a partial update; nil fields are left untouched.
func (r *CatalogRepo) Update(ctx context.Context, userID, id uint64, name *string, category *string, price *float64) (CatalogItem, error) {
	// Existence check first: a no-change UPDATE also affects zero rows.
	if _, err := r.Get(ctx, userID, id); err != nil {
		return CatalogItem{}, err
	}

	query := "UPDATE catalog_items SET updated_at = CURRENT_TIMESTAMP"
	args := []interface{}{}
	if name != nil {
		query += ", name = ?"
		args = append(args, *name)
	}
	if category != nil {
		query += ", category = ?"
		args = append(args, *category)
	}
	if price != nil {
		query += ", price = ?"
		args = append(args, *price)
	}
	query += " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return CatalogItem{}, err
	}
	return r.Get(ctx, userID, id)
}

// Delete hard-deletes an item within the tenant's scope.
func (r *CatalogRepo) Delete(ctx context.Context, userID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM catalog_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
