package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Role values stored in users.role. Admin dominates user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the 'users' table. A user row is the tenant: every other
// entity in the schema hangs off users.id and is removed by cascade when the
// account is deleted.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// Account is the admin view of a user: the bare row plus the establishment
// name and a couple of usage counters.
type Account struct {
	User
	Establishment    string `json:"establishment"`
	SpotCount        int    `json:"spotCount"`
	TransactionCount int    `json:"transactionCount"`
}

var (
	// ErrEmailExists signals a duplicate signup email. Handlers translate
	// it into HTTP 409.
	ErrEmailExists = errors.New("email already exists")
	// ErrUserNotFound is returned when an account lookup yields no rows.
	ErrUserNotFound = errors.New("user not found")
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user together with its default settings row in one
// transaction, so a half-registered account can never exist. The grid stays
// uninitialized (zero spots) until the first sync. establishment is the
// initial settings name shown in the dashboard.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, name, establishment string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, role) VALUES (?,?,?,?)",
		email, passwordHash, name, RoleUser)
	if err != nil {
		// 1062 = ER_DUP_ENTRY on the unique email key
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO settings (user_id, name, grid_rows, grid_cols) VALUES (?,?,?,?)",
		id, establishment, DefaultGridRows, DefaultGridCols); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// ListAccounts returns every account with its establishment name and usage
// counters. Admin-only; this is the single query in the repo that crosses
// tenant boundaries.
func (r *UserRepo) ListAccounts(ctx context.Context) ([]Account, error) {
	const q = `SELECT u.id, u.email, u.name, u.role, u.created_at, u.updated_at,
	                  COALESCE(s.name, ''),
	                  (SELECT COUNT(*) FROM spots sp WHERE sp.user_id = u.id),
	                  (SELECT COUNT(*) FROM transactions t WHERE t.user_id = u.id)
	           FROM users u
	           LEFT JOIN settings s ON s.user_id = u.id
	           ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.CreatedAt, &a.UpdatedAt,
			&a.Establishment, &a.SpotCount, &a.TransactionCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an account. Settings, spots, price rules, catalog items and
// transactions follow by FK cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateRole sets an account's role. The caller validates the role value and
// rejects self-modification before reaching this point. Existence is checked
// first because MySQL reports zero affected rows for a no-change update.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) (User, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return User{}, err
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id); err != nil {
		return User{}, err
	}
	return r.GetByID(ctx, id)
}
