package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Transaction line item types.
const (
	ItemProduct  = "product"
	ItemUmbrella = "umbrella"
	ItemService  = "service"
)

// ValidItemType reports whether t is one of the transaction line types.
func ValidItemType(t string) bool {
	return t == ItemProduct || t == ItemUmbrella || t == ItemService
}

// TransactionItem is one priced line of a sale. Name and UnitPrice are
// copied at sale time, so later catalog or price changes never alter a
// recorded total. Reference optionally points back at the originating
// catalog item id or spot label; a broken reference is tolerated.
type TransactionItem struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Type      string  `json:"type"`
	Reference string  `json:"referenceId,omitempty"`
}

// Transaction is an immutable sale record. There are no update or delete
// operations; the ledger is append-only.
type Transaction struct {
	ID            uint64            `json:"id"`
	UserID        uint64            `json:"-"`
	PaidAt        time.Time         `json:"date"`
	PaymentMethod string            `json:"paymentMethod"`
	Total         float64           `json:"total"`
	Items         []TransactionItem `json:"items"`
}

// ComputeTotal sums unit price times quantity over the lines. The server
// always derives the total this way; a client-supplied figure is ignored.
func ComputeTotal(items []TransactionItem) float64 {
	var total float64
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// ErrEmptyTransaction is returned when a sale carries no line items.
var ErrEmptyTransaction = errors.New("transaction has no items")

type TransactionRepo struct{ db *sql.DB }

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// Create appends a sale to the ledger. The ledger insert and the occupancy
// transition of every referenced umbrella spot run in one database
// transaction: if any referenced spot is missing from the tenant's grid the
// whole sale rolls back with ErrSpotNotFound. The total is computed here
// from the lines, never taken from the caller.
func (r *TransactionRepo) Create(ctx context.Context, userID uint64, items []TransactionItem, paymentMethod string) (Transaction, error) {
	if len(items) == 0 {
		return Transaction{}, ErrEmptyTransaction
	}
	total := ComputeTotal(items)
	paidAt := time.Now().UTC().Truncate(time.Second)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Transaction{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (user_id, paid_at, payment_method, total) VALUES (?,?,?,?)",
		userID, paidAt, paymentMethod, total)
	if err != nil {
		return Transaction{}, err
	}
	txnID, err := res.LastInsertId()
	if err != nil {
		return Transaction{}, err
	}

	query := "INSERT INTO transaction_items (transaction_id, name, unit_price, quantity, item_type, reference) VALUES "
	args := make([]interface{}, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		ref := sql.NullString{String: it.Reference, Valid: it.Reference != ""}
		args = append(args, txnID, it.Name, it.UnitPrice, it.Quantity, it.Type, ref)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Transaction{}, err
	}

	// Occupancy follows the sale atomically: an umbrella line flips its
	// referenced spot to occupied, and an unknown reference aborts the sale.
	for _, it := range items {
		if it.Type != ItemUmbrella || it.Reference == "" {
			continue
		}
		row, number, ok := ParseSpotLabel(it.Reference)
		if !ok {
			return Transaction{}, ErrSpotNotFound
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE spots SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND row_label = ? AND spot_number = ?",
			StatusOccupied, userID, row, number)
		if err != nil {
			return Transaction{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists int
			if err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM spots WHERE user_id = ? AND row_label = ? AND spot_number = ?",
				userID, row, number).Scan(&exists); err != nil {
				return Transaction{}, err
			}
			if exists == 0 {
				return Transaction{}, ErrSpotNotFound
			}
			// zero rows because the spot was already occupied: fine
		}
	}

	if err := tx.Commit(); err != nil {
		return Transaction{}, err
	}

	out := Transaction{
		ID:            uint64(txnID),
		UserID:        userID,
		PaidAt:        paidAt,
		PaymentMethod: paymentMethod,
		Total:         total,
		Items:         items,
	}
	return out, nil
}

// List returns the tenant's transactions most-recent-first, lines included.
func (r *TransactionRepo) List(ctx context.Context, userID uint64) ([]Transaction, error) {
	const q = `SELECT id, user_id, paid_at, payment_method, total
	           FROM transactions WHERE user_id = ?
	           ORDER BY paid_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	index := map[uint64]int{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.PaidAt, &t.PaymentMethod, &t.Total); err != nil {
			return nil, err
		}
		t.Items = []TransactionItem{}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qi = `SELECT ti.transaction_id, ti.id, ti.name, ti.unit_price, ti.quantity, ti.item_type, ti.reference
	            FROM transaction_items ti
	            JOIN transactions t ON t.id = ti.transaction_id
	            WHERE t.user_id = ?
	            ORDER BY ti.id`
	itemRows, err := r.db.QueryContext(ctx, qi, userID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var txnID uint64
		var it TransactionItem
		var ref sql.NullString
		if err := itemRows.Scan(&txnID, &it.ID, &it.Name, &it.UnitPrice, &it.Quantity, &it.Type, &ref); err != nil {
			return nil, err
		}
		it.Reference = ref.String
		if i, ok := index[txnID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, itemRows.Err()
}
