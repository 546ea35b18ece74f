// Package queue defines message payloads exchanged over the message broker.
package queue

// SaleRecordedEvent is published after a sale has been committed to the
// ledger. It carries enough for downstream consumers to log or aggregate
// without querying the primary database.
type SaleRecordedEvent struct {
	TransactionID uint64   `json:"transaction_id"`
	UserID        uint64   `json:"user_id"`
	Total         float64  `json:"total"`
	PaymentMethod string   `json:"payment_method"`
	LineCount     int      `json:"line_count"`
	SpotLabels    []string `json:"spots,omitempty"`
	PaidAt        string   `json:"paid_at"`
}
