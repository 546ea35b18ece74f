package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/queue"
	"github.com/lucaferri/lido-manager/internal/repository"
	"github.com/lucaferri/lido-manager/internal/service"
)

// TransactionStore is the ledger surface the handler depends on. Satisfied
// by *repository.TransactionRepo.
type TransactionStore interface {
	Create(ctx context.Context, userID uint64, items []repository.TransactionItem, paymentMethod string) (repository.Transaction, error)
	List(ctx context.Context, userID uint64) ([]repository.Transaction, error)
}

// TransactionHandler serves the append-only sale ledger.
type TransactionHandler struct {
	Transactions TransactionStore
}

func NewTransactionHandler(t TransactionStore) *TransactionHandler {
	return &TransactionHandler{Transactions: t}
}

type txnItemReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Type        string  `json:"type"`
	ReferenceID string  `json:"referenceId"`
}

type txnCreateReq struct {
	Items         []txnItemReq `json:"items"`
	PaymentMethod string       `json:"paymentMethod"`
	// Total is accepted for wire compatibility but ignored: the server
	// recomputes it from the items.
	Total float64 `json:"total"`
}

// buildLines validates the request lines and converts them into repository
// items. It returns a message suitable for a 400 response when a line is
// malformed.
func buildLines(items []txnItemReq) ([]repository.TransactionItem, string) {
	if len(items) == 0 {
		return nil, "at least one item is required"
	}
	out := make([]repository.TransactionItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, "item name is required"
		}
		if it.Quantity < 1 {
			return nil, "item quantity must be at least 1"
		}
		if it.Price < 0 {
			return nil, "item price must not be negative"
		}
		if !repository.ValidItemType(it.Type) {
			return nil, "invalid item type"
		}
		out = append(out, repository.TransactionItem{
			Name:      strings.TrimSpace(it.Name),
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			Type:      it.Type,
			Reference: strings.TrimSpace(it.ReferenceID),
		})
	}
	return out, ""
}

// Create records a sale. The total is computed server-side, and every
// umbrella line flips its referenced spot to occupied in the same database
// transaction as the ledger insert; an unknown spot reference aborts the
// whole sale. On success a sale.recorded event is published best-effort.
func (h *TransactionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req txnCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	lines, msg := buildLines(req.Items)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = "cash"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	txn, err := h.Transactions.Create(ctx, uid, lines, method)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "referenced spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create transaction"})
	}

	// best-effort and off the request path: a broker outage must not fail
	// or slow down the sale
	go func(ev queue.SaleRecordedEvent) {
		_ = service.PublishSaleRecorded(context.Background(), ev)
	}(saleEvent(uid, txn))

	return c.JSON(http.StatusCreated, txn)
}

// List returns the tenant's transactions most-recent-first.
func (h *TransactionHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	txns, err := h.Transactions.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch transactions"})
	}
	if txns == nil {
		txns = []repository.Transaction{}
	}
	return c.JSON(http.StatusOK, txns)
}

func saleEvent(userID uint64, txn repository.Transaction) queue.SaleRecordedEvent {
	var spots []string
	for _, it := range txn.Items {
		if it.Type == repository.ItemUmbrella && it.Reference != "" {
			spots = append(spots, it.Reference)
		}
	}
	return queue.SaleRecordedEvent{
		TransactionID: txn.ID,
		UserID:        userID,
		Total:         txn.Total,
		PaymentMethod: txn.PaymentMethod,
		LineCount:     len(txn.Items),
		SpotLabels:    spots,
		PaidAt:        txn.PaidAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
