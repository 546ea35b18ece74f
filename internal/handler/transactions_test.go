package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaferri/lido-manager/internal/repository"
)

func TestBuildLines(t *testing.T) {
	t.Run("valid cart converts", func(t *testing.T) {
		lines, msg := buildLines([]txnItemReq{
			{Name: " Spritz Aperol ", Price: 5, Quantity: 2, Type: "product"},
			{Name: "Ombrellone A1", Price: 30, Quantity: 1, Type: "umbrella", ReferenceID: "A1"},
		})
		require.Empty(t, msg)
		require.Len(t, lines, 2)
		assert.Equal(t, "Spritz Aperol", lines[0].Name)
		assert.Equal(t, "A1", lines[1].Reference)
		assert.InDelta(t, 40.0, repository.ComputeTotal(lines), 1e-9)
	})

	t.Run("empty cart rejected", func(t *testing.T) {
		_, msg := buildLines(nil)
		assert.NotEmpty(t, msg)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, msg := buildLines([]txnItemReq{{Name: "x", Price: 1, Quantity: 0, Type: "product"}})
		assert.Contains(t, msg, "quantity")
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, msg := buildLines([]txnItemReq{{Name: "x", Price: -1, Quantity: 1, Type: "product"}})
		assert.Contains(t, msg, "price")
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, msg := buildLines([]txnItemReq{{Name: "x", Price: 1, Quantity: 1, Type: "drink"}})
		assert.Contains(t, msg, "type")
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, msg := buildLines([]txnItemReq{{Name: "  ", Price: 1, Quantity: 1, Type: "product"}})
		assert.Contains(t, msg, "name")
	})
}

func TestSaleEventCollectsSpotLabels(t *testing.T) {
	txn := repository.Transaction{
		ID:            3,
		Total:         42,
		PaymentMethod: "card",
		Items: []repository.TransactionItem{
			{Name: "Ombrellone A1", Type: repository.ItemUmbrella, Reference: "A1"},
			{Name: "Caffè", Type: repository.ItemProduct, Reference: "9"},
			{Name: "Ombrellone B2", Type: repository.ItemUmbrella, Reference: "B2"},
		},
	}
	ev := saleEvent(7, txn)
	assert.Equal(t, uint64(3), ev.TransactionID)
	assert.Equal(t, uint64(7), ev.UserID)
	assert.Equal(t, 3, ev.LineCount)
	assert.Equal(t, []string{"A1", "B2"}, ev.SpotLabels)
}
