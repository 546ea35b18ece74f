package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaferri/lido-manager/internal/repository"
)

func freshGrid(rows, cols int) []repository.Spot {
	return repository.PlanGrid(nil, rows, cols)
}

func TestHydrateAndRead(t *testing.T) {
	m := New()
	m.HydrateSpots(freshGrid(2, 3))
	m.HydratePrices([]repository.PriceRule{{Row: "A", DailyPrice: 30}})

	spots := m.Spots()
	require.Len(t, spots, 6)
	assert.Equal(t, "A1", spots[0].Label())
	assert.Equal(t, "B3", spots[5].Label())

	assert.Equal(t, 30.0, m.PriceFor("A"))
	assert.Zero(t, m.PriceFor("B"), "row without a rule prices at zero")
}

func TestUpdateSpotClampsSunbeds(t *testing.T) {
	m := New()
	m.HydrateSpots(freshGrid(1, 1))

	five := 5
	_, err := m.UpdateSpot("A1", nil, &five)
	require.NoError(t, err)
	s, ok := m.Spot("A1")
	require.True(t, ok)
	assert.Equal(t, 2, s.Sunbeds)

	minus := -3
	_, err = m.UpdateSpot("A1", nil, &minus)
	require.NoError(t, err)
	s, _ = m.Spot("A1")
	assert.Equal(t, 0, s.Sunbeds)
}

func TestUpdateSpotUnknownLabel(t *testing.T) {
	m := New()
	status := repository.StatusOccupied
	_, err := m.UpdateSpot("Z9", &status, nil)
	assert.ErrorIs(t, err, ErrNotMirrored)
}

func TestResizePreservesOverlap(t *testing.T) {
	m := New()
	m.HydrateSpots(freshGrid(2, 3))
	occupied := repository.StatusOccupied
	two := 2
	_, err := m.UpdateSpot("A2", &occupied, &two)
	require.NoError(t, err)

	m.Resize(3, 2)

	spots := m.Spots()
	require.Len(t, spots, 6) // 3x2
	s, ok := m.Spot("A2")
	require.True(t, ok)
	assert.Equal(t, repository.StatusOccupied, s.Status)
	assert.Equal(t, 2, s.Sunbeds)

	_, ok = m.Spot("A3")
	assert.False(t, ok, "out-of-bounds spot must disappear")
	s, ok = m.Spot("C1")
	require.True(t, ok, "new row must appear")
	assert.Equal(t, repository.StatusFree, s.Status)
}

func TestRecordSaleOptimistic(t *testing.T) {
	m := New()
	m.HydrateSpots(freshGrid(1, 2))

	items := []repository.TransactionItem{
		{Name: "Ombrellone A1", UnitPrice: 30, Quantity: 1, Type: repository.ItemUmbrella, Reference: "A1"},
		{Name: "Cappuccino", UnitPrice: 2, Quantity: 3, Type: repository.ItemProduct},
	}
	_, mutID := m.RecordSale(items, "cash")

	txns := m.Transactions()
	require.Len(t, txns, 1)
	assert.InDelta(t, 36.0, txns[0].Total, 1e-9)

	s, _ := m.Spot("A1")
	assert.Equal(t, repository.StatusOccupied, s.Status, "umbrella line flips the local spot")
	s, _ = m.Spot("A2")
	assert.Equal(t, repository.StatusFree, s.Status)

	pending := m.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, mutID, pending[0].ID)
	assert.Equal(t, "transaction.create", pending[0].Op)
}

func TestConfirmTransactionSwapsTempRecord(t *testing.T) {
	m := New()
	items := []repository.TransactionItem{
		{Name: "Cappuccino", UnitPrice: 2, Quantity: 1, Type: repository.ItemProduct},
	}
	_, mutID := m.RecordSale(items, "card")

	server := repository.Transaction{ID: 99, PaymentMethod: "card", Total: 2, Items: items}
	require.NoError(t, m.ConfirmTransaction(mutID, server))

	txns := m.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, uint64(99), txns[0].ID)
	assert.Empty(t, m.Pending())
	assert.Empty(t, m.Failed())
}

func TestFailKeepsOptimisticState(t *testing.T) {
	m := New()
	m.HydrateSpots(freshGrid(1, 1))
	items := []repository.TransactionItem{
		{Name: "Ombrellone A1", UnitPrice: 30, Quantity: 1, Type: repository.ItemUmbrella, Reference: "A1"},
	}
	_, mutID := m.RecordSale(items, "cash")

	require.NoError(t, m.Fail(mutID, errors.New("spot not found")))

	// optimistic state stays: the sale is still visible and A1 still occupied
	assert.Len(t, m.Transactions(), 1)
	s, _ := m.Spot("A1")
	assert.Equal(t, repository.StatusOccupied, s.Status)

	failed := m.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "spot not found", failed[0].Err)
	assert.Empty(t, m.Pending())
}

func TestConfirmCatalogItem(t *testing.T) {
	m := New()
	tempKey, mutID := m.AddCatalogItem("Club Sandwich", repository.CategoryRestaurant, 12)
	require.NotEmpty(t, tempKey)

	require.NoError(t, m.ConfirmCatalogItem(mutID, repository.CatalogItem{
		ID: 4, Name: "Club Sandwich", Category: repository.CategoryRestaurant, Price: 12,
	}))

	items := m.Catalog()
	require.Len(t, items, 1)
	assert.Equal(t, uint64(4), items[0].ID)

	// the temp key is gone, the server id addresses the entry now
	_, err := m.DeleteCatalogItem(tempKey)
	assert.ErrorIs(t, err, ErrNotMirrored)
	_, err = m.DeleteCatalogItem("4")
	assert.NoError(t, err)
	assert.Empty(t, m.Catalog())
}

func TestUnknownMutation(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.Confirm("nope"), ErrUnknownMutation)
	assert.ErrorIs(t, m.Fail("nope", nil), ErrUnknownMutation)
	assert.ErrorIs(t, m.ConfirmTransaction("nope", repository.Transaction{}), ErrUnknownMutation)
}
