package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	items := []TransactionItem{
		{Name: "Caffè Espresso", UnitPrice: 1.5, Quantity: 2, Type: ItemProduct},
		{Name: "Ombrellone A1", UnitPrice: 30, Quantity: 1, Type: ItemUmbrella, Reference: "A1"},
		{Name: "Noleggio Kayak", UnitPrice: 15, Quantity: 3, Type: ItemService},
	}
	assert.InDelta(t, 78.0, ComputeTotal(items), 1e-9)
	assert.Zero(t, ComputeTotal(nil))
}

func TestValidItemType(t *testing.T) {
	assert.True(t, ValidItemType(ItemProduct))
	assert.True(t, ValidItemType(ItemUmbrella))
	assert.True(t, ValidItemType(ItemService))
	assert.False(t, ValidItemType("drink"))
	assert.False(t, ValidItemType(""))
}

func TestValidCategory(t *testing.T) {
	for _, c := range []string{CategoryBar, CategoryRestaurant, CategoryService, CategoryOther} {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("beach"))
	assert.False(t, ValidCategory(""))
}
