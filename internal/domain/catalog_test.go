package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture() CatalogSnapshot {
	return NewCatalogSnapshot(
		[]Customer{
			{ID: "C001", Name: "Alice Chen", Email: "shared@example.com"},
			{ID: "C002", Name: "Bob Okafor", Email: "shared@example.com"},
		},
		[]Product{
			{ID: "P001", Name: "Steel Bracket", Price: decimal.NewFromInt(4), Stock: 100, MinQuantity: 10},
			{ID: "P002", Name: "Widget", Stock: 5, MinQuantity: 0},
			{ID: "P003", Name: "widget", Stock: 9, MinQuantity: 1},
		},
	)
}

func TestSnapshot_CustomerByEmailFirstMatchWins(t *testing.T) {
	s := snapshotFixture()

	c, ok := s.CustomerByEmail("shared@example.com")
	require.True(t, ok)
	assert.Equal(t, "C001", c.ID)

	_, ok = s.CustomerByEmail("Shared@example.com")
	assert.False(t, ok, "email match is case-sensitive")
}

func TestSnapshot_ProductByNameFirstMatchWins(t *testing.T) {
	s := snapshotFixture()

	// Both P002 and P003 normalize to "widget"; load order decides.
	p, ok := s.ProductByName("  WIDGET ")
	require.True(t, ok)
	assert.Equal(t, "P002", p.ID)
}

func TestSnapshot_MinQuantityNormalizedToOne(t *testing.T) {
	s := snapshotFixture()

	p, ok := s.Product("P002")
	require.True(t, ok)
	assert.Equal(t, int32(1), p.MinQuantity)
}

func TestSnapshot_DuplicateIDsKeepFirst(t *testing.T) {
	s := NewCatalogSnapshot(nil, []Product{
		{ID: "P001", Name: "First", Stock: 1},
		{ID: "P001", Name: "Second", Stock: 2},
	})

	require.Equal(t, 1, s.ProductCount())
	p, _ := s.Product("P001")
	assert.Equal(t, "First", p.Name)
}

func TestSnapshot_ProductsPreserveLoadOrder(t *testing.T) {
	s := snapshotFixture()

	products := s.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "P001", products[0].ID)
	assert.Equal(t, "P002", products[1].ID)
	assert.Equal(t, "P003", products[2].ID)
}
