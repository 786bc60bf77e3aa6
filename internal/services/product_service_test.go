package services

import (
	"context"
	"testing"

	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductDefaults(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, ProductInput{Name: "  Kopi Sachet  ", Category: "minuman", Price: 2000, CostPrice: 1500, Stock: 100})
	require.NoError(t, err)
	assert.Equal(t, "Kopi Sachet", p.Name)
	assert.Equal(t, "pcs", p.Unit)
	assert.True(t, p.IsActive)

	_, err = f.products.Create(ctx, ProductInput{Name: "  ", Price: 1000})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
	_, err = f.products.Create(ctx, ProductInput{Name: "Rugi", Price: -1})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestSearchProducts(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)
	f.seedProduct(t, "Beras 10kg", 135000, 120000, 5)
	minyak := f.seedProduct(t, "Minyak Goreng", 18000, 15000, 20)

	results, err := f.products.Search(ctx, "beras")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Deactivated products never show up in search.
	require.NoError(t, f.products.Deactivate(ctx, minyak.ID))
	results, err = f.products.Search(ctx, "minyak")
	require.NoError(t, err)
	assert.Empty(t, results)

	// A blank query lists the active catalog.
	results, err = f.products.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRestock(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 3)

	p, err := f.products.Restock(ctx, beras.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)

	_, err = f.products.Restock(ctx, beras.ID, 0)
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)

	_, err = f.products.Restock(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, warung_errors.ErrNotFound)
}

func TestLowStockThreshold(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	// MinStock is 2 in the fixture: at the threshold counts, above does not.
	f.seedProduct(t, "Gula", 15000, 13000, 2)
	f.seedProduct(t, "Beras 5kg", 70000, 62000, 3)

	low, err := f.products.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Gula", low[0].Name)
}
