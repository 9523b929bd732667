package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepx/backend/internal/catalog"
	"github.com/nepx/backend/internal/models"
)

func productIDs(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func newSeededCatalog() *CatalogService {
	return NewCatalogService(NewMemoryCatalogRepository(catalog.SeedProducts()))
}

func TestCatalogService_Browse(t *testing.T) {
	ctx := context.Background()
	svc := newSeededCatalog()

	t.Run("category lookup", func(t *testing.T) {
		res, err := svc.Browse(ctx, "sneakers", catalog.DefaultCriteria())
		require.NoError(t, err)
		assert.Equal(t, "Sneakers", res.Title)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, []string{"1", "2", "3"}, productIDs(res.Products))
	})

	t.Run("filters then sorts", func(t *testing.T) {
		c := catalog.DefaultCriteria()
		c.Brands = []string{"nike"}
		c.SortMode = catalog.SortPriceLow
		res, err := svc.Browse(ctx, "sneakers", c)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1"}, productIDs(res.Products))
	})

	t.Run("unknown category is an empty page", func(t *testing.T) {
		res, err := svc.Browse(ctx, "furniture", catalog.DefaultCriteria())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count)
		assert.NotNil(t, res.Products)
		assert.Empty(t, res.Products)
	})
}

func TestCatalogService_Lookups(t *testing.T) {
	ctx := context.Background()
	svc := newSeededCatalog()

	popular, err := svc.Popular(ctx)
	require.NoError(t, err)
	assert.Len(t, popular, 8)

	p, err := svc.Get(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, "PlayStation 5 Digital Edition", p.Name)

	_, err = svc.Get(ctx, "404")
	assert.ErrorIs(t, err, ErrProductNotFound)

	found, err := svc.Search(ctx, "supreme")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, productIDs(found))
}

func TestCatalogService_FilterOptions(t *testing.T) {
	svc := newSeededCatalog()

	opts, err := svc.FilterOptions(context.Background(), "sneakers")
	require.NoError(t, err)
	assert.Equal(t, []models.BrandCount{{Name: "Nike", Count: 2}, {Name: "Adidas", Count: 1}}, opts.Brands)
	assert.EqualValues(t, 15000, opts.MinPrice)
	assert.EqualValues(t, 35000, opts.MaxPrice)
	assert.Equal(t, 2, opts.XpressCount)
	assert.Equal(t, 3, opts.Total)

	empty, err := svc.FilterOptions(context.Background(), "furniture")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Brands)
}

func TestCatalogService_Stats(t *testing.T) {
	svc := newSeededCatalog()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalProducts)
	assert.Equal(t, 3, stats.ByCategory["sneakers"])
	assert.Equal(t, 2, stats.ByCategory["apparel"])
	assert.Equal(t, 3, stats.XpressProducts)
	assert.EqualValues(t, 358000, stats.TotalLowestAsk)
}

func TestCatalogService_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newSeededCatalog()

	created, err := svc.Create(ctx, &models.CreateProductRequest{
		Name:             " New Balance 550 White Green ",
		Brand:            "New Balance",
		Category:         "sneakers",
		LowestAsk:        16000,
		RetailPrice:      12000,
		IsXpressShipping: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID)
	assert.Equal(t, "New Balance 550 White Green", created.Name)

	c := catalog.DefaultCriteria()
	c.SortMode = catalog.SortNewest
	res, err := svc.Browse(ctx, "sneakers", c)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "3", "2", "1"}, productIDs(res.Products))

	_, err = svc.Create(ctx, &models.CreateProductRequest{LowestAsk: -1})
	assert.True(t, errors.Is(err, ErrInvalidProduct))

	require.NoError(t, svc.Delete(ctx, "2"))
	assert.ErrorIs(t, svc.Delete(ctx, "2"), ErrProductNotFound)

	res, err = svc.Browse(ctx, "sneakers", catalog.DefaultCriteria())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "9"}, productIDs(res.Products))
}
