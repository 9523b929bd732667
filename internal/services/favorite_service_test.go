package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepx/backend/internal/catalog"
)

func newFavorites(t *testing.T) (*MemoryFavoriteService, *MemoryCatalogRepository) {
	t.Helper()
	repo := NewMemoryCatalogRepository(catalog.SeedProducts())
	return NewMemoryFavoriteService(repo), repo
}

func TestMemoryFavoriteService_AddRemove(t *testing.T) {
	ctx := context.Background()
	favs, _ := newFavorites(t)

	fav, err := favs.AddFavorite(ctx, "u1", "3")
	require.NoError(t, err)
	assert.Equal(t, "u1", fav.UserID)
	assert.Equal(t, "3", fav.ProductID)
	assert.NotEmpty(t, fav.ID)

	_, err = favs.AddFavorite(ctx, "u1", "3")
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	_, err = favs.AddFavorite(ctx, "u1", "999")
	assert.ErrorIs(t, err, ErrFavoriteProductGone)

	_, err = favs.AddFavorite(ctx, "", "3")
	assert.ErrorIs(t, err, ErrFavoriteBadInput)

	ok, err := favs.IsFavorited(ctx, "u1", "3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = favs.IsFavorited(ctx, "u2", "3")
	require.NoError(t, err)
	assert.False(t, ok, "favorites are per user")

	require.NoError(t, favs.RemoveFavorite(ctx, "u1", "3"))
	assert.ErrorIs(t, favs.RemoveFavorite(ctx, "u1", "3"), ErrFavoriteNotFound)
}

func TestMemoryFavoriteService_Toggle(t *testing.T) {
	ctx := context.Background()
	favs, _ := newFavorites(t)

	on, err := favs.Toggle(ctx, "u1", "1")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = favs.Toggle(ctx, "u1", "1")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = favs.Toggle(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrFavoriteProductGone)
}

func TestMemoryFavoriteService_ListOrderAndDeletedProducts(t *testing.T) {
	ctx := context.Background()
	favs, repo := newFavorites(t)

	for _, id := range []string{"1", "5", "8"} {
		_, err := favs.AddFavorite(ctx, "u1", id)
		require.NoError(t, err)
	}

	list, err := favs.ListUserFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "8", list[0].ProductID)
	assert.Equal(t, "1", list[2].ProductID)

	require.NoError(t, repo.Delete(ctx, "5"))
	products, err := favs.ListUserFavoriteProducts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "1"}, productIDs(products))

	empty, err := favs.ListUserFavoriteProducts(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryFavoriteService_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	favs, _ := newFavorites(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = favs.Toggle(ctx, "u1", "2")
		}()
	}
	wg.Wait()

	list, err := favs.ListUserFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list, "an even number of toggles leaves the product unfavorited")
}

func TestMemoryFavoriteService_DeleteUserFavorites(t *testing.T) {
	ctx := context.Background()
	favs, _ := newFavorites(t)

	for _, id := range []string{"2", "7"} {
		_, err := favs.AddFavorite(ctx, "u1", id)
		require.NoError(t, err)
	}
	_, err := favs.AddFavorite(ctx, "u2", "2")
	require.NoError(t, err)

	n, err := favs.DeleteUserFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := favs.ListUserFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err := favs.IsFavorited(ctx, "u2", "2")
	require.NoError(t, err)
	assert.True(t, ok, "other users keep their favorites")

	_, err = favs.DeleteUserFavorites(ctx, "")
	assert.ErrorIs(t, err, ErrFavoriteBadInput)
}
