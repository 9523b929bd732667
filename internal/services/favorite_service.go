package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nepx/backend/internal/models"
)

var (
	ErrFavoriteNotFound    = errors.New("favorite not found")
	ErrAlreadyFavorited    = errors.New("product already favorited")
	ErrFavoriteProductGone = errors.New("favorited product does not exist")
	ErrFavoriteBadInput    = errors.New("user id and product id are required")
)

// FavoriteService tracks which products each user has hearted. Lists are
// most recent first.
type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, productID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID string) error
	// Toggle flips the favorite and reports whether the product is now favorited.
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	IsFavorited(ctx context.Context, userID, productID string) (bool, error)
	ListUserFavorites(ctx context.Context, userID string) ([]*models.Favorite, error)
	// ListUserFavoriteProducts skips favorites whose product has been deleted.
	ListUserFavoriteProducts(ctx context.Context, userID string) ([]models.Product, error)
	// DeleteUserFavorites drops every favorite of userID and reports how many
	// there were.
	DeleteUserFavorites(ctx context.Context, userID string) (int, error)
}

var (
	_ FavoriteService = (*MemoryFavoriteService)(nil)
	_ FavoriteService = (*MongoFavoriteService)(nil)
)

type MemoryFavoriteService struct {
	mu      sync.RWMutex
	byUser  map[string][]*models.Favorite // userID -> favorites, oldest first
	catalog CatalogRepository
}

func NewMemoryFavoriteService(catalog CatalogRepository) *MemoryFavoriteService {
	return &MemoryFavoriteService{
		byUser:  make(map[string][]*models.Favorite),
		catalog: catalog,
	}
}

func (s *MemoryFavoriteService) AddFavorite(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	if err := s.checkProduct(ctx, userID, productID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(userID, productID) >= 0 {
		return nil, ErrAlreadyFavorited
	}
	fav := s.add(userID, productID)
	copied := *fav
	return &copied, nil
}

func (s *MemoryFavoriteService) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return ErrFavoriteBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(userID, productID)
	if i < 0 {
		return ErrFavoriteNotFound
	}
	s.byUser[userID] = slices.Delete(s.byUser[userID], i, i+1)
	return nil
}

func (s *MemoryFavoriteService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	// Un-hearting a deleted product is still allowed, so a missing product
	// only matters when adding.
	productErr := s.checkProduct(ctx, userID, productID)
	if errors.Is(productErr, ErrFavoriteBadInput) {
		return false, productErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(userID, productID); i >= 0 {
		s.byUser[userID] = slices.Delete(s.byUser[userID], i, i+1)
		return false, nil
	}
	if productErr != nil {
		return false, productErr
	}
	s.add(userID, productID)
	return true, nil
}

func (s *MemoryFavoriteService) IsFavorited(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOf(userID, productID) >= 0, nil
}

func (s *MemoryFavoriteService) ListUserFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if userID == "" {
		return nil, ErrFavoriteBadInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	favs := s.byUser[userID]
	out := make([]*models.Favorite, 0, len(favs))
	for i := len(favs) - 1; i >= 0; i-- {
		copied := *favs[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryFavoriteService) ListUserFavoriteProducts(ctx context.Context, userID string) ([]models.Product, error) {
	favs, err := s.ListUserFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveFavoriteProducts(ctx, s.catalog, favs)
}

func (s *MemoryFavoriteService) DeleteUserFavorites(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrFavoriteBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.byUser[userID])
	delete(s.byUser, userID)
	return n, nil
}

func (s *MemoryFavoriteService) checkProduct(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return ErrFavoriteBadInput
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrFavoriteProductGone
		}
		return err
	}
	return nil
}

func (s *MemoryFavoriteService) add(userID, productID string) *models.Favorite {
	fav := &models.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	s.byUser[userID] = append(s.byUser[userID], fav)
	return fav
}

func (s *MemoryFavoriteService) indexOf(userID, productID string) int {
	return slices.IndexFunc(s.byUser[userID], func(f *models.Favorite) bool {
		return f.ProductID == productID
	})
}

func resolveFavoriteProducts(ctx context.Context, repo CatalogRepository, favs []*models.Favorite) ([]models.Product, error) {
	out := make([]models.Product, 0, len(favs))
	for _, f := range favs {
		p, err := repo.GetByID(ctx, f.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
