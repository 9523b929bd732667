package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nepx/backend/internal/catalog"
	"github.com/nepx/backend/internal/models"
)

// CatalogService answers storefront and admin catalog queries. Every call
// re-reads the repository and re-runs the filter engine.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Browse returns a category page: the category's products narrowed and
// ordered by criteria. No matches is an empty result, not an error.
func (s *CatalogService) Browse(ctx context.Context, category string, criteria catalog.Criteria) (*models.BrowseResult, error) {
	products, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", category, err)
	}

	visible := catalog.Apply(products, criteria)
	return &models.BrowseResult{
		Category: category,
		Title:    catalog.CategoryTitle(category),
		Count:    len(visible),
		Products: visible,
	}, nil
}

func (s *CatalogService) Popular(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(products, query), nil
}

// FilterOptions summarizes what a category's filter panel can offer.
func (s *CatalogService) FilterOptions(ctx context.Context, category string) (*models.FilterOptions, error) {
	products, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	opts := &models.FilterOptions{
		Category: category,
		Brands:   make([]models.BrandCount, 0),
		Total:    len(products),
	}
	index := make(map[string]int)
	for i, p := range products {
		key := strings.ToLower(p.Brand)
		if j, ok := index[key]; ok {
			opts.Brands[j].Count++
		} else {
			index[key] = len(opts.Brands)
			opts.Brands = append(opts.Brands, models.BrandCount{Name: p.Brand, Count: 1})
		}

		if i == 0 || p.LowestAsk < opts.MinPrice {
			opts.MinPrice = p.LowestAsk
		}
		if p.LowestAsk > opts.MaxPrice {
			opts.MaxPrice = p.LowestAsk
		}
		if p.IsXpressShipping {
			opts.XpressCount++
		}
	}
	return opts, nil
}

func (s *CatalogService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.CatalogStats{
		TotalProducts: len(products),
		ByCategory:    make(map[string]int),
	}
	for _, p := range products {
		stats.ByCategory[p.Category]++
		stats.TotalLowestAsk += p.LowestAsk
		if p.IsXpressShipping {
			stats.XpressProducts++
		}
	}
	return stats, nil
}

func (s *CatalogService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, errs)
	}

	product := &models.Product{
		Name:             strings.TrimSpace(req.Name),
		Brand:            strings.TrimSpace(req.Brand),
		Image:            req.Image,
		LowestAsk:        req.LowestAsk,
		LastSalePrice:    req.LastSalePrice,
		RetailPrice:      req.RetailPrice,
		Category:         strings.TrimSpace(req.Category),
		IsXpressShipping: req.IsXpressShipping,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
