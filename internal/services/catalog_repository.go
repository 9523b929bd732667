package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/storage"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product id already in use")
	ErrInvalidProduct  = errors.New("invalid product")
)

// CatalogRepository is the read/write boundary of the product catalog.
// List and ListByCategory return products in catalog insertion order.
type CatalogRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

var (
	_ CatalogRepository = (*MemoryCatalogRepository)(nil)
	_ CatalogRepository = (*MongoCatalogRepository)(nil)
)

// MemoryCatalogRepository keeps the catalog in process, optionally mirrored
// to products.json in a data directory. Generated ids come from a high-water
// counter that never goes down, so a deleted product's id is never handed to
// a new one.
type MemoryCatalogRepository struct {
	mu           sync.RWMutex
	products     []models.Product
	lastID       int64
	store        *storage.JSONFile[[]models.Product]
	counterStore *storage.JSONFile[catalogCounter]
}

// catalogCounter is the on-disk form of the id high-water mark.
type catalogCounter struct {
	LastID int64 `json:"last_id"`
}

func NewMemoryCatalogRepository(seed []models.Product) *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		products: slices.Clone(seed),
		lastID:   maxNumericID(seed),
	}
}

// NewPersistentCatalogRepository loads products.json from dataDir, or writes
// seed there on first start. The id counter lives next to it in
// catalog_counter.json.
func NewPersistentCatalogRepository(dataDir string, seed []models.Product) (*MemoryCatalogRepository, error) {
	store, err := storage.NewJSONFile[[]models.Product](dataDir, "products.json")
	if err != nil {
		return nil, err
	}
	counterStore, err := storage.NewJSONFile[catalogCounter](dataDir, "catalog_counter.json")
	if err != nil {
		return nil, err
	}
	counter, _, err := counterStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog counter: %w", err)
	}

	products, ok, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if !ok {
		products = slices.Clone(seed)
		if err := store.Save(products); err != nil {
			return nil, fmt.Errorf("write seed catalog: %w", err)
		}
	}

	return &MemoryCatalogRepository{
		products:     products,
		lastID:       max(counter.LastID, maxNumericID(products)),
		store:        store,
		counterStore: counterStore,
	}, nil
}

func (r *MemoryCatalogRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryCatalogRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryCatalogRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

// Create appends product to the catalog. An empty ID is filled with the next
// numeric id.
func (r *MemoryCatalogRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID != "" && r.indexOf(product.ID) >= 0 {
		return ErrProductExists
	}

	id, next := product.ID, r.lastID
	if id == "" {
		next++
		id = strconv.FormatInt(next, 10)
	} else if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > next {
		next = n
	}
	if next != r.lastID {
		// Saved before the catalog so a crash can only skip ids, never reuse one.
		if err := r.saveCounter(next); err != nil {
			return err
		}
		r.lastID = next
	}
	product.ID = id

	r.products = append(r.products, *product)
	if err := r.persist(); err != nil {
		r.products = r.products[:len(r.products)-1]
		return err
	}
	return nil
}

func (r *MemoryCatalogRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}

	prev := r.products
	r.products = slices.Delete(slices.Clone(r.products), i, i+1)
	if err := r.persist(); err != nil {
		r.products = prev
		return err
	}
	return nil
}

func (r *MemoryCatalogRepository) indexOf(id string) int {
	return slices.IndexFunc(r.products, func(p models.Product) bool {
		return p.ID == id
	})
}

func (r *MemoryCatalogRepository) saveCounter(lastID int64) error {
	if r.counterStore == nil {
		return nil
	}
	if err := r.counterStore.Save(catalogCounter{LastID: lastID}); err != nil {
		return fmt.Errorf("save catalog counter: %w", err)
	}
	return nil
}

func maxNumericID(products []models.Product) int64 {
	var high int64
	for _, p := range products {
		if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n > high {
			high = n
		}
	}
	return high
}

func (r *MemoryCatalogRepository) persist() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(r.products); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
