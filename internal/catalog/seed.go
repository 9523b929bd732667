package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nepx/backend/internal/models"
)

//go:embed seed_catalog.yaml
var seedCatalog []byte

type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// SeedProducts returns a fresh copy of the reference catalog.
func SeedProducts() []models.Product {
	products, err := ParseCatalog(seedCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded seed is invalid: %v", err))
	}
	return products
}

// ParseCatalog decodes a YAML catalog document and checks that ids are
// present and unique and prices are non-negative.
func ParseCatalog(data []byte) ([]models.Product, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Products))
	for i, p := range f.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.LowestAsk < 0 || p.RetailPrice < 0 {
			return nil, fmt.Errorf("product %q: negative price", p.ID)
		}
	}
	if f.Products == nil {
		f.Products = []models.Product{}
	}
	return f.Products, nil
}

// LoadCatalogFile reads a YAML catalog from disk. "-" reads stdin.
func LoadCatalogFile(path string) ([]models.Product, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}
