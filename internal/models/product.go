package models

// Product is a single listing in the resale catalog. Prices are whole
// currency units.
type Product struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Brand            string `json:"brand" yaml:"brand"`
	Image            string `json:"image" yaml:"image"`
	LowestAsk        int64  `json:"lowestAsk" yaml:"lowestAsk"`
	LastSalePrice    *int64 `json:"lastSalePrice,omitempty" yaml:"lastSalePrice,omitempty"`
	RetailPrice      int64  `json:"retailPrice" yaml:"retailPrice"`
	Category         string `json:"category" yaml:"category"`
	IsXpressShipping bool   `json:"isXpressShipping,omitempty" yaml:"isXpressShipping,omitempty"`
}

type CreateProductRequest struct {
	Name             string `json:"name"`
	Brand            string `json:"brand"`
	Image            string `json:"image"`
	LowestAsk        int64  `json:"lowestAsk"`
	LastSalePrice    *int64 `json:"lastSalePrice"`
	RetailPrice      int64  `json:"retailPrice"`
	Category         string `json:"category"`
	IsXpressShipping bool   `json:"isXpressShipping"`
}

func (r *CreateProductRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Product name is required"
	}
	if r.Brand == "" {
		errors["brand"] = "Brand is required"
	}
	if r.Category == "" {
		errors["category"] = "Category is required"
	}
	if r.LowestAsk < 0 {
		errors["lowestAsk"] = "Lowest ask cannot be negative"
	}
	if r.RetailPrice < 0 {
		errors["retailPrice"] = "Retail price cannot be negative"
	}
	if r.LastSalePrice != nil && *r.LastSalePrice < 0 {
		errors["lastSalePrice"] = "Last sale price cannot be negative"
	}

	return errors
}

// BrandCount is one brand option offered by a category's filter panel.
type BrandCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilterOptions describes the filter controls a category can offer.
type FilterOptions struct {
	Category    string       `json:"category"`
	Brands      []BrandCount `json:"brands"`
	MinPrice    int64        `json:"minPrice"`
	MaxPrice    int64        `json:"maxPrice"`
	XpressCount int          `json:"xpressCount"`
	Total       int          `json:"total"`
}

// CatalogStats feeds the admin dashboard.
type CatalogStats struct {
	TotalProducts  int            `json:"totalProducts"`
	ByCategory     map[string]int `json:"byCategory"`
	XpressProducts int            `json:"xpressProducts"`
	TotalLowestAsk int64          `json:"totalLowestAsk"`
}

// BrowseResult is what a category page renders.
type BrowseResult struct {
	Category string    `json:"category"`
	Title    string    `json:"title"`
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}
