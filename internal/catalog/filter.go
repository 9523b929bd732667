// Package catalog holds the storefront's filter/sort engine and the seed
// catalog. Apply, Search and the Criteria methods are pure functions.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nepx/backend/internal/models"
)

// SortMode orders a filtered category listing.
type SortMode string

const (
	SortTrending  SortMode = "trending"
	SortNewest    SortMode = "newest"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
)

// SortModes lists the modes in the order the sort menu shows them.
var SortModes = []SortMode{SortTrending, SortNewest, SortPriceLow, SortPriceHigh}

// ParseSortMode accepts the wire value of a sort mode. The empty string
// means trending.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortTrending, nil
	}
	for _, m := range SortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Bounds of the price slider on the category page.
const (
	DefaultMinPrice int64 = 0
	DefaultMaxPrice int64 = 100000
)

// PriceRange is a closed interval over lowest ask.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func (r PriceRange) Contains(v int64) bool {
	return r.Min <= v && v <= r.Max
}

// Criteria is the state of a category page's filter controls.
type Criteria struct {
	SearchQuery string     `json:"searchQuery"`
	Brands      []string   `json:"brands"`
	PriceRange  PriceRange `json:"priceRange"`
	SortMode    SortMode   `json:"sortMode"`
	XpressOnly  bool       `json:"xpressOnly"`
}

// DefaultCriteria is what a category page starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceRange: PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice},
		SortMode:   SortTrending,
	}
}

// Reset puts every control back to its default.
func (c *Criteria) Reset() {
	*c = DefaultCriteria()
}

// HasBrand reports whether brand is selected, ignoring case.
func (c *Criteria) HasBrand(brand string) bool {
	return c.brandIndex(brand) >= 0
}

// ToggleBrand selects brand if it is not selected and deselects it otherwise.
func (c *Criteria) ToggleBrand(brand string) {
	if i := c.brandIndex(brand); i >= 0 {
		c.Brands = slices.Delete(slices.Clone(c.Brands), i, i+1)
		return
	}
	c.Brands = append(slices.Clone(c.Brands), strings.ToLower(brand))
}

func (c *Criteria) brandIndex(brand string) int {
	return slices.IndexFunc(c.Brands, func(b string) bool {
		return strings.EqualFold(b, brand)
	})
}

// Matches reports whether p passes every active filter.
func (c *Criteria) Matches(p models.Product) bool {
	return c.matches(p, brandSet(c.Brands))
}

func (c *Criteria) matches(p models.Product, brands map[string]struct{}) bool {
	if c.SearchQuery != "" && !matchesQuery(p, strings.ToLower(c.SearchQuery)) {
		return false
	}
	if len(brands) > 0 {
		if _, ok := brands[strings.ToLower(p.Brand)]; !ok {
			return false
		}
	}
	if !c.PriceRange.Contains(p.LowestAsk) {
		return false
	}
	if c.XpressOnly && !p.IsXpressShipping {
		return false
	}
	return true
}

// Apply returns the products that pass every active filter, ordered by the
// sort mode. The input slice is never modified and the result is never nil.
func Apply(products []models.Product, c Criteria) []models.Product {
	brands := brandSet(c.Brands)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if c.matches(p, brands) {
			out = append(out, p)
		}
	}

	switch c.SortMode {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(a.LowestAsk, b.LowestAsk)
		})
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(b.LowestAsk, a.LowestAsk)
		})
	case SortNewest:
		slices.SortStableFunc(out, compareNewest)
	}

	return out
}

// compareNewest orders numeric ids descending. Ids are a stand-in for a
// listing date. Non-numeric ids sort after every numeric one and keep their
// relative order.
func compareNewest(a, b models.Product) int {
	an, aok := numericID(a.ID)
	bn, bok := numericID(b.ID)
	switch {
	case aok && bok:
		return cmp.Compare(bn, an)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

func numericID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	return n, err == nil
}

func brandSet(brands []string) map[string]struct{} {
	if len(brands) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[strings.ToLower(b)] = struct{}{}
	}
	return set
}

func matchesQuery(p models.Product, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Brand), lowerQuery)
}
