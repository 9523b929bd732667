package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nepx/backend/internal/models"
)

// Search returns the products whose name or brand contains query, ignoring
// case, in catalog order. An empty query matches everything.
func Search(products []models.Product, query string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryTitle is the heading of a category page.
func CategoryTitle(category string) string {
	if category == "" {
		return "All Products"
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:]
}
