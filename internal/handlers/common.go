package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/nepx/backend/internal/catalog"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseCriteria maps category page query parameters onto filter criteria.
// Absent parameters keep their defaults; malformed ones are reported per field.
func parseCriteria(query url.Values) (catalog.Criteria, map[string]string) {
	c := catalog.DefaultCriteria()
	errs := make(map[string]string)

	c.SearchQuery = strings.TrimSpace(query.Get("q"))
	c.Brands = parseBrands(query["brand"])

	if raw := strings.TrimSpace(query.Get("minPrice")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs["minPrice"] = "Must be a whole number"
		} else {
			c.PriceRange.Min = v
		}
	}
	if raw := strings.TrimSpace(query.Get("maxPrice")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs["maxPrice"] = "Must be a whole number"
		} else {
			c.PriceRange.Max = v
		}
	}

	mode, err := catalog.ParseSortMode(strings.TrimSpace(query.Get("sort")))
	if err != nil {
		errs["sort"] = "Must be one of trending, newest, price-low, price-high"
	} else {
		c.SortMode = mode
	}

	if raw := strings.TrimSpace(query.Get("xpress")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs["xpress"] = "Must be true or false"
		} else {
			c.XpressOnly = v
		}
	}

	return c, errs
}

// parseBrands accepts repeated and comma separated brand parameters and
// returns the lower-cased, de-duplicated set in first-seen order.
func parseBrands(values []string) []string {
	var brands []string
	for _, v := range values {
		for _, b := range strings.Split(v, ",") {
			b = strings.ToLower(strings.TrimSpace(b))
			if b != "" && !slices.Contains(brands, b) {
				brands = append(brands, b)
			}
		}
	}
	return brands
}
