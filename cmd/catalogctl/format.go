package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nepx/backend/internal/models"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(w io.Writer, products []models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := p.Name
		if p.IsXpressShipping {
			name += " [Xpress]"
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, name)

		priceLine := "    Lowest Ask: " + formatPrice(p.LowestAsk)
		if p.LastSalePrice != nil {
			priceLine += "  |  Last Sale: " + formatPrice(*p.LastSalePrice)
		}
		priceLine += "  |  Retail: " + formatPrice(p.RetailPrice)
		fmt.Fprintln(w, priceLine)

		fmt.Fprintf(w, "    %s  |  %s  |  id %s\n", p.Brand, p.Category, p.ID)
	}
}

// formatPrice formats whole rupees with Nepali digit grouping, e.g.
// "Rs. 1,20,000".
func formatPrice(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return "Rs. " + sign + s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return "Rs. " + sign + strings.Join(parts, ",") + "," + tail
}
