package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/catalog"
	"github.com/nepx/backend/internal/services"
)

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Show a category page with filters and sort applied",
	Example: `  catalogctl browse sneakers --brand nike --sort price-low
  catalogctl browse sneakers --max 20000 --format table
  catalogctl browse trading-cards --max 200000 --xpress`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringP("query", "q", "", "Only products whose name or brand contains this text")
	browseCmd.Flags().StringSlice("brand", nil, "Brand to include (repeatable or comma separated)")
	browseCmd.Flags().Int64("min", catalog.DefaultMinPrice, "Minimum lowest ask")
	browseCmd.Flags().Int64("max", catalog.DefaultMaxPrice, "Maximum lowest ask")
	browseCmd.Flags().String("sort", string(catalog.SortTrending), "Sort mode: trending, newest, price-low, price-high")
	browseCmd.Flags().Bool("xpress", false, "Only products with Xpress shipping")
	browseCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	category := args[0]
	query, _ := cmd.Flags().GetString("query")
	brands, _ := cmd.Flags().GetStringSlice("brand")
	minPrice, _ := cmd.Flags().GetInt64("min")
	maxPrice, _ := cmd.Flags().GetInt64("max")
	sortFlag, _ := cmd.Flags().GetString("sort")
	xpress, _ := cmd.Flags().GetBool("xpress")
	format, _ := cmd.Flags().GetString("format")

	mode, err := catalog.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	criteria := catalog.DefaultCriteria()
	criteria.SearchQuery = strings.TrimSpace(query)
	for _, b := range brands {
		if b = strings.TrimSpace(b); b != "" && !criteria.HasBrand(b) {
			criteria.ToggleBrand(b)
		}
	}
	criteria.PriceRange = catalog.PriceRange{Min: minPrice, Max: maxPrice}
	criteria.SortMode = mode
	criteria.XpressOnly = xpress

	products, err := loadProducts()
	if err != nil {
		return err
	}

	svc := services.NewCatalogService(services.NewMemoryCatalogRepository(products))
	result, err := svc.Browse(context.Background(), category, criteria)
	if err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}
	logger.Debug("browse",
		zap.String("category", category),
		zap.Any("criteria", criteria),
		zap.Int("count", result.Count),
	)

	out := cmd.OutOrStdout()
	switch format {
	case "table":
		fmt.Fprintf(out, "%s (%d)\n\n", result.Title, result.Count)
		if result.Count == 0 {
			fmt.Fprintln(out, " No products match these filters.")
			return nil
		}
		printProductsTable(out, result.Products)
	default:
		return printJSON(out, result)
	}
	return nil
}
