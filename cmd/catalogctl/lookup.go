package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/services"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a single product",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the whole catalog by name or brand",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

func init() {
	getCmd.Flags().String("format", "json", "Output format: json, table")
	searchCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(getCmd, searchCmd)
}

func newCatalogService() (*services.CatalogService, error) {
	products, err := loadProducts()
	if err != nil {
		return nil, err
	}
	return services.NewCatalogService(services.NewMemoryCatalogRepository(products)), nil
}

func runGet(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	svc, err := newCatalogService()
	if err != nil {
		return err
	}
	product, err := svc.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if format == "table" {
		printProductsTable(cmd.OutOrStdout(), []models.Product{*product})
		return nil
	}
	return printJSON(cmd.OutOrStdout(), product)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	svc, err := newCatalogService()
	if err != nil {
		return err
	}
	products, err := svc.Search(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if format == "table" {
		printProductsTable(cmd.OutOrStdout(), products)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), products)
}
