package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/catalog"
	"github.com/nepx/backend/internal/logging"
	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/storage"
)

const productsFile = "products.json"

var (
	dataDir     string
	catalogPath string
	verbose     bool
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Browse the nepx catalog from the command line",
	Long: `catalogctl loads the nepx product catalog and answers the same queries as
the storefront: category pages with brand, price and xpress filters, sort
modes, product lookups and free-text search.

The catalog comes from --catalog (YAML, "-" for stdin), else the server's
products.json in --data-dir, else the built-in seed catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level, true)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", os.Getenv("DATA_DIR"), "Server data directory holding products.json")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML catalog file to use instead of the data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadProducts resolves the catalog source described in the root help text.
func loadProducts() ([]models.Product, error) {
	if catalogPath != "" {
		logger.Debug("loading catalog file", zap.String("path", catalogPath))
		return catalog.LoadCatalogFile(catalogPath)
	}

	if dataDir != "" {
		path := filepath.Join(dataDir, productsFile)
		_, err := os.Stat(path)
		switch {
		case err == nil:
			store, err := storage.NewJSONFile[[]models.Product](dataDir, productsFile)
			if err != nil {
				return nil, err
			}
			products, _, err := store.Load()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			logger.Debug("loaded persisted catalog", zap.String("path", path), zap.Int("products", len(products)))
			return products, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
		logger.Debug("no persisted catalog, using seed", zap.String("data_dir", dataDir))
	}

	return catalog.SeedProducts(), nil
}
