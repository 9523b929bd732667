package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Browse serves a category page: the category's products filtered and
// sorted by the query parameters. No matches is a normal empty page.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	criteria, errs := parseCriteria(r.URL.Query())
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	result, err := h.catalogService.Browse(r.Context(), category, criteria)
	if err != nil {
		h.logger.Error("browse failed", zap.String("category", category), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load products"))
		return
	}

	h.logger.Debug("browse",
		zap.String("category", category),
		zap.String("sort", string(criteria.SortMode)),
		zap.Strings("brands", criteria.Brands),
		zap.Int("count", result.Count),
	)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

func (h *CatalogHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	opts, err := h.catalogService.FilterOptions(r.Context(), category)
	if err != nil {
		h.logger.Error("filter options failed", zap.String("category", category), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load filter options"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(opts))
}

func (h *CatalogHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Popular(r.Context())
	if err != nil {
		h.logger.Error("list popular failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load products"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(products))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.catalogService.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		h.logger.Error("get product failed", zap.String("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get product"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(product))
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	products, err := h.catalogService.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("search failed", zap.String("q", q), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to search products"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(products))
}
