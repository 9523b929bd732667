package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/middleware"
	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/services"
)

// AdminHandler backs the admin dashboard. Routes are gated by
// middleware.RequireAdmin.
type AdminHandler struct {
	catalogService *services.CatalogService
	userService    *services.UserService
	logger         *zap.Logger
}

func NewAdminHandler(catalogService *services.CatalogService, userService *services.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		userService:    userService,
		logger:         logger,
	}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	product, err := h.catalogService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductExists):
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Product already exists"))
		case errors.Is(err, services.ErrInvalidProduct):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		default:
			h.logger.Error("create product failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create product"))
		}
		return
	}

	h.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("admin_id", middleware.GetUserID(r.Context())),
	)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(product))
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.catalogService.Delete(r.Context(), productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		h.logger.Error("delete product failed", zap.String("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete product"))
		return
	}

	h.logger.Info("product deleted",
		zap.String("product_id", productID),
		zap.String("admin_id", middleware.GetUserID(r.Context())),
	)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Product deleted successfully"}))
}

// ListProducts is the admin product table; q narrows it by name or brand.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	products, err := h.catalogService.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("admin list products failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list products"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(products))
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.userService.Search(q)))
}

// UpdateUserRole assigns admin, seller or customer to an account.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	user, err := h.userService.SetRole(userID, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		h.logger.Error("update role failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update role"))
		return
	}

	h.logger.Info("user role updated",
		zap.String("user_id", userID),
		zap.String("role", user.Role),
		zap.String("admin_id", middleware.GetUserID(r.Context())),
	)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalogService.Stats(r.Context())
	if err != nil {
		h.logger.Error("catalog stats failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load stats"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stats))
}
