package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/middleware"
	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
	logger          *zap.Logger
}

func NewFavoriteHandler(favoriteService services.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	productID := chi.URLParam(r, "productId")

	favorite, err := h.favoriteService.AddFavorite(r.Context(), userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyFavorited):
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Product already favorited"))
		case errors.Is(err, services.ErrFavoriteProductGone):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
		default:
			h.logger.Error("add favorite failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add favorite"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(favorite))
}

func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	productID := chi.URLParam(r, "productId")

	err := h.favoriteService.RemoveFavorite(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Favorite not found"))
			return
		}
		h.logger.Error("remove favorite failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove favorite"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Favorite removed successfully"}))
}

// ToggleFavorite is the heart button: it flips the favorite and returns the
// new state.
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	productID := chi.URLParam(r, "productId")

	favorited, err := h.favoriteService.Toggle(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, services.ErrFavoriteProductGone) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		h.logger.Error("toggle favorite failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update favorite"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.FavoriteState{ProductID: productID, Favorited: favorited}))
}

func (h *FavoriteHandler) GetFavoriteState(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	productID := chi.URLParam(r, "productId")

	favorited, err := h.favoriteService.IsFavorited(r.Context(), userID, productID)
	if err != nil {
		h.logger.Error("favorite state failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get favorite"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.FavoriteState{ProductID: productID, Favorited: favorited}))
}

// ListFavoriteProducts returns the user's favorited products, most recent first.
func (h *FavoriteHandler) ListFavoriteProducts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	products, err := h.favoriteService.ListUserFavoriteProducts(r.Context(), userID)
	if err != nil {
		h.logger.Error("list favorites failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list favorites"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(products))
}
