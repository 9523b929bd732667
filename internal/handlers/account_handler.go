package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nepx/backend/internal/middleware"
	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/services"
)

const accountDeleteTimeout = 20 * time.Second

type AccountHandler struct {
	userService     *services.UserService
	favoriteService services.FavoriteService
	logger          *zap.Logger
}

func NewAccountHandler(userService *services.UserService, favoriteService services.FavoriteService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		userService:     userService,
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// DeleteAccount removes the authenticated user's favorites and then the
// account itself.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), accountDeleteTimeout)
	defer cancel()

	removed, err := h.favoriteService.DeleteUserFavorites(ctx, userID)
	if err != nil {
		h.logger.Error("delete favorites failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}

	if err := h.userService.Delete(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		h.logger.Error("delete account failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}

	h.logger.Info("account deleted", zap.String("user_id", userID), zap.Int("favorites_removed", removed))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.DeleteAccountResult{FavoritesRemoved: removed}))
}
