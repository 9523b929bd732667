package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nepx/backend/internal/middleware"
	"github.com/nepx/backend/internal/services"
)

// RouterConfig carries everything the API routes depend on.
type RouterConfig struct {
	Catalog        *services.CatalogService
	Favorites      services.FavoriteService
	Users          *services.UserService
	JWTSecret      string
	JWTExpiration  time.Duration
	AuthLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the chi router serving the storefront API.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	catalogHandler := NewCatalogHandler(cfg.Catalog, logger.Named("catalog"))
	favoriteHandler := NewFavoriteHandler(cfg.Favorites, logger.Named("favorites"))
	authHandler := NewAuthHandler(cfg.Users, cfg.JWTSecret, cfg.JWTExpiration, logger.Named("auth"))
	adminHandler := NewAdminHandler(cfg.Catalog, cfg.Users, logger.Named("admin"))
	accountHandler := NewAccountHandler(cfg.Users, cfg.Favorites, logger.Named("account"))

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	requireAuth := middleware.JWTAuth(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthLimiter != nil {
					r.Use(cfg.AuthLimiter.Handler)
				}
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.With(requireAuth).Get("/me", authHandler.GetProfile)
			r.With(requireAuth).Delete("/me", accountHandler.DeleteAccount)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListPopular)
			r.Get("/search", catalogHandler.Search)

			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", catalogHandler.GetProduct)

				// Favorites
				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Get("/favorite", favoriteHandler.GetFavoriteState)
					r.Post("/favorite", favoriteHandler.AddFavorite)
					r.Delete("/favorite", favoriteHandler.RemoveFavorite)
					r.Put("/favorite/toggle", favoriteHandler.ToggleFavorite)
				})
			})
		})

		r.Route("/categories/{category}", func(r chi.Router) {
			r.Get("/products", catalogHandler.Browse)
			r.Get("/filters", catalogHandler.FilterOptions)
		})

		r.With(requireAuth).Get("/favorites", favoriteHandler.ListFavoriteProducts)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAdmin())

			r.Get("/products", adminHandler.ListProducts)
			r.Post("/products", adminHandler.CreateProduct)
			r.Delete("/products/{productId}", adminHandler.DeleteProduct)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{userId}/role", adminHandler.UpdateUserRole)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	return r
}
