package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gamestore/internal/api/handler"
	"gamestore/internal/api/middleware"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
)

// Deps is everything the route table needs. AuthLimiter and HealthChecks
// are optional.
type Deps struct {
	Log          *slog.Logger
	Auth         *middleware.Auth
	AuthLimiter  middleware.Limiter
	CORSOrigins  []string
	HealthChecks map[string]handler.HealthCheck

	AuthService   *service.AuthService
	Users         *service.UserService
	Games         *service.GameService
	Categories    *service.CategoryService
	Carts         *service.CartService
	Wishlists     *service.WishlistService
	Library       *service.LibraryService
	Reviews       *service.ReviewService
	Friendships   *service.FriendshipService
	Notifications *service.NotificationService
}

// NewRouter builds the route table once; it is not modified afterwards.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/health", handler.NewHealthHandler(d.HealthChecks, d.Log).RegisterRoutes)

	r.Route("/api", func(api chi.Router) {
		authRoutes := api
		if d.AuthLimiter != nil {
			authRoutes = api.With(middleware.RateLimit(d.AuthLimiter, d.Log))
		}
		authRoutes.Route("/auth", handler.NewAuthHandler(d.AuthService, d.Auth, d.Log).RegisterRoutes)

		api.Route("/users", handler.NewUserHandler(d.Users, d.Auth, d.Log).RegisterRoutes)
		api.Route("/games", handler.NewGameHandler(d.Games, d.Auth, d.Log).RegisterRoutes)
		api.Route("/categories", handler.NewCategoryHandler(d.Categories, d.Auth, d.Log).RegisterRoutes)
		api.Route("/cart", handler.NewCartHandler(d.Carts, d.Auth, d.Log).RegisterRoutes)
		api.Route("/wishlist", handler.NewWishlistHandler(d.Wishlists, d.Auth, d.Log).RegisterRoutes)
		api.Route("/library", handler.NewLibraryHandler(d.Library, d.Auth, d.Log).RegisterRoutes)
		api.Route("/reviews", handler.NewReviewHandler(d.Reviews, d.Auth, d.Log).RegisterRoutes)
		api.Route("/friendships", handler.NewFriendshipHandler(d.Friendships, d.Auth, d.Log).RegisterRoutes)
		api.Route("/notifications", handler.NewNotificationHandler(d.Notifications, d.Auth, d.Log).RegisterRoutes)
	})

	return r
}
