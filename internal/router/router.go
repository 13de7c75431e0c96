package router

import (
	"net/http"

	"github.com/foodiehub/api/internal/cart"
	"github.com/foodiehub/api/internal/config"
	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/enum"
	"github.com/foodiehub/api/internal/handler"
	mw "github.com/foodiehub/api/internal/middleware"
	"github.com/foodiehub/api/internal/service"
	"github.com/foodiehub/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up.
// Customer-facing routes sit behind authentication; review and kitchen
// routes additionally require the owner role.
func New(cfg *config.Config, queries *database.Queries, carts *cart.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
			"https://foodiehub.example.com",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	authenticate := mw.Authenticate(cfg.JWTSecret)
	requireOwner := mw.RequireRole(enum.RoleOwner)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Tables: listing is public, the availability toggle is owner-only.
	tableHandler := handler.NewTableHandler(queries)
	r.Route("/tables", func(r chi.Router) {
		tableHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireOwner)
			tableHandler.RegisterOwnerRoutes(r)
		})
	})

	// Menu (public)
	menuHandler := handler.NewMenuHandler(queries)
	r.Route("/menu", menuHandler.RegisterRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/dashboard", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/auth/me", authHandler.Me)

		checkoutService := service.NewCheckoutService(queries, carts)
		cartHandler := handler.NewCartHandler(carts, queries, checkoutService, hub)
		r.Route("/cart", cartHandler.RegisterRoutes)

		bookingHandler := handler.NewBookingHandler(queries, hub)
		r.Route("/bookings", func(r chi.Router) {
			bookingHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(requireOwner)
				bookingHandler.RegisterOwnerRoutes(r)
			})
		})

		orderHandler := handler.NewOrderHandler(queries, hub)
		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(requireOwner)
				orderHandler.RegisterOwnerRoutes(r)
			})
		})

		dashboardHandler := handler.NewDashboardHandler(queries)
		r.Route("/dashboard", dashboardHandler.RegisterRoutes)
	})

	return r
}
