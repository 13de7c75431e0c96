package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/enum"
	"github.com/foodiehub/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DashboardStore defines the database methods needed by the dashboard
// handler. Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	GetTableStats(ctx context.Context) (database.TableStatsRow, error)
	ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.CustomerBookingRow, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.Order, error)
	ListAllBookings(ctx context.Context) ([]database.BookingDetailRow, error)
	ListAllOrders(ctx context.Context) ([]database.OrderDetailRow, error)
}

// DashboardHandler serves the role-dependent dashboard snapshot.
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// RegisterRoutes registers the dashboard endpoint on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// --- Response types ---

type tableStatsResponse struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Booked    int64 `json:"booked"`
}

type customerDashboardResponse struct {
	Role     string                    `json:"role"`
	Bookings []customerBookingResponse `json:"bookings"`
	Orders   []orderResponse           `json:"orders"`
}

type ownerDashboardResponse struct {
	Role     string                  `json:"role"`
	Tables   tableStatsResponse      `json:"tables"`
	Bookings []bookingDetailResponse `json:"bookings"`
	Orders   []orderDetailResponse   `json:"orders"`
}

// --- Handlers ---

// Get handles GET /dashboard. The payload shape is decided once from the
// caller's role: customers see their own bookings and orders, the owner
// sees table stats plus every booking and order.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	if claims.Role == enum.RoleOwner {
		h.ownerDashboard(w, r)
		return
	}
	h.customerDashboard(w, r, claims.UserID)
}

func (h *DashboardHandler) customerDashboard(w http.ResponseWriter, r *http.Request, customerID uuid.UUID) {
	bookings, err := h.store.ListBookingsByCustomer(r.Context(), customerID)
	if err != nil {
		log.Printf("ERROR: list bookings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	orders, err := h.store.ListOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := customerDashboardResponse{
		Role:     enum.RoleCustomer,
		Bookings: make([]customerBookingResponse, len(bookings)),
		Orders:   make([]orderResponse, len(orders)),
	}
	for i, row := range bookings {
		resp.Bookings[i] = toCustomerBookingResponse(row)
	}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) ownerDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetTableStats(r.Context())
	if err != nil {
		log.Printf("ERROR: get table stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	bookings, err := h.store.ListAllBookings(r.Context())
	if err != nil {
		log.Printf("ERROR: list all bookings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	orders, err := h.store.ListAllOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list all orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := ownerDashboardResponse{
		Role: enum.RoleOwner,
		Tables: tableStatsResponse{
			Total:     stats.Total,
			Available: stats.Available,
			Booked:    stats.Total - stats.Available,
		},
		Bookings: make([]bookingDetailResponse, len(bookings)),
		Orders:   make([]orderDetailResponse, len(orders)),
	}
	for i, row := range bookings {
		resp.Bookings[i] = toBookingDetailResponse(row)
	}
	for i, row := range orders {
		resp.Orders[i] = toOrderDetailResponse(row)
	}

	writeJSON(w, http.StatusOK, resp)
}
