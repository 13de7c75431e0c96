package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/enum"
	"github.com/foodiehub/api/internal/middleware"
	"github.com/foodiehub/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderStore defines the database methods needed by order handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.Order, error)
	ListAllOrders(ctx context.Context) ([]database.OrderDetailRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// allowedOrderTransitions maps each order status to the statuses it may
// move to. Orders only ever advance one step toward completed.
var allowedOrderTransitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusPreparing},
	enum.OrderStatusPreparing: {enum.OrderStatusReady},
	enum.OrderStatusReady:     {enum.OrderStatusCompleted},
	enum.OrderStatusCompleted: {},
}

func isOrderTransitionAllowed(from, to string) bool {
	for _, allowed := range allowedOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderHandler handles order listing and kitchen status progression.
type OrderHandler struct {
	store    OrderStore
	notifier Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore, notifier Notifier) *OrderHandler {
	return &OrderHandler{store: store, notifier: notifier}
}

// RegisterRoutes registers customer-facing order endpoints.
// Expected to be mounted inside the authenticated group: /orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListMine)
}

// RegisterOwnerRoutes registers owner-only order endpoints.
func (h *OrderHandler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/all", h.ListAll)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	TokenNumber int32     `json:"token_number"`
	TotalAmount string    `json:"total_amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type orderDetailResponse struct {
	orderResponse
	CustomerName string `json:"customer_name"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TokenNumber: o.TokenNumber,
		TotalAmount: service.NumericToDecimal(o.TotalAmount).StringFixed(2),
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

func toOrderDetailResponse(row database.OrderDetailRow) orderDetailResponse {
	return orderDetailResponse{
		orderResponse: toOrderResponse(row.Order),
		CustomerName:  row.CustomerName,
	}
}

// --- Handlers ---

// ListMine handles GET /orders, newest first.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orders, err := h.store.ListOrdersByCustomer(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListAll handles GET /orders/all for the owner, newest first.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListAllOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list all orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderDetailResponse, len(orders))
	for i, row := range orders {
		resp[i] = toOrderDetailResponse(row)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status. The update is a
// compare-and-set on the current status; a stale write returns 409.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, ok := allowedOrderTransitions[req.Status]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order status"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !isOrderTransitionAllowed(order.Status, req.Status) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "cannot transition order from " + order.Status + " to " + req.Status,
		})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:             orderID,
		Status:         req.Status,
		ExpectedStatus: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Someone moved the order between our read and write.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed concurrently"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(updated)
	notify(h.notifier, updated.CustomerID, "order.updated", resp)

	writeJSON(w, http.StatusOK, resp)
}
