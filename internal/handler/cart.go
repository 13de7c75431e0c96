package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/foodiehub/api/internal/cart"
	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/middleware"
	"github.com/foodiehub/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CartMenuStore defines the database methods needed by cart handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CartMenuStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// CheckoutServicer defines the service methods needed by the checkout
// handler. Satisfied by *service.CheckoutService.
type CheckoutServicer interface {
	Checkout(ctx context.Context, customerID uuid.UUID) (*service.CheckoutResult, error)
}

// CartHandler handles the per-customer pre-order cart and checkout.
type CartHandler struct {
	carts    *cart.Store
	store    CartMenuStore
	svc      CheckoutServicer
	notifier Notifier
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *cart.Store, store CartMenuStore, svc CheckoutServicer, notifier Notifier) *CartHandler {
	return &CartHandler{carts: carts, store: store, svc: svc, notifier: notifier}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group: /cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Delete("/items/{index}", h.RemoveItem)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

type cartItemResponse struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total string             `json:"total"`
}

func (h *CartHandler) cartResponseFor(customerID uuid.UUID) cartResponse {
	items := h.carts.Items(customerID)
	resp := cartResponse{
		Items: make([]cartItemResponse, len(items)),
		Total: h.carts.Total(customerID).StringFixed(2),
	}
	for i, item := range items {
		resp.Items[i] = cartItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price.StringFixed(2),
		}
	}
	return resp
}

// --- Handlers ---

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.UserID))
}

// AddItem handles POST /cart/items. The item's name and price are
// snapshotted into the cart at add time.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu_item_id"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), menuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.carts.Add(claims.UserID, cart.Item{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      service.NumericToDecimal(item.Price),
	})

	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.UserID))
}

// RemoveItem handles DELETE /cart/items/{index}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	if err := h.carts.Remove(claims.UserID, index); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart item not found"})
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.UserID))
}

// Checkout handles POST /cart/checkout. An empty cart is rejected before
// any database call; the cart is cleared only on success.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	result, err := h.svc.Checkout(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(result.Order)
	notify(h.notifier, claims.UserID, "order.created", resp)

	writeJSON(w, http.StatusCreated, resp)
}
