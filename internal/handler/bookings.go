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
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingStore defines the database methods needed by booking handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type BookingStore interface {
	GetTable(ctx context.Context, id uuid.UUID) (database.Table, error)
	CreateBooking(ctx context.Context, arg database.CreateBookingParams) (database.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (database.Booking, error)
	ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.CustomerBookingRow, error)
	ListAllBookings(ctx context.Context) ([]database.BookingDetailRow, error)
	UpdateBookingStatus(ctx context.Context, arg database.UpdateBookingStatusParams) (database.Booking, error)
}

// allowedBookingTransitions maps each booking status to the statuses it
// may move to. Approved and declined are terminal.
var allowedBookingTransitions = map[string][]string{
	enum.BookingStatusPending:  {enum.BookingStatusApproved, enum.BookingStatusDeclined},
	enum.BookingStatusApproved: {},
	enum.BookingStatusDeclined: {},
}

func isBookingTransitionAllowed(from, to string) bool {
	for _, allowed := range allowedBookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// BookingHandler handles table booking requests and owner review.
type BookingHandler struct {
	store    BookingStore
	notifier Notifier
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(store BookingStore, notifier Notifier) *BookingHandler {
	return &BookingHandler{store: store, notifier: notifier}
}

// RegisterRoutes registers customer-facing booking endpoints.
// Expected to be mounted inside the authenticated group: /bookings
func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
}

// RegisterOwnerRoutes registers owner-only booking endpoints.
func (h *BookingHandler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/all", h.ListAll)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type createBookingRequest struct {
	TableID        string `json:"table_id"`
	BookingDate    string `json:"booking_date"`
	BookingTime    string `json:"booking_time"`
	NumberOfGuests int32  `json:"number_of_guests"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

type bookingResponse struct {
	ID             uuid.UUID `json:"id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	TableID        uuid.UUID `json:"table_id"`
	BookingDate    string    `json:"booking_date"`
	BookingTime    string    `json:"booking_time"`
	NumberOfGuests int32     `json:"number_of_guests"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type customerBookingResponse struct {
	bookingResponse
	TableNumber int32 `json:"table_number"`
	Capacity    int32 `json:"capacity"`
}

type bookingDetailResponse struct {
	customerBookingResponse
	CustomerName string `json:"customer_name"`
}

func toBookingResponse(b database.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		CustomerID:     b.CustomerID,
		TableID:        b.TableID,
		BookingDate:    b.BookingDate.Time.Format("2006-01-02"),
		BookingTime:    b.BookingTime,
		NumberOfGuests: b.NumberOfGuests,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

func toCustomerBookingResponse(row database.CustomerBookingRow) customerBookingResponse {
	return customerBookingResponse{
		bookingResponse: toBookingResponse(row.Booking),
		TableNumber:     row.TableNumber,
		Capacity:        row.Capacity,
	}
}

func toBookingDetailResponse(row database.BookingDetailRow) bookingDetailResponse {
	return bookingDetailResponse{
		customerBookingResponse: customerBookingResponse{
			bookingResponse: toBookingResponse(row.Booking),
			TableNumber:     row.TableNumber,
			Capacity:        row.Capacity,
		},
		CustomerName: row.CustomerName,
	}
}

// --- Handlers ---

// Create handles POST /bookings. All field validation happens before any
// database call; a request missing date or time never reaches the insert.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
		return
	}

	if req.BookingDate == "" || req.BookingTime == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "booking_date and booking_time are required"})
		return
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "booking_date must be YYYY-MM-DD"})
		return
	}

	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "booking_time must be HH:MM"})
		return
	}

	if req.NumberOfGuests < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "number_of_guests must be at least 1"})
		return
	}

	table, err := h.store.GetTable(r.Context(), tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
			return
		}
		log.Printf("ERROR: get table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if req.NumberOfGuests > table.Capacity {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "number_of_guests exceeds table capacity"})
		return
	}

	booking, err := h.store.CreateBooking(r.Context(), database.CreateBookingParams{
		CustomerID:     claims.UserID,
		TableID:        tableID,
		BookingDate:    pgtype.Date{Time: bookingDate, Valid: true},
		BookingTime:    req.BookingTime,
		NumberOfGuests: req.NumberOfGuests,
	})
	if err != nil {
		log.Printf("ERROR: create booking: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toBookingResponse(booking)
	notify(h.notifier, claims.UserID, "booking.created", resp)

	writeJSON(w, http.StatusCreated, resp)
}

// ListMine handles GET /bookings, newest first with table details.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	bookings, err := h.store.ListBookingsByCustomer(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: list bookings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerBookingResponse, len(bookings))
	for i, row := range bookings {
		resp[i] = toCustomerBookingResponse(row)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListAll handles GET /bookings/all for the owner, newest first.
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.ListAllBookings(r.Context())
	if err != nil {
		log.Printf("ERROR: list all bookings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]bookingDetailResponse, len(bookings))
	for i, row := range bookings {
		resp[i] = toBookingDetailResponse(row)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /bookings/{id}/status. Approve and decline
// are the only valid moves and only from pending; the update is a
// compare-and-set on the current status, so a stale write returns 409.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking ID"})
		return
	}

	var req updateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, ok := allowedBookingTransitions[req.Status]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking status"})
		return
	}

	booking, err := h.store.GetBooking(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
			return
		}
		log.Printf("ERROR: get booking: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !isBookingTransitionAllowed(booking.Status, req.Status) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "cannot transition booking from " + booking.Status + " to " + req.Status,
		})
		return
	}

	updated, err := h.store.UpdateBookingStatus(r.Context(), database.UpdateBookingStatusParams{
		ID:             bookingID,
		Status:         req.Status,
		ExpectedStatus: booking.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Someone moved the booking between our read and write.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "booking status changed concurrently"})
			return
		}
		log.Printf("ERROR: update booking status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toBookingResponse(updated)
	notify(h.notifier, updated.CustomerID, "booking.updated", resp)

	writeJSON(w, http.StatusOK, resp)
}
