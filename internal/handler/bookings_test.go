package handler_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/enum"
	"github.com/foodiehub/api/internal/handler"
	mw "github.com/foodiehub/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock store ---

type mockBookingStore struct {
	tables   map[uuid.UUID]database.Table   // keyed by table ID
	bookings map[uuid.UUID]database.Booking // keyed by booking ID
	names    map[uuid.UUID]string           // customer ID -> full name
}

func newMockBookingStore() *mockBookingStore {
	return &mockBookingStore{
		tables:   make(map[uuid.UUID]database.Table),
		bookings: make(map[uuid.UUID]database.Booking),
		names:    make(map[uuid.UUID]string),
	}
}

func (m *mockBookingStore) GetTable(_ context.Context, id uuid.UUID) (database.Table, error) {
	t, ok := m.tables[id]
	if !ok {
		return database.Table{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *mockBookingStore) CreateBooking(_ context.Context, arg database.CreateBookingParams) (database.Booking, error) {
	b := database.Booking{
		ID:             uuid.New(),
		CustomerID:     arg.CustomerID,
		TableID:        arg.TableID,
		BookingDate:    arg.BookingDate,
		BookingTime:    arg.BookingTime,
		NumberOfGuests: arg.NumberOfGuests,
		Status:         enum.BookingStatusPending,
		CreatedAt:      time.Now(),
	}
	m.bookings[b.ID] = b
	return b, nil
}

func (m *mockBookingStore) GetBooking(_ context.Context, id uuid.UUID) (database.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return database.Booking{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockBookingStore) ListBookingsByCustomer(_ context.Context, customerID uuid.UUID) ([]database.CustomerBookingRow, error) {
	var result []database.CustomerBookingRow
	for _, b := range m.bookings {
		if b.CustomerID != customerID {
			continue
		}
		table := m.tables[b.TableID]
		result = append(result, database.CustomerBookingRow{
			Booking:     b,
			TableNumber: table.TableNumber,
			Capacity:    table.Capacity,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockBookingStore) ListAllBookings(_ context.Context) ([]database.BookingDetailRow, error) {
	var result []database.BookingDetailRow
	for _, b := range m.bookings {
		table := m.tables[b.TableID]
		result = append(result, database.BookingDetailRow{
			Booking:      b,
			TableNumber:  table.TableNumber,
			Capacity:     table.Capacity,
			CustomerName: m.names[b.CustomerID],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockBookingStore) UpdateBookingStatus(_ context.Context, arg database.UpdateBookingStatusParams) (database.Booking, error) {
	b, ok := m.bookings[arg.ID]
	if !ok || b.Status != arg.ExpectedStatus {
		return database.Booking{}, pgx.ErrNoRows
	}
	b.Status = arg.Status
	m.bookings[b.ID] = b
	return b, nil
}

func (m *mockBookingStore) addTable(number, capacity int32) database.Table {
	t := database.Table{
		ID:          uuid.New(),
		TableNumber: number,
		Capacity:    capacity,
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}
	m.tables[t.ID] = t
	return t
}

func (m *mockBookingStore) addBooking(customerID, tableID uuid.UUID, status string) database.Booking {
	b := database.Booking{
		ID:             uuid.New(),
		CustomerID:     customerID,
		TableID:        tableID,
		BookingDate:    pgtype.Date{Time: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		BookingTime:    "19:00",
		NumberOfGuests: 2,
		Status:         status,
		CreatedAt:      time.Now(),
	}
	m.bookings[b.ID] = b
	return b
}

// --- Helpers ---

func setupBookingRouter(store *mockBookingStore, notifier *mockNotifier) *chi.Mux {
	h := handler.NewBookingHandler(store, notifier)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(testJWTSecret))
		r.Route("/bookings", func(r chi.Router) {
			h.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleOwner))
				h.RegisterOwnerRoutes(r)
			})
		})
	})
	return r
}

// --- Create tests ---

func TestCreateBooking_Pending(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	notifier := &mockNotifier{}
	router := setupBookingRouter(store, notifier)
	customerID := uuid.New()
	token := tokenFor(t, customerID, enum.RoleCustomer)

	rr := doAuthedRequest(t, router, "POST", "/bookings", map[string]interface{}{
		"table_id":         table.ID.String(),
		"booking_date":     "2025-03-01",
		"booking_time":     "19:00",
		"number_of_guests": 2,
	}, token)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != enum.BookingStatusPending {
		t.Errorf("status: got %v, want %s", resp["status"], enum.BookingStatusPending)
	}
	if resp["booking_date"] != "2025-03-01" {
		t.Errorf("booking_date: got %v", resp["booking_date"])
	}
	if resp["booking_time"] != "19:00" {
		t.Errorf("booking_time: got %v", resp["booking_time"])
	}
	if len(store.bookings) != 1 {
		t.Fatalf("expected 1 stored booking, got %d", len(store.bookings))
	}
	if len(notifier.events) != 1 || notifier.events[0].Event.Type != "booking.created" {
		t.Error("expected a booking.created event")
	}
}

func TestCreateBooking_MissingDateOrTime(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleCustomer)

	cases := []map[string]interface{}{
		{"table_id": table.ID.String(), "booking_time": "19:00", "number_of_guests": 2},
		{"table_id": table.ID.String(), "booking_date": "2025-03-01", "number_of_guests": 2},
	}
	for _, body := range cases {
		rr := doAuthedRequest(t, router, "POST", "/bookings", body, token)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d for body %v", rr.Code, http.StatusBadRequest, body)
		}
	}
	if len(store.bookings) != 0 {
		t.Error("no booking should be inserted on validation failure")
	}
}

func TestCreateBooking_BadFormats(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleCustomer)

	cases := []map[string]interface{}{
		{"table_id": table.ID.String(), "booking_date": "03/01/2025", "booking_time": "19:00", "number_of_guests": 2},
		{"table_id": table.ID.String(), "booking_date": "2025-03-01", "booking_time": "7pm", "number_of_guests": 2},
		{"table_id": "not-a-uuid", "booking_date": "2025-03-01", "booking_time": "19:00", "number_of_guests": 2},
	}
	for _, body := range cases {
		rr := doAuthedRequest(t, router, "POST", "/bookings", body, token)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d for body %v", rr.Code, http.StatusBadRequest, body)
		}
	}
}

func TestCreateBooking_GuestsExceedCapacity(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleCustomer)

	rr := doAuthedRequest(t, router, "POST", "/bookings", map[string]interface{}{
		"table_id":         table.ID.String(),
		"booking_date":     "2025-03-01",
		"booking_time":     "19:00",
		"number_of_guests": 5,
	}, token)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateBooking_TableNotFound(t *testing.T) {
	store := newMockBookingStore()
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleCustomer)

	rr := doAuthedRequest(t, router, "POST", "/bookings", map[string]interface{}{
		"table_id":         uuid.New().String(),
		"booking_date":     "2025-03-01",
		"booking_time":     "19:00",
		"number_of_guests": 2,
	}, token)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- List tests ---

func TestListBookings_OwnOnly(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	customerID := uuid.New()
	store.addBooking(customerID, table.ID, enum.BookingStatusPending)
	store.addBooking(uuid.New(), table.ID, enum.BookingStatusPending)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, customerID, enum.RoleCustomer)

	rr := doAuthedRequest(t, router, "GET", "/bookings", nil, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(resp))
	}
	if resp[0]["table_number"] != float64(5) {
		t.Errorf("table_number: got %v, want 5", resp[0]["table_number"])
	}
}

func TestListAllBookings_OwnerOnly(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	customerID := uuid.New()
	store.names[customerID] = "Jordan Diner"
	store.addBooking(customerID, table.ID, enum.BookingStatusPending)
	router := setupBookingRouter(store, &mockNotifier{})

	rr := doAuthedRequest(t, router, "GET", "/bookings/all", nil,
		tokenFor(t, uuid.New(), enum.RoleCustomer))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("customer access: got %d, want %d", rr.Code, http.StatusForbidden)
	}

	rr = doAuthedRequest(t, router, "GET", "/bookings/all", nil,
		tokenFor(t, uuid.New(), enum.RoleOwner))
	if rr.Code != http.StatusOK {
		t.Fatalf("owner access: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(resp))
	}
	if resp[0]["customer_name"] != "Jordan Diner" {
		t.Errorf("customer_name: got %v", resp[0]["customer_name"])
	}
}

// --- Status tests ---

func TestUpdateBookingStatus_Approve(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	customerID := uuid.New()
	booking := store.addBooking(customerID, table.ID, enum.BookingStatusPending)
	notifier := &mockNotifier{}
	router := setupBookingRouter(store, notifier)
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/bookings/"+booking.ID.String()+"/status",
		map[string]string{"status": enum.BookingStatusApproved}, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != enum.BookingStatusApproved {
		t.Errorf("status: got %v, want %s", resp["status"], enum.BookingStatusApproved)
	}

	// Everything except the status is untouched.
	stored := store.bookings[booking.ID]
	if stored.BookingTime != booking.BookingTime || stored.NumberOfGuests != booking.NumberOfGuests ||
		stored.TableID != booking.TableID || stored.CustomerID != booking.CustomerID {
		t.Error("approve must only change the status")
	}

	if len(notifier.events) != 1 || notifier.events[0].Event.Type != "booking.updated" {
		t.Fatal("expected a booking.updated event")
	}
	if notifier.events[0].CustomerID != customerID {
		t.Error("event should target the booking's customer")
	}
}

func TestUpdateBookingStatus_Decline(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	booking := store.addBooking(uuid.New(), table.ID, enum.BookingStatusPending)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/bookings/"+booking.ID.String()+"/status",
		map[string]string{"status": enum.BookingStatusDeclined}, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if store.bookings[booking.ID].Status != enum.BookingStatusDeclined {
		t.Error("booking should be declined")
	}
}

func TestUpdateBookingStatus_TerminalStates(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	for _, from := range []string{enum.BookingStatusApproved, enum.BookingStatusDeclined} {
		booking := store.addBooking(uuid.New(), table.ID, from)

		rr := doAuthedRequest(t, router, "PATCH", "/bookings/"+booking.ID.String()+"/status",
			map[string]string{"status": enum.BookingStatusApproved}, token)

		if rr.Code != http.StatusConflict {
			t.Errorf("from %s: got %d, want %d", from, rr.Code, http.StatusConflict)
		}
	}
}

func TestUpdateBookingStatus_InvalidStatus(t *testing.T) {
	store := newMockBookingStore()
	table := store.addTable(5, 4)
	booking := store.addBooking(uuid.New(), table.ID, enum.BookingStatusPending)
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/bookings/"+booking.ID.String()+"/status",
		map[string]string{"status": "cancelled"}, token)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestUpdateBookingStatus_NotFound(t *testing.T) {
	store := newMockBookingStore()
	router := setupBookingRouter(store, &mockNotifier{})
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/bookings/"+uuid.New().String()+"/status",
		map[string]string{"status": enum.BookingStatusApproved}, token)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
