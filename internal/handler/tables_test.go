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
)

// --- Mock store ---

type mockTableStore struct {
	tables map[uuid.UUID]database.Table // keyed by table ID
}

func newMockTableStore() *mockTableStore {
	return &mockTableStore{tables: make(map[uuid.UUID]database.Table)}
}

func (m *mockTableStore) ListTables(_ context.Context) ([]database.Table, error) {
	result := make([]database.Table, 0, len(m.tables))
	for _, t := range m.tables {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TableNumber < result[j].TableNumber
	})
	return result, nil
}

func (m *mockTableStore) SetTableAvailability(_ context.Context, arg database.SetTableAvailabilityParams) (database.Table, error) {
	t, ok := m.tables[arg.ID]
	if !ok {
		return database.Table{}, pgx.ErrNoRows
	}
	t.IsAvailable = arg.IsAvailable
	m.tables[t.ID] = t
	return t, nil
}

func (m *mockTableStore) addTable(number, capacity int32, available bool) database.Table {
	t := database.Table{
		ID:          uuid.New(),
		TableNumber: number,
		Capacity:    capacity,
		IsAvailable: available,
		CreatedAt:   time.Now(),
	}
	m.tables[t.ID] = t
	return t
}

// --- Helpers ---

func setupTableRouter(store *mockTableStore) *chi.Mux {
	h := handler.NewTableHandler(store)
	r := chi.NewRouter()
	r.Route("/tables", func(r chi.Router) {
		h.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(testJWTSecret))
			r.Use(mw.RequireRole(enum.RoleOwner))
			h.RegisterOwnerRoutes(r)
		})
	})
	return r
}

// --- List tests ---

func TestTableList_Empty(t *testing.T) {
	store := newMockTableStore()
	router := setupTableRouter(store)

	rr := doRequest(t, router, "GET", "/tables", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 0 {
		t.Errorf("expected empty list, got %d tables", len(resp))
	}
}

func TestTableList_OrderedByTableNumber(t *testing.T) {
	store := newMockTableStore()
	store.addTable(3, 4, true)
	store.addTable(1, 2, true)
	store.addTable(2, 2, false)
	router := setupTableRouter(store)

	rr := doRequest(t, router, "GET", "/tables", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(resp))
	}
	for i, want := range []float64{1, 2, 3} {
		if resp[i]["table_number"] != want {
			t.Errorf("position %d: got table %v, want %v", i, resp[i]["table_number"], want)
		}
	}
	if resp[1]["is_available"] != false {
		t.Error("table 2 should be unavailable")
	}
}

// --- Availability tests ---

func TestSetAvailability_Owner(t *testing.T) {
	store := newMockTableStore()
	table := store.addTable(1, 4, true)
	router := setupTableRouter(store)
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/tables/"+table.ID.String()+"/availability",
		map[string]bool{"is_available": false}, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["is_available"] != false {
		t.Errorf("is_available: got %v, want false", resp["is_available"])
	}
	if store.tables[table.ID].IsAvailable {
		t.Error("stored table should be unavailable")
	}
}

func TestSetAvailability_MissingFlag(t *testing.T) {
	store := newMockTableStore()
	table := store.addTable(1, 4, true)
	router := setupTableRouter(store)
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/tables/"+table.ID.String()+"/availability",
		map[string]string{}, token)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSetAvailability_NotFound(t *testing.T) {
	store := newMockTableStore()
	router := setupTableRouter(store)
	token := tokenFor(t, uuid.New(), enum.RoleOwner)

	rr := doAuthedRequest(t, router, "PATCH", "/tables/"+uuid.New().String()+"/availability",
		map[string]bool{"is_available": false}, token)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSetAvailability_CustomerForbidden(t *testing.T) {
	store := newMockTableStore()
	table := store.addTable(1, 4, true)
	router := setupTableRouter(store)
	token := tokenFor(t, uuid.New(), enum.RoleCustomer)

	rr := doAuthedRequest(t, router, "PATCH", "/tables/"+table.ID.String()+"/availability",
		map[string]bool{"is_available": false}, token)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if !store.tables[table.ID].IsAvailable {
		t.Error("table must not be modified by a customer")
	}
}
