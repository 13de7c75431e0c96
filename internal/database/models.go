package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Profile struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

type Table struct {
	ID          uuid.UUID
	TableNumber int32
	Capacity    int32
	IsAvailable bool
	CreatedAt   time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Category    pgtype.Text
	ImageURL    pgtype.Text
	IsAvailable bool
	CreatedAt   time.Time
}

type Booking struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	TableID        uuid.UUID
	BookingDate    pgtype.Date
	BookingTime    string
	NumberOfGuests int32
	Status         string
	CreatedAt      time.Time
}

type Order struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	TokenNumber int32
	TotalAmount pgtype.Numeric
	Status      string
	CreatedAt   time.Time
}

// CustomerBookingRow is a booking joined with its table, as shown on the
// customer dashboard.
type CustomerBookingRow struct {
	Booking
	TableNumber int32
	Capacity    int32
}

// BookingDetailRow is a booking joined with its table and the booking
// customer, as shown on the owner dashboard.
type BookingDetailRow struct {
	Booking
	TableNumber  int32
	Capacity     int32
	CustomerName string
}

// OrderDetailRow is an order joined with the ordering customer, as shown
// on the owner dashboard.
type OrderDetailRow struct {
	Order
	CustomerName string
}

// TableStatsRow holds aggregate table counts for the owner dashboard.
// Booked is computed as Total - Available by the caller.
type TableStatsRow struct {
	Total     int64
	Available int64
}
