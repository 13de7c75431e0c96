package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createBooking = `
INSERT INTO bookings (customer_id, table_id, booking_date, booking_time, number_of_guests, status)
VALUES ($1, $2, $3, $4, $5, 'pending')
RETURNING id, customer_id, table_id, booking_date, booking_time, number_of_guests, status, created_at
`

type CreateBookingParams struct {
	CustomerID     uuid.UUID
	TableID        uuid.UUID
	BookingDate    pgtype.Date
	BookingTime    string
	NumberOfGuests int32
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := q.db.QueryRow(ctx, createBooking,
		arg.CustomerID, arg.TableID, arg.BookingDate, arg.BookingTime, arg.NumberOfGuests)
	var b Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.TableID, &b.BookingDate, &b.BookingTime,
		&b.NumberOfGuests, &b.Status, &b.CreatedAt)
	return b, err
}

const getBooking = `
SELECT id, customer_id, table_id, booking_date, booking_time, number_of_guests, status, created_at
FROM bookings
WHERE id = $1
`

func (q *Queries) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := q.db.QueryRow(ctx, getBooking, id)
	var b Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.TableID, &b.BookingDate, &b.BookingTime,
		&b.NumberOfGuests, &b.Status, &b.CreatedAt)
	return b, err
}

const listBookingsByCustomer = `
SELECT b.id, b.customer_id, b.table_id, b.booking_date, b.booking_time, b.number_of_guests, b.status, b.created_at,
       t.table_number, t.capacity
FROM bookings b
JOIN tables t ON t.id = b.table_id
WHERE b.customer_id = $1
ORDER BY b.created_at DESC
`

func (q *Queries) ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]CustomerBookingRow, error) {
	rows, err := q.db.Query(ctx, listBookingsByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []CustomerBookingRow
	for rows.Next() {
		var b CustomerBookingRow
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.TableID, &b.BookingDate, &b.BookingTime,
			&b.NumberOfGuests, &b.Status, &b.CreatedAt, &b.TableNumber, &b.Capacity); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

const listAllBookings = `
SELECT b.id, b.customer_id, b.table_id, b.booking_date, b.booking_time, b.number_of_guests, b.status, b.created_at,
       t.table_number, t.capacity, p.full_name
FROM bookings b
JOIN tables t ON t.id = b.table_id
JOIN profiles p ON p.id = b.customer_id
ORDER BY b.created_at DESC
`

func (q *Queries) ListAllBookings(ctx context.Context) ([]BookingDetailRow, error) {
	rows, err := q.db.Query(ctx, listAllBookings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []BookingDetailRow
	for rows.Next() {
		var b BookingDetailRow
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.TableID, &b.BookingDate, &b.BookingTime,
			&b.NumberOfGuests, &b.Status, &b.CreatedAt, &b.TableNumber, &b.Capacity, &b.CustomerName); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

const updateBookingStatus = `
UPDATE bookings
SET status = $2
WHERE id = $1 AND status = $3
RETURNING id, customer_id, table_id, booking_date, booking_time, number_of_guests, status, created_at
`

type UpdateBookingStatusParams struct {
	ID             uuid.UUID
	Status         string
	ExpectedStatus string
}

// UpdateBookingStatus performs a compare-and-set update: the row is only
// written if its status still matches ExpectedStatus. Returns pgx.ErrNoRows
// when the booking is missing or its status changed since it was read.
func (q *Queries) UpdateBookingStatus(ctx context.Context, arg UpdateBookingStatusParams) (Booking, error) {
	row := q.db.QueryRow(ctx, updateBookingStatus, arg.ID, arg.Status, arg.ExpectedStatus)
	var b Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.TableID, &b.BookingDate, &b.BookingTime,
		&b.NumberOfGuests, &b.Status, &b.CreatedAt)
	return b, err
}
