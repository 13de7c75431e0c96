package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (customer_id, token_number, total_amount, status)
VALUES ($1, $2, $3, 'pending')
RETURNING id, customer_id, token_number, total_amount, status, created_at
`

type CreateOrderParams struct {
	CustomerID  uuid.UUID
	TokenNumber int32
	TotalAmount pgtype.Numeric
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.CustomerID, arg.TokenNumber, arg.TotalAmount)
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TokenNumber, &o.TotalAmount, &o.Status, &o.CreatedAt)
	return o, err
}

const getOrder = `
SELECT id, customer_id, token_number, total_amount, status, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TokenNumber, &o.TotalAmount, &o.Status, &o.CreatedAt)
	return o, err
}

const listOrdersByCustomer = `
SELECT id, customer_id, token_number, total_amount, status, created_at
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.TokenNumber, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const listAllOrders = `
SELECT o.id, o.customer_id, o.token_number, o.total_amount, o.status, o.created_at, p.full_name
FROM orders o
JOIN profiles p ON p.id = o.customer_id
ORDER BY o.created_at DESC
`

func (q *Queries) ListAllOrders(ctx context.Context) ([]OrderDetailRow, error) {
	rows, err := q.db.Query(ctx, listAllOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderDetailRow
	for rows.Next() {
		var o OrderDetailRow
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.TokenNumber, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.CustomerName); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $2
WHERE id = $1 AND status = $3
RETURNING id, customer_id, token_number, total_amount, status, created_at
`

type UpdateOrderStatusParams struct {
	ID             uuid.UUID
	Status         string
	ExpectedStatus string
}

// UpdateOrderStatus performs a compare-and-set update: the row is only
// written if its status still matches ExpectedStatus. Returns pgx.ErrNoRows
// when the order is missing or its status changed since it was read.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.ExpectedStatus)
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TokenNumber, &o.TotalAmount, &o.Status, &o.CreatedAt)
	return o, err
}
