package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/foodiehub/api/internal/cart"
	"github.com/foodiehub/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Token numbers are short pickup display codes, drawn uniformly from
// [tokenMin, tokenMax]. Collisions across orders are permitted: the token
// is not an identifier, the order ID is.
const (
	tokenMin = 1000
	tokenMax = 9999
)

// ErrEmptyCart is returned when checkout is attempted with no cart items.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutStore defines the DB methods needed to place orders.
// Satisfied by *database.Queries.
type CheckoutStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// CheckoutService turns a customer's cart into a placed order.
type CheckoutService struct {
	store CheckoutStore
	carts *cart.Store
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(store CheckoutStore, carts *cart.Store) *CheckoutService {
	return &CheckoutService{store: store, carts: carts}
}

// CheckoutResult is the placed order plus the cart snapshot it was built from.
type CheckoutResult struct {
	Order database.Order
	Items []cart.Item
}

// Checkout places an order for the customer's current cart: the total is the
// sum of the cart's snapshot prices, the token number is a random draw, and
// the initial status is pending. The cart is cleared only after the insert
// succeeds; on failure it is left untouched so the customer can retry.
func (s *CheckoutService) Checkout(ctx context.Context, customerID uuid.UUID) (*CheckoutResult, error) {
	items := s.carts.Items(customerID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}

	order, err := s.store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerID:  customerID,
		TokenNumber: DrawTokenNumber(),
		TotalAmount: DecimalToNumeric(total),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.carts.Clear(customerID)

	return &CheckoutResult{Order: order, Items: items}, nil
}

// DrawTokenNumber returns a uniform random token in [tokenMin, tokenMax].
func DrawTokenNumber() int32 {
	return int32(rand.IntN(tokenMax-tokenMin+1) + tokenMin)
}

// DecimalToNumeric converts a decimal amount to pgtype.Numeric with two
// fractional digits.
func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// NumericToDecimal converts a pgtype.Numeric to decimal, treating invalid
// values as zero.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
