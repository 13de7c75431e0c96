package enum

// ── State machines (CHECK constrained in DB) ──

// Booking statuses. A booking is created as pending; approved and
// declined are terminal.
const (
	BookingStatusPending  = "pending"
	BookingStatusApproved = "approved"
	BookingStatusDeclined = "declined"
)

// Order statuses, strictly forward-moving. Completed is terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

// ── Roles (CHECK constrained in DB) ──

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)
