package models

// OrderStatus is the payment-derived state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPartial   OrderStatus = "Partial"
	StatusPaid      OrderStatus = "Paid"
	StatusCancelled OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// NextStatus derives the order status from its payment position. The rule is
// one-directional: paid >= total yields Paid, any positive payment yields
// Partial, and otherwise the current status is kept. Cancelled orders never
// transition out via payments.
func NextStatus(current OrderStatus, paidAmount, totalAmount float64) OrderStatus {
	if current == StatusCancelled {
		return StatusCancelled
	}
	if paidAmount >= totalAmount {
		return StatusPaid
	}
	if paidAmount > 0 {
		return StatusPartial
	}
	return current
}
