package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodCash  = "Cash"
	PaymentMethodUPI   = "UPI"
	PaymentMethodOther = "Other"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentSearchFilter holds search and filter criteria for payment queries
type PaymentSearchFilter struct {
	Method    *string    `json:"method,omitempty"`     // Method filter (Cash, UPI, Other)
	OrderID   *uuid.UUID `json:"order_id,omitempty"`   // Parent order filter
	SortBy    string     `json:"sort_by,omitempty"`    // Sort field: date, amount
	SortOrder string     `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int        `json:"limit,omitempty"`      // Page size (default: 50)
	Offset    int        `json:"offset,omitempty"`     // Page offset
}

// Payment is an append-only record of money received against an order. Every
// addition recomputes the parent order's paid/due amounts and status.
type Payment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order" db:"order_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
	Notes     *string   `json:"notes" db:"notes"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
