package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderSearchFilter holds search and filter criteria for order queries
type OrderSearchFilter struct {
	Status     *string    `json:"status,omitempty"`      // Status filter (Pending, Partial, Paid, Cancelled)
	CustomerID *uuid.UUID `json:"customer_id,omitempty"` // Customer filter
	DateFrom   *time.Time `json:"date_from,omitempty"`   // Order date from
	DateTo     *time.Time `json:"date_to,omitempty"`     // Order date to
	SortBy     string     `json:"sort_by,omitempty"`     // Sort field: date, total_amount
	SortOrder  string     `json:"sort_order,omitempty"`  // Sort order: asc, desc
	Limit      int        `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	CustomerID  uuid.UUID   `json:"customer" db:"customer_id"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	PaidAmount  float64     `json:"paid_amount" db:"paid_amount"`
	DueAmount   float64     `json:"due_amount" db:"due_amount"`
	Status      OrderStatus `json:"status" db:"status"`
	Notes       *string     `json:"notes" db:"notes"`
	Date        time.Time   `json:"date" db:"date"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItemDetail is the read shape of a line item: the stored item plus the
// saree name joined in at query time for display.
type OrderItemDetail struct {
	OrderItem
	SareeName string `json:"saree_name"`
}

// OrderDetail is the read shape of an order: the stored order plus denormalized
// customer name and the owned items and payments. The names are projections
// computed at the query boundary, never persisted.
type OrderDetail struct {
	Order
	CustomerName string             `json:"customer_name"`
	Items        []*OrderItemDetail `json:"items"`
	Payments     []*Payment         `json:"payments"`
}
