package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem binds a quantity and locked-in price to one saree within one
// order. Items are created only as part of order creation and are immutable
// afterwards.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	SareeID   uuid.UUID `json:"saree" db:"saree_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
