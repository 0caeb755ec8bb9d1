package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerSearchFilter holds search and filter criteria for customer queries
type CustomerSearchFilter struct {
	Query     string `json:"query,omitempty"`      // Free-text search across name, phone, address
	SortBy    string `json:"sort_by,omitempty"`    // Sort field: name, created_at
	SortOrder string `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int    `json:"limit,omitempty"`      // Page size (default: 50)
	Offset    int    `json:"offset,omitempty"`     // Page offset
}

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
