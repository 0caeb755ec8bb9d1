package models

import (
	"time"

	"github.com/google/uuid"
)

// SareeSearchFilter holds search and filter criteria for saree queries
type SareeSearchFilter struct {
	Query     string   `json:"query,omitempty"`      // Free-text search across name, category, notes
	Category  *string  `json:"category,omitempty"`   // Category filter (Silk, Cotton, Partywear, ...)
	MinPrice  *float64 `json:"min_price,omitempty"`  // Minimum price
	MaxPrice  *float64 `json:"max_price,omitempty"`  // Maximum price
	MinStock  *int     `json:"min_stock,omitempty"`  // Minimum stock level
	MaxStock  *int     `json:"max_stock,omitempty"`  // Maximum stock level
	SortBy    string   `json:"sort_by,omitempty"`    // Sort field: name, price, stock, created_at
	SortOrder string   `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int      `json:"limit,omitempty"`      // Page size (default: 50)
	Offset    int      `json:"offset,omitempty"`     // Page offset
}

type Saree struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Notes       *string   `json:"notes" db:"notes"`
	Description *string   `json:"description" db:"description"`
	Image       *string   `json:"image" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
