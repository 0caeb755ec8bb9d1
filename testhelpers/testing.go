package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"sareemart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=sareemart_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestSaree inserts a saree row and returns its ID
func SetupTestSaree(t *testing.T, db *TestDB, name, category string, price float64, stock int) uuid.UUID {
	t.Helper()

	sareeID := uuid.New()
	query := `
		INSERT INTO sarees (id, name, category, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	_, err := db.Pool.Exec(context.Background(), query, sareeID, name, category, price, stock, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test saree: %v", err)
	}

	return sareeID
}

// SetupTestCustomer inserts a customer row and returns its ID
func SetupTestCustomer(t *testing.T, db *TestDB, name string) uuid.UUID {
	t.Helper()

	customerID := uuid.New()
	query := `
		INSERT INTO customers (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`
	_, err := db.Pool.Exec(context.Background(), query, customerID, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	return customerID
}

// SetupTestOrder inserts an order row and returns its ID
func SetupTestOrder(t *testing.T, db *TestDB, customerID uuid.UUID, total, paid float64, status models.OrderStatus) uuid.UUID {
	t.Helper()

	orderID := uuid.New()
	query := `
		INSERT INTO orders (id, customer_id, total_amount, paid_amount, due_amount, status, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
	`
	_, err := db.Pool.Exec(context.Background(), query, orderID, customerID, total, paid, total-paid, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return orderID
}

// SeedShopData inserts the starter catalogue and customers used in manual
// testing. Safe to call on a database that already has rows.
func SeedShopData(t *testing.T, db *TestDB) {
	t.Helper()

	sarees := []struct {
		name     string
		category string
		price    float64
		stock    int
		notes    string
	}{
		{"Banarasi Silk Saree", "Silk", 12500, 3, "Pure Banarasi silk with golden zari work"},
		{"Cotton Handloom Saree", "Cotton", 2800, 8, "Handwoven cotton with traditional motifs"},
		{"Designer Party Wear", "Partywear", 8900, 2, "Elegant designer saree for special occasions"},
	}
	for _, s := range sarees {
		query := `
			INSERT INTO sarees (id, name, category, price, stock, notes, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $7)
			ON CONFLICT DO NOTHING
		`
		_, err := db.Pool.Exec(context.Background(), query, uuid.New(), s.name, s.category, s.price, s.stock, s.notes, time.Now())
		if err != nil {
			t.Fatalf("Failed to seed saree %s: %v", s.name, err)
		}
	}

	customers := []struct {
		name    string
		phone   string
		address string
		notes   string
	}{
		{"Priya Sharma", "+91 98765 43210", "Krishna Nagar, Delhi", "Prefers silk sarees"},
		{"Anita Patel", "+91 87654 32109", "Satellite, Ahmedabad", "Regular customer"},
	}
	for _, c := range customers {
		query := `
			INSERT INTO customers (id, name, phone, address, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT DO NOTHING
		`
		_, err := db.Pool.Exec(context.Background(), query, uuid.New(), c.name, c.phone, c.address, c.notes, time.Now())
		if err != nil {
			t.Fatalf("Failed to seed customer %s: %v", c.name, err)
		}
	}
}

// CleanupTables truncates the shop tables between tests
func CleanupTables(t *testing.T, db *TestDB) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), "TRUNCATE payments, order_items, orders, customers, sarees CASCADE")
	if err != nil {
		t.Fatalf("Failed to clean tables: %v", err)
	}
}
