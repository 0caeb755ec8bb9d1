package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sareemart/internal/common"
	"sareemart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	// CreateWithItems persists the order, its line items, and the matching
	// stock decrements in one transaction. Insufficient stock on any item
	// aborts the whole operation.
	CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error)
	ListDetails(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.OrderDetail, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddPayment inserts the payment and folds it into the order aggregates
	// in one transaction. Returns a conflict if the order is cancelled.
	AddPayment(ctx context.Context, payment *models.Payment) error
	// CancelWithRestore marks the order cancelled and restores stock for
	// every item in one transaction. Returns a conflict if the order is
	// already cancelled or has collected payments.
	CancelWithRestore(ctx context.Context, orderID uuid.UUID, items []*models.OrderItem) error
	ListOutstanding(ctx context.Context, limit int) ([]*models.Order, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_id, total_amount, paid_amount, due_amount, status, notes, date, created_at, updated_at`

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, customer_id, total_amount, paid_amount, due_amount, status, notes, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, orderQuery, order.ID, order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, saree_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	// Guarded decrement: the stock >= quantity predicate makes concurrent
	// decrements serialize on the row without ever going negative.
	stockQuery := `
		UPDATE sarees SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.SareeID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		tag, err := tx.Exec(ctx, stockQuery, item.Quantity, item.SareeID)
		if err != nil {
			return fmt.Errorf("decrement saree stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return common.NewValidationError("items", fmt.Sprintf("insufficient stock for saree %s", item.SareeID))
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.PaidAmount, &order.DueAmount, &order.Status, &order.Notes, &order.Date, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("order")
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetDetail(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error) {
	detail := &models.OrderDetail{}
	query := `
		SELECT o.id, o.customer_id, o.total_amount, o.paid_amount, o.due_amount, o.status, o.notes, o.date, o.created_at, o.updated_at, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&detail.ID, &detail.CustomerID, &detail.TotalAmount, &detail.PaidAmount, &detail.DueAmount, &detail.Status, &detail.Notes, &detail.Date, &detail.CreatedAt, &detail.UpdatedAt, &detail.CustomerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("order")
		}
		return nil, err
	}

	if err := r.loadItemsAndPayments(ctx, []*models.OrderDetail{detail}); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListDetails performs filtered search on orders, returning the read shape
// with denormalized names and nested items/payments for the result page.
func (r *orderRepo) ListDetails(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.OrderDetail, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	queryBase := `
		SELECT o.id, o.customer_id, o.total_amount, o.paid_amount, o.due_amount, o.status, o.notes, o.date, o.created_at, o.updated_at, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE 1=1
	`
	args := []any{}
	conditionCount := 0

	if filter.Status != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.status = $%d`, conditionCount)
		args = append(args, *filter.Status)
	}
	if filter.CustomerID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.customer_id = $%d`, conditionCount)
		args = append(args, *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.date >= $%d`, conditionCount)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.date <= $%d`, conditionCount)
		args = append(args, *filter.DateTo)
	}

	validSortFields := map[string]bool{
		"date": true, "total_amount": true,
	}
	sortField := "o.date"
	if validSortFields[filter.SortBy] {
		sortField = "o." + filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.OrderDetail
	for rows.Next() {
		detail := &models.OrderDetail{}
		if err := rows.Scan(&detail.ID, &detail.CustomerID, &detail.TotalAmount, &detail.PaidAmount, &detail.DueAmount, &detail.Status, &detail.Notes, &detail.Date, &detail.CreatedAt, &detail.UpdatedAt, &detail.CustomerName); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItemsAndPayments(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// loadItemsAndPayments batch-loads the owned collections for a page of orders.
func (r *orderRepo) loadItemsAndPayments(ctx context.Context, details []*models.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.OrderDetail, len(details))
	ids := make([]uuid.UUID, 0, len(details))
	for _, d := range details {
		d.Items = []*models.OrderItemDetail{}
		d.Payments = []*models.Payment{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	itemQuery := `
		SELECT oi.id, oi.order_id, oi.saree_id, oi.quantity, oi.price, oi.created_at, s.name
		FROM order_items oi
		JOIN sarees s ON s.id = oi.saree_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at ASC
	`
	rows, err := r.db.Query(ctx, itemQuery, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		item := &models.OrderItemDetail{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SareeID, &item.Quantity, &item.Price, &item.CreatedAt, &item.SareeName); err != nil {
			rows.Close()
			return err
		}
		if d, ok := byID[item.OrderID]; ok {
			d.Items = append(d.Items, item)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	paymentQuery := `
		SELECT id, order_id, amount, method, notes, date, created_at
		FROM payments
		WHERE order_id = ANY($1)
		ORDER BY date ASC
	`
	rows, err = r.db.Query(ctx, paymentQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method, &payment.Notes, &payment.Date, &payment.CreatedAt); err != nil {
			return err
		}
		if d, ok := byID[payment.OrderID]; ok {
			d.Payments = append(d.Payments, payment)
		}
	}
	return rows.Err()
}

func (r *orderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, saree_id, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SareeID, &item.Quantity, &item.Price, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET customer_id = $1, total_amount = $2, paid_amount = $3, due_amount = $4, status = $5, notes = $6, date = $7, updated_at = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("order")
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// order_items and payments go with the order via ON DELETE CASCADE
	query := `DELETE FROM orders WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("order")
	}
	return nil
}

func (r *orderRepo) AddPayment(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	paymentQuery := `
		INSERT INTO payments (id, order_id, amount, method, notes, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	if _, err := tx.Exec(ctx, paymentQuery, payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Notes, payment.Date); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	// Aggregates fold into the stored row under its lock, so concurrent
	// payments serialize and never lose an update.
	orderQuery := `
		UPDATE orders
		SET paid_amount = paid_amount + $1,
		    due_amount = total_amount - paid_amount - $1,
		    status = CASE WHEN paid_amount + $1 >= total_amount THEN 'Paid' ELSE 'Partial' END,
		    updated_at = NOW()
		WHERE id = $2 AND status != 'Cancelled'
	`
	tag, err := tx.Exec(ctx, orderQuery, payment.Amount, payment.OrderID)
	if err != nil {
		return fmt.Errorf("update order aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewConflictError("Cannot add payment to a cancelled order")
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) CancelWithRestore(ctx context.Context, orderID uuid.UUID, items []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The guarded flip goes first and takes the row lock. The loser of a
	// concurrent cancel sees zero rows and stops before touching stock.
	statusQuery := `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status != $1 AND paid_amount = 0
	`
	tag, err := tx.Exec(ctx, statusQuery, models.StatusCancelled, orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewConflictError("Order is already cancelled or has payments")
	}

	// Exact inverse of the decrement at creation.
	stockQuery := `
		UPDATE sarees SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, stockQuery, item.Quantity, item.SareeID); err != nil {
			return fmt.Errorf("restore saree stock: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListOutstanding returns non-cancelled orders that still carry a due amount,
// largest dues first.
func (r *orderRepo) ListOutstanding(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE due_amount > 0 AND status != $1
		ORDER BY due_amount DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, models.StatusCancelled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.PaidAmount, &order.DueAmount, &order.Status, &order.Notes, &order.Date, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
