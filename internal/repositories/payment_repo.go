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

// PaymentRepository covers reads and maintenance of payment records. New
// payments are written exclusively through OrderRepository.AddPayment so the
// parent order's aggregates can never drift from the payment rows.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	AdvancedSearch(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error)
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, order_id, amount, method, notes, date, created_at`

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method, &payment.Notes, &payment.Date, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("payment")
		}
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET amount = $1, method = $2, notes = $3, date = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, payment.Amount, payment.Method, payment.Notes, payment.Date, payment.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("payment")
	}
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("payment")
	}
	return nil
}

func (r *paymentRepo) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method, &payment.Notes, &payment.Date, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// AdvancedSearch performs filtered search on payments with whitelisted ordering
func (r *paymentRepo) AdvancedSearch(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	queryBase := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if filter.Method != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND method = $%d`, conditionCount)
		args = append(args, *filter.Method)
	}
	if filter.OrderID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND order_id = $%d`, conditionCount)
		args = append(args, *filter.OrderID)
	}

	validSortFields := map[string]bool{
		"date": true, "amount": true,
	}
	sortField := "date"
	if validSortFields[filter.SortBy] {
		sortField = filter.SortBy
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

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method, &payment.Notes, &payment.Date, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
