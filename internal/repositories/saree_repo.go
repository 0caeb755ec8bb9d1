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

type SareeRepository interface {
	Create(ctx context.Context, saree *models.Saree) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Saree, error)
	Update(ctx context.Context, saree *models.Saree) error
	UpdateImage(ctx context.Context, id uuid.UUID, image *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Saree, error)
	AdvancedSearch(ctx context.Context, filter *models.SareeSearchFilter) ([]*models.Saree, error)
	ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Saree, error)
}

type sareeRepo struct {
	db Database
}

func NewSareeRepo(db Database) SareeRepository {
	return &sareeRepo{db: db}
}

const sareeColumns = `id, name, category, price, stock, notes, description, image, created_at, updated_at`

func scanSaree(row pgx.Row) (*models.Saree, error) {
	saree := &models.Saree{}
	err := row.Scan(&saree.ID, &saree.Name, &saree.Category, &saree.Price, &saree.Stock, &saree.Notes, &saree.Description, &saree.Image, &saree.CreatedAt, &saree.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return saree, nil
}

func (r *sareeRepo) Create(ctx context.Context, saree *models.Saree) error {
	query := `
		INSERT INTO sarees (id, name, category, price, stock, notes, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, saree.ID, saree.Name, saree.Category, saree.Price, saree.Stock, saree.Notes, saree.Description, saree.Image)
	return err
}

func (r *sareeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Saree, error) {
	query := `SELECT ` + sareeColumns + ` FROM sarees WHERE id = $1`
	saree, err := scanSaree(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("saree")
		}
		return nil, err
	}
	return saree, nil
}

func (r *sareeRepo) Update(ctx context.Context, saree *models.Saree) error {
	query := `
		UPDATE sarees
		SET name = $1, category = $2, price = $3, stock = $4, notes = $5, description = $6, image = $7, updated_at = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, saree.Name, saree.Category, saree.Price, saree.Stock, saree.Notes, saree.Description, saree.Image, saree.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("saree")
	}
	return nil
}

func (r *sareeRepo) UpdateImage(ctx context.Context, id uuid.UUID, image *string) error {
	query := `UPDATE sarees SET image = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, image, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("saree")
	}
	return nil
}

func (r *sareeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sarees WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("saree")
	}
	return nil
}

func (r *sareeRepo) List(ctx context.Context, limit, offset int) ([]*models.Saree, error) {
	query := `
		SELECT ` + sareeColumns + `
		FROM sarees
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sarees []*models.Saree
	for rows.Next() {
		saree := &models.Saree{}
		if err := rows.Scan(&saree.ID, &saree.Name, &saree.Category, &saree.Price, &saree.Stock, &saree.Notes, &saree.Description, &saree.Image, &saree.CreatedAt, &saree.UpdatedAt); err != nil {
			return nil, err
		}
		sarees = append(sarees, saree)
	}
	return sarees, rows.Err()
}

// AdvancedSearch performs filtered search on sarees with whitelisted ordering
func (r *sareeRepo) AdvancedSearch(ctx context.Context, filter *models.SareeSearchFilter) ([]*models.Saree, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	queryBase := `SELECT ` + sareeColumns + ` FROM sarees WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR category ILIKE $%d OR COALESCE(notes, '') ILIKE $%d)`, conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}

	if filter.Category != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}

	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}

	if filter.MinStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND stock >= $%d`, conditionCount)
		args = append(args, *filter.MinStock)
	}
	if filter.MaxStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND stock <= $%d`, conditionCount)
		args = append(args, *filter.MaxStock)
	}

	validSortFields := map[string]bool{
		"name": true, "price": true, "stock": true, "created_at": true,
	}
	sortField := "created_at"
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

	var sarees []*models.Saree
	for rows.Next() {
		saree := &models.Saree{}
		if err := rows.Scan(&saree.ID, &saree.Name, &saree.Category, &saree.Price, &saree.Stock, &saree.Notes, &saree.Description, &saree.Image, &saree.CreatedAt, &saree.UpdatedAt); err != nil {
			return nil, err
		}
		sarees = append(sarees, saree)
	}
	return sarees, rows.Err()
}

// ListLowStock returns sarees at or below the given stock threshold, lowest first
func (r *sareeRepo) ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Saree, error) {
	query := `
		SELECT ` + sareeColumns + `
		FROM sarees
		WHERE stock <= $1
		ORDER BY stock ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sarees []*models.Saree
	for rows.Next() {
		saree := &models.Saree{}
		if err := rows.Scan(&saree.ID, &saree.Name, &saree.Category, &saree.Price, &saree.Stock, &saree.Notes, &saree.Description, &saree.Image, &saree.CreatedAt, &saree.UpdatedAt); err != nil {
			return nil, err
		}
		sarees = append(sarees, saree)
	}
	return sarees, rows.Err()
}
