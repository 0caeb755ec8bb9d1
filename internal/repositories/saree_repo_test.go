package repositories

import (
	"context"
	"testing"
	"time"

	"sareemart/internal/common"
	"sareemart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SareeRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    SareeRepository
	sareeID uuid.UUID
	context context.Context
}

func (suite *SareeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSareeRepo(mock)
	suite.sareeID = uuid.New()
	suite.context = context.Background()
}

func (suite *SareeRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSareeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SareeRepoTestSuite))
}

func sareeRows(sarees ...*models.Saree) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "stock", "notes", "description", "image", "created_at", "updated_at"})
	for _, s := range sarees {
		rows.AddRow(s.ID, s.Name, s.Category, s.Price, s.Stock, s.Notes, s.Description, s.Image, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func (suite *SareeRepoTestSuite) sampleSaree() *models.Saree {
	now := time.Now()
	return &models.Saree{
		ID:        suite.sareeID,
		Name:      "Banarasi Silk Saree",
		Category:  "Silk",
		Price:     12500,
		Stock:     3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (suite *SareeRepoTestSuite) TestCreate_Success() {
	saree := suite.sampleSaree()

	suite.mock.ExpectExec(`INSERT INTO sarees`).
		WithArgs(saree.ID, saree.Name, saree.Category, saree.Price, saree.Stock, saree.Notes, saree.Description, saree.Image).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, saree)
	assert.NoError(suite.T(), err)
}

func (suite *SareeRepoTestSuite) TestGetByID_Success() {
	saree := suite.sampleSaree()

	suite.mock.ExpectQuery(`SELECT .* FROM sarees WHERE id = \$1`).
		WithArgs(suite.sareeID).
		WillReturnRows(sareeRows(saree))

	got, err := suite.repo.GetByID(suite.context, suite.sareeID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Banarasi Silk Saree", got.Name)
	assert.Equal(suite.T(), 3, got.Stock)
}

func (suite *SareeRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .* FROM sarees WHERE id = \$1`).
		WithArgs(suite.sareeID).
		WillReturnRows(sareeRows())

	_, err := suite.repo.GetByID(suite.context, suite.sareeID)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *SareeRepoTestSuite) TestUpdate_NotFound() {
	saree := suite.sampleSaree()

	suite.mock.ExpectExec(`UPDATE sarees`).
		WithArgs(saree.Name, saree.Category, saree.Price, saree.Stock, saree.Notes, saree.Description, saree.Image, saree.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, saree)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *SareeRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM sarees WHERE id = \$1`).
		WithArgs(suite.sareeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.sareeID)
	assert.NoError(suite.T(), err)
}

func (suite *SareeRepoTestSuite) TestAdvancedSearch_QueryAndCategory() {
	saree := suite.sampleSaree()
	category := "Silk"
	filter := &models.SareeSearchFilter{
		Query:    "Banarasi",
		Category: &category,
	}

	suite.mock.ExpectQuery(`SELECT .* FROM sarees WHERE 1=1 AND \(name ILIKE \$1 OR category ILIKE \$1 OR COALESCE\(notes, ''\) ILIKE \$1\) AND category = \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs("%Banarasi%", "Silk", 50).
		WillReturnRows(sareeRows(saree))

	sarees, err := suite.repo.AdvancedSearch(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sarees, 1)
}

func (suite *SareeRepoTestSuite) TestAdvancedSearch_PriceRangeAndSort() {
	saree := suite.sampleSaree()
	minPrice := 1000.0
	maxPrice := 20000.0
	filter := &models.SareeSearchFilter{
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		SortBy:    "price",
		SortOrder: "asc",
		Limit:     10,
		Offset:    20,
	}

	suite.mock.ExpectQuery(`SELECT .* FROM sarees WHERE 1=1 AND price >= \$1 AND price <= \$2 ORDER BY price ASC LIMIT \$3 OFFSET \$4`).
		WithArgs(minPrice, maxPrice, 10, 20).
		WillReturnRows(sareeRows(saree))

	sarees, err := suite.repo.AdvancedSearch(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sarees, 1)
}

func (suite *SareeRepoTestSuite) TestAdvancedSearch_RejectsUnknownSortField() {
	filter := &models.SareeSearchFilter{
		SortBy: "price; DROP TABLE sarees",
	}

	// Falls back to the whitelisted default
	suite.mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(50).
		WillReturnRows(sareeRows())

	_, err := suite.repo.AdvancedSearch(suite.context, filter)
	assert.NoError(suite.T(), err)
}

func (suite *SareeRepoTestSuite) TestListLowStock_Success() {
	saree := suite.sampleSaree()
	saree.Stock = 2

	suite.mock.ExpectQuery(`WHERE stock <= \$1`).
		WithArgs(5, 100).
		WillReturnRows(sareeRows(saree))

	sarees, err := suite.repo.ListLowStock(suite.context, 5, 100)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sarees, 1)
	assert.Equal(suite.T(), 2, sarees[0].Stock)
}

func (suite *SareeRepoTestSuite) TestUpdateImage_Success() {
	image := "sarees/" + suite.sareeID.String()

	suite.mock.ExpectExec(`UPDATE sarees SET image = \$1`).
		WithArgs(&image, suite.sareeID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateImage(suite.context, suite.sareeID, &image)
	assert.NoError(suite.T(), err)
}
