package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"sareemart/internal/common"
	"sareemart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       OrderRepository
	orderID    uuid.UUID
	customerID uuid.UUID
	sareeID    uuid.UUID
	context    context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.customerID = uuid.New()
	suite.sareeID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) sampleOrder() (*models.Order, []*models.OrderItem) {
	order := &models.Order{
		ID:          suite.orderID,
		CustomerID:  suite.customerID,
		TotalAmount: 12500,
		PaidAmount:  0,
		DueAmount:   12500,
		Status:      models.StatusPending,
		Date:        time.Now(),
	}
	items := []*models.OrderItem{
		{ID: uuid.New(), OrderID: suite.orderID, SareeID: suite.sareeID, Quantity: 2, Price: 6250},
	}
	return order, items
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_Success() {
	order, items := suite.sampleOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(items[0].ID, items[0].OrderID, items[0].SareeID, items[0].Quantity, items[0].Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE sarees SET stock = stock - \$1`).
		WithArgs(items[0].Quantity, items[0].SareeID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback() // deferred rollback after commit is a no-op

	err := suite.repo.CreateWithItems(suite.context, order, items)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_InsufficientStockRollsBack() {
	order, items := suite.sampleOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(items[0].ID, items[0].OrderID, items[0].SareeID, items[0].Quantity, items[0].Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// Guarded decrement matches no row when stock < quantity
	suite.mock.ExpectExec(`UPDATE sarees SET stock = stock - \$1`).
		WithArgs(items[0].Quantity, items[0].SareeID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithItems(suite.context, order, items)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsValidation(err))
	assert.Contains(suite.T(), err.Error(), "insufficient stock")
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_InsertFailureRollsBack() {
	order, items := suite.sampleOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithItems(suite.context, order, items)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert order")
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *OrderRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_id", "total_amount", "paid_amount", "due_amount", "status", "notes", "date", "created_at", "updated_at"}).
		AddRow(suite.orderID, suite.customerID, 12500.0, 5000.0, 7500.0, models.StatusPartial, (*string)(nil), now, now, now)
	suite.mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
		WithArgs(suite.orderID).
		WillReturnRows(rows)

	order, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPartial, order.Status)
	assert.Equal(suite.T(), 7500.0, order.DueAmount)
}

func (suite *OrderRepoTestSuite) TestAddPayment_Success() {
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: suite.orderID,
		Amount:  5000,
		Method:  models.PaymentMethodCash,
		Date:    time.Now(),
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Notes, payment.Date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE orders\s+SET paid_amount = paid_amount \+ \$1`).
		WithArgs(payment.Amount, payment.OrderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.AddPayment(suite.context, payment)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestAddPayment_CancelledOrderConflictRollsBack() {
	payment := &models.Payment{ID: uuid.New(), OrderID: suite.orderID, Amount: 100, Method: models.PaymentMethodUPI, Date: time.Now()}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Notes, payment.Date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE orders\s+SET paid_amount = paid_amount \+ \$1`).
		WithArgs(payment.Amount, payment.OrderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.AddPayment(suite.context, payment)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsConflict(err))
}

func (suite *OrderRepoTestSuite) TestAddPayment_InsertFailureRollsBack() {
	payment := &models.Payment{ID: uuid.New(), OrderID: suite.orderID, Amount: 100, Method: models.PaymentMethodCash, Date: time.Now()}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Notes, payment.Date).
		WillReturnError(errors.New("constraint violation"))
	suite.mock.ExpectRollback()

	err := suite.repo.AddPayment(suite.context, payment)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert payment")
}

func (suite *OrderRepoTestSuite) TestCancelWithRestore_Success() {
	order, items := suite.sampleOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND status != \$1 AND paid_amount = 0`).
		WithArgs(models.StatusCancelled, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE sarees SET stock = stock \+ \$1`).
		WithArgs(items[0].Quantity, items[0].SareeID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.CancelWithRestore(suite.context, order.ID, items)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestCancelWithRestore_AlreadyCancelledConflict() {
	order, items := suite.sampleOrder()

	// A concurrent cancel got the row first; no stock restore may run.
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND status != \$1 AND paid_amount = 0`).
		WithArgs(models.StatusCancelled, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.CancelWithRestore(suite.context, order.ID, items)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsConflict(err))
}

func (suite *OrderRepoTestSuite) TestUpdate_NotFound() {
	order, _ := suite.sampleOrder()

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(order.CustomerID, order.TotalAmount, order.PaidAmount, order.DueAmount, order.Status, order.Notes, order.Date, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, order)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *OrderRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs(suite.orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestListOutstanding_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_id", "total_amount", "paid_amount", "due_amount", "status", "notes", "date", "created_at", "updated_at"}).
		AddRow(suite.orderID, suite.customerID, 12500.0, 5000.0, 7500.0, models.StatusPartial, (*string)(nil), now, now, now)
	suite.mock.ExpectQuery(`FROM orders`).
		WithArgs(models.StatusCancelled, 100).
		WillReturnRows(rows)

	orders, err := suite.repo.ListOutstanding(suite.context, 100)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), 7500.0, orders[0].DueAmount)
}
