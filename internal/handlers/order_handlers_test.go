package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, input *services.CreateOrderInput) (*models.OrderDetail, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderDetail), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderDetail), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.OrderDetail, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.OrderDetail), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) AddPayment(ctx context.Context, orderID uuid.UUID, amount float64, method string, notes *string) (*models.Payment, error) {
	args := m.Called(ctx, orderID, amount, method, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func newOrderTestContext(t *testing.T, method, body string, orderID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())
	return c, rec
}

func TestAddPayment_Created(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: orderID,
		Amount:  5000,
		Method:  models.PaymentMethodUPI,
	}
	mockSvc.On("AddPayment", mock.Anything, orderID, 5000.0, models.PaymentMethodUPI, (*string)(nil)).
		Return(payment, nil).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, `{"amount": 5000, "method": "UPI"}`, orderID)

	err := h.AddPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got models.Payment
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, payment.ID, got.ID)
	assert.Equal(t, 5000.0, got.Amount)
	mockSvc.AssertExpectations(t)
}

func TestAddPayment_DefaultsToCash(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	mockSvc.On("AddPayment", mock.Anything, orderID, 100.0, models.PaymentMethodCash, (*string)(nil)).
		Return(&models.Payment{ID: uuid.New()}, nil).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, `{"amount": 100}`, orderID)

	err := h.AddPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestAddPayment_ValidationErrorIs400(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	mockSvc.On("AddPayment", mock.Anything, orderID, 0.0, models.PaymentMethodCash, (*string)(nil)).
		Return(nil, common.NewValidationError("amount", "amount must be positive")).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, `{"amount": 0}`, orderID)

	err := h.AddPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	mockSvc.AssertExpectations(t)
}

func TestAddPayment_InvalidOrderID(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 100}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.AddPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockSvc.AssertNotCalled(t, "AddPayment")
}

func TestCancelOrder_Success(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	mockSvc.On("CancelOrder", mock.Anything, orderID).Return(nil).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, "", orderID)

	err := h.CancelOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order cancelled successfully")
	mockSvc.AssertExpectations(t)
}

func TestCancelOrder_ConflictIs400(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	mockSvc.On("CancelOrder", mock.Anything, orderID).
		Return(common.NewConflictError("Order is already cancelled")).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, "", orderID)

	err := h.CancelOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already cancelled")
	mockSvc.AssertExpectations(t)
}

func TestCancelOrder_NotFoundIs404(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	orderID := uuid.New()

	mockSvc.On("CancelOrder", mock.Anything, orderID).
		Return(common.NewNotFoundError("order")).Once()

	c, rec := newOrderTestContext(t, http.MethodPost, "", orderID)

	err := h.CancelOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestCreateOrder_Created(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	customerID := uuid.New()
	sareeID := uuid.New()

	mockSvc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(input *services.CreateOrderInput) bool {
		return input.CustomerID == customerID &&
			input.TotalAmount == 12500 &&
			len(input.Items) == 1 &&
			input.Items[0].SareeID == sareeID
	})).Return(&models.OrderDetail{CustomerName: "Priya Sharma"}, nil).Once()

	body := `{"customer": "` + customerID.String() + `", "total_amount": 12500, "items": [{"saree": "` + sareeID.String() + `", "quantity": 1, "price": 12500}]}`

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Priya Sharma")
	mockSvc.AssertExpectations(t)
}

func TestListOrders_ForwardsFilters(t *testing.T) {
	mockSvc := &MockOrderService{}
	h := NewOrderHandlers(mockSvc, 50, 500)
	customerID := uuid.New()

	mockSvc.On("ListOrders", mock.Anything, mock.MatchedBy(func(filter *models.OrderSearchFilter) bool {
		return filter.Status != nil && *filter.Status == "Partial" &&
			filter.CustomerID != nil && *filter.CustomerID == customerID &&
			filter.Limit == 10
	})).Return([]*models.OrderDetail{}, nil).Once()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/orders?status=Partial&customer="+customerID.String()+"&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListOrders(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}
