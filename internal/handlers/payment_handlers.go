package handlers

import (
	"net/http"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles HTTP requests for payments
type PaymentHandlers struct {
	paymentService services.PaymentService
	pageSize       int
	maxPageSize    int
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentService, pageSize, maxPageSize int) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		pageSize:       pageSize,
		maxPageSize:    maxPageSize,
	}
}

// ListPayments handles GET /payments
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.PaymentSearchFilter{
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if method := c.QueryParam("method"); method != "" {
		filter.Method = &method
	}
	if orderParam := c.QueryParam("order"); orderParam != "" {
		orderID, err := common.ValidateUUID(orderParam, "order")
		if err != nil {
			return common.RespondError(c, err)
		}
		filter.OrderID = &orderID
	}

	limit, offset := parsePagination(c, h.pageSize, h.maxPageSize)
	filter.Limit = limit
	filter.Offset = offset

	payments, err := h.paymentService.Search(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreatePayment handles POST /payments. It runs the same order aggregation
// path as POST /orders/:id/add_payment so paid/due amounts never drift.
func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Order  string  `json:"order"`
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
		Notes  *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	orderID, err := common.ValidateUUID(req.Order, "order")
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.Method == "" {
		req.Method = models.PaymentMethodCash
	}

	payment, err := h.paymentService.Create(ctx, orderID, req.Amount, req.Method, req.Notes)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}

// UpdatePayment handles PUT /payments/:id
func (h *PaymentHandlers) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
		Notes  *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	payment := &models.Payment{
		ID:     id,
		Amount: req.Amount,
		Method: req.Method,
		Notes:  req.Notes,
	}

	if err := h.paymentService.Update(ctx, payment); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}

// PatchPayment handles PATCH /payments/:id
func (h *PaymentHandlers) PatchPayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Amount *float64 `json:"amount"`
		Method *string  `json:"method"`
		Notes  *string  `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.Method != nil {
		payment.Method = *req.Method
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}

	if err := h.paymentService.Update(ctx, payment); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}

// DeletePayment handles DELETE /payments/:id
func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.paymentService.Delete(ctx, id); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Payment deleted successfully",
	})
}
