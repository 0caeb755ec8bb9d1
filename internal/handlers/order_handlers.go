package handlers

import (
	"net/http"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders, including the payment and
// cancellation actions that drive the order lifecycle.
type OrderHandlers struct {
	orderService services.OrderService
	pageSize     int
	maxPageSize  int
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService, pageSize, maxPageSize int) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		pageSize:     pageSize,
		maxPageSize:  maxPageSize,
	}
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.OrderSearchFilter{
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}
	if customerParam := c.QueryParam("customer"); customerParam != "" {
		customerID, err := common.ValidateUUID(customerParam, "customer")
		if err != nil {
			return common.RespondError(c, err)
		}
		filter.CustomerID = &customerID
	}
	if dateFrom := c.QueryParam("date_from"); dateFrom != "" {
		parsed, err := common.ValidateDateFormat(dateFrom, "date_from")
		if err != nil {
			return common.RespondError(c, err)
		}
		filter.DateFrom = &parsed
	}
	if dateTo := c.QueryParam("date_to"); dateTo != "" {
		parsed, err := common.ValidateDateFormat(dateTo, "date_to")
		if err != nil {
			return common.RespondError(c, err)
		}
		filter.DateTo = &parsed
	}

	limit, offset := parsePagination(c, h.pageSize, h.maxPageSize)
	filter.Limit = limit
	filter.Offset = offset

	orders, err := h.orderService.ListOrders(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Customer    string  `json:"customer"`
		TotalAmount float64 `json:"total_amount"`
		PaidAmount  float64 `json:"paid_amount"`
		Status      string  `json:"status"`
		Notes       *string `json:"notes"`
		Date        string  `json:"date"`
		Items       []struct {
			Saree    string  `json:"saree"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"items"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customerID, err := common.ValidateUUID(req.Customer, "customer")
	if err != nil {
		return common.RespondError(c, err)
	}

	input := &services.CreateOrderInput{
		CustomerID:  customerID,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		parsed, err := common.ValidateDateFormat(req.Date, "date")
		if err != nil {
			return common.RespondError(c, err)
		}
		input.Date = &parsed
	}
	for _, item := range req.Items {
		sareeID, err := common.ValidateUUID(item.Saree, "items.saree")
		if err != nil {
			return common.RespondError(c, err)
		}
		input.Items = append(input.Items, services.OrderItemInput{
			SareeID:  sareeID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	detail, err := h.orderService.CreateOrder(ctx, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, detail)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	detail, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// UpdateOrder handles PUT /orders/:id
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Customer    string  `json:"customer"`
		TotalAmount float64 `json:"total_amount"`
		PaidAmount  float64 `json:"paid_amount"`
		Notes       *string `json:"notes"`
		Date        string  `json:"date"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customerID, err := common.ValidateUUID(req.Customer, "customer")
	if err != nil {
		return common.RespondError(c, err)
	}

	order := &models.Order{
		ID:          id,
		CustomerID:  customerID,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		parsed, err := common.ValidateDateFormat(req.Date, "date")
		if err != nil {
			return common.RespondError(c, err)
		}
		order.Date = parsed
	}

	if err := h.orderService.UpdateOrder(ctx, order); err != nil {
		return common.RespondError(c, err)
	}

	detail, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// PatchOrder handles PATCH /orders/:id
func (h *OrderHandlers) PatchOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Customer    *string  `json:"customer"`
		TotalAmount *float64 `json:"total_amount"`
		PaidAmount  *float64 `json:"paid_amount"`
		Notes       *string  `json:"notes"`
		Date        *string  `json:"date"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	detail, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	order := detail.Order
	if req.Customer != nil {
		customerID, err := common.ValidateUUID(*req.Customer, "customer")
		if err != nil {
			return common.RespondError(c, err)
		}
		order.CustomerID = customerID
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if req.PaidAmount != nil {
		order.PaidAmount = *req.PaidAmount
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	if req.Date != nil {
		parsed, err := common.ValidateDateFormat(*req.Date, "date")
		if err != nil {
			return common.RespondError(c, err)
		}
		order.Date = parsed
	}

	if err := h.orderService.UpdateOrder(ctx, &order); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.orderService.DeleteOrder(ctx, id); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Order deleted successfully",
	})
}

// AddPayment handles POST /orders/:id/add_payment
func (h *OrderHandlers) AddPayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
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

	if req.Method == "" {
		req.Method = models.PaymentMethodCash
	}

	payment, err := h.orderService.AddPayment(ctx, id, req.Amount, req.Method, req.Notes)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, payment)
}

// CancelOrder handles POST /orders/:id/cancel_order
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.orderService.CancelOrder(ctx, id); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Order cancelled successfully",
		"order_id": id,
	})
}
