package handlers

import (
	"net/http"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/services"

	"github.com/labstack/echo/v4"
)

// CustomerHandlers handles HTTP requests for customers
type CustomerHandlers struct {
	customerService services.CustomerService
	pageSize        int
	maxPageSize     int
}

// NewCustomerHandlers creates a new customer handlers instance
func NewCustomerHandlers(customerService services.CustomerService, pageSize, maxPageSize int) *CustomerHandlers {
	return &CustomerHandlers{
		customerService: customerService,
		pageSize:        pageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.CustomerSearchFilter{
		Query:     c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	limit, offset := parsePagination(c, h.pageSize, h.maxPageSize)
	filter.Limit = limit
	filter.Offset = offset

	customers, err := h.customerService.Search(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name    string  `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Notes   *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := h.customerService.Create(ctx, customer); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	customer, err := h.customerService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name    string  `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Notes   *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer := &models.Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := h.customerService.Update(ctx, customer); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// PatchCustomer handles PATCH /customers/:id
func (h *CustomerHandlers) PatchCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Notes   *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer, err := h.customerService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := h.customerService.Update(ctx, customer); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.customerService.Delete(ctx, id); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Customer deleted successfully",
	})
}
