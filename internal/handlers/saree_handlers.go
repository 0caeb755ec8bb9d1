package handlers

import (
	"net/http"
	"strconv"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/services"

	"github.com/labstack/echo/v4"
)

// SareeHandlers handles HTTP requests for sarees
type SareeHandlers struct {
	sareeService services.SareeService
	pageSize     int
	maxPageSize  int
}

// NewSareeHandlers creates a new saree handlers instance
func NewSareeHandlers(sareeService services.SareeService, pageSize, maxPageSize int) *SareeHandlers {
	return &SareeHandlers{
		sareeService: sareeService,
		pageSize:     pageSize,
		maxPageSize:  maxPageSize,
	}
}

// ListSarees handles GET /sarees
func (h *SareeHandlers) ListSarees(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.SareeSearchFilter{
		Query:     c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}

	limit, offset := parsePagination(c, h.pageSize, h.maxPageSize)
	filter.Limit = limit
	filter.Offset = offset

	sarees, err := h.sareeService.Search(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sarees": sarees,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateSaree handles POST /sarees
func (h *SareeHandlers) CreateSaree(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Notes       *string `json:"notes"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	saree := &models.Saree{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Notes:       req.Notes,
		Description: req.Description,
		Image:       req.Image,
	}

	if err := h.sareeService.Create(ctx, saree); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, saree)
}

// GetSaree handles GET /sarees/:id
func (h *SareeHandlers) GetSaree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	saree, err := h.sareeService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, saree)
}

// UpdateSaree handles PUT /sarees/:id
func (h *SareeHandlers) UpdateSaree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Notes       *string `json:"notes"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	saree := &models.Saree{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Notes:       req.Notes,
		Description: req.Description,
		Image:       req.Image,
	}

	if err := h.sareeService.Update(ctx, saree); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, saree)
}

// PatchSaree handles PATCH /sarees/:id
func (h *SareeHandlers) PatchSaree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
		Notes       *string  `json:"notes"`
		Description *string  `json:"description"`
		Image       *string  `json:"image"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	saree, err := h.sareeService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.Name != nil {
		saree.Name = *req.Name
	}
	if req.Category != nil {
		saree.Category = *req.Category
	}
	if req.Price != nil {
		saree.Price = *req.Price
	}
	if req.Stock != nil {
		saree.Stock = *req.Stock
	}
	if req.Notes != nil {
		saree.Notes = req.Notes
	}
	if req.Description != nil {
		saree.Description = req.Description
	}
	if req.Image != nil {
		saree.Image = req.Image
	}

	if err := h.sareeService.Update(ctx, saree); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, saree)
}

// DeleteSaree handles DELETE /sarees/:id
func (h *SareeHandlers) DeleteSaree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.sareeService.Delete(ctx, id); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Saree deleted successfully",
	})
}

// UploadSareeImage handles POST /sarees/:id/image
func (h *SareeHandlers) UploadSareeImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded image")
	}
	defer src.Close()

	objectName, err := h.sareeService.UploadImage(ctx, id, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"image": objectName,
	})
}

// GetSareeImage handles GET /sarees/:id/image
func (h *SareeHandlers) GetSareeImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "saree_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	url, err := h.sareeService.ImageURL(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}

// parsePagination reads limit/offset query params with configured bounds
func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int) {
	limit := 0
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil {
			offset = o
		}
	}
	return common.ValidatePaginationParams(limit, offset, defaultLimit, maxLimit)
}
