package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CustomAttributeRequest is a free-form name/value pair on a product
type CustomAttributeRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"required,min=1,max=255"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name                    string                   `json:"name" validate:"required,min=1,max=255"`
	Description             *string                  `json:"description,omitempty"`
	LongDescription         *string                  `json:"long_description,omitempty"`
	BasePrice               float64                  `json:"base_price" validate:"gte=0"`
	Currency                string                   `json:"currency" validate:"required,len=3"`
	WeightKg                *float64                 `json:"weight_kg,omitempty"`
	LengthCm                *float64                 `json:"length_cm,omitempty"`
	WidthCm                 *float64                 `json:"width_cm,omitempty"`
	HeightCm                *float64                 `json:"height_cm,omitempty"`
	BrandPublicID           uuid.UUID                `json:"brand_id" validate:"required"`
	PrimaryCategoryPublicID uuid.UUID                `json:"primary_category_id" validate:"required"`
	CategoryPublicIDs       []uuid.UUID              `json:"category_ids,omitempty"`
	CustomAttributes        []CustomAttributeRequest `json:"custom_attributes,omitempty"`
	Quantity                int                      `json:"quantity" validate:"gte=0"`
	LowStockThreshold       int                      `json:"low_stock_threshold" validate:"gte=0"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=255"`
	Description     *string  `json:"description,omitempty"`
	LongDescription *string  `json:"long_description,omitempty"`
	BasePrice       float64  `json:"base_price" validate:"gte=0"`
	Currency        string   `json:"currency" validate:"required,len=3"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	LengthCm        *float64 `json:"length_cm,omitempty"`
	WidthCm         *float64 `json:"width_cm,omitempty"`
	HeightCm        *float64 `json:"height_cm,omitempty"`
	IsActive        bool     `json:"is_active"`
	IsAvailable     bool     `json:"is_available"`
}

// UpdateInventoryRequest represents the request body for updating inventory
type UpdateInventoryRequest struct {
	Quantity          int `json:"quantity" validate:"gte=0"`
	LowStockThreshold int `json:"low_stock_threshold" validate:"gte=0"`
}

// AttachAttributeValuesRequest links predefined attribute values to a product
type AttachAttributeValuesRequest struct {
	ValueIDs []int64 `json:"value_ids" validate:"required,min=1"`
}

// Create handles POST /api/v1/products
// @Summary Create a new product
// @Description Create a product with brand, categories, custom attributes and initial inventory. The SKU is generated from the primary category and brand slugs.
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Brand or category not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customAttrs := make([]product.CustomAttributeInput, len(req.CustomAttributes))
	for i, attr := range req.CustomAttributes {
		customAttrs[i] = product.CustomAttributeInput{Name: attr.Name, Value: attr.Value}
	}

	created, err := h.service.Create(r.Context(), &product.CreateInput{
		Name:                    req.Name,
		Description:             req.Description,
		LongDescription:         req.LongDescription,
		BasePrice:               req.BasePrice,
		Currency:                req.Currency,
		WeightKg:                req.WeightKg,
		LengthCm:                req.LengthCm,
		WidthCm:                 req.WidthCm,
		HeightCm:                req.HeightCm,
		BrandPublicID:           req.BrandPublicID,
		PrimaryCategoryPublicID: req.PrimaryCategoryPublicID,
		CategoryPublicIDs:       req.CategoryPublicIDs,
		CustomAttributes:        customAttrs,
		Quantity:                req.Quantity,
		LowStockThreshold:       req.LowStockThreshold,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product by ID
// @Description Get a product including its current rating aggregate
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBySku handles GET /api/v1/products/sku/:sku
// @Summary Get a product by SKU
// @Description Look up a product by its stock keeping unit
// @Tags Products
// @Accept json
// @Produce json
// @Param sku path string true "Product SKU"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/sku/{sku} [get]
func (h *ProductHandler) GetBySku(w http.ResponseWriter, r *http.Request) {
	sku := request.GetStringParam(r, "sku")
	if sku == "" {
		response.Error(w, http.StatusBadRequest, "Missing SKU")
		return
	}

	result, err := h.service.GetBySku(r.Context(), sku)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /api/v1/products
// @Summary List all products
// @Description Get a paginated list of products
// @Tags Products
// @Accept json
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	products, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// Update handles PUT /api/v1/products/:id
// @Summary Update a product
// @Description Update product details. The SKU is immutable and cannot be changed.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body UpdateProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Conflict - product was modified"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Version, SKU and relations come from the stored row; only the
	// mutable fields are taken from the request
	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.LongDescription = req.LongDescription
	existing.BasePrice = req.BasePrice
	existing.Currency = req.Currency
	existing.WeightKg = req.WeightKg
	existing.LengthCm = req.LengthCm
	existing.WidthCm = req.WidthCm
	existing.HeightCm = req.HeightCm
	existing.IsActive = req.IsActive
	existing.IsAvailable = req.IsAvailable

	if err := h.service.Update(r.Context(), existing); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, existing)
}

// Delete handles DELETE /api/v1/products/:id
// @Summary Delete a product
// @Description Soft delete a product and remove it from the search index
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 204 "Product deleted successfully"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateInventory handles PUT /api/v1/products/:id/inventory
// @Summary Update product inventory
// @Description Replace the inventory snapshot for a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param inventory body UpdateInventoryRequest true "Inventory details"
// @Success 200 {object} map[string]interface{} "Inventory updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/inventory [put]
func (h *ProductHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateInventoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inventory, err := h.service.UpdateInventory(r.Context(), id, req.Quantity, req.LowStockThreshold)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, inventory)
}

// AttachAttributeValues handles POST /api/v1/products/:id/attributes
// @Summary Attach attribute values to a product
// @Description Link predefined attribute values (e.g. Color: Black) to a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param values body AttachAttributeValuesRequest true "Attribute value IDs"
// @Success 204 "Attribute values attached"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/attributes [post]
func (h *ProductHandler) AttachAttributeValues(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req AttachAttributeValuesRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AttachAttributeValues(r.Context(), id, req.ValueIDs); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Conflict - product was modified by another request")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
