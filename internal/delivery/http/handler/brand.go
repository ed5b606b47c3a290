package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/brand"
)

// BrandHandler handles HTTP requests for brands
type BrandHandler struct {
	service *brand.Service
	logger  *logger.Logger
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(service *brand.Service, log *logger.Logger) *BrandHandler {
	return &BrandHandler{
		service: service,
		logger:  log,
	}
}

// CreateBrandRequest represents the request body for creating a brand
type CreateBrandRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	IsActive bool   `json:"is_active"`
}

// Create handles POST /api/v1/brands
// @Summary Create a new brand
// @Description Create a brand. The URL slug is derived from the name.
// @Tags Brands
// @Accept json
// @Produce json
// @Param brand body CreateBrandRequest true "Brand details"
// @Success 201 {object} map[string]interface{} "Brand created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Brand slug already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /brands [post]
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), req.Name, req.IsActive)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/brands/:id
// @Summary Get a brand
// @Description Get a brand by its public UUID
// @Tags Brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID (UUID)"
// @Success 200 {object} map[string]interface{} "Brand details"
// @Failure 400 {object} map[string]string "Invalid brand ID"
// @Failure 404 {object} map[string]string "Brand not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /brands/{id} [get]
func (h *BrandHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	result, err := h.service.GetByPublicID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /api/v1/brands
// @Summary List all brands
// @Description Get a paginated list of brands
// @Tags Brands
// @Accept json
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of brands"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /brands [get]
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	brands, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, brands, total, limit, offset)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *BrandHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Brand not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Brand already exists")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in brand handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
