package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/category"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	service *category.Service
	logger  *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service *category.Service, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  log,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Create handles POST /api/v1/categories
// @Summary Create a new category
// @Description Create a category, optionally under a parent. The URL slug is derived from the name.
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body CreateCategoryRequest true "Category details"
// @Success 201 {object} map[string]interface{} "Category created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Parent category not found"
// @Failure 409 {object} map[string]string "Category slug already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var parentPublicID *uuid.UUID
	if req.ParentID != nil {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid parent category ID")
			return
		}
		parentPublicID = &parsed
	}

	created, err := h.service.Create(r.Context(), req.Name, parentPublicID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/categories/:id
// @Summary Get a category
// @Description Get a category by its public UUID
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} map[string]interface{} "Category details"
// @Failure 400 {object} map[string]string "Invalid category ID"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	result, err := h.service.GetByPublicID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /api/v1/categories
// @Summary List all categories
// @Description Get a paginated list of categories
// @Tags Categories
// @Accept json
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of categories"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	categories, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, categories, total, limit, offset)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *CategoryHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Category already exists")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in category handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
