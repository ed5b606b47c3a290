package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/feedback"
)

// FeedbackHandler handles HTTP requests for product feedback
type FeedbackHandler struct {
	service *feedback.Service
	logger  *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service *feedback.Service, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  log,
	}
}

// CreateFeedbackRequest represents the request body for submitting feedback
type CreateFeedbackRequest struct {
	ProductID  string  `json:"product_id" validate:"required"`
	UserID     string  `json:"user_id" validate:"required"`
	Estimation int     `json:"estimation" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment,omitempty"`
}

// Create handles POST /api/v1/feedback
// @Summary Submit feedback for a product
// @Description Record a user's 1-5 grade for a product. Each user may submit feedback for a product once; the product's average rating is updated incrementally.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param feedback body CreateFeedbackRequest true "Feedback details"
// @Success 201 {object} map[string]interface{} "Feedback created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Feedback already submitted by this user"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /feedback [post]
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	productPublicID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	userPublicID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	created, err := h.service.Create(r.Context(), &feedback.CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    userPublicID,
		Estimation:      req.Estimation,
		Comment:         req.Comment,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/feedback/:id
// @Summary Get a feedback entry
// @Description Get a single feedback entry by its public UUID
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID (UUID)"
// @Success 200 {object} map[string]interface{} "Feedback details"
// @Failure 400 {object} map[string]string "Invalid feedback ID"
// @Failure 404 {object} map[string]string "Feedback not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /feedback/{id} [get]
func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	result, err := h.service.GetByPublicID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByProductID handles GET /api/v1/products/:id/feedback
// @Summary List feedback for a product
// @Description Get a paginated list of feedback entries for a product
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of feedback"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/feedback [get]
func (h *FeedbackHandler) GetByProductID(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	limit, offset := request.GetPaginationParams(r)

	entries, total, err := h.service.ListByProduct(r.Context(), productID, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, entries, total, limit, offset)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *FeedbackHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Feedback already submitted for this product")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in feedback handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
