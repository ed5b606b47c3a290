package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/feedback"
)

// MockFeedbackRepository is a mock implementation of domain.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Feedback, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ExistsByProductAndUser(ctx context.Context, productID int64, userPublicID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID, userPublicID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedbackRepository) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

// MockFeedbackCache is a mock implementation of the feedback service cache
type MockFeedbackCache struct {
	mock.Mock
}

func (m *MockFeedbackCache) GetFeedbackList(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackCache) SetFeedbackList(ctx context.Context, productID int64, limit, offset int, entries []*domain.Feedback) error {
	args := m.Called(ctx, productID, limit, offset, entries)
	return args.Error(0)
}

func (m *MockFeedbackCache) InvalidateAllProductCache(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type feedbackMocks struct {
	repo      *MockFeedbackRepository
	products  *MockProductRepository
	cache     *MockFeedbackCache
	publisher *MockEventPublisher
}

func newFeedbackHandler() (*FeedbackHandler, *feedbackMocks) {
	m := &feedbackMocks{
		repo:      new(MockFeedbackRepository),
		products:  new(MockProductRepository),
		cache:     new(MockFeedbackCache),
		publisher: new(MockEventPublisher),
	}
	log := logger.New("test")
	service := feedback.NewService(m.repo, m.products, m.cache, m.publisher, log)
	return NewFeedbackHandler(service, log), m
}

func TestFeedbackHandler_Create_Success(t *testing.T) {
	handler, m := newFeedbackHandler()

	productPublicID := uuid.New()
	userPublicID := uuid.New()
	product := &domain.Product{ID: 42, PublicID: productPublicID, Rating: 4.0, RatingCount: 1}

	m.products.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	m.repo.On("ExistsByProductAndUser", mock.Anything, int64(42), userPublicID).Return(false, nil)
	m.repo.On("Create", mock.Anything, mock.MatchedBy(func(fb *domain.Feedback) bool {
		return fb.ProductID == 42 && fb.Estimation == 5
	})).Return(nil)
	m.products.On("ApplyRating", mock.Anything, int64(42), 5).Return(4.5, nil)
	m.cache.On("InvalidateAllProductCache", mock.Anything, int64(42)).Return(nil)
	m.publisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	requestBody := CreateFeedbackRequest{
		ProductID:  productPublicID.String(),
		UserID:     userPublicID.String(),
		Estimation: 5,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	m.repo.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

func TestFeedbackHandler_Create_Duplicate(t *testing.T) {
	handler, m := newFeedbackHandler()

	productPublicID := uuid.New()
	userPublicID := uuid.New()
	product := &domain.Product{ID: 42, PublicID: productPublicID}

	m.products.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	m.repo.On("ExistsByProductAndUser", mock.Anything, int64(42), userPublicID).Return(true, nil)

	requestBody := CreateFeedbackRequest{
		ProductID:  productPublicID.String(),
		UserID:     userPublicID.String(),
		Estimation: 4,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	m.repo.AssertNotCalled(t, "Create")
}

func TestFeedbackHandler_Create_InvalidProductID(t *testing.T) {
	handler, _ := newFeedbackHandler()

	requestBody := CreateFeedbackRequest{
		ProductID:  "not-a-uuid",
		UserID:     uuid.New().String(),
		Estimation: 4,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandler_GetByProductID_Success(t *testing.T) {
	handler, m := newFeedbackHandler()

	entries := []*domain.Feedback{
		{ID: 1, ProductID: 42, Estimation: 5},
		{ID: 2, ProductID: 42, Estimation: 3},
	}

	m.cache.On("GetFeedbackList", mock.Anything, int64(42), 20, 0).Return(nil, domain.ErrNotFound)
	m.repo.On("ListByProduct", mock.Anything, int64(42), 20, 0).Return(entries, nil)
	m.repo.On("CountByProduct", mock.Anything, int64(42)).Return(2, nil)
	m.cache.On("SetFeedbackList", mock.Anything, int64(42), 20, 0, entries).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42/feedback", nil)
	req = withURLParam(req, "id", "42")
	w := httptest.NewRecorder()

	handler.GetByProductID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response, "pagination")
}
