package feedback

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
)

// MockFeedbackRepository is a mock implementation of domain.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	args := m.Called(ctx, feedback)
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

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySku(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ApplyRating(ctx context.Context, id int64, grade int) (float64, error) {
	args := m.Called(ctx, id, grade)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProductRepository) AddCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	args := m.Called(ctx, productID, categoryIDs)
	return args.Error(0)
}

func (m *MockProductRepository) AddCustomAttributes(ctx context.Context, productID int64, attrs []*domain.CustomAttribute) error {
	args := m.Called(ctx, productID, attrs)
	return args.Error(0)
}

func (m *MockProductRepository) AddAttributeValues(ctx context.Context, productID int64, valueIDs []int64) error {
	args := m.Called(ctx, productID, valueIDs)
	return args.Error(0)
}

func (m *MockProductRepository) GetAggregate(ctx context.Context, id int64) (*domain.ProductAggregate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductAggregate), args.Error(1)
}

// MockCache is a mock implementation of the feedback Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFeedbackList(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feedback), args.Error(1)
}

func (m *MockCache) SetFeedbackList(ctx context.Context, productID int64, limit, offset int, entries []*domain.Feedback) error {
	args := m.Called(ctx, productID, limit, offset, entries)
	return args.Error(0)
}

func (m *MockCache) InvalidateAllProductCache(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func newTestService() (*Service, *MockFeedbackRepository, *MockProductRepository, *MockCache, *MockEventPublisher) {
	mockRepo := new(MockFeedbackRepository)
	mockProducts := new(MockProductRepository)
	mockCache := new(MockCache)
	mockPublisher := new(MockEventPublisher)
	log := logger.New("test")
	service := NewService(mockRepo, mockProducts, mockCache, mockPublisher, log)
	return service, mockRepo, mockProducts, mockCache, mockPublisher
}

func TestService_Create_Success(t *testing.T) {
	service, mockRepo, mockProducts, mockCache, mockPublisher := newTestService()

	productPublicID := uuid.New()
	userPublicID := uuid.New()
	product := &domain.Product{
		ID:          42,
		PublicID:    productPublicID,
		Rating:      4.0,
		RatingCount: 3,
	}

	mockProducts.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	mockRepo.On("ExistsByProductAndUser", mock.Anything, int64(42), userPublicID).Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	// (4.0*3 + 5) / 4 = 4.25
	mockProducts.On("ApplyRating", mock.Anything, int64(42), 5).Return(4.25, nil)
	mockCache.On("InvalidateAllProductCache", mock.Anything, int64(42)).Return(nil)
	mockPublisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	feedback, err := service.Create(context.Background(), &CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    userPublicID,
		Estimation:      5,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), feedback.ProductID)
	mockRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestService_Create_FirstFeedbackSetsRatingToGrade(t *testing.T) {
	service, mockRepo, mockProducts, mockCache, mockPublisher := newTestService()

	productPublicID := uuid.New()
	product := &domain.Product{ID: 7, PublicID: productPublicID}

	mockProducts.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	mockRepo.On("ExistsByProductAndUser", mock.Anything, int64(7), mock.Anything).Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockProducts.On("ApplyRating", mock.Anything, int64(7), 4).Return(4.0, nil)
	mockCache.On("InvalidateAllProductCache", mock.Anything, int64(7)).Return(nil)
	mockPublisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	_, err := service.Create(context.Background(), &CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    uuid.New(),
		Estimation:      4,
	})

	assert.NoError(t, err)
	mockProducts.AssertExpectations(t)
}

func TestService_Create_Duplicate(t *testing.T) {
	service, mockRepo, mockProducts, _, _ := newTestService()

	productPublicID := uuid.New()
	userPublicID := uuid.New()
	product := &domain.Product{ID: 42, PublicID: productPublicID}

	mockProducts.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	mockRepo.On("ExistsByProductAndUser", mock.Anything, int64(42), userPublicID).Return(true, nil)

	_, err := service.Create(context.Background(), &CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    userPublicID,
		Estimation:      5,
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockRepo.AssertNotCalled(t, "Create")
	mockProducts.AssertNotCalled(t, "ApplyRating")
}

func TestService_Create_ProductNotFound(t *testing.T) {
	service, _, mockProducts, _, _ := newTestService()

	productPublicID := uuid.New()
	mockProducts.On("GetByPublicID", mock.Anything, productPublicID).Return(nil, domain.ErrNotFound)

	_, err := service.Create(context.Background(), &CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    uuid.New(),
		Estimation:      5,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Create_InvalidEstimation(t *testing.T) {
	service, mockRepo, mockProducts, _, _ := newTestService()

	productPublicID := uuid.New()
	product := &domain.Product{ID: 42, PublicID: productPublicID}

	mockProducts.On("GetByPublicID", mock.Anything, productPublicID).Return(product, nil)
	mockRepo.On("ExistsByProductAndUser", mock.Anything, int64(42), mock.Anything).Return(false, nil)

	_, err := service.Create(context.Background(), &CreateInput{
		ProductPublicID: productPublicID,
		UserPublicID:    uuid.New(),
		Estimation:      0,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_ListByProduct_CacheMiss(t *testing.T) {
	service, mockRepo, _, mockCache, _ := newTestService()

	entries := []*domain.Feedback{
		{ID: 1, ProductID: 42, Estimation: 5},
	}

	mockCache.On("GetFeedbackList", mock.Anything, int64(42), 20, 0).Return(nil, domain.ErrNotFound)
	mockRepo.On("ListByProduct", mock.Anything, int64(42), 20, 0).Return(entries, nil)
	mockRepo.On("CountByProduct", mock.Anything, int64(42)).Return(1, nil)
	mockCache.On("SetFeedbackList", mock.Anything, int64(42), 20, 0, entries).Return(nil)

	result, total, err := service.ListByProduct(context.Background(), 42, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, result, 1)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_ListByProduct_CacheHit(t *testing.T) {
	service, mockRepo, _, mockCache, _ := newTestService()

	entries := []*domain.Feedback{
		{ID: 1, ProductID: 42, Estimation: 4},
	}

	mockCache.On("GetFeedbackList", mock.Anything, int64(42), 20, 0).Return(entries, nil)
	mockRepo.On("CountByProduct", mock.Anything, int64(42)).Return(1, nil)

	result, total, err := service.ListByProduct(context.Background(), 42, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, result, 1)
	mockRepo.AssertNotCalled(t, "ListByProduct")
}

// sharedProductStore stands in for a database row shared by several
// service replicas: reads can return stale state, but ApplyRating
// recomputes the average under the row lock the way the SQL UPDATE does.
type sharedProductStore struct {
	domain.ProductRepository
	mu      sync.Mutex
	product domain.Product
}

func (s *sharedProductStore) GetByPublicID(_ context.Context, _ uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product
	return &p, nil
}

func (s *sharedProductStore) ApplyRating(_ context.Context, _ int64, grade int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.product.Rating = catalog.UpdateRating(s.product.Rating, s.product.RatingCount, grade)
	s.product.RatingCount++
	return s.product.Rating, nil
}

func TestService_Create_ConcurrentGradesAcrossInstances(t *testing.T) {
	store := &sharedProductStore{
		product: domain.Product{ID: 42, PublicID: uuid.New()},
	}

	newInstance := func() *Service {
		mockRepo := new(MockFeedbackRepository)
		mockRepo.On("ExistsByProductAndUser", mock.Anything, int64(42), mock.Anything).Return(false, nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mockCache := new(MockCache)
		mockCache.On("InvalidateAllProductCache", mock.Anything, int64(42)).Return(nil)
		mockPublisher := new(MockEventPublisher)
		mockPublisher.On("Publish", mock.Anything, Subject, mock.Anything).Return(nil)
		return NewService(mockRepo, store, mockCache, mockPublisher, logger.New("test"))
	}

	publicID := store.product.PublicID
	grades := []int{5, 1}
	var wg sync.WaitGroup
	for _, grade := range grades {
		wg.Add(1)
		go func(svc *Service, grade int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), &CreateInput{
				ProductPublicID: publicID,
				UserPublicID:    uuid.New(),
				Estimation:      grade,
			})
			assert.NoError(t, err)
		}(newInstance(), grade)
	}
	wg.Wait()

	// Both grades must survive: (5 + 1) / 2, not the last writer's view
	assert.Equal(t, int64(2), store.product.RatingCount)
	assert.Equal(t, 3.0, store.product.Rating)
}
