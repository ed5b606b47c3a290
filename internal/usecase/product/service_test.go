package product

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	product.ID = 1
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

// MockBrandRepository is a mock implementation of domain.BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockBrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *MockBrandRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Brand, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *MockBrandRepository) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *MockBrandRepository) List(ctx context.Context, limit, offset int) ([]*domain.Brand, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Brand), args.Error(1)
}

func (m *MockBrandRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, publicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetChain(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Category, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockInventoryRepository is a mock implementation of domain.InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, inventory *domain.Inventory) error {
	args := m.Called(ctx, inventory)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByProductID(ctx context.Context, productID int64) (*domain.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

// MockCache is a mock implementation of the product Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCache) SetProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCache) InvalidateProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
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

type serviceMocks struct {
	repo       *MockProductRepository
	brands     *MockBrandRepository
	categories *MockCategoryRepository
	inventory  *MockInventoryRepository
	cache      *MockCache
	publisher  *MockEventPublisher
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		repo:       new(MockProductRepository),
		brands:     new(MockBrandRepository),
		categories: new(MockCategoryRepository),
		inventory:  new(MockInventoryRepository),
		cache:      new(MockCache),
		publisher:  new(MockEventPublisher),
	}
	log := logger.New("test")
	service := NewService(m.repo, m.brands, m.categories, m.inventory, m.cache, m.publisher, catalog.NewDefaultSkuGenerator(), log)
	return service, m
}

func TestService_Create_Success(t *testing.T) {
	service, m := newTestService()

	brandPublicID := uuid.New()
	primaryCategoryPublicID := uuid.New()
	secondaryPublicID := uuid.New()

	brand := &domain.Brand{ID: 3, PublicID: brandPublicID, Name: "Apple", Slug: "apple"}
	primary := &domain.Category{ID: 5, PublicID: primaryCategoryPublicID, Name: "Smartphones", Slug: "smartphones"}
	secondary := &domain.Category{ID: 6, PublicID: secondaryPublicID, Name: "Accessories", Slug: "accessories"}

	m.brands.On("GetByPublicID", mock.Anything, brandPublicID).Return(brand, nil)
	m.categories.On("GetByPublicID", mock.Anything, primaryCategoryPublicID).Return(primary, nil)
	m.categories.On("GetByPublicIDs", mock.Anything, []uuid.UUID{secondaryPublicID}).Return([]*domain.Category{secondary}, nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.repo.On("AddCategories", mock.Anything, int64(1), []int64{6}).Return(nil)
	m.repo.On("AddCustomAttributes", mock.Anything, int64(1), mock.Anything).Return(nil)
	m.inventory.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	product, err := service.Create(context.Background(), &CreateInput{
		Name:                    "iPhone 15",
		BasePrice:               999,
		Currency:                "USD",
		BrandPublicID:           brandPublicID,
		PrimaryCategoryPublicID: primaryCategoryPublicID,
		CategoryPublicIDs:       []uuid.UUID{secondaryPublicID},
		CustomAttributes:        []CustomAttributeInput{{Name: "Color", Value: "Black"}},
		Quantity:                10,
		LowStockThreshold:       2,
	})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SMA-APP-\d{4}$`), product.SKU)
	assert.Equal(t, int64(3), product.BrandID)
	assert.Equal(t, int64(5), product.PrimaryCategoryID)
	assert.True(t, product.IsActive)
	m.repo.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestService_Create_SkuCounterIncrements(t *testing.T) {
	service, m := newTestService()

	brandPublicID := uuid.New()
	categoryPublicID := uuid.New()

	brand := &domain.Brand{ID: 3, PublicID: brandPublicID, Name: "Samsung", Slug: "samsung"}
	category := &domain.Category{ID: 5, PublicID: categoryPublicID, Name: "Televisions", Slug: "televisions"}

	m.brands.On("GetByPublicID", mock.Anything, brandPublicID).Return(brand, nil)
	m.categories.On("GetByPublicID", mock.Anything, categoryPublicID).Return(category, nil)
	m.categories.On("GetByPublicIDs", mock.Anything, mock.Anything).Return([]*domain.Category{}, nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.repo.On("AddCategories", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.repo.On("AddCustomAttributes", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.inventory.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	input := &CreateInput{
		Name:                    "The Frame 55",
		BasePrice:               1299,
		Currency:                "USD",
		BrandPublicID:           brandPublicID,
		PrimaryCategoryPublicID: categoryPublicID,
	}

	first, err := service.Create(context.Background(), input)
	require.NoError(t, err)
	second, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "TEL-SAM-1000", first.SKU)
	assert.Equal(t, "TEL-SAM-1001", second.SKU)
}

func TestService_Create_BrandNotFound(t *testing.T) {
	service, m := newTestService()

	brandPublicID := uuid.New()
	m.brands.On("GetByPublicID", mock.Anything, brandPublicID).Return(nil, domain.ErrNotFound)

	_, err := service.Create(context.Background(), &CreateInput{
		Name:                    "Widget",
		Currency:                "USD",
		BrandPublicID:           brandPublicID,
		PrimaryCategoryPublicID: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	m.repo.AssertNotCalled(t, "Create")
}

func TestService_Create_ShortSlugRejected(t *testing.T) {
	service, m := newTestService()

	brandPublicID := uuid.New()
	categoryPublicID := uuid.New()

	brand := &domain.Brand{ID: 3, PublicID: brandPublicID, Name: "HP", Slug: "hp"}
	category := &domain.Category{ID: 5, PublicID: categoryPublicID, Name: "Printers", Slug: "printers"}

	m.brands.On("GetByPublicID", mock.Anything, brandPublicID).Return(brand, nil)
	m.categories.On("GetByPublicID", mock.Anything, categoryPublicID).Return(category, nil)
	m.categories.On("GetByPublicIDs", mock.Anything, mock.Anything).Return([]*domain.Category{}, nil)

	_, err := service.Create(context.Background(), &CreateInput{
		Name:                    "LaserJet",
		Currency:                "USD",
		BrandPublicID:           brandPublicID,
		PrimaryCategoryPublicID: categoryPublicID,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	m.repo.AssertNotCalled(t, "Create")
}

func TestService_GetByID_CacheHit(t *testing.T) {
	service, m := newTestService()

	product := &domain.Product{ID: 42, Name: "Cached"}
	m.cache.On("GetProduct", mock.Anything, int64(42)).Return(product, nil)

	result, err := service.GetByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "Cached", result.Name)
	m.repo.AssertNotCalled(t, "GetByID")
}

func TestService_GetByID_CacheMiss(t *testing.T) {
	service, m := newTestService()

	product := &domain.Product{ID: 42, Name: "Fresh"}
	m.cache.On("GetProduct", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	m.repo.On("GetByID", mock.Anything, int64(42)).Return(product, nil)
	m.cache.On("SetProduct", mock.Anything, product).Return(nil)

	result, err := service.GetByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "Fresh", result.Name)
	m.cache.AssertExpectations(t)
}

func TestService_Delete_InvalidatesCacheAndPublishes(t *testing.T) {
	service, m := newTestService()

	m.repo.On("Delete", mock.Anything, int64(42)).Return(nil)
	m.cache.On("InvalidateAllProductCache", mock.Anything, int64(42)).Return(nil)
	m.publisher.On("Publish", mock.Anything, "catalog.events", mock.Anything).Return(nil)

	err := service.Delete(context.Background(), 42)

	assert.NoError(t, err)
	m.cache.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestService_UpdateInventory_ProductNotFound(t *testing.T) {
	service, m := newTestService()

	m.repo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)

	_, err := service.UpdateInventory(context.Background(), 42, 5, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	m.inventory.AssertNotCalled(t, "Upsert")
}
