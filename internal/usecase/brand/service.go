package brand

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	sharedvalidator "github.com/Pesokrava/product_catalog/internal/pkg/validator"
)

// Service handles brand business logic
type Service struct {
	repo     domain.BrandRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new brand service
func NewService(repo domain.BrandRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: sharedvalidator.Get(),
		logger:   log,
	}
}

// Create creates a new brand. The slug is derived from the name once at
// creation and is not regenerated on rename.
func (s *Service) Create(ctx context.Context, name string, isActive bool) (*domain.Brand, error) {
	brand := &domain.Brand{
		PublicID: uuid.New(),
		Name:     name,
		Slug:     catalog.Slugify(name),
		IsActive: isActive,
	}

	if err := s.validate.Struct(brand); err != nil {
		s.logger.Error("Brand validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, brand); err != nil {
		s.logger.Error("Failed to create brand", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
		"slug":     brand.Slug,
	}).Info("Brand created successfully")

	return brand, nil
}

// GetByPublicID retrieves a brand by its public UUID
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Brand, error) {
	brand, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Brand not found: %s", publicID)
		} else {
			s.logger.Error("Failed to get brand", err)
		}
		return nil, err
	}

	return brand, nil
}

// List retrieves a paginated list of brands
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Brand, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	brands, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list brands", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count brands", err)
		return nil, 0, err
	}

	return brands, total, nil
}
