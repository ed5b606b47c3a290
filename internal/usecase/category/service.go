package category

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	sharedvalidator "github.com/Pesokrava/product_catalog/internal/pkg/validator"
)

// Service handles category business logic
type Service struct {
	repo     domain.CategoryRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new category service
func NewService(repo domain.CategoryRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: sharedvalidator.Get(),
		logger:   log,
	}
}

// Create creates a new category, optionally under a parent. The slug is
// derived from the name once at creation and is not regenerated on rename.
func (s *Service) Create(ctx context.Context, name string, parentPublicID *uuid.UUID) (*domain.Category, error) {
	category := &domain.Category{
		PublicID: uuid.New(),
		Name:     name,
		Slug:     catalog.Slugify(name),
	}

	if parentPublicID != nil {
		parent, err := s.repo.GetByPublicID(ctx, *parentPublicID)
		if err != nil {
			if err == domain.ErrNotFound {
				s.logger.Debugf("Parent category not found: %s", *parentPublicID)
			} else {
				s.logger.Error("Failed to get parent category", err)
			}
			return nil, err
		}
		category.ParentID = &parent.ID
	}

	if err := s.validate.Struct(category); err != nil {
		s.logger.Error("Category validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
	}).Info("Category created successfully")

	return category, nil
}

// GetByPublicID retrieves a category by its public UUID
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Category not found: %s", publicID)
		} else {
			s.logger.Error("Failed to get category", err)
		}
		return nil, err
	}

	return category, nil
}

// List retrieves a paginated list of categories
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Category, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	categories, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list categories", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count categories", err)
		return nil, 0, err
	}

	return categories, total, nil
}
