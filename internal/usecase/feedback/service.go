package feedback

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	sharedvalidator "github.com/Pesokrava/product_catalog/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Cache defines the feedback caching operations the service needs.
// Satisfied by cache.RedisCache.
type Cache interface {
	GetFeedbackList(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, error)
	SetFeedbackList(ctx context.Context, productID int64, limit, offset int, entries []*domain.Feedback) error
	InvalidateAllProductCache(ctx context.Context, productID int64) error
}

// FeedbackEvent represents an event related to a feedback submission
type FeedbackEvent struct {
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	ProductID int64            `json:"product_id"`
	Feedback  *domain.Feedback `json:"feedback"`
}

// Subject is the NATS subject feedback events are published to
const Subject = "catalog.events"

// CreateInput carries a new feedback submission
type CreateInput struct {
	ProductPublicID uuid.UUID
	UserPublicID    uuid.UUID
	Estimation      int
	Comment         *string
}

// Service handles feedback business logic: duplicate detection,
// incremental rating aggregation, caching and event publishing
type Service struct {
	repo        domain.FeedbackRepository
	productRepo domain.ProductRepository
	cache       Cache
	publisher   EventPublisher
	validate    *validator.Validate
	logger      *logger.Logger
}

// NewService creates a new feedback service
func NewService(
	repo domain.FeedbackRepository,
	productRepo domain.ProductRepository,
	cache Cache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		cache:       cache,
		publisher:   publisher,
		validate:    sharedvalidator.Get(),
		logger:      log,
	}
}

// Create records a feedback entry and folds its grade into the
// product's running average. The fold happens inside the repository's
// ApplyRating, which recomputes the average atomically in storage, so
// concurrent submissions for the same product cannot lose a grade even
// when several service instances share the database.
func (s *Service) Create(ctx context.Context, input *CreateInput) (*domain.Feedback, error) {
	product, err := s.productRepo.GetByPublicID(ctx, input.ProductPublicID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", input.ProductPublicID)
		} else {
			s.logger.Error("Failed to get product for feedback", err)
		}
		return nil, err
	}

	exists, err := s.repo.ExistsByProductAndUser(ctx, product.ID, input.UserPublicID)
	if err != nil {
		s.logger.Error("Failed to check feedback uniqueness", err)
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	feedback := &domain.Feedback{
		PublicID:     uuid.New(),
		ProductID:    product.ID,
		UserPublicID: input.UserPublicID,
		Estimation:   input.Estimation,
		Comment:      input.Comment,
	}

	if err := s.validate.Struct(feedback); err != nil {
		s.logger.Error("Feedback validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		s.logger.Error("Failed to create feedback", err)
		return nil, err
	}

	newRating, err := s.productRepo.ApplyRating(ctx, product.ID, feedback.Estimation)
	if err != nil {
		s.logger.Error("Failed to apply product rating", err)
		return nil, err
	}

	// Stale cache would show the old rating and feedback list
	if err := s.cache.InvalidateAllProductCache(ctx, product.ID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", product.ID, err)
	}

	s.publishEvent(ctx, "feedback.created", feedback)

	s.logger.WithFields(map[string]interface{}{
		"feedback_id": feedback.ID,
		"product_id":  product.ID,
		"estimation":  feedback.Estimation,
		"new_rating":  newRating,
	}).Info("Feedback created successfully")

	return feedback, nil
}

// GetByPublicID retrieves a feedback entry by its public UUID
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Feedback, error) {
	feedback, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Feedback not found: %s", publicID)
		} else {
			s.logger.Error("Failed to get feedback", err)
		}
		return nil, err
	}

	return feedback, nil
}

// ListByProduct retrieves feedback for a product with caching
func (s *Service) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*domain.Feedback, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.cache.GetFeedbackList(ctx, productID, limit, offset)
	if err == nil {
		s.logger.Debugf("Cache hit for product %d feedback (limit=%d, offset=%d)", productID, limit, offset)
		total, err := s.repo.CountByProduct(ctx, productID)
		if err != nil {
			s.logger.Error("Failed to count feedback", err)
			return nil, 0, err
		}
		return entries, total, nil
	}

	s.logger.Debugf("Cache miss for product %d feedback (limit=%d, offset=%d)", productID, limit, offset)
	entries, err = s.repo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list feedback", err)
		return nil, 0, err
	}

	total, err := s.repo.CountByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to count feedback", err)
		return nil, 0, err
	}

	if err := s.cache.SetFeedbackList(ctx, productID, limit, offset, entries); err != nil {
		s.logger.Warnf("Failed to cache feedback for product %d: %v", productID, err)
	}

	return entries, total, nil
}

// publishEvent publishes a feedback event, logging but not failing on error
func (s *Service) publishEvent(ctx context.Context, eventType string, feedback *domain.Feedback) {
	event := FeedbackEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		ProductID: feedback.ProductID,
		Feedback:  feedback,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for feedback %s", feedback.PublicID)
		return
	}

	if err := s.publisher.Publish(ctx, Subject, data); err != nil {
		s.logger.Errorf(err, "Failed to publish event for feedback %s", feedback.PublicID)
	}
}
