package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Pesokrava/product_catalog/internal/config"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
)

// CatalogEvent represents a catalog event from NATS
type CatalogEvent struct {
	EventType string    `json:"event_type"`
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Indexer processes catalog events and rebuilds product search
// documents asynchronously
type Indexer struct {
	builder *Builder
	cfg     config.IndexerConfig
	logger  *logger.Logger

	// Debouncing state
	mu             sync.Mutex
	pendingUpdates map[int64]*pendingUpdate
	shutdownCh     chan struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

type pendingUpdate struct {
	productID int64
	timestamp time.Time
	timer     *time.Timer
}

// NewIndexer creates a new search indexer worker
func NewIndexer(builder *Builder, cfg config.IndexerConfig, log *logger.Logger) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Indexer{
		builder:        builder,
		cfg:            cfg,
		logger:         log,
		pendingUpdates: make(map[int64]*pendingUpdate),
		shutdownCh:     make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// HandleEvent processes a catalog event
func (w *Indexer) HandleEvent(data []byte) error {
	var event CatalogEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.WithFields(map[string]any{
			"error": err.Error(),
		}).Error("Failed to unmarshal catalog event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"product_id": event.ProductID,
		"timestamp":  event.Timestamp,
	}).Info("Received catalog event")

	// Schedule a rebuild with debouncing. The rebuild reads current
	// database state, so the event type does not matter: a deleted
	// product is removed from the index, anything else is reindexed.
	w.scheduleRebuild(event.ProductID, event.Timestamp)

	return nil
}

// scheduleRebuild implements debouncing logic
// Multiple events for same product within debounce window result in single rebuild
func (w *Indexer) scheduleRebuild(productID int64, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Check if already shutting down
	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingUpdates[productID]

	// If we have a pending rebuild, check if this event is newer
	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"product_id":  productID,
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		// Cancel existing timer (we'll create a new one)
		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"product_id": productID,
		}).Debug("Debouncing: resetting timer for product")
	} else {
		// New product, increment wait group
		w.wg.Add(1)
	}

	// Create new timer for debounced rebuild
	timer := time.AfterFunc(w.cfg.DebounceWindow, func() {
		w.processRebuild(productID)
	})

	w.pendingUpdates[productID] = &pendingUpdate{
		productID: productID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processRebuild executes the document rebuild with retry logic
func (w *Indexer) processRebuild(productID int64) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingUpdates, productID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"product_id": productID,
	}).Info("Processing index rebuild")

	// Retry loop with exponential backoff
	var lastErr error
	backoff := w.cfg.InitialBackoff

	for attempt := 0; attempt < w.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"product_id": productID,
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying index rebuild")

			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		// Create context with timeout for each attempt
		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.builder.Rebuild(ctx, productID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"product_id": productID,
			"attempt":    attempt + 1,
			"error":      err.Error(),
		}).Error("Failed to rebuild index", err)
	}

	// All retries exhausted
	w.logger.WithFields(map[string]any{
		"product_id":  productID,
		"max_retries": w.cfg.MaxRetries,
		"error":       lastErr.Error(),
	}).Error("Index rebuild failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker
// Cancels pending timers and waits for in-flight rebuilds to complete
func (w *Indexer) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down indexer worker...")

	// Signal shutdown to prevent new rebuilds
	close(w.shutdownCh)

	// Cancel context to stop retries
	w.cancel()

	// Cancel all pending timers
	w.mu.Lock()
	pendingCount := len(w.pendingUpdates)
	for _, update := range w.pendingUpdates {
		update.timer.Stop()
		w.wg.Done() // Decrement counter for cancelled rebuilds
	}
	w.pendingUpdates = make(map[int64]*pendingUpdate)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_updates": pendingCount,
	}).Info("Cancelled pending rebuilds")

	// Wait for in-flight rebuilds to complete or context timeout
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight rebuilds completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending rebuilds (used for monitoring/testing)
func (w *Indexer) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingUpdates)
}
