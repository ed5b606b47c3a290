package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/product_catalog/internal/config"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/middleware"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	brandHandler    *handler.BrandHandler
	categoryHandler *handler.CategoryHandler
	productHandler  *handler.ProductHandler
	feedbackHandler *handler.FeedbackHandler
	logger          *logger.Logger
	cfg             *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	brandHandler *handler.BrandHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	feedbackHandler *handler.FeedbackHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		brandHandler:    brandHandler,
		categoryHandler: categoryHandler,
		productHandler:  productHandler,
		feedbackHandler: feedbackHandler,
		logger:          log,
		cfg:             cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/brands", func(r chi.Router) {
			r.Post("/", rt.brandHandler.Create)
			r.Get("/", rt.brandHandler.List)
			r.Get("/{id}", rt.brandHandler.GetByID)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", rt.categoryHandler.Create)
			r.Get("/", rt.categoryHandler.List)
			r.Get("/{id}", rt.categoryHandler.GetByID)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Get("/sku/{sku}", rt.productHandler.GetBySku)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
			r.Put("/{id}/inventory", rt.productHandler.UpdateInventory)
			r.Post("/{id}/attributes", rt.productHandler.AttachAttributeValues)
			r.Get("/{id}/feedback", rt.feedbackHandler.GetByProductID)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", rt.feedbackHandler.Create)
			r.Get("/{id}", rt.feedbackHandler.GetByID)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
