package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type productService interface {
	List(ctx context.Context, f catalog.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch catalog.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type saleService interface {
	Create(ctx context.Context, in domain.CheckoutOrder) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	Get(ctx context.Context, id string) (*domain.Sale, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Sale, error)
}

type categoryService interface {
	List(ctx context.Context) ([]string, error)
}

// Deps are the services behind the routes.
type Deps struct {
	Products       productService
	Sales          saleService
	Categories     categoryService
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db pinger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), recovery(logger))
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	if deps.Products != nil {
		h := &productHandler{svc: deps.Products, logger: logger}
		router.GET("/products", h.list)
		router.GET("/products/:id", h.get)
		router.POST("/products", h.create)
		router.PUT("/products/:id", h.update)
		router.DELETE("/products/:id", h.delete)
	}
	if deps.Categories != nil {
		h := &categoryHandler{svc: deps.Categories, logger: logger}
		router.GET("/categories", h.list)
	}
	if deps.Sales != nil {
		h := &saleHandler{svc: deps.Sales, logger: logger}
		router.GET("/sales", h.list)
		router.GET("/sales/:id", h.get)
		router.POST("/sales", h.create)
		router.PUT("/sales/:id", h.updateStatus)
	}

	return router
}
