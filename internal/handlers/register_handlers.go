package handlers

import (
	"github.com/costbooks/inventory_costing_app/cmd/docs"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/costbooks/inventory_costing_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// The acting user header is resolved by the upstream auth collaborator;
	// mutating handlers reject requests without it.
	v1 := r.Group("/api/v1", middleware.ActingUser())

	registerAccountRoutes(v1, services.Account)
	registerCurrencyRoutes(v1, services.Currency)
	registerFXRateRoutes(v1, services.FXRate)
	registerLedgerRoutes(v1, services.Ledger)
	registerProductRoutes(v1, services.Product, services.Inventory)
	registerCostingRoutes(v1, services.Costing)
	registerOrderRoutes(v1, services.Order)
	registerRatesRoutes(v1, services.Rates)
	registerReportingRoutes(v1, services.Reporting, cfg.PrimaryCurrencyCode)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
