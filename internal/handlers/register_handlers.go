package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/platform/config"
	"github.com/moneta-ict/moneta-backend/internal/platform/telegram"
	"github.com/moneta-ict/moneta-backend/internal/storage"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	evidenceStore *storage.EvidenceStore,
	telegramClient *telegram.Client,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Evidence images are served statically so the operator chat can embed them
	r.Static("/uploads", evidenceStore.Dir())

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Operator channel webhook (authenticated by shared secret, not JWT)
	registerWebhookRoutes(r, cfg, services, telegramClient)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, evidenceStore)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	evidenceStore *storage.EvidenceStore,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, services.User)
	registerRequestRoutes(v1, cfg, services.Workflow, evidenceStore)
	registerAdminRoutes(v1, services.User, services.Workflow)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// registerCustomValidators installs the strongpwd rule used by the
// registration DTO.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
			return utils.IsStrongPassword(fl.Field().String())
		})
	}
}
