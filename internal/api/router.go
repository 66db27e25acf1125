// Package api assembles the HTTP router shared by the server and the
// validation command.
package api

import (
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/handlers"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/middleware"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/config"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Dependencies are the collaborators behind the routes.
type Dependencies struct {
	Calculator    finance.Calculator
	Authenticator middleware.Authenticator
	Store         handlers.ObjectStore
	Logger        *zap.Logger
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(settings *config.Settings, deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(settings.CORS.AllowedOrigins, settings.CORS.AllowCredentials))

	financialHandler := handlers.NewFinancialHandler(deps.Calculator, logger)
	whoAmIHandler := handlers.NewWhoAmIHandler(settings.Auth.AdminRoleName)
	storageHandler := handlers.NewStorageHandler(deps.Store, logger)
	openAPIHandler := handlers.NewOpenAPIHandler(
		handlers.NewOpenAPIDocument(Version, settings.Auth.RequireForFinancial),
	)

	router.GET("/health", handlers.Health)
	router.GET("/openapi.json", openAPIHandler.JSON)
	router.GET("/openapi.yaml", openAPIHandler.YAML)

	financial := router.Group("/financial")
	if settings.Auth.RequireForFinancial {
		financial.Use(middleware.RequireUser(deps.Authenticator, false))
	}
	{
		financial.POST("/npv", financialHandler.NPV)
		financial.POST("/ii", financialHandler.InitialInvestment)
		financial.POST("/opex", financialHandler.OPEX)
		financial.POST("/roi", financialHandler.ROI)
		financial.POST("/irr", financialHandler.IRR)
	}

	router.GET("/whoami", middleware.RequireUser(deps.Authenticator, true), whoAmIHandler.WhoAmI)

	files := router.Group("/storage", middleware.RequireUser(deps.Authenticator, false))
	{
		files.POST("", storageHandler.Upload)
		files.GET("", storageHandler.List)
	}

	return router
}
