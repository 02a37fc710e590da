package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/openlearn-hub-api/api/swagger"
	"github.com/noah-isme/openlearn-hub-api/internal/handler"
	"github.com/noah-isme/openlearn-hub-api/internal/middleware"
	"github.com/noah-isme/openlearn-hub-api/pkg/config"
	"github.com/noah-isme/openlearn-hub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/openlearn-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/openlearn-hub-api/pkg/middleware/requestid"
)

// NewRouter builds the gin engine with every route mounted.
func NewRouter(app *App) *gin.Engine {
	if app.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(app.Logger))
	r.Use(corsmiddleware.New(app.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(app.Metrics, app.Resources)
	resourceHandler := handler.NewResourceHandler(app.Resources, app.Validator)
	submissionHandler := handler.NewSubmissionHandler(app.Submissions)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if app.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limited := app.Limiter.Middleware()

	api := r.Group(app.Config.APIPrefix)
	{
		resources := api.Group("/resources")
		resources.GET("", resourceHandler.List)
		resources.GET("/featured", resourceHandler.Featured)
		resources.GET("/export", resourceHandler.Export)
		resources.GET("/:id", resourceHandler.Get)
		resources.GET("/:id/related", resourceHandler.Related)
		resources.POST("/:id/reports", limited, resourceHandler.Report)

		api.GET("/taxonomy", resourceHandler.Taxonomy)
		api.GET("/stats", metricsHandler.Stats)

		submissions := api.Group("/submissions")
		submissions.GET("/attachment-policy", submissionHandler.Policy)
		submissions.POST("/attachments/check", limited, submissionHandler.CheckAttachment)
		submissions.POST("", limited, submissionHandler.Submit)
	}

	return r
}
