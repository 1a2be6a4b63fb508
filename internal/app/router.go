package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dhoni/internal/handler"
	"dhoni/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler         *handler.TripHandler
	SettingsHandler     *handler.SettingsHandler
	WeatherHandler      *handler.WeatherHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes. Static paths must stay distinct from the :id
		// wildcard, so summary/sync/export are registered alongside it.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Save)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/summary", deps.TripHandler.Summary)
			trips.POST("/sync", deps.TripHandler.Sync)
			trips.GET("/export", deps.TripHandler.Export)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.DELETE("/:id", deps.TripHandler.Delete)
			trips.PATCH("/:id/sales/:saleId/payment", deps.TripHandler.UpdateSalePayment)
			trips.POST("/:id/sales/:saleId/invoice", deps.TripHandler.Invoice)
		}

		// Boat settings routes.
		settings := v1.Group("/settings")
		{
			settings.GET("", deps.SettingsHandler.Get)
			settings.PUT("", deps.SettingsHandler.Put)
		}

		// Weather routes.
		weather := v1.Group("/weather")
		{
			weather.GET("/current", deps.WeatherHandler.Current)
			weather.GET("/forecast", deps.WeatherHandler.Forecast)
		}

		// Push subscription routes.
		notifications := v1.Group("/notifications")
		{
			notifications.POST("/subscriptions", deps.NotificationHandler.Subscribe)
			notifications.DELETE("/subscriptions", deps.NotificationHandler.Unsubscribe)
		}
	}

	// Internal routes, not part of the public API surface.
	internal := router.Group("/internal")
	{
		internal.POST("/notifications/run", deps.NotificationHandler.Run)
	}

	return router
}
