package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"courier/internal/handler"
	"courier/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler  *handler.OrderHandler
	DriverHandler *handler.DriverHandler
	ClientHandler *handler.ClientHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
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
		// Client routes.
		clients := v1.Group("/clients")
		{
			clients.POST("/register", deps.ClientHandler.Register)
			clients.GET("", deps.ClientHandler.GetAll)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.POST("/:id/duty", deps.DriverHandler.SetDuty)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
		}

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.CreateOrder)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/assign", deps.OrderHandler.AssignDriver)
			orders.POST("/:id/pickup", deps.OrderHandler.MarkPickedUp)
			orders.POST("/:id/deliver", deps.OrderHandler.MarkDelivered)
			orders.POST("/:id/cancel", deps.OrderHandler.CancelOrder)
			orders.POST("/:id/notify", deps.OrderHandler.Notify)
		}
	}

	return router
}
