package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"userapp/internal/adapter/gin/handler"
	"userapp/internal/adapter/gin/middleware"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker func(*gin.Context) error

// SetupRouter configures and returns a Gin router with all routes and middleware.
// health may be nil, in which case /health only reports liveness.
func SetupRouter(userHandler *handler.UserHandler, health HealthChecker, serviceName string, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": serviceName,
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/pages", userHandler.ListUsersPaged)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/search/pages", userHandler.SearchUsersPaged)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
