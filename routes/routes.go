package routes

import (
	"roomsense-http-service/config"
	"roomsense-http-service/controllers"
	_ "roomsense-http-service/docs"
	"roomsense-http-service/middleware"
	"roomsense-http-service/models"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Create the service container
	serviceContainer := container.NewServiceContainer(db, cfg)
	// Initialize middleware
	middleware.InitAuthMiddleware(cfg)
	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers routes that need no authentication
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// health check
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// authentication
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes registers routes behind JWT authentication
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("")
	auth.Use(middleware.RequireAuth())

	// rooms
	auth.GET("/rooms", controllers.HandleRoomFunc(container, "getRooms"))
	auth.GET("/rooms/:id", controllers.HandleRoomFunc(container, "getRoom"))
	auth.POST("/rooms", controllers.HandleRoomFunc(container, "createRoom"))
	auth.PUT("/rooms/:id", controllers.HandleRoomFunc(container, "updateRoom"))
	auth.DELETE("/rooms/:id", controllers.HandleRoomFunc(container, "deleteRoom"))
	auth.POST("/rooms/refresh", controllers.HandleRoomFunc(container, "refreshAllRooms"))
	auth.POST("/rooms/:id/refresh", controllers.HandleRoomFunc(container, "refreshRoom"))

	// acquisition systems
	auth.GET("/systems", controllers.HandleAcquisitionSystemFunc(container, "getSystems"))
	auth.GET("/systems/:id", controllers.HandleAcquisitionSystemFunc(container, "getSystem"))
	auth.POST("/systems", controllers.HandleAcquisitionSystemFunc(container, "createSystem"))
	auth.PUT("/systems/:id", controllers.HandleAcquisitionSystemFunc(container, "updateSystem"))
	auth.DELETE("/systems/:id", controllers.HandleAcquisitionSystemFunc(container, "deleteSystem"))

	// actions
	auth.GET("/actions", controllers.HandleActionFunc(container, "getActions"))
	auth.GET("/actions/:id", controllers.HandleActionFunc(container, "getAction"))
	auth.POST("/actions", controllers.HandleActionFunc(container, "createAction"))
	auth.POST("/actions/:id/begin", controllers.HandleActionFunc(container, "beginAction"))
	auth.POST("/actions/:id/validate", controllers.HandleActionFunc(container, "validateAction"))
	auth.DELETE("/actions/:id", controllers.HandleActionFunc(container, "cancelAction"))

	// threshold policy, admin only
	auth.GET("/thresholds", controllers.HandleThresholdFunc(container, "getThresholds"))
	auth.PUT("/thresholds", middleware.RequireRole(models.RoleAdmin), controllers.HandleThresholdFunc(container, "updateThresholds"))
	auth.POST("/thresholds/reset", middleware.RequireRole(models.RoleAdmin), controllers.HandleThresholdFunc(container, "resetThresholds"))

	// notifications
	auth.GET("/notifications", controllers.HandleNotificationFunc(container, "getMyNotifications"))
	auth.POST("/notifications/:id/read", controllers.HandleNotificationFunc(container, "markNotificationRead"))

	// user accounts, admin only
	auth.GET("/users", middleware.RequireRole(models.RoleAdmin), controllers.HandleUserFunc(container, "getUsers"))
	auth.POST("/users", middleware.RequireRole(models.RoleAdmin), controllers.HandleUserFunc(container, "createUser"))
}
