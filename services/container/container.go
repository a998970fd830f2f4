package container

import (
	"log"
	"sync"

	"roomsense-http-service/config"
	"roomsense-http-service/services"

	"gorm.io/gorm"
)

// ServiceContainer manages dependency injection for all services
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// base services
	jwtService   services.InterfaceJWTService
	redisService *services.RedisService

	// sensor data source
	gatewayService services.InterfaceSensorGatewayService

	// business services
	userService         services.InterfaceUserService
	roomService         services.InterfaceRoomService
	systemService       services.InterfaceAcquisitionSystemService
	thresholdService    services.InterfaceThresholdService
	evaluatorService    services.InterfaceEvaluatorService
	actionService       services.InterfaceActionService
	notificationService services.InterfaceNotificationService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("configuration is nil")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices wires up all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// base services
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)
	if err := c.redisService.Ping(); err != nil {
		log.Printf("Redis connection test failed: %v, reading cache disabled", err)
		c.redisService = nil
	}

	// sensor data source
	c.gatewayService = services.NewSensorGatewayService(c.config, c.redisService)

	// business services
	c.userService = services.NewUserService(c.db, c.config)
	c.roomService = services.NewRoomService(c.db, c.config)
	c.systemService = services.NewAcquisitionSystemService(c.db, c.config)
	c.thresholdService = services.NewThresholdService(c.db, c.config)
	c.notificationService = services.NewNotificationService(c.db, c.config)
	c.actionService = services.NewActionService(c.db, c.config, c.notificationService)
	c.evaluatorService = services.NewEvaluatorService(c.db, c.config, c.gatewayService, c.thresholdService)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "gateway":
		return c.gatewayService
	case "user":
		return c.userService
	case "room":
		return c.roomService
	case "acquisition_system":
		return c.systemService
	case "threshold":
		return c.thresholdService
	case "evaluator":
		return c.evaluatorService
	case "action":
		return c.actionService
	case "notification":
		return c.notificationService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
