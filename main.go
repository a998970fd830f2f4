// @title           RoomSense HTTP Service API
// @version         1.0
// @description     Building-room environmental monitoring and task orchestration service

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"

	"roomsense-http-service/config"
	"roomsense-http-service/models"
	"roomsense-http-service/routes"
	"roomsense-http-service/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Load the .env file; environment variables may also come from elsewhere
	if err := godotenv.Load(); err != nil {
		config.Warning("could not load .env file: %v", err)
	} else {
		config.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	ensureAdminExists(db, cfg)
	ensureThresholdPolicyExists(db)

	r := routes.SetupRouter(db, cfg)

	port := cfg.ServerPort
	if port == "" {
		port = "8080"
	}

	config.Info("server listening on: http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("failed to start server: %v", err)
		os.Exit(1)
	}
}

// initDB initializes the database connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Database connection established")
	return db, nil
}

// autoMigrate migrates all models, only adding new columns and tables
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.AcquisitionSystem{},
		&models.Room{},
		&models.Action{},
		&models.Notification{},
		&models.ThresholdPolicy{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// ensureAdminExists seeds the default admin account on first boot
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		config.Error("failed to check for admin account: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		config.Error("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		config.Error("failed to create default admin account: %v", err)
		return
	}
	config.Info("default admin account created")
}

// ensureThresholdPolicyExists seeds the default threshold policy on first boot
func ensureThresholdPolicyExists(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.ThresholdPolicy{}).Count(&count).Error; err != nil {
		config.Error("failed to check for threshold policy: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if err := db.Create(models.DefaultThresholdPolicy()).Error; err != nil {
		config.Error("failed to create default threshold policy: %v", err)
		return
	}
	config.Info("default threshold policy created")
}
