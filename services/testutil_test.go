package services

import (
	"fmt"
	"testing"
	"time"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a private in-memory database for one test
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.AcquisitionSystem{},
		&models.Room{},
		&models.Action{},
		&models.Notification{},
		&models.ThresholdPolicy{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		SensorAPIURL:        "http://localhost:9090",
		SensorFetchTimeout:  1,
		SensorStalenessSecs: 180,
		JWTSecretKey:        "test-secret",
	}
}

// seedLinkedRoom creates a room linked to an acquisition system, both
// marked healthy
func seedLinkedRoom(t *testing.T, db *gorm.DB, roomName, systemName string) *models.Room {
	t.Helper()

	system := models.AcquisitionSystem{
		Name:      systemName,
		AccessKey: "test-key",
		State:     models.SensorStateLinked,
	}
	if err := db.Create(&system).Error; err != nil {
		t.Fatalf("creating system: %v", err)
	}

	room := models.Room{
		Name:                roomName,
		Floor:               2,
		State:               models.RoomStateWaiting,
		SensorState:         models.SensorStateLinked,
		AcquisitionSystemID: &system.ID,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}
	return &room
}

func seedManager(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Password: "x",
		Role:     models.RoleManager,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating manager: %v", err)
	}
	return &user
}

// stubGateway serves canned readings, or a canned error, and counts calls
type stubGateway struct {
	readings *models.ReadingSet
	err      error
	calls    int
}

func (g *stubGateway) FetchLatest(system *models.AcquisitionSystem) (*models.ReadingSet, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.readings, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func timePtr(v time.Time) *time.Time {
	return &v
}

func readingsOf(temp *float64, humidity, co2 *int) *models.ReadingSet {
	now := time.Now()
	return &models.ReadingSet{
		Temperature: temp,
		Humidity:    humidity,
		Co2:         co2,
		CapturedAt:  &now,
	}
}

func openMaintenanceCount(t *testing.T, db *gorm.DB, roomID uint) int64 {
	t.Helper()

	var count int64
	err := db.Model(&models.Action{}).
		Where("room_id = ? AND kind = ? AND state <> ?",
			roomID, models.ActionKindMaintenance, models.ActionStateDone).
		Count(&count).Error
	if err != nil {
		t.Fatalf("counting maintenance actions: %v", err)
	}
	return count
}
