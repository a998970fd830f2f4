package services

import (
	"errors"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/gorm"
)

// Recoverable room errors
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomAlreadyExist = errors.New("a room with this name already exists")
	ErrRoomStillLinked  = errors.New("room still has a linked acquisition system")
)

// InterfaceRoomService defines the room service interface
type InterfaceRoomService interface {
	GetAllRooms() ([]models.Room, error)
	GetRoomByID(id uint) (*models.Room, error)
	CreateRoom(room *models.Room) error
	UpdateRoom(id uint, updates map[string]interface{}) (*models.Room, error)
	DeleteRoom(id uint) error
}

// RoomService provides room CRUD operations
type RoomService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRoomService creates a new room service
func NewRoomService(db *gorm.DB, cfg *config.Config) InterfaceRoomService {
	return &RoomService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllRooms returns all rooms with their acquisition systems
func (s *RoomService) GetAllRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("AcquisitionSystem").Order("name").Find(&rooms).Error
	return rooms, err
}

// GetRoomByID returns one room with its system and action history
func (s *RoomService) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.Preload("AcquisitionSystem").
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("actions.created_at DESC")
		}).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates a new room. New rooms always start at
// (no_data, not_linked); linkage only ever happens through actions.
func (s *RoomService) CreateRoom(room *models.Room) error {
	var count int64
	if err := s.DB.Model(&models.Room{}).Where("name = ?", room.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrRoomAlreadyExist
	}

	room.State = models.RoomStateNoData
	room.SensorState = models.SensorStateNotLinked
	room.AcquisitionSystemID = nil
	return s.DB.Create(room).Error
}

// UpdateRoom updates the descriptive attributes of a room. State fields
// and the system link are owned by the evaluator and the action
// lifecycle, never by this update.
func (s *RoomService) UpdateRoom(id uint, updates map[string]interface{}) (*models.Room, error) {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{
		"name": true, "floor": true, "direction": true,
		"heaters": true, "windows": true, "surface": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if name, ok := filtered["name"].(string); ok && name != room.Name {
		var count int64
		if err := s.DB.Model(&models.Room{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrRoomAlreadyExist
		}
	}

	if len(filtered) > 0 {
		if err := s.DB.Model(room).Updates(filtered).Error; err != nil {
			return nil, err
		}
	}
	return s.GetRoomByID(id)
}

// DeleteRoom removes a room and its action history. A room that still
// owns an acquisition system must be unassigned first.
func (s *RoomService) DeleteRoom(id uint) error {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return err
	}
	if room.IsLinked() {
		return ErrRoomStillLinked
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.Action{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, id).Error
	})
}
