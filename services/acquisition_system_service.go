package services

import (
	"errors"

	"roomsense-http-service/config"
	"roomsense-http-service/models"
	"roomsense-http-service/utils"

	"gorm.io/gorm"
)

// Recoverable acquisition system errors
var (
	ErrSystemAlreadyExist = errors.New("an acquisition system with this name already exists")
	ErrSystemStillLinked  = errors.New("acquisition system is still linked to a room")
)

// InterfaceAcquisitionSystemService defines the acquisition system service interface
type InterfaceAcquisitionSystemService interface {
	GetAllSystems() ([]models.AcquisitionSystem, error)
	GetSystemByID(id uint) (*models.AcquisitionSystem, error)
	GetSystemByName(name string) (*models.AcquisitionSystem, error)
	CreateSystem(system *models.AcquisitionSystem) error
	UpdateSystem(id uint, updates map[string]interface{}) (*models.AcquisitionSystem, error)
	DeleteSystem(id uint) error
}

// AcquisitionSystemService provides acquisition system CRUD operations
type AcquisitionSystemService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAcquisitionSystemService creates a new acquisition system service
func NewAcquisitionSystemService(db *gorm.DB, cfg *config.Config) InterfaceAcquisitionSystemService {
	return &AcquisitionSystemService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllSystems returns all acquisition systems
func (s *AcquisitionSystemService) GetAllSystems() ([]models.AcquisitionSystem, error) {
	var systems []models.AcquisitionSystem
	err := s.DB.Order("name").Find(&systems).Error
	return systems, err
}

// GetSystemByID returns one acquisition system
func (s *AcquisitionSystemService) GetSystemByID(id uint) (*models.AcquisitionSystem, error) {
	var system models.AcquisitionSystem
	err := s.DB.First(&system, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSystemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// GetSystemByName returns one acquisition system by its unique name
func (s *AcquisitionSystemService) GetSystemByName(name string) (*models.AcquisitionSystem, error) {
	var system models.AcquisitionSystem
	err := s.DB.Where("name = ?", name).First(&system).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSystemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// CreateSystem registers a new acquisition system in the unassigned pool.
// A fresh access key is generated when none is provided.
func (s *AcquisitionSystemService) CreateSystem(system *models.AcquisitionSystem) error {
	var count int64
	if err := s.DB.Model(&models.AcquisitionSystem{}).Where("name = ?", system.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSystemAlreadyExist
	}

	if system.AccessKey == "" {
		system.AccessKey = utils.GenerateAccessKey()
	}
	system.State = models.SensorStateNotLinked
	return s.DB.Create(system).Error
}

// UpdateSystem updates the name or access key of a system. Health state
// and readings are owned by the evaluator and the action lifecycle.
func (s *AcquisitionSystemService) UpdateSystem(id uint, updates map[string]interface{}) (*models.AcquisitionSystem, error) {
	system, err := s.GetSystemByID(id)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{"name": true, "access_key": true}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if name, ok := filtered["name"].(string); ok && name != system.Name {
		var count int64
		if err := s.DB.Model(&models.AcquisitionSystem{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSystemAlreadyExist
		}
	}

	if len(filtered) > 0 {
		if err := s.DB.Model(system).Updates(filtered).Error; err != nil {
			return nil, err
		}
	}
	return s.GetSystemByID(id)
}

// DeleteSystem removes an unlinked system from the pool. A linked system
// must be unassigned from its room first.
func (s *AcquisitionSystemService) DeleteSystem(id uint) error {
	system, err := s.GetSystemByID(id)
	if err != nil {
		return err
	}

	var linked int64
	if err := s.DB.Model(&models.Room{}).Where("acquisition_system_id = ?", id).Count(&linked).Error; err != nil {
		return err
	}
	if linked > 0 || system.State == models.SensorStateLinked {
		return ErrSystemStillLinked
	}

	return s.DB.Delete(&models.AcquisitionSystem{}, id).Error
}
