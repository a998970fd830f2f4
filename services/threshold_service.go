package services

import (
	"errors"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/gorm"
)

// ErrInvalidThresholdOrdering marks a configuration change that violates
// the strict criticalMin < warningMin < warningMax < criticalMax ordering
var ErrInvalidThresholdOrdering = errors.New("threshold bounds must respect criticalMin < warningMin < warningMax < criticalMax")

// InterfaceThresholdService defines the threshold policy service interface
type InterfaceThresholdService interface {
	GetPolicy() (*models.ThresholdPolicy, error)
	UpdatePolicy(update *models.ThresholdPolicy) (*models.ThresholdPolicy, error)
	ResetPolicy() (*models.ThresholdPolicy, error)
}

// ThresholdService manages the canonical threshold policy record
type ThresholdService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewThresholdService creates a new threshold service
func NewThresholdService(db *gorm.DB, cfg *config.Config) InterfaceThresholdService {
	return &ThresholdService{
		DB:     db,
		Config: cfg,
	}
}

// GetPolicy returns the canonical policy, creating the default one if the
// deployment has none yet. Evaluations treat the returned value as a
// snapshot; they never write through it.
func (s *ThresholdService) GetPolicy() (*models.ThresholdPolicy, error) {
	var policy models.ThresholdPolicy
	err := s.DB.Order("id").First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultThresholdPolicy()
		if err := s.DB.Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// UpdatePolicy replaces the configurable groups of the canonical policy.
// The change is applied all-or-nothing and rejected outright when any
// group violates the ordering invariant.
func (s *ThresholdService) UpdatePolicy(update *models.ThresholdPolicy) (*models.ThresholdPolicy, error) {
	if !update.Validate() {
		return nil, ErrInvalidThresholdOrdering
	}

	policy, err := s.GetPolicy()
	if err != nil {
		return nil, err
	}

	policy.HeatingTemperature = update.HeatingTemperature
	policy.NonHeatingTemperature = update.NonHeatingTemperature
	policy.Humidity = update.Humidity

	if err := s.DB.Save(policy).Error; err != nil {
		return nil, err
	}
	return policy, nil
}

// ResetPolicy restores the default bounds on the canonical policy
func (s *ThresholdService) ResetPolicy() (*models.ThresholdPolicy, error) {
	return s.UpdatePolicy(models.DefaultThresholdPolicy())
}
