package services

import (
	"errors"
	"fmt"
	"time"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/gorm"
)

// Recoverable action lifecycle errors. All of them reject the request at
// the transition boundary and leave every entity unchanged.
var (
	ErrActionNotFound       = errors.New("action not found")
	ErrInvalidTransition    = errors.New("action is not in the required state for this transition")
	ErrOpenActionConflict   = errors.New("room already has an open assignment or unassignment action")
	ErrNoUnlinkedSystem     = errors.New("no unlinked acquisition system is available")
	ErrSystemNotFound       = errors.New("acquisition system not found")
	ErrSystemAlreadyLinked  = errors.New("acquisition system is already linked to a room")
	ErrRoomAlreadyLinked    = errors.New("room already has a linked acquisition system")
	ErrRoomNotLinked        = errors.New("room has no linked acquisition system")
	ErrRepairedFlagRequired = errors.New("maintenance validation requires the repaired flag")
	ErrNotRepaired          = errors.New("system is not repaired, action stays in progress")
)

// ValidateActionInput carries the kind-dependent validation payload
type ValidateActionInput struct {
	SystemName string `json:"system_name"` // assignment: name of the system to link
	Repaired   *bool  `json:"repaired"`    // maintenance: repair outcome
}

// InterfaceActionService defines the action lifecycle service interface
type InterfaceActionService interface {
	GetAllActions(query models.PaginationQuery) ([]models.Action, models.PaginationResult, error)
	GetActionsByRoom(roomID uint) ([]models.Action, error)
	GetActionByID(id uint) (*models.Action, error)
	CreateAction(roomID uint, kind models.ActionKind) (*models.Action, error)
	Begin(id uint) (*models.Action, error)
	Validate(id uint, input ValidateActionInput) (*models.Action, error)
	Cancel(id uint) error
}

// ActionService drives the TO_DO -> DOING -> DONE lifecycle of operator
// work on rooms, including the room/system linkage side effects
type ActionService struct {
	DB           *gorm.DB
	Config       *config.Config
	Notification InterfaceNotificationService
}

// NewActionService creates a new action service
func NewActionService(db *gorm.DB, cfg *config.Config, notification InterfaceNotificationService) InterfaceActionService {
	return &ActionService{
		DB:           db,
		Config:       cfg,
		Notification: notification,
	}
}

// GetAllActions returns one page of the action history, oldest first
// unless descending order is requested
func (s *ActionService) GetAllActions(query models.PaginationQuery) ([]models.Action, models.PaginationResult, error) {
	pageNum := query.PageNum
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.DB.Model(&models.Action{}).Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	order := "created_at ASC"
	if query.Desc {
		order = "created_at DESC"
	}

	var actions []models.Action
	err := s.DB.Preload("Room").Preload("AcquisitionSystem").
		Order(order).
		Offset((pageNum - 1) * pageSize).Limit(pageSize).
		Find(&actions).Error
	return actions, models.NewPaginationResult(int(total), pageNum, pageSize), err
}

// GetActionsByRoom returns the ordered action history of a room
func (s *ActionService) GetActionsByRoom(roomID uint) ([]models.Action, error) {
	var actions []models.Action
	err := s.DB.Preload("AcquisitionSystem").
		Where("room_id = ?", roomID).
		Order("created_at DESC").Find(&actions).Error
	return actions, err
}

// GetActionByID returns a single action
func (s *ActionService) GetActionByID(id uint) (*models.Action, error) {
	var action models.Action
	err := s.DB.Preload("Room").Preload("AcquisitionSystem").First(&action, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// CreateAction creates a new TO_DO action for a room.
//
// At most one open assignment or unassignment action may exist per room;
// a second request is rejected, never merged or queued. A maintenance
// request is idempotent: when an open one already exists it is returned
// instead of duplicated.
func (s *ActionService) CreateAction(roomID uint, kind models.ActionKind) (*models.Action, error) {
	var created *models.Action
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return err
		}

		switch kind {
		case models.ActionKindAssignment:
			if room.IsLinked() {
				return ErrRoomAlreadyLinked
			}
		case models.ActionKindUnassignment:
			if !room.IsLinked() {
				return ErrRoomNotLinked
			}
		case models.ActionKindMaintenance:
			var existing models.Action
			err := tx.Where("room_id = ? AND kind = ? AND state <> ?",
				roomID, models.ActionKindMaintenance, models.ActionStateDone).
				First(&existing).Error
			if err == nil {
				created = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		default:
			return fmt.Errorf("unknown action kind %q", kind)
		}

		if kind != models.ActionKindMaintenance {
			var open int64
			err := tx.Model(&models.Action{}).
				Where("room_id = ? AND kind IN ? AND state <> ?",
					roomID,
					[]models.ActionKind{models.ActionKindAssignment, models.ActionKindUnassignment},
					models.ActionStateDone).
				Count(&open).Error
			if err != nil {
				return err
			}
			if open > 0 {
				return ErrOpenActionConflict
			}
		}

		action := models.Action{
			Kind:   kind,
			State:  models.ActionStateToDo,
			RoomID: roomID,
		}
		if err := tx.Create(&action).Error; err != nil {
			return err
		}
		created = &action
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Begin moves an action from TO_DO to DOING and records the start time.
//
// Beginning an assignment requires at least one unlinked acquisition
// system to exist; otherwise the caller is told to create one first.
func (s *ActionService) Begin(id uint) (*models.Action, error) {
	var action *models.Action
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		a, err := findAction(tx, id)
		if err != nil {
			return err
		}
		if a.State != models.ActionStateToDo {
			return ErrInvalidTransition
		}

		if a.Kind == models.ActionKindAssignment {
			var available int64
			err := tx.Model(&models.AcquisitionSystem{}).
				Where("state = ?", models.SensorStateNotLinked).
				Count(&available).Error
			if err != nil {
				return err
			}
			if available == 0 {
				return ErrNoUnlinkedSystem
			}
		}

		now := time.Now()
		a.State = models.ActionStateDoing
		a.StartedAt = &now
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		action = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// Validate completes an action from DOING. The side effects depend on the
// kind; on success the action moves to DONE and a manager notification is
// emitted in the same transaction.
func (s *ActionService) Validate(id uint, input ValidateActionInput) (*models.Action, error) {
	var action *models.Action
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		a, err := findAction(tx, id)
		if err != nil {
			return err
		}
		if a.State != models.ActionStateDoing {
			return ErrInvalidTransition
		}

		var room models.Room
		if err := tx.Preload("AcquisitionSystem").First(&room, a.RoomID).Error; err != nil {
			return err
		}

		switch a.Kind {
		case models.ActionKindAssignment:
			if err := s.validateAssignment(tx, a, &room, input); err != nil {
				return err
			}
		case models.ActionKindMaintenance:
			if err := s.validateMaintenance(tx, a, &room, input); err != nil {
				return err
			}
		case models.ActionKindUnassignment:
			if err := s.validateUnassignment(tx, a, &room); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown action kind %q", a.Kind)
		}

		now := time.Now()
		a.State = models.ActionStateDone
		a.CompletedAt = &now
		if err := tx.Save(a).Error; err != nil {
			return err
		}

		if err := s.Notification.NotifyActionCompleted(tx, a, &room); err != nil {
			return err
		}
		action = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// validateAssignment links the named unlinked system to the room
func (s *ActionService) validateAssignment(tx *gorm.DB, a *models.Action, room *models.Room, input ValidateActionInput) error {
	if input.SystemName == "" {
		return ErrSystemNotFound
	}
	var system models.AcquisitionSystem
	err := tx.Where("name = ?", input.SystemName).First(&system).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSystemNotFound
	}
	if err != nil {
		return err
	}
	if system.State != models.SensorStateNotLinked {
		return ErrSystemAlreadyLinked
	}
	if room.IsLinked() {
		return ErrRoomAlreadyLinked
	}

	system.State = models.SensorStateLinked
	if err := tx.Save(&system).Error; err != nil {
		return err
	}

	room.AcquisitionSystemID = &system.ID
	room.SensorState = models.SensorStateLinked
	room.PreviousState = room.State
	room.State = models.RoomStateWaiting
	if err := tx.Save(room).Error; err != nil {
		return err
	}

	a.AcquisitionSystemID = &system.ID
	return nil
}

// validateMaintenance records the repair outcome. A not-repaired outcome
// rejects the transition; the action stays DOING for a later resubmit.
func (s *ActionService) validateMaintenance(tx *gorm.DB, a *models.Action, room *models.Room, input ValidateActionInput) error {
	if input.Repaired == nil {
		return ErrRepairedFlagRequired
	}
	if !*input.Repaired {
		return ErrNotRepaired
	}
	if !room.IsLinked() || room.AcquisitionSystem == nil {
		return ErrRoomNotLinked
	}

	system := room.AcquisitionSystem
	system.State = models.SensorStateLinked
	if err := tx.Save(system).Error; err != nil {
		return err
	}

	room.SensorState = models.SensorStateLinked
	if err := tx.Save(room).Error; err != nil {
		return err
	}

	a.AcquisitionSystemID = &system.ID
	return nil
}

// validateUnassignment dissolves the room/system link on both sides
func (s *ActionService) validateUnassignment(tx *gorm.DB, a *models.Action, room *models.Room) error {
	if !room.IsLinked() || room.AcquisitionSystem == nil {
		return ErrRoomNotLinked
	}

	system := room.AcquisitionSystem
	system.State = models.SensorStateNotLinked
	if err := tx.Save(system).Error; err != nil {
		return err
	}

	room.AcquisitionSystemID = nil
	room.AcquisitionSystem = nil
	room.SensorState = models.SensorStateNotLinked
	room.PreviousState = room.State
	room.State = models.RoomStateNoData
	room.LastEvaluatedAt = nil
	return tx.Model(room).Select("acquisition_system_id", "sensor_state", "previous_state", "state", "last_evaluated_at").
		Updates(map[string]interface{}{
			"acquisition_system_id": nil,
			"sensor_state":          room.SensorState,
			"previous_state":        room.PreviousState,
			"state":                 room.State,
			"last_evaluated_at":     nil,
		}).Error
}

// Cancel removes an action that has not completed yet. Cancellation is a
// hard delete; there is no cancelled state.
func (s *ActionService) Cancel(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		a, err := findAction(tx, id)
		if err != nil {
			return err
		}
		if a.State == models.ActionStateDone {
			return ErrInvalidTransition
		}
		return tx.Delete(a).Error
	})
}

func findAction(tx *gorm.DB, id uint) (*models.Action, error) {
	var action models.Action
	err := tx.First(&action, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}
