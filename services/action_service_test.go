package services

import (
	"errors"
	"fmt"
	"testing"

	"roomsense-http-service/models"

	"gorm.io/gorm"
)

func newActionService(db *gorm.DB) InterfaceActionService {
	cfg := testConfig()
	return NewActionService(db, cfg, NewNotificationService(db, cfg))
}

func TestActionLifecycleTransitions(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	action, err := svc.CreateAction(room.ID, models.ActionKindMaintenance)
	if err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	if action.State != models.ActionStateToDo {
		t.Fatalf("new action state = %v, want to_do", action.State)
	}
	if action.StartedAt != nil || action.CompletedAt != nil {
		t.Fatal("new action carries start or completion timestamps")
	}

	// validate before begin is a wrong-state transition
	repaired := true
	if _, err := svc.Validate(action.ID, ValidateActionInput{Repaired: &repaired}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Validate before Begin = %v, want ErrInvalidTransition", err)
	}

	begun, err := svc.Begin(action.ID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if begun.State != models.ActionStateDoing || begun.StartedAt == nil {
		t.Fatalf("begun action = (%v, started %v)", begun.State, begun.StartedAt)
	}

	// begin is not idempotent: the action is no longer TO_DO
	if _, err := svc.Begin(action.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Begin = %v, want ErrInvalidTransition", err)
	}

	done, err := svc.Validate(action.ID, ValidateActionInput{Repaired: &repaired})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if done.State != models.ActionStateDone || done.CompletedAt == nil {
		t.Fatalf("validated action = (%v, completed %v)", done.State, done.CompletedAt)
	}

	// done is terminal
	if _, err := svc.Begin(action.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Begin on done action = %v, want ErrInvalidTransition", err)
	}
	if err := svc.Cancel(action.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Cancel on done action = %v, want ErrInvalidTransition", err)
	}
}

func TestMaintenanceNotRepairedStaysDoing(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	action, err := svc.CreateAction(room.ID, models.ActionKindMaintenance)
	if err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	if _, err := svc.Begin(action.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := svc.Validate(action.ID, ValidateActionInput{}); !errors.Is(err, ErrRepairedFlagRequired) {
		t.Fatalf("Validate without flag = %v, want ErrRepairedFlagRequired", err)
	}

	notRepaired := false
	if _, err := svc.Validate(action.ID, ValidateActionInput{Repaired: &notRepaired}); !errors.Is(err, ErrNotRepaired) {
		t.Fatalf("Validate not repaired = %v, want ErrNotRepaired", err)
	}

	reloaded, err := svc.GetActionByID(action.ID)
	if err != nil {
		t.Fatalf("GetActionByID: %v", err)
	}
	if reloaded.State != models.ActionStateDoing {
		t.Errorf("action state after rejected validation = %v, want doing", reloaded.State)
	}
}

func TestMaintenanceRepairedRestoresSensorHealth(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	// sensor flagged broken by a previous evaluation
	if err := db.Model(room).Update("sensor_state", models.SensorStateNotWorking).Error; err != nil {
		t.Fatalf("priming sensor state: %v", err)
	}
	if err := db.Model(&models.AcquisitionSystem{}).Where("id = ?", *room.AcquisitionSystemID).
		Update("state", models.SensorStateNotWorking).Error; err != nil {
		t.Fatalf("priming system state: %v", err)
	}

	action, _ := svc.CreateAction(room.ID, models.ActionKindMaintenance)
	if _, err := svc.Begin(action.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	repaired := true
	done, err := svc.Validate(action.ID, ValidateActionInput{Repaired: &repaired})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if done.AcquisitionSystemID == nil {
		t.Error("repaired maintenance did not record the system")
	}

	var system models.AcquisitionSystem
	if err := db.First(&system, *room.AcquisitionSystemID).Error; err != nil {
		t.Fatalf("reloading system: %v", err)
	}
	if system.State != models.SensorStateLinked {
		t.Errorf("system state = %v, want linked", system.State)
	}
}

func TestAssignmentFlow(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)

	room := models.Room{Name: "D205", Floor: 2}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}

	action, err := svc.CreateAction(room.ID, models.ActionKindAssignment)
	if err != nil {
		t.Fatalf("CreateAction: %v", err)
	}

	// no unlinked system in the pool: begin redirects to system creation
	if _, err := svc.Begin(action.ID); !errors.Is(err, ErrNoUnlinkedSystem) {
		t.Fatalf("Begin without pool = %v, want ErrNoUnlinkedSystem", err)
	}

	system := models.AcquisitionSystem{Name: "ESP-007", AccessKey: "k", State: models.SensorStateNotLinked}
	if err := db.Create(&system).Error; err != nil {
		t.Fatalf("creating system: %v", err)
	}

	if _, err := svc.Begin(action.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// naming a missing system fails and keeps the action in DOING
	if _, err := svc.Validate(action.ID, ValidateActionInput{SystemName: "ESP-999"}); !errors.Is(err, ErrSystemNotFound) {
		t.Fatalf("Validate with unknown system = %v, want ErrSystemNotFound", err)
	}
	reloaded, _ := svc.GetActionByID(action.ID)
	if reloaded.State != models.ActionStateDoing {
		t.Fatalf("action state = %v, want doing", reloaded.State)
	}

	done, err := svc.Validate(action.ID, ValidateActionInput{SystemName: "ESP-007"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if done.State != models.ActionStateDone {
		t.Fatalf("action state = %v, want done", done.State)
	}

	var linkedRoom models.Room
	if err := db.First(&linkedRoom, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	if linkedRoom.AcquisitionSystemID == nil || *linkedRoom.AcquisitionSystemID != system.ID {
		t.Error("room not linked to the assigned system")
	}
	if linkedRoom.SensorState != models.SensorStateLinked || linkedRoom.State != models.RoomStateWaiting {
		t.Errorf("room after assignment = (%v, %v), want (waiting, linked)", linkedRoom.State, linkedRoom.SensorState)
	}

	var linkedSystem models.AcquisitionSystem
	if err := db.First(&linkedSystem, system.ID).Error; err != nil {
		t.Fatalf("reloading system: %v", err)
	}
	if linkedSystem.State != models.SensorStateLinked {
		t.Errorf("system state = %v, want linked", linkedSystem.State)
	}
}

func TestUnassignmentFlowWithNotification(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	manager := seedManager(t, db, "manager1")
	room := seedLinkedRoom(t, db, "D205", "ESP-007")
	systemID := *room.AcquisitionSystemID

	action, err := svc.CreateAction(room.ID, models.ActionKindUnassignment)
	if err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	if _, err := svc.Begin(action.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Validate(action.ID, ValidateActionInput{}); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var unlinkedRoom models.Room
	if err := db.First(&unlinkedRoom, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	if unlinkedRoom.AcquisitionSystemID != nil {
		t.Error("room still references the system")
	}
	if unlinkedRoom.SensorState != models.SensorStateNotLinked {
		t.Errorf("room sensor state = %v, want not_linked", unlinkedRoom.SensorState)
	}
	if unlinkedRoom.State != models.RoomStateNoData {
		t.Errorf("room state = %v, want no_data", unlinkedRoom.State)
	}

	var system models.AcquisitionSystem
	if err := db.First(&system, systemID).Error; err != nil {
		t.Fatalf("reloading system: %v", err)
	}
	if system.State != models.SensorStateNotLinked {
		t.Errorf("system state = %v, want not_linked", system.State)
	}

	var notifications []models.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("loading notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want exactly 1", len(notifications))
	}
	if notifications[0].UserID != manager.ID || notifications[0].RoomID != room.ID {
		t.Errorf("notification addressed to user %d room %d", notifications[0].UserID, notifications[0].RoomID)
	}
	if notifications[0].Read {
		t.Error("new notification already marked read")
	}
}

func TestCompletionWithoutManagerCreatesNoNotification(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	action, _ := svc.CreateAction(room.ID, models.ActionKindUnassignment)
	if _, err := svc.Begin(action.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.Validate(action.ID, ValidateActionInput{}); err != nil {
		t.Fatalf("Validate without manager: %v", err)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("counting notifications: %v", err)
	}
	if count != 0 {
		t.Errorf("notifications = %d, want 0 when no manager exists", count)
	}
}

func TestOpenAssignmentConflictPerRoom(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)

	room := models.Room{Name: "D205", Floor: 2}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}

	if _, err := svc.CreateAction(room.ID, models.ActionKindAssignment); err != nil {
		t.Fatalf("first CreateAction: %v", err)
	}
	if _, err := svc.CreateAction(room.ID, models.ActionKindAssignment); !errors.Is(err, ErrOpenActionConflict) {
		t.Fatalf("second CreateAction = %v, want ErrOpenActionConflict", err)
	}
}

func TestCreateMaintenanceIsIdempotentWhileOpen(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	first, err := svc.CreateAction(room.ID, models.ActionKindMaintenance)
	if err != nil {
		t.Fatalf("first CreateAction: %v", err)
	}
	second, err := svc.CreateAction(room.ID, models.ActionKindMaintenance)
	if err != nil {
		t.Fatalf("second CreateAction: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("duplicate open maintenance created: ids %d and %d", first.ID, second.ID)
	}
}

func TestCancelRemovesOpenAction(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	action, _ := svc.CreateAction(room.ID, models.ActionKindUnassignment)
	if err := svc.Cancel(action.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svc.GetActionByID(action.ID); !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("GetActionByID after cancel = %v, want ErrActionNotFound", err)
	}

	// the slot is free again
	if _, err := svc.CreateAction(room.ID, models.ActionKindUnassignment); err != nil {
		t.Fatalf("CreateAction after cancel: %v", err)
	}
}

func TestGetAllActionsPaginates(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)

	for i := 0; i < 5; i++ {
		room := models.Room{Name: fmt.Sprintf("D2%02d", i), Floor: 2}
		if err := db.Create(&room).Error; err != nil {
			t.Fatalf("creating room: %v", err)
		}
		if _, err := svc.CreateAction(room.ID, models.ActionKindAssignment); err != nil {
			t.Fatalf("creating action: %v", err)
		}
	}

	page, pagination, err := svc.GetAllActions(models.PaginationQuery{PageNum: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("GetAllActions: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if pagination.Total != 5 || pagination.PageNum != 1 || pagination.PageSize != 2 {
		t.Errorf("pagination = %+v", pagination)
	}

	last, _, err := svc.GetAllActions(models.PaginationQuery{PageNum: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("GetAllActions last page: %v", err)
	}
	if len(last) != 1 {
		t.Errorf("last page size = %d, want 1", len(last))
	}
}

func TestCreateActionGuardsLinkage(t *testing.T) {
	db := openTestDB(t)
	svc := newActionService(db)
	linked := seedLinkedRoom(t, db, "D205", "ESP-007")

	unlinked := models.Room{Name: "D206", Floor: 2}
	if err := db.Create(&unlinked).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}

	if _, err := svc.CreateAction(linked.ID, models.ActionKindAssignment); !errors.Is(err, ErrRoomAlreadyLinked) {
		t.Fatalf("assignment on linked room = %v, want ErrRoomAlreadyLinked", err)
	}
	if _, err := svc.CreateAction(unlinked.ID, models.ActionKindUnassignment); !errors.Is(err, ErrRoomNotLinked) {
		t.Fatalf("unassignment on unlinked room = %v, want ErrRoomNotLinked", err)
	}
}
