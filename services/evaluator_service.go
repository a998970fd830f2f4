package services

import (
	"fmt"
	"sync"
	"time"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/gorm"
)

// EvaluationResult summarizes one room refresh
type EvaluationResult struct {
	RoomID             uint               `json:"room_id"`
	RoomName           string             `json:"room_name"`
	State              models.RoomState   `json:"state"`
	SensorState        models.SensorState `json:"sensor_state"`
	Refreshed          bool               `json:"refreshed"` // gateway was actually called
	MaintenanceCreated bool               `json:"maintenance_created"`
}

// RoomRefreshOutcome is the per-room result of a batch refresh.
// A failed room carries its error message and does not abort the batch.
type RoomRefreshOutcome struct {
	RoomID   uint              `json:"room_id"`
	RoomName string            `json:"room_name"`
	Result   *EvaluationResult `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// InterfaceEvaluatorService defines the room state evaluator interface
type InterfaceEvaluatorService interface {
	EvaluateRoom(roomID uint) (*EvaluationResult, error)
	EvaluateAllRooms() ([]RoomRefreshOutcome, error)
}

// EvaluatorService computes the environmental state of rooms from their
// acquisition system readings and the current threshold policy
type EvaluatorService struct {
	DB        *gorm.DB
	Config    *config.Config
	Gateway   InterfaceSensorGatewayService
	Threshold InterfaceThresholdService

	// injectable clock, used for staleness checks and the heating period
	now func() time.Time

	// per-room serialization so two concurrent refreshes cannot race the
	// ensure-one-open-maintenance check-then-create
	roomLocks sync.Map
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(db *gorm.DB, cfg *config.Config, gateway InterfaceSensorGatewayService, threshold InterfaceThresholdService) *EvaluatorService {
	return &EvaluatorService{
		DB:        db,
		Config:    cfg,
		Gateway:   gateway,
		Threshold: threshold,
		now:       time.Now,
	}
}

// evaluationOutcome is the pure verdict computed from one reading set
type evaluationOutcome struct {
	RoomState         models.RoomState
	SensorState       models.SensorState
	HoldRoomState     bool // every present reading was aberrant
	HoldSensorState   bool // silent capture, keep prior health
	EnsureMaintenance bool
}

// computeOutcome classifies one reading set against the policy. It is
// deliberately free of persistence so it can be exercised directly.
//
// A fully silent capture yields WAITING and leaves sensor health alone: a
// sensor between captures is not the same thing as a malfunctioning one.
// Malfunction is only asserted on implausible data, and when every present
// reading is implausible the previous room classification is held rather
// than deriving a verdict from garbage values.
func computeOutcome(policy *models.ThresholdPolicy, readings *models.ReadingSet, month time.Month) evaluationOutcome {
	if readings.AllNull() {
		return evaluationOutcome{
			RoomState:       models.RoomStateWaiting,
			HoldSensorState: true,
		}
	}

	var classes []models.RoomState
	aberrant := false

	if readings.Temperature != nil {
		if models.IsTemperatureAberrant(*readings.Temperature) {
			aberrant = true
		} else {
			classes = append(classes, policy.ClassifyTemperature(*readings.Temperature, models.IsHeatingPeriod(month)))
		}
	}
	if readings.Co2 != nil {
		if models.IsCo2Aberrant(*readings.Co2) {
			aberrant = true
		} else {
			classes = append(classes, policy.ClassifyCo2(*readings.Co2))
		}
	}
	if readings.Humidity != nil {
		if models.IsHumidityAberrant(*readings.Humidity) {
			aberrant = true
		} else {
			classes = append(classes, policy.ClassifyHumidity(*readings.Humidity))
		}
	}

	out := evaluationOutcome{}
	if aberrant {
		out.SensorState = models.SensorStateNotWorking
		out.EnsureMaintenance = true
	} else {
		out.SensorState = models.SensorStateLinked
	}

	if len(classes) == 0 {
		out.HoldRoomState = true
	} else {
		out.RoomState = models.MostSevere(classes...)
	}
	return out
}

func (s *EvaluatorService) lockRoom(roomID uint) *sync.Mutex {
	mu, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// EvaluateRoom refreshes the environmental state of one room.
//
// Rooms without a linked acquisition system are never advanced; they stay
// at (no_data, not_linked). A gateway failure aborts the refresh for this
// room only, leaving all persisted state untouched.
func (s *EvaluatorService) EvaluateRoom(roomID uint) (*EvaluationResult, error) {
	mu := s.lockRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	var room models.Room
	if err := s.DB.Preload("AcquisitionSystem").First(&room, roomID).Error; err != nil {
		return nil, err
	}

	if !room.IsLinked() || room.AcquisitionSystem == nil {
		return &EvaluationResult{
			RoomID:      room.ID,
			RoomName:    room.Name,
			State:       room.State,
			SensorState: room.SensorState,
		}, nil
	}

	policy, err := s.Threshold.GetPolicy()
	if err != nil {
		return nil, err
	}

	now := s.now()
	system := room.AcquisitionSystem

	staleness := time.Duration(s.Config.SensorStalenessSecs) * time.Second
	fresh := room.LastEvaluatedAt != nil && now.Sub(*room.LastEvaluatedAt) < staleness

	var readings *models.ReadingSet
	refreshed := false
	if fresh {
		// Local reconcile: re-run classification on the cached values
		// without hitting the gateway.
		readings = system.CachedReadings()
	} else {
		readings, err = s.Gateway.FetchLatest(system)
		if err != nil {
			return nil, fmt.Errorf("refresh failed for room %s: %w", room.Name, err)
		}
		refreshed = true
	}

	outcome := computeOutcome(policy, readings, now.Month())

	if !outcome.HoldRoomState && room.State != outcome.RoomState {
		room.PreviousState = room.State
		room.State = outcome.RoomState
	}
	if !outcome.HoldSensorState {
		room.SensorState = outcome.SensorState
		system.State = outcome.SensorState
	}
	// The timestamp marks a gateway refresh. A local reconcile must not
	// touch it, or frequent views would slide the staleness window forward
	// and the readings would never be re-fetched.
	if refreshed {
		room.LastEvaluatedAt = &now
		system.ApplyReadings(readings)
	}

	maintenanceCreated := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(system).Error; err != nil {
			return err
		}
		if err := tx.Save(&room).Error; err != nil {
			return err
		}
		if outcome.EnsureMaintenance {
			created, err := ensureOpenMaintenance(tx, room.ID)
			if err != nil {
				return err
			}
			maintenanceCreated = created
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &EvaluationResult{
		RoomID:             room.ID,
		RoomName:           room.Name,
		State:              room.State,
		SensorState:        room.SensorState,
		Refreshed:          refreshed,
		MaintenanceCreated: maintenanceCreated,
	}, nil
}

// ensureOpenMaintenance creates a TO_DO maintenance action for the room
// unless one is already open. Runs inside the evaluation transaction and
// under the per-room lock, so the check-then-create cannot duplicate.
func ensureOpenMaintenance(tx *gorm.DB, roomID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Action{}).
		Where("room_id = ? AND kind = ? AND state <> ?",
			roomID, models.ActionKindMaintenance, models.ActionStateDone).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	action := models.Action{
		Kind:   models.ActionKindMaintenance,
		State:  models.ActionStateToDo,
		RoomID: roomID,
	}
	if err := tx.Create(&action).Error; err != nil {
		return false, err
	}
	return true, nil
}

// EvaluateAllRooms refreshes every room that has a linked acquisition
// system. Rooms are evaluated independently; one failing room does not
// abort the others.
func (s *EvaluatorService) EvaluateAllRooms() ([]RoomRefreshOutcome, error) {
	var rooms []models.Room
	if err := s.DB.Where("acquisition_system_id IS NOT NULL").Find(&rooms).Error; err != nil {
		return nil, err
	}

	outcomes := make([]RoomRefreshOutcome, len(rooms))
	var wg sync.WaitGroup
	for i, room := range rooms {
		wg.Add(1)
		go func(i int, roomID uint, roomName string) {
			defer wg.Done()
			result, err := s.EvaluateRoom(roomID)
			outcome := RoomRefreshOutcome{RoomID: roomID, RoomName: roomName}
			if err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.Result = result
			}
			outcomes[i] = outcome
		}(i, room.ID, room.Name)
	}
	wg.Wait()

	return outcomes, nil
}
