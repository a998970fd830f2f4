package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"roomsense-http-service/models"
)

// january pins evaluations inside the heating period
func january() time.Time {
	return time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
}

func TestEvaluateRoomStableScenario(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(19), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	if result.State != models.RoomStateStable {
		t.Errorf("room state = %v, want %v", result.State, models.RoomStateStable)
	}
	if result.SensorState != models.SensorStateLinked {
		t.Errorf("sensor state = %v, want %v", result.SensorState, models.SensorStateLinked)
	}
	if !result.Refreshed {
		t.Error("expected the gateway to be called")
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 0 {
		t.Errorf("open maintenance actions = %d, want 0", n)
	}

	// persisted state matches the result
	var persisted models.Room
	if err := db.First(&persisted, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	if persisted.State != models.RoomStateStable || persisted.SensorState != models.SensorStateLinked {
		t.Errorf("persisted (%v, %v), want (stable, linked)", persisted.State, persisted.SensorState)
	}
	if persisted.LastEvaluatedAt == nil {
		t.Error("LastEvaluatedAt not persisted")
	}

	var system models.AcquisitionSystem
	if err := db.First(&system, *persisted.AcquisitionSystemID).Error; err != nil {
		t.Fatalf("reloading system: %v", err)
	}
	if system.Temperature == nil || *system.Temperature != 19 {
		t.Error("refreshed temperature not persisted on the system")
	}
}

func TestEvaluateRoomCriticalTemperatureAndCo2(t *testing.T) {
	// temperature below the heating criticalMin, CO2 past the critical
	// ceiling but still plausible
	gateway := &stubGateway{readings: readingsOf(floatPtr(15), nil, intPtr(1800))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	if result.State != models.RoomStateCritical {
		t.Errorf("room state = %v, want %v", result.State, models.RoomStateCritical)
	}
	if result.SensorState != models.SensorStateLinked {
		t.Errorf("sensor state = %v, want %v", result.SensorState, models.SensorStateLinked)
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 0 {
		t.Errorf("open maintenance actions = %d, want 0", n)
	}
}

func TestEvaluateRoomSilentSensorYieldsWaiting(t *testing.T) {
	gateway := &stubGateway{readings: &models.ReadingSet{}}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	if result.State != models.RoomStateWaiting {
		t.Errorf("room state = %v, want %v", result.State, models.RoomStateWaiting)
	}
	// A silent sensor is not asserted broken: health stays as it was.
	if result.SensorState != models.SensorStateLinked {
		t.Errorf("sensor state = %v, want %v", result.SensorState, models.SensorStateLinked)
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 0 {
		t.Errorf("open maintenance actions = %d, want 0", n)
	}
}

func TestEvaluateRoomAberrantReadingCreatesOneMaintenance(t *testing.T) {
	// 50 degrees is outside the plausible range: malfunction, not heat
	gateway := &stubGateway{readings: readingsOf(floatPtr(50), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	if result.SensorState != models.SensorStateNotWorking {
		t.Errorf("sensor state = %v, want %v", result.SensorState, models.SensorStateNotWorking)
	}
	if !result.MaintenanceCreated {
		t.Error("expected a maintenance action to be created")
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 1 {
		t.Fatalf("open maintenance actions = %d, want 1", n)
	}

	// second evaluation before the action is resolved must not duplicate
	var reloaded models.Room
	if err := db.First(&reloaded, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	reloaded.LastEvaluatedAt = nil // force a re-fetch
	if err := db.Save(&reloaded).Error; err != nil {
		t.Fatalf("clearing staleness marker: %v", err)
	}

	result, err = svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("second EvaluateRoom: %v", err)
	}
	if result.MaintenanceCreated {
		t.Error("second evaluation reported a new maintenance action")
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 1 {
		t.Errorf("open maintenance actions after second run = %d, want 1", n)
	}
}

func TestEvaluateRoomAllAberrantHoldsPreviousState(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(50), intPtr(10), intPtr(3000))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")
	// pretend the room was classified stable earlier
	if err := db.Model(room).Update("state", models.RoomStateStable).Error; err != nil {
		t.Fatalf("priming room state: %v", err)
	}

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	// garbage data must not fabricate a fresh verdict
	if result.State != models.RoomStateStable {
		t.Errorf("room state = %v, want held %v", result.State, models.RoomStateStable)
	}
	if result.SensorState != models.SensorStateNotWorking {
		t.Errorf("sensor state = %v, want %v", result.SensorState, models.SensorStateNotWorking)
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 1 {
		t.Errorf("open maintenance actions = %d, want 1", n)
	}
}

func TestEvaluateRoomGatewayFailureKeepsState(t *testing.T) {
	gateway := &stubGateway{err: ErrSensorSourceUnavailable}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	_, err := svc.EvaluateRoom(room.ID)
	if !errors.Is(err, ErrSensorSourceUnavailable) {
		t.Fatalf("EvaluateRoom error = %v, want ErrSensorSourceUnavailable", err)
	}

	var persisted models.Room
	if err := db.First(&persisted, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	if persisted.State != models.RoomStateWaiting || persisted.SensorState != models.SensorStateLinked {
		t.Errorf("state changed on gateway failure: (%v, %v)", persisted.State, persisted.SensorState)
	}
	if persisted.LastEvaluatedAt != nil {
		t.Error("LastEvaluatedAt set despite failed refresh")
	}
}

func TestEvaluateRoomUnlinkedRoomNeverAdvances(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(19), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := models.Room{Name: "D206", Floor: 2}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}
	if result.State != models.RoomStateNoData || result.SensorState != models.SensorStateNotLinked {
		t.Errorf("unlinked room advanced to (%v, %v)", result.State, result.SensorState)
	}
	if gateway.calls != 0 {
		t.Errorf("gateway called %d times for an unlinked room", gateway.calls)
	}
}

func TestEvaluateRoomStalenessGateSkipsGateway(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(19), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	// freshly evaluated moments ago, with cached readings on the system
	evaluatedAt := january().Add(-30 * time.Second)
	if err := db.Model(room).Update("last_evaluated_at", evaluatedAt).Error; err != nil {
		t.Fatalf("priming staleness marker: %v", err)
	}
	err := db.Model(&models.AcquisitionSystem{}).
		Where("id = ?", *room.AcquisitionSystemID).
		Updates(map[string]interface{}{"temperature": 15.0, "humidity": 45, "co2": 600}).Error
	if err != nil {
		t.Fatalf("priming cached readings: %v", err)
	}

	result, err := svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom: %v", err)
	}

	if gateway.calls != 0 {
		t.Errorf("gateway called %d times inside the staleness window", gateway.calls)
	}
	if result.Refreshed {
		t.Error("local reconcile reported as a refresh")
	}
	// reconcile still re-classifies from the cached values
	if result.State != models.RoomStateCritical {
		t.Errorf("room state = %v, want %v from cached 15 degrees", result.State, models.RoomStateCritical)
	}

	// a stale marker makes the evaluator fetch again
	staleAt := january().Add(-400 * time.Second)
	if err := db.Model(room).Update("last_evaluated_at", staleAt).Error; err != nil {
		t.Fatalf("aging staleness marker: %v", err)
	}
	result, err = svc.EvaluateRoom(room.ID)
	if err != nil {
		t.Fatalf("EvaluateRoom after aging: %v", err)
	}
	if gateway.calls != 1 || !result.Refreshed {
		t.Errorf("gateway calls = %d, refreshed = %v, want 1 and true", gateway.calls, result.Refreshed)
	}
}

// Views inside the staleness window serve cached readings, but they must
// not push the window forward: only a gateway refresh restamps the room,
// so the readings are re-fetched once they age past the bound no matter
// how often the room is viewed.
func TestEvaluateRoomFrequentViewsStillRefresh(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(19), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig() // staleness bound 180s
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))

	current := january()
	svc.now = func() time.Time { return current }

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	if _, err := svc.EvaluateRoom(room.ID); err != nil {
		t.Fatalf("initial EvaluateRoom: %v", err)
	}
	if gateway.calls != 1 {
		t.Fatalf("initial gateway calls = %d, want 1", gateway.calls)
	}

	// ten views 120s apart: every other view crosses the 180s bound
	for i := 0; i < 10; i++ {
		current = current.Add(120 * time.Second)
		if _, err := svc.EvaluateRoom(room.ID); err != nil {
			t.Fatalf("EvaluateRoom at view %d: %v", i, err)
		}
	}
	if gateway.calls != 6 {
		t.Errorf("gateway calls after views every 120s = %d, want 6", gateway.calls)
	}

	var persisted models.Room
	if err := db.First(&persisted, room.ID).Error; err != nil {
		t.Fatalf("reloading room: %v", err)
	}
	if persisted.LastEvaluatedAt == nil || !persisted.LastEvaluatedAt.Equal(current) {
		t.Errorf("last refresh stamp = %v, want %v", persisted.LastEvaluatedAt, current)
	}
}

func TestConcurrentEvaluationsCreateOneMaintenance(t *testing.T) {
	// aberrant temperature on both evaluations
	gateway := &stubGateway{readings: readingsOf(floatPtr(50), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	room := seedLinkedRoom(t, db, "D205", "ESP-007")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.EvaluateRoom(room.ID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("EvaluateRoom %d: %v", i, err)
		}
	}
	if n := openMaintenanceCount(t, db, room.ID); n != 1 {
		t.Errorf("open maintenance actions after concurrent evaluations = %d, want exactly 1", n)
	}
}

func TestEvaluateAllRoomsSkipsUnlinked(t *testing.T) {
	gateway := &stubGateway{readings: readingsOf(floatPtr(21), intPtr(45), intPtr(600))}

	db := openTestDB(t)
	cfg := testConfig()
	svc := NewEvaluatorService(db, cfg, gateway, NewThresholdService(db, cfg))
	svc.now = january

	linked := seedLinkedRoom(t, db, "D205", "ESP-007")
	unlinked := models.Room{Name: "D206", Floor: 2}
	if err := db.Create(&unlinked).Error; err != nil {
		t.Fatalf("creating room: %v", err)
	}

	outcomes, err := svc.EvaluateAllRooms()
	if err != nil {
		t.Fatalf("EvaluateAllRooms: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1 (only the linked room)", len(outcomes))
	}
	if outcomes[0].RoomID != linked.ID || outcomes[0].Result == nil {
		t.Fatalf("unexpected outcome %+v", outcomes[0])
	}
	if outcomes[0].Result.State != models.RoomStateStable {
		t.Errorf("room state = %v, want %v", outcomes[0].Result.State, models.RoomStateStable)
	}
}

func TestComputeOutcomeSeverityReduction(t *testing.T) {
	policy := models.DefaultThresholdPolicy()

	// at-risk CO2 dominates stable temperature and humidity
	out := computeOutcome(policy, readingsOf(floatPtr(21), intPtr(45), intPtr(1200)), time.January)
	if out.RoomState != models.RoomStateAtRisk {
		t.Errorf("room state = %v, want %v", out.RoomState, models.RoomStateAtRisk)
	}
	if out.SensorState != models.SensorStateLinked || out.EnsureMaintenance {
		t.Errorf("unexpected sensor outcome %+v", out)
	}

	// a null metric contributes nothing
	out = computeOutcome(policy, readingsOf(nil, intPtr(45), nil), time.January)
	if out.RoomState != models.RoomStateStable {
		t.Errorf("room state = %v, want %v", out.RoomState, models.RoomStateStable)
	}
}
