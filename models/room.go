package models

import (
	"time"
)

// RoomState represents the environmental state of a room
type RoomState string

const (
	RoomStateNoData   RoomState = "no_data"
	RoomStateWaiting  RoomState = "waiting"
	RoomStateStable   RoomState = "stable"
	RoomStateAtRisk   RoomState = "at_risk"
	RoomStateCritical RoomState = "critical"
)

// roomStateRank is the total severity order over room states.
// The overall verdict for a room is the most severe of its per-metric
// classifications, so comparisons must never fall back on string order.
var roomStateRank = map[RoomState]int{
	RoomStateNoData:   0,
	RoomStateWaiting:  1,
	RoomStateStable:   2,
	RoomStateAtRisk:   3,
	RoomStateCritical: 4,
}

// Severity returns the rank of a room state in the severity order
func (s RoomState) Severity() int {
	return roomStateRank[s]
}

// MostSevere reduces a set of states to the most severe one.
// Called with no arguments it returns RoomStateNoData.
func MostSevere(states ...RoomState) RoomState {
	result := RoomStateNoData
	for _, s := range states {
		if s.Severity() > result.Severity() {
			result = s
		}
	}
	return result
}

// CardinalDirection of the windows of a room, display only
type CardinalDirection string

const (
	DirectionNorth CardinalDirection = "N"
	DirectionSouth CardinalDirection = "S"
	DirectionEast  CardinalDirection = "E"
	DirectionWest  CardinalDirection = "W"
)

// Room represents a monitored building room
type Room struct {
	BaseModel
	Name      string            `gorm:"type:varchar(50);unique;not null" json:"name"`
	Floor     int               `gorm:"not null" json:"floor"`
	Direction CardinalDirection `gorm:"type:varchar(2)" json:"direction"`
	Heaters   int               `json:"heaters"`
	Windows   int               `json:"windows"`
	Surface   float64           `json:"surface"` // square meters, display only

	State           RoomState   `gorm:"type:varchar(20);default:'no_data'" json:"state"`
	SensorState     SensorState `gorm:"type:varchar(20);default:'not_linked'" json:"sensor_state"`
	PreviousState   RoomState   `gorm:"type:varchar(20)" json:"previous_state"`
	LastEvaluatedAt *time.Time  `json:"last_evaluated_at"`

	// The Room <-> AcquisitionSystem link is stored once, here. The reverse
	// lookup on the system side is derived through this column, so the two
	// sides cannot drift apart.
	AcquisitionSystemID *uint              `gorm:"unique" json:"acquisition_system_id"`
	AcquisitionSystem   *AcquisitionSystem `gorm:"foreignKey:AcquisitionSystemID" json:"acquisition_system,omitempty"`

	Actions []Action `gorm:"foreignKey:RoomID" json:"actions,omitempty"`
}

// IsLinked reports whether the room currently owns an acquisition system
func (r *Room) IsLinked() bool {
	return r.AcquisitionSystemID != nil
}
