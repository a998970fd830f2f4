package models

import (
	"time"
)

// ActionKind represents the kind of operator work an action tracks
type ActionKind string

const (
	ActionKindAssignment   ActionKind = "assignment"
	ActionKindUnassignment ActionKind = "unassignment"
	ActionKindMaintenance  ActionKind = "maintenance"
)

// ActionState represents the lifecycle state of an action.
// Transitions only ever move forward: to_do -> doing -> done.
type ActionState string

const (
	ActionStateToDo  ActionState = "to_do"
	ActionStateDoing ActionState = "doing"
	ActionStateDone  ActionState = "done"
)

// Action represents a unit of operator work on a room
type Action struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Kind        ActionKind  `gorm:"type:varchar(20);not null" json:"kind"`
	State       ActionState `gorm:"type:varchar(10);default:'to_do'" json:"state"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at"`

	RoomID uint  `gorm:"not null;index" json:"room_id"`
	Room   *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	// Set on completion of assignment and repaired-maintenance actions
	AcquisitionSystemID *uint              `json:"acquisition_system_id"`
	AcquisitionSystem   *AcquisitionSystem `gorm:"foreignKey:AcquisitionSystemID" json:"acquisition_system,omitempty"`
}

// IsOpen reports whether the action has not yet completed
func (a *Action) IsOpen() bool {
	return a.State != ActionStateDone
}

// Label returns a human readable name for the action kind
func (k ActionKind) Label() string {
	switch k {
	case ActionKindAssignment:
		return "Assignment"
	case ActionKindUnassignment:
		return "Unassignment"
	case ActionKindMaintenance:
		return "Maintenance"
	default:
		return string(k)
	}
}
