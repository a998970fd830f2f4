package models

import (
	"time"
)

// SensorState represents the health of an acquisition system
type SensorState string

const (
	SensorStateNotLinked  SensorState = "not_linked"
	SensorStateLinked     SensorState = "linked"
	SensorStateNotWorking SensorState = "not_working"
)

// AcquisitionSystem represents a sensor unit reporting temperature,
// humidity and CO2 for the room it is linked to
type AcquisitionSystem struct {
	BaseModel
	Name      string      `gorm:"type:varchar(50);unique;not null" json:"name"`
	AccessKey string      `gorm:"type:varchar(64);not null" json:"-"` // per-system credential for the data source
	State     SensorState `gorm:"type:varchar(20);default:'not_linked'" json:"state"`

	// Latest captured values. Null until the first successful capture,
	// and null per metric whenever the source reported no data for it.
	Temperature *float64   `json:"temperature"`
	Humidity    *int       `json:"humidity"`
	Co2         *int       `json:"co2"`
	CapturedAt  *time.Time `json:"captured_at"`
}

// ReadingSet is one capture of the three metrics of an acquisition system.
// A nil field means the source had no data for that metric.
type ReadingSet struct {
	Temperature *float64   `json:"temperature"`
	Humidity    *int       `json:"humidity"`
	Co2         *int       `json:"co2"`
	CapturedAt  *time.Time `json:"captured_at"`
}

// AllNull reports whether the capture carries no value at all
func (r *ReadingSet) AllNull() bool {
	return r.Temperature == nil && r.Humidity == nil && r.Co2 == nil
}

// CachedReadings rebuilds a reading set from the values persisted on the
// system, for re-classification without a gateway call.
func (s *AcquisitionSystem) CachedReadings() *ReadingSet {
	return &ReadingSet{
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Co2:         s.Co2,
		CapturedAt:  s.CapturedAt,
	}
}

// ApplyReadings stores a capture on the system
func (s *AcquisitionSystem) ApplyReadings(r *ReadingSet) {
	s.Temperature = r.Temperature
	s.Humidity = r.Humidity
	s.Co2 = r.Co2
	if r.CapturedAt != nil {
		s.CapturedAt = r.CapturedAt
	}
}
