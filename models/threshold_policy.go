package models

import (
	"time"
)

// CO2 boundaries (ppm). Fixed, not configurable.
const (
	Co2CriticalMin = 400
	Co2WarningMin  = 1000
	Co2CriticalMax = 1500
	Co2ErrorMax    = 2000
)

// Aberrant-value boundaries. A reading outside its bound is physically
// implausible and taken as evidence of sensor malfunction, never as a
// real environmental condition.
const (
	AberrantTemperatureMin = 10.0
	AberrantTemperatureMax = 40.0
	AberrantHumidityMin    = 20
	AberrantHumidityMax    = 100
	AberrantCo2Min         = 400
	AberrantCo2Max         = 2000
)

// BoundGroup holds one configurable set of classification boundaries.
// The strict ordering criticalMin < warningMin < warningMax < criticalMax
// is required and checked on every configuration change.
type BoundGroup struct {
	CriticalMin float64 `json:"critical_min"`
	WarningMin  float64 `json:"warning_min"`
	WarningMax  float64 `json:"warning_max"`
	CriticalMax float64 `json:"critical_max"`
}

// Valid reports whether the group respects the strict ascending ordering
func (g BoundGroup) Valid() bool {
	return g.CriticalMin < g.WarningMin &&
		g.WarningMin < g.WarningMax &&
		g.WarningMax < g.CriticalMax
}

// classify places a plausible value on the group's bands
func (g BoundGroup) classify(v float64) RoomState {
	if v < g.CriticalMin || v > g.CriticalMax {
		return RoomStateCritical
	}
	if v < g.WarningMin || v > g.WarningMax {
		return RoomStateAtRisk
	}
	return RoomStateStable
}

// ThresholdPolicy is the configurable set of boundaries used to classify
// readings. Exactly one canonical row exists per deployment; evaluations
// read a snapshot of it, they never mutate it.
type ThresholdPolicy struct {
	BaseModel
	HeatingTemperature    BoundGroup `gorm:"embedded;embeddedPrefix:heating_temp_" json:"heating_temperature"`
	NonHeatingTemperature BoundGroup `gorm:"embedded;embeddedPrefix:non_heating_temp_" json:"non_heating_temperature"`
	Humidity              BoundGroup `gorm:"embedded;embeddedPrefix:humidity_" json:"humidity"`
}

// DefaultThresholdPolicy returns the policy a fresh deployment starts with.
// The defaults always satisfy the ordering invariant.
func DefaultThresholdPolicy() *ThresholdPolicy {
	return &ThresholdPolicy{
		HeatingTemperature:    BoundGroup{CriticalMin: 17, WarningMin: 19, WarningMax: 24, CriticalMax: 28},
		NonHeatingTemperature: BoundGroup{CriticalMin: 16, WarningMin: 18, WarningMax: 26, CriticalMax: 30},
		Humidity:              BoundGroup{CriticalMin: 30, WarningMin: 40, WarningMax: 60, CriticalMax: 70},
	}
}

// Validate reports whether every configurable group respects the
// required strict ordering
func (p *ThresholdPolicy) Validate() bool {
	return p.HeatingTemperature.Valid() &&
		p.NonHeatingTemperature.Valid() &&
		p.Humidity.Valid()
}

// IsHeatingPeriod reports whether the given month falls in the heating
// season, November through April inclusive. Fixed calendar rule.
func IsHeatingPeriod(month time.Month) bool {
	return month >= time.November || month <= time.April
}

// IsTemperatureAberrant reports whether a temperature value is implausible
func IsTemperatureAberrant(v float64) bool {
	return v < AberrantTemperatureMin || v > AberrantTemperatureMax
}

// IsHumidityAberrant reports whether a humidity value is implausible
func IsHumidityAberrant(v int) bool {
	return v < AberrantHumidityMin || v > AberrantHumidityMax
}

// IsCo2Aberrant reports whether a CO2 value is implausible
func IsCo2Aberrant(v int) bool {
	return v < AberrantCo2Min || v > AberrantCo2Max
}

// ClassifyTemperature classifies a plausible temperature against the
// bound set selected by the heating-period flag. Aberrant values must be
// filtered out by the caller; classification is only meaningful on
// plausible data.
func (p *ThresholdPolicy) ClassifyTemperature(v float64, heatingPeriod bool) RoomState {
	if heatingPeriod {
		return p.HeatingTemperature.classify(v)
	}
	return p.NonHeatingTemperature.classify(v)
}

// ClassifyHumidity classifies a plausible humidity percentage
func (p *ThresholdPolicy) ClassifyHumidity(v int) RoomState {
	return p.Humidity.classify(float64(v))
}

// ClassifyCo2 classifies a plausible CO2 concentration against the fixed
// bands. Values beyond the critical ceiling are critical up to the error
// ceiling; past it they are aberrant and never reach this function.
func (p *ThresholdPolicy) ClassifyCo2(v int) RoomState {
	if v < Co2CriticalMin || v > Co2CriticalMax {
		return RoomStateCritical
	}
	if v > Co2WarningMin {
		return RoomStateAtRisk
	}
	return RoomStateStable
}
