package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"roomsense-http-service/config"
	"roomsense-http-service/models"
)

// ErrSensorSourceUnavailable marks a transient failure of the acquisition
// data source. Callers keep prior state and report the refresh as failed.
var ErrSensorSourceUnavailable = errors.New("sensor data source unavailable")

// InterfaceSensorGatewayService defines the sensor gateway interface
type InterfaceSensorGatewayService interface {
	FetchLatest(system *models.AcquisitionSystem) (*models.ReadingSet, error)
}

// SensorGatewayService fetches the latest reading set of an acquisition
// system from the external data source
type SensorGatewayService struct {
	Config *config.Config
	Redis  *RedisService // optional read-through cache, may be nil
	client *http.Client
}

// SensorAPIResponse represents the response from the acquisition data source
type SensorAPIResponse struct {
	System   string `json:"system"`
	Readings []struct {
		Kind       string     `json:"kind"` // temperature, humidity, co2
		Value      *float64   `json:"value"`
		CapturedAt *time.Time `json:"captured_at"`
	} `json:"readings"`
}

// NewSensorGatewayService creates a new sensor gateway service
func NewSensorGatewayService(cfg *config.Config, redisService *RedisService) *SensorGatewayService {
	return &SensorGatewayService{
		Config: cfg,
		Redis:  redisService,
		client: &http.Client{
			// A single unreachable system must not stall a whole listing
			Timeout: time.Duration(cfg.SensorFetchTimeout) * time.Second,
		},
	}
}

// FetchLatest fetches the most recent reading set for one acquisition
// system. One attempt per call, no retry.
func (s *SensorGatewayService) FetchLatest(system *models.AcquisitionSystem) (*models.ReadingSet, error) {
	cacheKey := "readings:" + system.Name
	if s.Redis != nil {
		var cached models.ReadingSet
		if err := s.Redis.Get(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/api/systems/%s/latest?key=%s",
		s.Config.SensorAPIURL,
		url.PathEscape(system.Name),
		url.QueryEscape(system.AccessKey))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building sensor request: %w", err)
	}
	if s.Config.SensorAPIKey != "" {
		req.Header.Set("X-Api-Key", s.Config.SensorAPIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSensorSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: source returned status %d for system %s",
			ErrSensorSourceUnavailable, resp.StatusCode, system.Name)
	}

	var apiResp SensorAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSensorSourceUnavailable, err)
	}

	readings := &models.ReadingSet{}
	for _, r := range apiResp.Readings {
		if r.Value == nil {
			continue
		}
		switch r.Kind {
		case "temperature":
			v := *r.Value
			readings.Temperature = &v
		case "humidity":
			v := int(*r.Value)
			readings.Humidity = &v
		case "co2":
			v := int(*r.Value)
			readings.Co2 = &v
		}
		if r.CapturedAt != nil && (readings.CapturedAt == nil || r.CapturedAt.After(*readings.CapturedAt)) {
			readings.CapturedAt = r.CapturedAt
		}
	}

	if s.Redis != nil {
		ttl := time.Duration(s.Config.SensorStalenessSecs) * time.Second
		_ = s.Redis.Set(cacheKey, readings, ttl)
	}

	return readings, nil
}
