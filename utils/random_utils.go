package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateAccessKey generates a fresh access key for an acquisition
// system, used as its credential against the sensor data source
func GenerateAccessKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
