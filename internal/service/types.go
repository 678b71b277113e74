package service

import (
	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/models"
)

// SendOutcome is the egress adapter's result. Warning is non-empty when the
// provider accepted the message but local persistence failed.
type SendOutcome struct {
	Message *models.Message
	Warning string
}

type HealthStatus struct {
	Status               api.HealthResponseStatus              `json:"status"`
	DatabaseStatus       api.HealthResponseDatabaseStatus      `json:"database_status"`
	RedisStatus          api.HealthResponseRedisStatus         `json:"redis_status"`
	StorageMode          string                                `json:"storage_mode"`
	StorageLocation      string                                `json:"storage_location"`
	SweeperStatus        api.HealthResponseSweeperStatus       `json:"sweeper_status"`
	CircuitBreakerStatus string                                `json:"circuit_breaker_status,omitempty"`
	CircuitBreakerState  api.HealthResponseCircuitBreakerState `json:"circuit_breaker_state,omitempty"`
}
