package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/repository"
)

type healthService struct {
	repo           repository.Repository
	redisClient    *redis.Client
	sweeperService SweeperService
	messageService MessageService
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	sweeperService SweeperService,
	messageService MessageService,
) HealthService {
	return &healthService{
		repo:           repo,
		redisClient:    redisClient,
		sweeperService: sweeperService,
		messageService: messageService,
	}
}

func (s *healthService) GetHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:          api.Healthy,
		StorageMode:     s.repo.Mode(),
		StorageLocation: s.repo.Location(),
	}

	status.DatabaseStatus = s.checkDatabaseHealth(ctx)
	status.RedisStatus = s.checkRedisHealth(ctx)

	switch {
	case !s.sweeperService.Enabled():
		status.SweeperStatus = api.HealthResponseSweeperStatusDisabled
	case s.sweeperService.IsRunning():
		status.SweeperStatus = api.HealthResponseSweeperStatusRunning
	default:
		status.SweeperStatus = api.HealthResponseSweeperStatusStopped
	}

	state, requests, failures := s.messageService.GetCircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus == api.HealthResponseDatabaseStatusDisconnected ||
		status.RedisStatus != api.HealthResponseRedisStatusConnected {
		status.Status = api.Unhealthy
	}

	// An open breaker degrades the service but keeps it reachable.
	if state == api.Open {
		status.Status = api.Degraded
	}

	return status
}

func (s *healthService) checkDatabaseHealth(ctx context.Context) api.HealthResponseDatabaseStatus {
	if s.repo.Mode() != config.StorageModePostgres {
		return api.HealthResponseDatabaseStatusNotConfigured
	}
	if err := s.repo.Ping(ctx); err != nil {
		return api.HealthResponseDatabaseStatusDisconnected
	}
	return api.HealthResponseDatabaseStatusConnected
}

func (s *healthService) checkRedisHealth(ctx context.Context) api.HealthResponseRedisStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return api.HealthResponseRedisStatusDisconnected
	}
	return api.HealthResponseRedisStatusConnected
}
