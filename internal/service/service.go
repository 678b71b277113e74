package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/provider"
	"github.com/ppopeskul/sms-relay/internal/repository"
)

type Service struct {
	Messages MessageService
	Threads  ThreadService
	Sweeper  SweeperService
	Health   HealthService
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	providerClient provider.Client,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	messageService := NewMessageService(cfg, repo, providerClient, redisClient, logger)
	threadService := NewThreadService(repo)
	sweeperService := NewSweeperService(cfg, repo, logger)
	healthService := NewHealthService(repo, redisClient, sweeperService, messageService)

	return &Service{
		Messages: messageService,
		Threads:  threadService,
		Sweeper:  sweeperService,
		Health:   healthService,
	}
}
