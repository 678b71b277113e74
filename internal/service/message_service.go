package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/phone"
	"github.com/ppopeskul/sms-relay/internal/provider"
	"github.com/ppopeskul/sms-relay/internal/repository"
)

// WarningNotRecorded is surfaced when the provider accepted a message but
// the local write failed afterwards: a degraded success, not a hard error.
const WarningNotRecorded = "message sent but could not be recorded locally; it will be missing from the thread view"

type messageService struct {
	cfg            *config.Config
	repo           repository.Repository
	providerClient provider.Client
	redisClient    *redis.Client
	logger         *zap.Logger
	circuitBreaker *CircuitBreaker
}

func NewMessageService(
	cfg *config.Config,
	repo repository.Repository,
	providerClient provider.Client,
	redisClient *redis.Client,
	logger *zap.Logger,
) MessageService {
	cb := NewCircuitBreaker(&cfg.Provider.CircuitBreaker, logger)

	return &messageService{
		cfg:            cfg,
		repo:           repo,
		providerClient: providerClient,
		redisClient:    redisClient,
		logger:         logger,
		circuitBreaker: cb,
	}
}

// RecordInbound turns a webhook delivery into a canonical inbound record and
// stores it. A storage failure propagates so the caller can log it, but the
// caller still acknowledges the webhook either way.
func (s *messageService) RecordInbound(ctx context.Context, from, to, body string, mediaURLs []string) (*models.Message, error) {
	msg, err := models.NewInbound(from, to, body, mediaURLs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.repo.Messages().Put(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store inbound message: %w", err)
	}

	s.logger.Info("Inbound message recorded",
		zap.String("id", msg.ID),
		zap.String("contact", msg.Contact()),
		zap.Int("media", len(msg.MediaURLs)))

	return msg, nil
}

// Send validates the request, transmits through the provider, and records
// the outbound message keyed by the provider's SID. Nothing is written when
// the transmission fails; a write failure after a successful send is
// reported as a warning on the outcome.
func (s *messageService) Send(ctx context.Context, to, body, mediaURL string) (*SendOutcome, error) {
	to = phone.Normalize(to)
	if to == "" {
		return nil, fmt.Errorf("%w: destination phone is required", ErrValidation)
	}
	if body == "" && mediaURL == "" {
		return nil, fmt.Errorf("%w: message body or media URL is required", ErrValidation)
	}

	if s.cfg.Provider.AccountSID == "" || s.cfg.Provider.AuthToken == "" || s.cfg.Provider.FromNumber == "" {
		return nil, ErrConfiguration
	}

	var result *provider.SendResult
	err := s.circuitBreaker.Execute(ctx, func() error {
		var sendErr error
		result, sendErr = s.providerClient.SendMessage(ctx, provider.SendRequest{
			To:       to,
			From:     s.cfg.Provider.FromNumber,
			Body:     body,
			MediaURL: mediaURL,
		})
		return sendErr
	})
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			return nil, ErrConfiguration
		}
		requests, failures := s.circuitBreaker.GetCounts()
		s.logger.Error("Provider send failed",
			zap.String("to", to),
			zap.Error(err),
			zap.String("circuitBreakerState", string(s.circuitBreaker.GetState())),
			zap.Uint32("totalRequests", requests),
			zap.Uint32("totalFailures", failures))
		return nil, fmt.Errorf("%w: %v", ErrTransmission, err)
	}

	var media []string
	if mediaURL != "" {
		media = []string{mediaURL}
	}

	msg, err := models.NewOutbound(result.SID, s.cfg.Provider.FromNumber, to, body, media)
	if err != nil {
		// Inputs were validated above; only a misconfigured from number
		// can land here.
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	outcome := &SendOutcome{Message: msg}

	if err := s.repo.Messages().Put(ctx, msg); err != nil {
		s.logger.Error("Outbound message sent but not recorded",
			zap.String("id", msg.ID),
			zap.String("to", to),
			zap.Error(err))
		outcome.Warning = WarningNotRecorded
		return outcome, nil
	}

	s.cacheProviderSID(msg)

	s.logger.Info("Outbound message sent",
		zap.String("id", msg.ID),
		zap.String("to", to),
		zap.String("circuitBreakerState", string(s.circuitBreaker.GetState())))

	return outcome, nil
}

// cacheProviderSID keeps a short-lived provider-SID lookup in Redis.
// Best effort: a cache failure only logs.
func (s *messageService) cacheProviderSID(msg *models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("message:%s", msg.ID)
	cacheValue := fmt.Sprintf("%s:%s", msg.To, msg.At.Format(time.RFC3339))

	if err := s.redisClient.Set(ctx, cacheKey, cacheValue, 24*time.Hour).Err(); err != nil {
		s.logger.Warn("Failed to cache provider message SID",
			zap.String("id", msg.ID),
			zap.Error(err))
	}
}

func (s *messageService) GetCircuitBreakerStatus() (state api.HealthResponseCircuitBreakerState, requests uint32, failures uint32) {
	state = s.circuitBreaker.GetState()
	requests, failures = s.circuitBreaker.GetCounts()
	return
}
