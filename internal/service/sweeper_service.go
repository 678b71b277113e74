package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/repository"
	"github.com/ppopeskul/sms-relay/internal/scheduler"
)

// sweeperService prunes the disk-backed store down to retention.max_records
// on an interval. The memory backend bounds itself, so the sweep only runs
// for postgres, and only when retention is opted into.
type sweeperService struct {
	scheduler *scheduler.Scheduler
	repo      repository.Repository
	cfg       *config.Config
	logger    *zap.Logger
}

func NewSweeperService(
	cfg *config.Config,
	repo repository.Repository,
	logger *zap.Logger,
) SweeperService {
	svc := &sweeperService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}

	interval := time.Duration(cfg.Retention.IntervalMinutes) * time.Minute
	svc.scheduler = scheduler.NewScheduler(logger, "retention-sweep", interval, svc.sweep)
	return svc
}

func (s *sweeperService) Enabled() bool {
	return s.cfg.Retention.MaxRecords > 0 && s.repo.Mode() == config.StorageModePostgres
}

func (s *sweeperService) Start() error {
	if !s.Enabled() {
		return nil
	}
	return s.scheduler.Start(context.Background())
}

func (s *sweeperService) Stop() error {
	if !s.scheduler.IsRunning() {
		return nil
	}
	return s.scheduler.Stop()
}

func (s *sweeperService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *sweeperService) sweep(ctx context.Context) error {
	pruned, err := s.repo.Messages().Prune(ctx, s.cfg.Retention.MaxRecords)
	if err != nil {
		return err
	}

	if pruned > 0 {
		s.logger.Info("Retention sweep pruned messages",
			zap.Int("pruned", pruned),
			zap.Int("keep", s.cfg.Retention.MaxRecords))
	}
	return nil
}
