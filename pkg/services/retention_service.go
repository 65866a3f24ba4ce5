package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/repositories"
)

// DefaultRetentionDays is the default retention period for prediction history.
const DefaultRetentionDays = 90

// RetentionService handles cleanup of old prediction history.
type RetentionService interface {
	// Prune removes records older than the retention period.
	// Returns the number of records deleted.
	Prune(ctx context.Context) (int64, error)

	// RunScheduler starts a background goroutine that prunes on the given interval.
	// It runs immediately on startup, then repeats every interval.
	// Cancel the context to stop the scheduler.
	RunScheduler(ctx context.Context, interval time.Duration)
}

type retentionService struct {
	historyRepo   repositories.PredictionHistoryRepository
	retentionDays int
	now           func() time.Time
	logger        *zap.Logger
}

func NewRetentionService(
	historyRepo repositories.PredictionHistoryRepository,
	retentionDays int,
	logger *zap.Logger,
) RetentionService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &retentionService{
		historyRepo:   historyRepo,
		retentionDays: retentionDays,
		now:           time.Now,
		logger:        logger.Named("retention-service"),
	}
}

var _ RetentionService = (*retentionService)(nil)

func (s *retentionService) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.historyRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to prune prediction history", zap.Error(err))
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("Retention cleanup completed",
			zap.Int("retention_days", s.retentionDays),
			zap.Time("cutoff", cutoff),
			zap.Int64("history_deleted", deleted))
	}

	return deleted, nil
}

// RunScheduler starts a background loop that prunes old history.
func (s *retentionService) RunScheduler(ctx context.Context, interval time.Duration) {
	go func() {
		s.logger.Info("Retention scheduler started",
			zap.Duration("interval", interval),
			zap.Int("retention_days", s.retentionDays))

		// Run immediately on startup, then at each interval
		_, _ = s.Prune(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Retention scheduler stopped")
				return
			case <-ticker.C:
				_, _ = s.Prune(ctx)
			}
		}
	}()
}
