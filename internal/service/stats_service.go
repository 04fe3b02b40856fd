package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

const statsOverviewCacheKey = "stats:overview"

type statsRepository interface {
	Overview(ctx context.Context) (*models.StatsOverview, error)
}

// StatsService serves the dashboard headline figures, optionally cached.
type StatsService struct {
	repo     statsRepository
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(repo statsRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns the dashboard aggregate and whether it came from cache.
func (s *StatsService) Overview(ctx context.Context) (*models.StatsOverview, bool, error) {
	var cached models.StatsOverview
	if hit, err := s.cache.Get(ctx, statsOverviewCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	overview, err := s.repo.Overview(ctx)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("stats_overview", time.Since(start))
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute stats")
	}

	if err := s.cache.Set(ctx, statsOverviewCacheKey, overview, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache stats overview", zap.Error(err))
	}

	return overview, false, nil
}
