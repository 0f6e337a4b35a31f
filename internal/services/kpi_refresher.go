package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// KPICache holds the most recent snapshot for cheap REST reads.
type KPICache interface {
	SetLatestKPIs(ctx context.Context, kpis *domain.KPISnapshot) error
	GetLatestKPIs(ctx context.Context) (*domain.KPISnapshot, error)
}

const defaultKPIPeriodDays = 30

// KPIRefresher periodically recomputes the dashboard aggregates and pushes
// kpi-update / chart-update events so connected viewers stay current without
// polling.
type KPIRefresher struct {
	cron          *cron.Cron
	analyticsRepo domain.AnalyticsRepository
	cache         KPICache
	eventPub      domain.EventPublisher
	interval      time.Duration
	log           logger.Logger
}

func NewKPIRefresher(analyticsRepo domain.AnalyticsRepository, cache KPICache,
	eventPub domain.EventPublisher, interval time.Duration, log logger.Logger) *KPIRefresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &KPIRefresher{
		cron:          cron.New(cron.WithSeconds()),
		analyticsRepo: analyticsRepo,
		cache:         cache,
		eventPub:      eventPub,
		interval:      interval,
		log:           log,
	}
}

func (s *KPIRefresher) Start(ctx context.Context) error {
	s.log.Info("Starting KPI refresher", "interval", s.interval)

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Refresh(ctx); err != nil {
			s.log.Error("KPI refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *KPIRefresher) Stop() error {
	s.log.Info("Stopping KPI refresher")
	s.cron.Stop()
	return nil
}

// Refresh recomputes the snapshot and chart aggregates once, caches the
// snapshot, and publishes both update events.
func (s *KPIRefresher) Refresh(ctx context.Context) error {
	kpis, err := s.analyticsRepo.GetKPIs(ctx, defaultKPIPeriodDays)
	if err != nil {
		return err
	}

	if err := s.cache.SetLatestKPIs(ctx, kpis); err != nil {
		s.log.Warn("Failed to cache KPI snapshot", "error", err)
	}

	event, err := domain.NewKPIEvent(kpis)
	if err != nil {
		return err
	}
	if err := s.eventPub.PublishDashboardEvent(ctx, event); err != nil {
		return err
	}

	categories, err := s.analyticsRepo.GetCategoryBreakdown(ctx, defaultKPIPeriodDays)
	if err != nil {
		return err
	}
	revenue, err := s.analyticsRepo.GetRevenueTrend(ctx, defaultKPIPeriodDays)
	if err != nil {
		return err
	}

	chartEvent, err := domain.NewChartEvent(&domain.ChartData{Categories: categories, Revenue: revenue})
	if err != nil {
		return err
	}
	return s.eventPub.PublishDashboardEvent(ctx, chartEvent)
}
