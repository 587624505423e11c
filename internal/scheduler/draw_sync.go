package scheduler

import (
	"context"
	"errors"

	"bolao/internal/config"
	"bolao/internal/constants"
	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/metrics"
	"bolao/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type latestFetcher interface {
	Latest(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error)
}

type scheduleSource interface {
	Schedule(v lottery.Variant) (*lottery.Schedule, error)
}

// DrawSync pulls the latest official draw on every draw day so result
// reports can be served from the store.
type DrawSync struct {
	draws     latestFetcher
	schedules scheduleSource
	cron      *cron.Cron
	spec      string
	logger    zerolog.Logger
}

func NewDrawSync(cfg *config.Config, draws *service.DrawService, schedules *service.ScheduleService, logger zerolog.Logger) *DrawSync {
	return newDrawSync(cfg, draws, schedules, logger)
}

func newDrawSync(cfg *config.Config, draws latestFetcher, schedules scheduleSource, logger zerolog.Logger) *DrawSync {
	return &DrawSync{
		draws:     draws,
		schedules: schedules,
		cron:      cron.New(cron.WithLocation(cfg.Timezone)),
		spec:      cfg.DrawSyncCron,
		logger:    logger.With().Str("component", "draw_sync").Logger(),
	}
}

// RunOnce syncs every variant that has a draw today and reports how many
// draws were stored.
func (s *DrawSync) RunOnce(ctx context.Context) int {
	synced := 0
	for _, v := range lottery.Variants() {
		sched, err := s.schedules.Schedule(v)
		if err != nil {
			s.logger.Error().Err(err).Str("variant", string(v)).Msg("no schedule for variant")
			continue
		}

		today := sched.Today()
		if !sched.IsDrawDay(today) {
			metrics.RecordDrawSync(string(v), "skipped")
			s.logger.Debug().Str("variant", string(v)).Str("date", today.String()).Msg("no draw today")
			continue
		}

		draw, err := s.draws.Latest(ctx, v)
		switch {
		case errors.Is(err, service.ErrDrawNotFound):
			metrics.RecordDrawSync(string(v), "not_published")
			s.logger.Warn().Str("variant", string(v)).Msg("draw not published yet")
			continue
		case err != nil:
			metrics.RecordDrawSync(string(v), "error")
			s.logger.Error().Err(err).Str("variant", string(v)).Msg("draw sync failed")
			continue
		}

		if draw.Date != today {
			metrics.RecordDrawSync(string(v), "stale")
			s.logger.Warn().
				Str("variant", string(v)).
				Int("draw_number", draw.DrawNumber).
				Str("draw_date", draw.Date.String()).
				Str("today", today.String()).
				Msg("source still reports an older draw")
			continue
		}

		metrics.RecordDrawSync(string(v), "synced")
		s.logger.Info().Str("variant", string(v)).Int("draw_number", draw.DrawNumber).Msg("draw synced")
		synced++
	}
	return synced
}

func (s *DrawSync) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("draw sync scheduled")
	return nil
}

func (s *DrawSync) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info().Msg("draw sync stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func Register(lc fx.Lifecycle, cfg *config.Config, sync *DrawSync, logger zerolog.Logger) {
	if !cfg.DrawSyncEnabled {
		logger.Info().Msg("draw sync disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return sync.Start() },
		OnStop:  sync.Stop,
	})
}
