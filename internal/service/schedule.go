package service

import (
	"fmt"
	"time"

	"bolao/internal/config"
	"bolao/internal/lottery"

	"github.com/rs/zerolog"
)

type ScheduleService struct {
	schedules map[lottery.Variant]*lottery.Schedule
	logger    zerolog.Logger
}

type VariantInfo struct {
	Variant        lottery.Variant     `json:"variant"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	DrawWeekdays   []time.Weekday      `json:"draw_weekdays"`
	NumbersPerGame int                 `json:"numbers_per_game"`
	NumberRange    lottery.NumberRange `json:"number_range"`
	NextDrawDate   lottery.Date        `json:"next_draw_date"`
}

func NewClock(cfg *config.Config) lottery.Clock {
	return lottery.SystemClock(cfg.Timezone)
}

func NewScheduleService(clock lottery.Clock, logger zerolog.Logger) (*ScheduleService, error) {
	s := &ScheduleService{
		schedules: make(map[lottery.Variant]*lottery.Schedule),
		logger:    logger,
	}
	for _, v := range lottery.Variants() {
		sched, err := lottery.NewSchedule(v, logger, lottery.WithClock(clock))
		if err != nil {
			return nil, fmt.Errorf("failed to build schedule for %s: %w", v, err)
		}
		s.schedules[v] = sched
	}
	return s, nil
}

func (s *ScheduleService) Schedule(v lottery.Variant) (*lottery.Schedule, error) {
	sched, ok := s.schedules[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", lottery.ErrUnknownVariant, v)
	}
	return sched, nil
}

func (s *ScheduleService) Variants() []VariantInfo {
	out := make([]VariantInfo, 0, len(s.schedules))
	for _, v := range lottery.Variants() {
		sched := s.schedules[v]
		cfg, err := lottery.Lookup(v)
		if err != nil || sched == nil {
			continue
		}

		info := VariantInfo{
			Variant:        v,
			Name:           cfg.Name,
			Description:    sched.Description(),
			DrawWeekdays:   cfg.DrawWeekdays,
			NumbersPerGame: cfg.NumbersPerGame,
			NumberRange:    cfg.NumberRange,
		}
		if next, ok := sched.NextDrawDateFromToday(); ok {
			info.NextDrawDate = next
		}
		out = append(out, info)
	}
	return out
}
