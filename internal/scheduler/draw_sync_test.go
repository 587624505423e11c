package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"bolao/internal/config"
	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	draw  *domain.DrawResult
	err   error
	calls int
}

func (s *stubFetcher) Latest(context.Context, lottery.Variant) (*domain.DrawResult, error) {
	s.calls++
	return s.draw, s.err
}

type fixedSchedules struct {
	now time.Time
}

func (f fixedSchedules) Schedule(v lottery.Variant) (*lottery.Schedule, error) {
	return lottery.NewSchedule(v, zerolog.Nop(), lottery.WithClock(func() time.Time { return f.now }))
}

func testConfig() *config.Config {
	return &config.Config{Timezone: time.UTC, DrawSyncCron: "30 21 * * *", DrawSyncEnabled: true}
}

func TestDrawSync_RunOnce(t *testing.T) {
	tuesday := time.Date(2024, time.June, 4, 21, 30, 0, 0, time.UTC)
	wednesday := tuesday.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		now       time.Time
		draw      *domain.DrawResult
		err       error
		wantCalls int
		wantSync  int
	}{
		{
			name:      "draw day with today's result",
			now:       tuesday,
			draw:      &domain.DrawResult{DrawNumber: 2734, Date: lottery.NewDate(2024, time.June, 4)},
			wantCalls: 1,
			wantSync:  1,
		},
		{
			name:      "source still on the previous draw",
			now:       tuesday,
			draw:      &domain.DrawResult{DrawNumber: 2733, Date: lottery.NewDate(2024, time.June, 1)},
			wantCalls: 1,
		},
		{
			name:      "not published yet",
			now:       tuesday,
			err:       service.ErrDrawNotFound,
			wantCalls: 1,
		},
		{
			name:      "source down",
			now:       tuesday,
			err:       errors.New("boom"),
			wantCalls: 1,
		},
		{
			name: "no draw on wednesdays",
			now:  wednesday,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &stubFetcher{draw: tc.draw, err: tc.err}
			s := newDrawSync(testConfig(), fetcher, fixedSchedules{now: tc.now}, zerolog.Nop())

			assert.Equal(t, tc.wantSync, s.RunOnce(context.Background()))
			assert.Equal(t, tc.wantCalls, fetcher.calls)
		})
	}
}

func TestDrawSync_StartStop(t *testing.T) {
	s := newDrawSync(testConfig(), &stubFetcher{}, fixedSchedules{now: time.Now()}, zerolog.Nop())
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	bad := testConfig()
	bad.DrawSyncCron = "not a cron"
	assert.Error(t, newDrawSync(bad, &stubFetcher{}, fixedSchedules{}, zerolog.Nop()).Start())
}
