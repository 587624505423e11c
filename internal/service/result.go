package service

import (
	"context"
	"errors"
	"fmt"

	"bolao/internal/constants"
	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/metrics"
	"bolao/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type DrawProvider interface {
	Get(ctx context.Context, variant lottery.Variant, drawNumber int) (*domain.DrawResult, error)
	Latest(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error)
	LatestStored(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error)
}

type ResultService struct {
	pools   *repository.PoolRepository
	tickets *repository.TicketRepository
	draws   DrawProvider
	logger  zerolog.Logger
}

func NewResultService(pools *repository.PoolRepository, tickets *repository.TicketRepository, draws *DrawService, logger zerolog.Logger) *ResultService {
	return &ResultService{pools: pools, tickets: tickets, draws: draws, logger: logger}
}

// Check matches every ticket of a pool against one draw. drawNumber 0 means
// the pool's own contest, or the latest draw when that one is held on the
// pool's draw date.
func (s *ResultService) Check(ctx context.Context, poolID string, drawNumber int) (*domain.PoolReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if drawNumber < 0 {
		return nil, fmt.Errorf("%w: draw number must not be negative", ErrInvalidInput)
	}

	pool, err := s.pools.Get(ctx, poolID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
	}
	if err != nil {
		return nil, err
	}

	matcher, err := lottery.NewMatcher(pool.Variant)
	if err != nil {
		return nil, err
	}

	pinned := drawNumber == 0 && pool.DrawNumber > 0
	if drawNumber == 0 {
		drawNumber = pool.DrawNumber
	}

	var (
		tickets      []domain.Ticket
		participants []domain.Participant
		draw         *domain.DrawResult
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dbCtx, dbCancel := context.WithTimeout(gCtx, constants.DatabaseTimeout)
		defer dbCancel()
		var err error
		tickets, err = s.tickets.ListByPool(dbCtx, poolID)
		return err
	})

	g.Go(func() error {
		dbCtx, dbCancel := context.WithTimeout(gCtx, constants.DatabaseTimeout)
		defer dbCancel()
		var err error
		participants, err = s.pools.Participants(dbCtx, poolID)
		return err
	})

	g.Go(func() error {
		var err error
		draw, err = s.drawFor(gCtx, pool, drawNumber)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("pool_id", poolID).Msg("failed to load pool results")
		return nil, err
	}

	// A contest number stored with the pool is only trusted if that contest
	// was held on the pool's date. An explicit number from the caller is not
	// checked.
	if pinned && draw.Date != pool.DrawDate {
		return nil, fmt.Errorf("%w: pool is pinned to draw %d held on %s, pool plays %s", ErrDrawNotFound, draw.DrawNumber, draw.Date, pool.DrawDate)
	}

	report := &domain.PoolReport{
		Pool:    *pool,
		Draw:    *draw,
		Results: make([]lottery.TicketResult, 0, len(tickets)),
	}
	for _, t := range tickets {
		report.Results = append(report.Results, matcher.CheckTicket(t.ID, t.Numbers, draw.Numbers))
	}
	metrics.RecordTicketsChecked(string(pool.Variant), len(tickets))

	if len(report.Results) > 0 {
		summary, err := lottery.SummarizeBatch(report.Results)
		if err != nil {
			return nil, err
		}
		report.Summary = summary
	}
	report.Shares = prizeShares(participants, report.Summary.TotalPrize)

	s.logger.Info().
		Str("pool_id", poolID).
		Int("draw_number", draw.DrawNumber).
		Int("tickets", len(tickets)).
		Int("max_hits", report.Summary.MaxHits).
		Float64("total_prize", report.Summary.TotalPrize).
		Msg("pool results checked")

	return report, nil
}

// drawFor resolves the draw when no contest number is known: the newest
// stored draw is used if it was held on the pool's date, otherwise the source
// is asked for its latest.
func (s *ResultService) drawFor(ctx context.Context, pool *domain.Pool, drawNumber int) (*domain.DrawResult, error) {
	if drawNumber > 0 {
		return s.draws.Get(ctx, pool.Variant, drawNumber)
	}

	stored, err := s.draws.LatestStored(ctx, pool.Variant)
	switch {
	case err == nil && stored.Date == pool.DrawDate:
		s.pin(ctx, pool, stored)
		return stored, nil
	case err != nil && !errors.Is(err, ErrDrawNotFound):
		s.logger.Warn().Err(err).Str("pool_id", pool.ID).Msg("failed to read stored draws, asking source")
	}

	latest, err := s.draws.Latest(ctx, pool.Variant)
	if err != nil {
		return nil, err
	}
	if latest.Date != pool.DrawDate {
		return nil, fmt.Errorf("%w: latest draw %d is from %s, pool plays %s", ErrDrawNotFound, latest.DrawNumber, latest.Date, pool.DrawDate)
	}

	s.pin(ctx, pool, latest)
	return latest, nil
}

func (s *ResultService) pin(ctx context.Context, pool *domain.Pool, draw *domain.DrawResult) {
	if err := s.pools.SetDrawNumber(ctx, pool.ID, draw.DrawNumber); err != nil {
		s.logger.Warn().Err(err).Str("pool_id", pool.ID).Msg("failed to pin pool draw number")
	}
}

// prizeShares splits the prize by quotas. Unpaid participants still get a
// share; the Paid flag lets the organizer settle that.
func prizeShares(participants []domain.Participant, totalPrize float64) []domain.ParticipantShare {
	totalQuotas := 0
	for _, p := range participants {
		totalQuotas += p.Quotas
	}

	shares := make([]domain.ParticipantShare, 0, len(participants))
	for _, p := range participants {
		share := domain.ParticipantShare{
			ParticipantID: p.ID,
			Name:          p.Name,
			Quotas:        p.Quotas,
			Paid:          p.Paid,
		}
		if totalQuotas > 0 {
			share.Amount = totalPrize * float64(p.Quotas) / float64(totalQuotas)
		}
		shares = append(shares, share)
	}
	return shares
}
