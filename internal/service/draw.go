package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bolao/internal/api"
	"bolao/internal/constants"
	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/metrics"
	"bolao/internal/repository"

	"github.com/rs/zerolog"
)

type DrawSource interface {
	GetLatest(ctx context.Context, variant lottery.Variant) (*api.DrawResponse, error)
	GetDraw(ctx context.Context, variant lottery.Variant, drawNumber int) (*api.DrawResponse, error)
}

type DrawService struct {
	source DrawSource
	repo   *repository.DrawRepository
	logger zerolog.Logger
}

func NewDrawService(caixa *api.CaixaClient, repo *repository.DrawRepository, logger zerolog.Logger) *DrawService {
	return newDrawService(caixa, repo, logger)
}

func newDrawService(source DrawSource, repo *repository.DrawRepository, logger zerolog.Logger) *DrawService {
	return &DrawService{source: source, repo: repo, logger: logger}
}

// Get serves a finished draw from the store and only asks the source on a
// miss. Published draws never change, so stored rows are not refreshed.
func (s *DrawService) Get(ctx context.Context, variant lottery.Variant, drawNumber int) (*domain.DrawResult, error) {
	if _, err := lottery.Lookup(variant); err != nil {
		return nil, err
	}
	if drawNumber <= 0 {
		return nil, fmt.Errorf("%w: draw number must be positive", ErrInvalidInput)
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stored, err := s.repo.Get(dbCtx, variant, drawNumber)
	if err == nil {
		metrics.RecordDrawFetch(string(variant), "store", nil)
		s.logger.Debug().Str("variant", string(variant)).Int("draw_number", drawNumber).Msg("returning stored draw")
		return stored, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn().Err(err).Int("draw_number", drawNumber).Msg("failed to read stored draw, asking source")
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	resp, err := s.source.GetDraw(apiCtx, variant, drawNumber)
	return s.accept(ctx, variant, resp, err)
}

// Latest always asks the source; the answer changes every draw day.
func (s *DrawService) Latest(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error) {
	if _, err := lottery.Lookup(variant); err != nil {
		return nil, err
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	resp, err := s.source.GetLatest(apiCtx, variant)
	return s.accept(ctx, variant, resp, err)
}

// LatestStored returns the newest draw already in the store, typically saved by
// the sync job. It never calls the source.
func (s *DrawService) LatestStored(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	draw, err := s.repo.Latest(dbCtx, variant)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: nothing stored for %s", ErrDrawNotFound, variant)
	}
	if err != nil {
		return nil, err
	}
	metrics.RecordDrawFetch(string(variant), "store", nil)
	return draw, nil
}

func (s *DrawService) accept(ctx context.Context, variant lottery.Variant, resp *api.DrawResponse, fetchErr error) (*domain.DrawResult, error) {
	if fetchErr != nil {
		metrics.RecordDrawFetch(string(variant), "remote", fetchErr)
		if errors.Is(fetchErr, api.ErrDrawNotPublished) {
			return nil, fmt.Errorf("%w: %w", ErrDrawNotFound, fetchErr)
		}
		s.logger.Error().Err(fetchErr).Str("variant", string(variant)).Msg("failed to fetch draw")
		return nil, fmt.Errorf("%w: %w", ErrDrawUnavailable, fetchErr)
	}

	draw, err := toDomainDraw(variant, resp, time.Now().UTC())
	metrics.RecordDrawFetch(string(variant), "remote", err)
	if err != nil {
		s.logger.Error().Err(err).Str("variant", string(variant)).Msg("draw source returned unusable data")
		return nil, fmt.Errorf("%w: %w", ErrDrawUnavailable, err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.Upsert(dbCtx, draw); err != nil {
		s.logger.Warn().Err(err).Int("draw_number", draw.DrawNumber).Msg("failed to store draw")
	}

	s.logger.Info().
		Str("variant", string(variant)).
		Int("draw_number", draw.DrawNumber).
		Str("date", draw.Date.String()).
		Bool("accumulated", draw.Accumulated).
		Msg("draw fetched")
	return draw, nil
}

func toDomainDraw(variant lottery.Variant, resp *api.DrawResponse, fetchedAt time.Time) (*domain.DrawResult, error) {
	cfg, err := lottery.Lookup(variant)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Numero <= 0 {
		return nil, fmt.Errorf("draw response has no contest number")
	}

	numbers, err := resp.Numbers()
	if err != nil {
		return nil, err
	}
	if len(numbers) != cfg.NumbersPerGame {
		return nil, fmt.Errorf("draw %d has %d numbers, want %d", resp.Numero, len(numbers), cfg.NumbersPerGame)
	}
	for _, n := range numbers {
		if !cfg.NumberRange.Contains(n) {
			return nil, fmt.Errorf("draw %d has %d outside %d-%d", resp.Numero, n, cfg.NumberRange.Min, cfg.NumberRange.Max)
		}
	}

	date, err := resp.Date()
	if err != nil {
		return nil, err
	}

	draw := &domain.DrawResult{
		Variant:            variant,
		DrawNumber:         resp.Numero,
		Date:               date,
		Numbers:            numbers,
		Accumulated:        resp.Acumulado,
		NextEstimatedPrize: resp.ValorEstimadoProximoConcurso,
		FetchedAt:          fetchedAt,
	}
	if next, err := resp.NextDate(); err == nil {
		draw.NextDrawDate = next
	}
	for _, r := range resp.ListaRateioPremio {
		draw.PrizeTiers = append(draw.PrizeTiers, domain.PrizeTier{
			Hits:    r.Hits(),
			Label:   r.DescricaoFaixa,
			Winners: r.NumeroDeGanhadores,
			Amount:  r.ValorPremio,
		})
	}
	return draw, nil
}
