package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bolao/internal/db"
	"bolao/internal/domain"
	"bolao/internal/lottery"

	"github.com/rs/zerolog"
)

type DrawRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewDrawRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *DrawRepository {
	return &DrawRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *DrawRepository) Upsert(ctx context.Context, d *domain.DrawResult) error {
	numbers, err := json.Marshal(d.Numbers)
	if err != nil {
		return fmt.Errorf("failed to encode draw numbers: %w", err)
	}
	tiers := d.PrizeTiers
	if tiers == nil {
		tiers = []domain.PrizeTier{}
	}
	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		return fmt.Errorf("failed to encode prize tiers: %w", err)
	}

	nextDrawDate := ""
	if !d.NextDrawDate.IsZero() {
		nextDrawDate = d.NextDrawDate.String()
	}

	err = r.queries.UpsertDrawResult(ctx, db.UpsertDrawResultParams{
		Variant:            string(d.Variant),
		DrawNumber:         int64(d.DrawNumber),
		DrawDate:           d.Date.String(),
		Numbers:            string(numbers),
		Accumulated:        d.Accumulated,
		PrizeTiers:         string(tiersJSON),
		NextDrawDate:       nextDrawDate,
		NextEstimatedPrize: d.NextEstimatedPrize,
		FetchedAt:          d.FetchedAt,
	})
	if err != nil {
		r.logger.Error().Err(err).Int("draw_number", d.DrawNumber).Msg("failed to upsert draw result")
		return fmt.Errorf("failed to upsert draw result: %w", err)
	}
	return nil
}

func (r *DrawRepository) Get(ctx context.Context, variant lottery.Variant, drawNumber int) (*domain.DrawResult, error) {
	row, err := r.queries.GetDrawResult(ctx, db.GetDrawResultParams{
		Variant:    string(variant),
		DrawNumber: int64(drawNumber),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draw %s/%d: %w", variant, drawNumber, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainDraw(row)
}

func (r *DrawRepository) Latest(ctx context.Context, variant lottery.Variant) (*domain.DrawResult, error) {
	row, err := r.queries.GetLatestDrawResult(ctx, string(variant))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest draw %s: %w", variant, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainDraw(row)
}

func toDomainDraw(row db.DrawResult) (*domain.DrawResult, error) {
	date, err := lottery.ParseDate(row.DrawDate)
	if err != nil {
		return nil, fmt.Errorf("draw %d has a bad date: %w", row.DrawNumber, err)
	}

	d := &domain.DrawResult{
		Variant:            lottery.Variant(row.Variant),
		DrawNumber:         int(row.DrawNumber),
		Date:               date,
		Accumulated:        row.Accumulated,
		NextEstimatedPrize: row.NextEstimatedPrize,
		FetchedAt:          row.FetchedAt,
	}
	if err := json.Unmarshal([]byte(row.Numbers), &d.Numbers); err != nil {
		return nil, fmt.Errorf("draw %d has bad numbers: %w", row.DrawNumber, err)
	}
	if err := json.Unmarshal([]byte(row.PrizeTiers), &d.PrizeTiers); err != nil {
		return nil, fmt.Errorf("draw %d has bad prize tiers: %w", row.DrawNumber, err)
	}
	if row.NextDrawDate != "" {
		if next, err := lottery.ParseDate(row.NextDrawDate); err == nil {
			d.NextDrawDate = next
		}
	}
	return d, nil
}
