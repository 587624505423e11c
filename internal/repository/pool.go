package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bolao/internal/db"
	"bolao/internal/domain"
	"bolao/internal/lottery"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type PoolRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPoolRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PoolRepository {
	return &PoolRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PoolRepository) Create(ctx context.Context, pool *domain.Pool) error {
	if pool.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		pool.ID = id
	}

	now := time.Now().UTC()
	pool.CreatedAt = now
	pool.UpdatedAt = now

	err := r.queries.CreatePool(ctx, db.CreatePoolParams{
		ID:         pool.ID,
		Name:       pool.Name,
		Variant:    string(pool.Variant),
		DrawDate:   pool.DrawDate.String(),
		DrawNumber: int64(pool.DrawNumber),
		QuotaPrice: pool.QuotaPrice,
		CreatedAt:  pool.CreatedAt,
		UpdatedAt:  pool.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	r.logger.Debug().Str("pool_id", pool.ID).Msg("pool created")
	return nil
}

func (r *PoolRepository) Get(ctx context.Context, id string) (*domain.Pool, error) {
	row, err := r.queries.GetPool(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pool %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainPool(row)
}

func (r *PoolRepository) List(ctx context.Context, limit int) ([]domain.Pool, error) {
	rows, err := r.queries.ListPools(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	result := make([]domain.Pool, 0, len(rows))
	for _, row := range rows {
		p, err := toDomainPool(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, nil
}

func (r *PoolRepository) SetDrawNumber(ctx context.Context, id string, drawNumber int) error {
	res, err := r.queries.UpdatePoolDrawNumber(ctx, db.UpdatePoolDrawNumberParams{
		DrawNumber: int64(drawNumber),
		UpdatedAt:  time.Now().UTC(),
		ID:         id,
	})
	if err != nil {
		return err
	}
	return expectOneRow(res, fmt.Sprintf("pool %s", id))
}

func (r *PoolRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	if p.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		p.ID = id
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.queries.CreateParticipant(ctx, db.CreateParticipantParams{
		ID:        p.ID,
		PoolID:    p.PoolID,
		Name:      p.Name,
		Quotas:    int64(p.Quotas),
		Paid:      p.Paid,
		PaidAt:    nullTime(p.PaidAt),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *PoolRepository) Participants(ctx context.Context, poolID string) ([]domain.Participant, error) {
	rows, err := r.queries.ListParticipantsByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Participant, len(rows))
	for i, row := range rows {
		result[i] = domain.Participant{
			ID:        row.ID,
			PoolID:    row.PoolID,
			Name:      row.Name,
			Quotas:    int(row.Quotas),
			Paid:      row.Paid,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if row.PaidAt.Valid {
			paidAt := row.PaidAt.Time
			result[i].PaidAt = &paidAt
		}
	}
	return result, nil
}

func (r *PoolRepository) SetPayment(ctx context.Context, poolID, participantID string, paid bool, at time.Time) error {
	var paidAt *time.Time
	if paid {
		paidAt = &at
	}

	res, err := r.queries.UpdateParticipantPayment(ctx, db.UpdateParticipantPaymentParams{
		Paid:      paid,
		PaidAt:    nullTime(paidAt),
		UpdatedAt: time.Now().UTC(),
		ID:        participantID,
		PoolID:    poolID,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("participant_id", participantID).Msg("failed to update payment")
		return err
	}
	return expectOneRow(res, fmt.Sprintf("participant %s", participantID))
}

func toDomainPool(row db.Pool) (*domain.Pool, error) {
	drawDate, err := lottery.ParseDate(row.DrawDate)
	if err != nil {
		return nil, fmt.Errorf("pool %s has a bad draw date: %w", row.ID, err)
	}
	return &domain.Pool{
		ID:         row.ID,
		Name:       row.Name,
		Variant:    lottery.Variant(row.Variant),
		DrawDate:   drawDate,
		DrawNumber: int(row.DrawNumber),
		QuotaPrice: row.QuotaPrice,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
