package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bolao/internal/constants"
	"bolao/internal/db"
	"bolao/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TicketRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTicketRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TicketRepository {
	return &TicketRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// CreateBatch stores all tickets in one transaction; IDs are assigned in place.
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	for i := 0; i < len(tickets); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(tickets) {
			end = len(tickets)
		}

		for j := i; j < end; j++ {
			t := &tickets[j]
			if t.ID == "" {
				t.ID, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			t.CreatedAt = now

			numbers, err := json.Marshal(t.Numbers)
			if err != nil {
				return fmt.Errorf("failed to encode ticket numbers: %w", err)
			}

			err = qtx.CreateTicket(ctx, db.CreateTicketParams{
				ID:        t.ID,
				PoolID:    t.PoolID,
				Numbers:   string(numbers),
				CreatedAt: t.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to create ticket %s: %w", t.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *TicketRepository) ListByPool(ctx context.Context, poolID string) ([]domain.Ticket, error) {
	rows, err := r.queries.ListTicketsByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		var numbers []int
		if err := json.Unmarshal([]byte(row.Numbers), &numbers); err != nil {
			// one unreadable row should not hide the rest of the pool
			r.logger.Warn().Err(err).Str("ticket_id", row.ID).Msg("skipping ticket with unreadable numbers")
			continue
		}
		result = append(result, domain.Ticket{
			ID:        row.ID,
			PoolID:    row.PoolID,
			Numbers:   numbers,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}
