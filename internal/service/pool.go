package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bolao/internal/constants"
	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type CreatePoolInput struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Variant    string  `json:"variant" validate:"required"`
	DrawDate   string  `json:"draw_date" validate:"required"`
	DrawNumber int     `json:"draw_number" validate:"gte=0"`
	QuotaPrice float64 `json:"quota_price" validate:"gte=0"`
}

type AddParticipantInput struct {
	Name   string `json:"name" validate:"required,max=120"`
	Quotas int    `json:"quotas" validate:"gte=1,lte=1000"`
	Paid   bool   `json:"paid"`
}

type AddTicketsInput struct {
	Tickets [][]int `json:"tickets" validate:"required,min=1,max=500,dive,required"`
}

type PoolDetails struct {
	Pool         domain.Pool
	Participants []domain.Participant
	Totals       domain.PoolTotals
}

type PoolService struct {
	pools     *repository.PoolRepository
	tickets   *repository.TicketRepository
	schedules *ScheduleService
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewPoolService(pools *repository.PoolRepository, tickets *repository.TicketRepository, schedules *ScheduleService, logger zerolog.Logger) *PoolService {
	return &PoolService{
		pools:     pools,
		tickets:   tickets,
		schedules: schedules,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

func (s *PoolService) CreatePool(ctx context.Context, in CreatePoolInput) (*domain.Pool, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	sched, err := s.schedules.Schedule(lottery.Variant(in.Variant))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	drawDate, err := lottery.ParseDate(in.DrawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !sched.IsDrawDay(drawDate) {
		next, _ := sched.NextDrawDate(drawDate)
		return nil, fmt.Errorf("%w: %s is not a draw day (%s, next is %s)", ErrInvalidInput, drawDate, sched.Description(), next)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	pool := &domain.Pool{
		Name:       in.Name,
		Variant:    sched.Variant(),
		DrawDate:   drawDate,
		DrawNumber: in.DrawNumber,
		QuotaPrice: in.QuotaPrice,
	}
	if err := s.pools.Create(ctx, pool); err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create pool")
		return nil, err
	}

	s.logger.Info().Str("pool_id", pool.ID).Str("variant", string(pool.Variant)).Str("draw_date", pool.DrawDate.String()).Msg("pool created")
	return pool, nil
}

func (s *PoolService) ListPools(ctx context.Context) ([]domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.pools.List(ctx, constants.PoolListLimit)
}

func (s *PoolService) GetPool(ctx context.Context, poolID string) (*PoolDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	participants, err := s.pools.Participants(ctx, poolID)
	if err != nil {
		s.logger.Error().Err(err).Str("pool_id", poolID).Msg("failed to list participants")
		return nil, err
	}

	return &PoolDetails{
		Pool:         *pool,
		Participants: participants,
		Totals:       poolTotals(pool, participants),
	}, nil
}

func (s *PoolService) AddParticipant(ctx context.Context, poolID string, in AddParticipantInput) (*domain.Participant, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.getPool(ctx, poolID); err != nil {
		return nil, err
	}

	p := &domain.Participant{
		PoolID: poolID,
		Name:   in.Name,
		Quotas: in.Quotas,
		Paid:   in.Paid,
	}
	if in.Paid {
		now := time.Now().UTC()
		p.PaidAt = &now
	}

	if err := s.pools.AddParticipant(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("pool_id", poolID).Msg("failed to add participant")
		return nil, err
	}

	s.logger.Info().Str("pool_id", poolID).Str("participant_id", p.ID).Int("quotas", p.Quotas).Msg("participant added")
	return p, nil
}

func (s *PoolService) SetPayment(ctx context.Context, poolID, participantID string, paid bool) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	err := s.pools.SetPayment(ctx, poolID, participantID, paid, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	if err != nil {
		return err
	}

	s.logger.Info().Str("pool_id", poolID).Str("participant_id", participantID).Bool("paid", paid).Msg("payment updated")
	return nil
}

// AddTickets validates every ticket before storing any of them.
func (s *PoolService) AddTickets(ctx context.Context, poolID string, in AddTicketsInput) ([]domain.Ticket, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	cfg, err := lottery.Lookup(pool.Variant)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(in.Tickets))
	for i, numbers := range in.Tickets {
		if err := cfg.ValidateTicket(numbers); err != nil {
			return nil, fmt.Errorf("%w: ticket %d: %w", ErrInvalidInput, i, err)
		}
		tickets = append(tickets, domain.Ticket{PoolID: poolID, Numbers: numbers})
	}

	if err := s.tickets.CreateBatch(ctx, tickets); err != nil {
		s.logger.Error().Err(err).Str("pool_id", poolID).Msg("failed to store tickets")
		return nil, err
	}

	s.logger.Info().Str("pool_id", poolID).Int("count", len(tickets)).Msg("tickets registered")
	return tickets, nil
}

func (s *PoolService) ListTickets(ctx context.Context, poolID string) ([]domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.getPool(ctx, poolID); err != nil {
		return nil, err
	}
	return s.tickets.ListByPool(ctx, poolID)
}

func (s *PoolService) getPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	pool, err := s.pools.Get(ctx, poolID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("pool_id", poolID).Msg("failed to load pool")
		return nil, err
	}
	return pool, nil
}

func poolTotals(pool *domain.Pool, participants []domain.Participant) domain.PoolTotals {
	t := domain.PoolTotals{Participants: len(participants)}
	for _, p := range participants {
		t.Quotas += p.Quotas
		if p.Paid {
			t.PaidQuotas += p.Quotas
		}
	}
	t.Collected = float64(t.PaidQuotas) * pool.QuotaPrice
	t.Pending = float64(t.Quotas-t.PaidQuotas) * pool.QuotaPrice
	return t
}
