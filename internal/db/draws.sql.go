package db

import (
	"context"
	"time"
)

const upsertDrawResult = `
INSERT INTO draw_results (
    variant, draw_number, draw_date, numbers, accumulated, prize_tiers,
    next_draw_date, next_estimated_prize, fetched_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (variant, draw_number) DO UPDATE SET
    draw_date = excluded.draw_date,
    numbers = excluded.numbers,
    accumulated = excluded.accumulated,
    prize_tiers = excluded.prize_tiers,
    next_draw_date = excluded.next_draw_date,
    next_estimated_prize = excluded.next_estimated_prize,
    fetched_at = excluded.fetched_at
`

type UpsertDrawResultParams struct {
	Variant            string
	DrawNumber         int64
	DrawDate           string
	Numbers            string
	Accumulated        bool
	PrizeTiers         string
	NextDrawDate       string
	NextEstimatedPrize float64
	FetchedAt          time.Time
}

func (q *Queries) UpsertDrawResult(ctx context.Context, arg UpsertDrawResultParams) error {
	_, err := q.db.ExecContext(ctx, upsertDrawResult,
		arg.Variant,
		arg.DrawNumber,
		arg.DrawDate,
		arg.Numbers,
		arg.Accumulated,
		arg.PrizeTiers,
		arg.NextDrawDate,
		arg.NextEstimatedPrize,
		arg.FetchedAt,
	)
	return err
}

const getDrawResult = `
SELECT variant, draw_number, draw_date, numbers, accumulated, prize_tiers,
       next_draw_date, next_estimated_prize, fetched_at
FROM draw_results
WHERE variant = ? AND draw_number = ?
`

type GetDrawResultParams struct {
	Variant    string
	DrawNumber int64
}

func (q *Queries) GetDrawResult(ctx context.Context, arg GetDrawResultParams) (DrawResult, error) {
	row := q.db.QueryRowContext(ctx, getDrawResult, arg.Variant, arg.DrawNumber)
	var i DrawResult
	err := row.Scan(
		&i.Variant,
		&i.DrawNumber,
		&i.DrawDate,
		&i.Numbers,
		&i.Accumulated,
		&i.PrizeTiers,
		&i.NextDrawDate,
		&i.NextEstimatedPrize,
		&i.FetchedAt,
	)
	return i, err
}

const getLatestDrawResult = `
SELECT variant, draw_number, draw_date, numbers, accumulated, prize_tiers,
       next_draw_date, next_estimated_prize, fetched_at
FROM draw_results
WHERE variant = ?
ORDER BY draw_number DESC
LIMIT 1
`

func (q *Queries) GetLatestDrawResult(ctx context.Context, variant string) (DrawResult, error) {
	row := q.db.QueryRowContext(ctx, getLatestDrawResult, variant)
	var i DrawResult
	err := row.Scan(
		&i.Variant,
		&i.DrawNumber,
		&i.DrawDate,
		&i.Numbers,
		&i.Accumulated,
		&i.PrizeTiers,
		&i.NextDrawDate,
		&i.NextEstimatedPrize,
		&i.FetchedAt,
	)
	return i, err
}
